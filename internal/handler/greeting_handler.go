package handler

import (
	"net/http"

	"cmenu/internal/middleware"
	"cmenu/internal/service"
	"cmenu/pkg/response"

	"github.com/gin-gonic/gin"
)

type AddGreetingRequest struct {
	Text string `json:"text" binding:"required"`
}

type GreetingHandler struct {
	greetings service.GreetingService
	auth      *middleware.Authenticator
}

func NewGreetingHandler(greetings service.GreetingService, auth *middleware.Authenticator) *GreetingHandler {
	return &GreetingHandler{greetings: greetings, auth: auth}
}

func (h *GreetingHandler) RegisterRoutes(router *gin.RouterGroup) {
	greetings := router.Group("/greetings")
	{
		greetings.GET("", h.ListGreetings)
		greetings.GET("/random", h.RandomGreeting)
		greetings.POST("", h.auth.RequirePermission(PermEditGreetings), h.AddGreeting)
	}
}

func (h *GreetingHandler) ListGreetings(c *gin.Context) {
	greetings, err := h.greetings.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, greetings))
}

// RandomGreeting handles GET /greetings/random; text is empty when no
// greeting exists.
func (h *GreetingHandler) RandomGreeting(c *gin.Context) {
	text, err := h.greetings.Random(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"text": text}))
}

func (h *GreetingHandler) AddGreeting(c *gin.Context) {
	var req AddGreetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	g, err := h.greetings.Add(c.Request.Context(), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, g))
}
