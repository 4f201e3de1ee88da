package handler

import (
	"net/http"

	"cmenu/internal/middleware"
	"cmenu/internal/service"
	"cmenu/pkg/response"

	"github.com/gin-gonic/gin"
)

type SetParameterRequest struct {
	Value          string `json:"value"`
	Comments       string `json:"comments"`
	UserModifiable *bool  `json:"user_modifiable"`
}

type ParameterHandler struct {
	params service.ParameterService
	auth   *middleware.Authenticator
}

func NewParameterHandler(params service.ParameterService, auth *middleware.Authenticator) *ParameterHandler {
	return &ParameterHandler{params: params, auth: auth}
}

func (h *ParameterHandler) RegisterRoutes(router *gin.RouterGroup) {
	params := router.Group("/parameters")
	{
		params.GET("", h.auth.RequirePermission(PermEditParameters), h.ListParameters)
		params.GET("/:name", h.GetParameter)
		params.PUT("/:name", h.auth.RequirePermission(PermEditParameters), h.SetParameter)
	}
}

func (h *ParameterHandler) ListParameters(c *gin.Context) {
	params, err := h.params.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, params))
}

// GetParameter handles GET /parameters/:name?default=
func (h *ParameterHandler) GetParameter(c *gin.Context) {
	name := c.Param("name")
	value, err := h.params.Get(c.Request.Context(), name, c.Query("default"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"name": name, "value": value}))
}

// SetParameter handles PUT /parameters/:name. Comments and user_modifiable
// only apply when the parameter is new.
func (h *ParameterHandler) SetParameter(c *gin.Context) {
	var req SetParameterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	opts := []service.ParameterOption{service.WithComments(req.Comments)}
	if req.UserModifiable != nil {
		opts = append(opts, service.WithUserModifiable(*req.UserModifiable))
	}
	p, err := h.params.Set(c.Request.Context(), c.Param("name"), req.Value, opts...)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p))
}
