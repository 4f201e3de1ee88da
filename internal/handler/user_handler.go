package handler

import (
	"net/http"

	"cmenu/internal/middleware"
	"cmenu/internal/service"
	"cmenu/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Permissions string `json:"permissions"`
	IsSuperuser bool   `json:"is_superuser"`
	GroupRef    *uint  `json:"group_ref"`
}

type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

type UserHandler struct {
	userService service.UserService
	auth        *middleware.Authenticator
}

// NewUserHandler sets up the routing dependencies for User endpoints
func NewUserHandler(userService service.UserService, auth *middleware.Authenticator) *UserHandler {
	return &UserHandler{userService: userService, auth: auth}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.auth.RequirePermission(), h.GetMe)
		auth.PUT("/password", h.auth.RequirePermission(), h.ChangePassword)
	}

	users := router.Group("/users")
	{
		users.POST("", h.auth.RequirePermission(PermManageUsers), h.CreateUser)
		users.GET("/:id", h.auth.RequirePermission(PermManageUsers), h.GetUserByID)
		users.PUT("/:id/password", h.auth.RequirePermission(PermManageUsers), h.SetPassword)
	}
}

// Login handles POST /auth/login to authenticate and return a JWT token
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	tokenRes, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SetTokenCookie(c, tokenRes.Token)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokenRes))
}

// Logout handles POST /auth/logout to clear the auth cookie
func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Logged out"))
}

// GetMe handles GET /auth/me to return the authenticated user
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ChangePassword handles PUT /auth/password for the authenticated user
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
		return
	}
	h.setPassword(c, user.ID)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), service.NewUser{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Permissions: req.Permissions,
		IsSuperuser: req.IsSuperuser,
		GroupRef:    req.GroupRef,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// SetPassword handles PUT /users/:id/password
func (h *UserHandler) SetPassword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.setPassword(c, id)
}

func (h *UserHandler) setPassword(c *gin.Context, id uint) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	if err := h.userService.SetPassword(c.Request.Context(), id, req.Password); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
