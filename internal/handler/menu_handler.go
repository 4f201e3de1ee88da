package handler

import (
	"errors"
	"net/http"

	"cmenu/internal/menu"
	"cmenu/internal/middleware"
	"cmenu/internal/repository"
	"cmenu/internal/service"
	"cmenu/pkg/pagination"
	"cmenu/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
	Info string `json:"info"`
	Tier string `json:"tier"`
	ID   *uint  `json:"id"`
}

type MenuHandler struct {
	bootstrap service.BootstrapService
	groups    repository.GroupRepository
	nav       *repository.Navigator
	auth      *middleware.Authenticator
}

func NewMenuHandler(bootstrap service.BootstrapService, groups repository.GroupRepository, nav *repository.Navigator, auth *middleware.Authenticator) *MenuHandler {
	return &MenuHandler{bootstrap: bootstrap, groups: groups, nav: nav, auth: auth}
}

func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup) {
	groups := router.Group("/menu-groups")
	{
		groups.GET("", h.ListGroups)
		groups.GET("/:id/items", h.ListItems)
		groups.POST("", h.auth.RequirePermission(PermEditMenu), h.CreateGroup)
		groups.DELETE("/:id", h.auth.RequirePermission(PermEditMenu), h.DeleteGroup)
	}
	router.DELETE("/menu-items/:id", h.auth.RequirePermission(PermEditMenu), h.DeleteItem)
}

// ListGroups handles GET /menu-groups?page=&limit=
func (h *MenuHandler) ListGroups(c *gin.Context) {
	p := pagination.Parse(c)
	groups, total, err := h.groups.ListPage(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.NewPage(groups, total, p)))
}

// ListItems handles GET /menu-groups/:id/items
func (h *MenuHandler) ListItems(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := h.groups.FindByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = service.ErrGroupNotFound
		}
		fail(c, err)
		return
	}
	items, err := h.nav.ItemsOf(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateGroup handles POST /menu-groups and seeds the group's default menu.
func (h *MenuHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	tier, err := menu.ParseTier(req.Tier)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	group, items, err := h.bootstrap.CreateGroup(c.Request.Context(), service.GroupSpec{
		Name: req.Name,
		Info: req.Info,
		Tier: tier,
		ID:   req.ID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{
		"group": group,
		"items": items,
	}))
}

// DeleteGroup handles DELETE /menu-groups/:id
func (h *MenuHandler) DeleteGroup(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.bootstrap.DeleteGroup(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteItem handles DELETE /menu-items/:id
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.bootstrap.DeleteItem(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
