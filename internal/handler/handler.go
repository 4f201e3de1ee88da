package handler

import (
	"errors"
	"net/http"
	"strconv"

	"cmenu/internal/service"
	"cmenu/pkg/response"

	"github.com/gin-gonic/gin"
)

// Permissions checked by the admin routes.
const (
	PermEditMenu       = "edit_menu"
	PermEditParameters = "edit_parameters"
	PermEditGreetings  = "edit_greetings"
	PermManageUsers    = "manage_users"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateID),
		errors.Is(err, service.ErrGroupInUse),
		errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrGroupNameRequired),
		errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, service.ErrInvalidGreeting):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid id"))
		return 0, false
	}
	return uint(id), true
}
