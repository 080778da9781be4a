package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/transport/http/middleware"
	"github.com/firuln/cepet-deal-sub004/internal/usecase"
)

// UserHandler exposes administrative user endpoints.
type UserHandler struct {
	service *usecase.UserService
}

// NewUserHandler constructs a new handler instance.
func NewUserHandler(service *usecase.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers godoc
// @Summary List marketplace users
// @Description Returns a paginated list of users for the admin console.
// @Tags Admin
// @Security Bearer
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} UserListResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "user service unavailable"))
		return
	}

	actor, _ := middleware.GetIdentity(c)
	page, pageSize := paginationParams(c)

	users, err := h.service.ListUsers(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnauthenticated), errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		}
		return
	}

	response := UserListResponse{Users: make([]UserSummary, 0, len(users))}
	for _, u := range users {
		response.Users = append(response.Users, newUserSummary(u))
	}

	c.JSON(http.StatusOK, response)
}

func paginationParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
