package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/transport/http/middleware"
)

// IdentityHandler exposes the authenticated caller's own identity.
type IdentityHandler struct{}

// NewIdentityHandler constructs a new handler instance.
func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{}
}

// Me returns the subject, email, and role resolved from the session token.
func (h *IdentityHandler) Me(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok || !ident.Present() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, IdentityResponse{
		SubjectID: ident.SubjectID,
		Email:     ident.Email,
		Role:      string(ident.Role),
	})
}
