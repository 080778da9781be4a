package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/usecase"
)

// SessionCookieName is the cookie carrying the session token for page requests.
const SessionCookieName = "market_session"

// SessionTokenFromRequest extracts the session token from the Authorization
// header or, failing that, the session cookie.
func SessionTokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie)
	}

	return ""
}

// RequireAuth resolves the caller identity from the session token and stores
// it in the request context. API callers without a valid session receive an
// opaque 403 so the response does not reveal whether authentication or
// authorization failed.
func RequireAuth(identity *usecase.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionTokenFromRequest(c)
		if token == "" {
			abortForbidden(c)
			return
		}

		ident, err := identity.Resolve(c.Request.Context(), token)
		if err != nil {
			abortForbidden(c)
			return
		}

		c.Set(IdentityKey, ident)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.SubjectID = ident.SubjectID
		}

		c.Next()
	}
}

// RequireRole checks that the resolved identity holds any of the given roles.
// Failures are indistinguishable from authentication failures on the wire.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		if !ok || !ident.Present() {
			abortForbidden(c)
			return
		}

		if !ident.HasAnyRole(roles...) {
			abortForbidden(c)
			return
		}

		c.Next()
	}
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
}

// GetIdentity retrieves the resolved identity from the gin context.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return domain.Identity{}, false
	}

	ident, ok := val.(domain.Identity)
	return ident, ok
}
