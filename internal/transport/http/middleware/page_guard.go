package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/usecase"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// PageGuard protects server-rendered pages. Unauthenticated visitors are
// redirected to the login page with the original path preserved in the
// callbackUrl query parameter. Authenticated visitors lacking the required
// role are redirected to their dashboard instead of seeing an error page.
func PageGuard(identity *usecase.IdentityService, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionTokenFromRequest(c)
		if token == "" {
			redirectToLogin(c)
			return
		}

		ident, err := identity.Resolve(c.Request.Context(), token)
		if err != nil {
			redirectToLogin(c)
			return
		}

		c.Set(IdentityKey, ident)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.SubjectID = ident.SubjectID
		}

		if len(roles) > 0 && !ident.HasAnyRole(roles...) {
			c.Redirect(http.StatusFound, dashboardPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	target := c.Request.URL.Path
	if raw := c.Request.URL.RawQuery; raw != "" {
		target += "?" + raw
	}

	location := loginPath + "?callbackUrl=" + url.QueryEscape(target)
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
