package handlers

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/transport/http/middleware"
)

// PageHandler serves minimal server-rendered pages. The storefront proper is
// a separate frontend; these pages exist for the login flow and the guarded
// admin console shell.
type PageHandler struct{}

// NewPageHandler constructs a new handler instance.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func renderPage(c *gin.Context, status int, title, body string) {
	page := fmt.Sprintf(
		"<!DOCTYPE html><html><head><title>%s</title></head><body>%s</body></html>",
		html.EscapeString(title), body,
	)
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

// Login renders the login page. The callbackUrl query parameter, when set,
// names the page to return to after a successful sign-in.
func (h *PageHandler) Login(c *gin.Context) {
	callback := c.Query("callbackUrl")

	body := `<h1>Sign in</h1><form method="post" action="/login">`
	if callback != "" {
		body += fmt.Sprintf(`<input type="hidden" name="callbackUrl" value="%s">`, html.EscapeString(callback))
	}
	body += `<input name="email" type="email" placeholder="Email">` +
		`<input name="password" type="password" placeholder="Password">` +
		`<button type="submit">Sign in</button></form>`

	renderPage(c, http.StatusOK, "Sign in", body)
}

// Dashboard renders the landing page for signed-in visitors.
func (h *PageHandler) Dashboard(c *gin.Context) {
	ident, _ := middleware.GetIdentity(c)

	body := fmt.Sprintf("<h1>Dashboard</h1><p>Signed in as %s (%s)</p>",
		html.EscapeString(ident.Email), html.EscapeString(string(ident.Role)))

	renderPage(c, http.StatusOK, "Dashboard", body)
}

// AdminHome renders the admin console shell.
func (h *PageHandler) AdminHome(c *gin.Context) {
	body := `<h1>Admin</h1><ul>` +
		`<li><a href="/admin/users">Users</a></li>` +
		`<li><a href="/admin/listings">Listings</a></li>` +
		`<li><a href="/admin/articles/new">New article</a></li>` +
		`</ul>`

	renderPage(c, http.StatusOK, "Admin", body)
}

// AdminArticleNew renders the article composer page.
func (h *PageHandler) AdminArticleNew(c *gin.Context) {
	body := `<h1>New article</h1><form method="post" action="/api/v1/admin/articles">` +
		`<input name="title" placeholder="Title">` +
		`<textarea name="body" placeholder="Body"></textarea>` +
		`<button type="submit">Save draft</button></form>`

	renderPage(c, http.StatusOK, "New article", body)
}
