package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/firuln/cepet-deal-sub004/internal/infra/config"
	httproutes "github.com/firuln/cepet-deal-sub004/internal/transport/http/routes"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}

	return httproutes.Register(httproutes.Dependencies{
		Config: cfg,
		Logger: logger,
	})
}

func TestCORSHeadersFollowConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := httproutes.Register(httproutes.Dependencies{
		Config: &config.AppConfig{
			App:  config.AppSettings{Env: "test"},
			CORS: config.CORSSettings{AllowedOrigins: []string{"https://cepet-deal.example.com"}},
		},
		Logger: zap.NewNop(),
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://cepet-deal.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://cepet-deal.example.com" {
		t.Fatalf("unexpected allow-origin header: %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestAdminPageRedirectsAnonymousVisitor(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/login?callbackUrl=%2Fadmin" {
		t.Fatalf("unexpected redirect target: %s", got)
	}
}

func TestAdminAPIRejectsAnonymousCaller(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/admin/users/user-1/toggle-finance", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"error":"Forbidden"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

// The moderate route shares the /listings/:id segment with the toggle
// routes; registering it must not conflict with their wildcard name.
func TestModerateRouteRegistersAlongsideToggleRoutes(t *testing.T) {
	r := newTestEngine()

	for _, path := range []string{
		"/api/v1/admin/listings/l1/moderate",
		"/api/v1/admin/listings/l1/toggle-featured",
		"/api/v1/admin/listings/l1/toggle-published",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, path, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected status 403 for %s, got %d", path, w.Code)
		}
	}
}
