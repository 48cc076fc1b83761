package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"text-rewriter-api/internal/application/rewrite"
	"text-rewriter-api/internal/config"
	"text-rewriter-api/internal/infrastructure/llm"
	"text-rewriter-api/internal/infrastructure/persistence/memory"
	"text-rewriter-api/internal/interfaces/http/handler"
	"text-rewriter-api/internal/interfaces/http/middleware"
	"text-rewriter-api/internal/workflow/chain"
	"text-rewriter-api/internal/workflow/prompt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "text-rewriter-api"
	cfg.Server.HTTP.Port = 8080
	cfg.LLM.Provider = llm.ProviderMock
	cfg.LLM.Model = "mock"
	cfg.Rewrite.MaxWords = 700
	cfg.Session.CookieName = "rewriter_session"
	cfg.Session.TTL = time.Hour
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) *Router {
	t.Helper()
	return newLimitedTestRouter(t, cfg, nil)
}

func newLimitedTestRouter(t *testing.T, cfg *config.Config, limiter middleware.RateLimiter) *Router {
	t.Helper()
	factory, err := llm.NewEinoFactory(cfg)
	if err != nil {
		t.Fatal(err)
	}
	pipeline := rewrite.NewPipeline(rewrite.NewValidator(cfg), prompt.NewRegistry(), chain.NewRewriteChain(factory))
	sessions := memory.NewSessionStore(cfg.Session.TTL)

	return New(cfg, &Handlers{
		Health:  handler.NewHealthHandler("test", nil),
		Rewrite: handler.NewRewriteHandler(pipeline, sessions),
		Form:    handler.NewFormHandler(pipeline, sessions),
	}, limiter)
}

// countingLimiter 每个键只放行前 n 次
type countingLimiter struct {
	n    int
	seen map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	if l.seen == nil {
		l.seen = make(map[string]int)
	}
	l.seen[key]++
	return l.seen[key] <= l.n, nil
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t, newTestConfig())

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/v1/options", http.StatusOK},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.Engine().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		if w.Code != tt.status {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, w.Code, tt.status)
		}
	}
}

func TestRewriteThroughMockProvider(t *testing.T) {
	r := newTestRouter(t, newTestConfig())

	body := `{"api_key":"local","draft":"meet me in the parking lot","tone":"Informal","dialect":"British"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/rewrite", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "meet me in the parking lot") {
		t.Fatalf("mock output missing draft: %s", w.Body.String())
	}
}

func TestMetricsOnSeparatePort(t *testing.T) {
	cfg := newTestConfig()
	cfg.Observability.Metrics.Port = 9090

	r := newTestRouter(t, cfg)
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("main server /metrics = %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	NewMetricsEngine(cfg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics server /metrics = %d", w.Code)
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	cfg := newTestConfig()
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.Limit = 1
	cfg.Security.RateLimit.Window = time.Minute
	limiter := &countingLimiter{n: 1}
	r := newLimitedTestRouter(t, cfg, limiter)

	post := func(path, contentType, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.Engine().ServeHTTP(w, req)
		return w
	}

	const form = "api_key=local&draft=hello+there&tone=Formal&dialect=American"
	if w := post("/", "application/x-www-form-urlencoded", form); w.Code != http.StatusOK {
		t.Fatalf("first form post = %d", w.Code)
	}
	w := post("/", "application/x-www-form-urlencoded", form)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second form post = %d, want 429", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") || !strings.Contains(w.Body.String(), "Too many requests") {
		t.Fatalf("form route should re-render the page: %s", w.Body.String())
	}

	const body = `{"api_key":"local","draft":"hello there"}`
	if w := post("/v1/rewrite", "application/json", body); w.Code != http.StatusOK {
		t.Fatalf("first api post = %d", w.Code)
	}
	w = post("/v1/rewrite", "application/json", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second api post = %d, want 429", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("api route should answer JSON, got %q", w.Header().Get("Content-Type"))
	}

	for key := range limiter.seen {
		if !strings.HasPrefix(key, "rewriter:ratelimit:") {
			t.Errorf("unexpected limiter key %q", key)
		}
	}
}
