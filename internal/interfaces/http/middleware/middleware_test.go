package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIDHeader)
	if uuid.Validate(id) != nil {
		t.Fatalf("generated id %q is not a uuid", id)
	}
	if w.Body.String() != id {
		t.Fatalf("context id %q != header id %q", w.Body.String(), id)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	w = serve(engine, req)
	if got := w.Header().Get(RequestIDHeader); got != "client-id-1" {
		t.Fatalf("incoming id not kept: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	w = serve(engine, req)
	if got := w.Header().Get(RequestIDHeader); uuid.Validate(got) != nil {
		t.Fatalf("oversized id should be replaced, got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/", func(*gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal server error") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RateLimitConfig
		limiter *fakeLimiter
		status  int
		checked bool
	}{
		{"disabled", RateLimitConfig{Enabled: false}, &fakeLimiter{allow: false}, http.StatusOK, false},
		{"allowed", RateLimitConfig{Enabled: true}, &fakeLimiter{allow: true}, http.StatusOK, true},
		{"rejected", RateLimitConfig{Enabled: true}, &fakeLimiter{allow: false}, http.StatusTooManyRequests, true},
		{"limiter down fails open", RateLimitConfig{Enabled: true}, &fakeLimiter{err: errors.New("dial tcp")}, http.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.POST("/v1/rewrite", RateLimit(tt.cfg, tt.limiter), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := serve(engine, httptest.NewRequest(http.MethodPost, "/v1/rewrite", nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if (len(tt.limiter.keys) > 0) != tt.checked {
				t.Fatalf("limiter keys = %v", tt.limiter.keys)
			}
			if tt.checked && !strings.HasPrefix(tt.limiter.keys[0], "ratelimit:") {
				t.Fatalf("key = %q", tt.limiter.keys[0])
			}
		})
	}
}

func TestRateLimitKey(t *testing.T) {
	tests := []struct {
		prefix, client, endpoint string
		want                     string
	}{
		{"", "10.0.0.1", "POST:/v1/rewrite", "ratelimit:10.0.0.1:POST:/v1/rewrite"},
		{"rewriter:rl", "10.0.0.1", "POST:/", "rewriter:rl:10.0.0.1:POST:/"},
	}
	for _, tt := range tests {
		if got := RateLimitKey(tt.prefix, tt.client, tt.endpoint); got != tt.want {
			t.Errorf("RateLimitKey(%q, %q, %q) = %q, want %q", tt.prefix, tt.client, tt.endpoint, got, tt.want)
		}
	}
}

func TestRateLimitUsesRouteKey(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	engine := gin.New()
	engine.POST("/v1/rewrite", RateLimit(RateLimitConfig{Enabled: true, KeyPrefix: "rl"}, limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/rewrite", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	serve(engine, req)

	if len(limiter.keys) != 1 || limiter.keys[0] != "rl:10.1.2.3:POST:/v1/rewrite" {
		t.Fatalf("keys = %v", limiter.keys)
	}
}

func TestRateLimitOnLimited(t *testing.T) {
	limiter := &fakeLimiter{allow: false}
	reached := false
	engine := gin.New()
	engine.POST("/", RateLimit(RateLimitConfig{
		Enabled: true,
		OnLimited: func(c *gin.Context) {
			c.String(http.StatusTooManyRequests, "slow down")
		},
	}, limiter), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	w := serve(engine, httptest.NewRequest(http.MethodPost, "/", nil))
	if w.Code != http.StatusTooManyRequests || w.Body.String() != "slow down" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}
	if reached {
		t.Fatal("handler ran after rate limit")
	}
}

func TestRateLimitNilLimiter(t *testing.T) {
	engine := gin.New()
	engine.GET("/", RateLimit(RateLimitConfig{Enabled: true}, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	if w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSessionCookie(t *testing.T) {
	engine := gin.New()
	engine.Use(Session(SessionConfig{CookieName: "sid", TTL: time.Hour}))
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" {
		t.Fatalf("cookies = %v", cookies)
	}
	first := cookies[0].Value
	if uuid.Validate(first) != nil || w.Body.String() != first {
		t.Fatalf("session id = %q body = %q", first, w.Body.String())
	}
	if !cookies[0].HttpOnly || cookies[0].MaxAge != 3600 {
		t.Fatalf("cookie attrs = %+v", cookies[0])
	}

	// 已有会话保持不变
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: first})
	w = serve(engine, req)
	if w.Body.String() != first {
		t.Fatalf("session id changed: %q -> %q", first, w.Body.String())
	}

	// 非法 ID 被替换
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})
	w = serve(engine, req)
	if uuid.Validate(w.Body.String()) != nil {
		t.Fatalf("invalid session id kept: %q", w.Body.String())
	}
}
