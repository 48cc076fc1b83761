// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"text-rewriter-api/internal/config"
	"text-rewriter-api/internal/interfaces/http/handler"
	"text-rewriter-api/internal/interfaces/http/middleware"
)

const rateLimitKeyPrefix = "rewriter:ratelimit"

// Handlers 路由依赖的处理器
type Handlers struct {
	Health  *handler.HealthHandler
	Rewrite *handler.RewriteHandler
	Form    *handler.FormHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *Handlers
	limiter  middleware.RateLimiter
}

// New 创建新的路由器，limiter 为 nil 时不限流
func New(cfg *config.Config, handlers *Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(handler.FormTemplates())

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置全局中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	// 指标未配置独立端口时挂载在主服务上
	if r.cfg.Observability.Metrics.Enabled && !r.cfg.SeparateMetricsServer() {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	rl := middleware.RateLimitConfig{
		Enabled:   r.cfg.Security.RateLimit.Enabled,
		Limit:     r.cfg.Security.RateLimit.Limit,
		Window:    r.cfg.Security.RateLimit.Window,
		KeyPrefix: rateLimitKeyPrefix,
	}
	apiLimit := middleware.RateLimit(rl, r.limiter)

	// 表单页被限流时返回页面而不是 JSON
	formRL := rl
	formRL.OnLimited = r.handlers.Form.RateLimited
	formLimit := middleware.RateLimit(formRL, r.limiter)

	session := middleware.Session(middleware.SessionConfig{
		CookieName: r.cfg.Session.CookieName,
		TTL:        r.cfg.Session.TTL,
		Secure:     r.cfg.Session.Secure,
	})

	RegisterFormRoutes(r.engine.Group("", session), r.handlers.Form, formLimit)
	RegisterV1Routes(r.engine.Group("/v1", session), r.handlers.Rewrite, apiLimit)
}

// NewMetricsEngine 独立端口上的指标服务
func NewMetricsEngine(cfg *config.Config) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.GET(cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	return engine
}
