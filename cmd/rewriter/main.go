// Package main 文本改写服务入口
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"text-rewriter-api/internal/config"
	"text-rewriter-api/internal/interfaces/http/router"
	einoobs "text-rewriter-api/internal/observability/eino"
	"text-rewriter-api/internal/wire"
	"text-rewriter-api/pkg/logger"
	"text-rewriter-api/pkg/tracer"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// sessionSweepInterval 内存会话的清理间隔
const sessionSweepInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		logger.Default().Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.FromContext(ctx)
	log.Info("starting text-rewriter-api",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
		"llm_provider", cfg.LLM.Provider,
		"llm_model", cfg.LLM.Model,
		"session_store", cfg.Session.Store,
	)

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Env,
		Endpoint:       cfg.Observability.Tracing.Endpoint,
		SampleRate:     cfg.Observability.Tracing.SampleRate,
		Enabled:        cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 初始化 Eino 全局 callbacks（指标/追踪）
	einoobs.Init()

	app, cleanupApp, err := wire.InitializeApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer cleanupApp()

	servers := []*http.Server{newServer(cfg, cfg.Server.HTTP.Port, app.Router.Engine())}
	if cfg.SeparateMetricsServer() {
		servers = append(servers, newServer(cfg, cfg.Observability.Metrics.Port, router.NewMetricsEngine(cfg)))
	}

	var background []func(context.Context)
	if app.MemorySessions != nil {
		background = append(background, func(ctx context.Context) {
			app.MemorySessions.Run(ctx, sessionSweepInterval)
		})
	}

	if err := serve(ctx, servers, background, shutdownTimeout(cfg)); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

// serve 运行所有 HTTP 服务和后台任务，直到 ctx 结束或任一服务失败，然后优雅关闭
func serve(ctx context.Context, servers []*http.Server, background []func(context.Context), timeout time.Duration) error {
	log := logger.FromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			log.Info("http server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	for _, task := range background {
		task := task
		g.Go(func() error {
			task(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newServer(cfg *config.Config, port int, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, port),
		Handler:      h,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.HTTP.ShutdownTimeout > 0 {
		return cfg.Server.HTTP.ShutdownTimeout
	}
	return 30 * time.Second
}
