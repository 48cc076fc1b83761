//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"text-rewriter-api/internal/application/rewrite"
	"text-rewriter-api/internal/config"
	"text-rewriter-api/internal/infrastructure/llm"
	"text-rewriter-api/internal/interfaces/http/handler"
	"text-rewriter-api/internal/interfaces/http/router"
	"text-rewriter-api/internal/workflow/chain"
	workflowport "text-rewriter-api/internal/workflow/port"
	"text-rewriter-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		StoreSet,
		RewriteSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// StoreSet Redis 与会话存储提供者集合
var StoreSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideHealthChecker,
	ProvideMemorySessionStore,
	ProvideSessionRepository,
)

// RewriteSet 改写流程提供者集合
var RewriteSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	prompt.NewRegistry,
	wire.Bind(new(rewrite.Composer), new(*prompt.Registry)),
	chain.NewRewriteChain,
	wire.Bind(new(rewrite.Invoker), new(*chain.RewriteChain)),
	rewrite.NewValidator,
	rewrite.NewPipeline,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewRewriteHandler,
	handler.NewFormHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
