package wire

import (
	"fmt"

	"text-rewriter-api/internal/config"
	"text-rewriter-api/internal/domain/repository"
	"text-rewriter-api/internal/infrastructure/persistence/memory"
	"text-rewriter-api/internal/infrastructure/persistence/redis"
	"text-rewriter-api/internal/interfaces/http/handler"
	"text-rewriter-api/internal/interfaces/http/middleware"
	"text-rewriter-api/internal/interfaces/http/router"
)

// App 应用依赖容器
type App struct {
	Router *router.Router
	// MemorySessions 使用内存会话存储时非 nil，需要定期清理
	MemorySessions *memory.SessionStore
}

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 提供限流器；没有 Redis 时不限流
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideHealthChecker 提供就绪检查依赖
func ProvideHealthChecker(client *redis.Client) handler.HealthChecker {
	if client == nil {
		return nil
	}
	return client
}

// ProvideMemorySessionStore 提供内存会话存储，使用 Redis 存储时返回 nil
func ProvideMemorySessionStore(cfg *config.Config) *memory.SessionStore {
	if cfg.Session.Store == "redis" {
		return nil
	}
	return memory.NewSessionStore(cfg.Session.TTL)
}

// ProvideSessionRepository 按配置选择会话存储
func ProvideSessionRepository(cfg *config.Config, client *redis.Client, mem *memory.SessionStore) (repository.SessionRepository, error) {
	switch cfg.Session.Store {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("session store redis requires cache.redis.enabled")
		}
		return redis.NewSessionStore(client, cfg.Session.KeyPrefix, cfg.Session.TTL), nil
	default:
		if mem == nil {
			return nil, fmt.Errorf("memory session store not initialized")
		}
		return mem, nil
	}
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, checker handler.HealthChecker) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, checker)
}
