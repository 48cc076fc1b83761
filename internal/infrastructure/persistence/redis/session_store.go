package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"text-rewriter-api/internal/domain/entity"
	"text-rewriter-api/internal/domain/repository"
	"text-rewriter-api/pkg/metrics"
)

const storeName = "redis"

// SessionStore 以 JSON 形式把表单状态保存在 <prefix>:<session_id>
type SessionStore struct {
	client *Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// NewSessionStore 创建 Redis 会话存储
func NewSessionStore(client *Client, prefix string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

var _ repository.SessionRepository = (*SessionStore)(nil)

// Key 构建会话键
func (s *SessionStore) Key(sessionID string) string {
	if s.prefix == "" {
		return sessionID
	}
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}

// Load 读取会话
//
// 同一会话的并发读取（例如多个标签页同时打开）合并为一次 GET。
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*entity.FormState, error) {
	key := s.Key(sessionID)
	ctx, span := tracer.Start(ctx, "session.Load",
		trace.WithAttributes(attribute.String("session.key", key)))
	defer span.End()

	// 共享的读取不随发起者的请求取消
	loadCtx := context.WithoutCancel(ctx)
	raw, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.client.Get(loadCtx, key)
	})
	span.SetAttributes(attribute.Bool("session.shared", shared))

	if err != nil {
		if IsNil(err) {
			metrics.SessionStoreOps.WithLabelValues(storeName, "load", "miss").Inc()
			return nil, repository.ErrSessionNotFound
		}
		metrics.SessionStoreOps.WithLabelValues(storeName, "load", "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("load session: %w", err)
	}

	// 每个调用方各自反序列化，拿到独立的副本
	state := entity.NewFormState()
	if err := json.Unmarshal(raw.([]byte), state); err != nil {
		metrics.SessionStoreOps.WithLabelValues(storeName, "load", "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if state.Values == nil {
		state.Values = make(map[string]string)
	}

	metrics.SessionStoreOps.WithLabelValues(storeName, "load", "hit").Inc()
	return state, nil
}

// Save 写入会话并刷新过期时间
func (s *SessionStore) Save(ctx context.Context, sessionID string, state *entity.FormState) error {
	key := s.Key(sessionID)
	ctx, span := tracer.Start(ctx, "session.Save",
		trace.WithAttributes(
			attribute.String("session.key", key),
			attribute.Int64("session.ttl_ms", s.ttl.Milliseconds()),
		))
	defer span.End()

	b, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, key, b, s.ttl); err != nil {
		metrics.SessionStoreOps.WithLabelValues(storeName, "save", "error").Inc()
		return fmt.Errorf("save session: %w", err)
	}
	metrics.SessionStoreOps.WithLabelValues(storeName, "save", "ok").Inc()
	return nil
}

// Delete 删除会话
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.Key(sessionID)); err != nil {
		metrics.SessionStoreOps.WithLabelValues(storeName, "delete", "error").Inc()
		return fmt.Errorf("delete session: %w", err)
	}
	metrics.SessionStoreOps.WithLabelValues(storeName, "delete", "ok").Inc()
	return nil
}
