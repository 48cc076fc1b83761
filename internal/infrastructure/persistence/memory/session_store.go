// Package memory 提供进程内的会话存储
package memory

import (
	"context"
	"sync"
	"time"

	"text-rewriter-api/internal/domain/entity"
	"text-rewriter-api/internal/domain/repository"
	"text-rewriter-api/pkg/metrics"
)

const storeName = "memory"

type sessionEntry struct {
	state     *entity.FormState
	expiresAt time.Time
}

// SessionStore 带过期时间的进程内会话存储
//
// 多实例部署时会话不共享，此时应使用 redis 存储。
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewSessionStore 创建内存会话存储，ttl <= 0 表示永不过期
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		entries: make(map[string]sessionEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

var _ repository.SessionRepository = (*SessionStore)(nil)

// Load 读取会话
func (s *SessionStore) Load(_ context.Context, sessionID string) (*entity.FormState, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || s.expired(e) {
		metrics.SessionStoreOps.WithLabelValues(storeName, "load", "miss").Inc()
		return nil, repository.ErrSessionNotFound
	}
	metrics.SessionStoreOps.WithLabelValues(storeName, "load", "hit").Inc()
	return cloneState(e.state), nil
}

// Save 写入会话并刷新过期时间
func (s *SessionStore) Save(_ context.Context, sessionID string, state *entity.FormState) error {
	e := sessionEntry{state: cloneState(state)}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[sessionID] = e
	s.mu.Unlock()

	metrics.SessionStoreOps.WithLabelValues(storeName, "save", "ok").Inc()
	return nil
}

// Delete 删除会话
func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()

	metrics.SessionStoreOps.WithLabelValues(storeName, "delete", "ok").Inc()
	return nil
}

// Sweep 清理已过期的会话，返回清理数量
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Run 按间隔清理过期会话，直到 ctx 结束
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len 当前会话数（含未清理的过期会话）
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *SessionStore) expired(e sessionEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

func cloneState(in *entity.FormState) *entity.FormState {
	out := entity.NewFormState()
	if in == nil {
		return out
	}
	for k, v := range in.Values {
		out.Values[k] = v
	}
	out.UpdatedAt = in.UpdatedAt
	return out
}
