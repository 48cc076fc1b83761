// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"errors"

	"text-rewriter-api/internal/domain/entity"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository 表单会话存储接口
type SessionRepository interface {
	// Load 读取会话的表单状态，不存在时返回 ErrSessionNotFound
	Load(ctx context.Context, sessionID string) (*entity.FormState, error)
	// Save 写入会话的表单状态并刷新过期时间
	Save(ctx context.Context, sessionID string, state *entity.FormState) error
	// Delete 删除会话
	Delete(ctx context.Context, sessionID string) error
}
