// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"text-rewriter-api/internal/domain/entity"
	"text-rewriter-api/internal/domain/repository"
	"text-rewriter-api/internal/interfaces/http/middleware"
	apperrors "text-rewriter-api/pkg/errors"
	"text-rewriter-api/pkg/logger"
)

var timeNow = time.Now

// buildRequest 把表单或 JSON 字段转换为领域请求
func buildRequest(credential, draft, tone, dialect string) (entity.RewriteRequest, error) {
	t, err := entity.ParseTone(tone)
	if err != nil {
		return entity.RewriteRequest{}, apperrors.ErrInvalidParam.WithDetail(err.Error())
	}
	d, err := entity.ParseDialect(dialect)
	if err != nil {
		return entity.RewriteRequest{}, apperrors.ErrInvalidParam.WithDetail(err.Error())
	}
	return entity.RewriteRequest{
		Credential: strings.TrimSpace(credential),
		Draft:      draft,
		Tone:       t,
		Dialect:    d,
	}, nil
}

// bearerToken 读取 Authorization: Bearer <token>
func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// loadFormState 读取会话中的表单状态，不存在或读取失败时返回空状态
func loadFormState(ctx context.Context, sessions repository.SessionRepository, sessionID string) *entity.FormState {
	if sessions == nil || sessionID == "" {
		return entity.NewFormState()
	}
	state, err := sessions.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			logger.Warn(ctx, "failed to load session", "error", err)
		}
		return entity.NewFormState()
	}
	return state
}

// rememberForm 保存最近一次提交的表单输入；失败只记录日志
func rememberForm(c *gin.Context, sessions repository.SessionRepository, state *entity.FormState, req entity.RewriteRequest) {
	sessionID := middleware.SessionID(c)
	if sessions == nil || sessionID == "" {
		return
	}
	ctx := c.Request.Context()
	state.Remember(req, timeNow())
	if err := sessions.Save(ctx, sessionID, state); err != nil {
		logger.Warn(ctx, "failed to save session", "error", err)
	}
}
