package handler

import (
	"github.com/gin-gonic/gin"

	"text-rewriter-api/internal/application/rewrite"
	"text-rewriter-api/internal/domain/entity"
	"text-rewriter-api/internal/domain/repository"
	"text-rewriter-api/internal/interfaces/http/dto"
	"text-rewriter-api/internal/interfaces/http/middleware"
	apperrors "text-rewriter-api/pkg/errors"
)

// RewriteHandler JSON 改写接口
type RewriteHandler struct {
	pipeline *rewrite.Pipeline
	sessions repository.SessionRepository
}

// NewRewriteHandler 创建改写处理器
func NewRewriteHandler(pipeline *rewrite.Pipeline, sessions repository.SessionRepository) *RewriteHandler {
	return &RewriteHandler{
		pipeline: pipeline,
		sessions: sessions,
	}
}

// Rewrite 改写草稿
// @Summary 改写草稿
// @Tags Rewrite
// @Accept json
// @Produce json
// @Param body body dto.RewriteRequest true "改写请求"
// @Success 200 {object} dto.Response[dto.RewriteResponse]
// @Router /v1/rewrite [post]
func (h *RewriteHandler) Rewrite(c *gin.Context) {
	var body dto.RewriteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}

	credential := body.APIKey
	if credential == "" {
		credential = bearerToken(c)
	}

	req, err := buildRequest(credential, body.Draft, body.Tone, body.Dialect)
	if err != nil {
		dto.AppError(c, err)
		return
	}

	ctx := c.Request.Context()
	state := loadFormState(ctx, h.sessions, middleware.SessionID(c))
	rememberForm(c, h.sessions, state, req)

	res := h.pipeline.Run(ctx, req)
	if res.Err != nil {
		dto.AppError(c, res.Err)
		return
	}

	dto.Success(c, dto.RewriteResponse{
		Output:           res.Output,
		State:            string(res.State),
		WordCount:        res.WordCount,
		Model:            res.Model,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		ElapsedMs:        res.Elapsed.Milliseconds(),
	})
}

// Options 返回表单选项
// @Summary 表单选项
// @Tags Rewrite
// @Produce json
// @Success 200 {object} dto.Response[dto.OptionsResponse]
// @Router /v1/options [get]
func (h *RewriteHandler) Options(c *gin.Context) {
	dto.Success(c, optionsResponse(h.pipeline.Validator().MaxWords()))
}

func optionsResponse(maxWords int) dto.OptionsResponse {
	resp := dto.OptionsResponse{
		DefaultTone:    string(entity.Tones[0]),
		DefaultDialect: string(entity.Dialects[0]),
		MaxWords:       maxWords,
	}
	for _, t := range entity.Tones {
		resp.Tones = append(resp.Tones, string(t))
	}
	for _, d := range entity.Dialects {
		resp.Dialects = append(resp.Dialects, string(d))
	}
	return resp
}
