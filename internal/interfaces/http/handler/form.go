package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"text-rewriter-api/internal/application/rewrite"
	"text-rewriter-api/internal/domain/entity"
	"text-rewriter-api/internal/domain/repository"
	"text-rewriter-api/internal/interfaces/http/dto"
	"text-rewriter-api/internal/interfaces/http/middleware"
	apperrors "text-rewriter-api/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

// FormTemplateName 表单页模板名
const FormTemplateName = "index.html"

// FormTemplates 解析内置的页面模板，供 gin 引擎注册
func FormTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// FormHandler 浏览器表单页
type FormHandler struct {
	pipeline *rewrite.Pipeline
	sessions repository.SessionRepository
}

// NewFormHandler 创建表单处理器
func NewFormHandler(pipeline *rewrite.Pipeline, sessions repository.SessionRepository) *FormHandler {
	return &FormHandler{
		pipeline: pipeline,
		sessions: sessions,
	}
}

// formView 表单页渲染数据
type formView struct {
	APIKey    string
	Draft     string
	Tone      string
	Dialect   string
	Tones     []string
	Dialects  []string
	MaxWords  int
	WordCount int
	Output    string
	Warning   string
	Error     string
	Submitted bool
}

func (h *FormHandler) newView(state *entity.FormState) *formView {
	opts := optionsResponse(h.pipeline.Validator().MaxWords())
	v := &formView{
		Draft:    state.Get(entity.FieldDraft),
		Tone:     state.Get(entity.FieldTone),
		Dialect:  state.Get(entity.FieldDialect),
		Tones:    opts.Tones,
		Dialects: opts.Dialects,
		MaxWords: opts.MaxWords,
	}
	if v.Tone == "" {
		v.Tone = opts.DefaultTone
	}
	if v.Dialect == "" {
		v.Dialect = opts.DefaultDialect
	}
	v.WordCount = rewrite.WordCount(v.Draft)
	return v
}

// Show 渲染表单，预填会话中保存的输入
func (h *FormHandler) Show(c *gin.Context) {
	state := loadFormState(c.Request.Context(), h.sessions, middleware.SessionID(c))
	c.HTML(http.StatusOK, FormTemplateName, h.newView(state))
}

// Submit 处理表单提交并在同一页面展示结果
func (h *FormHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	state := loadFormState(ctx, h.sessions, middleware.SessionID(c))

	var form dto.RewriteForm
	if err := c.ShouldBind(&form); err != nil {
		view := h.newView(state)
		view.Error = err.Error()
		c.HTML(http.StatusBadRequest, FormTemplateName, view)
		return
	}

	req, err := buildRequest(form.APIKey, form.Draft, form.Tone, form.Dialect)
	if err != nil {
		view := h.newView(state)
		view.Draft = form.Draft
		view.Error = apperrors.UserMessage(err)
		c.HTML(http.StatusBadRequest, FormTemplateName, view)
		return
	}

	rememberForm(c, h.sessions, state, req)

	view := h.newView(state)
	// 凭证只回填到提交它的这一页
	view.APIKey = req.Credential
	view.Submitted = true

	res := h.pipeline.Run(ctx, req)
	switch {
	case res.Err == nil:
		view.Output = res.Output
	case errors.Is(res.Err, apperrors.ErrEmptyDraft):
		// 尚未输入草稿，不展示任何提示
		view.Submitted = false
	case errors.Is(res.Err, apperrors.ErrMissingCredential):
		view.Warning = apperrors.UserMessage(res.Err)
	default:
		view.Error = apperrors.UserMessage(res.Err)
	}

	c.HTML(http.StatusOK, FormTemplateName, view)
}

// RateLimited 限流时重新渲染表单，保留本次输入
func (h *FormHandler) RateLimited(c *gin.Context) {
	state := loadFormState(c.Request.Context(), h.sessions, middleware.SessionID(c))
	view := h.newView(state)

	var form dto.RewriteForm
	if err := c.ShouldBind(&form); err == nil {
		if form.Draft != "" {
			view.Draft = form.Draft
			view.WordCount = rewrite.WordCount(form.Draft)
		}
		if form.Tone != "" {
			view.Tone = form.Tone
		}
		if form.Dialect != "" {
			view.Dialect = form.Dialect
		}
		view.APIKey = form.APIKey
	}
	view.Error = "Too many requests. Please wait a moment and try again."

	c.HTML(http.StatusTooManyRequests, FormTemplateName, view)
}
