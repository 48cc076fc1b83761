package rewrite

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"text-rewriter-api/internal/domain/entity"
	apperrors "text-rewriter-api/pkg/errors"
	"text-rewriter-api/pkg/logger"
	"text-rewriter-api/pkg/metrics"
	"text-rewriter-api/pkg/tracer"
)

// Composer 组装提示词
type Composer interface {
	Compose(ctx context.Context, req entity.RewriteRequest) (string, error)
}

// Invoker 调用补全服务
type Invoker interface {
	Invoke(ctx context.Context, prompt, credential string) (*entity.Completion, error)
}

// Observer 接收每一次状态迁移
type Observer func(from, to entity.PipelineState)

// Result 单次交互的结果
type Result struct {
	State            entity.PipelineState
	Prompt           string
	Output           string
	WordCount        int
	Model            string
	PromptTokens     int
	CompletionTokens int
	Elapsed          time.Duration
	Err              error
}

// Pipeline 单次改写交互：校验 → 组装 → 调用 → 输出
//
// 无重试、无缓存，每次 Run 都从 Idle 开始。
type Pipeline struct {
	validator *Validator
	composer  Composer
	invoker   Invoker
	now       func() time.Time
}

// NewPipeline 创建改写流水线
func NewPipeline(validator *Validator, composer Composer, invoker Invoker) *Pipeline {
	return &Pipeline{
		validator: validator,
		composer:  composer,
		invoker:   invoker,
		now:       time.Now,
	}
}

// Validator 返回校验器
func (p *Pipeline) Validator() *Validator {
	return p.validator
}

type runOptions struct {
	observer Observer
}

// RunOption 单次运行的可选项
type RunOption func(*runOptions)

// WithObserver 注册状态迁移观察者
func WithObserver(o Observer) RunOption {
	return func(ro *runOptions) {
		ro.observer = o
	}
}

// run 记录一次交互内的状态
type run struct {
	ctx      context.Context
	state    entity.PipelineState
	observer Observer
}

func (r *run) transition(next entity.PipelineState) {
	if !r.state.CanTransitionTo(next) {
		logger.Warn(r.ctx, "unexpected pipeline transition", "from", r.state, "to", next)
	}
	logger.Debug(r.ctx, "pipeline transition", "from", r.state, "to", next)
	if r.observer != nil {
		r.observer(r.state, next)
	}
	r.state = next
}

// Run 执行一次完整交互
func (p *Pipeline) Run(ctx context.Context, req entity.RewriteRequest, opts ...RunOption) *Result {
	var ro runOptions
	for _, opt := range opts {
		opt(&ro)
	}

	start := p.now()
	ctx, span := tracer.Start(ctx, "rewrite.pipeline", trace.WithAttributes(
		attribute.String("rewrite.tone", string(req.Tone)),
		attribute.String("rewrite.dialect", string(req.Dialect)),
	))
	defer span.End()

	r := &run{ctx: ctx, state: entity.StateIdle, observer: ro.observer}
	res := &Result{WordCount: WordCount(req.Draft)}
	span.SetAttributes(attribute.Int("rewrite.word_count", res.WordCount))
	metrics.DraftWordCount.Observe(float64(res.WordCount))

	finish := func(state entity.PipelineState, err error) *Result {
		if !state.IsTerminal() {
			logger.Warn(ctx, "pipeline finished in non-terminal state", "state", state)
		}
		r.transition(state)
		res.State = state
		res.Err = err
		res.Elapsed = p.now().Sub(start)

		reason := "ok"
		if err != nil {
			reason = string(apperrors.AsAppError(err).Code)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.PipelineTotal.WithLabelValues(string(state), reason).Inc()
		metrics.PipelineDuration.WithLabelValues(string(state)).Observe(res.Elapsed.Seconds())
		span.SetAttributes(attribute.String("rewrite.state", string(state)))

		logger.Info(ctx, "rewrite interaction finished",
			"state", state,
			"reason", reason,
			"word_count", res.WordCount,
			"elapsed_ms", res.Elapsed.Milliseconds(),
		)
		// 交互结束后回到 Idle，不保留任何状态
		r.transition(entity.StateIdle)
		return res
	}

	r.transition(entity.StateValidating)
	if err := p.validator.Validate(req); err != nil {
		return finish(entity.StateRejected, err)
	}

	r.transition(entity.StateComposingPrompt)
	prompt, err := p.composer.Compose(ctx, req)
	if err != nil {
		return finish(entity.StateFailed, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to compose prompt"))
	}
	res.Prompt = prompt

	r.transition(entity.StateInvoking)
	completion, err := p.invoker.Invoke(ctx, prompt, req.Credential)
	if err != nil {
		return finish(entity.StateFailed, apperrors.ErrProvider.WithError(err))
	}

	res.Output = completion.Content
	res.Model = completion.Model
	res.PromptTokens = completion.PromptTokens
	res.CompletionTokens = completion.CompletionTokens
	return finish(entity.StateRendered, nil)
}
