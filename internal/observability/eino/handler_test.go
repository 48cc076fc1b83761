package eino

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"text-rewriter-api/internal/domain/service"
	"text-rewriter-api/pkg/metrics"
)

func TestChatModelHandlerRecordsSuccess(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := service.WithWorkflowProvider(context.Background(), "rewrite", "obs-test")
	info := &einocb.RunInfo{Name: "rewrite", Type: "obs-test"}

	calls := metrics.LLMCallTotal.WithLabelValues("rewrite", "obs-test", "m1", "success")
	prompt := metrics.LLMTokensUsed.WithLabelValues("rewrite", "obs-test", "m1", "prompt")
	beforeCalls := testutil.ToFloat64(calls)
	beforePrompt := testutil.ToFloat64(prompt)

	ctx = h.OnStart(ctx, info, &model.CallbackInput{Config: &model.Config{Model: "m1"}})
	h.OnEnd(ctx, info, &model.CallbackOutput{
		TokenUsage: &model.TokenUsage{PromptTokens: 40, CompletionTokens: 10},
	})

	if got := testutil.ToFloat64(calls) - beforeCalls; got != 1 {
		t.Fatalf("success calls delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(prompt) - beforePrompt; got != 40 {
		t.Fatalf("prompt tokens delta = %v, want 40", got)
	}
}

func TestChatModelHandlerRecordsError(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := service.WithWorkflowProvider(context.Background(), "rewrite", "obs-test-err")

	errs := metrics.LLMCallTotal.WithLabelValues("rewrite", "obs-test-err", "m2", "error")
	before := testutil.ToFloat64(errs)

	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Config: &model.Config{Model: "m2"}})
	h.OnError(ctx, nil, errors.New("401 invalid api key"))

	if got := testutil.ToFloat64(errs) - before; got != 1 {
		t.Fatalf("error calls delta = %v, want 1", got)
	}
}

func TestModelNameFallsBackToStartConfig(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := h.OnStart(context.Background(), nil, &model.CallbackInput{Config: &model.Config{Model: "from-start"}})
	if got := modelNameFromOutput(ctx, &model.CallbackOutput{}); got != "from-start" {
		t.Fatalf("model name = %q", got)
	}
	if got := modelNameFromOutput(context.Background(), nil); got != "" {
		t.Fatalf("model name without state = %q", got)
	}
}
