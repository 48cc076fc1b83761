package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// MockChatModel 本地开发用的模拟模型，不访问外部服务
//
// 回显提示词中的草稿，并补上一句问候语。
type MockChatModel struct {
	Delay     time.Duration
	ModelName string
}

// IsCallbacksEnabled 由模型自己触发回调
func (m *MockChatModel) IsCallbacksEnabled() bool {
	return true
}

func (m *MockChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	conf := &model.Config{Model: m.ModelName}
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: input, Config: conf})

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			err := fmt.Errorf("mock: %w", ctx.Err())
			callbacks.OnError(ctx, err)
			return nil, err
		}
	}

	var prompt string
	for _, msg := range input {
		if msg != nil && msg.Role == schema.User {
			prompt = msg.Content
		}
	}

	draft := extractSlot(prompt, "DRAFT:")
	tone := extractSlot(prompt, "TONE:")
	dialect := extractSlot(prompt, "DIALECT:")

	content := fmt.Sprintf("Hello, and thank you for reading. (%s, %s)\n\n%s", tone, dialect, draft)
	promptTokens := len(strings.Fields(prompt))
	completionTokens := len(strings.Fields(content))

	out := &schema.Message{
		Role:    schema.Assistant,
		Content: content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: "stop",
			Usage: &schema.TokenUsage{
				PromptTokens:     promptTokens,
				CompletionTokens: completionTokens,
				TotalTokens:      promptTokens + completionTokens,
			},
		},
	}
	callbacks.OnEnd(ctx, &model.CallbackOutput{
		Message: out,
		Config:  conf,
		TokenUsage: &model.TokenUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	})
	return out, nil
}

func (m *MockChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// extractSlot 读取 "LABEL: value" 行的值；草稿可能跨行，取到下一个标签为止
func extractSlot(prompt, label string) string {
	idx := strings.Index(prompt, label)
	if idx < 0 {
		return ""
	}
	rest := prompt[idx+len(label):]
	for _, next := range []string{"\nTONE:", "\nDIALECT:", "\n\nYOUR "} {
		if end := strings.Index(rest, next); end >= 0 {
			rest = rest[:end]
		}
	}
	return strings.TrimSpace(rest)
}
