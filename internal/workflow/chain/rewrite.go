package chain

import (
	"context"
	"fmt"
	"strings"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/schema"

	"text-rewriter-api/internal/domain/entity"
	llmctx "text-rewriter-api/internal/domain/service"
	workflowport "text-rewriter-api/internal/workflow/port"
)

const workflowRewrite = "rewrite"

// RewriteChain 把组装好的提示词发送给补全服务，单次同步调用，不重试
type RewriteChain struct {
	factory workflowport.ChatModelFactory
}

func NewRewriteChain(factory workflowport.ChatModelFactory) *RewriteChain {
	return &RewriteChain{factory: factory}
}

// Invoke 以调用方凭证发起一次补全；错误原样返回
func (c *RewriteChain) Invoke(ctx context.Context, prompt, credential string) (*entity.Completion, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, workflowRewrite, c.factory.Provider())
	ctx = einocallbacks.InitCallbacks(ctx, &einocallbacks.RunInfo{
		Name:      workflowRewrite,
		Type:      c.factory.Provider(),
		Component: components.ComponentOfChatModel,
	})

	chatModel, err := c.factory.New(ctx, credential)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}

	out := &entity.Completion{
		Content: outMsg.Content,
		Model:   c.factory.Model(),
	}
	if meta := outMsg.ResponseMeta; meta != nil && meta.Usage != nil {
		out.PromptTokens = meta.Usage.PromptTokens
		out.CompletionTokens = meta.Usage.CompletionTokens
	}
	return out, nil
}
