package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// ChatModelFactory 定义工作流层对 LLM ChatModel 的最小依赖（port）。
//
// 凭证由调用方逐次提供，返回的模型只在本次交互内使用。
type ChatModelFactory interface {
	New(ctx context.Context, credential string) (model.BaseChatModel, error)
	Provider() string
	Model() string
}
