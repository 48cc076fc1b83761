package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"text-rewriter-api/internal/config"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// EinoFactory 为每次交互按用户凭证创建 Eino ChatModel
//
// 凭证因请求而异，因此不缓存模型实例。
type EinoFactory struct {
	config *config.LLMConfig
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) (*EinoFactory, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLM.Provider)) {
	case ProviderGroq, ProviderOpenAI, ProviderMock:
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
	return &EinoFactory{config: &cfg.LLM}, nil
}

// New 使用调用方凭证创建 ChatModel
func (f *EinoFactory) New(ctx context.Context, credential string) (model.BaseChatModel, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("credential is required")
	}

	if f.Provider() == ProviderMock {
		return &MockChatModel{Delay: 300 * time.Millisecond, ModelName: f.Model()}, nil
	}

	cfg := &openai.ChatModelConfig{
		APIKey:      credential,
		BaseURL:     f.config.BaseURL,
		Model:       f.config.Model,
		Temperature: ptrFloat32(float32(f.config.Temperature)),
		Timeout:     f.config.Timeout,
	}
	if f.config.MaxTokens > 0 {
		cfg.MaxTokens = &f.config.MaxTokens
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", f.Provider(), err)
	}
	return chatModel, nil
}

// Provider 返回规范化的提供商名称
func (f *EinoFactory) Provider() string {
	return strings.ToLower(strings.TrimSpace(f.config.Provider))
}

// Model 返回配置的模型名称
func (f *EinoFactory) Model() string {
	return f.config.Model
}

// Temperature 返回采样温度
func (f *EinoFactory) Temperature() float32 {
	return float32(f.config.Temperature)
}

func ptrFloat32(f float32) *float32 {
	return &f
}
