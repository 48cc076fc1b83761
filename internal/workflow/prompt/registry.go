// Package prompt 管理内置的提示词模板
package prompt

import (
	"context"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"text-rewriter-api/internal/domain/entity"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptRewriteV1 PromptID = "rewrite_v1"
)

// 模板变量名
const (
	VarDraft   = "draft"
	VarTone    = "tone"
	VarDialect = "dialect"
)

var placeholderPattern = regexp.MustCompile(`\{\{|\}\}|\{(\w+)\}`)

// unknownPlaceholders 返回模板中没有对应变量的占位符，{{ 与 }} 是转义的花括号
func unknownPlaceholders(text string, vars map[string]any) []string {
	var missing []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if m[1] == "" {
			continue
		}
		if _, ok := vars[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	return missing
}

// Registry 缓存已解析的模板，可并发使用
type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
	texts map[PromptID]string
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
		texts: make(map[PromptID]string),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	userPath, err := resolvePromptFile(id)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	// 原始模板只有一条用户消息，不拆分 system prompt
	tpl := einoprompt.FromMessages(schema.FString, schema.UserMessage(user))
	r.cache[id] = tpl
	r.texts[id] = user
	return tpl, nil
}

// Compose 将请求字段代入改写模板，返回单条完整提示词
func (r *Registry) Compose(ctx context.Context, req entity.RewriteRequest) (string, error) {
	vars := map[string]any{
		VarDraft:   req.Draft,
		VarTone:    string(req.Tone),
		VarDialect: string(req.Dialect),
	}
	for name, v := range vars {
		if strings.TrimSpace(v.(string)) == "" {
			return "", fmt.Errorf("prompt variable %q is empty", name)
		}
	}

	tpl, err := r.ChatTemplate(PromptRewriteV1)
	if err != nil {
		return "", err
	}
	// 检查模板而不是结果：草稿本身可以包含花括号
	r.mu.RLock()
	text := r.texts[PromptRewriteV1]
	r.mu.RUnlock()
	if missing := unknownPlaceholders(text, vars); len(missing) > 0 {
		return "", fmt.Errorf("prompt %s: unresolved placeholders %v", PromptRewriteV1, missing)
	}

	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("format prompt %s: %w", PromptRewriteV1, err)
	}
	if len(msgs) != 1 || msgs[0] == nil {
		return "", fmt.Errorf("prompt %s: expected 1 message, got %d", PromptRewriteV1, len(msgs))
	}
	return msgs[0].Content, nil
}

func resolvePromptFile(id PromptID) (string, error) {
	switch id {
	case PromptRewriteV1:
		return "templates/rewrite_v1.user.txt", nil
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
