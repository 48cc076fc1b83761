// Package rewrite 实现草稿改写流程：校验、组装提示词、调用补全服务、输出结果
package rewrite

import (
	"fmt"
	"strings"

	"text-rewriter-api/internal/config"
	"text-rewriter-api/internal/domain/entity"
	apperrors "text-rewriter-api/pkg/errors"
)

// DefaultMaxWords 草稿词数上限
const DefaultMaxWords = 700

// Validator 在任何外部调用之前检查请求
type Validator struct {
	maxWords int
}

// NewValidator 创建校验器
func NewValidator(cfg *config.Config) *Validator {
	maxWords := cfg.Rewrite.MaxWords
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Validator{maxWords: maxWords}
}

// MaxWords 返回词数上限
func (v *Validator) MaxWords() int {
	return v.maxWords
}

// WordCount 按空白切分计数
//
// 这不是模型分词器的 token 数，只是粗略的长度保护。
func WordCount(draft string) int {
	return len(strings.Fields(draft))
}

// ValidateLength 词数超过上限时返回 ErrDraftTooLong
func (v *Validator) ValidateLength(draft string) error {
	n := WordCount(draft)
	if n <= v.maxWords {
		return nil
	}
	return apperrors.New(apperrors.CodeDraftTooLong,
		fmt.Sprintf("Please enter a shorter text. The maximum length is %d words.", v.maxWords)).
		WithDetail(fmt.Sprintf("draft has %d words", n))
}

// ValidateCredential 凭证为空时返回 ErrMissingCredential
func (v *Validator) ValidateCredential(credential string) error {
	if strings.TrimSpace(credential) == "" {
		return apperrors.ErrMissingCredential
	}
	return nil
}

// Validate 依次检查长度、草稿非空、凭证
//
// 草稿为空时不提示缺少凭证：用户还没有开始输入。
func (v *Validator) Validate(req entity.RewriteRequest) error {
	if err := v.ValidateLength(req.Draft); err != nil {
		return err
	}
	if strings.TrimSpace(req.Draft) == "" {
		return apperrors.ErrEmptyDraft
	}
	return v.ValidateCredential(req.Credential)
}
