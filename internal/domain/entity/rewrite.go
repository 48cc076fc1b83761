// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
)

// Tone 改写后的语气
type Tone string

const (
	ToneFormal   Tone = "Formal"
	ToneInformal Tone = "Informal"
)

// Tones 表单下拉框的选项顺序，首项为默认值
var Tones = []Tone{ToneFormal, ToneInformal}

// Dialect 英语方言
type Dialect string

const (
	DialectAmerican Dialect = "American"
	DialectBritish  Dialect = "British"
)

// Dialects 表单下拉框的选项顺序，首项为默认值
var Dialects = []Dialect{DialectAmerican, DialectBritish}

// ParseTone 解析语气（大小写不敏感），空字符串返回默认值
func ParseTone(s string) (Tone, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Tones[0], nil
	}
	for _, t := range Tones {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tone %q", s)
}

// ParseDialect 解析方言（大小写不敏感），空字符串返回默认值
func ParseDialect(s string) (Dialect, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dialects[0], nil
	}
	for _, d := range Dialects {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dialect %q", s)
}

// RewriteRequest 一次交互的输入，仅在本次交互内存活
type RewriteRequest struct {
	Credential string
	Draft      string
	Tone       Tone
	Dialect    Dialect
}

// String 隐藏凭证，避免被日志输出
func (r RewriteRequest) String() string {
	return fmt.Sprintf("RewriteRequest{tone=%s dialect=%s draft_len=%d credential=%t}",
		r.Tone, r.Dialect, len(r.Draft), r.Credential != "")
}

// Completion 补全服务返回的结果
type Completion struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}
