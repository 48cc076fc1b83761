package entity

import "time"

// 表单字段的稳定标识，用作会话存储的键
const (
	FieldDraft   = "draft_input"
	FieldTone    = "option_tone"
	FieldDialect = "option_dialect"
)

// FormState 会话内保留的最近一次表单输入
//
// 凭证不在其中：它只随提交它的那次请求存在。
type FormState struct {
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewFormState 创建空表单状态
func NewFormState() *FormState {
	return &FormState{Values: make(map[string]string)}
}

// Get 读取字段值
func (f *FormState) Get(field string) string {
	if f == nil || f.Values == nil {
		return ""
	}
	return f.Values[field]
}

// Set 写入字段值
func (f *FormState) Set(field, value string) {
	if f.Values == nil {
		f.Values = make(map[string]string)
	}
	f.Values[field] = value
}

// Remember 记录一次提交的表单输入
func (f *FormState) Remember(req RewriteRequest, now time.Time) {
	f.Set(FieldDraft, req.Draft)
	f.Set(FieldTone, string(req.Tone))
	f.Set(FieldDialect, string(req.Dialect))
	f.UpdatedAt = now
}
