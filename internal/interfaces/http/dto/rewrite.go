package dto

// RewriteRequest JSON 改写请求
//
// api_key 缺省时从 Authorization: Bearer 头读取。
type RewriteRequest struct {
	APIKey  string `json:"api_key,omitempty"`
	Draft   string `json:"draft"`
	Tone    string `json:"tone,omitempty"`
	Dialect string `json:"dialect,omitempty"`
}

// RewriteResponse JSON 改写结果
type RewriteResponse struct {
	Output           string `json:"output"`
	State            string `json:"state"`
	WordCount        int    `json:"word_count"`
	Model            string `json:"model,omitempty"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
	ElapsedMs        int64  `json:"elapsed_ms"`
}

// RewriteForm HTML 表单提交
type RewriteForm struct {
	APIKey  string `form:"api_key"`
	Draft   string `form:"draft"`
	Tone    string `form:"tone"`
	Dialect string `form:"dialect"`
}

// OptionsResponse 表单下拉框选项
type OptionsResponse struct {
	Tones          []string `json:"tones"`
	Dialects       []string `json:"dialects"`
	DefaultTone    string   `json:"default_tone"`
	DefaultDialect string   `json:"default_dialect"`
	MaxWords       int      `json:"max_words"`
}
