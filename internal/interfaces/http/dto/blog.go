package dto

// BlogBrief 博客内容画像
type BlogBrief struct {
	Topic     string `json:"topic" binding:"required"`
	Goal      string `json:"goal" binding:"required"`
	Structure string `json:"structure,omitempty"`
	Persona   string `json:"persona,omitempty"`
	Tone      string `json:"tone,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
}

// BlogGenerateRequest 博客生成请求
type BlogGenerateRequest struct {
	Blog           BlogBrief `json:"blog" binding:"required"`
	FindTrendsType string    `json:"find_trends_type,omitempty"`
	SessionID      string    `json:"session_id" binding:"required"`
	ClearMemory    bool      `json:"clear_memory,omitempty"`
	UserInput      string    `json:"user_input,omitempty"`
	Step           string    `json:"step,omitempty"`

	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// BlogGenerateResponse 博客生成响应。
// 不走统一响应信封，字段形状对外部调用方保持稳定
type BlogGenerateResponse struct {
	Content string `json:"content"`
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
