package tools

import (
	"encoding/json"
	"strings"
)

// ParseSlideText 解析模型返回的 {title, content}，无法解析时原样返回文本
func ParseSlideText(text string) string {
	raw := strings.TrimSpace(text)

	var parsed struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	if parsed.Content == "" {
		return raw
	}
	return parsed.Content
}
