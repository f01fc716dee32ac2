package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"pitchforge/internal/model"
)

const systemInstruction = `You are a startup pitch assistant.`

const slideInstruction = `Based on the idea: '{{.idea}}', use case: '{{.use_case}}', theme: '{{.theme}}', and previous slides: {{.previous}}, generate the next slide for '{{.slide_type}}' in this exact JSON format:
{
  "title": "{{.slide_type}}",
  "content": "2-3 sentences of compelling, specific content for this {{.slide_type}} slide. Make it investor-ready and tailored to {{.use_case}} presentations. Be specific with numbers, metrics, and concrete details where possible."
}

Guidelines:
- For Problem: Focus on pain points, market gaps, and urgency
- For Solution: Highlight unique value proposition and key benefits
- For Market: Include market size, growth rates, and opportunity
- For Product: Describe key features, differentiators, and user experience
- For Team: Emphasize relevant experience, expertise, and track record

Make the content compelling, specific, and appropriate for {{.use_case}} context.`

// Input 单张幻灯片的提示词参数
type Input struct {
	Idea      string
	SlideType model.SlideType
	UseCase   model.UseCase
	Theme     model.Theme
	Previous  []model.Slide
}

// Builder 基于eino聊天模板构建提示词
type Builder struct {
	tpl *einoprompt.DefaultChatTemplate
}

// NewBuilder 创建提示词构建器
func NewBuilder() *Builder {
	return &Builder{
		tpl: einoprompt.FromMessages(schema.GoTemplate,
			schema.SystemMessage(systemInstruction),
			schema.UserMessage(slideInstruction),
		),
	}
}

// Messages 返回格式化后的消息列表，供聊天模型使用
func (b *Builder) Messages(ctx context.Context, in Input) ([]*schema.Message, error) {
	previous, err := previousJSON(in.Previous)
	if err != nil {
		return nil, err
	}
	msgs, err := b.tpl.Format(ctx, map[string]any{
		"idea":       in.Idea,
		"use_case":   string(in.UseCase),
		"theme":      string(in.Theme),
		"slide_type": string(in.SlideType),
		"previous":   previous,
	})
	if err != nil {
		return nil, fmt.Errorf("format prompt: %w", err)
	}
	return msgs, nil
}

// Build 将消息拼接为单个文本提示词
func (b *Builder) Build(ctx context.Context, in Input) (string, error) {
	msgs, err := b.Messages(ctx, in)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, " "), nil
}

// previousJSON 只序列化 id/title/content，和存储格式保持一致
func previousJSON(slides []model.Slide) (string, error) {
	type slide struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	out := make([]slide, 0, len(slides))
	for _, s := range slides {
		out = append(out, slide{ID: s.ID, Title: s.Title, Content: s.Content})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
