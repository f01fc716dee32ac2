// Package deck 提供生成之外的演示文稿功能：输入校验、文本导出、分享链接和想法分析。
package deck

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"pitchforge/internal/model"
)

// MinIdeaLength 想法描述的最少字符数
const MinIdeaLength = 50

var (
	ErrEmptyIdea    = errors.New("please enter your startup or project idea")
	ErrIdeaTooShort = fmt.Errorf("please provide more details about your idea (at least %d characters)", MinIdeaLength)
)

// ValidateIdea 去掉首尾空白后校验长度
func ValidateIdea(idea string) error {
	trimmed := strings.TrimSpace(idea)
	if trimmed == "" {
		return ErrEmptyIdea
	}
	if utf8.RuneCountInString(trimmed) < MinIdeaLength {
		return ErrIdeaTooShort
	}
	return nil
}

// ExportFormats 支持的导出格式，只影响文件名
var ExportFormats = map[string]string{
	"pdf":   "PDF",
	"pptx":  "PowerPoint",
	"mp4":   "Video",
	"image": "Images",
}

const siteURL = "https://pitchforge.dev"

// ExportText 生成纯文本导出内容
func ExportText(d *model.Deck) string {
	var b strings.Builder
	b.WriteString("PitchForge.dev - Generated Pitch Deck\n")
	fmt.Fprintf(&b, "Original Idea: %s\n", d.Idea)
	fmt.Fprintf(&b, "Use Case: %s\n", d.UseCase)
	fmt.Fprintf(&b, "Theme: %s\n\n", d.Theme)

	parts := make([]string, 0, len(d.Slides))
	for i, s := range d.Slides {
		parts = append(parts, fmt.Sprintf("Slide %d: %s\n%s\n\n---", i+1, s.Title, s.Content))
	}
	b.WriteString(strings.Join(parts, "\n\n"))

	b.WriteString("\n\nGenerated by PitchForge.dev - AI-Powered Pitch Deck Generator\n")
	b.WriteString("Visit: " + siteURL)
	return b.String()
}

// ExportFilename 导出文件名
func ExportFilename(format string, at time.Time) (string, error) {
	if _, ok := ExportFormats[format]; !ok {
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	return fmt.Sprintf("pitchforge-deck-%s-%d.txt", format, at.UnixMilli()), nil
}

// ShareLinks 各平台分享链接
type ShareLinks struct {
	Text     string `json:"text"` // 复制到剪贴板的文本
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
	Email    string `json:"email"`
}

// BuildShareLinks 构建分享链接，想法截断为100个字符
func BuildShareLinks(idea string) ShareLinks {
	shareText := "Check out my AI-generated pitch deck! Created with PitchForge.dev 🚀"

	q := url.Values{}
	q.Set("text", shareText)
	q.Set("url", siteURL)

	li := url.Values{}
	li.Set("url", siteURL)

	return ShareLinks{
		Text:     fmt.Sprintf("Check out my AI-generated pitch deck created with PitchForge.dev! 🚀\n\nIdea: %s...\n\n%s", truncateRunes(idea, 100), siteURL),
		Twitter:  "https://twitter.com/intent/tweet?" + q.Encode(),
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?" + li.Encode(),
		Email: "mailto:?subject=" + escapeComponent("Check out my pitch deck!") +
			"&body=" + escapeComponent(shareText+" "+siteURL),
	}
}

// escapeComponent 按 URI 组件转义，空格编码为 %20
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var (
	nonWord   = regexp.MustCompile(`[^\w\s]`)
	stopWords = map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true,
		"on": true, "at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	}
)

// ExtractKeywords 提取最多10个关键词
func ExtractKeywords(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")
	out := make([]string, 0, 10)
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		out = append(out, w)
		if len(out) == 10 {
			break
		}
	}
	return out
}

// DetectBusinessType 按关键字粗略判断业务类型
func DetectBusinessType(idea string) string {
	lower := strings.ToLower(idea)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("ai", "artificial intelligence"):
		return "ai"
	case has("mobile", "app"):
		return "mobile"
	case has("health", "medical"):
		return "health"
	case has("education", "learning"):
		return "education"
	case has("fintech", "finance"):
		return "fintech"
	case has("saas", "software"):
		return "saas"
	}
	return "general"
}
