package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SlideType 幻灯片类型
type SlideType string

const (
	SlideProblem  SlideType = "Problem"
	SlideSolution SlideType = "Solution"
	SlideMarket   SlideType = "Market"
	SlideProduct  SlideType = "Product"
	SlideTeam     SlideType = "Team"
)

// SlideTypes 固定的生成顺序
var SlideTypes = []SlideType{SlideProblem, SlideSolution, SlideMarket, SlideProduct, SlideTeam}

// Origin 幻灯片内容来源
type Origin string

const (
	OriginGenerated Origin = "generated" // 上游模型生成
	OriginFallback  Origin = "fallback"  // 上游失败，使用静态内容
)

// Slide 幻灯片结构
type Slide struct {
	ID      string `json:"id"`               // slide-1 .. slide-5
	Title   string `json:"title"`            // 幻灯片标题，等于类型
	Content string `json:"content"`          // 幻灯片内容
	Origin  Origin `json:"origin,omitempty"` // 内容来源
}

// SlideID 按位置生成幻灯片ID，index从0开始
func SlideID(index int) string {
	return fmt.Sprintf("slide-%d", index+1)
}

var (
	ErrUnknownUseCase = errors.New("unknown use case")
	ErrUnknownTheme   = errors.New("unknown theme")
)

// UseCase 使用场景
type UseCase string

const (
	UseCaseStartup   UseCase = "startup"
	UseCaseApp       UseCase = "app"
	UseCaseHackathon UseCase = "hackathon"
	UseCaseAgency    UseCase = "agency"

	DefaultUseCase = UseCaseStartup
)

// UseCaseInfo 使用场景描述
type UseCaseInfo struct {
	ID          UseCase `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

var UseCases = []UseCaseInfo{
	{ID: UseCaseStartup, Label: "Startup Pitch", Description: "Fundraising pitch for investors"},
	{ID: UseCaseApp, Label: "App Launch", Description: "Product launch presentation"},
	{ID: UseCaseHackathon, Label: "Hackathon Demo", Description: "Competition presentation"},
	{ID: UseCaseAgency, Label: "Agency Proposal", Description: "Client proposal presentation"},
}

// ParseUseCase 解析使用场景，空字符串返回默认值
func ParseUseCase(s string) (UseCase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultUseCase, nil
	}
	for _, u := range UseCases {
		if string(u.ID) == s {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUseCase, s)
}

// Theme 视觉主题，只影响展示
type Theme string

const (
	ThemeModern    Theme = "modern"
	ThemeCorporate Theme = "corporate"
	ThemeMinimal   Theme = "minimal"

	DefaultTheme = ThemeModern
)

// ThemeInfo 主题描述
type ThemeInfo struct {
	ID          Theme  `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	FontFamily  string `json:"font_family"`
}

var Themes = []ThemeInfo{
	{ID: ThemeModern, Label: "Modern", Description: "Clean lines, bold typography, vibrant colors", FontFamily: "Inter, system-ui, sans-serif"},
	{ID: ThemeCorporate, Label: "Corporate", Description: "Professional, trustworthy, business-focused", FontFamily: "Georgia, serif"},
	{ID: ThemeMinimal, Label: "Minimal", Description: "Simple, elegant, focus on content", FontFamily: "system-ui, sans-serif"},
}

// ParseTheme 解析主题，空字符串返回默认值
func ParseTheme(s string) (Theme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultTheme, nil
	}
	for _, t := range Themes {
		if string(t.ID) == s {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// Deck 一次生成的完整演示文稿
type Deck struct {
	ID        string    `json:"id"`
	Idea      string    `json:"idea"`
	UseCase   UseCase   `json:"use_case"`
	Theme     Theme     `json:"theme"`
	Slides    []Slide   `json:"slides"`
	CreatedAt time.Time `json:"created_at"`
}

// FallbackCount 使用静态内容的幻灯片数量
func (d *Deck) FallbackCount() int {
	n := 0
	for _, s := range d.Slides {
		if s.Origin == OriginFallback {
			n++
		}
	}
	return n
}

// Degraded 是否有幻灯片使用了静态内容
func (d *Deck) Degraded() bool {
	return d.FallbackCount() > 0
}
