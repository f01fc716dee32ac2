package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pitchforge/internal/model"
	"pitchforge/internal/tools"
)

// DefaultSlideDelay 相邻两次上游请求之间的固定间隔
const DefaultSlideDelay = 500 * time.Millisecond

// ErrMissingCredential 未配置上游凭证
var ErrMissingCredential = tools.ErrMissingCredential

// SlideGenerator 按固定顺序逐张生成五张幻灯片
type SlideGenerator struct {
	completer tools.Completer
	tool      *tools.SlideTool
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time
}

// Option 生成器选项
type Option func(*SlideGenerator)

// WithDelay 设置请求间隔，负数视为0
func WithDelay(d time.Duration) Option {
	return func(g *SlideGenerator) {
		if d < 0 {
			d = 0
		}
		g.delay = d
	}
}

// WithSleep 替换等待函数，测试使用
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *SlideGenerator) { g.sleep = sleep }
}

// WithClock 替换时钟，测试使用
func WithClock(now func() time.Time) Option {
	return func(g *SlideGenerator) { g.now = now }
}

// NewSlideGenerator 创建生成器
func NewSlideGenerator(completer tools.Completer, opts ...Option) *SlideGenerator {
	g := &SlideGenerator{
		completer: completer,
		tool:      tools.NewSlideTool(completer, nil),
		delay:     DefaultSlideDelay,
		sleep:     sleepContext,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 为一个想法生成五张幻灯片。单张失败时使用静态内容且不返回错误，
// 只有缺少凭证或上下文取消时返回错误
func (g *SlideGenerator) Generate(ctx context.Context, idea string, useCase model.UseCase, theme model.Theme) ([]model.Slide, error) {
	if !g.completer.HasCredential() {
		return nil, ErrMissingCredential
	}
	if useCase == "" {
		useCase = model.DefaultUseCase
	}
	if theme == "" {
		theme = model.DefaultTheme
	}

	slides := make([]model.Slide, 0, len(model.SlideTypes))
	for i, slideType := range model.SlideTypes {
		if i > 0 {
			if err := g.sleep(ctx, g.delay); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slide, genErr, err := g.tool.Run(ctx, tools.SlideToolArgs{
			Idea:           idea,
			SlideType:      slideType,
			UseCase:        useCase,
			Theme:          theme,
			PreviousSlides: slides,
			Index:          i,
		})
		if err != nil {
			return nil, err
		}

		entry := logrus.WithFields(logrus.Fields{"slide": slide.Title, "origin": slide.Origin})
		if genErr != nil {
			entry = entry.WithField("error", genErr)
		}
		entry.Info("slide ready")

		slides = append(slides, slide)
	}
	return slides, nil
}

// GenerateDeck 生成幻灯片并封装为Deck
func (g *SlideGenerator) GenerateDeck(ctx context.Context, idea string, useCase model.UseCase, theme model.Theme) (*model.Deck, error) {
	if useCase == "" {
		useCase = model.DefaultUseCase
	}
	if theme == "" {
		theme = model.DefaultTheme
	}
	slides, err := g.Generate(ctx, idea, useCase, theme)
	if err != nil {
		return nil, err
	}
	return &model.Deck{
		ID:        uuid.NewString(),
		Idea:      idea,
		UseCase:   useCase,
		Theme:     theme,
		Slides:    slides,
		CreatedAt: g.now().UTC(),
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
