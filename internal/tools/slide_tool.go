package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"pitchforge/internal/model"
	"pitchforge/internal/prompt"
)

// ErrMissingCredential 未配置上游凭证，在发出任何请求之前返回
var ErrMissingCredential = errors.New("generation API key not found")

// Completer 单次文本生成
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	HasCredential() bool
}

// SlideTool 实现eino框架的单张幻灯片生成工具
type SlideTool struct {
	completer Completer
	builder   *prompt.Builder
}

// SlideToolArgs 单张幻灯片生成请求参数
type SlideToolArgs struct {
	Idea           string          `json:"idea"`
	SlideType      model.SlideType `json:"slide_type"`
	UseCase        model.UseCase   `json:"use_case"`
	Theme          model.Theme     `json:"theme"`
	PreviousSlides []model.Slide   `json:"previous_slides"`
	Index          int             `json:"index"` // 从0开始的位置，用于生成ID
}

// SlideToolResp 单张幻灯片生成响应
type SlideToolResp struct {
	Slide model.Slide `json:"slide"`
	Error string      `json:"error,omitempty"` // 使用静态内容时的上游错误
}

// NewSlideTool 创建幻灯片生成工具实例
func NewSlideTool(completer Completer, builder *prompt.Builder) *SlideTool {
	if builder == nil {
		builder = prompt.NewBuilder()
	}
	return &SlideTool{completer: completer, builder: builder}
}

// Info 获取幻灯片生成工具信息
func (t *SlideTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	params := map[string]*schema.ParameterInfo{
		"idea":            {Type: schema.String, Required: true, Desc: "business idea description"},
		"slide_type":      {Type: schema.String, Required: true, Desc: "Problem, Solution, Market, Product or Team"},
		"use_case":        {Type: schema.String, Required: false, Desc: "startup, app, hackathon or agency"},
		"theme":           {Type: schema.String, Required: false, Desc: "modern, corporate or minimal"},
		"previous_slides": {Type: schema.Array, Required: false, Desc: "slides generated so far", ElemInfo: &schema.ParameterInfo{Type: schema.Object}},
		"index":           {Type: schema.Integer, Required: false, Desc: "zero-based slide position"},
	}
	return &schema.ToolInfo{
		Name:        "slide_generate",
		Desc:        "Generate one pitch deck slide for a business idea",
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, nil
}

// InvokableRun 执行幻灯片生成任务
func (t *SlideTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	var args SlideToolArgs
	if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
		return "", err
	}
	if args.SlideType == "" {
		return "", errors.New("slide_type required")
	}
	if args.UseCase == "" {
		args.UseCase = model.DefaultUseCase
	}
	if args.Theme == "" {
		args.Theme = model.DefaultTheme
	}
	if !t.completer.HasCredential() {
		return "", ErrMissingCredential
	}

	slide, genErr, err := t.Run(ctx, args)
	if err != nil {
		return "", err
	}

	resp := SlideToolResp{Slide: slide}
	if genErr != nil {
		resp.Error = genErr.Error()
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Run 生成单张幻灯片。上游失败时返回静态内容和上游错误 genErr，
// 只有上下文被取消或提示词无法构建时才返回 err
func (t *SlideTool) Run(ctx context.Context, args SlideToolArgs) (slide model.Slide, genErr error, err error) {
	slide = model.Slide{
		ID:    model.SlideID(args.Index),
		Title: string(args.SlideType),
	}

	text, err := t.builder.Build(ctx, prompt.Input{
		Idea:      args.Idea,
		SlideType: args.SlideType,
		UseCase:   args.UseCase,
		Theme:     args.Theme,
		Previous:  args.PreviousSlides,
	})
	if err != nil {
		return slide, nil, err
	}

	out, genErr := t.completer.Complete(ctx, text)
	if genErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return slide, nil, ctxErr
		}
		logrus.WithFields(logrus.Fields{
			"slide": args.SlideType,
			"error": genErr,
		}).Warn("slide generation failed, using fallback content")
		slide.Content = FallbackContent(args.SlideType, args.UseCase)
		slide.Origin = model.OriginFallback
		return slide, fmt.Errorf("generate %s slide: %w", args.SlideType, genErr), nil
	}

	slide.Content = ParseSlideText(out)
	slide.Origin = model.OriginGenerated
	return slide, nil, nil
}

// 确保SlideTool实现了einotool.InvokableTool接口
var _ einotool.InvokableTool = (*SlideTool)(nil)
