package service

import (
	"context"
	"fmt"

	"pitchforge/internal/config"
	"pitchforge/internal/gemini"
	"pitchforge/internal/tools"
	"pitchforge/internal/volc"
)

// NewCompleter 根据配置选择上游模型
func NewCompleter(ctx context.Context, cfg config.Config) (tools.Completer, error) {
	switch cfg.Provider {
	case "", "gemini":
		c := gemini.NewClient(cfg.Gemini.Key(), cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Timeout)
		c.Mock = cfg.Gemini.Mock
		return c, nil
	case "ark":
		return volc.NewArkCompleter(ctx, volc.ArkConfig{
			APIKey:  cfg.Ark.APIKey,
			Model:   cfg.Ark.Model,
			Region:  cfg.Ark.Region,
			Timeout: cfg.Timeout,
		})
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
