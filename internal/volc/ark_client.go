package volc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const defaultRegion = "cn-beijing"

// ArkCompleter 通过eino的ark聊天模型完成单次生成
type ArkCompleter struct {
	APIKey string
	runner compose.Runnable[[]*schema.Message, *schema.Message]
}

// ArkConfig Ark接入参数
type ArkConfig struct {
	APIKey  string
	Model   string
	Region  string
	Timeout time.Duration
}

// NewArkCompleter 创建ArkCompleter，APIKey为空时不初始化模型
func NewArkCompleter(ctx context.Context, cfg ArkConfig) (*ArkCompleter, error) {
	c := &ArkCompleter{APIKey: cfg.APIKey}
	if cfg.APIKey == "" {
		return c, nil
	}
	if cfg.Model == "" {
		return nil, errors.New("ark model required")
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		APIKey:     cfg.APIKey,
		Region:     cfg.Region,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Model:      cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	runner, err := compileGraph(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	c.runner = runner
	return c, nil
}

func compileGraph(ctx context.Context, chatModel model.BaseChatModel) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	graph := compose.NewGraph[[]*schema.Message, *schema.Message]()
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("failed to add model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "model"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, err
	}
	runner, err := graph.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile graph: %w", err)
	}
	return runner, nil
}

// HasCredential 是否配置了 ARK_API_KEY
func (c *ArkCompleter) HasCredential() bool {
	return c.APIKey != "" && c.runner != nil
}

// Complete 以单条用户消息调用模型
func (c *ArkCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if c.runner == nil {
		return "", errors.New("ark model not initialized")
	}
	res, err := c.runner.Invoke(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("graph invocation failed: %w", err)
	}
	if res == nil || strings.TrimSpace(res.Content) == "" {
		return "", errors.New("empty chat content")
	}
	return res.Content, nil
}
