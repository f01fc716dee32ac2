package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-pro"
)

// ErrInvalidResponse 响应中缺少 candidates[0].content.parts[0].text
var ErrInvalidResponse = errors.New("invalid response format from Gemini API")

// Client Gemini generateContent 接口客户端
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Mock       bool
}

// NewClient 创建客户端，空的 baseURL/model 使用默认值
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// HasCredential 是否配置了 API key
func (c *Client) HasCredential() bool {
	return c.Mock || c.APIKey != ""
}

// Complete 发送单个文本提示词，返回第一个候选的文本
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.Mock {
		return mockSlide(prompt), nil
	}

	body := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	var resp generateResponse
	if err := c.postJSON(ctx, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrInvalidResponse
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", ErrInvalidResponse)
	}
	return text, nil
}

func (c *Client) endpoint() string {
	q := url.Values{}
	q.Set("key", c.APIKey)
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s", c.BaseURL, url.PathEscape(c.Model), q.Encode())
}

func (c *Client) postJSON(ctx context.Context, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	logrus.WithFields(logrus.Fields{"model": c.Model, "bytes": len(b)}).Debug("gemini request")
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("gemini http %d: %s", res.StatusCode, string(bodyBytes))
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// mockSlide 离线模式下根据提示词中的类型返回固定JSON
func mockSlide(prompt string) string {
	slideType := "Slide"
	if i := strings.Index(prompt, "generate the next slide for '"); i >= 0 {
		rest := prompt[i+len("generate the next slide for '"):]
		if j := strings.Index(rest, "'"); j >= 0 {
			slideType = rest[:j]
		}
	}
	b, _ := json.Marshal(map[string]string{
		"title":   slideType,
		"content": fmt.Sprintf("Mock %s content generated offline.", strings.ToLower(slideType)),
	})
	return string(b)
}
