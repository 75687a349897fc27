// Package openai 提供了一个与 OpenAI 兼容 API 交互的客户端。
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chihuyufan-go/internal/config"
)

// Client 定义了 AI 后端的接口。请求/响应都是无状态的：
// 多轮上下文由调用方以 messages 形式完整传入。
type Client interface {
	// ChatCompletion 以 role-based 消息与可选生成参数调用聊天接口，返回一条新消息。
	ChatCompletion(ctx context.Context, messages []Message, gen *GenerationParams) (string, error)
	// GenerateImage 根据文本提示生成一张图片，返回图片 URL。
	GenerateImage(ctx context.Context, prompt string) (string, error)
	// ListModels 返回可用的模型标识列表。
	ListModels(ctx context.Context) ([]string, error)
}

type openaiClient struct {
	cfg    config.OpenAIConfig
	client *http.Client
}

// NewClient 创建一个新的 OpenAI 客户端。
func NewClient(cfg config.OpenAIConfig, timeout time.Duration) Client {
	return &openaiClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationParams 控制生成行为。为 nil 的字段使用配置默认值。
type GenerationParams struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletion 调用 /chat/completions 并返回首个候选的内容。
func (c *openaiClient) ChatCompletion(ctx context.Context, messages []Message, gen *GenerationParams) (string, error) {
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}
	// 传参优先于全局配置
	if gen != nil {
		if gen.Model != "" {
			reqBody.Model = gen.Model
		}
		reqBody.Temperature = gen.Temperature
		reqBody.MaxTokens = gen.MaxTokens
	}
	if reqBody.Temperature == nil && c.cfg.Temperature != 0 {
		t := c.cfg.Temperature
		reqBody.Temperature = &t
	}
	if reqBody.MaxTokens == nil && c.cfg.MaxTokens != 0 {
		m := c.cfg.MaxTokens
		reqBody.MaxTokens = &m
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat api returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type imageRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// GenerateImage 调用 /images/generations 并返回首张图片的 URL。
func (c *openaiClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	reqBody := imageRequest{Prompt: prompt, N: 1, Size: c.cfg.ImageSize}
	var resp imageResponse
	if err := c.post(ctx, "/images/generations", reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("image api returned no data")
	}
	return resp.Data[0].URL, nil
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels 调用 /models 并返回模型 ID 列表。
func (c *openaiClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create models request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call models api: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("models api returned non-200 status: %s, body: %s", httpResp.Status, string(detail))
	}

	var resp modelsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}
	ids := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (c *openaiClient) post(ctx context.Context, path string, body, out interface{}) error {
	reqBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api returned non-200 status: %s, body: %s", resp.Status, string(detail))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
