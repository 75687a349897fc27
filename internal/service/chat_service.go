package service

import (
	"context"

	"chihuyufan-go/internal/errs"
	"chihuyufan-go/internal/session"
	"chihuyufan-go/pkg/openai"
)

// ChatService 定义了多轮 AI 会话、图片生成与模型列表操作。
type ChatService interface {
	// NewSession 丢弃 actor 的既有会话后开始新会话并返回首条回答。
	NewSession(ctx context.Context, actor, text string, gen *openai.GenerationParams) (string, error)
	// Reply 在 actor 的当前会话里继续对话；会话不存在时隐式创建。
	Reply(ctx context.Context, actor, text string, gen *openai.GenerationParams) (string, error)
	Image(ctx context.Context, prompt string) (string, error)
	Models(ctx context.Context) ([]string, error)
}

type chatService struct {
	cache *session.Cache
	ai    openai.Client
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(cache *session.Cache, ai openai.Client) ChatService {
	return &chatService{cache: cache, ai: ai}
}

func (s *chatService) NewSession(ctx context.Context, actor, text string, gen *openai.GenerationParams) (string, error) {
	s.cache.Reset(actor, session.Turn{Role: "user", Content: text})
	return s.complete(ctx, actor, gen)
}

func (s *chatService) Reply(ctx context.Context, actor, text string, gen *openai.GenerationParams) (string, error) {
	s.cache.Append(actor, session.Turn{Role: "user", Content: text})
	return s.complete(ctx, actor, gen)
}

// complete 把 actor 的完整历史发给后端，成功后把回答追加进会话。
// 失败时不追加 assistant 轮次，用户轮保留，重试语义由用户自己决定。
func (s *chatService) complete(ctx context.Context, actor string, gen *openai.GenerationParams) (string, error) {
	history := s.cache.Get(actor)
	messages := make([]openai.Message, 0, len(history))
	for _, turn := range history {
		messages = append(messages, openai.Message{Role: turn.Role, Content: turn.Content})
	}

	answer, err := s.ai.ChatCompletion(ctx, messages, gen)
	if err != nil {
		return "", errs.Operation("%v", err)
	}
	s.cache.Append(actor, session.Turn{Role: "assistant", Content: answer})
	return answer, nil
}

func (s *chatService) Image(ctx context.Context, prompt string) (string, error) {
	url, err := s.ai.GenerateImage(ctx, prompt)
	if err != nil {
		return "", errs.Operation("%v", err)
	}
	return url, nil
}

func (s *chatService) Models(ctx context.Context) ([]string, error) {
	models, err := s.ai.ListModels(ctx)
	if err != nil {
		return nil, errs.Operation("%v", err)
	}
	return models, nil
}
