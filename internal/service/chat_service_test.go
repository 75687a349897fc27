package service

import (
	"context"
	"errors"
	"testing"

	"chihuyufan-go/internal/errs"
	"chihuyufan-go/internal/session"
	"chihuyufan-go/pkg/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAIClient 回显收到的历史长度，便于断言会话组装。
type fakeAIClient struct {
	lastMessages []openai.Message
	answer       string
	err          error
	models       []string
	imageURL     string
}

func (f *fakeAIClient) ChatCompletion(ctx context.Context, messages []openai.Message, gen *openai.GenerationParams) (string, error) {
	f.lastMessages = messages
	return f.answer, f.err
}

func (f *fakeAIClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return f.imageURL, f.err
}

func (f *fakeAIClient) ListModels(ctx context.Context) ([]string, error) {
	return f.models, f.err
}

func TestNewSessionDiscardsPriorHistory(t *testing.T) {
	t.Parallel()

	cache := session.NewCache(0)
	ai := &fakeAIClient{answer: "first answer"}
	svc := NewChatService(cache, ai)
	ctx := context.Background()

	_, err := svc.NewSession(ctx, "actor", "old topic", nil)
	require.NoError(t, err)
	_, err = svc.Reply(ctx, "actor", "follow-up", nil)
	require.NoError(t, err)
	require.Len(t, cache.Get("actor"), 4)

	answer, err := svc.NewSession(ctx, "actor", "new topic", nil)
	require.NoError(t, err)
	assert.Equal(t, "first answer", answer)
	// 新会话只包含新的 user 轮
	require.Len(t, ai.lastMessages, 1)
	assert.Equal(t, "new topic", ai.lastMessages[0].Content)
	// 缓存里是 user + assistant 两轮
	assert.Len(t, cache.Get("actor"), 2)
}

func TestReplyCarriesFullHistory(t *testing.T) {
	t.Parallel()

	cache := session.NewCache(0)
	ai := &fakeAIClient{answer: "answer"}
	svc := NewChatService(cache, ai)
	ctx := context.Background()

	_, err := svc.NewSession(ctx, "actor", "q1", nil)
	require.NoError(t, err)
	_, err = svc.Reply(ctx, "actor", "q2", nil)
	require.NoError(t, err)

	// q1, a1, q2
	require.Len(t, ai.lastMessages, 3)
	assert.Equal(t, "q2", ai.lastMessages[2].Content)
}

func TestReplyWithoutSessionCreatesOne(t *testing.T) {
	t.Parallel()

	cache := session.NewCache(0)
	svc := NewChatService(cache, &fakeAIClient{answer: "ok"})

	_, err := svc.Reply(context.Background(), "fresh-actor", "hello", nil)
	require.NoError(t, err)
	assert.Len(t, cache.Get("fresh-actor"), 2)
}

func TestBackendFailureKeepsAssistantTurnOut(t *testing.T) {
	t.Parallel()

	cache := session.NewCache(0)
	ai := &fakeAIClient{err: errors.New("rate limited")}
	svc := NewChatService(cache, ai)

	_, err := svc.Reply(context.Background(), "actor", "hello", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrOperation)
	// 失败时只留下 user 轮
	history := cache.Get("actor")
	require.Len(t, history, 1)
	assert.Equal(t, "user", history[0].Role)
}

func TestImageAndModels(t *testing.T) {
	t.Parallel()

	ai := &fakeAIClient{imageURL: "https://img.example/1.png", models: []string{"gpt-3.5-turbo", "gpt-4"}}
	svc := NewChatService(session.NewCache(0), ai)
	ctx := context.Background()

	url, err := svc.Image(ctx, "a cat")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", url)

	models, err := svc.Models(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-3.5-turbo", "gpt-4"}, models)
}
