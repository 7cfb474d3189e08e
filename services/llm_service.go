package services

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"flavor_ai/config"
	"flavor_ai/logger"
	"flavor_ai/utils"
)

// ChatCompleter 单轮对话补全
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIChatClient 通过 OpenAI 兼容接口调用 LLM（Gemini 也提供兼容接口）
type OpenAIChatClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIChatClient(cfg *config.Config) *OpenAIChatClient {
	client := openai.NewClient(
		option.WithBaseURL(cfg.LLM.BaseURL),
		option.WithAPIKey(cfg.LLM.APIKey),
		option.WithMaxRetries(0), // 重试由 ResilientCaller 控制
	)
	return &OpenAIChatClient{client: client, model: cfg.LLM.Model}
}

func (c *OpenAIChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	logger.Info("调用LLM", "model", c.model, "prompt_preview", utils.Preview(prompt, 100))

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(openai.ChatModel(c.model)),
	})
	if err != nil {
		logger.Error("LLM请求失败", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("LLM响应中没有内容")
	}

	content := resp.Choices[0].Message.Content
	logger.Info("成功获取LLM响应",
		"tokens_total", resp.Usage.TotalTokens,
		"finish_reason", resp.Choices[0].FinishReason,
		"duration_ms", time.Since(start).Milliseconds(),
		"content_preview", utils.Preview(content, 200))
	return content, nil
}

// resilientChat 为 ChatCompleter 加上超时、重试和熔断
type resilientChat struct {
	chat   ChatCompleter
	caller *ResilientCaller
}

// NewResilientChat 包装 ChatCompleter
func NewResilientChat(cfg *config.Config, chat ChatCompleter) ChatCompleter {
	timeout := time.Duration(cfg.LLM.TimeoutSec) * time.Second
	return &resilientChat{chat: chat, caller: NewResilientCaller(cfg, "llm", timeout)}
}

func (r *resilientChat) Complete(ctx context.Context, prompt string) (string, error) {
	var content string
	err := r.caller.Do(ctx, func(ctx context.Context) error {
		var err error
		content, err = r.chat.Complete(ctx, prompt)
		return err
	})
	return content, err
}
