package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// ErrEmptyCompletion 模型没有返回任何内容
var ErrEmptyCompletion = errors.New("llm returned no choices")

// OpenAIConfig OpenAI 兼容接口配置，BaseURL 可指向任意兼容服务
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIGenerator 基于 Chat Completions 的生成器
type OpenAIGenerator struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	return &OpenAIGenerator{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

func (g *OpenAIGenerator) Source() Source {
	return SourceLLM
}

func (g *OpenAIGenerator) Generate(ctx context.Context, p PromptContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	chat, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    g.model,
		Messages: BuildMessages(p),
	})
	if err != nil {
		return "", err
	}
	if len(chat.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	reply := strings.TrimSpace(chat.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyCompletion
	}
	return reply, nil
}

// BuildMessages 依次拼接系统提示词、历史消息和本次输入
func BuildMessages(p PromptContext) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(p.History)+2)
	messages = append(messages, openai.SystemMessage(SystemPrompt(p)))
	for _, turn := range p.History {
		switch turn.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(turn.Content))
		case "user":
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(p.Message))
	return messages
}
