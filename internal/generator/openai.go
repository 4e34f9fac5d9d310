package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrMissingAPIKey   = errors.New("language model api key is not configured")
	ErrEmptyCompletion = errors.New("language model returned no content")
)

const (
	defaultModel       = "gpt-3.5-turbo"
	defaultMaxTokens   = 2000
	defaultTemperature = 0.7

	systemPrompt = "You are an expert content writer and SEO specialist. Create engaging, informative, and SEO-optimized blog content."
)

const promptFormat = `Create a comprehensive, SEO-optimized blog article about "%s".

The article should be:
- Engaging and informative
- 800-1200 words long
- Include relevant headings and subheadings
- SEO-optimized with natural keyword usage
- Include a compelling meta description (150-160 characters)

Please return the response in the following JSON format:
{
  "title": "SEO-optimized title",
  "slug": "url-friendly-slug",
  "metaDescription": "SEO meta description",
  "content": "Full article content with HTML formatting",
  "ogImage": "https://images.unsplash.com/photo-...",
  "tags": ["tag1", "tag2", "tag3"]
}

Make sure the content is well-structured with proper HTML tags like <h2>, <h3>, <p>, <ul>, <li>, etc.`

type Options struct {
	APIKey string
	// Пустой BaseURL означает api.openai.com, для OpenRouter указываем https://openrouter.ai/api/v1
	BaseURL string
	Model   string
}

// Генератор черновиков статей поверх chat completion API
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	// Без ключа генератор выключен и каждый вызов возвращает ErrMissingAPIKey
	enabled bool
}

func NewOpenAIGenerator(opts Options) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientCfg.BaseURL = opts.BaseURL
	}

	g := &OpenAIGenerator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   opts.Model,
		enabled: opts.APIKey != "",
	}
	if g.model == "" {
		g.model = defaultModel
	}

	slog.Info("openai generator configured", "enabled", g.enabled, "model", g.model)

	return g
}

// Generate просит модель написать статью по теме. Ошибки сети, ответы не 2xx и
// отсутствие ключа возвращаются вызывающему, а неразборчивый ответ превращается
// в минимальный черновик.
func (g *OpenAIGenerator) Generate(ctx context.Context, topic string) (model.Draft, error) {
	if !g.enabled {
		return model.Draft{}, ErrMissingAPIKey
	}

	request := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptFormat, topic),
			},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return model.Draft{}, fmt.Errorf("create chat completion for %q: %w", topic, err)
	}

	if len(resp.Choices) == 0 {
		return model.Draft{}, ErrEmptyCompletion
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if raw == "" {
		return model.Draft{}, ErrEmptyCompletion
	}

	return DraftFromCompletion(topic, ParseCompletion(raw)), nil
}
