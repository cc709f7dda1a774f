package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAISummarizer works against OpenAI or any endpoint speaking its chat API.
type OpenAISummarizer struct {
	client openai.Client
	model  string
}

var _ Summarizer = (*OpenAISummarizer)(nil)

func NewOpenAISummarizer(apiKey, baseURL, model string) (*OpenAISummarizer, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAISummarizer{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	response, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(title, content)),
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(600),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return response.Choices[0].Message.Content, nil
}
