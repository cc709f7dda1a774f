package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

var _ Summarizer = (*GeminiSummarizer)(nil)

func NewGeminiSummarizer(ctx context.Context, apiKey, model string) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSummarizer{client: client, model: model}, nil
}

func (s *GeminiSummarizer) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	model := s.client.GenerativeModel(s.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(600)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(title, content)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("no response from Gemini")
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
