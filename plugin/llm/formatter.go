// Package llm cleans up raw OCR output through an OpenAI-compatible chat
// completion service. The default provider is Perplexity; any endpoint
// speaking the same protocol works via the base URL.
package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// formatSystemPrompt instructs the model to clean up OCR output without
// inventing content that is not present in the input.
const formatSystemPrompt = `You are given raw OCR-extracted clinical notes.
Your task is to:
1. Correct spelling and grammar errors.
2. Preserve only the information present in the input text.
3. Structure the content into the following Markdown sections using proper Markdown syntax:
   ## Patient Information
   ## Doctor Information
   ## Clinical Notes
4. Use bullet points or numbered lists where appropriate.
5. Do NOT add or infer any details from external knowledge.
6. Output only the cleaned and formatted note in Markdown.

Raw OCR text:
`

// Config holds the formatter configuration.
type Config struct {
	APIKey    string
	BaseURL   string // default: https://api.perplexity.ai
	Model     string // default: sonar
	MaxTokens int    // default: 1000
}

// Formatter reformats extracted note text.
type Formatter struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewFormatter creates a new Formatter.
func NewFormatter(cfg *Config) (*Formatter, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	} else {
		clientConfig.BaseURL = "https://api.perplexity.ai"
	}

	model := cfg.Model
	if model == "" {
		model = "sonar"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &Formatter{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// Format submits raw extracted text for cleanup and returns the formatted
// note. Any failure (network, non-2xx status, malformed or empty response)
// is returned as an error; the caller decides whether to fall back to the
// raw text.
func (f *Formatter) Format(ctx context.Context, rawText string) (string, error) {
	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     f.model,
		MaxTokens: f.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: formatSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: rawText},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}

	formatted := strings.TrimSpace(resp.Choices[0].Message.Content)
	if formatted == "" {
		return "", errors.New("completion returned empty content")
	}
	return formatted, nil
}
