// ABOUTME: OpenAI client that proposes template variables and generates letter drafts
// ABOUTME: Uses gpt-4o-mini by default with retry and backoff around every completion
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"

	// MaxAnalyzeInput caps how much template text is sent for analysis
	MaxAnalyzeInput = 5000
)

// Suggester proposes variable suggestions for a plain template text
type Suggester interface {
	SuggestVariables(ctx context.Context, text string) ([]models.Suggestion, error)
}

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Variables  models.VariableSet
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  DefaultChatModel,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
		Variables:  models.DefaultVariables(),
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	known      models.VariableSet
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = config.BaseURL
	}

	model := config.ChatModel
	if model == "" {
		model = DefaultChatModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	known := config.Variables
	if known.Len() == 0 {
		known = models.DefaultVariables()
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		chatModel:  model,
		timeout:    timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		known:      known,
	}, nil
}

// SuggestVariables asks the model which spans of text should become variables.
// Suggestions whose text does not occur in text are discarded.
func (c *OpenAIClient) SuggestVariables(ctx context.Context, text string) ([]models.Suggestion, error) {
	if text == "" {
		return nil, fmt.Errorf("template text is empty")
	}

	excerpt := []rune(text)
	if len(excerpt) > MaxAnalyzeInput {
		excerpt = excerpt[:MaxAnalyzeInput]
	}

	raw, err := c.complete(ctx, analyzePrompt(string(excerpt), c.known), 0.3, 1500)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze template: %w", err)
	}

	return ParseSuggestionArray(raw, text), nil
}

// GenerateTemplate drafts a complete letter and the spans the model proposes as variables
func (c *OpenAIClient) GenerateTemplate(ctx context.Context, req GenerateRequest) (string, []models.Suggestion, error) {
	req = req.Sanitized()
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	raw, err := c.complete(ctx, generatePrompt(req, c.known), 0.8, 2000)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate template: %w", err)
	}

	content, suggestions := ParseSuggestionBlock(raw)
	if content == "" {
		return "", nil, fmt.Errorf("model returned an empty template")
	}
	return content, suggestions, nil
}

// complete runs a single-message chat completion with retries
func (c *OpenAIClient) complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	var content string

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(int) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}

		content = resp.Choices[0].Message.Content
		return nil
	})

	return content, err
}
