package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client adapts any langchaingo model to ChatClient
type Client struct {
	llm llms.Model
}

// Ensure Client implements both interfaces
var _ ChatClient = (*Client)(nil)
var _ StreamingChatClient = (*Client)(nil)

// NewClient wraps an existing langchaingo model
func NewClient(model llms.Model) *Client {
	return &Client{llm: model}
}

// NewOllama creates a client for a local Ollama model
func NewOllama(model, serverURL string) (*Client, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	m, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewClient(m), nil
}

// NewLangChainOpenAI creates a client for an OpenAI-compatible endpoint through langchaingo.
// Empty apiKey and baseURL fall back to the library's environment defaults.
func NewLangChainOpenAI(model, apiKey, baseURL string) (*Client, error) {
	opts := []openai.Option{openai.WithModel(model)}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewClient(m), nil
}

// Chat sends messages to the LLM and returns the response
func (c *Client) Chat(ctx context.Context, messages []Message) (*Response, error) {
	resp, err := c.llm.GenerateContent(ctx, toMessageContent(messages))
	if err != nil {
		return nil, fmt.Errorf("llm generate failed: %w", err)
	}
	return firstChoice(resp)
}

// ChatStream sends messages to the LLM and forwards text chunks as they arrive.
// The returned Response carries the complete text.
func (c *Client) ChatStream(ctx context.Context, messages []Message, streamFunc func(chunk string)) (*Response, error) {
	resp, err := c.llm.GenerateContent(ctx, toMessageContent(messages),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			streamFunc(string(chunk))
			return nil
		}))
	if err != nil {
		return nil, fmt.Errorf("llm generate failed: %w", err)
	}
	return firstChoice(resp)
}

func firstChoice(resp *llms.ContentResponse) (*Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, errors.New("no response from llm")
	}
	return &Response{Content: resp.Choices[0].Content}, nil
}

// toMessageContent converts to langchaingo message format
func toMessageContent(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		out = append(out, llms.TextParts(role, msg.Content))
	}
	return out
}
