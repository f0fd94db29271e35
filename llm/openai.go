package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient talks to the OpenAI Chat Completions API (or any compatible server)
type OpenAIClient struct {
	client openai.Client
	model  string
}

var _ StreamingChatClient = (*OpenAIClient)(nil)

// NewOpenAI creates a chat completions client. The SDK reads OPENAI_API_KEY and
// OPENAI_BASE_URL from the environment unless opts override them.
func NewOpenAI(model string, opts ...option.RequestOption) *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient(opts...), model: model}
}

func (c *OpenAIClient) params(messages []Message) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{Model: c.model}
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}
	return params
}

// Chat sends messages and returns the first choice
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (*Response, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(messages))
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from llm")
	}
	return &Response{Content: resp.Choices[0].Message.Content}, nil
}

// ChatStream streams content deltas to streamFunc and returns the accumulated text
func (c *OpenAIClient) ChatStream(ctx context.Context, messages []Message, streamFunc func(chunk string)) (*Response, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(messages))
	defer stream.Close()

	var buf strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			buf.WriteString(delta)
			streamFunc(delta)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("chat completion stream failed: %w", err)
	}
	return &Response{Content: buf.String()}, nil
}
