package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/comigor/advisor-go/internal/config"
	"github.com/comigor/advisor-go/internal/conversation"
	"github.com/comigor/advisor-go/internal/stream"
)

const defaultSystemPrompt = "You are a computer science academic advisor. Answer questions about computer science courses, " +
	"study habits and computer science topics accurately and concisely."

// OpenAIClient streams chat completions from any OpenAI-compatible endpoint.
type OpenAIClient struct {
	api          *openai.Client
	model        string
	systemPrompt string
}

// NewClient creates a new streaming client
func NewClient(cfg config.LLMConfig) *OpenAIClient {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	return &OpenAIClient{
		api:          openai.NewClientWithConfig(config),
		model:        cfg.Model,
		systemPrompt: systemPrompt,
	}
}

// StreamMessage sends history followed by message and returns the answer as a fragment source.
func (c *OpenAIClient) StreamMessage(ctx context.Context, message string, history []conversation.Turn) (stream.Source, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: buildMessages(c.systemPrompt, history, message),
		Stream:   true,
	}
	s, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat completion stream: %w", err)
	}
	return &completionSource{stream: s}, nil
}

func buildMessages(systemPrompt string, history []conversation.Turn, message string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == conversation.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text()})
	}
	return append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}

// completionSource adapts a chat completion stream to stream.Source.
// Recv returns io.EOF once the server sends [DONE].
type completionSource struct {
	stream *openai.ChatCompletionStream
}

func (s *completionSource) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *completionSource) Close() error {
	return s.stream.Close()
}
