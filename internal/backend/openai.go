package backend

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI generates replies through the chat completions API, sending
// the instructions as a system role message and the prompt as a user
// message.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates the OpenAI backend variant.
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey), model: model}
}

// Generate sends one chat completion request.
func (o *OpenAI) Generate(ctx context.Context, instructions, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instructions},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response content is empty")
	}
	return content, nil
}
