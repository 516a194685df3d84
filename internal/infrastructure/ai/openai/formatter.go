// Package openai implements the grievance text formatter on the OpenAI
// chat-completion API. Failures are returned to the caller; the service
// layer substitutes the deterministic local template.
package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const prompt = "Convert this grievance to formal complaint format. Only give the final content, nothing else. And only use the info given. Grievance:\n"

// Config captures the formatter settings.
type Config struct {
	APIKey string
	Model  string
}

type Formatter struct {
	client *openai.Client
	model  string
}

func NewFormatter(cfg Config) *Formatter {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Formatter{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}
}

// Format renders description as a formal complaint.
func (f *Formatter) Format(ctx context.Context, description string) (string, error) {
	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt + description},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
