package recommend

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// LLMClient generates free-form text from a prompt.
type LLMClient interface {
	Generate(context context.Context, prompt string) (string, error)
}

const systemPrompt = "You are a well-read librarian. Recommend books as a JSON array of " +
	`objects with "title", "author" and "reason" fields. Return only the JSON array.`

// OpenAIClient implements [LLMClient] over the OpenAI chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs a client for the given API key and model.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Generate sends one chat completion request and returns the raw answer.
func (client *OpenAIClient) Generate(context context.Context, prompt string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: client.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	response, err := client.client.CreateChatCompletion(context, request)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return response.Choices[0].Message.Content, nil
}
