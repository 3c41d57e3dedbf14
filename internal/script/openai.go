package script

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type openaiGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator builds a script backend on the OpenAI chat completion
// API. JSON response mode keeps the model inside the output contract.
func NewOpenAIGenerator(apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai script mode requires an api key")
	}
	if model == "" {
		return nil, fmt.Errorf("openai script mode requires a model")
	}
	return &openaiGenerator{client: openai.NewClient(apiKey), model: model}, nil
}

func (g *openaiGenerator) Generate(ctx context.Context, req Request) ([]Turn, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(req)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai completion returned no choices")
	}
	return ParseResponse(resp.Choices[0].Message.Content, req)
}
