package clients

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// AIClient wraps the OpenAI chat API behind the single operation the pipeline
// needs: one user prompt in, one text completion out. No retries, no streaming.
type AIClient struct {
	client *openai.Client
	model  string
}

func NewAIClient(apiKey, model string) *AIClient {
	return &AIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (ac *AIClient) Complete(ctx context.Context, prompt string) (string, error) {
	chatCompletion, err := ac.client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			}),
			Model: openai.F(ac.model),
		})
	if err != nil {
		return "", err
	}

	if len(chatCompletion.Choices) == 0 {
		return "", errors.New("[AIClient] model returned no choices")
	}

	content := strings.TrimSpace(chatCompletion.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("[AIClient] model returned an empty completion")
	}
	return content, nil
}
