package generator

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/models"
)

// Sampling parameters used for every completion request.
const (
	completionTemperature = 0.7
	completionTopP        = 0.8
)

// OpenAILLM implements LLMClient with the openai-go SDK pointed at an
// OpenAI-compatible chat-completions endpoint.
type OpenAILLM struct {
	model  string
	apiKey string
	client openai.Client
}

// NewOpenAILLM builds the completion client from configuration. Missing
// credentials are not an error at construction; Complete reports them at
// the point of use, so a process without the key still starts and serves
// its other routes.
func NewOpenAILLM(cfg *config.LLMConfig) *OpenAILLM {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAILLM{model: cfg.Model, apiKey: cfg.APIKey, client: openai.NewClient(opts...)}
}

// Complete sends one system/user message pair and extracts the first
// choice's content. The content is returned untrimmed and unvalidated.
// No request is ever attempted without the credential.
func (o *OpenAILLM) Complete(ctx context.Context, system, user string) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("%w: completion API key (ZAI_API_KEY)", models.ErrConfiguration)
	}
	if o.model == "" {
		return "", fmt.Errorf("%w: completion model", models.ErrConfiguration)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(completionTemperature),
		TopP:        openai.Float(completionTopP),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", models.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion response has no choices", models.ErrUnexpectedShape)
	}

	return resp.Choices[0].Message.Content, nil
}
