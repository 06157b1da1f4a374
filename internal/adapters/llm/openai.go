package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"evidence-lens/internal/platform/config"
	perrors "evidence-lens/internal/platform/errors"
)

const openAIName = "openai"

var openAIBaseURL = "https://api.openai.com/v1/"

// OpenAI usa chat completions a través de github.com/openai/openai-go.
type OpenAI struct {
	apiKey string
	model  string
	client openai.Client
}

// NewOpenAI construye el proveedor. Sin API key el proveedor falla siempre
// con ErrProviderNotConfigured.
func NewOpenAI(cfg config.ProviderConfig) *OpenAI {
	base := strings.TrimSpace(cfg.Endpoint)
	if base == "" {
		base = openAIBaseURL
	}
	// Los reintentos los decide la cadena, no el SDK.
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(base),
		option.WithHTTPClient(newHTTPClient(cfg.Timeout)),
		option.WithMaxRetries(0),
	)
	return &OpenAI{apiKey: cfg.APIKey, model: cfg.Model, client: client}
}

func (o *OpenAI) Name() string { return openAIName }

func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	if o.apiKey == "" {
		return "", perrors.NewProviderError(openAIName, 0, perrors.ErrProviderNotConfigured)
	}

	params := openai.ChatCompletionNewParams{Model: openai.ChatModel(o.model)}
	if req.System != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(req.System))
	}
	params.Messages = append(params.Messages, openai.UserMessage(req.Prompt))
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", perrors.NewProviderError(openAIName, openAIStatus(err), err)
	}
	if len(resp.Choices) == 0 {
		return "", emptyAnswer(openAIName, "no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
