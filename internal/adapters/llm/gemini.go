package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"evidence-lens/internal/platform/config"
	perrors "evidence-lens/internal/platform/errors"
)

const geminiName = "gemini"

// geminiBaseURL es la raíz del servicio; el SDK añade la versión de API.
var geminiBaseURL = "https://generativelanguage.googleapis.com/"

// Gemini usa generateContent a través del SDK google.golang.org/genai.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGemini construye el proveedor. Sin API key el proveedor falla siempre
// con ErrProviderNotConfigured.
func NewGemini(cfg config.ProviderConfig) *Gemini {
	base := strings.TrimSpace(cfg.Endpoint)
	if base == "" {
		base = geminiBaseURL
	}
	return &Gemini{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: base,
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (g *Gemini) Name() string { return geminiName }

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", perrors.NewProviderError(geminiName, 0, perrors.ErrProviderNotConfigured)
	}

	// La key viaja en la cabecera x-goog-api-key, nunca en la URL.
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.client,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", perrors.NewProviderError(geminiName, 0, err)
	}

	gc := &genai.GenerateContentConfig{}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		gc.Temperature = genai.Ptr(float32(*req.Temperature))
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), gc)
	if err != nil {
		return "", perrors.NewProviderError(geminiName, geminiStatus(err), geminiCause(err))
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", perrors.NewProviderError(geminiName, http.StatusOK, errors.New("prompt blocked: "+string(resp.PromptFeedback.BlockReason)))
	}
	if len(resp.Candidates) == 0 {
		return "", emptyAnswer(geminiName, "no candidates")
	}
	return resp.Text(), nil
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// geminiCause reduce un APIError a su mensaje.
func geminiCause(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}
