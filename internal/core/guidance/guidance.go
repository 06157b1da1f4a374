// Package guidance genera recomendaciones para la víctima a partir de la
// descripción del incidente, usando la misma cadena de proveedores.
package guidance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"evidence-lens/internal/adapters/llm"
	perrors "evidence-lens/internal/platform/errors"
)

const systemPrompt = "You are a helpful cybercrime reporting assistant."

// ErrEmptyQuery es el error de entrada cuando no hay descripción.
var ErrEmptyQuery = errors.New("query is required")

// Generator es la capacidad que el Advisor necesita de la cadena.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (llm.Response, error)
}

// Guidance es la respuesta entregada al usuario.
type Guidance struct {
	Provider string `json:"provider"`
	Guidance string `json:"guidance"`
}

// Advisor no guarda estado entre llamadas.
type Advisor struct {
	gen Generator
}

// New crea un Advisor sobre gen.
func New(gen Generator) *Advisor {
	return &Advisor{gen: gen}
}

// BuildPrompt arma el prompt con el incidente tal y como lo describió el usuario.
func BuildPrompt(query string) string {
	var b strings.Builder
	b.WriteString("You are a cybercrime assistant. A user submitted this incident:\n")
	fmt.Fprintf(&b, "%q\n\n", query)
	b.WriteString("Based on this, give:\n")
	b.WriteString("- Personalized and practical steps they should take\n")
	b.WriteString("- Safety tips based on the context\n")
	b.WriteString("- Relevant official links or contacts (if applicable)\n\n")
	b.WriteString("Keep it short, clear, and victim-friendly.\n")
	return b.String()
}

// Guide devuelve la guía del primer proveedor que responda. Sin proveedores
// disponibles devuelve un error que envuelve ErrProvidersExhausted.
func (a *Advisor) Guide(ctx context.Context, query string) (Guidance, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Guidance{}, perrors.WithSuggestion(ErrEmptyQuery, "describe what happened in a sentence or two")
	}
	if a.gen == nil {
		return Guidance{}, fmt.Errorf("guidance: %w", perrors.ErrProvidersExhausted)
	}

	resp, err := a.gen.Generate(ctx, llm.Request{System: systemPrompt, Prompt: BuildPrompt(query)})
	if err != nil {
		return Guidance{}, perrors.WithSuggestion(fmt.Errorf("guidance: %w", err),
			"set GOOGLE_API_KEY or OPENAI_API_KEY, or check provider connectivity")
	}
	return Guidance{Provider: resp.Provider, Guidance: strings.TrimSpace(resp.Text)}, nil
}
