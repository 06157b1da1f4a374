// Package classify asigna una categoría de incidente a la evidencia: primero
// reglas de palabras clave, después los proveedores generativos en orden.
package classify

import (
	"context"
	"fmt"
	"strings"

	"evidence-lens/internal/adapters/llm"
	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/core/metrics"
	"evidence-lens/internal/platform/logx"
)

const (
	systemPrompt   = "You are a cyber forensic assistant."
	unknownSummary = "Unable to analyze evidence"
	rawSummary     = "Model output could not be parsed; raw answer preserved"
)

// Generator es la capacidad que el clasificador necesita de la cadena de proveedores.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (llm.Response, error)
}

// Classifier es seguro para uso concurrente: no guarda estado entre llamadas.
type Classifier struct {
	rules   []Rule
	gen     Generator
	metrics *metrics.Metrics
}

// Option configura un Classifier.
type Option func(*Classifier)

// WithRules sustituye las reglas por defecto.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) { c.rules = rules }
}

// WithMetrics registra las clasificaciones por etapa.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Classifier) { c.metrics = m }
}

// New crea un clasificador. gen puede ser nil: sin proveedores, lo que no
// resuelvan las reglas termina en Unknown.
func New(gen Generator, opts ...Option) *Classifier {
	c := &Classifier{rules: DefaultRules, gen: gen}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Unknown es el resultado terminal cuando nada pudo clasificar la evidencia.
func Unknown() analysis.ClassificationResult {
	return analysis.ClassificationResult{
		Label:   analysis.LabelUnknown,
		Clues:   []string{},
		Summary: unknownSummary,
		Source:  analysis.SourceDefault,
	}
}

// BuildPrompt construye el prompt de clasificación con la taxonomía completa.
func BuildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a digital forensic analyst.\n")
	fmt.Fprintf(&b, "Classify the following evidence into one of: %s.\n", strings.Join(analysis.CategoryNames(), ", "))
	b.WriteString("Provide a JSON object with keys: suspect_profile (string), clues (list of strings), summary (string), legal (optional list).\n")
	b.WriteString("Evidence:\n")
	b.WriteString(text)
	b.WriteString("\nRespond only with valid JSON.\n")
	return b.String()
}

// Classify nunca falla: los errores de proveedor se degradan a Unknown.
func (c *Classifier) Classify(ctx context.Context, text string) analysis.ClassificationResult {
	result := c.classify(ctx, text)
	c.metrics.ObserveClassification(string(result.Source))
	return result
}

func (c *Classifier) classify(ctx context.Context, text string) analysis.ClassificationResult {
	if rule, ok := MatchRules(c.rules, text); ok {
		logx.Debug("classified by rule", logx.Fields{"label": string(rule.Label)})
		return analysis.ClassificationResult{
			Label:   rule.Label,
			Clues:   []string{rule.Clue},
			Summary: "Possible suspect activity: " + string(rule.Label),
			Source:  analysis.SourceRules,
		}
	}

	if c.gen == nil || strings.TrimSpace(text) == "" {
		return Unknown()
	}

	zero := 0.0
	resp, err := c.gen.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      BuildPrompt(text),
		Temperature: &zero,
	})
	if err != nil {
		logx.Warn("classification providers failed", logx.Fields{"error": err})
		return Unknown()
	}
	return FromModelOutput(resp.Provider, ParseModelOutput(resp.Text))
}

// FromModelOutput convierte la respuesta interpretada en un resultado. Las
// etiquetas fuera de la taxonomía se fijan a "Other / Unknown" y la original
// se conserva en ReportedLabel.
func FromModelOutput(provider string, out ModelOutput) analysis.ClassificationResult {
	if out.Kind == RawFallback {
		return analysis.ClassificationResult{
			Label:       analysis.LabelUnknown,
			Clues:       []string{},
			Summary:     rawSummary,
			RawFallback: out.Raw,
			Source:      analysis.SourceProvider,
			Provider:    provider,
		}
	}

	result := analysis.ClassificationResult{
		Clues:    out.Clues,
		Summary:  out.Summary,
		Legal:    out.Legal,
		Source:   analysis.SourceProvider,
		Provider: provider,
	}
	switch label, ok := analysis.CanonicalLabel(out.Profile); {
	case ok:
		result.Label = label
	case out.Profile == "":
		result.Label = analysis.LabelUnknown
	default:
		result.Label = analysis.LabelOther
		result.ReportedLabel = out.Profile
	}
	if result.Clues == nil {
		result.Clues = []string{}
	}
	if result.Summary == "" {
		result.Summary = "Possible suspect activity: " + string(result.Label)
	}
	return result
}
