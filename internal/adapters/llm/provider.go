// Package llm reúne los proveedores de modelos generativos usados como
// respaldo de clasificación y para la guía a víctimas, y la cadena ordenada
// que los prueba.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	perrors "evidence-lens/internal/platform/errors"
	"evidence-lens/internal/platform/logx"
)

// Request es un prompt enviado a un proveedor.
type Request struct {
	System      string
	Prompt      string
	Temperature *float64
}

// Provider genera texto a partir de un prompt. Cualquier error significa que
// el proveedor falló; nadie inspecciona la causa concreta.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Response es la primera respuesta exitosa.
type Response struct {
	Provider string
	Text     string
}

// Chain prueba los proveedores en orden y devuelve la primera respuesta no vacía.
type Chain struct {
	providers []Provider
	// Observe, si no es nil, se invoca una vez por proveedor intentado.
	Observe func(provider string, err error)
}

// NewChain construye la cadena, ignorando proveedores nil.
func NewChain(providers ...Provider) *Chain {
	c := &Chain{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Names devuelve los nombres de los proveedores en orden.
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Generate envía req a cada proveedor hasta que uno responde. Si fallan todos
// devuelve ErrProvidersExhausted envolviendo el error de cada proveedor.
func (c *Chain) Generate(ctx context.Context, req Request) (Response, error) {
	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		op := logx.StartOperation(p.Name(), "generate")
		text, err := p.Generate(ctx, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = perrors.NewProviderError(p.Name(), 0, perrors.ErrEmptyOutput)
		}
		if c.Observe != nil {
			c.Observe(p.Name(), err)
		}
		if err != nil {
			if errors.Is(err, perrors.ErrProviderNotConfigured) {
				logx.ToolDebugf(p.Name(), "skipped: no API key")
			} else {
				op.Fail(err)
			}
			errs = append(errs, err)
			continue
		}
		op.Complete()
		return Response{Provider: p.Name(), Text: text}, nil
	}
	if len(errs) == 0 {
		return Response{}, perrors.ErrProvidersExhausted
	}
	return Response{}, fmt.Errorf("%w: %w", perrors.ErrProvidersExhausted, errors.Join(errs...))
}
