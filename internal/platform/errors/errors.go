// Package errors proporciona tipos de error con contexto y sugerencias para
// los fallos que el pipeline de evidencias degrada o reporta.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrProviderNotConfigured se devuelve cuando un proveedor no tiene API key.
	ErrProviderNotConfigured = errors.New("provider not configured")
	// ErrEmptyOutput se devuelve cuando un proveedor responde sin texto útil.
	ErrEmptyOutput = errors.New("provider returned empty output")
	// ErrProvidersExhausted indica que ningún proveedor de la cadena respondió.
	ErrProvidersExhausted = errors.New("all providers failed")
	// ErrNoEvidence es el error de entrada cuando no hay texto ni fichero.
	ErrNoEvidence = errors.New("either text or file evidence is required")
)

// ErrorWithSuggestion es un error que incluye una sugerencia para el usuario.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
	Context    map[string]string
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Suggestion != "" {
		b.WriteString("\n\nhint: ")
		b.WriteString(e.Suggestion)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n\ncontext:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, e.Context[k])
		}
	}
	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WithSuggestion envuelve un error con una sugerencia para el usuario.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
		Context:    make(map[string]string),
	}
}

// WithContext añade un par clave/valor al error, reutilizando el envoltorio si ya existe.
func WithContext(err error, key, value string) error {
	if err == nil {
		return nil
	}

	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		if suggErr.Context == nil {
			suggErr.Context = make(map[string]string)
		}
		suggErr.Context[key] = value
		return err
	}

	return &ErrorWithSuggestion{
		Err:     err,
		Context: map[string]string{key: value},
	}
}

// NetworkError representa el fallo de una consulta externa (DNS, WHOIS, RDAP).
type NetworkError struct {
	Operation string
	Target    string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError crea un NetworkError. El mensaje se guarda tal cual en los
// registros de enriquecimiento, así que no se decora con sugerencias.
func NewNetworkError(operation, target string, err error) error {
	if err == nil {
		return nil
	}
	return &NetworkError{Operation: operation, Target: truncate(target, 100), Err: err}
}

// TimeoutError representa una consulta que superó su plazo.
type TimeoutError struct {
	Operation string
	Duration  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.Duration)
}

// NewTimeoutError crea un TimeoutError con la sugerencia de subir el timeout.
func NewTimeoutError(operation string, d time.Duration, flag string) error {
	err := WithSuggestion(&TimeoutError{Operation: operation, Duration: d},
		fmt.Sprintf("raise the timeout with --%s=%s", flag, d*2))
	return WithContext(err, "operation", operation)
}

// InvalidOutputError representa una respuesta de proveedor inutilizable.
type InvalidOutputError struct {
	Source string
	Reason string
	Sample string
}

func (e *InvalidOutputError) Error() string {
	msg := fmt.Sprintf("invalid output from %s: %s", e.Source, e.Reason)
	if e.Sample != "" {
		msg += fmt.Sprintf(" (sample: %q)", truncate(e.Sample, 50))
	}
	return msg
}

// ConfigurationError representa un valor de configuración inválido.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for '%s': %s", e.Field, e.Reason)
}

// NewConfigurationError crea un ConfigurationError con sugerencia y contexto.
func NewConfigurationError(field, value, reason, suggestion string) error {
	err := WithSuggestion(&ConfigurationError{Field: field, Value: value, Reason: reason}, suggestion)
	err = WithContext(err, "field", field)
	if value != "" {
		err = WithContext(err, "value", value)
	}
	return err
}

// ProviderError indica que un proveedor generativo falló. El clasificador solo
// distingue "respondió" de "falló"; Err conserva la causa para los logs.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: HTTP %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError envuelve err como ProviderError; devuelve nil si err es nil.
func NewProviderError(provider string, status int, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, StatusCode: status, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// GetSuggestion extrae la sugerencia de un error si existe.
func GetSuggestion(err error) string {
	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		return suggErr.Suggestion
	}
	return ""
}

// GetContext extrae el contexto de un error si existe.
func GetContext(err error) map[string]string {
	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		return suggErr.Context
	}
	return nil
}

// IsTimeout reporta si err es un TimeoutError.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsInvalidOutput reporta si err es un InvalidOutputError.
func IsInvalidOutput(err error) bool {
	var invalidErr *InvalidOutputError
	return errors.As(err, &invalidErr)
}

// IsProvider reporta si err proviene de un proveedor generativo.
func IsProvider(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}

// IsNetwork reporta si err es un fallo de consulta externa.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsConfiguration reporta si err es un error de configuración.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
