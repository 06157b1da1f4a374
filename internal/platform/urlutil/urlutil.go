// Package urlutil agrupa helpers para URLs encontradas en texto libre.
package urlutil

import (
	"net/url"
	"strings"
)

// sentencePunct cierra frases, no URLs.
const sentencePunct = ".,;:!?'\""

// TrimTrailingPunct quita la puntuación pegada al final de una URL, como en
// "visitá https://example.com/login." o "(ver https://x.io/a)".
func TrimTrailingPunct(raw string) string {
	return strings.TrimRight(raw, sentencePunct)
}

// Hostname devuelve el host de raw sin puerto ni brackets, o "" si raw no
// parsea o no trae host.
func Hostname(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
