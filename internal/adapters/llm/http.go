package llm

import (
	"net/http"
	"time"

	perrors "evidence-lens/internal/platform/errors"
)

const defaultTimeout = 30 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// emptyAnswer marca una respuesta 200 sin texto utilizable.
func emptyAnswer(provider, reason string) error {
	return perrors.NewProviderError(provider, http.StatusOK, &perrors.InvalidOutputError{Source: provider, Reason: reason})
}
