package analysis

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	perrors "evidence-lens/internal/platform/errors"
)

// FileRef es un manejador opaco de un fichero de evidencia. El pipeline solo
// lo abre para calcular el digest.
type FileRef interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// PathRef es un FileRef respaldado por una ruta del sistema de ficheros.
type PathRef string

func (p PathRef) Name() string { return filepath.Base(string(p)) }

func (p PathRef) Open() (io.ReadCloser, error) { return os.Open(string(p)) }

// EvidenceInput es la entrada de una invocación del pipeline.
type EvidenceInput struct {
	Text string
	File FileRef
}

// Validate rechaza una entrada sin texto ni fichero.
func (in EvidenceInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" && in.File == nil {
		return perrors.WithSuggestion(perrors.ErrNoEvidence, "pass evidence text or a file")
	}
	return nil
}
