package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"evidence-lens/internal/core/analysis"
	perrors "evidence-lens/internal/platform/errors"
)

// View selecciona qué representación del reporte se escribe.
type View string

const (
	ViewFull      View = "full"
	ViewDashboard View = "dashboard"
	ViewDetailed  View = "detailed"
	ViewEnvelope  View = "envelope"
)

// Views lista las vistas válidas en orden de ayuda.
var Views = []View{ViewFull, ViewDashboard, ViewDetailed, ViewEnvelope}

// ParseView valida el nombre de vista recibido por flag.
func ParseView(raw string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(raw)))
	if v == "" {
		return ViewFull, nil
	}
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	names := make([]string, len(Views))
	for i, known := range Views {
		names[i] = string(known)
	}
	return "", perrors.NewConfigurationError("view", raw, "unknown report view",
		"use one of: "+strings.Join(names, ", "))
}

// Write serializa r en la vista pedida.
func Write(w io.Writer, r analysis.AnalysisReport, view View) error {
	var payload any
	switch view {
	case ViewFull, "":
		payload = r
	case ViewDashboard:
		payload = NewDashboard(r)
	case ViewDetailed:
		payload = NewDetailed(r)
	case ViewEnvelope:
		payload = NewEnvelope(r)
	default:
		return fmt.Errorf("report: unknown view %q", view)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	return nil
}

// WriteFile escribe el reporte en path, creando el directorio si hace falta.
// path vacío o "-" significa stdout.
func WriteFile(path string, r analysis.AnalysisReport, view View) error {
	if path == "" || path == "-" {
		return Write(os.Stdout, r, view)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: mkdir %q: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %q: %w", path, err)
	}
	if err := Write(f, r, view); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
