// evidence-lens analiza evidencia de incidentes de cibercrimen: extrae
// artefactos, clasifica el incidente, calcula hashes y enriquece URLs e IPs.
//
// Uso:
//
//	evidence-lens analyze --text "..." [--file captura.png] [--view dashboard] [--out report.json]
//	evidence-lens extract --text "..."
//	evidence-lens digest <fichero>...
//	evidence-lens guidance "me pidieron el OTP por teléfono"
//	evidence-lens categories
//	evidence-lens serve [--listen 127.0.0.1:8080]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	perrors "evidence-lens/internal/platform/errors"
	"evidence-lens/internal/platform/logx"
)

// version se fija en build con -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		reportError(err)
		stop()
		os.Exit(1)
	}
}

func reportError(err error) {
	fields := logx.Fields{}
	for k, v := range perrors.GetContext(err) {
		fields[k] = v
	}
	if s := perrors.GetSuggestion(err); s != "" {
		fields["hint"] = s
	}
	logx.Error(err.Error(), fields)
}
