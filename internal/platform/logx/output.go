package logx

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputConfig describe las características del destino de logs.
type OutputConfig struct {
	IsTTY   bool
	NoColor bool
}

// DetectOutput detecta si w es un terminal. NO_COLOR fuerza la salida sin color.
func DetectOutput(w io.Writer) OutputConfig {
	tty := IsTerminal(w)
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	return OutputConfig{
		IsTTY:   tty,
		NoColor: !tty || noColorEnv,
	}
}

// IsTerminal verifica si el writer es un terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
