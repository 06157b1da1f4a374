package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level representa el nivel mínimo de logging.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Fields representa pares clave-valor para structured logging.
type Fields map[string]any

type state struct {
	mu     sync.RWMutex
	logger zerolog.Logger
	level  Level
	out    io.Writer
	json   bool
}

var cfg = newState(os.Stderr)

func newState(w io.Writer) *state {
	s := &state{level: LevelInfo, out: w}
	s.logger = buildLogger(w, false)
	return s
}

// buildLogger crea el logger de consola o JSON. El color se desactiva cuando
// la salida no es un terminal.
func buildLogger(w io.Writer, asJSON bool) zerolog.Logger {
	if asJSON {
		return zerolog.New(w).With().Timestamp().Logger()
	}
	out := DetectOutput(w)
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    out.NoColor,
	}).With().Timestamp().Logger()
}

// SetVerbosity mapea -v: 0..1=info, 2=debug, 3+=trace.
func SetVerbosity(v int) {
	switch {
	case v <= 1:
		SetLevel(LevelInfo)
	case v == 2:
		SetLevel(LevelDebug)
	default:
		SetLevel(LevelTrace)
	}
}

// SetLevel cambia el nivel mínimo de logging.
func SetLevel(l Level) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.level = l
	cfg.logger = cfg.logger.Level(zerologLevel(l))
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel convierte un string en Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("logx: unknown level %q", s)
	}
}

// GetLevel retorna el nivel actual.
func GetLevel() Level {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.level
}

// SetOutput redirige la salida del logger conservando formato y nivel.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.out = w
	cfg.logger = buildLogger(w, cfg.json).Level(zerologLevel(cfg.level))
}

// SetJSON habilita output JSON estructurado.
func SetJSON(enabled bool) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.json = enabled
	cfg.logger = buildLogger(cfg.out, enabled).Level(zerologLevel(cfg.level))
}

func current() zerolog.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.logger
}

func Errorf(format string, a ...any) {
	l := current()
	l.Error().Msgf(format, a...)
}

func Warnf(format string, a ...any) {
	l := current()
	l.Warn().Msgf(format, a...)
}

func Infof(format string, a ...any) {
	l := current()
	l.Info().Msgf(format, a...)
}

func Debugf(format string, a ...any) {
	l := current()
	l.Debug().Msgf(format, a...)
}

func Tracef(format string, a ...any) {
	l := current()
	l.Trace().Msgf(format, a...)
}

func Error(msg string, fields Fields) { logFields(LevelError, msg, fields) }
func Warn(msg string, fields Fields) { logFields(LevelWarn, msg, fields) }
func Info(msg string, fields Fields) { logFields(LevelInfo, msg, fields) }
func Debug(msg string, fields Fields) { logFields(LevelDebug, msg, fields) }

func logFields(lvl Level, msg string, fields Fields) {
	l := current()
	var event *zerolog.Event
	switch lvl {
	case LevelError:
		event = l.Error()
	case LevelWarn:
		event = l.Warn()
	case LevelInfo:
		event = l.Info()
	case LevelDebug:
		event = l.Debug()
	default:
		event = l.Trace()
	}
	if event == nil {
		return
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			event = event.AnErr(k, err)
			continue
		}
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
