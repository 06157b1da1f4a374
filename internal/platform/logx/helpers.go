package logx

import (
	"fmt"
	"time"
)

// LogTool loggea con el campo "tool" pre-agregado (dns, whois, rdap, gemini...).
func LogTool(level Level, tool, msg string, extraFields ...Fields) {
	fields := Fields{"tool": tool}
	for _, extra := range extraFields {
		for k, v := range extra {
			fields[k] = v
		}
	}
	logFields(level, msg, fields)
}

func ToolDebugf(tool, format string, a ...any) {
	LogTool(LevelDebug, tool, fmt.Sprintf(format, a...))
}

// TimedOperation loggea inicio y fin de una etapa con su duración.
type TimedOperation struct {
	tool      string
	operation string
	start     time.Time
	fields    Fields
}

// StartOperation inicia el tracking de una operación.
func StartOperation(tool, operation string, fields ...Fields) *TimedOperation {
	op := &TimedOperation{
		tool:      tool,
		operation: operation,
		start:     time.Now(),
		fields:    Fields{},
	}
	for _, f := range fields {
		for k, v := range f {
			op.fields[k] = v
		}
	}
	LogTool(LevelDebug, tool, operation+" started", op.fields)
	return op
}

// Elapsed devuelve el tiempo transcurrido desde StartOperation.
func (op *TimedOperation) Elapsed() time.Duration {
	return time.Since(op.start)
}

// Complete marca la operación como completada.
func (op *TimedOperation) Complete() {
	op.fields["duration"] = FormatDuration(op.Elapsed())
	LogTool(LevelDebug, op.tool, op.operation+" completed", op.fields)
}

// Fail marca la operación como fallida.
func (op *TimedOperation) Fail(err error) {
	op.fields["duration"] = FormatDuration(op.Elapsed())
	op.fields["error"] = err.Error()
	LogTool(LevelWarn, op.tool, op.operation+" failed", op.fields)
}

// AddField añade un campo adicional a la operación.
func (op *TimedOperation) AddField(key string, value any) {
	op.fields[key] = value
}
