package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"error":   LevelError,
		"WARNING": LevelWarn,
		" info ":  LevelInfo,
		"":        LevelInfo,
		"debug":   LevelDebug,
		"trace":   LevelTrace,
	}
	for input, want := range tests {
		got, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		850 * time.Millisecond:   "850ms",
		4200 * time.Millisecond:  "4.2s",
		74400 * time.Millisecond: "1m14.4s",
	}
	for d, want := range tests {
		if got := FormatDuration(d); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetJSON(true)
	SetLevel(LevelDebug)
	t.Cleanup(func() {
		SetJSON(false)
		SetOutput(nil)
		SetLevel(LevelInfo)
	})

	LogTool(LevelWarn, "whois", "lookup failed", Fields{"domain": "example.com", "error": errors.New("refused")})

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("log line is not JSON: %q (%v)", line, err)
	}
	if decoded["tool"] != "whois" || decoded["domain"] != "example.com" || decoded["error"] != "refused" {
		t.Fatalf("unexpected fields: %v", decoded)
	}
	if decoded["level"] != "warn" {
		t.Fatalf("level = %v, want warn", decoded["level"])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetJSON(true)
	SetLevel(LevelInfo)
	t.Cleanup(func() {
		SetJSON(false)
		SetOutput(nil)
	})

	Debugf("hidden %d", 1)
	Infof("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Fatalf("info line missing: %q", out)
	}
}

func TestSpinnerWithoutTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSpinner(&buf, "analyzing evidence")
	s.Start()
	s.Start()
	s.Success("report ready")
	s.Failure("ignored after stop")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if lines[0] != "analyzing evidence..." {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[✔] report ready (") {
		t.Fatalf("last line = %q", lines[1])
	}
	if strings.Contains(buf.String(), "\033[") {
		t.Fatal("escape codes written to a non-terminal")
	}
}
