package logx

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	ansiClearLine = "\r\033[K"
	ansiBlue      = "\033[34m"
	ansiGreen     = "\033[32m"
	ansiRed       = "\033[31m"
	ansiReset     = "\033[0m"
)

// Spinner muestra progreso en w mientras dura una operación larga. Fuera de
// un terminal solo escribe una línea al empezar y otra al terminar.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	out     OutputConfig
	label   string
	started time.Time
	rate    time.Duration
	stop    chan struct{}
	done    chan struct{}
	active  bool
}

// NewSpinner crea un spinner sobre w.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		w:     w,
		out:   DetectOutput(w),
		label: label,
		rate:  100 * time.Millisecond,
	}
}

// Start arranca la animación. Llamarlo dos veces no tiene efecto.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.started = time.Now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	if !s.out.IsTTY {
		fmt.Fprintf(s.w, "%s...\n", s.label)
		close(s.done)
		return
	}
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := s.paint(ansiBlue, spinnerFrames[i%len(spinnerFrames)])
			fmt.Fprintf(s.w, "\r%s %s %s", frame, s.label, FormatDuration(time.Since(s.started)))
			s.mu.Unlock()
		}
	}
}

// Success detiene el spinner con una marca de éxito.
func (s *Spinner) Success(msg string) { s.finish(ansiGreen, "[✔]", msg) }

// Failure detiene el spinner con una marca de error.
func (s *Spinner) Failure(msg string) { s.finish(ansiRed, "[✗]", msg) }

func (s *Spinner) finish(color, mark, msg string) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stop)
	s.mu.Unlock()

	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := ""
	if s.out.IsTTY {
		prefix = ansiClearLine
	}
	fmt.Fprintf(s.w, "%s%s %s (%s)\n", prefix, s.paint(color, mark), msg, FormatDuration(time.Since(s.started)))
}

func (s *Spinner) paint(color, text string) string {
	if s.out.NoColor {
		return text
	}
	return color + text + ansiReset
}
