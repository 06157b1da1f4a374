package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveLookup("whois", errors.New("x"))
	m.ObserveClassification("rules")
	m.ObserveProvider("gemini", nil)
	m.ObserveAnalysis(time.Second)

	if New(nil) != nil {
		t.Fatal("New(nil) should return nil")
	}
}

func TestCountersByLabel(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLookup("dns_a", nil)
	m.ObserveLookup("dns_a", nil)
	m.ObserveLookup("whois", errors.New("timeout"))
	m.ObserveProvider("openai", errors.New("401"))
	m.ObserveClassification("rules")
	m.ObserveAnalysis(250 * time.Millisecond)

	if got := testutil.ToFloat64(m.lookups.WithLabelValues("dns_a", OutcomeOK)); got != 2 {
		t.Fatalf("dns_a ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.lookups.WithLabelValues("whois", OutcomeError)); got != 1 {
		t.Fatalf("whois error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.providerCalls.WithLabelValues("openai", OutcomeError)); got != 1 {
		t.Fatalf("openai error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.classifications.WithLabelValues("rules")); got != 1 {
		t.Fatalf("rules = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.analysisDuration); n != 1 {
		t.Fatalf("histogram series = %d, want 1", n)
	}
}
