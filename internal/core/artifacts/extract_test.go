package artifacts

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"evidence-lens/internal/core/analysis"
)

func TestExtractMixedEvidence(t *testing.T) {
	t.Parallel()

	text := "Contact support@paypa1-secure.com or SUPPORT@PayPa1-Secure.com. " +
		"Visit https://paypa1-secure.com/login?id=7, then http://203.0.113.5/verify. " +
		"Call +1 (555) 123-4567 now. Ref 999.1.1.1 and 192.168.1.1 and support@paypa1-secure.com again."

	got := Extract(text)
	want := analysis.ArtifactSet{
		analysis.KindEmails: {"support@paypa1-secure.com", "SUPPORT@PayPa1-Secure.com"},
		analysis.KindURLs:   {"https://paypa1-secure.com/login?id=7", "http://203.0.113.5/verify"},
		analysis.KindIPs:    {"203.0.113.5", "192.168.1.1"},
		analysis.KindPhones: {"+1 (555) 123-4567"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractOmitsEmptyKinds(t *testing.T) {
	t.Parallel()

	got := Extract("my account was hacked yesterday")
	if len(got) != 0 {
		t.Fatalf("expected no kinds, got %v", got)
	}
	if got := Extract(""); len(got) != 0 {
		t.Fatalf("empty text should produce an empty set, got %v", got)
	}
}

func TestIPv4OctetRange(t *testing.T) {
	t.Parallel()

	if got := IPv4s("999.1.1.1"); len(got) != 0 {
		t.Fatalf("999.1.1.1 should be rejected, got %v", got)
	}
	if got := IPv4s("192.168.1.1"); len(got) != 1 {
		t.Fatalf("192.168.1.1 should be accepted once, got %v", got)
	}
	if got := IPv4s("256.0.0.1 10.0.0.256 10.0.0.255"); !cmp.Equal(got, []string{"10.0.0.255"}) {
		t.Fatalf("unexpected IPs %v", got)
	}
}

func TestURLsStopAtQuotesAndBrackets(t *testing.T) {
	t.Parallel()

	text := `<a href="https://evil.example/x">(https://evil.example/y)</a> see [http://t.co/abc].`
	want := []string{"https://evil.example/x", "https://evil.example/y", "http://t.co/abc"}
	if diff := cmp.Diff(want, URLs(text)); diff != "" {
		t.Fatalf("URLs mismatch (-want +got):\n%s", diff)
	}
}

func TestPhonesNeedNineDigits(t *testing.T) {
	t.Parallel()

	if got := Phones("PIN 1234 5678"); len(got) != 0 {
		t.Fatalf("8 digits should not be a phone, got %v", got)
	}
	if got := Phones("call 98765-43210 today"); !cmp.Equal(got, []string{"98765-43210"}) {
		t.Fatalf("unexpected phones %v", got)
	}
}

func TestEmailsTrimSentencePunctuation(t *testing.T) {
	t.Parallel()

	got := Emails("write to victim.help@bank-alerts.co.in.")
	if !cmp.Equal(got, []string{"victim.help@bank-alerts.co.in"}) {
		t.Fatalf("unexpected emails %v", got)
	}
}

func TestExtractNeverDuplicates(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"a@x.io b@x.io a@x.io",
		"http://a.example http://a.example https://a.example",
		"1.1.1.1 1.1.1.1 8.8.8.8 1.1.1.1",
		"+91 98765 43210 and +91 98765 43210",
	}
	for _, in := range inputs {
		set := Extract(in)
		for kind, values := range set {
			seen := map[string]bool{}
			for _, v := range values {
				if seen[v] {
					t.Errorf("duplicate %q under %s for input %q", v, kind, in)
				}
				seen[v] = true
			}
		}
	}

	got := Extract("a@x.io b@x.io a@x.io").Get(analysis.KindEmails)
	if !cmp.Equal(got, []string{"a@x.io", "b@x.io"}) {
		t.Fatalf("first-seen order not preserved: %v", got)
	}
}
