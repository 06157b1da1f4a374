package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	perrors "evidence-lens/internal/platform/errors"
)

func TestArtifactSetAppendPreservesOrder(t *testing.T) {
	t.Parallel()

	set := ArtifactSet{KindIPs: {"10.0.0.1", "192.168.1.1"}}
	added := set.Append(KindIPs, "203.0.113.5", "10.0.0.1", "203.0.113.5", "")
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
	want := []string{"10.0.0.1", "192.168.1.1", "203.0.113.5"}
	if diff := cmp.Diff(want, set.Get(KindIPs)); diff != "" {
		t.Fatalf("ips mismatch (-want +got):\n%s", diff)
	}

	if n := set.Append(KindEmails); n != 0 {
		t.Fatalf("empty append added %d", n)
	}
	if _, ok := set[KindEmails]; ok {
		t.Fatal("empty append must not materialise the kind")
	}
}

func TestArtifactSetCloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := ArtifactSet{KindURLs: {"https://a.example"}}
	clone := orig.Clone()
	clone.Append(KindURLs, "https://b.example")
	if len(orig.Get(KindURLs)) != 1 {
		t.Fatal("clone shares backing storage with original")
	}
}

func TestCanonicalLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Label
		ok   bool
	}{
		{"phishing attempt", LabelPhishing, true},
		{"  DATA   BREACH ", LabelDataBreach, true},
		{"other / unknown", LabelOther, true},
		{"Unknown", "", false},
		{"Crypto Scam", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := CanonicalLabel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("CanonicalLabel(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCategoriesAreClosed(t *testing.T) {
	t.Parallel()

	if len(Categories) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(Categories))
	}
	if LabelUnknown.IsCategory() {
		t.Fatal("the terminal sentinel must stay outside the taxonomy")
	}
	for _, c := range Categories {
		if len(LegalReferences(c)) == 0 {
			t.Errorf("no legal references for %q", c)
		}
	}
	if diff := cmp.Diff(LegalReferences(LabelOther), LegalReferences("Crypto Scam")); diff != "" {
		t.Errorf("unknown label should fall back to Other (-want +got):\n%s", diff)
	}
}

func TestReportJSONMaterialisesEmptySections(t *testing.T) {
	t.Parallel()

	report := AnalysisReport{
		ID:             "a1",
		Classification: ClassificationResult{Label: LabelUnknown, Summary: "Unable to analyze evidence", Source: SourceDefault},
		URLEnrichment:  []URLRecord{{URL: "http://203.0.113.5/", Error: "no registrable domain"}},
	}
	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"artifacts", "classification", "digest", "url_enrichment", "ip_enrichment"} {
		v, ok := decoded[key]
		if !ok || v == nil {
			t.Errorf("section %q missing or null in %s", key, raw)
		}
	}
	if !strings.Contains(string(raw), `"clues":[]`) {
		t.Errorf("clues should serialise as []: %s", raw)
	}
	if !strings.Contains(string(raw), `"resolved_ips":[]`) || !strings.Contains(string(raw), `"dns":{}`) {
		t.Errorf("url record lists should be materialised: %s", raw)
	}
	if !strings.Contains(string(raw), `"digest":{}`) {
		t.Errorf("digest without a file should be {}: %s", raw)
	}
}

func TestRecordsAlwaysCarryTheirKeys(t *testing.T) {
	t.Parallel()

	report := AnalysisReport{
		URLEnrichment: []URLRecord{{URL: "https://paypa1-secure.com/", Domain: "paypa1-secure.com", DNS: map[string][]string{}}},
		IPEnrichment:  []IPRecord{{IP: "203.0.113.5", ASNInfo: &ASNInfo{ASN: "64500"}}},
	}
	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		URLs []map[string]any `json:"url_enrichment"`
		IPs  []map[string]any `json:"ip_enrichment"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"url", "domain", "resolved_ips", "whois", "dns", "error"} {
		if _, ok := decoded.URLs[0][key]; !ok {
			t.Errorf("url record missing key %q: %s", key, raw)
		}
	}
	for _, key := range []string{"ip", "asn_info", "reverse_dns", "error"} {
		if _, ok := decoded.IPs[0][key]; !ok {
			t.Errorf("ip record missing key %q: %s", key, raw)
		}
	}
	asn, _ := decoded.IPs[0]["asn_info"].(map[string]any)
	if _, ok := asn["error"]; !ok {
		t.Errorf("asn_info missing key \"error\": %s", raw)
	}
}

func TestEvidenceInputValidate(t *testing.T) {
	t.Parallel()

	if err := (EvidenceInput{Text: "   "}).Validate(); !errors.Is(err, perrors.ErrNoEvidence) {
		t.Fatalf("blank input should be rejected, got %v", err)
	}
	if err := (EvidenceInput{File: PathRef("/tmp/x.bin")}).Validate(); err != nil {
		t.Fatalf("file-only input should be accepted: %v", err)
	}
	if got := PathRef("/var/evidence/mail.eml").Name(); got != "mail.eml" {
		t.Fatalf("PathRef.Name = %q", got)
	}
}
