package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"evidence-lens/internal/core/analysis"
	perrors "evidence-lens/internal/platform/errors"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExtractCommand(t *testing.T) {
	out, err := run(t, "", "extract", "--text", "write to scam@fraud.example or visit http://198.51.100.7/pay")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var got map[string][]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if diff := cmp.Diff([]string{"scam@fraud.example"}, got["emails"]); diff != "" {
		t.Fatalf("emails mismatch (-want +got):\n%s", diff)
	}
	if len(got["urls"]) != 1 {
		t.Fatalf("urls = %v", got["urls"])
	}
}

func TestExtractFromStdin(t *testing.T) {
	out, err := run(t, "call me at 192.0.2.10", "extract", "--text-file", "-")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "192.0.2.10") {
		t.Fatalf("output = %s", out)
	}
}

func TestDigestCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evidence.txt")
	if err := os.WriteFile(path, []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "digest", path)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	var got []analysis.DigestResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []analysis.DigestResult{{
		Name:   "evidence.txt",
		MD5:    "900150983cd24fb0d6963f7d28e17f72",
		SHA256: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Size:   3,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("digest mismatch (-want +got):\n%s", diff)
	}

	if _, err := run(t, "", "digest", filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestAnalyzeOfflineRulesOnly(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.json")
	_, err := run(t, "",
		"analyze", "--offline", "--rules-only", "--view", "dashboard", "--out", outPath,
		"--text", "Your bank account is locked, login at https://paypa1-secure.com/verify",
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var got struct {
		SuspectProfile string `json:"suspect_profile"`
		Artifacts      struct {
			URLs []string `json:"urls"`
		} `json:"artifacts"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SuspectProfile != string(analysis.LabelPhishing) {
		t.Fatalf("suspect_profile = %q", got.SuspectProfile)
	}
	if diff := cmp.Diff([]string{"https://paypa1-secure.com/verify"}, got.Artifacts.URLs); diff != "" {
		t.Fatalf("urls mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeWithoutEvidence(t *testing.T) {
	_, err := run(t, "", "analyze", "--offline", "--rules-only")
	if err == nil || perrors.GetSuggestion(err) == "" {
		t.Fatalf("err = %v, want no-evidence error with suggestion", err)
	}
}

func TestAnalyzeRejectsUnknownView(t *testing.T) {
	_, err := run(t, "", "analyze", "--offline", "--view", "pdf", "--text", "x")
	if !perrors.IsConfiguration(err) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestCategoriesCommand(t *testing.T) {
	out, err := run(t, "", "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	var got []categoryInfo
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(analysis.Categories) {
		t.Fatalf("got %d categories, want %d", len(got), len(analysis.Categories))
	}
	if got[0].Label != analysis.LabelPhishing || len(got[0].Legal) == 0 {
		t.Fatalf("first category = %+v", got[0])
	}
}

func TestInvalidGlobalFlag(t *testing.T) {
	_, err := run(t, "", "--workers", "0", "categories")
	if !perrors.IsConfiguration(err) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}
