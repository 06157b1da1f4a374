package dnsresolve

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/miekg/dns"

	apperrors "evidence-lens/internal/platform/errors"
)

// zone maps "name./TYPE" to the records served for it.
type zone map[string][]string

func startServer(t *testing.T, records zone) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		q := req.Question[0]
		key := strings.ToLower(q.Name) + "/" + dns.TypeToString[q.Qtype]
		rrs, ok := records[key]
		if !ok {
			m.Rcode = dns.RcodeNameError
		}
		for _, text := range rrs {
			rr, err := dns.NewRR(text)
			if err != nil {
				t.Errorf("bad fixture %q: %v", text, err)
				continue
			}
			m.Answer = append(m.Answer, rr)
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func testZone() zone {
	return zone{
		"paypa1-secure.com./A": {
			"paypa1-secure.com. 60 IN A 203.0.113.5",
			"paypa1-secure.com. 60 IN A 203.0.113.5",
			"paypa1-secure.com. 60 IN A 203.0.113.6",
		},
		"paypa1-secure.com./MX": {"paypa1-secure.com. 60 IN MX 10 mx1.paypa1-secure.com."},
		"paypa1-secure.com./NS": {
			"paypa1-secure.com. 60 IN NS ns1.bulletproof.example.",
			"paypa1-secure.com. 60 IN NS ns2.bulletproof.example.",
		},
		"paypa1-secure.com./TXT":                {`paypa1-secure.com. 60 IN TXT "v=spf1 " "-all"`},
		"5.113.0.203.in-addr.arpa./PTR":         {"5.113.0.203.in-addr.arpa. 60 IN PTR host-5.bulletproof.example."},
		"5.113.0.203.origin.asn.cymru.com./TXT": {`5.113.0.203.origin.asn.cymru.com. 60 IN TXT "64500 | 203.0.113.0/24 | NL | ripencc | 2014-01-01"`},
		"as64500.asn.cymru.com./TXT":            {`AS64500.asn.cymru.com. 60 IN TXT "64500 | NL | ripencc | 2014-01-01 | BULLETPROOF-AS, NL"`},
		"9.113.0.203.origin.asn.cymru.com./TXT": {`9.113.0.203.origin.asn.cymru.com. 60 IN TXT "64501 64502 | 203.0.113.0/25 | US | arin | 2015-02-02"`},
		"empty.example./A":                      {},
	}
}

func TestLookupA(t *testing.T) {
	t.Parallel()

	r := New(startServer(t, testZone()), 2*time.Second)
	got, err := r.LookupA(context.Background(), "paypa1-secure.com")
	if err != nil {
		t.Fatalf("LookupA: %v", err)
	}
	if diff := cmp.Diff([]string{"203.0.113.5", "203.0.113.6"}, got); diff != "" {
		t.Fatalf("ips mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupANXDomain(t *testing.T) {
	t.Parallel()

	r := New(startServer(t, testZone()), 2*time.Second)
	_, err := r.LookupA(context.Background(), "does-not-exist.invalid")
	if err == nil {
		t.Fatal("expected NXDOMAIN error")
	}
	if !apperrors.IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "NXDOMAIN") {
		t.Fatalf("error = %q", err)
	}
}

func TestLookupAEmptyAnswer(t *testing.T) {
	t.Parallel()

	r := New(startServer(t, testZone()), 2*time.Second)
	_, err := r.LookupA(context.Background(), "empty.example")
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("err = %v, want ErrNoRecords", err)
	}
}

func TestLookupRecords(t *testing.T) {
	t.Parallel()

	r := New(startServer(t, testZone()), 2*time.Second)
	ctx := context.Background()

	tests := map[string][]string{
		"MX":  {"10 mx1.paypa1-secure.com"},
		"NS":  {"ns1.bulletproof.example", "ns2.bulletproof.example"},
		"txt": {"v=spf1 -all"},
	}
	for rtype, want := range tests {
		got, err := r.LookupRecords(ctx, rtype, "paypa1-secure.com")
		if err != nil {
			t.Fatalf("LookupRecords(%s): %v", rtype, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", rtype, diff)
		}
	}

	if _, err := r.LookupRecords(ctx, "BOGUS", "paypa1-secure.com"); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestLookupAddr(t *testing.T) {
	t.Parallel()

	r := New(startServer(t, testZone()), 2*time.Second)
	got, err := r.LookupAddr(context.Background(), "203.0.113.5")
	if err != nil {
		t.Fatalf("LookupAddr: %v", err)
	}
	if got != "host-5.bulletproof.example" {
		t.Fatalf("ptr = %q", got)
	}

	if _, err := r.LookupAddr(context.Background(), "203.0.113.77"); err == nil {
		t.Fatal("expected error for missing PTR")
	}
}

func TestLookupOrigin(t *testing.T) {
	t.Parallel()

	r := New(startServer(t, testZone()), 2*time.Second)
	got, err := r.LookupOrigin(context.Background(), "203.0.113.5")
	if err != nil {
		t.Fatalf("LookupOrigin: %v", err)
	}
	want := Origin{
		ASN:         "64500",
		CIDR:        "203.0.113.0/24",
		Country:     "NL",
		Registry:    "ripencc",
		Description: "BULLETPROOF-AS, NL",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("origin mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupOriginWithoutDescription(t *testing.T) {
	t.Parallel()

	r := New(startServer(t, testZone()), 2*time.Second)
	got, err := r.LookupOrigin(context.Background(), "203.0.113.9")
	if err != nil {
		t.Fatalf("LookupOrigin: %v", err)
	}
	if got.ASN != "64501" || got.Description != "" {
		t.Fatalf("unexpected origin %+v", got)
	}
}

func TestLookupOriginRejectsIPv6(t *testing.T) {
	t.Parallel()

	r := New("127.0.0.1:1", time.Second)
	if _, err := r.LookupOrigin(context.Background(), "2001:db8::1"); err == nil {
		t.Fatal("expected error for IPv6")
	}
}

func TestQueryTimesOut(t *testing.T) {
	t.Parallel()

	// socket que nunca responde
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = pc.Close() })

	r := New(pc.LocalAddr().String(), 150*time.Millisecond)
	_, err = r.LookupA(context.Background(), "paypa1-secure.com")
	if !apperrors.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestServersFromResolvConf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolv.conf")
	if err := os.WriteFile(path, []byte("nameserver 192.0.2.53\nnameserver 198.51.100.53\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	old := resolvConfPath
	resolvConfPath = path
	defer func() { resolvConfPath = old }()

	got := New("", time.Second).Servers()
	if diff := cmp.Diff([]string{"192.0.2.53:53", "198.51.100.53:53"}, got); diff != "" {
		t.Fatalf("servers mismatch (-want +got):\n%s", diff)
	}

	resolvConfPath = filepath.Join(t.TempDir(), "missing")
	if diff := cmp.Diff(DefaultServers, New("", time.Second).Servers()); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}

	if got := New(" 10.0.0.2:5353 ", time.Second).Servers(); len(got) != 1 || got[0] != "10.0.0.2:5353" {
		t.Fatalf("explicit server = %v", got)
	}
}
