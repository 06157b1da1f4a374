package enrich

import (
	"context"
	"errors"
	"fmt"

	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/platform/logx"
	"evidence-lens/internal/platform/netutil"
	"evidence-lens/internal/platform/urlutil"
)

// RecordTypes son los tipos consultados para cada dominio, además de A.
var RecordTypes = []string{"MX", "NS", "TXT"}

// EnrichURLs devuelve un registro por URL, en el mismo orden.
func (e *Enricher) EnrichURLs(ctx context.Context, urls []string) []analysis.URLRecord {
	op := logx.StartOperation("enrich", "urls", logx.Fields{"count": len(urls)})
	records := forEach(ctx, e.workers, len(urls), func(ctx context.Context, i int) analysis.URLRecord {
		return e.enrichURL(ctx, urls[i])
	})

	failed := 0
	for _, rec := range records {
		if rec.Error != "" {
			failed++
		}
	}
	op.AddField("failed", failed)
	op.Complete()
	return records
}

func (e *Enricher) enrichURL(ctx context.Context, raw string) analysis.URLRecord {
	rec := analysis.URLRecord{
		URL:         raw,
		ResolvedIPs: []string{},
		DNS:         map[string][]string{},
	}

	domain, err := netutil.RegistrableDomain(raw)
	if err != nil {
		// una URL con IP literal no tiene dominio, pero la IP sí es útil
		if errors.Is(err, netutil.ErrIPHost) {
			rec.ResolvedIPs = []string{netutil.NormalizeHost(raw)}
		}
		rec.Error = err.Error()
		return rec
	}
	rec.Domain = domain

	ips, err := e.resolve(ctx, domain, urlutil.Hostname(raw))
	if err != nil {
		rec.Error = err.Error()
	} else {
		rec.ResolvedIPs = ips
	}

	if e.deps.Whois != nil {
		rec.Whois = e.whois(ctx, domain)
	}

	for _, rtype := range RecordTypes {
		rec.DNS[rtype] = e.records(ctx, rtype, domain)
	}
	return rec
}

// resolve pide los A del dominio y, si falla, resuelve el host de la URL con
// el resolver del sistema.
func (e *Enricher) resolve(ctx context.Context, domain, host string) ([]string, error) {
	if e.deps.Resolver == nil {
		return nil, errors.New("resolve: no resolver configured")
	}
	ips, err := e.deps.Resolver.LookupA(ctx, domain)
	e.metrics.ObserveLookup("dns", err)
	if err == nil && len(ips) > 0 {
		return ips, nil
	}

	if host == "" {
		host = domain
	}
	fallback, ferr := e.deps.Resolver.LookupHost(ctx, host)
	e.metrics.ObserveLookup("host", ferr)
	if ferr == nil && len(fallback) > 0 {
		return fallback, nil
	}
	logx.Debug("url resolution failed", logx.Fields{"domain": domain, "error": err, "fallback_error": ferr})
	if err == nil {
		err = ferr
	}
	return nil, fmt.Errorf("resolve %s: %w", domain, err)
}

func (e *Enricher) whois(ctx context.Context, domain string) *analysis.WhoisInfo {
	if err := e.wait(ctx); err != nil {
		return &analysis.WhoisInfo{Error: "whois failed: " + err.Error()}
	}
	info, err := e.deps.Whois.Lookup(ctx, domain)
	e.metrics.ObserveLookup("whois", err)
	if err != nil {
		logx.Debug("whois failed", logx.Fields{"domain": domain, "error": err})
		return &analysis.WhoisInfo{Error: "whois failed: " + err.Error()}
	}
	return &info
}

func (e *Enricher) records(ctx context.Context, rtype, domain string) []string {
	if e.deps.Resolver == nil {
		return []string{}
	}
	values, err := e.deps.Resolver.LookupRecords(ctx, rtype, domain)
	e.metrics.ObserveLookup("dns", err)
	if err != nil || values == nil {
		return []string{}
	}
	return values
}
