package enrich

import (
	"context"
	"net"
	"strings"

	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/platform/logx"
)

// EnrichIPs devuelve un registro por IP, en el mismo orden.
func (e *Enricher) EnrichIPs(ctx context.Context, ips []string) []analysis.IPRecord {
	op := logx.StartOperation("enrich", "ips", logx.Fields{"count": len(ips)})
	records := forEach(ctx, e.workers, len(ips), func(ctx context.Context, i int) analysis.IPRecord {
		return e.enrichIP(ctx, ips[i])
	})
	op.Complete()
	return records
}

func (e *Enricher) enrichIP(ctx context.Context, ip string) analysis.IPRecord {
	rec := analysis.IPRecord{IP: ip}
	if net.ParseIP(strings.TrimSpace(ip)) == nil {
		rec.Error = "invalid IP address"
		return rec
	}

	if e.deps.RDAP != nil || e.deps.ASN != nil {
		rec.ASNInfo = e.asnInfo(ctx, ip)
	}

	if e.deps.Resolver != nil {
		host, err := e.deps.Resolver.LookupAddr(ctx, ip)
		e.metrics.ObserveLookup("ptr", err)
		if err == nil {
			rec.ReverseDNS = host
		}
	}
	return rec
}

// asnInfo combina RDAP y Team Cymru. Cada parte falla por separado; lo
// obtenido se conserva y Error resume los fallos.
func (e *Enricher) asnInfo(ctx context.Context, ip string) *analysis.ASNInfo {
	info := &analysis.ASNInfo{}
	var errs []string

	if e.deps.RDAP != nil {
		network, err := e.lookupRDAP(ctx, ip)
		e.metrics.ObserveLookup("rdap", err)
		if err != nil {
			errs = append(errs, "rdap: "+err.Error())
		} else {
			info.Network = &network
		}
	}

	if e.deps.ASN != nil {
		origin, err := e.deps.ASN.LookupOrigin(ctx, ip)
		e.metrics.ObserveLookup("asn", err)
		if err != nil {
			errs = append(errs, "asn: "+err.Error())
		} else {
			info.ASN = origin.ASN
			info.ASNCIDR = origin.CIDR
			info.ASNCountryCode = origin.Country
			info.ASNRegistry = origin.Registry
			info.ASNDescription = origin.Description
		}
	}

	if len(errs) > 0 {
		info.Error = strings.Join(errs, "; ")
		logx.Debug("asn lookup incomplete", logx.Fields{"ip": ip, "error": info.Error})
	}
	return info
}

func (e *Enricher) lookupRDAP(ctx context.Context, ip string) (analysis.Network, error) {
	if err := e.wait(ctx); err != nil {
		return analysis.Network{}, err
	}
	return e.deps.RDAP.LookupIP(ctx, ip)
}
