package dnsresolve

import (
	"context"
	"fmt"
	"strings"

	"evidence-lens/internal/platform/netutil"
)

const (
	cymruOriginZone = "origin.asn.cymru.com"
	cymruASNZone    = "asn.cymru.com"
)

// Origin es la respuesta de Team Cymru para una IPv4.
type Origin struct {
	ASN         string
	CIDR        string
	Country     string
	Registry    string
	Description string
}

// LookupOrigin consulta el ASN de origen de ip y, si lo hay, su descripción.
// Un fallo en la descripción no invalida el origen.
func (r *Resolver) LookupOrigin(ctx context.Context, ip string) (Origin, error) {
	reversed := netutil.ReverseIPv4(ip)
	if reversed == "" {
		return Origin{}, fmt.Errorf("asn lookup %s: not an IPv4 address", ip)
	}
	records, err := r.LookupRecords(ctx, "TXT", reversed+"."+cymruOriginZone)
	if err != nil {
		return Origin{}, err
	}
	if len(records) == 0 {
		return Origin{}, fmt.Errorf("asn lookup %s: %w", ip, ErrNoRecords)
	}

	origin := parseOrigin(records[0])
	if origin.ASN == "" {
		return Origin{}, fmt.Errorf("asn lookup %s: malformed answer %q", ip, records[0])
	}

	if desc, err := r.LookupRecords(ctx, "TXT", "AS"+origin.ASN+"."+cymruASNZone); err == nil && len(desc) > 0 {
		origin.Description = parseDescription(desc[0])
	}
	return origin, nil
}

// "13335 | 1.1.1.0/24 | AU | apnic | 2011-08-11"
func parseOrigin(record string) Origin {
	parts := splitPipes(record)
	if len(parts) < 3 {
		return Origin{}
	}
	// algunos prefijos anuncian varios ASN separados por espacio
	asn := strings.Fields(parts[0])
	if len(asn) == 0 {
		return Origin{}
	}
	o := Origin{ASN: asn[0], CIDR: parts[1], Country: parts[2]}
	if len(parts) > 3 {
		o.Registry = parts[3]
	}
	return o
}

// "13335 | US | arin | 2010-07-14 | CLOUDFLARENET, US"
func parseDescription(record string) string {
	parts := splitPipes(record)
	if len(parts) < 5 {
		return ""
	}
	return parts[4]
}

func splitPipes(record string) []string {
	record = strings.Trim(strings.TrimSpace(record), "\"")
	parts := strings.Split(record, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
