package whois

import (
	"errors"
	"strings"

	whoisparser "github.com/likexian/whois-parser"

	"evidence-lens/internal/core/analysis"
)

// Parse normaliza una respuesta WHOIS cruda. La respuesta del registrar, si
// la hubo, viene concatenada tras la del registro.
func Parse(raw string) (analysis.WhoisInfo, error) {
	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		switch {
		case errors.Is(err, whoisparser.ErrNotFoundDomain):
			return analysis.WhoisInfo{}, ErrNotFound
		case errors.Is(err, whoisparser.ErrDomainLimitExceed):
			return analysis.WhoisInfo{}, ErrRestricted
		}
		return analysis.WhoisInfo{}, err
	}

	var info analysis.WhoisInfo
	if d := parsed.Domain; d != nil {
		info.CreationDate = clean(d.CreatedDate)
		info.ExpirationDate = clean(d.ExpirationDate)
		info.Server = clean(d.WhoisServer)
	}
	if r := parsed.Registrar; r != nil {
		info.Registrar = clean(r.Name)
		if strings.HasPrefix(strings.ToLower(info.Registrar), "http") {
			info.Registrar = ""
		}
	}
	if r := parsed.Registrant; r != nil {
		info.Country = strings.ToUpper(clean(r.Country))
	}
	info.Emails = emails(parsed.Registrant, parsed.Registrar, parsed.Administrative, parsed.Technical)

	if info.Registrar == "" && info.CreationDate == "" && info.ExpirationDate == "" {
		return analysis.WhoisInfo{}, errors.New("no registration data in response")
	}
	return info, nil
}

// emails junta los correos de los contactos, en minúsculas y sin repetir.
func emails(contacts ...*whoisparser.Contact) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range contacts {
		if c == nil {
			continue
		}
		e := strings.ToLower(clean(c.Email))
		if e == "" || !strings.Contains(e, "@") {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func clean(v string) string {
	v = strings.TrimSpace(v)
	l := strings.ToLower(v)
	if strings.Contains(l, "redacted") || l == "not available" || l == "n/a" {
		return ""
	}
	return v
}
