package netutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var (
	// ErrIPHost se devuelve cuando el host de una URL es un literal IP.
	ErrIPHost = errors.New("no registrable domain: host is an IP address")
	// ErrNoHost se devuelve cuando no se puede extraer un host de la URL.
	ErrNoHost = errors.New("no host in URL")
)

// NormalizeHost extrae el host canónico de una URL o de un host suelto.
// - Acepta URLs con o sin esquema, con credenciales, puertos y literales IPv6.
// - Elimina brackets de IPv6, puertos y el punto final de un FQDN.
// - Convierte nombres internacionalizados a su forma ASCII (punycode).
// Devuelve el host en minúsculas o "" si no hay host.
func NormalizeHost(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	candidate := trimmed
	var (
		parsed *url.URL
		err    error
	)
	if strings.Contains(candidate, "://") {
		parsed, err = url.Parse(candidate)
	} else {
		parsed, err = url.Parse("http://" + candidate)
	}
	if err == nil && parsed != nil {
		// Hostname() ya quita credenciales, puerto y brackets
		candidate = parsed.Hostname()
	} else {
		// url.Parse rechaza algunos hosts con caracteres raros; limpieza manual
		if i := strings.Index(candidate, "://"); i >= 0 {
			candidate = candidate[i+3:]
		}
		if at := strings.LastIndexByte(candidate, '@'); at >= 0 {
			candidate = candidate[at+1:]
		}
		if i := strings.IndexAny(candidate, "/?#"); i >= 0 {
			candidate = candidate[:i]
		}
		if host, _, err := net.SplitHostPort(candidate); err == nil {
			candidate = host
		}
		candidate = strings.Trim(candidate, "[]")
	}

	lowered := strings.ToLower(strings.TrimSuffix(candidate, "."))
	if lowered == "" {
		return ""
	}
	if net.ParseIP(lowered) != nil {
		return lowered
	}
	if ascii, err := idna.Lookup.ToASCII(lowered); err == nil && ascii != "" {
		return ascii
	}
	return lowered
}

// IsIP indica si host es un literal IPv4 o IPv6.
func IsIP(host string) bool {
	return net.ParseIP(strings.Trim(host, "[]")) != nil
}

// RegistrableDomain devuelve el dominio registrable (eTLD+1) del host de rawURL.
// "https://a.b.example.co.uk/x" -> "example.co.uk".
func RegistrableDomain(rawURL string) (string, error) {
	host := NormalizeHost(rawURL)
	if host == "" {
		return "", ErrNoHost
	}
	if IsIP(host) {
		return "", ErrIPHost
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("no registrable domain for %q: %w", host, err)
	}
	return domain, nil
}

// ReverseIPv4 invierte los octetos de una IPv4 para consultas in-addr y Cymru.
// Devuelve "" si ip no es IPv4.
func ReverseIPv4(ip string) string {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return ""
	}
	v4 := parsed.To4()
	if v4 == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d.%d", v4[3], v4[2], v4[1], v4[0])
}
