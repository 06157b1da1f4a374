// Package artifacts extrae indicadores (emails, URLs, IPv4, teléfonos) de texto libre.
package artifacts

import (
	"regexp"
	"strconv"
	"strings"

	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/platform/urlutil"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	urlRe   = regexp.MustCompile(`https?://[^\s'"<>\[\]{}()]+`)
	ipv4Re  = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	phoneRe = regexp.MustCompile(`\+?\d[\d \t\-()]{7,}\d`)
)

const minPhoneDigits = 9

// Extract devuelve los artefactos encontrados en text. Los tipos sin
// coincidencias no aparecen en el resultado. Sin I/O.
func Extract(text string) analysis.ArtifactSet {
	set := analysis.ArtifactSet{}
	if text == "" {
		return set
	}

	set.Append(analysis.KindEmails, Emails(text)...)
	set.Append(analysis.KindURLs, URLs(text)...)
	set.Append(analysis.KindIPs, IPv4s(text)...)
	set.Append(analysis.KindPhones, Phones(text)...)
	return set
}

// Emails devuelve los emails de text, con mayúsculas preservadas.
func Emails(text string) []string {
	var out []string
	for _, m := range emailRe.FindAllString(text, -1) {
		// "mail me at a@b.com." -> el punto final es de la frase
		m = strings.TrimRight(m, ".-")
		if strings.Contains(m[strings.IndexByte(m, '@'):], ".") {
			out = append(out, m)
		}
	}
	return out
}

// URLs devuelve las URLs http(s) de text, sin la puntuación final de la frase.
func URLs(text string) []string {
	var out []string
	for _, m := range urlRe.FindAllString(text, -1) {
		m = urlutil.TrimTrailingPunct(m)
		if _, rest, _ := strings.Cut(m, "://"); rest != "" {
			out = append(out, m)
		}
	}
	return out
}

// IPv4s devuelve las direcciones IPv4 de text con todos los octetos <= 255.
func IPv4s(text string) []string {
	var out []string
	for _, m := range ipv4Re.FindAllString(text, -1) {
		if validOctets(m) {
			out = append(out, m)
		}
	}
	return out
}

func validOctets(candidate string) bool {
	for _, part := range strings.Split(candidate, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// Phones devuelve secuencias telefónicas con al menos 9 dígitos.
func Phones(text string) []string {
	var out []string
	for _, m := range phoneRe.FindAllString(text, -1) {
		if countDigits(m) >= minPhoneDigits {
			out = append(out, m)
		}
	}
	return out
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
