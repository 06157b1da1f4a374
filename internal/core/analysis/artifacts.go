package analysis

import "encoding/json"

// Kind es el tipo de un artefacto extraído.
type Kind string

const (
	KindEmails Kind = "emails"
	KindURLs   Kind = "urls"
	KindIPs    Kind = "ips"
	KindPhones Kind = "phones"
)

// Kinds lista los tipos en orden de presentación.
var Kinds = []Kind{KindEmails, KindURLs, KindIPs, KindPhones}

// ArtifactSet agrupa valores únicos por tipo, en orden de primera aparición.
type ArtifactSet map[Kind][]string

// Get devuelve los valores de k (nil si no hay).
func (s ArtifactSet) Get(k Kind) []string {
	return s[k]
}

// Has indica si v ya está registrado bajo k.
func (s ArtifactSet) Has(k Kind, v string) bool {
	for _, existing := range s[k] {
		if existing == v {
			return true
		}
	}
	return false
}

// Append añade los valores que aún no existan bajo k, sin reordenar los
// existentes. Devuelve cuántos se añadieron. No crea la clave si no añade nada.
func (s ArtifactSet) Append(k Kind, values ...string) int {
	seen := make(map[string]struct{}, len(s[k])+len(values))
	for _, v := range s[k] {
		seen[v] = struct{}{}
	}
	added := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		s[k] = append(s[k], v)
		added++
	}
	return added
}

// Clone devuelve una copia profunda.
func (s ArtifactSet) Clone() ArtifactSet {
	out := make(ArtifactSet, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Count devuelve el total de artefactos.
func (s ArtifactSet) Count() int {
	n := 0
	for _, v := range s {
		n += len(v)
	}
	return n
}

// MarshalJSON serializa un set nil como {}.
func (s ArtifactSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[Kind][]string(s))
}
