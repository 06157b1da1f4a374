package analysis

import (
	"encoding/json"
	"time"
)

// Source indica qué etapa del clasificador produjo el resultado.
type Source string

const (
	SourceRules    Source = "rules"
	SourceProvider Source = "provider"
	SourceDefault  Source = "default"
)

// ClassificationResult es la salida del clasificador.
type ClassificationResult struct {
	Label   Label    `json:"label"`
	Clues   []string `json:"clues"`
	Summary string   `json:"summary"`
	Legal   []string `json:"legal,omitempty"`

	// RawFallback conserva la respuesta del modelo cuando no se pudo
	// interpretar como JSON.
	RawFallback string `json:"raw_fallback,omitempty"`

	Source        Source `json:"source"`
	Provider      string `json:"provider,omitempty"`
	ReportedLabel string `json:"reported_label,omitempty"`
}

// WhoisInfo contiene los campos normalizados de una respuesta WHOIS, o solo
// Error si la consulta falló.
type WhoisInfo struct {
	Registrar      string   `json:"registrar,omitempty"`
	CreationDate   string   `json:"creation_date,omitempty"`
	ExpirationDate string   `json:"expiration_date,omitempty"`
	Country        string   `json:"country,omitempty"`
	Emails         []string `json:"emails,omitempty"`
	Server         string   `json:"server,omitempty"`
	Error          string   `json:"error"`
}

// URLRecord es el resultado de enriquecer una URL.
type URLRecord struct {
	URL         string              `json:"url"`
	Domain      string              `json:"domain"`
	ResolvedIPs []string            `json:"resolved_ips"`
	Whois       *WhoisInfo          `json:"whois"`
	DNS         map[string][]string `json:"dns"`
	Error       string              `json:"error"`
}

// Network describe el bloque de red devuelto por RDAP.
type Network struct {
	Name         string `json:"name,omitempty"`
	Handle       string `json:"handle,omitempty"`
	CIDR         string `json:"cidr,omitempty"`
	StartAddress string `json:"start_address,omitempty"`
	EndAddress   string `json:"end_address,omitempty"`
	Country      string `json:"country,omitempty"`
}

// ASNInfo combina el bloque RDAP con el origen ASN. Error se rellena si
// alguna de las dos consultas falló; lo obtenido se conserva.
type ASNInfo struct {
	Network        *Network `json:"network,omitempty"`
	ASN            string   `json:"asn,omitempty"`
	ASNCIDR        string   `json:"asn_cidr,omitempty"`
	ASNCountryCode string   `json:"asn_country_code,omitempty"`
	ASNRegistry    string   `json:"asn_registry,omitempty"`
	ASNDescription string   `json:"asn_description,omitempty"`
	Error          string   `json:"error"`
}

// IPRecord es el resultado de enriquecer una IP.
type IPRecord struct {
	IP         string   `json:"ip"`
	ASNInfo    *ASNInfo `json:"asn_info"`
	ReverseDNS string   `json:"reverse_dns"`
	Error      string   `json:"error"`
}

// DigestResult contiene ambos hashes o solo Error, nunca un hash suelto.
type DigestResult struct {
	Name   string `json:"name,omitempty"`
	MD5    string `json:"md5,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
	Size   int64  `json:"size,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK indica si el digest tiene ambos hashes.
func (d DigestResult) OK() bool {
	return d.Error == "" && d.MD5 != "" && d.SHA256 != ""
}

// AnalysisReport es el agregado final de una invocación del pipeline.
type AnalysisReport struct {
	ID             string               `json:"analysis_id"`
	GeneratedAt    time.Time            `json:"generated_at"`
	Artifacts      ArtifactSet          `json:"artifacts"`
	Classification ClassificationResult `json:"classification"`
	Digest         DigestResult         `json:"digest"`
	URLEnrichment  []URLRecord          `json:"url_enrichment"`
	IPEnrichment   []IPRecord           `json:"ip_enrichment"`
}

// Normalize devuelve una copia con todas las secciones materializadas:
// mapas y listas vacíos en lugar de nil.
func (r AnalysisReport) Normalize() AnalysisReport {
	if r.Artifacts == nil {
		r.Artifacts = ArtifactSet{}
	}
	if r.Classification.Clues == nil {
		r.Classification.Clues = []string{}
	}
	urls := make([]URLRecord, len(r.URLEnrichment))
	for i, rec := range r.URLEnrichment {
		if rec.ResolvedIPs == nil {
			rec.ResolvedIPs = []string{}
		}
		dns := make(map[string][]string, len(rec.DNS))
		for k, v := range rec.DNS {
			if v == nil {
				v = []string{}
			}
			dns[k] = v
		}
		rec.DNS = dns
		urls[i] = rec
	}
	r.URLEnrichment = urls
	ips := make([]IPRecord, len(r.IPEnrichment))
	copy(ips, r.IPEnrichment)
	r.IPEnrichment = ips
	return r
}

// MarshalJSON serializa el reporte normalizado.
func (r AnalysisReport) MarshalJSON() ([]byte, error) {
	type plain AnalysisReport
	return json.Marshal(plain(r.Normalize()))
}
