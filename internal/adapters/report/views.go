// Package report arma las vistas de presentación de un reporte de análisis y
// las escribe como JSON.
package report

import (
	"evidence-lens/internal/core/analysis"
)

// StatusSuccess es el status del sobre de un análisis completo.
const StatusSuccess = "success"

// DashboardArtifacts es el listado corto de artefactos del dashboard.
type DashboardArtifacts struct {
	Emails      []string `json:"emails"`
	URLs        []string `json:"urls"`
	IPAddresses []string `json:"ip_addresses"`
}

// Dashboard es la vista compacta con etiqueta, resumen y artefactos principales.
type Dashboard struct {
	SuspectProfile string             `json:"suspect_profile"`
	Summary        string             `json:"summary"`
	Artifacts      DashboardArtifacts `json:"artifacts"`
}

// ToolResults agrupa lo obtenido de consultas externas y del hashing.
type ToolResults struct {
	URLEnrichment []analysis.URLRecord  `json:"url_enrichment"`
	IPEnrichment  []analysis.IPRecord   `json:"ip_enrichment"`
	FileMetadata  analysis.DigestResult `json:"file_metadata"`
}

// Detailed es la vista completa para el investigador.
type Detailed struct {
	AnalysisID     string               `json:"analysis_id"`
	Summary        string               `json:"summary"`
	SuspectProfile string               `json:"suspect_profile"`
	Source         analysis.Source      `json:"source"`
	Provider       string               `json:"provider,omitempty"`
	Clues          []string             `json:"clues"`
	Legal          []string             `json:"legal_references"`
	RawFallback    string               `json:"raw_fallback,omitempty"`
	Artifacts      analysis.ArtifactSet `json:"artifacts"`
	ToolResults    ToolResults          `json:"tool_results"`
}

// Envelope es el cuerpo de la respuesta HTTP de un análisis.
type Envelope struct {
	Status    string    `json:"status"`
	Dashboard Dashboard `json:"dashboard"`
	Detailed  Detailed  `json:"detailed"`
}

// NewDashboard arma la vista dashboard.
func NewDashboard(r analysis.AnalysisReport) Dashboard {
	r = r.Normalize()
	return Dashboard{
		SuspectProfile: profile(r),
		Summary:        r.Classification.Summary,
		Artifacts: DashboardArtifacts{
			Emails:      nonNil(r.Artifacts.Get(analysis.KindEmails)),
			URLs:        nonNil(r.Artifacts.Get(analysis.KindURLs)),
			IPAddresses: nonNil(r.Artifacts.Get(analysis.KindIPs)),
		},
	}
}

// NewDetailed arma la vista detallada. Si el clasificador no adjuntó
// referencias legales se usan las de la etiqueta.
func NewDetailed(r analysis.AnalysisReport) Detailed {
	r = r.Normalize()
	legal := r.Classification.Legal
	if len(legal) == 0 {
		legal = analysis.LegalReferences(r.Classification.Label)
	}
	return Detailed{
		AnalysisID:     r.ID,
		Summary:        r.Classification.Summary,
		SuspectProfile: profile(r),
		Source:         r.Classification.Source,
		Provider:       r.Classification.Provider,
		Clues:          r.Classification.Clues,
		Legal:          legal,
		RawFallback:    r.Classification.RawFallback,
		Artifacts:      r.Artifacts,
		ToolResults: ToolResults{
			URLEnrichment: r.URLEnrichment,
			IPEnrichment:  r.IPEnrichment,
			FileMetadata:  r.Digest,
		},
	}
}

// NewEnvelope envuelve ambas vistas.
func NewEnvelope(r analysis.AnalysisReport) Envelope {
	return Envelope{
		Status:    StatusSuccess,
		Dashboard: NewDashboard(r),
		Detailed:  NewDetailed(r),
	}
}

func profile(r analysis.AnalysisReport) string {
	if r.Classification.Label == "" {
		return string(analysis.LabelUnknown)
	}
	return string(r.Classification.Label)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
