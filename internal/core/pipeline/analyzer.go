// Package pipeline compone extracción, clasificación, digest y enriquecimiento
// en una única llamada que devuelve el informe completo.
//
// Orden: extraer -> (clasificar || digest) -> enriquecer URLs -> correlacionar
// IPs resueltas -> enriquecer IPs -> ensamblar. El ArtifactSet solo se muta en
// la correlación, cuando no hay workers de enriquecimiento activos.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/core/artifacts"
	"evidence-lens/internal/core/classify"
	"evidence-lens/internal/core/digest"
	"evidence-lens/internal/core/metrics"
	"evidence-lens/internal/platform/logx"
)

// Classifier asigna la categoría de la evidencia. Nunca falla.
type Classifier interface {
	Classify(ctx context.Context, text string) analysis.ClassificationResult
}

// Enricher resuelve las consultas externas de URLs e IPs.
type Enricher interface {
	EnrichURLs(ctx context.Context, urls []string) []analysis.URLRecord
	EnrichIPs(ctx context.Context, ips []string) []analysis.IPRecord
}

// Analyzer no guarda estado entre invocaciones.
type Analyzer struct {
	classifier Classifier
	enricher   Enricher
	metrics    *metrics.Metrics
	now        func() time.Time
	newID      func() string
}

// Option configura un Analyzer.
type Option func(*Analyzer)

// WithMetrics registra la duración de cada análisis.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithClock sustituye el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New crea un Analyzer. enricher puede ser nil: el informe sale sin
// enriquecimiento.
func New(classifier Classifier, enricher Enricher, opts ...Option) *Analyzer {
	a := &Analyzer{
		classifier: classifier,
		enricher:   enricher,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze ejecuta el pipeline completo. Solo devuelve error si la entrada no
// trae ni texto ni fichero; cualquier fallo posterior queda marcado en el
// registro correspondiente del informe.
func (a *Analyzer) Analyze(ctx context.Context, in analysis.EvidenceInput) (analysis.AnalysisReport, error) {
	if err := in.Validate(); err != nil {
		return analysis.AnalysisReport{}, err
	}
	start := time.Now()
	op := logx.StartOperation("pipeline", "analyze")

	report := analysis.AnalysisReport{
		ID:          a.newID(),
		GeneratedAt: a.now().UTC(),
		Artifacts:   artifacts.Extract(in.Text),
	}
	op.AddField("artifacts", report.Artifacts.Count())

	// clasificación y digest son independientes entre sí
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if a.classifier != nil {
			report.Classification = a.classifier.Classify(groupCtx, in.Text)
		}
		return nil
	})
	if in.File != nil {
		group.Go(func() error {
			report.Digest = digest.Compute(in.File)
			return nil
		})
	}
	_ = group.Wait()
	if report.Classification.Label == "" {
		report.Classification = classify.Unknown()
	}

	if a.enricher != nil {
		if urls := report.Artifacts.Get(analysis.KindURLs); len(urls) > 0 {
			report.URLEnrichment = a.enricher.EnrichURLs(ctx, urls)
			if added := Correlate(report.Artifacts, report.URLEnrichment); added > 0 {
				logx.Debug("resolved IPs merged into artifacts", logx.Fields{"added": added})
			}
		}
		if ips := report.Artifacts.Get(analysis.KindIPs); len(ips) > 0 {
			report.IPEnrichment = a.enricher.EnrichIPs(ctx, ips)
		}
	}

	report = report.Normalize()
	op.AddField("label", string(report.Classification.Label))
	op.Complete()
	a.metrics.ObserveAnalysis(time.Since(start))
	return report, nil
}

// Correlate añade al set las IPs resueltas de los registros de URL que aún no
// estén, en orden de primera aparición. Devuelve cuántas añadió.
func Correlate(set analysis.ArtifactSet, records []analysis.URLRecord) int {
	var resolved []string
	for _, rec := range records {
		resolved = append(resolved, rec.ResolvedIPs...)
	}
	return set.Append(analysis.KindIPs, resolved...)
}
