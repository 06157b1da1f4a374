// Package enrich amplía URLs e IPs con datos externos (DNS, WHOIS, RDAP, ASN,
// DNS inverso). Cada registro se calcula de forma aislada: un fallo solo
// marca su propio registro y nunca aborta el lote.
package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"evidence-lens/internal/adapters/dnsresolve"
	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/core/metrics"
)

// DefaultWorkers acota las consultas simultáneas por etapa.
const DefaultWorkers = 4

// Resolver cubre las consultas DNS de ambas etapas.
type Resolver interface {
	LookupA(ctx context.Context, host string) ([]string, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupRecords(ctx context.Context, rtype, name string) ([]string, error)
	LookupAddr(ctx context.Context, ip string) (string, error)
}

// ASNResolver devuelve el origen ASN de una IP.
type ASNResolver interface {
	LookupOrigin(ctx context.Context, ip string) (dnsresolve.Origin, error)
}

// WhoisClient consulta el registro de un dominio.
type WhoisClient interface {
	Lookup(ctx context.Context, domain string) (analysis.WhoisInfo, error)
}

// RDAPClient consulta el bloque de red de una IP.
type RDAPClient interface {
	LookupIP(ctx context.Context, ip string) (analysis.Network, error)
}

// Deps agrupa los clientes externos. Cualquiera puede ser nil: la consulta
// correspondiente se omite.
type Deps struct {
	Resolver Resolver
	ASN      ASNResolver
	Whois    WhoisClient
	RDAP     RDAPClient
}

// Enricher no guarda estado entre llamadas salvo el limitador de ritmo, que
// solo espacia las consultas WHOIS/RDAP.
type Enricher struct {
	deps    Deps
	workers int
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// Option configura un Enricher.
type Option func(*Enricher)

// WithWorkers fija el tamaño del pool.
func WithWorkers(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithRateLimit limita las consultas WHOIS y RDAP a perSecond por segundo.
func WithRateLimit(perSecond float64) Option {
	return func(e *Enricher) {
		if perSecond > 0 {
			burst := int(perSecond)
			if burst < 1 {
				burst = 1
			}
			e.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithMetrics registra cada consulta.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Enricher) { e.metrics = m }
}

// New crea un Enricher.
func New(deps Deps, opts ...Option) *Enricher {
	e := &Enricher{deps: deps, workers: DefaultWorkers}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// wait respeta el limitador; devuelve error si el contexto se cancela antes.
func (e *Enricher) wait(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

// forEach ejecuta fn para cada índice con como mucho workers a la vez y
// devuelve los resultados en el orden de entrada.
func forEach[T any](ctx context.Context, workers, n int, fn func(context.Context, int) T) []T {
	out := make([]T, n)
	if n == 0 {
		return out
	}
	if workers <= 0 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)
	for i := 0; i < n; i++ {
		idx := i
		group.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-groupCtx.Done():
				// el registro se rellena igualmente; las consultas fallarán rápido
			}
			out[idx] = fn(groupCtx, idx)
			return nil
		})
	}
	_ = group.Wait()
	return out
}
