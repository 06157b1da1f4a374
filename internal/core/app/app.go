// Package app construye el grafo de dependencias (resolver, WHOIS, RDAP,
// proveedores, métricas) a partir de la configuración resuelta. Tanto la CLI
// como el servidor HTTP pasan por Build.
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"evidence-lens/internal/adapters/dnsresolve"
	"evidence-lens/internal/adapters/llm"
	"evidence-lens/internal/adapters/rdap"
	"evidence-lens/internal/adapters/whois"
	"evidence-lens/internal/core/classify"
	"evidence-lens/internal/core/enrich"
	"evidence-lens/internal/core/guidance"
	"evidence-lens/internal/core/metrics"
	"evidence-lens/internal/core/pipeline"
	"evidence-lens/internal/platform/config"
	"evidence-lens/internal/platform/logx"
)

// Constructores sustituibles en tests.
var (
	newResolver = func(cfg *config.Config) *dnsresolve.Resolver {
		return dnsresolve.New(cfg.Resolver, cfg.DNSTimeout)
	}
	newWhois = func(cfg *config.Config) enrich.WhoisClient {
		return whois.New(cfg.WHOISTimeout)
	}
	newRDAP = func(cfg *config.Config) enrich.RDAPClient {
		return rdap.New(cfg.RDAPBaseURL, cfg.RDAPTimeout)
	}
	newGemini = func(pc config.ProviderConfig) llm.Provider { return llm.NewGemini(pc) }
	newOpenAI = func(pc config.ProviderConfig) llm.Provider { return llm.NewOpenAI(pc) }
)

// Options ajusta qué partes del grafo se construyen.
type Options struct {
	// Offline omite todo el enriquecimiento de red.
	Offline bool
	// RulesOnly omite los proveedores generativos.
	RulesOnly bool
}

// App agrupa los componentes listos para usar.
type App struct {
	Analyzer *pipeline.Analyzer
	Advisor  *guidance.Advisor
	Chain    *llm.Chain
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// Build crea la App. cfg ya debe estar validada.
func Build(cfg *config.Config, opts Options) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	chain := llm.NewChain()
	if !opts.RulesOnly {
		chain = llm.NewChain(newGemini(cfg.Gemini), newOpenAI(cfg.OpenAI))
	}
	chain.Observe = m.ObserveProvider

	var enricher pipeline.Enricher
	if !opts.Offline {
		resolver := newResolver(cfg)
		enricher = enrich.New(enrich.Deps{
			Resolver: resolver,
			ASN:      resolver,
			Whois:    newWhois(cfg),
			RDAP:     newRDAP(cfg),
		},
			enrich.WithWorkers(cfg.Workers),
			enrich.WithRateLimit(cfg.LookupRate),
			enrich.WithMetrics(m),
		)
		logx.Debug("enrichment enabled", logx.Fields{
			"resolvers": resolver.Servers(),
			"workers":   cfg.Workers,
			"rate":      cfg.LookupRate,
		})
	}

	classifier := classify.New(chain, classify.WithMetrics(m))
	logx.Debug("providers", logx.Fields{"chain": chain.Names()})

	return &App{
		Analyzer: pipeline.New(classifier, enricher, pipeline.WithMetrics(m)),
		Advisor:  guidance.New(chain),
		Chain:    chain,
		Metrics:  m,
		Registry: reg,
	}
}

// ConfigureLogging aplica nivel y formato de logs. -v 2 o superior manda
// sobre --log-level.
func ConfigureLogging(cfg *config.Config) error {
	logx.SetJSON(cfg.LogJSON)
	if cfg.Verbosity > 1 {
		logx.SetVerbosity(cfg.Verbosity)
		return nil
	}
	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logx.SetLevel(level)
	return nil
}
