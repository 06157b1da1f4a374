package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Flags agrupa los flags persistentes compartidos por los subcomandos.
type Flags struct {
	ConfigPath    *string
	Workers       *int
	DNSTimeout    *time.Duration
	WHOISTimeout  *time.Duration
	RDAPTimeout   *time.Duration
	Resolver      *string
	RDAPBaseURL   *string
	LookupRate    *float64
	GeminiModel   *string
	OpenAIModel   *string
	LogLevel      *string
	LogJSON       *bool
	Verbosity     *int
	ListenAddr    *string
	MaxUploadSize *int64
}

// RegisterFlags registra los flags en fs con los valores por defecto.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	d := Default()
	return &Flags{
		ConfigPath:    fs.String("config", "", "Ruta a un archivo de configuración (YAML o JSON)"),
		Workers:       fs.Int("workers", d.Workers, "Lookups concurrentes por etapa de enriquecimiento"),
		DNSTimeout:    fs.Duration("dns-timeout", d.DNSTimeout, "Timeout por consulta DNS"),
		WHOISTimeout:  fs.Duration("whois-timeout", d.WHOISTimeout, "Timeout por consulta WHOIS"),
		RDAPTimeout:   fs.Duration("rdap-timeout", d.RDAPTimeout, "Timeout por consulta RDAP"),
		Resolver:      fs.String("resolver", d.Resolver, "Resolver DNS host:port (default: /etc/resolv.conf)"),
		RDAPBaseURL:   fs.String("rdap-url", d.RDAPBaseURL, "URL base del servicio RDAP"),
		LookupRate:    fs.Float64("lookup-rate", d.LookupRate, "Consultas WHOIS/RDAP por segundo"),
		GeminiModel:   fs.String("gemini-model", d.Gemini.Model, "Modelo del proveedor primario"),
		OpenAIModel:   fs.String("openai-model", d.OpenAI.Model, "Modelo del proveedor secundario"),
		LogLevel:      fs.String("log-level", d.LogLevel, "Nivel de log (error, warn, info, debug, trace)"),
		LogJSON:       fs.Bool("log-json", d.LogJSON, "Logs en JSON"),
		Verbosity:     fs.IntP("verbose", "v", d.Verbosity, "Verbosity (0=info,2=debug,3=trace)"),
		ListenAddr:    fs.String("listen", d.ListenAddr, "Dirección de escucha para serve"),
		MaxUploadSize: fs.Int64("max-upload", d.MaxUploadSize, "Tamaño máximo de subida en bytes"),
	}
}

// Resolve carga el fichero indicado por --config y aplica encima los flags
// que el usuario haya fijado explícitamente.
func (f *Flags) Resolve(fs *pflag.FlagSet) (*Config, error) {
	cfg, err := Load(*f.ConfigPath)
	if err != nil {
		return nil, err
	}
	f.apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *Flags) apply(fs *pflag.FlagSet, cfg *Config) {
	setFlags := map[string]bool{}
	fs.Visit(func(fl *pflag.Flag) {
		setFlags[fl.Name] = true
	})

	if setFlags["workers"] {
		cfg.Workers = *f.Workers
	}
	if setFlags["dns-timeout"] {
		cfg.DNSTimeout = *f.DNSTimeout
	}
	if setFlags["whois-timeout"] {
		cfg.WHOISTimeout = *f.WHOISTimeout
	}
	if setFlags["rdap-timeout"] {
		cfg.RDAPTimeout = *f.RDAPTimeout
	}
	if setFlags["resolver"] {
		cfg.Resolver = strings.TrimSpace(*f.Resolver)
	}
	if setFlags["rdap-url"] {
		cfg.RDAPBaseURL = strings.TrimSpace(*f.RDAPBaseURL)
	}
	if setFlags["lookup-rate"] {
		cfg.LookupRate = *f.LookupRate
	}
	if setFlags["gemini-model"] {
		cfg.Gemini.Model = strings.TrimSpace(*f.GeminiModel)
	}
	if setFlags["openai-model"] {
		cfg.OpenAI.Model = strings.TrimSpace(*f.OpenAIModel)
	}
	if setFlags["log-level"] {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*f.LogLevel))
	}
	if setFlags["log-json"] {
		cfg.LogJSON = *f.LogJSON
	}
	if setFlags["verbose"] {
		cfg.Verbosity = *f.Verbosity
	}
	if setFlags["listen"] {
		cfg.ListenAddr = strings.TrimSpace(*f.ListenAddr)
	}
	if setFlags["max-upload"] {
		cfg.MaxUploadSize = *f.MaxUploadSize
	}
}
