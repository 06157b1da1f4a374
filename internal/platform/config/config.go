package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	perrors "evidence-lens/internal/platform/errors"
)

const (
	EnvGeminiKey = "GOOGLE_API_KEY"
	EnvOpenAIKey = "OPENAI_API_KEY"
)

// ProviderConfig configura un proveedor generativo. Una API key vacía deja al
// proveedor deshabilitado: falla de inmediato y la cadena pasa al siguiente.
type ProviderConfig struct {
	APIKey   string        `json:"-" yaml:"-"`
	Model    string        `validate:"required"`
	Endpoint string        `validate:"omitempty,url"`
	Timeout  time.Duration `validate:"min=1s"`
}

// Config es la configuración explícita del pipeline. Los paquetes de core la
// reciben ya resuelta y no leen el entorno.
type Config struct {
	Workers       int           `validate:"min=1,max=64"`
	DNSTimeout    time.Duration `validate:"min=100ms"`
	WHOISTimeout  time.Duration `validate:"min=100ms"`
	RDAPTimeout   time.Duration `validate:"min=100ms"`
	Resolver      string        `validate:"omitempty,hostname_port"`
	RDAPBaseURL   string        `validate:"required,url"`
	LookupRate    float64       `validate:"gt=0"`
	Gemini        ProviderConfig
	OpenAI        ProviderConfig
	LogLevel      string `validate:"omitempty,oneof=error warn info debug trace"`
	LogJSON       bool
	Verbosity     int    `validate:"min=0,max=3"`
	ListenAddr    string `validate:"required,hostname_port"`
	MaxUploadSize int64  `validate:"min=1024"`
}

// Default devuelve la configuración por defecto.
func Default() *Config {
	return &Config{
		Workers:      4,
		DNSTimeout:   5 * time.Second,
		WHOISTimeout: 10 * time.Second,
		RDAPTimeout:  15 * time.Second,
		RDAPBaseURL:  "https://rdap.org",
		LookupRate:   5,
		Gemini: ProviderConfig{
			Model:   "gemini-1.5-flash",
			Timeout: 30 * time.Second,
		},
		OpenAI: ProviderConfig{
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		LogLevel:      "info",
		ListenAddr:    "127.0.0.1:8080",
		MaxUploadSize: 32 << 20,
	}
}

type fileProvider struct {
	Model    *string   `json:"model" yaml:"model"`
	Endpoint *string   `json:"endpoint" yaml:"endpoint"`
	Timeout  *duration `json:"timeout" yaml:"timeout"`
	APIKey   *string   `json:"api_key" yaml:"api_key"`
}

type fileConfig struct {
	Workers       *int          `json:"workers" yaml:"workers"`
	DNSTimeout    *duration     `json:"dns_timeout" yaml:"dns_timeout"`
	WHOISTimeout  *duration     `json:"whois_timeout" yaml:"whois_timeout"`
	RDAPTimeout   *duration     `json:"rdap_timeout" yaml:"rdap_timeout"`
	Resolver      *string       `json:"resolver" yaml:"resolver"`
	RDAPBaseURL   *string       `json:"rdap_base_url" yaml:"rdap_base_url"`
	LookupRate    *float64      `json:"lookup_rate" yaml:"lookup_rate"`
	Gemini        *fileProvider `json:"gemini" yaml:"gemini"`
	OpenAI        *fileProvider `json:"openai" yaml:"openai"`
	LogLevel      *string       `json:"log_level" yaml:"log_level"`
	LogJSON       *bool         `json:"log_json" yaml:"log_json"`
	Verbosity     *int          `json:"verbosity" yaml:"verbosity"`
	ListenAddr    *string       `json:"listen" yaml:"listen"`
	MaxUploadSize *int64        `json:"max_upload_size" yaml:"max_upload_size"`
}

// duration acepta "5s"/"1m" o un número de segundos, tanto en YAML como en JSON.
type duration time.Duration

func parseDuration(raw string) (duration, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.ParseDuration(raw); err == nil {
		return duration(d), nil
	}
	var secs float64
	if _, err := fmt.Sscanf(raw, "%g", &secs); err == nil {
		return duration(time.Duration(secs * float64(time.Second))), nil
	}
	return 0, fmt.Errorf("invalid duration %q", raw)
}

func (d *duration) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
	}
	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.New("duration must be a scalar")
	}
	parsed, err := parseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Load construye la configuración: defaults, luego entorno, luego fichero
// (si path no está vacío). Los flags se aplican después con ApplyFlags.
func Load(path string) (*Config, error) {
	cfg := Default()
	applyEnv(cfg)

	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, perrors.NewConfigurationError("config", path, "file does not exist", "check the --config path")
		}
		return nil, fmt.Errorf("config: stat %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, perrors.NewConfigurationError("config", path, "path is a directory", "point --config at a YAML or JSON file")
	}

	fc, err := loadConfigFile(path)
	if err != nil {
		return nil, perrors.NewConfigurationError("config", path, err.Error(), "the file must be valid YAML or JSON")
	}
	fc.apply(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvGeminiKey)); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOpenAIKey)); v != "" {
		cfg.OpenAI.APIKey = v
	}
}

func loadConfigFile(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			if err := json.Unmarshal(raw, &fc); err != nil {
				return nil, err
			}
		}
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.DNSTimeout != nil {
		cfg.DNSTimeout = time.Duration(*fc.DNSTimeout)
	}
	if fc.WHOISTimeout != nil {
		cfg.WHOISTimeout = time.Duration(*fc.WHOISTimeout)
	}
	if fc.RDAPTimeout != nil {
		cfg.RDAPTimeout = time.Duration(*fc.RDAPTimeout)
	}
	if fc.Resolver != nil {
		cfg.Resolver = strings.TrimSpace(*fc.Resolver)
	}
	if fc.RDAPBaseURL != nil {
		cfg.RDAPBaseURL = strings.TrimSpace(*fc.RDAPBaseURL)
	}
	if fc.LookupRate != nil {
		cfg.LookupRate = *fc.LookupRate
	}
	fc.Gemini.apply(&cfg.Gemini)
	fc.OpenAI.apply(&cfg.OpenAI)
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*fc.LogLevel))
	}
	if fc.LogJSON != nil {
		cfg.LogJSON = *fc.LogJSON
	}
	if fc.Verbosity != nil {
		cfg.Verbosity = *fc.Verbosity
	}
	if fc.ListenAddr != nil {
		cfg.ListenAddr = strings.TrimSpace(*fc.ListenAddr)
	}
	if fc.MaxUploadSize != nil {
		cfg.MaxUploadSize = *fc.MaxUploadSize
	}
}

func (fp *fileProvider) apply(pc *ProviderConfig) {
	if fp == nil {
		return
	}
	if fp.Model != nil {
		pc.Model = strings.TrimSpace(*fp.Model)
	}
	if fp.Endpoint != nil {
		pc.Endpoint = strings.TrimSpace(*fp.Endpoint)
	}
	if fp.Timeout != nil {
		pc.Timeout = time.Duration(*fp.Timeout)
	}
	// El entorno tiene prioridad sobre una key escrita en el fichero.
	if fp.APIKey != nil && pc.APIKey == "" {
		pc.APIKey = strings.TrimSpace(*fp.APIKey)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate comprueba los rangos de la configuración y traduce el primer fallo
// a un ConfigurationError con sugerencia.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("config: %w", err)
	}
	first := verrs[0]
	field := strings.TrimPrefix(first.Namespace(), "Config.")
	return perrors.NewConfigurationError(
		field,
		fmt.Sprintf("%v", first.Value()),
		fmt.Sprintf("failed %q constraint", first.Tag()+paramSuffix(first.Param())),
		suggestionFor(field),
	)
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

func suggestionFor(field string) string {
	switch {
	case field == "Workers":
		return "use --workers between 1 and 64"
	case strings.HasSuffix(field, "Timeout"):
		return "timeouts accept Go durations such as 5s or 1m"
	case field == "Resolver":
		return "use host:port, for example 1.1.1.1:53"
	case field == "ListenAddr":
		return "use host:port, for example 127.0.0.1:8080"
	default:
		return "check the value in the config file or flags"
	}
}
