// Package config loads shelfscan configuration from a YAML file and
// SHELFSCAN_-prefixed environment variables. Credentials are referenced with
// ${ENV_VAR} syntax and resolved at load time, so the rest of the code never
// touches the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full shelfscan configuration.
type Config struct {
	Server    ServerCfg              `mapstructure:"server" yaml:"server"`
	OCR       OCRCfg                 `mapstructure:"ocr" yaml:"ocr"`
	Inference InferenceCfg           `mapstructure:"inference" yaml:"inference"`
	Search    map[string]ProviderCfg `mapstructure:"search" yaml:"search"`
	Catalog   CatalogCfg             `mapstructure:"catalog" yaml:"catalog"`
}

type ServerCfg struct {
	Port string `mapstructure:"port" yaml:"port"`
	// DetectTimeout is the wall-clock ceiling for one detection job.
	DetectTimeout time.Duration `mapstructure:"detect_timeout" yaml:"detect_timeout"`
}

type OCRCfg struct {
	APIKey        string   `mapstructure:"api_key" yaml:"api_key"`
	LanguageHints []string `mapstructure:"language_hints" yaml:"language_hints"`
}

// InferenceCfg selects the generative backend. The first entry in Order with
// usable credentials wins.
type InferenceCfg struct {
	Order        []string `mapstructure:"order" yaml:"order"`
	GeminiAPIKey string   `mapstructure:"gemini_api_key" yaml:"gemini_api_key"`
	GeminiModel  string   `mapstructure:"gemini_model" yaml:"gemini_model"`
	OpenAIAPIKey string   `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	OpenAIModel  string   `mapstructure:"openai_model" yaml:"openai_model"`
	OllamaURL    string   `mapstructure:"ollama_url" yaml:"ollama_url"`
	OllamaModel  string   `mapstructure:"ollama_model" yaml:"ollama_model"`
}

// ProviderCfg configures one metadata search provider.
type ProviderCfg struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Priority int    `mapstructure:"priority" yaml:"priority"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
}

type CatalogCfg struct {
	// Backend is "memory" or "rest".
	Backend string `mapstructure:"backend" yaml:"backend"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
}

// DefaultConfig returns configuration with sensible defaults. Simania leads
// the search order: the catalog is Hebrew-first and Simania's records for
// Hebrew editions beat the global providers.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Port:          "8888",
			DetectTimeout: 10 * time.Minute,
		},
		OCR: OCRCfg{
			APIKey:        "${GOOGLE_VISION_API_KEY}",
			LanguageHints: []string{"he", "en"},
		},
		Inference: InferenceCfg{
			Order:        []string{"gemini", "openai", "ollama"},
			GeminiAPIKey: "${GEMINI_API_KEY}",
			GeminiModel:  "gemini-2.0-flash",
			OpenAIAPIKey: "${OPENAI_API_KEY}",
			OpenAIModel:  "gpt-4o",
			OllamaURL:    "${OLLAMA_URL}",
			OllamaModel:  "llava",
		},
		Search: map[string]ProviderCfg{
			"simania":      {Enabled: true, Priority: 1},
			"google_books": {Enabled: true, Priority: 2, APIKey: "${GOOGLE_BOOKS_API_KEY}"},
			"open_library": {Enabled: true, Priority: 3},
		},
		Catalog: CatalogCfg{
			Backend: "memory",
			APIKey:  "${CATALOG_API_KEY}",
		},
	}
}

// Load reads the configuration. cfgFile may be empty, in which case
// shelfscan.yaml is searched for in the working directory and ~/.shelfscan;
// a missing config file is fine, defaults and environment cover everything.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.detect_timeout", defaults.Server.DetectTimeout)
	v.SetDefault("ocr.api_key", defaults.OCR.APIKey)
	v.SetDefault("ocr.language_hints", defaults.OCR.LanguageHints)
	v.SetDefault("inference.order", defaults.Inference.Order)
	v.SetDefault("inference.gemini_api_key", defaults.Inference.GeminiAPIKey)
	v.SetDefault("inference.gemini_model", defaults.Inference.GeminiModel)
	v.SetDefault("inference.openai_api_key", defaults.Inference.OpenAIAPIKey)
	v.SetDefault("inference.openai_model", defaults.Inference.OpenAIModel)
	v.SetDefault("inference.ollama_url", defaults.Inference.OllamaURL)
	v.SetDefault("inference.ollama_model", defaults.Inference.OllamaModel)
	v.SetDefault("search", defaults.Search)
	v.SetDefault("catalog.backend", defaults.Catalog.Backend)
	v.SetDefault("catalog.base_url", defaults.Catalog.BaseURL)
	v.SetDefault("catalog.api_key", defaults.Catalog.APIKey)

	// Environment variables with SHELFSCAN_ prefix
	v.SetEnvPrefix("SHELFSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("shelfscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.shelfscan")
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.resolveEnv()
	return &cfg, nil
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

func (c *Config) resolveEnv() {
	c.OCR.APIKey = ResolveEnvVars(c.OCR.APIKey)
	c.Inference.GeminiAPIKey = ResolveEnvVars(c.Inference.GeminiAPIKey)
	c.Inference.OpenAIAPIKey = ResolveEnvVars(c.Inference.OpenAIAPIKey)
	c.Inference.OllamaURL = ResolveEnvVars(c.Inference.OllamaURL)
	c.Catalog.APIKey = ResolveEnvVars(c.Catalog.APIKey)
	for name, provider := range c.Search {
		provider.APIKey = ResolveEnvVars(provider.APIKey)
		c.Search[name] = provider
	}
}
