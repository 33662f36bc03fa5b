// Package config provides configuration loading and validation for the CLI and server.
// Values come from built-in defaults, an optional JSON or YAML file and the environment,
// in increasing order of precedence. CLI flags are applied last by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-tailor/internal/llm"
)

// Default values
const (
	DefaultProvider       = llm.ProviderGemini
	DefaultCompilerPath   = "pdflatex"
	DefaultCompileTimeout = 30 * time.Second
	DefaultCompileWorkers = 2
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

// Duration is a time.Duration written as a Go duration string ("45s", "2m") in config files.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var seconds float64
		if err := json.Unmarshal(data, &seconds); err != nil {
			return fmt.Errorf("invalid duration %s", data)
		}
		*d = Duration(seconds * float64(time.Second))
		return nil
	}
	parsed, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := parseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// parseDuration parses "45s" style durations; a bare number means seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if seconds, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Config represents the application configuration.
// All fields are optional; zero values are filled from Default by MergeWithDefaults.
type Config struct {
	// Language model
	Provider        string   `json:"provider,omitempty" yaml:"provider,omitempty"`                   // gemini, anthropic or static
	GeminiAPIKey    string   `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`       // Gemini API key
	GeminiModel     string   `json:"gemini_model,omitempty" yaml:"gemini_model,omitempty"`           // Gemini model override
	AnthropicAPIKey string   `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"` // Anthropic API key
	AnthropicModel  string   `json:"anthropic_model,omitempty" yaml:"anthropic_model,omitempty"`     // Anthropic model override
	StaticFixture   string   `json:"static_fixture,omitempty" yaml:"static_fixture,omitempty"`       // JSON file replayed by the static provider
	GatewayTimeout  Duration `json:"gateway_timeout,omitempty" yaml:"gateway_timeout,omitempty"`     // Per-call model timeout

	// Rendering
	CompilerPath   string   `json:"compiler_path,omitempty" yaml:"compiler_path,omitempty"`     // LaTeX compiler executable
	CompileTimeout Duration `json:"compile_timeout,omitempty" yaml:"compile_timeout,omitempty"` // Wall time for both passes
	CompileWorkers int      `json:"compile_workers,omitempty" yaml:"compile_workers,omitempty"` // Concurrent compilations
	TemplateDir    string   `json:"template_dir,omitempty" yaml:"template_dir,omitempty"`       // Extra *.tex templates

	// Services
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`                 // HTTP listen port
	UseBrowser  bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`   // Headless browser fallback for job pages

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`   // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json or console
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Provider:       DefaultProvider,
		GatewayTimeout: Duration(llm.DefaultTimeout),
		CompilerPath:   DefaultCompilerPath,
		CompileTimeout: Duration(DefaultCompileTimeout),
		CompileWorkers: DefaultCompileWorkers,
		Port:           DefaultPort,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// Load builds the effective configuration: defaults, then the file at path when
// path is non-empty, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *fileCfg
	}
	cfg.ApplyEnv(os.LookupEnv)
	merged := cfg.MergeWithDefaults(Default())
	return &merged, nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
// Malformed numeric or duration values are ignored and left to Validate.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) {
		if v, ok := lookup(key); ok && v != "" {
			if d, err := parseDuration(v); err == nil {
				*dst = Duration(d)
			}
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("LLM_PROVIDER", &c.Provider)
	str("GEMINI_API_KEY", &c.GeminiAPIKey)
	str("GEMINI_MODEL", &c.GeminiModel)
	str("ANTHROPIC_API_KEY", &c.AnthropicAPIKey)
	str("ANTHROPIC_MODEL", &c.AnthropicModel)
	str("STATIC_LLM_FIXTURE", &c.StaticFixture)
	dur("GATEWAY_TIMEOUT", &c.GatewayTimeout)
	str("COMPILER_PATH", &c.CompilerPath)
	dur("COMPILE_TIMEOUT", &c.CompileTimeout)
	num("COMPILE_WORKERS", &c.CompileWorkers)
	str("TEMPLATE_DIR", &c.TemplateDir)
	str("DATABASE_URL", &c.DatabaseURL)
	num("PORT", &c.Port)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	if v, ok := lookup("USE_BROWSER"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UseBrowser = b
		}
	}
}

// Validate checks that the configuration has valid values.
// Missing API keys are not an error here: the gateway reports them as unavailable on first use.
func (c *Config) Validate() error {
	known := false
	for _, name := range llm.Providers() {
		if c.Provider == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("config error: unknown provider %q (available: %s)", c.Provider, strings.Join(llm.Providers(), ", "))
	}
	if c.Provider == llm.ProviderStatic {
		if c.StaticFixture == "" {
			return fmt.Errorf("config error: 'static_fixture' is required for the static provider")
		}
		if _, err := os.Stat(c.StaticFixture); os.IsNotExist(err) {
			return fmt.Errorf("config error: static fixture not found: %s", c.StaticFixture)
		}
	}

	// Validate numeric ranges
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("config error: 'gateway_timeout' must be positive")
	}
	if c.CompileTimeout <= 0 {
		return fmt.Errorf("config error: 'compile_timeout' must be positive")
	}
	if c.CompileWorkers < 1 {
		return fmt.Errorf("config error: 'compile_workers' must be at least 1")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("config error: 'log_format' must be json or console")
	}

	// Validate file paths exist (if specified)
	if c.TemplateDir != "" {
		if info, err := os.Stat(c.TemplateDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config error: template directory not found: %s", c.TemplateDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct{ dst, def *string }{
		{&result.Provider, &defaults.Provider},
		{&result.GeminiAPIKey, &defaults.GeminiAPIKey},
		{&result.GeminiModel, &defaults.GeminiModel},
		{&result.AnthropicAPIKey, &defaults.AnthropicAPIKey},
		{&result.AnthropicModel, &defaults.AnthropicModel},
		{&result.StaticFixture, &defaults.StaticFixture},
		{&result.CompilerPath, &defaults.CompilerPath},
		{&result.TemplateDir, &defaults.TemplateDir},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogFormat, &defaults.LogFormat},
	} {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}

	// Numeric fields: use default if zero
	if result.GatewayTimeout == 0 {
		result.GatewayTimeout = defaults.GatewayTimeout
	}
	if result.CompileTimeout == 0 {
		result.CompileTimeout = defaults.CompileTimeout
	}
	if result.CompileWorkers == 0 {
		result.CompileWorkers = defaults.CompileWorkers
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ProviderConfig returns the gateway provider settings for the selected provider.
func (c *Config) ProviderConfig() llm.ProviderConfig {
	pc := llm.DefaultConfig()
	pc.Provider = c.Provider
	pc.Model = ""
	switch c.Provider {
	case llm.ProviderGemini:
		pc.APIKey = c.GeminiAPIKey
		pc.Model = c.GeminiModel
	case llm.ProviderAnthropic:
		pc.APIKey = c.AnthropicAPIKey
		pc.Model = c.AnthropicModel
	case llm.ProviderStatic:
		pc.FixturePath = c.StaticFixture
	}
	return pc
}
