package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. F1S_SERVER_PORT.
const EnvPrefix = "F1S"

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort        = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultDataDir         = "data"
	DefaultExportFormat    = "parquet"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultLogOutput       = "stdout"
)

// Config is the top-level configuration for the CLI and the API server.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`

	// RateLimitRPS caps requests per second across all clients; 0 disables.
	RateLimitRPS   float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// DataConfig locates race lap files.
type DataConfig struct {
	// Dir holds <race>.csv and <race>.xlsx files served by the API.
	Dir string `yaml:"dir" envconfig:"DIR"`

	// Strict rejects a whole file on the first invalid lap row.
	Strict bool `yaml:"strict" envconfig:"STRICT"`
}

// ExportConfig sets pipeline output defaults.
type ExportConfig struct {
	// Format is the enriched lap table format: parquet | csv.
	Format string `yaml:"format" envconfig:"FORMAT"`

	// OutDir is the default output directory for the CLI.
	OutDir string `yaml:"out_dir" envconfig:"OUT_DIR"`
}

// LoggingConfig controls the slog logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`         // debug | info | warn | error
	Format   string `yaml:"format" envconfig:"FORMAT"`       // json | text
	Output   string `yaml:"output" envconfig:"OUTPUT"`       // stdout | stderr | file | both
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"` // used by file and both
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and F1S_* environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultHTTPPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Data: DataConfig{
			Dir: DefaultDataDir,
		},
		Export: ExportConfig{
			Format: DefaultExportFormat,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
	}
}

// Validate checks required fields and enums.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("server rate limit must not be negative")
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst == 0 {
		return fmt.Errorf("server.rate_limit_burst is required when rate_limit_rps is set")
	}
	if strings.TrimSpace(c.Data.Dir) == "" {
		return fmt.Errorf("data.dir is required")
	}
	switch strings.ToLower(c.Export.Format) {
	case "parquet", "csv":
	default:
		return fmt.Errorf("export.format: unknown format %q (expected parquet|csv)", c.Export.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "stderr":
	case "file", "both":
		if strings.TrimSpace(c.Logging.FilePath) == "" {
			return fmt.Errorf("logging.file_path is required for output %q", c.Logging.Output)
		}
	default:
		return fmt.Errorf("logging.output: unknown output %q", c.Logging.Output)
	}
	return nil
}
