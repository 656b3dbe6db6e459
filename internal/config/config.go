package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces all environment overrides, e.g. WRICEF_SERVER_PORT.
const envPrefix = "WRICEF"

// DefaultConfigFile is looked up in the working directory unless
// WRICEF_CONFIG_FILE points elsewhere.
const DefaultConfigFile = "wricefviz.yaml"

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains CORS and rate limit configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
	// File duplicates log output into the named file. Empty logs to
	// stdout only.
	File        string `yaml:"file" envconfig:"FILE"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// DataConfig describes where the tracker data comes from.
type DataConfig struct {
	// TrackerFile is the spreadsheet path. When the file is absent the
	// application falls back to seeded sample data.
	TrackerFile string `yaml:"tracker_file" envconfig:"TRACKER_FILE" default:"data/wricef-tracker.xlsx"`
	// Sheet names the worksheet to read; empty means auto-detect.
	Sheet      string `yaml:"sheet" envconfig:"SHEET"`
	SampleSize int    `yaml:"sample_size" envconfig:"SAMPLE_SIZE" default:"500"`
	Seed       int64  `yaml:"seed" envconfig:"SEED" default:"42"`

	Sheets SheetsConfig `yaml:"sheets" envconfig:"SHEETS"`
}

// SheetsConfig enables loading the tracker from a Google Sheets range
// instead of a local file. Empty SpreadsheetID disables it.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	ReadRange       string `yaml:"read_range" envconfig:"READ_RANGE" default:"Tracker!A1:O"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
}

// ExportConfig contains batch export configuration.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"charts"`
}

// WebSocketConfig contains WebSocket hub configuration.
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// Load builds the configuration from the YAML config file, if present,
// with environment variables taking precedence.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	path := configFilePath()
	if _, err := os.Stat(path); err == nil {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func configFilePath() string {
	if p := os.Getenv(envPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}
	return DefaultConfigFile
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays file values on env-with-defaults, except where the
// environment variable is actually set: env always wins. The presence
// check against os.LookupEnv is needed because envconfig has already
// applied struct defaults, so a populated env field alone does not
// mean the variable was set.
func merge(file, env Config) Config {
	out := env

	if file.Server.Port != 0 && !envSet("SERVER_PORT") {
		out.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 && !envSet("SERVER_READ_TIMEOUT") {
		out.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 && !envSet("SERVER_WRITE_TIMEOUT") {
		out.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 && !envSet("SERVER_IDLE_TIMEOUT") {
		out.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 && !envSet("SERVER_SHUTDOWN_TIMEOUT") {
		out.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}

	if len(file.Security.AllowedOrigins) > 0 && !envSet("SECURITY_ALLOWED_ORIGINS") {
		out.Security.AllowedOrigins = file.Security.AllowedOrigins
	}
	if file.Security.RateLimit.RPS != 0 && !envSet("SECURITY_RATE_LIMIT_RPS") {
		out.Security.RateLimit.RPS = file.Security.RateLimit.RPS
	}
	if file.Security.RateLimit.Burst != 0 && !envSet("SECURITY_RATE_LIMIT_BURST") {
		out.Security.RateLimit.Burst = file.Security.RateLimit.Burst
	}

	if file.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		out.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" && !envSet("LOGGING_FORMAT") {
		out.Logging.Format = file.Logging.Format
	}
	if file.Logging.File != "" && !envSet("LOGGING_FILE") {
		out.Logging.File = file.Logging.File
	}

	if file.Data.TrackerFile != "" && !envSet("DATA_TRACKER_FILE") {
		out.Data.TrackerFile = file.Data.TrackerFile
	}
	if file.Data.Sheet != "" && !envSet("DATA_SHEET") {
		out.Data.Sheet = file.Data.Sheet
	}
	if file.Data.SampleSize != 0 && !envSet("DATA_SAMPLE_SIZE") {
		out.Data.SampleSize = file.Data.SampleSize
	}
	if file.Data.Seed != 0 && !envSet("DATA_SEED") {
		out.Data.Seed = file.Data.Seed
	}
	if file.Data.Sheets.SpreadsheetID != "" && !envSet("DATA_SHEETS_SPREADSHEET_ID") {
		out.Data.Sheets = file.Data.Sheets
	}

	if file.Export.OutputDir != "" && !envSet("EXPORT_OUTPUT_DIR") {
		out.Export.OutputDir = file.Export.OutputDir
	}

	if file.WebSocket.ReadBufferSize != 0 && !envSet("WEBSOCKET_READ_BUFFER_SIZE") {
		out.WebSocket.ReadBufferSize = file.WebSocket.ReadBufferSize
	}
	if file.WebSocket.WriteBufferSize != 0 && !envSet("WEBSOCKET_WRITE_BUFFER_SIZE") {
		out.WebSocket.WriteBufferSize = file.WebSocket.WriteBufferSize
	}
	if file.WebSocket.PingPeriod != 0 && !envSet("WEBSOCKET_PING_PERIOD") {
		out.WebSocket.PingPeriod = file.WebSocket.PingPeriod
	}
	if file.WebSocket.PongWait != 0 && !envSet("WEBSOCKET_PONG_WAIT") {
		out.WebSocket.PongWait = file.WebSocket.PongWait
	}

	return out
}

// envSet reports whether the prefixed environment variable is present,
// regardless of its value.
func envSet(key string) bool {
	_, ok := os.LookupEnv(envPrefix + "_" + key)
	return ok
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Data.SampleSize <= 0 {
		return fmt.Errorf("sample size must be positive: %d", c.Data.SampleSize)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// UseSheets reports whether the tracker should be loaded from Google
// Sheets instead of a local spreadsheet.
func (c *Config) UseSheets() bool {
	return c.Data.Sheets.SpreadsheetID != ""
}
