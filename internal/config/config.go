package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reflow/internal/errors"
)

const (
	// ConfigBaseName is the configuration file name without extension.
	ConfigBaseName = "reflow"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultChainWarn is the default flush chain length that logs a warning.
	DefaultChainWarn = 100

	// DefaultMetricsPath is the default Prometheus scrape path.
	DefaultMetricsPath = "/metrics"
)

// Extensions lists the recognised config file extensions in lookup order.
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

// Config represents the complete reflow configuration.
type Config struct {
	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log" toml:"log"`

	// Scheduler contains reactive runtime configuration.
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler" toml:"scheduler"`

	// Server contains development server configuration.
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" toml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing" yaml:"tracing" toml:"tracing"`

	// Export contains snapshot export configuration.
	Export ExportConfig `json:"export" yaml:"export" toml:"export"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// SchedulerConfig contains reactive runtime settings.
type SchedulerConfig struct {
	// FreshDeps makes every computation rebuild its dependencies on each run.
	FreshDeps bool `json:"freshDeps" yaml:"freshDeps" toml:"freshDeps"`

	// ChainWarn is the flush chain length that logs a warning. 0 disables it.
	ChainWarn int `json:"chainWarn" yaml:"chainWarn" toml:"chainWarn"`
}

// ServerConfig contains development server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty" toml:"port,omitempty"`

	// ReadBufferSize is the WebSocket read buffer size in bytes.
	ReadBufferSize int `json:"readBufferSize,omitempty" yaml:"readBufferSize,omitempty" toml:"readBufferSize,omitempty"`

	// WriteBufferSize is the WebSocket write buffer size in bytes.
	WriteBufferSize int `json:"writeBufferSize,omitempty" yaml:"writeBufferSize,omitempty" toml:"writeBufferSize,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the collectors and serves Path.
	Enabled bool `json:"enabled" yaml:"enabled" toml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`

	// Path is the scrape path on the development server.
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName is the instrumentation name used for spans.
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty" toml:"tracerName,omitempty"`
}

// ExportConfig contains snapshot export settings. Snapshots go to S3 when
// Bucket is set and to Dir otherwise.
type ExportConfig struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty" toml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
	Dir      string `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scheduler: SchedulerConfig{
			ChainWarn: DefaultChainWarn,
		},
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "reflow",
			Path:      DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: "github.com/vango-dev/reflow",
		},
		Export: ExportConfig{
			Dir: "snapshots",
		},
	}
}

// Load reads configuration from the specified directory, trying every
// recognised extension in order. A directory without a config file yields
// the defaults.
func Load(dir string) (*Config, error) {
	if path, ok := Find(dir); ok {
		return LoadFile(path)
	}
	return New(), nil
}

// Find returns the path of the first config file present in dir.
func Find(dir string) (string, bool) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, ConfigBaseName+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension.
func LoadFile(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		return nil, errors.New("R011").
			WithDetail("Cannot load " + filepath.Base(path) + ": unknown extension " + strconv.Quote(ext))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("R010").Wrap(err)
	}

	cfg := New()
	if err := decode(ext, data, cfg); err != nil {
		return nil, errors.New("R010").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file syntax")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func supported(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func decode(ext string, data []byte, cfg *Config) error {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func encode(ext string, cfg *Config) ([]byte, error) {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		// Add newline at end of file
		return append(data, '\n'), nil
	}
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path in the format
// matching its extension.
func (c *Config) SaveTo(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supported(ext) {
		return errors.New("R011").
			WithDetail("Cannot save " + filepath.Base(path) + ": unknown extension " + strconv.Quote(ext))
	}

	data, err := encode(ext, c)
	if err != nil {
		return errors.New("R010").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R010").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "reflow"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("R010").
			WithDetail("log.level must be one of debug, info, warn, error; got " + strconv.Quote(c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("R010").
			WithDetail("log.format must be text or json; got " + strconv.Quote(c.Log.Format))
	}
	if c.Scheduler.ChainWarn < 0 {
		return errors.New("R010").
			WithDetail("scheduler.chainWarn must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("R010").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return errors.New("R010").
			WithDetail("server buffer sizes must not be negative")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("R010").
			WithDetail("metrics.path must start with /")
	}
	return nil
}

// ServerAddress returns the listen address of the development server.
func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// ExportDir returns the snapshot directory, resolved against the config
// file's directory when relative.
func (c *Config) ExportDir() string {
	if filepath.IsAbs(c.Export.Dir) {
		return c.Export.Dir
	}
	return filepath.Join(c.Dir(), c.Export.Dir)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
