package config

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	rerrors "github.com/vango-dev/reactive/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDevtoolsAddr is the default devtools listen address.
	DefaultDevtoolsAddr = "localhost:7070"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "reactive"

	// DefaultBuffer is the default number of records the devtools recorder keeps.
	DefaultBuffer = 1024

	// DefaultInterval is how often the devtools workload runs.
	DefaultInterval = 2 * time.Second
)

// FileNames lists the config file names Load looks for, in order.
var FileNames = []string{"reactive.yaml", "reactive.yml", "reactive.toml"}

// Config is the complete reactive configuration.
type Config struct {
	// Dev enables development-mode warnings and debug hooks.
	Dev bool `yaml:"dev" toml:"dev"`

	Log      LogConfig      `yaml:"log" toml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics" toml:"metrics"`
	Devtools DevtoolsConfig `yaml:"devtools" toml:"devtools"`
	Archive  ArchiveConfig  `yaml:"archive" toml:"archive"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig controls the slog handler built by the CLI.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level" toml:"level"`

	// Format is text or json.
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig controls Prometheus metric names.
type MetricsConfig struct {
	Namespace string `yaml:"namespace" toml:"namespace"`
	Subsystem string `yaml:"subsystem,omitempty" toml:"subsystem,omitempty"`
}

// DevtoolsConfig controls the devtools server.
type DevtoolsConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr" toml:"addr"`

	// Buffer is the recorder ring size.
	Buffer int `yaml:"buffer" toml:"buffer"`

	// Interval is how often the demo workload runs while serving.
	Interval time.Duration `yaml:"interval" toml:"interval"`
}

// ArchiveConfig controls trace uploads. Archiving is off when Bucket is empty.
type ArchiveConfig struct {
	Bucket    string `yaml:"bucket,omitempty" toml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty" toml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty" toml:"path_style,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Devtools: DevtoolsConfig{
			Addr:     DefaultDevtoolsAddr,
			Buffer:   DefaultBuffer,
			Interval: DefaultInterval,
		},
	}
}

// Load reads the first config file found in dir. A directory without one
// yields the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		detail := "Could not read " + path
		if errors.Is(err, os.ErrNotExist) {
			detail = "No config file at " + path
		}
		return nil, rerrors.New("C001").WithDetail(detail).Wrap(err)
	}

	cfg := New()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, rerrors.New("C002").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
		}
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, rerrors.New("C002").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, rerrors.New("C002").
				WithDetail("Unknown key " + undecoded[0].String() + " in " + filepath.Base(path))
		}
	default:
		return nil, rerrors.New("C003").WithDetail("Cannot read " + filepath.Base(path) + ": unknown extension " + ext)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration as YAML to path.
func (c *Config) SaveTo(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return rerrors.New("C001").Wrap(err)
	}
	c.configPath = path
	return nil
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, rerrors.New("C002").Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return nil, rerrors.New("C002").Wrap(err)
	}
	return buf.Bytes(), nil
}

// Path returns the path where the config was loaded from, or "" for
// defaults.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = DefaultDevtoolsAddr
	}
	if c.Devtools.Buffer == 0 {
		c.Devtools.Buffer = DefaultBuffer
	}
	if c.Devtools.Interval == 0 {
		c.Devtools.Interval = DefaultInterval
	}
}

// ApplyEnv overrides fields from environment variables read through lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("REACTIVE_DEV"); ok {
		if dev, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Dev = dev
		}
	}
	if v, ok := lookup("REACTIVE_LOG_LEVEL"); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("REACTIVE_DEVTOOLS_ADDR"); ok && strings.TrimSpace(v) != "" {
		c.Devtools.Addr = strings.TrimSpace(v)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return rerrors.New("C002").WithDetail("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	if _, _, err := net.SplitHostPort(c.Devtools.Addr); err != nil {
		return rerrors.New("C002").WithDetail("devtools.addr must be host:port, got " + strconv.Quote(c.Devtools.Addr))
	}
	if c.Devtools.Buffer < 0 {
		return rerrors.New("C002").WithDetail("devtools.buffer must not be negative")
	}
	if c.Devtools.Interval < 0 {
		return rerrors.New("C002").WithDetail("devtools.interval must not be negative")
	}
	if c.Archive.Bucket == "" && (c.Archive.Prefix != "" || c.Archive.Endpoint != "") {
		return rerrors.New("C002").WithDetail("archive settings need archive.bucket")
	}
	return nil
}

// SlogLevel returns the configured log level. Invalid levels map to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ArchiveEnabled reports whether trace uploads are configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Bucket != ""
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, rerrors.New("C002").WithDetail("log.level must be debug, info, warn or error, got " + strconv.Quote(s))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find one holding a config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", rerrors.New("C001").
				WithDetail("No reactive.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest config file above the working
// directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}

	return Load(root)
}
