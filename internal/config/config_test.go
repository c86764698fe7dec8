package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Dev {
		t.Error("Dev should default to false")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Devtools.Addr != DefaultDevtoolsAddr {
		t.Errorf("Devtools.Addr = %q, want %q", cfg.Devtools.Addr, DefaultDevtoolsAddr)
	}
	if cfg.Devtools.Buffer != DefaultBuffer || cfg.Devtools.Interval != DefaultInterval {
		t.Errorf("Devtools = %+v", cfg.Devtools)
	}
	if cfg.ArchiveEnabled() {
		t.Error("archive should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if cfg.Devtools.Addr != DefaultDevtoolsAddr {
		t.Errorf("Devtools.Addr = %q", cfg.Devtools.Addr)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "reactive.yaml", `
dev: true
log:
  level: debug
  format: json
devtools:
  addr: 0.0.0.0:9000
  interval: 500ms
archive:
  bucket: traces
  prefix: dev/
  path_style: true
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if !cfg.Dev {
		t.Error("Dev should be true")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Devtools.Addr != "0.0.0.0:9000" || cfg.Devtools.Interval != 500*time.Millisecond {
		t.Errorf("Devtools = %+v", cfg.Devtools)
	}
	if cfg.Devtools.Buffer != DefaultBuffer {
		t.Errorf("unset Devtools.Buffer = %d, want default", cfg.Devtools.Buffer)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("unset Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if !cfg.ArchiveEnabled() || cfg.Archive.Prefix != "dev/" || !cfg.Archive.PathStyle {
		t.Errorf("Archive = %+v", cfg.Archive)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", cfg.SlogLevel())
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reactive.toml", `
dev = true

[metrics]
namespace = "app"
subsystem = "state"

[devtools]
addr = ":7171"
buffer = 64
interval = "1s"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Dev || cfg.Metrics.Namespace != "app" || cfg.Metrics.Subsystem != "state" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Devtools.Addr != ":7171" || cfg.Devtools.Buffer != 64 || cfg.Devtools.Interval != time.Second {
		t.Errorf("Devtools = %+v", cfg.Devtools)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("unset Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadPrefersYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reactive.toml", "dev = false\n")
	writeFile(t, dir, "reactive.yaml", "dev: true\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Dev || filepath.Base(cfg.Path()) != "reactive.yaml" {
		t.Errorf("loaded %q dev=%v", cfg.Path(), cfg.Dev)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "reactive.yml", "")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Devtools.Addr != DefaultDevtoolsAddr {
		t.Errorf("Devtools.Addr = %q", cfg.Devtools.Addr)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		file string
		body string
		code string
	}{
		{"missing", "", "", "C001"},
		{"bad yaml", "reactive.yaml", "log: [", "C002"},
		{"unknown yaml key", "reactive.yaml", "colour: red\n", "C002"},
		{"bad toml", "reactive.toml", "dev = ", "C002"},
		{"unknown toml key", "reactive.toml", "colour = \"red\"\n", "C002"},
		{"unsupported", "reactive.json", "{}", "C003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "nope.yaml")
			if tt.file != "" {
				path = writeFile(t, t.TempDir(), tt.file, tt.body)
			}
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, rerrors.New(tt.code)) {
				t.Errorf("error %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"REACTIVE_DEV":           "1",
		"REACTIVE_LOG_LEVEL":     " WARN ",
		"REACTIVE_DEVTOOLS_ADDR": "127.0.0.1:0",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := New()
	cfg.ApplyEnv(lookup)

	if !cfg.Dev {
		t.Error("REACTIVE_DEV=1 should enable dev mode")
	}
	if cfg.Log.Level != "warn" || cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Devtools.Addr != "127.0.0.1:0" {
		t.Errorf("Devtools.Addr = %q", cfg.Devtools.Addr)
	}

	env = map[string]string{"REACTIVE_DEV": "maybe"}
	cfg.ApplyEnv(lookup)
	if !cfg.Dev {
		t.Error("an unparsable REACTIVE_DEV should leave Dev unchanged")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad addr", func(c *Config) { c.Devtools.Addr = "localhost" }, "devtools.addr"},
		{"negative buffer", func(c *Config) { c.Devtools.Buffer = -1 }, "devtools.buffer"},
		{"negative interval", func(c *Config) { c.Devtools.Interval = -time.Second }, "devtools.interval"},
		{"prefix without bucket", func(c *Config) { c.Archive.Prefix = "x/" }, "archive.bucket"},
		{"bucket", func(c *Config) { c.Archive.Bucket = "b"; c.Archive.Prefix = "x/" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			var re *rerrors.ReactiveError
			if !errors.As(err, &re) {
				t.Fatalf("Validate() = %v, want a ReactiveError", err)
			}
			if re.Code != "C002" || !strings.Contains(re.Detail, tt.wantErr) {
				t.Errorf("Validate() = %v (detail %q), want C002 about %s", err, re.Detail, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := New()
			cfg.Log.Level = tt.level
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Dev = true
	cfg.Devtools.Interval = 3 * time.Second
	cfg.Archive.Bucket = "traces"

	path := filepath.Join(dir, "reactive.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q", cfg.Path())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "interval: 3s") {
		t.Errorf("saved YAML should encode durations as strings:\n%s", data)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved file is not YAML: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if !loaded.Dev || loaded.Devtools.Interval != 3*time.Second || loaded.Archive.Bucket != "traces" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "reactive.toml", "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, want)
	}

	if !Exists(root) || Exists(nested) {
		t.Error("Exists should only see the directory holding the file")
	}
}
