package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/reflow/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Scheduler.ChainWarn != DefaultChainWarn {
		t.Errorf("Scheduler.ChainWarn = %d, want %d", cfg.Scheduler.ChainWarn, DefaultChainWarn)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(New(), cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{
			file: "reflow.json",
			content: `{
  "log": {"level": "debug", "format": "json"},
  "scheduler": {"freshDeps": true, "chainWarn": 10},
  "server": {"port": 8080},
  "metrics": {"enabled": false},
  "export": {"bucket": "snaps", "prefix": "dev/"}
}
`,
		},
		{
			file: "reflow.yaml",
			content: `log:
  level: debug
  format: json
scheduler:
  freshDeps: true
  chainWarn: 10
server:
  port: 8080
metrics:
  enabled: false
export:
  bucket: snaps
  prefix: dev/
`,
		},
		{
			file: "reflow.toml",
			content: `[log]
level = "debug"
format = "json"

[scheduler]
freshDeps = true
chainWarn = 10

[server]
port = 8080

[metrics]
enabled = false

[export]
bucket = "snaps"
prefix = "dev/"
`,
		},
	}

	want := New()
	want.Log = LogConfig{Level: "debug", Format: "json"}
	want.Scheduler = SchedulerConfig{FreshDeps: true, ChainWarn: 10}
	want.Server.Port = 8080
	want.Metrics.Enabled = false
	want.Export.Bucket = "snaps"
	want.Export.Prefix = "dev/"

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}
			if cfg.Dir() != dir {
				t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
			}
		})
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reflow.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if !stderrors.Is(err, errors.New("R011")) {
		t.Errorf("err = %v, want R011", err)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad json", "reflow.json", `{"log":`},
		{"bad yaml", "reflow.yaml", "log: [\n"},
		{"bad toml", "reflow.toml", "[log\n"},
		{"bad level", "reflow.json", `{"log": {"level": "loud"}}`},
		{"bad port", "reflow.json", `{"server": {"port": 70000}}`},
		{"bad metrics path", "reflow.yaml", "metrics:\n  path: metrics\n"},
		{"negative chain warn", "reflow.toml", "[scheduler]\nchainWarn = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if !stderrors.Is(err, errors.New("R010")) {
				t.Errorf("err = %v, want R010", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range Extensions {
		t.Run(ext, func(t *testing.T) {
			cfg := New()
			cfg.Server.Port = 4000
			cfg.Export.Region = "eu-west-1"

			path := filepath.Join(t.TempDir(), ConfigBaseName+ext)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save without a path should fail")
	}
}

func TestHelpers(t *testing.T) {
	cfg := New()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	if got := cfg.ServerAddress(); got != "0.0.0.0:8080" {
		t.Errorf("ServerAddress() = %q", got)
	}

	cfg.Log.Level = "WARN"
	if got := cfg.SlogLevel(); got != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v, want %v", got, slog.LevelWarn)
	}

	cfg.configPath = filepath.Join("/srv", "app", "reflow.json")
	if got := cfg.ExportDir(); got != filepath.Join("/srv", "app", "snapshots") {
		t.Errorf("ExportDir() = %q", got)
	}
	cfg.Export.Dir = "/tmp/out"
	if got := cfg.ExportDir(); got != "/tmp/out" {
		t.Errorf("ExportDir() = %q", got)
	}
}
