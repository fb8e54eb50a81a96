package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/reflow/internal/config"
	"github.com/vango-dev/reflow/internal/demo"
	"github.com/vango-dev/reflow/pkg/component"
	"github.com/vango-dev/reflow/pkg/metrics"
	"github.com/vango-dev/reflow/pkg/reactive"
)

type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
	noColor   bool
}

// loadConfig reads the config named by --config, a file or a directory,
// and applies the logging flags on top.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch path := flags.config; {
	case path == "":
		wd, werr := os.Getwd()
		if werr != nil {
			return nil, werr
		}
		cfg, err = config.Load(wd)
	case isDir(path):
		cfg, err = config.Load(path)
	default:
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// newLogger builds the slog logger described by cfg. Logs go to w, which is
// stderr in normal use so they do not mix with command output.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// runtimeOptions maps the scheduler and tracing sections onto runtime
// options.
func runtimeOptions(cfg *config.Config, logger *slog.Logger) []reactive.Option {
	return []reactive.Option{
		reactive.WithLogger(logger),
		reactive.WithTracer(otel.Tracer(cfg.Tracing.TracerName)),
		reactive.WithFreshDepsByDefault(cfg.Scheduler.FreshDeps),
		reactive.WithChainWarning(cfg.Scheduler.ChainWarn),
	}
}

func componentOptions(cfg *config.Config, logger *slog.Logger) []component.Option {
	return []component.Option{
		component.WithLogger(logger),
		component.WithTracer(otel.Tracer(cfg.Tracing.TracerName)),
	}
}

// newMetrics creates the collectors on a private registry, or returns nil
// when metrics are disabled.
func newMetrics(cfg *config.Config) (*metrics.Metrics, *prometheus.Registry) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithRegistry(reg),
	)
	return m, reg
}

func lookupDemo(name string) (demo.Demo, error) {
	d, ok := demo.Lookup(name)
	if !ok {
		return demo.Demo{}, fmt.Errorf("unknown demo %q (available: %s)", name, strings.Join(demo.Names(), ", "))
	}
	return d, nil
}
