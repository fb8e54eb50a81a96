package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/reflow/pkg/component"
	"github.com/vango-dev/reflow/pkg/devserver"
	"github.com/vango-dev/reflow/pkg/host"
	"github.com/vango-dev/reflow/pkg/host/memhost"
	"github.com/vango-dev/reflow/pkg/reactive"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve [demo]",
		Short: "Serve a demo with live updates",
		Long: `Mount a demo on an event loop and serve it over HTTP.

Browsers receive the rendered HTML and every subsequent patch over a
WebSocket. State is changed through the JSON routes, for example:

  curl -X PUT localhost:3000/state/count -d 5
  curl -X POST localhost:3000/state -d '{"step":10}'

Examples:
  reflow serve
  reflow serve todos --port=8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "counter"
			if len(args) == 1 {
				name = args[0]
			}
			return runServe(flags, name, host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

func runServe(flags *globalFlags, name, hostFlag string, port int) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if hostFlag != "" {
		cfg.Server.Host = hostFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	d, err := lookupDemo(name)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := reactive.NewEventLoop(256)
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(ctx)
	}()

	doc := memhost.New()
	var h host.Host = doc
	sopts := []devserver.Option{
		devserver.WithLogger(logger),
		devserver.WithBufferSizes(cfg.Server.ReadBufferSize, cfg.Server.WriteBufferSize),
		devserver.WithTracer(otel.Tracer(cfg.Tracing.TracerName)),
	}
	m, reg := newMetrics(cfg)
	if m != nil {
		h = m.InstrumentHost(doc)
		sopts = append(sopts,
			devserver.WithMetrics(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
			devserver.WithMiddleware(m.HTTPMiddleware()),
		)
	}
	srv := devserver.New(loop, doc, sopts...)

	var mountErr error
	err = loop.Do(ctx, func() {
		rt := reactive.New(append(runtimeOptions(cfg, logger), reactive.WithDeferrer(loop))...)
		rt.Bind()

		copts := append(componentOptions(cfg, logger),
			component.WithData(d.Data()),
			component.WithName(d.Name),
			srv.AfterPatch(),
		)
		if m != nil {
			m.ObserveScheduler(rt.Scheduler())
			copts = append(copts, m.AfterPatch())
		}
		inst := component.New(rt, h, d.Render, copts...)
		srv.Attach(inst)
		mountErr = inst.Mount(doc.Element(doc.Body(), "div"))
	})
	if err != nil {
		return err
	}
	if mountErr != nil {
		return mountErr
	}

	printBanner()
	success("Serving %s on http://%s", d.Name, cfg.ServerAddress())
	if m == nil {
		warn("Metrics disabled")
	} else {
		info("Metrics on http://%s%s", cfg.ServerAddress(), cfg.Metrics.Path)
	}

	if err := srv.ListenAndServe(ctx, cfg.ServerAddress()); err != nil {
		return err
	}
	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	info("Shut down")
	return nil
}
