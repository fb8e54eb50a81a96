package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reflow/pkg/component"
	"github.com/vango-dev/reflow/pkg/host/memhost"
	"github.com/vango-dev/reflow/pkg/reactive"
)

// Config configures the server.
type Config struct {
	// ReadBufferSize is the WebSocket read buffer size (default: 1024).
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size (default: 1024).
	WriteBufferSize int

	// MetricsPath is where MetricsHandler is mounted (default: "/metrics").
	MetricsPath string

	// MetricsHandler serves Prometheus metrics. Nil disables the route.
	MetricsHandler http.Handler

	// Middleware is appended to the router after the built-in middleware.
	Middleware []func(http.Handler) http.Handler

	// Tracer starts one span per request.
	// Default: the global OpenTelemetry tracer provider.
	Tracer trace.Tracer

	// Logger is the logger (default: slog.Default()).
	Logger *slog.Logger
}

const tracerName = "github.com/vango-dev/reflow/pkg/devserver"

// Option configures the server.
type Option func(*Config)

// WithBufferSizes sets the WebSocket buffer sizes.
func WithBufferSizes(read, write int) Option {
	return func(c *Config) {
		c.ReadBufferSize = read
		c.WriteBufferSize = write
	}
}

// WithMetrics mounts h at path.
func WithMetrics(path string, h http.Handler) Option {
	return func(c *Config) {
		c.MetricsPath = path
		c.MetricsHandler = h
	}
}

// WithMiddleware adds router middleware.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(c *Config) {
		c.Middleware = append(c.Middleware, mw...)
	}
}

// WithTracer sets the tracer for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Server is the live-view HTTP server.
type Server struct {
	loop     *reactive.EventLoop
	doc      *memhost.Document
	inst     *component.Instance
	hub      *hub
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger
	tracer   trace.Tracer

	// seq is only touched on the loop goroutine.
	seq uint64
}

// New creates a server for the tree in doc, owned by loop. Attach the
// instance and pass AfterPatch to it before serving.
func New(loop *reactive.EventLoop, doc *memhost.Document, opts ...Option) *Server {
	cfg := Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		MetricsPath:     "/metrics",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}

	s := &Server{
		loop:   loop,
		doc:    doc,
		hub:    newHub(cfg.Logger),
		logger: cfg.Logger,
		tracer: cfg.Tracer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
	s.router = s.routes(cfg)
	return s
}

// Attach sets the instance whose state the server exposes.
func (s *Server) Attach(inst *component.Instance) {
	s.inst = inst
}

// AfterPatch returns a component option that pushes every patch to the
// connected clients and resets the document's op log.
func (s *Server) AfterPatch() component.Option {
	return component.AfterPatch(s.publish)
}

// publish runs on the loop goroutine.
func (s *Server) publish(inst *component.Instance) {
	s.seq++
	if err := inst.Err(); err != nil {
		s.doc.ResetOps()
		s.hub.broadcast(Message{Type: MessageError, Seq: s.seq, Error: err.Error()})
		return
	}
	msg := Message{Type: MessagePatch, Seq: s.seq, Ops: s.doc.Ops()}
	if root, ok := inst.Root().(*memhost.Node); ok {
		msg.HTML = root.HTML()
	}
	s.doc.ResetOps()
	s.hub.broadcast(msg)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	return s.hub.count()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("dev server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes(cfg Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.traceRequests)
	r.Use(cfg.Middleware...)

	r.Get("/", s.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/state", func(r chi.Router) {
		r.Get("/", s.handleGetState)
		r.Post("/", s.handleMergeState)
		r.Put("/{key}", s.handlePutKey)
	})
	r.Get("/ws", s.handleWebSocket)

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, cfg.MetricsPath, cfg.MetricsHandler)
	}
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) traceRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), "reflow.http",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		if rctx := chi.RouteContext(ctx); rctx != nil {
			span.SetAttributes(attribute.String("http.route", rctx.RoutePattern()))
		}
		span.SetAttributes(attribute.Int("http.status_code", ww.Status()))
		if ww.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.Status()))
		}
	})
}

// onLoop runs fn on the event loop and waits for the flush it triggers.
func (s *Server) onLoop(w http.ResponseWriter, r *http.Request, fn func()) bool {
	if s.inst == nil {
		http.Error(w, "no component attached", http.StatusServiceUnavailable)
		return false
	}
	if err := s.loop.Do(r.Context(), fn); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return false
	}
	return true
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>reflow</title></head>
<body>
<div id="reflow-root">{{.HTML}}</div>
<script>
(function() {
    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws');
    ws.onmessage = function(e) {
        var msg = JSON.parse(e.data);
        if (msg.html) {
            document.getElementById('reflow-root').innerHTML = msg.html;
        }
        if (msg.error) {
            console.error('[reflow]', msg.error);
        }
    };
})();
</script>
</body>
</html>
`))

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var html string
	if !s.onLoop(w, r, func() { html = s.currentHTML() }) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// The HTML was produced by the escaping serializer.
	if err := pageTemplate.Execute(w, struct{ HTML template.HTML }{template.HTML(html)}); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) currentHTML() string {
	if root, ok := s.inst.Root().(*memhost.Node); ok {
		return root.HTML()
	}
	return ""
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	var state any
	if !s.onLoop(w, r, func() { state = s.inst.Data().ToPlain() }) {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleMergeState(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := decodeJSON(r.Body, &patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var state any
	ok := s.onLoop(w, r, func() {
		for _, k := range keys {
			s.inst.Set(k, normalize(patch[k]))
		}
		state = s.inst.Data().ToPlain()
	})
	if ok {
		writeJSON(w, http.StatusOK, state)
	}
}

func (s *Server) handlePutKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var value any
	if err := decodeJSON(r.Body, &value); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var state any
	ok := s.onLoop(w, r, func() {
		s.inst.Set(key, normalize(value))
		state = s.inst.Data().ToPlain()
	})
	if ok {
		writeJSON(w, http.StatusOK, state)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.inst == nil {
		http.Error(w, "no component attached", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := s.hub.add(conn, r.URL.Query().Get("format") == "binary")

	// The initial message is queued on the loop so it cannot interleave
	// with a patch broadcast.
	err = s.loop.Post(func() {
		s.hub.sendTo(c, Message{Type: MessageInit, Seq: s.seq, HTML: s.currentHTML()})
	})
	if err != nil {
		s.hub.remove(c)
		return
	}

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.remove(c)
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}

// normalize turns decoded json.Number values into int when integral and
// float64 otherwise, recursively.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	default:
		return v
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
