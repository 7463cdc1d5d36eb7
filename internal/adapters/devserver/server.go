// Package devserver serves the output tree over HTTP and pushes live reload
// events to connected browsers.
package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/zerr"
)

// Reserved routes. They live under a prefix no asset can use.
const (
	EventsPath  = "/__plume/livereload"
	ScriptPath  = "/__plume/livereload.js"
	MetricsPath = "/__plume/metrics"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var _ ports.Reloader = (*Server)(nil)

// Server is the development HTTP server.
type Server struct {
	addr    string
	root    string
	hub     *Hub
	metrics http.Handler
	logger  ports.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes handler at MetricsPath.
func WithMetrics(handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = handler
	}
}

// WithLogger reports the listening address and serve failures.
func WithLogger(logger ports.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server for the files below root, listening on host:port.
func New(root, host string, port int, hub *Hub, opts ...Option) *Server {
	s := &Server{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		root: root,
		hub:  hub,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Hub returns the client registry.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Reload broadcasts event to connected browsers.
func (s *Server) Reload(event domain.ReloadEvent) {
	s.hub.Reload(event)
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(EventsPath, s.hub)
	mux.HandleFunc(ScriptPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write([]byte(clientScript))
	})
	if s.metrics != nil {
		mux.Handle(MetricsPath, s.metrics)
	}
	mux.Handle("/", injectScript(noCache(http.FileServer(http.Dir(s.root)))))
	return mux
}

// ListenAndServe listens on Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then disconnects
// the live reload clients and shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	if s.logger != nil {
		s.logger.Info("serving " + s.root + " at http://" + ln.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	case <-ctx.Done():
	}

	s.hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return nil
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
