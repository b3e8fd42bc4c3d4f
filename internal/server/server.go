package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Kush-Singh-26/devserve/internal/config"
	"github.com/Kush-Singh-26/devserve/internal/metrics"
	"github.com/Kush-Singh-26/devserve/internal/mimetable"
)

// Server is the static file responder plus its optional live reload.
type Server struct {
	cfg     *config.ServeConfig
	types   *mimetable.Table
	metrics *metrics.ServeMetrics
	hub     *reloadHub
	logger  *slog.Logger
	out     io.Writer
	handler http.Handler
}

// New builds a server for cfg that serves fsys. Status lines go to out.
func New(cfg *config.ServeConfig, fsys afero.Fs, logger *slog.Logger, out io.Writer) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}

	s := &Server{
		cfg:     cfg,
		types:   mimetable.New(cfg.MimeTypes),
		metrics: metrics.NewServeMetrics(),
		logger:  logger,
		out:     out,
	}

	var h http.Handler = NewHandler(fsys, s.types)
	if cfg.Watch {
		s.hub = newReloadHub()
		h = withReloadEndpoint(h, s.hub)
	}
	s.handler = WithResponseHeaders(h, s.metrics, logger)
	return s
}

// withReloadEndpoint routes ReloadPath to hub and everything else to files.
// Paths reach files untouched, as they would without live reload.
func withReloadEndpoint(files, hub http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == ReloadPath {
			hub.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the response counters.
func (s *Server) Metrics() *metrics.ServeMetrics {
	return s.metrics
}

// ListenAndServe binds the configured address and serves until ctx is done.
// A bind failure is returned as is; it is never retried.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. Cancellation is a
// clean stop and returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:  s.handler,
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),

		// OPTIONS * goes to the handler so it gets the 501 and the fixed headers.
		DisableGeneralOptionsHandler: true,
	}
	if s.hub != nil {
		httpServer.RegisterOnShutdown(s.hub.Close)
	}

	s.printBanner(ln.Addr())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	// Shutdown handler - watches for context cancellation
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			_, _ = fmt.Fprintln(s.out, "\n🛑 Shutting down server...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error", "error", err)
			_ = httpServer.Close()
		}
		return nil
	})

	if s.hub != nil {
		g.Go(func() error {
			return s.watchRoot(gctx)
		})
	}

	err := g.Wait()
	_, _ = fmt.Fprint(s.out, s.metrics.String())
	return err
}

func (s *Server) printBanner(addr net.Addr) {
	host := s.cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	port := s.cfg.Port
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	_, _ = fmt.Fprintf(s.out, "🌍 Server running at http://%s/\n", net.JoinHostPort(host, strconv.Itoa(port)))
	_, _ = fmt.Fprintln(s.out, "Serving with proper MIME types for .mjs files")
	_, _ = fmt.Fprintf(s.out, "MIME map: %s\n", s.types.TypeByExtension(".mjs"))
	if s.hub != nil {
		_, _ = fmt.Fprintf(s.out, "   (Auto-reload enabled via %s)\n", ReloadPath)
	}
	_, _ = fmt.Fprintln(s.out, "Press Ctrl+C to stop")
}

// Run starts the server from command-line arguments and blocks until ctx
// is cancelled or the listener fails.
func Run(ctx context.Context, args []string) error {
	cfg, err := config.FromArgs(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	fsys, err := rootFs(cfg.Root)
	if err != nil {
		return err
	}

	return New(cfg, fsys, logger, os.Stdout).ListenAndServe(ctx)
}
