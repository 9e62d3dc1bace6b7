package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"inkwell/app/config"
	"inkwell/app/mailer"
	"inkwell/app/routes"
	"inkwell/app/views"
)

const shutdownTimeout = 10 * time.Second

// Server runs an HTTP handler until its context is cancelled, then drains
// in-flight requests.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run listens on the server address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// RunAppServer opens the store, builds the blog's router and serves it on the
// configured address until ctx is done.
func RunAppServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := openStore(cfg, logger, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	m, err := mailer.New(cfg.Mail, logger)
	if err != nil {
		return err
	}
	renderer, err := views.New(cfg.Views.TemplatesDir, cfg.Views.StaticDir, cfg.Site.Name)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := routes.SetupRoutes(routes.Dependencies{
		Config:   cfg,
		Store:    store,
		Mailer:   m,
		Views:    renderer,
		Logger:   logger,
		Registry: reg,
	})

	logger.Info("starting blog",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("mail", cfg.Mail.Backend),
	)
	return NewServer(cfg.HTTP.Addr, router, logger).Run(ctx)
}
