// Package server provides the HTTP decision service: it exposes the
// policy decision point over a small JSON API, serves Prometheus
// metrics, and keeps the policy store fresh via a debounced file
// watcher and an optional cron-scheduled re-sync.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"

	"janus-hq/janus/pkg/config"
	"janus-hq/janus/pkg/policy/pdp"
	"janus-hq/janus/pkg/policy/store"
	"janus-hq/janus/pkg/telemetry/metrics"
)

// Server is the HTTP decision service.
type Server struct {
	config  *config.Config
	store   *store.Store
	pdp     *pdp.PDP
	metrics *metrics.DecisionMetrics
	logger  *slog.Logger

	httpServer *http.Server
	watcher    *store.FileWatcher
	cron       *cron.Cron

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup

	mu        sync.Mutex
	isRunning bool
}

// New creates a decision service around an already-loaded store.
func New(cfg *config.Config, st *store.Store, decider *pdp.PDP, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if decider == nil {
		return nil, fmt.Errorf("pdp cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:       cfg,
		store:        st,
		pdp:          decider,
		logger:       logger.With("component", "server"),
		shutdownChan: make(chan struct{}),
	}

	if cfg.Telemetry.Metrics.Enabled {
		s.metrics = metrics.NewDecisionMetrics(cfg.Telemetry.Metrics)
	}

	return s, nil
}

// Start starts the HTTP server plus the reload machinery and blocks
// until shutdown (context cancellation, SIGINT/SIGTERM, or Shutdown).
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.routes(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	if err := s.startReloaders(watchCtx); err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("decision service listening",
			"address", s.config.Server.ListenAddress,
			"policies", s.store.Size(),
			"policy_version", s.store.Version(),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return nil
	}
}

// startReloaders wires the file watcher and the optional cron schedule
// to atomic store reloads.
func (s *Server) startReloaders(ctx context.Context) error {
	reload := func() error {
		report, err := s.store.ReloadDirectory(s.config.Policy.Dir)
		if err != nil {
			return err
		}
		s.logger.Info("policies reloaded",
			"loaded", report.Loaded,
			"skipped", len(report.Skipped),
			"policy_version", s.store.Version(),
		)
		return nil
	}

	if s.config.Policy.Watch {
		watcher, err := store.NewFileWatcher(&store.WatcherConfig{
			Path:             s.config.Policy.Dir,
			DebounceInterval: s.config.Policy.DebounceInterval,
			Extensions:       []string{".yaml", ".yml"},
			SkipHidden:       true,
		}, s.logger)
		if err != nil {
			return fmt.Errorf("failed to create policy watcher: %w", err)
		}
		s.watcher = watcher

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := watcher.Watch(ctx, reload); err != nil {
				s.logger.Error("policy watcher exited", "error", err)
			}
		}()
	}

	if schedule := s.config.Policy.ReloadSchedule; schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(schedule, func() {
			if err := reload(); err != nil {
				s.logger.Error("scheduled policy reload failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule policy reload: %w", err)
		}
		c.Start()
		s.cron = c
		s.logger.Info("scheduled policy reload enabled", "schedule", schedule)
	}

	return nil
}

// Shutdown gracefully stops the server, the watcher and the scheduler.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info("shutting down decision service")

		if s.cron != nil {
			stopCtx := s.cron.Stop()
			<-stopCtx.Done()
		}

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Error("failed to stop policy watcher", "error", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				shutdownErr = fmt.Errorf("http shutdown: %w", err)
			}
		}

		s.wg.Wait()
		close(s.shutdownChan)

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("decision service stopped")
	})

	return shutdownErr
}

// routes builds the service mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /v1/policies", s.handlePolicies)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}
