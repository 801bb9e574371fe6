package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/change-maker/internal/api"
	"github.com/eugenenazirov/change-maker/internal/config"
	"github.com/eugenenazirov/change-maker/internal/history"
	"github.com/eugenenazirov/change-maker/internal/metrics"
	"github.com/eugenenazirov/change-maker/internal/storage"
)

// App encapsulates the HTTP service dependencies and server.
type App struct {
	storage storage.Storage
	history history.Store
	metrics *metrics.Metrics
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the HTTP service with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetDenominations(cfg.Coins); err != nil {
		return nil, fmt.Errorf("failed to apply initial denominations: %w", err)
	}

	hist, err := openHistory(cfg.HistoryPath)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	handler := api.NewHandler(store,
		api.WithHistory(hist),
		api.WithMetrics(m),
		api.WithLogger(logger),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		storage: store,
		history: hist,
		metrics: m,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, BuildRootHandler(apiRouter, m.Handler())),
	}, nil
}

func openHistory(path string) (history.Store, error) {
	if path == "" {
		return history.Nop{}, nil
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history at %s: %w", path, err)
	}
	return store, nil
}

// BuildRootHandler routes API traffic to apiHandler and exposes metrics on /metrics.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("GET /metrics", metricsHandler)
	mux.Handle("/", http.NotFoundHandler())
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// History returns the store that records solves served by the API.
func (a *App) History() history.Store {
	return a.history
}

// Close releases the history store. Call it after the server has shut down.
func (a *App) Close() error {
	return a.history.Close()
}
