package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"wricefviz/internal/config"
	"wricefviz/internal/infrastructure"
	customMiddleware "wricefviz/internal/middleware"
	"wricefviz/internal/services"
	handlers "wricefviz/internal/transport/http"
	ws "wricefviz/internal/websocket"
)

const AppName = "WRICEF Tracker Dashboard"

// Application wires the dashboard server: config, logging, telemetry,
// the websocket hub, the data services and the chi router.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Metrics   *infrastructure.DashboardMetrics
	Hub       *ws.Hub
	Dashboard *services.DashboardService
	Health    *services.HealthService
	Router    *chi.Mux
	Server    *http.Server
}

// NewApplication builds the application with its full dependency graph.
// version and buildTime come from the build via ldflags.
func NewApplication(version, buildTime string) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := infrastructure.NewLogger(cfg.Logging)
	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", version),
		slog.Int("port", cfg.Server.Port))

	telemetry, err := infrastructure.InitializeTelemetry(infrastructure.DefaultTelemetryConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	metrics, err := infrastructure.NewDashboardMetrics(telemetry.Meter)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	hub := ws.NewHub(logger)

	dashboard := services.NewDashboardService(cfg, logger, hub, metrics)
	health := services.NewHealthService(version, buildTime, cfg, dashboard, hub, logger)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telemetry,
		Metrics:   metrics,
		Hub:       hub,
		Dashboard: dashboard,
		Health:    health,
	}

	if err := app.setupRouter(); err != nil {
		return nil, err
	}
	app.createServer()

	return app, nil
}

func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// Minimal middleware only: anything that wraps the ResponseWriter
	// breaks the websocket upgrade.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.HandleFunc("/ws", a.handleWebSocket)

	if a.Telemetry.PrometheusHTTP != nil {
		r.Handle("/metrics", a.Telemetry.PrometheusHTTP)
	}

	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	htmlHandler, err := handlers.NewHTMLHandler(a.Dashboard, a.Logger)
	if err != nil {
		return fmt.Errorf("parse dashboard template: %w", err)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Tracing("wricef-dashboard"))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Metrics(a.Metrics))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))
		r.Use(customMiddleware.Compress(5))

		r.Mount("/api", dashboardHandler.Routes())
		r.Mount("/api/health", healthHandler.Routes())
		r.Get("/api/version", healthHandler.Version)

		// Chart URLs the dashboard page embeds directly.
		r.Get("/charts/{name}", dashboardHandler.GetChart)

		r.Get("/", htmlHandler.Index)
	})

	a.Router = r
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start loads the tracker data and starts the hub and the HTTP server.
// A data load failure is not fatal: the server comes up and readiness
// reports unhealthy until a reload succeeds.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	go a.Hub.Run()

	if err := a.Dashboard.Load(ctx); err != nil {
		a.Logger.WarnContext(ctx, "initial data load failed",
			slog.String("error", err.Error()))
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop shuts the server down gracefully.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.Hub.Shutdown()

	if err := a.Telemetry.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "telemetry shutdown error", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run starts the application and blocks until an interrupt arrives or
// the server fails.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(ctx)
}

func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	reqID := customMiddleware.GetRequestID(r.Context())
	if reqID == "" {
		reqID = fmt.Sprintf("ws-%d", time.Now().UnixNano())
	}
	ctx := infrastructure.WithTraceID(r.Context(), reqID)

	if err := ws.ServeWS(a.Hub, a.Config.WebSocket, w, r, a.Logger); err != nil {
		a.Logger.ErrorContext(ctx, "websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
	}
}
