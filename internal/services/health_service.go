package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"wricefviz/internal/config"
)

// ClientCounter reports connected websocket clients.
type ClientCounter interface {
	ClientCount() int
}

// HealthService answers health, readiness and version queries.
type HealthService struct {
	version   string
	buildTime string
	cfg       *config.Config
	dashboard *DashboardService
	clients   ClientCounter
	logger    *slog.Logger
	startedAt time.Time
}

// HealthStatus is the body of a health or readiness response.
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    string                   `json:"uptime"`
	Checks    map[string]ServiceHealth `json:"checks,omitempty"`
}

// ServiceHealth is the state of one dependency.
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// NewHealthService creates the health service.
func NewHealthService(version, buildTime string, cfg *config.Config, dashboard *DashboardService, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		cfg:       cfg,
		dashboard: dashboard,
		clients:   clients,
		logger:    logger.With(slog.String("component", "health_service")),
		startedAt: time.Now().UTC(),
	}
}

// LivenessCheck reports whether the process is up. It never fails.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startedAt).Round(time.Second).String(),
	}
}

// ReadinessCheck reports whether the service can answer dashboard
// queries: data loaded and the data source reachable.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	checks := map[string]ServiceHealth{
		"data":      hs.checkData(),
		"websocket": hs.checkWebSocket(),
	}

	status := statusHealthy
	for _, c := range checks {
		switch c.Status {
		case statusUnhealthy:
			status = statusUnhealthy
		case statusDegraded:
			if status == statusHealthy {
				status = statusDegraded
			}
		}
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
		Uptime:    time.Since(hs.startedAt).Round(time.Second).String(),
		Checks:    checks,
	}
}

func (hs *HealthService) checkData() ServiceHealth {
	table := hs.dashboard.Table()
	if table == nil {
		return ServiceHealth{Status: statusUnhealthy, Message: "tracker data not loaded"}
	}
	if table.Len() == 0 {
		return ServiceHealth{Status: statusDegraded, Message: "tracker table is empty"}
	}
	if !hs.cfg.UseSheets() {
		if _, err := os.Stat(hs.cfg.Data.TrackerFile); os.IsNotExist(err) {
			return ServiceHealth{Status: statusDegraded, Message: "serving sample data, tracker file missing"}
		}
	}
	return ServiceHealth{Status: statusHealthy}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: statusDegraded, Message: "hub not running"}
	}
	return ServiceHealth{Status: statusHealthy}
}

// Version returns the build information and data source details.
func (hs *HealthService) Version() map[string]interface{} {
	info := map[string]interface{}{
		"version":    hs.version,
		"build_time": hs.buildTime,
		"go_version": runtime.Version(),
		"started_at": hs.startedAt,
	}
	if table := hs.dashboard.Table(); table != nil {
		info["data_source"] = table.Source
		info["rows"] = table.Len()
		info["loaded_at"] = hs.dashboard.LoadedAt()
		synthesized := make([]string, 0, len(table.Synthesized))
		for _, c := range table.Synthesized {
			synthesized = append(synthesized, string(c))
		}
		info["synthesized_columns"] = synthesized
	}
	if hs.clients != nil {
		info["websocket_clients"] = hs.clients.ClientCount()
	}
	return info
}
