// Package handler provides HTTP handlers for the gymmate API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/provider/resilience"
)

// readyTimeout bounds the storage ping of the readiness check.
const readyTimeout = 2 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
	Backend() string
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	storage   Pinger
	providers *resilience.Registry
	now       func() time.Time
}

// NewOpsHandler creates a new OpsHandler. providers may be nil.
func NewOpsHandler(version, buildTime string, storage Pinger, providers *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		storage:   storage,
		providers: providers,
		now:       time.Now,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - storage must answer a ping.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	health := models.Health{
		Status:  models.HealthStatusOK,
		Time:    models.Timestamp(h.now()),
		Details: map[string]interface{}{"storage": h.storage.Backend()},
	}
	if err := h.storage.Ping(ctx); err != nil {
		health.Status = models.HealthStatusFail
		health.Details["error"] = err.Error()
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - storage and advice provider status.
// A failing store fails the system; an unhealthy provider only degrades it,
// since advice falls back to placeholder text.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(h.now()),
		Providers: []models.ProviderStatus{},
	}

	storage := models.SubsystemStatus{Name: "storage:" + h.storage.Backend(), Status: models.HealthStatusOK}
	if err := h.storage.Ping(ctx); err != nil {
		detail := err.Error()
		storage.Status = models.HealthStatusFail
		storage.Detail = &detail
		status.Status = models.HealthStatusFail
	}
	status.Subsystems = []models.SubsystemStatus{storage}

	if h.providers != nil {
		for _, ph := range h.providers.GetAllHealth() {
			ps := providerStatus(ph)
			if ps.Status != models.HealthStatusOK {
				status.ActiveDegradationFlags = append(status.ActiveDegradationFlags, "advice:"+ph.Name)
				if status.Status == models.HealthStatusOK {
					status.Status = models.HealthStatusDegraded
				}
			}
			status.Providers = append(status.Providers, ps)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerStatus(ph *resilience.ProviderHealth) models.ProviderStatus {
	ps := models.ProviderStatus{Provider: ph.Name, Status: models.HealthStatusOK}
	switch ph.CircuitState {
	case gobreaker.StateOpen:
		ps.Status = models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		ps.Status = models.HealthStatusDegraded
	}
	if ph.LastSuccessAt != nil {
		ts := models.Timestamp(*ph.LastSuccessAt)
		ps.LastSuccessAt = &ts
	}
	if ph.LastFailureAt != nil {
		ts := models.Timestamp(*ph.LastFailureAt)
		ps.LastFailureAt = &ts
	}
	if ph.LastError != "" {
		msg := ph.LastError
		ps.Message = &msg
	}
	return ps
}
