package controllers

import (
	"net/http"
	"time"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/services"
)

// HealthController answers liveness checks with a summary of the schedule.
type HealthController struct {
	service   services.InjectorServiceInterface
	startedAt time.Time
}

type healthResponse struct {
	Status    string         `json:"status"`
	StartedAt int64          `json:"started_at"`
	Uptime    string         `json:"uptime"`
	Receivers int            `json:"receivers"`
	Keeper    models.Address `json:"keeper"`
	Paused    bool           `json:"paused"`
	Version   uint64         `json:"version"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	settings := hc.service.Settings()
	resp := healthResponse{
		Status:    "ok",
		StartedAt: hc.startedAt.Unix(),
		Uptime:    time.Since(hc.startedAt).Round(time.Second).String(),
		Receivers: len(hc.service.GetWatchList()),
		Keeper:    settings.Keeper,
		Paused:    settings.Paused,
		Version:   hc.service.Version(),
	}
	// A paused injector is alive; the status only tells operators why nothing moves.
	if resp.Paused {
		resp.Status = "paused"
	}
	writeJSON(w, http.StatusOK, resp)
}

func NewHealthController(service services.InjectorServiceInterface) *HealthController {
	return &HealthController{service: service, startedAt: time.Now()}
}
