package controllers

import (
	"fmt"
	"net/http"
	"scd/internal/models"
	"scd/internal/providers"
	"scd/internal/services"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	counters  services.CounterServiceInterface
	sampler   providers.LoadSamplerInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Date          string  `json:"date"`
	GroupToday    int     `json:"group_today"`
	PrivateToday  int     `json:"private_today"`
	Channels      int     `json:"channels"`
	LoadPercent   float64 `json:"load_percent"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	snap := hc.counters.Snapshot()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Date:          snap.Date,
		GroupToday:    snap.ByCategory[models.CategoryGroup],
		PrivateToday:  snap.ByCategory[models.CategoryPrivate],
		Channels:      len(snap.ByChannel),
		LoadPercent:   hc.sampler.Last(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(counters services.CounterServiceInterface, sampler providers.LoadSamplerInterface) *HealthController {
	return &HealthController{
		counters:  counters,
		sampler:   sampler,
		startTime: time.Now(),
	}
}
