package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sanjubaaba/loanserve/internal/store"
)

type RuntimeSnapshot struct {
	RequestsScored int64
	RequestsFailed int64
	ModelReady     bool
}

type SnapshotProvider interface {
	Snapshot() RuntimeSnapshot
}

type HealthResponse struct {
	Status         string   `json:"status"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
	Version        string   `json:"version"`
	DBStatus       string   `json:"db_status"`
	DBSizeBytes    int64    `json:"db_size_bytes"`
	InputRows      int64    `json:"input_rows"`
	PredictionRows int64    `json:"prediction_rows"`
	MetricRows     int64    `json:"metric_rows"`
	RequestsScored int64    `json:"requests_scored"`
	RequestsFailed int64    `json:"requests_failed"`
	ModelStatus    string   `json:"model_status"`
	GeneratedAt    string   `json:"generated_at"`
	Warnings       []string `json:"warnings,omitempty"`
}

type HealthHandler struct {
	mgr         *store.Manager
	startTime   time.Time
	version     string
	snapshotter SnapshotProvider
}

func NewHealthHandler(mgr *store.Manager, start time.Time, version string, snapshotter SnapshotProvider) *HealthHandler {
	return &HealthHandler{
		mgr:         mgr,
		startTime:   start,
		version:     version,
		snapshotter: snapshotter,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	snapshot := h.snapshotter.Snapshot()

	resp := HealthResponse{
		Status:         "ok",
		UptimeSeconds:  int64(time.Since(h.startTime).Seconds()),
		Version:        h.version,
		DBStatus:       "unavailable",
		RequestsScored: snapshot.RequestsScored,
		RequestsFailed: snapshot.RequestsFailed,
		ModelStatus:    "ready",
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if !snapshot.ModelReady {
		resp.ModelStatus = "unavailable"
		resp.Status = "degraded"
	}

	if h.mgr != nil {
		stats := h.mgr.Stats()
		resp.DBStatus = stats.DBStatus
		resp.DBSizeBytes = stats.DBSizeBytes

		inputs, predictions, metrics, err := h.mgr.RowCounts(context.Background())
		if err != nil {
			resp.Status = "degraded"
			resp.Warnings = append(resp.Warnings, "row_counts_unavailable")
		} else {
			resp.InputRows = inputs
			resp.PredictionRows = predictions
			resp.MetricRows = metrics
		}
	}
	if resp.DBStatus != "ok" {
		resp.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
