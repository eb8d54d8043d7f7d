package server

import (
	"net/http"
	"time"
)

func New(addr string, healthHandler http.HandlerFunc, api *Handlers, telemetryHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	if api != nil {
		mux.HandleFunc("POST /v1/score", api.PostScore)
		mux.HandleFunc("GET /v1/history", api.GetHistory)
		mux.HandleFunc("POST /v1/metrics", api.PostMetric)
		mux.HandleFunc("GET /v1/metrics", api.GetMetrics)
	}
	if telemetryHandler != nil {
		mux.Handle("GET /metrics", telemetryHandler)
	}

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
