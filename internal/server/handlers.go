package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sanjubaaba/loanserve/internal/pipeline"
	"github.com/sanjubaaba/loanserve/internal/store"
)

// ScoreService runs inference and persistence for one request.
type ScoreService interface {
	Score(ctx context.Context, f store.Features) (pipeline.Outcome, error)
}

// HistoryStore is the slice of the store the read/aggregate handlers use.
type HistoryStore interface {
	History(ctx context.Context, limit int) ([]store.HistoryRow, error)
	RecordMetric(ctx context.Context, name string, value float64) error
	MetricHistory(ctx context.Context, name string, limit int) ([]store.MetricRow, error)
}

type Handlers struct {
	logger       *slog.Logger
	scorer       ScoreService
	store        HistoryStore
	defaultLimit int
	maxLimit     int
}

// NewHandlers builds the API surface. A nil scorer or store marks that
// capability unavailable; its routes answer 503 instead of crashing.
func NewHandlers(logger *slog.Logger, scorer ScoreService, hs HistoryStore, defaultLimit, maxLimit int) *Handlers {
	return &Handlers{
		logger:       logger,
		scorer:       scorer,
		store:        hs,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type scoreRequest struct {
	Age         *float64 `json:"age"`
	Income      *float64 `json:"income"`
	CreditScore *float64 `json:"credit_score"`
	LoanAmount  *float64 `json:"loan_amount"`
}

type scoreResponse struct {
	RequestID    string  `json:"request_id"`
	InputID      int64   `json:"input_id"`
	Approved     bool    `json:"approved"`
	Label        int     `json:"label"`
	Confidence   float64 `json:"confidence"`
	Probability0 float64 `json:"probability_0"`
	Probability1 float64 `json:"probability_1"`
}

type historyItem struct {
	InputID      int64     `json:"input_id"`
	Age          float64   `json:"age"`
	Income       float64   `json:"income"`
	CreditScore  float64   `json:"credit_score"`
	LoanAmount   float64   `json:"loan_amount"`
	SubmittedAt  time.Time `json:"submitted_at"`
	PredictionID int64     `json:"prediction_id"`
	Label        int       `json:"label"`
	Confidence   float64   `json:"confidence"`
	Probability0 float64   `json:"probability_0"`
	Probability1 float64   `json:"probability_1"`
	PredictedAt  time.Time `json:"predicted_at"`
}

type metricRequest struct {
	Name  string   `json:"metric_name"`
	Value *float64 `json:"metric_value"`
}

type metricItem struct {
	PerformanceID int64     `json:"performance_id"`
	Name          string    `json:"metric_name"`
	Value         float64   `json:"metric_value"`
	MeasuredAt    time.Time `json:"measured_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) PostScore(w http.ResponseWriter, r *http.Request) {
	if h.scorer == nil {
		writeError(w, http.StatusServiceUnavailable, "model unavailable")
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Age == nil || req.Income == nil || req.CreditScore == nil || req.LoanAmount == nil {
		writeError(w, http.StatusBadRequest, "age, income, credit_score and loan_amount are required")
		return
	}

	out, err := h.scorer.Score(r.Context(), store.Features{
		Age:         *req.Age,
		Income:      *req.Income,
		CreditScore: *req.CreditScore,
		LoanAmount:  *req.LoanAmount,
	})
	if err != nil {
		h.logger.Error("score request failed", "error", err)
		status, msg := mapStoreError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, scoreResponse{
		RequestID:    out.RequestID,
		InputID:      out.InputID,
		Approved:     out.Label == 1,
		Label:        out.Label,
		Confidence:   out.Confidence,
		Probability0: out.Probabilities[0],
		Probability1: out.Probabilities[1],
	})
}

func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}

	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	rows, err := h.store.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("history read failed", "error", err)
		status, msg := mapStoreError(err)
		writeError(w, status, msg)
		return
	}

	items := make([]historyItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, historyItem{
			InputID:      row.InputID,
			Age:          row.Age,
			Income:       row.Income,
			CreditScore:  row.CreditScore,
			LoanAmount:   row.LoanAmount,
			SubmittedAt:  row.SubmittedAt,
			PredictionID: row.PredictionID,
			Label:        row.Label,
			Confidence:   row.Confidence,
			Probability0: row.Probability0,
			Probability1: row.Probability1,
			PredictedAt:  row.PredictedAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) PostMetric(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics unavailable")
		return
	}

	var req metricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Value == nil {
		writeError(w, http.StatusBadRequest, "metric_name and metric_value are required")
		return
	}

	if err := h.store.RecordMetric(r.Context(), req.Name, *req.Value); err != nil {
		h.logger.Error("metric write failed", "metric", req.Name, "error", err)
		status, msg := mapStoreError(err)
		writeError(w, status, msg)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics unavailable")
		return
	}

	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	rows, err := h.store.MetricHistory(r.Context(), r.URL.Query().Get("name"), limit)
	if err != nil {
		h.logger.Error("metric read failed", "error", err)
		status, msg := mapStoreError(err)
		writeError(w, status, msg)
		return
	}

	items := make([]metricItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, metricItem{
			PerformanceID: row.PerformanceID,
			Name:          row.Name,
			Value:         row.Value,
			MeasuredAt:    row.MeasuredAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// parseLimit reads ?limit= with the configured default, rejects non-positive
// or malformed values, and caps at the configured maximum.
func (h *Handlers) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.defaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	return limit, true
}

func mapStoreError(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrBadLimit):
		return http.StatusBadRequest, "limit must be a positive integer"
	case errors.Is(err, store.ErrConstraint):
		return http.StatusConflict, "referenced record does not exist"
	case errors.Is(err, store.ErrConnectivity), errors.Is(err, store.ErrSchema):
		return http.StatusServiceUnavailable, "storage unavailable"
	default:
		return http.StatusInternalServerError, "request could not be recorded"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
