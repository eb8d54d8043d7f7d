// Package pipeline ties inference to persistence: one Score call runs the
// model over a feature vector and records the input and prediction as a
// single atomic unit.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sanjubaaba/loanserve/internal/model"
	"github.com/sanjubaaba/loanserve/internal/store"
	"github.com/sanjubaaba/loanserve/internal/telemetry"
)

type Scorer struct {
	logger   *slog.Logger
	store    *store.Manager
	provider model.Provider
	tel      *telemetry.Metrics
}

// Outcome is the result of one serving request.
type Outcome struct {
	RequestID     string
	InputID       int64
	Label         int
	Confidence    float64
	Probabilities [2]float64
}

func NewScorer(logger *slog.Logger, mgr *store.Manager, provider model.Provider, tel *telemetry.Metrics) *Scorer {
	return &Scorer{
		logger:   logger,
		store:    mgr,
		provider: provider,
		tel:      tel,
	}
}

// Score runs inference and persists the request. The input and prediction
// rows are written together; on failure nothing observable is left behind
// and the error carries the store taxonomy for the caller to map.
func (s *Scorer) Score(ctx context.Context, f store.Features) (Outcome, error) {
	start := time.Now()
	requestID := uuid.NewString()

	probs := s.provider.PredictProba(f.Vector())
	label := s.provider.Predict(f.Vector())

	inputID, err := s.store.RecordScore(ctx, f, label, probs)
	if err != nil {
		if s.tel != nil {
			s.tel.PersistFailure("score")
			s.tel.ObserveScore("error", time.Since(start))
		}
		s.logger.Error("score persist failed", "request_id", requestID, "error", err)
		return Outcome{}, err
	}

	out := Outcome{
		RequestID:     requestID,
		InputID:       inputID,
		Label:         label,
		Confidence:    max(probs[0], probs[1]),
		Probabilities: probs,
	}
	if s.tel != nil {
		s.tel.ObserveScore("ok", time.Since(start))
	}
	s.logger.Info("request scored",
		"request_id", requestID,
		"input_id", inputID,
		"label", label,
		"confidence", out.Confidence,
	)
	return out, nil
}
