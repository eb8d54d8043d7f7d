package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sanjubaaba/loanserve/internal/config"
	"github.com/sanjubaaba/loanserve/internal/eval"
	"github.com/sanjubaaba/loanserve/internal/model"
	"github.com/sanjubaaba/loanserve/internal/pipeline"
	"github.com/sanjubaaba/loanserve/internal/server"
	"github.com/sanjubaaba/loanserve/internal/store"
	"github.com/sanjubaaba/loanserve/internal/telemetry"
)

// Runtime is the composition root. It constructs the store manager and the
// model provider exactly once, holds them for the life of the process, and
// tears both down on shutdown. Either resource failing to come up degrades
// its operations to visible errors instead of killing the process.
type Runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	version   string
	startedAt time.Time

	mgr        *store.Manager
	provider   model.Provider
	scorer     *pipeline.Scorer
	tel        *telemetry.Metrics
	httpServer *http.Server

	requestsScored atomic.Int64
	requestsFailed atomic.Int64
}

func New(cfg *config.Config, logger *slog.Logger, version string) *Runtime {
	return &Runtime{
		cfg:       cfg,
		logger:    logger,
		version:   version,
		startedAt: time.Now(),
	}
}

func (r *Runtime) Run(ctx context.Context) error {
	r.tel = telemetry.New()
	r.openStore(ctx)
	r.buildModel()
	r.recordStartupEvaluation(ctx)

	var scoreService server.ScoreService
	if r.mgr != nil && r.provider != nil {
		r.scorer = pipeline.NewScorer(r.logger, r.mgr, r.provider, r.tel)
		scoreService = r
	}
	var historyStore server.HistoryStore
	if r.mgr != nil {
		historyStore = r.mgr
	}

	handlers := server.NewHandlers(r.logger, scoreService, historyStore,
		r.cfg.HistoryDefaultLimit, r.cfg.HistoryMaxLimit)
	healthHandler := server.NewHealthHandler(r.mgr, r.startedAt, r.version, r)
	r.httpServer = server.New(":"+r.cfg.Port, healthHandler.ServeHTTP, handlers, r.tel.Handler())

	serverErr := make(chan error, 1)
	go func() {
		r.logger.Info("Listening", "addr", ":"+r.cfg.Port)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		r.logger.Info("Shutdown signal received")
		return r.shutdown(context.Background())
	}
}

func (r *Runtime) openStore(ctx context.Context) {
	mgr, err := store.Open(store.Options{
		Driver:   r.cfg.DBDriver,
		Path:     r.cfg.DBPath,
		Host:     r.cfg.DBHost,
		Database: r.cfg.DBName,
		User:     r.cfg.DBUser,
		Password: r.cfg.DBPassword,
	})
	if err != nil {
		r.logger.Error("store unavailable, data operations disabled", "error", err)
		return
	}
	r.mgr = mgr
	r.logger.Info("Store opened", "dialect", mgr.Dialect().String())

	// A failed schema step is reported, not fatal: later operations fail
	// with their own errors until the schema problem is fixed.
	if err := mgr.EnsureSchema(ctx); err != nil {
		r.logger.Error("schema init failed, data operations degraded", "error", err)
	}
}

func (r *Runtime) buildModel() {
	provider, err := model.TrainSynthetic(r.cfg.TrainSamples, r.cfg.TrainSeed)
	if err != nil {
		r.logger.Error("model provider unavailable, scoring disabled", "error", err)
		return
	}
	r.provider = provider
	r.logger.Info("Model provider ready", "train_samples", r.cfg.TrainSamples, "seed", r.cfg.TrainSeed)
}

// recordStartupEvaluation measures the provider against a fresh holdout and
// appends one ModelPerformance row per metric. Each run is a new set of
// measurement points; nothing is overwritten.
func (r *Runtime) recordStartupEvaluation(ctx context.Context) {
	if r.mgr == nil || r.provider == nil {
		return
	}
	holdout := model.Synthetic(r.cfg.HoldoutSamples, r.cfg.TrainSeed+1)
	report := eval.Evaluate(r.provider, holdout)
	for _, m := range report.Named() {
		if err := r.mgr.RecordMetric(ctx, m.Name, m.Value); err != nil {
			r.logger.Warn("metric write failed", "metric", m.Name, "error", err)
			r.tel.PersistFailure("metric")
		}
	}
	r.logger.Info("Startup evaluation recorded",
		"holdout_samples", r.cfg.HoldoutSamples,
		"accuracy", report.Accuracy,
		"precision", report.Precision,
		"recall", report.Recall,
		"f1", report.F1,
	)
}

// Score implements server.ScoreService, counting outcomes for health.
func (r *Runtime) Score(ctx context.Context, f store.Features) (pipeline.Outcome, error) {
	out, err := r.scorer.Score(ctx, f)
	if err != nil {
		r.requestsFailed.Add(1)
		return out, err
	}
	r.requestsScored.Add(1)
	return out, nil
}

func (r *Runtime) Snapshot() server.RuntimeSnapshot {
	return server.RuntimeSnapshot{
		RequestsScored: r.requestsScored.Load(),
		RequestsFailed: r.requestsFailed.Load(),
		ModelReady:     r.provider != nil,
	}
}

func (r *Runtime) shutdown(ctx context.Context) error {
	var joined error

	if r.httpServer != nil {
		httpCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := r.httpServer.Shutdown(httpCtx); err != nil {
			joined = errors.Join(joined, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if r.mgr != nil {
		if err := r.mgr.Close(); err != nil {
			joined = errors.Join(joined, fmt.Errorf("store close: %w", err))
		}
	}

	r.logger.Info("Shutdown complete",
		"requests_scored", r.requestsScored.Load(),
		"requests_failed", r.requestsFailed.Load(),
		"uptime", time.Since(r.startedAt).String(),
	)
	return joined
}
