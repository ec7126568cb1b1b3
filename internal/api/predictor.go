package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kartoza/credit-risk/internal/classifier"
	"github.com/kartoza/credit-risk/internal/encoder"
	"github.com/kartoza/credit-risk/internal/form"
	"github.com/kartoza/credit-risk/internal/metrics"
	"github.com/kartoza/credit-risk/internal/pipeline"
)

// Result is the outcome of one trigger action
type Result struct {
	InteractionID string
	Verdict       pipeline.Verdict
}

// Predictor runs the pipeline once per trigger action and records the
// outcome in logs and metrics. It is shared by the HTML form and the JSON API.
type Predictor struct {
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewPredictor creates a predictor over a loaded pipeline
func NewPredictor(p *pipeline.Pipeline, logger *zap.Logger, m *metrics.Metrics) *Predictor {
	return &Predictor{
		pipeline: p,
		logger:   logger,
		metrics:  m,
	}
}

// Predict runs one full prediction. On failure no verdict is returned.
func (p *Predictor) Predict(a pipeline.Applicant) (Result, error) {
	id := uuid.New().String()
	log := p.logger.With(zap.String("interaction_id", id))

	start := time.Now()
	verdict, err := p.pipeline.Run(a)
	if err != nil {
		p.metrics.ObserveFailure(FailureReason(err))
		log.Warn("prediction aborted", zap.Error(err))
		return Result{InteractionID: id}, err
	}

	elapsed := time.Since(start)
	p.metrics.ObserveVerdict(string(verdict.Outcome), elapsed)
	log.Info("prediction rendered",
		zap.Int("label", verdict.Label),
		zap.String("verdict", string(verdict.Outcome)),
		zap.Duration("elapsed", elapsed),
	)

	return Result{InteractionID: id, Verdict: verdict}, nil
}

// Reject records an attempt that never reached the pipeline
func (p *Predictor) Reject(err error) {
	p.metrics.ObserveFailure(FailureReason(err))
	p.logger.Debug("input rejected", zap.Error(err))
}

// FailureReason names the failure class of a prediction error
func FailureReason(err error) string {
	switch {
	case errors.Is(err, form.ErrInvalidInput):
		return metrics.ReasonInvalidInput
	case errors.Is(err, encoder.ErrUnknownCategory):
		return metrics.ReasonUnknownCategory
	case errors.Is(err, classifier.ErrSchemaMismatch):
		return metrics.ReasonSchemaMismatch
	default:
		return metrics.ReasonInternal
	}
}

// StatusFor maps a prediction error to an HTTP status code
func StatusFor(err error) int {
	switch FailureReason(err) {
	case metrics.ReasonInvalidInput:
		return http.StatusBadRequest
	case metrics.ReasonUnknownCategory, metrics.ReasonSchemaMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
