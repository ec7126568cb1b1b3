package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/credit-risk/internal/config"
	"github.com/kartoza/credit-risk/internal/form"
	"github.com/kartoza/credit-risk/internal/models"
	"github.com/kartoza/credit-risk/internal/pipeline"
)

// Handler provides HTTP API endpoints
type Handler struct {
	pipeline  *pipeline.Pipeline
	predictor *Predictor
	fields    []form.Field
	cfg       config.Config
	logger    *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	p *pipeline.Pipeline,
	predictor *Predictor,
	cfg config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		pipeline:  p,
		predictor: predictor,
		fields:    form.Fields(p.Vocabulary()),
		cfg:       cfg,
		logger:    logger,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Field collector and trigger
	r.HandleFunc("/fields", h.handleFields).Methods("GET")
	r.HandleFunc("/predict", h.handlePredict).Methods("POST")
}

// respondJSON sends a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("error encoding response", zap.Error(err))
	}
}

// respondError sends a JSON error response
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server and model information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"version":    h.cfg.Version,
		"artifacts":  h.cfg.ArtifactsPath,
		"model_kind": h.pipeline.ModelKind(),
		"schema":     h.pipeline.Schema(),
	}
	h.respondJSON(w, http.StatusOK, info)
}

// handleFields describes the inputs the form collects
func (h *Handler) handleFields(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.fields)
}

// handlePredict runs one prediction for a JSON applicant
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	applicant := req.Applicant()
	if err := form.CheckBounds(h.fields, applicant); err != nil {
		h.predictor.Reject(err)
		h.respondError(w, StatusFor(err), err.Error())
		return
	}

	result, err := h.predictor.Predict(applicant)
	if err != nil {
		h.respondError(w, StatusFor(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, models.PredictResponse{
		InteractionID: result.InteractionID,
		Label:         result.Verdict.Label,
		Verdict:       string(result.Verdict.Outcome),
		Style:         string(result.Verdict.Style),
		Message:       result.Verdict.Message(),
	})
}
