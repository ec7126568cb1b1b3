package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/credit-risk/internal/api"
	"github.com/kartoza/credit-risk/internal/config"
	"github.com/kartoza/credit-risk/internal/form"
	"github.com/kartoza/credit-risk/internal/metrics"
	"github.com/kartoza/credit-risk/internal/pipeline"
)

//go:embed static/*
var staticFS embed.FS

//go:embed templates/*
var templateFS embed.FS

const (
	pageTitle    = "Credit Risk Prediction APP"
	pageSubtitle = "Enter the applicant information to predict if the credit risk is good or bad"
)

// Server holds all the components for the web application
type Server struct {
	cfg        config.Config
	httpServer *http.Server
	router     *mux.Router
	pipeline   *pipeline.Pipeline
	predictor  *api.Predictor
	metrics    *metrics.Metrics
	fields     []form.Field
	page       *template.Template
	logger     *zap.Logger
}

// New creates a new Server around an already loaded pipeline
func New(cfg config.Config, p *pipeline.Pipeline, logger *zap.Logger, m *metrics.Metrics) (*Server, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		router:    mux.NewRouter(),
		pipeline:  p,
		predictor: api.NewPredictor(p, logger, m),
		metrics:   m,
		fields:    form.Fields(p.Vocabulary()),
		page:      page,
		logger:    logger,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() error {
	// API routes
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiHandler := api.NewHandler(s.pipeline, s.predictor, s.cfg, s.logger)
	apiHandler.RegisterRoutes(apiRouter)

	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	// Form and trigger
	s.router.HandleFunc("/", s.handleForm).Methods("GET")
	s.router.HandleFunc("/predict", s.handlePredict).Methods("POST")

	// Static assets (embedded)
	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("could not load embedded static files: %w", err)
	}
	s.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	return nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// pageData is what the form template renders
type pageData struct {
	Title    string
	Subtitle string
	Inputs   []input
	Verdict  *pipeline.Verdict
}

type input struct {
	ID    string
	Field form.Field
	Value string
}

// inputs pairs every field with the value to show: the submitted one if
// any, otherwise the field default or first choice
func (s *Server) inputs(values url.Values) []input {
	out := make([]input, 0, len(s.fields))
	for i, f := range s.fields {
		value := values.Get(f.Name)
		if value == "" {
			switch {
			case f.Default != nil:
				value = strconv.Itoa(*f.Default)
			case len(f.Choices) > 0:
				value = f.Choices[0]
			}
		}
		out = append(out, input{
			ID:    fmt.Sprintf("field-%d", i),
			Field: f,
			Value: value,
		})
	}
	return out
}

func (s *Server) renderPage(w http.ResponseWriter, values url.Values, verdict *pipeline.Verdict) {
	data := pageData{
		Title:    pageTitle,
		Subtitle: pageSubtitle,
		Inputs:   s.inputs(values),
		Verdict:  verdict,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("error rendering page", zap.Error(err))
	}
}

// handleForm shows the empty form
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, nil, nil)
}

// handlePredict runs the pipeline once for the submitted form and shows
// exactly one verdict. Failures are reported as plain text without a verdict.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	applicant, err := form.Parse(s.fields, r.PostForm)
	if err != nil {
		s.predictor.Reject(err)
		http.Error(w, err.Error(), api.StatusFor(err))
		return
	}

	result, err := s.predictor.Predict(applicant)
	if err != nil {
		http.Error(w, err.Error(), api.StatusFor(err))
		return
	}

	s.renderPage(w, r.PostForm, &result.Verdict)
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
