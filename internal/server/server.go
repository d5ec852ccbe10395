package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/portfolio-forecast/internal/config"
	"github.com/iwvelando/portfolio-forecast/internal/optimizer"
	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/internal/scenario"
	"github.com/iwvelando/portfolio-forecast/internal/simulation"
	"github.com/iwvelando/portfolio-forecast/internal/store"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"github.com/iwvelando/portfolio-forecast/pkg/output"
	"github.com/iwvelando/portfolio-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options struct {
	Logger         *zap.Logger
	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string
	// Store holds saved items. Without one the item endpoints answer 503 and
	// the dashboard shows the configured portfolio.
	Store *store.Store
	// Configuration supplies the base portfolio, scenarios and simulation
	// settings. Nil means defaults, which is the demo portfolio.
	Configuration *config.Configuration
	// Simulator overrides the simulator built from Configuration.
	Simulator *simulation.Simulator
}

// Controls are the dashboard's scenario and sensitivity selections.
type Controls struct {
	Scenario    string  `json:"scenario"`
	Sensitivity float64 `json:"sensitivity"`
}

// Server serves the portfolio API.
type Server struct {
	router        *chi.Mux
	logger        *zap.Logger
	maxUploadSize int64
	version       string

	store       *store.Store
	cfg         *config.Configuration
	registry    *scenario.Registry
	sim         *simulation.Simulator
	coordinator *simulation.Coordinator

	mu       sync.Mutex
	controls Controls
}

// New constructs the HTTP server. Background probability runs use ctx.
func New(ctx context.Context, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	cfg := opts.Configuration
	if cfg == nil {
		cfg = &config.Configuration{}
		cfg.ApplyDefaults()
	}
	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario registry: %w", err)
	}
	if _, err := registry.MustLookup(cfg.Selection.Scenario); err != nil {
		return nil, err
	}

	sim := opts.Simulator
	if sim == nil {
		sim = simulation.New(logger, cfg.SimulationOptions())
	}

	s := &Server{
		router:        chi.NewRouter(),
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       version,
		store:         opts.Store,
		cfg:           cfg,
		registry:      registry,
		sim:           sim,
		coordinator:   simulation.NewCoordinator(ctx, logger, sim),
		controls: Controls{
			Scenario:    cfg.Selection.Scenario,
			Sensitivity: cfg.Selection.Sensitivity,
		},
	}

	s.setupMiddleware(opts.AllowedOrigins)
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware(allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/scenarios", s.handleScenarios)

		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/evaluate/upload", s.handleEvaluateUpload)
		r.Get("/sweep", s.handleSweep)

		r.Get("/dashboard", s.handleDashboard)
		r.Put("/dashboard/controls", s.handleDashboardControls)

		r.Get("/items", s.handleListItems)
		r.Post("/items", s.handleSaveItem)
		r.Delete("/items/{id}", s.handleDeleteItem)
		r.Put("/target", s.handleSetTarget)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Wait blocks until background probability runs have finished.
func (s *Server) Wait() {
	s.coordinator.Wait()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("HTTP request",
			zap.String("op", "server.request"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": s.version,
	})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.All())
}

type evaluateRequest struct {
	Portfolio   *portfolio.Portfolio   `json:"portfolio"`
	Scenario    string                 `json:"scenario"`
	Sensitivity *float64               `json:"sensitivity"`
	Preview     *portfolio.Item        `json:"preview"`
	Options     map[string]interface{} `json:"options"`
}

type evaluateOptions struct {
	BreakEven bool
	Sweep     bool
}

type evaluateResponse struct {
	output.Report
	CSV      string `json:"csv"`
	Duration string `json:"duration"`
}

// reportInput is everything buildReport needs for one evaluation.
type reportInput struct {
	portfolio   portfolio.Portfolio
	scenario    scenario.Definition
	registry    *scenario.Registry
	sensitivity float64
	sim         *simulation.Simulator
	optimizer   *config.OptimizerConfig
	sweep       bool
	warnings    []string
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"
	start := time.Now()

	if s.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	opts := evaluateOptions{}
	if v, ok := req.Options["breakEven"]; ok {
		opts.BreakEven = coerceBool(v)
	}
	if v, ok := req.Options["sweep"]; ok {
		opts.Sweep = coerceBool(v)
	}

	var p portfolio.Portfolio
	if req.Portfolio != nil {
		p = *req.Portfolio
	} else {
		current, err := s.currentPortfolio(r.Context())
		if err != nil {
			s.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to load portfolio: %v", err), op)
			return
		}
		p = current
	}

	if req.Preview != nil {
		preview := *req.Preview
		preview.ID = constants.PreviewItemID
		p = p.WithItem(preview)
	}

	key := strings.TrimSpace(req.Scenario)
	if key == "" {
		key = s.cfg.Selection.Scenario
	}
	def, err := s.registry.MustLookup(key)
	if err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	sensitivity := s.cfg.Selection.Sensitivity
	if req.Sensitivity != nil {
		sensitivity = *req.Sensitivity
	}

	cfg := config.Configuration{
		Portfolio: config.PortfolioConfig{Portfolio: p},
		Selection: config.SelectionConfig{Scenario: def.Key, Sensitivity: sensitivity},
	}
	warnings := cfg.Sanitize()
	warnings = append(warnings, cfg.ValidateConfiguration()...)

	in := reportInput{
		portfolio:   cfg.Portfolio.Portfolio,
		scenario:    def,
		registry:    s.registry,
		sensitivity: sensitivity,
		sim:         s.sim,
		sweep:       opts.Sweep,
		warnings:    warnings,
	}
	if opts.BreakEven {
		optCfg := s.cfg.Optimizer
		in.optimizer = &optCfg
	}

	s.respondWithReport(r.Context(), w, in, start, op)
}

func (s *Server) handleEvaluateUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluateUpload"
	start := time.Now()

	if s.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	}
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", s.maxUploadSize), op)
			return
		}
		s.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings = append(warnings, cfg.ValidateConfiguration()...)

	registry, err := cfg.Registry()
	if err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	def, err := registry.MustLookup(cfg.Selection.Scenario)
	if err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	in := reportInput{
		portfolio:   cfg.Portfolio.Portfolio,
		scenario:    def,
		registry:    registry,
		sensitivity: cfg.Selection.Sensitivity,
		sim:         simulation.New(s.logger, cfg.SimulationOptions()),
		warnings:    warnings,
	}
	if cfg.Optimizer.Enabled {
		in.optimizer = &cfg.Optimizer
	}

	s.respondWithReport(r.Context(), w, in, start, op)
}

func (s *Server) respondWithReport(ctx context.Context, w http.ResponseWriter, in reportInput, start time.Time, op string) {
	report, err := s.buildReport(ctx, in)
	if err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to evaluate portfolio: %v", err), op)
		return
	}

	var csvBuf bytes.Buffer
	output.CsvFormat(&csvBuf, report)

	elapsed := time.Since(start)
	response := evaluateResponse{
		Report:   report,
		CSV:      csvBuf.String(),
		Duration: elapsed.String(),
	}

	s.logger.Info("portfolio evaluated",
		zap.String("op", op),
		zap.String("scenario", in.scenario.Key),
		zap.Float64("sensitivity", in.sensitivity),
		zap.Int("items", len(in.portfolio.Items)),
		zap.Float64("probability", report.Probability.Probability),
		zap.Duration("duration", elapsed),
	)

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) buildReport(ctx context.Context, in reportInput) (output.Report, error) {
	report := output.Report{
		Evaluation:   portfolio.Evaluate(in.portfolio, in.scenario, in.sensitivity),
		Coverage:     &in.portfolio.Coverage,
		Stakeholders: in.portfolio.StakeholderStrategies(),
		Warnings:     in.warnings,
	}

	simIn := simulation.InputFor(in.portfolio, in.scenario, in.sensitivity)
	result, err := in.sim.Run(ctx, simIn)
	if err != nil {
		return output.Report{}, err
	}
	report.Probability = &result

	if in.sweep {
		points, err := in.sim.Sweep(ctx, simIn)
		if err != nil {
			return output.Report{}, err
		}
		report.Sweep = points
	}

	if in.optimizer != nil {
		runner, err := optimizer.NewRunner(s.logger, in.registry, in.sim, *in.optimizer)
		if err != nil {
			return output.Report{}, err
		}
		res, err := runner.Run(ctx, in.portfolio, in.sensitivity)
		if err != nil {
			return output.Report{}, err
		}
		report.BreakEven = res.Summaries
	}

	return report, nil
}

type sweepResponse struct {
	Scenario string                  `json:"scenario"`
	Target   float64                 `json:"target"`
	Points   []simulation.SweepPoint `json:"points"`
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSweep"

	p, err := s.currentPortfolio(r.Context())
	if err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to load portfolio: %v", err), op)
		return
	}

	query := r.URL.Query()
	key := strings.TrimSpace(query.Get("scenario"))
	if key == "" {
		key = s.currentControls().Scenario
	}
	def, err := s.registry.MustLookup(key)
	if err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if raw := strings.TrimSpace(query.Get("target")); raw != "" {
		target, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid target %q", raw), op)
			return
		}
		p.Target = target
	}

	points, err := s.sim.Sweep(r.Context(), simulation.InputFor(p, def, 0))
	if err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("sweep failed: %v", err), op)
		return
	}

	s.writeJSON(w, http.StatusOK, sweepResponse{Scenario: def.Key, Target: p.Target, Points: points})
}

type dashboardResponse struct {
	Controls     Controls                    `json:"controls"`
	Evaluation   portfolio.Evaluation        `json:"evaluation"`
	Probability  *simulation.Snapshot        `json:"probability,omitempty"`
	Pending      bool                        `json:"pending"`
	Stale        bool                        `json:"stale"`
	Coverage     portfolio.Coverage          `json:"coverage"`
	Stakeholders []portfolio.StakeholderView `json:"stakeholders"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDashboard"

	if _, pending, ok := s.coordinator.Latest(); !ok && !pending {
		if err := s.refresh(r.Context()); err != nil {
			s.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
	}

	resp, err := s.dashboard(r.Context())
	if err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboardControls(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDashboardControls"

	var req Controls
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode controls: %v", err), op)
		return
	}
	req.Scenario = strings.TrimSpace(req.Scenario)
	if req.Scenario == "" {
		req.Scenario = s.currentControls().Scenario
	}
	if _, err := s.registry.MustLookup(req.Scenario); err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if warning := validation.ValidateSensitivity(req.Sensitivity); warning != "" {
		s.respondErrorWithOp(w, http.StatusBadRequest, warning, op)
		return
	}

	s.mu.Lock()
	s.controls = req
	s.mu.Unlock()

	if err := s.refresh(r.Context()); err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	resp, err := s.dashboard(r.Context())
	if err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) currentControls() Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls
}

// refresh asks the coordinator for a probability matching the current
// controls and portfolio. Large portfolios are computed in the background.
func (s *Server) refresh(ctx context.Context) error {
	p, err := s.currentPortfolio(ctx)
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	def, err := s.registry.MustLookup(s.controls.Scenario)
	if err != nil {
		return err
	}
	in := simulation.InputFor(p, def, s.controls.Sensitivity)

	if len(p.Items) > s.cfg.Simulation.AsyncItemThreshold {
		s.coordinator.Submit(in)
		return nil
	}
	if _, err := s.coordinator.Compute(in); err != nil {
		return fmt.Errorf("probability run failed: %w", err)
	}
	return nil
}

func (s *Server) dashboard(ctx context.Context) (dashboardResponse, error) {
	p, err := s.currentPortfolio(ctx)
	if err != nil {
		return dashboardResponse{}, fmt.Errorf("failed to load portfolio: %w", err)
	}
	controls := s.currentControls()
	def, err := s.registry.MustLookup(controls.Scenario)
	if err != nil {
		return dashboardResponse{}, err
	}

	resp := dashboardResponse{
		Controls:     controls,
		Evaluation:   portfolio.Evaluate(p, def, controls.Sensitivity),
		Coverage:     p.Coverage,
		Stakeholders: p.StakeholderStrategies(),
	}

	snap, pending, ok := s.coordinator.Latest()
	resp.Pending = pending
	if ok {
		resp.Probability = &snap
		resp.Stale = snap.Sensitivity != controls.Sensitivity || snap.Multiplier != def.Multiplier
	}
	return resp, nil
}

// currentPortfolio is the configured portfolio with any stored items and
// target laid over it.
func (s *Server) currentPortfolio(ctx context.Context) (portfolio.Portfolio, error) {
	base := s.cfg.Portfolio.Portfolio
	if s.store == nil {
		return base, nil
	}
	return s.store.Portfolio(ctx, base)
}

func (s *Server) requireStore(w http.ResponseWriter, op string) bool {
	if s.store == nil {
		s.respondErrorWithOp(w, http.StatusServiceUnavailable, "item store is not configured", op)
		return false
	}
	return true
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListItems"
	if !s.requireStore(w, op) {
		return
	}

	items, err := s.store.List(r.Context())
	if err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSaveItem(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveItem"
	if !s.requireStore(w, op) {
		return
	}

	var item portfolio.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode item: %v", err), op)
		return
	}
	if warning := validation.ValidateGross(item.Name, item.Gross); warning != "" {
		s.respondErrorWithOp(w, http.StatusBadRequest, warning, op)
		return
	}

	saved, err := s.store.Save(r.Context(), item)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrReservedID) {
			status = http.StatusBadRequest
		}
		s.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	s.logger.Info("item saved",
		zap.String("op", op),
		zap.String("id", saved.ID),
	)
	if err := s.refresh(r.Context()); err != nil {
		s.logger.Warn("dashboard refresh failed", zap.String("op", op), zap.Error(err))
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteItem"
	if !s.requireStore(w, op) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	if err := s.refresh(r.Context()); err != nil {
		s.logger.Warn("dashboard refresh failed", zap.String("op", op), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetTarget"
	if !s.requireStore(w, op) {
		return
	}

	var req struct {
		Target *float64 `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode target: %v", err), op)
		return
	}
	if req.Target == nil {
		s.respondErrorWithOp(w, http.StatusBadRequest, "target is required", op)
		return
	}

	if err := s.store.SetTarget(r.Context(), *req.Target); err != nil {
		s.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	if err := s.refresh(r.Context()); err != nil {
		s.logger.Warn("dashboard refresh failed", zap.String("op", op), zap.Error(err))
	}
	s.writeJSON(w, http.StatusOK, map[string]float64{"target": *req.Target})
}

func (s *Server) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	s.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
