package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/ports"
	"github.com/mikey/scamguard/internal/utils"
	"go.uber.org/zap"
)

// Server is the HTTP frontend: it accepts captured text for analysis and
// exposes history, stats, keyword administration, and classifier settings
type Server struct {
	service       *core.AnalysisService
	settings      *config.SettingsStore
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	listenAddr    string
	maxTextSize   int
	httpServer    *http.Server
}

// NewServer creates a new HTTP frontend
func NewServer(
	service *core.AnalysisService,
	settings *config.SettingsStore,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	listenAddr string,
	maxTextSize int,
) *Server {
	return &Server{
		service:       service,
		settings:      settings,
		textProcessor: textProcessor,
		logger:        logger,
		listenAddr:    listenAddr,
		maxTextSize:   maxTextSize,
	}
}

// Routes returns the chi router with all endpoints mounted
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/history", s.handleHistory)
		r.Get("/stats", s.handleStats)

		r.Get("/keywords", s.handleListKeywords)
		r.Post("/keywords", s.handleAddKeyword)
		r.Delete("/keywords/{phrase}", s.handleRemoveKeyword)

		r.Get("/classifier", s.handleGetClassifier)
		r.Put("/classifier", s.handleConfigureClassifier)
		r.Post("/classifier/mock/enable", s.handleEnableMock)
		r.Post("/classifier/mock/disable", s.handleDisableMock)
	})

	return r
}

// ProcessText runs one analysis request through the pipeline
func (s *Server) ProcessText(ctx context.Context, req *ports.AnalysisRequest) (*core.StoredAnalysis, error) {
	if req.Text == "" {
		return nil, errors.New("text must not be empty")
	}
	source := req.Source
	if source != core.SourceSelection && source != core.SourceInput {
		source = core.SourceInput
	}
	text := s.textProcessor.NormalizeText(s.textProcessor.ProcessText(req.Text, s.maxTextSize))
	return s.service.Analyze(ctx, text, source)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP frontend listening", zap.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server terminated", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req ports.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	analysis, err := s.ProcessText(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := s.service.History().List(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if entries == nil {
		entries = []*core.StoredAnalysis{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.History().Stats(r.Context())
	if err != nil {
		s.logger.Error("Failed to read stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListKeywords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Scanner().ListAllKeywords())
}

// addKeywordRequest is the body of a keyword administration request
type addKeywordRequest struct {
	Phrase   string `json:"phrase"`
	Severity string `json:"severity"`
	Weight   int    `json:"weight"`
}

func (s *Server) handleAddKeyword(w http.ResponseWriter, r *http.Request) {
	var req addKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Phrase == "" {
		writeError(w, http.StatusBadRequest, "phrase must not be empty")
		return
	}
	if req.Weight <= 0 {
		req.Weight = 1
	}

	s.service.Scanner().AddCustomKeyword(req.Phrase, core.ParseSeverity(req.Severity), req.Weight)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (s *Server) handleRemoveKeyword(w http.ResponseWriter, r *http.Request) {
	phrase, err := url.PathUnescape(chi.URLParam(r, "phrase"))
	if err != nil || phrase == "" {
		writeError(w, http.StatusBadRequest, "invalid phrase")
		return
	}

	if !s.service.Scanner().RemoveKeyword(phrase) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("keyword %q not found", phrase))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// classifierSettingsResponse never echoes the credential back
type classifierSettingsResponse struct {
	Endpoint      string `json:"endpoint"`
	HasCredential bool   `json:"hasCredential"`
	MockMode      bool   `json:"mockMode"`
}

func (s *Server) handleGetClassifier(w http.ResponseWriter, r *http.Request) {
	settings := s.settings.Get()
	writeJSON(w, http.StatusOK, classifierSettingsResponse{
		Endpoint:      settings.Endpoint,
		HasCredential: settings.Credential != "",
		MockMode:      settings.MockMode,
	})
}

// configureClassifierRequest carries new delegated-classification settings
type configureClassifierRequest struct {
	Endpoint   string `json:"endpoint"`
	Credential string `json:"credential"`
}

func (s *Server) handleConfigureClassifier(w http.ResponseWriter, r *http.Request) {
	var req configureClassifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.settings.Configure(req.Endpoint, req.Credential); err != nil {
		s.logger.Error("Failed to persist classifier settings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist settings")
		return
	}
	s.handleGetClassifier(w, r)
}

func (s *Server) handleEnableMock(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.EnableMock(); err != nil {
		s.logger.Error("Failed to enable mock mode", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist settings")
		return
	}
	s.handleGetClassifier(w, r)
}

func (s *Server) handleDisableMock(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.DisableMock(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.handleGetClassifier(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
