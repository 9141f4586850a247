package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"smshub/internal/config"
	"smshub/internal/database"
	apperrors "smshub/internal/errors"
	"smshub/internal/metrics"
	"smshub/internal/middleware"
	"smshub/internal/models"
	"smshub/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	signatureHeader = "X-Signature"
	maxBodyBytes    = 1 << 20
)

type Server struct {
	router   *mux.Router
	logger   *logrus.Logger
	cfg      *config.Config
	ingest   *service.IngestionService
	query    *service.QueryService
	registry *metrics.Registry
	db       *database.Database
	server   *http.Server
}

func NewServer(cfg *config.Config, db *database.Database, registry *metrics.Registry, logger *logrus.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		logger:   logger,
		cfg:      cfg,
		ingest:   service.NewIngestionService(db, registry, logger, cfg.WebhookSecret),
		query:    service.NewQueryService(db),
		registry: registry,
		db:       db,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger, s.registry))

	s.router.HandleFunc("/webhook", s.handleWebhook()).Methods(http.MethodPost)
	s.router.HandleFunc("/messages", s.handleListMessages()).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.handleStats()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)
	s.router.HandleFunc("/health/live", s.handleHealthLive()).Methods(http.MethodGet)
	s.router.HandleFunc("/health/ready", s.handleHealthReady()).Methods(http.MethodGet)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Infof("Starting server on port %s", s.cfg.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the configured router; tests mount it directly.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "failed to read request body"})
			return
		}

		// created and duplicate both acknowledge with 200; redelivery is
		// a no-op for the sender
		if _, err := s.ingest.Ingest(r.Context(), body, r.Header.Get(signatureHeader)); err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.QueryFilter{
			FromMSISDN: r.URL.Query().Get("from"),
			Since:      r.URL.Query().Get("since"),
			Contains:   r.URL.Query().Get("q"),
		}

		var err error
		if filter.Limit, err = parseIntParam(r, "limit", service.DefaultLimit); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "limit must be an integer"})
			return
		}
		if filter.Offset, err = parseIntParam(r, "offset", 0); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "offset must be an integer"})
			return
		}

		page, err := s.query.List(r.Context(), filter)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.query.Stats(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) handleHealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// Readiness requires a configured webhook secret and a reachable database.
// Until both hold, every webhook would be rejected anyway.
func (s *Server) handleHealthReady() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.WebhookSecret == "" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}

		if err := s.db.Ping(r.Context()); err != nil {
			s.logger.WithError(err).Warn("Readiness database ping failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	detail := apperrors.GetUserMessage(err)

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeAuthentication:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": detail})
	case apperrors.ErrCodeValidationFailed:
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": detail})
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
	}
}

func parseIntParam(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
