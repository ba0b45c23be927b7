package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"incident-analysis/internal/models"
	"incident-analysis/internal/reliability"
)

// Options configures the HTTP server
type Options struct {
	Port           int
	UploadsDir     string
	MaxUploadBytes int64
}

// Server handles web requests
type Server struct {
	store   models.Store
	engine  *reliability.Engine
	opts    Options
	logger  *logrus.Logger
	now     func() time.Time
	httpSrv *http.Server
}

// New creates a new web server
func New(store models.Store, engine *reliability.Engine, opts Options, logger *logrus.Logger) *Server {
	return &Server{
		store:  store,
		engine: engine,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Router builds the request router with its middleware
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/incidents", s.handleListIncidents).Methods(http.MethodGet)
	api.HandleFunc("/incidents", s.handleCreateIncident).Methods(http.MethodPost)
	api.HandleFunc("/incidents/{id}", s.handleGetIncident).Methods(http.MethodGet)
	api.HandleFunc("/incidents/{id}", s.handleUpdateIncident).Methods(http.MethodPut)
	api.HandleFunc("/incidents/{id}", s.handleDeleteIncident).Methods(http.MethodDelete)
	api.HandleFunc("/incidents/{id}/status", s.handleUpdateStatus).Methods(http.MethodPatch)
	api.HandleFunc("/incidents/{id}/resolve", s.handleResolve).Methods(http.MethodPost)

	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/analysis", s.handleAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/analysis/export", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/snapshots", s.handleSnapshots).Methods(http.MethodGet)

	api.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/sheet-data", s.handleSheetData).Methods(http.MethodPost)
	api.HandleFunc("/import", s.handleImport).Methods(http.MethodPost)

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(s.logger))(h)
	return handlers.LoggingHandler(s.logger.WriterLevel(logrus.DebugLevel), h)
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.WithField("port", s.opts.Port).Info("Web server starting")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
