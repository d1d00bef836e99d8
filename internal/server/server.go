// Package server provides the HTTP API and scheduling surface around the
// sync engine.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/plexsync/plexsync/internal/config"
	"github.com/plexsync/plexsync/internal/plex"
	"github.com/plexsync/plexsync/internal/store"
	syncengine "github.com/plexsync/plexsync/internal/sync"
	"github.com/sirupsen/logrus"
)

const version = "0.1.0"

// Server represents the HTTP server for sync operations
type Server struct {
	httpServer *http.Server
	logger     *logrus.Logger
	config     *config.Config
	syncEngine SyncEngine
	scheduler  *Scheduler
	metrics    *Metrics
	db         *sql.DB
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string     `json:"status"`
	Version     string     `json:"version"`
	Timestamp   time.Time  `json:"timestamp"`
	LastSync    *time.Time `json:"last_sync,omitempty"`
	NextSync    *time.Time `json:"next_sync,omitempty"`
	SyncEnabled bool       `json:"sync_enabled"`
}

// SyncResponse represents the manual sync response
type SyncResponse struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Result    *SyncStats `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// SyncStats represents synchronization statistics
type SyncStats struct {
	AccountsSeen int           `json:"accounts_seen"`
	UsersCreated int           `json:"users_created"`
	UsersDeleted int           `json:"users_deleted"`
	Duration     time.Duration `json:"duration"`
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	// Open the local user store
	db, err := store.Open(context.Background(), cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}
	repo := store.NewSQLiteRepository(db)

	// Create the media server client
	plexClient := plex.NewClient(cfg.Plex.URL, cfg.Plex.Token)

	// Create sync engine
	syncEngine := syncengine.NewEngine(plexClient, repo, cfg, logger)

	// Create metrics collector
	metrics := NewMetrics()

	// Create scheduler if scheduling is enabled
	var scheduler *Scheduler
	if cfg.Server.ScheduleEnabled {
		scheduler = NewScheduler(cfg.Server.Schedule, syncEngine, logger, metrics)
	}

	router := mux.NewRouter()

	server := &Server{
		logger:     logger,
		config:     cfg,
		syncEngine: syncEngine,
		scheduler:  scheduler,
		metrics:    metrics,
		db:         db,
	}

	server.registerRoutes(router)

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// registerRoutes sets up HTTP endpoints
func (s *Server) registerRoutes(router *mux.Router) {
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/sync", s.handleSync).Methods("POST")
	router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	if s.scheduler != nil {
		router.HandleFunc("/scheduler/start", s.handleSchedulerStart).Methods("POST")
		router.HandleFunc("/scheduler/stop", s.handleSchedulerStop).Methods("POST")
		router.HandleFunc("/scheduler/status", s.handleSchedulerStatus).Methods("GET")
	}

	router.HandleFunc("/version", s.handleVersion).Methods("GET")
}

// Start starts the HTTP server and scheduler
func (s *Server) Start() error {
	s.logger.Infof("Starting sync server on port %d", s.config.Server.Port)

	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		s.logger.Info("Scheduler started successfully")
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("HTTP server error: %v", err)
		}
	}()

	s.logger.Info("Sync server started successfully")

	s.waitForShutdown()

	return nil
}

// waitForShutdown waits for termination signals and performs graceful shutdown
func (s *Server) waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	s.logger.Infof("Received signal %s, starting graceful shutdown...", sig)

	if s.scheduler != nil {
		s.scheduler.Stop()
		s.logger.Info("Scheduler stopped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		s.logger.Info("HTTP server stopped gracefully")
	}

	if err := s.db.Close(); err != nil {
		s.logger.Errorf("User store close error: %v", err)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:      "healthy",
		Version:     version,
		Timestamp:   time.Now(),
		SyncEnabled: s.scheduler != nil,
	}

	if s.scheduler != nil {
		response.LastSync = s.scheduler.GetLastSync()
		response.NextSync = s.scheduler.GetNextSync()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleSync handles manual sync requests
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("Manual sync requested via API")

	startTime := time.Now()
	result, err := s.syncEngine.SyncUsers(r.Context())
	duration := time.Since(startTime)

	response := SyncResponse{
		Timestamp: time.Now(),
	}

	if err != nil {
		s.logger.Errorf("Manual sync failed: %v", err)
		response.Status = "error"
		response.Message = "Sync operation failed"
		response.Error = err.Error()
		s.metrics.RecordFailedSync(err, duration)
		w.WriteHeader(http.StatusInternalServerError)
	} else {
		s.logger.Info("Manual sync completed successfully")
		response.Status = "success"
		response.Message = "Sync operation completed"
		response.Result = &SyncStats{
			AccountsSeen: result.AccountsSeen,
			UsersCreated: result.UsersCreated,
			UsersDeleted: result.UsersDeleted,
			Duration:     duration,
		}

		s.metrics.RecordSync(result, duration)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleMetrics handles metrics requests
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.metrics.GetStats())
}

// handleSchedulerStart handles scheduler start requests
func (s *Server) handleSchedulerStart(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		http.Error(w, "Scheduler not configured", http.StatusBadRequest)
		return
	}

	if err := s.scheduler.Start(); err != nil {
		http.Error(w, fmt.Sprintf("Failed to start scheduler: %v", err), http.StatusInternalServerError)
		return
	}

	s.logger.Info("Scheduler started via API")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// handleSchedulerStop handles scheduler stop requests
func (s *Server) handleSchedulerStop(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		http.Error(w, "Scheduler not configured", http.StatusBadRequest)
		return
	}

	s.scheduler.Stop()
	s.logger.Info("Scheduler stopped via API")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "stopped"})
}

// handleSchedulerStatus handles scheduler status requests
func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if s.scheduler == nil {
		http.Error(w, "Scheduler not configured", http.StatusBadRequest)
		return
	}

	status := map[string]interface{}{
		"running":   s.scheduler.IsRunning(),
		"schedule":  s.config.Server.Schedule,
		"last_sync": s.scheduler.GetLastSync(),
		"next_sync": s.scheduler.GetNextSync(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleVersion handles version requests
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	info := map[string]string{
		"version": version,
		"mode":    "server",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}
