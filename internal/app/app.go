package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"postureserver/internal/config"
	"postureserver/internal/logger"
	"postureserver/internal/posture"
	"postureserver/internal/repository/sqlite"
	"postureserver/internal/routes"
	"postureserver/internal/services"
	"postureserver/internal/services/ai"
	"postureserver/internal/services/storage"
	"postureserver/internal/services/websocket"
)

type App struct {
	config           *config.Config
	logger           *logger.Logger
	db               *sqlite.DB
	snapshotRepo     *sqlite.SnapshotRepository
	analyzer         *posture.Analyzer
	detectorServices []*ai.DetectorService
	bufferService    *storage.BufferService
	hubService       *websocket.HubService
	manager          *services.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	snapshotRepo := sqlite.NewSnapshotRepository(db)

	analyzer := posture.NewAnalyzer(posture.Thresholds{
		ShoulderOffsetPx: cfg.ShoulderOffsetLimit,
		NeckAngleDeg:     cfg.NeckAngleLimit,
		TorsoAngleDeg:    cfg.TorsoAngleLimit,
		ForwardHeadRatio: cfg.ForwardHeadRatioLimit,
	}, log)

	detectors := make([]*ai.DetectorService, 0, cfg.ProcessingWorkers)
	for i := 0; i < cfg.ProcessingWorkers; i++ {
		detectors = append(detectors, ai.NewDetectorService(cfg.ModelPath, cfg.MinDetectionConfidence))
	}

	buffer := storage.NewBufferService(cfg.SnapshotDirectory, cfg.SnapshotBufferLimit, snapshotRepo, log)
	hub := websocket.NewHubService(log)
	manager := services.NewManager(analyzer, detectors, buffer, hub, cfg, log)

	return &App{
		config:           cfg,
		logger:           log,
		db:               db,
		snapshotRepo:     snapshotRepo,
		analyzer:         analyzer,
		detectorServices: detectors,
		bufferService:    buffer,
		hubService:       hub,
		manager:          manager,
	}, nil
}

// Run serves until the listener fails or the process receives an interrupt.
// The detector handles, pending snapshots, and database are released on
// every exit path.
func (a *App) Run() error {
	go a.bufferService.Run(a.config.SnapshotFlushInterval)
	go a.hubService.Run()

	router := routes.SetupRoutes(a.manager, a.snapshotRepo, a.config, a.logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.shutdown()

	fmt.Printf("🧍 Posture Analysis Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🤖 Pose model: %s\n", a.config.ModelPath)
	fmt.Printf("📁 Snapshots: %s\n", a.config.SnapshotDirectory)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// shutdown releases every held resource exactly once.
func (a *App) shutdown() {
	a.manager.Stop()
	a.bufferService.Flush()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database: %v", err)
	}
	a.logger.Info("Shutdown complete")
	a.logger.Close()
}
