package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"postureserver/internal/config"
	"postureserver/internal/handlers"
	"postureserver/internal/logger"
	"postureserver/internal/repository"
	"postureserver/internal/services"
)

// dynamicHTMLHandler serves /path as /static/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/" {
		path = "/index"
	}

	filePath := filepath.Join("static", path+".html")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filePath)
}

// SetupRoutes registers the websocket endpoints, the posture and gallery
// APIs, static file serving, and the log viewers.
func SetupRoutes(manager *services.Manager, snapshotRepo repository.SnapshotRepository,
	cfg *config.Config, logger *logger.Logger) http.Handler {

	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Frame streams
	mux.HandleFunc("/api/camera", handlers.CameraWebsocketHandler(manager, logger))
	mux.HandleFunc("/api/view", handlers.ViewWebsocketHandler(manager, logger))

	// Posture reference API
	mux.HandleFunc("/api/posture/thresholds", handlers.PostureThresholdsHandler(manager.Analyzer(), logger))
	mux.HandleFunc("/api/health/conditions", handlers.HealthConditionsHandler(logger))

	// Snapshot gallery API
	mux.HandleFunc("/api/snapshots", handlers.GetSnapshotsHandler(snapshotRepo, logger))
	mux.HandleFunc("/api/snapshots/view", handlers.ViewSnapshotHandler(snapshotRepo, logger))
	mux.HandleFunc("/api/snapshots/delete", handlers.DeleteSnapshotHandler(snapshotRepo, logger))
	mux.HandleFunc("/api/snapshots/clear", handlers.ClearSnapshotsHandler(snapshotRepo, cfg, logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowInfoLogsHandler(cfg))
	mux.HandleFunc("/logs/warning", handlers.ShowWarningLogsHandler(cfg))
	mux.HandleFunc("/logs/error", handlers.ShowErrorLogsHandler(cfg))

	// Automatic HTML handler mapping, for example: /health_info -> /static/health_info.html
	mux.HandleFunc("/", dynamicHTMLHandler)

	return mux
}
