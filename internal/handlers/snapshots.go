package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"postureserver/internal/config"
	"postureserver/internal/dto"
	"postureserver/internal/logger"
	"postureserver/internal/repository"
)

// snapshotListResponse is the paginated gallery listing.
type snapshotListResponse struct {
	Snapshots []dto.SnapshotInfo `json:"snapshots"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PerPage   int                `json:"perPage"`
}

// GetSnapshotsHandler lists stored bad-posture snapshots with optional
// camera/issue/date filters and pagination.
func GetSnapshotsHandler(repo repository.SnapshotRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := atoiDefault(r.URL.Query().Get("page"), 1)
		perPage := atoiDefault(r.URL.Query().Get("perPage"), 20)

		filter := &dto.SnapshotFilters{
			Camera: r.URL.Query().Get("camera"),
			Issue:  r.URL.Query().Get("issue"),
			Limit:  perPage,
			Offset: (page - 1) * perPage,
		}
		if after := r.URL.Query().Get("dateAfter"); after != "" {
			if parsed, err := time.Parse("2006-01-02", after); err == nil {
				filter.DateAfter = parsed
			}
		}
		if before := r.URL.Query().Get("dateBefore"); before != "" {
			if parsed, err := time.Parse("2006-01-02", before); err == nil {
				filter.DateBefore = parsed
			}
		}

		snapshots, err := repo.GetAll(filter)
		if err != nil {
			logger.Error("Failed to list snapshots: %v", err)
			http.Error(w, "Failed to list snapshots", http.StatusInternalServerError)
			return
		}

		total, err := repo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Failed to count snapshots: %v", err)
			http.Error(w, "Failed to count snapshots", http.StatusInternalServerError)
			return
		}

		infos := make([]dto.SnapshotInfo, 0, len(snapshots))
		for _, snap := range snapshots {
			infos = append(infos, dto.SnapshotInfo{
				Name:      snap.Filename,
				Date:      snap.Timestamp,
				TimeOfDay: snap.Timestamp,
				Camera:    snap.Camera,
				Issue:     snap.Issue,
			})
		}

		writeJSON(w, snapshotListResponse{
			Snapshots: infos,
			Total:     total,
			Page:      page,
			PerPage:   perPage,
		}, logger)
	}
}

// ViewSnapshotHandler serves a stored snapshot image by filename.
func ViewSnapshotHandler(repo repository.SnapshotRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("name")
		if filename == "" {
			http.Error(w, "Missing name parameter", http.StatusBadRequest)
			return
		}

		snap, err := repo.GetByFilename(filename)
		if err != nil {
			logger.Error("Failed to look up snapshot %s: %v", filename, err)
			http.Error(w, "Failed to look up snapshot", http.StatusInternalServerError)
			return
		}
		if snap == nil {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, snap.FilePath)
	}
}

// DeleteSnapshotHandler removes one snapshot record and its file.
func DeleteSnapshotHandler(repo repository.SnapshotRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("name")
		if filename == "" {
			http.Error(w, "Missing name parameter", http.StatusBadRequest)
			return
		}

		snap, err := repo.GetByFilename(filename)
		if err != nil {
			logger.Error("Failed to look up snapshot %s: %v", filename, err)
			http.Error(w, "Failed to look up snapshot", http.StatusInternalServerError)
			return
		}
		if snap == nil {
			http.NotFound(w, r)
			return
		}

		if err := os.Remove(snap.FilePath); err != nil && !os.IsNotExist(err) {
			logger.Error("Failed to remove snapshot file %s: %v", snap.FilePath, err)
		}
		if err := repo.DeleteByFilename(filename); err != nil {
			logger.Error("Failed to delete snapshot %s: %v", filename, err)
			http.Error(w, "Failed to delete snapshot", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}
}

// ClearSnapshotsHandler removes every snapshot record and file.
func ClearSnapshotsHandler(repo repository.SnapshotRepository, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshots, err := repo.GetAll(nil)
		if err != nil {
			logger.Error("Failed to list snapshots: %v", err)
			http.Error(w, "Failed to clear snapshots", http.StatusInternalServerError)
			return
		}

		for _, snap := range snapshots {
			path := snap.FilePath
			if path == "" {
				path = filepath.Join(cfg.SnapshotDirectory, snap.Filename)
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Error("Failed to remove snapshot file %s: %v", path, err)
			}
		}

		if err := repo.DeleteAll(); err != nil {
			logger.Error("Failed to clear snapshot records: %v", err)
			http.Error(w, "Failed to clear snapshots", http.StatusInternalServerError)
			return
		}

		logger.Info("Cleared %d snapshot(s)", len(snapshots))
		w.Write([]byte("OK"))
	}
}

// atoiDefault parses a positive integer, falling back to def.
func atoiDefault(s string, def int) int {
	if value, err := strconv.Atoi(s); err == nil && value > 0 {
		return value
	}
	return def
}
