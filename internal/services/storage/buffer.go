package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"postureserver/internal/logger"
	"postureserver/internal/models"
	"postureserver/internal/repository"
)

// Snapshot is one captured bad-posture frame waiting to be written out.
type Snapshot struct {
	Timestamp time.Time
	Camera    string
	Issue     string
	Data      []byte
}

// BufferService batches bad-posture snapshots in memory and flushes them to
// disk and the gallery database on a timer.
type BufferService struct {
	snapshotDir string
	snapshots   []Snapshot
	bufferLimit int
	repo        repository.SnapshotRepository
	logger      *logger.Logger
	mu          sync.Mutex
}

func NewBufferService(snapshotDir string, bufferLimit int, repo repository.SnapshotRepository, logger *logger.Logger) *BufferService {
	return &BufferService{
		snapshotDir: snapshotDir,
		bufferLimit: bufferLimit,
		repo:        repo,
		logger:      logger,
		snapshots:   make([]Snapshot, 0),
	}
}

// Run flushes the buffer every flushInterval seconds until the service is
// stopped; call it in its own goroutine.
func (s *BufferService) Run(flushInterval int) {
	ticker := time.NewTicker(time.Duration(flushInterval) * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		s.Flush()
	}
}

// Add queues a snapshot. Frames past the buffer limit are dropped until the
// next flush; a slow disk must not stall the analysis pipeline.
func (s *BufferService) Add(imageData []byte, camera, issue string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snapshots) >= s.bufferLimit {
		return
	}

	s.snapshots = append(s.snapshots, Snapshot{
		Timestamp: time.Now(),
		Camera:    camera,
		Issue:     issue,
		Data:      imageData,
	})
	s.logger.Info("Snapshot buffer: %d/%d", len(s.snapshots), s.bufferLimit)
}

// Flush writes buffered snapshots to disk and records them in the gallery.
func (s *BufferService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snapshots) == 0 {
		return
	}

	if err := os.MkdirAll(s.snapshotDir, 0755); err != nil {
		s.logger.Error("Error creating snapshot directory: %v", err)
		return
	}

	flushed := 0
	for i, snap := range s.snapshots {
		// The index keeps filenames unique when several snapshots share a
		// capture second.
		filename := fmt.Sprintf("%s-%02d_%s_%s.jpg",
			snap.Timestamp.Format("2006-01-02_15-04-05"), i, snap.Camera, snap.Issue)
		fullpath := filepath.Join(s.snapshotDir, filename)

		if err := os.WriteFile(fullpath, snap.Data, 0644); err != nil {
			s.logger.Error("Error saving snapshot %s: %v", filename, err)
			continue
		}

		record := &models.Snapshot{
			Filename:  filename,
			Camera:    snap.Camera,
			Issue:     snap.Issue,
			Timestamp: snap.Timestamp,
			FilePath:  fullpath,
			FileSize:  int64(len(snap.Data)),
		}
		if _, err := s.repo.Insert(record); err != nil {
			s.logger.Error("Error recording snapshot %s: %v", filename, err)
			continue
		}
		flushed++
	}

	s.logger.Info("Flushed %d snapshot(s) to disk", flushed)
	s.snapshots = s.snapshots[:0]
}
