package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"postureserver/internal/config"
	"postureserver/internal/logger"
	"postureserver/internal/models"
	"postureserver/internal/posture"
	"postureserver/internal/repository/sqlite"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log := logger.NewLogger(&config.Config{LogDirectory: filepath.Join(t.TempDir(), "logs")})
	t.Cleanup(log.Close)
	return log
}

func newTestRepo(t *testing.T) *sqlite.SnapshotRepository {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlite.NewSnapshotRepository(db)
}

// ========================================
// Helper Function Tests
// ========================================

func TestAtoiDefault(t *testing.T) {
	tests := []struct {
		input    string
		def      int
		expected int
	}{
		{"10", 5, 10},
		{"1", 0, 1},
		{"", 5, 5},
		{"abc", 10, 10},
		{"-1", 5, 5},
		{"0", 5, 5},
		{"12.5", 5, 5},
	}

	for _, tt := range tests {
		result := atoiDefault(tt.input, tt.def)
		if result != tt.expected {
			t.Errorf("atoiDefault(%q, %d) = %d, expected %d", tt.input, tt.def, result, tt.expected)
		}
	}
}

// ========================================
// Posture Reference API Tests
// ========================================

func TestPostureThresholdsHandler(t *testing.T) {
	analyzer := posture.NewAnalyzer(posture.DefaultThresholds(), nil)
	handler := PostureThresholdsHandler(analyzer, newTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/posture/thresholds", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var decoded map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if decoded["neck_angle_threshold"] != 35 {
		t.Errorf("neck_angle_threshold = %v, expected 35", decoded["neck_angle_threshold"])
	}
	if decoded["forward_head_threshold"] != 0.2 {
		t.Errorf("forward_head_threshold = %v, expected 0.2", decoded["forward_head_threshold"])
	}
}

func TestHealthConditionsHandler(t *testing.T) {
	handler := HealthConditionsHandler(newTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/health/conditions", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var decoded map[string]posture.HealthCondition
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(decoded) != 3 {
		t.Errorf("expected 3 conditions, got %d", len(decoded))
	}
	if decoded["respiratory"].Name == "" {
		t.Error("respiratory condition missing")
	}
}

// ========================================
// Snapshot Gallery API Tests
// ========================================

func insertSnapshot(t *testing.T, repo *sqlite.SnapshotRepository, dir, filename, camera, issue string) {
	t.Helper()

	fullpath := filepath.Join(dir, filename)
	if err := os.WriteFile(fullpath, []byte("jpeg-bytes"), 0644); err != nil {
		t.Fatalf("Failed to write snapshot file: %v", err)
	}

	_, err := repo.Insert(&models.Snapshot{
		Filename:  filename,
		Camera:    camera,
		Issue:     issue,
		Timestamp: time.Now(),
		FilePath:  fullpath,
		FileSize:  int64(len("jpeg-bytes")),
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
}

func TestGetSnapshotsHandler(t *testing.T) {
	repo := newTestRepo(t)
	dir := t.TempDir()
	insertSnapshot(t, repo, dir, "a.jpg", "webcam", "torso")
	insertSnapshot(t, repo, dir, "b.jpg", "webcam", "neck")
	insertSnapshot(t, repo, dir, "c.jpg", "laptop", "torso")

	handler := GetSnapshotsHandler(repo, newTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots?camera=webcam", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	var resp struct {
		Snapshots []map[string]interface{} `json:"snapshots"`
		Total     int                      `json:"total"`
		Page      int                      `json:"page"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Total != 2 || len(resp.Snapshots) != 2 {
		t.Errorf("expected 2 webcam snapshots, got total=%d len=%d", resp.Total, len(resp.Snapshots))
	}
	if resp.Page != 1 {
		t.Errorf("page = %d, expected 1", resp.Page)
	}
}

func TestViewSnapshotHandler(t *testing.T) {
	repo := newTestRepo(t)
	dir := t.TempDir()
	insertSnapshot(t, repo, dir, "a.jpg", "webcam", "torso")

	handler := ViewSnapshotHandler(repo, newTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots/view?name=a.jpg", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestViewSnapshotHandler_Missing(t *testing.T) {
	handler := ViewSnapshotHandler(newTestRepo(t), newTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots/view?name=missing.jpg", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
}

func TestDeleteSnapshotHandler(t *testing.T) {
	repo := newTestRepo(t)
	dir := t.TempDir()
	insertSnapshot(t, repo, dir, "a.jpg", "webcam", "torso")

	handler := DeleteSnapshotHandler(repo, newTestLogger(t))

	req := httptest.NewRequest(http.MethodDelete, "/api/snapshots/delete?name=a.jpg", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	if got, _ := repo.GetByFilename("a.jpg"); got != nil {
		t.Error("record should be deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "a.jpg")); !os.IsNotExist(err) {
		t.Error("file should be deleted")
	}
}

func TestClearSnapshotsHandler(t *testing.T) {
	repo := newTestRepo(t)
	dir := t.TempDir()
	insertSnapshot(t, repo, dir, "a.jpg", "webcam", "torso")
	insertSnapshot(t, repo, dir, "b.jpg", "webcam", "neck")

	cfg := &config.Config{SnapshotDirectory: dir}
	handler := ClearSnapshotsHandler(repo, cfg, newTestLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/api/snapshots/clear", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	count, err := repo.GetTotalCount(nil)
	if err != nil {
		t.Fatalf("GetTotalCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty gallery, got %d records", count)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files left, got %d", len(files))
	}
}
