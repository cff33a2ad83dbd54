package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"postureserver/internal/dto"
	"postureserver/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "snapshot_db_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func testSnapshot(filename, camera, issue string, ts time.Time) *models.Snapshot {
	return &models.Snapshot{
		Filename:  filename,
		Camera:    camera,
		Issue:     issue,
		Timestamp: ts,
		FilePath:  filepath.Join("snapshots", filename),
		FileSize:  2048,
	}
}

func TestSnapshotRepository_InsertAndGet(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	snap := testSnapshot("a.jpg", "webcam", "torso", time.Now())
	id, err := repo.Insert(snap)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive id, got %d", id)
	}

	got, err := repo.GetByFilename("a.jpg")
	if err != nil {
		t.Fatalf("GetByFilename failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if got.Camera != "webcam" || got.Issue != "torso" {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestSnapshotRepository_GetByFilename_Missing(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	got, err := repo.GetByFilename("missing.jpg")
	if err != nil {
		t.Fatalf("GetByFilename failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing snapshot, got %+v", got)
	}
}

func TestSnapshotRepository_Filters(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	now := time.Now()
	records := []*models.Snapshot{
		testSnapshot("a.jpg", "webcam", "torso", now.Add(-2*time.Hour)),
		testSnapshot("b.jpg", "webcam", "neck", now.Add(-time.Hour)),
		testSnapshot("c.jpg", "laptop", "torso", now),
	}
	for _, snap := range records {
		if _, err := repo.Insert(snap); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	byCamera, err := repo.GetAll(&dto.SnapshotFilters{Camera: "webcam"})
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(byCamera) != 2 {
		t.Errorf("expected 2 webcam snapshots, got %d", len(byCamera))
	}

	byIssue, err := repo.GetAll(&dto.SnapshotFilters{Issue: "torso"})
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(byIssue) != 2 {
		t.Errorf("expected 2 torso snapshots, got %d", len(byIssue))
	}

	count, err := repo.GetTotalCount(&dto.SnapshotFilters{Camera: "webcam", Issue: "neck"})
	if err != nil {
		t.Fatalf("GetTotalCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	// Newest first.
	all, err := repo.GetAll(nil)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 || all[0].Filename != "c.jpg" {
		t.Errorf("expected newest-first ordering, got %+v", all)
	}
}

func TestSnapshotRepository_Pagination(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	now := time.Now()
	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		snap := testSnapshot(name, "webcam", "torso", now.Add(time.Duration(i)*time.Minute))
		if _, err := repo.Insert(snap); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	page, err := repo.GetAll(&dto.SnapshotFilters{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected page of 2, got %d", len(page))
	}
}

func TestSnapshotRepository_Delete(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	if _, err := repo.Insert(testSnapshot("a.jpg", "webcam", "torso", time.Now())); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := repo.Insert(testSnapshot("b.jpg", "webcam", "neck", time.Now())); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := repo.DeleteByFilename("a.jpg"); err != nil {
		t.Fatalf("DeleteByFilename failed: %v", err)
	}
	if got, _ := repo.GetByFilename("a.jpg"); got != nil {
		t.Error("snapshot a.jpg should be deleted")
	}

	if err := repo.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	count, err := repo.GetTotalCount(nil)
	if err != nil {
		t.Fatalf("GetTotalCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d records", count)
	}
}
