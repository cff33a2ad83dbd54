package repository

import (
	"postureserver/internal/dto"
	"postureserver/internal/models"
)

// SnapshotRepository defines the interface for snapshot gallery records.
type SnapshotRepository interface {
	// Create operations
	Insert(snap *models.Snapshot) (int64, error)

	// Read operations
	GetByFilename(filename string) (*models.Snapshot, error)
	GetAll(filter *dto.SnapshotFilters) ([]models.Snapshot, error)
	GetTotalCount(filter *dto.SnapshotFilters) (int, error)

	// Delete operations
	DeleteByFilename(filename string) error
	DeleteAll() error
}
