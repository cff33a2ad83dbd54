package dto

import "time"

// SnapshotFilters narrows snapshot gallery queries.
type SnapshotFilters struct {
	Camera     string
	Issue      string
	DateAfter  time.Time
	DateBefore time.Time
	Limit      int
	Offset     int
}
