package models

import "time"

// Snapshot records one stored bad-posture frame. Only capture metadata is
// persisted; posture metrics are never written to the database.
type Snapshot struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Camera    string    `json:"camera"`
	Issue     string    `json:"issue"` // which check triggered the capture
	Timestamp time.Time `json:"timestamp"`
	FilePath  string    `json:"filepath"`
	FileSize  int64     `json:"filesize"`
}
