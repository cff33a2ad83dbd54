package dto

import (
	"encoding/json"
	"time"
)

// SnapshotInfo is the gallery listing entry sent to the web client.
type SnapshotInfo struct {
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	TimeOfDay time.Time `json:"timeOfDay"`
	Camera    string    `json:"camera"`
	Issue     string    `json:"issue"`
}

// MarshalJSON customizes JSON output for SnapshotInfo to format date and time-of-day.
func (s SnapshotInfo) MarshalJSON() ([]byte, error) {
	type Alias SnapshotInfo
	return json.Marshal(&struct {
		Date      string `json:"date"`
		TimeOfDay string `json:"timeOfDay"`
		Alias
	}{
		Date:      s.Date.Format("02-01-2006"),
		TimeOfDay: s.TimeOfDay.Format("15:04"),
		Alias:     (Alias)(s),
	})
}
