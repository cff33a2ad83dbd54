package handlers

import (
	"encoding/json"
	"net/http"

	"postureserver/internal/logger"
	"postureserver/internal/posture"
)

// PostureThresholdsHandler returns the limits the analyzer is running with.
func PostureThresholdsHandler(analyzer *posture.Analyzer, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, analyzer.Thresholds(), logger)
	}
}

// HealthConditionsHandler returns the static posture health reference table.
func HealthConditionsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, posture.HealthConditions(), logger)
	}
}

// writeJSON serializes v to the response with the JSON content type.
func writeJSON(w http.ResponseWriter, v interface{}, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}
