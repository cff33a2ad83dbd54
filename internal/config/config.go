package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port                   int
	ModelPath              string  // pose estimation network (ONNX)
	MinDetectionConfidence float64 // below this top keypoint score a frame counts as "no person"
	SnapshotDirectory      string
	SnapshotBufferLimit    int
	SnapshotFlushInterval  int // seconds
	DatabasePath           string
	ProcessingInterval     int // analyze every Nth frame (1=every, 3=every third)
	ProcessingWorkers      int
	LogDirectory           string

	// Posture limits; defaults are the standard ergonomic thresholds.
	ShoulderOffsetLimit   int
	NeckAngleLimit        int
	TorsoAngleLimit       int
	ForwardHeadRatioLimit float64
}

func Load() *Config {
	return &Config{
		Port:                   getEnvAsInt("PORT", 8000),
		ModelPath:              getEnv("MODEL_PATH", filepath.Join(".", "models", "movenet_singlepose_thunder.onnx")),
		MinDetectionConfidence: getEnvAsFloat("MIN_DETECTION_CONFIDENCE", 0.3),
		SnapshotDirectory:      getEnv("SNAPSHOT_DIR", filepath.Join(".", "snapshots")),
		SnapshotBufferLimit:    getEnvAsInt("BUFFER_LIMIT", 7),
		SnapshotFlushInterval:  getEnvAsInt("FLUSH_INTERVAL", 30),
		DatabasePath:           getEnv("DB_PATH", filepath.Join(".", "data", "snapshots.db")),
		ProcessingInterval:     getEnvAsInt("PROCESSING_INTERVAL", 3),
		ProcessingWorkers:      getEnvAsInt("PROCESSING_WORKERS", 3),
		LogDirectory:           getEnv("LOG_DIR", filepath.Join(".", "logs")),

		ShoulderOffsetLimit:   getEnvAsInt("SHOULDER_OFFSET_LIMIT", 30),
		NeckAngleLimit:        getEnvAsInt("NECK_ANGLE_LIMIT", 35),
		TorsoAngleLimit:       getEnvAsInt("TORSO_ANGLE_LIMIT", 10),
		ForwardHeadRatioLimit: getEnvAsFloat("FORWARD_HEAD_RATIO_LIMIT", 0.2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
