package config

import "time"

// Default values
const (
	defaultPort             = 3101
	defaultTelemetryLogPath = "./data/telemetry.jsonl"
	defaultSavedAudioPath   = "./data/saved-audio"
	defaultDatabasePath     = "./data/uranus.db"
	defaultStaticDir        = "./public"
	defaultDashboardLogPath = "./data/dashboard.log"
	defaultVertexLocation   = "us-central1"
	defaultRedisChannel     = "uranus:telemetry"
	defaultRefreshInterval  = 5 * time.Second
)
