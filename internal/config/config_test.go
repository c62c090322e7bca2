package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	t.Setenv(key, val)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvRaw_AllowsEmpty(t *testing.T) {
	t.Setenv("TEST_ENV_RAW", "")
	if got := getEnvRaw("TEST_ENV_RAW", "default"); got != "" {
		t.Errorf("getEnvRaw() = %q, want empty", got)
	}
	if got := getEnvRaw("TEST_ENV_RAW_UNSET", "default"); got != "default" {
		t.Errorf("getEnvRaw() = %q, want default", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvIntAndBool(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "8080")
	t.Setenv("TEST_ENV_BAD_INT", "eighty")
	t.Setenv("TEST_ENV_BOOL", "false")

	if got := getEnvInt("TEST_ENV_INT", 1); got != 8080 {
		t.Errorf("getEnvInt() = %d, want 8080", got)
	}
	if got := getEnvInt("TEST_ENV_BAD_INT", 1); got != 1 {
		t.Errorf("getEnvInt() = %d, want default", got)
	}
	if got := getEnvBool("TEST_ENV_BOOL", true); got {
		t.Error("getEnvBool() = true, want false")
	}
	if got := getEnvBool("TEST_ENV_BOOL_UNSET", true); !got {
		t.Error("getEnvBool() should fall back to default")
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Fatal("getEnvPaths() returned no paths")
	}
	cwd, _ := os.Getwd()
	if paths[0] != filepath.Join(cwd, ".env") {
		t.Errorf("first path = %q, want .env in working directory", paths[0])
	}
}

// setTestEnv points every path at a temp dir and clears provider settings.
func setTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TELEMETRY_LOG_PATH", filepath.Join(dir, "data", "telemetry.jsonl"))
	t.Setenv("SAVED_AUDIO_PATH", filepath.Join(dir, "data", "saved-audio"))
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "db", "uranus.db"))
	t.Setenv("DASHBOARD_LOG_PATH", filepath.Join(dir, "logs", "dashboard.log"))
	t.Setenv("GOOGLE_VERTEX_PROJECT", "")
	t.Setenv("GOOGLE_VERTEX_API_KEY", "")
	t.Setenv("GOOGLE_VISION_API_KEY", "")
	t.Setenv("PORT", "")
	t.Setenv("REFRESH_INTERVAL", "")
	return dir
}

func TestLoad(t *testing.T) {
	dir := setTestEnv(t)
	t.Setenv("GOOGLE_VERTEX_API_KEY", "vertex-key")
	t.Setenv("REFRESH_INTERVAL", "10")

	if _, err := Load(filepath.Join(dir, "missing.env")); err == nil {
		t.Fatal("Load() with a missing explicit env file should fail")
	}

	// godotenv never overrides variables that are already present, even empty.
	t.Setenv("REDIS_URL", "")
	os.Unsetenv("PORT")
	os.Unsetenv("REDIS_URL")

	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("PORT=4000\nREDIS_URL=redis://localhost:6379/0\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Port)
	}
	if cfg.Addr() != ":4000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.VisionAPIKey != "vertex-key" {
		t.Errorf("VisionAPIKey should fall back to the Vertex key, got %q", cfg.VisionAPIKey)
	}
	if cfg.RefreshInterval != 10*time.Second {
		t.Errorf("RefreshInterval = %v, want 10s", cfg.RefreshInterval)
	}
	if cfg.EnvFile != envPath {
		t.Errorf("EnvFile = %q, want %q", cfg.EnvFile, envPath)
	}
	if !cfg.MirrorEnabled() {
		t.Error("MirrorEnabled() should be true with a database path")
	}

	for _, sub := range []string{"data", "db", "logs", filepath.Join("data", "saved-audio")} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Errorf("directory %s was not created: %v", sub, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	setTestEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 3101 {
		t.Errorf("Port = %d, want 3101", cfg.Port)
	}
	if cfg.VertexLocation != "us-central1" {
		t.Errorf("VertexLocation = %q", cfg.VertexLocation)
	}
	if cfg.RedisChannel != "uranus:telemetry" {
		t.Errorf("RedisChannel = %q", cfg.RedisChannel)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should default to true")
	}
	if cfg.RefreshInterval != 5*time.Second {
		t.Errorf("RefreshInterval = %v, want 5s", cfg.RefreshInterval)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	setTestEnv(t)
	t.Setenv("PORT", "70000")

	if _, err := Load(""); err == nil {
		t.Error("Load() should reject an out of range port")
	}
}

func TestLoad_DisabledMirror(t *testing.T) {
	setTestEnv(t)
	t.Setenv("DATABASE_PATH", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MirrorEnabled() {
		t.Error("MirrorEnabled() should be false when DATABASE_PATH is empty")
	}
}

func TestValidateProvider(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateProvider(); !errors.Is(err, ErrMissingProvider) {
		t.Errorf("ValidateProvider() = %v, want ErrMissingProvider", err)
	}

	cfg.VertexProject = "my-project"
	if err := cfg.ValidateProvider(); err != nil {
		t.Errorf("ValidateProvider() with project = %v", err)
	}

	cfg = &Config{VertexAPIKey: "key"}
	if err := cfg.ValidateProvider(); err != nil {
		t.Errorf("ValidateProvider() with api key = %v", err)
	}
}
