package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SCAN_SETTLE_DELAY", "")
	t.Setenv("MAX_FILE_SIZE", "")
	t.Setenv("ALLOWED_EXTENSIONS", "")
	t.Setenv("STALE_RUN_AGE", "")

	cfg := Load()

	assert.Equal(t, "http://127.0.0.1:5000", cfg.Client.APIBaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Client.SettleDelay)
	assert.Equal(t, int64(15*1024*1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, 15*time.Minute, cfg.Worker.StaleRunAge)
	assert.Equal(t, []string{"pdf", "docx"}, cfg.Storage.AllowedExtensions)
	assert.Equal(t, "failed", cfg.Client.UploadRetryScope)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCAN_SETTLE_DELAY", "1s")
	t.Setenv("QDRANT_ENABLED", "true")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("ALLOWED_EXTENSIONS", ".PDF, docx ,")

	cfg := Load()

	assert.Equal(t, time.Second, cfg.Client.SettleDelay)
	assert.True(t, cfg.Qdrant.Enabled)
	assert.Equal(t, 8, cfg.Worker.Concurrency)
	assert.Equal(t, []string{"pdf", "docx"}, cfg.Storage.AllowedExtensions)
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, getEnvAsInt("X_INT", 7))
	assert.False(t, getEnvAsBool("X_BOOL", false))
	assert.Equal(t, 2*time.Second, getEnvAsDuration("X_DUR", "2s"))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "n"}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", cfg.GetDatabaseDSN())
}
