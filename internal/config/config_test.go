package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poi-service/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.GetServerAddr())
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 10, cfg.Query.DefaultK)
	assert.Equal(t, 50, cfg.Query.MaxK)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, []string{".csv"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowMethods)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8000"}, cfg.CORS.Origins)
	assert.True(t, cfg.CORS.AllowCredentials)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.NearestCacheTTL)
	assert.Equal(t, "stream:poi:dataset", cfg.Events.Stream)
	assert.False(t, cfg.Worker.Enabled)
	assert.Equal(t, "poi-audit", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 20, cfg.Worker.BatchSize)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_ENV", "production")
	t.Setenv("DEFAULT_K_NEAREST", "5")
	t.Setenv("MAX_K_NEAREST", "20")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5, cfg.Query.DefaultK)
	assert.Equal(t, 20, cfg.Query.MaxK)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "LOG_LEVEL=debug\nMAX_UPLOAD_SIZE_MB=2\nREDIS_ENABLED=true\nREDIS_PORT=6380\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.GetRedisAddr())
	assert.Contains(t, cfg.Database.DSN(), "dbname="+cfg.Database.DBName)
}

func TestLoad_InvalidK(t *testing.T) {
	t.Setenv("DEFAULT_K_NEAREST", "60")
	t.Setenv("MAX_K_NEAREST", "50")

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_EventsRequireRedis(t *testing.T) {
	t.Setenv("EVENTS_ENABLED", "true")

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_WorkerBatchSize(t *testing.T) {
	t.Setenv("WORKER_ENABLED", "true")
	t.Setenv("WORKER_BATCH_SIZE", "0")

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
