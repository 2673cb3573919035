package config_test

import (
	"os"
	"path/filepath"
	"stockscan/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_defaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("missing.yml")
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "http://localhost:5000", cfg.StockAPI.BaseURL)
	require.Equal(t, "memory", cfg.Cache.Type)
	require.Equal(t, 100*time.Millisecond, cfg.Camera.FrameInterval)
	require.Equal(t, int64(4096*4096), cfg.Camera.MaxFramePixels)
	require.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
}

func TestLoad_yamlAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
stockAPI:
  baseURL: http://stock.internal:5000
cache:
  type: redis
  redis:
    addr: redis:6379
camera:
  dir: /var/spool/camera
  formats: [EAN_13, QR_CODE]
`), 0o600))
	t.Setenv("STOCK_API_TIMEOUT", "3s")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "http://stock.internal:5000", cfg.StockAPI.BaseURL)
	require.Equal(t, 3*time.Second, cfg.StockAPI.Timeout)
	require.Equal(t, "redis", cfg.Cache.Type)
	require.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	require.Equal(t, "/var/spool/camera", cfg.Camera.Dir)
	require.Equal(t, []string{"EAN_13", "QR_CODE"}, cfg.Camera.Formats)
}

func TestLoad_dotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CAMERA_DIR=/tmp/frames\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CAMERA_DIR") })

	cfg, err := config.Load("missing.yml")
	require.NoError(t, err)
	require.Equal(t, "/tmp/frames", cfg.Camera.Dir)
}
