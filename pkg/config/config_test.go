package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiredFieldMissing(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "DATA_DIR")
	assert.Contains(t, err.Error(), "data_dir")
}

func TestNew_WithEnvVar(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/folio-test")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/folio-test", cfg.DataDir)
	assert.Equal(t, filepath.Join("/tmp/folio-test", "store.json"), cfg.StorePath())
	assert.Equal(t, filepath.Join("/tmp/folio-test", "books"), cfg.BooksDir())
	assert.Equal(t, filepath.Join("/tmp/folio-test", "thumbnails"), cfg.ThumbnailsDir())
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
data_dir: /data/folio
server_port: 8080
import_workers: 4
import_continue_on_error: false
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/folio", cfg.DataDir)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 4, cfg.ImportWorkers)
	assert.False(t, cfg.ImportContinueOnError)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
data_dir: /data/from-file
server_port: 8080
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("DATA_DIR", "/data/from-env")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IMPORT_CONTINUE_ON_ERROR", "false")

	cfg, err := New()
	require.NoError(t, err)
	// Env vars should override config file
	assert.Equal(t, "/data/from-env", cfg.DataDir)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.False(t, cfg.ImportContinueOnError)
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/folio-test")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "store.json", cfg.StoreFileName)
	assert.Equal(t, "books", cfg.BooksDirName)
	assert.Equal(t, "thumbnails", cfg.ThumbnailsDirName)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, 3690, cfg.ServerPort)
	assert.Equal(t, 2, cfg.ImportWorkers)
	assert.True(t, cfg.ImportContinueOnError)
	assert.Equal(t, 300, cfg.ThumbnailWidth)
	assert.Equal(t, 80, cfg.ThumbnailQuality)
	assert.Equal(t, 72, cfg.RenderDPI)
	assert.False(t, cfg.PruneOrphansOnStart)
}

func TestNew_Development(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("PORT", "4000")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "./tmp/folio", cfg.DataDir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "tmp", "folio", "books"), cfg.BooksDir())
	assert.Equal(t, filepath.Join(wd, "tmp", "folio", "thumbnails"), cfg.ThumbnailsDir())
	assert.Equal(t, 4000, cfg.ServerPort)
	assert.Equal(t, 1, cfg.ImportWorkers)
}

func TestNew_OutOfRange(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/folio-test")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("IMPORT_WORKERS", "0")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "import_workers")
}

func TestNewForTest(t *testing.T) {
	dir := t.TempDir()
	cfg := NewForTest(dir)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, 2, cfg.ImportWorkers)
	assert.True(t, cfg.ImportContinueOnError)
	assert.NoError(t, cfg.validate())
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "data_dir")
	assert.Contains(t, keys, "import_continue_on_error")
	assert.IsNonDecreasing(t, keys)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "data_dir", toSnakeCase("DataDir"))
	assert.Equal(t, "server_port", toSnakeCase("ServerPort"))
	assert.Equal(t, "import_continue_on_error", toSnakeCase("ImportContinueOnError"))
}

func TestRetrieveRoute(t *testing.T) {
	cfg := NewForTest("/tmp/folio-test")
	e := echo.New()
	RegisterRoutes(e, cfg)

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/tmp/folio-test", body["data_dir"])
	assert.Equal(t, float64(2), body["import_workers"])
}
