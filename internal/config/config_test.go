package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/brickworld/internal/kv"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BRICKWORLD_DATA_DIR", "BRICKWORLD_STORAGE", "BRICKWORLD_POSTGRES_DSN",
		"DATABASE_URL", "BRICKWORLD_LOG_LEVEL", "BRICKWORLD_HISTORY_LIMIT",
	} {
		t.Setenv(k, "")
	}
}

func fakeHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	orig := userHomeDir
	userHomeDir = func() (string, error) { return home, nil }
	t.Cleanup(func() { userHomeDir = orig })
	return home
}

func TestDefaultConfig(t *testing.T) {
	home := fakeHome(t)
	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join(home, ".brickworld"), cfg.DataDir)
	assert.Equal(t, kv.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 50, cfg.Scene.HistoryLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(home, ".brickworld", "config.yaml"), DefaultPath())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	fakeHome(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	fakeHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/bricks
storage:
  backend: file
scene:
  history_limit: 10
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/bricks", cfg.DataDir)
	assert.Equal(t, kv.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 10, cfg.Scene.HistoryLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, 24, cfg.Export.CellSize)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_ValidationErrors(t *testing.T) {
	clearEnv(t)
	fakeHome(t)

	tests := []struct {
		name, yaml, want string
	}{
		{"unknown backend", "storage:\n  backend: redis\n", "invalid storage backend"},
		{"postgres without dsn", "storage:\n  backend: postgres\n", "requires postgres_dsn"},
		{"zero history", "scene:\n  history_limit: 0\n", "history_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BRICKWORLD_DATA_DIR", "/tmp/bw")
		t.Setenv("BRICKWORLD_STORAGE", "postgres")
		t.Setenv("BRICKWORLD_POSTGRES_DSN", "postgres://localhost/bw")
		t.Setenv("BRICKWORLD_LOG_LEVEL", "warn")
		t.Setenv("BRICKWORLD_HISTORY_LIMIT", "7")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/bw", cfg.DataDir)
		assert.Equal(t, "postgres", cfg.Storage.Backend)
		assert.Equal(t, "postgres://localhost/bw", cfg.Storage.PostgresDSN)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, 7, cfg.Scene.HistoryLimit)
	})

	t.Run("DATABASE_URL is a fallback", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://generic")

		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "postgres://generic", cfg.Storage.PostgresDSN)

		t.Setenv("BRICKWORLD_POSTGRES_DSN", "postgres://dedicated")
		cfg.applyEnvOverrides()
		assert.Equal(t, "postgres://dedicated", cfg.Storage.PostgresDSN)
	})

	t.Run("non-numeric history limit is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BRICKWORLD_HISTORY_LIMIT", "lots")

		cfg := &Config{Scene: SceneConfig{HistoryLimit: 50}}
		cfg.applyEnvOverrides()
		assert.Equal(t, 50, cfg.Scene.HistoryLimit)
	})

	t.Run("env applies when file is missing", func(t *testing.T) {
		clearEnv(t)
		fakeHome(t)
		t.Setenv("BRICKWORLD_STORAGE", "memory")

		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, kv.BackendMemory, cfg.Storage.Backend)
	})
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	fakeHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Storage.Backend = kv.BackendFile
	cfg.Scene.HistoryLimit = 12
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestKVOptions(t *testing.T) {
	cfg := &Config{DataDir: "/d", Storage: StorageConfig{Backend: "postgres", PostgresDSN: "dsn"}}
	assert.Equal(t, kv.Options{Backend: "postgres", DataDir: "/d", PostgresDSN: "dsn"}, cfg.KVOptions())
}
