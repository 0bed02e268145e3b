package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATSYS_CONFIG", "DATSYS_CLIENTS_DIR", "DATSYS_DATA_DIR", "DATSYS_EXPORTS_DIR",
		"DATSYS_DOWNLOADS_DIR", "DATSYS_EXCLUDED_WEEKDAY", "DATSYS_BLENDER_EXE",
		"DATSYS_SLICER_EXE", "DATSYS_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "clients", cfg.ClientsDir)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "exports", cfg.ExportsDir)
	assert.Equal(t, "warn", cfg.Log.Level)

	wd, err := cfg.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	body := `clients_dir: /srv/clients
excluded_weekday: Sat
blender:
  exe: /opt/blender/blender
slicer:
  script: tools/custom.py
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("DATSYS_CLIENTS_DIR", "/override/clients")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/override/clients", cfg.ClientsDir)
	assert.Equal(t, "/opt/blender/blender", cfg.Blender.Exe)
	assert.Equal(t, "tools/custom.py", cfg.Slicer.Script)
	assert.Equal(t, "Slicer", cfg.Slicer.Exe, "unset keys keep defaults")

	wd, err := cfg.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, wd)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(DefaultFile, []byte("exports_dir: out\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.ExportsDir)
}

func TestLoad_EnvConfigPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "x.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: shared\n"), 0o644))
	t.Setenv("DATSYS_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "shared", cfg.DataDir)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("clients_dir: [\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse config file")

	t.Setenv("DATSYS_EXCLUDED_WEEKDAY", "someday")
	_, err = Load("")
	assert.ErrorContains(t, err, "excluded_weekday")

	t.Setenv("DATSYS_EXCLUDED_WEEKDAY", "")
	t.Setenv("DATSYS_LOG_LEVEL", "loud")
	_, err = Load("")
	assert.ErrorContains(t, err, "log level")
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{
		"sunday": time.Sunday, "MON": time.Monday, " Friday ": time.Friday, "sat": time.Saturday,
	} {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseWeekday("")
	assert.Error(t, err)
}
