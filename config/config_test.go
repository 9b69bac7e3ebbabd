package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sotypes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeFile(t, "log_level: debug\nregistry_file: types.json\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "types.json", cfg.RegistryFile)
	require.Equal(t, Default().ListenAddr, cfg.ListenAddr)
	require.Equal(t, FormatJSON, cfg.Format)
}

func TestLoadExtraPrimitives(t *testing.T) {
	path := writeFile(t, "extra_primitives:\n  - H256\n  - Perbill\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"H256", "Perbill"}, cfg.ExtraPrimitives)
}

func TestLoadInvalid(t *testing.T) {
	path := writeFile(t, "listen_addr: nowhere\nlog_level: loud\nformat: toml\n")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "listen_addr")
	require.Contains(t, err.Error(), "log_level")
	require.Contains(t, err.Error(), "format")
	require.Contains(t, err.Error(), path)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeFile(t, "listen_addr: [unterminated\n"))
	require.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	log, err := cfg.Logger()
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.WarnLevel))
	require.False(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestLoggerWritesFile(t *testing.T) {
	cfg := Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "sotypes.log")
	log, err := cfg.Logger()
	require.NoError(t, err)
	log.Info("hello")
	_ = log.Sync()

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(b), `"msg":"hello"`)
}

func TestValidateRotation(t *testing.T) {
	cfg := Default()
	cfg.LogFile = "x.log"
	cfg.LogMaxSize = 0
	require.ErrorContains(t, cfg.Validate(), "log rotation")
}
