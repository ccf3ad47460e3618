package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/liftnav/pkg/domain"
)

func noEnv(string) string { return "" }

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	root, err := cfg.RootDestination()
	require.NoError(t, err)
	assert.Equal(t, domain.Dashboard{}, root)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "liftnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
surface: tablet
log_level: debug
root:
  kind: lift_details
  lift_id: 42
http:
  port: 9090
redis:
  addr: localhost:6379
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tablet", cfg.Surface)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.Metrics, "unset fields keep their defaults")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "liftnav:", cfg.Redis.Prefix)

	root, err := cfg.RootDestination()
	require.NoError(t, err)
	assert.Equal(t, domain.LiftDetails{LiftID: "42"}, root)
}

func TestLoad_JSON(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "liftnav.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"surface":"web","root":{"kind":"settings"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "web", cfg.Surface)

	root, err := cfg.RootDestination()
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{}, root)
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liftnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("surface: [unterminated"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvPort:      "7070",
		EnvRedisAddr: "redis:6379",
		EnvLogLevel:  "warn",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "warn", cfg.LogLevel)

	require.NoError(t, Default().ApplyEnv(noEnv))

	err := Default().ApplyEnv(func(k string) string {
		if k == EnvPort {
			return "eighty"
		}
		return ""
	})
	assert.ErrorContains(t, err, EnvPort)
}

func TestRootDestination_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Root = map[string]any{"kind": "lift_details"}
	_, err := cfg.RootDestination()
	assert.ErrorIs(t, err, domain.ErrMissingField)

	cfg.Root = map[string]any{"kind": "moon"}
	_, err = cfg.RootDestination()
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}
