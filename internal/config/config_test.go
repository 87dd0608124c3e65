package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 17017, cfg.Gateway.Port)
	assert.Equal(t, "loopback", cfg.Gateway.Bind)
	assert.Equal(t, 15, cfg.Directory.TTLMinutes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 17017, cfg.Gateway.Port)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
gateway:
  port: 9999
platform:
  defaultApiGateway: https://gw.example
  welcomeNewMembers: true
directory:
  host: https://directory.example
runtime:
  url: wss://agent.example/runtime
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Gateway.Port)
	assert.Equal(t, "https://gw.example", cfg.Platform.DefaultAPIGateway)
	assert.True(t, cfg.Platform.WelcomeNewMembers)
	assert.False(t, cfg.Platform.WelcomeOnInstall)
	assert.Equal(t, "https://directory.example", cfg.Directory.Host)
	assert.Equal(t, "wss://agent.example/runtime", cfg.Runtime.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields still get defaults.
	assert.Equal(t, 15, cfg.Directory.TTLMinutes)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gateway: ["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config:")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OCBRIDGE_GATEWAY_PORT", "4242")
	t.Setenv("OCBRIDGE_LOG_LEVEL", "WARN")
	t.Setenv("OCBRIDGE_RUNTIME_URL", "ws://runtime.example/ws")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4242, cfg.Gateway.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "ws://runtime.example/ws", cfg.Runtime.URL)
}

func TestLoad_ExpandsEnvInPublicKey(t *testing.T) {
	t.Setenv("TEST_PLATFORM_KEY", "pem-data")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform:\n  publicKey: ${TEST_PLATFORM_KEY}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pem-data", cfg.Platform.PublicKey)
}

func TestExpandEnvVars_UnsetLeftAlone(t *testing.T) {
	assert.Equal(t, "${DEFINITELY_UNSET_VAR_42}", expandEnvVars("${DEFINITELY_UNSET_VAR_42}"))
}

func TestResolvePaths_HomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OCBRIDGE_HOME", dir)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, dir, paths.Base)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), paths.Config)

	require.NoError(t, paths.EnsureDirs())
	info, err := os.Stat(paths.Logs)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
