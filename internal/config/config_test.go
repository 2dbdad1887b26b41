package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohsinsiddi/inkctl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:9944", cfg.DefaultURL)
	assert.Equal(t, uint16(42), cfg.SS58Prefix)
	assert.Equal(t, 180, cfg.InclusionTimeout)
	assert.Equal(t, 3*time.Minute, cfg.Timeout())
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.SetURL("wss://rococo-contracts-rpc.polkadot.io"))
	cfg.SS58Prefix = 0
	require.NoError(t, cfg.SetInclusionTimeout(30))
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "wss://rococo-contracts-rpc.polkadot.io", reloaded.DefaultURL)
	assert.Equal(t, uint16(0), reloaded.SS58Prefix)
	assert.Equal(t, 30*time.Second, reloaded.Timeout())
}

func TestSetURLRejectsHTTP(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, cfg.SetURL("http://localhost:9933"))
	assert.Equal(t, config.DefaultURL, cfg.DefaultURL)
}

func TestSetInclusionTimeoutRejectsZero(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, cfg.SetInclusionTimeout(0))
	assert.Error(t, cfg.SetInclusionTimeout(-5))
}

func TestLoadFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"ss58_prefix": 2}`), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), cfg.SS58Prefix)
	assert.Equal(t, config.DefaultURL, cfg.DefaultURL)
	assert.Equal(t, 180, cfg.InclusionTimeout)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{not json`), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestConfigFileCreatedOnSave(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(dir, "config.json"))
	assert.NoError(t, err, "config.json should be created on save")
}

func TestConfigDir(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoadFromNonExistentDir(t *testing.T) {
	dir := t.TempDir() + "/subdir"
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultURL, cfg.DefaultURL)
}

func TestSetSS58Prefix(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.SetSS58Prefix(0))
	assert.Equal(t, uint16(0), cfg.SS58Prefix)
	require.NoError(t, cfg.SetSS58Prefix(16383))
	assert.Error(t, cfg.SetSS58Prefix(16384))
	assert.Equal(t, uint16(16383), cfg.SS58Prefix)
}
