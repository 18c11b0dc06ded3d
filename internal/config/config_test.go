package config_test

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/diagram/internal/config"
	"github.com/aretw0/diagram/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	path := testutils.WriteModelFile(t, "diagram.yaml", `
viewer:
  needs_client_layout: true
layout: grid
http:
  addr: ":9000"
redis:
  addr: localhost:6379
log:
  level: debug
model:
  path: models/flow.yaml
`)

	cfg, err := config.Load(path, true)
	require.NoError(t, err)

	assert.True(t, cfg.Viewer.NeedsClientLayout)
	assert.Equal(t, "grid", cfg.Layout)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "diagram:", cfg.Redis.Prefix, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "models", "flow.yaml"), cfg.Model.Path)
}

func TestLoad_JSON(t *testing.T) {
	path := testutils.WriteModelFile(t, "diagram.json", `{"layout":"row","model":{"path":"/abs/model.json"}}`)

	cfg, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "row", cfg.Layout)
	assert.Equal(t, "/abs/model.json", cfg.Model.Path)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "diagram.yaml")

	cfg, err := config.Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(missing, true)
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := testutils.WriteModelFile(t, "diagram.yaml", "http: [")
	_, err := config.Load(path, true)
	assert.ErrorContains(t, err, "failed to parse diagram.yaml")
}
