package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  root: /work/sample
inputs:
  metadata: [ "meta/*.meta.yaml" ]
  docs: [ "xml", "/shared/docs" ]
docs:
  fail_on_missing_include: true
log:
  level: debug
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/work/sample", cfg.Project.Root)
	assert.True(t, cfg.Docs.FailOnMissingInclude)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "doctoolkit.db", cfg.Storage.DBPath, "unset keys keep defaults")

	meta, docs := cfg.InputRoots()
	assert.Equal(t, []string{filepath.Join("/work/sample", "meta/*.meta.yaml")}, meta)
	assert.Equal(t, []string{filepath.Join("/work/sample", "xml"), "/shared/docs"}, docs)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	meta, docs := cfg.InputRoots()
	assert.Equal(t, []string{"."}, meta)
	assert.Equal(t, []string{"."}, docs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DOCTK_ROOT", "/env/root")
	t.Setenv("DOCTK_DB", "/env/doc.db")
	t.Setenv("DOCTK_LOG_LEVEL", "warn")
	t.Setenv("DOCTK_FAIL_ON_MISSING_INCLUDE", "true")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/env/root", cfg.Project.Root)
	assert.Equal(t, "/env/doc.db", cfg.Storage.DBPath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Docs.FailOnMissingInclude)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultPath)
		require.NoError(t, os.WriteFile(path, []byte("project: [unterminated"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("Boolean override", func(t *testing.T) {
		t.Setenv("DOCTK_FAIL_ON_MISSING_INCLUDE", "sometimes")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
