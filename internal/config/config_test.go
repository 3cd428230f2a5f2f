package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("fills in defaults for omitted fields", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "site.config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("title: My Site\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "My Site", cfg.Title)
		assert.Equal(t, "content", cfg.ContentDir)
		assert.Equal(t, "dist", cfg.OutputDir)
		assert.Equal(t, 4000, cfg.DevPort)
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "site.config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("content_dir: pages\n"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("errors on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
