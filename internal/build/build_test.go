package build

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alderfall/alder/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func TestRun(t *testing.T) {
	t.Run("renders nested markdown to minified html", func(t *testing.T) {
		root := t.TempDir()
		contentDir := filepath.Join(root, "content")
		outDir := filepath.Join(root, "dist")

		require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "blog"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(contentDir, "index.md"), []byte("# Home\n\nHello."), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(contentDir, "blog", "post.md"), []byte("# A Post\n\nBody text."), 0o644))

		cfg := &config.Config{ContentDir: contentDir, OutputDir: outDir}

		pages, err := Run(cfg, discardLogger())
		require.NoError(t, err)
		require.Len(t, pages, 2)

		out, err := os.ReadFile(filepath.Join(outDir, "index.html"))
		require.NoError(t, err)
		assert.Contains(t, string(out), "<h1>Home</h1>")
		assert.NotContains(t, string(out), "> <")

		_, err = os.ReadFile(filepath.Join(outDir, "blog", "post.html"))
		require.NoError(t, err)
	})
}

func TestTitleFromContent(t *testing.T) {
	t.Run("takes the first level-one heading", func(t *testing.T) {
		assert.Equal(t, "Hello World", titleFromContent([]byte("intro\n\n# Hello World\n\nbody")))
	})

	t.Run("falls back when no heading exists", func(t *testing.T) {
		assert.Equal(t, "Untitled", titleFromContent([]byte("just a paragraph")))
	})
}
