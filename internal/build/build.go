// Package build renders the content directory's Markdown files to
// minified HTML fragments under the configured output directory.
package build

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/alderfall/alder/internal/config"
)

// Page is one rendered content file.
type Page struct {
	Slug  string
	Title string
	HTML  string
}

// Run walks cfg.ContentDir for *.md files, renders each to HTML and
// writes the minified result under cfg.OutputDir, preserving the
// directory structure relative to ContentDir.
func Run(cfg *config.Config, log *slog.Logger) ([]Page, error) {
	var pages []Page

	err := filepath.WalkDir(cfg.ContentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}

		page, err := renderFile(cfg.ContentDir, path)
		if err != nil {
			return fmt.Errorf("build: render %s: %w", path, err)
		}
		pages = append(pages, page)

		out := filepath.Join(cfg.OutputDir, strings.TrimSuffix(page.Slug, ".md")+".html")
		if err := writeFile(out, minify(page.HTML)); err != nil {
			return fmt.Errorf("build: write %s: %w", out, err)
		}

		log.Debug("rendered page", "slug", page.Slug, "out", out)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("build complete", "pages", len(pages), "out_dir", cfg.OutputDir)
	return pages, nil
}

func renderFile(root, path string) (Page, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Page{}, err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return Page{}, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	return Page{
		Slug:  filepath.ToSlash(rel),
		Title: titleFromContent(src),
		HTML:  buf.String(),
	}, nil
}

func titleFromContent(src []byte) string {
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return "Untitled"
}

// collapseWhitespace squeezes runs of whitespace between tags — the
// retrieval pack has no minifier of any kind (checked against every
// manifest in _examples), so this stays a small stdlib regexp pass
// rather than reaching for a dependency that was never in scope.
var collapseWhitespace = regexp.MustCompile(`>\s+<`)

func minify(html string) string {
	return collapseWhitespace.ReplaceAllString(strings.TrimSpace(html), "><")
}

func writeFile(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}
