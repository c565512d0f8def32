package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func rel(t *testing.T, root string, files []File) []string {
	t.Helper()
	var out []string
	for _, f := range files {
		r, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestClassify(t *testing.T) {
	for name, want := range map[string]Kind{
		"Sample.meta.yaml": KindMetadata,
		"Sample.META.yml":  KindMetadata,
		"Sample.meta.json": KindMetadata,
		"Sample.xml":       KindDocs,
	} {
		kind, ok := Classify(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, kind, name)
	}

	for _, name := range []string{"Sample.yaml", "Sample.dll", "config.json"} {
		_, ok := Classify(name)
		assert.False(t, ok, name)
	}
}

func TestCrawler_Scan(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"meta/Sample.meta.yaml",
		"meta/Other.meta.json",
		"docs/Sample.xml",
		"docs/nested/Extra.xml",
		"bin/Debug/Sample.xml",
		"obj/Sample.meta.yaml",
		".git/config.xml",
		"README.md",
	)
	c := NewCrawler()

	t.Run("Metadata", func(t *testing.T) {
		var files []File
		err := c.Scan([]string{root}, KindMetadata, func(f File) error {
			files = append(files, f)
			return nil
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"meta/Sample.meta.yaml", "meta/Other.meta.json"}, rel(t, root, files))
	})

	t.Run("Docs", func(t *testing.T) {
		var files []File
		err := c.Scan([]string{root}, KindDocs, func(f File) error {
			files = append(files, f)
			return nil
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"docs/Sample.xml", "docs/nested/Extra.xml"}, rel(t, root, files))
	})

	t.Run("Glob and overlapping roots", func(t *testing.T) {
		var files []File
		roots := []string{
			filepath.Join(root, "meta", "*.meta.yaml"),
			filepath.Join(root, "meta"),
		}
		err := c.Scan(roots, KindMetadata, func(f File) error {
			files = append(files, f)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"meta/Sample.meta.yaml", "meta/Other.meta.json"}, rel(t, root, files))
	})

	t.Run("Missing root", func(t *testing.T) {
		err := c.Scan([]string{filepath.Join(root, "nope")}, KindDocs, func(File) error { return nil })
		assert.Error(t, err)
	})
}
