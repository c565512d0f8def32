package crawler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Kind int

const (
	KindMetadata Kind = iota + 1
	KindDocs
)

func (k Kind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindDocs:
		return "docs"
	default:
		return "unknown"
	}
}

// File is one discovered input.
type File struct {
	Path string
	Kind Kind
}

// Crawler finds metadata dumps and documentation files.
type Crawler struct {
	ignored []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler() *Crawler {
	return &Crawler{
		ignored: []string{".git", "bin", "obj", "node_modules"},
	}
}

// Classify reports the input kind of a file name.
func Classify(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".meta.yaml"),
		strings.HasSuffix(lower, ".meta.yml"),
		strings.HasSuffix(lower, ".meta.json"):
		return KindMetadata, true
	case strings.HasSuffix(lower, ".xml"):
		return KindDocs, true
	}
	return 0, false
}

// Scan visits every file of kind want under roots. A root may be a file, a
// directory or a glob pattern. Each file is reported once, in walk order.
func (c *Crawler) Scan(roots []string, want Kind, onFile func(File) error) error {
	seen := make(map[string]bool)
	visit := func(path string) error {
		kind, ok := Classify(filepath.Base(path))
		if !ok || kind != want {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return nil
		}
		seen[abs] = true
		return onFile(File{Path: path, Kind: kind})
	}

	for _, root := range roots {
		paths := []string{root}
		if strings.ContainsAny(root, "*?[") {
			matches, err := filepath.Glob(root)
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %w", root, err)
			}
			paths = matches
		}
		for _, p := range paths {
			if err := c.walk(p, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Crawler) walk(root string, visit func(string) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return visit(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if path != root {
				for _, ign := range c.ignored {
					if d.Name() == ign {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}
		return visit(path)
	})
}
