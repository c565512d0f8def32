package analysis

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"doctoolkit/internal/git"
	"doctoolkit/internal/xmldoc"
)

// ChangedCodeRefs maps diff hunks in documentation files under root to the
// member entries whose lines they touch. Files deleted since the diff base
// are skipped.
func ChangedCodeRefs(root string, changes []git.ChangedFile) ([]string, error) {
	var refs []string
	seen := make(map[string]bool)

	for _, c := range changes {
		path := c.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		spans, err := xmldoc.MemberSpans(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Path, err)
		}

		for _, span := range spans {
			if seen[span.CodeRef] {
				continue
			}
			for _, line := range c.ChangedLines {
				if span.Contains(line) {
					seen[span.CodeRef] = true
					refs = append(refs, span.CodeRef)
					break
				}
			}
		}
	}
	return refs, nil
}
