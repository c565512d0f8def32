package xmldoc

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/beevik/etree"
)

// ResolveIncludes replaces every <include file="..." path="..."/> in doc
// with the elements the path selects in the referenced file. Selected
// <member> entries contribute their children. Each file is parsed once per
// call.
//
// A missing file fails the call unless an error handler is installed; a
// path without matches is reported and the directive is left in place.
func (r *Repository) ResolveIncludes(doc *etree.Document, baseDir string) error {
	files := make(map[string]*etree.Document)

	for _, inc := range doc.FindElements("//" + TagInclude) {
		file := inc.SelectAttrValue("file", "")
		expr := inc.SelectAttrValue("path", "")
		if file == "" || expr == "" {
			continue
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(baseDir, file)
		}

		src, ok := files[file]
		if !ok {
			var err error
			src, err = loadInclude(file)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				r.stats.MissingIncludeFiles++
				if r.handler == nil {
					return fmt.Errorf("%w: %s: %w", ErrIncludeFileNotFound, file, err)
				}
				r.handler.IncludeFileNotFound(owner(inc), file)
				continue
			}
			files[file] = src
		}

		matches, err := selectIncluded(src, expr)
		if err != nil || len(matches) == 0 {
			r.stats.MissingIncludePaths++
			r.debug("include path matched nothing", "file", file, "path", expr, "err", err)
			if r.handler != nil {
				r.handler.IncludePathNotMatched(owner(inc), file, expr)
			}
			continue
		}
		splice(inc, matches)
		r.stats.IncludesResolved++
	}
	return nil
}

func loadInclude(file string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to parse include file %s: %w", file, err)
	}
	return doc, nil
}

func selectIncluded(doc *etree.Document, expr string) ([]*etree.Element, error) {
	path, err := etree.CompilePath(expr)
	if err != nil {
		return nil, err
	}
	return doc.FindElementsPath(path), nil
}

// splice swaps inc for copies of matches, keeping document order.
func splice(inc *etree.Element, matches []*etree.Element) {
	parent := inc.Parent()
	at := inc.Index()
	parent.RemoveChildAt(at)
	for _, m := range matches {
		if m.Tag == TagMember {
			for _, c := range m.Copy().ChildElements() {
				parent.InsertChildAt(at, c)
				at++
			}
			continue
		}
		parent.InsertChildAt(at, m.Copy())
		at++
	}
}

// owner is the member entry enclosing el, or el's parent outside entries.
func owner(el *etree.Element) *etree.Element {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag == TagMember {
			return p
		}
	}
	if p := el.Parent(); p != nil {
		return p
	}
	return el
}
