// Package xmldoc loads compiled XML documentation files and resolves the
// <include> and <inheritdoc> directives they contain.
package xmldoc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/charmbracelet/log"
)

// Tags with meaning to the repository.
const (
	TagMember     = "member"
	TagInclude    = "include"
	TagInheritDoc = "inheritdoc"
)

type entryState int

const (
	stateUnresolved entryState = iota
	stateResolving
	stateResolved
)

type entry struct {
	codeRef string
	elem    *etree.Element
	doc     *etree.Document
	state   entryState
}

// InheritanceSource answers which members a documented member inherits its
// contract from, nearest first. *metadata.Registry implements it.
type InheritanceSource interface {
	InheritedCodeRefs(codeRef string) []string
}

// Resolution records one merged <inheritdoc> marker.
type Resolution struct {
	Target   string
	Source   string
	Strategy string
}

type Stats struct {
	Files               int
	Entries             int
	InheritResolved     int
	InheritUnresolved   int
	IncludesResolved    int
	MissingIncludeFiles int
	MissingIncludePaths int
}

// Repository holds documentation entries keyed by code reference.
// Entries are imported as written and resolved lazily on first lookup, so
// a member may inherit from one imported later. Not safe for concurrent use.
type Repository struct {
	entries map[string]*entry
	order   []string

	handler ErrorHandler
	inherit InheritanceSource
	logger  *log.Logger
	sources []sourceStrategy

	resolutions []Resolution
	stats       Stats
}

type Option func(*Repository)

// WithErrorHandler installs h. Without a handler, missing include files
// fail the import and every other problem is skipped silently.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Repository) { r.handler = h }
}

// WithInheritanceSource enables <inheritdoc/> markers without attributes.
func WithInheritanceSource(src InheritanceSource) Option {
	return func(r *Repository) { r.inherit = src }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		entries: make(map[string]*entry),
		sources: defaultSources(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ImportFile reads a documentation file. Include paths are relative to the
// file's directory.
func (r *Repository) ImportFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open doc file %s: %w", path, err)
	}
	defer f.Close()

	if err := r.Import(f, filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	return nil
}

// Import parses one documentation file, inlines its includes and registers
// every member entry. A later import of the same code reference replaces
// the earlier one.
func (r *Repository) Import(rd io.Reader, baseDir string) error {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rd); err != nil {
		return fmt.Errorf("failed to parse xml: %w", err)
	}
	if err := r.ResolveIncludes(doc, baseDir); err != nil {
		return err
	}

	r.stats.Files++
	count := 0
	for _, m := range doc.FindElements("//" + TagMember + "[@name]") {
		name := strings.TrimSpace(m.SelectAttrValue("name", ""))
		if name == "" {
			continue
		}
		if _, exists := r.entries[name]; !exists {
			r.order = append(r.order, name)
		}
		r.entries[name] = &entry{codeRef: name, elem: m, doc: doc}
		count++
	}
	r.stats.Entries = len(r.entries)
	r.debug("imported documentation", "dir", baseDir, "members", count)
	return nil
}

// Lookup returns the documentation entry for codeRef. An entry that still
// carries <inheritdoc> markers is resolved first; an entry already being
// resolved further up the call stack is returned as it currently stands.
func (r *Repository) Lookup(codeRef string) (*etree.Element, bool) {
	e, ok := r.entries[codeRef]
	if !ok {
		return nil, false
	}
	if e.state == stateUnresolved {
		r.resolve(e)
	}
	return e.elem, true
}

// Member returns the typed view of the resolved entry for codeRef.
func (r *Repository) Member(codeRef string) (*MemberDoc, bool) {
	elem, ok := r.Lookup(codeRef)
	if !ok {
		return nil, false
	}
	return ParseMember(elem), true
}

// ResolveInheritDoc expands the <inheritdoc> markers of one entry. It
// reports false when codeRef has no entry. Resolving twice is a no-op.
func (r *Repository) ResolveInheritDoc(codeRef string) bool {
	_, ok := r.Lookup(codeRef)
	return ok
}

// ResolveAll resolves every entry in import order.
func (r *Repository) ResolveAll() {
	for _, ref := range r.order {
		r.Lookup(ref)
	}
}

// CodeRefs lists documented code references in first-import order.
func (r *Repository) CodeRefs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Repository) Resolutions() []Resolution { return r.resolutions }

func (r *Repository) Stats() Stats { return r.stats }

func (r *Repository) resolve(e *entry) {
	if e.state != stateUnresolved {
		return
	}
	e.state = stateResolving
	defer func() { e.state = stateResolved }()

	markers := directChildren(e.elem, TagInheritDoc)
	if len(markers) == 0 {
		return
	}

	merged := make(map[*etree.Element]bool)
	for _, marker := range markers {
		e.elem.RemoveChild(marker)

		src, strategy := r.findSource(e, marker)
		if src == nil {
			r.stats.InheritUnresolved++
			r.debug("inheritdoc source not found", "member", e.codeRef)
			if r.handler != nil {
				r.handler.UnresolvedInheritDoc(e.elem)
			}
			continue
		}
		r.stats.InheritResolved++
		if merged[src] || src == e.elem {
			continue
		}
		merged[src] = true
		mergeInto(e.elem, src)
		r.resolutions = append(r.resolutions, Resolution{
			Target:   e.codeRef,
			Source:   src.SelectAttrValue("name", ""),
			Strategy: strategy,
		})
	}
}

func (r *Repository) debug(msg string, keyvals ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, keyvals...)
	}
}

func directChildren(e *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}
