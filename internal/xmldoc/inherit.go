package xmldoc

import (
	"github.com/beevik/etree"
)

// sourceStrategy locates the element an <inheritdoc> marker copies from.
// applies is false when the marker does not select this strategy.
type sourceStrategy interface {
	Name() string
	Find(r *Repository, target *entry, marker *etree.Element) (src *etree.Element, applies bool)
}

func defaultSources() []sourceStrategy {
	return []sourceStrategy{crefSource{}, pathSource{}, implicitSource{}}
}

func (r *Repository) findSource(target *entry, marker *etree.Element) (*etree.Element, string) {
	for _, s := range r.sources {
		src, applies := s.Find(r, target, marker)
		if !applies {
			continue
		}
		if src != nil {
			return src, s.Name()
		}
	}
	return nil, ""
}

// crefSource follows <inheritdoc cref="..."/>.
type crefSource struct{}

func (crefSource) Name() string { return "cref" }

func (crefSource) Find(r *Repository, _ *entry, marker *etree.Element) (*etree.Element, bool) {
	cref := marker.SelectAttrValue("cref", "")
	if cref == "" {
		return nil, false
	}
	src, _ := r.Lookup(cref)
	return src, true
}

// pathSource evaluates <inheritdoc path="..."/> against the document the
// target was imported from. A match below a member entry selects that entry.
type pathSource struct{}

func (pathSource) Name() string { return "path" }

func (pathSource) Find(r *Repository, target *entry, marker *etree.Element) (*etree.Element, bool) {
	expr := marker.SelectAttrValue("path", "")
	if expr == "" {
		return nil, false
	}
	path, err := etree.CompilePath(expr)
	if err != nil {
		r.debug("invalid inheritdoc path", "member", target.codeRef, "path", expr, "err", err)
		return nil, true
	}
	match := target.doc.FindElementPath(path)
	if match == nil {
		return nil, true
	}
	if match.Tag != TagMember && match.Parent() != nil {
		match = match.Parent()
	}
	if name := match.SelectAttrValue("name", ""); name != "" {
		if e, ok := r.entries[name]; ok && e.elem == match {
			r.resolve(e)
		}
	}
	return match, true
}

// implicitSource applies to bare <inheritdoc/> and asks the inheritance
// source for the overridden or implemented members, nearest first.
type implicitSource struct{}

func (implicitSource) Name() string { return "implicit" }

func (implicitSource) Find(r *Repository, target *entry, marker *etree.Element) (*etree.Element, bool) {
	if marker.SelectAttr("cref") != nil || marker.SelectAttr("path") != nil {
		return nil, false
	}
	if r.inherit == nil {
		return nil, true
	}
	for _, ref := range r.inherit.InheritedCodeRefs(target.codeRef) {
		if src, ok := r.Lookup(ref); ok {
			return src, true
		}
	}
	return nil, true
}

// multiValued tags are keyed by an attribute; every other tag may appear
// once per entry.
var multiValued = map[string]string{
	"param":      "name",
	"typeparam":  "name",
	"exception":  "cref",
	"permission": "cref",
	"seealso":    "cref",
}

// mergeInto deep-copies the children of src into target, skipping tags the
// target already documents.
func mergeInto(target, src *etree.Element) {
	dup := src.Copy()
	tokens := append([]etree.Token(nil), dup.Child...)
	for _, tok := range tokens {
		el, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		if el.Tag == TagInheritDoc || el.Tag == TagInclude || documents(target, el) {
			continue
		}
		target.AddChild(el)
	}
}

func documents(target, el *etree.Element) bool {
	key, multi := multiValued[el.Tag]
	for _, c := range target.ChildElements() {
		if c.Tag != el.Tag {
			continue
		}
		if !multi || c.SelectAttrValue(key, "") == el.SelectAttrValue(key, "") {
			return true
		}
	}
	return false
}
