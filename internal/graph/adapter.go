package graph

import (
	"doctoolkit/internal/extension"
	"doctoolkit/internal/metadata"
	"doctoolkit/internal/xmldoc"
)

// KindDoc marks a node known only from documentation.
const KindDoc = "doc"

// FromMember converts a metadata member into a graph Symbol with its
// belongs_to relation.
func FromMember(m metadata.Member) *Symbol {
	if m == nil {
		return nil
	}
	s := &Symbol{
		ID:   metadata.CodeRef(m),
		Kind: string(m.MemberKind()),
		Name: m.MemberName(),
	}
	if owner := m.Owner(); owner != nil {
		s.Owner = metadata.CodeRef(owner)
		s.Relations = append(s.Relations, Relation{Target: s.Owner, Kind: RelationBelongsTo})
	}
	if a := assemblyOf(m); a != nil {
		s.Assembly = a.Name
	}
	return s
}

func assemblyOf(m metadata.Member) *metadata.Assembly {
	t, ok := m.(*metadata.Type)
	if !ok {
		t = m.Owner()
	}
	for t != nil && t.DeclaringType != nil {
		t = t.DeclaringType
	}
	if t == nil {
		return nil
	}
	return t.Assembly
}

// AddMember is a convenience wrapper around FromMember.
func (g *Graph) AddMember(m metadata.Member) {
	g.AddSymbol(FromMember(m))
}

// AddDoc marks the documented node, creating a doc-only node when the
// member is not in the loaded metadata, and adds a references relation per
// cref.
func (g *Graph) AddDoc(doc *xmldoc.MemberDoc) {
	if doc == nil || doc.CodeRef == "" {
		return
	}
	_, name := metadata.SplitCodeRef(doc.CodeRef)
	s := &Symbol{ID: doc.CodeRef, Kind: KindDoc, Name: name, Documented: true}
	for _, ref := range doc.References() {
		if ref == doc.CodeRef {
			continue
		}
		s.Relations = append(s.Relations, Relation{Target: ref, Kind: RelationReferences})
	}
	g.AddSymbol(s)
}

// AddResolution records that the target's documentation was copied from
// the source.
func (g *Graph) AddResolution(r xmldoc.Resolution) {
	if r.Source == "" {
		return
	}
	g.AddRelation(r.Target, Relation{Target: r.Source, Kind: RelationInheritsDoc})
}

// AddExtension flags the declared members backing v and links them to the
// extended type.
func (g *Graph) AddExtension(v extension.Member) {
	extended := metadata.TypeCodeRef(v.DeclaringTypeRef())
	for _, declared := range backingMethods(v) {
		id := metadata.CodeRef(declared)
		if _, ok := g.Nodes[id]; !ok {
			g.AddMember(declared)
		}
		node := g.Nodes[id]
		node.Symbol.Extension = true
		if extended != "" {
			g.AddRelation(id, Relation{Target: extended, Kind: RelationExtends})
		}
	}
}

func backingMethods(v extension.Member) []*metadata.Method {
	switch m := v.(type) {
	case *extension.MethodView:
		return []*metadata.Method{m.Declared()}
	case *extension.PropertyView:
		return m.Accessors()
	}
	return nil
}
