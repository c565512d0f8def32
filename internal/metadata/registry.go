package metadata

import (
	"fmt"
	"strings"
)

// Registry owns the assemblies of one documentation run and answers
// identity queries across them.
type Registry struct {
	assemblies []*Assembly
	types      map[string]*Type
	ordered    []*Type

	// code reference -> member; nil marks an ambiguous reference.
	refs map[string]Member
}

// NewRegistry links and indexes the given assemblies.
func NewRegistry(assemblies ...*Assembly) (*Registry, error) {
	r := &Registry{types: make(map[string]*Type)}
	for _, a := range assemblies {
		if err := r.Add(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add links an assembly into the registry. A type key already registered
// by another assembly keeps the first definition.
func (r *Registry) Add(a *Assembly) error {
	if a == nil {
		return fmt.Errorf("nil assembly")
	}
	if err := a.Link(); err != nil {
		return err
	}
	r.assemblies = append(r.assemblies, a)
	for _, t := range a.AllTypes() {
		r.ordered = append(r.ordered, t)
		if _, dup := r.types[t.Key()]; !dup {
			r.types[t.Key()] = t
		}
	}
	r.refs = nil
	return nil
}

func (r *Registry) Assemblies() []*Assembly { return r.assemblies }

// Types returns every type, nested ones included, in declaration order.
func (r *Registry) Types() []*Type { return r.ordered }

// LookupType resolves a reference to its definition. Generic parameters and
// types from assemblies that were not loaded are not found.
func (r *Registry) LookupType(ref *TypeRef) (*Type, bool) {
	if ref == nil || ref.IsGenericParameter || ref.IsArray() {
		return nil, false
	}
	t, ok := r.types[ref.Key()]
	return t, ok
}

// Resolve maps a code reference back to its member. References shared by
// more than one member are ambiguous and reported as not found.
func (r *Registry) Resolve(codeRef string) (Member, bool) {
	if r.refs == nil {
		r.buildRefs()
	}
	m, ok := r.refs[codeRef]
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

// Members returns every documentable member in declaration order.
func (r *Registry) Members() []Member {
	var out []Member
	for _, t := range r.ordered {
		out = append(out, t)
		for _, m := range t.Methods {
			out = append(out, m)
		}
		for _, p := range t.Properties {
			out = append(out, p)
		}
		for _, f := range t.Fields {
			out = append(out, f)
		}
	}
	return out
}

func (r *Registry) buildRefs() {
	r.refs = make(map[string]Member)
	for _, m := range r.Members() {
		ref := CodeRef(m)
		if _, dup := r.refs[ref]; dup {
			r.refs[ref] = nil
			continue
		}
		r.refs[ref] = m
	}
}

// Link sets back-pointers, parameter positions and property accessors.
// It is idempotent.
func (a *Assembly) Link() error {
	for _, t := range a.Types {
		if err := linkType(a, nil, t); err != nil {
			return fmt.Errorf("assembly %s: %w", a.Name, err)
		}
	}
	return nil
}

func linkType(a *Assembly, declaring, t *Type) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("type without a name")
	}
	t.Assembly = a
	t.DeclaringType = declaring
	if declaring != nil && t.Namespace == "" {
		t.Namespace = declaring.Namespace
	}

	byName := make(map[string]*Method, len(t.Methods))
	for _, m := range t.Methods {
		if m == nil || m.Name == "" {
			return fmt.Errorf("type %s: method without a name", t.FullName())
		}
		m.DeclaringType = t
		for i, p := range m.Parameters {
			p.Position = i
		}
		if strings.HasPrefix(m.Name, "get_") || strings.HasPrefix(m.Name, "set_") {
			byName[m.Name] = m
		}
	}
	for _, p := range t.Properties {
		p.DeclaringType = t
		for i, ip := range p.Parameters {
			ip.Position = i
		}
		p.Getter = byName["get_"+p.Name]
		p.Setter = byName["set_"+p.Name]
	}
	for _, f := range t.Fields {
		f.DeclaringType = t
	}
	for _, nt := range t.NestedTypes {
		if err := linkType(a, t, nt); err != nil {
			return err
		}
	}
	return nil
}

// AllTypes flattens the type tree, outer types before their nested types.
func (a *Assembly) AllTypes() []*Type {
	var out []*Type
	var walk func(ts []*Type)
	walk = func(ts []*Type) {
		for _, t := range ts {
			out = append(out, t)
			walk(t.NestedTypes)
		}
	}
	walk(a.Types)
	return out
}
