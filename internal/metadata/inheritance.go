package metadata

import "strings"

// InheritanceCandidates lists the members m inherits documentation from:
// overridden base members nearest first, then interface members m
// implements. Types yield their base chain followed by their interfaces.
func (r *Registry) InheritanceCandidates(m Member) []Member {
	switch v := m.(type) {
	case *Type:
		return r.typeCandidates(v)
	case *Method:
		return r.methodCandidates(v)
	case *Property:
		return r.propertyCandidates(v)
	}
	return nil
}

// InheritedCodeRefs is InheritanceCandidates keyed by code reference.
func (r *Registry) InheritedCodeRefs(codeRef string) []string {
	m, ok := r.Resolve(codeRef)
	if !ok {
		return nil
	}
	candidates := r.InheritanceCandidates(m)
	refs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		refs = append(refs, CodeRef(c))
	}
	return refs
}

// boundType is a type definition reached through a reference whose generic
// arguments are expressed in the terms of the type we started from.
type boundType struct {
	def  *Type
	args []*TypeRef
}

func (r *Registry) baseChain(t *Type) []boundType {
	var chain []boundType
	seen := map[*Type]bool{t: true}
	ref := t.BaseType
	for ref != nil {
		def, ok := r.LookupType(ref)
		if !ok || seen[def] {
			break
		}
		seen[def] = true
		chain = append(chain, boundType{def: def, args: ref.GenericArguments})
		ref = def.BaseType.Substitute(ref.GenericArguments)
	}
	return chain
}

// interfaces collects the interfaces of t and of its base chain, each once.
func (r *Registry) interfaces(t *Type) []boundType {
	var out []boundType
	seen := make(map[string]bool)
	add := func(refs []*TypeRef, args []*TypeRef) {
		for _, ref := range refs {
			bound := ref.Substitute(args)
			id := bound.DocID()
			if seen[id] {
				continue
			}
			seen[id] = true
			if def, ok := r.LookupType(bound); ok {
				out = append(out, boundType{def: def, args: bound.GenericArguments})
			}
		}
	}
	add(t.Interfaces, nil)
	for _, b := range r.baseChain(t) {
		add(b.def.Interfaces, b.args)
	}
	return out
}

func (r *Registry) typeCandidates(t *Type) []Member {
	var out []Member
	for _, b := range r.baseChain(t) {
		out = append(out, b.def)
	}
	for _, b := range r.interfaces(t) {
		out = append(out, b.def)
	}
	return out
}

func (r *Registry) methodCandidates(m *Method) []Member {
	dt := m.DeclaringType
	if dt == nil {
		return nil
	}
	var out []Member
	if m.IsOverride() || m.IsConstructor() {
		for _, b := range r.baseChain(dt) {
			for _, c := range b.def.Methods {
				if sameMethod(m, c, b.args) {
					out = append(out, c)
					break
				}
			}
		}
	}
	if m.IsStatic || m.IsConstructor() {
		return out
	}
	for _, b := range r.interfaces(dt) {
		for _, c := range b.def.Methods {
			if implementsMethod(m, c, b) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (r *Registry) propertyCandidates(p *Property) []Member {
	dt := p.DeclaringType
	if dt == nil {
		return nil
	}
	var out []Member
	if p.IsOverride() {
		for _, b := range r.baseChain(dt) {
			for _, c := range b.def.Properties {
				if c.Name == p.Name && sameParameters(p.Parameters, c.Parameters, b.args) {
					out = append(out, c)
					break
				}
			}
		}
	}
	if p.IsStatic() {
		return out
	}
	for _, b := range r.interfaces(dt) {
		for _, c := range b.def.Properties {
			if !sameParameters(p.Parameters, c.Parameters, b.args) {
				continue
			}
			if c.Name == p.Name || isExplicitName(p.Name, c.Name, b.def) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// sameMethod compares a derived method with a base candidate whose type
// parameters are bound by args.
func sameMethod(m, c *Method, args []*TypeRef) bool {
	return m.Name == c.Name &&
		len(m.GenericArguments) == len(c.GenericArguments) &&
		sameParameters(m.Parameters, c.Parameters, args)
}

func implementsMethod(m, c *Method, iface boundType) bool {
	if len(m.GenericArguments) != len(c.GenericArguments) ||
		!sameParameters(m.Parameters, c.Parameters, iface.args) {
		return false
	}
	return m.Name == c.Name || isExplicitName(m.Name, c.Name, iface.def)
}

func sameParameters(ps, cs []*Parameter, args []*TypeRef) bool {
	if len(ps) != len(cs) {
		return false
	}
	for i := range ps {
		if ps[i].Type.DocID() != cs[i].Type.Substitute(args).DocID() {
			return false
		}
	}
	return true
}

// isExplicitName matches explicit interface implementations, which carry
// the qualified interface name: Sample.IShape.Area or
// System.Collections.Generic.IEnumerable<T>.GetEnumerator.
func isExplicitName(name, ifaceMember string, iface *Type) bool {
	if !strings.HasSuffix(name, "."+ifaceMember) {
		return false
	}
	qualifier := strings.TrimSuffix(name, "."+ifaceMember)
	if i := strings.IndexByte(qualifier, '<'); i >= 0 {
		qualifier = qualifier[:i]
	}
	want := stripArity(iface.Name)
	if iface.Namespace != "" {
		want = iface.Namespace + "." + want
	}
	return qualifier == want
}
