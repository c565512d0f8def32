package extension

import (
	"errors"
	"fmt"
	"strings"

	"doctoolkit/internal/metadata"
)

var (
	// ErrInvalidContainer is returned for types that cannot declare
	// extension members: nested, generic or non-static types.
	ErrInvalidContainer = errors.New("not a top-level non-generic static class")
	// ErrForeignMember is returned when a queried method is not declared by
	// the container being asked.
	ErrForeignMember = errors.New("method not declared by container")
)

// ContainerInfo holds every extension member of one static class and the
// mapping from its declared methods to their logical views. It is
// immutable once built.
type ContainerInfo struct {
	container *metadata.Type
	blocks    []*Block
	members   []Member

	logical    map[*metadata.Method]Member
	normalized map[*metadata.Method]*MethodView
}

// methodCandidate is a declared method awaiting a stub. A candidate is
// consumed at most once.
type methodCandidate struct {
	method *metadata.Method
	used   bool
}

// propertyCandidate pairs declared accessors sharing a property name.
type propertyCandidate struct {
	name   string
	getter *methodCandidate
	setter *methodCandidate
}

// NewContainerInfo canonicalises the extension members of container.
// Blocks are processed in declaration order, stubs in declaration order
// within a block; the first stub to match a declared member consumes it.
// Classic extension methods left unconsumed become synthetic blocks.
func NewContainerInfo(container *metadata.Type) (*ContainerInfo, error) {
	if container == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidContainer)
	}
	if container.IsNested() || container.IsGeneric() || !container.IsStatic() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContainer, container.FullName())
	}

	info := &ContainerInfo{
		container:  container,
		logical:    make(map[*metadata.Method]Member),
		normalized: make(map[*metadata.Method]*MethodView),
	}
	methods, accessors := collectCandidates(container)

	for _, b := range ExtractBlocks(container) {
		info.blocks = append(info.blocks, b)
		for _, stub := range b.methods {
			if declared := claimMethod(methods, stub, b.receiver); declared != nil {
				info.addMethod(newMethodView(b, stub, declared))
			}
		}
		for _, ps := range b.properties {
			var getter, setter *metadata.Method
			if ps.Getter != nil {
				getter = claimAccessor(accessors, ps.Getter, b.receiver)
			}
			if ps.Setter != nil {
				setter = claimAccessor(accessors, ps.Setter, b.receiver)
			}
			if getter == nil && setter == nil {
				continue
			}
			info.addProperty(newPropertyView(b, ps, getter, setter))
		}
	}

	for _, c := range methods {
		if c.used || !isClassicExtension(c.method) {
			continue
		}
		c.used = true
		b := newClassicBlock(container, c.method)
		info.blocks = append(info.blocks, b)
		info.addMethod(newMethodView(b, c.method, c.method))
	}
	return info, nil
}

func (c *ContainerInfo) Container() *metadata.Type { return c.container }

// Blocks returns explicit blocks first, then synthetic ones.
func (c *ContainerInfo) Blocks() []*Block { return c.blocks }

// Members returns the recognised extension members in canonical order.
func (c *ContainerInfo) Members() []Member { return c.members }

// NormalizedMethod returns the extension view of m when m implements an
// extension member, and m unchanged otherwise. Repeated calls return the
// same value.
func (c *ContainerInfo) NormalizedMethod(m *metadata.Method) (metadata.MethodInfo, error) {
	if err := c.owns(m); err != nil {
		return nil, err
	}
	if v, ok := c.normalized[m]; ok {
		return v, nil
	}
	return m, nil
}

// ExtensionMember returns the method or property view backed by m, or nil
// when m is an ordinary member of the container.
func (c *ContainerInfo) ExtensionMember(m *metadata.Method) (Member, error) {
	if err := c.owns(m); err != nil {
		return nil, err
	}
	return c.logical[m], nil
}

func (c *ContainerInfo) owns(m *metadata.Method) error {
	if m == nil || m.DeclaringType != c.container {
		name := "<nil>"
		if m != nil {
			name = m.Name
		}
		return fmt.Errorf("%w: %s is not declared by %s", ErrForeignMember, name, c.container.FullName())
	}
	return nil
}

func (c *ContainerInfo) addMethod(v *MethodView) {
	c.members = append(c.members, v)
	c.logical[v.declared] = v
	c.normalized[v.declared] = v
}

func (c *ContainerInfo) addProperty(p *PropertyView) {
	c.members = append(c.members, p)
	for _, accessor := range []*MethodView{p.getter, p.setter} {
		if accessor == nil {
			continue
		}
		c.logical[accessor.declared] = p
		c.normalized[accessor.declared] = accessor
	}
}

func collectCandidates(container *metadata.Type) ([]*methodCandidate, []*propertyCandidate) {
	var methods []*methodCandidate
	var props []*propertyCandidate
	byName := make(map[string]*propertyCandidate)

	for _, m := range container.Methods {
		if !m.IsStatic {
			continue
		}
		name, isAccessor := accessorName(m)
		if !isAccessor {
			// operators and other special names are claimable too
			methods = append(methods, &methodCandidate{method: m})
			continue
		}
		pc, ok := byName[name]
		if !ok {
			pc = &propertyCandidate{name: name}
			byName[name] = pc
			props = append(props, pc)
		}
		if strings.HasPrefix(m.Name, "get_") {
			pc.getter = &methodCandidate{method: m}
		} else {
			pc.setter = &methodCandidate{method: m}
		}
	}
	return methods, props
}

// claimMethod consumes the first unused candidate, in declaration order,
// matching stub. Overloads differing only in generic arguments match the
// same candidates; consumption pairs them up in order.
func claimMethod(candidates []*methodCandidate, stub *metadata.Method, receiver *metadata.Parameter) *metadata.Method {
	for _, c := range candidates {
		if c.used || !MatchSignature(c.method, stub, receiver) {
			continue
		}
		c.used = true
		return c.method
	}
	return nil
}

func claimAccessor(candidates []*propertyCandidate, stub *metadata.Method, receiver *metadata.Parameter) *metadata.Method {
	name, _ := accessorName(stub)
	getter := strings.HasPrefix(stub.Name, "get_")

	var pool []*methodCandidate
	for _, pc := range candidates {
		if pc.name != name {
			continue
		}
		if getter && pc.getter != nil {
			pool = append(pool, pc.getter)
		} else if !getter && pc.setter != nil {
			pool = append(pool, pc.setter)
		}
	}
	return claimMethod(pool, stub, receiver)
}

func isClassicExtension(m *metadata.Method) bool {
	return m.IsStatic && len(m.Parameters) > 0 && m.HasAttribute(ExtensionAttribute)
}
