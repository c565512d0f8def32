package extension

import (
	"strings"

	"doctoolkit/internal/metadata"
)

// Names emitted by the compiler for extension constructs.
const (
	// MarkerMethodName is the static method on a marker type whose single
	// parameter is the block's receiver.
	MarkerMethodName = "<Extension>$"
	// ExtensionAttribute marks grouping types and classic extension methods.
	ExtensionAttribute = "System.Runtime.CompilerServices.ExtensionAttribute"
	// ExtensionMarkerAttribute ties a stub member to its marker type; the
	// first constructor argument is the marker type name.
	ExtensionMarkerAttribute = "System.Runtime.CompilerServices.ExtensionMarkerAttribute"
)

// Block is one extension block: a receiver shared by a set of stub members.
// Classic extension methods are represented as synthetic blocks holding the
// method itself, with no grouping or marker type.
type Block struct {
	container  *metadata.Type
	grouping   *metadata.Type
	marker     *metadata.Type
	receiver   *metadata.Parameter
	typeParams []*metadata.TypeRef
	methods    []*metadata.Method
	properties []*PropertyStub
}

// PropertyStub is a property declared inside a block together with its
// accessor stubs. Property is nil when only the accessors were emitted.
type PropertyStub struct {
	Name     string
	Property *metadata.Property
	Getter   *metadata.Method
	Setter   *metadata.Method
}

func (b *Block) Container() *metadata.Type { return b.container }

// DeclaringType is the declaring scope of the block, the container.
func (b *Block) DeclaringType() *metadata.Type { return b.container }

func (b *Block) Grouping() *metadata.Type            { return b.grouping }
func (b *Block) Marker() *metadata.Type              { return b.marker }
func (b *Block) Receiver() *metadata.Parameter       { return b.receiver }
func (b *Block) TypeParameters() []*metadata.TypeRef { return b.typeParams }
func (b *Block) Methods() []*metadata.Method         { return b.methods }
func (b *Block) Properties() []*PropertyStub         { return b.properties }

// IsSynthetic reports a classic extension method wrapped as a block.
func (b *Block) IsSynthetic() bool { return b.marker == nil }

// ExtendedType is the receiver type.
func (b *Block) ExtendedType() *metadata.TypeRef { return b.receiver.Type }

// ExtractBlocks recognises the extension blocks compiled into container.
// A grouping type is a nested special-name type carrying ExtensionAttribute;
// each special-name marker type nested in it that exposes MarkerMethodName
// with one parameter yields a block. Markers without a receiver are skipped.
func ExtractBlocks(container *metadata.Type) []*Block {
	var blocks []*Block
	for _, grouping := range container.NestedTypes {
		if !grouping.IsSpecialName || !grouping.HasAttribute(ExtensionAttribute) {
			continue
		}
		for _, marker := range grouping.NestedTypes {
			if !marker.IsSpecialName {
				continue
			}
			receiver, ok := receiverOf(marker)
			if !ok {
				continue
			}
			blocks = append(blocks, newBlock(container, grouping, marker, receiver))
		}
	}
	return blocks
}

func receiverOf(marker *metadata.Type) (*metadata.Parameter, bool) {
	for _, m := range marker.Methods {
		if m.Name != MarkerMethodName || len(m.Parameters) > 1 {
			continue
		}
		if len(m.Parameters) == 1 {
			return m.Parameters[0], true
		}
	}
	return nil, false
}

func newBlock(container, grouping, marker *metadata.Type, receiver *metadata.Parameter) *Block {
	b := &Block{
		container:  container,
		grouping:   grouping,
		marker:     marker,
		receiver:   receiver,
		typeParams: grouping.GenericParameters,
	}

	props := make(map[string]*metadata.Property, len(grouping.Properties))
	for _, p := range grouping.Properties {
		props[p.Name] = p
	}
	stubs := make(map[string]*PropertyStub)

	for _, m := range grouping.Methods {
		name, isAccessor := accessorName(m)
		if !isAccessor {
			if !markedFor(m.Attributes, marker.Name) {
				continue
			}
			b.methods = append(b.methods, m)
			continue
		}

		prop := props[name]
		if !markedFor(m.Attributes, marker.Name) && (prop == nil || !markedFor(prop.Attributes, marker.Name)) {
			continue
		}
		stub, ok := stubs[name]
		if !ok {
			stub = &PropertyStub{Name: name, Property: prop}
			stubs[name] = stub
			b.properties = append(b.properties, stub)
		}
		if strings.HasPrefix(m.Name, "get_") {
			stub.Getter = m
		} else {
			stub.Setter = m
		}
	}
	return b
}

func newClassicBlock(container *metadata.Type, m *metadata.Method) *Block {
	return &Block{
		container: container,
		receiver:  m.Parameters[0],
		methods:   []*metadata.Method{m},
	}
}

// accessorName strips get_/set_ from special-name accessor methods.
func accessorName(m *metadata.Method) (string, bool) {
	if !m.IsSpecialName {
		return "", false
	}
	if name, ok := strings.CutPrefix(m.Name, "get_"); ok {
		return name, true
	}
	if name, ok := strings.CutPrefix(m.Name, "set_"); ok {
		return name, true
	}
	return "", false
}

func markedFor(attrs []metadata.Attribute, markerName string) bool {
	for _, a := range attrs {
		if a.Type != ExtensionMarkerAttribute {
			continue
		}
		if arg, ok := a.Argument(0); ok && arg == markerName {
			return true
		}
	}
	return false
}
