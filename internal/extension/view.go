package extension

import (
	"errors"
	"fmt"

	"doctoolkit/internal/metadata"
)

// Member is an extension method or property as observed on its extended
// type. Views answer metadata queries from the real declared member and
// override only what changes meaning under the extension abstraction:
//
//	DeclaringTypeRef  the extended (receiver) type, not the container
//	Parameters        the receiver parameter is dropped for instance shapes
//	GenericArguments  parameters bound by the block or receiver are dropped
//	IsStatic          taken from the stub, classic methods are instance-shaped
//
// Everything else is delegated.
type Member interface {
	Kind() metadata.MemberKind
	Name() string
	IsStatic() bool
	DeclaringTypeRef() *metadata.TypeRef
	CustomAttributes() []metadata.Attribute
	Block() *Block
}

var (
	_ Member              = (*MethodView)(nil)
	_ Member              = (*PropertyView)(nil)
	_ metadata.MethodInfo = (*MethodView)(nil)
)

// ViewKey identifies a view by its backing member; independently built
// views of the same member share a key. Declared is the method, or the
// getter of a property. Paired is the setter of a property.
type ViewKey struct {
	Declared *metadata.Method
	Paired   *metadata.Method
	Receiver *metadata.Parameter
}

// MethodView presents a declared container method as an extension method.
type MethodView struct {
	block    *Block
	stub     *metadata.Method
	declared *metadata.Method
}

func newMethodView(b *Block, stub, declared *metadata.Method) *MethodView {
	return &MethodView{block: b, stub: stub, declared: declared}
}

func (v *MethodView) Kind() metadata.MemberKind { return metadata.MemberMethod }
func (v *MethodView) Name() string              { return v.declared.Name }
func (v *MethodView) Block() *Block             { return v.block }

// Stub is the member as written inside the block. For classic extension
// methods it is the declared method.
func (v *MethodView) Stub() *metadata.Method { return v.stub }

// Declared is the real static method on the container.
func (v *MethodView) Declared() *metadata.Method { return v.declared }

func (v *MethodView) Receiver() *metadata.Parameter { return v.block.receiver }

func (v *MethodView) IsStatic() bool {
	if v.block.IsSynthetic() {
		return false
	}
	return v.stub.IsStatic
}

func (v *MethodView) DeclaringTypeRef() *metadata.TypeRef { return v.block.receiver.Type }

func (v *MethodView) CustomAttributes() []metadata.Attribute { return v.declared.Attributes }

func (v *MethodView) ReturnType() *metadata.TypeRef { return v.declared.Returns() }

// Parameters excludes the receiver for instance-shaped members.
func (v *MethodView) Parameters() []*metadata.Parameter {
	params := v.declared.Parameters
	if v.IsStatic() || len(params) == 0 {
		return params
	}
	return params[1:]
}

// GenericArguments lists only the generic parameters the member introduces
// itself. Block members drop the block's type parameters from the front;
// classic methods drop parameters already bound by the receiver type.
func (v *MethodView) GenericArguments() []*metadata.TypeRef {
	args := v.declared.GenericArguments
	if !v.block.IsSynthetic() {
		skip := len(v.block.typeParams)
		if skip >= len(args) {
			return nil
		}
		return args[skip:]
	}

	bound := make(map[int]bool)
	collectMethodParameters(v.block.receiver.Type, bound)
	var own []*metadata.TypeRef
	for _, a := range args {
		if a.IsGenericParameter && bound[a.Position] {
			continue
		}
		own = append(own, a)
	}
	return own
}

func (v *MethodView) Signature() metadata.Signature {
	return metadata.Signature{
		Name:             v.Name(),
		IsStatic:         v.IsStatic(),
		ReturnType:       v.ReturnType(),
		Parameters:       v.Parameters(),
		GenericArguments: v.GenericArguments(),
	}
}

func (v *MethodView) Key() ViewKey {
	return ViewKey{Declared: v.declared, Receiver: v.block.receiver}
}

// Equal compares backing members, not view identity.
func (v *MethodView) Equal(other *MethodView) bool {
	return other != nil && v.Key() == other.Key()
}

// Invoke is not supported: views exist for inspection only.
func (v *MethodView) Invoke(args ...any) (any, error) {
	return nil, fmt.Errorf("invoke %s: %w", v.Name(), errors.ErrUnsupported)
}

func (v *MethodView) String() string {
	return v.block.receiver.Type.FullName() + "." + v.Name()
}

// PropertyView presents declared accessor methods as an extension property.
type PropertyView struct {
	block  *Block
	stub   *PropertyStub
	getter *MethodView
	setter *MethodView
}

func newPropertyView(b *Block, stub *PropertyStub, getter, setter *metadata.Method) *PropertyView {
	pv := &PropertyView{block: b, stub: stub}
	if getter != nil {
		pv.getter = newMethodView(b, stub.Getter, getter)
	}
	if setter != nil {
		pv.setter = newMethodView(b, stub.Setter, setter)
	}
	return pv
}

func (p *PropertyView) Kind() metadata.MemberKind { return metadata.MemberProperty }
func (p *PropertyView) Name() string              { return p.stub.Name }
func (p *PropertyView) Block() *Block             { return p.block }
func (p *PropertyView) Stub() *PropertyStub       { return p.stub }
func (p *PropertyView) Getter() *MethodView       { return p.getter }
func (p *PropertyView) Setter() *MethodView       { return p.setter }

func (p *PropertyView) IsStatic() bool {
	if p.getter != nil {
		return p.getter.IsStatic()
	}
	return p.setter.IsStatic()
}

func (p *PropertyView) DeclaringTypeRef() *metadata.TypeRef { return p.block.receiver.Type }

// PropertyType comes from the stub property, or from the accessors when
// the compiler emitted accessors only.
func (p *PropertyView) PropertyType() *metadata.TypeRef {
	if p.stub.Property != nil && p.stub.Property.Type != nil {
		return p.stub.Property.Type
	}
	if p.getter != nil {
		return p.getter.ReturnType()
	}
	params := p.setter.Parameters()
	if len(params) == 0 {
		return nil
	}
	return params[len(params)-1].Type
}

// CustomAttributes are the stub property's attributes without the marker.
func (p *PropertyView) CustomAttributes() []metadata.Attribute {
	if p.stub.Property == nil {
		return nil
	}
	var out []metadata.Attribute
	for _, a := range p.stub.Property.Attributes {
		if a.Type != ExtensionMarkerAttribute {
			out = append(out, a)
		}
	}
	return out
}

// Accessors returns the declared accessor methods that back the property.
func (p *PropertyView) Accessors() []*metadata.Method {
	var out []*metadata.Method
	if p.getter != nil {
		out = append(out, p.getter.declared)
	}
	if p.setter != nil {
		out = append(out, p.setter.declared)
	}
	return out
}

func (p *PropertyView) Key() ViewKey {
	k := ViewKey{Receiver: p.block.receiver}
	if p.getter != nil {
		k.Declared = p.getter.declared
	}
	if p.setter != nil {
		k.Paired = p.setter.declared
	}
	return k
}

func (p *PropertyView) Equal(other *PropertyView) bool {
	return other != nil && p.Key() == other.Key()
}

func (p *PropertyView) String() string {
	return p.block.receiver.Type.FullName() + "." + p.Name()
}

func collectMethodParameters(ref *metadata.TypeRef, into map[int]bool) {
	if ref == nil {
		return
	}
	if ref.IsGenericParameter {
		if ref.IsMethodParameter {
			into[ref.Position] = true
		}
		return
	}
	collectMethodParameters(ref.ElementType, into)
	collectMethodParameters(ref.DeclaringType, into)
	for _, a := range ref.GenericArguments {
		collectMethodParameters(a, into)
	}
}
