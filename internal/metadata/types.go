package metadata

import "strings"

// TypeKind classifies a type definition.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindStruct    TypeKind = "struct"
	KindInterface TypeKind = "interface"
	KindEnum      TypeKind = "enum"
	KindDelegate  TypeKind = "delegate"
)

// MemberKind classifies anything that can carry documentation.
type MemberKind string

const (
	MemberType     MemberKind = "type"
	MemberMethod   MemberKind = "method"
	MemberProperty MemberKind = "property"
	MemberField    MemberKind = "field"
)

// Member is a documentable metadata element.
type Member interface {
	MemberKind() MemberKind
	MemberName() string
	// Owner is the declaring type, nil for top-level types.
	Owner() *Type
}

// Assembly is one compiled unit as exported by the metadata dump.
type Assembly struct {
	Name  string  `yaml:"name" json:"name"`
	Types []*Type `yaml:"types" json:"types"`
}

// Type is a type definition. Nested types hang off their declaring type.
type Type struct {
	Name              string       `yaml:"name" json:"name"` // simple name with arity suffix, e.g. List`1
	Namespace         string       `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Kind              TypeKind     `yaml:"kind,omitempty" json:"kind,omitempty"`
	IsPublic          bool         `yaml:"public,omitempty" json:"public,omitempty"`
	IsSealed          bool         `yaml:"sealed,omitempty" json:"sealed,omitempty"`
	IsAbstract        bool         `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	IsSpecialName     bool         `yaml:"special_name,omitempty" json:"special_name,omitempty"`
	GenericParameters []*TypeRef   `yaml:"generic_parameters,omitempty" json:"generic_parameters,omitempty"`
	BaseType          *TypeRef     `yaml:"base,omitempty" json:"base,omitempty"`
	Interfaces        []*TypeRef   `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	NestedTypes       []*Type      `yaml:"nested,omitempty" json:"nested,omitempty"`
	Methods           []*Method    `yaml:"methods,omitempty" json:"methods,omitempty"`
	Properties        []*Property  `yaml:"properties,omitempty" json:"properties,omitempty"`
	Fields            []*Field     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Attributes        []Attribute  `yaml:"attributes,omitempty" json:"attributes,omitempty"`

	DeclaringType *Type     `yaml:"-" json:"-"`
	Assembly      *Assembly `yaml:"-" json:"-"`
}

func (t *Type) MemberKind() MemberKind { return MemberType }
func (t *Type) MemberName() string     { return t.Name }
func (t *Type) Owner() *Type           { return t.DeclaringType }

// IsNested reports whether t is declared inside another type.
func (t *Type) IsNested() bool { return t.DeclaringType != nil }

// IsGeneric reports whether t introduces its own generic parameters.
func (t *Type) IsGeneric() bool { return len(t.GenericParameters) > 0 }

// IsStatic reports the static-class shape: a class both sealed and abstract.
func (t *Type) IsStatic() bool {
	return (t.Kind == "" || t.Kind == KindClass) && t.IsSealed && t.IsAbstract
}

// Ref returns a reference to t instantiated over its own generic parameters.
func (t *Type) Ref() *TypeRef {
	ref := &TypeRef{
		Name:             t.Name,
		Namespace:        t.Namespace,
		GenericArguments: t.GenericParameters,
	}
	if t.DeclaringType != nil {
		ref.DeclaringType = t.DeclaringType.Ref()
	}
	return ref
}

// Key is the definition identity of t, shared by every TypeRef naming it.
func (t *Type) Key() string { return t.Ref().Key() }

// FullName is the reflection-style full name (Namespace.Outer+Inner).
func (t *Type) FullName() string {
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "+" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

func (t *Type) HasAttribute(fullName string) bool {
	_, ok := findAttribute(t.Attributes, fullName)
	return ok
}

// Attribute returns the first attribute of the given type.
func (t *Type) Attribute(fullName string) (Attribute, bool) {
	return findAttribute(t.Attributes, fullName)
}

// Method is a method or constructor definition.
type Method struct {
	Name             string       `yaml:"name" json:"name"`
	IsStatic         bool         `yaml:"static,omitempty" json:"static,omitempty"`
	IsVirtual        bool         `yaml:"virtual,omitempty" json:"virtual,omitempty"`
	IsNewSlot        bool         `yaml:"newslot,omitempty" json:"newslot,omitempty"`
	IsAbstract       bool         `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	IsSpecialName    bool         `yaml:"special_name,omitempty" json:"special_name,omitempty"`
	ReturnType       *TypeRef     `yaml:"returns,omitempty" json:"returns,omitempty"`
	Parameters       []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	GenericArguments []*TypeRef   `yaml:"generic_arguments,omitempty" json:"generic_arguments,omitempty"`
	Attributes       []Attribute  `yaml:"attributes,omitempty" json:"attributes,omitempty"`

	DeclaringType *Type `yaml:"-" json:"-"`
}

func (m *Method) MemberKind() MemberKind { return MemberMethod }
func (m *Method) MemberName() string     { return m.Name }
func (m *Method) Owner() *Type           { return m.DeclaringType }

// IsConstructor reports instance and static constructors.
func (m *Method) IsConstructor() bool { return m.Name == ".ctor" || m.Name == ".cctor" }

// IsOverride reports a virtual method reusing its base slot.
func (m *Method) IsOverride() bool { return m.IsVirtual && !m.IsNewSlot }

// Returns is the return type, Void when none was recorded.
func (m *Method) Returns() *TypeRef {
	if m.ReturnType == nil {
		return Void
	}
	return m.ReturnType
}

func (m *Method) HasAttribute(fullName string) bool {
	_, ok := findAttribute(m.Attributes, fullName)
	return ok
}

func (m *Method) Attribute(fullName string) (Attribute, bool) {
	return findAttribute(m.Attributes, fullName)
}

// Signature implements MethodInfo.
func (m *Method) Signature() Signature {
	return Signature{
		Name:             m.Name,
		IsStatic:         m.IsStatic,
		ReturnType:       m.Returns(),
		Parameters:       m.Parameters,
		GenericArguments: m.GenericArguments,
	}
}

// DeclaringTypeRef implements MethodInfo.
func (m *Method) DeclaringTypeRef() *TypeRef {
	if m.DeclaringType == nil {
		return nil
	}
	return m.DeclaringType.Ref()
}

// CustomAttributes implements MethodInfo.
func (m *Method) CustomAttributes() []Attribute { return m.Attributes }

// Parameter is a method, accessor or indexer parameter.
type Parameter struct {
	Name     string   `yaml:"name" json:"name"`
	Type     *TypeRef `yaml:"type" json:"type"`
	IsIn     bool     `yaml:"in,omitempty" json:"in,omitempty"`
	IsOut    bool     `yaml:"out,omitempty" json:"out,omitempty"`
	Position int      `yaml:"-" json:"-"`
}

// Property is a property or indexer. Accessors are linked by name.
type Property struct {
	Name       string       `yaml:"name" json:"name"`
	Type       *TypeRef     `yaml:"type" json:"type"`
	Parameters []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Attributes []Attribute  `yaml:"attributes,omitempty" json:"attributes,omitempty"`

	Getter        *Method `yaml:"-" json:"-"`
	Setter        *Method `yaml:"-" json:"-"`
	DeclaringType *Type   `yaml:"-" json:"-"`
}

func (p *Property) MemberKind() MemberKind { return MemberProperty }
func (p *Property) MemberName() string     { return p.Name }
func (p *Property) Owner() *Type           { return p.DeclaringType }

// IsStatic follows whichever accessor exists.
func (p *Property) IsStatic() bool {
	if p.Getter != nil {
		return p.Getter.IsStatic
	}
	return p.Setter != nil && p.Setter.IsStatic
}

// IsOverride follows whichever accessor exists.
func (p *Property) IsOverride() bool {
	return (p.Getter != nil && p.Getter.IsOverride()) || (p.Setter != nil && p.Setter.IsOverride())
}

func (p *Property) HasAttribute(fullName string) bool {
	_, ok := findAttribute(p.Attributes, fullName)
	return ok
}

func (p *Property) Attribute(fullName string) (Attribute, bool) {
	return findAttribute(p.Attributes, fullName)
}

// Field is a field or enum value.
type Field struct {
	Name       string      `yaml:"name" json:"name"`
	Type       *TypeRef    `yaml:"type" json:"type"`
	IsStatic   bool        `yaml:"static,omitempty" json:"static,omitempty"`
	Attributes []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`

	DeclaringType *Type `yaml:"-" json:"-"`
}

func (f *Field) MemberKind() MemberKind { return MemberField }
func (f *Field) MemberName() string     { return f.Name }
func (f *Field) Owner() *Type           { return f.DeclaringType }

// Attribute is custom-attribute data: the attribute type full name plus
// constructor and named arguments rendered as strings.
type Attribute struct {
	Type      string            `yaml:"type" json:"type"`
	Arguments []string          `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	Named     map[string]string `yaml:"named,omitempty" json:"named,omitempty"`
}

// Argument returns the i-th constructor argument.
func (a Attribute) Argument(i int) (string, bool) {
	if i < 0 || i >= len(a.Arguments) {
		return "", false
	}
	return a.Arguments[i], true
}

func findAttribute(attrs []Attribute, fullName string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Type == fullName {
			return a, true
		}
	}
	return Attribute{}, false
}

// Signature is the shape of a method as seen by a caller.
type Signature struct {
	Name             string
	IsStatic         bool
	ReturnType       *TypeRef
	Parameters       []*Parameter
	GenericArguments []*TypeRef
}

// MethodInfo is the read surface shared by declared methods and the logical
// views that re-present them on another type.
type MethodInfo interface {
	Signature() Signature
	DeclaringTypeRef() *TypeRef
	CustomAttributes() []Attribute
}

// stripArity removes the `N generic arity suffix from a type name.
func stripArity(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}
