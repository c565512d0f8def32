package metadata

import (
	"strconv"
	"strings"
)

// Void is the return type of methods that return nothing.
var Void = &TypeRef{Name: "Void", Namespace: "System"}

// TypeRef is a use of a type inside a signature: a named type (possibly
// instantiated), a generic parameter, an array, or a by-ref wrapper.
type TypeRef struct {
	Name               string     `yaml:"name" json:"name"`
	Namespace          string     `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	IsGenericParameter bool       `yaml:"generic_parameter,omitempty" json:"generic_parameter,omitempty"`
	IsMethodParameter  bool       `yaml:"method_parameter,omitempty" json:"method_parameter,omitempty"`
	Position           int        `yaml:"position,omitempty" json:"position,omitempty"`
	GenericArguments   []*TypeRef `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	ElementType        *TypeRef   `yaml:"element,omitempty" json:"element,omitempty"`
	ArrayRank          int        `yaml:"rank,omitempty" json:"rank,omitempty"`
	IsByRef            bool       `yaml:"byref,omitempty" json:"byref,omitempty"`
	DeclaringType      *TypeRef   `yaml:"declaring,omitempty" json:"declaring,omitempty"`
}

// IsArray reports an array of ElementType.
func (r *TypeRef) IsArray() bool { return r.ElementType != nil }

// FullName is the nominal name used when comparing return types:
// Namespace.Outer+Inner`1[Arg] for named types, the parameter name for
// generic parameters.
func (r *TypeRef) FullName() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	switch {
	case r.IsArray():
		sb.WriteString(r.ElementType.FullName())
		sb.WriteString(arraySuffix(r.ArrayRank, false))
	case r.IsGenericParameter:
		sb.WriteString(r.Name)
	default:
		if r.DeclaringType != nil {
			sb.WriteString(r.DeclaringType.FullName())
			sb.WriteByte('+')
		} else if r.Namespace != "" {
			sb.WriteString(r.Namespace)
			sb.WriteByte('.')
		}
		sb.WriteString(r.Name)
		if len(r.GenericArguments) > 0 {
			args := make([]string, len(r.GenericArguments))
			for i, a := range r.GenericArguments {
				args[i] = a.FullName()
			}
			sb.WriteByte('[')
			sb.WriteString(strings.Join(args, ","))
			sb.WriteByte(']')
		}
	}
	if r.IsByRef {
		sb.WriteByte('&')
	}
	return sb.String()
}

// Key is the definition identity: two references to the same type
// definition share a key whatever their generic arguments.
func (r *TypeRef) Key() string {
	switch {
	case r == nil:
		return ""
	case r.IsArray():
		return r.ElementType.Key() + arraySuffix(r.ArrayRank, false)
	case r.IsGenericParameter && r.IsMethodParameter:
		return "!!" + strconv.Itoa(r.Position)
	case r.IsGenericParameter:
		return "!" + strconv.Itoa(r.Position)
	case r.DeclaringType != nil:
		return r.DeclaringType.Key() + "+" + r.Name
	case r.Namespace != "":
		return r.Namespace + "." + r.Name
	}
	return r.Name
}

// DocID is the code-reference encoding of the type as it appears inside a
// member signature. It doubles as the canonical identity of a possibly
// generic type use, independent of how generic parameters are named.
func (r *TypeRef) DocID() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	switch {
	case r.IsArray():
		sb.WriteString(r.ElementType.DocID())
		sb.WriteString(arraySuffix(r.ArrayRank, true))
	case r.IsGenericParameter && r.IsMethodParameter:
		sb.WriteString("``")
		sb.WriteString(strconv.Itoa(r.Position))
	case r.IsGenericParameter:
		sb.WriteByte('`')
		sb.WriteString(strconv.Itoa(r.Position))
	default:
		if r.DeclaringType != nil {
			sb.WriteString(r.DeclaringType.DocID())
			sb.WriteByte('.')
		} else if r.Namespace != "" {
			sb.WriteString(r.Namespace)
			sb.WriteByte('.')
		}
		if len(r.GenericArguments) == 0 {
			sb.WriteString(r.Name)
			break
		}
		sb.WriteString(stripArity(r.Name))
		args := make([]string, len(r.GenericArguments))
		for i, a := range r.GenericArguments {
			args[i] = a.DocID()
		}
		sb.WriteByte('{')
		sb.WriteString(strings.Join(args, ","))
		sb.WriteByte('}')
	}
	if r.IsByRef {
		sb.WriteByte('@')
	}
	return sb.String()
}

// Substitute binds type-level generic parameters to typeArgs by position.
// Method-level generic parameters and out-of-range positions stay open.
func (r *TypeRef) Substitute(typeArgs []*TypeRef) *TypeRef {
	if r == nil || len(typeArgs) == 0 {
		return r
	}
	if r.IsGenericParameter {
		if r.IsMethodParameter || r.Position < 0 || r.Position >= len(typeArgs) {
			return r
		}
		bound := *typeArgs[r.Position]
		bound.IsByRef = bound.IsByRef || r.IsByRef
		return &bound
	}
	if r.ElementType == nil && r.DeclaringType == nil && len(r.GenericArguments) == 0 {
		return r
	}
	out := *r
	out.ElementType = r.ElementType.Substitute(typeArgs)
	out.DeclaringType = r.DeclaringType.Substitute(typeArgs)
	if len(r.GenericArguments) > 0 {
		out.GenericArguments = make([]*TypeRef, len(r.GenericArguments))
		for i, a := range r.GenericArguments {
			out.GenericArguments[i] = a.Substitute(typeArgs)
		}
	}
	return &out
}

func arraySuffix(rank int, docID bool) string {
	if rank <= 1 {
		return "[]"
	}
	dims := make([]string, rank)
	for i := range dims {
		if docID {
			dims[i] = "0:"
		}
	}
	return "[" + strings.Join(dims, ",") + "]"
}
