package metadata

import (
	"strconv"
	"strings"
)

// Code-reference prefixes of the documentation export format.
const (
	PrefixType     = "T:"
	PrefixMethod   = "M:"
	PrefixProperty = "P:"
	PrefixField    = "F:"
	PrefixError    = "!:"
)

// CodeRef returns the documentation code reference for m, e.g.
// M:Sample.Widget.Resize(System.Int32,System.Int32).
func CodeRef(m Member) string {
	switch v := m.(type) {
	case *Type:
		return PrefixType + typeDocName(v)
	case *Method:
		return PrefixMethod + methodDocName(v)
	case *Property:
		return PrefixProperty + ownerDocName(v.DeclaringType) + memberDocName(v.Name) + paramList(v.Parameters)
	case *Field:
		return PrefixField + ownerDocName(v.DeclaringType) + memberDocName(v.Name)
	}
	return ""
}

func typeDocName(t *Type) string {
	if t.DeclaringType != nil {
		return typeDocName(t.DeclaringType) + "." + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

func ownerDocName(t *Type) string {
	if t == nil {
		return ""
	}
	return typeDocName(t) + "."
}

func methodDocName(m *Method) string {
	var sb strings.Builder
	sb.WriteString(ownerDocName(m.DeclaringType))
	sb.WriteString(memberDocName(m.Name))
	if n := len(m.GenericArguments); n > 0 {
		sb.WriteString("``")
		sb.WriteString(strconv.Itoa(n))
	}
	sb.WriteString(paramList(m.Parameters))
	if m.Name == "op_Implicit" || m.Name == "op_Explicit" {
		sb.WriteByte('~')
		sb.WriteString(m.Returns().DocID())
	}
	return sb.String()
}

// memberDocName escapes the dots of constructor and explicit-implementation
// names.
func memberDocName(name string) string {
	return strings.ReplaceAll(name, ".", "#")
}

func paramList(params []*Parameter) string {
	if len(params) == 0 {
		return ""
	}
	ids := make([]string, len(params))
	for i, p := range params {
		ids[i] = p.Type.DocID()
	}
	return "(" + strings.Join(ids, ",") + ")"
}

// SplitCodeRef separates the kind prefix from the rest of a code reference.
// References without a recognised prefix return an empty prefix.
func SplitCodeRef(ref string) (prefix, name string) {
	if len(ref) > 2 && ref[1] == ':' {
		switch p := ref[:2]; p {
		case PrefixType, PrefixMethod, PrefixProperty, PrefixField, PrefixError, "E:", "N:":
			return p, ref[2:]
		}
	}
	return "", ref
}

// StripParameters removes the parameter list and return suffix from a method
// or indexer code reference, leaving the overload-group name.
func StripParameters(ref string) string {
	if i := strings.IndexByte(ref, '('); i >= 0 {
		ref = ref[:i]
	}
	if i := strings.IndexByte(ref, '~'); i >= 0 {
		ref = ref[:i]
	}
	return ref
}

// TypeCodeRef is the T: reference of the definition r instantiates. It is
// empty for generic parameters and arrays, which have no entry of their own.
func TypeCodeRef(r *TypeRef) string {
	if r == nil || r.IsGenericParameter || r.IsArray() {
		return ""
	}
	return PrefixType + typeRefDocName(r)
}

func typeRefDocName(r *TypeRef) string {
	if r.DeclaringType != nil {
		return typeRefDocName(r.DeclaringType) + "." + r.Name
	}
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}
