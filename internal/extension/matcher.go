// Package extension reconciles extension members with the rest of the
// metadata model. Extension blocks are compiled into nested special-name
// types holding stub members; the real implementations are static methods
// on the containing class. This package pairs the two and re-presents each
// implementation as if it were declared on the extended type.
package extension

import "doctoolkit/internal/metadata"

// MatchSignature reports whether declared is the implementation behind stub.
//
// Names must agree, return types must agree by full name, and parameters
// must agree one for one by name, in/out flags and type shape. An
// instance-shaped stub takes its receiver from the declared method's first
// parameter, which must match receiver and is left out of the positional
// comparison.
func MatchSignature(declared, stub *metadata.Method, receiver *metadata.Parameter) bool {
	if declared == nil || stub == nil || declared.Name != stub.Name {
		return false
	}
	if declared.Returns().FullName() != stub.Returns().FullName() {
		return false
	}

	params := declared.Parameters
	if !stub.IsStatic {
		if receiver == nil || len(params) == 0 || !sameParameterShape(params[0], receiver) {
			return false
		}
		params = params[1:]
	}
	if len(params) != len(stub.Parameters) {
		return false
	}
	for i := range params {
		if !sameParameterShape(params[i], stub.Parameters[i]) {
			return false
		}
	}
	return true
}

func sameParameterShape(a, b *metadata.Parameter) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name &&
		a.IsIn == b.IsIn &&
		a.IsOut == b.IsOut &&
		sameTypeShape(a.Type, b.Type)
}

// sameTypeShape compares simple name, namespace and the generic-parameter
// flag only. Stubs declare their own placeholder generic parameters, so
// binding identity is deliberately not compared.
func sameTypeShape(a, b *metadata.TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsArray() || b.IsArray() {
		return a.IsArray() && b.IsArray() &&
			a.ArrayRank == b.ArrayRank &&
			a.IsByRef == b.IsByRef &&
			sameTypeShape(a.ElementType, b.ElementType)
	}
	return a.Name == b.Name &&
		a.Namespace == b.Namespace &&
		a.IsGenericParameter == b.IsGenericParameter &&
		a.IsByRef == b.IsByRef
}
