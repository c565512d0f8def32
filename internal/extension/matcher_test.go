package extension

import (
	"testing"

	"doctoolkit/internal/metadata"

	"github.com/stretchr/testify/assert"
)

func TestMatchSignature(t *testing.T) {
	receiver := param("obj", sampleRef)
	a := param("a", intRef)
	b := param("b", stringRef)

	instanceStub := &metadata.Method{Name: "Combine", ReturnType: stringRef, Parameters: []*metadata.Parameter{a, b}}
	staticStub := &metadata.Method{Name: "Combine", IsStatic: true, ReturnType: stringRef, Parameters: []*metadata.Parameter{a, b}}

	withReceiver := &metadata.Method{Name: "Combine", IsStatic: true, ReturnType: stringRef,
		Parameters: []*metadata.Parameter{param("obj", sampleRef), param("a", intRef), param("b", stringRef)}}
	withoutReceiver := &metadata.Method{Name: "Combine", IsStatic: true, ReturnType: stringRef,
		Parameters: []*metadata.Parameter{param("a", intRef), param("b", stringRef)}}

	t.Run("Instance stub takes receiver from first parameter", func(t *testing.T) {
		assert.True(t, MatchSignature(withReceiver, instanceStub, receiver))
		assert.False(t, MatchSignature(withoutReceiver, instanceStub, receiver))
	})

	t.Run("Static stub compares all parameters", func(t *testing.T) {
		assert.True(t, MatchSignature(withoutReceiver, staticStub, receiver))
		assert.False(t, MatchSignature(withReceiver, staticStub, receiver))
	})

	t.Run("Receiver shape must match", func(t *testing.T) {
		assert.False(t, MatchSignature(withReceiver, instanceStub, param("other", sampleRef)))
		assert.False(t, MatchSignature(withReceiver, instanceStub, param("obj", stringRef)))
		assert.False(t, MatchSignature(withReceiver, instanceStub, nil))
	})

	t.Run("Name and return type", func(t *testing.T) {
		renamed := *withReceiver
		renamed.Name = "Merge"
		assert.False(t, MatchSignature(&renamed, instanceStub, receiver))

		retyped := *withReceiver
		retyped.ReturnType = intRef
		assert.False(t, MatchSignature(&retyped, instanceStub, receiver))
	})

	t.Run("Parameter name and modifiers", func(t *testing.T) {
		renamed := &metadata.Method{Name: "Combine", IsStatic: true, ReturnType: stringRef,
			Parameters: []*metadata.Parameter{param("obj", sampleRef), param("x", intRef), param("b", stringRef)}}
		assert.False(t, MatchSignature(renamed, instanceStub, receiver))

		out := &metadata.Method{Name: "Combine", IsStatic: true, ReturnType: stringRef,
			Parameters: []*metadata.Parameter{param("obj", sampleRef), {Name: "a", Type: intRef, IsOut: true}, param("b", stringRef)}}
		assert.False(t, MatchSignature(out, instanceStub, receiver))
	})

	t.Run("Void returns compare equal", func(t *testing.T) {
		stub := &metadata.Method{Name: "Touch"}
		declared := &metadata.Method{Name: "Touch", IsStatic: true, ReturnType: metadata.Void,
			Parameters: []*metadata.Parameter{param("obj", sampleRef)}}
		assert.True(t, MatchSignature(declared, stub, receiver))
	})
}

func TestMatchSignature_GenericParameterIdentityIgnored(t *testing.T) {
	// The stub's T belongs to the block; the declared method introduces its own T.
	blockT := &metadata.TypeRef{Name: "T", IsGenericParameter: true, Position: 0}
	methodT := &metadata.TypeRef{Name: "T", IsGenericParameter: true, IsMethodParameter: true, Position: 0}
	listOf := func(arg *metadata.TypeRef) *metadata.TypeRef {
		return &metadata.TypeRef{Name: "List`1", Namespace: "System.Collections.Generic", GenericArguments: []*metadata.TypeRef{arg}}
	}

	receiver := param("list", listOf(blockT))
	stub := &metadata.Method{Name: "First", ReturnType: blockT}
	declared := &metadata.Method{Name: "First", IsStatic: true, ReturnType: methodT,
		GenericArguments: []*metadata.TypeRef{methodT},
		Parameters:       []*metadata.Parameter{param("list", listOf(methodT))}}

	assert.True(t, MatchSignature(declared, stub, receiver))

	notGeneric := &metadata.Method{Name: "First", IsStatic: true, ReturnType: methodT,
		Parameters: []*metadata.Parameter{param("list", &metadata.TypeRef{Name: "T"})}}
	assert.False(t, MatchSignature(notGeneric, stub, receiver))
}
