package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInheritedCodeRefs(t *testing.T) {
	reg := loadSample(t)

	cases := []struct {
		name string
		ref  string
		want []string
	}{
		{"override", "M:Sample.Circle.Area", []string{"M:Sample.Shape.Area"}},
		{"interface implementation", "M:Sample.Circle.Measure", []string{"M:Sample.IMeasurable.Measure"}},
		{"constructor", "M:Sample.Circle.#ctor(System.String)", []string{"M:Sample.Shape.#ctor(System.String)"}},
		{"generic base bound by argument", "M:Sample.StringRepository.Add(System.String)", []string{"M:Sample.Repository`1.Add(`0)"}},
		{"type", "T:Sample.Circle", []string{"T:Sample.Shape", "T:Sample.IMeasurable"}},
		{"nothing to inherit", "M:Sample.SampleExtensions.Helper", []string{}},
		{"unknown reference", "M:Sample.Nope", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reg.InheritedCodeRefs(tc.ref))
		})
	}
}

func TestInheritanceCandidates_ExplicitImplementation(t *testing.T) {
	iface := &Type{Name: "IShape", Namespace: "Geo", Kind: KindInterface, Methods: []*Method{
		{Name: "Area", ReturnType: &TypeRef{Name: "Double", Namespace: "System"}},
	}}
	square := &Type{Name: "Square", Namespace: "Geo",
		Interfaces: []*TypeRef{{Name: "IShape", Namespace: "Geo"}},
		Methods: []*Method{
			{Name: "Geo.IShape.Area", IsVirtual: true, IsNewSlot: true, ReturnType: &TypeRef{Name: "Double", Namespace: "System"}},
		}}
	reg, err := NewRegistry(&Assembly{Name: "Geo", Types: []*Type{iface, square}})
	require.NoError(t, err)

	got := reg.InheritanceCandidates(square.Methods[0])
	require.Len(t, got, 1)
	assert.Same(t, iface.Methods[0], got[0])
}

func TestInheritanceCandidates_BaseCycleTerminates(t *testing.T) {
	a := &Type{Name: "A", Namespace: "Loop", BaseType: &TypeRef{Name: "B", Namespace: "Loop"}}
	b := &Type{Name: "B", Namespace: "Loop", BaseType: &TypeRef{Name: "A", Namespace: "Loop"}}
	reg, err := NewRegistry(&Assembly{Name: "Loop", Types: []*Type{a, b}})
	require.NoError(t, err)

	got := reg.InheritanceCandidates(a)
	require.Len(t, got, 1)
	assert.Same(t, b, got[0])
}

func TestTypeRef_Substitute(t *testing.T) {
	param := &TypeRef{Name: "T", IsGenericParameter: true, Position: 0}
	list := &TypeRef{Name: "List`1", Namespace: "System.Collections.Generic", GenericArguments: []*TypeRef{param}}
	str := &TypeRef{Name: "String", Namespace: "System"}

	bound := list.Substitute([]*TypeRef{str})
	assert.Equal(t, "System.Collections.Generic.List{System.String}", bound.DocID())
	assert.Equal(t, "System.Collections.Generic.List{`0}", list.DocID(), "original left untouched")
	assert.Equal(t, list.Key(), bound.Key(), "definition identity ignores arguments")

	methodParam := &TypeRef{Name: "U", IsGenericParameter: true, IsMethodParameter: true}
	assert.Same(t, methodParam, methodParam.Substitute([]*TypeRef{str}))
}
