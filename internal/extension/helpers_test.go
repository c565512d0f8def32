package extension

import (
	"testing"

	"doctoolkit/internal/metadata"

	"github.com/stretchr/testify/require"
)

var (
	stringRef = &metadata.TypeRef{Name: "String", Namespace: "System"}
	intRef    = &metadata.TypeRef{Name: "Int32", Namespace: "System"}
	sampleRef = &metadata.TypeRef{Name: "SampleType", Namespace: "Sample"}
)

func param(name string, t *metadata.TypeRef) *metadata.Parameter {
	return &metadata.Parameter{Name: name, Type: t}
}

func markerAttr(markerName string) metadata.Attribute {
	return metadata.Attribute{Type: ExtensionMarkerAttribute, Arguments: []string{markerName}}
}

func extensionAttr() metadata.Attribute {
	return metadata.Attribute{Type: ExtensionAttribute}
}

// newMarker builds a marker type whose sentinel method carries receiver.
func newMarker(name string, receiver *metadata.Parameter) *metadata.Type {
	sentinel := &metadata.Method{Name: MarkerMethodName, IsStatic: true, IsSpecialName: true}
	if receiver != nil {
		sentinel.Parameters = []*metadata.Parameter{receiver}
	}
	return &metadata.Type{
		Name:          name,
		IsSpecialName: true,
		IsSealed:      true,
		IsAbstract:    true,
		Methods:       []*metadata.Method{sentinel},
	}
}

func newGrouping(name string, markers ...*metadata.Type) *metadata.Type {
	return &metadata.Type{
		Name:          name,
		IsSpecialName: true,
		IsSealed:      true,
		Attributes:    []metadata.Attribute{extensionAttr()},
		NestedTypes:   markers,
	}
}

func newContainer(name string) *metadata.Type {
	return &metadata.Type{
		Name:       name,
		Namespace:  "Sample",
		Kind:       metadata.KindClass,
		IsSealed:   true,
		IsAbstract: true,
		Attributes: []metadata.Attribute{extensionAttr()},
	}
}

// link wires back-pointers the way a loaded assembly would have them.
func link(t *testing.T, types ...*metadata.Type) {
	t.Helper()
	_, err := metadata.NewRegistry(&metadata.Assembly{Name: "Test", Types: types})
	require.NoError(t, err)
}

// sampleContainer mirrors:
//
//	static class SampleExtensions {
//	    extension(SampleType obj) {
//	        string Describe();
//	        int Size { get; }
//	        static SampleType Create(string name);
//	    }
//	    static int Helper();
//	}
func sampleContainer(t *testing.T) *metadata.Type {
	t.Helper()
	grouping := newGrouping("<G>$1", newMarker("<M>$1", param("obj", sampleRef)))
	grouping.Methods = []*metadata.Method{
		{Name: "Describe", ReturnType: stringRef, Attributes: []metadata.Attribute{markerAttr("<M>$1")}},
		{Name: "get_Size", IsSpecialName: true, ReturnType: intRef},
		{Name: "Create", IsStatic: true, ReturnType: sampleRef,
			Parameters: []*metadata.Parameter{param("name", stringRef)},
			Attributes: []metadata.Attribute{markerAttr("<M>$1")}},
	}
	grouping.Properties = []*metadata.Property{
		{Name: "Size", Type: intRef, Attributes: []metadata.Attribute{markerAttr("<M>$1")}},
	}

	container := newContainer("SampleExtensions")
	container.NestedTypes = []*metadata.Type{grouping}
	container.Methods = []*metadata.Method{
		{Name: "Describe", IsStatic: true, ReturnType: stringRef,
			Parameters: []*metadata.Parameter{param("obj", sampleRef)},
			Attributes: []metadata.Attribute{extensionAttr()}},
		{Name: "get_Size", IsStatic: true, IsSpecialName: true, ReturnType: intRef,
			Parameters: []*metadata.Parameter{param("obj", sampleRef)}},
		{Name: "Create", IsStatic: true, ReturnType: sampleRef,
			Parameters: []*metadata.Parameter{param("name", stringRef)}},
		{Name: "Helper", IsStatic: true, ReturnType: intRef},
	}
	link(t, container)
	return container
}

func method(t *metadata.Type, name string) *metadata.Method {
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}
