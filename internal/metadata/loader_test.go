package metadata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Sample(t *testing.T) {
	asm, err := LoadFile(filepath.Join("testdata", "sample.meta.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Sample.Library", asm.Name)
	assert.Len(t, asm.Types, 7)

	byName := make(map[string]*Type)
	for _, typ := range asm.AllTypes() {
		byName[typ.Name] = typ
	}

	t.Run("Back pointers", func(t *testing.T) {
		circle := byName["Circle"]
		require.NotNil(t, circle)
		assert.Same(t, asm, circle.Assembly)
		for _, m := range circle.Methods {
			assert.Same(t, circle, m.DeclaringType)
		}
	})

	t.Run("Nested types inherit namespace", func(t *testing.T) {
		grouping := byName["<G>$8D4F"]
		require.NotNil(t, grouping)
		assert.Equal(t, "Sample", grouping.Namespace)
		assert.Same(t, byName["SampleExtensions"], grouping.DeclaringType)
		assert.Equal(t, "Sample.SampleExtensions+<G>$8D4F", grouping.FullName())
	})

	t.Run("Accessors linked", func(t *testing.T) {
		radius := byName["Circle"].Properties[0]
		require.NotNil(t, radius.Getter)
		assert.Equal(t, "get_Radius", radius.Getter.Name)
		assert.Nil(t, radius.Setter)
	})

	t.Run("Static container shape", func(t *testing.T) {
		assert.True(t, byName["SampleExtensions"].IsStatic())
		assert.False(t, byName["Circle"].IsStatic())
	})
}

func TestLoad_RejectsInvalidDumps(t *testing.T) {
	cases := map[string]string{
		"empty":             ``,
		"missing name":      `types: []`,
		"method no name":    "name: A\ntypes:\n  - name: T\n    methods:\n      - static: true\n",
		"unknown type kind": "name: A\ntypes:\n  - name: T\n    kind: module\n",
		"param without type": "name: A\ntypes:\n  - name: T\n    methods:\n      - name: M\n        parameters:\n          - name: x\n",
		"not yaml":          "name: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDump)
		})
	}
}

func TestLoad_JSON(t *testing.T) {
	src := `{"name": "Json.Asm", "types": [{"name": "Widget", "namespace": "Json", "methods": [{"name": "Run", "parameters": [{"name": "n", "type": {"name": "Int32", "namespace": "System"}}]}]}]}`
	asm, err := Load([]byte(src))
	require.NoError(t, err)
	require.Len(t, asm.Types, 1)
	assert.Equal(t, "M:Json.Widget.Run(System.Int32)", CodeRef(asm.Types[0].Methods[0]))
}
