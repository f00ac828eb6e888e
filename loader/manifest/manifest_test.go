package manifest

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/implgen/typemodel"
	"github.com/LegacyCodeHQ/implgen/vcs"
)

const shapes = `
types:
  - name: com.example.Drawable
    kind: interface
    modifiers: [public]
    methods:
      - name: draw
        params: [com.example.Canvas, int]
      - name: describe
        modifiers: [default]
        returns: java.lang.String
  - name: com.example.Shape
    modifiers: [public, abstract]
    interfaces: [com.example.Drawable]
    methods:
      - name: area
        modifiers: [public, abstract]
        returns: double
        throws: [java.io.IOException]
      - name: scale
        modifiers: [protected, abstract]
        params: ["double...", "int[][]"]
    constructors:
      - modifiers: [protected]
        params: [java.lang.String]
      - modifiers: [private]
  - name: com.example.Color
    kind: enum
`

func TestLoad(t *testing.T) {
	reader := vcs.MapContentReader(map[string]string{"types.yaml": shapes})

	types, err := Load(reader, "types.yaml")
	require.NoError(t, err)
	require.Len(t, types, 3)

	drawable := types[0]
	assert.Equal(t, "com.example", drawable.Package)
	assert.Equal(t, "Drawable", drawable.Name)
	assert.True(t, drawable.IsInterface())
	assert.Nil(t, drawable.Superclass)
	assert.Equal(t, "types.yaml", drawable.Origin)

	require.Len(t, drawable.Methods, 2)
	draw := drawable.Methods[0]
	assert.True(t, draw.Modifiers.IsPublic())
	assert.True(t, draw.Modifiers.IsAbstract())
	assert.Equal(t, typemodel.Void, draw.Return)
	assert.Equal(t, []typemodel.TypeRef{
		{Package: "com.example", Name: "Canvas"},
		typemodel.Primitive("int"),
	}, draw.ParamTypes())
	assert.Equal(t, "arg1", draw.Params[1].Name)

	describe := drawable.Methods[1]
	assert.True(t, describe.Modifiers.IsDefault())
	assert.False(t, describe.Modifiers.IsAbstract())

	shape := types[1]
	require.NotNil(t, shape.Superclass)
	assert.Equal(t, typemodel.Object, *shape.Superclass)
	assert.Equal(t, []typemodel.TypeRef{{Package: "com.example", Name: "Drawable"}}, shape.Interfaces)
	assert.Equal(t, []typemodel.TypeRef{{Package: "java.io", Name: "IOException"}}, shape.Methods[0].Throws)
	assert.Equal(t, []typemodel.TypeRef{
		{Name: "double", Dims: 1},
		{Name: "int", Dims: 2},
	}, shape.Methods[1].ParamTypes())
	require.Len(t, shape.Constructors, 2)
	assert.True(t, shape.Constructors[0].Modifiers.IsProtected())
	assert.True(t, shape.Constructors[1].Modifiers.IsPrivate())

	color := types[2]
	assert.True(t, color.Modifiers.IsFinal())
	require.NotNil(t, color.Superclass)
	assert.Equal(t, "java.lang.Enum", color.Superclass.QualifiedName())
}

func TestLoad_ObjectHasNoSuperclass(t *testing.T) {
	reader := vcs.MapContentReader(map[string]string{"o.yaml": "types:\n  - name: java.lang.Object\n"})

	types, err := Load(reader, "o.yaml")
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Nil(t, types[0].Superclass)
}

func TestDecode_Empty(t *testing.T) {
	doc, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Types)
}

func TestInvalidManifests(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "types: [\n"},
		{name: "unknown field", content: "types:\n  - name: a.B\n    extends: a.C\n"},
		{name: "missing name", content: "types:\n  - kind: class\n"},
		{name: "unknown kind", content: "types:\n  - name: a.B\n    kind: struct\n"},
		{name: "unknown modifier", content: "types:\n  - name: a.B\n    modifiers: [sealed]\n"},
		{name: "conflicting visibility", content: "types:\n  - name: a.B\n    modifiers: [public, private]\n"},
		{name: "interface superclass", content: "types:\n  - name: a.B\n    kind: interface\n    superclass: a.C\n"},
		{name: "interface constructor", content: "types:\n  - name: a.B\n    kind: interface\n    constructors:\n      - params: [int]\n"},
		{name: "method without name", content: "types:\n  - name: a.B\n    methods:\n      - returns: int\n"},
		{name: "primitive type name", content: "types:\n  - name: int\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reader := vcs.MapContentReader(map[string]string{"m.yaml": tc.content})

			_, err := Load(reader, "m.yaml")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidManifest), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(vcs.MapContentReader(nil), "missing.yaml")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidManifest))
}
