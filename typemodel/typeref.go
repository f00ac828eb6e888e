package typemodel

import "strings"

// TypeRef references a type by erased name. Nested types keep their enclosing
// type in Name ("Map.Entry"); arrays carry their dimension count.
type TypeRef struct {
	Package string
	Name    string
	Dims    int
}

var primitiveNames = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// IsPrimitiveName reports whether name is a Java primitive keyword or void.
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}

// Primitive returns a reference to a primitive type (or void).
func Primitive(name string) TypeRef {
	return TypeRef{Name: name}
}

// Void is the return type of methods that return nothing.
var Void = Primitive("void")

// Object is java.lang.Object.
var Object = TypeRef{Package: "java.lang", Name: "Object"}

// ParseRef parses a qualified name such as "java.util.Map.Entry[]". The package ends at the
// first segment that starts with an upper-case letter, which is the Java naming convention.
func ParseRef(qualified string) TypeRef {
	qualified = strings.TrimSpace(qualified)
	dims := 0
	for strings.HasSuffix(qualified, "[]") {
		qualified = strings.TrimSpace(strings.TrimSuffix(qualified, "[]"))
		dims++
	}
	if strings.HasSuffix(qualified, "...") {
		qualified = strings.TrimSuffix(qualified, "...")
		dims++
	}
	if IsPrimitiveName(qualified) {
		return TypeRef{Name: qualified, Dims: dims}
	}

	parts := strings.Split(qualified, ".")
	for i, part := range parts {
		if part != "" && part[0] >= 'A' && part[0] <= 'Z' {
			return TypeRef{
				Package: strings.Join(parts[:i], "."),
				Name:    strings.Join(parts[i:], "."),
				Dims:    dims,
			}
		}
	}
	return TypeRef{Name: qualified, Dims: dims}
}

// IsPrimitive reports whether the element type is primitive and the reference is not an array.
func (r TypeRef) IsPrimitive() bool {
	return r.Dims == 0 && r.Package == "" && IsPrimitiveName(r.Name)
}

func (r TypeRef) IsVoid() bool {
	return r.Dims == 0 && r.Package == "" && r.Name == "void"
}

// Elem returns the element type of an array reference.
func (r TypeRef) Elem() TypeRef {
	return TypeRef{Package: r.Package, Name: r.Name}
}

// QualifiedName returns the package-qualified element type name without array brackets.
func (r TypeRef) QualifiedName() string {
	return qualify(r.Package, r.Name)
}

// TopLevel returns the outermost enclosing type of a nested type reference.
func (r TypeRef) TopLevel() TypeRef {
	name := r.Name
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return TypeRef{Package: r.Package, Name: name}
}

// Equal reports whether two references name the same erased type.
func (r TypeRef) Equal(other TypeRef) bool {
	return r.Package == other.Package && r.Name == other.Name && r.Dims == other.Dims
}

// String renders the fully-qualified name with array brackets.
func (r TypeRef) String() string {
	return r.QualifiedName() + strings.Repeat("[]", r.Dims)
}
