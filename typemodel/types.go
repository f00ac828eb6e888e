// Package typemodel holds the structural metadata of Java types that implgen reads: type
// descriptors, their members, and the signature values used to match members across an
// inheritance graph.
package typemodel

import "strings"

// Modifiers is a bit set of Java declaration modifiers.
type Modifiers uint16

const (
	Public Modifiers = 1 << iota
	Protected
	Private
	Static
	Abstract
	Final
	Default
	Interface
)

var modifierNames = []struct {
	flag Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Default, "default"},
	{Interface, "interface"},
}

// Has reports whether every flag in m is set.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

func (mods Modifiers) IsPublic() bool    { return mods.Has(Public) }
func (mods Modifiers) IsProtected() bool { return mods.Has(Protected) }
func (mods Modifiers) IsPrivate() bool   { return mods.Has(Private) }
func (mods Modifiers) IsStatic() bool    { return mods.Has(Static) }
func (mods Modifiers) IsAbstract() bool  { return mods.Has(Abstract) }
func (mods Modifiers) IsFinal() bool     { return mods.Has(Final) }
func (mods Modifiers) IsDefault() bool   { return mods.Has(Default) }
func (mods Modifiers) IsInterface() bool { return mods.Has(Interface) }

// IsPackagePrivate reports whether no access modifier is present.
func (mods Modifiers) IsPackagePrivate() bool {
	return mods&(Public|Protected|Private) == 0
}

// Visibility returns the access modifier keyword, or "" for package-private.
func (mods Modifiers) Visibility() string {
	switch {
	case mods.IsPublic():
		return "public"
	case mods.IsProtected():
		return "protected"
	case mods.IsPrivate():
		return "private"
	default:
		return ""
	}
}

// String renders the modifiers in Java declaration order.
func (mods Modifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if mods.Has(mn.flag) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseModifier maps a Java modifier keyword to its flag. Unknown keywords map to zero.
func ParseModifier(keyword string) Modifiers {
	for _, mn := range modifierNames {
		if mn.name == keyword {
			return mn.flag
		}
	}
	return 0
}

// TypeDescriptor is the structural metadata of one interface or class.
type TypeDescriptor struct {
	Package      string
	Name         string // nested types use dotted names, e.g. "Outer.Inner"
	Modifiers    Modifiers
	Superclass   *TypeRef
	Interfaces   []TypeRef
	Methods      []Method
	Constructors []Constructor
	// Origin is where the descriptor was read from (a source file or manifest path).
	Origin string
}

// QualifiedName returns the package-qualified name of the type.
func (t *TypeDescriptor) QualifiedName() string {
	return qualify(t.Package, t.Name)
}

// SimpleName returns the innermost name of the type.
func (t *TypeDescriptor) SimpleName() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Ref returns a reference to this type.
func (t *TypeDescriptor) Ref() TypeRef {
	return TypeRef{Package: t.Package, Name: t.Name}
}

func (t *TypeDescriptor) IsInterface() bool { return t.Modifiers.IsInterface() }

// IsNested reports whether the type is declared inside another type.
func (t *TypeDescriptor) IsNested() bool { return strings.Contains(t.Name, ".") }

// IsInnerClass reports whether the type is a non-static nested class, whose instances need an
// enclosing instance.
func (t *TypeDescriptor) IsInnerClass() bool {
	return t.IsNested() && !t.IsInterface() && !t.Modifiers.IsStatic()
}

// Param is one formal parameter of a method or constructor.
type Param struct {
	Name string
	Type TypeRef
}

// Method is a declared method.
type Method struct {
	Name      string
	Params    []Param
	Return    TypeRef
	Modifiers Modifiers
	Throws    []TypeRef
}

// ParamTypes returns the parameter types in declaration order.
func (m Method) ParamTypes() []TypeRef {
	return paramTypes(m.Params)
}

// Signature returns the dedup and override-matching identity of the method.
func (m Method) Signature() MethodSignature {
	return MethodSignature{
		Name:       m.Name,
		ParamTypes: m.ParamTypes(),
		Method:     m,
	}
}

// Constructor is a declared constructor.
type Constructor struct {
	Params    []Param
	Modifiers Modifiers
	Throws    []TypeRef
}

// ParamTypes returns the parameter types in declaration order.
func (c Constructor) ParamTypes() []TypeRef {
	return paramTypes(c.Params)
}

func paramTypes(params []Param) []TypeRef {
	types := make([]TypeRef, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
