// Package emitter renders the Java source of a stub implementation from a resolved set of
// required methods and forwarded constructors.
package emitter

import (
	"fmt"
	"path"
	"strings"

	"github.com/LegacyCodeHQ/implgen/resolver"
	"github.com/LegacyCodeHQ/implgen/typemodel"
)

const (
	// ImplSuffix is appended to the root type's simple name.
	ImplSuffix = "Impl"
	indent     = "    "
)

// Unit is one generated compilation unit.
type Unit struct {
	Package   string
	ClassName string
	Source    string
}

// QualifiedName returns the generated class's qualified name.
func (u *Unit) QualifiedName() string {
	if u.Package == "" {
		return u.ClassName
	}
	return u.Package + "." + u.ClassName
}

// SourcePath returns the slash-separated path of the source file relative to a source root.
func (u *Unit) SourcePath() string {
	return path.Join(packagePath(u.Package), u.ClassName+".java")
}

// ClassPath returns the slash-separated path of the compiled class relative to a class root.
func (u *Unit) ClassPath() string {
	return path.Join(packagePath(u.Package), u.ClassName+".class")
}

func packagePath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// ClassName returns the name of the class generated for root.
func ClassName(root *typemodel.TypeDescriptor) string {
	return root.SimpleName() + ImplSuffix
}

// Emit renders the stub class for a resolution: package clause, imports, class header,
// forwarding constructors in declaration order, then method stubs ordered by signature.
func Emit(res *resolver.Resolution) *Unit {
	root := res.Root
	className := ClassName(root)
	methods := res.Methods.Sorted()

	reserved := []typemodel.TypeRef{
		root.Ref(),
		{Package: root.Package, Name: className},
	}
	imports := newImportSet(root.Package, reserved, referencedTypes(methods, res.Constructors))

	w := &sourceWriter{}
	if root.Package != "" {
		w.line(0, "package %s;", root.Package)
		w.blank()
	}
	if len(imports.Imports()) > 0 {
		for _, imp := range imports.Imports() {
			w.line(0, "import %s;", imp)
		}
		w.blank()
	}

	relation := "extends"
	if root.IsInterface() {
		relation = "implements"
	}
	w.line(0, "public class %s %s %s {", className, relation, imports.Render(root.Ref()))

	for _, c := range res.Constructors {
		w.blank()
		writeConstructor(w, imports, className, c)
	}
	for _, sig := range methods {
		w.blank()
		writeMethod(w, imports, root, sig.Method)
	}

	w.line(0, "}")

	return &Unit{
		Package:   root.Package,
		ClassName: className,
		Source:    w.String(),
	}
}

func referencedTypes(methods []typemodel.MethodSignature, ctors []typemodel.Constructor) []typemodel.TypeRef {
	var refs []typemodel.TypeRef
	for _, sig := range methods {
		refs = append(refs, sig.Method.Return)
		refs = append(refs, sig.ParamTypes...)
	}
	for _, c := range ctors {
		refs = append(refs, c.ParamTypes()...)
		refs = append(refs, c.Throws...)
	}
	return refs
}

func writeConstructor(w *sourceWriter, imports *importSet, className string, c typemodel.Constructor) {
	params, args := renderParams(imports, c.Params)
	w.line(1, "%s%s(%s)%s {", prefix(c.Modifiers.Visibility()), className, params, renderThrows(imports, c.Throws))
	w.line(2, "super(%s);", args)
	w.line(1, "}")
}

func writeMethod(w *sourceWriter, imports *importSet, root *typemodel.TypeDescriptor, m typemodel.Method) {
	visibility := m.Modifiers.Visibility()
	if root.IsInterface() {
		visibility = "public"
	}
	params, _ := renderParams(imports, m.Params)

	w.line(1, "@Override")
	w.line(1, "%s%s %s(%s) {", prefix(visibility), imports.Render(m.Return), m.Name, params)
	if value := DefaultValue(m.Return); value != "" {
		w.line(2, "return %s;", value)
	}
	w.line(1, "}")
}

func renderParams(imports *importSet, params []typemodel.Param) (string, string) {
	decls := make([]string, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = fmt.Sprintf("arg%d", i)
		decls[i] = imports.Render(p.Type) + " " + names[i]
	}
	return strings.Join(decls, ", "), strings.Join(names, ", ")
}

func renderThrows(imports *importSet, throws []typemodel.TypeRef) string {
	if len(throws) == 0 {
		return ""
	}
	names := make([]string, len(throws))
	for i, t := range throws {
		names[i] = imports.Render(t)
	}
	return " throws " + strings.Join(names, ", ")
}

func prefix(visibility string) string {
	if visibility == "" {
		return ""
	}
	return visibility + " "
}

// sourceWriter accumulates indented source lines.
type sourceWriter struct {
	sb strings.Builder
}

func (w *sourceWriter) line(depth int, format string, args ...any) {
	w.sb.WriteString(strings.Repeat(indent, depth))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *sourceWriter) blank() {
	w.sb.WriteByte('\n')
}

func (w *sourceWriter) String() string {
	return w.sb.String()
}
