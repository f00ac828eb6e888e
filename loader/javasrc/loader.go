package javasrc

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/LegacyCodeHQ/implgen/internal/logging"
	"github.com/LegacyCodeHQ/implgen/typemodel"
	"github.com/LegacyCodeHQ/implgen/vcs"
)

// sourceFile is a parsed file awaiting conversion.
type sourceFile struct {
	path    string
	code    []byte
	tree    *sitter.Tree
	pkg     string
	imports []javaImport
	decls   []declaration
}

// declaration is a type declaration with its dotted name inside the file's package.
type declaration struct {
	node        *sitter.Node
	name        string
	inInterface bool
	typeParams  *sitter.Node
	enclosing   *declaration
}

// Loader builds type descriptors from Java source files.
type Loader struct {
	reader vcs.ContentReader
}

// NewLoader returns a loader that reads files through reader.
func NewLoader(reader vcs.ContentReader) *Loader {
	return &Loader{reader: reader}
}

// Load parses files and returns a descriptor for every class and interface they declare.
// Type names are resolved against each file's imports and against all loaded files.
func (l *Loader) Load(ctx context.Context, paths []string) ([]*typemodel.TypeDescriptor, error) {
	files := make([]*sourceFile, 0, len(paths))
	defer func() {
		for _, f := range files {
			f.tree.Close()
		}
	}()

	index := make(typeIndex)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := l.parseFile(ctx, path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		for _, d := range f.decls {
			index[qualify(f.pkg, d.name)] = true
		}
	}

	var types []*typemodel.TypeDescriptor
	for _, f := range files {
		types = append(types, f.descriptors(index)...)
	}

	logging.Info("loaded java sources", map[string]any{"files": len(files), "types": len(types)})
	return types, nil
}

func (l *Loader) parseFile(ctx context.Context, path string) (*sourceFile, error) {
	code, err := l.reader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	tree, err := parseJava(ctx, code)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	root := tree.RootNode()
	if root.HasError() {
		logging.Warn("java source has syntax errors", map[string]any{"file": path})
	}

	f := &sourceFile{
		path:    path,
		code:    code,
		tree:    tree,
		pkg:     parsePackageDeclaration(root, code),
		imports: parseImports(root, code),
	}
	f.collectDeclarations(root, nil, false)
	return f, nil
}

func (f *sourceFile) collectDeclarations(container *sitter.Node, enclosing *declaration, inInterface bool) {
	for _, node := range namedChildren(container) {
		if !javaTypeDeclarationTypes[node.Type()] {
			continue
		}
		name := extractDeclarationName(node, f.code)
		if name == "" {
			continue
		}
		if enclosing != nil {
			name = enclosing.name + "." + name
		}
		d := &declaration{
			node:        node,
			name:        name,
			inInterface: inInterface,
			typeParams:  node.ChildByFieldName("type_parameters"),
			enclosing:   enclosing,
		}
		f.decls = append(f.decls, *d)

		if body := declarationBody(node); body != nil {
			isInterface := node.Type() == "interface_declaration" || node.Type() == "annotation_type_declaration"
			f.collectDeclarations(body, d, isInterface)
		}
	}
}

func (f *sourceFile) fileTypes() map[string][]string {
	types := make(map[string][]string)
	for _, d := range f.decls {
		simple := d.name
		if i := strings.LastIndex(simple, "."); i >= 0 {
			simple = simple[i+1:]
		}
		types[simple] = append(types[simple], d.name)
	}
	return types
}

func (f *sourceFile) descriptors(index typeIndex) []*typemodel.TypeDescriptor {
	scope := newFileScope(f.pkg, f.imports, f.fileTypes(), index)

	var types []*typemodel.TypeDescriptor
	for i := range f.decls {
		d := &f.decls[i]
		if d.node.Type() == "annotation_type_declaration" {
			continue
		}
		pushed := f.pushEnclosingTypeVars(scope, d)
		types = append(types, f.describe(scope, d))
		for j := 0; j < pushed; j++ {
			scope.popTypeVars()
		}
	}
	return types
}

// pushEnclosingTypeVars brings the type parameters of d and its enclosing declarations into
// scope, outermost first, and returns how many scopes were pushed.
func (f *sourceFile) pushEnclosingTypeVars(scope *fileScope, d *declaration) int {
	var chain []*declaration
	for cur := d; cur != nil; cur = cur.enclosing {
		chain = append([]*declaration{cur}, chain...)
	}
	for _, cur := range chain {
		scope.pushTypeVars(f.typeVariables(scope, cur.typeParams))
	}
	return len(chain)
}

// typeVariables maps each declared type parameter to its erasure: its first bound, or Object.
func (f *sourceFile) typeVariables(scope *fileScope, params *sitter.Node) map[string]typemodel.TypeRef {
	vars := make(map[string]typemodel.TypeRef)
	for _, param := range namedChildren(params) {
		if param.Type() != "type_parameter" {
			continue
		}
		nameNode := findFirstChildOfType(param, "type_identifier", "identifier")
		if nameNode == nil {
			continue
		}
		vars[nameNode.Content(f.code)] = typemodel.Object
	}
	scope.pushTypeVars(vars)
	defer scope.popTypeVars()

	for _, param := range namedChildren(params) {
		if param.Type() != "type_parameter" {
			continue
		}
		nameNode := findFirstChildOfType(param, "type_identifier", "identifier")
		bound := findFirstChildOfType(param, "type_bound")
		if nameNode == nil || bound == nil {
			continue
		}
		if first := namedChildren(bound); len(first) > 0 {
			vars[nameNode.Content(f.code)] = scope.resolveType(first[0].Content(f.code))
		}
	}
	return vars
}

func (f *sourceFile) describe(scope *fileScope, d *declaration) *typemodel.TypeDescriptor {
	node := d.node
	t := &typemodel.TypeDescriptor{
		Package:   f.pkg,
		Name:      d.name,
		Modifiers: f.modifiers(node),
		Origin:    f.path,
	}

	if d.inInterface {
		t.Modifiers |= typemodel.Public | typemodel.Static
	}
	// Member interfaces, enums, records and annotations are implicitly static.
	if d.enclosing != nil && node.Type() != "class_declaration" {
		t.Modifiers |= typemodel.Static
	}

	switch node.Type() {
	case "interface_declaration":
		t.Modifiers |= typemodel.Interface | typemodel.Abstract
		if ext := findFirstChildOfType(node, "extends_interfaces"); ext != nil {
			t.Interfaces = f.typeList(scope, ext)
		}
	case "enum_declaration", "record_declaration":
		t.Modifiers |= typemodel.Final
		t.Superclass = superRef(node.Type())
		if impl := findFirstChildOfType(node, "super_interfaces"); impl != nil {
			t.Interfaces = f.typeList(scope, impl)
		}
	default:
		if super := node.ChildByFieldName("superclass"); super != nil {
			if types := namedChildren(super); len(types) > 0 {
				ref := scope.resolveType(types[0].Content(f.code))
				t.Superclass = &ref
			}
		} else if t.QualifiedName() != typemodel.Object.QualifiedName() {
			obj := typemodel.Object
			t.Superclass = &obj
		}
		if impl := findFirstChildOfType(node, "super_interfaces"); impl != nil {
			t.Interfaces = f.typeList(scope, impl)
		}
	}

	body := declarationBody(node)
	for _, member := range namedChildren(body) {
		switch member.Type() {
		case "method_declaration":
			t.Methods = append(t.Methods, f.method(scope, member, t.IsInterface()))
		case "constructor_declaration":
			if !t.IsInterface() {
				t.Constructors = append(t.Constructors, f.constructor(scope, member))
			}
		}
	}

	return t
}

func superRef(declType string) *typemodel.TypeRef {
	name := "Enum"
	if declType == "record_declaration" {
		name = "Record"
	}
	return &typemodel.TypeRef{Package: "java.lang", Name: name}
}

func (f *sourceFile) modifiers(node *sitter.Node) typemodel.Modifiers {
	var mods typemodel.Modifiers
	for _, kw := range modifierKeywords(node) {
		mods |= typemodel.ParseModifier(kw)
	}
	return mods
}

func (f *sourceFile) typeList(scope *fileScope, node *sitter.Node) []typemodel.TypeRef {
	list := findFirstChildOfType(node, "type_list")
	if list == nil {
		list = node
	}
	var refs []typemodel.TypeRef
	for _, child := range namedChildren(list) {
		refs = append(refs, scope.resolveType(child.Content(f.code)))
	}
	return refs
}

func (f *sourceFile) method(scope *fileScope, node *sitter.Node, inInterface bool) typemodel.Method {
	scope.pushTypeVars(f.typeVariables(scope, node.ChildByFieldName("type_parameters")))
	defer scope.popTypeVars()

	m := typemodel.Method{
		Name:      extractDeclarationName(node, f.code),
		Modifiers: f.modifiers(node),
		Params:    f.params(scope, node.ChildByFieldName("parameters")),
		Throws:    f.throws(scope, node),
	}

	if retNode := node.ChildByFieldName("type"); retNode != nil {
		m.Return = scope.resolveType(retNode.Content(f.code))
		m.Return.Dims += countDimensions(node.ChildByFieldName("dimensions"), f.code)
	} else {
		m.Return = typemodel.Void
	}

	if inInterface {
		hasBody := node.ChildByFieldName("body") != nil
		if !m.Modifiers.IsPrivate() {
			m.Modifiers |= typemodel.Public
		}
		if !hasBody && !m.Modifiers.IsStatic() && !m.Modifiers.IsDefault() && !m.Modifiers.IsPrivate() {
			m.Modifiers |= typemodel.Abstract
		}
	}
	return m
}

func (f *sourceFile) constructor(scope *fileScope, node *sitter.Node) typemodel.Constructor {
	scope.pushTypeVars(f.typeVariables(scope, node.ChildByFieldName("type_parameters")))
	defer scope.popTypeVars()

	return typemodel.Constructor{
		Modifiers: f.modifiers(node),
		Params:    f.params(scope, node.ChildByFieldName("parameters")),
		Throws:    f.throws(scope, node),
	}
}

func (f *sourceFile) params(scope *fileScope, node *sitter.Node) []typemodel.Param {
	var params []typemodel.Param
	for _, p := range namedChildren(node) {
		switch p.Type() {
		case "formal_parameter":
			typeNode := p.ChildByFieldName("type")
			if typeNode == nil {
				continue
			}
			ref := scope.resolveType(typeNode.Content(f.code))
			ref.Dims += countDimensions(p.ChildByFieldName("dimensions"), f.code)
			params = append(params, typemodel.Param{Name: extractDeclarationName(p, f.code), Type: ref})
		case "spread_parameter":
			var typeNode, declarator *sitter.Node
			for _, child := range namedChildren(p) {
				switch child.Type() {
				case "modifiers":
				case "variable_declarator":
					declarator = child
				default:
					if typeNode == nil {
						typeNode = child
					}
				}
			}
			if typeNode == nil {
				continue
			}
			ref := scope.resolveType(typeNode.Content(f.code))
			ref.Dims++
			params = append(params, typemodel.Param{Name: extractDeclarationName(declarator, f.code), Type: ref})
		}
	}
	return params
}

func (f *sourceFile) throws(scope *fileScope, node *sitter.Node) []typemodel.TypeRef {
	throwsNode := findFirstChildOfType(node, "throws")
	if throwsNode == nil {
		return nil
	}
	var refs []typemodel.TypeRef
	for _, child := range namedChildren(throwsNode) {
		refs = append(refs, scope.resolveType(child.Content(f.code)))
	}
	return refs
}
