// Package javasrc reads type descriptors from Java source files using tree-sitter.
package javasrc

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsjava "github.com/smacker/go-tree-sitter/java"
)

var javaTypeDeclarationTypes = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

// javaImport is one import declaration.
type javaImport struct {
	path       string
	isWildcard bool
	isStatic   bool
}

func parseJava(ctx context.Context, sourceCode []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsjava.GetLanguage())
	return parser.ParseCtx(ctx, nil, sourceCode)
}

func parsePackageDeclaration(root *sitter.Node, sourceCode []byte) string {
	node := findFirstChildOfType(root, "package_declaration")
	if node == nil {
		return ""
	}
	if name := findFirstChildOfType(node, "scoped_identifier", "identifier"); name != nil {
		return strings.TrimSpace(name.Content(sourceCode))
	}
	return ""
}

func parseImports(root *sitter.Node, sourceCode []byte) []javaImport {
	var imports []javaImport
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node == nil || node.Type() != "import_declaration" {
			continue
		}
		nameNode := findFirstChildOfType(node, "scoped_identifier", "identifier")
		if nameNode == nil {
			continue
		}
		imports = append(imports, javaImport{
			path:       strings.TrimSpace(nameNode.Content(sourceCode)),
			isWildcard: hasChildOfType(node, "asterisk"),
			isStatic:   hasAnonymousChild(node, "static"),
		})
	}
	return imports
}

func extractDeclarationName(node *sitter.Node, sourceCode []byte) string {
	if node == nil {
		return ""
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return strings.TrimSpace(name.Content(sourceCode))
	}
	if name := findFirstChildOfType(node, "identifier"); name != nil {
		return strings.TrimSpace(name.Content(sourceCode))
	}
	return ""
}

// declarationBody returns the member container of a type declaration.
func declarationBody(node *sitter.Node) *sitter.Node {
	body := node.ChildByFieldName("body")
	if body == nil {
		body = findFirstChildOfType(node, "class_body", "interface_body", "enum_body", "annotation_type_body")
	}
	if body != nil && body.Type() == "enum_body" {
		if decls := findFirstChildOfType(body, "enum_body_declarations"); decls != nil {
			return decls
		}
		return nil
	}
	return body
}

func hasChildOfType(node *sitter.Node, nodeType string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Type() == nodeType {
			return true
		}
		if hasChildOfType(child, nodeType) {
			return true
		}
	}
	return false
}

func hasAnonymousChild(node *sitter.Node, nodeType string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && !child.IsNamed() && child.Type() == nodeType {
			return true
		}
	}
	return false
}

func findFirstChildOfType(node *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}
	return nil
}

func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// modifierKeywords returns the keywords of a declaration's modifiers node. Annotations are
// skipped.
func modifierKeywords(node *sitter.Node) []string {
	mods := findFirstChildOfType(node, "modifiers")
	if mods == nil {
		return nil
	}
	var keywords []string
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		keywords = append(keywords, child.Type())
	}
	return keywords
}

func countDimensions(node *sitter.Node, sourceCode []byte) int {
	if node == nil {
		return 0
	}
	return strings.Count(node.Content(sourceCode), "[")
}
