package emitter

import (
	"sort"

	"github.com/LegacyCodeHQ/implgen/typemodel"
)

// importSet decides how each referenced type is spelled in the generated file: by its
// (possibly nested) name with an import of its top-level type, or fully qualified when the
// simple name would be ambiguous.
type importSet struct {
	pkg       string
	qualified map[string]bool // top-level qualified names that must be spelled in full
	imports   []string
}

func newImportSet(pkg string, reserved []typemodel.TypeRef, refs []typemodel.TypeRef) *importSet {
	s := &importSet{pkg: pkg, qualified: make(map[string]bool)}

	bySimple := make(map[string]map[string]typemodel.TypeRef)
	add := func(top typemodel.TypeRef) {
		if bySimple[top.Name] == nil {
			bySimple[top.Name] = make(map[string]typemodel.TypeRef)
		}
		bySimple[top.Name][top.QualifiedName()] = top
	}
	for _, r := range reserved {
		add(r.TopLevel())
	}
	for _, r := range refs {
		if r.Elem().IsPrimitive() {
			continue
		}
		add(r.TopLevel())
	}

	for _, tops := range bySimple {
		if len(tops) > 1 {
			for qn, top := range tops {
				if top.Package != "" {
					s.qualified[qn] = true
				}
			}
			continue
		}
		for qn, top := range tops {
			if needsImport(pkg, top) {
				s.imports = append(s.imports, qn)
			}
		}
	}
	sort.Strings(s.imports)
	return s
}

func needsImport(pkg string, top typemodel.TypeRef) bool {
	return top.Package != "" && top.Package != pkg && top.Package != "java.lang"
}

// Imports returns the sorted import list.
func (s *importSet) Imports() []string {
	return s.imports
}

// Render spells a type reference for the generated file.
func (s *importSet) Render(r typemodel.TypeRef) string {
	var name string
	switch {
	case r.Elem().IsPrimitive():
		name = r.Name
	case s.qualified[r.TopLevel().QualifiedName()]:
		name = r.QualifiedName()
	default:
		name = r.Name
	}
	for i := 0; i < r.Dims; i++ {
		name += "[]"
	}
	return name
}
