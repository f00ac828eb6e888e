package javasrc

import (
	"regexp"
	"strings"

	"github.com/LegacyCodeHQ/implgen/typemodel"
)

// javaLangTypes are java.lang names resolved without an import.
var javaLangTypes = map[string]bool{
	"Appendable": true, "AutoCloseable": true, "Boolean": true, "Byte": true,
	"CharSequence": true, "Character": true, "Class": true, "ClassLoader": true,
	"CloneNotSupportedException": true, "Cloneable": true, "Comparable": true,
	"Deprecated": true, "Double": true, "Enum": true, "Error": true, "Exception": true,
	"Float": true, "FunctionalInterface": true, "IllegalArgumentException": true,
	"IllegalStateException": true, "IndexOutOfBoundsException": true, "Integer": true,
	"InterruptedException": true, "Iterable": true, "Long": true, "Math": true,
	"NullPointerException": true, "Number": true, "Object": true, "Override": true,
	"Process": true, "Readable": true, "Record": true, "Runnable": true,
	"RuntimeException": true, "SafeVarargs": true, "Short": true, "String": true,
	"StringBuffer": true, "StringBuilder": true, "System": true, "Thread": true,
	"ThreadLocal": true, "Throwable": true, "UnsupportedOperationException": true,
	"Void": true,
}

var (
	annotationPattern = regexp.MustCompile(`@[\w.]+(\([^)]*\))?`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// typeIndex holds the qualified names of every type declared in the loaded sources.
type typeIndex map[string]bool

// fileScope resolves type names as written in one source file.
type fileScope struct {
	pkg       string
	single    map[string]string // simple name -> qualified name
	onDemand  []string          // package or type prefixes of wildcard imports
	fileTypes map[string][]string
	index     typeIndex
	typeVars  []map[string]typemodel.TypeRef
}

func newFileScope(pkg string, imports []javaImport, fileTypes map[string][]string, index typeIndex) *fileScope {
	s := &fileScope{
		pkg:       pkg,
		single:    make(map[string]string),
		fileTypes: fileTypes,
		index:     index,
	}
	for _, imp := range imports {
		if imp.isStatic {
			continue
		}
		if imp.isWildcard {
			s.onDemand = append(s.onDemand, imp.path)
			continue
		}
		simple := imp.path
		if i := strings.LastIndex(simple, "."); i >= 0 {
			simple = simple[i+1:]
		}
		s.single[simple] = imp.path
	}
	return s
}

func (s *fileScope) pushTypeVars(vars map[string]typemodel.TypeRef) {
	s.typeVars = append(s.typeVars, vars)
}

func (s *fileScope) popTypeVars() {
	s.typeVars = s.typeVars[:len(s.typeVars)-1]
}

func (s *fileScope) typeVar(name string) (typemodel.TypeRef, bool) {
	for i := len(s.typeVars) - 1; i >= 0; i-- {
		if ref, ok := s.typeVars[i][name]; ok {
			return ref, true
		}
	}
	return typemodel.TypeRef{}, false
}

// resolveType erases and resolves a type as written in source, e.g. "Map.Entry<K, V>[]".
func (s *fileScope) resolveType(text string) typemodel.TypeRef {
	text = annotationPattern.ReplaceAllString(text, "")
	text = stripTypeArguments(text)
	text = whitespacePattern.ReplaceAllString(text, "")

	dims := 0
	if strings.HasSuffix(text, "...") {
		text = strings.TrimSuffix(text, "...")
		dims++
	}
	for strings.HasSuffix(text, "[]") {
		text = strings.TrimSuffix(text, "[]")
		dims++
	}

	ref := s.resolveName(text)
	ref.Dims += dims
	return ref
}

func (s *fileScope) resolveName(name string) typemodel.TypeRef {
	if typemodel.IsPrimitiveName(name) {
		return typemodel.Primitive(name)
	}

	segments := strings.Split(name, ".")
	first := segments[0]

	if len(segments) == 1 {
		if ref, ok := s.typeVar(first); ok {
			return ref
		}
	}

	if first != "" && first[0] >= 'a' && first[0] <= 'z' && len(segments) > 1 {
		return typemodel.ParseRef(name)
	}

	head := s.resolveSimple(first)
	if len(segments) > 1 {
		head.Name += "." + strings.Join(segments[1:], ".")
	}
	return head
}

func (s *fileScope) resolveSimple(simple string) typemodel.TypeRef {
	if qualified, ok := s.single[simple]; ok {
		return typemodel.ParseRef(qualified)
	}
	if dotted := s.fileTypes[simple]; len(dotted) == 1 {
		return typemodel.TypeRef{Package: s.pkg, Name: dotted[0]}
	}
	if s.index[qualify(s.pkg, simple)] {
		return typemodel.TypeRef{Package: s.pkg, Name: simple}
	}
	for _, prefix := range s.onDemand {
		if s.index[prefix+"."+simple] {
			return typemodel.ParseRef(prefix + "." + simple)
		}
	}
	if javaLangTypes[simple] {
		return typemodel.TypeRef{Package: "java.lang", Name: simple}
	}
	if len(s.onDemand) == 1 {
		return typemodel.ParseRef(s.onDemand[0] + "." + simple)
	}
	return typemodel.TypeRef{Package: s.pkg, Name: simple}
}

// stripTypeArguments removes every balanced <...> group.
func stripTypeArguments(text string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
