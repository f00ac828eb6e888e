// Package manifest reads type descriptors from a YAML manifest, for callers that have compiled
// classes but no sources.
package manifest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/LegacyCodeHQ/implgen/typemodel"
	"github.com/LegacyCodeHQ/implgen/vcs"
)

// ErrInvalidManifest is returned when a manifest cannot be decoded or describes an invalid type.
var ErrInvalidManifest = errors.New("invalid type manifest")

// Kind values accepted in a manifest.
const (
	KindClass     = "class"
	KindInterface = "interface"
	KindEnum      = "enum"
	KindRecord    = "record"
)

// Document is the root of a manifest file.
type Document struct {
	Types []Type `yaml:"types"`
}

// Type describes one class or interface. Name is fully qualified; nested types use dots,
// e.g. com.example.Outer.Inner.
type Type struct {
	Name         string        `yaml:"name"`
	Kind         string        `yaml:"kind,omitempty"` // "class" (default) | "interface" | "enum" | "record"
	Modifiers    []string      `yaml:"modifiers,omitempty"`
	Superclass   string        `yaml:"superclass,omitempty"`
	Interfaces   []string      `yaml:"interfaces,omitempty"`
	Methods      []Method      `yaml:"methods,omitempty"`
	Constructors []Constructor `yaml:"constructors,omitempty"`
}

// Method describes a declared method. Parameter and return types are qualified names with
// optional [] suffixes; primitives are written as-is.
type Method struct {
	Name      string   `yaml:"name"`
	Modifiers []string `yaml:"modifiers,omitempty"`
	Params    []string `yaml:"params,omitempty"`
	Returns   string   `yaml:"returns,omitempty"` // void when empty
	Throws    []string `yaml:"throws,omitempty"`
}

// Constructor describes a declared constructor.
type Constructor struct {
	Modifiers []string `yaml:"modifiers,omitempty"`
	Params    []string `yaml:"params,omitempty"`
	Throws    []string `yaml:"throws,omitempty"`
}

// Load reads and converts every manifest in paths.
func Load(reader vcs.ContentReader, paths ...string) ([]*typemodel.TypeDescriptor, error) {
	var types []*typemodel.TypeDescriptor
	for _, path := range paths {
		content, err := reader(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read manifest %s", path)
		}
		doc, err := Decode(bytes.NewReader(content))
		if err != nil {
			return nil, errors.Wrapf(err, "manifest %s", path)
		}
		described, err := doc.Descriptors(path)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest %s", path)
		}
		types = append(types, described...)
	}
	return types, nil
}

// Decode parses a manifest document. Unknown fields are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, errors.Mark(errors.Wrap(err, "failed to decode manifest"), ErrInvalidManifest)
	}
	return &doc, nil
}

// Descriptors converts the document into type descriptors whose Origin is origin.
func (d *Document) Descriptors(origin string) ([]*typemodel.TypeDescriptor, error) {
	types := make([]*typemodel.TypeDescriptor, 0, len(d.Types))
	for i, t := range d.Types {
		desc, err := t.descriptor(origin)
		if err != nil {
			return nil, errors.Wrapf(err, "types[%d]", i)
		}
		types = append(types, desc)
	}
	return types, nil
}

func (t Type) descriptor(origin string) (*typemodel.TypeDescriptor, error) {
	if t.Name == "" {
		return nil, invalid("type has no name")
	}
	ref := typemodel.ParseRef(t.Name)
	if ref.Dims > 0 || ref.IsPrimitive() {
		return nil, invalid("%q is not a class or interface name", t.Name)
	}

	mods, err := parseModifiers(t.Modifiers)
	if err != nil {
		return nil, errors.Wrapf(err, "type %s", t.Name)
	}

	desc := &typemodel.TypeDescriptor{
		Package:    ref.Package,
		Name:       ref.Name,
		Modifiers:  mods,
		Interfaces: parseRefs(t.Interfaces),
		Origin:     origin,
	}

	switch t.Kind {
	case "", KindClass:
		desc.Superclass = superclass(desc, t.Superclass)
	case KindInterface:
		if t.Superclass != "" {
			return nil, invalid("interface %s cannot declare a superclass", t.Name)
		}
		desc.Modifiers |= typemodel.Interface | typemodel.Abstract
	case KindEnum, KindRecord:
		desc.Modifiers |= typemodel.Final
		name := "Enum"
		if t.Kind == KindRecord {
			name = "Record"
		}
		desc.Superclass = &typemodel.TypeRef{Package: "java.lang", Name: name}
	default:
		return nil, invalid("type %s has unknown kind %q", t.Name, t.Kind)
	}

	for _, m := range t.Methods {
		method, err := m.method(desc.IsInterface())
		if err != nil {
			return nil, errors.Wrapf(err, "type %s", t.Name)
		}
		desc.Methods = append(desc.Methods, method)
	}

	if desc.IsInterface() && len(t.Constructors) > 0 {
		return nil, invalid("interface %s cannot declare constructors", t.Name)
	}
	for _, c := range t.Constructors {
		mods, err := parseModifiers(c.Modifiers)
		if err != nil {
			return nil, errors.Wrapf(err, "type %s constructor", t.Name)
		}
		desc.Constructors = append(desc.Constructors, typemodel.Constructor{
			Params:    params(c.Params),
			Modifiers: mods,
			Throws:    parseRefs(c.Throws),
		})
	}

	return desc, nil
}

func superclass(desc *typemodel.TypeDescriptor, declared string) *typemodel.TypeRef {
	if declared != "" {
		ref := typemodel.ParseRef(declared)
		return &ref
	}
	if desc.QualifiedName() == typemodel.Object.QualifiedName() {
		return nil
	}
	obj := typemodel.Object
	return &obj
}

func (m Method) method(inInterface bool) (typemodel.Method, error) {
	if m.Name == "" {
		return typemodel.Method{}, invalid("method has no name")
	}
	mods, err := parseModifiers(m.Modifiers)
	if err != nil {
		return typemodel.Method{}, errors.Wrapf(err, "method %s", m.Name)
	}

	if inInterface {
		if !mods.IsPrivate() {
			mods |= typemodel.Public
		}
		if !mods.IsStatic() && !mods.IsDefault() && !mods.IsPrivate() {
			mods |= typemodel.Abstract
		}
	}

	ret := typemodel.Void
	if m.Returns != "" {
		ret = typemodel.ParseRef(m.Returns)
	}

	return typemodel.Method{
		Name:      m.Name,
		Params:    params(m.Params),
		Return:    ret,
		Modifiers: mods,
		Throws:    parseRefs(m.Throws),
	}, nil
}

func parseModifiers(keywords []string) (typemodel.Modifiers, error) {
	var mods typemodel.Modifiers
	for _, kw := range keywords {
		m := typemodel.ParseModifier(kw)
		if m == 0 {
			return 0, invalid("unknown modifier %q", kw)
		}
		mods |= m
	}
	if count := visibilityCount(mods); count > 1 {
		return 0, invalid("conflicting visibility modifiers %v", keywords)
	}
	return mods, nil
}

func visibilityCount(mods typemodel.Modifiers) int {
	count := 0
	for _, m := range []typemodel.Modifiers{typemodel.Public, typemodel.Protected, typemodel.Private} {
		if mods.Has(m) {
			count++
		}
	}
	return count
}

func params(types []string) []typemodel.Param {
	params := make([]typemodel.Param, 0, len(types))
	for i, t := range types {
		params = append(params, typemodel.Param{Name: fmt.Sprintf("arg%d", i), Type: typemodel.ParseRef(t)})
	}
	return params
}

func parseRefs(names []string) []typemodel.TypeRef {
	if len(names) == 0 {
		return nil
	}
	refs := make([]typemodel.TypeRef, 0, len(names))
	for _, n := range names {
		refs = append(refs, typemodel.ParseRef(n))
	}
	return refs
}

func invalid(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidManifest)
}
