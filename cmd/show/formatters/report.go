package formatters

import (
	"github.com/LegacyCodeHQ/implgen/emitter"
	"github.com/LegacyCodeHQ/implgen/resolver"
	"github.com/LegacyCodeHQ/implgen/typegraph"
	"github.com/LegacyCodeHQ/implgen/typemodel"
)

// Report is what a concrete implementation of one type must declare.
type Report struct {
	Type           string        `json:"type"`
	Kind           string        `json:"kind"`
	Origin         string        `json:"origin,omitempty"`
	Implementation string        `json:"implementation"`
	Parents        []ParentEntry `json:"parents"`
	Constructors   []MemberEntry `json:"constructors"`
	Methods        []MemberEntry `json:"methods"`
}

// ParentEntry is a declared superclass or interface.
type ParentEntry struct {
	Type     string `json:"type"`
	Kind     string `json:"kind"`
	Resolved bool   `json:"resolved"`
}

// MemberEntry is a required method or a forwarded constructor. Constructors have no name or
// return type.
type MemberEntry struct {
	Visibility string   `json:"visibility,omitempty"`
	Returns    string   `json:"returns,omitempty"`
	Name       string   `json:"name,omitempty"`
	Params     []string `json:"params"`
	Throws     []string `json:"throws,omitempty"`
}

// NewReport summarizes a resolution. parents are the root's declared parents in the graph.
func NewReport(res *resolver.Resolution, parents []typegraph.Parent) Report {
	root := res.Root
	report := Report{
		Type:           root.QualifiedName(),
		Kind:           kind(root),
		Origin:         root.Origin,
		Implementation: implementationName(root),
		Parents:        []ParentEntry{},
		Constructors:   []MemberEntry{},
		Methods:        []MemberEntry{},
	}

	for _, p := range parents {
		report.Parents = append(report.Parents, ParentEntry{
			Type:     p.Ref.String(),
			Kind:     string(p.Kind),
			Resolved: p.Resolved,
		})
	}

	for _, c := range res.Constructors {
		report.Constructors = append(report.Constructors, MemberEntry{
			Visibility: c.Modifiers.Visibility(),
			Params:     refNames(c.ParamTypes()),
			Throws:     optionalRefNames(c.Throws),
		})
	}

	for _, sig := range res.Methods.Sorted() {
		m := sig.Method
		visibility := m.Modifiers.Visibility()
		if root.IsInterface() {
			visibility = "public"
		}
		report.Methods = append(report.Methods, MemberEntry{
			Visibility: visibility,
			Returns:    m.Return.String(),
			Name:       m.Name,
			Params:     refNames(sig.ParamTypes),
		})
	}

	return report
}

func kind(t *typemodel.TypeDescriptor) string {
	switch {
	case t.IsInterface():
		return "interface"
	case t.Modifiers.IsAbstract():
		return "abstract class"
	default:
		return "class"
	}
}

func implementationName(root *typemodel.TypeDescriptor) string {
	name := emitter.ClassName(root)
	if root.Package == "" {
		return name
	}
	return root.Package + "." + name
}

func refNames(refs []typemodel.TypeRef) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.String())
	}
	return names
}

func optionalRefNames(refs []typemodel.TypeRef) []string {
	if len(refs) == 0 {
		return nil
	}
	return refNames(refs)
}
