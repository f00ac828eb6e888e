// Package typegraph materializes type descriptors into an inheritance graph and walks it in the
// orders requirement resolution depends on.
package typegraph

import (
	"sort"

	"github.com/cockroachdb/errors"
	graphlib "github.com/dominikbraun/graph"

	"github.com/LegacyCodeHQ/implgen/internal/logging"
	"github.com/LegacyCodeHQ/implgen/typemodel"
)

var (
	// ErrCyclicHierarchy is returned when extends/implements edges form a cycle.
	ErrCyclicHierarchy = errors.New("cyclic type hierarchy")
	// ErrTypeNotFound is returned when a requested type is not in the graph.
	ErrTypeNotFound = errors.New("type not found")
	// ErrDuplicateType is returned when two descriptors share a qualified name.
	ErrDuplicateType = errors.New("duplicate type")
)

// EdgeKind labels an inheritance edge.
type EdgeKind string

const (
	EdgeExtends    EdgeKind = "extends"
	EdgeImplements EdgeKind = "implements"
)

const edgeKindAttribute = "kind"

// Parent is an outgoing inheritance edge of a type.
type Parent struct {
	Ref      typemodel.TypeRef
	Kind     EdgeKind
	Resolved bool
}

// Graph is an immutable inheritance graph. Edges point from a type to its superclass and
// to the interfaces it declares.
type Graph struct {
	g graphlib.Graph[string, *typemodel.TypeDescriptor]
}

func descriptorHash(t *typemodel.TypeDescriptor) string {
	return t.QualifiedName()
}

// Build creates a graph from descriptors. java.lang.Object is added unless supplied.
// References to types outside the set stay unresolved and contribute no members.
func Build(types []*typemodel.TypeDescriptor) (*Graph, error) {
	g := graphlib.New(descriptorHash, graphlib.Directed(), graphlib.PreventCycles())

	all := make([]*typemodel.TypeDescriptor, 0, len(types)+1)
	all = append(all, types...)
	if !containsType(types, typemodel.Object.QualifiedName()) {
		all = append(all, objectDescriptor())
	}

	for _, t := range all {
		if err := g.AddVertex(t); err != nil {
			if errors.Is(err, graphlib.ErrVertexAlreadyExists) {
				existing, _ := g.Vertex(t.QualifiedName())
				return nil, errors.Wrapf(ErrDuplicateType, "%s declared in %s and %s", t.QualifiedName(), existing.Origin, t.Origin)
			}
			return nil, errors.Wrapf(err, "failed to add type %s", t.QualifiedName())
		}
	}

	for _, t := range all {
		for _, p := range declaredParents(t) {
			target := p.Ref.QualifiedName()
			if _, err := g.Vertex(target); err != nil {
				logging.Debug("unresolved ancestor", map[string]any{
					"type":     t.QualifiedName(),
					"ancestor": target,
					"kind":     string(p.Kind),
				})
				continue
			}
			err := g.AddEdge(t.QualifiedName(), target, graphlib.EdgeAttribute(edgeKindAttribute, string(p.Kind)))
			switch {
			case err == nil, errors.Is(err, graphlib.ErrEdgeAlreadyExists):
			case errors.Is(err, graphlib.ErrEdgeCreatesCycle):
				return nil, errors.WithHintf(
					errors.Wrapf(ErrCyclicHierarchy, "%s %s %s", t.QualifiedName(), p.Kind, target),
					"check the extends and implements clauses of %s", t.Origin)
			default:
				return nil, errors.Wrapf(err, "failed to link %s to %s", t.QualifiedName(), target)
			}
		}
	}

	return &Graph{g: g}, nil
}

func containsType(types []*typemodel.TypeDescriptor, qualified string) bool {
	for _, t := range types {
		if t.QualifiedName() == qualified {
			return true
		}
	}
	return false
}

func declaredParents(t *typemodel.TypeDescriptor) []Parent {
	var parents []Parent
	if t.Superclass != nil {
		parents = append(parents, Parent{Ref: *t.Superclass, Kind: EdgeExtends})
	}
	for _, iface := range t.Interfaces {
		parents = append(parents, Parent{Ref: iface, Kind: EdgeImplements})
	}
	return parents
}

// Lookup returns the descriptor with the given qualified name.
func (g *Graph) Lookup(qualified string) (*typemodel.TypeDescriptor, error) {
	t, err := g.g.Vertex(qualified)
	if err != nil {
		if errors.Is(err, graphlib.ErrVertexNotFound) {
			return nil, errors.WithHint(
				errors.Wrapf(ErrTypeNotFound, "%s", qualified),
				"pass the source root that declares it with --source, or list it in the manifest")
		}
		return nil, err
	}
	return t, nil
}

// Resolve returns the descriptor a reference points to, if it is part of the graph.
func (g *Graph) Resolve(ref typemodel.TypeRef) (*typemodel.TypeDescriptor, bool) {
	t, err := g.g.Vertex(ref.QualifiedName())
	if err != nil {
		return nil, false
	}
	return t, true
}

// Parents returns the declared superclass and interfaces of t, marking which of them are
// present in the graph.
func (g *Graph) Parents(t *typemodel.TypeDescriptor) []Parent {
	adjacency, err := g.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	out := adjacency[t.QualifiedName()]

	parents := declaredParents(t)
	for i := range parents {
		edge, ok := out[parents[i].Ref.QualifiedName()]
		if !ok {
			continue
		}
		parents[i].Resolved = true
		if kind, ok := edge.Properties.Attributes[edgeKindAttribute]; ok {
			parents[i].Kind = EdgeKind(kind)
		}
	}
	return parents
}

// QualifiedNames returns every type in the graph, sorted.
func (g *Graph) QualifiedNames() []string {
	adjacency, err := g.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(adjacency))
	for name := range adjacency {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
