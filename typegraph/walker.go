package typegraph

import "github.com/LegacyCodeHQ/implgen/typemodel"

// Walker traverses a Graph for a single resolution. It remembers which interfaces it has
// visited so an interface reached through several paths is visited once. A Walker must not be
// shared between resolutions; the Graph may be.
type Walker struct {
	graph       *Graph
	visitedIfcs map[string]bool
}

// NewWalker returns a walker with empty traversal state.
func (g *Graph) NewWalker() *Walker {
	return &Walker{graph: g, visitedIfcs: make(map[string]bool)}
}

// Interfaces visits the transitive closure of the interfaces t declares. Each interface's
// super-interfaces are visited before the interface itself. t is not visited.
func (w *Walker) Interfaces(t *typemodel.TypeDescriptor, visit func(*typemodel.TypeDescriptor)) {
	for _, ref := range t.Interfaces {
		iface, ok := w.graph.Resolve(ref)
		if !ok {
			continue
		}
		if w.visitedIfcs[iface.QualifiedName()] {
			continue
		}
		w.visitedIfcs[iface.QualifiedName()] = true

		w.Interfaces(iface, visit)
		visit(iface)
	}
}

// SuperclassChain visits t's superclass chain from the root ancestor down to t itself.
func (w *Walker) SuperclassChain(t *typemodel.TypeDescriptor, visit func(*typemodel.TypeDescriptor)) {
	if t == nil {
		return
	}
	var super *typemodel.TypeDescriptor
	if t.Superclass != nil {
		super, _ = w.graph.Resolve(*t.Superclass)
	}
	w.SuperclassChain(super, visit)
	visit(t)
}
