// Package resolver computes what a concrete subclass of an interface or abstract class must
// declare: the methods left without an accessible concrete body anywhere in the hierarchy,
// and the constructors to forward to the superclass.
package resolver

import (
	"github.com/cockroachdb/errors"

	"github.com/LegacyCodeHQ/implgen/internal/logging"
	"github.com/LegacyCodeHQ/implgen/typegraph"
	"github.com/LegacyCodeHQ/implgen/typemodel"
)

var (
	// ErrNotImplementable is returned for final types and inner (non-static nested) classes.
	ErrNotImplementable = errors.New("type cannot be implemented")
	// ErrNoAccessibleConstructor is returned when every declared constructor is private.
	ErrNoAccessibleConstructor = errors.New("no accessible constructor")
)

// Resolution is the outcome of resolving a root type.
type Resolution struct {
	Root         *typemodel.TypeDescriptor
	Methods      *typemodel.RequiredMethodSet
	Constructors []typemodel.Constructor
}

// Resolve computes the required methods and forwarded constructors of root. It reads g and
// root without modifying them and keeps all working state local, so concurrent calls are safe.
func Resolve(g *typegraph.Graph, root *typemodel.TypeDescriptor) (*Resolution, error) {
	if root.Modifiers.IsFinal() {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNotImplementable, "%s is final", root.QualifiedName()),
			"only interfaces and non-final classes can be implemented")
	}
	if root.IsInnerClass() {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNotImplementable, "%s is an inner class", root.QualifiedName()),
			"a top-level stub cannot supply the enclosing instance; declare the nested class static")
	}

	ctors, err := accessibleConstructors(root)
	if err != nil {
		return nil, err
	}

	walker := g.NewWalker()
	required := typemodel.NewRequiredMethodSet()

	seed := func(t *typemodel.TypeDescriptor) {
		for _, m := range t.Methods {
			if m.Modifiers.IsStatic() || m.Modifiers.IsPrivate() || m.Modifiers.IsDefault() {
				continue
			}
			required.Add(m.Signature())
		}
	}

	if root.IsInterface() {
		walker.Interfaces(root, seed)
		seed(root)
	} else {
		walker.SuperclassChain(root, func(t *typemodel.TypeDescriptor) {
			walker.Interfaces(t, seed)
		})
		walker.SuperclassChain(root, func(t *typemodel.TypeDescriptor) {
			refine(required, t)
		})
	}

	logging.Debug("resolved requirements", map[string]any{
		"type":         root.QualifiedName(),
		"methods":      required.Len(),
		"constructors": len(ctors),
	})

	return &Resolution{
		Root:         root,
		Methods:      required,
		Constructors: ctors,
	}, nil
}

// refine applies one class's declarations: abstract methods become required, and public or
// protected concrete methods satisfy any requirement with the same signature.
func refine(required *typemodel.RequiredMethodSet, t *typemodel.TypeDescriptor) {
	for _, m := range t.Methods {
		switch {
		case m.Modifiers.IsAbstract():
			required.Add(m.Signature())
		case m.Modifiers.IsPublic() || m.Modifiers.IsProtected():
			required.Remove(m.Signature())
		}
	}
}

// accessibleConstructors returns the non-private constructors of root. A type with no
// declared constructors has an implicit accessible no-arg constructor and forwards nothing.
func accessibleConstructors(root *typemodel.TypeDescriptor) ([]typemodel.Constructor, error) {
	if root.IsInterface() || len(root.Constructors) == 0 {
		return nil, nil
	}

	var ctors []typemodel.Constructor
	for _, c := range root.Constructors {
		if c.Modifiers.IsPrivate() {
			continue
		}
		ctors = append(ctors, c)
	}
	if len(ctors) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNoAccessibleConstructor, "%s declares only private constructors", root.QualifiedName()),
			"a subclass must be able to call a superclass constructor")
	}
	return ctors, nil
}
