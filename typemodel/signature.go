package typemodel

import (
	"sort"
	"strings"
)

// MethodSignature is a method's identity for dedup and override matching: its name and
// ordered parameter types. Method carries the declaration the signature was taken from;
// return type, modifiers and throws are not part of the identity.
type MethodSignature struct {
	Name       string
	ParamTypes []TypeRef
	Method     Method
}

// SignatureKey is the composite map key of a MethodSignature.
type SignatureKey struct {
	Name   string
	Params string
}

// Equal reports whether two signatures have the same name and element-wise equal
// parameter types.
func Equal(a, b MethodSignature) bool {
	if a.Name != b.Name || len(a.ParamTypes) != len(b.ParamTypes) {
		return false
	}
	for i := range a.ParamTypes {
		if !a.ParamTypes[i].Equal(b.ParamTypes[i]) {
			return false
		}
	}
	return true
}

// Key returns the dedup key of the signature. Two signatures have the same key exactly when
// Equal reports true for them.
func (s MethodSignature) Key() SignatureKey {
	params := make([]string, len(s.ParamTypes))
	for i, p := range s.ParamTypes {
		params[i] = p.String()
	}
	return SignatureKey{Name: s.Name, Params: strings.Join(params, ",")}
}

// CompareKey returns the display ordering key: the name followed by the rendered parameter
// list. It orders output only.
func (s MethodSignature) CompareKey() string {
	return s.Name + RenderParamList(s.ParamTypes)
}

func (s MethodSignature) String() string {
	return s.CompareKey()
}

// RenderParamList renders parameter types as "(a.B,int[])".
func RenderParamList(types []TypeRef) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// RequiredMethodSet is a set of method signatures unique under Equal.
type RequiredMethodSet struct {
	entries map[SignatureKey]MethodSignature
}

// NewRequiredMethodSet returns an empty set.
func NewRequiredMethodSet() *RequiredMethodSet {
	return &RequiredMethodSet{entries: make(map[SignatureKey]MethodSignature)}
}

// Add inserts sig. An equal signature already present is replaced, so the most recently
// visited declaration supplies the modifiers used for emission. The return type never widens
// back to java.lang.Object once a more specific reference type was seen, since a stub
// returning Object cannot override a covariant declaration.
func (s *RequiredMethodSet) Add(sig MethodSignature) {
	key := sig.Key()
	if prev, ok := s.entries[key]; ok && narrowsObject(prev.Method.Return, sig.Method.Return) {
		sig.Method.Return = prev.Method.Return
	}
	s.entries[key] = sig
}

// narrowsObject reports whether prev is a reference type more specific than next, which is
// java.lang.Object.
func narrowsObject(prev, next TypeRef) bool {
	return next.Equal(Object) && !prev.Equal(Object) && !prev.IsPrimitive() && !prev.IsVoid()
}

// Remove deletes the signature equal to sig, if any, and reports whether one was present.
func (s *RequiredMethodSet) Remove(sig MethodSignature) bool {
	key := sig.Key()
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// Contains reports whether a signature equal to sig is present.
func (s *RequiredMethodSet) Contains(sig MethodSignature) bool {
	_, ok := s.entries[sig.Key()]
	return ok
}

func (s *RequiredMethodSet) Len() int {
	return len(s.entries)
}

// Sorted returns the signatures ordered by CompareKey.
func (s *RequiredMethodSet) Sorted() []MethodSignature {
	sigs := make([]MethodSignature, 0, len(s.entries))
	for _, sig := range s.entries {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool {
		ki, kj := sigs[i].CompareKey(), sigs[j].CompareKey()
		if ki != kj {
			return ki < kj
		}
		return sigs[i].Key().Params < sigs[j].Key().Params
	})
	return sigs
}
