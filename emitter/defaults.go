package emitter

import "github.com/LegacyCodeHQ/implgen/typemodel"

var primitiveDefaults = map[string]string{
	"boolean": "false",
	"byte":    "0",
	"char":    "0",
	"short":   "0",
	"int":     "0",
	"long":    "0L",
	"float":   "0.0f",
	"double":  "0.0",
}

// DefaultValue returns the literal a stub returns for t, or "" for void.
func DefaultValue(t typemodel.TypeRef) string {
	if t.IsVoid() {
		return ""
	}
	if t.IsPrimitive() {
		return primitiveDefaults[t.Name]
	}
	return "null"
}
