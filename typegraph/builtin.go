package typegraph

import "github.com/LegacyCodeHQ/implgen/typemodel"

// objectDescriptor describes the members of java.lang.Object that a subclass can see.
// Every class hierarchy ends here, so its concrete public methods satisfy interface
// requirements such as equals(Object) when the root is a class.
func objectDescriptor() *typemodel.TypeDescriptor {
	obj := typemodel.Object
	str := typemodel.TypeRef{Package: "java.lang", Name: "String"}
	class := typemodel.TypeRef{Package: "java.lang", Name: "Class"}
	interrupted := []typemodel.TypeRef{{Package: "java.lang", Name: "InterruptedException"}}
	long := typemodel.Primitive("long")

	public := typemodel.Public
	publicFinal := typemodel.Public | typemodel.Final

	return &typemodel.TypeDescriptor{
		Package:   "java.lang",
		Name:      "Object",
		Modifiers: typemodel.Public,
		Methods: []typemodel.Method{
			{Name: "equals", Params: []typemodel.Param{{Name: "obj", Type: obj}}, Return: typemodel.Primitive("boolean"), Modifiers: public},
			{Name: "hashCode", Return: typemodel.Primitive("int"), Modifiers: public},
			{Name: "toString", Return: str, Modifiers: public},
			{Name: "getClass", Return: class, Modifiers: publicFinal},
			{Name: "notify", Return: typemodel.Void, Modifiers: publicFinal},
			{Name: "notifyAll", Return: typemodel.Void, Modifiers: publicFinal},
			{Name: "wait", Return: typemodel.Void, Modifiers: publicFinal, Throws: interrupted},
			{Name: "wait", Params: []typemodel.Param{{Name: "timeout", Type: long}}, Return: typemodel.Void, Modifiers: publicFinal, Throws: interrupted},
			{Name: "wait", Params: []typemodel.Param{{Name: "timeout", Type: long}, {Name: "nanos", Type: typemodel.Primitive("int")}}, Return: typemodel.Void, Modifiers: publicFinal, Throws: interrupted},
			{Name: "clone", Return: obj, Modifiers: typemodel.Protected, Throws: []typemodel.TypeRef{{Package: "java.lang", Name: "CloneNotSupportedException"}}},
			{Name: "finalize", Return: typemodel.Void, Modifiers: typemodel.Protected, Throws: []typemodel.TypeRef{{Package: "java.lang", Name: "Throwable"}}},
		},
		Constructors: []typemodel.Constructor{{Modifiers: typemodel.Public}},
		Origin:       "builtin",
	}
}
