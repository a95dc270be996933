package ir

import "strings"

// Type names a value type using Java source syntax: "int", "java.lang.String", "int[][]".
type Type string

// Primitive types.
const (
	Void    Type = "void"
	Boolean Type = "boolean"
	Byte    Type = "byte"
	Char    Type = "char"
	Short   Type = "short"
	Int     Type = "int"
	Long    Type = "long"
	Float   Type = "float"
	Double  Type = "double"
)

// Common reference types.
const (
	Object    Type = "java.lang.Object"
	String    Type = "java.lang.String"
	Throwable Type = "java.lang.Throwable"
)

// ArrayOf returns the array type with elem as element type.
func ArrayOf(elem Type) Type {
	return elem + "[]"
}

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool {
	return strings.HasSuffix(string(t), "[]")
}

// Elem returns the element type of an array type, or t itself.
func (t Type) Elem() Type {
	return Type(strings.TrimSuffix(string(t), "[]"))
}

// IsPrimitive reports whether t is one of the primitive types, void included.
func (t Type) IsPrimitive() bool {
	switch t {
	case Void, Boolean, Byte, Char, Short, Int, Long, Float, Double:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }
