// Package ir holds the vocabulary shared by the flat and tree method-body forms.
//
// It defines types, locals, method and field signatures, the closed set of flat
// operand values, and the statement identity used to relink control flow:
//
//	Type       primitive, reference and array type names
//	Local      named, typed storage owned by a body
//	MethodRef  <Class: ret name(params)> signature
//	FieldRef   <Class: type name> signature
//	Value      constants, locals, refs and single-operation expressions
//	Unit       a statement's stable index, kind and branch targets
//
// Values are immutable once built, except Local which a body owns.
package ir
