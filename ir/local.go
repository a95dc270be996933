package ir

import "strings"

// Local is a named, typed storage location.
//
// A body owns its locals; expression leaves only reference them. Stack locals
// are temporaries introduced by the bytecode-to-flat conversion and carry no
// source-level name; the others are visible to anyone reading the output.
type Local struct {
	Name  string
	Type  Type
	Stack bool
}

// NewLocal creates a local. Names starting with '$' denote stack locals.
func NewLocal(name string, typ Type) *Local {
	return &Local{Name: name, Type: typ, Stack: strings.HasPrefix(name, "$")}
}

// Copy returns a new local with the same name, type and visibility.
func (l *Local) Copy() *Local {
	c := *l
	return &c
}

func (l *Local) String() string { return l.Name }
func (*Local) isValue()         {}
