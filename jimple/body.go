package jimple

import (
	"github.com/wippyai/treeir/ir"
)

// Trap is an exception-handler region: statements from Begin up to but not
// including End are protected, and Handler receives exceptions of type Exception.
type Trap struct {
	Begin     Stmt
	End       Stmt
	Handler   Stmt
	Exception ir.Type
}

// Body is a flat method body.
type Body struct {
	Method *ir.Method
	Locals []*ir.Local
	Stmts  []Stmt
	Traps  []*Trap
}

// NewBody creates an empty body for m.
func NewBody(m *ir.Method) *Body {
	return &Body{Method: m}
}

// Signature returns the signature of the owning method.
func (b *Body) Signature() string {
	if b == nil || b.Method == nil {
		return "<unknown>"
	}
	return b.Method.Signature()
}

// Add appends statements in order, assigning each its index.
// A statement belongs to exactly one body.
func (b *Body) Add(stmts ...Stmt) {
	for _, s := range stmts {
		s.setIndex(len(b.Stmts))
		b.Stmts = append(b.Stmts, s)
	}
}

// AddLocal appends l to the local set and returns it.
func (b *Body) AddLocal(l *ir.Local) *ir.Local {
	b.Locals = append(b.Locals, l)
	return l
}

// NewLocal creates a local, adds it to the body and returns it.
func (b *Body) NewLocal(name string, typ ir.Type) *ir.Local {
	return b.AddLocal(ir.NewLocal(name, typ))
}

// Local returns the local with the given name, or nil.
func (b *Body) Local(name string) *ir.Local {
	for _, l := range b.Locals {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// AddTrap appends a trap region.
func (b *Body) AddTrap(exception ir.Type, begin, end, handler Stmt) *Trap {
	t := &Trap{Exception: exception, Begin: begin, End: end, Handler: handler}
	b.Traps = append(b.Traps, t)
	return t
}

// Contains reports whether s is one of the body's statements.
func (b *Body) Contains(s ir.Unit) bool {
	if s == nil {
		return false
	}
	i := s.Index()
	return i >= 0 && i < len(b.Stmts) && ir.Unit(b.Stmts[i]) == s
}

// RawBody is a method body as read from a class file, before it has been
// converted to flat statements.
type RawBody struct {
	Method    *ir.Method
	Code      []byte
	MaxStack  uint16
	MaxLocals uint16
}

// Signature returns the signature of the owning method.
func (r *RawBody) Signature() string {
	if r == nil || r.Method == nil {
		return "<unknown>"
	}
	return r.Method.Signature()
}

// Normalizer converts a raw class-file body into a flat body.
type Normalizer interface {
	Normalize(raw *RawBody) (*Body, error)
}

// NormalizerFunc is an adapter to use ordinary functions as Normalizers.
type NormalizerFunc func(raw *RawBody) (*Body, error)

// Normalize implements Normalizer.
func (f NormalizerFunc) Normalize(raw *RawBody) (*Body, error) {
	return f(raw)
}
