package tree

import (
	"fmt"
	"math"
	"slices"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
)

// Trap is an exception-handler region: statements from Begin up to but not
// including End are protected, and Handler receives exceptions of type Exception.
// The three references are independent and may coincide.
type Trap struct {
	Begin     ir.Unit
	End       ir.Unit
	Handler   ir.Unit
	Exception ir.Type
}

// Body is a tree method body.
type Body struct {
	Method *ir.Method
	Locals []*ir.Local
	Stmts  []Stmt
	Traps  []*Trap
	next   int
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

// Add appends statements in order. Each statement receives the next unused
// index; indices are never reused, even after Remove.
func (b *Body) Add(stmts ...Stmt) {
	for _, s := range stmts {
		s.setIndex(b.next)
		b.next++
		b.Stmts = append(b.Stmts, s)
	}
}

// IndexLimit returns one past the largest index handed out by Add.
func (b *Body) IndexLimit() int { return b.next }

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
func (b *Body) AddTrap(exception ir.Type, begin, end, handler ir.Unit) *Trap {
	t := &Trap{Exception: exception, Begin: begin, End: end, Handler: handler}
	b.Traps = append(b.Traps, t)
	return t
}

// Positions maps statement indices to current positions in Stmts; removed or
// foreign indices map to -1.
func (b *Body) Positions() []int {
	pos := make([]int, b.next)
	for i := range pos {
		pos[i] = -1
	}
	for i, s := range b.Stmts {
		if idx := s.Index(); idx >= 0 && idx < len(pos) {
			pos[idx] = i
		}
	}
	return pos
}

// Position returns the current position of u in Stmts, or -1.
func (b *Body) Position(u ir.Unit) int {
	if u == nil {
		return -1
	}
	return slices.IndexFunc(b.Stmts, func(s Stmt) bool { return ir.Unit(s) == u })
}

// Contains reports whether u is one of the body's statements.
func (b *Body) Contains(u ir.Unit) bool {
	return b.Position(u) >= 0
}

// Remove deletes s from the statement list. References to s are left alone;
// callers redirect them first.
func (b *Body) Remove(s Stmt) bool {
	i := b.Position(s)
	if i < 0 {
		return false
	}
	b.Stmts = slices.Delete(b.Stmts, i, i+1)
	return true
}

// Redirect replaces every branch target and trap boundary equal to from with to.
func (b *Body) Redirect(from, to ir.Unit) {
	swap := func(u *ir.Unit) {
		if *u == from {
			*u = to
		}
	}
	for _, s := range b.Stmts {
		switch s := s.(type) {
		case *GotoStmt:
			swap(&s.Target)
		case *IfStmt:
			swap(&s.Target)
		case *LookupSwitchStmt:
			for i := range s.Targets {
				swap(&s.Targets[i])
			}
			swap(&s.Default)
		case *TableSwitchStmt:
			for i := range s.Targets {
				swap(&s.Targets[i])
			}
			swap(&s.Default)
		}
	}
	for _, t := range b.Traps {
		swap(&t.Begin)
		swap(&t.End)
		swap(&t.Handler)
	}
}

// IsTargeted reports whether u is entered other than by falling through:
// it is a branch target or a trap handler.
func (b *Body) IsTargeted(u ir.Unit) bool {
	for _, s := range b.Stmts {
		if slices.Contains(s.Branches(), u) {
			return true
		}
	}
	for _, t := range b.Traps {
		if t.Handler == u {
			return true
		}
	}
	return false
}

// Covering returns the traps whose protected range contains the statement at
// position p. pos must come from Positions.
func (b *Body) Covering(pos []int, p int) []*Trap {
	var out []*Trap
	for _, t := range b.Traps {
		begin, end := unitPos(pos, t.Begin), unitPos(pos, t.End)
		if end < 0 {
			end = math.MaxInt
		}
		if begin >= 0 && begin <= p && p < end {
			out = append(out, t)
		}
	}
	return out
}

func unitPos(pos []int, u ir.Unit) int {
	if u == nil {
		return -1
	}
	i := u.Index()
	if i < 0 || i >= len(pos) {
		return -1
	}
	return pos[i]
}

// Validate checks the body invariants: statement indices are unique, every
// operand slot is folded, and every branch target and trap boundary is a
// statement of this body.
func (b *Body) Validate() error {
	seen := make(map[int]bool, len(b.Stmts))
	for _, s := range b.Stmts {
		if seen[s.Index()] {
			return errors.Internal(errors.PhaseRelink, fmt.Sprintf("duplicate statement index %d", s.Index()))
		}
		seen[s.Index()] = true
	}
	for i, s := range b.Stmts {
		for _, box := range Boxes(s) {
			if box == nil || !box.Folded() {
				return errors.New(errors.PhaseFold, errors.KindInternal).
					Stmt(i, s.String()).
					Detail("operand slot is not folded").
					Build()
			}
		}
		for _, t := range s.Branches() {
			if !b.Contains(t) {
				return errors.New(errors.PhaseRelink, errors.KindUnresolvedTarget).
					Stmt(i, s.String()).
					Detail("target %s is not a statement of this body", ir.UnitLabel(t)).
					Build()
			}
		}
	}
	for i, t := range b.Traps {
		for _, u := range []ir.Unit{t.Begin, t.End, t.Handler} {
			if !b.Contains(u) {
				return errors.New(errors.PhaseRelink, errors.KindUnresolvedTarget).
					Detail("trap %d (%s): boundary %s is not a statement of this body", i, t.Exception, ir.UnitLabel(u)).
					Build()
			}
		}
	}
	return nil
}
