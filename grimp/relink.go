package grimp

import (
	"fmt"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

// unitMap pairs old statements with new ones, indexed by the old statement's
// index. The old statement is kept alongside so a foreign statement that
// happens to share an index is not mistaken for a member.
type unitMap struct {
	olds []ir.Unit
	news []tree.Stmt
}

func newUnitMap(n int) *unitMap {
	return &unitMap{olds: make([]ir.Unit, n), news: make([]tree.Stmt, n)}
}

func (m *unitMap) put(old ir.Unit, s tree.Stmt) {
	i := old.Index()
	m.olds[i] = old
	m.news[i] = s
}

// get returns the new counterpart of old.
func (m *unitMap) get(old ir.Unit) (tree.Stmt, bool) {
	if old == nil {
		return nil, false
	}
	i := old.Index()
	if i < 0 || i >= len(m.olds) || m.olds[i] != old {
		return nil, false
	}
	return m.news[i], true
}

// trapRef is a trap whose boundaries still name old statements.
type trapRef struct {
	exception           ir.Type
	begin, end, handler ir.Unit
}

// relinker moves statement references from an old body to a new one.
type relinker struct {
	links *unitMap
	phase errors.Phase
}

// resolve maps old to its new counterpart. where names the referring
// statement or trap for the error message.
func (r *relinker) resolve(old ir.Unit, where func(*errors.Error)) (ir.Unit, error) {
	if s, ok := r.links.get(old); ok {
		return s, nil
	}
	ref := ir.UnitLabel(old)
	if old != nil {
		ref = fmt.Sprintf("%s %s", ref, old)
	}
	err := errors.UnresolvedTarget(r.phase, ref)
	where(err)
	return nil, err
}

// relinkStmt replaces every target of a queued branch statement in place.
func (r *relinker) relinkStmt(pos int, s tree.Stmt) error {
	at := func(e *errors.Error) { e.Index, e.Stmt = pos, s.String() }
	var err error
	remap := func(u *ir.Unit) {
		if err == nil {
			*u, err = r.resolve(*u, at)
		}
	}
	switch s := s.(type) {
	case *tree.GotoStmt:
		remap(&s.Target)
	case *tree.IfStmt:
		remap(&s.Target)
	case *tree.LookupSwitchStmt:
		remap(&s.Default)
		for i := range s.Targets {
			remap(&s.Targets[i])
		}
	case *tree.TableSwitchStmt:
		remap(&s.Default)
		for i := range s.Targets {
			remap(&s.Targets[i])
		}
	default:
		return errors.New(r.phase, errors.KindInternal).
			Stmt(pos, s.String()).
			Detail("%s statement queued for relinking", s.Kind()).
			Build()
	}
	return err
}

// relinkTraps appends each trap to dst with its three boundaries remapped
// independently. Order and exception types are preserved.
func (r *relinker) relinkTraps(dst *tree.Body, traps []trapRef) error {
	for i, t := range traps {
		in := func(e *errors.Error) {
			e.Detail = fmt.Sprintf("trap %d (%s): %s", i, t.exception, e.Detail)
		}
		begin, err := r.resolve(t.begin, in)
		if err != nil {
			return err
		}
		end, err := r.resolve(t.end, in)
		if err != nil {
			return err
		}
		handler, err := r.resolve(t.handler, in)
		if err != nil {
			return err
		}
		dst.AddTrap(t.exception, begin, end, handler)
	}
	return nil
}

// relink rewires a fresh translation: queued branches first, then traps.
func (t *translation) relink() error {
	r := &relinker{links: t.links, phase: errors.PhaseRelink}
	pos := t.dst.Positions()
	for _, s := range t.branches {
		if err := r.relinkStmt(pos[s.Index()], s); err != nil {
			return err
		}
	}
	traps := make([]trapRef, len(t.src.Traps))
	for i, tr := range t.src.Traps {
		traps[i] = trapRef{exception: tr.Exception, begin: tr.Begin, end: tr.End, handler: tr.Handler}
	}
	return r.relinkTraps(t.dst, traps)
}
