package grimp

import (
	"fmt"
	"slices"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

// Clone returns a deep copy of a tree body. Locals, statements, expression
// nodes and traps are all fresh; branch targets and trap boundaries point into
// the copy. Source and copy share only immutable data such as constants and
// signatures.
func Clone(src *tree.Body) (*tree.Body, error) {
	dst := tree.NewBody(src.Method)
	locals := make(map[*ir.Local]*ir.Local, len(src.Locals))
	for _, l := range src.Locals {
		locals[l] = dst.AddLocal(l.Copy())
	}
	var undeclared *ir.Local
	mapLocal := func(l *ir.Local) *ir.Local {
		if c, ok := locals[l]; ok {
			return c
		}
		if undeclared == nil {
			undeclared = l
		}
		return l
	}

	links := newUnitMap(src.IndexLimit())
	var branches []tree.Stmt
	for i, s := range src.Stmts {
		ns, err := copyStmt(i, s, mapLocal)
		if err != nil {
			return nil, err
		}
		if undeclared != nil {
			return nil, errors.New(errors.PhaseClone, errors.KindInvalidValue).
				Stmt(i, s.String()).
				Value(undeclared).
				Detail("local %s is not declared by the body", undeclared.Name).
				Build()
		}
		if idx := s.Index(); idx < 0 || idx >= src.IndexLimit() {
			return nil, errors.New(errors.PhaseClone, errors.KindInternal).
				Stmt(i, s.String()).
				Detail("statement index %d was not assigned by this body", idx).
				Build()
		}
		dst.Add(ns)
		links.put(s, ns)
		if ns.Kind().HasTargets() {
			branches = append(branches, ns)
		}
	}

	r := &relinker{links: links, phase: errors.PhaseClone}
	pos := dst.Positions()
	for _, s := range branches {
		if err := r.relinkStmt(pos[s.Index()], s); err != nil {
			return nil, err
		}
	}
	traps := make([]trapRef, len(src.Traps))
	for i, t := range src.Traps {
		traps[i] = trapRef{exception: t.Exception, begin: t.Begin, end: t.End, handler: t.Handler}
	}
	if err := r.relinkTraps(dst, traps); err != nil {
		return nil, err
	}
	return dst, nil
}

// copyStmt copies s with fresh operand trees. Targets still name the
// statements of the source body.
func copyStmt(pos int, s tree.Stmt, mapLocal func(*ir.Local) *ir.Local) (tree.Stmt, error) {
	if s == nil {
		return nil, errors.InvalidStatement(errors.PhaseClone, pos, "<nil>")
	}
	for _, box := range tree.Boxes(s) {
		if box == nil || !box.Folded() {
			return nil, errors.New(errors.PhaseClone, errors.KindInternal).
				Stmt(pos, s.String()).
				Detail("operand slot is not folded").
				Build()
		}
	}
	box := func(b *tree.Box) *tree.Box { return tree.NewBox(tree.Clone(b.Expr, mapLocal)) }

	switch s := s.(type) {
	case *tree.AssignStmt:
		return &tree.AssignStmt{Left: box(s.Left), Right: box(s.Right)}, nil
	case *tree.IdentityStmt:
		return &tree.IdentityStmt{Left: box(s.Left), Right: box(s.Right)}, nil
	case *tree.BreakpointStmt:
		return &tree.BreakpointStmt{}, nil
	case *tree.InvokeStmt:
		return &tree.InvokeStmt{Call: box(s.Call)}, nil
	case *tree.EnterMonitorStmt:
		return &tree.EnterMonitorStmt{Op: box(s.Op)}, nil
	case *tree.ExitMonitorStmt:
		return &tree.ExitMonitorStmt{Op: box(s.Op)}, nil
	case *tree.GotoStmt:
		return &tree.GotoStmt{Target: s.Target}, nil
	case *tree.IfStmt:
		return &tree.IfStmt{Cond: box(s.Cond), Target: s.Target}, nil
	case *tree.LookupSwitchStmt:
		return &tree.LookupSwitchStmt{
			Key:     box(s.Key),
			Values:  slices.Clone(s.Values),
			Targets: slices.Clone(s.Targets),
			Default: s.Default,
		}, nil
	case *tree.TableSwitchStmt:
		return &tree.TableSwitchStmt{
			Key:     box(s.Key),
			Low:     s.Low,
			High:    s.High,
			Targets: slices.Clone(s.Targets),
			Default: s.Default,
		}, nil
	case *tree.NopStmt:
		return &tree.NopStmt{}, nil
	case *tree.ReturnStmt:
		return &tree.ReturnStmt{Op: box(s.Op)}, nil
	case *tree.ReturnVoidStmt:
		return &tree.ReturnVoidStmt{}, nil
	case *tree.ThrowStmt:
		return &tree.ThrowStmt{Op: box(s.Op)}, nil
	}
	err := errors.InvalidStatement(errors.PhaseClone, pos, s.String())
	err.Detail = fmt.Sprintf("unrecognized statement kind %T", s)
	return nil, err
}
