package transform

import (
	"slices"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

// FoldConstructors merges an allocation with the constructor call that
// initializes it:
//
//	L = new T
//	specialinvoke L.<T: void <init>(..)>(args)
//
// becomes L = new T(args). The call must directly follow the allocation, must
// not be a branch target or trap handler, must share the allocation's traps
// and its arguments must not read L. Returns the number of folded pairs.
func FoldConstructors(b *tree.Body) (int, error) {
	for i, s := range b.Stmts {
		if err := checkFolded(i, s, errors.PhaseAggregate); err != nil {
			return 0, err
		}
	}
	pos := b.Positions()
	jumps := targeted(b)

	folded := 0
	for i := 0; i+1 < len(b.Stmts); i++ {
		s1, s2 := b.Stmts[i], b.Stmts[i+1]
		alloc, call, ok := constructorPair(s1, s2)
		if !ok || jumps[s2] || !sameTraps(b, pos, pos[s1.Index()], pos[s2.Index()]) {
			continue
		}
		alloc.Right.Expr = &tree.NewInvoke{
			Type:   alloc.Right.Expr.(*tree.New).Type,
			Method: call.Method,
			Args:   call.Args,
		}
		b.Redirect(s2, s1)
		b.Remove(s2)
		folded++
	}
	return folded, nil
}

func constructorPair(s1, s2 tree.Stmt) (*tree.AssignStmt, *tree.Invoke, bool) {
	alloc, ok := s1.(*tree.AssignStmt)
	if !ok {
		return nil, nil, false
	}
	l, ok := tree.LocalOf(alloc.Left.Expr)
	if !ok {
		return nil, nil, false
	}
	newExpr, ok := alloc.Right.Expr.(*tree.New)
	if !ok {
		return nil, nil, false
	}
	stmt, ok := s2.(*tree.InvokeStmt)
	if !ok {
		return nil, nil, false
	}
	call, ok := stmt.Call.Expr.(*tree.Invoke)
	if !ok || call.Kind != ir.InvokeSpecial || !call.Method.IsConstructor() {
		return nil, nil, false
	}
	if call.Method.Class != string(newExpr.Type) {
		return nil, nil, false
	}
	if base, ok := tree.LocalOf(call.Base); !ok || base != l {
		return nil, nil, false
	}
	for _, arg := range call.Args {
		if slices.Contains(tree.Locals(nil, arg), l) {
			return nil, nil, false
		}
	}
	return alloc, call, true
}
