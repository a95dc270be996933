package transform

import (
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

// walkEval visits the expression slots of s in the order the statement
// evaluates them, children before their parent. A local written by s is not
// visited; the base and index of a stored-to field or array element are,
// before the stored value. Returns false if fn stopped the walk.
func walkEval(s tree.Stmt, fn func(slot *tree.Expr) bool) bool {
	switch s := s.(type) {
	case *tree.AssignStmt:
		if _, ok := tree.LocalOf(s.Left.Expr); !ok {
			for _, slot := range tree.Slots(s.Left.Expr) {
				if !tree.Walk(slot, fn) {
					return false
				}
			}
		}
		return tree.Walk(&s.Right.Expr, fn)
	case *tree.IdentityStmt:
		return tree.Walk(&s.Right.Expr, fn)
	}
	for _, box := range s.UseBoxes() {
		if !tree.Walk(&box.Expr, fn) {
			return false
		}
	}
	return true
}

// definedLocal returns the local s writes to, or nil.
func definedLocal(s tree.Stmt) *ir.Local {
	var box *tree.Box
	switch s := s.(type) {
	case *tree.AssignStmt:
		box = s.Left
	case *tree.IdentityStmt:
		box = s.Left
	default:
		return nil
	}
	l, _ := tree.LocalOf(box.Expr)
	return l
}

// isSimpleLeaf reports whether e is a local or a constant.
func isSimpleLeaf(e tree.Expr) bool {
	l, ok := e.(*tree.Leaf)
	if !ok {
		return false
	}
	if _, ok := l.Value.(*ir.Local); ok {
		return true
	}
	return ir.IsConstant(l.Value)
}

// isPure reports whether evaluating e reads only locals and constants and
// cannot throw.
func isPure(e tree.Expr) bool {
	switch e := e.(type) {
	case *tree.Leaf:
		return isSimpleLeaf(e)
	case *tree.Binary:
		return !e.Op.MayThrow() && isPure(e.X) && isPure(e.Y)
	case *tree.Unary:
		return e.Op == ir.OpNeg && isPure(e.X)
	case *tree.Cast:
		return e.Type.IsPrimitive() && isPure(e.X)
	case *tree.InstanceOf:
		return isPure(e.X)
	}
	return false
}
