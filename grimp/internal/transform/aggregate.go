package transform

import (
	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

// Scope selects the locals the aggregator may eliminate.
type Scope uint8

const (
	// StackLocals restricts aggregation to compiler-introduced stack locals.
	StackLocals Scope = iota
	// AllLocals aggregates any local, user-visible ones included.
	AllLocals
)

func (s Scope) String() string {
	if s == AllLocals {
		return "all-locals"
	}
	return "only-stack-locals"
}

// Aggregate folds single-use locals into their use site.
//
// A statement s: L = rhs is merged into the statement s2 that immediately
// follows it when
//   - L is in scope, has no other definition and exactly one read, in s2;
//   - rhs is not a bare allocation (new T), which the constructor folder needs;
//   - s2 is not a branch target or trap handler;
//   - s and s2 are protected by the same traps;
//   - rhs is pure and cannot throw, or s2 evaluates only locals and constants
//     before it reads L.
//
// The read of L is replaced by rhs, references to s are moved to s2 and s is
// removed. Aggregation repeats until nothing changes; the number of merged
// statements is returned.
func Aggregate(b *tree.Body, scope Scope) (int, error) {
	total := 0
	for {
		n, err := aggregateSweep(b, scope)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		total += n
	}
}

// aggregateSweep performs one pass over the body. A statement takes part in
// at most one merge per sweep so the def/use index stays valid for the rest.
func aggregateSweep(b *tree.Body, scope Scope) (int, error) {
	du, err := collect(b, errors.PhaseAggregate)
	if err != nil {
		return 0, err
	}
	pos := b.Positions()
	jumps := targeted(b)
	touched := make(map[tree.Stmt]bool)

	merged := 0
	for i := 0; i+1 < len(b.Stmts); i++ {
		s, s2 := b.Stmts[i], b.Stmts[i+1]
		if touched[s] || touched[s2] {
			continue
		}
		as, slot, ok := candidate(b, du, pos, jumps, scope, s, s2)
		if !ok {
			continue
		}
		*slot = as.Right.Expr
		b.Redirect(s, s2)
		b.Remove(s)
		if jumps[s] {
			jumps[s2] = true
		}
		touched[s], touched[s2] = true, true
		merged++
	}
	return merged, nil
}

// candidate checks whether s can be merged into s2 and returns the definition
// together with the slot of the single read.
func candidate(b *tree.Body, du *defUse, pos []int, jumps map[ir.Unit]bool, scope Scope, s, s2 tree.Stmt) (*tree.AssignStmt, *tree.Expr, bool) {
	as, ok := s.(*tree.AssignStmt)
	if !ok {
		return nil, nil, false
	}
	l, ok := tree.LocalOf(as.Left.Expr)
	if !ok || (scope == StackLocals && !l.Stack) {
		return nil, nil, false
	}
	if _, isNew := as.Right.Expr.(*tree.New); isNew {
		return nil, nil, false
	}
	if len(du.defs[l]) != 1 || len(du.uses[l]) != 1 {
		return nil, nil, false
	}
	u := du.uses[l][0]
	if u.stmt != s2 || s2 == s || jumps[s2] {
		return nil, nil, false
	}
	if !sameTraps(b, pos, pos[s.Index()], pos[s2.Index()]) {
		return nil, nil, false
	}
	if !isPure(as.Right.Expr) && !onlyLeavesBefore(s2, u.slot) {
		return nil, nil, false
	}
	return as, u.slot, true
}

// onlyLeavesBefore reports whether every node s2 evaluates before target is a
// local or a constant.
func onlyLeavesBefore(s2 tree.Stmt, target *tree.Expr) bool {
	ok := true
	walkEval(s2, func(slot *tree.Expr) bool {
		if slot == target {
			return false
		}
		if !isSimpleLeaf(*slot) {
			ok = false
			return false
		}
		return true
	})
	return ok
}
