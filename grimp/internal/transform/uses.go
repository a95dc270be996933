package transform

import (
	"slices"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

// use is one read of a local: the statement and the slot holding the leaf.
type use struct {
	stmt tree.Stmt
	slot *tree.Expr
}

// defUse indexes the definitions and reads of every local of a body.
type defUse struct {
	defs map[*ir.Local][]tree.Stmt
	uses map[*ir.Local][]use
}

func collect(b *tree.Body, phase errors.Phase) (*defUse, error) {
	du := &defUse{
		defs: make(map[*ir.Local][]tree.Stmt),
		uses: make(map[*ir.Local][]use),
	}
	for i, s := range b.Stmts {
		if err := checkFolded(i, s, phase); err != nil {
			return nil, err
		}
		if l := definedLocal(s); l != nil {
			du.defs[l] = append(du.defs[l], s)
		}
		walkEval(s, func(slot *tree.Expr) bool {
			if l, ok := tree.LocalOf(*slot); ok {
				du.uses[l] = append(du.uses[l], use{stmt: s, slot: slot})
			}
			return true
		})
	}
	return du, nil
}

func checkFolded(pos int, s tree.Stmt, phase errors.Phase) error {
	for _, box := range tree.Boxes(s) {
		if box == nil || !box.Folded() {
			return errors.New(phase, errors.KindInternal).
				Stmt(pos, s.String()).
				Detail("operand slot is not folded").
				Build()
		}
	}
	return nil
}

// sameTraps reports whether the statements at positions p and q are
// protected by exactly the same traps.
func sameTraps(b *tree.Body, pos []int, p, q int) bool {
	return slices.Equal(b.Covering(pos, p), b.Covering(pos, q))
}

// targeted returns the set of statements entered other than by falling through.
func targeted(b *tree.Body) map[ir.Unit]bool {
	set := make(map[ir.Unit]bool)
	for _, s := range b.Stmts {
		for _, t := range s.Branches() {
			set[t] = true
		}
	}
	for _, t := range b.Traps {
		set[t.Handler] = true
	}
	return set
}
