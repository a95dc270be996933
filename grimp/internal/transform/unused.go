package transform

import (
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

// EliminateUnusedLocals drops every local no statement mentions. The order of
// the remaining locals is preserved. Returns the number of dropped locals.
func EliminateUnusedLocals(b *tree.Body) int {
	used := make(map[*ir.Local]bool, len(b.Locals))
	var scratch []*ir.Local
	for _, s := range b.Stmts {
		for _, box := range tree.Boxes(s) {
			if box == nil || box.Expr == nil {
				continue
			}
			scratch = tree.Locals(scratch[:0], box.Expr)
			for _, l := range scratch {
				used[l] = true
			}
		}
	}

	kept := b.Locals[:0]
	for _, l := range b.Locals {
		if used[l] {
			kept = append(kept, l)
		}
	}
	dropped := len(b.Locals) - len(kept)
	clear(b.Locals[len(kept):])
	b.Locals = kept
	return dropped
}
