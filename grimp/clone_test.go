package grimp

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

func TestClone_Independent(t *testing.T) {
	src, err := NewBody(loopBody(), Options{})
	if err != nil {
		t.Fatalf("NewBody() error = %v", err)
	}
	cp, err := NewBody(src, Options{})
	if err != nil {
		t.Fatalf("NewBody(tree) error = %v", err)
	}
	if len(cp.Stmts) != len(src.Stmts) || len(cp.Locals) != len(src.Locals) || len(cp.Traps) != len(src.Traps) {
		t.Fatal("copy differs in shape")
	}
	if err := cp.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	for i := range src.Locals {
		if cp.Locals[i] == src.Locals[i] {
			t.Errorf("local %s shared", src.Locals[i])
		}
		if cp.Locals[i].Name != src.Locals[i].Name || cp.Locals[i].Type != src.Locals[i].Type {
			t.Errorf("local %d = %v, want %v", i, cp.Locals[i], src.Locals[i])
		}
	}
	for i := range src.Stmts {
		if cp.Stmts[i] == src.Stmts[i] {
			t.Fatalf("stmt %d shared", i)
		}
		if got, want := cp.Stmts[i].String(), src.Stmts[i].String(); got != want {
			t.Errorf("stmt %d = %q, want %q", i, got, want)
		}
		for _, t2 := range cp.Stmts[i].Branches() {
			if !cp.Contains(t2) {
				t.Errorf("stmt %d targets outside the copy", i)
			}
		}
		for j, box := range tree.Boxes(cp.Stmts[i]) {
			if box == tree.Boxes(src.Stmts[i])[j] {
				t.Errorf("stmt %d box %d shared", i, j)
			}
			for _, l := range tree.Locals(nil, box.Expr) {
				if cp.Local(l.Name) != l {
					t.Errorf("stmt %d references local %s of the source", i, l)
				}
			}
		}
	}
	for i, tr := range cp.Traps {
		if tr == src.Traps[i] || !cp.Contains(tr.Begin) || !cp.Contains(tr.End) || !cp.Contains(tr.Handler) {
			t.Errorf("trap %d not relinked into the copy", i)
		}
	}

	// Mutating the copy leaves the source alone.
	cp.Locals[0].Name = "renamed"
	cp.Remove(cp.Stmts[0])
	if src.Locals[0].Name == "renamed" || len(src.Stmts) == len(cp.Stmts) {
		t.Error("mutation leaked into the source")
	}
}

func TestClone_AfterRemoval(t *testing.T) {
	b := tree.NewBody(testMethod)
	x := b.NewLocal("x", ir.Int)
	ret := &tree.ReturnStmt{Op: tree.NewBox(&tree.Leaf{Value: x})}
	nop := &tree.NopStmt{}
	b.Add(nop, &tree.GotoStmt{Target: ret}, ret)
	b.Remove(nop)

	cp, err := Clone(b)
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	if len(cp.Stmts) != 2 || cp.Stmts[0].(*tree.GotoStmt).Target != cp.Stmts[1] {
		t.Errorf("copy = %v", cp.Stmts)
	}
}

func TestClone_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *tree.Body
		kind  errors.Kind
	}{
		{
			name: "undeclared local",
			build: func() *tree.Body {
				b := tree.NewBody(testMethod)
				b.Add(&tree.ReturnStmt{Op: tree.NewBox(&tree.Leaf{Value: ir.NewLocal("ghost", ir.Int)})})
				return b
			},
			kind: errors.KindInvalidValue,
		},
		{
			name: "unfolded slot",
			build: func() *tree.Body {
				b := tree.NewBody(testMethod)
				b.Add(&tree.ReturnStmt{Op: tree.RawBox(&ir.IntConstant{Value: 1})})
				return b
			},
			kind: errors.KindInternal,
		},
		{
			name: "dangling target",
			build: func() *tree.Body {
				b := tree.NewBody(testMethod)
				b.Add(&tree.GotoStmt{Target: &tree.NopStmt{}}, &tree.ReturnVoidStmt{})
				return b
			},
			kind: errors.KindUnresolvedTarget,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, err := NewBody(tt.build(), Options{})
			if cp != nil {
				t.Error("partial copy returned")
			}
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseClone, Kind: tt.kind}) {
				t.Fatalf("error = %v, want [clone] %s", err, tt.kind)
			}
		})
	}
}
