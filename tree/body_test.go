package tree

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
)

func leaf(v ir.Value) *Leaf { return &Leaf{Value: v} }

func newTestBody() (*Body, []Stmt) {
	b := NewBody(&ir.Method{MethodRef: ir.MethodRef{Class: "Foo", Name: "run", Return: ir.Void}})
	i0 := b.NewLocal("i0", ir.Int)
	ret := &ReturnVoidStmt{}
	stmts := []Stmt{
		NewAssign(leaf(i0), leaf(&ir.IntConstant{Value: 1})),
		&IfStmt{Cond: NewBox(&Binary{Op: ir.OpEq, X: leaf(i0), Y: leaf(&ir.IntConstant{})}), Target: ret},
		&NopStmt{},
		ret,
	}
	b.Add(stmts...)
	return b, stmts
}

func TestBody_RemoveKeepsIndices(t *testing.T) {
	b, stmts := newTestBody()
	if !b.Remove(stmts[2]) {
		t.Fatal("Remove returned false")
	}
	if b.Remove(stmts[2]) {
		t.Error("second Remove should report absence")
	}
	if len(b.Stmts) != 3 || b.IndexLimit() != 4 {
		t.Fatalf("len=%d limit=%d", len(b.Stmts), b.IndexLimit())
	}
	if stmts[3].Index() != 3 {
		t.Errorf("index changed after removal: %d", stmts[3].Index())
	}
	pos := b.Positions()
	want := []int{0, 1, -1, 2}
	for i, p := range want {
		if pos[i] != p {
			t.Errorf("Positions()[%d] = %d, want %d", i, pos[i], p)
		}
	}

	nop := &NopStmt{}
	b.Add(nop)
	if nop.Index() != 4 {
		t.Errorf("new statement index = %d, want 4", nop.Index())
	}
}

func TestBody_Redirect(t *testing.T) {
	b, stmts := newTestBody()
	ret := stmts[3]
	nop := stmts[2]
	b.AddTrap(ir.Throwable, stmts[0], ret, ret)

	b.Redirect(ret, nop)

	if got := stmts[1].(*IfStmt).Target; got != nop {
		t.Errorf("if target = %v", got)
	}
	tr := b.Traps[0]
	if tr.Begin != stmts[0] || tr.End != nop || tr.Handler != nop {
		t.Errorf("trap = %+v", tr)
	}
	if b.IsTargeted(ret) {
		t.Error("ret is still targeted")
	}
	if !b.IsTargeted(nop) {
		t.Error("nop should be targeted")
	}
}

func TestBody_Covering(t *testing.T) {
	b, stmts := newTestBody()
	b.AddTrap(ir.Throwable, stmts[1], stmts[3], stmts[3])
	pos := b.Positions()

	tests := []struct {
		pos  int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 0},
	}
	for _, tt := range tests {
		if got := len(b.Covering(pos, tt.pos)); got != tt.want {
			t.Errorf("Covering(%d) = %d traps, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestBody_Validate(t *testing.T) {
	b, stmts := newTestBody()
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	stmts[1].(*IfStmt).Target = &NopStmt{}
	err := b.Validate()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRelink, Kind: errors.KindUnresolvedTarget}) {
		t.Errorf("foreign target: got %v", err)
	}

	b, stmts = newTestBody()
	stmts[0].(*AssignStmt).Right = RawBox(&ir.IntConstant{Value: 1})
	err = b.Validate()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFold, Kind: errors.KindInternal}) {
		t.Errorf("unfolded slot: got %v", err)
	}

	b, stmts = newTestBody()
	b.AddTrap(ir.Throwable, stmts[0], &NopStmt{}, stmts[3])
	err = b.Validate()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRelink, Kind: errors.KindUnresolvedTarget}) {
		t.Errorf("foreign trap boundary: got %v", err)
	}
}

func TestBoxes(t *testing.T) {
	_, stmts := newTestBody()
	tests := []struct {
		stmt Stmt
		want int
	}{
		{stmts[0], 2},
		{stmts[1], 1},
		{stmts[2], 0},
		{stmts[3], 0},
	}
	for _, tt := range tests {
		if got := len(Boxes(tt.stmt)); got != tt.want {
			t.Errorf("Boxes(%s) = %d, want %d", tt.stmt, got, tt.want)
		}
	}
}

func TestStmt_String(t *testing.T) {
	_, stmts := newTestBody()
	tests := []struct {
		stmt Stmt
		want string
	}{
		{stmts[0], "i0 = 1"},
		{stmts[1], "if i0 == 0 goto #3"},
		{stmts[2], "nop"},
		{stmts[3], "return"},
	}
	for _, tt := range tests {
		if got := tt.stmt.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
