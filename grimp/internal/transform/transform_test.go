package transform

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

func leaf(v ir.Value) tree.Expr { return &tree.Leaf{Value: v} }

func intc(v int32) tree.Expr { return leaf(&ir.IntConstant{Value: v}) }

func add(x, y tree.Expr) tree.Expr { return &tree.Binary{Op: ir.OpAdd, X: x, Y: y} }

func mul(x, y tree.Expr) tree.Expr { return &tree.Binary{Op: ir.OpMul, X: x, Y: y} }

func call(name string, args ...tree.Expr) tree.Expr {
	params := make([]ir.Type, len(args))
	for i := range params {
		params[i] = ir.Int
	}
	return &tree.Invoke{
		Kind:   ir.InvokeStatic,
		Method: &ir.MethodRef{Class: "Util", Name: name, Return: ir.Int, Params: params},
		Args:   args,
	}
}

func ret(e tree.Expr) *tree.ReturnStmt { return &tree.ReturnStmt{Op: tree.NewBox(e)} }

func newBody() *tree.Body {
	return tree.NewBody(&ir.Method{MethodRef: ir.MethodRef{Class: "Foo", Name: "run", Return: ir.Int}, Static: true})
}

func render(b *tree.Body) []string {
	out := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		out[i] = s.String()
	}
	return out
}

func assertStmts(t *testing.T, b *tree.Body, want ...string) {
	t.Helper()
	got := render(b)
	if len(got) != len(want) {
		t.Fatalf("statements = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stmt %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		scope  Scope
		build  func(b *tree.Body)
		merged int
		want   []string
	}{
		{
			name:  "stack local into next statement",
			scope: StackLocals,
			build: func(b *tree.Body) {
				a, x, tmp := b.NewLocal("a", ir.Int), b.NewLocal("x", ir.Int), b.NewLocal("$i0", ir.Int)
				b.Add(
					tree.NewAssign(leaf(tmp), add(leaf(a), intc(1))),
					tree.NewAssign(leaf(x), mul(leaf(tmp), intc(2))),
					ret(leaf(x)),
				)
			},
			merged: 1,
			want:   []string{"x = (a + 1) * 2", "return x"},
		},
		{
			name:  "user local kept in stack scope",
			scope: StackLocals,
			build: func(b *tree.Body) {
				a, x := b.NewLocal("a", ir.Int), b.NewLocal("x", ir.Int)
				b.Add(tree.NewAssign(leaf(x), add(leaf(a), intc(1))), ret(leaf(x)))
			},
			want: []string{"x = a + 1", "return x"},
		},
		{
			name:  "user local aggregated in all scope",
			scope: AllLocals,
			build: func(b *tree.Body) {
				a, x := b.NewLocal("a", ir.Int), b.NewLocal("x", ir.Int)
				b.Add(tree.NewAssign(leaf(x), add(leaf(a), intc(1))), ret(leaf(x)))
			},
			merged: 1,
			want:   []string{"return a + 1"},
		},
		{
			name:  "chain reaches a fixpoint",
			scope: StackLocals,
			build: func(b *tree.Body) {
				a, t0, t1 := b.NewLocal("a", ir.Int), b.NewLocal("$i0", ir.Int), b.NewLocal("$i1", ir.Int)
				b.Add(
					tree.NewAssign(leaf(t0), add(leaf(a), intc(1))),
					tree.NewAssign(leaf(t1), mul(leaf(t0), intc(2))),
					ret(leaf(t1)),
				)
			},
			merged: 2,
			want:   []string{"return (a + 1) * 2"},
		},
		{
			name:  "two uses",
			scope: AllLocals,
			build: func(b *tree.Body) {
				a, t0 := b.NewLocal("a", ir.Int), b.NewLocal("$i0", ir.Int)
				b.Add(tree.NewAssign(leaf(t0), leaf(a)), ret(add(leaf(t0), leaf(t0))))
			},
			want: []string{"$i0 = a", "return $i0 + $i0"},
		},
		{
			name:  "use not in the next statement",
			scope: StackLocals,
			build: func(b *tree.Body) {
				a, t0 := b.NewLocal("a", ir.Int), b.NewLocal("$i0", ir.Int)
				b.Add(tree.NewAssign(leaf(t0), leaf(a)), &tree.NopStmt{}, ret(leaf(t0)))
			},
			want: []string{"$i0 = a", "nop", "return $i0"},
		},
		{
			name:  "impure value may not pass a call",
			scope: StackLocals,
			build: func(b *tree.Body) {
				t0 := b.NewLocal("$i0", ir.Int)
				b.Add(tree.NewAssign(leaf(t0), call("f")), ret(add(call("g"), leaf(t0))))
			},
			want: []string{"$i0 = staticinvoke <Util: int f()>()", "return staticinvoke <Util: int g()>() + $i0"},
		},
		{
			name:  "impure value passes leaves",
			scope: StackLocals,
			build: func(b *tree.Body) {
				a, t0 := b.NewLocal("a", ir.Int), b.NewLocal("$i0", ir.Int)
				b.Add(tree.NewAssign(leaf(t0), call("f")), ret(add(leaf(a), leaf(t0))))
			},
			merged: 1,
			want:   []string{"return a + staticinvoke <Util: int f()>()"},
		},
		{
			name:  "pure value passes a call",
			scope: StackLocals,
			build: func(b *tree.Body) {
				a, t0 := b.NewLocal("a", ir.Int), b.NewLocal("$i0", ir.Int)
				b.Add(tree.NewAssign(leaf(t0), add(leaf(a), intc(1))), ret(add(call("g"), leaf(t0))))
			},
			merged: 1,
			want:   []string{"return staticinvoke <Util: int g()>() + (a + 1)"},
		},
		{
			name:  "allocation left for the constructor folder",
			scope: AllLocals,
			build: func(b *tree.Body) {
				r := b.NewLocal("$r0", "Foo")
				b.Add(tree.NewAssign(leaf(r), &tree.New{Type: "Foo"}), ret(leaf(r)))
			},
			want: []string{"$r0 = new Foo", "return $r0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBody()
			tt.build(b)
			n, err := Aggregate(b, tt.scope)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if n != tt.merged {
				t.Errorf("merged = %d, want %d", n, tt.merged)
			}
			assertStmts(t, b, tt.want...)
		})
	}
}

func TestAggregate_BranchTargetBlocks(t *testing.T) {
	b := newBody()
	a, t0 := b.NewLocal("a", ir.Int), b.NewLocal("$i0", ir.Int)
	def := tree.NewAssign(leaf(t0), add(leaf(a), intc(1)))
	use := ret(leaf(t0))
	b.Add(&tree.GotoStmt{Target: use}, def, use)

	if n, _ := Aggregate(b, StackLocals); n != 0 {
		t.Fatalf("merged = %d into a branch target", n)
	}
}

func TestAggregate_RedirectsReferences(t *testing.T) {
	b := newBody()
	a, t0 := b.NewLocal("a", ir.Int), b.NewLocal("$i0", ir.Int)
	def := tree.NewAssign(leaf(t0), add(leaf(a), intc(1)))
	use := ret(leaf(t0))
	jump := &tree.GotoStmt{Target: def}
	tail := ret(intc(0))
	b.Add(jump, def, use, tail)
	b.AddTrap(ir.Throwable, def, tail, jump)

	if n, err := Aggregate(b, StackLocals); err != nil || n != 1 {
		t.Fatalf("Aggregate() = %d, %v", n, err)
	}
	if jump.Target != use {
		t.Errorf("goto target = %v, want the merged statement", jump.Target)
	}
	if b.Traps[0].Begin != use {
		t.Errorf("trap begin = %v, want the merged statement", b.Traps[0].Begin)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestAggregate_TrapCoverage(t *testing.T) {
	b := newBody()
	t0 := b.NewLocal("$i0", ir.Int)
	def := tree.NewAssign(leaf(t0), call("f"))
	use := ret(leaf(t0))
	handler := &tree.ReturnStmt{Op: tree.NewBox(intc(0))}
	b.Add(def, use, handler)
	b.AddTrap(ir.Throwable, def, use, handler)

	if n, _ := Aggregate(b, StackLocals); n != 0 {
		t.Fatalf("merged = %d across a trap boundary", n)
	}
}

func TestAggregate_UnfoldedSlot(t *testing.T) {
	b := newBody()
	b.Add(&tree.ReturnStmt{Op: tree.RawBox(&ir.IntConstant{Value: 1})})
	_, err := Aggregate(b, StackLocals)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseAggregate, Kind: errors.KindInternal}) {
		t.Fatalf("error = %v", err)
	}
}

func constructorBody(args func(r *ir.Local) []tree.Expr) (*tree.Body, *ir.Local) {
	b := newBody()
	r := b.NewLocal("$r0", "Foo")
	a := b.NewLocal("a", ir.Int)
	init := &ir.MethodRef{Class: "Foo", Name: ir.InitName, Return: ir.Void, Params: []ir.Type{ir.Int}}
	argv := []tree.Expr{leaf(a)}
	if args != nil {
		argv = args(r)
	}
	b.Add(
		tree.NewAssign(leaf(r), &tree.New{Type: "Foo"}),
		tree.NewInvokeStmt(&tree.Invoke{Kind: ir.InvokeSpecial, Base: leaf(r), Method: init, Args: argv}),
		&tree.ReturnStmt{Op: tree.NewBox(leaf(r))},
	)
	return b, r
}

func TestFoldConstructors(t *testing.T) {
	b, _ := constructorBody(nil)
	n, err := FoldConstructors(b)
	if err != nil || n != 1 {
		t.Fatalf("FoldConstructors() = %d, %v", n, err)
	}
	assertStmts(t, b, "$r0 = new Foo(a)", "return $r0")
	if _, ok := b.Stmts[0].(*tree.AssignStmt).Right.Expr.(*tree.NewInvoke); !ok {
		t.Error("right side is not a direct construction")
	}
}

func TestFoldConstructors_ArgumentReadsLocal(t *testing.T) {
	b, _ := constructorBody(func(r *ir.Local) []tree.Expr { return []tree.Expr{leaf(r)} })
	if n, _ := FoldConstructors(b); n != 0 {
		t.Fatalf("folded = %d", n)
	}
	if len(b.Stmts) != 3 {
		t.Errorf("statement count = %d", len(b.Stmts))
	}
}

func TestFoldConstructors_TargetedCall(t *testing.T) {
	b, _ := constructorBody(nil)
	b.AddTrap(ir.Throwable, b.Stmts[0], b.Stmts[2], b.Stmts[1])
	if n, _ := FoldConstructors(b); n != 0 {
		t.Fatalf("folded = %d", n)
	}
}

func TestPipelineOrder_ConstructorThenAggregate(t *testing.T) {
	b, _ := constructorBody(nil)
	x := b.NewLocal("$r1", "Foo")
	last := b.Stmts[2].(*tree.ReturnStmt)
	b.Remove(last)
	b.Add(tree.NewAssign(leaf(x), last.Op.Expr), ret(leaf(x)))

	if _, err := Aggregate(b, StackLocals); err != nil {
		t.Fatal(err)
	}
	if _, err := FoldConstructors(b); err != nil {
		t.Fatal(err)
	}
	if _, err := Aggregate(b, StackLocals); err != nil {
		t.Fatal(err)
	}
	assertStmts(t, b, "return new Foo(a)")
}

func TestEliminateUnusedLocals(t *testing.T) {
	b := newBody()
	a := b.NewLocal("a", ir.Int)
	b.NewLocal("dead", ir.Int)
	x := b.NewLocal("x", ir.Int)
	b.NewLocal("$dead", ir.Int)
	b.Add(tree.NewAssign(leaf(x), leaf(a)), ret(leaf(x)))

	if n := EliminateUnusedLocals(b); n != 2 {
		t.Fatalf("dropped = %d, want 2", n)
	}
	if len(b.Locals) != 2 || b.Locals[0] != a || b.Locals[1] != x {
		t.Errorf("locals = %v", b.Locals)
	}
	if n := EliminateUnusedLocals(b); n != 0 {
		t.Errorf("second run dropped %d", n)
	}
}
