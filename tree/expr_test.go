package tree

import (
	"testing"

	"github.com/wippyai/treeir/ir"
)

func TestExpr_String(t *testing.T) {
	a := ir.NewLocal("a", ir.Int)
	b := ir.NewLocal("b", ir.Int)
	obj := ir.NewLocal("r0", ir.Object)
	init := &ir.MethodRef{Class: "Foo", Name: ir.InitName, Return: ir.Void, Params: []ir.Type{ir.Int}}
	get := &ir.MethodRef{Class: "Foo", Name: "get", Return: ir.Int}
	field := &ir.FieldRef{Class: "Foo", Name: "x", Type: ir.Int}

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"leaf", &Leaf{Value: a}, "a"},
		{"binary", &Binary{Op: ir.OpAdd, X: &Leaf{Value: a}, Y: &Leaf{Value: b}}, "a + b"},
		{"nested binary", &Binary{
			Op: ir.OpMul,
			X:  &Binary{Op: ir.OpAdd, X: &Leaf{Value: a}, Y: &Leaf{Value: b}},
			Y:  &Leaf{Value: &ir.IntConstant{Value: 2}},
		}, "(a + b) * 2"},
		{"field", &FieldAccess{Base: &Leaf{Value: obj}, Field: field}, "r0.<Foo: int x>"},
		{"new invoke", &NewInvoke{Type: "Foo", Method: init, Args: []Expr{&Leaf{Value: a}}}, "new Foo(a)"},
		{"virtual", &Invoke{Kind: ir.InvokeVirtual, Base: &Leaf{Value: obj}, Method: get}, "virtualinvoke r0.<Foo: int get()>()"},
		{"new", &New{Type: "Foo"}, "new Foo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDepth(t *testing.T) {
	a := &Leaf{Value: ir.NewLocal("a", ir.Int)}
	tests := []struct {
		name string
		expr Expr
		want int
	}{
		{"leaf", a, 1},
		{"new", &New{Type: "Foo"}, 1},
		{"binary", &Binary{Op: ir.OpAdd, X: a, Y: a}, 2},
		{"nested", &Unary{Op: ir.OpNeg, X: &Binary{Op: ir.OpAdd, X: a, Y: a}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Depth(tt.expr); got != tt.want {
				t.Errorf("Depth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWalk_EvaluationOrder(t *testing.T) {
	a := ir.NewLocal("a", ir.Int)
	b := ir.NewLocal("b", ir.Int)
	c := ir.NewLocal("c", ir.Int)
	var e Expr = &Binary{
		Op: ir.OpAdd,
		X:  &Leaf{Value: a},
		Y:  &Binary{Op: ir.OpMul, X: &Leaf{Value: b}, Y: &Leaf{Value: c}},
	}

	var seen []string
	Walk(&e, func(slot *Expr) bool {
		if l, ok := LocalOf(*slot); ok {
			seen = append(seen, l.Name)
		}
		return true
	})
	if got := len(seen); got != 3 || seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
		t.Fatalf("walk order = %v", seen)
	}

	stopped := Walk(&e, func(slot *Expr) bool {
		l, ok := LocalOf(*slot)
		return !ok || l != b
	})
	if stopped {
		t.Error("Walk should report an early stop")
	}
}

func TestWalk_ReplaceSlot(t *testing.T) {
	a := ir.NewLocal("a", ir.Int)
	var e Expr = &Unary{Op: ir.OpNeg, X: &Leaf{Value: a}}
	Walk(&e, func(slot *Expr) bool {
		if l, ok := LocalOf(*slot); ok && l == a {
			*slot = &Leaf{Value: &ir.IntConstant{Value: 7}}
		}
		return true
	})
	if e.String() != "neg 7" {
		t.Errorf("after replace: %q", e)
	}
}

func TestClone(t *testing.T) {
	a := ir.NewLocal("a", ir.Int)
	a2 := a.Copy()
	orig := &Invoke{
		Kind:   ir.InvokeStatic,
		Method: &ir.MethodRef{Class: "M", Name: "f", Return: ir.Int, Params: []ir.Type{ir.Int, ir.Int}},
		Args:   []Expr{&Leaf{Value: a}, &Binary{Op: ir.OpAdd, X: &Leaf{Value: a}, Y: &Leaf{Value: &ir.IntConstant{Value: 1}}}},
	}

	cp := Clone(orig, func(l *ir.Local) *ir.Local {
		if l == a {
			return a2
		}
		return l
	}).(*Invoke)

	if cp == orig || cp.Args[1] == orig.Args[1] {
		t.Fatal("clone shares nodes with the original")
	}
	if cp.String() != orig.String() {
		t.Errorf("clone renders %q, want %q", cp, orig)
	}
	for _, l := range Locals(nil, cp) {
		if l != a2 {
			t.Errorf("clone references %p, want remapped local", l)
		}
	}
	if cp.Base != nil {
		t.Error("static call gained a base")
	}
}

func TestLocals(t *testing.T) {
	a := ir.NewLocal("a", ir.Int)
	arr := ir.NewLocal("arr", ir.ArrayOf(ir.Int))
	e := &ArrayAccess{Base: &Leaf{Value: arr}, Index: &Binary{Op: ir.OpSub, X: &Leaf{Value: a}, Y: &Leaf{Value: &ir.IntConstant{Value: 1}}}}
	got := Locals(nil, e)
	if len(got) != 2 || got[0] != arr || got[1] != a {
		t.Errorf("Locals() = %v", got)
	}
}
