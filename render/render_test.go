package render

import (
	"strings"
	"testing"

	"github.com/wippyai/treeir/grimp"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/jimple"
)

var testMethod = &ir.Method{MethodRef: ir.MethodRef{Class: "Foo", Name: "run", Return: ir.Int, Params: []ir.Type{ir.Int}}, Static: true}

func loopBody() *jimple.Body {
	b := jimple.NewBody(testMethod)
	i0 := b.NewLocal("i0", ir.Int)
	i1 := b.NewLocal("$i1", ir.Int)
	o := b.NewLocal("r0", ir.Object)

	ret := &jimple.ReturnStmt{Op: i0}
	head := &jimple.AssignStmt{Left: i1, Right: &ir.BinopExpr{Op: ir.OpAdd, X: i0, Y: &ir.IntConstant{Value: 1}}}
	b.Add(
		&jimple.IdentityStmt{Left: i0, Right: &ir.ParameterRef{Type: ir.Int, Index: 0}},
		head,
		&jimple.IfStmt{Cond: &ir.BinopExpr{Op: ir.OpGt, X: i1, Y: &ir.IntConstant{Value: 10}}, Target: ret},
		&jimple.AssignStmt{Left: o, Right: &ir.NullConstant{}},
		&jimple.GotoStmt{Target: head},
		ret,
	)
	b.AddTrap(ir.Throwable, head, ret, ret)
	return b
}

func TestFlat(t *testing.T) {
	out := Flat(loopBody())

	want := []string{
		"<Foo: int run(int)> {",
		"    int i0, $i1;",
		"    java.lang.Object r0;",
		"label0:\n    $i1 = i0 + 1",
		"    if $i1 > 10 goto label1",
		"    goto label0",
		"label1:\n    return i0",
		"    catch java.lang.Throwable from label0 to label1 with label1",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("output not closed:\n%s", out)
	}
	if strings.Count(out, "label0:") != 1 {
		t.Errorf("label0 declared more than once:\n%s", out)
	}
}

func TestNames(t *testing.T) {
	b := loopBody()
	names := make([]string, len(b.Stmts))
	names[1] = "loop"

	var sb strings.Builder
	p := &Printer{Names: names}
	if err := p.Flat(&sb, b); err != nil {
		t.Fatalf("Flat: %v", err)
	}
	out := sb.String()
	for _, w := range []string{"loop:\n", "goto loop", "if $i1 > 10 goto label0", "from loop to label0"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestTree(t *testing.T) {
	src := loopBody()
	b, err := grimp.NewBody(src, grimp.Options{NoAggregating: true})
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	if got, want := Tree(b), Flat(src); got != want {
		t.Errorf("tree rendering differs from flat rendering before aggregation:\ntree:\n%s\nflat:\n%s", got, want)
	}
}

func TestSwitches(t *testing.T) {
	b := jimple.NewBody(testMethod)
	k := b.NewLocal("i0", ir.Int)
	a := &jimple.ReturnStmt{Op: &ir.IntConstant{Value: 1}}
	c := &jimple.ReturnStmt{Op: &ir.IntConstant{Value: 2}}
	d := &jimple.ReturnStmt{Op: &ir.IntConstant{Value: 0}}
	b.Add(
		&jimple.IdentityStmt{Left: k, Right: &ir.ParameterRef{Type: ir.Int, Index: 0}},
		&jimple.TableSwitchStmt{Key: k, Low: 1, High: 2, Targets: []jimple.Stmt{a, c}, Default: d},
		&jimple.LookupSwitchStmt{Key: k, Values: []int32{-1}, Targets: []jimple.Stmt{c}, Default: d},
		a, c, d,
	)

	out := Flat(b)
	for _, w := range []string{
		"tableswitch(i0) {case 1: goto label0; case 2: goto label1; default: goto label2}",
		"lookupswitch(i0) {case -1: goto label1; default: goto label2}",
	} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestStyles(t *testing.T) {
	var sb strings.Builder
	p := &Printer{Styles: DefaultStyles()}
	if err := p.Flat(&sb, loopBody()); err != nil {
		t.Fatalf("Flat: %v", err)
	}
	for _, w := range []string{"label0", "i0 + 1", "java.lang.Throwable"} {
		if !strings.Contains(sb.String(), w) {
			t.Errorf("styled output missing %q", w)
		}
	}
}
