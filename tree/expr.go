package tree

import (
	"fmt"
	"strings"

	"github.com/wippyai/treeir/ir"
)

// Expr is a node of an expression tree. The set of implementations is closed.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Leaf wraps an operand that has no operands of its own: a constant, a local,
// a static field, or a parameter/this/caught-exception ref.
type Leaf struct {
	Value ir.Value
}

// FieldAccess reads or writes a field of Base.
type FieldAccess struct {
	Base  Expr
	Field *ir.FieldRef
}

// ArrayAccess reads or writes an element of Base.
type ArrayAccess struct {
	Base  Expr
	Index Expr
}

// Binary applies a binary operator.
type Binary struct {
	X, Y Expr
	Op   ir.BinOp
}

// Unary applies neg or lengthof.
type Unary struct {
	X  Expr
	Op ir.UnOp
}

// Cast converts X to Type.
type Cast struct {
	X    Expr
	Type ir.Type
}

// InstanceOf tests X against Type.
type InstanceOf struct {
	X    Expr
	Type ir.Type
}

// New allocates an uninitialized object.
type New struct {
	Type ir.Type
}

// NewArray allocates a one-dimensional array.
type NewArray struct {
	Size Expr
	Elem ir.Type
}

// NewMultiArray allocates a multi-dimensional array.
type NewMultiArray struct {
	Type  ir.Type
	Sizes []Expr
}

// Invoke calls Method. Base is nil for static calls.
type Invoke struct {
	Base   Expr
	Method *ir.MethodRef
	Args   []Expr
	Kind   ir.InvokeKind
}

// NewInvoke allocates and initializes an object in one step: new T(args).
type NewInvoke struct {
	Method *ir.MethodRef
	Type   ir.Type
	Args   []Expr
}

func (*Leaf) isExpr()          {}
func (*FieldAccess) isExpr()   {}
func (*ArrayAccess) isExpr()   {}
func (*Binary) isExpr()        {}
func (*Unary) isExpr()         {}
func (*Cast) isExpr()          {}
func (*InstanceOf) isExpr()    {}
func (*New) isExpr()           {}
func (*NewArray) isExpr()      {}
func (*NewMultiArray) isExpr() {}
func (*Invoke) isExpr()        {}
func (*NewInvoke) isExpr()     {}

func (e *Leaf) String() string        { return e.Value.String() }
func (e *FieldAccess) String() string { return operand(e.Base) + "." + e.Field.Signature() }
func (e *ArrayAccess) String() string { return operand(e.Base) + "[" + e.Index.String() + "]" }
func (e *Binary) String() string {
	return operand(e.X) + " " + e.Op.String() + " " + operand(e.Y)
}
func (e *Unary) String() string      { return e.Op.String() + " " + operand(e.X) }
func (e *Cast) String() string       { return "(" + string(e.Type) + ") " + operand(e.X) }
func (e *InstanceOf) String() string { return operand(e.X) + " instanceof " + string(e.Type) }
func (e *New) String() string        { return "new " + string(e.Type) }
func (e *NewArray) String() string {
	return "newarray (" + string(e.Elem) + ")[" + e.Size.String() + "]"
}
func (e *NewMultiArray) String() string {
	var b strings.Builder
	b.WriteString("newmultiarray (")
	b.WriteString(string(e.Type))
	b.WriteByte(')')
	for _, s := range e.Sizes {
		b.WriteByte('[')
		b.WriteString(s.String())
		b.WriteByte(']')
	}
	return b.String()
}
func (e *Invoke) String() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteByte(' ')
	if e.Base != nil {
		b.WriteString(operand(e.Base))
		b.WriteByte('.')
	}
	b.WriteString(e.Method.Signature())
	writeArgs(&b, e.Args)
	return b.String()
}
func (e *NewInvoke) String() string {
	var b strings.Builder
	b.WriteString("new ")
	b.WriteString(string(e.Type))
	writeArgs(&b, e.Args)
	return b.String()
}

func writeArgs(b *strings.Builder, args []Expr) {
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
}

// operand renders e, parenthesized when it would otherwise bind loosely.
func operand(e Expr) string {
	switch e.(type) {
	case *Binary, *Unary, *Cast, *InstanceOf:
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Slots returns pointers to the child slots of e in evaluation order.
// Replacing *slot replaces that child.
func Slots(e Expr) []*Expr {
	switch e := e.(type) {
	case *FieldAccess:
		return []*Expr{&e.Base}
	case *ArrayAccess:
		return []*Expr{&e.Base, &e.Index}
	case *Binary:
		return []*Expr{&e.X, &e.Y}
	case *Unary:
		return []*Expr{&e.X}
	case *Cast:
		return []*Expr{&e.X}
	case *InstanceOf:
		return []*Expr{&e.X}
	case *NewArray:
		return []*Expr{&e.Size}
	case *NewMultiArray:
		return argSlots(nil, e.Sizes)
	case *Invoke:
		var slots []*Expr
		if e.Base != nil {
			slots = append(slots, &e.Base)
		}
		return argSlots(slots, e.Args)
	case *NewInvoke:
		return argSlots(nil, e.Args)
	}
	return nil
}

func argSlots(slots []*Expr, args []Expr) []*Expr {
	for i := range args {
		slots = append(slots, &args[i])
	}
	return slots
}

// Children returns the direct children of e in evaluation order.
func Children(e Expr) []Expr {
	slots := Slots(e)
	out := make([]Expr, len(slots))
	for i, s := range slots {
		out[i] = *s
	}
	return out
}

// Depth returns the nesting depth of e. A node without children has depth 1.
func Depth(e Expr) int {
	d := 0
	for _, c := range Children(e) {
		if cd := Depth(c); cd > d {
			d = cd
		}
	}
	return d + 1
}

// Walk calls fn for e and its descendants in evaluation order, children before
// their parent. fn receives the slot holding each node, so it may replace it.
// Walking stops as soon as fn returns false; Walk then returns false as well.
func Walk(slot *Expr, fn func(slot *Expr) bool) bool {
	for _, s := range Slots(*slot) {
		if !Walk(s, fn) {
			return false
		}
	}
	return fn(slot)
}

// LocalOf returns the local wrapped by e when e is a leaf over a local.
func LocalOf(e Expr) (*ir.Local, bool) {
	if l, ok := e.(*Leaf); ok {
		local, ok := l.Value.(*ir.Local)
		return local, ok
	}
	return nil, false
}

// Locals appends every local referenced by e to dst.
func Locals(dst []*ir.Local, e Expr) []*ir.Local {
	if l, ok := LocalOf(e); ok {
		return append(dst, l)
	}
	for _, c := range Children(e) {
		dst = Locals(dst, c)
	}
	return dst
}

// Clone returns a deep copy of e. Locals are replaced through mapLocal when it
// is non-nil; other leaf values are immutable and shared.
func Clone(e Expr, mapLocal func(*ir.Local) *ir.Local) Expr {
	c := func(x Expr) Expr { return Clone(x, mapLocal) }
	switch e := e.(type) {
	case nil:
		return nil
	case *Leaf:
		if l, ok := e.Value.(*ir.Local); ok && mapLocal != nil {
			return &Leaf{Value: mapLocal(l)}
		}
		return &Leaf{Value: e.Value}
	case *FieldAccess:
		return &FieldAccess{Base: c(e.Base), Field: e.Field}
	case *ArrayAccess:
		return &ArrayAccess{Base: c(e.Base), Index: c(e.Index)}
	case *Binary:
		return &Binary{Op: e.Op, X: c(e.X), Y: c(e.Y)}
	case *Unary:
		return &Unary{Op: e.Op, X: c(e.X)}
	case *Cast:
		return &Cast{Type: e.Type, X: c(e.X)}
	case *InstanceOf:
		return &InstanceOf{Type: e.Type, X: c(e.X)}
	case *New:
		return &New{Type: e.Type}
	case *NewArray:
		return &NewArray{Elem: e.Elem, Size: c(e.Size)}
	case *NewMultiArray:
		return &NewMultiArray{Type: e.Type, Sizes: cloneAll(e.Sizes, mapLocal)}
	case *Invoke:
		var base Expr
		if e.Base != nil {
			base = c(e.Base)
		}
		return &Invoke{Kind: e.Kind, Base: base, Method: e.Method, Args: cloneAll(e.Args, mapLocal)}
	case *NewInvoke:
		return &NewInvoke{Type: e.Type, Method: e.Method, Args: cloneAll(e.Args, mapLocal)}
	}
	panic(fmt.Sprintf("tree: cannot clone %T", e))
}

func cloneAll(es []Expr, mapLocal func(*ir.Local) *ir.Local) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = Clone(e, mapLocal)
	}
	return out
}
