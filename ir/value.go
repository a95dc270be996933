package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is an operand of a flat statement.
//
// The set of values is closed: constants, *Local, field/array/identity refs and
// the single-operation expressions below. Operands of expressions are locals or
// constants in well-formed flat bodies, but nothing here enforces that.
type Value interface {
	fmt.Stringer
	isValue()
}

// IntConstant is a 32-bit integer constant (also used for boolean, byte, char, short).
type IntConstant struct{ Value int32 }

// LongConstant is a 64-bit integer constant.
type LongConstant struct{ Value int64 }

// FloatConstant is a 32-bit floating point constant.
type FloatConstant struct{ Value float32 }

// DoubleConstant is a 64-bit floating point constant.
type DoubleConstant struct{ Value float64 }

// StringConstant is a string literal.
type StringConstant struct{ Value string }

// NullConstant is the null reference.
type NullConstant struct{}

// ClassConstant is a class literal.
type ClassConstant struct{ Name string }

func (c *IntConstant) String() string { return strconv.FormatInt(int64(c.Value), 10) }
func (c *LongConstant) String() string {
	return strconv.FormatInt(c.Value, 10) + "L"
}
func (c *FloatConstant) String() string {
	return strconv.FormatFloat(float64(c.Value), 'g', -1, 32) + "F"
}
func (c *DoubleConstant) String() string { return strconv.FormatFloat(c.Value, 'g', -1, 64) }
func (c *StringConstant) String() string { return strconv.Quote(c.Value) }
func (*NullConstant) String() string     { return "null" }
func (c *ClassConstant) String() string  { return "class " + strconv.Quote(c.Name) }

func (*IntConstant) isValue()    {}
func (*LongConstant) isValue()   {}
func (*FloatConstant) isValue()  {}
func (*DoubleConstant) isValue() {}
func (*StringConstant) isValue() {}
func (*NullConstant) isValue()   {}
func (*ClassConstant) isValue()  {}

// StaticFieldRef reads or writes a static field.
type StaticFieldRef struct {
	Field *FieldRef
}

// InstanceFieldRef reads or writes a field of Base.
type InstanceFieldRef struct {
	Base  Value
	Field *FieldRef
}

// ArrayRef reads or writes an array element.
type ArrayRef struct {
	Base  Value
	Index Value
}

// ParameterRef is the incoming value of a method parameter, used by identity statements.
type ParameterRef struct {
	Type  Type
	Index int
}

// ThisRef is the receiver of an instance method, used by identity statements.
type ThisRef struct {
	Type Type
}

// CaughtExceptionRef is the exception delivered to a handler, used by identity statements.
type CaughtExceptionRef struct{}

func (r *StaticFieldRef) String() string   { return r.Field.Signature() }
func (r *InstanceFieldRef) String() string { return r.Base.String() + "." + r.Field.Signature() }
func (r *ArrayRef) String() string         { return r.Base.String() + "[" + r.Index.String() + "]" }
func (r *ParameterRef) String() string     { return fmt.Sprintf("@parameter%d: %s", r.Index, r.Type) }
func (r *ThisRef) String() string          { return "@this: " + string(r.Type) }
func (*CaughtExceptionRef) String() string { return "@caughtexception" }

func (*StaticFieldRef) isValue()     {}
func (*InstanceFieldRef) isValue()   {}
func (*ArrayRef) isValue()           {}
func (*ParameterRef) isValue()       {}
func (*ThisRef) isValue()            {}
func (*CaughtExceptionRef) isValue() {}

// BinOp is a binary operator.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpUshr
	OpCmp
	OpCmpl
	OpCmpg
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var binOpSymbols = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpRem: "%",
	OpAnd: "&", OpOr: "|", OpXor: "^",
	OpShl: "<<", OpShr: ">>", OpUshr: ">>>",
	OpCmp: "cmp", OpCmpl: "cmpl", OpCmpg: "cmpg",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
}

func (op BinOp) String() string {
	if int(op) < len(binOpSymbols) {
		return binOpSymbols[op]
	}
	return fmt.Sprintf("binop(%d)", uint8(op))
}

// MayThrow reports whether evaluating the operator can raise an exception
// (integer division and remainder by zero).
func (op BinOp) MayThrow() bool {
	return op == OpDiv || op == OpRem
}

// IsComparison reports whether op yields a condition usable by an if statement.
func (op BinOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// ParseBinOp looks up an operator by its symbol.
func ParseBinOp(sym string) (BinOp, bool) {
	for i, s := range binOpSymbols {
		if s == sym {
			return BinOp(i), true
		}
	}
	return 0, false
}

// UnOp is a unary operator.
type UnOp uint8

const (
	OpNeg UnOp = iota
	OpLength
)

func (op UnOp) String() string {
	if op == OpLength {
		return "lengthof"
	}
	return "neg"
}

// InvokeKind selects the dispatch rule of an invocation.
type InvokeKind uint8

const (
	InvokeVirtual InvokeKind = iota
	InvokeSpecial
	InvokeInterface
	InvokeStatic
)

func (k InvokeKind) String() string {
	switch k {
	case InvokeSpecial:
		return "specialinvoke"
	case InvokeInterface:
		return "interfaceinvoke"
	case InvokeStatic:
		return "staticinvoke"
	default:
		return "virtualinvoke"
	}
}

// ParseInvokeKind accepts "virtual", "special", "interface", "static" with or without the "invoke" suffix.
func ParseInvokeKind(s string) (InvokeKind, bool) {
	switch strings.TrimSuffix(s, "invoke") {
	case "virtual":
		return InvokeVirtual, true
	case "special":
		return InvokeSpecial, true
	case "interface":
		return InvokeInterface, true
	case "static":
		return InvokeStatic, true
	}
	return 0, false
}

// BinopExpr applies a binary operator.
type BinopExpr struct {
	X, Y Value
	Op   BinOp
}

// UnopExpr applies neg or lengthof.
type UnopExpr struct {
	X  Value
	Op UnOp
}

// CastExpr converts X to Type.
type CastExpr struct {
	X    Value
	Type Type
}

// InstanceOfExpr tests X against Type.
type InstanceOfExpr struct {
	X    Value
	Type Type
}

// NewExpr allocates an uninitialized object of Type.
type NewExpr struct {
	Type Type
}

// NewArrayExpr allocates a one-dimensional array.
type NewArrayExpr struct {
	Size Value
	Elem Type
}

// NewMultiArrayExpr allocates a multi-dimensional array of Type with the given dimension sizes.
type NewMultiArrayExpr struct {
	Type  Type
	Sizes []Value
}

// InvokeExpr calls Method. Base is nil for static invocations.
type InvokeExpr struct {
	Base   Value
	Method *MethodRef
	Args   []Value
	Kind   InvokeKind
}

func (e *BinopExpr) String() string {
	return e.X.String() + " " + e.Op.String() + " " + e.Y.String()
}
func (e *UnopExpr) String() string       { return e.Op.String() + " " + e.X.String() }
func (e *CastExpr) String() string       { return "(" + string(e.Type) + ") " + e.X.String() }
func (e *InstanceOfExpr) String() string { return e.X.String() + " instanceof " + string(e.Type) }
func (e *NewExpr) String() string        { return "new " + string(e.Type) }
func (e *NewArrayExpr) String() string {
	return "newarray (" + string(e.Elem) + ")[" + e.Size.String() + "]"
}
func (e *NewMultiArrayExpr) String() string {
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
func (e *InvokeExpr) String() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteByte(' ')
	if e.Base != nil {
		b.WriteString(e.Base.String())
		b.WriteByte('.')
	}
	b.WriteString(e.Method.Signature())
	b.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (*BinopExpr) isValue()         {}
func (*UnopExpr) isValue()          {}
func (*CastExpr) isValue()          {}
func (*InstanceOfExpr) isValue()    {}
func (*NewExpr) isValue()           {}
func (*NewArrayExpr) isValue()      {}
func (*NewMultiArrayExpr) isValue() {}
func (*InvokeExpr) isValue()        {}

// Operands returns the direct sub-values of v in evaluation order.
func Operands(v Value) []Value {
	switch v := v.(type) {
	case *InstanceFieldRef:
		return []Value{v.Base}
	case *ArrayRef:
		return []Value{v.Base, v.Index}
	case *BinopExpr:
		return []Value{v.X, v.Y}
	case *UnopExpr:
		return []Value{v.X}
	case *CastExpr:
		return []Value{v.X}
	case *InstanceOfExpr:
		return []Value{v.X}
	case *NewArrayExpr:
		return []Value{v.Size}
	case *NewMultiArrayExpr:
		return append([]Value(nil), v.Sizes...)
	case *InvokeExpr:
		ops := make([]Value, 0, len(v.Args)+1)
		if v.Base != nil {
			ops = append(ops, v.Base)
		}
		return append(ops, v.Args...)
	}
	return nil
}

// IsLeaf reports whether v has no operands of its own and no allocation or call semantics.
func IsLeaf(v Value) bool {
	switch v.(type) {
	case *Local, *IntConstant, *LongConstant, *FloatConstant, *DoubleConstant,
		*StringConstant, *NullConstant, *ClassConstant,
		*StaticFieldRef, *ParameterRef, *ThisRef, *CaughtExceptionRef:
		return true
	}
	return false
}

// IsConstant reports whether v is a constant.
func IsConstant(v Value) bool {
	switch v.(type) {
	case *IntConstant, *LongConstant, *FloatConstant, *DoubleConstant,
		*StringConstant, *NullConstant, *ClassConstant:
		return true
	}
	return false
}

// Depth returns the nesting depth of v: values without operands are 0, every
// operator level above them adds one.
func Depth(v Value) int {
	ops := Operands(v)
	if len(ops) == 0 {
		return 0
	}
	d := 0
	for _, op := range ops {
		if od := Depth(op); od > d {
			d = od
		}
	}
	return d + 1
}
