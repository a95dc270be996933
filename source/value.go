package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/jimple"
)

// valueParser reads flat operands against the locals of one body.
type valueParser struct {
	*scanner
	body *jimple.Body
}

// immediate reads a local or a constant.
func (p *valueParser) immediate() (ir.Value, error) {
	c := p.peekByte()
	switch {
	case c == '"':
		lit, err := p.quoted()
		if err != nil {
			return nil, err
		}
		v, err := strconv.Unquote(lit)
		if err != nil {
			return nil, p.errorf("string literal %s: %v", lit, err)
		}
		return &ir.StringConstant{Value: v}, nil
	case isDigit(c) || c == '-':
		return p.numberConstant()
	case p.acceptWord("null"):
		return &ir.NullConstant{}, nil
	case p.acceptWord("class"):
		lit, err := p.quoted()
		if err != nil {
			return nil, err
		}
		name, err := strconv.Unquote(lit)
		if err != nil {
			return nil, p.errorf("class literal %s: %v", lit, err)
		}
		return &ir.ClassConstant{Name: name}, nil
	}
	return p.local()
}

func (p *valueParser) local() (*ir.Local, error) {
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	l := p.body.Local(name)
	if l == nil {
		return nil, &undeclaredError{name: name}
	}
	return l, nil
}

func (p *valueParser) numberConstant() (ir.Value, error) {
	lit, err := p.number()
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(lit)
	hex := strings.HasPrefix(strings.TrimPrefix(lower, "-"), "0x")
	switch {
	case strings.HasSuffix(lower, "l"):
		v, err := strconv.ParseInt(lit[:len(lit)-1], 0, 64)
		if err != nil {
			return nil, p.errorf("long literal %s: %v", lit, err)
		}
		return &ir.LongConstant{Value: v}, nil
	case !hex && strings.HasSuffix(lower, "f"):
		v, err := strconv.ParseFloat(lit[:len(lit)-1], 32)
		if err != nil {
			return nil, p.errorf("float literal %s: %v", lit, err)
		}
		return &ir.FloatConstant{Value: float32(v)}, nil
	case !hex && strings.ContainsAny(lower, ".e"):
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.errorf("double literal %s: %v", lit, err)
		}
		return &ir.DoubleConstant{Value: v}, nil
	}
	v, err := strconv.ParseInt(lit, 0, 32)
	if err != nil {
		return nil, p.errorf("int literal %s: %v", lit, err)
	}
	return &ir.IntConstant{Value: int32(v)}, nil
}

// lvalue reads the left side of an assignment: a local, a static field, an
// instance field or an array element.
func (p *valueParser) lvalue() (ir.Value, error) {
	if p.peekByte() == '<' {
		return p.staticField()
	}
	base, err := p.local()
	if err != nil {
		return nil, err
	}
	return p.access(base)
}

// access reads an optional .<field> or [index] suffix of base.
func (p *valueParser) access(base ir.Value) (ir.Value, error) {
	switch {
	case p.accept(".<"):
		p.pos--
		sig, err := p.signature()
		if err != nil {
			return nil, err
		}
		f, err := ir.ParseFieldRef(sig)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		return &ir.InstanceFieldRef{Base: base, Field: f}, nil
	case p.accept("["):
		idx, err := p.immediate()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return &ir.ArrayRef{Base: base, Index: idx}, nil
	}
	return base, nil
}

func (p *valueParser) staticField() (ir.Value, error) {
	sig, err := p.signature()
	if err != nil {
		return nil, err
	}
	f, err := ir.ParseFieldRef(sig)
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	return &ir.StaticFieldRef{Field: f}, nil
}

// rvalue reads the right side of an assignment.
func (p *valueParser) rvalue() (ir.Value, error) {
	switch {
	case p.acceptWord("new"):
		t, err := p.typeName()
		if err != nil {
			return nil, err
		}
		return &ir.NewExpr{Type: ir.Type(t)}, nil
	case p.acceptWord("newarray"):
		elem, err := p.parenType()
		if err != nil {
			return nil, err
		}
		sizes, err := p.dims()
		if err != nil {
			return nil, err
		}
		if len(sizes) != 1 {
			return nil, p.errorf("newarray takes exactly one size")
		}
		return &ir.NewArrayExpr{Elem: elem, Size: sizes[0]}, nil
	case p.acceptWord("newmultiarray"):
		t, err := p.parenType()
		if err != nil {
			return nil, err
		}
		sizes, err := p.dims()
		if err != nil {
			return nil, err
		}
		return &ir.NewMultiArrayExpr{Type: t, Sizes: sizes}, nil
	case p.acceptWord("neg"):
		x, err := p.immediate()
		if err != nil {
			return nil, err
		}
		return &ir.UnopExpr{Op: ir.OpNeg, X: x}, nil
	case p.acceptWord("lengthof"):
		x, err := p.immediate()
		if err != nil {
			return nil, err
		}
		return &ir.UnopExpr{Op: ir.OpLength, X: x}, nil
	case p.peekByte() == '(':
		t, err := p.parenType()
		if err != nil {
			return nil, err
		}
		x, err := p.immediate()
		if err != nil {
			return nil, err
		}
		return &ir.CastExpr{Type: t, X: x}, nil
	case p.peekByte() == '<':
		return p.staticField()
	}
	if v, ok, err := p.invoke(); ok || err != nil {
		return v, err
	}

	x, err := p.immediate()
	if err != nil {
		return nil, err
	}
	if l, ok := x.(*ir.Local); ok {
		if v, err := p.access(l); err != nil || v != ir.Value(l) {
			return v, err
		}
	}
	if p.acceptWord("instanceof") {
		t, err := p.typeName()
		if err != nil {
			return nil, err
		}
		return &ir.InstanceOfExpr{X: x, Type: ir.Type(t)}, nil
	}
	return p.binary(x)
}

// binary reads an optional "op y" continuation of x.
func (p *valueParser) binary(x ir.Value) (ir.Value, error) {
	if p.eof() {
		return x, nil
	}
	save := p.pos
	sym := p.operator()
	op, ok := ir.ParseBinOp(sym)
	if !ok {
		p.pos = save
		return x, nil
	}
	y, err := p.immediate()
	if err != nil {
		return nil, err
	}
	return &ir.BinopExpr{Op: op, X: x, Y: y}, nil
}

// invoke reads "kind [base.]<sig>(args)". ok is false when the input does not
// start with an invoke keyword.
func (p *valueParser) invoke() (ir.Value, bool, error) {
	save := p.pos
	word, err := p.name()
	if err != nil {
		p.pos = save
		return nil, false, nil
	}
	kind, ok := ir.ParseInvokeKind(word)
	if !ok {
		p.pos = save
		return nil, false, nil
	}
	call := &ir.InvokeExpr{Kind: kind}
	if kind != ir.InvokeStatic {
		base, err := p.local()
		if err != nil {
			return nil, true, err
		}
		if err := p.expect("."); err != nil {
			return nil, true, err
		}
		call.Base = base
	}
	sig, err := p.signature()
	if err != nil {
		return nil, true, err
	}
	if call.Method, err = ir.ParseMethodRef(sig); err != nil {
		return nil, true, p.errorf("%v", err)
	}
	if err := p.expect("("); err != nil {
		return nil, true, err
	}
	for !p.accept(")") {
		if len(call.Args) > 0 {
			if err := p.expect(","); err != nil {
				return nil, true, err
			}
		}
		arg, err := p.immediate()
		if err != nil {
			return nil, true, err
		}
		call.Args = append(call.Args, arg)
	}
	if len(call.Args) != len(call.Method.Params) {
		return nil, true, p.errorf("%s takes %d arguments, got %d", call.Method.Name, len(call.Method.Params), len(call.Args))
	}
	return call, true, nil
}

// identityRef reads @parameterN, @this or @caughtexception, each optionally
// followed by ": type".
func (p *valueParser) identityRef(m *ir.Method) (ir.Value, error) {
	switch {
	case p.accept("@parameter"):
		digits := p.pos
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
		n, err := strconv.Atoi(p.src[digits:p.pos])
		if err != nil {
			return nil, p.errorf("parameter index: %v", err)
		}
		if n >= len(m.Params) {
			return nil, p.errorf("parameter %d out of range, method takes %d", n, len(m.Params))
		}
		ref := &ir.ParameterRef{Index: n, Type: m.Params[n]}
		if t, ok, err := p.optType(); err != nil {
			return nil, err
		} else if ok && t != ref.Type {
			return nil, p.errorf("parameter %d has type %s, not %s", n, ref.Type, t)
		}
		return ref, nil
	case p.accept("@this"):
		if m.Static {
			return nil, p.errorf("@this in a static method")
		}
		ref := &ir.ThisRef{Type: ir.Type(m.Class)}
		if _, _, err := p.optType(); err != nil {
			return nil, err
		}
		return ref, nil
	case p.accept("@caughtexception"):
		return &ir.CaughtExceptionRef{}, nil
	}
	return nil, p.errorf("expected @parameterN, @this or @caughtexception")
}

func (p *valueParser) optType() (ir.Type, bool, error) {
	if !p.accept(":") {
		return "", false, nil
	}
	t, err := p.typeName()
	if err != nil {
		return "", false, err
	}
	return ir.Type(t), true, nil
}

func (p *valueParser) parenType() (ir.Type, error) {
	if err := p.expect("("); err != nil {
		return "", err
	}
	t, err := p.typeName()
	if err != nil {
		return "", err
	}
	if err := p.expect(")"); err != nil {
		return "", err
	}
	return ir.Type(t), nil
}

func (p *valueParser) dims() ([]ir.Value, error) {
	var sizes []ir.Value
	for p.accept("[") {
		v, err := p.immediate()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		sizes = append(sizes, v)
	}
	if len(sizes) == 0 {
		return nil, p.errorf("expected at least one [size]")
	}
	return sizes, nil
}

// undeclaredError reports a reference to a local the method does not declare.
type undeclaredError struct {
	name string
}

func (e *undeclaredError) Error() string {
	return fmt.Sprintf("local %q is not declared", e.name)
}
