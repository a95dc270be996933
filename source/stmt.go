package source

import (
	"strconv"

	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/jimple"
)

// labelRef is a statement reference waiting for its label to be resolved.
type labelRef struct {
	name string
	set  func(jimple.Stmt)
}

// parsedStmt is one body line after the first pass.
type parsedStmt struct {
	stmt  jimple.Stmt
	label string
	refs  []labelRef
}

// parseStmt reads one statement line of body.
func parseStmt(line string, body *jimple.Body) (*parsedStmt, error) {
	p := &valueParser{scanner: &scanner{src: line}, body: body}
	out := &parsedStmt{}

	save := p.pos
	if name, err := p.name(); err == nil && p.peekByte() == ':' && !p.accept(":=") {
		p.accept(":")
		out.label = name
	} else {
		p.pos = save
	}

	stmt, err := p.stmt(out)
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.rest())
	}
	out.stmt = stmt
	return out, nil
}

func (p *valueParser) stmt(out *parsedStmt) (jimple.Stmt, error) {
	target := func(set func(jimple.Stmt)) error {
		name, err := p.name()
		if err != nil {
			return err
		}
		out.refs = append(out.refs, labelRef{name: name, set: set})
		return nil
	}

	switch {
	case p.acceptWord("nop"):
		return &jimple.NopStmt{}, nil
	case p.acceptWord("breakpoint"):
		return &jimple.BreakpointStmt{}, nil
	case p.acceptWord("return"):
		if p.eof() {
			return &jimple.ReturnVoidStmt{}, nil
		}
		op, err := p.immediate()
		if err != nil {
			return nil, err
		}
		return &jimple.ReturnStmt{Op: op}, nil
	case p.acceptWord("throw"):
		op, err := p.immediate()
		if err != nil {
			return nil, err
		}
		return &jimple.ThrowStmt{Op: op}, nil
	case p.acceptWord("entermonitor"):
		op, err := p.immediate()
		if err != nil {
			return nil, err
		}
		return &jimple.EnterMonitorStmt{Op: op}, nil
	case p.acceptWord("exitmonitor"):
		op, err := p.immediate()
		if err != nil {
			return nil, err
		}
		return &jimple.ExitMonitorStmt{Op: op}, nil
	case p.acceptWord("goto"):
		s := &jimple.GotoStmt{}
		return s, target(func(t jimple.Stmt) { s.Target = t })
	case p.acceptWord("if"):
		x, err := p.immediate()
		if err != nil {
			return nil, err
		}
		cond, err := p.binary(x)
		if err != nil {
			return nil, err
		}
		if b, ok := cond.(*ir.BinopExpr); !ok || !b.Op.IsComparison() {
			return nil, p.errorf("if needs a comparison, got %s", cond)
		}
		if !p.acceptWord("goto") {
			return nil, p.errorf("expected goto")
		}
		s := &jimple.IfStmt{Cond: cond}
		return s, target(func(t jimple.Stmt) { s.Target = t })
	case p.acceptWord("lookupswitch"):
		return p.switchStmt(out, false)
	case p.acceptWord("tableswitch"):
		return p.switchStmt(out, true)
	}

	if call, ok, err := p.invoke(); err != nil {
		return nil, err
	} else if ok {
		return &jimple.InvokeStmt{Call: call}, nil
	}

	left, err := p.lvalue()
	if err != nil {
		return nil, err
	}
	if p.accept(":=") {
		if _, ok := left.(*ir.Local); !ok {
			return nil, p.errorf("identity target must be a local")
		}
		right, err := p.identityRef(p.body.Method)
		if err != nil {
			return nil, err
		}
		return &jimple.IdentityStmt{Left: left, Right: right}, nil
	}
	if err := p.expect("="); err != nil {
		return nil, err
	}
	right, err := p.rvalue()
	if err != nil {
		return nil, err
	}
	return &jimple.AssignStmt{Left: left, Right: right}, nil
}

// switchStmt reads "(key) {case v: goto L; ...; default: goto L}".
func (p *valueParser) switchStmt(out *parsedStmt, table bool) (jimple.Stmt, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	key, err := p.immediate()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if err := p.expect("{"); err != nil {
		return nil, err
	}

	var (
		values  []int32
		targets []string
		def     string
	)
	for {
		if p.acceptWord("default") {
			if err := p.expect(":"); err != nil {
				return nil, err
			}
			if !p.acceptWord("goto") {
				return nil, p.errorf("expected goto")
			}
			if def, err = p.name(); err != nil {
				return nil, err
			}
			p.accept(";")
			if err := p.expect("}"); err != nil {
				return nil, err
			}
			break
		}
		if !p.acceptWord("case") {
			return nil, p.errorf("expected case or default")
		}
		lit, err := p.number()
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(lit, 0, 32)
		if err != nil {
			return nil, p.errorf("case value %s: %v", lit, err)
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		if !p.acceptWord("goto") {
			return nil, p.errorf("expected goto")
		}
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		values = append(values, int32(v))
		targets = append(targets, name)
	}

	var (
		stmt  jimple.Stmt
		slots []jimple.Stmt
		setDf func(jimple.Stmt)
	)
	if table {
		if len(values) == 0 {
			return nil, p.errorf("tableswitch needs at least one case")
		}
		for i, v := range values {
			if v != values[0]+int32(i) {
				return nil, p.errorf("tableswitch cases must be consecutive")
			}
		}
		s := &jimple.TableSwitchStmt{
			Key:     key,
			Low:     values[0],
			High:    values[len(values)-1],
			Targets: make([]jimple.Stmt, len(targets)),
		}
		stmt, slots, setDf = s, s.Targets, func(t jimple.Stmt) { s.Default = t }
	} else {
		s := &jimple.LookupSwitchStmt{Key: key, Values: values, Targets: make([]jimple.Stmt, len(targets))}
		stmt, slots, setDf = s, s.Targets, func(t jimple.Stmt) { s.Default = t }
	}
	for i, name := range targets {
		i := i
		out.refs = append(out.refs, labelRef{name: name, set: func(t jimple.Stmt) { slots[i] = t }})
	}
	out.refs = append(out.refs, labelRef{name: def, set: setDf})
	return stmt, nil
}
