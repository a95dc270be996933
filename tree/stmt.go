package tree

import (
	"fmt"
	"strings"

	"github.com/wippyai/treeir/ir"
)

// Box is an operand slot of a statement.
//
// Between statement translation and operand folding a box carries the flat
// operand it was copied from in Raw. Folding moves it into Expr; from then on
// Raw is nil and Expr holds the whole operand tree.
type Box struct {
	Expr Expr
	Raw  ir.Value
}

// NewBox returns a box holding e.
func NewBox(e Expr) *Box { return &Box{Expr: e} }

// RawBox returns a box holding an unfolded flat operand.
func RawBox(v ir.Value) *Box { return &Box{Raw: v} }

// Folded reports whether the box holds an expression tree and nothing else.
func (b *Box) Folded() bool { return b.Expr != nil && b.Raw == nil }

func (b *Box) String() string {
	switch {
	case b == nil:
		return "<nil>"
	case b.Expr != nil:
		return b.Expr.String()
	case b.Raw != nil:
		return b.Raw.String()
	}
	return "<empty>"
}

// Stmt is a tree statement. The set of implementations is closed.
type Stmt interface {
	ir.Unit
	// DefBoxes returns the slots the statement writes to.
	DefBoxes() []*Box
	// UseBoxes returns the slots the statement only reads.
	UseBoxes() []*Box
	setIndex(int)
}

// Boxes returns every operand slot of s, definitions first.
func Boxes(s Stmt) []*Box {
	return append(s.DefBoxes(), s.UseBoxes()...)
}

type stmtBase struct {
	index int
}

func (b *stmtBase) Index() int        { return b.index }
func (b *stmtBase) setIndex(i int)    { b.index = i }
func (*stmtBase) Branches() []ir.Unit { return nil }
func (*stmtBase) DefBoxes() []*Box    { return nil }
func (*stmtBase) UseBoxes() []*Box    { return nil }

// AssignStmt stores Right into Left.
type AssignStmt struct {
	Left  *Box
	Right *Box
	stmtBase
}

// IdentityStmt binds a parameter, the receiver or a caught exception to a local.
type IdentityStmt struct {
	Left  *Box
	Right *Box
	stmtBase
}

// BreakpointStmt marks a debugger breakpoint.
type BreakpointStmt struct {
	stmtBase
}

// InvokeStmt evaluates a call and discards its result.
type InvokeStmt struct {
	Call *Box
	stmtBase
}

// EnterMonitorStmt acquires the monitor of Op.
type EnterMonitorStmt struct {
	Op *Box
	stmtBase
}

// ExitMonitorStmt releases the monitor of Op.
type ExitMonitorStmt struct {
	Op *Box
	stmtBase
}

// GotoStmt jumps unconditionally.
type GotoStmt struct {
	Target ir.Unit
	stmtBase
}

// IfStmt jumps to Target when Cond holds.
type IfStmt struct {
	Cond   *Box
	Target ir.Unit
	stmtBase
}

// LookupSwitchStmt jumps to Targets[i] when Key == Values[i], else to Default.
type LookupSwitchStmt struct {
	Key     *Box
	Default ir.Unit
	Values  []int32
	Targets []ir.Unit
	stmtBase
}

// TableSwitchStmt jumps to Targets[Key-Low] when Low <= Key <= High, else to Default.
type TableSwitchStmt struct {
	Key     *Box
	Default ir.Unit
	Targets []ir.Unit
	Low     int32
	High    int32
	stmtBase
}

// NopStmt does nothing.
type NopStmt struct {
	stmtBase
}

// ReturnStmt returns Op.
type ReturnStmt struct {
	Op *Box
	stmtBase
}

// ReturnVoidStmt returns from a void method.
type ReturnVoidStmt struct {
	stmtBase
}

// ThrowStmt throws Op.
type ThrowStmt struct {
	Op *Box
	stmtBase
}

func (*AssignStmt) Kind() ir.StmtKind       { return ir.KindAssign }
func (*IdentityStmt) Kind() ir.StmtKind     { return ir.KindIdentity }
func (*BreakpointStmt) Kind() ir.StmtKind   { return ir.KindBreakpoint }
func (*InvokeStmt) Kind() ir.StmtKind       { return ir.KindInvoke }
func (*EnterMonitorStmt) Kind() ir.StmtKind { return ir.KindEnterMonitor }
func (*ExitMonitorStmt) Kind() ir.StmtKind  { return ir.KindExitMonitor }
func (*GotoStmt) Kind() ir.StmtKind         { return ir.KindGoto }
func (*IfStmt) Kind() ir.StmtKind           { return ir.KindIf }
func (*LookupSwitchStmt) Kind() ir.StmtKind { return ir.KindLookupSwitch }
func (*TableSwitchStmt) Kind() ir.StmtKind  { return ir.KindTableSwitch }
func (*NopStmt) Kind() ir.StmtKind          { return ir.KindNop }
func (*ReturnStmt) Kind() ir.StmtKind       { return ir.KindReturn }
func (*ReturnVoidStmt) Kind() ir.StmtKind   { return ir.KindReturnVoid }
func (*ThrowStmt) Kind() ir.StmtKind        { return ir.KindThrow }

func (s *AssignStmt) DefBoxes() []*Box       { return []*Box{s.Left} }
func (s *AssignStmt) UseBoxes() []*Box       { return []*Box{s.Right} }
func (s *IdentityStmt) DefBoxes() []*Box     { return []*Box{s.Left} }
func (s *IdentityStmt) UseBoxes() []*Box     { return []*Box{s.Right} }
func (s *InvokeStmt) UseBoxes() []*Box       { return []*Box{s.Call} }
func (s *EnterMonitorStmt) UseBoxes() []*Box { return []*Box{s.Op} }
func (s *ExitMonitorStmt) UseBoxes() []*Box  { return []*Box{s.Op} }
func (s *IfStmt) UseBoxes() []*Box           { return []*Box{s.Cond} }
func (s *LookupSwitchStmt) UseBoxes() []*Box { return []*Box{s.Key} }
func (s *TableSwitchStmt) UseBoxes() []*Box  { return []*Box{s.Key} }
func (s *ReturnStmt) UseBoxes() []*Box       { return []*Box{s.Op} }
func (s *ThrowStmt) UseBoxes() []*Box        { return []*Box{s.Op} }

func (s *GotoStmt) Branches() []ir.Unit { return []ir.Unit{s.Target} }
func (s *IfStmt) Branches() []ir.Unit   { return []ir.Unit{s.Target} }
func (s *LookupSwitchStmt) Branches() []ir.Unit {
	return append(append([]ir.Unit(nil), s.Targets...), s.Default)
}
func (s *TableSwitchStmt) Branches() []ir.Unit {
	return append(append([]ir.Unit(nil), s.Targets...), s.Default)
}

func (s *AssignStmt) String() string   { return s.Left.String() + " = " + s.Right.String() }
func (s *IdentityStmt) String() string { return s.Left.String() + " := " + s.Right.String() }
func (*BreakpointStmt) String() string { return "breakpoint" }
func (s *InvokeStmt) String() string   { return s.Call.String() }
func (s *EnterMonitorStmt) String() string {
	return "entermonitor " + s.Op.String()
}
func (s *ExitMonitorStmt) String() string { return "exitmonitor " + s.Op.String() }
func (s *GotoStmt) String() string        { return "goto " + ir.UnitLabel(s.Target) }
func (s *IfStmt) String() string {
	return "if " + s.Cond.String() + " goto " + ir.UnitLabel(s.Target)
}
func (s *LookupSwitchStmt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lookupswitch(%s) {", s.Key)
	for i, t := range s.Targets {
		v := int32(0)
		if i < len(s.Values) {
			v = s.Values[i]
		}
		fmt.Fprintf(&b, "case %d: goto %s; ", v, ir.UnitLabel(t))
	}
	fmt.Fprintf(&b, "default: goto %s}", ir.UnitLabel(s.Default))
	return b.String()
}
func (s *TableSwitchStmt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tableswitch(%s) {", s.Key)
	for i, t := range s.Targets {
		fmt.Fprintf(&b, "case %d: goto %s; ", s.Low+int32(i), ir.UnitLabel(t))
	}
	fmt.Fprintf(&b, "default: goto %s}", ir.UnitLabel(s.Default))
	return b.String()
}
func (*NopStmt) String() string        { return "nop" }
func (s *ReturnStmt) String() string   { return "return " + s.Op.String() }
func (*ReturnVoidStmt) String() string { return "return" }
func (s *ThrowStmt) String() string    { return "throw " + s.Op.String() }

// NewAssign returns left = right with both operands already folded.
func NewAssign(left, right Expr) *AssignStmt {
	return &AssignStmt{Left: NewBox(left), Right: NewBox(right)}
}

// NewInvokeStmt returns a call statement with an already folded call.
func NewInvokeStmt(call Expr) *InvokeStmt {
	return &InvokeStmt{Call: NewBox(call)}
}
