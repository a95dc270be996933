package jimple

import (
	"fmt"
	"strings"

	"github.com/wippyai/treeir/ir"
)

// Stmt is a flat statement. The set of implementations is closed.
type Stmt interface {
	ir.Unit
	setIndex(int)
}

type stmtBase struct {
	index int
}

func (b *stmtBase) Index() int        { return b.index }
func (b *stmtBase) setIndex(i int)    { b.index = i }
func (*stmtBase) Branches() []ir.Unit { return nil }

// AssignStmt stores Right into Left.
type AssignStmt struct {
	Left  ir.Value
	Right ir.Value
	stmtBase
}

// IdentityStmt binds a parameter, the receiver or a caught exception to a local.
type IdentityStmt struct {
	Left  ir.Value
	Right ir.Value
	stmtBase
}

// BreakpointStmt marks a debugger breakpoint.
type BreakpointStmt struct {
	stmtBase
}

// InvokeStmt calls a method and discards the result.
type InvokeStmt struct {
	Call ir.Value
	stmtBase
}

// EnterMonitorStmt acquires the monitor of Op.
type EnterMonitorStmt struct {
	Op ir.Value
	stmtBase
}

// ExitMonitorStmt releases the monitor of Op.
type ExitMonitorStmt struct {
	Op ir.Value
	stmtBase
}

// GotoStmt jumps unconditionally.
type GotoStmt struct {
	Target Stmt
	stmtBase
}

// IfStmt jumps to Target when Cond holds.
type IfStmt struct {
	Cond   ir.Value
	Target Stmt
	stmtBase
}

// LookupSwitchStmt jumps to Targets[i] when Key == Values[i], else to Default.
type LookupSwitchStmt struct {
	Key     ir.Value
	Default Stmt
	Values  []int32
	Targets []Stmt
	stmtBase
}

// TableSwitchStmt jumps to Targets[Key-Low] when Low <= Key <= High, else to Default.
type TableSwitchStmt struct {
	Key     ir.Value
	Default Stmt
	Targets []Stmt
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
	Op ir.Value
	stmtBase
}

// ReturnVoidStmt returns from a void method.
type ReturnVoidStmt struct {
	stmtBase
}

// ThrowStmt throws Op.
type ThrowStmt struct {
	Op ir.Value
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

func (s *GotoStmt) Branches() []ir.Unit { return []ir.Unit{unit(s.Target)} }
func (s *IfStmt) Branches() []ir.Unit   { return []ir.Unit{unit(s.Target)} }
func (s *LookupSwitchStmt) Branches() []ir.Unit {
	return switchTargets(s.Targets, s.Default)
}
func (s *TableSwitchStmt) Branches() []ir.Unit {
	return switchTargets(s.Targets, s.Default)
}

// unit keeps a nil Stmt from turning into a non-nil ir.Unit.
func unit(s Stmt) ir.Unit {
	if s == nil {
		return nil
	}
	return s
}

func switchTargets(targets []Stmt, def Stmt) []ir.Unit {
	out := make([]ir.Unit, 0, len(targets)+1)
	for _, t := range targets {
		out = append(out, unit(t))
	}
	return append(out, unit(def))
}

func (s *AssignStmt) String() string   { return s.Left.String() + " = " + s.Right.String() }
func (s *IdentityStmt) String() string { return s.Left.String() + " := " + s.Right.String() }
func (*BreakpointStmt) String() string { return "breakpoint" }
func (s *InvokeStmt) String() string   { return s.Call.String() }
func (s *EnterMonitorStmt) String() string {
	return "entermonitor " + s.Op.String()
}
func (s *ExitMonitorStmt) String() string { return "exitmonitor " + s.Op.String() }
func (s *GotoStmt) String() string        { return "goto " + ir.UnitLabel(unit(s.Target)) }
func (s *IfStmt) String() string {
	return "if " + s.Cond.String() + " goto " + ir.UnitLabel(unit(s.Target))
}
func (s *LookupSwitchStmt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lookupswitch(%s) {", s.Key)
	for i, t := range s.Targets {
		v := int32(0)
		if i < len(s.Values) {
			v = s.Values[i]
		}
		fmt.Fprintf(&b, "case %d: goto %s; ", v, ir.UnitLabel(unit(t)))
	}
	fmt.Fprintf(&b, "default: goto %s}", ir.UnitLabel(unit(s.Default)))
	return b.String()
}
func (s *TableSwitchStmt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tableswitch(%s) {", s.Key)
	for i, t := range s.Targets {
		fmt.Fprintf(&b, "case %d: goto %s; ", s.Low+int32(i), ir.UnitLabel(unit(t)))
	}
	fmt.Fprintf(&b, "default: goto %s}", ir.UnitLabel(unit(s.Default)))
	return b.String()
}
func (*NopStmt) String() string        { return "nop" }
func (s *ReturnStmt) String() string   { return "return " + s.Op.String() }
func (*ReturnVoidStmt) String() string { return "return" }
func (s *ThrowStmt) String() string    { return "throw " + s.Op.String() }
