package ir

import "fmt"

// StmtKind enumerates the statement kinds shared by the flat and tree forms.
type StmtKind uint8

const (
	KindAssign StmtKind = iota
	KindIdentity
	KindBreakpoint
	KindInvoke
	KindEnterMonitor
	KindExitMonitor
	KindGoto
	KindIf
	KindLookupSwitch
	KindTableSwitch
	KindNop
	KindReturn
	KindReturnVoid
	KindThrow
)

var kindNames = [...]string{
	KindAssign:       "assign",
	KindIdentity:     "identity",
	KindBreakpoint:   "breakpoint",
	KindInvoke:       "invoke",
	KindEnterMonitor: "entermonitor",
	KindExitMonitor:  "exitmonitor",
	KindGoto:         "goto",
	KindIf:           "if",
	KindLookupSwitch: "lookupswitch",
	KindTableSwitch:  "tableswitch",
	KindNop:          "nop",
	KindReturn:       "return",
	KindReturnVoid:   "returnvoid",
	KindThrow:        "throw",
}

func (k StmtKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// FallsThrough reports whether control may continue to the next statement.
func (k StmtKind) FallsThrough() bool {
	switch k {
	case KindGoto, KindLookupSwitch, KindTableSwitch, KindReturn, KindReturnVoid, KindThrow:
		return false
	}
	return true
}

// HasTargets reports whether statements of this kind carry branch targets.
func (k StmtKind) HasTargets() bool {
	switch k {
	case KindGoto, KindIf, KindLookupSwitch, KindTableSwitch:
		return true
	}
	return false
}

// Unit is a statement as seen by control flow: a stable index within its owning
// body, a kind, and explicit branch targets. Fallthrough is implied by the kind.
//
// The index is assigned when the statement is added to a body and never changes,
// even if other statements are removed later.
type Unit interface {
	fmt.Stringer
	Index() int
	Kind() StmtKind
	// Branches returns the explicit branch targets; switches list the indexed
	// targets followed by the default target.
	Branches() []Unit
}

// UnitLabel renders a reference to u for use inside another statement's text.
func UnitLabel(u Unit) string {
	if u == nil {
		return "#?"
	}
	return fmt.Sprintf("#%d", u.Index())
}
