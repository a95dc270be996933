package grimp

import (
	"fmt"
	"slices"

	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/jimple"
	"github.com/wippyai/treeir/tree"
)

// translation is the private state of lowering one flat body.
type translation struct {
	src *jimple.Body
	dst *tree.Body
	// links pairs every old statement with its new counterpart.
	links *unitMap
	// branches queues the new statements whose targets still name old ones.
	branches []tree.Stmt
}

func newTranslation(src *jimple.Body) *translation {
	dst := tree.NewBody(src.Method)
	dst.Locals = slices.Clone(src.Locals)
	return &translation{
		src:   src,
		dst:   dst,
		links: newUnitMap(len(src.Stmts)),
	}
}

// translateStmts creates one tree statement per flat statement, in order.
func (t *translation) translateStmts() error {
	for i, s := range t.src.Stmts {
		if s == nil {
			return errors.InvalidStatement(errors.PhaseTranslate, i, "<nil>")
		}
		if s.Index() != i {
			return errors.New(errors.PhaseTranslate, errors.KindInvalidStatement).
				Stmt(i, s.String()).
				Detail("statement index %d does not match its position", s.Index()).
				Build()
		}
		ns, err := translateStmt(i, s)
		if err != nil {
			return err
		}
		t.dst.Add(ns)
		t.links.put(s, ns)
		if ns.Kind().HasTargets() {
			t.branches = append(t.branches, ns)
		}
	}
	return nil
}

// translateStmt builds the tree counterpart of s. Operands are carried over
// unfolded; branch targets keep naming the old statements.
func translateStmt(i int, s jimple.Stmt) (tree.Stmt, error) {
	switch s := s.(type) {
	case *jimple.AssignStmt:
		return &tree.AssignStmt{Left: tree.RawBox(s.Left), Right: tree.RawBox(s.Right)}, nil
	case *jimple.IdentityStmt:
		return &tree.IdentityStmt{Left: tree.RawBox(s.Left), Right: tree.RawBox(s.Right)}, nil
	case *jimple.BreakpointStmt:
		return &tree.BreakpointStmt{}, nil
	case *jimple.InvokeStmt:
		return &tree.InvokeStmt{Call: tree.RawBox(s.Call)}, nil
	case *jimple.EnterMonitorStmt:
		return &tree.EnterMonitorStmt{Op: tree.RawBox(s.Op)}, nil
	case *jimple.ExitMonitorStmt:
		return &tree.ExitMonitorStmt{Op: tree.RawBox(s.Op)}, nil
	case *jimple.GotoStmt:
		return &tree.GotoStmt{Target: s.Target}, nil
	case *jimple.IfStmt:
		return &tree.IfStmt{Cond: tree.RawBox(s.Cond), Target: s.Target}, nil
	case *jimple.LookupSwitchStmt:
		return &tree.LookupSwitchStmt{
			Key:     tree.RawBox(s.Key),
			Values:  slices.Clone(s.Values),
			Targets: oldUnits(s.Targets),
			Default: s.Default,
		}, nil
	case *jimple.TableSwitchStmt:
		return &tree.TableSwitchStmt{
			Key:     tree.RawBox(s.Key),
			Low:     s.Low,
			High:    s.High,
			Targets: oldUnits(s.Targets),
			Default: s.Default,
		}, nil
	case *jimple.NopStmt:
		return &tree.NopStmt{}, nil
	case *jimple.ReturnStmt:
		return &tree.ReturnStmt{Op: tree.RawBox(s.Op)}, nil
	case *jimple.ReturnVoidStmt:
		return &tree.ReturnVoidStmt{}, nil
	case *jimple.ThrowStmt:
		return &tree.ThrowStmt{Op: tree.RawBox(s.Op)}, nil
	}
	err := errors.InvalidStatement(errors.PhaseTranslate, i, s.String())
	err.Detail = fmt.Sprintf("unrecognized statement kind %T", s)
	return nil, err
}

func oldUnits(ss []jimple.Stmt) []ir.Unit {
	out := make([]ir.Unit, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
