package grimp

import (
	"github.com/wippyai/treeir/errors"
	"github.com/wippyai/treeir/ir"
	"github.com/wippyai/treeir/tree"
)

// foldBoxes turns the flat operand parked in every box of b into an
// expression tree.
func foldBoxes(b *tree.Body) error {
	for i, s := range b.Stmts {
		for _, box := range tree.Boxes(s) {
			if box == nil || box.Raw == nil {
				return errors.New(errors.PhaseFold, errors.KindInternal).
					Stmt(i, s.String()).
					Detail("operand slot carries no flat operand").
					Build()
			}
			e, err := fold(box.Raw)
			if err != nil {
				return withStmt(err, i, s)
			}
			box.Expr, box.Raw = e, nil
		}
	}
	return nil
}

// fold converts a flat operand into an expression tree. Leaves keep the same
// value object; every operator level becomes one node.
func fold(v ir.Value) (tree.Expr, error) {
	switch v := v.(type) {
	case nil:
		return nil, errors.InvalidValue(errors.PhaseFold, v)
	case *ir.Local, *ir.IntConstant, *ir.LongConstant, *ir.FloatConstant,
		*ir.DoubleConstant, *ir.StringConstant, *ir.NullConstant, *ir.ClassConstant,
		*ir.StaticFieldRef, *ir.ParameterRef, *ir.ThisRef, *ir.CaughtExceptionRef:
		return &tree.Leaf{Value: v}, nil
	case *ir.InstanceFieldRef:
		base, err := fold(v.Base)
		if err != nil {
			return nil, err
		}
		return &tree.FieldAccess{Base: base, Field: v.Field}, nil
	case *ir.ArrayRef:
		base, index, err := fold2(v.Base, v.Index)
		if err != nil {
			return nil, err
		}
		return &tree.ArrayAccess{Base: base, Index: index}, nil
	case *ir.BinopExpr:
		x, y, err := fold2(v.X, v.Y)
		if err != nil {
			return nil, err
		}
		return &tree.Binary{Op: v.Op, X: x, Y: y}, nil
	case *ir.UnopExpr:
		x, err := fold(v.X)
		if err != nil {
			return nil, err
		}
		return &tree.Unary{Op: v.Op, X: x}, nil
	case *ir.CastExpr:
		x, err := fold(v.X)
		if err != nil {
			return nil, err
		}
		return &tree.Cast{Type: v.Type, X: x}, nil
	case *ir.InstanceOfExpr:
		x, err := fold(v.X)
		if err != nil {
			return nil, err
		}
		return &tree.InstanceOf{Type: v.Type, X: x}, nil
	case *ir.NewExpr:
		return &tree.New{Type: v.Type}, nil
	case *ir.NewArrayExpr:
		size, err := fold(v.Size)
		if err != nil {
			return nil, err
		}
		return &tree.NewArray{Elem: v.Elem, Size: size}, nil
	case *ir.NewMultiArrayExpr:
		sizes, err := foldAll(v.Sizes)
		if err != nil {
			return nil, err
		}
		return &tree.NewMultiArray{Type: v.Type, Sizes: sizes}, nil
	case *ir.InvokeExpr:
		var base tree.Expr
		if v.Base != nil {
			b, err := fold(v.Base)
			if err != nil {
				return nil, err
			}
			base = b
		}
		args, err := foldAll(v.Args)
		if err != nil {
			return nil, err
		}
		return &tree.Invoke{Kind: v.Kind, Base: base, Method: v.Method, Args: args}, nil
	}
	return nil, errors.InvalidValue(errors.PhaseFold, v)
}

func fold2(a, b ir.Value) (tree.Expr, tree.Expr, error) {
	x, err := fold(a)
	if err != nil {
		return nil, nil, err
	}
	y, err := fold(b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func foldAll(vs []ir.Value) ([]tree.Expr, error) {
	if vs == nil {
		return nil, nil
	}
	out := make([]tree.Expr, len(vs))
	for i, v := range vs {
		e, err := fold(v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// withStmt attaches the failing statement to a structured error.
func withStmt(err error, pos int, s tree.Stmt) error {
	if e, ok := err.(*errors.Error); ok {
		cp := *e
		cp.Index, cp.Stmt = pos, s.String()
		return &cp
	}
	return err
}
