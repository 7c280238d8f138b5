package interpreter

import (
	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evalIndex(n *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evalExpression(n.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evalExpression(n.Index, env)
	if err != nil {
		return nil, err
	}
	return i.indexRead(object, index, n.Pos())
}

func (i *Interpreter) indexRead(object, index runtime.Value, pos ast.Position) (runtime.Value, error) {
	switch obj := object.(type) {
	case *runtime.ListValue:
		switch idx := index.(type) {
		case runtime.NumberValue:
			at, err := listIndex(idx.Val, len(obj.Elements), pos)
			if err != nil {
				return nil, err
			}
			return obj.Elements[at], nil
		case runtime.StringValue:
			// Name indexing: the element whose attached name matches.
			at, ok := obj.IndexOfName(idx.Val, i.config.GetBool("case_sensitive", true))
			if !ok {
				return nil, runtime.NewError(runtime.ErrIndex, pos,
					"list has no element named %q", idx.Val)
			}
			return obj.Elements[at], nil
		default:
			return nil, runtime.NewError(runtime.ErrIndex, pos,
				"list index must be a number or name, got %s", runtime.TypeTag(index))
		}
	case *runtime.HashValue:
		key, ok := index.(runtime.StringValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrIndex, pos,
				"hash key must be a string, got %s", runtime.TypeTag(index))
		}
		var val runtime.Value
		var found bool
		if i.config.GetBool("case_sensitive", true) {
			val, found = obj.Get(key.Val)
		} else {
			val, found = obj.GetFold(key.Val)
		}
		if !found {
			return nil, runtime.NewError(runtime.ErrIndex, pos, "missing hash key %q", key.Val)
		}
		return val, nil
	case runtime.StringValue:
		num, ok := index.(runtime.NumberValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrIndex, pos,
				"string index must be a number, got %s", runtime.TypeTag(index))
		}
		runes := []rune(obj.Val)
		at, err := listIndex(num.Val, len(runes), pos)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: string(runes[at])}, nil
	default:
		return nil, runtime.NewError(runtime.ErrIndex, pos,
			"%s is not indexable", runtime.TypeTag(object))
	}
}

// listIndex validates an integer index against [0, length); negative
// indices count from the end.
func listIndex(num runtime.Number, length int, pos ast.Position) (int, error) {
	raw, err := num.Int()
	if err != nil {
		return 0, runtime.NewError(runtime.ErrIndex, pos, "index must be an integer, got %s", num.String())
	}
	at := int(raw)
	if at < 0 {
		at += length
	}
	if at < 0 || at >= length {
		return 0, runtime.NewError(runtime.ErrIndex, pos, "index %d out of range (size %d)", raw, length)
	}
	return at, nil
}

func (i *Interpreter) evalIndexAssignment(n *ast.IndexAssignment, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evalExpression(n.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evalExpression(n.Index, env)
	if err != nil {
		return nil, err
	}
	value, err := i.evalExpression(n.Value, env)
	if err != nil {
		return nil, err
	}
	switch obj := object.(type) {
	case *runtime.ListValue:
		num, ok := index.(runtime.NumberValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrIndex, n.Pos(),
				"list index must be a number, got %s", runtime.TypeTag(index))
		}
		// Out-of-range writes fail; lists never auto-extend on assignment.
		at, err := listIndex(num.Val, len(obj.Elements), n.Pos())
		if err != nil {
			return nil, err
		}
		if err := obj.Set(at, value); err != nil {
			return nil, reposition(err, n.Pos())
		}
		return value, nil
	case *runtime.HashValue:
		key, ok := index.(runtime.StringValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrIndex, n.Pos(),
				"hash key must be a string, got %s", runtime.TypeTag(index))
		}
		if err := obj.Set(key.Val, value); err != nil {
			return nil, reposition(err, n.Pos())
		}
		return value, nil
	default:
		return nil, runtime.NewError(runtime.ErrIndex, n.Pos(),
			"cannot assign into %s", runtime.TypeTag(object))
	}
}

//-----------------------------------------------------------------------------
// Slicing
//-----------------------------------------------------------------------------

// evalSlice implements half-open slicing with an optional step for lists
// and strings. Bounds clamp; a zero step is rejected.
func (i *Interpreter) evalSlice(n *ast.SliceExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evalExpression(n.Object, env)
	if err != nil {
		return nil, err
	}

	var length int
	switch obj := object.(type) {
	case *runtime.ListValue:
		length = len(obj.Elements)
	case runtime.StringValue:
		length = len([]rune(obj.Val))
	default:
		return nil, runtime.NewError(runtime.ErrIndex, n.Pos(),
			"%s is not sliceable", runtime.TypeTag(object))
	}

	start, end, step, err := i.sliceBounds(n, env, length)
	if err != nil {
		return nil, err
	}

	indices := make([]int, 0)
	if step > 0 {
		for at := start; at < end; at += step {
			indices = append(indices, at)
		}
	} else {
		for at := start; at > end; at += step {
			indices = append(indices, at)
		}
	}

	switch obj := object.(type) {
	case *runtime.ListValue:
		elements := make([]runtime.Value, len(indices))
		for idx, at := range indices {
			elements[idx] = obj.Elements[at]
		}
		return runtime.NewListValue(elements, obj.Constraint, nil)
	case runtime.StringValue:
		runes := []rune(obj.Val)
		out := make([]rune, len(indices))
		for idx, at := range indices {
			out[idx] = runes[at]
		}
		return runtime.StringValue{Val: string(out)}, nil
	}
	return nil, runtime.NewError(runtime.ErrFault, n.Pos(), "unreachable slice target")
}

func (i *Interpreter) sliceBounds(n *ast.SliceExpression, env *runtime.Environment, length int) (start, end, step int, err error) {
	step = 1
	if n.Step != nil {
		step, err = i.sliceOperand(n.Step, env, n.Pos())
		if err != nil {
			return 0, 0, 0, err
		}
		if step == 0 {
			return 0, 0, 0, runtime.NewError(runtime.ErrIndex, n.Pos(), "slice step cannot be zero")
		}
	}

	if step > 0 {
		start, end = 0, length
	} else {
		start, end = length-1, -1
	}
	if n.Start != nil {
		start, err = i.sliceOperand(n.Start, env, n.Pos())
		if err != nil {
			return 0, 0, 0, err
		}
		start = clampSliceIndex(start, length, step)
	}
	if n.End != nil {
		end, err = i.sliceOperand(n.End, env, n.Pos())
		if err != nil {
			return 0, 0, 0, err
		}
		end = clampSliceIndex(end, length, step)
	}
	return start, end, step, nil
}

func (i *Interpreter) sliceOperand(expr ast.Expression, env *runtime.Environment, pos ast.Position) (int, error) {
	val, err := i.evalExpression(expr, env)
	if err != nil {
		return 0, err
	}
	num, ok := val.(runtime.NumberValue)
	if !ok {
		return 0, runtime.NewError(runtime.ErrIndex, pos,
			"slice bound must be a number, got %s", runtime.TypeTag(val))
	}
	raw, err := num.Val.Int()
	if err != nil {
		return 0, runtime.NewError(runtime.ErrIndex, pos,
			"slice bound must be an integer, got %s", num.Val.String())
	}
	return int(raw), nil
}

func clampSliceIndex(at, length, step int) int {
	if at < 0 {
		at += length
	}
	low, high := 0, length
	if step < 0 {
		// Reverse traversal indexes directly, so the inclusive bound is
		// length-1 and the exclusive stop may reach -1.
		low, high = -1, length-1
	}
	if at < low {
		return low
	}
	if at > high {
		return high
	}
	return at
}
