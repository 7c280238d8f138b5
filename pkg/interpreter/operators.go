package interpreter

import (
	"strings"

	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evalUnary(n *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evalExpression(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "-":
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrArgument, n.Pos(),
				"unary '-' requires a number, got %s", runtime.TypeTag(operand))
		}
		return runtime.NumberValue{Val: num.Val.Neg()}, nil
	case "not", "!":
		return runtime.BoolValue{Val: !isTruthy(operand)}, nil
	default:
		return nil, runtime.NewError(runtime.ErrFault, n.Pos(),
			"unknown unary operator %q", n.Operator)
	}
}

func (i *Interpreter) evalBinary(n *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	// and/or short-circuit: the right operand is only evaluated when the
	// left side does not decide the result.
	switch n.Operator {
	case "and", "&&":
		left, err := i.evalExpression(n.Left, env)
		if err != nil {
			return nil, err
		}
		if !isTruthy(left) {
			return left, nil
		}
		return i.evalExpression(n.Right, env)
	case "or", "||":
		left, err := i.evalExpression(n.Left, env)
		if err != nil {
			return nil, err
		}
		if isTruthy(left) {
			return left, nil
		}
		return i.evalExpression(n.Right, env)
	}

	left, err := i.evalExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(n.Right, env)
	if err != nil {
		return nil, err
	}
	return i.applyBinary(n.Operator, left, right, n.Pos())
}

func (i *Interpreter) applyBinary(op string, left, right runtime.Value, pos ast.Position) (runtime.Value, error) {
	switch op {
	case "+", "-", "*", "/", "%", "**":
		return i.applyArithmetic(op, left, right, pos)
	case "+.", "-.", "*.", "/.", "%.":
		return i.applyElementwise(strings.TrimSuffix(op, "."), left, right, pos)
	case "==":
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	case "<", ">", "<=", ">=":
		return compareValues(op, left, right, pos)
	case "in":
		return membership(left, right, pos)
	default:
		return nil, runtime.NewError(runtime.ErrFault, pos, "unknown operator %q", op)
	}
}

//-----------------------------------------------------------------------------
// Arithmetic
//-----------------------------------------------------------------------------

func (i *Interpreter) applyArithmetic(op string, left, right runtime.Value, pos ast.Position) (runtime.Value, error) {
	ln, lok := left.(runtime.NumberValue)
	rn, rok := right.(runtime.NumberValue)
	if lok && rok {
		num, err := i.numericOp(op, ln.Val, rn.Val, pos)
		if err != nil {
			return nil, err
		}
		return num, nil
	}

	// `+` doubles as concatenation on matching string or list pairs.
	if op == "+" {
		if ls, ok := left.(runtime.StringValue); ok {
			if rs, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			}
		}
		if ll, ok := left.(*runtime.ListValue); ok {
			if rl, ok := right.(*runtime.ListValue); ok {
				return concatLists(ll, rl, pos)
			}
		}
	}
	return nil, runtime.NewError(runtime.ErrArgument, pos,
		"'%s' is not defined for %s and %s", op, runtime.TypeTag(left), runtime.TypeTag(right))
}

// numericOp performs one scalar operation, substitutes the configured
// zero-division result, and applies precision and decimal_places rounding.
func (i *Interpreter) numericOp(op string, left, right runtime.Number, pos ast.Position) (runtime.Value, error) {
	var result runtime.Number
	var err error
	switch op {
	case "+":
		result = left.Add(right)
	case "-":
		result = left.Sub(right)
	case "*":
		result = left.Mul(right)
	case "/":
		result, err = left.Div(right)
	case "%":
		result, err = left.Mod(right)
	case "**":
		result, err = left.Pow(right)
	default:
		return nil, runtime.NewError(runtime.ErrFault, pos, "unknown arithmetic operator %q", op)
	}
	if err != nil {
		if runtime.IsKind(err, runtime.ErrZeroDivision) {
			if sub, ok := i.zeroDivisionValue(left); ok {
				return sub, nil
			}
		}
		return nil, reposition(err, pos)
	}
	return runtime.NumberValue{Val: i.finishNumber(result)}, nil
}

// zeroDivisionValue consults the zero_division setting; the substitution is
// the executor's job, the number type always reports the error.
func (i *Interpreter) zeroDivisionValue(dividend runtime.Number) (runtime.Value, bool) {
	switch i.config.GetString("zero_division", runtime.ZeroDivisionError) {
	case runtime.ZeroDivisionInfinity:
		sign := dividend.Sign()
		if sign == 0 {
			sign = 1
		}
		return runtime.NumberValue{Val: runtime.Inf(sign)}, true
	case runtime.ZeroDivisionNone:
		return runtime.NoneValue{}, true
	default:
		return nil, false
	}
}

func concatLists(left, right *runtime.ListValue, pos ast.Position) (runtime.Value, error) {
	elements := make([]runtime.Value, 0, len(left.Elements)+len(right.Elements))
	elements = append(elements, left.Elements...)
	elements = append(elements, right.Elements...)
	constraint := left.Constraint
	if constraint != right.Constraint {
		constraint = ""
	}
	list, err := runtime.NewListValue(elements, constraint, nil)
	if err != nil {
		return nil, reposition(err, pos)
	}
	return list, nil
}

//-----------------------------------------------------------------------------
// Element-wise arithmetic
//-----------------------------------------------------------------------------

// applyElementwise handles the dotted operators: list⊗list requires equal
// lengths, list⊗scalar and scalar⊗list broadcast the scalar.
func (i *Interpreter) applyElementwise(op string, left, right runtime.Value, pos ast.Position) (runtime.Value, error) {
	ll, lIsList := left.(*runtime.ListValue)
	rl, rIsList := right.(*runtime.ListValue)

	switch {
	case lIsList && rIsList:
		if len(ll.Elements) != len(rl.Elements) {
			return nil, runtime.NewError(runtime.ErrArgument, pos,
				"element-wise '%s.' requires equal lengths, got %d and %d",
				op, len(ll.Elements), len(rl.Elements))
		}
		return i.mapPairwise(op, ll.Elements, rl.Elements, pos)
	case lIsList:
		rn, err := numberOperand(right, op, pos)
		if err != nil {
			return nil, err
		}
		return i.mapScalar(op, ll.Elements, rn, false, pos)
	case rIsList:
		ln, err := numberOperand(left, op, pos)
		if err != nil {
			return nil, err
		}
		return i.mapScalar(op, rl.Elements, ln, true, pos)
	default:
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"element-wise '%s.' requires at least one list operand", op)
	}
}

func numberOperand(v runtime.Value, op string, pos ast.Position) (runtime.Number, error) {
	num, ok := v.(runtime.NumberValue)
	if !ok {
		return runtime.Number{}, runtime.NewError(runtime.ErrArgument, pos,
			"element-wise '%s.' requires numbers, got %s", op, runtime.TypeTag(v))
	}
	return num.Val, nil
}

func (i *Interpreter) mapPairwise(op string, left, right []runtime.Value, pos ast.Position) (runtime.Value, error) {
	out := make([]runtime.Value, len(left))
	for idx := range left {
		ln, err := numberOperand(left[idx], op, pos)
		if err != nil {
			return nil, err
		}
		rn, err := numberOperand(right[idx], op, pos)
		if err != nil {
			return nil, err
		}
		val, err := i.numericOp(op, ln, rn, pos)
		if err != nil {
			return nil, err
		}
		out[idx] = val
	}
	list, err := runtime.NewListValue(out, "", nil)
	if err != nil {
		return nil, reposition(err, pos)
	}
	return list, nil
}

// mapScalar broadcasts a scalar across list elements; swapped means the
// scalar was the left operand.
func (i *Interpreter) mapScalar(op string, elements []runtime.Value, scalar runtime.Number, swapped bool, pos ast.Position) (runtime.Value, error) {
	out := make([]runtime.Value, len(elements))
	for idx, el := range elements {
		en, err := numberOperand(el, op, pos)
		if err != nil {
			return nil, err
		}
		var val runtime.Value
		if swapped {
			val, err = i.numericOp(op, scalar, en, pos)
		} else {
			val, err = i.numericOp(op, en, scalar, pos)
		}
		if err != nil {
			return nil, err
		}
		out[idx] = val
	}
	list, err := runtime.NewListValue(out, "", nil)
	if err != nil {
		return nil, reposition(err, pos)
	}
	return list, nil
}

//-----------------------------------------------------------------------------
// Equality, ordering, membership
//-----------------------------------------------------------------------------

// valuesEqual is the single structural equality shared by ==, membership
// tests, and literal patterns. No coercion across types.
func valuesEqual(a, b runtime.Value) bool {
	switch av := a.(type) {
	case runtime.NumberValue:
		bv, ok := b.(runtime.NumberValue)
		return ok && av.Val.Equal(bv.Val)
	case runtime.StringValue:
		bv, ok := b.(runtime.StringValue)
		return ok && av.Val == bv.Val
	case runtime.BoolValue:
		bv, ok := b.(runtime.BoolValue)
		return ok && av.Val == bv.Val
	case runtime.NoneValue:
		_, ok := b.(runtime.NoneValue)
		return ok
	case runtime.SymbolValue:
		bv, ok := b.(runtime.SymbolValue)
		return ok && av.Name == bv.Name
	case *runtime.ListValue:
		bv, ok := b.(*runtime.ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for idx := range av.Elements {
			if !valuesEqual(av.Elements[idx], bv.Elements[idx]) {
				return false
			}
		}
		return true
	case *runtime.HashValue:
		bv, ok := b.(*runtime.HashValue)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, key := range av.Keys() {
			x, _ := av.Get(key)
			y, found := bv.Get(key)
			if !found || !valuesEqual(x, y) {
				return false
			}
		}
		return true
	case *runtime.DataNodeValue:
		bv, ok := b.(*runtime.DataNodeValue)
		return ok && av.Key == bv.Key && valuesEqual(av.Val, bv.Val)
	default:
		return a == b
	}
}

// compareValues orders number/number and string/string pairs only.
func compareValues(op string, left, right runtime.Value, pos ast.Position) (runtime.Value, error) {
	var cmp int
	switch lv := left.(type) {
	case runtime.NumberValue:
		rv, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, orderingError(op, left, right, pos)
		}
		cmp = lv.Val.Cmp(rv.Val)
	case runtime.StringValue:
		rv, ok := right.(runtime.StringValue)
		if !ok {
			return nil, orderingError(op, left, right, pos)
		}
		cmp = strings.Compare(lv.Val, rv.Val)
	default:
		return nil, orderingError(op, left, right, pos)
	}
	var result bool
	switch op {
	case "<":
		result = cmp < 0
	case ">":
		result = cmp > 0
	case "<=":
		result = cmp <= 0
	case ">=":
		result = cmp >= 0
	}
	return runtime.BoolValue{Val: result}, nil
}

func orderingError(op string, left, right runtime.Value, pos ast.Position) error {
	return runtime.NewError(runtime.ErrArgument, pos,
		"'%s' is not defined for %s and %s", op, runtime.TypeTag(left), runtime.TypeTag(right))
}

// membership tests `needle in container` for lists (element equality),
// hashes (key presence), and strings (substring).
func membership(needle, container runtime.Value, pos ast.Position) (runtime.Value, error) {
	switch c := container.(type) {
	case *runtime.ListValue:
		for _, el := range c.Elements {
			if valuesEqual(needle, el) {
				return runtime.BoolValue{Val: true}, nil
			}
		}
		return runtime.BoolValue{Val: false}, nil
	case *runtime.HashValue:
		key, ok := needle.(runtime.StringValue)
		if !ok {
			return runtime.BoolValue{Val: false}, nil
		}
		_, found := c.Get(key.Val)
		return runtime.BoolValue{Val: found}, nil
	case runtime.StringValue:
		sub, ok := needle.(runtime.StringValue)
		if !ok {
			return runtime.BoolValue{Val: false}, nil
		}
		return runtime.BoolValue{Val: strings.Contains(c.Val, sub.Val)}, nil
	default:
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"'in' is not defined for %s", runtime.TypeTag(container))
	}
}
