package interpreter

import (
	"strings"

	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

type methodFunc func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error)

func checkArity(method string, args []runtime.Value, want int, pos ast.Position) error {
	if len(args) != want {
		return runtime.NewError(runtime.ErrArgument, pos,
			"%s expects %d arguments, got %d", method, want, len(args))
	}
	return nil
}

//-----------------------------------------------------------------------------
// Universal methods
//-----------------------------------------------------------------------------

func universalMethodTable() map[string]methodFunc {
	return map[string]methodFunc{
		"type": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("type", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: runtime.TypeTag(recv)}, nil
		},
		"size": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("size", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.NumberValue{Val: runtime.NumberFromInt(int64(runtime.SizeOf(recv)))}, nil
		},
		"display": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("display", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: runtime.Display(recv)}, nil
		},
		"inspect": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("inspect", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: runtime.Inspect(recv)}, nil
		},
		"freeze": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("freeze", args, 0, pos); err != nil {
				return nil, err
			}
			runtime.Freeze(recv)
			return recv, nil
		},
		"is_frozen": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("is_frozen", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.BoolValue{Val: runtime.IsFrozen(recv)}, nil
		},
		"contains_frozen": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("contains_frozen", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.BoolValue{Val: runtime.ContainsFrozen(recv)}, nil
		},
	}
}

//-----------------------------------------------------------------------------
// Per-kind tables, built once at interpreter construction
//-----------------------------------------------------------------------------

func kindMethodTables() map[runtime.Kind]map[string]methodFunc {
	return map[runtime.Kind]map[string]methodFunc{
		runtime.KindNumber:   numberMethods(),
		runtime.KindString:   stringMethods(),
		runtime.KindList:     listMethods(),
		runtime.KindHash:     hashMethods(),
		runtime.KindDataNode: dataNodeMethods(),
		runtime.KindSymbol: {
			"name": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
				if err := checkArity("name", args, 0, pos); err != nil {
					return nil, err
				}
				return runtime.StringValue{Val: recv.(runtime.SymbolValue).Name}, nil
			},
		},
		runtime.KindFunction: {
			"name": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
				if err := checkArity("name", args, 0, pos); err != nil {
					return nil, err
				}
				return runtime.StringValue{Val: recv.(*runtime.FunctionValue).Name()}, nil
			},
		},
	}
}

func numberMethods() map[string]methodFunc {
	return map[string]methodFunc{
		"abs": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("abs", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.NumberValue{Val: recv.(runtime.NumberValue).Val.Abs()}, nil
		},
		"ceil": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("ceil", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.NumberValue{Val: recv.(runtime.NumberValue).Val.Ceil()}, nil
		},
		"floor": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("floor", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.NumberValue{Val: recv.(runtime.NumberValue).Val.Floor()}, nil
		},
		"sqrt": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("sqrt", args, 0, pos); err != nil {
				return nil, err
			}
			root, err := recv.(runtime.NumberValue).Val.Sqrt()
			if err != nil {
				return nil, reposition(err, pos)
			}
			return runtime.NumberValue{Val: root}, nil
		},
		// round() truncates to an integer, round(n) keeps n decimal places.
		"round": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			places := 0
			if len(args) > 1 {
				return nil, runtime.NewError(runtime.ErrArgument, pos,
					"round expects at most 1 argument, got %d", len(args))
			}
			if len(args) == 1 {
				num, ok := args[0].(runtime.NumberValue)
				if !ok {
					return nil, runtime.NewError(runtime.ErrArgument, pos,
						"round expects a number, got %s", runtime.TypeTag(args[0]))
				}
				raw, err := num.Val.Int()
				if err != nil || raw < 0 {
					return nil, runtime.NewError(runtime.ErrArgument, pos,
						"round expects a non-negative integer, got %s", num.Val.String())
				}
				places = int(raw)
			}
			return runtime.NumberValue{Val: recv.(runtime.NumberValue).Val.Round(places)}, nil
		},
	}
}

func stringMethods() map[string]methodFunc {
	str := func(recv runtime.Value) string { return recv.(runtime.StringValue).Val }
	stringArg := func(method string, args []runtime.Value, at int, pos ast.Position) (string, error) {
		s, ok := args[at].(runtime.StringValue)
		if !ok {
			return "", runtime.NewError(runtime.ErrArgument, pos,
				"%s expects a string, got %s", method, runtime.TypeTag(args[at]))
		}
		return s.Val, nil
	}
	return map[string]methodFunc{
		"uppercase": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("uppercase", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: strings.ToUpper(str(recv))}, nil
		},
		"lowercase": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("lowercase", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: strings.ToLower(str(recv))}, nil
		},
		"trim": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("trim", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: strings.TrimSpace(str(recv))}, nil
		},
		"split": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("split", args, 1, pos); err != nil {
				return nil, err
			}
			sep, err := stringArg("split", args, 0, pos)
			if err != nil {
				return nil, err
			}
			parts := strings.Split(str(recv), sep)
			elements := make([]runtime.Value, len(parts))
			for idx, part := range parts {
				elements[idx] = runtime.StringValue{Val: part}
			}
			return runtime.NewListValue(elements, "string", nil)
		},
		"replace": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("replace", args, 2, pos); err != nil {
				return nil, err
			}
			old, err := stringArg("replace", args, 0, pos)
			if err != nil {
				return nil, err
			}
			repl, err := stringArg("replace", args, 1, pos)
			if err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: strings.ReplaceAll(str(recv), old, repl)}, nil
		},
		"contains": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("contains", args, 1, pos); err != nil {
				return nil, err
			}
			sub, err := stringArg("contains", args, 0, pos)
			if err != nil {
				return nil, err
			}
			return runtime.BoolValue{Val: strings.Contains(str(recv), sub)}, nil
		},
	}
}

func listMethods() map[string]methodFunc {
	table := map[string]methodFunc{
		"append": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("append", args, 1, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			if err := list.Append(args[0]); err != nil {
				return nil, reposition(err, pos)
			}
			return list, nil
		},
		"insert": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("insert", args, 2, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			num, ok := args[0].(runtime.NumberValue)
			if !ok {
				return nil, runtime.NewError(runtime.ErrArgument, pos,
					"insert expects a numeric index, got %s", runtime.TypeTag(args[0]))
			}
			at, err := listIndexInclusive(num.Val, len(list.Elements), pos)
			if err != nil {
				return nil, err
			}
			if err := list.Insert(at, args[1]); err != nil {
				return nil, reposition(err, pos)
			}
			return list, nil
		},
		"remove": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("remove", args, 1, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			num, ok := args[0].(runtime.NumberValue)
			if !ok {
				return nil, runtime.NewError(runtime.ErrArgument, pos,
					"remove expects a numeric index, got %s", runtime.TypeTag(args[0]))
			}
			at, err := listIndex(num.Val, len(list.Elements), pos)
			if err != nil {
				return nil, err
			}
			removed, err := list.Remove(at)
			if err != nil {
				return nil, reposition(err, pos)
			}
			return removed, nil
		},
		"first": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("first", args, 0, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			if len(list.Elements) == 0 {
				return runtime.NoneValue{}, nil
			}
			return list.Elements[0], nil
		},
		"last": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("last", args, 0, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			if len(list.Elements) == 0 {
				return runtime.NoneValue{}, nil
			}
			return list.Elements[len(list.Elements)-1], nil
		},
		"reverse": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("reverse", args, 0, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			elements := make([]runtime.Value, len(list.Elements))
			for idx, el := range list.Elements {
				elements[len(elements)-1-idx] = el
			}
			return runtime.NewListValue(elements, list.Constraint, nil)
		},
		"join": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("join", args, 1, pos); err != nil {
				return nil, err
			}
			sep, ok := args[0].(runtime.StringValue)
			if !ok {
				return nil, runtime.NewError(runtime.ErrArgument, pos,
					"join expects a string separator, got %s", runtime.TypeTag(args[0]))
			}
			list := recv.(*runtime.ListValue)
			parts := make([]string, len(list.Elements))
			for idx, el := range list.Elements {
				parts[idx] = runtime.Display(el)
			}
			return runtime.StringValue{Val: strings.Join(parts, sep.Val)}, nil
		},
		"contains": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("contains", args, 1, pos); err != nil {
				return nil, err
			}
			return membership(args[0], recv, pos)
		},
		"sum": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("sum", args, 0, pos); err != nil {
				return nil, err
			}
			total := runtime.NumberFromInt(0)
			for _, el := range recv.(*runtime.ListValue).Elements {
				num, ok := el.(runtime.NumberValue)
				if !ok {
					return nil, runtime.NewError(runtime.ErrArgument, pos,
						"sum requires numeric elements, got %s", runtime.TypeTag(el))
				}
				total = total.Add(num.Val)
			}
			return runtime.NumberValue{Val: i.finishNumber(total)}, nil
		},
		"map": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("map", args, 1, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			out := make([]runtime.Value, len(list.Elements))
			for idx, el := range list.Elements {
				val, err := i.callValue(args[0], []runtime.Value{el}, pos)
				if err != nil {
					return nil, err
				}
				out[idx] = val
			}
			return runtime.NewListValue(out, "", nil)
		},
		"filter": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("filter", args, 1, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			out := make([]runtime.Value, 0, len(list.Elements))
			for _, el := range list.Elements {
				keep, err := i.callValue(args[0], []runtime.Value{el}, pos)
				if err != nil {
					return nil, err
				}
				if isTruthy(keep) {
					out = append(out, el)
				}
			}
			return runtime.NewListValue(out, list.Constraint, nil)
		},
		"reduce": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("reduce", args, 2, pos); err != nil {
				return nil, err
			}
			acc := args[1]
			for _, el := range recv.(*runtime.ListValue).Elements {
				val, err := i.callValue(args[0], []runtime.Value{acc, el}, pos)
				if err != nil {
					return nil, err
				}
				acc = val
			}
			return acc, nil
		},
		"name_of": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("name_of", args, 1, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			num, ok := args[0].(runtime.NumberValue)
			if !ok {
				return nil, runtime.NewError(runtime.ErrArgument, pos,
					"name_of expects a numeric index, got %s", runtime.TypeTag(args[0]))
			}
			at, err := listIndex(num.Val, len(list.Elements), pos)
			if err != nil {
				return nil, err
			}
			if at >= len(list.Names) || list.Names[at] == "" {
				return runtime.NoneValue{}, nil
			}
			return runtime.StringValue{Val: list.Names[at]}, nil
		},
		"with_rule": withRule,
		"apply_rules": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("apply_rules", args, 0, pos); err != nil {
				return nil, err
			}
			list := recv.(*runtime.ListValue)
			if list.Rules == nil || list.Rules.Len() == 0 {
				return list, nil
			}
			out, err := list.Rules.ApplyToList(list.Elements)
			if err != nil {
				return nil, reposition(err, pos)
			}
			result, err := runtime.NewListValue(out, list.Constraint, list.Names)
			if err != nil {
				return nil, reposition(err, pos)
			}
			result.Rules = list.Rules
			return result, nil
		},
	}
	table["push"] = table["append"]
	return table
}

// listIndexInclusive admits length as a valid position (append point).
func listIndexInclusive(num runtime.Number, length int, pos ast.Position) (int, error) {
	raw, err := num.Int()
	if err != nil {
		return 0, runtime.NewError(runtime.ErrIndex, pos, "index must be an integer, got %s", num.String())
	}
	at := int(raw)
	if at < 0 {
		at += length
	}
	if at < 0 || at > length {
		return 0, runtime.NewError(runtime.ErrIndex, pos, "index %d out of range (size %d)", raw, length)
	}
	return at, nil
}

// withRule appends a registered behavior to a container's rule pipeline.
func withRule(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
	if len(args) < 1 {
		return nil, runtime.NewError(runtime.ErrArgument, pos, "with_rule expects a behavior name")
	}
	name, ok := args[0].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"with_rule expects a behavior name, got %s", runtime.TypeTag(args[0]))
	}
	behavior, ok := i.behaviors.Lookup(name.Val)
	if !ok {
		return nil, runtime.NewError(runtime.ErrArgument, pos, "unknown behavior %q", name.Val)
	}
	switch c := recv.(type) {
	case *runtime.ListValue:
		if c.Rules == nil {
			c.Rules = runtime.NewPipeline()
		}
		c.Rules.Add(behavior, args[1:]...)
	case *runtime.HashValue:
		if c.Rules == nil {
			c.Rules = runtime.NewPipeline()
		}
		c.Rules.Add(behavior, args[1:]...)
	default:
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"rules attach to lists and hashes, not %s", runtime.TypeTag(recv))
	}
	return recv, nil
}

func hashMethods() map[string]methodFunc {
	return map[string]methodFunc{
		"keys": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("keys", args, 0, pos); err != nil {
				return nil, err
			}
			keys := recv.(*runtime.HashValue).Keys()
			elements := make([]runtime.Value, len(keys))
			for idx, key := range keys {
				elements[idx] = runtime.StringValue{Val: key}
			}
			return runtime.NewListValue(elements, "string", nil)
		},
		"values": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("values", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.NewListValue(recv.(*runtime.HashValue).Values(), "", nil)
		},
		"has_key": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("has_key", args, 1, pos); err != nil {
				return nil, err
			}
			key, ok := args[0].(runtime.StringValue)
			if !ok {
				return runtime.BoolValue{Val: false}, nil
			}
			_, found := recv.(*runtime.HashValue).Get(key.Val)
			return runtime.BoolValue{Val: found}, nil
		},
		// get returns the fallback instead of failing on a missing key.
		"get": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if len(args) < 1 || len(args) > 2 {
				return nil, runtime.NewError(runtime.ErrArgument, pos,
					"get expects 1 or 2 arguments, got %d", len(args))
			}
			key, ok := args[0].(runtime.StringValue)
			if !ok {
				return nil, runtime.NewError(runtime.ErrArgument, pos,
					"get expects a string key, got %s", runtime.TypeTag(args[0]))
			}
			if val, found := recv.(*runtime.HashValue).Get(key.Val); found {
				return val, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return runtime.NoneValue{}, nil
		},
		"delete": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("delete", args, 1, pos); err != nil {
				return nil, err
			}
			key, ok := args[0].(runtime.StringValue)
			if !ok {
				return nil, runtime.NewError(runtime.ErrArgument, pos,
					"delete expects a string key, got %s", runtime.TypeTag(args[0]))
			}
			removed, err := recv.(*runtime.HashValue).Delete(key.Val)
			if err != nil {
				return nil, reposition(err, pos)
			}
			return removed, nil
		},
		"with_rule": withRule,
		"apply_rules": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("apply_rules", args, 0, pos); err != nil {
				return nil, err
			}
			hash := recv.(*runtime.HashValue)
			if hash.Rules == nil || hash.Rules.Len() == 0 {
				return hash, nil
			}
			result := runtime.NewHashValue(hash.Constraint)
			result.Rules = hash.Rules
			for _, key := range hash.Keys() {
				val, _ := hash.Get(key)
				out, err := hash.Rules.Apply(val)
				if err != nil {
					return nil, reposition(err, pos)
				}
				if err := result.Set(key, out); err != nil {
					return nil, reposition(err, pos)
				}
			}
			return result, nil
		},
	}
}

func dataNodeMethods() map[string]methodFunc {
	return map[string]methodFunc{
		"key": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("key", args, 0, pos); err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: recv.(*runtime.DataNodeValue).Key}, nil
		},
		"value": func(i *Interpreter, recv runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
			if err := checkArity("value", args, 0, pos); err != nil {
				return nil, err
			}
			return recv.(*runtime.DataNodeValue).Val, nil
		},
	}
}
