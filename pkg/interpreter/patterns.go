package interpreter

import (
	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

// matchPattern tests a pattern against a value, recording bindings into
// bindings. Failure leaves no partial bindings visible: the caller only
// installs the bindings environment after a full match.
func (i *Interpreter) matchPattern(pattern ast.Pattern, value runtime.Value, bindings map[string]runtime.Value) (bool, error) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.VariablePattern:
		bindings[p.Name] = value
		return true, nil
	case *ast.LiteralPattern:
		lit, err := i.evalExpression(p.Literal, runtime.NewEnvironment(nil))
		if err != nil {
			return false, err
		}
		return valuesEqual(lit, value), nil
	case *ast.ListPattern:
		return i.matchListPattern(p, value, bindings)
	default:
		return false, runtime.NewError(runtime.ErrFault, pattern.Pos(),
			"unhandled pattern node %s", pattern.NodeType())
	}
}

func (i *Interpreter) matchListPattern(p *ast.ListPattern, value runtime.Value, bindings map[string]runtime.Value) (bool, error) {
	list, ok := value.(*runtime.ListValue)
	if !ok {
		return false, nil
	}
	if p.Rest == "" {
		if len(list.Elements) != len(p.Elements) {
			return false, nil
		}
	} else if len(list.Elements) < len(p.Elements) {
		return false, nil
	}
	for idx, sub := range p.Elements {
		ok, err := i.matchPattern(sub, list.Elements[idx], bindings)
		if err != nil || !ok {
			return false, err
		}
	}
	// "_" discards the remainder; anything else binds it as a new list
	// carrying the subject's constraint.
	if p.Rest != "" && p.Rest != "_" {
		rest, err := runtime.NewListValue(
			append([]runtime.Value(nil), list.Elements[len(p.Elements):]...),
			list.Constraint, nil)
		if err != nil {
			return false, err
		}
		bindings[p.Rest] = rest
	}
	return true, nil
}

// evalMatch implements the match expression: subject evaluated once, arms
// tried strictly in source order, first match wins. Bindings live in a
// child environment so the enclosing scope is untouched after the arm.
// Exhaustion is a MatchError carrying the subject's display form.
func (i *Interpreter) evalMatch(n *ast.MatchExpression, env *runtime.Environment) (runtime.Value, error) {
	subject, err := i.evalExpression(n.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, clause := range n.Clauses {
		bindings := map[string]runtime.Value{}
		ok, err := i.matchPattern(clause.Pattern, subject, bindings)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		armEnv := runtime.NewEnvironment(env)
		for name, val := range bindings {
			armEnv.Define(name, val)
		}
		return i.evalExpression(clause.Body, armEnv)
	}
	return nil, runtime.NewError(runtime.ErrMatch, n.Pos(),
		"no pattern matched %s", runtime.Display(subject))
}

// callPatternArms evaluates an implicit-pattern function body. Unlike the
// match expression, exhaustion yields None rather than an error.
func (i *Interpreter) callPatternArms(fn *runtime.FunctionValue, args []runtime.Value, callEnv *runtime.Environment, pos ast.Position) (runtime.Value, error) {
	subject := patternSubject(fn, args)
	for _, clause := range fn.Decl.Arms {
		bindings := map[string]runtime.Value{}
		ok, err := i.matchPattern(clause.Pattern, subject, bindings)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		armEnv := runtime.NewEnvironment(callEnv)
		for name, val := range bindings {
			armEnv.Define(name, val)
		}
		return i.evalExpression(clause.Body, armEnv)
	}
	return runtime.NoneValue{}, nil
}

// patternSubject is the value the arms match against: the sole argument for
// unary functions, the argument list as a whole otherwise.
func patternSubject(fn *runtime.FunctionValue, args []runtime.Value) runtime.Value {
	if len(args) == 1 {
		return args[0]
	}
	list, err := runtime.NewListValue(append([]runtime.Value(nil), args...), "", nil)
	if err != nil {
		return runtime.NoneValue{}
	}
	return list
}
