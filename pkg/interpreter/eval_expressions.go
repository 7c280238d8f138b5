package interpreter

import (
	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evalExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		num, err := runtime.NumberFromString(n.Text)
		if err != nil {
			return nil, runtime.NewError(runtime.ErrFault, n.Pos(), "malformed number literal %q", n.Text)
		}
		return runtime.NumberValue{Val: num}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NoneLiteral:
		return runtime.NoneValue{}, nil
	case *ast.SymbolLiteral:
		return runtime.SymbolValue{Name: n.Name}, nil
	case *ast.Identifier:
		val, err := env.Get(n.Name)
		if err != nil {
			return nil, reposition(err, n.Pos())
		}
		return val, nil
	case *ast.ListLiteral:
		return i.evalListLiteral(n, env)
	case *ast.HashLiteral:
		return i.evalHashLiteral(n, env)
	case *ast.DataNodeLiteral:
		val, err := i.evalExpression(n.Value, env)
		if err != nil {
			return nil, err
		}
		return &runtime.DataNodeValue{Key: n.Key, Val: val}, nil
	case *ast.UnaryExpression:
		return i.evalUnary(n, env)
	case *ast.BinaryExpression:
		return i.evalBinary(n, env)
	case *ast.IndexExpression:
		return i.evalIndex(n, env)
	case *ast.SliceExpression:
		return i.evalSlice(n, env)
	case *ast.MemberAccess:
		return i.evalMemberAccess(n, env)
	case *ast.FunctionCall:
		return i.evalFunctionCall(n, env)
	case *ast.MethodCall:
		return i.evalMethodCall(n, env)
	case *ast.LambdaExpression:
		return &runtime.LambdaValue{Decl: n, Env: env}, nil
	case *ast.MatchExpression:
		return i.evalMatch(n, env)
	case *ast.Assignment:
		return i.evalAssignment(n, env)
	case *ast.IndexAssignment:
		return i.evalIndexAssignment(n, env)
	default:
		return nil, runtime.NewError(runtime.ErrFault, expr.Pos(),
			"unhandled expression node %s", expr.NodeType())
	}
}

func (i *Interpreter) evalListLiteral(n *ast.ListLiteral, env *runtime.Environment) (runtime.Value, error) {
	elements := make([]runtime.Value, len(n.Elements))
	for idx, el := range n.Elements {
		val, err := i.evalExpression(el, env)
		if err != nil {
			return nil, err
		}
		elements[idx] = val
	}
	list, err := runtime.NewListValue(elements, n.Constraint, n.Names)
	if err != nil {
		return nil, reposition(err, n.Pos())
	}
	return list, nil
}

func (i *Interpreter) evalHashLiteral(n *ast.HashLiteral, env *runtime.Environment) (runtime.Value, error) {
	pairs := make([]*runtime.DataNodeValue, len(n.Entries))
	for idx, entry := range n.Entries {
		val, err := i.evalExpression(entry.Value, env)
		if err != nil {
			return nil, err
		}
		pairs[idx] = &runtime.DataNodeValue{Key: entry.Key, Val: val}
	}
	hash, err := runtime.NewHashFromPairs(pairs, n.Constraint)
	if err != nil {
		return nil, reposition(err, n.Pos())
	}
	return hash, nil
}

// evalMemberAccess resolves module-qualified names through the module
// collaborator. Member access is read-only and never assignable.
func (i *Interpreter) evalMemberAccess(n *ast.MemberAccess, env *runtime.Environment) (runtime.Value, error) {
	ident, ok := n.Object.(*ast.Identifier)
	if !ok {
		return nil, runtime.NewError(runtime.ErrArgument, n.Pos(),
			"member access requires a module name on the left of '.'")
	}
	// A local variable of the same name shadows the module namespace; a
	// data node exposes its key and value as members.
	if val, err := env.Get(ident.Name); err == nil {
		if node, ok := val.(*runtime.DataNodeValue); ok {
			switch n.Member {
			case "key":
				return runtime.StringValue{Val: node.Key}, nil
			case "value":
				return node.Val, nil
			}
		}
		return nil, runtime.NewError(runtime.ErrMethodNotFound, n.Pos(),
			"no member '%s' on %s", n.Member, runtime.TypeTag(val))
	}
	if i.modules != nil {
		if mod, ok := i.modules.GetModule(ident.Name); ok {
			if val, ok := mod.GetSymbol(n.Member); ok {
				return val, nil
			}
			return nil, runtime.NewError(runtime.ErrVariableNotFound, n.Pos(),
				"module '%s' has no symbol '%s'", ident.Name, n.Member)
		}
	}
	return nil, runtime.NewError(runtime.ErrVariableNotFound, n.Pos(),
		"unknown module '%s'", ident.Name)
}

//-----------------------------------------------------------------------------
// Calls
//-----------------------------------------------------------------------------

func (i *Interpreter) evalFunctionCall(n *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	args := make([]runtime.Value, len(n.Arguments))
	for idx, arg := range n.Arguments {
		val, err := i.evalExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args[idx] = val
	}

	// Identifier callees resolve through the call graph first; only lambdas
	// and builtins fall back to variable lookup.
	if ident, ok := n.Callee.(*ast.Identifier); ok {
		if fn, ok := i.graph.FindFunction(ident.Name, i.graph.CurrentScope()); ok {
			if fv, ok := fn.(*runtime.FunctionValue); ok {
				return i.callFunction(fv, args, n.Pos())
			}
		}
		if val, err := env.Get(ident.Name); err == nil {
			switch callee := val.(type) {
			case *runtime.LambdaValue:
				return i.callLambda(callee, args, n.Pos())
			case runtime.BuiltinFunctionValue:
				return i.callBuiltin(callee, args, n.Pos())
			}
		}
		return nil, runtime.NewError(runtime.ErrVariableNotFound, n.Pos(),
			"function '%s' is not defined", ident.Name)
	}

	callee, err := i.evalExpression(n.Callee, env)
	if err != nil {
		return nil, err
	}
	return i.callValue(callee, args, n.Pos())
}

// callValue invokes an already-evaluated callable.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(fn, args, pos)
	case *runtime.LambdaValue:
		return i.callLambda(fn, args, pos)
	case runtime.BuiltinFunctionValue:
		return i.callBuiltin(fn, args, pos)
	default:
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"%s is not callable", runtime.TypeTag(callee))
	}
}

func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
	if len(args) != len(fn.Decl.Params) {
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"%s expects %d arguments, got %d", fn.Name(), len(fn.Decl.Params), len(args))
	}

	// The body resolves calls relative to the function's declaring scope,
	// not the caller's.
	scope := fn.Scope
	if scope == "" {
		scope = runtime.GlobalScope
	}
	i.graph.EnterScope(scope)
	defer i.graph.ExitScope()

	// Call frames chain off the global scope; the captured module context,
	// when present, is installed ahead of the parameters so parameters
	// shadow module names.
	callEnv := runtime.NewEnvironment(i.global)
	for name, val := range fn.ModuleContext {
		callEnv.Define(name, val)
	}
	for idx, param := range fn.Decl.Params {
		callEnv.Define(param.Name, args[idx])
	}

	if fn.ImplicitPattern() {
		return i.callPatternArms(fn, args, callEnv, pos)
	}

	val, c, err := i.evalBlock(fn.Decl.Body, callEnv)
	if err != nil {
		return nil, err
	}
	switch c.kind {
	case ctrlReturn:
		return c.value, nil
	case ctrlNone:
		return val, nil
	default:
		return nil, runtime.NewError(runtime.ErrFault, pos,
			"'%s' escaped function %s", c, fn.Name())
	}
}

func (i *Interpreter) callLambda(fn *runtime.LambdaValue, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
	if len(args) != len(fn.Decl.Params) {
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"lambda expects %d arguments, got %d", len(fn.Decl.Params), len(args))
	}
	callEnv := runtime.NewEnvironment(fn.Env)
	for idx, param := range fn.Decl.Params {
		callEnv.Define(param.Name, args[idx])
	}
	return i.evalExpression(fn.Decl.Body, callEnv)
}

func (i *Interpreter) callBuiltin(fn runtime.BuiltinFunctionValue, args []runtime.Value, pos ast.Position) (runtime.Value, error) {
	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"%s expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
	}
	val, err := fn.Impl(args, pos)
	if err != nil {
		return nil, reposition(err, pos)
	}
	return val, nil
}

func (i *Interpreter) evalMethodCall(n *ast.MethodCall, env *runtime.Environment) (runtime.Value, error) {
	recv, err := i.evalExpression(n.Receiver, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, len(n.Arguments))
	for idx, arg := range n.Arguments {
		val, err := i.evalExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args[idx] = val
	}
	if m, ok := i.universalMethods[n.Method]; ok {
		return m(i, recv, args, n.Pos())
	}
	if table, ok := i.kindMethods[recv.Kind()]; ok {
		if m, ok := table[n.Method]; ok {
			return m(i, recv, args, n.Pos())
		}
	}
	return nil, runtime.NewError(runtime.ErrMethodNotFound, n.Pos(),
		"no method '%s' on %s", n.Method, runtime.TypeTag(recv))
}
