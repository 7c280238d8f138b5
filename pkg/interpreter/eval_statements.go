package interpreter

import (
	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evalStatement(stmt ast.Statement, env *runtime.Environment) (runtime.Value, ctrl, error) {
	switch n := stmt.(type) {
	case *ast.Block:
		return i.evalBlock(n, env)
	case *ast.Assignment:
		val, err := i.evalAssignment(n, env)
		return val, ctrl{}, err
	case *ast.IndexAssignment:
		val, err := i.evalIndexAssignment(n, env)
		return val, ctrl{}, err
	case *ast.IfStatement:
		return i.evalIf(n, env)
	case *ast.WhileLoop:
		return i.evalWhile(n, env)
	case *ast.ForInLoop:
		return i.evalForIn(n, env)
	case *ast.BreakStatement:
		return nil, ctrl{kind: ctrlBreak}, nil
	case *ast.ContinueStatement:
		return nil, ctrl{kind: ctrlContinue}, nil
	case *ast.ReturnStatement:
		var val runtime.Value = runtime.NoneValue{}
		if n.Value != nil {
			v, err := i.evalExpression(n.Value, env)
			if err != nil {
				return nil, ctrl{}, err
			}
			val = v
		}
		return nil, ctrl{kind: ctrlReturn, value: val}, nil
	case *ast.FunctionDeclaration:
		i.declareFunction(n)
		return runtime.NoneValue{}, ctrl{}, nil
	case *ast.ConfigureBlock:
		return i.evalConfigure(n, env)
	case *ast.PrecisionBlock:
		return i.evalPrecision(n, env)
	case *ast.ModuleDeclaration:
		val, err := i.evalModuleDeclaration(n)
		return val, ctrl{}, err
	case *ast.AliasDeclaration:
		val, err := i.evalAlias(n)
		return val, ctrl{}, err
	case *ast.LoadStatement:
		return nil, ctrl{}, &LoadRequest{Path: n.Path, Pos: n.Pos()}
	case *ast.ImportStatement:
		return nil, ctrl{}, &LoadRequest{Path: n.Path, Alias: n.Alias, IsImport: true, Pos: n.Pos()}
	case ast.Expression:
		val, err := i.evalExpression(n, env)
		return val, ctrl{}, err
	default:
		return nil, ctrl{}, runtime.NewError(runtime.ErrFault, stmt.Pos(),
			"unhandled statement node %s", stmt.NodeType())
	}
}

// evalBlock runs statements in sequence, stopping at the first control
// signal. Blocks share the enclosing environment; only calls, lambdas, and
// match arms introduce new scopes.
//
// The session loop can only resume evaluation at a top-level statement, so
// a load/import raised inside a block is rejected here rather than
// truncating the rest of the enclosing statement after the resume.
func (i *Interpreter) evalBlock(block *ast.Block, env *runtime.Environment) (runtime.Value, ctrl, error) {
	var last runtime.Value = runtime.NoneValue{}
	for _, stmt := range block.Body {
		val, c, err := i.evalStatement(stmt, env)
		if err != nil {
			if req, ok := err.(*LoadRequest); ok {
				keyword := "load"
				if req.IsImport {
					keyword = "import"
				}
				return nil, ctrl{}, runtime.NewError(runtime.ErrArgument, req.Pos,
					"'%s' is only allowed at the top level of a module", keyword)
			}
			return nil, ctrl{}, err
		}
		if c.kind != ctrlNone {
			return nil, c, nil
		}
		if val != nil {
			last = val
		}
	}
	return last, ctrl{}, nil
}

func (i *Interpreter) evalAssignment(n *ast.Assignment, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evalExpression(n.Value, env)
	if err != nil {
		return nil, err
	}
	if n.Declare {
		env.Define(n.Target.Name, val)
		return val, nil
	}
	if err := env.Assign(n.Target.Name, val); err != nil {
		return nil, reposition(err, n.Pos())
	}
	return val, nil
}

func (i *Interpreter) evalIf(n *ast.IfStatement, env *runtime.Environment) (runtime.Value, ctrl, error) {
	cond, err := i.evalExpression(n.Condition, env)
	if err != nil {
		return nil, ctrl{}, err
	}
	if isTruthy(cond) {
		return i.evalBlock(n.Body, env)
	}
	for _, clause := range n.OrClauses {
		// A nil condition is the final else branch.
		if clause.Condition == nil {
			return i.evalBlock(clause.Body, env)
		}
		cond, err := i.evalExpression(clause.Condition, env)
		if err != nil {
			return nil, ctrl{}, err
		}
		if isTruthy(cond) {
			return i.evalBlock(clause.Body, env)
		}
	}
	return runtime.NoneValue{}, ctrl{}, nil
}

func (i *Interpreter) evalWhile(n *ast.WhileLoop, env *runtime.Environment) (runtime.Value, ctrl, error) {
	var last runtime.Value = runtime.NoneValue{}
	for {
		cond, err := i.evalExpression(n.Condition, env)
		if err != nil {
			return nil, ctrl{}, err
		}
		if !isTruthy(cond) {
			return last, ctrl{}, nil
		}
		val, c, err := i.evalBlock(n.Body, env)
		if err != nil {
			return nil, ctrl{}, err
		}
		switch c.kind {
		case ctrlBreak:
			return last, ctrl{}, nil
		case ctrlReturn:
			return nil, c, nil
		}
		if val != nil {
			last = val
		}
	}
}

func (i *Interpreter) evalForIn(n *ast.ForInLoop, env *runtime.Environment) (runtime.Value, ctrl, error) {
	iterable, err := i.evalExpression(n.Iterable, env)
	if err != nil {
		return nil, ctrl{}, err
	}
	items, err := iterationItems(iterable, n.Iterable.Pos())
	if err != nil {
		return nil, ctrl{}, err
	}
	var last runtime.Value = runtime.NoneValue{}
	for _, item := range items {
		env.Define(n.Variable.Name, item)
		val, c, err := i.evalBlock(n.Body, env)
		if err != nil {
			return nil, ctrl{}, err
		}
		switch c.kind {
		case ctrlBreak:
			return last, ctrl{}, nil
		case ctrlReturn:
			return nil, c, nil
		}
		if val != nil {
			last = val
		}
	}
	return last, ctrl{}, nil
}

func iterationItems(v runtime.Value, pos ast.Position) ([]runtime.Value, error) {
	switch val := v.(type) {
	case *runtime.ListValue:
		items := make([]runtime.Value, len(val.Elements))
		copy(items, val.Elements)
		return items, nil
	case runtime.StringValue:
		runes := []rune(val.Val)
		items := make([]runtime.Value, len(runes))
		for idx, r := range runes {
			items[idx] = runtime.StringValue{Val: string(r)}
		}
		return items, nil
	case *runtime.HashValue:
		keys := val.Keys()
		items := make([]runtime.Value, len(keys))
		for idx, key := range keys {
			items[idx] = runtime.StringValue{Val: key}
		}
		return items, nil
	default:
		return nil, runtime.NewError(runtime.ErrArgument, pos,
			"cannot iterate over %s", runtime.TypeTag(v))
	}
}

// declareFunction registers a declaration in the call graph under the
// current scope. Inside a module declaration the function also captures the
// module environment once the module body finishes.
func (i *Interpreter) declareFunction(n *ast.FunctionDeclaration) {
	scope := i.graph.CurrentScope()
	fn := &runtime.FunctionValue{Decl: n, Scope: scope}
	i.graph.AddFunction(n.Name.Name, fn, scope)
	if i.moduleEnv != nil {
		i.pendingModuleFns = append(i.pendingModuleFns, fn)
	}
}

func (i *Interpreter) evalConfigure(n *ast.ConfigureBlock, env *runtime.Environment) (runtime.Value, ctrl, error) {
	settings := make(map[string]runtime.Value, len(n.Settings))
	for _, s := range n.Settings {
		val, err := i.evalExpression(s.Value, env)
		if err != nil {
			return nil, ctrl{}, err
		}
		settings[s.Name] = val
	}
	if err := i.config.Push(settings, "configure"); err != nil {
		return nil, ctrl{}, reposition(err, n.Pos())
	}
	defer i.config.Pop()
	return i.evalBlock(n.Body, env)
}

func (i *Interpreter) evalPrecision(n *ast.PrecisionBlock, env *runtime.Environment) (runtime.Value, ctrl, error) {
	digitsVal, err := i.evalExpression(n.Digits, env)
	if err != nil {
		return nil, ctrl{}, err
	}
	num, ok := digitsVal.(runtime.NumberValue)
	if !ok {
		return nil, ctrl{}, runtime.NewError(runtime.ErrArgument, n.Pos(),
			"precision bound must be a number, got %s", runtime.TypeTag(digitsVal))
	}
	digits, err := num.Val.Int()
	if err != nil || digits < 1 {
		return nil, ctrl{}, runtime.NewError(runtime.ErrArgument, n.Pos(),
			"precision bound must be a positive integer, got %s", num.Val.String())
	}
	i.precision = append(i.precision, int(digits))
	defer func() { i.precision = i.precision[:len(i.precision)-1] }()
	return i.evalBlock(n.Body, env)
}

// evalModuleDeclaration runs the module body inside its own call-graph scope
// and environment. Functions declared in the body capture a snapshot of the
// module environment, merged into their call scope ahead of parameters.
func (i *Interpreter) evalModuleDeclaration(n *ast.ModuleDeclaration) (runtime.Value, error) {
	i.graph.EnterScope(n.Name.Name)
	defer i.graph.ExitScope()

	prevEnv, prevPending := i.moduleEnv, i.pendingModuleFns
	i.moduleEnv = runtime.NewEnvironment(i.global)
	i.pendingModuleFns = nil
	defer func() {
		i.moduleEnv, i.pendingModuleFns = prevEnv, prevPending
	}()

	val, c, err := i.evalBlock(n.Body, i.moduleEnv)
	if err != nil {
		return nil, err
	}
	if c.kind != ctrlNone {
		return nil, runtime.NewError(runtime.ErrFault, n.Pos(),
			"'%s' escaped module '%s'", c, n.Name.Name)
	}

	context := i.moduleEnv.Snapshot()
	for _, fn := range i.pendingModuleFns {
		fn.ModuleContext = context
	}
	return val, nil
}

// evalAlias registers an existing function under a second name in the
// current scope.
func (i *Interpreter) evalAlias(n *ast.AliasDeclaration) (runtime.Value, error) {
	scope := i.graph.CurrentScope()
	fn, ok := i.graph.FindFunction(n.Target.Name, scope)
	if !ok {
		return nil, runtime.NewError(runtime.ErrVariableNotFound, n.Pos(),
			"cannot alias unknown function '%s'", n.Target.Name)
	}
	i.graph.AddFunction(n.Name.Name, fn, scope)
	return runtime.NoneValue{}, nil
}
