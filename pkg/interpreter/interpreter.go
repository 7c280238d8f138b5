package interpreter

import (
	"fmt"

	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

// Interpreter drives evaluation of Glang AST nodes. It owns the global
// environment, the call graph used for function resolution, the layered
// configuration stack, and the behavior registry backing container rules.
type Interpreter struct {
	global    *runtime.Environment
	graph     *runtime.CallGraph
	config    *runtime.ConfigContext
	behaviors *runtime.BehaviorRegistry
	modules   ModuleResolver

	// moduleEnv is the scope of the module declaration currently executing;
	// pendingModuleFns are the functions declared in it, which capture the
	// module environment once the body finishes.
	moduleEnv        *runtime.Environment
	pendingModuleFns []*runtime.FunctionValue

	// precision holds the significant-digit bounds of enclosing precision
	// blocks, innermost last.
	precision []int

	universalMethods map[string]methodFunc
	kindMethods      map[runtime.Kind]map[string]methodFunc
}

// Module is the namespace surface of an externally loaded module.
type Module interface {
	GetSymbol(name string) (runtime.Value, bool)
}

// ModuleResolver is the external module collaborator consulted for
// module-qualified names.
type ModuleResolver interface {
	GetModule(name string) (Module, bool)
}

// New returns an interpreter with an empty global environment and the
// default behavior registry.
func New() *Interpreter {
	return NewWithRegistry(runtime.NewBehaviorRegistry())
}

// NewWithRegistry builds an interpreter around an explicitly constructed
// behavior registry, so callers can run independent instances.
func NewWithRegistry(registry *runtime.BehaviorRegistry) *Interpreter {
	i := &Interpreter{
		global:    runtime.NewEnvironment(nil),
		graph:     runtime.NewCallGraph(),
		config:    runtime.NewConfigContext(),
		behaviors: registry,
	}
	i.universalMethods = universalMethodTable()
	i.kindMethods = kindMethodTables()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment { return i.global }

// CallGraph exposes the function-resolution graph (tooling surface).
func (i *Interpreter) CallGraph() *runtime.CallGraph { return i.graph }

// Config exposes the configuration context.
func (i *Interpreter) Config() *runtime.ConfigContext { return i.config }

// Behaviors exposes the behavior registry.
func (i *Interpreter) Behaviors() *runtime.BehaviorRegistry { return i.behaviors }

// SetModuleResolver installs the external module collaborator.
func (i *Interpreter) SetModuleResolver(resolver ModuleResolver) {
	i.modules = resolver
}

// Reset clears all program state: environment, call graph, configuration.
func (i *Interpreter) Reset() {
	i.global = runtime.NewEnvironment(nil)
	i.graph.Reset()
	i.config = runtime.NewConfigContext()
	i.precision = nil
	i.moduleEnv = nil
	i.pendingModuleFns = nil
}

// RegisterBuiltin installs a native function in the global environment.
// Arity -1 means variadic.
func (i *Interpreter) RegisterBuiltin(name string, arity int, impl runtime.BuiltinFunc) {
	i.global.Define(name, runtime.BuiltinFunctionValue{Name: name, Arity: arity, Impl: impl})
}

//-----------------------------------------------------------------------------
// Control signals
//-----------------------------------------------------------------------------

// ctrl is the explicit control-flow result produced by statement
// evaluation. Callers check the tag instead of unwinding an error stack;
// break/continue resolve at the nearest loop, return at the nearest call.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

type ctrl struct {
	kind  ctrlKind
	value runtime.Value
}

func (c ctrl) String() string {
	switch c.kind {
	case ctrlBreak:
		return "break"
	case ctrlContinue:
		return "continue"
	case ctrlReturn:
		return "return"
	default:
		return "normal"
	}
}

//-----------------------------------------------------------------------------
// Load/import signalling
//-----------------------------------------------------------------------------

// LoadRequest escapes to the outer session loop when a load/import statement
// executes. The session resolves the path, merges the resulting subgraph,
// and resumes at Resume.
type LoadRequest struct {
	Path     string
	Alias    string
	IsImport bool
	Resume   int
	Pos      ast.Position
}

func (l *LoadRequest) Error() string {
	if l.IsImport {
		return fmt.Sprintf("import requested: %s", l.Path)
	}
	return fmt.Sprintf("load requested: %s", l.Path)
}

//-----------------------------------------------------------------------------
// Program entry points
//-----------------------------------------------------------------------------

// EvaluateModule executes a module's statements against the global
// environment and returns the last evaluated value.
func (i *Interpreter) EvaluateModule(module *ast.Module) (runtime.Value, error) {
	return i.EvaluateModuleFrom(module, 0)
}

// EvaluateModuleFrom resumes execution at a statement index; the session
// loop uses it to continue past a load/import request.
func (i *Interpreter) EvaluateModuleFrom(module *ast.Module, start int) (runtime.Value, error) {
	var last runtime.Value = runtime.NoneValue{}
	for idx := start; idx < len(module.Body); idx++ {
		val, c, err := i.evalStatement(module.Body[idx], i.global)
		if err != nil {
			if lr, ok := err.(*LoadRequest); ok {
				lr.Resume = idx + 1
			}
			return nil, err
		}
		if c.kind != ctrlNone {
			// A control signal at top level is an interpreter fault, not a
			// user-facing runtime error.
			return nil, runtime.NewError(runtime.ErrFault, module.Body[idx].Pos(),
				"'%s' escaped to top level", c)
		}
		if val != nil {
			last = val
		}
	}
	return last, nil
}

// LoadModule merges a freshly parsed file into the interpreter the way the
// session loop feeds loaded sources back in: the declaration subgraph is
// extracted and merged before any statement executes, then the module body
// runs.
func (i *Interpreter) LoadModule(module *ast.Module) (runtime.Value, error) {
	sub := i.ExtractSubgraph(module)
	sub.Merge(i.graph)
	return i.EvaluateModule(module)
}

// ExtractSubgraph collects every function declaration in the module,
// including those nested in module declarations, without executing anything.
func (i *Interpreter) ExtractSubgraph(module *ast.Module) *runtime.Subgraph {
	sub := runtime.NewSubgraph()
	collectDeclarations(sub, module.Body, runtime.GlobalScope)
	return sub
}

func collectDeclarations(sub *runtime.Subgraph, body []ast.Statement, scope string) {
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *ast.FunctionDeclaration:
			sub.Add(scope, n.Name.Name, &runtime.FunctionValue{Decl: n, Scope: scope})
		case *ast.ModuleDeclaration:
			if n.Name != nil && n.Body != nil {
				collectDeclarations(sub, n.Body.Body, n.Name.Name)
			}
		}
	}
}

//-----------------------------------------------------------------------------
// Shared helpers
//-----------------------------------------------------------------------------

func isTruthy(val runtime.Value) bool {
	switch v := val.(type) {
	case runtime.BoolValue:
		return v.Val
	case runtime.NoneValue:
		return false
	case nil:
		return false
	default:
		return true
	}
}

// finishNumber applies the active decimal_places and precision-block bounds
// to a scalar arithmetic result.
func (i *Interpreter) finishNumber(n runtime.Number) runtime.Number {
	if len(i.precision) > 0 {
		n = n.RoundSignificant(i.precision[len(i.precision)-1])
	}
	if places, ok := i.config.DecimalPlaces(); ok {
		n = n.Round(places)
	}
	return n
}

// reposition stamps a runtime error with the node position when the error
// was raised without one.
func reposition(err error, pos ast.Position) error {
	if re, ok := err.(*runtime.Error); ok && !re.Pos.Known() && pos.Known() {
		re.Pos = pos
	}
	return err
}
