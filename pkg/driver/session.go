package driver

import (
	"errors"
	"fmt"

	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/interpreter"
	"glang/interpreter-go/pkg/runtime"
)

// Session is the outer loop around the interpreter: it resolves the
// interpreter's load/import requests through the loader, merges the loaded
// module's declaration subgraph, and resumes evaluation where the request
// was raised.
type Session struct {
	interp  *interpreter.Interpreter
	loader  *Loader
	modules map[string]*moduleNamespace
	loaded  map[string]bool
}

// NewSession wires a session around an interpreter and loader. The session
// installs itself as the interpreter's module resolver.
func NewSession(interp *interpreter.Interpreter, loader *Loader) *Session {
	s := &Session{
		interp:  interp,
		loader:  loader,
		modules: map[string]*moduleNamespace{},
		loaded:  map[string]bool{},
	}
	interp.SetModuleResolver(s)
	return s
}

// Interpreter returns the wrapped interpreter.
func (s *Session) Interpreter() *interpreter.Interpreter { return s.interp }

// GetModule implements interpreter.ModuleResolver.
func (s *Session) GetModule(name string) (interpreter.Module, bool) {
	mod, ok := s.modules[name]
	return mod, ok
}

// RunFile loads and runs a module from disk, resolving any load/import
// requests it raises.
func (s *Session) RunFile(path string) (runtime.Value, error) {
	module, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return s.Run(module)
}

// Run evaluates a module to completion. The declaration subgraph is merged
// before the first statement executes, matching file-load semantics.
func (s *Session) Run(module *ast.Module) (runtime.Value, error) {
	s.interp.ExtractSubgraph(module).Merge(s.interp.CallGraph())
	return s.resumeLoop(module, 0)
}

// Eval evaluates a module fragment (REPL input) without the file-level
// subgraph pre-pass: interactive declarations register as they execute.
func (s *Session) Eval(module *ast.Module) (runtime.Value, error) {
	return s.resumeLoop(module, 0)
}

func (s *Session) resumeLoop(module *ast.Module, start int) (runtime.Value, error) {
	for {
		val, err := s.interp.EvaluateModuleFrom(module, start)
		if err == nil {
			return val, nil
		}
		var req *interpreter.LoadRequest
		if !errors.As(err, &req) {
			return nil, err
		}
		if err := s.handleLoad(req); err != nil {
			return nil, err
		}
		start = req.Resume
	}
}

func (s *Session) handleLoad(req *interpreter.LoadRequest) error {
	full, err := s.loader.Resolve(req.Path)
	if err != nil {
		return err
	}

	if req.IsImport {
		alias := req.Alias
		loaded, err := s.loader.Load(req.Path)
		if err != nil {
			return err
		}
		if alias == "" {
			alias = loaded.Name
		}
		ns, err := s.evaluateNamespace(loaded)
		if err != nil {
			return fmt.Errorf("import %s: %w", req.Path, err)
		}
		s.modules[alias] = ns
		return nil
	}

	// Plain load is idempotent per resolved file.
	if s.loaded[full] {
		return nil
	}
	loaded, err := s.loader.Load(req.Path)
	if err != nil {
		return err
	}
	if _, err := s.Run(loaded); err != nil {
		return fmt.Errorf("load %s: %w", req.Path, err)
	}
	s.loaded[full] = true
	return nil
}

// evaluateNamespace runs an imported module and captures the names it
// introduces: top-level bindings plus declared functions.
func (s *Session) evaluateNamespace(module *ast.Module) (*moduleNamespace, error) {
	global := s.interp.GlobalEnvironment()
	before := map[string]bool{}
	for _, key := range global.Keys() {
		before[key] = true
	}

	sub := s.interp.ExtractSubgraph(module)
	sub.Merge(s.interp.CallGraph())
	if _, err := s.resumeLoop(module, 0); err != nil {
		return nil, err
	}

	ns := &moduleNamespace{name: module.Name, symbols: map[string]runtime.Value{}}
	for _, key := range global.Keys() {
		if before[key] {
			continue
		}
		if val, err := global.Get(key); err == nil {
			ns.symbols[key] = val
		}
	}
	for _, fn := range sub.Functions() {
		ns.symbols[fn.Name] = fn.Fn
	}
	return ns, nil
}

// moduleNamespace implements interpreter.Module over a symbol snapshot.
type moduleNamespace struct {
	name    string
	symbols map[string]runtime.Value
}

func (m *moduleNamespace) GetSymbol(name string) (runtime.Value, bool) {
	val, ok := m.symbols[name]
	return val, ok
}
