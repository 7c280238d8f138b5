package runtime

import (
	"strings"
	"testing"
)

func namedFn(name string) Value {
	return BuiltinFunctionValue{Name: name, Arity: 0}
}

func TestCallGraphGlobalResolution(t *testing.T) {
	g := NewCallGraph()
	g.AddFunction("helper", namedFn("helper"), GlobalScope)

	fn, ok := g.FindFunction("helper", GlobalScope)
	if !ok {
		t.Fatalf("expected helper to resolve")
	}
	if fn.(BuiltinFunctionValue).Name != "helper" {
		t.Fatalf("unexpected function %#v", fn)
	}
}

func TestCallGraphScopedResolutionPrefersScope(t *testing.T) {
	g := NewCallGraph()
	g.AddFunction("calc", namedFn("global-calc"), GlobalScope)
	g.AddFunction("calc", namedFn("math-calc"), "math")

	fn, ok := g.FindFunction("calc", "math")
	if !ok || fn.(BuiltinFunctionValue).Name != "math-calc" {
		t.Fatalf("scope-local function should win, got %#v", fn)
	}

	fn, ok = g.FindFunction("calc", GlobalScope)
	if !ok || fn.(BuiltinFunctionValue).Name != "global-calc" {
		t.Fatalf("global lookup should see the global function, got %#v", fn)
	}
}

func TestCallGraphScopedFallsBackToGlobal(t *testing.T) {
	g := NewCallGraph()
	g.AddFunction("shared", namedFn("shared"), GlobalScope)

	if _, ok := g.FindFunction("shared", "mod"); !ok {
		t.Fatalf("scoped lookup should fall back to global")
	}
}

func TestCallGraphScopeIsolation(t *testing.T) {
	g := NewCallGraph()
	g.AddFunction("secret", namedFn("secret"), "vault")

	if _, ok := g.FindFunction("secret", "elsewhere"); ok {
		t.Fatalf("functions must not leak across unrelated scopes")
	}
	if _, ok := g.FindFunction("secret", GlobalScope); ok {
		t.Fatalf("scoped functions must not resolve from global")
	}
	if _, ok := g.FindFunction("secret", "vault"); !ok {
		t.Fatalf("function should resolve within its own scope")
	}
}

func TestCallGraphRedeclareReplacesFunction(t *testing.T) {
	g := NewCallGraph()
	g.AddFunction("f", namedFn("first"), GlobalScope)
	g.AddFunction("f", namedFn("second"), GlobalScope)

	if g.Len() != 1 {
		t.Fatalf("redeclaration must reuse the node, got %d nodes", g.Len())
	}
	fn, _ := g.FindFunction("f", GlobalScope)
	if fn.(BuiltinFunctionValue).Name != "second" {
		t.Fatalf("redeclaration should replace the stored value, got %#v", fn)
	}
}

func TestCallGraphScopeStack(t *testing.T) {
	g := NewCallGraph()
	if g.CurrentScope() != GlobalScope {
		t.Fatalf("unexpected initial scope %q", g.CurrentScope())
	}
	g.EnterScope("mod")
	if g.CurrentScope() != "mod" {
		t.Fatalf("unexpected scope %q", g.CurrentScope())
	}
	g.ExitScope()
	if g.CurrentScope() != GlobalScope {
		t.Fatalf("exit should return to global, got %q", g.CurrentScope())
	}
}

func TestCallGraphFindPath(t *testing.T) {
	g := NewCallGraph()
	g.AddFunction("a", namedFn("a"), "m")
	g.AddFunction("b", namedFn("b"), "m")
	g.AddFunction("lonely", namedFn("lonely"), "other")

	path, ok := g.FindPath("m::a", "m::b")
	if !ok {
		t.Fatalf("expected a path between same-scope functions")
	}
	if len(path) != 2 || path[0] != "m::a" || path[1] != "m::b" {
		t.Fatalf("unexpected path %v", path)
	}

	if _, ok := g.FindPath("m::a", "other::lonely"); ok {
		t.Fatalf("no path should exist across disconnected scopes")
	}
}

func TestConnectModuleFunctions(t *testing.T) {
	g := NewCallGraph()
	g.ConnectModuleFunctions("util", []NamedFunction{
		{Name: "one", Fn: namedFn("one")},
		{Name: "two", Fn: namedFn("two")},
	})

	if _, ok := g.FindFunction("one", "util"); !ok {
		t.Fatalf("batch-registered function should resolve in its module scope")
	}
	if g.CurrentScope() != GlobalScope {
		t.Fatalf("batch registration must restore the scope stack, got %q", g.CurrentScope())
	}
	if _, ok := g.FindPath("util::one", "util::two"); !ok {
		t.Fatalf("batch-registered functions should be connected")
	}
}

func TestSubgraphMerge(t *testing.T) {
	sub := NewSubgraph()
	sub.Add(GlobalScope, "main", namedFn("main"))
	sub.Add("util", "helper", namedFn("helper"))

	if sub.Len() != 2 {
		t.Fatalf("unexpected subgraph size %d", sub.Len())
	}

	fns := sub.Functions()
	if len(fns) != 2 || fns[0].Name != "main" || fns[1].Name != "helper" {
		t.Fatalf("unexpected function listing %v", fns)
	}

	g := NewCallGraph()
	sub.Merge(g)
	if _, ok := g.FindFunction("main", GlobalScope); !ok {
		t.Fatalf("merged global function should resolve")
	}
	if _, ok := g.FindFunction("helper", "util"); !ok {
		t.Fatalf("merged scoped function should resolve")
	}
}

func TestCallGraphRenderings(t *testing.T) {
	g := NewCallGraph()
	g.AddFunction("a", namedFn("a"), "m")
	g.AddFunction("b", namedFn("b"), "m")

	dump := g.Dump()
	if !strings.Contains(dump, "m::a") || !strings.Contains(dump, "m::b") {
		t.Fatalf("dump should list qualified names:\n%s", dump)
	}
	dot := g.DOT()
	if !strings.Contains(dot, "graph callgraph") || !strings.Contains(dot, "m::a") {
		t.Fatalf("unexpected DOT output:\n%s", dot)
	}
	mermaid := g.Mermaid()
	if !strings.Contains(mermaid, "graph") || !strings.Contains(mermaid, "m::b") {
		t.Fatalf("unexpected mermaid output:\n%s", mermaid)
	}
}
