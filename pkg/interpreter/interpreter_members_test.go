package interpreter

import (
	"testing"

	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

type stubModule map[string]runtime.Value

func (m stubModule) GetSymbol(name string) (runtime.Value, bool) {
	val, ok := m[name]
	return val, ok
}

type stubResolver map[string]stubModule

func (r stubResolver) GetModule(name string) (Module, bool) {
	mod, ok := r[name]
	return mod, ok
}

func evalWithResolver(t *testing.T, resolver ModuleResolver, body ...ast.Statement) (runtime.Value, error) {
	t.Helper()
	interp := New()
	interp.SetModuleResolver(resolver)
	return interp.LoadModule(ast.Mod(body...))
}

func TestMemberAccessResolvesModuleSymbol(t *testing.T) {
	resolver := stubResolver{
		"math": {"pi": runtime.NumberValue{Val: runtime.MustNumber("3.25")}},
	}
	val, err := evalWithResolver(t, resolver, ast.Member(ast.ID("math"), "pi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNumber(t, val, "3.25")
}

func TestMemberAccessMissingSymbol(t *testing.T) {
	resolver := stubResolver{"math": {}}
	_, err := evalWithResolver(t, resolver, ast.Member(ast.ID("math"), "tau"))
	if !runtime.IsKind(err, runtime.ErrVariableNotFound) {
		t.Fatalf("expected variable-not-found error, got %v", err)
	}
	if !containsAll(err.Error(), "math", "tau") {
		t.Fatalf("error should name module and symbol, got %q", err)
	}
}

func TestMemberAccessUnknownModule(t *testing.T) {
	_, err := evalWithResolver(t, stubResolver{}, ast.Member(ast.ID("ghost"), "x"))
	if !runtime.IsKind(err, runtime.ErrVariableNotFound) {
		t.Fatalf("expected variable-not-found error, got %v", err)
	}
}

func TestMemberAccessWithoutResolver(t *testing.T) {
	err := evalProgramErr(t, ast.Member(ast.ID("math"), "pi"))
	if !runtime.IsKind(err, runtime.ErrVariableNotFound) {
		t.Fatalf("expected variable-not-found error, got %v", err)
	}
}

func TestLocalVariableShadowsModule(t *testing.T) {
	resolver := stubResolver{
		"node": {"value": runtime.StringValue{Val: "from module"}},
	}
	val, err := evalWithResolver(t, resolver,
		ast.Declare("node", ast.Entry("temp", ast.NumInt(7))),
		ast.Member(ast.ID("node"), "value"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNumber(t, val, "7")
}

func TestDataNodeMembers(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("n", ast.Entry("temp", ast.NumInt(21))),
		ast.Member(ast.ID("n"), "key"),
	)
	wantString(t, val, "temp")
}

func TestMemberAccessOnNonNodeLocal(t *testing.T) {
	err := evalProgramErr(t,
		ast.Declare("x", ast.NumInt(1)),
		ast.Member(ast.ID("x"), "anything"),
	)
	if !runtime.IsKind(err, runtime.ErrMethodNotFound) {
		t.Fatalf("expected member error, got %v", err)
	}
}

func TestMemberAccessRequiresIdentifier(t *testing.T) {
	err := evalProgramErr(t, ast.Member(ast.NumInt(1), "x"))
	if !runtime.IsKind(err, runtime.ErrArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
}

func TestModuleSymbolIsCallable(t *testing.T) {
	resolver := stubResolver{
		"util": {"twice": runtime.BuiltinFunctionValue{
			Name:  "twice",
			Arity: 1,
			Impl: func(args []runtime.Value, _ ast.Position) (runtime.Value, error) {
				n := args[0].(runtime.NumberValue)
				return runtime.NumberValue{Val: n.Val.Mul(runtime.NumberFromInt(2))}, nil
			},
		}},
	}
	val, err := evalWithResolver(t, resolver,
		ast.CallExpr(ast.Member(ast.ID("util"), "twice"), ast.NumInt(21)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNumber(t, val, "42")
}
