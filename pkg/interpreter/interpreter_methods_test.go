package interpreter

import (
	"testing"

	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

func TestUniversalMethods(t *testing.T) {
	wantString(t, evalProgram(t, ast.Method(ast.NumInt(1), "type")), "number")
	wantString(t, evalProgram(t, ast.Method(ast.Str("hi"), "type")), "string")
	wantNumber(t, evalProgram(t, ast.Method(ast.Str("héllo"), "size")), "5")
	wantNumber(t, evalProgram(t, ast.Method(ast.List(ast.NumInt(1), ast.NumInt(2)), "size")), "2")
	wantNumber(t, evalProgram(t, ast.Method(ast.NumInt(99), "size")), "1")
	wantString(t, evalProgram(t, ast.Method(ast.List(ast.NumInt(1), ast.Str("a")), "display")), `[1, "a"]`)
}

func TestFreezeMethods(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.NumInt(1))),
		ast.Method(ast.ID("xs"), "freeze"),
		ast.Method(ast.ID("xs"), "is_frozen"),
	)
	wantBool(t, val, true)

	err := evalProgramErr(t,
		ast.Declare("xs", ast.List(ast.NumInt(1))),
		ast.Method(ast.ID("xs"), "freeze"),
		ast.Method(ast.ID("xs"), "append", ast.NumInt(2)),
	)
	if !runtime.IsKind(err, runtime.ErrFrozen) {
		t.Fatalf("expected frozen error, got %v", err)
	}
}

func TestUnknownMethodError(t *testing.T) {
	err := evalProgramErr(t, ast.Method(ast.NumInt(1), "frobnicate"))
	if !runtime.IsKind(err, runtime.ErrMethodNotFound) {
		t.Fatalf("expected method-not-found error, got %v", err)
	}
	msg := err.Error()
	if !containsAll(msg, "frobnicate", "number") {
		t.Fatalf("error should name the method and type, got %q", msg)
	}
}

func containsAll(s string, parts ...string) bool {
	for _, part := range parts {
		found := false
		for i := 0; i+len(part) <= len(s); i++ {
			if s[i:i+len(part)] == part {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestNumberMethods(t *testing.T) {
	wantNumber(t, evalProgram(t, ast.Method(ast.Un("-", ast.Num("3.5")), "abs")), "3.5")
	wantNumber(t, evalProgram(t, ast.Method(ast.Num("1.2"), "ceil")), "2")
	wantNumber(t, evalProgram(t, ast.Method(ast.Num("1.8"), "floor")), "1")
	wantNumber(t, evalProgram(t, ast.Method(ast.NumInt(16), "sqrt")), "4")
	wantNumber(t, evalProgram(t, ast.Method(ast.Num("2.5"), "round")), "3")
	wantNumber(t, evalProgram(t, ast.Method(ast.Num("0.25"), "round", ast.NumInt(1))), "0.3")

	err := evalProgramErr(t, ast.Method(ast.Un("-", ast.NumInt(4)), "sqrt"))
	if !runtime.IsKind(err, runtime.ErrArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
}

func TestStringMethods(t *testing.T) {
	wantString(t, evalProgram(t, ast.Method(ast.Str("hi"), "uppercase")), "HI")
	wantString(t, evalProgram(t, ast.Method(ast.Str("HI"), "lowercase")), "hi")
	wantString(t, evalProgram(t, ast.Method(ast.Str("  x  "), "trim")), "x")
	wantString(t, evalProgram(t, ast.Method(ast.Str("a-b"), "replace", ast.Str("-"), ast.Str("+"))), "a+b")
	wantBool(t, evalProgram(t, ast.Method(ast.Str("hello"), "contains", ast.Str("ell"))), true)

	val := evalProgram(t, ast.Method(ast.Str("a,b,c"), "split", ast.Str(",")))
	list := wantList(t, val)
	if len(list.Elements) != 3 || list.Constraint != "string" {
		t.Fatalf("unexpected split result %#v", list)
	}
	wantString(t, list.Elements[1], "b")
}

func TestListMutatingMethods(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.NumInt(1))),
		ast.Method(ast.ID("xs"), "append", ast.NumInt(2)),
		ast.Method(ast.ID("xs"), "push", ast.NumInt(3)),
		ast.Method(ast.ID("xs"), "insert", ast.NumInt(0), ast.NumInt(0)),
		ast.Method(ast.ID("xs"), "size"),
	)
	wantNumber(t, val, "4")

	val = evalProgram(t,
		ast.Declare("xs", ast.List(ast.NumInt(1), ast.NumInt(2), ast.NumInt(3))),
		ast.Method(ast.ID("xs"), "remove", ast.NumInt(1)),
	)
	wantNumber(t, val, "2")
}

func TestListInsertAtEnd(t *testing.T) {
	// insert admits the one-past-the-end position.
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.NumInt(1))),
		ast.Method(ast.ID("xs"), "insert", ast.NumInt(1), ast.NumInt(2)),
		ast.Method(ast.ID("xs"), "last"),
	)
	wantNumber(t, val, "2")
}

func TestListAccessMethods(t *testing.T) {
	list := ast.List(ast.NumInt(1), ast.NumInt(2), ast.NumInt(3))
	wantNumber(t, evalProgram(t, ast.Method(list, "first")), "1")
	wantNumber(t, evalProgram(t, ast.Method(list, "last")), "3")
	wantNone(t, evalProgram(t, ast.Method(ast.List(), "first")))
	wantNone(t, evalProgram(t, ast.Method(ast.List(), "last")))

	val := evalProgram(t, ast.Method(list, "reverse"))
	reversed := wantList(t, val)
	wantNumber(t, reversed.Elements[0], "3")

	wantString(t, evalProgram(t, ast.Method(list, "join", ast.Str("-"))), "1-2-3")
	wantBool(t, evalProgram(t, ast.Method(list, "contains", ast.NumInt(2))), true)
	wantNumber(t, evalProgram(t, ast.Method(list, "sum")), "6")
}

func TestListSumRequiresNumbers(t *testing.T) {
	err := evalProgramErr(t, ast.Method(ast.List(ast.NumInt(1), ast.Str("x")), "sum"))
	if !runtime.IsKind(err, runtime.ErrArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
}

func TestListNameOf(t *testing.T) {
	list := ast.NamedList([]string{"a", ""}, ast.NumInt(1), ast.NumInt(2))
	wantString(t, evalProgram(t, ast.Method(list, "name_of", ast.NumInt(0))), "a")
	wantNone(t, evalProgram(t, ast.Method(list, "name_of", ast.NumInt(1))))
}

func TestListMapFilterReduce(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("double", ast.Lambda([]string{"n"}, ast.Bin("*", ast.ID("n"), ast.NumInt(2)))),
		ast.Method(ast.List(ast.NumInt(1), ast.NumInt(2)), "map", ast.ID("double")),
	)
	mapped := wantList(t, val)
	wantNumber(t, mapped.Elements[0], "2")
	wantNumber(t, mapped.Elements[1], "4")

	val = evalProgram(t,
		ast.Declare("big", ast.Lambda([]string{"n"}, ast.Bin(">", ast.ID("n"), ast.NumInt(1)))),
		ast.Method(ast.List(ast.NumInt(1), ast.NumInt(2), ast.NumInt(3)), "filter", ast.ID("big")),
	)
	filtered := wantList(t, val)
	if len(filtered.Elements) != 2 {
		t.Fatalf("unexpected filter result %#v", filtered.Elements)
	}

	val = evalProgram(t,
		ast.Declare("add", ast.Lambda([]string{"acc", "n"}, ast.Bin("+", ast.ID("acc"), ast.ID("n")))),
		ast.Method(ast.List(ast.NumInt(1), ast.NumInt(2), ast.NumInt(3)), "reduce", ast.ID("add"), ast.NumInt(10)),
	)
	wantNumber(t, val, "16")
}

func TestHashMethods(t *testing.T) {
	hash := ast.Hash(ast.Entry("a", ast.NumInt(1)), ast.Entry("b", ast.NumInt(2)))

	val := evalProgram(t, ast.Method(hash, "keys"))
	keys := wantList(t, val)
	if len(keys.Elements) != 2 || keys.Constraint != "string" {
		t.Fatalf("unexpected keys %#v", keys)
	}
	wantString(t, keys.Elements[0], "a")

	val = evalProgram(t, ast.Method(hash, "values"))
	values := wantList(t, val)
	wantNumber(t, values.Elements[1], "2")

	wantBool(t, evalProgram(t, ast.Method(hash, "has_key", ast.Str("a"))), true)
	wantBool(t, evalProgram(t, ast.Method(hash, "has_key", ast.Str("z"))), false)

	wantNumber(t, evalProgram(t, ast.Method(hash, "get", ast.Str("a"))), "1")
	wantNone(t, evalProgram(t, ast.Method(hash, "get", ast.Str("z"))))
	wantNumber(t, evalProgram(t, ast.Method(hash, "get", ast.Str("z"), ast.NumInt(9))), "9")
}

func TestHashDeleteMethod(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("h", ast.Hash(ast.Entry("a", ast.NumInt(1)))),
		ast.Method(ast.ID("h"), "delete", ast.Str("a")),
	)
	wantNumber(t, val, "1")

	err := evalProgramErr(t,
		ast.Method(ast.Hash(), "delete", ast.Str("ghost")),
	)
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestDataNodeMethods(t *testing.T) {
	node := ast.Entry("temp", ast.NumInt(21))
	wantString(t, evalProgram(t, ast.Method(node, "key")), "temp")
	wantNumber(t, evalProgram(t, ast.Method(node, "value")), "21")
}

func TestSymbolNameMethod(t *testing.T) {
	wantString(t, evalProgram(t, ast.Method(ast.Sym("ready"), "name")), "ready")
}

func TestWithRuleUnknownBehavior(t *testing.T) {
	err := evalProgramErr(t,
		ast.Method(ast.List(ast.NumInt(1)), "with_rule", ast.Str("no_such_rule")),
	)
	if !runtime.IsKind(err, runtime.ErrArgument) {
		t.Fatalf("expected argument error, got %v", err)
	}
}

func TestWithRuleOnScalarFails(t *testing.T) {
	err := evalProgramErr(t,
		ast.Method(ast.NumInt(1), "with_rule", ast.Str("round")),
	)
	if !runtime.IsKind(err, runtime.ErrMethodNotFound) {
		t.Fatalf("expected method-not-found error, got %v", err)
	}
}

func TestApplyRulesOnList(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.Str("  a "), ast.Str("b  "))),
		ast.Method(ast.ID("xs"), "with_rule", ast.Str("trim")),
		ast.Method(ast.ID("xs"), "with_rule", ast.Str("uppercase")),
		ast.Method(ast.ID("xs"), "apply_rules"),
	)
	out := wantList(t, val)
	wantString(t, out.Elements[0], "A")
	wantString(t, out.Elements[1], "B")
}

func TestApplyRulesLeavesOriginalUntouched(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.Str("a"))),
		ast.Method(ast.ID("xs"), "with_rule", ast.Str("uppercase")),
		ast.Method(ast.ID("xs"), "apply_rules"),
		ast.Index(ast.ID("xs"), ast.NumInt(0)),
	)
	wantString(t, val, "a")
}

func TestApplyRulesForwardFill(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.None(), ast.NumInt(1), ast.None(), ast.None(), ast.NumInt(2), ast.None())),
		ast.Method(ast.ID("xs"), "with_rule", ast.Str("forward_fill")),
		ast.Method(ast.ID("xs"), "apply_rules"),
	)
	out := wantList(t, val)
	wantNone(t, out.Elements[0])
	wantNumber(t, out.Elements[1], "1")
	wantNumber(t, out.Elements[2], "1")
	wantNumber(t, out.Elements[3], "1")
	wantNumber(t, out.Elements[4], "2")
	wantNumber(t, out.Elements[5], "2")
}

func TestApplyRulesBackwardFill(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.None(), ast.NumInt(1), ast.None(), ast.None(), ast.NumInt(2), ast.None())),
		ast.Method(ast.ID("xs"), "with_rule", ast.Str("backward_fill")),
		ast.Method(ast.ID("xs"), "apply_rules"),
	)
	out := wantList(t, val)
	wantNumber(t, out.Elements[0], "1")
	wantNumber(t, out.Elements[1], "1")
	wantNumber(t, out.Elements[2], "2")
	wantNumber(t, out.Elements[3], "2")
	wantNumber(t, out.Elements[4], "2")
	wantNone(t, out.Elements[5])
}

func TestApplyRulesWithArgs(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.Num("1.25"), ast.Num("2.75"))),
		ast.Method(ast.ID("xs"), "with_rule", ast.Str("clamp"), ast.NumInt(0), ast.NumInt(2)),
		ast.Method(ast.ID("xs"), "apply_rules"),
	)
	out := wantList(t, val)
	wantNumber(t, out.Elements[0], "1.25")
	wantNumber(t, out.Elements[1], "2")
}

func TestApplyRulesOnHash(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("h", ast.Hash(ast.Entry("name", ast.Str("  ada ")))),
		ast.Method(ast.ID("h"), "with_rule", ast.Str("trim")),
		ast.Index(ast.Method(ast.ID("h"), "apply_rules"), ast.Str("name")),
	)
	wantString(t, val, "ada")
}

func TestApplyRulesWithoutRulesIsIdentity(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.NumInt(1))),
		ast.Method(ast.ID("xs"), "apply_rules"),
	)
	out := wantList(t, val)
	wantNumber(t, out.Elements[0], "1")
}
