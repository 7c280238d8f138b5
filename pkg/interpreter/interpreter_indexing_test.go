package interpreter

import (
	"testing"

	"glang/interpreter-go/pkg/ast"
	"glang/interpreter-go/pkg/runtime"
)

func TestListIndexing(t *testing.T) {
	list := ast.List(ast.NumInt(10), ast.NumInt(20), ast.NumInt(30))
	wantNumber(t, evalProgram(t, ast.Index(list, ast.NumInt(0))), "10")
	wantNumber(t, evalProgram(t, ast.Index(list, ast.NumInt(2))), "30")
}

func TestNegativeListIndexing(t *testing.T) {
	list := ast.List(ast.NumInt(10), ast.NumInt(20), ast.NumInt(30))
	wantNumber(t, evalProgram(t, ast.Index(list, ast.Un("-", ast.NumInt(1)))), "30")
	wantNumber(t, evalProgram(t, ast.Index(list, ast.Un("-", ast.NumInt(3)))), "10")
}

func TestListIndexOutOfRange(t *testing.T) {
	list := ast.List(ast.NumInt(1))
	err := evalProgramErr(t, ast.Index(list, ast.NumInt(5)))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
	err = evalProgramErr(t, ast.Index(list, ast.Un("-", ast.NumInt(2))))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
	err = evalProgramErr(t, ast.Index(list, ast.Num("0.5")))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error for fractional index, got %v", err)
	}
}

func TestNamedListIndexing(t *testing.T) {
	list := ast.NamedList([]string{"low", "high"}, ast.NumInt(1), ast.NumInt(9))
	wantNumber(t, evalProgram(t, ast.Index(list, ast.Str("high"))), "9")

	err := evalProgramErr(t, ast.Index(list, ast.Str("HIGH")))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("name lookup is case-sensitive by default, got %v", err)
	}

	// Case folding switches on with the config flag.
	val := evalProgram(t,
		ast.Configure([]*ast.ConfigSetting{ast.Setting("case_sensitive", ast.Bool(false))},
			ast.Index(ast.NamedList([]string{"low", "high"}, ast.NumInt(1), ast.NumInt(9)), ast.Str("HIGH")),
		),
	)
	wantNumber(t, val, "9")
}

func TestHashIndexing(t *testing.T) {
	hash := ast.Hash(ast.Entry("k", ast.NumInt(7)))
	wantNumber(t, evalProgram(t, ast.Index(hash, ast.Str("k"))), "7")

	err := evalProgramErr(t, ast.Index(hash, ast.Str("missing")))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
	err = evalProgramErr(t, ast.Index(hash, ast.NumInt(0)))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("hash keys must be strings, got %v", err)
	}
}

func TestHashIndexingCaseFold(t *testing.T) {
	val := evalProgram(t,
		ast.Configure([]*ast.ConfigSetting{ast.Setting("case_sensitive", ast.Bool(false))},
			ast.Index(ast.Hash(ast.Entry("Key", ast.NumInt(5))), ast.Str("key")),
		),
	)
	wantNumber(t, val, "5")
}

func TestStringIndexing(t *testing.T) {
	wantString(t, evalProgram(t, ast.Index(ast.Str("héllo"), ast.NumInt(1))), "é")
	wantString(t, evalProgram(t, ast.Index(ast.Str("abc"), ast.Un("-", ast.NumInt(1)))), "c")
}

func TestIndexingNonIndexable(t *testing.T) {
	err := evalProgramErr(t, ast.Index(ast.NumInt(5), ast.NumInt(0)))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestListIndexAssignment(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("xs", ast.List(ast.NumInt(1), ast.NumInt(2))),
		ast.IndexSet(ast.ID("xs"), ast.NumInt(1), ast.NumInt(9)),
		ast.Index(ast.ID("xs"), ast.NumInt(1)),
	)
	wantNumber(t, val, "9")
}

func TestListAssignmentNeverExtends(t *testing.T) {
	err := evalProgramErr(t,
		ast.Declare("xs", ast.List(ast.NumInt(1))),
		ast.IndexSet(ast.ID("xs"), ast.NumInt(3), ast.NumInt(9)),
	)
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestListAssignmentHonorsConstraint(t *testing.T) {
	err := evalProgramErr(t,
		ast.Declare("xs", ast.TypedList("number", ast.NumInt(1))),
		ast.IndexSet(ast.ID("xs"), ast.NumInt(0), ast.Str("no")),
	)
	if !runtime.IsKind(err, runtime.ErrTypeConstraint) {
		t.Fatalf("expected type-constraint error, got %v", err)
	}
}

func TestHashIndexAssignmentInsertsAndUpdates(t *testing.T) {
	val := evalProgram(t,
		ast.Declare("h", ast.Hash(ast.Entry("a", ast.NumInt(1)))),
		ast.IndexSet(ast.ID("h"), ast.Str("b"), ast.NumInt(2)),
		ast.IndexSet(ast.ID("h"), ast.Str("a"), ast.NumInt(10)),
		ast.Bin("+",
			ast.Index(ast.ID("h"), ast.Str("a")),
			ast.Index(ast.ID("h"), ast.Str("b")),
		),
	)
	wantNumber(t, val, "12")
}

func TestIndexAssignmentIntoScalarFails(t *testing.T) {
	err := evalProgramErr(t,
		ast.Declare("s", ast.Str("abc")),
		ast.IndexSet(ast.ID("s"), ast.NumInt(0), ast.Str("x")),
	)
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestListSlicing(t *testing.T) {
	list := ast.List(ast.NumInt(0), ast.NumInt(1), ast.NumInt(2), ast.NumInt(3), ast.NumInt(4))

	val := evalProgram(t, ast.Slice(list, ast.NumInt(1), ast.NumInt(3), nil))
	got := wantList(t, val)
	if len(got.Elements) != 2 {
		t.Fatalf("half-open slice should have 2 elements, got %d", len(got.Elements))
	}
	wantNumber(t, got.Elements[0], "1")
	wantNumber(t, got.Elements[1], "2")
}

func TestSliceDefaultsAndClamping(t *testing.T) {
	list := ast.List(ast.NumInt(0), ast.NumInt(1), ast.NumInt(2))

	val := evalProgram(t, ast.Slice(list, nil, nil, nil))
	if got := wantList(t, val); len(got.Elements) != 3 {
		t.Fatalf("full slice should copy the list, got %d elements", len(got.Elements))
	}

	// Oversized bounds clamp instead of failing.
	val = evalProgram(t, ast.Slice(list, ast.NumInt(1), ast.NumInt(100), nil))
	if got := wantList(t, val); len(got.Elements) != 2 {
		t.Fatalf("clamped slice should have 2 elements, got %d", len(got.Elements))
	}
}

func TestSliceNegativeBounds(t *testing.T) {
	list := ast.List(ast.NumInt(0), ast.NumInt(1), ast.NumInt(2), ast.NumInt(3))
	val := evalProgram(t, ast.Slice(list, ast.Un("-", ast.NumInt(2)), nil, nil))
	got := wantList(t, val)
	if len(got.Elements) != 2 {
		t.Fatalf("unexpected slice size %d", len(got.Elements))
	}
	wantNumber(t, got.Elements[0], "2")
}

func TestSliceStep(t *testing.T) {
	list := ast.List(ast.NumInt(0), ast.NumInt(1), ast.NumInt(2), ast.NumInt(3), ast.NumInt(4))
	val := evalProgram(t, ast.Slice(list, nil, nil, ast.NumInt(2)))
	got := wantList(t, val)
	if len(got.Elements) != 3 {
		t.Fatalf("unexpected slice size %d", len(got.Elements))
	}
	wantNumber(t, got.Elements[2], "4")
}

func TestSliceNegativeStepReverses(t *testing.T) {
	list := ast.List(ast.NumInt(0), ast.NumInt(1), ast.NumInt(2))
	val := evalProgram(t, ast.Slice(list, nil, nil, ast.Un("-", ast.NumInt(1))))
	got := wantList(t, val)
	if len(got.Elements) != 3 {
		t.Fatalf("unexpected slice size %d", len(got.Elements))
	}
	wantNumber(t, got.Elements[0], "2")
	wantNumber(t, got.Elements[2], "0")
}

func TestSliceZeroStepRejected(t *testing.T) {
	list := ast.List(ast.NumInt(0))
	err := evalProgramErr(t, ast.Slice(list, nil, nil, ast.NumInt(0)))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestStringSlicing(t *testing.T) {
	wantString(t, evalProgram(t, ast.Slice(ast.Str("hello"), ast.NumInt(1), ast.NumInt(4), nil)), "ell")
	wantString(t, evalProgram(t, ast.Slice(ast.Str("abc"), nil, nil, ast.Un("-", ast.NumInt(1)))), "cba")
}

func TestSlicePreservesConstraint(t *testing.T) {
	val := evalProgram(t, ast.Slice(
		ast.TypedList("number", ast.NumInt(1), ast.NumInt(2)),
		nil, ast.NumInt(1), nil,
	))
	if got := wantList(t, val); got.Constraint != "number" {
		t.Fatalf("slice should carry the constraint, got %q", got.Constraint)
	}
}

func TestSliceNonSliceable(t *testing.T) {
	err := evalProgramErr(t, ast.Slice(ast.NumInt(5), nil, nil, nil))
	if !runtime.IsKind(err, runtime.ErrIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
}
