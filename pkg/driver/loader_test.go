package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glang/interpreter-go/pkg/ast"
)

const utilModuleJSON = `{
  "type": "Module",
  "name": "",
  "body": [
    {
      "type": "FunctionDeclaration",
      "name": {"type": "Identifier", "name": "triple"},
      "params": [{"type": "Identifier", "name": "n"}],
      "body": {
        "type": "Block",
        "body": [
          {
            "type": "BinaryExpression",
            "operator": "*",
            "left": {"type": "Identifier", "name": "n"},
            "right": {"type": "NumberLiteral", "text": "3"}
          }
        ]
      }
    },
    {
      "type": "Assignment",
      "declare": true,
      "target": {"type": "Identifier", "name": "base"},
      "value": {"type": "NumberLiteral", "text": "10"}
    }
  ]
}`

func TestDecodeModule(t *testing.T) {
	module, err := DecodeModule([]byte(utilModuleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(module.Body) != 2 {
		t.Fatalf("want 2 statements, got %d", len(module.Body))
	}
	fn, ok := module.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("first statement is %T, want function declaration", module.Body[0])
	}
	if fn.Name.Name != "triple" || len(fn.Params) != 1 {
		t.Fatalf("unexpected declaration %#v", fn)
	}
	assign, ok := module.Body[1].(*ast.Assignment)
	if !ok || !assign.Declare {
		t.Fatalf("second statement should be a declaration, got %#v", module.Body[1])
	}
}

func TestDecodeModulePositions(t *testing.T) {
	doc := `{"type":"Module","body":[{"type":"Identifier","name":"x","position":{"line":3,"column":7}}]}`
	module, err := DecodeModule([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := module.Body[0].Pos()
	if pos.Line != 3 || pos.Column != 7 {
		t.Fatalf("unexpected position %+v", pos)
	}
}

func TestDecodeModuleUnknownNodeType(t *testing.T) {
	_, err := DecodeModule([]byte(`{"type":"Module","body":[{"type":"Teleport"}]}`))
	if err == nil || !strings.Contains(err.Error(), "unknown node type") {
		t.Fatalf("expected an unknown-node error, got %v", err)
	}
}

func TestDecodeModuleRejectsNonModuleRoot(t *testing.T) {
	_, err := DecodeModule([]byte(`{"type":"Identifier","name":"x"}`))
	if err == nil || !strings.Contains(err.Error(), "want Module") {
		t.Fatalf("expected a root-type error, got %v", err)
	}
}

func TestResolveAppendsJSONSuffix(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "utils.gl.json")
	if err := os.WriteFile(target, []byte(utilModuleJSON), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loader := NewLoader([]string{dir})

	full, err := loader.Resolve("utils.gl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != target {
		t.Fatalf("want %q, got %q", target, full)
	}

	full, err = loader.Resolve("utils.gl.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != target {
		t.Fatalf("want %q, got %q", target, full)
	}
}

func TestResolveSearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	for _, dir := range []string{first, second} {
		path := filepath.Join(dir, "utils.gl.json")
		if err := os.WriteFile(path, []byte(utilModuleJSON), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	loader := NewLoader([]string{first, second})
	full, err := loader.Resolve("utils.gl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != filepath.Join(first, "utils.gl.json") {
		t.Fatalf("earlier search path should win, got %q", full)
	}
}

func TestResolveMissing(t *testing.T) {
	loader := NewLoader([]string{t.TempDir()})
	if _, err := loader.Resolve("nope.gl"); err == nil {
		t.Fatal("expected an error for an unresolvable path")
	}
}

func TestLoadDerivesModuleName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "utils.gl.json")
	if err := os.WriteFile(path, []byte(utilModuleJSON), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loader := NewLoader([]string{dir})
	module, err := loader.Load("utils.gl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if module.Name != "utils" {
		t.Fatalf("want module name %q, got %q", "utils", module.Name)
	}
}

func TestModuleNameFromPath(t *testing.T) {
	cases := map[string]string{
		"utils.gl.json":     "utils",
		"dir/report.gl":     "report",
		"plain":             "plain",
		"nested/deep/x.gl":  "x",
		"weather.data.json": "weather",
	}
	for path, want := range cases {
		if got := moduleNameFromPath(path); got != want {
			t.Fatalf("moduleNameFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
