package runtime

import (
	"fmt"
	"strings"

	"glang/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindNone
	KindSymbol
	KindList
	KindHash
	KindDataNode
	KindFunction
	KindLambda
	KindBuiltin
	KindForwardFill
	KindBackwardFill
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNone:
		return "none"
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindHash:
		return "hash"
	case KindDataNode:
		return "data_node"
	case KindFunction:
		return "function"
	case KindLambda:
		return "lambda"
	case KindBuiltin:
		return "builtin_function"
	case KindForwardFill:
		return "forward_fill"
	case KindBackwardFill:
		return "backward_fill"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// TypeTag returns the runtime type name used by constraints and errors.
func TypeTag(v Value) string {
	if v == nil {
		return "none"
	}
	return v.Kind().String()
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val Number
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NoneValue struct{}

func (NoneValue) Kind() Kind { return KindNone }

type SymbolValue struct {
	Name string
}

func (v SymbolValue) Kind() Kind { return KindSymbol }

//-----------------------------------------------------------------------------
// Containers
//-----------------------------------------------------------------------------

// ListValue carries its elements plus the attached constraint, optional
// parallel element names, and the rule pipeline applied by apply_rules.
type ListValue struct {
	Elements   []Value
	Constraint string
	Names      []string
	Rules      *Pipeline
	frozen     bool
}

func (v *ListValue) Kind() Kind { return KindList }

// NewListValue validates every initial element against the constraint before
// the list exists; a failure constructs nothing.
func NewListValue(elements []Value, constraint string, names []string) (*ListValue, error) {
	if constraint != "" {
		for idx, el := range elements {
			if err := CheckConstraint(constraint, el); err != nil {
				return nil, NewError(ErrTypeConstraint, ast.Position{},
					"list element %d violates '%s' constraint: got %s", idx, constraint, TypeTag(el))
			}
		}
	}
	if names != nil && len(names) != len(elements) {
		return nil, NewError(ErrArgument, ast.Position{},
			"list names length %d does not match element count %d", len(names), len(elements))
	}
	return &ListValue{Elements: elements, Constraint: constraint, Names: names}, nil
}

// checkMutable guards every mutation entry point.
func (v *ListValue) checkMutable() error {
	if v.frozen {
		return NewError(ErrFrozen, ast.Position{}, "cannot mutate frozen list")
	}
	return nil
}

func (v *ListValue) Append(el Value) error {
	if err := v.checkMutable(); err != nil {
		return err
	}
	if v.Constraint != "" {
		if err := CheckConstraint(v.Constraint, el); err != nil {
			return err
		}
	}
	v.Elements = append(v.Elements, el)
	if v.Names != nil {
		v.Names = append(v.Names, "")
	}
	return nil
}

func (v *ListValue) Set(idx int, el Value) error {
	if err := v.checkMutable(); err != nil {
		return err
	}
	if idx < 0 || idx >= len(v.Elements) {
		return NewError(ErrIndex, ast.Position{}, "list index %d out of range (size %d)", idx, len(v.Elements))
	}
	if v.Constraint != "" {
		if err := CheckConstraint(v.Constraint, el); err != nil {
			return err
		}
	}
	v.Elements[idx] = el
	return nil
}

func (v *ListValue) Insert(idx int, el Value) error {
	if err := v.checkMutable(); err != nil {
		return err
	}
	if idx < 0 || idx > len(v.Elements) {
		return NewError(ErrIndex, ast.Position{}, "list insert index %d out of range (size %d)", idx, len(v.Elements))
	}
	if v.Constraint != "" {
		if err := CheckConstraint(v.Constraint, el); err != nil {
			return err
		}
	}
	v.Elements = append(v.Elements, nil)
	copy(v.Elements[idx+1:], v.Elements[idx:])
	v.Elements[idx] = el
	if v.Names != nil {
		v.Names = append(v.Names, "")
		copy(v.Names[idx+1:], v.Names[idx:])
		v.Names[idx] = ""
	}
	return nil
}

func (v *ListValue) Remove(idx int) (Value, error) {
	if err := v.checkMutable(); err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(v.Elements) {
		return nil, NewError(ErrIndex, ast.Position{}, "list index %d out of range (size %d)", idx, len(v.Elements))
	}
	removed := v.Elements[idx]
	v.Elements = append(v.Elements[:idx], v.Elements[idx+1:]...)
	if v.Names != nil {
		v.Names = append(v.Names[:idx], v.Names[idx+1:]...)
	}
	return removed, nil
}

// IndexOfName resolves a name annotation to an element index.
func (v *ListValue) IndexOfName(name string, caseSensitive bool) (int, bool) {
	for idx, n := range v.Names {
		if n == "" {
			continue
		}
		if n == name || (!caseSensitive && strings.EqualFold(n, name)) {
			return idx, true
		}
	}
	return 0, false
}

// DataNodeValue is a single key/value pair used as hash-insertion unit.
type DataNodeValue struct {
	Key    string
	Val    Value
	frozen bool
}

func (v *DataNodeValue) Kind() Kind { return KindDataNode }

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a declared function. ModuleContext, when non-nil, is the
// captured module scope merged into the call environment before parameters.
// Scope names the call-graph scope the function was declared in; calls made
// from the body resolve relative to it.
type FunctionValue struct {
	Decl          *ast.FunctionDeclaration
	Scope         string
	ModuleContext map[string]Value
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Name() string {
	if v.Decl != nil && v.Decl.Name != nil {
		return v.Decl.Name.Name
	}
	return "<anonymous>"
}

// ImplicitPattern reports whether the body consists of pattern arms.
func (v *FunctionValue) ImplicitPattern() bool {
	return v.Decl != nil && v.Decl.Arms != nil
}

type LambdaValue struct {
	Decl *ast.LambdaExpression
	Env  *Environment
}

func (v *LambdaValue) Kind() Kind { return KindLambda }

// BuiltinFunc is the native function contract: all arguments are evaluated
// left to right before the call; failures carry a message and the call
// position.
type BuiltinFunc func(args []Value, pos ast.Position) (Value, error)

type BuiltinFunctionValue struct {
	Name  string
	Arity int // -1 means variadic
	Impl  BuiltinFunc
}

func (v BuiltinFunctionValue) Kind() Kind { return KindBuiltin }

//-----------------------------------------------------------------------------
// Fill markers
//-----------------------------------------------------------------------------

// Fill markers are transient placeholders resolved by
// ProcessContextualFills; they never survive in a finished container.

type ForwardFillValue struct{}

func (ForwardFillValue) Kind() Kind { return KindForwardFill }

type BackwardFillValue struct{}

func (BackwardFillValue) Kind() Kind { return KindBackwardFill }

//-----------------------------------------------------------------------------
// Constraints
//-----------------------------------------------------------------------------

// CheckConstraint verifies a value's type tag against a container constraint.
func CheckConstraint(constraint string, v Value) error {
	if constraint == "" || TypeTag(v) == constraint {
		return nil
	}
	return NewError(ErrTypeConstraint, ast.Position{},
		"value of type %s violates '%s' constraint", TypeTag(v), constraint)
}

//-----------------------------------------------------------------------------
// Universal capabilities
//-----------------------------------------------------------------------------

// SizeOf returns character count for strings, element count for containers,
// and 1 for atomic values.
func SizeOf(v Value) int {
	switch val := v.(type) {
	case StringValue:
		return len([]rune(val.Val))
	case *ListValue:
		return len(val.Elements)
	case *HashValue:
		return val.Len()
	default:
		return 1
	}
}

// Freeze marks a value immutable, propagating into nested structures.
// Scalars are immutable by construction and are left untouched.
func Freeze(v Value) {
	switch val := v.(type) {
	case *ListValue:
		val.frozen = true
		for _, el := range val.Elements {
			Freeze(el)
		}
	case *HashValue:
		val.frozen = true
		for _, key := range val.keys {
			Freeze(val.entries[key])
		}
	case *DataNodeValue:
		val.frozen = true
		Freeze(val.Val)
	}
}

func IsFrozen(v Value) bool {
	switch val := v.(type) {
	case *ListValue:
		return val.frozen
	case *HashValue:
		return val.frozen
	case *DataNodeValue:
		return val.frozen
	default:
		// Atomic values are immutable.
		return true
	}
}

// ContainsFrozen reports whether the value or anything nested in it carries
// an explicit freeze mark.
func ContainsFrozen(v Value) bool {
	switch val := v.(type) {
	case *ListValue:
		if val.frozen {
			return true
		}
		for _, el := range val.Elements {
			if ContainsFrozen(el) {
				return true
			}
		}
	case *HashValue:
		if val.frozen {
			return true
		}
		for _, key := range val.keys {
			if ContainsFrozen(val.entries[key]) {
				return true
			}
		}
	case *DataNodeValue:
		if val.frozen {
			return true
		}
		return ContainsFrozen(val.Val)
	}
	return false
}

// Display renders the user-facing form of a value.
func Display(v Value) string {
	switch val := v.(type) {
	case NumberValue:
		return val.Val.String()
	case StringValue:
		return val.Val
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case NoneValue:
		return "none"
	case SymbolValue:
		return ":" + val.Name
	case *ListValue:
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			parts[i] = displayQuoted(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *HashValue:
		parts := make([]string, 0, val.Len())
		for _, key := range val.keys {
			parts = append(parts, fmt.Sprintf("%q: %s", key, displayQuoted(val.entries[key])))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *DataNodeValue:
		return fmt.Sprintf("%q: %s", val.Key, displayQuoted(val.Val))
	case *FunctionValue:
		return fmt.Sprintf("<function %s>", val.Name())
	case *LambdaValue:
		return "<lambda>"
	case BuiltinFunctionValue:
		return fmt.Sprintf("<builtin %s>", val.Name)
	case ForwardFillValue:
		return "<forward_fill>"
	case BackwardFillValue:
		return "<backward_fill>"
	case nil:
		return "none"
	default:
		return fmt.Sprintf("<%s>", TypeTag(v))
	}
}

// displayQuoted renders nested values, quoting strings.
func displayQuoted(v Value) string {
	if s, ok := v.(StringValue); ok {
		return fmt.Sprintf("%q", s.Val)
	}
	return Display(v)
}

// Inspect produces an indented structural dump of a value.
func Inspect(v Value) string {
	var b strings.Builder
	inspectInto(&b, v, 0)
	return b.String()
}

func inspectInto(b *strings.Builder, v Value, depth int) {
	indent := strings.Repeat("  ", depth)
	switch val := v.(type) {
	case *ListValue:
		fmt.Fprintf(b, "%slist(size=%d", indent, len(val.Elements))
		if val.Constraint != "" {
			fmt.Fprintf(b, ", constraint=%s", val.Constraint)
		}
		if val.frozen {
			b.WriteString(", frozen")
		}
		b.WriteString(")\n")
		for idx, el := range val.Elements {
			name := ""
			if val.Names != nil && val.Names[idx] != "" {
				name = " " + val.Names[idx]
			}
			fmt.Fprintf(b, "%s  [%d]%s:\n", indent, idx, name)
			inspectInto(b, el, depth+2)
		}
	case *HashValue:
		fmt.Fprintf(b, "%shash(size=%d", indent, val.Len())
		if val.Constraint != "" {
			fmt.Fprintf(b, ", constraint=%s", val.Constraint)
		}
		if val.frozen {
			b.WriteString(", frozen")
		}
		b.WriteString(")\n")
		for _, key := range val.keys {
			fmt.Fprintf(b, "%s  %q:\n", indent, key)
			inspectInto(b, val.entries[key], depth+2)
		}
	case *DataNodeValue:
		fmt.Fprintf(b, "%sdata_node(%q)\n", indent, val.Key)
		inspectInto(b, val.Val, depth+1)
	default:
		fmt.Fprintf(b, "%s%s %s\n", indent, TypeTag(v), displayQuoted(v))
	}
}
