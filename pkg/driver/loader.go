package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"glang/interpreter-go/pkg/ast"
)

// Loader resolves load/import paths against a list of search directories
// and decodes the external parser's JSON output into AST modules.
type Loader struct {
	searchPaths []string
}

// NewLoader builds a loader over the given search directories; relative
// resolution tries them in order.
func NewLoader(searchPaths []string) *Loader {
	cleaned := make([]string, 0, len(searchPaths))
	for _, path := range searchPaths {
		if abs, err := filepath.Abs(path); err == nil {
			cleaned = append(cleaned, abs)
		}
	}
	return &Loader{searchPaths: cleaned}
}

// Resolve maps a load/import path to an on-disk parser-output file. A
// source path like "utils.gl" resolves to "utils.gl.json" (the parser's
// output name); already-JSON paths resolve as-is.
func (l *Loader) Resolve(path string) (string, error) {
	candidates := []string{path}
	if !strings.HasSuffix(path, ".json") {
		candidates = append([]string{path + ".json"}, candidates...)
	}
	roots := l.searchPaths
	if filepath.IsAbs(path) {
		roots = []string{""}
	}
	for _, root := range roots {
		for _, candidate := range candidates {
			full := candidate
			if root != "" {
				full = filepath.Join(root, filepath.FromSlash(candidate))
			}
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				return full, nil
			}
		}
	}
	return "", fmt.Errorf("loader: cannot resolve %q in %v", path, l.searchPaths)
}

// Load resolves and decodes a module.
func (l *Loader) Load(path string) (*ast.Module, error) {
	full, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", full, err)
	}
	module, err := DecodeModule(data)
	if err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", full, err)
	}
	if module.Name == "" {
		module.Name = moduleNameFromPath(path)
	}
	return module, nil
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// DecodeModule parses one parser-output JSON document into a module.
func DecodeModule(data []byte) (*ast.Module, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	node, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	module, ok := node.(*ast.Module)
	if !ok {
		return nil, fmt.Errorf("document root is %T, want Module", node)
	}
	return module, nil
}

func decodePosition(node map[string]any) ast.Position {
	raw, ok := node["position"].(map[string]any)
	if !ok {
		return ast.Position{}
	}
	line, _ := raw["line"].(float64)
	column, _ := raw["column"].(float64)
	return ast.Position{Line: int(line), Column: int(column)}
}

func decodeStatements(raw any) ([]ast.Statement, error) {
	items, _ := raw.([]any)
	stmts := make([]ast.Statement, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid statement entry %T", item)
		}
		node, err := decodeNode(child)
		if err != nil {
			return nil, err
		}
		stmt, ok := node.(ast.Statement)
		if !ok {
			return nil, fmt.Errorf("%s is not a statement", node.NodeType())
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func decodeExpression(raw any) (ast.Expression, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid expression entry %T", raw)
	}
	node, err := decodeNode(child)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("%s is not an expression", node.NodeType())
	}
	return expr, nil
}

func decodeOptionalExpression(raw any) (ast.Expression, error) {
	if raw == nil {
		return nil, nil
	}
	return decodeExpression(raw)
}

func decodeExpressions(raw any) ([]ast.Expression, error) {
	items, _ := raw.([]any)
	exprs := make([]ast.Expression, 0, len(items))
	for _, item := range items {
		expr, err := decodeExpression(item)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeBlock(raw any) (*ast.Block, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid block entry %T", raw)
	}
	node, err := decodeNode(child)
	if err != nil {
		return nil, err
	}
	block, ok := node.(*ast.Block)
	if !ok {
		return nil, fmt.Errorf("%s is not a block", node.NodeType())
	}
	return block, nil
}

func decodeIdentifier(raw any) (*ast.Identifier, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid identifier entry %T", raw)
	}
	node, err := decodeNode(child)
	if err != nil {
		return nil, err
	}
	ident, ok := node.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("%s is not an identifier", node.NodeType())
	}
	return ident, nil
}

func decodeIdentifiers(raw any) ([]*ast.Identifier, error) {
	items, _ := raw.([]any)
	idents := make([]*ast.Identifier, 0, len(items))
	for _, item := range items {
		ident, err := decodeIdentifier(item)
		if err != nil {
			return nil, err
		}
		idents = append(idents, ident)
	}
	return idents, nil
}

func decodePattern(raw any) (ast.Pattern, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid pattern entry %T", raw)
	}
	node, err := decodeNode(child)
	if err != nil {
		return nil, err
	}
	pattern, ok := node.(ast.Pattern)
	if !ok {
		return nil, fmt.Errorf("%s is not a pattern", node.NodeType())
	}
	return pattern, nil
}

func decodeMatchClauses(raw any) ([]*ast.MatchClause, error) {
	items, _ := raw.([]any)
	clauses := make([]*ast.MatchClause, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid match clause entry %T", item)
		}
		pattern, err := decodePattern(child["pattern"])
		if err != nil {
			return nil, err
		}
		body, err := decodeExpression(child["body"])
		if err != nil {
			return nil, err
		}
		clause := ast.NewMatchClause(pattern, body)
		clause.Position = decodePosition(child)
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

func decodeStrings(raw any) []string {
	items, _ := raw.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		out = append(out, s)
	}
	return out
}

func decodeNode(node map[string]any) (ast.Node, error) {
	typ, _ := node["type"].(string)
	pos := decodePosition(node)
	switch ast.NodeType(typ) {
	case ast.NodeModule:
		name, _ := node["name"].(string)
		body, err := decodeStatements(node["body"])
		if err != nil {
			return nil, err
		}
		module := ast.NewModule(name, body)
		module.Position = pos
		return module, nil
	case ast.NodeIdentifier:
		name, _ := node["name"].(string)
		n := ast.NewIdentifier(name)
		n.Position = pos
		return n, nil
	case ast.NodeNumberLiteral:
		text, _ := node["text"].(string)
		n := ast.NewNumberLiteral(text)
		n.Position = pos
		return n, nil
	case ast.NodeStringLiteral:
		val, _ := node["value"].(string)
		n := ast.NewStringLiteral(val)
		n.Position = pos
		return n, nil
	case ast.NodeBooleanLiteral:
		val, _ := node["value"].(bool)
		n := ast.NewBooleanLiteral(val)
		n.Position = pos
		return n, nil
	case ast.NodeNoneLiteral:
		n := ast.NewNoneLiteral()
		n.Position = pos
		return n, nil
	case ast.NodeSymbolLiteral:
		name, _ := node["name"].(string)
		n := ast.NewSymbolLiteral(name)
		n.Position = pos
		return n, nil
	case ast.NodeListLiteral:
		elements, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, err
		}
		constraint, _ := node["constraint"].(string)
		n := ast.NewListLiteral(elements, constraint, decodeStrings(node["names"]))
		n.Position = pos
		return n, nil
	case ast.NodeDataNodeLiteral:
		key, _ := node["key"].(string)
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		n := ast.NewDataNodeLiteral(key, value)
		n.Position = pos
		return n, nil
	case ast.NodeHashLiteral:
		items, _ := node["entries"].([]any)
		entries := make([]*ast.DataNodeLiteral, 0, len(items))
		for _, item := range items {
			child, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid hash entry %T", item)
			}
			decoded, err := decodeNode(child)
			if err != nil {
				return nil, err
			}
			entry, ok := decoded.(*ast.DataNodeLiteral)
			if !ok {
				return nil, fmt.Errorf("%s is not a data node", decoded.NodeType())
			}
			entries = append(entries, entry)
		}
		constraint, _ := node["constraint"].(string)
		n := ast.NewHashLiteral(entries, constraint)
		n.Position = pos
		return n, nil
	case ast.NodeUnaryExpression:
		op, _ := node["operator"].(string)
		operand, err := decodeExpression(node["operand"])
		if err != nil {
			return nil, err
		}
		n := ast.NewUnaryExpression(op, operand)
		n.Position = pos
		return n, nil
	case ast.NodeBinaryExpression:
		op, _ := node["operator"].(string)
		left, err := decodeExpression(node["left"])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node["right"])
		if err != nil {
			return nil, err
		}
		n := ast.NewBinaryExpression(op, left, right)
		n.Position = pos
		return n, nil
	case ast.NodeAssignment:
		target, err := decodeIdentifier(node["target"])
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		declare, _ := node["declare"].(bool)
		n := ast.NewAssignment(target, value, declare)
		n.Position = pos
		return n, nil
	case ast.NodeIndexAssignment:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, err
		}
		index, err := decodeExpression(node["index"])
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		n := ast.NewIndexAssignment(object, index, value)
		n.Position = pos
		return n, nil
	case ast.NodeIndexExpression:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, err
		}
		index, err := decodeExpression(node["index"])
		if err != nil {
			return nil, err
		}
		n := ast.NewIndexExpression(object, index)
		n.Position = pos
		return n, nil
	case ast.NodeSliceExpression:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, err
		}
		start, err := decodeOptionalExpression(node["start"])
		if err != nil {
			return nil, err
		}
		end, err := decodeOptionalExpression(node["end"])
		if err != nil {
			return nil, err
		}
		step, err := decodeOptionalExpression(node["step"])
		if err != nil {
			return nil, err
		}
		n := ast.NewSliceExpression(object, start, end, step)
		n.Position = pos
		return n, nil
	case ast.NodeMemberAccess:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, err
		}
		member, _ := node["member"].(string)
		n := ast.NewMemberAccess(object, member)
		n.Position = pos
		return n, nil
	case ast.NodeFunctionCall:
		callee, err := decodeExpression(node["callee"])
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, err
		}
		n := ast.NewFunctionCall(callee, args)
		n.Position = pos
		return n, nil
	case ast.NodeMethodCall:
		receiver, err := decodeExpression(node["receiver"])
		if err != nil {
			return nil, err
		}
		method, _ := node["method"].(string)
		args, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, err
		}
		n := ast.NewMethodCall(receiver, method, args)
		n.Position = pos
		return n, nil
	case ast.NodeLambdaExpression:
		params, err := decodeIdentifiers(node["params"])
		if err != nil {
			return nil, err
		}
		body, err := decodeExpression(node["body"])
		if err != nil {
			return nil, err
		}
		n := ast.NewLambdaExpression(params, body)
		n.Position = pos
		return n, nil
	case ast.NodeMatchExpression:
		subject, err := decodeExpression(node["subject"])
		if err != nil {
			return nil, err
		}
		clauses, err := decodeMatchClauses(node["clauses"])
		if err != nil {
			return nil, err
		}
		n := ast.NewMatchExpression(subject, clauses)
		n.Position = pos
		return n, nil
	case ast.NodeWildcardPattern:
		n := ast.NewWildcardPattern()
		n.Position = pos
		return n, nil
	case ast.NodeVariablePattern:
		name, _ := node["name"].(string)
		n := ast.NewVariablePattern(name)
		n.Position = pos
		return n, nil
	case ast.NodeLiteralPattern:
		literal, err := decodeExpression(node["literal"])
		if err != nil {
			return nil, err
		}
		n := ast.NewLiteralPattern(literal)
		n.Position = pos
		return n, nil
	case ast.NodeListPattern:
		items, _ := node["elements"].([]any)
		elements := make([]ast.Pattern, 0, len(items))
		for _, item := range items {
			pattern, err := decodePattern(item)
			if err != nil {
				return nil, err
			}
			elements = append(elements, pattern)
		}
		rest, _ := node["rest"].(string)
		n := ast.NewListPattern(elements, rest)
		n.Position = pos
		return n, nil
	case ast.NodeBlock:
		body, err := decodeStatements(node["body"])
		if err != nil {
			return nil, err
		}
		n := ast.NewBlock(body)
		n.Position = pos
		return n, nil
	case ast.NodeIfStatement:
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		items, _ := node["orClauses"].([]any)
		clauses := make([]*ast.OrClause, 0, len(items))
		for _, item := range items {
			child, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid or-clause entry %T", item)
			}
			cond, err := decodeOptionalExpression(child["condition"])
			if err != nil {
				return nil, err
			}
			clauseBody, err := decodeBlock(child["body"])
			if err != nil {
				return nil, err
			}
			clause := ast.NewOrClause(cond, clauseBody)
			clause.Position = decodePosition(child)
			clauses = append(clauses, clause)
		}
		n := ast.NewIfStatement(condition, body, clauses)
		n.Position = pos
		return n, nil
	case ast.NodeWhileLoop:
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		n := ast.NewWhileLoop(condition, body)
		n.Position = pos
		return n, nil
	case ast.NodeForInLoop:
		variable, err := decodeIdentifier(node["variable"])
		if err != nil {
			return nil, err
		}
		iterable, err := decodeExpression(node["iterable"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		n := ast.NewForInLoop(variable, iterable, body)
		n.Position = pos
		return n, nil
	case ast.NodeBreakStatement:
		n := ast.NewBreakStatement()
		n.Position = pos
		return n, nil
	case ast.NodeContinueStatement:
		n := ast.NewContinueStatement()
		n.Position = pos
		return n, nil
	case ast.NodeReturnStatement:
		value, err := decodeOptionalExpression(node["value"])
		if err != nil {
			return nil, err
		}
		n := ast.NewReturnStatement(value)
		n.Position = pos
		return n, nil
	case ast.NodeFunctionDeclaration:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		params, err := decodeIdentifiers(node["params"])
		if err != nil {
			return nil, err
		}
		var body *ast.Block
		if node["body"] != nil {
			body, err = decodeBlock(node["body"])
			if err != nil {
				return nil, err
			}
		}
		var arms []*ast.MatchClause
		if node["arms"] != nil {
			arms, err = decodeMatchClauses(node["arms"])
			if err != nil {
				return nil, err
			}
		}
		n := ast.NewFunctionDeclaration(name, params, body, arms)
		n.Position = pos
		return n, nil
	case ast.NodeConfigureBlock:
		items, _ := node["settings"].([]any)
		settings := make([]*ast.ConfigSetting, 0, len(items))
		for _, item := range items {
			child, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid config setting entry %T", item)
			}
			name, _ := child["name"].(string)
			value, err := decodeExpression(child["value"])
			if err != nil {
				return nil, err
			}
			setting := ast.NewConfigSetting(name, value)
			setting.Position = decodePosition(child)
			settings = append(settings, setting)
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		n := ast.NewConfigureBlock(settings, body)
		n.Position = pos
		return n, nil
	case ast.NodePrecisionBlock:
		digits, err := decodeExpression(node["digits"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		n := ast.NewPrecisionBlock(digits, body)
		n.Position = pos
		return n, nil
	case ast.NodeModuleDeclaration:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		n := ast.NewModuleDeclaration(name, body)
		n.Position = pos
		return n, nil
	case ast.NodeAliasDeclaration:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		target, err := decodeIdentifier(node["target"])
		if err != nil {
			return nil, err
		}
		n := ast.NewAliasDeclaration(name, target)
		n.Position = pos
		return n, nil
	case ast.NodeLoadStatement:
		path, _ := node["path"].(string)
		n := ast.NewLoadStatement(path)
		n.Position = pos
		return n, nil
	case ast.NodeImportStatement:
		path, _ := node["path"].(string)
		alias, _ := node["alias"].(string)
		n := ast.NewImportStatement(path, alias)
		n.Position = pos
		return n, nil
	default:
		return nil, fmt.Errorf("unknown node type %q", typ)
	}
}
