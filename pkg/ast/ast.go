package ast

type NodeType string

const (
	NodeIdentifier          NodeType = "Identifier"
	NodeNumberLiteral       NodeType = "NumberLiteral"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeNoneLiteral         NodeType = "NoneLiteral"
	NodeSymbolLiteral       NodeType = "SymbolLiteral"
	NodeListLiteral         NodeType = "ListLiteral"
	NodeHashLiteral         NodeType = "HashLiteral"
	NodeDataNodeLiteral     NodeType = "DataNodeLiteral"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeAssignment          NodeType = "Assignment"
	NodeIndexAssignment     NodeType = "IndexAssignment"
	NodeIndexExpression     NodeType = "IndexExpression"
	NodeSliceExpression     NodeType = "SliceExpression"
	NodeFunctionCall        NodeType = "FunctionCall"
	NodeMethodCall          NodeType = "MethodCall"
	NodeMemberAccess        NodeType = "MemberAccess"
	NodeLambdaExpression    NodeType = "LambdaExpression"
	NodeMatchExpression     NodeType = "MatchExpression"
	NodeMatchClause         NodeType = "MatchClause"
	NodeWildcardPattern     NodeType = "WildcardPattern"
	NodeVariablePattern     NodeType = "VariablePattern"
	NodeLiteralPattern      NodeType = "LiteralPattern"
	NodeListPattern         NodeType = "ListPattern"
	NodeBlock               NodeType = "Block"
	NodeIfStatement         NodeType = "IfStatement"
	NodeOrClause            NodeType = "OrClause"
	NodeWhileLoop           NodeType = "WhileLoop"
	NodeForInLoop           NodeType = "ForInLoop"
	NodeBreakStatement      NodeType = "BreakStatement"
	NodeContinueStatement   NodeType = "ContinueStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeConfigureBlock      NodeType = "ConfigureBlock"
	NodeConfigSetting       NodeType = "ConfigSetting"
	NodePrecisionBlock      NodeType = "PrecisionBlock"
	NodeModuleDeclaration   NodeType = "ModuleDeclaration"
	NodeAliasDeclaration    NodeType = "AliasDeclaration"
	NodeLoadStatement       NodeType = "LoadStatement"
	NodeImportStatement     NodeType = "ImportStatement"
	NodeModule              NodeType = "Module"
)

// Position locates a node in its source file for error attribution.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) Known() bool { return p.Line > 0 }

type Node interface {
	NodeType() NodeType
	Pos() Position
	isNode()
}

type nodeImpl struct {
	Type     NodeType `json:"type"`
	Position Position `json:"position,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Pos() Position      { return n.Position }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Pattern interface {
	Node
	patternNode()
}

type patternMarker struct{}

func (patternMarker) patternNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

// NumberLiteral keeps the source text so the runtime can build the number at
// full precision instead of round-tripping through float64.
type NumberLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Text string `json:"text"`
}

func NewNumberLiteral(text string) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Text: text}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NoneLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
}

func NewNoneLiteral() *NoneLiteral {
	return &NoneLiteral{nodeImpl: newNodeImpl(NodeNoneLiteral)}
}

type SymbolLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewSymbolLiteral(name string) *SymbolLiteral {
	return &SymbolLiteral{nodeImpl: newNodeImpl(NodeSymbolLiteral), Name: name}
}

// ListLiteral optionally carries a type constraint and per-element names.
// Names, when present, is parallel to Elements; empty entries mean unnamed.
type ListLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements   []Expression `json:"elements"`
	Constraint string       `json:"constraint,omitempty"`
	Names      []string     `json:"names,omitempty"`
}

func NewListLiteral(elements []Expression, constraint string, names []string) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements, Constraint: constraint, Names: names}
}

type DataNodeLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Key   string     `json:"key"`
	Value Expression `json:"value"`
}

func NewDataNodeLiteral(key string, value Expression) *DataNodeLiteral {
	return &DataNodeLiteral{nodeImpl: newNodeImpl(NodeDataNodeLiteral), Key: key, Value: value}
}

type HashLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Entries    []*DataNodeLiteral `json:"entries"`
	Constraint string             `json:"constraint,omitempty"`
}

func NewHashLiteral(entries []*DataNodeLiteral, constraint string) *HashLiteral {
	return &HashLiteral{nodeImpl: newNodeImpl(NodeHashLiteral), Entries: entries, Constraint: constraint}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// Access

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// SliceExpression is half-open; Start/End/Step may each be nil.
type SliceExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Start  Expression `json:"start,omitempty"`
	End    Expression `json:"end,omitempty"`
	Step   Expression `json:"step,omitempty"`
}

func NewSliceExpression(object, start, end, step Expression) *SliceExpression {
	return &SliceExpression{nodeImpl: newNodeImpl(NodeSliceExpression), Object: object, Start: start, End: end, Step: step}
}

// MemberAccess reads `module.symbol`; it is never assignable.
type MemberAccess struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Member string     `json:"member"`
}

func NewMemberAccess(object Expression, member string) *MemberAccess {
	return &MemberAccess{nodeImpl: newNodeImpl(NodeMemberAccess), Object: object, Member: member}
}

// Calls

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, arguments []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: arguments}
}

type MethodCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Receiver  Expression   `json:"receiver"`
	Method    string       `json:"method"`
	Arguments []Expression `json:"arguments"`
}

func NewMethodCall(receiver Expression, method string, arguments []Expression) *MethodCall {
	return &MethodCall{nodeImpl: newNodeImpl(NodeMethodCall), Receiver: receiver, Method: method, Arguments: arguments}
}

type LambdaExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Params []*Identifier `json:"params"`
	Body   Expression    `json:"body"`
}

func NewLambdaExpression(params []*Identifier, body Expression) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Params: params, Body: body}
}

// Match

type MatchExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Subject Expression     `json:"subject"`
	Clauses []*MatchClause `json:"clauses"`
}

func NewMatchExpression(subject Expression, clauses []*MatchClause) *MatchExpression {
	return &MatchExpression{nodeImpl: newNodeImpl(NodeMatchExpression), Subject: subject, Clauses: clauses}
}

type MatchClause struct {
	nodeImpl

	Pattern Pattern    `json:"pattern"`
	Body    Expression `json:"body"`
}

func NewMatchClause(pattern Pattern, body Expression) *MatchClause {
	return &MatchClause{nodeImpl: newNodeImpl(NodeMatchClause), Pattern: pattern, Body: body}
}

// Patterns

type WildcardPattern struct {
	nodeImpl
	patternMarker
}

func NewWildcardPattern() *WildcardPattern {
	return &WildcardPattern{nodeImpl: newNodeImpl(NodeWildcardPattern)}
}

type VariablePattern struct {
	nodeImpl
	patternMarker

	Name string `json:"name"`
}

func NewVariablePattern(name string) *VariablePattern {
	return &VariablePattern{nodeImpl: newNodeImpl(NodeVariablePattern), Name: name}
}

type LiteralPattern struct {
	nodeImpl
	patternMarker

	Literal Expression `json:"literal"`
}

func NewLiteralPattern(literal Expression) *LiteralPattern {
	return &LiteralPattern{nodeImpl: newNodeImpl(NodeLiteralPattern), Literal: literal}
}

// ListPattern matches fixed arity, or a prefix plus a rest binding when Rest
// is non-empty ("_" discards the remainder).
type ListPattern struct {
	nodeImpl
	patternMarker

	Elements []Pattern `json:"elements"`
	Rest     string    `json:"rest,omitempty"`
}

func NewListPattern(elements []Pattern, rest string) *ListPattern {
	return &ListPattern{nodeImpl: newNodeImpl(NodeListPattern), Elements: elements, Rest: rest}
}
