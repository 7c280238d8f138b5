package ast

// Block

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

// Assignment targets a plain variable. Declare distinguishes `x := v` from
// `x = v`.
type Assignment struct {
	nodeImpl
	expressionMarker
	statementMarker

	Target  *Identifier `json:"target"`
	Value   Expression  `json:"value"`
	Declare bool        `json:"declare"`
}

func NewAssignment(target *Identifier, value Expression, declare bool) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value, Declare: declare}
}

// IndexAssignment writes `object[index] = value`.
type IndexAssignment struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
	Value  Expression `json:"value"`
}

func NewIndexAssignment(object, index, value Expression) *IndexAssignment {
	return &IndexAssignment{nodeImpl: newNodeImpl(NodeIndexAssignment), Object: object, Index: index, Value: value}
}

// Control flow

type OrClause struct {
	nodeImpl

	Condition Expression `json:"condition,omitempty"`
	Body      *Block     `json:"body"`
}

func NewOrClause(condition Expression, body *Block) *OrClause {
	return &OrClause{nodeImpl: newNodeImpl(NodeOrClause), Condition: condition, Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Body      *Block      `json:"body"`
	OrClauses []*OrClause `json:"orClauses,omitempty"`
}

func NewIfStatement(condition Expression, body *Block, orClauses []*OrClause) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Body: body, OrClauses: orClauses}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhileLoop(condition Expression, body *Block) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

type ForInLoop struct {
	nodeImpl
	statementMarker

	Variable *Identifier `json:"variable"`
	Iterable Expression  `json:"iterable"`
	Body     *Block      `json:"body"`
}

func NewForInLoop(variable *Identifier, iterable Expression, body *Block) *ForInLoop {
	return &ForInLoop{nodeImpl: newNodeImpl(NodeForInLoop), Variable: variable, Iterable: iterable, Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

// Declarations

// FunctionDeclaration covers both ordinary bodies and implicit-pattern
// bodies. Exactly one of Body and Arms is set: a body of `pattern =>
// expression` lines parses into Arms.
type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	Name   *Identifier    `json:"name"`
	Params []*Identifier  `json:"params"`
	Body   *Block         `json:"body,omitempty"`
	Arms   []*MatchClause `json:"arms,omitempty"`
}

func NewFunctionDeclaration(name *Identifier, params []*Identifier, body *Block, arms []*MatchClause) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Params: params, Body: body, Arms: arms}
}

type ConfigSetting struct {
	nodeImpl

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewConfigSetting(name string, value Expression) *ConfigSetting {
	return &ConfigSetting{nodeImpl: newNodeImpl(NodeConfigSetting), Name: name, Value: value}
}

type ConfigureBlock struct {
	nodeImpl
	statementMarker

	Settings []*ConfigSetting `json:"settings"`
	Body     *Block           `json:"body"`
}

func NewConfigureBlock(settings []*ConfigSetting, body *Block) *ConfigureBlock {
	return &ConfigureBlock{nodeImpl: newNodeImpl(NodeConfigureBlock), Settings: settings, Body: body}
}

type PrecisionBlock struct {
	nodeImpl
	statementMarker

	Digits Expression `json:"digits"`
	Body   *Block     `json:"body"`
}

func NewPrecisionBlock(digits Expression, body *Block) *PrecisionBlock {
	return &PrecisionBlock{nodeImpl: newNodeImpl(NodePrecisionBlock), Digits: digits, Body: body}
}

type ModuleDeclaration struct {
	nodeImpl
	statementMarker

	Name *Identifier `json:"name"`
	Body *Block      `json:"body"`
}

func NewModuleDeclaration(name *Identifier, body *Block) *ModuleDeclaration {
	return &ModuleDeclaration{nodeImpl: newNodeImpl(NodeModuleDeclaration), Name: name, Body: body}
}

type AliasDeclaration struct {
	nodeImpl
	statementMarker

	Name   *Identifier `json:"name"`
	Target *Identifier `json:"target"`
}

func NewAliasDeclaration(name, target *Identifier) *AliasDeclaration {
	return &AliasDeclaration{nodeImpl: newNodeImpl(NodeAliasDeclaration), Name: name, Target: target}
}

type LoadStatement struct {
	nodeImpl
	statementMarker

	Path string `json:"path"`
}

func NewLoadStatement(path string) *LoadStatement {
	return &LoadStatement{nodeImpl: newNodeImpl(NodeLoadStatement), Path: path}
}

type ImportStatement struct {
	nodeImpl
	statementMarker

	Path  string `json:"path"`
	Alias string `json:"alias,omitempty"`
}

func NewImportStatement(path, alias string) *ImportStatement {
	return &ImportStatement{nodeImpl: newNodeImpl(NodeImportStatement), Path: path, Alias: alias}
}

// Module is the root produced for one parsed source file.
type Module struct {
	nodeImpl

	Name string      `json:"name,omitempty"`
	Body []Statement `json:"body"`
}

func NewModule(name string, body []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Name: name, Body: body}
}
