package ast

import "strconv"

// Compact constructors used by tests and by tools that assemble programs
// without the parser front end.

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(text string) *NumberLiteral {
	return NewNumberLiteral(text)
}

func NumInt(value int64) *NumberLiteral {
	return NewNumberLiteral(strconv.FormatInt(value, 10))
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func None() *NoneLiteral {
	return NewNoneLiteral()
}

func Sym(name string) *SymbolLiteral {
	return NewSymbolLiteral(name)
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements, "", nil)
}

func TypedList(constraint string, elements ...Expression) *ListLiteral {
	return NewListLiteral(elements, constraint, nil)
}

func NamedList(names []string, elements ...Expression) *ListLiteral {
	return NewListLiteral(elements, "", names)
}

func Entry(key string, value Expression) *DataNodeLiteral {
	return NewDataNodeLiteral(key, value)
}

func Hash(entries ...*DataNodeLiteral) *HashLiteral {
	return NewHashLiteral(entries, "")
}

// Expression helpers.

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

func Slice(object, start, end, step Expression) *SliceExpression {
	return NewSliceExpression(object, start, end, step)
}

func Member(object Expression, member string) *MemberAccess {
	return NewMemberAccess(object, member)
}

func Call(name string, arguments ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), arguments)
}

func CallExpr(callee Expression, arguments ...Expression) *FunctionCall {
	return NewFunctionCall(callee, arguments)
}

func Method(receiver Expression, name string, arguments ...Expression) *MethodCall {
	return NewMethodCall(receiver, name, arguments)
}

func Lambda(params []string, body Expression) *LambdaExpression {
	return NewLambdaExpression(idents(params), body)
}

func Match(subject Expression, clauses ...*MatchClause) *MatchExpression {
	return NewMatchExpression(subject, clauses)
}

func Mc(pattern Pattern, body Expression) *MatchClause {
	return NewMatchClause(pattern, body)
}

// Pattern helpers.

func Wc() *WildcardPattern {
	return NewWildcardPattern()
}

func VarP(name string) *VariablePattern {
	return NewVariablePattern(name)
}

func LitP(literal Expression) *LiteralPattern {
	return NewLiteralPattern(literal)
}

func ListP(elements ...Pattern) *ListPattern {
	return NewListPattern(elements, "")
}

func ListRestP(rest string, elements ...Pattern) *ListPattern {
	return NewListPattern(elements, rest)
}

// Statement helpers.

func Blk(body ...Statement) *Block {
	return NewBlock(body)
}

func Declare(name string, value Expression) *Assignment {
	return NewAssignment(ID(name), value, true)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(ID(name), value, false)
}

func IndexSet(object, index, value Expression) *IndexAssignment {
	return NewIndexAssignment(object, index, value)
}

func If(condition Expression, body *Block, orClauses ...*OrClause) *IfStatement {
	return NewIfStatement(condition, body, orClauses)
}

func Elif(condition Expression, body *Block) *OrClause {
	return NewOrClause(condition, body)
}

func Else(body *Block) *OrClause {
	return NewOrClause(nil, body)
}

func While(condition Expression, body *Block) *WhileLoop {
	return NewWhileLoop(condition, body)
}

func ForIn(variable string, iterable Expression, body *Block) *ForInLoop {
	return NewForInLoop(ID(variable), iterable, body)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func FnDecl(name string, params []string, body ...Statement) *FunctionDeclaration {
	return NewFunctionDeclaration(ID(name), idents(params), NewBlock(body), nil)
}

func PatternFn(name string, params []string, arms ...*MatchClause) *FunctionDeclaration {
	return NewFunctionDeclaration(ID(name), idents(params), nil, arms)
}

func Setting(name string, value Expression) *ConfigSetting {
	return NewConfigSetting(name, value)
}

func Configure(settings []*ConfigSetting, body ...Statement) *ConfigureBlock {
	return NewConfigureBlock(settings, NewBlock(body))
}

func Precision(digits Expression, body ...Statement) *PrecisionBlock {
	return NewPrecisionBlock(digits, NewBlock(body))
}

func ModDecl(name string, body ...Statement) *ModuleDeclaration {
	return NewModuleDeclaration(ID(name), NewBlock(body))
}

func Alias(name, target string) *AliasDeclaration {
	return NewAliasDeclaration(ID(name), ID(target))
}

func Mod(body ...Statement) *Module {
	return NewModule("", body)
}

func idents(names []string) []*Identifier {
	out := make([]*Identifier, len(names))
	for i, name := range names {
		out[i] = ID(name)
	}
	return out
}
