// Package parser turns a token stream into an AuroraLang AST via recursive
// descent with Pratt-style precedence climbing for expressions.
package parser

import (
	"github.com/aurorascript/aurora/pkg/aurora/ast"
	aerrors "github.com/aurorascript/aurora/pkg/aurora/errors"
	"github.com/aurorascript/aurora/pkg/aurora/lexer"
)

// Precedence levels, lowest to highest, per the grammar's operator table.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT
	LOGIC_OR
	LOGIC_AND
	EQUALITY
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
	POWER
	UNARY
	POSTFIX
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:   ASSIGNMENT,
	lexer.OR:       LOGIC_OR,
	lexer.AND:      LOGIC_AND,
	lexer.EQ:       EQUALITY,
	lexer.NOT_EQ:   EQUALITY,
	lexer.LT:       COMPARISON,
	lexer.GT:       COMPARISON,
	lexer.LTE:      COMPARISON,
	lexer.GTE:      COMPARISON,
	lexer.PLUS:     ADDITIVE,
	lexer.MINUS:    ADDITIVE,
	lexer.ASTERISK: MULTIPLICATIVE,
	lexer.SLASH:    MULTIPLICATIVE,
	lexer.PERCENT:  MULTIPLICATIVE,
	lexer.POWER:    POWER,
	lexer.LPAREN:   POSTFIX,
	lexer.LBRACKET: POSTFIX,
	lexer.DOT:      POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a pre-lexed token slice (so lex errors are surfaced before
// parsing ever begins, per the pipeline's stage separation) and produces a
// Program, collecting the first parse error it encounters.
type Parser struct {
	file   string
	tokens []lexer.Token
	pos    int

	curToken  lexer.Token
	peekToken lexer.Token

	errs []error

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New creates a parser over tokens, which must end with an EOF token (as
// lexer.Tokenize produces).
func New(tokens []lexer.Token, file string) *Parser {
	p := &Parser{file: file, tokens: tokens}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifier,
		lexer.NUMBER:   p.parseNumberLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.TRUE:     p.parseBoolLiteral,
		lexer.FALSE:    p.parseBoolLiteral,
		lexer.NULL:     p.parseNullLiteral,
		lexer.THIS:     p.parseThis,
		lexer.BANG:     p.parseUnary,
		lexer.MINUS:    p.parseUnary,
		lexer.NEW:      p.parseNew,
		lexer.LPAREN:   p.parseGrouped,
		lexer.LBRACKET: p.parseArrayLiteral,
		lexer.LBRACE:   p.parseObjectLiteral,
		lexer.FUN:      p.parseFunctionExpr,
	}

	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseBinary,
		lexer.MINUS:    p.parseBinary,
		lexer.ASTERISK: p.parseBinary,
		lexer.SLASH:    p.parseBinary,
		lexer.PERCENT:  p.parseBinary,
		lexer.POWER:    p.parsePowerBinary,
		lexer.EQ:       p.parseBinary,
		lexer.NOT_EQ:   p.parseBinary,
		lexer.LT:       p.parseBinary,
		lexer.GT:       p.parseBinary,
		lexer.LTE:      p.parseBinary,
		lexer.GTE:      p.parseBinary,
		lexer.AND:      p.parseLogical,
		lexer.OR:       p.parseLogical,
		lexer.ASSIGN:   p.parseAssign,
		lexer.LPAREN:   p.parseCall,
		lexer.LBRACKET: p.parseIndex,
		lexer.DOT:      p.parseProperty,
	}

	p.advance()
	p.advance()
	return p
}

// ParseProgram parses every declaration in the token stream and returns the
// errors encountered (empty on success). Only the first error is recorded;
// later ones are almost always cascading noise from the same malformed
// construct.
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	program := &ast.Program{}
	for !p.curIs(lexer.EOF) && len(p.errs) == 0 {
		stmt := p.parseDeclaration()
		if stmt != nil {
			program.Body = append(program.Body, stmt)
		}
		p.advance()
	}
	return program, p.errs
}

func (p *Parser) advance() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = lexer.Token{Type: lexer.EOF, File: p.file}
	}
}

func (p *Parser) curIs(tt lexer.TokenType) bool  { return p.curToken.Type == tt }
func (p *Parser) peekIs(tt lexer.TokenType) bool { return p.peekToken.Type == tt }

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// expect advances past peekToken if it matches tt, else records an error and
// returns false.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekIs(tt) {
		p.advance()
		return true
	}
	p.errorAt(p.peekToken, "PARSE-UNEXPECTED-TOKEN", map[string]any{
		"Expected": tt.String(),
		"Got":      p.peekToken.Type.String(),
	})
	return false
}

// optionalSemicolon consumes a trailing ';' when present; every statement
// form in the grammar treats it as optional.
func (p *Parser) optionalSemicolon() {
	if p.peekIs(lexer.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) errorAt(tok lexer.Token, code string, data map[string]any) {
	if len(p.errs) > 0 {
		return
	}
	err := aerrors.NewAt(code, p.file, tok.Line, tok.Column, data)
	p.errs = append(p.errs, err)
}

func (p *Parser) malformed(tok lexer.Token, message string) {
	if len(p.errs) > 0 {
		return
	}
	err := aerrors.NewAt("PARSE-MALFORMED-CONSTRUCT", p.file, tok.Line, tok.Column, map[string]any{"Message": message})
	p.errs = append(p.errs, err)
}

// parseDeclaration dispatches the top of the grammar: declaration := fun |
// var | class | import | statement.
func (p *Parser) parseDeclaration() ast.Statement {
	switch p.curToken.Type {
	case lexer.LET:
		return p.parseVarDecl(false)
	case lexer.CONST:
		return p.parseVarDecl(true)
	case lexer.FUN:
		return p.parseFunctionDecl()
	case lexer.CLASS:
		return p.parseClassDecl()
	case lexer.IMPORT:
		return p.parseImport()
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseVarDecl(isConst bool) ast.Statement {
	tok := p.curToken
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	decl := &ast.VarDecl{Token: tok, Const: isConst, Name: name}
	if p.peekIs(lexer.ASSIGN) {
		p.advance()
		p.advance()
		decl.Init = p.parseExpression(LOWEST)
	}
	p.optionalSemicolon()
	return decl
}

func (p *Parser) parseParams() []string {
	var params []string
	if p.peekIs(lexer.RPAREN) {
		p.advance()
		return params
	}
	p.advance()
	params = append(params, p.curToken.Lexeme)
	for p.peekIs(lexer.COMMA) {
		p.advance()
		p.advance()
		params = append(params, p.curToken.Lexeme)
	}
	if !p.expect(lexer.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parseFunctionDecl() ast.Statement {
	tok := p.curToken
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	params := p.parseParams()
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.FunctionDecl{Token: tok, Name: name, Params: params, Body: body}
}

func (p *Parser) parseFunctionExpr() ast.Expression {
	tok := p.curToken
	name := ""
	if p.peekIs(lexer.IDENT) {
		p.advance()
		name = p.curToken.Lexeme
	}
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	params := p.parseParams()
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.FunctionExpr{Token: tok, Name: name, Params: params, Body: body}
}

func (p *Parser) parseClassDecl() ast.Statement {
	tok := p.curToken
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	var methods []*ast.MethodDef
	for !p.peekIs(lexer.RBRACE) && !p.peekIs(lexer.EOF) {
		p.advance()
		if !p.curIs(lexer.IDENT) {
			p.malformed(p.curToken, "expected method name in class body")
			return nil
		}
		methodName := p.curToken.Lexeme
		if !p.expect(lexer.LPAREN) {
			return nil
		}
		params := p.parseParams()
		if !p.expect(lexer.LBRACE) {
			return nil
		}
		body := p.parseBlock()
		methods = append(methods, &ast.MethodDef{Name: methodName, Params: params, Body: body})
	}
	if !p.expect(lexer.RBRACE) {
		return nil
	}
	return &ast.ClassDecl{Token: tok, Name: name, Methods: methods}
}

// parseImport handles both `import "path";` and the contextual
// `import IDENT from "path";` form, per the grammar.
func (p *Parser) parseImport() ast.Statement {
	tok := p.curToken
	if p.peekIs(lexer.STRING) {
		p.advance()
		path := p.curToken.Lexeme
		p.optionalSemicolon()
		return &ast.Import{Token: tok, Path: path}
	}
	if !p.expect(lexer.IDENT) {
		return nil
	}
	local := p.curToken.Lexeme
	if !p.expect(lexer.IDENT) || p.curToken.Lexeme != "from" {
		p.malformed(p.curToken, "expected 'from' in named import")
		return nil
	}
	if !p.expect(lexer.STRING) {
		return nil
	}
	path := p.curToken.Lexeme
	p.optionalSemicolon()
	return &ast.ImportNamed{Token: tok, Local: local, Path: path}
}

// parseStatement := block | if | while | for | return | break | continue |
// try | throw | exprStmt.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.BREAK:
		tok := p.curToken
		p.optionalSemicolon()
		return &ast.Break{Token: tok}
	case lexer.CONTINUE:
		tok := p.curToken
		p.optionalSemicolon()
		return &ast.Continue{Token: tok}
	case lexer.TRY:
		return p.parseTryCatch()
	case lexer.THROW:
		return p.parseThrow()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	tok := p.curToken // the '{'
	block := &ast.BlockStatement{Token: tok}
	for !p.peekIs(lexer.RBRACE) && !p.peekIs(lexer.EOF) {
		p.advance()
		stmt := p.parseDeclaration()
		if stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		if len(p.errs) > 0 {
			return block
		}
	}
	p.expect(lexer.RBRACE)
	return block
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.curToken
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	p.advance()
	test := p.parseExpression(LOWEST)
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	p.advance()
	consequent := p.parseStatement()
	n := &ast.If{Token: tok, Test: test, Consequent: consequent}
	if p.peekIs(lexer.ELSE) {
		p.advance()
		p.advance()
		n.Alternate = p.parseStatement()
	}
	return n
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.curToken
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	p.advance()
	test := p.parseExpression(LOWEST)
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	p.advance()
	body := p.parseStatement()
	return &ast.While{Token: tok, Test: test, Body: body}
}

// parseFor handles `for (init?; test?; update?) body`, where init may be a
// var declaration or an expression statement.
func (p *Parser) parseFor() ast.Statement {
	tok := p.curToken
	if !p.expect(lexer.LPAREN) {
		return nil
	}

	var init ast.Statement
	if p.peekIs(lexer.SEMICOLON) {
		p.advance()
	} else {
		p.advance()
		switch p.curToken.Type {
		case lexer.LET:
			init = p.parseVarDecl(false)
		case lexer.CONST:
			init = p.parseVarDecl(true)
		default:
			init = p.parseExprStmt()
		}
	}

	var test ast.Expression
	if !p.peekIs(lexer.SEMICOLON) {
		p.advance()
		test = p.parseExpression(LOWEST)
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	var update ast.Expression
	if !p.peekIs(lexer.RPAREN) {
		p.advance()
		update = p.parseExpression(LOWEST)
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	p.advance()
	body := p.parseStatement()
	return &ast.For{Token: tok, Init: init, Test: test, Update: update, Body: body}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.curToken
	n := &ast.Return{Token: tok}
	if !p.peekIs(lexer.SEMICOLON) && !p.peekIs(lexer.RBRACE) && !p.peekIs(lexer.EOF) {
		p.advance()
		n.Argument = p.parseExpression(LOWEST)
	}
	p.optionalSemicolon()
	return n
}

func (p *Parser) parseThrow() ast.Statement {
	tok := p.curToken
	p.advance()
	arg := p.parseExpression(LOWEST)
	p.optionalSemicolon()
	return &ast.Throw{Token: tok, Argument: arg}
}

func (p *Parser) parseTryCatch() ast.Statement {
	tok := p.curToken
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	block := p.parseBlock()
	n := &ast.TryCatch{Token: tok, Block: block}
	if p.peekIs(lexer.CATCH) {
		p.advance()
		n.HasCatch = true
		if !p.expect(lexer.LPAREN) {
			return n
		}
		if p.peekIs(lexer.IDENT) {
			p.advance()
			n.CatchParam = p.curToken.Lexeme
		}
		if !p.expect(lexer.RPAREN) {
			return n
		}
		if !p.expect(lexer.LBRACE) {
			return n
		}
		n.CatchBlock = p.parseBlock()
	}
	return n
}

func (p *Parser) parseExprStmt() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	p.optionalSemicolon()
	return &ast.ExprStmt{Token: tok, Expression: expr}
}

// parseExpression is the Pratt-parser core: a prefix production followed by
// zero or more infix productions, each consumed only while its precedence
// exceeds the caller's minimum.
func (p *Parser) parseExpression(minPrecedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.curToken.Type]
	if !ok {
		p.errorAt(p.curToken, "PARSE-UNEXPECTED-TOKEN", map[string]any{
			"Expected": "expression",
			"Got":      p.curToken.Type.String(),
		})
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMICOLON) && minPrecedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.advance()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Name: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	n, _ := p.curToken.Literal.(float64)
	return &ast.Literal{Token: p.curToken, Kind: ast.NumberLiteral, Number: n}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	s, _ := p.curToken.Literal.(string)
	return &ast.Literal{Token: p.curToken, Kind: ast.StringLiteral, Str: s}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.Literal{Token: p.curToken, Kind: ast.BoolLiteral, Bool: p.curToken.Type == lexer.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.Literal{Token: p.curToken, Kind: ast.NullLiteral}
}

func (p *Parser) parseThis() ast.Expression {
	return &ast.This{Token: p.curToken}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	p.advance()
	operand := p.parseExpression(UNARY)
	return &ast.Unary{Token: tok, Op: op, Operand: operand}
}

// parseNew parses `new Callee(args)`. Callee is restricted to a
// property/index chain (no calls) so that a trailing `(...)` is
// unambiguously the constructor argument list rather than a call on some
// intermediate result; any further postfix chain (e.g. `new Foo().bar()`)
// is left for the enclosing parseExpression loop to attach to the New node.
func (p *Parser) parseNew() ast.Expression {
	tok := p.curToken
	p.advance()
	callee := p.parseCalleePath()
	n := &ast.New{Token: tok, Callee: callee}
	if p.peekIs(lexer.LPAREN) {
		p.advance()
		if !p.peekIs(lexer.RPAREN) {
			p.advance()
			n.Args = append(n.Args, p.parseExpression(LOWEST))
			for p.peekIs(lexer.COMMA) {
				p.advance()
				p.advance()
				n.Args = append(n.Args, p.parseExpression(LOWEST))
			}
		}
		p.expect(lexer.RPAREN)
	}
	return n
}

// parseCalleePath parses a primary followed by `.name`/`[index]` postfixes
// only, stopping before any `(`.
func (p *Parser) parseCalleePath() ast.Expression {
	prefix, ok := p.prefixFns[p.curToken.Type]
	if !ok {
		p.errorAt(p.curToken, "PARSE-UNEXPECTED-TOKEN", map[string]any{
			"Expected": "class name",
			"Got":      p.curToken.Type.String(),
		})
		return nil
	}
	expr := prefix()
	for {
		switch p.peekToken.Type {
		case lexer.DOT:
			p.advance()
			expr = p.parseProperty(expr)
		case lexer.LBRACKET:
			p.advance()
			expr = p.parseIndex(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parseGrouped() ast.Expression {
	p.advance()
	expr := p.parseExpression(LOWEST)
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	arr := &ast.Array{Token: tok}
	if p.peekIs(lexer.RBRACKET) {
		p.advance()
		return arr
	}
	p.advance()
	arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.advance()
		p.advance()
		arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	}
	if !p.expect(lexer.RBRACKET) {
		return nil
	}
	return arr
}

// parseObjectLiteral handles `{key: value, ...}` where key is an identifier
// or a string literal, per the grammar.
func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.curToken
	obj := &ast.Object{Token: tok}
	if p.peekIs(lexer.RBRACE) {
		p.advance()
		return obj
	}
	for {
		p.advance()
		var key string
		switch p.curToken.Type {
		case lexer.IDENT:
			key = p.curToken.Lexeme
		case lexer.STRING:
			key, _ = p.curToken.Literal.(string)
		default:
			p.malformed(p.curToken, "expected object key")
			return nil
		}
		if !p.expect(lexer.COLON) {
			return nil
		}
		p.advance()
		val := p.parseExpression(LOWEST)
		obj.Props = append(obj.Props, ast.ObjectProp{Key: key, Value: val})
		if p.peekIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.expect(lexer.RBRACE) {
		return nil
	}
	return obj
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	precedence := p.curPrecedence()
	p.advance()
	right := p.parseExpression(precedence)
	return &ast.Binary{Token: tok, Op: op, Left: left, Right: right}
}

// parsePowerBinary parses `**`, which is right-associative: the recursive
// call uses one less than its own precedence so a chain like `2 ** 3 ** 2`
// groups as `2 ** (3 ** 2)`.
func (p *Parser) parsePowerBinary(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.advance()
	right := p.parseExpression(POWER - 1)
	return &ast.Binary{Token: tok, Op: "**", Left: left, Right: right}
}

func (p *Parser) parseLogical(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	precedence := p.curPrecedence()
	p.advance()
	right := p.parseExpression(precedence)
	return &ast.Logical{Token: tok, Op: op, Left: left, Right: right}
}

// parseAssign is right-associative and validated against the restricted set
// of assignment targets named in the grammar.
func (p *Parser) parseAssign(left ast.Expression) ast.Expression {
	tok := p.curToken
	switch left.(type) {
	case *ast.Identifier, *ast.Property, *ast.Index:
	default:
		p.errorAt(tok, "PARSE-INVALID-ASSIGN", nil)
		return nil
	}
	p.advance()
	value := p.parseExpression(ASSIGNMENT - 1)
	return &ast.Assign{Token: tok, Target: left, Value: value}
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	tok := p.curToken // '('
	call := &ast.Call{Token: tok, Callee: callee}
	if p.peekIs(lexer.RPAREN) {
		p.advance()
		return call
	}
	p.advance()
	call.Args = append(call.Args, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.advance()
		p.advance()
		call.Args = append(call.Args, p.parseExpression(LOWEST))
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseIndex(object ast.Expression) ast.Expression {
	tok := p.curToken // '['
	p.advance()
	idx := p.parseExpression(LOWEST)
	if !p.expect(lexer.RBRACKET) {
		return nil
	}
	return &ast.Index{Token: tok, Object: object, Index: idx}
}

func (p *Parser) parseProperty(object ast.Expression) ast.Expression {
	tok := p.curToken // '.'
	if !p.expect(lexer.IDENT) {
		return nil
	}
	return &ast.Property{Token: tok, Object: object, Name: p.curToken.Lexeme}
}
