package parser

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/amaji/cactus/token"
)

// Parser is a recursive-descent parser over a fixed token sequence. It
// collects every error it meets (not just the first) via panic-mode
// recovery (see synchronize), following the teacher's append-don't-panic
// error discipline (akashmaji946-go-mix parser.Errors), aggregated here
// with go-multierror. Parse returns the first error; Errors returns all of
// them.
type Parser struct {
	tokens  []token.Token
	current int
	errs    *multierror.Error
}

// New builds a Parser over tokens, which must end in an Eof token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole token sequence as a program (declaration* EOF) and
// returns the statement list. If any errors were recorded during the
// parse, it returns the first one as err (sufficient for test-seeding, per
// spec.md §4.2); Errors returns all of them.
func (p *Parser) Parse() (stmts []Stmt, err error) {
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if p.errs != nil {
		return stmts, p.errs.Errors[0]
	}
	return stmts, nil
}

// Errors returns every error recorded during the parse, in order.
func (p *Parser) Errors() []error {
	if p.errs == nil {
		return nil
	}
	return p.errs.Errors
}

// parseError unwinds the recursive-descent call stack back to the nearest
// declaration() boundary, where synchronize() resumes parsing at the next
// statement. It never escapes this package.
type parseError struct{}

func (p *Parser) addError(e *Error) {
	p.errs = multierror.Append(p.errs, e)
}

func (p *Parser) fail(kind ErrorKind, tok token.Token, message string) {
	p.addError(newError(kind, tok, message))
	panic(parseError{})
}

// declaration parses one `declaration → varDecl | statement`, recovering
// via synchronize on error so the rest of the program can still be parsed.
func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	if p.match(token.Var) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) varDeclaration() Stmt {
	name := p.consume(token.Identifier, ExpectVariableName, "Expect variable name.")

	var initializer Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}

	p.consume(token.Semicolon, ExpectSemicolon, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.LeftBrace):
		return &BlockStmt{Statements: p.block()}
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	default:
		return p.exprStatement()
	}
}

func (p *Parser) printStatement() Stmt {
	value := p.expression()
	p.consume(token.Semicolon, ExpectSemicolon, "Expect ';' after value.")
	return &PrintStmt{Expression: value}
}

func (p *Parser) exprStatement() Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, ExpectSemicolon, "Expect ';' after expression.")
	return &ExprStmt{Expression: expr}
}

// block → "{" declaration* "}". The opening brace has already been
// consumed by the caller.
func (p *Parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, UnmatchedParen, "Expect '}' after block.")
	return stmts
}

func (p *Parser) ifStatement() Stmt {
	p.consume(token.LeftParen, UnmatchedParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RightParen, UnmatchedParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &IfStmt{Cond: cond, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStatement() Stmt {
	p.consume(token.LeftParen, UnmatchedParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RightParen, UnmatchedParen, "Expect ')' after condition.")
	body := p.statement()
	return &WhileStmt{Cond: cond, Body: body}
}

// forStatement parses the C-style for loop and immediately desugars it
// into a While wrapped in Blocks, per spec.md §4.2: no ForStmt node ever
// exists.
func (p *Parser) forStatement() Stmt {
	p.consume(token.LeftParen, UnmatchedParen, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.exprStatement()
	}

	var cond Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, ExpectSemicolon, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, UnmatchedParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExprStmt{Expression: increment}}}
	}
	if cond == nil {
		cond = &Literal{Value: true}
	}
	body = &WhileStmt{Cond: cond, Body: body}

	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}}
	}
	return body
}

// expression → assignment
func (p *Parser) expression() Expr {
	return p.assignment()
}

// assignment → IDENT "=" assignment | logic_or
func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		if v, ok := expr.(*Variable); ok {
			return &Assign{Name: v.Name, Value: value}
		}
		p.addError(newError(InvalidAssignmentTarget, equals, "Invalid assignment target."))
		return expr
	}
	return expr
}

// logic_or → logic_and ( "or" logic_and )*
func (p *Parser) or() Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.previous()
		right := p.and()
		expr = &Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

// logic_and → equality ( "and" equality )*
func (p *Parser) and() Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

// equality → comparison ( ( "!=" | "==" ) comparison )*
func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

// comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.term()
		expr = &Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

// term → factor ( ( "-" | "+" ) factor )*
func (p *Parser) term() Expr {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right := p.factor()
		expr = &Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

// factor → unary ( ( "/" | "*" ) unary )*
func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right := p.unary()
		expr = &Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

// unary → ( "!" | "-" ) unary | primary
func (p *Parser) unary() Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return &Unary{Operator: op, Right: right}
	}
	return p.primary()
}

// parseRightOperandFor parses, and discards, the right-hand operand of a
// binary/comparison/equality operator that primary() meets with no left
// operand, at the precedence level that operator's own production uses for
// its right side, per spec.md §4.2's left-operand diagnostics. Parsing then
// continues after that operand without synchronizing.
func (p *Parser) parseRightOperandFor(op token.Type) {
	switch op {
	case token.Plus:
		p.factor()
	case token.Star, token.Slash:
		p.unary()
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		p.term()
	case token.BangEqual, token.EqualEqual:
		p.comparison()
	}
}

// primary → "true" | "false" | "nil" | NUMBER | STRING | IDENT | "(" expression ")"
func (p *Parser) primary() Expr {
	switch {
	case p.match(token.False):
		return &Literal{Value: false}
	case p.match(token.True):
		return &Literal{Value: true}
	case p.match(token.Nil):
		return &Literal{Value: nil}
	case p.match(token.Number, token.String):
		return &Literal{Value: p.previous().Literal}
	case p.match(token.Identifier):
		return &Variable{Name: p.previous()}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, UnmatchedParen, "Expect ')' after expression.")
		return &Grouping{Expression: expr}
	}

	switch p.peek().Type {
	case token.Plus, token.Star, token.Slash,
		token.Greater, token.GreaterEqual, token.Less, token.LessEqual,
		token.BangEqual, token.EqualEqual:
		op := p.advance()
		p.addError(newError(ExpectLeftOperand, op, fmt.Sprintf("Expect expression before '%s'.", op.Lexeme)))
		p.parseRightOperandFor(op.Type)
		return &Literal{Value: nil}
	}

	p.fail(ExpectExpression, p.peek(), "Expect expression.")
	return nil // unreachable: fail panics
}

// synchronize discards tokens until it sees a statement boundary: the
// token after a ';', or the start of a new statement keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.Type, kind ErrorKind, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(kind, p.peek(), message)
	return token.Token{}
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.Eof
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}
