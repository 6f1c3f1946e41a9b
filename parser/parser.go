// Package parser turns a token stream into an ast.Program by
// recursive descent, switching to precedence climbing for binary
// expressions (see expr.go). It accumulates every recoverable syntax
// error it meets into a single *multierror.Error rather than stopping
// at the first one, so a caller sees the whole bad file in one pass.
package parser

import (
	"smg/ast"
	"smg/lexer"
	"smg/token"

	"github.com/hashicorp/go-multierror"
)

// Parser walks a token cache and builds an ast.Program.
type Parser struct {
	cache *cache
	errs  *multierror.Error
}

// New builds a Parser reading from src.
func New(src string) *Parser {
	return &Parser{cache: newCache(lexer.New(src))}
}

// Parse lexes and parses src in one call.
func Parse(src string) (*ast.Program, error) {
	return New(src).Parse()
}

// Parse consumes the whole token stream and returns the resulting
// Program. Recoverable syntax errors are collected and returned
// together as a single error; a lexical error is fatal and returned
// immediately since the remaining token stream cannot be trusted.
func (p *Parser) Parse() (*ast.Program, error) {
	stmts, err := p.parseStatements(token.EOT)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, p.errs.ErrorOrNil()
}

func (p *Parser) cur() (token.Token, error)      { return p.cache.peek(0) }
func (p *Parser) at(offset int) (token.Token, error) { return p.cache.peek(offset) }
func (p *Parser) advance() (token.Token, error)  { return p.cache.consume() }

func (p *Parser) record(err error) {
	p.errs = multierror.Append(p.errs, err)
}

// skipTerm consumes any run of newlines, semicolons, and comments.
func (p *Parser) skipTerm() error {
	for {
		tok, err := p.cur()
		if err != nil {
			return err
		}
		if tok.Value == "\n" || tok.Value == ";" || tok.Is(token.Comment) {
			if _, err := p.advance(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

// expectTerm requires at least one statement terminator (or the given
// closer, or EOT) immediately after a statement.
func (p *Parser) expectTerm(closer string) error {
	tok, err := p.cur()
	if err != nil {
		return err
	}
	if tok.Value == closer || tok.Value == token.EOT {
		return nil
	}
	if tok.Value != "\n" && tok.Value != ";" && !tok.Is(token.Comment) {
		return newSyntaxError(tok.Line, "expected statement terminator, got %q", tok.Value)
	}
	return p.skipTerm()
}

// synchronize discards tokens up to the next terminator, closer, or
// EOT so parsing can resume after a syntax error.
func (p *Parser) synchronize(closer string) error {
	for {
		tok, err := p.cur()
		if err != nil {
			return err
		}
		if tok.Value == token.EOT || tok.Value == closer {
			return nil
		}
		if tok.Value == "\n" || tok.Value == ";" {
			_, err := p.advance()
			return err
		}
		if _, err := p.advance(); err != nil {
			return err
		}
	}
}

// parseStatements parses statements until it sees closer (a literal
// token value, or token.EOT for the program root).
func (p *Parser) parseStatements(closer string) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		if err := p.skipTerm(); err != nil {
			return nil, err
		}
		tok, err := p.cur()
		if err != nil {
			return nil, err
		}
		if tok.Value == closer || tok.Value == token.EOT {
			return stmts, nil
		}
		stmt, err := p.statement()
		if err != nil {
			if _, lexical := err.(lexer.Error); lexical {
				return nil, err
			}
			p.record(err)
			if err := p.synchronize(closer); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.expectTerm(closer); err != nil {
			if _, lexical := err.(lexer.Error); lexical {
				return nil, err
			}
			p.record(err)
			if err := p.synchronize(closer); err != nil {
				return nil, err
			}
			continue
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) expect(value string) (token.Token, error) {
	tok, err := p.cur()
	if err != nil {
		return tok, err
	}
	if tok.Value != value {
		return tok, newSyntaxError(tok.Line, "expected %q, got %q", value, tok.Value)
	}
	return p.advance()
}

func (p *Parser) expectQualifier() (token.Token, error) {
	tok, err := p.cur()
	if err != nil {
		return tok, err
	}
	if !tok.Is(token.Qualifier) {
		return tok, newSyntaxError(tok.Line, "expected identifier, got %q", tok.Value)
	}
	return p.advance()
}

func (p *Parser) scope() (*ast.Scope, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements("}")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return &ast.Scope{Inner: stmts, Line: open.Line}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	switch tok.Value {
	case "let":
		return p.declareStmt()
	case "if":
		return p.ifStmt()
	case "while":
		return p.whileStmt()
	case "for":
		return p.forStmt()
	case "break":
		p.advance()
		return &ast.Break{Line: tok.Line}, nil
	case "continue":
		p.advance()
		return &ast.Continue{Line: tok.Line}, nil
	case "return":
		return p.returnStmt()
	case "try":
		return p.tryStmt()
	case "{":
		return p.scope()
	case "function":
		named, err := p.at(1)
		if err != nil {
			return nil, err
		}
		if named.Is(token.Qualifier) {
			return p.functionStmt()
		}
	}
	return p.assignOrExprStmt()
}

func (p *Parser) declareStmt() (ast.Stmt, error) {
	kw, err := p.advance() // 'let'
	if err != nil {
		return nil, err
	}
	name, err := p.expectQualifier()
	if err != nil {
		return nil, err
	}
	var expr ast.Expression
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value == "=" {
		p.advance()
		expr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Declare{Name: name.Value, Expr: expr, Line: kw.Line}, nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	kw, err := p.advance() // 'if'
	if err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.scope()
	if err != nil {
		return nil, err
	}
	node := &ast.If{Cond: cond, Then: then, Line: kw.Line}

	// 'else' may be separated from the then-scope's closing '}' by
	// statement terminators; peek past them without consuming so a
	// following real statement is left untouched if there is no 'else'.
	lookahead, err := p.cache.peekNonBlank(0)
	if err != nil {
		return nil, err
	}
	if lookahead.Value != "else" {
		return node, nil
	}
	if err := p.skipTerm(); err != nil {
		return nil, err
	}
	if _, err := p.expect("else"); err != nil {
		return nil, err
	}
	next, err := p.cur()
	if err != nil {
		return nil, err
	}
	if next.Value == "if" {
		elseIf, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		node.Else = elseIf
		return node, nil
	}
	elseScope, err := p.scope()
	if err != nil {
		return nil, err
	}
	node.Else = elseScope
	return node, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	kw, err := p.advance() // 'while'
	if err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.scope()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Line: kw.Line}, nil
}

func (p *Parser) forStmt() (ast.Stmt, error) {
	kw, err := p.advance() // 'for'
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	if isForEachHead, err := p.looksLikeForEach(); err != nil {
		return nil, err
	} else if isForEachHead {
		name, err := p.expectQualifier()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("in"); err != nil {
			return nil, err
		}
		listTerm, err := p.term()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		body, err := p.scope()
		if err != nil {
			return nil, err
		}
		return &ast.ForEach{ItrName: name.Value, ListTerm: listTerm, Body: body, Line: kw.Line}, nil
	}

	var initStmt ast.Stmt
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value != ";" {
		initStmt, err = p.forHeadStmt()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	var cond ast.Expression
	tok, err = p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value != ";" {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	var incStmt ast.Stmt
	tok, err = p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value != ")" {
		incStmt, err = p.forHeadStmt()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	body, err := p.scope()
	if err != nil {
		return nil, err
	}
	return &ast.For{Init: initStmt, Cond: cond, Inc: incStmt, Body: body, Line: kw.Line}, nil
}

// looksLikeForEach distinguishes `for (name in term)` from the
// C-style head by checking for Qualifier 'in' right after '('.
func (p *Parser) looksLikeForEach() (bool, error) {
	first, err := p.cur()
	if err != nil {
		return false, err
	}
	if !first.Is(token.Qualifier) {
		return false, nil
	}
	second, err := p.at(1)
	if err != nil {
		return false, err
	}
	return second.Value == "in", nil
}

func (p *Parser) forHeadStmt() (ast.Stmt, error) {
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value == "let" {
		return p.declareStmt()
	}
	return p.assignOrExprStmt()
}

func (p *Parser) functionStmt() (ast.Stmt, error) {
	kw, err := p.advance() // 'function'
	if err != nil {
		return nil, err
	}
	name, err := p.expectQualifier()
	if err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	body, err := p.scope()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name.Value, Params: params, Body: body, Line: kw.Line}, nil
}

func (p *Parser) paramList() ([]ast.Param, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var params []ast.Param
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value == ")" {
		p.advance()
		return params, nil
	}
	for {
		name, err := p.expectQualifier()
		if err != nil {
			return nil, err
		}
		var def ast.Expression
		tok, err := p.cur()
		if err != nil {
			return nil, err
		}
		if tok.Value == "=" {
			p.advance()
			def, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, ast.Param{Name: name.Value, Default: def})
		tok, err = p.cur()
		if err != nil {
			return nil, err
		}
		if tok.Value == "," {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	kw, err := p.advance() // 'return'
	if err != nil {
		return nil, err
	}
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value == "\n" || tok.Value == ";" || tok.Value == "}" || tok.Value == token.EOT {
		return &ast.Return{Line: kw.Line}, nil
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Expr: expr, Line: kw.Line}, nil
}

func (p *Parser) tryStmt() (ast.Stmt, error) {
	kw, err := p.advance() // 'try'
	if err != nil {
		return nil, err
	}
	tryScope, err := p.scope()
	if err != nil {
		return nil, err
	}
	node := &ast.TryCatch{Try: tryScope, Line: kw.Line}

	// Like 'else', 'catch' and 'finally' may sit on a later line than
	// the preceding '}'.
	tok, err := p.cache.peekNonBlank(0)
	if err != nil {
		return nil, err
	}
	if tok.Value == "catch" {
		if err := p.skipTerm(); err != nil {
			return nil, err
		}
		p.advance()
		tok, err = p.cur()
		if err != nil {
			return nil, err
		}
		paren := tok.Value == "("
		if paren {
			p.advance()
		}
		tok, err = p.cur()
		if err != nil {
			return nil, err
		}
		if tok.Is(token.Qualifier) {
			p.advance()
			node.ErrName = tok.Value
		}
		if paren {
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
		}
		catchScope, err := p.scope()
		if err != nil {
			return nil, err
		}
		node.Catch = catchScope
	}

	tok, err = p.cache.peekNonBlank(0)
	if err != nil {
		return nil, err
	}
	if tok.Value == "finally" {
		if err := p.skipTerm(); err != nil {
			return nil, err
		}
		p.advance()
		finallyScope, err := p.scope()
		if err != nil {
			return nil, err
		}
		node.Finally = finallyScope
	}
	return node, nil
}

// assignOrExprStmt parses a Term; if an AssignOperator follows, it is
// an Assign whose target is restricted to Variable, ArrayAccess, or
// PropAccess. Otherwise the term is folded into a full expression
// (precedence climbing may still apply a binary operator to it) and
// wrapped as an ExprStmt.
func (p *Parser) assignOrExprStmt() (ast.Stmt, error) {
	line, err := p.curLine()
	if err != nil {
		return nil, err
	}
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if op, ok := assignOpFor(tok); ok {
		switch t.(type) {
		case ast.Variable, ast.ArrayAccess, ast.PropAccess:
		default:
			return nil, newSyntaxError(tok.Line, "invalid assignment target")
		}
		p.advance()
		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: t, Op: op, Expr: rhs, Line: line}, nil
	}
	expr, err := p.finishExpression(t, line)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: expr, Line: line}, nil
}

func (p *Parser) curLine() (int, error) {
	tok, err := p.cur()
	if err != nil {
		return 0, err
	}
	return tok.Line, nil
}

func assignOpFor(tok token.Token) (ast.AssignOp, bool) {
	if !tok.Is(token.AssignOperator) {
		return 0, false
	}
	switch tok.Value {
	case "=":
		return ast.SimpleAssign, true
	case "+=":
		return ast.AddEq, true
	case "-=":
		return ast.SubEq, true
	case "*=":
		return ast.MulEq, true
	case "/=":
		return ast.DivEq, true
	case "%=":
		return ast.ModEq, true
	case "&=":
		return ast.AndEq, true
	case "|=":
		return ast.OrEq, true
	}
	return 0, false
}
