package parser

import (
	"smg/ast"
	"smg/token"
	"strconv"
	"strings"
)

// skipBlank consumes a run of newlines and comments without treating
// them as statement terminators — used inside bracketed constructs
// (array/map literals, argument lists) where a line break is just
// formatting.
func (p *Parser) skipBlank() error {
	for {
		tok, err := p.cur()
		if err != nil {
			return err
		}
		if tok.Value == "\n" || tok.Is(token.Comment) {
			if _, err := p.advance(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

// expression parses a Lambda or a precedence-climbed Term chain
// (spec.md §4.2 `Expression := Lambda | PrecClimb(Term, 0)`).
func (p *Parser) expression() (ast.Expression, error) {
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value == "function" {
		next, err := p.at(1)
		if err != nil {
			return nil, err
		}
		if next.Value == "(" {
			return p.lambda()
		}
	}
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	return p.finishExpression(t, tok.Line)
}

// finishExpression runs precedence climbing starting from an
// already-parsed Term at minimum precedence 0.
func (p *Parser) finishExpression(left ast.Term, line int) (ast.Expression, error) {
	return p.climb(left, 0, line)
}

// climb implements spec.md §4.2's precedence-climbing algorithm:
// enter with a left term and minimum precedence; while the next token
// is a binary operator at or above that precedence, consume it, parse
// a right term, then pull in any higher-precedence (or equal and
// right-associative) operators on the right before assembling the
// BinaryExpr and continuing at the original level.
func (p *Parser) climb(left ast.Term, minPrec int, line int) (ast.Expression, error) {
	result := ast.Expression(ast.TermExpr{Term: left, Line: line})
	for {
		opTok, err := p.cur()
		if err != nil {
			return nil, err
		}
		if !isBinaryOp(opTok) || opTok.Precedence < minPrec {
			return result, nil
		}
		p.advance()
		rightTerm, err := p.term()
		if err != nil {
			return nil, err
		}
		for {
			nextTok, err := p.cur()
			if err != nil {
				return nil, err
			}
			if !isBinaryOp(nextTok) {
				break
			}
			strictlyGreater := nextTok.Precedence > opTok.Precedence
			sameAndRightAssoc := nextTok.Precedence == opTok.Precedence && nextTok.RightAssociative
			if !strictlyGreater && !sameAndRightAssoc {
				break
			}
			newMin := opTok.Precedence
			if strictlyGreater {
				newMin++
			}
			rightExpr, err := p.climb(rightTerm, newMin, nextTok.Line)
			if err != nil {
				return nil, err
			}
			rightTerm = asTerm(rightExpr, nextTok.Line)
		}
		result = ast.BinaryExpr{
			Op:    binaryOpFor(opTok),
			Left:  asTerm(result, line),
			Right: rightTerm,
			Line:  opTok.Line,
		}
	}
}

func isBinaryOp(tok token.Token) bool {
	return tok.Is(token.BinaryArithmetic)
}

// asTerm adapts an Expression back into a Term so it can sit as the
// operand of an outer BinaryExpr (whose Left/Right are Terms, since a
// Term already carries its own postfix chain). A bare TermExpr
// unwraps losslessly; anything richer is wrapped in a ParenExpr.
func asTerm(expr ast.Expression, line int) ast.Term {
	if te, ok := expr.(ast.TermExpr); ok {
		return te.Term
	}
	return ast.ParenExpr{Expr: expr, Line: line}
}

func binaryOpFor(tok token.Token) ast.BinaryOp {
	switch tok.Value {
	case "^":
		return ast.Exponent
	case "*":
		return ast.Multiply
	case "/":
		return ast.Divide
	case "%":
		return ast.Modulo
	case "+":
		return ast.Add
	case "-":
		return ast.Subtract
	case "<<":
		return ast.ShiftLeft
	case ">>":
		return ast.ShiftRight
	case "<":
		return ast.Less
	case "<=":
		return ast.LessEqual
	case ">":
		return ast.Greater
	case ">=":
		return ast.GreaterEqual
	case "==":
		return ast.Equal
	case "!=":
		return ast.NotEqual
	case "&":
		return ast.BitAnd
	case "|":
		return ast.BitOr
	case "xor":
		return ast.BitXor
	case "and":
		return ast.And
	case "or":
		return ast.Or
	}
	return ast.Add // unreachable: isBinaryOp gates every caller
}

func (p *Parser) lambda() (ast.Expression, error) {
	kw, err := p.advance() // 'function'
	if err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value == "{" {
		body, err := p.scope()
		if err != nil {
			return nil, err
		}
		return ast.Lambda{Params: params, Body: body, Line: kw.Line}, nil
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	body := &ast.Scope{
		Inner: []ast.Stmt{&ast.Return{Expr: expr, Line: kw.Line}},
		Line:  kw.Line,
	}
	return ast.Lambda{Params: params, Body: body, Line: kw.Line}, nil
}

// term parses a Primary followed by any number of postfix modifiers.
func (p *Parser) term() (ast.Term, error) {
	prim, err := p.primary()
	if err != nil {
		return nil, err
	}
	return p.postfix(prim)
}

func (p *Parser) postfix(t ast.Term) (ast.Term, error) {
	for {
		tok, err := p.cur()
		if err != nil {
			return nil, err
		}
		switch tok.Value {
		case "[":
			p.advance()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			t = ast.ArrayAccess{Term: t, Index: idx, Line: tok.Line}
		case ".":
			p.advance()
			prop, err := p.expectQualifier()
			if err != nil {
				return nil, err
			}
			t = ast.PropAccess{Term: t, Prop: prop.Value, Line: tok.Line}
		case "(":
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			t = ast.Call{Callee: t, Args: args, Line: tok.Line}
		case "as":
			p.advance()
			typeTok, err := p.cur()
			if err != nil {
				return nil, err
			}
			if !typeTok.Is(token.CastType) {
				return nil, newSyntaxError(typeTok.Line, "expected cast type name, got %q", typeTok.Value)
			}
			p.advance()
			t = ast.Cast{Term: t, Type: typeTok.Value, Line: tok.Line}
		default:
			return t, nil
		}
	}
}

func (p *Parser) argList() ([]ast.Expression, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}
	var args []ast.Expression
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value == ")" {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if err := p.skipBlank(); err != nil {
			return nil, err
		}
		tok, err := p.cur()
		if err != nil {
			return nil, err
		}
		if tok.Value == "," {
			p.advance()
			if err := p.skipBlank(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) primary() (ast.Term, error) {
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.Value == "(":
		p.advance()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return ast.ParenExpr{Expr: expr, Line: tok.Line}, nil
	case tok.Value == "[":
		return p.arrayLiteral()
	case tok.Value == "{":
		return p.mapLiteral()
	case tok.Value == "null":
		p.advance()
		return ast.Literal{Value: nil, Line: tok.Line}, nil
	case tok.Value == "true":
		p.advance()
		return ast.Literal{Value: true, Line: tok.Line}, nil
	case tok.Value == "false":
		p.advance()
		return ast.Literal{Value: false, Line: tok.Line}, nil
	case tok.Value == "-" || tok.Value == "~" || tok.Value == "!" || tok.Value == "not" ||
		tok.Value == "++" || tok.Value == "--":
		return p.unary()
	case tok.Is(token.NumberLiteral):
		p.advance()
		return p.numberLiteral(tok)
	case tok.Is(token.StringLiteral):
		p.advance()
		return ast.Literal{Value: tok.Value, Line: tok.Line}, nil
	case tok.Is(token.Qualifier):
		p.advance()
		return ast.Variable{Name: tok.Value, Line: tok.Line}, nil
	}
	return nil, newSyntaxError(tok.Line, "unexpected token %q", tok.Value)
}

func (p *Parser) unary() (ast.Term, error) {
	tok, err := p.advance()
	if err != nil {
		return nil, err
	}
	var op ast.UnaryOp
	switch tok.Value {
	case "-":
		op = ast.Negate
	case "~":
		op = ast.Invert
	case "!", "not":
		op = ast.Not
	case "++":
		op = ast.Increment
	case "--":
		op = ast.Decrement
	}
	operand, err := p.term()
	if err != nil {
		return nil, err
	}
	return ast.UnaryExpr{Op: op, Term: operand, Line: tok.Line}, nil
}

func (p *Parser) numberLiteral(tok token.Token) (ast.Term, error) {
	if strings.Contains(tok.Value, ".") {
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, newSyntaxError(tok.Line, "invalid number literal %q", tok.Value)
		}
		return ast.Literal{Value: f, Line: tok.Line}, nil
	}
	n, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return nil, newSyntaxError(tok.Line, "invalid number literal %q", tok.Value)
	}
	return ast.Literal{Value: n, Line: tok.Line}, nil
}

func (p *Parser) arrayLiteral() (ast.Term, error) {
	open, err := p.advance() // '['
	if err != nil {
		return nil, err
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}
	var items []ast.Expression
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value != "]" {
		for {
			item, err := p.expression()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if err := p.skipBlank(); err != nil {
				return nil, err
			}
			tok, err := p.cur()
			if err != nil {
				return nil, err
			}
			if tok.Value == "," {
				p.advance()
				if err := p.skipBlank(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	return ast.ArrayLiteral{Items: items, Line: open.Line}, nil
}

func (p *Parser) mapLiteral() (ast.Term, error) {
	open, err := p.advance() // '{'
	if err != nil {
		return nil, err
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}
	var entries []ast.MapEntry
	tok, err := p.cur()
	if err != nil {
		return nil, err
	}
	if tok.Value != "}" {
		for {
			key, err := p.expectQualifier()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(":"); err != nil {
				return nil, err
			}
			if err := p.skipBlank(); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.MapEntry{Key: key.Value, Value: val})
			if err := p.skipBlank(); err != nil {
				return nil, err
			}
			tok, err := p.cur()
			if err != nil {
				return nil, err
			}
			if tok.Value == "," {
				p.advance()
				if err := p.skipBlank(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return ast.MapLiteral{Entries: entries, Line: open.Line}, nil
}
