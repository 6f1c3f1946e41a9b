package parser

import (
	"smg/lexer"
	"smg/token"
)

// cache is the parser's small FIFO lookahead buffer over the lexer's
// token stream. Its Push/Pop/Peek shape is adapted from the teacher
// repository's vm.Stack (a bare push/pop/peek slice wrapper originally
// used by the bytecode VM this module does not carry forward) — here
// repurposed as a growable lookahead queue instead of a LIFO stack.
type cache struct {
	lex *lexer.Lexer
	buf []token.Token
}

func newCache(lex *lexer.Lexer) *cache {
	return &cache{lex: lex}
}

// fill grows the buffer until it holds at least offset+1 tokens, or
// the lexer has reached EOT.
func (c *cache) fill(offset int) error {
	for len(c.buf) <= offset {
		if n := len(c.buf); n > 0 && c.buf[n-1].Value == token.EOT {
			return nil
		}
		tok, err := c.lex.NextToken()
		if err != nil {
			return err
		}
		c.buf = append(c.buf, tok)
	}
	return nil
}

// peek returns the token offset positions ahead of the cursor without
// consuming it. Peeking past EOT keeps returning EOT.
func (c *cache) peek(offset int) (token.Token, error) {
	if err := c.fill(offset); err != nil {
		return token.Token{}, err
	}
	if offset < len(c.buf) {
		return c.buf[offset], nil
	}
	return c.buf[len(c.buf)-1], nil
}

// consume returns the current token and advances the cursor past it.
func (c *cache) consume() (token.Token, error) {
	tok, err := c.peek(0)
	if err != nil {
		return tok, err
	}
	if len(c.buf) > 0 && c.buf[0].Value != token.EOT {
		c.buf = c.buf[1:]
	}
	return tok, nil
}

// peekNonBlank returns the k-th token ahead that is neither a comment
// nor a newline, without consuming anything — used to skim past
// whitespace/comments when deciding which statement production to
// enter.
func (c *cache) peekNonBlank(k int) (token.Token, error) {
	seen := 0
	offset := 0
	for {
		tok, err := c.peek(offset)
		if err != nil {
			return tok, err
		}
		if tok.Value == token.EOT {
			return tok, nil
		}
		if tok.Value != "\n" && !tok.Is(token.Comment) {
			if seen == k {
				return tok, nil
			}
			seen++
		}
		offset++
	}
}
