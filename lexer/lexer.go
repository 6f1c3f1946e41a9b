// Package lexer implements SMG's Tokenizer: a small state-driven
// character-stream reader producing tokens lazily, in source order,
// with no lookahead beyond what the current token requires.
package lexer

import (
	"fmt"
	"smg/token"
	"strings"
)

// state names the tokenizer's DFA states per spec.md §4.1. They exist
// mainly for documentation and error messages; control flow below is a
// straightforward dispatch rather than an explicit state table, since
// each state's accumulation rule is a handful of lines.
type state int

const (
	waiting state = iota
	word
	number
	stringSingle
	stringDouble
	comment
)

func (s state) String() string {
	switch s {
	case word:
		return "WORD"
	case number:
		return "NUMBER"
	case stringSingle:
		return "STRING_SINGLE"
	case stringDouble:
		return "STRING_DOUBLE"
	case comment:
		return "COMMENT"
	default:
		return "WAITING"
	}
}

func isLetter(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// Error is a tokenization failure carrying the offending line, mirroring
// the line-tagged errors produced by every other stage of the pipeline.
type Error struct {
	Line    int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("lexical error, line %d: %s", e.Line, e.Message)
}

// Lexer is a single-consumer tokenizer: callers must not share it
// across goroutines (spec.md §4.1).
type Lexer struct {
	src    []rune
	pos    int
	line   int
	column int
}

// New constructs a Lexer over the given source text.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1}
}

// Reset rewinds the cursor to the beginning of the input.
func (l *Lexer) Reset() {
	l.pos = 0
	l.line = 1
	l.column = 0
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekAt(offset int) rune {
	i := l.pos + offset
	if i < 0 || i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) advanceRune() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) remaining() string {
	return string(l.src[l.pos:])
}

// NextToken returns the next token in the stream, or the EOT sentinel
// once input is exhausted.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipInsignificantWhitespace()
	if l.atEnd() {
		return token.NewEOT(l.line, l.column), nil
	}

	ch := l.peekAt(0)

	switch {
	case ch == '\'':
		return l.readString('\'', stringSingle)
	case ch == '"':
		return l.readString('"', stringDouble)
	case ch == '#':
		return l.readComment()
	case isLetter(ch):
		return l.readWord(), nil
	case isDigit(ch):
		return l.readNumber()
	}

	if tok, ok := l.matchCanonical(); ok {
		return tok, nil
	}

	bad := l.advanceRune()
	return token.Token{}, Error{Line: l.line, Message: fmt.Sprintf("unexpected character %q", bad)}
}

// Tokens drains the lexer to a slice, stopping at the first error —
// a convenience used by tests.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Value == token.EOT {
			return out, nil
		}
	}
}

// skipInsignificantWhitespace consumes spaces, tabs, and carriage
// returns. Newlines are never skipped here: they are surfaced as
// StatementTerminator tokens. Comments are handled by the caller.
func (l *Lexer) skipInsignificantWhitespace() {
	for !l.atEnd() && isSpace(l.peekAt(0)) {
		l.advanceRune()
	}
}

// matchCanonical performs the longest-match scan against the
// canonical token table (already sorted by descending length).
func (l *Lexer) matchCanonical() (token.Token, bool) {
	rest := l.remaining()
	for _, c := range token.Canonical {
		v := c.Value()
		if v == "" || isLetter(rune(v[0])) {
			// Keyword/cast-type text is only ever recognised through
			// readWord's maximal-munch identifier scan below, never by
			// matching a prefix of the remaining input directly —
			// otherwise "iffy" would longest-match the keyword "if".
			continue
		}
		if strings.HasPrefix(rest, v) {
			line, col := l.line, l.column
			for range []rune(v) {
				l.advanceRune()
			}
			return c.Make(line, col), true
		}
	}
	return token.Token{}, false
}

// readWord accumulates a maximal-munch identifier and classifies it as
// a keyword, a cast type name, or a plain Qualifier.
func (l *Lexer) readWord() token.Token {
	line, col := l.line, l.column
	var b strings.Builder
	for !l.atEnd() && (isLetter(l.peekAt(0)) || isDigit(l.peekAt(0))) {
		b.WriteRune(l.advanceRune())
	}
	text := b.String()
	if c, ok := token.Lookup(text); ok {
		return c.Make(line, col)
	}
	return token.NewLiteral(text, token.Qualifier, line, col)
}

// readNumber accumulates digits and at most one '.'.
func (l *Lexer) readNumber() (token.Token, error) {
	line, col := l.line, l.column
	var b strings.Builder
	dots := 0
	for !l.atEnd() && (isDigit(l.peekAt(0)) || l.peekAt(0) == '.') {
		r := l.peekAt(0)
		if r == '.' {
			dots++
			if dots > 1 {
				return token.Token{}, Error{Line: l.line, Message: fmt.Sprintf("invalid number literal %q", b.String()+string(r))}
			}
			// A '.' not followed by a digit ends the number (it may be
			// the start of a property-access postfix).
			if !isDigit(l.peekAt(1)) {
				break
			}
		}
		b.WriteRune(l.advanceRune())
	}
	return token.NewLiteral(b.String(), token.NumberLiteral, line, col), nil
}

// readString accumulates characters until the matching quote,
// processing the standard backslash escapes. A raw newline inside a
// string, or running off the end of input, is a tokenization error.
func (l *Lexer) readString(quote rune, st state) (token.Token, error) {
	line, col := l.line, l.column
	l.advanceRune() // opening quote
	var b strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, Error{Line: l.line, Message: fmt.Sprintf("unterminated %s string literal", st)}
		}
		r := l.peekAt(0)
		if r == '\n' {
			return token.Token{}, Error{Line: l.line, Message: "newline in string literal"}
		}
		if r == quote {
			l.advanceRune()
			break
		}
		if r == '\\' {
			l.advanceRune()
			if l.atEnd() {
				return token.Token{}, Error{Line: l.line, Message: fmt.Sprintf("unterminated %s string literal", st)}
			}
			esc := l.advanceRune()
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case 'b':
				b.WriteRune('\b')
			case '"':
				b.WriteRune('"')
			case '\'':
				b.WriteRune('\'')
			case '\\':
				b.WriteRune('\\')
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(l.advanceRune())
	}
	return token.NewLiteral(b.String(), token.StringLiteral, line, col), nil
}

// readComment consumes a line comment up to, but not including, the
// next newline (or end-of-input) and emits it as a Comment token. The
// newline is left for the next call, which surfaces it as a
// StatementTerminator token.
func (l *Lexer) readComment() (token.Token, error) {
	line, col := l.line, l.column
	l.advanceRune() // leading '#'
	var b strings.Builder
	for !l.atEnd() && l.peekAt(0) != '\n' {
		b.WriteRune(l.advanceRune())
	}
	return token.NewLiteral(b.String(), token.Comment, line, col), nil
}
