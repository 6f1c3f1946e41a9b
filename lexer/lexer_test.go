package lexer

import (
	"smg/token"
	"testing"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := New(src).Tokens()
	if err != nil {
		t.Fatalf("Tokens() error: %v", err)
	}
	return toks
}

func values(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Value
	}
	return out
}

func TestOperatorsLongestMatch(t *testing.T) {
	toks := scanAll(t, "==/=*+>-<!=<=>=!!")
	want := []string{"==", "/=", "*", "+", ">", "-", "<", "!=", "<=", ">=", "!", "!", token.EOT}
	got := values(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPunctuationAndBraces(t *testing.T) {
	toks := scanAll(t, "(){}**;+!=<=")
	want := []string{"(", ")", "{", "}", "*", "*", ";", "+", "!=", "<=", token.EOT}
	got := values(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeywordsAreMaximalMunch(t *testing.T) {
	toks := scanAll(t, "iffy if")
	if !toks[0].Is(token.Qualifier) {
		t.Errorf("expected 'iffy' to be a Qualifier, got kinds %v", toks[0].Kinds)
	}
	if toks[0].Value != "iffy" {
		t.Errorf("expected 'iffy' lexeme preserved, got %q", toks[0].Value)
	}
	if !toks[1].Is(token.Keyword) {
		t.Errorf("expected 'if' to be a Keyword, got kinds %v", toks[1].Kinds)
	}
}

func TestNumberLiteral(t *testing.T) {
	toks := scanAll(t, "42 3.14")
	if toks[0].Value != "42" || !toks[0].Is(token.NumberLiteral) {
		t.Errorf("unexpected first token: %v", toks[0])
	}
	if toks[1].Value != "3.14" || !toks[1].Is(token.NumberLiteral) {
		t.Errorf("unexpected second token: %v", toks[1])
	}
}

func TestNumberWithTrailingDotIsPropertyAccess(t *testing.T) {
	toks := scanAll(t, "1.size")
	if toks[0].Value != "1" {
		t.Errorf("expected '1' split from trailing dot, got %q", toks[0].Value)
	}
	if toks[1].Value != "." {
		t.Errorf("expected '.' token, got %q", toks[1].Value)
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tc"`)
	if toks[0].Value != "a\nb\tc" {
		t.Errorf("got %q", toks[0].Value)
	}
	if !toks[0].Is(token.StringLiteral) {
		t.Errorf("expected StringLiteral kind, got %v", toks[0].Kinds)
	}
}

func TestSingleQuoteStringLiteral(t *testing.T) {
	toks := scanAll(t, `'hi'`)
	if toks[0].Value != "hi" {
		t.Errorf("got %q", toks[0].Value)
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	_, err := New(`"unterminated`).Tokens()
	if err == nil {
		t.Fatal("expected an error for unterminated string")
	}
}

func TestNewlineInStringIsError(t *testing.T) {
	_, err := New("\"broken\nstring\"").Tokens()
	if err == nil {
		t.Fatal("expected an error for a raw newline inside a string")
	}
}

func TestLineComment(t *testing.T) {
	toks := scanAll(t, "let x = 1 # comment\nx")
	var sawComment bool
	for _, tok := range toks {
		if tok.Is(token.Comment) {
			sawComment = true
			if tok.Value != " comment" {
				t.Errorf("comment text = %q", tok.Value)
			}
		}
	}
	if !sawComment {
		t.Error("expected a Comment token")
	}
}

func TestNewlineIsStatementTerminator(t *testing.T) {
	toks := scanAll(t, "let x = 1\nlet y = 2")
	var sawNewline bool
	for _, tok := range toks {
		if tok.Value == "\n" {
			sawNewline = true
			if !tok.Is(token.StatementTerminator) {
				t.Errorf("newline token missing StatementTerminator kind: %v", tok.Kinds)
			}
		}
	}
	if !sawNewline {
		t.Error("expected a newline token")
	}
}

func TestUnexpectedCharacterIsError(t *testing.T) {
	_, err := New("let x = @").Tokens()
	if err == nil {
		t.Fatal("expected an error for an unrecognised character")
	}
}

func TestResetRewindsCursor(t *testing.T) {
	lex := New("1 + 2")
	first, _ := lex.Tokens()
	lex.Reset()
	second, _ := lex.Tokens()
	if len(first) != len(second) {
		t.Fatalf("token counts differ after reset: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Value != second[i].Value {
			t.Errorf("token %d differs after reset: %q vs %q", i, first[i].Value, second[i].Value)
		}
	}
}
