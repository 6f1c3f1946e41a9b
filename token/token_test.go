package token

import "testing"

func TestLookupLongestMatchOrdering(t *testing.T) {
	// Canonical must be sorted by descending value length so a
	// longest-match scan never stops at "<" when "<=" is available.
	for i := 1; i < len(Canonical); i++ {
		if len(Canonical[i].value) > len(Canonical[i-1].value) {
			t.Fatalf("Canonical not sorted by descending length at index %d: %q before %q", i, Canonical[i-1].value, Canonical[i].value)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"if", true},
		{"let", true},
		{"function", true},
		{"xor", true},
		{"myVar", false},
		{"iffy", false},
	}
	for _, tt := range tests {
		if got := IsKeyword(tt.value); got != tt.want {
			t.Errorf("IsKeyword(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestCanonicalMultiKind(t *testing.T) {
	c, ok := Lookup("-")
	if !ok {
		t.Fatal("expected '-' to be canonical")
	}
	if !c.kinds.Has(BinaryArithmetic) || !c.kinds.Has(UnaryArithmetic) {
		t.Errorf("'-' should be both BinaryArithmetic and UnaryArithmetic, got %v", c.kinds)
	}
}

func TestExponentRightAssociative(t *testing.T) {
	c, ok := Lookup("^")
	if !ok {
		t.Fatal("expected '^' to be canonical")
	}
	if !c.rightAssociative {
		t.Error("'^' should be right-associative")
	}
	if c.precedence != 8 {
		t.Errorf("'^' precedence = %d, want 8", c.precedence)
	}
}

func TestPrecedenceTable(t *testing.T) {
	tests := map[string]int{
		"^": 8, "*": 7, "/": 7, "%": 7,
		"+": 6, "-": 6,
		"<<": 5, ">>": 5,
		"<": 4, "<=": 4, ">": 4, ">=": 4,
		"==": 3, "!=": 3,
		"&": 2, "|": 2, "xor": 2,
		"and": 1, "or": 1,
	}
	for value, want := range tests {
		c, ok := Lookup(value)
		if !ok {
			t.Fatalf("expected %q to be canonical", value)
		}
		if c.precedence != want {
			t.Errorf("Lookup(%q).precedence = %d, want %d", value, c.precedence, want)
		}
	}
}

func TestNewLiteralSingleKind(t *testing.T) {
	tok := NewLiteral("myVar", Qualifier, 1, 0)
	if !tok.Is(Qualifier) {
		t.Errorf("expected Qualifier kind, got %v", tok.Kinds)
	}
	if tok.Is(Keyword) {
		t.Error("qualifier should not be a keyword")
	}
}
