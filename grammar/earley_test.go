package grammar

import (
	"errors"
	"strings"
	"testing"
)

func newTestRecognizer(t *testing.T, src, start string) *Recognizer {
	t.Helper()
	g, err := Parse("test", strings.NewReader(src), start)
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	r, err := NewRecognizer(g)
	if err != nil {
		t.Fatalf("NewRecognizer: %v", err)
	}
	return r
}

func TestRecognizer_Arithmetic(t *testing.T) {
	r := newTestRecognizer(t, `
		Expr = Term { ( "+" | "-" ) Term } .
		Term = Factor { "*" Factor } .
		Factor = int_number | "(" Expr ")" .
		int_number = digit { digit } .
		digit = "0" … "9" .
	`, "Expr")

	tests := []struct {
		input string
		ok    bool
	}{
		{"1", true},
		{"1 + 2 * (3 - 4)", true},
		{"((7))", true},
		{"1 +", false},
		{"(1", false},
		{"1 2", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := r.Recognize("Expr", Terminals(tt.input))
			if (err == nil) != tt.ok {
				t.Errorf("Recognize(%q) = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestRecognizer_NullableRepetitions(t *testing.T) {
	r := newTestRecognizer(t, `
		List = "[" [ Items ] "]" .
		Items = Item { "," Item } [ "," ] .
		Item = ident | List .
		ident = letter { letter } .
		letter = "a" … "z" .
	`, "List")

	tests := []struct {
		input string
		ok    bool
	}{
		{"[]", true},
		{"[a]", true},
		{"[a, [b,], c]", true},
		{"[[[]]]", true},
		{"[a,,]", false},
		{"[,]", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := r.Recognize("List", Terminals(tt.input))
			if (err == nil) != tt.ok {
				t.Errorf("Recognize(%q) = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestRecognizer_JointPunctuation(t *testing.T) {
	r := newTestRecognizer(t, `
		Path = ident { "::" ident } .
		ident = letter { letter } .
		letter = "a" … "z" .
	`, "Path")

	if err := r.Recognize("Path", Terminals("a::b::c")); err != nil {
		t.Errorf("a::b::c: %v", err)
	}

	err := r.Recognize("Path", Terminals("a: :b"))
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("a: :b: got %v, want a *SyntaxError", err)
	}
	if syntaxErr.Offset != 1 || syntaxErr.Found != ":" {
		t.Errorf("error at %d %q, want 1 \":\"", syntaxErr.Offset, syntaxErr.Found)
	}
	if len(syntaxErr.Expected) != 1 || syntaxErr.Expected[0] != `"::"` {
		t.Errorf("Expected = %v", syntaxErr.Expected)
	}
}

func TestRecognizer_EndOfInput(t *testing.T) {
	r := newTestRecognizer(t, `
		Pair = "(" ident "," ident ")" .
		ident = letter { letter } .
		letter = "a" … "z" .
	`, "Pair")

	err := r.Recognize("Pair", Terminals("(a, b"))
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("got %v, want a *SyntaxError", err)
	}
	if syntaxErr.Offset != -1 || !strings.Contains(err.Error(), "end of input") {
		t.Errorf("error = %v", err)
	}
}

func TestRecognizer_UnknownStart(t *testing.T) {
	r := newTestRecognizer(t, `S = "x" .`, "S")
	if err := r.Recognize("T", Terminals("x")); err == nil {
		t.Error("expected an error for an undefined start production")
	}
}

func TestNewRecognizer_MissingTokenClass(t *testing.T) {
	g, err := Parse("test", strings.NewReader(`
		S = number .
		number = "0" … "9" .
	`), "S")
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	if _, err := NewRecognizer(g); err == nil {
		t.Error("expected an error for a lexical production without a token class")
	}
}
