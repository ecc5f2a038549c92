package lexer

import (
	"strings"
	"testing"

	"github.com/dhamidi/rsyn/parser"
)

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("fn main() {}"), "main.rs")
	pos := lexer.Position()

	if pos.File != "main.rs" {
		t.Errorf("File = %q, want %q", pos.File, "main.rs")
	}
	if pos.Line != 1 || pos.Column != 1 || pos.Offset != 0 {
		t.Errorf("Position = %+v, want line 1 column 1 offset 0", pos)
	}
}

func TestLexerSingleTokens(t *testing.T) {
	tests := []struct {
		input string
		kind  parser.SyntaxKind
	}{
		{"fn", parser.TokenFn},
		{"struct", parser.TokenStruct},
		{"self", parser.TokenSelf},
		{"union", parser.TokenIdent},
		{"foo", parser.TokenIdent},
		{"_foo", parser.TokenIdent},
		{"_", parser.TokenUnderscore},
		{"r#match", parser.TokenIdent},
		{"héllo", parser.TokenIdent},
		{"'a", parser.TokenLifetimeIdent},
		{"'static", parser.TokenLifetimeIdent},
		{"'a'", parser.TokenChar},
		{"'\\n'", parser.TokenChar},
		{"'\\''", parser.TokenChar},
		{"'é'", parser.TokenChar},
		{"b'x'", parser.TokenByte},
		{`"hello"`, parser.TokenString},
		{`"esc \" quote"`, parser.TokenString},
		{"\"multi\nline\"", parser.TokenString},
		{`r"raw"`, parser.TokenString},
		{`r#"has "quotes""#`, parser.TokenString},
		{`b"bytes"`, parser.TokenByteString},
		{`br#"raw bytes"#`, parser.TokenByteString},
		{"42", parser.TokenIntNumber},
		{"1_000u64", parser.TokenIntNumber},
		{"0xFF", parser.TokenIntNumber},
		{"0b1010", parser.TokenIntNumber},
		{"0o77", parser.TokenIntNumber},
		{"1.5", parser.TokenFloatNumber},
		{"1.", parser.TokenFloatNumber},
		{"1e10", parser.TokenFloatNumber},
		{"2.5E-3", parser.TokenFloatNumber},
		{"1f32", parser.TokenFloatNumber},
		{"// line", parser.TokenComment},
		{"/// doc", parser.TokenComment},
		{"/* a /* nested */ b */", parser.TokenComment},
		{" \t\n", parser.TokenWhitespace},
		{";", parser.TokenSemicolon},
		{"#", parser.TokenPound},
		{"€", parser.TokenError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize([]byte(tt.input), "test.rs")
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens %v, want 1", len(tokens), kinds(tokens))
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, tt.kind)
			}
			if tokens[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tokens[0].Literal, tt.input)
			}
		})
	}
}

func TestLexerSequences(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1..2", "IntNumber Dot Dot IntNumber"},
		{"x.0.1", "Ident Dot FloatNumber"},
		{"1.foo()", "IntNumber Dot Ident LParen RParen"},
		{"a::b", "Ident Colon Colon Ident"},
		{"'a: loop", "LifetimeIdent Colon Whitespace LoopKw"},
		{"#![attr]", "Pound Bang LBrack Ident RBrack"},
		{"#!/usr/bin/env rust\nfn", "Shebang Whitespace FnKw"},
		{"x>>=1", "Ident RAngle RAngle Eq IntNumber"},
		{"&'a str", "Amp LifetimeIdent Whitespace Ident"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := strings.Join(kinds(Tokenize([]byte(tt.input), "")), " ")
			if got != tt.want {
				t.Errorf("kinds = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  parser.SyntaxKind
		msg   string
	}{
		{`"open`, parser.TokenString, "Missing trailing `\"` symbol to terminate the string literal"},
		{`'x`, parser.TokenLifetimeIdent, ""},
		{`'\n`, parser.TokenChar, "Missing trailing `'` symbol to terminate the character literal"},
		{"/* open", parser.TokenComment, "Missing trailing `*/` symbols to terminate the block comment"},
		{"0x", parser.TokenIntNumber, "Missing digits after the integer base prefix"},
		{`r#"open`, parser.TokenString, "Missing trailing `\"` with `#` symbols to terminate the raw string literal"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize([]byte(tt.input), "")
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens %v, want 1", len(tokens), kinds(tokens))
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, tt.kind)
			}
			if tokens[0].Error != tt.msg {
				t.Errorf("Error = %q, want %q", tokens[0].Error, tt.msg)
			}
		})
	}
}

func TestLexerCoversInput(t *testing.T) {
	inputs := []string{
		"fn main() {\n    let x = \"s\"; // done\n}\n",
		"\xff\xfe garbage \x00",
		"'",
		"b'",
		"r#",
		"0b",
	}
	for _, input := range inputs {
		tokens := Tokenize([]byte(input), "")
		var sb strings.Builder
		offset := 0
		for _, tok := range tokens {
			if tok.Span.Start.Offset != offset {
				t.Fatalf("%q: token %v starts at %d, want %d", input, tok.Kind, tok.Span.Start.Offset, offset)
			}
			if tok.Len() == 0 {
				t.Fatalf("%q: empty token %v", input, tok.Kind)
			}
			offset = tok.Span.End.Offset
			sb.WriteString(tok.Literal)
		}
		if sb.String() != input {
			t.Errorf("concatenated tokens = %q, want %q", sb.String(), input)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := Tokenize([]byte("fn\n  foo"), "a.rs")
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	foo := tokens[2]
	if foo.Span.Start.Line != 2 || foo.Span.Start.Column != 3 {
		t.Errorf("foo at %d:%d, want 2:3", foo.Span.Start.Line, foo.Span.Start.Column)
	}
	if foo.Span.Start.File != "a.rs" {
		t.Errorf("File = %q, want a.rs", foo.Span.Start.File)
	}
}

func TestTokenSource(t *testing.T) {
	tokens := Tokenize([]byte("a :: b>>= union"), "")
	src, index := TokenSource(tokens)

	want := []parser.SyntaxKind{
		parser.TokenIdent, parser.TokenColon, parser.TokenColon, parser.TokenIdent,
		parser.TokenRAngle, parser.TokenRAngle, parser.TokenEq, parser.TokenIdent,
	}
	if src.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", src.Len(), len(want))
	}
	for i, k := range want {
		if src.Kind(i) != k {
			t.Errorf("Kind(%d) = %v, want %v", i, src.Kind(i), k)
		}
	}

	joint := []bool{false, true, false, true, true, true, false, false}
	for i, j := range joint {
		if src.IsJoint(i) != j {
			t.Errorf("IsJoint(%d) = %v, want %v", i, src.IsJoint(i), j)
		}
	}

	if !src.IsKeyword(7, "union") {
		t.Error("IsKeyword(7, union) = false, want true")
	}
	if src.IsKeyword(0, "union") {
		t.Error("IsKeyword(0, union) = true, want false")
	}
	if tokens[index[3]].Literal != "b" {
		t.Errorf("index[3] points at %q, want b", tokens[index[3]].Literal)
	}
}

func kinds(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind.String()
	}
	return out
}
