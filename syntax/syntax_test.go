package syntax

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/rsyn/parser"
)

func TestParseDump(t *testing.T) {
	tree := Parse("fn f() {}")
	want := `SourceFile@0..9
  Fn@0..9
    FnKw@0..2 "fn"
    Whitespace@2..3 " "
    Name@3..4
      Ident@3..4 "f"
    ParamList@4..6
      LParen@4..5 "("
      RParen@5..6 ")"
    Whitespace@6..7 " "
    BlockExpr@7..9
      LCurly@7..8 "{"
      RCurly@8..9 "}"
`
	if got := tree.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestParseCoversInput(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"// only a comment\n",
		"fn main() {\n    let x = 1 + 2 * 3;\n    println!(\"{}\", x);\n}\n",
		"struct S { a: u8, b: Vec<String> }\nimpl S { fn new() -> Self { todo!() } }",
		"fn f( {",
		"}}}{{{",
		"fn f() { \"unterminated }",
		"#!/usr/bin/env run\nuse a::{b, c as d};",
		"€ fn ☃",
		"/* open comment",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			checkTree(t, Parse(input), input)
		})
	}
}

func TestParseRandomBytes(t *testing.T) {
	alphabet := []string{"fn", " ", "{", "}", "(", ")", "x", "1", "'a", "\"", "::", ";", "<", ">", "=", "\n", "//", "/*", "let", "match", "=>", ",", "#", "!", "[", "]", "r#", "b'"}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		var sb strings.Builder
		n := rng.Intn(40)
		for j := 0; j < n; j++ {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		input := sb.String()
		checkTree(t, Parse(input), input)
	}
}

func TestParseEntryPoints(t *testing.T) {
	tests := []struct {
		input string
		entry parser.EntryPoint
		root  parser.SyntaxKind
		errs  int
	}{
		{"1 + 2", parser.Expr, parser.KindBinExpr, 0},
		{"  a.b()  ", parser.Expr, parser.KindMethodCallExpr, 0},
		{"", parser.Expr, parser.KindError, 1},
		{"a b", parser.Expr, parser.KindError, 1},
		{"Vec<u8>", parser.Type, parser.KindPathType, 0},
		{"(a, _)", parser.Pattern, parser.KindTuplePat, 0},
		{"{ x }", parser.Block, parser.KindBlockExpr, 0},
		{"pub(crate)", parser.Visibility, parser.KindVisibility, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree := Parse(tt.input, WithEntryPoint(tt.entry))
			checkTree(t, tree, tt.input)
			if tree.Root.Kind != tt.root {
				t.Errorf("root = %v, want %v\n%s", tree.Root.Kind, tt.root, tree)
			}
			if len(tree.Errors) != tt.errs {
				t.Errorf("got %d errors %v, want %d", len(tree.Errors), tree.Errors, tt.errs)
			}
			if tree.Entry != tt.entry {
				t.Errorf("Entry = %v, want %v", tree.Entry, tt.entry)
			}
		})
	}
}

func TestTriviaAttachment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		inItem   bool
		itemKind parser.SyntaxKind
	}{
		{"comment above fn", "// c\nfn f() {}", true, parser.KindFn},
		{"blank line breaks", "// c\n\nfn f() {}", false, parser.KindFn},
		{"doc comment across blank line", "/// doc\n\nfn f() {}", true, parser.KindFn},
		{"inner doc stays outside", "//! crate docs\nfn f() {}", false, parser.KindFn},
		{"comment above struct", "/* c */ struct S;", true, parser.KindStruct},
		{"comment above use", "// c\nuse a;", true, parser.KindUse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse(tt.input)
			checkTree(t, tree, tt.input)
			item := tree.Root.FirstChildOfKind(tt.itemKind)
			if item == nil {
				t.Fatalf("no %v in\n%s", tt.itemKind, tree)
			}
			got := item.FirstChild().Kind == parser.TokenComment
			if got != tt.inItem {
				t.Errorf("comment inside item = %v, want %v\n%s", got, tt.inItem, tree)
			}
		})
	}
}

func TestTrailingTriviaInRoot(t *testing.T) {
	input := "fn f() {} // done\n"
	tree := Parse(input)
	checkTree(t, tree, input)
	children := tree.Root.Children
	last := children[len(children)-1]
	if last.Kind != parser.TokenWhitespace || last.Text != "\n" {
		t.Errorf("last root child = %v %q, want trailing newline", last.Kind, last.Text)
	}
	if tree.Root.FirstChildOfKind(parser.TokenComment) == nil {
		t.Errorf("trailing comment not attached to root\n%s", tree)
	}
}

func TestLexerErrorsReported(t *testing.T) {
	input := "fn f() { \"open }"
	tree := Parse(input)
	var found bool
	for _, err := range tree.Errors {
		if strings.HasPrefix(err.Message, "Missing trailing `\"`") {
			found = true
			if err.Range != (TextRange{Start: 9, End: len(input)}) {
				t.Errorf("lexer error range = %s, want 9..%d", err.Range, len(input))
			}
		}
	}
	if !found {
		t.Errorf("no lexer error in %v", tree.Errors)
	}
}

func TestApply(t *testing.T) {
	const src = "fn main() {\n    let x = foo;\n    call(\"str\");\n}\nstruct"
	at := strings.Index

	tests := []struct {
		name string
		edit Edit
		want Reparse
	}{
		{
			name: "extend identifier",
			edit: Edit{Delete: TextRange{at(src, "foo") + 3, at(src, "foo") + 3}, Insert: "bar"},
			want: ReparsedToken,
		},
		{
			name: "rename identifier",
			edit: Edit{Delete: TextRange{at(src, "foo"), at(src, "foo") + 3}, Insert: "baz"},
			want: ReparsedToken,
		},
		{
			name: "widen whitespace",
			edit: Edit{Delete: TextRange{at(src, "let") - 1, at(src, "let") - 1}, Insert: "  "},
			want: ReparsedToken,
		},
		{
			name: "edit string",
			edit: Edit{Delete: TextRange{at(src, "str"), at(src, "str") + 3}, Insert: "hello world"},
			want: ReparsedToken,
		},
		{
			name: "expression in block",
			edit: Edit{Delete: TextRange{at(src, "foo"), at(src, "foo") + 3}, Insert: "1 + 2"},
			want: ReparsedNode,
		},
		{
			name: "new statement",
			edit: Edit{Delete: TextRange{at(src, "call"), at(src, "call")}, Insert: "if a { b } "},
			want: ReparsedNode,
		},
		{
			name: "identifier becomes keyword",
			edit: Edit{Delete: TextRange{at(src, "foo"), at(src, "foo") + 3}, Insert: "loop"},
			want: ReparsedNode,
		},
		{
			name: "contextual keyword",
			edit: Edit{Delete: TextRange{at(src, "foo"), at(src, "foo") + 3}, Insert: "union"},
			want: ReparsedNode,
		},
		{
			name: "remove closing brace",
			edit: Edit{Delete: TextRange{at(src, "}"), at(src, "}") + 1}},
			want: ReparsedFull,
		},
		{
			name: "unbalanced insert",
			edit: Edit{Delete: TextRange{at(src, "foo"), at(src, "foo")}, Insert: "{"},
			want: ReparsedFull,
		},
		{
			name: "newline removed from whitespace",
			edit: Edit{Delete: TextRange{at(src, "\n    let"), at(src, "\n    let") + 1}},
			want: ReparsedNode,
		},
		{
			name: "outside any block",
			edit: Edit{Delete: TextRange{at(src, "main"), at(src, "main") + 4}, Insert: "start"},
			want: ReparsedToken,
		},
		{
			name: "rename fn into keyword",
			edit: Edit{Delete: TextRange{at(src, "main"), at(src, "main") + 4}, Insert: "mod"},
			want: ReparsedFull,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse(src, WithFile("main.rs"))
			got, err := tree.Apply(tt.edit)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply = %v, want %v", got, tt.want)
			}

			text := tt.edit.apply(src)
			fresh := Parse(text, WithFile("main.rs"))
			if tree.Text() != text {
				t.Errorf("Text() = %q, want %q", tree.Text(), text)
			}
			if tree.Root.String() != fresh.Root.String() {
				t.Errorf("incremental tree differs from full parse\ngot:\n%s\nwant:\n%s", tree.Root, fresh.Root)
			}
			if !reflect.DeepEqual(tree.Errors, fresh.Errors) {
				t.Errorf("errors = %v, want %v", tree.Errors, fresh.Errors)
			}
			checkTree(t, tree, text)
		})
	}
}

func TestApplySequence(t *testing.T) {
	tree := Parse("fn f() {}")
	steps := []string{"l", "e", "t", " ", "x", " ", "=", " ", "1", ";"}
	offset := 8
	for _, s := range steps {
		if _, err := tree.Apply(Edit{Delete: TextRange{offset, offset}, Insert: s}); err != nil {
			t.Fatalf("Apply(%q): %v", s, err)
		}
		offset += len(s)
		fresh := Parse(tree.Text())
		if tree.Root.String() != fresh.Root.String() {
			t.Fatalf("after typing %q:\ngot:\n%s\nwant:\n%s", tree.Text(), tree.Root, fresh.Root)
		}
	}
	if tree.Text() != "fn f() {let x = 1;}" {
		t.Errorf("Text() = %q", tree.Text())
	}
}

func TestApplyClosingBrace(t *testing.T) {
	tests := []struct {
		src    string
		offset int
	}{
		{"aa{=", 4},
		{"fn f() { x", 10},
		{"fn f() { g(1, { 2 }", 19},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree := Parse(tt.src)
			edit := Edit{Delete: TextRange{tt.offset, tt.offset}, Insert: "}"}
			if _, err := tree.Apply(edit); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			fresh := Parse(edit.apply(tt.src))
			if !reflect.DeepEqual(tree.Errors, fresh.Errors) {
				t.Errorf("errors = %v, want %v", tree.Errors, fresh.Errors)
			}
			if tree.Root.String() != fresh.Root.String() {
				t.Errorf("incremental tree differs from full parse\ngot:\n%s\nwant:\n%s", tree.Root, fresh.Root)
			}
		})
	}
}

func TestApplyOutOfRange(t *testing.T) {
	tree := Parse("fn f() {}")
	tests := []TextRange{{-1, 0}, {3, 2}, {0, 100}}
	for _, r := range tests {
		if _, err := tree.Apply(Edit{Delete: r}); err == nil {
			t.Errorf("Apply(%s) succeeded, want error", r)
		}
	}
}

func TestCoveringElement(t *testing.T) {
	tree := Parse("fn f() { x }")
	tests := []struct {
		r    TextRange
		kind parser.SyntaxKind
	}{
		{TextRange{9, 10}, parser.TokenIdent},
		{TextRange{3, 3}, parser.TokenWhitespace},
		{TextRange{7, 12}, parser.KindBlockExpr},
		{TextRange{0, 12}, parser.KindFn},
		{TextRange{2, 5}, parser.KindFn},
	}
	for _, tt := range tests {
		got := tree.Root.CoveringElement(tt.r)
		if got == nil || got.Kind != tt.kind {
			t.Errorf("CoveringElement(%s) = %v, want %v", tt.r, got, tt.kind)
		}
	}
	if tree.Root.CoveringElement(TextRange{0, 50}) != nil {
		t.Error("CoveringElement outside the tree should be nil")
	}
}

func TestTokenAt(t *testing.T) {
	tree := Parse("fn f() { x }")
	tests := []struct {
		offset int
		text   string
	}{
		{0, "fn"},
		{1, "fn"},
		{2, " "},
		{9, "x"},
		{11, "}"},
	}
	for _, tt := range tests {
		tok := tree.Root.TokenAt(tt.offset)
		if tok == nil || tok.Text != tt.text {
			t.Errorf("TokenAt(%d) = %v, want %q", tt.offset, tok, tt.text)
		}
	}
}

func TestJSONEncoder(t *testing.T) {
	tree := Parse("fn f() {", WithFile("a.rs"))
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(tree); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded struct {
		File  string `json:"file"`
		Entry string `json:"entry"`
		Root  struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind string `json:"kind"`
			} `json:"children"`
		} `json:"root"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, buf.String())
	}
	if decoded.File != "a.rs" || decoded.Entry != "source-file" {
		t.Errorf("file/entry = %q/%q", decoded.File, decoded.Entry)
	}
	if decoded.Root.Kind != "SourceFile" || len(decoded.Root.Children) != 1 || decoded.Root.Children[0].Kind != "Fn" {
		t.Errorf("unexpected root %+v", decoded.Root)
	}
	if len(decoded.Errors) != 1 || decoded.Errors[0].Message != "expected `}`" {
		t.Errorf("errors = %+v, want [expected `}`]", decoded.Errors)
	}
}

// checkTree verifies that the tree spans exactly src and that every range
// is consistent with its children.
func checkTree(t *testing.T, tree *Tree, src string) {
	t.Helper()
	if got := tree.Root.SourceText(); got != src {
		t.Fatalf("tree text = %q, want %q\n%s", got, src, tree)
	}
	if tree.Root.Range != (TextRange{0, len(src)}) {
		t.Fatalf("root range = %s, want 0..%d", tree.Root.Range, len(src))
	}
	if tree.Root.Parent != nil {
		t.Fatalf("root has a parent")
	}
	tree.Root.Walk(func(n *Node) bool {
		if n.IsToken() {
			if n.Range.Len() != len(n.Text) || len(n.Children) != 0 {
				t.Fatalf("bad token %v@%s %q", n.Kind, n.Range, n.Text)
			}
			return false
		}
		offset := n.Range.Start
		for _, c := range n.Children {
			if c.Parent != n {
				t.Fatalf("%v has wrong parent", c.Kind)
			}
			if c.Range.Start != offset {
				t.Fatalf("%v starts at %d, want %d\n%s", c.Kind, c.Range.Start, offset, tree)
			}
			offset = c.Range.End
		}
		if offset != n.Range.End {
			t.Fatalf("%v ends at %d, children end at %d", n.Kind, n.Range.End, offset)
		}
		return true
	})
	for _, err := range tree.Errors {
		if err.Range.Start < 0 || err.Range.End > len(src) {
			t.Fatalf("error %q at %s outside text", err.Message, err.Range)
		}
	}
}
