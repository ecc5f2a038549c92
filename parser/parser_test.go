package parser

import (
	"math/rand"
	"slices"
	"strings"
	"testing"
)

// lex is a minimal tokenizer for tests: identifiers, keywords, lifetimes,
// numbers, strings and single-character punctuation. Punctuation directly
// followed by more punctuation is joint.
func lex(src string) *Tokens {
	t := &Tokens{}
	isIdent := func(c byte) bool {
		return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
	}
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\n' || c == '\t':
			i++
		case isDigit(c):
			j, kind := i, TokenIntNumber
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			if j+1 < len(src) && src[j] == '.' && isDigit(src[j+1]) {
				kind = TokenFloatNumber
				for j++; j < len(src) && isDigit(src[j]); j++ {
				}
			}
			t.Push(kind)
			i = j
		case c != '_' && isIdent(c) || c == '_' && i+1 < len(src) && isIdent(src[i+1]):
			j := i
			for j < len(src) && isIdent(src[j]) {
				j++
			}
			word := src[i:j]
			if kind := LookupKeyword(word); kind != TokenIdent {
				t.Push(kind)
			} else {
				t.PushIdent(word)
			}
			i = j
		case c == '\'':
			j := i + 1
			for j < len(src) && isIdent(src[j]) {
				j++
			}
			t.Push(TokenLifetimeIdent)
			i = j
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				j++
			}
			t.Push(TokenString)
			i = j + 1
		default:
			kind := PunctKind(c)
			if kind == Tombstone {
				kind = TokenError
			}
			t.Push(kind)
			i++
			if i < len(src) && PunctKind(src[i]) != Tombstone {
				t.WasJoint()
			}
		}
	}
	return t
}

type node struct {
	kind     SyntaxKind
	children []*node
	// n is the number of raw tokens a token leaf spans.
	n int
}

func (n *node) String() string {
	if len(n.children) == 0 && n.kind.IsToken() {
		return n.kind.String()
	}
	var b strings.Builder
	b.WriteString("(" + n.kind.String())
	for _, c := range n.children {
		b.WriteString(" " + c.String())
	}
	b.WriteString(")")
	return b.String()
}

// find returns the first node of kind in depth-first order.
func (n *node) find(kind SyntaxKind) *node {
	if n.kind == kind {
		return n
	}
	for _, c := range n.children {
		if f := c.find(kind); f != nil {
			return f
		}
	}
	return nil
}

func (n *node) tokenCount() int {
	if n.kind.IsToken() {
		return n.n
	}
	total := 0
	for _, c := range n.children {
		total += c.tokenCount()
	}
	return total
}

// recordingSink builds a tree and records every shape violation.
type recordingSink struct {
	roots      []*node
	stack      []*node
	tokens     int
	looseToken bool
	unbalanced bool
	errors     []ParseError
}

func (s *recordingSink) StartNode(kind SyntaxKind) {
	n := &node{kind: kind}
	if len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		top.children = append(top.children, n)
	} else {
		s.roots = append(s.roots, n)
	}
	s.stack = append(s.stack, n)
}

func (s *recordingSink) FinishNode() {
	if len(s.stack) == 0 {
		s.unbalanced = true
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *recordingSink) Token(kind SyntaxKind, n int) {
	s.tokens += n
	if len(s.stack) == 0 {
		s.looseToken = true
		return
	}
	top := s.stack[len(s.stack)-1]
	top.children = append(top.children, &node{kind: kind, n: n})
}

func (s *recordingSink) Error(err ParseError) {
	s.errors = append(s.errors, err)
}

func (s *recordingSink) root() *node {
	if len(s.roots) == 0 {
		return nil
	}
	return s.roots[0]
}

func parse(t *testing.T, src string, entry EntryPoint) *recordingSink {
	t.Helper()
	tokens := lex(src)
	sink := &recordingSink{}
	Parse(tokens, sink, entry)
	checkShape(t, sink, tokens.Len())
	return sink
}

func checkShape(t *testing.T, sink *recordingSink, nTokens int) {
	t.Helper()
	if sink.unbalanced || len(sink.stack) != 0 {
		t.Errorf("unbalanced StartNode/FinishNode (open=%d)", len(sink.stack))
	}
	if len(sink.roots) != 1 {
		t.Errorf("got %d root nodes, want 1", len(sink.roots))
	}
	if sink.looseToken {
		t.Errorf("token outside of any node")
	}
	if sink.tokens != nTokens {
		t.Errorf("sink consumed %d tokens, input has %d", sink.tokens, nTokens)
	}
}

func errorMessages(errs []ParseError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

const pathExprTree = "(PathExpr (Path (PathSegment (NameRef Ident))))"

func TestParseExprPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b * c - d",
			"(BinExpr (BinExpr " + pathExprTree + " Plus (BinExpr " + pathExprTree + " Star " + pathExprTree + ")) Minus " + pathExprTree + ")"},
		{"a || b && c",
			"(BinExpr " + pathExprTree + " Pipe2 (BinExpr " + pathExprTree + " Amp2 " + pathExprTree + "))"},
		{"a = b = c",
			"(BinExpr " + pathExprTree + " Eq (BinExpr " + pathExprTree + " Eq " + pathExprTree + "))"},
		{"-a * b",
			"(BinExpr (PrefixExpr Minus " + pathExprTree + ") Star " + pathExprTree + ")"},
		{"a << b >= c",
			"(BinExpr (BinExpr " + pathExprTree + " Shl " + pathExprTree + ") GtEq " + pathExprTree + ")"},
		{"a..b",
			"(RangeExpr " + pathExprTree + " Dot2 " + pathExprTree + ")"},
		{"a..",
			"(RangeExpr " + pathExprTree + " Dot2)"},
		{"..",
			"(RangeExpr Dot2)"},
		{"a as b + c",
			"(BinExpr (CastExpr " + pathExprTree + " AsKw (PathType (Path (PathSegment (NameRef Ident))))) Plus " + pathExprTree + ")"},
		{"a += 1",
			"(BinExpr " + pathExprTree + " PlusEq (Literal IntNumber))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sink := parse(t, tt.input, Expr)
			if len(sink.errors) != 0 {
				t.Errorf("unexpected errors: %v", errorMessages(sink.errors))
			}
			if got := sink.root().String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParsePostfix(t *testing.T) {
	tests := []struct {
		input string
		kind  SyntaxKind
	}{
		{"f(1, 2)", KindCallExpr},
		{"a[0]", KindIndexExpr},
		{"a.b", KindFieldExpr},
		{"a.0", KindFieldExpr},
		{"a.0.1", KindFieldExpr},
		{"a.b()", KindMethodCallExpr},
		{"a.b::<u8>()", KindMethodCallExpr},
		{"a?", KindTryExpr},
		{"a.await", KindAwaitExpr},
		{"S { x: 1, ..d }", KindRecordExpr},
		{"m!(a b c)", KindMacroCall},
		{"&mut a", KindRefExpr},
		{"*a", KindPrefixExpr},
		{"(a)", KindParenExpr},
		{"(a,)", KindTupleExpr},
		{"()", KindTupleExpr},
		{"[a; 4]", KindArrayExpr},
		{"|x| x + 1", KindClosureExpr},
		{"move || -> u8 { 1 }", KindClosureExpr},
		{"if a { b } else if c { d } else { e }", KindIfExpr},
		{"if let Some(x) = y { x }", KindIfExpr},
		{"while a {}", KindWhileExpr},
		{"'l: loop { break 'l 1 }", KindLoopExpr},
		{"for x in 0..n {}", KindForExpr},
		{"match x { 0 => a, _ if b => {} }", KindMatchExpr},
		{"unsafe { a }", KindEffectExpr},
		{"async move { a }", KindEffectExpr},
		{"try { a }", KindEffectExpr},
		{"try!(a)", KindMacroCall},
		{"box a", KindBoxExpr},
		{"return a", KindReturnExpr},
		{"continue", KindContinueExpr},
		{"true", KindLiteral},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sink := parse(t, tt.input, Expr)
			if len(sink.errors) != 0 {
				t.Errorf("unexpected errors: %v", errorMessages(sink.errors))
			}
			if got := sink.root().kind; got != tt.kind {
				t.Errorf("root kind: got %v, want %v (%s)", got, tt.kind, sink.root())
			}
		})
	}
}

func TestParseReturnWithoutValue(t *testing.T) {
	sink := parse(t, "fn foo() -> i8 { return }", SourceFile)
	if len(sink.errors) != 0 {
		t.Fatalf("unexpected errors: %v", errorMessages(sink.errors))
	}
	root := sink.root()
	if root.kind != KindSourceFile || len(root.children) != 1 || root.children[0].kind != KindFn {
		t.Fatalf("want one Fn in SourceFile, got %s", root)
	}
	ret := root.find(KindReturnExpr)
	if ret == nil {
		t.Fatalf("no ReturnExpr in %s", root)
	}
	if got := ret.String(); got != "(ReturnExpr ReturnKw)" {
		t.Errorf("got %s, want (ReturnExpr ReturnKw)", got)
	}
	if block := root.find(KindBlockExpr); block.find(KindExprStmt) != nil {
		t.Errorf("tail return must not be a statement: %s", block)
	}
}

func TestParseSourceFile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []SyntaxKind
	}{
		{"struct", "pub struct S<T: Clone> { pub a: T, b: Vec<u8> }", []SyntaxKind{KindStruct, KindRecordFieldList, KindVisibility, KindGenericParamList}},
		{"tuple struct", "struct S(pub(crate) u8, String);", []SyntaxKind{KindStruct, KindTupleFieldList}},
		{"enum", "enum E { A, B(u8), C { x: i32 } = 1 }", []SyntaxKind{KindEnum, KindVariantList, KindVariant}},
		{"union", "union U { a: u8 }", []SyntaxKind{KindUnion, KindRecordFieldList}},
		{"trait", "unsafe trait T: Sized where Self: Copy { fn f(&self); type A; }", []SyntaxKind{KindTrait, KindAssocItemList, KindWhereClause, KindSelfParam}},
		{"impl", "impl<T> Tr for S<T> { fn f(self) -> u8 { 1 } }", []SyntaxKind{KindImpl, KindAssocItemList, KindRetType}},
		{"use", "use a::{b, c::*, d as e};", []SyntaxKind{KindUse, KindUseTree, KindUseTreeList, KindRename}},
		{"mod", "mod m { const C: u8 = 1; static mut S: u8 = 2; }", []SyntaxKind{KindModule, KindItemList, KindConst, KindStatic}},
		{"type alias", "type A<T> = Box<dyn Fn(T) -> T + Send>;", []SyntaxKind{KindTypeAlias, KindDynTraitType}},
		{"extern", "extern crate foo; extern \"C\" { fn f(x: i32, ...); }", []SyntaxKind{KindExternCrate, KindExternBlock, KindExternItemList, KindAbi}},
		{"macro rules", "macro_rules! m { () => {} }", []SyntaxKind{KindMacroRules, KindTokenTree}},
		{"item macro", "m! { x }", []SyntaxKind{KindMacroCall}},
		{"attributes", "#![allow(x)] #[derive(Debug)] struct S;", []SyntaxKind{KindAttr, KindMeta}},
		{"let else", "fn f() { let Some(x) = y else { return; }; }", []SyntaxKind{KindLetStmt, KindLetElse, KindTupleStructPat}},
		{"patterns", "fn f() { let (a, ref mut b, _, ..) = t; let [x, y @ 1..=2] = s; }", []SyntaxKind{KindTuplePat, KindSlicePat, KindRangePat, KindRestPat, KindWildcardPat}},
		{"types", "fn f(a: &'a mut [u8; 4], b: *const (), c: fn(u8) -> !, d: impl Iterator<Item = u8>) {}", []SyntaxKind{KindRefType, KindArrayType, KindPtrType, KindFnPtrType, KindNeverType, KindImplTraitType, KindAssocTypeArg}},
		{"for type", "fn f<F>(g: for<'a> fn(&'a u8)) where for<'b> F: Fn(&'b u8) {}", []SyntaxKind{KindWherePred, KindForType, KindLifetimeParam}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := parse(t, tt.input, SourceFile)
			if len(sink.errors) != 0 {
				t.Errorf("unexpected errors: %v", errorMessages(sink.errors))
			}
			for _, kind := range tt.kinds {
				if sink.root().find(kind) == nil {
					t.Errorf("no %v in %s", kind, sink.root())
				}
			}
		})
	}
}

func TestParseErrorRecovery(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errors []string
	}{
		{"missing semicolon", "fn f() { let x = 1 }", []string{"expected `;`"}},
		{"stray brace", "}", []string{"unmatched `}`"}},
		{"garbage item", "fn f() {} 92 struct S;", []string{"expected an item"}},
		{"missing type", "fn f(x) {}", []string{"missing type for function parameter"}},
		{"unfinished fn", "fn", []string{"expected a name", "expected function arguments", "expected a block"}},
		{"raw pointer", "type T = *u8;", []string{"expected mut or const in raw pointer type (use `*mut T` or `*const T` as appropriate)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := parse(t, tt.input, SourceFile)
			got := errorMessages(sink.errors)
			if !slices.Equal(got, tt.errors) {
				t.Errorf("errors: got %q, want %q", got, tt.errors)
			}
			for _, e := range sink.errors {
				if e.Bug {
					t.Errorf("unexpected parser bug: %s", e.Message)
				}
			}
		})
	}
}

func TestStatementsStrayBrace(t *testing.T) {
	sink := parse(t, "a; } b", Statements)
	want := []string{"unmatched `}`"}
	if got := errorMessages(sink.errors); !slices.Equal(got, want) {
		t.Errorf("errors: got %q, want %q", got, want)
	}
	for _, e := range sink.errors {
		if e.Bug {
			t.Errorf("unexpected parser bug: %s", e.Message)
		}
	}
	wantTree := "(MacroStmts (ExprStmt " + pathExprTree + " Semicolon) (Error RCurly) " + pathExprTree + ")"
	if got := sink.root().String(); got != wantTree {
		t.Errorf("got  %s\nwant %s", got, wantTree)
	}
}

func TestMissingTurbofish(t *testing.T) {
	sink := parse(t, "f<T>::g()", Expr)
	want := []string{"use `::<...>` instead of `<...>` to specify generic arguments"}
	if got := errorMessages(sink.errors); !slices.Equal(got, want) {
		t.Errorf("errors: got %q, want %q", got, want)
	}
	if sink.root().kind != KindCallExpr || sink.root().find(KindGenericArgList) == nil {
		t.Errorf("want a call through a generic path, got %s", sink.root())
	}

	// Without the trailing `::` the `<` is a comparison.
	sink = parse(t, "a < b", Expr)
	if len(sink.errors) != 0 {
		t.Errorf("unexpected errors: %v", errorMessages(sink.errors))
	}
	if sink.root().kind != KindBinExpr || sink.root().find(KindGenericArgList) != nil {
		t.Errorf("want a comparison, got %s", sink.root())
	}
}

func TestNestedConstArgsBounded(t *testing.T) {
	steps := func(depth int) int {
		p := newParser(lex("fn f() { " + strings.Repeat("a<{", depth)))
		sourceFile(p)
		return p.steps
	}
	shallow, deep := steps(30), steps(60)
	if deep > 8*shallow {
		t.Errorf("doubling the nesting took %d steps, up from %d", deep, shallow)
	}

	sink := parse(t, "fn f() { "+strings.Repeat("a<{", 60), SourceFile)
	for _, e := range sink.errors {
		if e.Bug {
			t.Errorf("unexpected parser bug: %s", e.Message)
		}
	}
}

func TestTraitAnonymousParams(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"trait T { fn f(u32); }", "(Param (PathType (Path (PathSegment (NameRef Ident)))))"},
		{"trait T { fn f(x: u32); }", "(Param (IdentPat (Name Ident)) Colon (PathType (Path (PathSegment (NameRef Ident)))))"},
		{"trait T { fn f(&u8); }", "(Param (RefType Amp (PathType (Path (PathSegment (NameRef Ident))))))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sink := parse(t, tt.input, SourceFile)
			if len(sink.errors) != 0 {
				t.Errorf("unexpected errors: %v", errorMessages(sink.errors))
			}
			param := sink.root().find(KindParam)
			if param == nil {
				t.Fatalf("no Param in %s", sink.root())
			}
			if got := param.String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestFragmentLeftovers(t *testing.T) {
	sink := parse(t, "a b", Expr)
	if got := sink.root().kind; got != KindError {
		t.Errorf("root kind: got %v, want Error", got)
	}
	if got := errorMessages(sink.errors); !slices.Contains(got, "remaining input") {
		t.Errorf("errors %q lack \"remaining input\"", got)
	}
}

var totalityInputs = []string{
	"",
	"fn",
	"}",
	"{",
	"((((",
	"))))",
	"fn f( { } )",
	"struct S { a: , b }",
	"impl < for",
	"let x = ;",
	"a + * b",
	"match x { => }",
	"use a::{b, ,};",
	"#[",
	"#![a = ]",
	"x.0.1.",
	"pub(in",
	"'a: 'b",
	"<<= >>= ... ..=",
	"if let = { } else",
	"fn f() -> { return }",
	"trait T { fn f(,); }",
	"S { ) }",
	"|| -> {",
	"macro_rules! m [",
	"a; } b",
}

func TestTotality(t *testing.T) {
	for _, entry := range EntryPoints() {
		for _, input := range totalityInputs {
			t.Run(entry.String()+"/"+input, func(t *testing.T) {
				parse(t, input, entry)
			})
		}
	}
}

func TestTotalityRandomTokens(t *testing.T) {
	var kinds []SyntaxKind
	for k := TokenSemicolon; k < tokenKindEnd; k++ {
		if !k.IsTrivia() && k != TokenShebang && rawCount(k) == 1 {
			kinds = append(kinds, k)
		}
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		tokens := &Tokens{}
		for n := rng.Intn(40); n > 0; n-- {
			tokens.Push(kinds[rng.Intn(len(kinds))])
			if rng.Intn(3) == 0 {
				tokens.WasJoint()
			}
		}
		entry := EntryPoint(i % len(entryPointNames))
		sink := &recordingSink{}
		Parse(tokens, sink, entry)
		checkShape(t, sink, tokens.Len())
		if t.Failed() {
			t.Fatalf("entry %s, input %v", entry, tokens.kinds)
		}
	}
}

func TestEntryPointNames(t *testing.T) {
	for _, entry := range EntryPoints() {
		got, err := ParseEntryPoint(entry.String())
		if err != nil {
			t.Errorf("%s: %v", entry, err)
			continue
		}
		if got != entry {
			t.Errorf("ParseEntryPoint(%q) = %v", entry.String(), got)
		}
	}
	if _, err := ParseEntryPoint("nope"); err == nil {
		t.Errorf("expected an error for an unknown entry point")
	}
}

func TestCheckpointRewind(t *testing.T) {
	p := newParser(lex("a b c"))
	outer := p.Start()
	p.BumpAny()
	before := slices.Clone(p.events)
	beforeOpen := slices.Clone(p.open)

	cp := p.Checkpoint()
	m := p.Start()
	p.BumpAny()
	p.Error("boom")
	inner := p.Start()
	p.BumpAny()
	_ = inner
	m.Complete(p, KindError)
	if !p.ErrorsSince(cp) {
		t.Errorf("ErrorsSince: want true after an error")
	}

	p.Rewind(cp)
	if p.pos != 1 {
		t.Errorf("pos after rewind: got %d, want 1", p.pos)
	}
	if !slices.Equal(p.events, before) {
		t.Errorf("events after rewind: got %v, want %v", p.events, before)
	}
	if !slices.Equal(p.open, beforeOpen) {
		t.Errorf("open markers after rewind: got %v, want %v", p.open, beforeOpen)
	}
	if p.ErrorsSince(cp) {
		t.Errorf("ErrorsSince: want false after rewind")
	}
	outer.Complete(p, KindSourceFile)
	if len(p.open) != 0 {
		t.Errorf("open markers left: %v", p.open)
	}
}

func TestAbandonAndUndoCompletion(t *testing.T) {
	p := newParser(lex("a"))
	m := p.Start()
	m.Abandon(p)
	if len(p.events) != 0 {
		t.Errorf("abandoning the last marker must pop it, got %v", p.events)
	}

	outer := p.Start()
	cm := func() CompletedMarker {
		m := p.Start()
		p.BumpAny()
		return m.Complete(p, KindPathExpr)
	}()
	cm.UndoCompletion(p).Abandon(p)
	outer.Complete(p, KindPathExpr)

	sink := &recordingSink{}
	Process(sink, p.Finish())
	checkShape(t, sink, 1)
	if got := sink.root().String(); got != "(PathExpr Ident)" {
		t.Errorf("got %s, want (PathExpr Ident)", got)
	}
}

func TestPrecedeChain(t *testing.T) {
	p := newParser(lex("a"))
	m := p.Start()
	p.BumpAny()
	cm := m.Complete(p, KindNameRef)
	for _, kind := range []SyntaxKind{KindPathSegment, KindPath, KindPathExpr} {
		cm = cm.Precede(p).Complete(p, kind)
	}
	sink := &recordingSink{}
	Process(sink, p.Finish())
	checkShape(t, sink, 1)
	if got, want := sink.root().String(), "(PathExpr (Path (PathSegment (NameRef Ident))))"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestStuckRecovery(t *testing.T) {
	tokens := lex("a b c")
	stuck := func(p *Parser) {
		m := p.Start()
		p.BumpAny()
		inner := p.Start()
		for !p.At(TokenEOF) {
			// never advances
		}
		inner.Complete(p, KindError)
		m.Complete(p, KindSourceFile)
	}
	sink := &recordingSink{}
	Process(sink, run(tokens, stuck, KindSourceFile))
	checkShape(t, sink, tokens.Len())
	if sink.root().kind != KindSourceFile {
		t.Errorf("root kind: got %v, want SourceFile", sink.root().kind)
	}
	var bugs int
	for _, e := range sink.errors {
		if e.Bug {
			bugs++
		}
	}
	if bugs != 1 {
		t.Errorf("got %d parser bug errors, want 1: %v", bugs, sink.errors)
	}
	if sink.root().find(KindError) == nil {
		t.Errorf("unread tokens must be wrapped in an error node: %s", sink.root())
	}
}

func TestUnfinishedMarkerIsBug(t *testing.T) {
	p := newParser(lex("a"))
	p.Start()
	p.BumpAny()
	events := p.Finish()
	var bug bool
	for _, ev := range events {
		if ev.Kind == EventError && ev.Bug {
			bug = true
		}
	}
	if !bug {
		t.Errorf("an unfinished marker must be reported as a bug")
	}
}

func TestReparser(t *testing.T) {
	tests := []struct {
		node, firstChild, parent SyntaxKind
		ok                       bool
	}{
		{KindBlockExpr, TokenLCurly, KindFn, true},
		{KindRecordFieldList, TokenLCurly, KindStruct, true},
		{KindRecordExprFieldList, TokenLCurly, KindRecordExpr, true},
		{KindVariantList, TokenLCurly, KindEnum, true},
		{KindMatchArmList, TokenLCurly, KindMatchExpr, true},
		{KindUseTreeList, TokenLCurly, KindUseTree, true},
		{KindExternItemList, TokenLCurly, KindExternBlock, true},
		{KindTokenTree, TokenLCurly, KindMacroCall, true},
		{KindTokenTree, TokenLParen, KindMacroCall, false},
		{KindAssocItemList, TokenLCurly, KindImpl, true},
		{KindAssocItemList, TokenLCurly, KindTrait, true},
		{KindAssocItemList, TokenLCurly, Tombstone, false},
		{KindItemList, TokenLCurly, KindModule, true},
		{KindParamList, TokenLParen, KindFn, false},
		{KindBinExpr, Tombstone, Tombstone, false},
	}
	for _, tt := range tests {
		t.Run(tt.node.String()+"/"+tt.parent.String(), func(t *testing.T) {
			if _, ok := ReparserFor(tt.node, tt.firstChild, tt.parent); ok != tt.ok {
				t.Errorf("ReparserFor: got %v, want %v", ok, tt.ok)
			}
		})
	}
}

// subtreeTokens returns the first node of kind together with the tokens
// it covers.
func subtreeTokens(t *testing.T, root *node, kind SyntaxKind, all *Tokens) (*node, *Tokens) {
	t.Helper()
	start := 0
	var found *node
	var walk func(n *node) bool
	walk = func(n *node) bool {
		if n.kind == kind {
			found = n
			return true
		}
		if n.kind.IsToken() {
			start += n.n
			return false
		}
		for _, c := range n.children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(root) {
		t.Fatalf("no %v in %s", kind, root)
	}
	sub := &Tokens{}
	for i := start; i < start+found.tokenCount(); i++ {
		if k := all.Kind(i); k == TokenIdent {
			sub.PushIdent(all.idents[i])
		} else {
			sub.Push(k)
		}
		if all.IsJoint(i) {
			sub.WasJoint()
		}
	}
	return found, sub
}

func TestReparseIdempotent(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   SyntaxKind
		parent SyntaxKind
	}{
		{"block", "fn f() { let x = a + b; if x { 1 } else { 2 } }", KindBlockExpr, KindFn},
		{"record fields", "struct S { a: u8, pub b: Vec<u8> }", KindRecordFieldList, KindStruct},
		{"match arms", "fn f() { match x { 1 | 2 => a, _ => {} } }", KindMatchArmList, KindMatchExpr},
		{"impl items", "impl S { fn f(&self) {} const C: u8 = 1; }", KindAssocItemList, KindImpl},
		{"use tree list", "use a::{b, c::{d, e}};", KindUseTreeList, KindUseTree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := lex(tt.input)
			full := &recordingSink{}
			ParseSourceFile(all, full)
			checkShape(t, full, all.Len())
			want, sub := subtreeTokens(t, full.root(), tt.kind, all)

			r, ok := ReparserFor(tt.kind, TokenLCurly, tt.parent)
			if !ok {
				t.Fatalf("%v is not reparseable", tt.kind)
			}
			got := &recordingSink{}
			r.Parse(sub, got)
			checkShape(t, got, sub.Len())
			if got.root().String() != want.String() {
				t.Errorf("reparse differs:\n got  %s\n want %s", got.root(), want)
			}
		})
	}
}
