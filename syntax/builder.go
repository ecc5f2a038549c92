package syntax

import (
	"strings"

	"github.com/dhamidi/rsyn/lexer"
	"github.com/dhamidi/rsyn/parser"
)

type builderState uint8

const (
	pendingStart builderState = iota
	normal
	pendingFinish
)

// treeBuilder is a parser.TreeSink that turns the parser's trivia-free
// view back into a full-fidelity tree. Whitespace and comments between
// tokens are attached to the innermost enclosing node, except that
// comments directly above an item go inside the item.
//
// Closing a node is deferred until the next event so trivia after the
// last token of the input ends up in the root.
type treeBuilder struct {
	tokens []lexer.Token
	pos    int
	offset int
	state  builderState
	stack  []*Node
	root   *Node
	errors []Error
}

func newTreeBuilder(tokens []lexer.Token) *treeBuilder {
	return &treeBuilder{tokens: tokens}
}

func (b *treeBuilder) StartNode(kind parser.SyntaxKind) {
	switch b.state {
	case pendingStart:
		b.state = normal
		b.push(kind)
		return
	case pendingFinish:
		b.pop()
	}
	b.state = normal

	n := 0
	for b.pos+n < len(b.tokens) && b.tokens[b.pos+n].Kind.IsTrivia() {
		n++
	}
	attached := attachedTrivia(kind, b.tokens[b.pos:b.pos+n])
	b.eatTrivia(n - attached)
	b.push(kind)
	b.eatTrivia(attached)
}

func (b *treeBuilder) FinishNode() {
	if b.state == pendingFinish {
		b.pop()
	}
	b.state = pendingFinish
}

func (b *treeBuilder) Token(kind parser.SyntaxKind, nTokens int) {
	if b.state == pendingFinish {
		b.pop()
		b.state = normal
	}
	b.ensureRoot()
	b.eatAllTrivia()

	start := b.offset
	var text strings.Builder
	for i := 0; i < nTokens && b.pos < len(b.tokens); i++ {
		text.WriteString(b.tokens[b.pos].Literal)
		b.offset += b.tokens[b.pos].Len()
		b.pos++
	}
	b.leaf(kind, start, text.String())
}

func (b *treeBuilder) Error(err parser.ParseError) {
	b.errors = append(b.errors, Error{
		Message: err.Message,
		Range:   TextRange{Start: b.offset, End: b.offset},
		Bug:     err.Bug,
	})
}

// finish closes the root and returns it together with the parse errors.
// Any tokens the parser did not consume are kept under the root so the
// tree still covers the input.
func (b *treeBuilder) finish() (*Node, []Error) {
	b.ensureRoot()
	if b.state == pendingFinish && len(b.stack) > 1 {
		b.pop()
	}
	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]
		b.leaf(tok.Kind, b.offset, tok.Literal)
		b.offset += tok.Len()
		b.pos++
	}
	for len(b.stack) > 0 {
		b.pop()
	}
	b.root.layout(0)
	return b.root, b.errors
}

// ensureRoot opens an error root when the parser emits a token before any
// node, which only happens for fragments that produced no node at all.
func (b *treeBuilder) ensureRoot() {
	if len(b.stack) > 0 {
		return
	}
	if b.root == nil {
		b.state = normal
		b.push(parser.KindError)
		return
	}
	// The root was already closed: reopen it for trailing input.
	b.stack = append(b.stack, b.root)
}

func (b *treeBuilder) push(kind parser.SyntaxKind) {
	n := &Node{Kind: kind, Range: TextRange{Start: b.offset, End: b.offset}}
	if len(b.stack) == 0 {
		if b.root != nil {
			// A second top-level node goes under the first one.
			b.stack = append(b.stack, b.root)
			b.stack[len(b.stack)-1].AddChild(n)
		} else {
			b.root = n
		}
	} else {
		b.stack[len(b.stack)-1].AddChild(n)
	}
	b.stack = append(b.stack, n)
}

func (b *treeBuilder) pop() {
	if len(b.stack) == 0 {
		return
	}
	n := b.stack[len(b.stack)-1]
	n.Range.End = b.offset
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *treeBuilder) leaf(kind parser.SyntaxKind, start int, text string) {
	b.stack[len(b.stack)-1].AddChild(&Node{
		Kind:  kind,
		Range: TextRange{Start: start, End: start + len(text)},
		Text:  text,
	})
}

func (b *treeBuilder) eatAllTrivia() {
	for b.pos < len(b.tokens) && b.tokens[b.pos].Kind.IsTrivia() {
		b.eatTrivia(1)
	}
}

func (b *treeBuilder) eatTrivia(n int) {
	for i := 0; i < n; i++ {
		tok := b.tokens[b.pos]
		b.leaf(tok.Kind, b.offset, tok.Literal)
		b.offset += tok.Len()
		b.pos++
	}
}

// attachedTrivia counts how many of the trailing trivia tokens belong to a
// node of kind. Doc and plain comments stick to items directly below
// them; a blank line breaks the attachment unless a doc comment follows
// it.
func attachedTrivia(kind parser.SyntaxKind, trivia []lexer.Token) int {
	switch kind {
	case parser.KindMacroCall, parser.KindMacroRules, parser.KindMacroDef,
		parser.KindConst, parser.KindTypeAlias, parser.KindStruct,
		parser.KindUnion, parser.KindEnum, parser.KindVariant, parser.KindFn,
		parser.KindTrait, parser.KindModule, parser.KindRecordField,
		parser.KindStatic, parser.KindUse:
	default:
		return 0
	}
	res := 0
	for i := len(trivia) - 1; i >= 0; i-- {
		tok := trivia[i]
		closest := len(trivia) - i
		switch tok.Kind {
		case parser.TokenWhitespace:
			if strings.Contains(tok.Literal, "\n\n") {
				if i > 0 && trivia[i-1].Kind == parser.TokenComment && isOuterDoc(trivia[i-1].Literal) {
					continue
				}
				return res
			}
		case parser.TokenComment:
			if isInnerDoc(tok.Literal) {
				return res
			}
			res = closest
		}
	}
	return res
}

func isOuterDoc(text string) bool {
	return (strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////")) ||
		(strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***"))
}

func isInnerDoc(text string) bool {
	return strings.HasPrefix(text, "//!") || strings.HasPrefix(text, "/*!")
}
