package syntax

import (
	"github.com/dhamidi/rsyn/lexer"
	"github.com/dhamidi/rsyn/parser"
)

// Error is a syntax error in the text. Parser errors have an empty range at
// the position where the parser noticed the problem; lexer errors cover the
// malformed token.
type Error struct {
	Message string
	Range   TextRange
	Bug     bool
}

func (e Error) Error() string {
	if e.Bug {
		return "parser bug: " + e.Message
	}
	return e.Message
}

// Tree is a parsed text together with its syntax errors.
type Tree struct {
	File   string
	Entry  parser.EntryPoint
	Root   *Node
	Errors []Error
	text   string
}

// NewTree assembles a tree from an existing root, for trees restored from
// storage. Ranges are recomputed from the token texts.
func NewTree(file string, entry parser.EntryPoint, root *Node, errs []Error) *Tree {
	root.Parent = nil
	root.layout(0)
	return &Tree{
		File:   file,
		Entry:  entry,
		Root:   root,
		Errors: errs,
		text:   root.SourceText(),
	}
}

// Text returns the source the tree was built from.
func (t *Tree) Text() string {
	return t.text
}

type Option func(*config)

type config struct {
	file  string
	entry parser.EntryPoint
}

func WithFile(path string) Option {
	return func(c *config) {
		c.file = path
	}
}

// WithEntryPoint parses src as a fragment, such as a single expression,
// instead of a source file.
func WithEntryPoint(entry parser.EntryPoint) Option {
	return func(c *config) {
		c.entry = entry
	}
}

// Parse builds the syntax tree of src. It never fails: malformed input
// yields error nodes and entries in Tree.Errors.
func Parse(src string, opts ...Option) *Tree {
	cfg := config{entry: parser.SourceFile}
	for _, opt := range opts {
		opt(&cfg)
	}
	root, errs := build(src, cfg.file, func(tokens parser.TokenSource, sink parser.TreeSink) {
		parser.Parse(tokens, sink, cfg.entry)
	})
	return &Tree{
		File:   cfg.file,
		Entry:  cfg.entry,
		Root:   root,
		Errors: errs,
		text:   src,
	}
}

// build lexes src, runs parse over it and returns the tree with lexer and
// parser errors, ordered by position.
func build(src, file string, parse func(parser.TokenSource, parser.TreeSink)) (*Node, []Error) {
	tokens := lexer.Tokenize([]byte(src), file)
	source, _ := lexer.TokenSource(tokens)
	b := newTreeBuilder(tokens)
	parse(source, b)
	root, errs := b.finish()
	return root, mergeByOffset(errs, lexerErrors(tokens))
}

func lexerErrors(tokens []lexer.Token) []Error {
	var errs []Error
	for _, tok := range lexer.Errors(tokens) {
		errs = append(errs, Error{
			Message: tok.Error,
			Range:   TextRange{Start: tok.Span.Start.Offset, End: tok.Span.End.Offset},
		})
	}
	return errs
}

// mergeByOffset merges two lists already sorted by start offset.
func mergeByOffset(a, b []Error) []Error {
	if len(b) == 0 {
		return a
	}
	out := make([]Error, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Range.Start < a[i].Range.Start {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
