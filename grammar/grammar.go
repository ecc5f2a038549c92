// Package grammar holds an EBNF outline of the Rust syntax rsyn accepts and
// an Earley recognizer that checks token streams against it.
//
// The recognizer is independent of the hand-written parser and serves as a
// conformance check for it.
package grammar

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/rsyn/lexer"
	"github.com/dhamidi/rsyn/parser"
)

// Start is the production a whole source file must match.
const Start = "SourceFile"

//go:embed rust.ebnf
var rustEBNF string

var log = commonlog.GetLogger("rsyn.grammar")

// Source returns the text of the embedded Rust grammar.
func Source() string {
	return rustEBNF
}

// Load parses and verifies the embedded Rust grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("rust.ebnf", strings.NewReader(rustEBNF), Start)
}

// Parse reads a grammar and verifies it against start.
func Parse(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify %s: %w", filename, err)
	}
	log.Debugf("loaded %s: %d productions", filename, len(g))
	return g, nil
}

// Terminal is a non-trivia token fed to the recognizer.
type Terminal struct {
	Kind   parser.SyntaxKind
	Text   string
	Offset int
	// Joint reports that the next token follows without trivia in between.
	Joint bool
}

func (t Terminal) String() string {
	return fmt.Sprintf("%s %q@%d", t.Kind, t.Text, t.Offset)
}

// Terminals lexes src and drops trivia and a leading shebang.
func Terminals(src string) []Terminal {
	tokens := lexer.Tokenize([]byte(src), "")
	var out []Terminal
	for i, tok := range tokens {
		if tok.Kind.IsTrivia() || tok.Kind == parser.TokenShebang {
			continue
		}
		joint := i+1 < len(tokens) && !tokens[i+1].Kind.IsTrivia()
		out = append(out, Terminal{
			Kind:   tok.Kind,
			Text:   tok.Literal,
			Offset: tok.Span.Start.Offset,
			Joint:  joint,
		})
	}
	return out
}

func kindIs(kinds ...parser.SyntaxKind) func(Terminal) bool {
	return func(t Terminal) bool {
		for _, k := range kinds {
			if t.Kind == k {
				return true
			}
		}
		return false
	}
}

// tokenClasses binds the lexical productions of a grammar to lexer kinds.
var tokenClasses = map[string]func(Terminal) bool{
	"ident":          kindIs(parser.TokenIdent),
	"lifetime_ident": kindIs(parser.TokenLifetimeIdent),
	"int_number":     kindIs(parser.TokenIntNumber),
	"float_number":   kindIs(parser.TokenFloatNumber),
	"string":         kindIs(parser.TokenString),
	"byte_string":    kindIs(parser.TokenByteString),
	"char":           kindIs(parser.TokenChar),
	"byte":           kindIs(parser.TokenByte),
	"leaf": func(t Terminal) bool {
		switch t.Kind {
		case parser.TokenLParen, parser.TokenRParen,
			parser.TokenLCurly, parser.TokenRCurly,
			parser.TokenLBrack, parser.TokenRBrack:
			return false
		}
		return true
	},
}
