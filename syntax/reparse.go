package syntax

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/rsyn/lexer"
	"github.com/dhamidi/rsyn/parser"
)

// Edit replaces the text in Delete with Insert.
type Edit struct {
	Delete TextRange
	Insert string
}

func (e Edit) apply(text string) string {
	return text[:e.Delete.Start] + e.Insert + text[e.Delete.End:]
}

func (e Edit) shift(delta int) Edit {
	return Edit{Delete: e.Delete.Shift(delta), Insert: e.Insert}
}

// Reparse tells how much of a tree an edit caused to be rebuilt.
type Reparse uint8

const (
	ReparsedToken Reparse = iota + 1
	ReparsedNode
	ReparsedFull
)

func (r Reparse) String() string {
	switch r {
	case ReparsedToken:
		return "token"
	case ReparsedNode:
		return "node"
	case ReparsedFull:
		return "full"
	}
	return fmt.Sprintf("Reparse(%d)", r)
}

var contextualKeywords = map[string]bool{
	"auto":        true,
	"default":     true,
	"existential": true,
	"macro_rules": true,
	"raw":         true,
	"union":       true,
}

// Apply updates the tree in place for edit. It tries, in order, to relex
// the single token the edit falls in, to reparse the smallest enclosing
// node that can be parsed on its own, and finally parses the whole text
// again. The result is always the tree a full parse would produce.
func (t *Tree) Apply(edit Edit) (Reparse, error) {
	if edit.Delete.Start < 0 || edit.Delete.Start > edit.Delete.End || edit.Delete.End > len(t.text) {
		return 0, fmt.Errorf("edit %s out of range for text of length %d", edit.Delete, len(t.text))
	}
	newText := edit.apply(t.text)

	how := ReparsedToken
	old, repl, errs, ok := t.reparseToken(edit)
	if !ok {
		how = ReparsedNode
		old, repl, errs, ok = t.reparseNode(edit)
		// An empty error at the node's end may belong to the node, like a
		// missing `}`, or to its parent. Only a full parse can tell.
		if ok && hasErrorAt(t.Errors, old.Range.End) {
			ok = false
		}
	}
	if !ok {
		full := Parse(newText, WithFile(t.File), WithEntryPoint(t.Entry))
		t.Root, t.Errors, t.text = full.Root, full.Errors, full.text
		return ReparsedFull, nil
	}

	oldRange := old.Range
	old.replace(repl)
	if old == t.Root {
		t.Root = repl
	}
	t.Root.layout(0)
	t.text = newText
	t.Errors = mergeErrors(t.Errors, errs, oldRange, edit)
	return how, nil
}

// reparseToken handles edits inside a whitespace, comment, identifier or
// string token that leave the token's kind unchanged.
func (t *Tree) reparseToken(edit Edit) (old, repl *Node, errs []Error, ok bool) {
	tok := t.Root.CoveringElement(edit.Delete)
	if tok == nil || !tok.IsToken() {
		return nil, nil, nil, false
	}
	switch tok.Kind {
	case parser.TokenWhitespace, parser.TokenComment:
		// Deleting a newline can merge a line comment with the next line.
		deleted := tok.Text[edit.Delete.Start-tok.Range.Start : edit.Delete.End-tok.Range.Start]
		if strings.Contains(deleted, "\n") {
			return nil, nil, nil, false
		}
	case parser.TokenIdent, parser.TokenString:
	default:
		return nil, nil, nil, false
	}

	text := edit.shift(-tok.Range.Start).apply(tok.Text)
	relexed, ok := lexSingle(text)
	if !ok || relexed.Kind != tok.Kind {
		return nil, nil, nil, false
	}
	if tok.Kind == parser.TokenIdent && (contextualKeywords[text] || contextualKeywords[tok.Text]) {
		return nil, nil, nil, false
	}
	// The edited token must not swallow the character after it, as in
	// `b` followed by `"str"`.
	if r, size := utf8.DecodeRuneInString(t.text[tok.Range.End:]); size > 0 {
		if _, merged := lexSingle(text + string(r)); merged {
			return nil, nil, nil, false
		}
	}

	if relexed.Error != "" {
		errs = append(errs, Error{
			Message: relexed.Error,
			Range:   TextRange{Start: 0, End: len(text)},
		})
	}
	return tok, &Node{Kind: tok.Kind, Text: text}, errs, true
}

// reparseNode reparses the innermost node around the edit that has a
// parser.Reparser. It gives up when the edited text no longer has
// balanced braces, since the node's extent would then be different.
func (t *Tree) reparseNode(edit Edit) (old, repl *Node, errs []Error, ok bool) {
	for n := t.Root.CoveringElement(edit.Delete); n != nil; n = n.Parent {
		if n.IsToken() {
			continue
		}
		firstChild, parent := parser.Tombstone, parser.Tombstone
		if fc := n.FirstChild(); fc != nil {
			firstChild = fc.Kind
		}
		if n.Parent != nil {
			parent = n.Parent.Kind
		}
		reparser, found := parser.ReparserFor(n.Kind, firstChild, parent)
		if !found {
			continue
		}

		text := edit.shift(-n.Range.Start).apply(n.SourceText())
		if !balanced(lexer.Tokenize([]byte(text), t.File)) {
			return nil, nil, nil, false
		}
		root, errs := build(text, t.File, reparser.Parse)
		if root.Kind != n.Kind {
			return nil, nil, nil, false
		}
		return n, root, errs, true
	}
	return nil, nil, nil, false
}

func lexSingle(text string) (lexer.Token, bool) {
	tokens := lexer.Tokenize([]byte(text), "")
	if len(tokens) != 1 {
		return lexer.Token{}, false
	}
	return tokens[0], true
}

// balanced reports whether tokens are a `{`, balanced content and the `}`
// closing it.
func balanced(tokens []lexer.Token) bool {
	if len(tokens) < 2 || tokens[0].Kind != parser.TokenLCurly || tokens[len(tokens)-1].Kind != parser.TokenRCurly {
		return false
	}
	depth := 0
	for _, tok := range tokens[1 : len(tokens)-1] {
		switch tok.Kind {
		case parser.TokenLCurly:
			depth++
		case parser.TokenRCurly:
			if depth == 0 {
				return false
			}
			depth--
		}
	}
	return depth == 0
}

func hasErrorAt(errs []Error, offset int) bool {
	for _, err := range errs {
		if err.Range.Start == offset && err.Range.End == offset {
			return true
		}
	}
	return false
}

// mergeErrors keeps the old errors outside the reparsed range, shifting
// those after it, and adds the new ones, which are relative to the start
// of that range.
func mergeErrors(old, fresh []Error, reparsed TextRange, edit Edit) []Error {
	delta := len(edit.Insert) - edit.Delete.Len()
	var out []Error
	for _, err := range old {
		switch {
		case err.Range.End <= reparsed.Start:
			out = append(out, err)
		case err.Range.Start >= reparsed.End:
			err.Range = err.Range.Shift(delta)
			out = append(out, err)
		}
	}
	for _, err := range fresh {
		err.Range = err.Range.Shift(reparsed.Start)
		out = append(out, err)
	}
	slices.SortStableFunc(out, func(a, b Error) int {
		return cmp.Compare(a.Range.Start, b.Range.Start)
	})
	return out
}
