package syntax

import (
	"fmt"
	"strings"

	"github.com/dhamidi/rsyn/parser"
)

// TextRange is a half-open range of byte offsets.
type TextRange struct {
	Start int
	End   int
}

func (r TextRange) Len() int {
	return r.End - r.Start
}

func (r TextRange) IsEmpty() bool {
	return r.Start == r.End
}

// ContainsRange reports whether other lies within r; the ends are inclusive
// so an empty range at either edge counts.
func (r TextRange) ContainsRange(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

func (r TextRange) Shift(delta int) TextRange {
	return TextRange{Start: r.Start + delta, End: r.End + delta}
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Node is an element of the concrete syntax tree: an interior node or a
// token. Tokens carry their text, trivia included, so the concatenated
// text of a tree's tokens is exactly the parsed source.
type Node struct {
	Kind     parser.SyntaxKind
	Range    TextRange
	Text     string
	Children []*Node
	Parent   *Node
}

func (n *Node) IsToken() bool {
	return n.Kind.IsToken()
}

func (n *Node) IsError() bool {
	return n.Kind == parser.KindError
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func (n *Node) FirstChildOfKind(kind parser.SyntaxKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind parser.SyntaxKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// NonTrivia returns the children that are not whitespace or comments.
func (n *Node) NonTrivia() []*Node {
	var result []*Node
	for _, child := range n.Children {
		if !child.Kind.IsTrivia() {
			result = append(result, child)
		}
	}
	return result
}

// Walk visits n and its descendants in source order. Returning false from
// fn skips the children of the node just visited.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the first node of kind in source order, n included.
func (n *Node) Find(kind parser.SyntaxKind) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Kind == kind {
			found = c
			return false
		}
		return true
	})
	return found
}

// Tokens returns the tokens under n in source order.
func (n *Node) Tokens() []*Node {
	var tokens []*Node
	n.Walk(func(c *Node) bool {
		if c.IsToken() {
			tokens = append(tokens, c)
		}
		return true
	})
	return tokens
}

// SourceText is the text spanned by n.
func (n *Node) SourceText() string {
	if n.IsToken() {
		return n.Text
	}
	var sb strings.Builder
	for _, tok := range n.Tokens() {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// Ancestors returns n and its parents, innermost first.
func (n *Node) Ancestors() []*Node {
	var result []*Node
	for c := n; c != nil; c = c.Parent {
		result = append(result, c)
	}
	return result
}

// CoveringElement returns the deepest element whose range contains r.
// When r touches the boundary between two siblings the left one wins.
func (n *Node) CoveringElement(r TextRange) *Node {
	if !n.Range.ContainsRange(r) {
		return nil
	}
	current := n
	for {
		var next *Node
		for _, child := range current.Children {
			if child.Range.ContainsRange(r) {
				next = child
				break
			}
		}
		if next == nil {
			return current
		}
		current = next
	}
}

// TokenAt returns the token containing offset, preferring the token that
// starts there.
func (n *Node) TokenAt(offset int) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil || offset < c.Range.Start || offset > c.Range.End {
			return false
		}
		if c.IsToken() && (offset < c.Range.End || c.Range.IsEmpty()) {
			found = c
			return false
		}
		return true
	})
	return found
}

// replace puts replacement where n was.
func (n *Node) replace(replacement *Node) {
	parent := n.Parent
	replacement.Parent = parent
	if parent == nil {
		return
	}
	for i, child := range parent.Children {
		if child == n {
			parent.Children[i] = replacement
			return
		}
	}
}

// layout recomputes ranges from token lengths, starting at offset, and
// returns the end offset.
func (n *Node) layout(offset int) int {
	start := offset
	if n.IsToken() {
		offset += len(n.Text)
	}
	for _, child := range n.Children {
		child.Parent = n
		offset = child.layout(offset)
	}
	n.Range = TextRange{Start: start, End: offset}
	return offset
}
