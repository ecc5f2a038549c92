package parser

// TokenSource is the parser's read-only view of the input: an indexed,
// trivia-free sequence of tokens.
type TokenSource interface {
	Len() int
	// Kind returns TokenEOF when i is out of range.
	Kind(i int) SyntaxKind
	// IsJoint reports whether token i is immediately followed by token i+1
	// with no trivia in between.
	IsJoint(i int) bool
	// IsKeyword reports whether token i is an identifier spelled kw.
	IsKeyword(i int, kw string) bool
}

// Tokens is the slice-backed TokenSource. Identifier text is only kept
// for identifiers, which is all contextual keyword tests need.
type Tokens struct {
	kinds  []SyntaxKind
	joint  []bool
	idents map[int]string
}

func (t *Tokens) Push(kind SyntaxKind) {
	t.kinds = append(t.kinds, kind)
	t.joint = append(t.joint, false)
}

func (t *Tokens) PushIdent(text string) {
	if t.idents == nil {
		t.idents = make(map[int]string)
	}
	t.idents[len(t.kinds)] = text
	t.Push(TokenIdent)
}

// WasJoint marks the last pushed token as joint with the next one.
func (t *Tokens) WasJoint() {
	if n := len(t.joint); n > 0 {
		t.joint[n-1] = true
	}
}

func (t *Tokens) Len() int {
	return len(t.kinds)
}

func (t *Tokens) Kind(i int) SyntaxKind {
	if i < 0 || i >= len(t.kinds) {
		return TokenEOF
	}
	return t.kinds[i]
}

func (t *Tokens) IsJoint(i int) bool {
	if i < 0 || i >= len(t.joint) {
		return false
	}
	return t.joint[i]
}

func (t *Tokens) IsKeyword(i int, kw string) bool {
	if t.Kind(i) != TokenIdent {
		return false
	}
	return t.idents[i] == kw
}

// TokensOf builds a Tokens from kinds alone; every token is separated from
// the next. Convenient for tests and for callers that carry no text.
func TokensOf(kinds ...SyntaxKind) *Tokens {
	t := &Tokens{}
	for _, k := range kinds {
		t.Push(k)
	}
	return t
}
