package parser

// TokenSet is an immutable set of token kinds, used for first sets and
// recovery sets.
type TokenSet [4]uint64

// Every token kind must fit in a TokenSet.
var _ = [256 - int(tokenKindEnd)]struct{}{}

// EmptySet contains no kinds.
var EmptySet = TokenSet{}

// NewTokenSet builds a set of token kinds. Node kinds do not belong in a
// TokenSet; passing one is a programming error.
func NewTokenSet(kinds ...SyntaxKind) TokenSet {
	var ts TokenSet
	for _, k := range kinds {
		if !k.IsToken() {
			panic("parser: " + k.String() + " is not a token kind")
		}
		ts[k/64] |= 1 << (k % 64)
	}
	return ts
}

func (ts TokenSet) Union(other TokenSet) TokenSet {
	return TokenSet{ts[0] | other[0], ts[1] | other[1], ts[2] | other[2], ts[3] | other[3]}
}

func (ts TokenSet) Contains(kind SyntaxKind) bool {
	if int(kind) >= 256 {
		return false
	}
	return ts[kind/64]&(1<<(kind%64)) != 0
}
