package lexer

import "github.com/dhamidi/rsyn/parser"

// TokenSource builds the parser's view of tokens: trivia is dropped and a
// token is joint when the next raw token follows it directly.
//
// The returned index maps each parser token to its position in tokens.
func TokenSource(tokens []Token) (*parser.Tokens, []int) {
	src := &parser.Tokens{}
	index := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		if tok.Kind == parser.TokenIdent {
			src.PushIdent(tok.Literal)
		} else {
			src.Push(tok.Kind)
		}
		index = append(index, i)
		if i+1 < len(tokens) && !tokens[i+1].Kind.IsTrivia() {
			src.WasJoint()
		}
	}
	return src, index
}

// Errors collects the messages of malformed tokens.
func Errors(tokens []Token) []Token {
	var bad []Token
	for _, tok := range tokens {
		if tok.Error != "" {
			bad = append(bad, tok)
		}
	}
	return bad
}
