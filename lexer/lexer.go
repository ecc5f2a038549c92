package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/rsyn/parser"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

// Token is a raw token. Trivia (whitespace and comments) is included;
// punctuation is always a single character.
type Token struct {
	Kind    parser.SyntaxKind
	Span    Span
	Literal string
	// Error describes a malformed token, such as an unterminated string.
	// The token is still produced with its best-guess kind.
	Error string
}

func (t Token) Len() int {
	return t.Span.End.Offset - t.Span.Start.Offset
}

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

// Tokenize returns every token of input, without the final EOF.
func Tokenize(input []byte, file string) []Token {
	l := NewLexer(input, file)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == parser.TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// advanceRune consumes one UTF-8 encoded character; columns count bytes.
func (l *Lexer) advanceRune() {
	_, size := l.peekRune()
	if size == 0 {
		return
	}
	l.advanceN(size)
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.atEOF() {
		return Token{Kind: parser.TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if l.pos == 0 && ch == '#' && l.peekN(1) == '!' && l.peekN(2) != '[' {
		return l.scanShebang(startPos)
	}

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if isWhitespace(ch) {
		return l.scanWhitespace(startPos)
	}

	switch {
	case ch == 'r' && l.peekN(1) == '"', ch == 'r' && l.peekN(1) == '#' && (l.peekN(2) == '"' || l.peekN(2) == '#'):
		l.advance()
		return l.scanRawString(startPos, parser.TokenString)
	case ch == 'r' && l.peekN(1) == '#' && isIdentStartByte(l.peekN(2)):
		// r#ident
		l.advanceN(2)
		return l.scanIdentOrKeyword(startPos, true)
	case ch == 'b' && l.peekN(1) == '"':
		l.advance()
		return l.scanString(startPos, parser.TokenByteString)
	case ch == 'b' && l.peekN(1) == '\'':
		l.advance()
		return l.scanQuoted(startPos, parser.TokenByte)
	case ch == 'b' && l.peekN(1) == 'r' && (l.peekN(2) == '"' || l.peekN(2) == '#'):
		l.advanceN(2)
		return l.scanRawString(startPos, parser.TokenByteString)
	}

	if r, _ := l.peekRune(); isIdentStart(r) {
		return l.scanIdentOrKeyword(startPos, false)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' {
		return l.scanLifetimeOrChar(startPos)
	}

	if ch == '"' {
		return l.scanString(startPos, parser.TokenString)
	}

	return l.scanPunct(startPos)
}

func (l *Lexer) token(kind parser.SyntaxKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) errorToken(kind parser.SyntaxKind, start Position, msg string) Token {
	tok := l.token(kind, start)
	tok.Error = msg
	return tok
}

func (l *Lexer) scanShebang(start Position) Token {
	for !l.atEOF() && l.peek() != '\n' {
		l.advance()
	}
	return l.token(parser.TokenShebang, start)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isWhitespace(l.peek()) {
		l.advance()
	}
	return l.token(parser.TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for !l.atEOF() && l.peek() != '\n' {
		l.advance()
	}
	return l.token(parser.TokenComment, start)
}

// scanBlockComment handles nesting: `/* /* */ */` is one comment.
func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	depth := 1
	for depth > 0 {
		switch {
		case l.atEOF():
			return l.errorToken(parser.TokenComment, start, "Missing trailing `*/` symbols to terminate the block comment")
		case l.peek() == '/' && l.peekN(1) == '*':
			l.advanceN(2)
			depth++
		case l.peek() == '*' && l.peekN(1) == '/':
			l.advanceN(2)
			depth--
		default:
			l.advance()
		}
	}
	return l.token(parser.TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position, raw bool) Token {
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentContinue(r) {
			break
		}
		l.advanceRune()
	}
	tok := l.token(parser.TokenIdent, start)
	if raw {
		return tok
	}
	if tok.Literal == "_" {
		tok.Kind = parser.TokenUnderscore
		return tok
	}
	tok.Kind = parser.LookupKeyword(tok.Literal)
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' {
		base := 0
		switch l.peekN(1) {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		if base != 0 {
			l.advanceN(2)
			n := 0
			for isDigitInBase(l.peek(), base) || l.peek() == '_' {
				if l.peek() != '_' {
					n++
				}
				l.advance()
			}
			l.scanSuffix()
			if n == 0 {
				return l.errorToken(parser.TokenIntNumber, start, "Missing digits after the integer base prefix")
			}
			return l.token(parser.TokenIntNumber, start)
		}
	}

	l.scanDigits()
	isFloat := false
	// `1.` is a float, but `1..2` is a range and `1.foo()` a method call.
	if l.peek() == '.' && l.peekN(1) != '.' && !isIdentStartByte(l.peekN(1)) {
		isFloat = true
		l.advance()
		if isDigit(l.peek()) {
			l.scanDigits()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			isFloat = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			l.scanDigits()
		}
	}
	suffix := l.scanSuffix()
	if suffix == "f32" || suffix == "f64" {
		isFloat = true
	}
	if isFloat {
		return l.token(parser.TokenFloatNumber, start)
	}
	return l.token(parser.TokenIntNumber, start)
}

func (l *Lexer) scanDigits() {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) scanSuffix() string {
	if !isIdentStartByte(l.peek()) {
		return ""
	}
	begin := l.pos
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentContinue(r) {
			break
		}
		l.advanceRune()
	}
	return string(l.input[begin:l.pos])
}

// scanLifetimeOrChar decides between `'a` and `'a'`: an identifier that is
// not closed by a quote right after its first character is a lifetime.
func (l *Lexer) scanLifetimeOrChar(start Position) Token {
	r, size := utf8.DecodeRune(l.input[l.pos+1:])
	if size > 0 && isIdentStart(r) && l.peekN(1+size) != '\'' {
		l.advance()
		for {
			r, size := l.peekRune()
			if size == 0 || !isIdentContinue(r) {
				break
			}
			l.advanceRune()
		}
		return l.token(parser.TokenLifetimeIdent, start)
	}
	return l.scanQuoted(start, parser.TokenChar)
}

// scanQuoted scans a char or byte literal; the cursor is at the opening
// quote.
func (l *Lexer) scanQuoted(start Position, kind parser.SyntaxKind) Token {
	l.advance()
	for !l.atEOF() && l.peek() != '\'' && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advanceRune()
	}
	if l.peek() != '\'' {
		return l.errorToken(kind, start, "Missing trailing `'` symbol to terminate the character literal")
	}
	l.advance()
	l.scanSuffix()
	return l.token(kind, start)
}

// scanString scans a string or byte string; the cursor is at the opening
// double quote.
func (l *Lexer) scanString(start Position, kind parser.SyntaxKind) Token {
	l.advance()
	for !l.atEOF() && l.peek() != '"' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advanceRune()
	}
	if l.atEOF() {
		return l.errorToken(kind, start, "Missing trailing `\"` symbol to terminate the string literal")
	}
	l.advance()
	l.scanSuffix()
	return l.token(kind, start)
}

// scanRawString scans r#"..."#; the cursor is just past the `r`.
func (l *Lexer) scanRawString(start Position, kind parser.SyntaxKind) Token {
	hashes := 0
	for l.peek() == '#' {
		hashes++
		l.advance()
	}
	if l.peek() != '"' {
		return l.errorToken(kind, start, "Missing `\"` symbol after `#` symbols to begin the raw string literal")
	}
	l.advance()
	for !l.atEOF() {
		if l.peek() == '"' && l.closesRaw(hashes) {
			l.advanceN(1 + hashes)
			l.scanSuffix()
			return l.token(kind, start)
		}
		l.advanceRune()
	}
	return l.errorToken(kind, start, "Missing trailing `\"` with `#` symbols to terminate the raw string literal")
}

func (l *Lexer) closesRaw(hashes int) bool {
	for i := 1; i <= hashes; i++ {
		if l.peekN(i) != '#' {
			return false
		}
	}
	return true
}

func (l *Lexer) scanPunct(start Position) Token {
	if kind := parser.PunctKind(l.peek()); kind != parser.Tombstone {
		l.advance()
		return l.token(kind, start)
	}
	l.advanceRune()
	if l.pos == start.Offset {
		// Invalid UTF-8 still has to make progress.
		l.advance()
	}
	return l.errorToken(parser.TokenError, start, "unknown token")
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isDigitInBase(ch byte, base int) bool {
	switch base {
	case 2:
		return ch == '0' || ch == '1'
	case 8:
		return ch >= '0' && ch <= '7'
	}
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStartByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= utf8.RuneSelf
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
