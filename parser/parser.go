package parser

// stepLimit bounds the lookahead calls allowed without consuming a token.
// Hitting it means a grammar routine loops without progress.
const stepLimit = 15_000_000

// stuckError unwinds the grammar when the step limit is hit.
type stuckError struct{}

// Parser is the cursor over a TokenSource. It records what the grammar
// finds as an append-only event log; it never builds a tree itself.
//
// Lookahead works on raw tokens. Composite punctuation such as `::` or
// `>>=` is recognised by NthAt from joint single-character tokens.
type Parser struct {
	tokens TokenSource
	pos    int
	events []Event
	steps  int
	// open holds the event positions of started but unfinished markers.
	open []int
	// inTrial is set while a speculative parse runs.
	inTrial bool
}

func newParser(tokens TokenSource) *Parser {
	return &Parser{tokens: tokens}
}

// Current returns the kind of the token under the cursor.
func (p *Parser) Current() SyntaxKind {
	return p.Nth(0)
}

// Nth returns the kind of the raw token n positions ahead, or TokenEOF.
func (p *Parser) Nth(n int) SyntaxKind {
	p.step()
	return p.tokens.Kind(p.pos + n)
}

func (p *Parser) step() {
	p.steps++
	if p.steps > stepLimit {
		panic(stuckError{})
	}
}

func (p *Parser) At(kind SyntaxKind) bool {
	return p.NthAt(0, kind)
}

// NthAt reports whether the token n positions ahead is kind. Composite
// kinds match when their parts are joint.
func (p *Parser) NthAt(n int, kind SyntaxKind) bool {
	switch kind {
	case TokenDot3:
		return p.atComposite3(n, TokenDot, TokenDot, TokenDot)
	case TokenDot2Eq:
		return p.atComposite3(n, TokenDot, TokenDot, TokenEq)
	case TokenShlEq:
		return p.atComposite3(n, TokenLAngle, TokenLAngle, TokenEq)
	case TokenShrEq:
		return p.atComposite3(n, TokenRAngle, TokenRAngle, TokenEq)
	}
	if parts, ok := composite2[kind]; ok {
		return p.atComposite2(n, parts[0], parts[1])
	}
	return p.Nth(n) == kind
}

var composite2 = map[SyntaxKind][2]SyntaxKind{
	TokenDot2:      {TokenDot, TokenDot},
	TokenColon2:    {TokenColon, TokenColon},
	TokenEq2:       {TokenEq, TokenEq},
	TokenFatArrow:  {TokenEq, TokenRAngle},
	TokenNeq:       {TokenBang, TokenEq},
	TokenThinArrow: {TokenMinus, TokenRAngle},
	TokenLtEq:      {TokenLAngle, TokenEq},
	TokenGtEq:      {TokenRAngle, TokenEq},
	TokenPlusEq:    {TokenPlus, TokenEq},
	TokenMinusEq:   {TokenMinus, TokenEq},
	TokenPipeEq:    {TokenPipe, TokenEq},
	TokenAmpEq:     {TokenAmp, TokenEq},
	TokenCaretEq:   {TokenCaret, TokenEq},
	TokenSlashEq:   {TokenSlash, TokenEq},
	TokenStarEq:    {TokenStar, TokenEq},
	TokenPercentEq: {TokenPercent, TokenEq},
	TokenAmp2:      {TokenAmp, TokenAmp},
	TokenPipe2:     {TokenPipe, TokenPipe},
	TokenShl:       {TokenLAngle, TokenLAngle},
	TokenShr:       {TokenRAngle, TokenRAngle},
}

func (p *Parser) atComposite2(n int, k1, k2 SyntaxKind) bool {
	i := p.pos + n
	return p.Nth(n) == k1 && p.tokens.Kind(i+1) == k2 && p.tokens.IsJoint(i)
}

func (p *Parser) atComposite3(n int, k1, k2, k3 SyntaxKind) bool {
	i := p.pos + n
	return p.Nth(n) == k1 &&
		p.tokens.Kind(i+1) == k2 && p.tokens.IsJoint(i) &&
		p.tokens.Kind(i+2) == k3 && p.tokens.IsJoint(i+1)
}

// rawCount is the number of raw tokens a kind spans.
func rawCount(kind SyntaxKind) int {
	switch kind {
	case TokenDot3, TokenDot2Eq, TokenShlEq, TokenShrEq:
		return 3
	}
	if _, ok := composite2[kind]; ok {
		return 2
	}
	return 1
}

func (p *Parser) AtTS(set TokenSet) bool {
	return set.Contains(p.Current())
}

// AtContextualKW reports whether the current token is an identifier
// spelled kw.
func (p *Parser) AtContextualKW(kw string) bool {
	return p.NthAtContextualKW(0, kw)
}

func (p *Parser) NthAtContextualKW(n int, kw string) bool {
	p.step()
	return p.tokens.IsKeyword(p.pos+n, kw)
}

// Start opens a new node. The returned Marker must be completed or
// abandoned.
func (p *Parser) Start() Marker {
	pos := len(p.events)
	p.events = append(p.events, tombstone())
	p.open = append(p.open, pos)
	return Marker{pos: pos}
}

// Bump consumes the current token, which must be kind. A mismatch is a
// grammar bug; it is reported and the token is consumed anyway.
func (p *Parser) Bump(kind SyntaxKind) {
	if p.Eat(kind) {
		return
	}
	p.bug("bump of " + kind.String() + " at " + p.Current().String())
	p.BumpAny()
}

// BumpAny consumes the current raw token whatever its kind.
func (p *Parser) BumpAny() {
	kind := p.Current()
	if kind == TokenEOF {
		return
	}
	p.doBump(kind, 1)
}

// BumpRemap consumes the current raw token recording it as kind, as when
// an identifier is a contextual keyword.
func (p *Parser) BumpRemap(kind SyntaxKind) {
	if p.Current() == TokenEOF {
		return
	}
	p.doBump(kind, 1)
}

func (p *Parser) doBump(kind SyntaxKind, n int) {
	p.pos += n
	p.steps = 0
	p.events = append(p.events, Event{Kind: EventToken, Syntax: kind, NRawTokens: n})
}

// Eat consumes the current token if it is kind.
func (p *Parser) Eat(kind SyntaxKind) bool {
	if !p.At(kind) {
		return false
	}
	p.doBump(kind, rawCount(kind))
	return true
}

// Expect consumes kind or reports that it is missing.
func (p *Parser) Expect(kind SyntaxKind) bool {
	if p.Eat(kind) {
		return true
	}
	p.Error("expected " + kind.display())
	return false
}

// Error records a syntax error at the current position without consuming
// input.
func (p *Parser) Error(msg string) {
	p.events = append(p.events, Event{Kind: EventError, Msg: msg})
}

func (p *Parser) bug(msg string) {
	p.events = append(p.events, Event{Kind: EventError, Msg: msg, Bug: true})
}

// ErrAndBump reports msg and wraps the current token in an error node.
func (p *Parser) ErrAndBump(msg string) {
	p.ErrRecover(msg, EmptySet)
}

// ErrRecover reports msg. Unless the current token is a brace or belongs
// to recovery, it is also wrapped in an error node.
func (p *Parser) ErrRecover(msg string, recovery TokenSet) {
	switch p.Current() {
	case TokenLCurly, TokenRCurly:
		p.Error(msg)
		return
	}
	if p.AtTS(recovery) {
		p.Error(msg)
		return
	}
	m := p.Start()
	p.Error(msg)
	p.BumpAny()
	m.Complete(p, KindError)
}

// Checkpoint is a snapshot of the cursor for speculative parsing.
type Checkpoint struct {
	pos    int
	events int
}

func (p *Parser) Checkpoint() Checkpoint {
	return Checkpoint{pos: p.pos, events: len(p.events)}
}

// Rewind restores the cursor to cp, discarding every event recorded since.
// Markers started after cp must not be used afterwards.
func (p *Parser) Rewind(cp Checkpoint) {
	p.pos = cp.pos
	p.events = p.events[:cp.events]
	open := p.open[:0]
	for _, pos := range p.open {
		if pos < cp.events {
			open = append(open, pos)
		}
	}
	p.open = open
}

// ErrorsSince reports whether a syntax error was recorded after cp.
func (p *Parser) ErrorsSince(cp Checkpoint) bool {
	for _, ev := range p.events[cp.events:] {
		if ev.Kind == EventError {
			return true
		}
	}
	return false
}

// Finish returns the event log. Markers still open are a grammar bug:
// they are reported and left as tombstones.
func (p *Parser) Finish() []Event {
	for range p.open {
		p.bug("unfinished node")
	}
	p.open = nil
	return p.events
}

func (p *Parser) closeMarker(pos int) {
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i] == pos {
			p.open = append(p.open[:i], p.open[i+1:]...)
			return
		}
	}
}

// recoverStuck repairs the log after the step limit was hit. Inner open
// nodes are dropped, the unread tokens are wrapped in an error node and
// the outermost open node is closed as rootKind.
func (p *Parser) recoverStuck(rootKind SyntaxKind) {
	p.bug("the parser seems stuck")
	root := -1
	if len(p.open) > 0 {
		root = p.open[0]
	}
	p.open = nil
	if p.pos < p.tokens.Len() {
		p.events = append(p.events, Event{Kind: EventStart, Syntax: KindError})
		for ; p.pos < p.tokens.Len(); p.pos++ {
			p.events = append(p.events, Event{Kind: EventToken, Syntax: p.tokens.Kind(p.pos), NRawTokens: 1})
		}
		p.events = append(p.events, Event{Kind: EventFinish})
	}
	if root >= 0 {
		p.events[root].Syntax = rootKind
		p.events = append(p.events, Event{Kind: EventFinish})
	}
}

// Marker is an open node.
type Marker struct {
	pos int
}

// Complete closes the node as kind.
func (m Marker) Complete(p *Parser, kind SyntaxKind) CompletedMarker {
	p.events[m.pos].Syntax = kind
	p.closeMarker(m.pos)
	p.events = append(p.events, Event{Kind: EventFinish})
	return CompletedMarker{start: m.pos, finish: len(p.events) - 1, kind: kind}
}

// Abandon cancels the node. Its children, if any, move to the parent.
func (m Marker) Abandon(p *Parser) {
	p.closeMarker(m.pos)
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
		return
	}
	p.events[m.pos].Syntax = Tombstone
}

// CompletedMarker is a closed node that can still be wrapped or reopened.
type CompletedMarker struct {
	start, finish int
	kind          SyntaxKind
}

func (cm CompletedMarker) Kind() SyntaxKind {
	return cm.kind
}

// Precede opens a new node that will become the parent of cm, although
// its Start event is recorded after cm's.
func (cm CompletedMarker) Precede(p *Parser) Marker {
	nm := p.Start()
	p.events[cm.start].ForwardParent = nm.pos - cm.start
	return nm
}

// UndoCompletion reopens cm without a kind so it can be completed again
// or abandoned.
func (cm CompletedMarker) UndoCompletion(p *Parser) Marker {
	p.events[cm.start].Syntax = Tombstone
	p.events[cm.finish] = tombstone()
	p.open = append(p.open, cm.start)
	return Marker{pos: cm.start}
}

// ExtendTo makes cm start where m started, so the content recorded
// between the two (such as leading attributes) becomes part of cm.
func (cm CompletedMarker) ExtendTo(p *Parser, m Marker) CompletedMarker {
	p.closeMarker(m.pos)
	p.events[m.pos].ForwardParent = cm.start - m.pos
	return cm
}
