package parser

var pathFirst = NewTokenSet(
	TokenIdent, TokenSelf, TokenSuper, TokenCrate, TokenSelfType, TokenColon, TokenLAngle,
)

type pathMode uint8

const (
	modeUse pathMode = iota
	modeType
	modeExpr
)

func isPathStart(p *Parser) bool {
	return isUsePathStart(p) || p.At(TokenLAngle)
}

func isUsePathStart(p *Parser) bool {
	switch p.Current() {
	case TokenIdent, TokenSelf, TokenSuper, TokenCrate, TokenSelfType:
		return true
	case TokenColon:
		return p.At(TokenColon2)
	}
	return false
}

func usePath(p *Parser)  { path(p, modeUse) }
func typePath(p *Parser) { path(p, modeType) }
func exprPath(p *Parser) { path(p, modeExpr) }

func path(p *Parser, mode pathMode) {
	m := p.Start()
	pathSegment(p, mode, true)
	qual := m.Complete(p, KindPath)
	pathForQualifier(p, mode, qual)
}

func pathForQualifier(p *Parser, mode pathMode, qual CompletedMarker) CompletedMarker {
	for {
		// `a::*` and `a::{...}` belong to the use tree, not the path.
		useTree := p.Nth(2) == TokenStar || p.Nth(2) == TokenLCurly
		if !p.At(TokenColon2) || useTree {
			return qual
		}
		m := qual.Precede(p)
		p.Bump(TokenColon2)
		pathSegment(p, mode, false)
		qual = m.Complete(p, KindPath)
	}
}

func pathSegment(p *Parser, mode pathMode, first bool) {
	m := p.Start()
	if first && p.Eat(TokenLAngle) {
		// <T as Trait>::Item
		typ(p)
		if p.Eat(TokenAs) {
			if isUsePathStart(p) {
				pathType(p, true)
			} else {
				p.Error("expected a trait")
			}
		}
		p.Expect(TokenRAngle)
		m.Complete(p, KindPathSegment)
		return
	}
	empty := true
	if first {
		p.Eat(TokenColon2)
		empty = false
	}
	switch p.Current() {
	case TokenIdent:
		nameRef(p)
		optPathTypeArgs(p, mode)
	case TokenSelf, TokenSuper, TokenCrate, TokenSelfType:
		n := p.Start()
		p.BumpAny()
		n.Complete(p, KindNameRef)
	default:
		p.ErrRecover("expected identifier", itemRecoverySet)
		if empty {
			m.Abandon(p)
			return
		}
	}
	m.Complete(p, KindPathSegment)
}

func optPathTypeArgs(p *Parser, mode pathMode) {
	switch mode {
	case modeType:
		if p.At(TokenLParen) {
			// Fn(A) -> B
			paramList(p, flavorFnTrait)
			optRetType(p)
		} else {
			optGenericArgList(p, false)
		}
	case modeExpr:
		optGenericArgList(p, true)
		missingTurbofish(p)
	}
}

// missingTurbofish recovers `f<T>::g()`, where `<` would otherwise be read
// as a comparison. The argument list is kept only if it parses cleanly and
// is followed by `::`. Trials do not nest.
func missingTurbofish(p *Parser) {
	if p.inTrial || !p.At(TokenLAngle) || p.At(TokenShl) || p.At(TokenLtEq) {
		return
	}
	cp := p.Checkpoint()
	p.inTrial = true
	genericArgList(p)
	p.inTrial = false
	if p.ErrorsSince(cp) || !p.At(TokenColon2) {
		p.Rewind(cp)
		return
	}
	p.Error("use `::<...>` instead of `<...>` to specify generic arguments")
}
