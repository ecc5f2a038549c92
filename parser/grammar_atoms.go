package parser

var atomExprFirst = literalFirst.Union(pathFirst).Union(NewTokenSet(
	TokenLParen, TokenLCurly, TokenLBrack, TokenPipe, TokenMove, TokenBox,
	TokenIf, TokenWhile, TokenMatch, TokenUnsafe, TokenReturn, TokenYield,
	TokenBreak, TokenContinue, TokenAsync, TokenTry, TokenConst, TokenLoop,
	TokenFor, TokenLifetimeIdent,
))

func atomExpr(p *Parser, r restrictions) (CompletedMarker, blockLike, bool) {
	if cm, ok := literal(p); ok {
		return cm, notBlock, true
	}
	if isPathStart(p) {
		cm, bl := pathExpr(p, r)
		return cm, bl, true
	}
	la := p.Nth(1)
	var done CompletedMarker
	switch p.Current() {
	case TokenLParen:
		done = tupleExpr(p)
	case TokenLBrack:
		done = arrayExpr(p)
	case TokenPipe:
		done = closureExpr(p)
	case TokenMove:
		if la != TokenPipe {
			return atomExprError(p)
		}
		done = closureExpr(p)
	case TokenAsync:
		switch {
		case la == TokenPipe || (la == TokenMove && p.Nth(2) == TokenPipe):
			done = closureExpr(p)
		case la == TokenLCurly || (la == TokenMove && p.Nth(2) == TokenLCurly):
			m := p.Start()
			p.Bump(TokenAsync)
			p.Eat(TokenMove)
			blockExpr(p)
			done = m.Complete(p, KindEffectExpr)
		default:
			return atomExprError(p)
		}
	case TokenIf:
		done = ifExpr(p)
	case TokenLoop:
		done = loopExpr(p, p.Start())
	case TokenBox:
		done = boxExpr(p)
	case TokenFor:
		done = forExpr(p, p.Start())
	case TokenWhile:
		done = whileExpr(p, p.Start())
	case TokenTry:
		done = tryBlockExpr(p)
	case TokenLifetimeIdent:
		if la != TokenColon {
			return atomExprError(p)
		}
		m := p.Start()
		label(p)
		switch p.Current() {
		case TokenLoop:
			done = loopExpr(p, m)
		case TokenFor:
			done = forExpr(p, m)
		case TokenWhile:
			done = whileExpr(p, m)
		case TokenLCurly:
			blockExpr(p)
			done = m.Complete(p, KindEffectExpr)
		default:
			p.Error("expected a loop")
			return m.Complete(p, KindError), notBlock, true
		}
	case TokenMatch:
		done = matchExpr(p)
	case TokenUnsafe, TokenConst:
		if la != TokenLCurly {
			return atomExprError(p)
		}
		m := p.Start()
		p.BumpAny()
		blockExpr(p)
		done = m.Complete(p, KindEffectExpr)
	case TokenLCurly:
		done = blockExprUnchecked(p)
	case TokenReturn:
		done = returnExpr(p)
	case TokenYield:
		done = yieldExpr(p)
	case TokenContinue:
		done = continueExpr(p)
	case TokenBreak:
		done = breakExpr(p, r)
	default:
		return atomExprError(p)
	}
	switch done.Kind() {
	case KindIfExpr, KindWhileExpr, KindForExpr, KindLoopExpr, KindMatchExpr, KindBlockExpr, KindEffectExpr:
		return done, isBlock, true
	}
	return done, notBlock, true
}

func atomExprError(p *Parser) (CompletedMarker, blockLike, bool) {
	p.ErrRecover("expected expression", exprRecoverySet)
	return CompletedMarker{}, notBlock, false
}

func tupleExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Expect(TokenLParen)
	sawComma, sawExpr := false, false
	for !p.At(TokenEOF) && !p.At(TokenRParen) {
		sawExpr = true
		outerAttrs(p)
		if !p.AtTS(exprFirst) {
			p.Error("expected expression")
			break
		}
		expr(p)
		if !p.At(TokenRParen) {
			sawComma = true
			p.Expect(TokenComma)
		}
	}
	p.Expect(TokenRParen)
	if sawExpr && !sawComma {
		return m.Complete(p, KindParenExpr)
	}
	return m.Complete(p, KindTupleExpr)
}

// arrayExpr parses `[a, b]` and `[x; n]`.
func arrayExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenLBrack)
	n, hasSemi := 0, false
	for !p.At(TokenEOF) && !p.At(TokenRBrack) {
		n++
		outerAttrs(p)
		if !p.AtTS(exprFirst) {
			p.Error("expected expression")
			break
		}
		expr(p)
		if n == 1 && p.Eat(TokenSemicolon) {
			hasSemi = true
			continue
		}
		if hasSemi || (!p.At(TokenRBrack) && !p.Expect(TokenComma)) {
			break
		}
	}
	p.Expect(TokenRBrack)
	return m.Complete(p, KindArrayExpr)
}

func closureExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Eat(TokenAsync)
	p.Eat(TokenMove)
	paramList(p, flavorClosure)
	switch {
	case optRetType(p):
		// An explicit return type requires a block body.
		blockExpr(p)
	case p.AtTS(exprFirst):
		expr(p)
	default:
		p.Error("expected expression")
	}
	return m.Complete(p, KindClosureExpr)
}

func ifExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenIf)
	condition(p)
	blockExpr(p)
	if p.Eat(TokenElse) {
		if p.At(TokenIf) {
			ifExpr(p)
		} else {
			blockExpr(p)
		}
	}
	return m.Complete(p, KindIfExpr)
}

func label(p *Parser) {
	m := p.Start()
	lifetime(p)
	p.Bump(TokenColon)
	m.Complete(p, KindLabel)
}

func loopExpr(p *Parser, m Marker) CompletedMarker {
	p.Bump(TokenLoop)
	blockExpr(p)
	return m.Complete(p, KindLoopExpr)
}

func whileExpr(p *Parser, m Marker) CompletedMarker {
	p.Bump(TokenWhile)
	condition(p)
	blockExpr(p)
	return m.Complete(p, KindWhileExpr)
}

func forExpr(p *Parser, m Marker) CompletedMarker {
	p.Bump(TokenFor)
	pattern(p)
	p.Expect(TokenIn)
	exprNoStruct(p)
	blockExpr(p)
	return m.Complete(p, KindForExpr)
}

// condition parses the head of `if` and `while`, including `let` forms.
func condition(p *Parser) {
	m := p.Start()
	if p.Eat(TokenLet) {
		patternTop(p)
		p.Expect(TokenEq)
	}
	exprNoStruct(p)
	m.Complete(p, KindCondition)
}

func matchExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenMatch)
	exprNoStruct(p)
	if p.At(TokenLCurly) {
		matchArmList(p)
	} else {
		p.Error("expected `{`")
	}
	return m.Complete(p, KindMatchExpr)
}

func matchArmList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLCurly)
	innerAttrs(p)
	for !p.At(TokenEOF) && !p.At(TokenRCurly) {
		if p.At(TokenLCurly) {
			errorBlock(p, "expected match arm")
			continue
		}
		matchArm(p)
	}
	p.Expect(TokenRCurly)
	m.Complete(p, KindMatchArmList)
}

func matchArm(p *Parser) {
	m := p.Start()
	outerAttrs(p)
	patternTopR(p, EmptySet)
	if p.At(TokenIf) {
		g := p.Start()
		p.Bump(TokenIf)
		expr(p)
		g.Complete(p, KindMatchGuard)
	}
	p.Expect(TokenFatArrow)
	_, bl, _ := exprStmt(p)
	if !p.Eat(TokenComma) && bl != isBlock && !p.At(TokenRCurly) {
		p.Error("expected `,`")
	}
	m.Complete(p, KindMatchArm)
}

// tryBlockExpr parses `try { ... }`. The 2015 `try!(...)` macro is kept
// working by reading `try` as an identifier when `!` follows.
func tryBlockExpr(p *Parser) CompletedMarker {
	m := p.Start()
	if p.NthAt(1, TokenBang) {
		path := p.Start()
		segment := p.Start()
		ref := p.Start()
		p.BumpRemap(TokenIdent)
		ref.Complete(p, KindNameRef)
		segment.Complete(p, KindPathSegment)
		path.Complete(p, KindPath)
		macroCallAfterExcl(p)
		return m.Complete(p, KindMacroCall)
	}
	p.Bump(TokenTry)
	blockExpr(p)
	return m.Complete(p, KindEffectExpr)
}

func boxExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenBox)
	if p.AtTS(exprFirst) {
		expr(p)
	}
	return m.Complete(p, KindBoxExpr)
}

func returnExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenReturn)
	if p.AtTS(exprFirst) {
		expr(p)
	}
	return m.Complete(p, KindReturnExpr)
}

func yieldExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenYield)
	if p.AtTS(exprFirst) {
		expr(p)
	}
	return m.Complete(p, KindYieldExpr)
}

func continueExpr(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenContinue)
	if p.At(TokenLifetimeIdent) {
		lifetime(p)
	}
	return m.Complete(p, KindContinueExpr)
}

func breakExpr(p *Parser, r restrictions) CompletedMarker {
	m := p.Start()
	p.Bump(TokenBreak)
	if p.At(TokenLifetimeIdent) {
		lifetime(p)
	}
	// `for i in 0..{ break }` must not read `{` as the break value.
	if p.AtTS(exprFirst) && !(r.forbidStructs && p.At(TokenLCurly)) {
		expr(p)
	}
	return m.Complete(p, KindBreakExpr)
}
