package parser

var patternFirst = literalFirst.Union(pathFirst).Union(NewTokenSet(
	TokenBox, TokenRef, TokenMut, TokenLParen, TokenLBrack, TokenAmp,
	TokenUnderscore, TokenMinus, TokenDot,
))

var patRecoverySet = NewTokenSet(
	TokenLet, TokenIf, TokenWhile, TokenLoop, TokenMatch, TokenRParen, TokenComma,
)

func pattern(p *Parser) {
	patternR(p, patRecoverySet)
}

// patternTop parses an or-pattern with an optional leading `|`.
func patternTop(p *Parser) {
	patternTopR(p, patRecoverySet)
}

func patternTopR(p *Parser, recovery TokenSet) {
	p.Eat(TokenPipe)
	patternR(p, recovery)
}

func patternSingle(p *Parser) {
	patternSingleR(p, patRecoverySet)
}

func patternR(p *Parser, recovery TokenSet) {
	m := p.Start()
	patternSingleR(p, recovery)
	if !p.At(TokenPipe) {
		m.Abandon(p)
		return
	}
	for p.Eat(TokenPipe) {
		patternSingleR(p, recovery)
	}
	m.Complete(p, KindOrPat)
}

func patternSingleR(p *Parser, recovery TokenSet) {
	lhs, ok := atomPat(p, recovery)
	if !ok {
		return
	}
	for _, op := range []SyntaxKind{TokenDot3, TokenDot2Eq, TokenDot2} {
		if !p.At(op) {
			continue
		}
		m := lhs.Precede(p)
		p.Bump(op)
		// `0.. =>` and `let 0.. =` are half open.
		if !p.At(TokenEq) {
			atomPat(p, recovery)
		}
		m.Complete(p, KindRangePat)
		return
	}
}

func atomPat(p *Parser, recovery TokenSet) (CompletedMarker, bool) {
	switch k := p.Current(); {
	case k == TokenBox:
		return boxPat(p), true
	case k == TokenRef || k == TokenMut:
		return identPat(p, true), true
	case k == TokenConst:
		m := p.Start()
		p.Bump(TokenConst)
		blockExpr(p)
		return m.Complete(p, KindConstBlockPat), true
	case k == TokenIdent:
		switch p.Nth(1) {
		case TokenLParen, TokenLCurly, TokenBang:
			return pathOrMacroPat(p), true
		case TokenColon:
			if p.NthAt(1, TokenColon2) {
				return pathOrMacroPat(p), true
			}
		}
		return identPat(p, true), true
	case isPathStart(p):
		return pathOrMacroPat(p), true
	case isLiteralPatStart(p):
		m := p.Start()
		p.Eat(TokenMinus)
		literal(p)
		return m.Complete(p, KindLiteralPat), true
	case k == TokenDot && p.At(TokenDot2):
		m := p.Start()
		p.Bump(TokenDot2)
		return m.Complete(p, KindRestPat), true
	case k == TokenUnderscore:
		m := p.Start()
		p.Bump(TokenUnderscore)
		return m.Complete(p, KindWildcardPat), true
	case k == TokenAmp:
		m := p.Start()
		p.Bump(TokenAmp)
		p.Eat(TokenMut)
		patternSingle(p)
		return m.Complete(p, KindRefPat), true
	case k == TokenLParen:
		return tuplePat(p), true
	case k == TokenLBrack:
		m := p.Start()
		p.Bump(TokenLBrack)
		patList(p, TokenRBrack)
		p.Expect(TokenRBrack)
		return m.Complete(p, KindSlicePat), true
	}
	p.ErrRecover("expected pattern", recovery)
	return CompletedMarker{}, false
}

func isLiteralPatStart(p *Parser) bool {
	if p.At(TokenMinus) {
		k := p.Nth(1)
		return k == TokenIntNumber || k == TokenFloatNumber
	}
	return p.AtTS(literalFirst)
}

func pathOrMacroPat(p *Parser) CompletedMarker {
	m := p.Start()
	exprPath(p)
	switch p.Current() {
	case TokenLParen:
		p.Bump(TokenLParen)
		patList(p, TokenRParen)
		p.Expect(TokenRParen)
		return m.Complete(p, KindTupleStructPat)
	case TokenLCurly:
		recordPatFieldList(p)
		return m.Complete(p, KindRecordPat)
	case TokenBang:
		macroCallAfterExcl(p)
		return m.Complete(p, KindMacroCall).Precede(p).Complete(p, KindMacroPat)
	}
	return m.Complete(p, KindPathPat)
}

func recordPatFieldList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLCurly)
	for !p.At(TokenEOF) && !p.At(TokenRCurly) {
		f := p.Start()
		outerAttrs(p)
		switch {
		case p.At(TokenDot2):
			p.Bump(TokenDot2)
			f.Complete(p, KindRestPat)
		case p.At(TokenLCurly):
			errorBlock(p, "expected ident")
			f.Abandon(p)
		case !p.At(TokenIdent) && !p.At(TokenIntNumber) && !p.At(TokenRef) && !p.At(TokenMut) && !p.At(TokenBox):
			f.Abandon(p)
			p.ErrAndBump("expected identifier")
		default:
			recordPatField(p)
			f.Complete(p, KindRecordPatField)
		}
		if !p.At(TokenRCurly) {
			p.Expect(TokenComma)
		}
	}
	p.Expect(TokenRCurly)
	m.Complete(p, KindRecordPatFieldList)
}

func recordPatField(p *Parser) {
	switch k := p.Current(); {
	case (k == TokenIdent || k == TokenIntNumber) && p.Nth(1) == TokenColon:
		nameRefOrIndex(p)
		p.Bump(TokenColon)
		pattern(p)
	case k == TokenBox:
		boxPat(p)
	default:
		identPat(p, false)
	}
}

func identPat(p *Parser, withAt bool) CompletedMarker {
	m := p.Start()
	p.Eat(TokenRef)
	p.Eat(TokenMut)
	nameR(p, patRecoverySet)
	if withAt && p.Eat(TokenAt) {
		patternSingle(p)
	}
	return m.Complete(p, KindIdentPat)
}

func tuplePat(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenLParen)
	hasComma, hasPat, hasRest := false, false, false
	for !p.At(TokenEOF) && !p.At(TokenRParen) {
		hasPat = true
		if !p.AtTS(patternFirst) {
			p.Error("expected a pattern")
			break
		}
		hasRest = hasRest || p.At(TokenDot2)
		pattern(p)
		if !p.At(TokenRParen) {
			hasComma = true
			p.Expect(TokenComma)
		}
	}
	p.Expect(TokenRParen)
	if hasPat && !hasComma && !hasRest {
		return m.Complete(p, KindParenPat)
	}
	return m.Complete(p, KindTuplePat)
}

func patList(p *Parser, ket SyntaxKind) {
	for !p.At(TokenEOF) && !p.At(ket) {
		if !p.AtTS(patternFirst) {
			p.Error("expected a pattern")
			break
		}
		pattern(p)
		if !p.At(ket) {
			p.Expect(TokenComma)
		}
	}
}

func boxPat(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenBox)
	patternSingle(p)
	return m.Complete(p, KindBoxPat)
}
