package parser

func optGenericArgList(p *Parser, colonColonRequired bool) {
	switch {
	case p.At(TokenColon2) && p.Nth(2) == TokenLAngle:
		m := p.Start()
		p.Bump(TokenColon2)
		genericArgsUntilClose(p, m)
	case !colonColonRequired && p.At(TokenLAngle) && p.Nth(1) != TokenEq:
		genericArgList(p)
	}
}

// genericArgList parses `<...>` with the cursor at `<`.
func genericArgList(p *Parser) {
	genericArgsUntilClose(p, p.Start())
}

func genericArgsUntilClose(p *Parser, m Marker) {
	p.Bump(TokenLAngle)
	for !p.At(TokenEOF) && !p.At(TokenRAngle) {
		genericArg(p)
		if !p.At(TokenRAngle) && !p.Expect(TokenComma) {
			break
		}
	}
	p.Expect(TokenRAngle)
	m.Complete(p, KindGenericArgList)
}

func genericArg(p *Parser) {
	m := p.Start()
	switch k := p.Current(); {
	case k == TokenLifetimeIdent:
		lifetime(p)
		m.Complete(p, KindLifetimeArg)
	case k == TokenIdent && (p.Nth(1) == TokenLAngle || p.Nth(1) == TokenEq || p.Nth(1) == TokenColon):
		pathTy := p.Start()
		pathM := p.Start()
		segment := p.Start()
		nameRef(p)
		optGenericArgList(p, false)
		switch {
		case p.At(TokenEq):
			// Item = T
			p.BumpAny()
			typ(p)
			segment.Abandon(p)
			pathM.Abandon(p)
			pathTy.Abandon(p)
			m.Complete(p, KindAssocTypeArg)
		case p.At(TokenColon) && !p.At(TokenColon2):
			// Item: Bound
			bounds(p)
			segment.Abandon(p)
			pathM.Abandon(p)
			pathTy.Abandon(p)
			m.Complete(p, KindAssocTypeArg)
		default:
			segment.Complete(p, KindPathSegment)
			qual := pathM.Complete(p, KindPath)
			pathForQualifier(p, modeType, qual)
			pathTy.Complete(p, KindPathType)
			m.Complete(p, KindTypeArg)
		}
	case k == TokenMinus:
		neg := p.Start()
		p.Bump(TokenMinus)
		literal(p)
		neg.Complete(p, KindPrefixExpr)
		m.Complete(p, KindConstArg)
	case k == TokenLCurly:
		blockExpr(p)
		m.Complete(p, KindConstArg)
	case literalFirst.Contains(k):
		literal(p)
		m.Complete(p, KindConstArg)
	default:
		typ(p)
		m.Complete(p, KindTypeArg)
	}
}

func optGenericParamList(p *Parser) {
	if !p.At(TokenLAngle) {
		return
	}
	m := p.Start()
	p.Bump(TokenLAngle)
	for !p.At(TokenEOF) && !p.At(TokenRAngle) {
		genericParam(p)
		if !p.At(TokenRAngle) && !p.Expect(TokenComma) {
			break
		}
	}
	p.Expect(TokenRAngle)
	m.Complete(p, KindGenericParamList)
}

func genericParam(p *Parser) {
	m := p.Start()
	outerAttrs(p)
	switch p.Current() {
	case TokenLifetimeIdent:
		lifetime(p)
		if p.At(TokenColon) {
			lifetimeBounds(p)
		}
		m.Complete(p, KindLifetimeParam)
	case TokenIdent:
		name(p)
		if p.At(TokenColon) {
			bounds(p)
		}
		if p.Eat(TokenEq) {
			typ(p)
		}
		m.Complete(p, KindTypeParam)
	case TokenConst:
		p.Bump(TokenConst)
		name(p)
		if p.At(TokenColon) {
			ascription(p)
		} else {
			p.Error("missing type for const parameter")
		}
		if p.Eat(TokenEq) {
			constArg(p)
		}
		m.Complete(p, KindConstParam)
	default:
		m.Abandon(p)
		p.ErrAndBump("expected type parameter")
	}
}

// constArg parses the default of a const parameter: a block, a literal
// or a path.
func constArg(p *Parser) {
	m := p.Start()
	switch {
	case p.At(TokenLCurly):
		blockExpr(p)
	case p.AtTS(literalFirst):
		literal(p)
	case p.At(TokenMinus):
		neg := p.Start()
		p.Bump(TokenMinus)
		literal(p)
		neg.Complete(p, KindPrefixExpr)
	default:
		pe := p.Start()
		exprPath(p)
		pe.Complete(p, KindPathExpr)
	}
	m.Complete(p, KindConstArg)
}

func lifetimeBounds(p *Parser) {
	p.Bump(TokenColon)
	for p.At(TokenLifetimeIdent) {
		lifetime(p)
		if !p.Eat(TokenPlus) {
			break
		}
	}
}

// bounds parses `: Bound + Bound`.
func bounds(p *Parser) {
	p.Bump(TokenColon)
	boundsWithoutColon(p)
}

func boundsWithoutColon(p *Parser) CompletedMarker {
	return boundsWithoutColonM(p, p.Start())
}

func boundsWithoutColonM(p *Parser, m Marker) CompletedMarker {
	for typeBound(p) {
		if !p.Eat(TokenPlus) {
			break
		}
	}
	return m.Complete(p, KindTypeBoundList)
}

func typeBound(p *Parser) bool {
	m := p.Start()
	hasParen := p.Eat(TokenLParen)
	p.Eat(TokenQuestion)
	if p.Eat(TokenTilde) {
		p.Expect(TokenConst)
	}
	switch {
	case p.At(TokenLifetimeIdent):
		lifetime(p)
	case p.At(TokenFor):
		forType(p, false)
	case isUsePathStart(p):
		pathType(p, false)
	default:
		m.Abandon(p)
		return false
	}
	if hasParen {
		p.Expect(TokenRParen)
	}
	m.Complete(p, KindTypeBound)
	return true
}

func optWhereClause(p *Parser) {
	if !p.At(TokenWhere) {
		return
	}
	m := p.Start()
	p.Bump(TokenWhere)
	for isWherePredicate(p) {
		wherePredicate(p)
		comma := p.Eat(TokenComma)
		if isWhereClauseEnd(p) {
			break
		}
		if !comma {
			p.Error("expected comma")
		}
	}
	m.Complete(p, KindWhereClause)
}

func isWherePredicate(p *Parser) bool {
	switch k := p.Current(); k {
	case TokenLifetimeIdent:
		return true
	case TokenImpl:
		return false
	default:
		return typeFirst.Contains(k)
	}
}

func isWhereClauseEnd(p *Parser) bool {
	switch p.Current() {
	case TokenLCurly, TokenSemicolon, TokenEq:
		return true
	}
	return false
}

func wherePredicate(p *Parser) {
	m := p.Start()
	if p.At(TokenLifetimeIdent) {
		lifetime(p)
		if p.At(TokenColon) {
			bounds(p)
		} else {
			p.Error("expected colon")
		}
	} else {
		if p.At(TokenFor) {
			forBinder(p)
		}
		typ(p)
		if p.At(TokenColon) {
			bounds(p)
		} else {
			p.Error("expected colon")
		}
	}
	m.Complete(p, KindWherePred)
}
