package parser

var typeFirst = pathFirst.Union(NewTokenSet(
	TokenLParen, TokenLBrack, TokenLAngle, TokenBang, TokenStar, TokenAmp,
	TokenUnderscore, TokenFn, TokenUnsafe, TokenExtern, TokenFor, TokenImpl, TokenDyn,
))

var typeRecoverySet = NewTokenSet(TokenRParen, TokenComma, TokenPub)

func typ(p *Parser) {
	typeWithBounds(p, true)
}

func typeNoBounds(p *Parser) {
	typeWithBounds(p, false)
}

func typeWithBounds(p *Parser, allowBounds bool) {
	switch p.Current() {
	case TokenLParen:
		parenOrTupleType(p)
	case TokenBang:
		m := p.Start()
		p.Bump(TokenBang)
		m.Complete(p, KindNeverType)
	case TokenStar:
		ptrType(p)
	case TokenLBrack:
		arrayOrSliceType(p)
	case TokenAmp:
		refType(p)
	case TokenUnderscore:
		m := p.Start()
		p.Bump(TokenUnderscore)
		m.Complete(p, KindInferType)
	case TokenFn, TokenUnsafe, TokenExtern:
		fnPtrType(p)
	case TokenFor:
		forType(p, allowBounds)
	case TokenImpl:
		m := p.Start()
		p.Bump(TokenImpl)
		boundsWithoutColon(p)
		m.Complete(p, KindImplTraitType)
	case TokenDyn:
		m := p.Start()
		p.Bump(TokenDyn)
		boundsWithoutColon(p)
		m.Complete(p, KindDynTraitType)
	case TokenLAngle:
		pathType(p, allowBounds)
	default:
		if isUsePathStart(p) {
			pathOrMacroType(p, allowBounds)
			return
		}
		p.ErrRecover("expected type", typeRecoverySet)
	}
}

// ascription parses `: Type`.
func ascription(p *Parser) {
	p.Bump(TokenColon)
	if p.At(TokenEq) {
		p.Error("missing type")
		return
	}
	typ(p)
}

func parenOrTupleType(p *Parser) {
	m := p.Start()
	p.Bump(TokenLParen)
	n, trailingComma := 0, false
	for !p.At(TokenEOF) && !p.At(TokenRParen) {
		n++
		typ(p)
		if !p.Eat(TokenComma) {
			trailingComma = false
			break
		}
		trailingComma = true
	}
	p.Expect(TokenRParen)
	if n == 1 && !trailingComma {
		m.Complete(p, KindParenType)
	} else {
		m.Complete(p, KindTupleType)
	}
}

func ptrType(p *Parser) {
	m := p.Start()
	p.Bump(TokenStar)
	switch p.Current() {
	case TokenMut, TokenConst:
		p.BumpAny()
	default:
		p.Error("expected mut or const in raw pointer type (use `*mut T` or `*const T` as appropriate)")
	}
	typeNoBounds(p)
	m.Complete(p, KindPtrType)
}

func arrayOrSliceType(p *Parser) {
	m := p.Start()
	p.Bump(TokenLBrack)
	typ(p)
	switch p.Current() {
	case TokenRBrack:
		p.Bump(TokenRBrack)
		m.Complete(p, KindSliceType)
	case TokenSemicolon:
		p.Bump(TokenSemicolon)
		expr(p)
		p.Expect(TokenRBrack)
		m.Complete(p, KindArrayType)
	default:
		p.Error("expected `;` or `]`")
		m.Complete(p, KindSliceType)
	}
}

func refType(p *Parser) {
	m := p.Start()
	p.Bump(TokenAmp)
	if p.At(TokenLifetimeIdent) {
		lifetime(p)
	}
	p.Eat(TokenMut)
	typeNoBounds(p)
	m.Complete(p, KindRefType)
}

func fnPtrType(p *Parser) {
	m := p.Start()
	p.Eat(TokenUnsafe)
	if p.At(TokenExtern) {
		abi(p)
	}
	if !p.Eat(TokenFn) {
		m.Abandon(p)
		p.Error("expected `fn`")
		return
	}
	if p.At(TokenLParen) {
		paramList(p, flavorFnPointer)
	} else {
		p.Error("expected parameters")
	}
	optRetType(p)
	m.Complete(p, KindFnPtrType)
}

func forBinder(p *Parser) {
	p.Bump(TokenFor)
	if p.At(TokenLAngle) {
		optGenericParamList(p)
	} else {
		p.Error("expected `<`")
	}
}

func forType(p *Parser, allowBounds bool) {
	m := p.Start()
	forBinder(p)
	switch p.Current() {
	case TokenFn, TokenUnsafe, TokenExtern:
	default:
		if !isUsePathStart(p) {
			p.Error("expected a function pointer or path")
		}
	}
	typeNoBounds(p)
	cm := m.Complete(p, KindForType)
	if allowBounds {
		optTypeBoundsAsDynTraitType(p, cm)
	}
}

func pathOrMacroType(p *Parser, allowBounds bool) {
	r := p.Start()
	m := p.Start()
	typePath(p)
	kind := KindPathType
	if p.At(TokenBang) && !p.At(TokenNeq) {
		macroCallAfterExcl(p)
		m.Complete(p, KindMacroCall)
		kind = KindMacroType
	} else {
		m.Abandon(p)
	}
	cm := r.Complete(p, kind)
	if allowBounds {
		optTypeBoundsAsDynTraitType(p, cm)
	}
}

func pathType(p *Parser, allowBounds bool) {
	m := p.Start()
	typePath(p)
	cm := m.Complete(p, KindPathType)
	if allowBounds {
		optTypeBoundsAsDynTraitType(p, cm)
	}
}

// optTypeBoundsAsDynTraitType turns `Path + Bound` into a bare trait
// object: DynTraitType(TypeBoundList(TypeBound(Path), Bound)).
func optTypeBoundsAsDynTraitType(p *Parser, ty CompletedMarker) {
	if !p.At(TokenPlus) {
		return
	}
	bound := ty.Precede(p).Complete(p, KindTypeBound)
	list := bound.Precede(p)
	p.Eat(TokenPlus)
	boundList := boundsWithoutColonM(p, list)
	boundList.Precede(p).Complete(p, KindDynTraitType)
}
