package parser

type paramFlavor uint8

const (
	flavorFnDef paramFlavor = iota
	// flavorTraitFn also accepts the anonymous parameters of old-style
	// trait methods: `fn f(u32);`.
	flavorTraitFn
	flavorFnTrait
	flavorFnPointer
	flavorClosure
)

var paramFirst = patternFirst.Union(typeFirst)

func paramList(p *Parser, flavor paramFlavor) {
	bra, ket := TokenLParen, TokenRParen
	if flavor == flavorClosure {
		bra, ket = TokenPipe, TokenPipe
	}
	list := p.Start()
	p.Bump(bra)

	var pending *Marker
	if flavor == flavorFnDef || flavor == flavorTraitFn {
		m := p.Start()
		outerAttrs(p)
		if !optSelfParam(p, m) {
			pending = &m
		}
	}

	for !p.At(TokenEOF) && !p.At(ket) {
		var m Marker
		if pending != nil {
			m, pending = *pending, nil
		} else {
			m = p.Start()
			outerAttrs(p)
		}
		if !p.AtTS(paramFirst) && !p.At(TokenDot3) {
			p.Error("expected value parameter")
			m.Abandon(p)
			break
		}
		param(p, m, flavor)
		if !p.At(ket) {
			p.Expect(TokenComma)
		}
	}
	if pending != nil {
		pending.Abandon(p)
	}
	p.Expect(ket)
	list.Complete(p, KindParamList)
}

func param(p *Parser, m Marker, flavor paramFlavor) {
	switch flavor {
	case flavorFnDef, flavorTraitFn, flavorFnPointer:
		if p.At(TokenDot3) {
			p.Bump(TokenDot3)
			m.Complete(p, KindParam)
			return
		}
	}
	switch flavor {
	case flavorFnDef:
		pattern(p)
		paramType(p)
	case flavorTraitFn:
		// Try `pattern: Type` first; without the colon the parameter is a
		// bare type.
		cp := p.Checkpoint()
		patternSingle(p)
		if p.At(TokenColon) && !p.At(TokenColon2) && !p.ErrorsSince(cp) {
			paramType(p)
		} else {
			p.Rewind(cp)
			typ(p)
		}
	case flavorFnTrait:
		typ(p)
	case flavorFnPointer:
		if (p.At(TokenIdent) || p.At(TokenUnderscore)) && p.Nth(1) == TokenColon && !p.NthAt(1, TokenColon2) {
			patternSingle(p)
			paramType(p)
		} else {
			typ(p)
		}
	case flavorClosure:
		patternSingle(p)
		if p.At(TokenColon) && !p.At(TokenColon2) {
			ascription(p)
		}
	}
	m.Complete(p, KindParam)
}

// paramType parses the `: Type` of a named parameter, including the
// C-variadic `: ...`.
func paramType(p *Parser) {
	switch {
	case p.At(TokenColon) && p.NthAt(1, TokenDot3):
		p.Bump(TokenColon)
		p.Bump(TokenDot3)
	case p.At(TokenColon):
		ascription(p)
	default:
		p.Error("missing type for function parameter")
	}
}

// optSelfParam parses `self`, `mut self`, `&self`, `&'a mut self` and
// `self: Type`. It reports false, leaving m open, when there is none.
func optSelfParam(p *Parser, m Marker) bool {
	if p.At(TokenSelf) || (p.At(TokenMut) && p.Nth(1) == TokenSelf) {
		p.Eat(TokenMut)
		selfAsName(p)
		if p.At(TokenColon) {
			ascription(p)
		}
	} else {
		la1, la2, la3 := p.Nth(1), p.Nth(2), p.Nth(3)
		ok := p.At(TokenAmp) && (la1 == TokenSelf ||
			((la1 == TokenMut || la1 == TokenLifetimeIdent) && la2 == TokenSelf) ||
			(la1 == TokenLifetimeIdent && la2 == TokenMut && la3 == TokenSelf))
		if !ok {
			return false
		}
		p.Bump(TokenAmp)
		if p.At(TokenLifetimeIdent) {
			lifetime(p)
		}
		p.Eat(TokenMut)
		selfAsName(p)
	}
	m.Complete(p, KindSelfParam)
	if !p.At(TokenRParen) {
		p.Expect(TokenComma)
	}
	return true
}

func selfAsName(p *Parser) {
	m := p.Start()
	p.Bump(TokenSelf)
	m.Complete(p, KindName)
}
