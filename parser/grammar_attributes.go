package parser

func innerAttrs(p *Parser) {
	for p.At(TokenPound) && p.Nth(1) == TokenBang {
		attr(p, true)
	}
}

func outerAttrs(p *Parser) {
	for p.At(TokenPound) {
		attr(p, false)
	}
}

// attr parses `#[meta]` or, when inner, `#![meta]`.
func attr(p *Parser, inner bool) {
	m := p.Start()
	p.Bump(TokenPound)
	if inner {
		p.Bump(TokenBang)
	}
	if p.Eat(TokenLBrack) {
		meta(p)
		if !p.Eat(TokenRBrack) {
			p.Error("expected `]`")
		}
	} else {
		p.Error("expected `[`")
	}
	m.Complete(p, KindAttr)
}

// meta parses the inside of an attribute: a path optionally followed by
// `= expr` or a delimited token tree.
func meta(p *Parser) {
	m := p.Start()
	usePath(p)
	switch p.Current() {
	case TokenEq:
		p.Bump(TokenEq)
		if _, _, ok := expr(p); !ok {
			p.Error("expected expression")
		}
	case TokenLParen, TokenLBrack, TokenLCurly:
		tokenTree(p)
	}
	m.Complete(p, KindMeta)
}
