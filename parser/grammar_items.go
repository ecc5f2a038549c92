package parser

// itemContext tells item routines where they are. Outside of braces a
// stray `}` is an error to consume; inside a trait, methods may have
// anonymous parameters.
type itemContext uint8

const (
	topLevel itemContext = iota
	inBraces
	inTrait
)

var itemRecoverySet = NewTokenSet(
	TokenFn, TokenStruct, TokenEnum, TokenImpl, TokenTrait, TokenConst,
	TokenStatic, TokenLet, TokenMod, TokenPub, TokenCrate, TokenUse,
	TokenMacro, TokenSemicolon,
)

func modContents(p *Parser, ctx itemContext) {
	innerAttrs(p)
	for !p.At(TokenEOF) && !(p.At(TokenRCurly) && ctx != topLevel) {
		itemOrMacro(p, ctx)
	}
}

func itemOrMacro(p *Parser, ctx itemContext) {
	m := p.Start()
	outerAttrs(p)
	m, ok := maybeItem(p, m, ctx)
	if ok {
		if p.At(TokenSemicolon) {
			p.ErrAndBump("expected item, found `;`\nconsider removing this semicolon")
		}
		return
	}
	if isUsePathStart(p) {
		if macroCall(p) == notBlock {
			p.Expect(TokenSemicolon)
		}
		m.Complete(p, KindMacroCall)
		return
	}
	m.Abandon(p)
	switch {
	case p.At(TokenLCurly):
		errorBlock(p, "expected an item")
	case p.At(TokenRCurly) && ctx == topLevel:
		e := p.Start()
		p.Error("unmatched `}`")
		p.Bump(TokenRCurly)
		e.Complete(p, KindError)
	case !p.At(TokenEOF) && !p.At(TokenRCurly):
		p.ErrAndBump("expected an item")
	default:
		p.Error("expected an item")
	}
}

// maybeItem parses an item if one starts here. When none does, it hands
// the marker back untouched and reports false.
func maybeItem(p *Parser, m Marker, ctx itemContext) (Marker, bool) {
	hasVisibility := optVisibility(p, false)

	if itemWithoutModifiers(p, m) {
		return m, true
	}

	hasMods := false
	if p.At(TokenConst) && p.Nth(1) != TokenLCurly {
		p.Eat(TokenConst)
		hasMods = true
	}
	if p.At(TokenAsync) {
		switch p.Nth(1) {
		case TokenLCurly, TokenMove, TokenPipe:
		default:
			p.Eat(TokenAsync)
			hasMods = true
		}
	}
	if p.At(TokenUnsafe) && p.Nth(1) != TokenLCurly {
		p.Eat(TokenUnsafe)
		hasMods = true
	}
	if p.At(TokenExtern) && p.Nth(1) != TokenLCurly && (p.Nth(1) != TokenString || p.Nth(2) != TokenLCurly) {
		hasMods = true
		abi(p)
	}
	if p.AtContextualKW("auto") && p.Nth(1) == TokenTrait {
		p.BumpRemap(TokenAuto)
		hasMods = true
	}
	if p.AtContextualKW("default") {
		switch p.Nth(1) {
		case TokenFn, TokenType, TokenConst, TokenImpl:
			p.BumpRemap(TokenDefault)
			hasMods = true
		case TokenUnsafe:
			if k := p.Nth(2); k == TokenImpl || k == TokenFn {
				p.BumpRemap(TokenDefault)
				p.Bump(TokenUnsafe)
				hasMods = true
			}
		case TokenAsync:
			next, isUnsafe := p.Nth(2), false
			if next == TokenUnsafe {
				next, isUnsafe = p.Nth(3), true
			}
			if next == TokenFn {
				p.BumpRemap(TokenDefault)
				p.Bump(TokenAsync)
				if isUnsafe {
					p.Bump(TokenUnsafe)
				}
				hasMods = true
			}
		}
	}
	if p.AtContextualKW("existential") && p.Nth(1) == TokenType {
		p.BumpRemap(TokenExistential)
		hasMods = true
	}

	switch {
	case p.At(TokenFn):
		fnItem(p, ctx)
		m.Complete(p, KindFn)
	case p.At(TokenTrait):
		traitItem(p)
		m.Complete(p, KindTrait)
	case p.At(TokenConst) && p.Nth(1) != TokenLCurly:
		constOrStatic(p, m, TokenConst, KindConst)
	case p.At(TokenImpl):
		implItem(p)
		m.Complete(p, KindImpl)
	case p.At(TokenType):
		typeAlias(p, m)
	case p.At(TokenExtern):
		abi(p)
		externItemList(p)
		m.Complete(p, KindExternBlock)
	default:
		if !hasVisibility && !hasMods {
			return m, false
		}
		if hasMods {
			p.Error("expected existential, fn, trait or impl")
		} else {
			p.Error("expected an item")
		}
		m.Complete(p, KindError)
	}
	return m, true
}

func itemWithoutModifiers(p *Parser, m Marker) bool {
	la := p.Nth(1)
	switch p.Current() {
	case TokenExtern:
		switch {
		case la == TokenCrate:
			externCrate(p, m)
		case la == TokenLCurly || (la == TokenString && p.Nth(2) == TokenLCurly):
			abi(p)
			externItemList(p)
			m.Complete(p, KindExternBlock)
		default:
			return false
		}
	case TokenMod:
		modItem(p, m)
	case TokenStruct:
		structItem(p, m)
	case TokenMacro:
		macroDef(p, m)
	case TokenIdent:
		switch {
		case p.AtContextualKW("macro_rules") && la == TokenBang:
			macroRules(p, m)
		case p.AtContextualKW("union") && la == TokenIdent:
			unionItem(p, m)
		default:
			return false
		}
	case TokenEnum:
		enumItem(p, m)
	case TokenUse:
		useItem(p, m)
	case TokenConst:
		if la != TokenIdent && la != TokenUnderscore && la != TokenMut {
			return false
		}
		constOrStatic(p, m, TokenConst, KindConst)
	case TokenStatic:
		constOrStatic(p, m, TokenStatic, KindStatic)
	default:
		return false
	}
	return true
}

func externCrate(p *Parser, m Marker) {
	p.Bump(TokenExtern)
	p.Bump(TokenCrate)
	if p.At(TokenSelf) {
		n := p.Start()
		p.Bump(TokenSelf)
		n.Complete(p, KindNameRef)
	} else {
		nameRef(p)
	}
	optRename(p)
	p.Expect(TokenSemicolon)
	m.Complete(p, KindExternCrate)
}

func externItemList(p *Parser) {
	if !p.At(TokenLCurly) {
		p.Error("expected `{`")
		return
	}
	m := p.Start()
	p.Bump(TokenLCurly)
	modContents(p, inBraces)
	p.Expect(TokenRCurly)
	m.Complete(p, KindExternItemList)
}

func fnItem(p *Parser, ctx itemContext) {
	p.Bump(TokenFn)
	nameR(p, itemRecoverySet)
	optGenericParamList(p)
	if p.At(TokenLParen) {
		if ctx == inTrait {
			paramList(p, flavorTraitFn)
		} else {
			paramList(p, flavorFnDef)
		}
	} else {
		p.Error("expected function arguments")
	}
	optRetType(p)
	optWhereClause(p)
	if p.At(TokenSemicolon) {
		p.Bump(TokenSemicolon)
	} else {
		blockExpr(p)
	}
}

func typeAlias(p *Parser, m Marker) {
	p.Bump(TokenType)
	name(p)
	optGenericParamList(p)
	if p.At(TokenColon) {
		bounds(p)
	}
	optWhereClause(p)
	if p.Eat(TokenEq) {
		typ(p)
	}
	p.Expect(TokenSemicolon)
	m.Complete(p, KindTypeAlias)
}

func modItem(p *Parser, m Marker) {
	p.Bump(TokenMod)
	name(p)
	if p.At(TokenLCurly) {
		itemList(p)
	} else if !p.Eat(TokenSemicolon) {
		p.Error("expected `;` or `{`")
	}
	m.Complete(p, KindModule)
}

func itemList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLCurly)
	modContents(p, inBraces)
	p.Expect(TokenRCurly)
	m.Complete(p, KindItemList)
}

func constOrStatic(p *Parser, m Marker, kw, kind SyntaxKind) {
	p.Bump(kw)
	p.Eat(TokenMut)
	if !(kw == TokenConst && p.Eat(TokenUnderscore)) {
		name(p)
	}
	if p.At(TokenColon) {
		ascription(p)
	} else {
		p.Error("missing type for `const` or `static`")
	}
	if p.Eat(TokenEq) {
		expr(p)
	}
	p.Expect(TokenSemicolon)
	m.Complete(p, kind)
}

func structItem(p *Parser, m Marker) {
	p.Bump(TokenStruct)
	structOrUnion(p, m, true)
}

func unionItem(p *Parser, m Marker) {
	p.BumpRemap(TokenUnion)
	structOrUnion(p, m, false)
}

func structOrUnion(p *Parser, m Marker, isStruct bool) {
	nameR(p, itemRecoverySet)
	optGenericParamList(p)
	switch {
	case p.At(TokenWhere):
		optWhereClause(p)
		switch {
		case p.At(TokenSemicolon):
			p.Bump(TokenSemicolon)
		case p.At(TokenLCurly):
			recordFieldList(p)
		default:
			p.Error("expected `;` or `{`")
		}
	case p.At(TokenSemicolon) && isStruct:
		p.Bump(TokenSemicolon)
	case p.At(TokenLCurly):
		recordFieldList(p)
	case p.At(TokenLParen) && isStruct:
		tupleFieldList(p)
		optWhereClause(p)
		p.Expect(TokenSemicolon)
	case isStruct:
		p.Error("expected `;`, `{`, or `(`")
	default:
		p.Error("expected `{`")
	}
	if isStruct {
		m.Complete(p, KindStruct)
	} else {
		m.Complete(p, KindUnion)
	}
}

func enumItem(p *Parser, m Marker) {
	p.Bump(TokenEnum)
	nameR(p, itemRecoverySet)
	optGenericParamList(p)
	optWhereClause(p)
	if p.At(TokenLCurly) {
		variantList(p)
	} else {
		p.Error("expected `{`")
	}
	m.Complete(p, KindEnum)
}

func variantList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLCurly)
	for !p.At(TokenEOF) && !p.At(TokenRCurly) {
		if p.At(TokenLCurly) {
			errorBlock(p, "expected enum variant")
			continue
		}
		v := p.Start()
		outerAttrs(p)
		if p.At(TokenIdent) {
			name(p)
			switch p.Current() {
			case TokenLCurly:
				recordFieldList(p)
			case TokenLParen:
				tupleFieldList(p)
			}
			if p.Eat(TokenEq) {
				expr(p)
			}
			v.Complete(p, KindVariant)
		} else {
			v.Abandon(p)
			p.ErrAndBump("expected enum variant")
		}
		if !p.At(TokenRCurly) {
			p.Expect(TokenComma)
		}
	}
	p.Expect(TokenRCurly)
	m.Complete(p, KindVariantList)
}

func recordFieldList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLCurly)
	for !p.At(TokenRCurly) && !p.At(TokenEOF) {
		if p.At(TokenLCurly) {
			errorBlock(p, "expected field")
			continue
		}
		recordField(p)
		if !p.At(TokenRCurly) {
			p.Expect(TokenComma)
		}
	}
	p.Expect(TokenRCurly)
	m.Complete(p, KindRecordFieldList)
}

func recordField(p *Parser) {
	m := p.Start()
	outerAttrs(p)
	optVisibility(p, false)
	if !p.At(TokenIdent) {
		m.Abandon(p)
		p.ErrAndBump("expected field declaration")
		return
	}
	name(p)
	p.Expect(TokenColon)
	typ(p)
	m.Complete(p, KindRecordField)
}

func tupleFieldList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLParen)
	for !p.At(TokenRParen) && !p.At(TokenEOF) {
		f := p.Start()
		outerAttrs(p)
		optVisibility(p, true)
		if !p.AtTS(typeFirst) {
			p.Error("expected a type")
			f.Complete(p, KindError)
			break
		}
		typ(p)
		f.Complete(p, KindTupleField)
		if !p.At(TokenRParen) {
			p.Expect(TokenComma)
		}
	}
	p.Expect(TokenRParen)
	m.Complete(p, KindTupleFieldList)
}

func traitItem(p *Parser) {
	p.Bump(TokenTrait)
	nameR(p, itemRecoverySet)
	optGenericParamList(p)
	if p.Eat(TokenEq) {
		boundsWithoutColon(p)
		optWhereClause(p)
		p.Expect(TokenSemicolon)
		return
	}
	if p.At(TokenColon) {
		bounds(p)
	}
	optWhereClause(p)
	if p.At(TokenLCurly) {
		traitItemList(p)
	} else {
		p.Error("expected `{`")
	}
}

func implItem(p *Parser) {
	p.Bump(TokenImpl)
	if chooseTypeParamsOverQPath(p) {
		optGenericParamList(p)
	}
	p.Eat(TokenBang)
	implType(p)
	if p.Eat(TokenFor) {
		implType(p)
	}
	optWhereClause(p)
	if p.At(TokenLCurly) {
		implItemList(p)
	} else {
		p.Error("expected `{`")
	}
}

func implItemList(p *Parser) {
	assocItemList(p, inBraces)
}

func traitItemList(p *Parser) {
	assocItemList(p, inTrait)
}

func assocItemList(p *Parser, ctx itemContext) {
	m := p.Start()
	p.Bump(TokenLCurly)
	innerAttrs(p)
	for !p.At(TokenEOF) && !p.At(TokenRCurly) {
		if p.At(TokenLCurly) {
			errorBlock(p, "expected an item")
			continue
		}
		itemOrMacro(p, ctx)
	}
	p.Expect(TokenRCurly)
	m.Complete(p, KindAssocItemList)
}

// chooseTypeParamsOverQPath decides whether `impl <` opens generic
// parameters or a qualified path. `impl<T> ::path` is read as generics.
func chooseTypeParamsOverQPath(p *Parser) bool {
	if !p.At(TokenLAngle) {
		return false
	}
	switch p.Nth(1) {
	case TokenPound, TokenRAngle, TokenConst:
		return true
	case TokenLifetimeIdent, TokenIdent:
		switch p.Nth(2) {
		case TokenRAngle, TokenComma, TokenColon, TokenEq:
			return true
		}
	}
	return false
}

func implType(p *Parser) {
	if p.At(TokenImpl) {
		p.Error("expected trait or type")
		return
	}
	typ(p)
}

func useItem(p *Parser, m Marker) {
	p.Bump(TokenUse)
	useTree(p, true)
	p.Expect(TokenSemicolon)
	m.Complete(p, KindUse)
}

func useTree(p *Parser, top bool) {
	m := p.Start()
	switch {
	case p.At(TokenStar):
		p.Bump(TokenStar)
	case p.At(TokenColon2) && p.Nth(2) == TokenStar:
		p.Bump(TokenColon2)
		p.Bump(TokenStar)
	case p.At(TokenLCurly):
		useTreeList(p)
	case p.At(TokenColon2) && p.Nth(2) == TokenLCurly:
		p.Bump(TokenColon2)
		useTreeList(p)
	case isUsePathStart(p):
		usePath(p)
		switch {
		case p.At(TokenAs):
			optRename(p)
		case p.At(TokenColon2):
			p.Bump(TokenColon2)
			switch p.Current() {
			case TokenStar:
				p.Bump(TokenStar)
			case TokenLCurly:
				useTreeList(p)
			default:
				p.Error("expected `{` or `*`")
			}
		}
	default:
		m.Abandon(p)
		const msg = "expected one of `*`, `::`, `{`, `self`, `super` or an identifier"
		if top {
			p.ErrRecover(msg, itemRecoverySet)
		} else {
			// Nested trees must eat a token to keep braces balanced.
			p.ErrAndBump(msg)
		}
		return
	}
	m.Complete(p, KindUseTree)
}

func useTreeList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLCurly)
	for !p.At(TokenEOF) && !p.At(TokenRCurly) {
		useTree(p, false)
		if !p.At(TokenRCurly) {
			p.Expect(TokenComma)
		}
	}
	p.Expect(TokenRCurly)
	m.Complete(p, KindUseTreeList)
}

func macroRules(p *Parser, m Marker) {
	p.BumpRemap(TokenMacroRules)
	p.Expect(TokenBang)
	if p.At(TokenIdent) {
		name(p)
	}
	// `macro_rules! try` predates `try` being a keyword.
	if p.At(TokenTry) {
		n := p.Start()
		p.BumpRemap(TokenIdent)
		n.Complete(p, KindName)
	}
	switch p.Current() {
	case TokenLBrack, TokenLParen:
		tokenTree(p)
		p.Expect(TokenSemicolon)
	case TokenLCurly:
		tokenTree(p)
	default:
		p.Error("expected `{`, `[`, `(`")
	}
	m.Complete(p, KindMacroRules)
}

func macroDef(p *Parser, m Marker) {
	p.Expect(TokenMacro)
	nameR(p, itemRecoverySet)
	switch {
	case p.At(TokenLCurly):
		tokenTree(p)
	case !p.At(TokenLParen):
		p.Error("unmatched `(`")
	default:
		tt := p.Start()
		tokenTree(p)
		switch p.Current() {
		case TokenLCurly, TokenLBrack, TokenLParen:
			tokenTree(p)
		default:
			p.Error("expected `{`, `[`, `(`")
		}
		tt.Complete(p, KindTokenTree)
	}
	m.Complete(p, KindMacroDef)
}

func macroCall(p *Parser) blockLike {
	usePath(p)
	return macroCallAfterExcl(p)
}

func macroCallAfterExcl(p *Parser) blockLike {
	p.Expect(TokenBang)
	if p.At(TokenIdent) {
		name(p)
	}
	if p.At(TokenTry) {
		n := p.Start()
		p.BumpRemap(TokenIdent)
		n.Complete(p, KindName)
	}
	switch p.Current() {
	case TokenLCurly:
		tokenTree(p)
		return isBlock
	case TokenLParen, TokenLBrack:
		tokenTree(p)
	default:
		p.Error("expected `{`, `[`, `(`")
	}
	return notBlock
}

func tokenTree(p *Parser) {
	var closing SyntaxKind
	switch p.Current() {
	case TokenLCurly:
		closing = TokenRCurly
	case TokenLParen:
		closing = TokenRParen
	case TokenLBrack:
		closing = TokenRBrack
	default:
		p.ErrAndBump("expected a token tree")
		return
	}
	m := p.Start()
	p.BumpAny()
	for !p.At(TokenEOF) && !p.At(closing) {
		switch p.Current() {
		case TokenLCurly, TokenLParen, TokenLBrack:
			tokenTree(p)
		case TokenRCurly:
			p.Error("unmatched `}`")
			m.Complete(p, KindTokenTree)
			return
		case TokenRParen, TokenRBrack:
			p.ErrAndBump("unmatched brace")
		default:
			p.BumpAny()
		}
	}
	p.Expect(closing)
	m.Complete(p, KindTokenTree)
}
