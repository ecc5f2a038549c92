package parser

var literalFirst = NewTokenSet(
	TokenTrue, TokenFalse, TokenIntNumber, TokenFloatNumber, TokenByte,
	TokenChar, TokenString, TokenByteString,
)

var exprRecoverySet = NewTokenSet(TokenLet)

var lhsFirst = atomExprFirst.Union(NewTokenSet(TokenAmp, TokenStar, TokenBang, TokenDot, TokenMinus))

var exprFirst = lhsFirst

type stmtSemi uint8

const (
	stmtSemiYes stmtSemi = iota
	stmtSemiNo
	stmtSemiOptional
)

// restrictions carry the context that changes how an expression is read.
// forbidStructs: `if S {}` is not a struct literal.
// preferStmt: `{} - 1` at statement start is a block then a negation.
type restrictions struct {
	forbidStructs bool
	preferStmt    bool
}

// Binding powers, loosest first.
const (
	bpAssign  = 1
	bpRange   = 2
	bpOrOr    = 3
	bpAndAnd  = 4
	bpCompare = 5
	bpBitOr   = 6
	bpBitXor  = 7
	bpBitAnd  = 8
	bpShift   = 9
	bpSum     = 10
	bpProduct = 11
	bpCast    = 12
	bpUnary   = 255
)

func literal(p *Parser) (CompletedMarker, bool) {
	if !p.AtTS(literalFirst) {
		return CompletedMarker{}, false
	}
	m := p.Start()
	p.BumpAny()
	return m.Complete(p, KindLiteral), true
}

func expr(p *Parser) (CompletedMarker, blockLike, bool) {
	return exprBP(p, restrictions{}, 1)
}

func exprNoStruct(p *Parser) (CompletedMarker, blockLike, bool) {
	return exprBP(p, restrictions{forbidStructs: true}, 1)
}

func exprStmt(p *Parser) (CompletedMarker, blockLike, bool) {
	return exprBP(p, restrictions{preferStmt: true}, 1)
}

func stmt(p *Parser, withSemi stmtSemi, preferExpr bool) {
	m := p.Start()
	outerAttrs(p)

	if p.At(TokenLet) {
		letStmt(p, m, withSemi)
		return
	}

	m, ok := maybeItem(p, m, inBraces)
	if ok {
		return
	}

	cm, bl, ok := exprStmt(p)
	if p.At(TokenRCurly) || (preferExpr && p.At(TokenEOF)) {
		// A trailing expression is the value of the block, not a statement.
		if ok {
			kind := cm.Kind()
			cm.UndoCompletion(p).Abandon(p)
			m.Complete(p, kind)
		} else {
			m.Abandon(p)
		}
		return
	}
	switch {
	case bl == isBlock:
		p.Eat(TokenSemicolon)
	case withSemi == stmtSemiYes:
		p.Expect(TokenSemicolon)
	case withSemi == stmtSemiOptional:
		p.Eat(TokenSemicolon)
	}
	m.Complete(p, KindExprStmt)
}

func letStmt(p *Parser, m Marker, withSemi stmtSemi) {
	p.Bump(TokenLet)
	pattern(p)
	if p.At(TokenColon) {
		ascription(p)
	}
	if p.Eat(TokenEq) {
		expr(p)
	}
	if p.At(TokenElse) {
		e := p.Start()
		p.Bump(TokenElse)
		blockExpr(p)
		e.Complete(p, KindLetElse)
	}
	switch withSemi {
	case stmtSemiYes:
		p.Expect(TokenSemicolon)
	case stmtSemiOptional:
		p.Eat(TokenSemicolon)
	}
	m.Complete(p, KindLetStmt)
}

func exprBlockContents(p *Parser) {
	innerAttrs(p)
	for !p.At(TokenEOF) && !p.At(TokenRCurly) {
		if p.At(TokenSemicolon) {
			p.Bump(TokenSemicolon)
			continue
		}
		stmt(p, stmtSemiYes, false)
	}
}

func blockExpr(p *Parser) {
	if !p.At(TokenLCurly) {
		p.Error("expected a block")
		return
	}
	blockExprUnchecked(p)
}

func blockExprUnchecked(p *Parser) CompletedMarker {
	m := p.Start()
	p.Bump(TokenLCurly)
	exprBlockContents(p)
	p.Expect(TokenRCurly)
	return m.Complete(p, KindBlockExpr)
}

// exprBP is the precedence-climbing loop: parse an operand, then wrap it
// with Precede for every operator that binds at least as tightly as bp.
func exprBP(p *Parser, r restrictions, bp int) (CompletedMarker, blockLike, bool) {
	m := p.Start()
	outerAttrs(p)
	lhs, bl, ok := lhsExpr(p, r)
	if !ok {
		m.Abandon(p)
		return CompletedMarker{}, notBlock, false
	}
	lhs = lhs.ExtendTo(p, m)
	if r.preferStmt && bl == isBlock {
		return lhs, isBlock, true
	}

	for {
		isRange := p.At(TokenDot2) || p.At(TokenDot2Eq)
		opBP, op := currentOp(p)
		if opBP < bp {
			break
		}
		if p.At(TokenAs) {
			lhs = castExpr(p, lhs)
			continue
		}
		om := lhs.Precede(p)
		p.Bump(op)
		r.preferStmt = false

		if isRange {
			// `x..` has no right-hand side.
			if !p.AtTS(exprFirst) || (r.forbidStructs && p.At(TokenLCurly)) {
				lhs = om.Complete(p, KindRangeExpr)
				break
			}
		}
		rbp := opBP + 1
		if opBP == bpAssign {
			// Assignment is right associative.
			rbp = opBP
		}
		exprBP(p, r, rbp)
		if isRange {
			lhs = om.Complete(p, KindRangeExpr)
		} else {
			lhs = om.Complete(p, KindBinExpr)
		}
	}
	return lhs, notBlock, true
}

// currentOp returns the binding power and kind of the binary operator
// under the cursor, or zero when there is none.
func currentOp(p *Parser) (int, SyntaxKind) {
	switch p.Current() {
	case TokenPipe:
		switch {
		case p.At(TokenPipe2):
			return bpOrOr, TokenPipe2
		case p.At(TokenPipeEq):
			return bpAssign, TokenPipeEq
		}
		return bpBitOr, TokenPipe
	case TokenRAngle:
		switch {
		case p.At(TokenShrEq):
			return bpAssign, TokenShrEq
		case p.At(TokenShr):
			return bpShift, TokenShr
		case p.At(TokenGtEq):
			return bpCompare, TokenGtEq
		}
		return bpCompare, TokenRAngle
	case TokenEq:
		switch {
		case p.At(TokenFatArrow):
			return 0, TokenAt
		case p.At(TokenEq2):
			return bpCompare, TokenEq2
		}
		return bpAssign, TokenEq
	case TokenLAngle:
		switch {
		case p.At(TokenLtEq):
			return bpCompare, TokenLtEq
		case p.At(TokenShlEq):
			return bpAssign, TokenShlEq
		case p.At(TokenShl):
			return bpShift, TokenShl
		}
		return bpCompare, TokenLAngle
	case TokenPlus:
		if p.At(TokenPlusEq) {
			return bpAssign, TokenPlusEq
		}
		return bpSum, TokenPlus
	case TokenCaret:
		if p.At(TokenCaretEq) {
			return bpAssign, TokenCaretEq
		}
		return bpBitXor, TokenCaret
	case TokenPercent:
		if p.At(TokenPercentEq) {
			return bpAssign, TokenPercentEq
		}
		return bpProduct, TokenPercent
	case TokenAmp:
		switch {
		case p.At(TokenAmpEq):
			return bpAssign, TokenAmpEq
		case p.At(TokenAmp2):
			return bpAndAnd, TokenAmp2
		}
		return bpBitAnd, TokenAmp
	case TokenSlash:
		if p.At(TokenSlashEq) {
			return bpAssign, TokenSlashEq
		}
		return bpProduct, TokenSlash
	case TokenStar:
		if p.At(TokenStarEq) {
			return bpAssign, TokenStarEq
		}
		return bpProduct, TokenStar
	case TokenDot:
		switch {
		case p.At(TokenDot2Eq):
			return bpRange, TokenDot2Eq
		case p.At(TokenDot2):
			return bpRange, TokenDot2
		}
	case TokenBang:
		if p.At(TokenNeq) {
			return bpCompare, TokenNeq
		}
	case TokenMinus:
		if p.At(TokenMinusEq) {
			return bpAssign, TokenMinusEq
		}
		return bpSum, TokenMinus
	case TokenAs:
		return bpCast, TokenAs
	}
	return 0, TokenAt
}

func lhsExpr(p *Parser, r restrictions) (CompletedMarker, blockLike, bool) {
	var m Marker
	var kind SyntaxKind
	switch p.Current() {
	case TokenAmp:
		m = p.Start()
		p.Bump(TokenAmp)
		if p.AtContextualKW("raw") && (p.NthAt(1, TokenMut) || p.NthAt(1, TokenConst)) {
			// &raw const x
			p.BumpRemap(TokenRaw)
			p.BumpAny()
		} else {
			p.Eat(TokenMut)
		}
		kind = KindRefExpr
	case TokenStar, TokenBang, TokenMinus:
		m = p.Start()
		p.BumpAny()
		kind = KindPrefixExpr
	default:
		for _, op := range []SyntaxKind{TokenDot2Eq, TokenDot2} {
			if !p.At(op) {
				continue
			}
			// ..x and bare ..
			m = p.Start()
			p.Bump(op)
			if p.AtTS(exprFirst) && !(r.forbidStructs && p.At(TokenLCurly)) {
				exprBP(p, r, bpRange)
			}
			return m.Complete(p, KindRangeExpr), notBlock, true
		}
		lhs, bl, ok := atomExpr(p, r)
		if !ok {
			return CompletedMarker{}, notBlock, false
		}
		allowCalls := !(r.preferStmt && bl == isBlock)
		lhs, bl = postfixExpr(p, lhs, bl, allowCalls)
		return lhs, bl, true
	}
	exprBP(p, r, bpUnary)
	return m.Complete(p, kind), notBlock, true
}

func postfixExpr(p *Parser, lhs CompletedMarker, bl blockLike, allowCalls bool) (CompletedMarker, blockLike) {
	for {
		switch {
		case p.At(TokenLParen) && allowCalls:
			m := lhs.Precede(p)
			argList(p)
			lhs = m.Complete(p, KindCallExpr)
		case p.At(TokenLBrack) && allowCalls:
			m := lhs.Precede(p)
			p.Bump(TokenLBrack)
			expr(p)
			p.Expect(TokenRBrack)
			lhs = m.Complete(p, KindIndexExpr)
		case p.At(TokenDot):
			next, ok := postfixDotExpr(p, lhs)
			if !ok {
				return lhs, bl
			}
			lhs = next
		case p.At(TokenQuestion):
			m := lhs.Precede(p)
			p.Bump(TokenQuestion)
			lhs = m.Complete(p, KindTryExpr)
		default:
			return lhs, bl
		}
		allowCalls = true
		bl = notBlock
	}
}

func postfixDotExpr(p *Parser, lhs CompletedMarker) (CompletedMarker, bool) {
	if p.Nth(1) == TokenIdent && (p.Nth(2) == TokenLParen || p.NthAt(2, TokenColon2)) {
		m := lhs.Precede(p)
		p.Bump(TokenDot)
		nameRef(p)
		optGenericArgList(p, true)
		if p.At(TokenLParen) {
			argList(p)
		}
		return m.Complete(p, KindMethodCallExpr), true
	}
	if p.Nth(1) == TokenAwait {
		m := lhs.Precede(p)
		p.Bump(TokenDot)
		p.Bump(TokenAwait)
		return m.Complete(p, KindAwaitExpr), true
	}
	if p.At(TokenDot2Eq) || p.At(TokenDot2) {
		return lhs, false
	}
	m := lhs.Precede(p)
	p.Bump(TokenDot)
	switch {
	case p.At(TokenIdent) || p.At(TokenIntNumber):
		nameRefOrIndex(p)
	case p.At(TokenFloatNumber):
		// x.0.1 lexes its index as one float token.
		p.BumpAny()
	default:
		p.Error("expected field name or number")
	}
	return m.Complete(p, KindFieldExpr), true
}

func castExpr(p *Parser, lhs CompletedMarker) CompletedMarker {
	m := lhs.Precede(p)
	p.Bump(TokenAs)
	typeNoBounds(p)
	return m.Complete(p, KindCastExpr)
}

func argList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLParen)
	for !p.At(TokenRParen) && !p.At(TokenEOF) {
		outerAttrs(p)
		if !p.AtTS(exprFirst) {
			p.Error("expected expression")
			break
		}
		expr(p)
		if !p.At(TokenRParen) && !p.Expect(TokenComma) {
			break
		}
	}
	p.Expect(TokenRParen)
	m.Complete(p, KindArgList)
}

func pathExpr(p *Parser, r restrictions) (CompletedMarker, blockLike) {
	m := p.Start()
	exprPath(p)
	switch {
	case p.At(TokenLCurly) && !r.forbidStructs:
		recordExprFieldList(p)
		return m.Complete(p, KindRecordExpr), notBlock
	case p.At(TokenBang) && !p.At(TokenNeq):
		bl := macroCallAfterExcl(p)
		return m.Complete(p, KindMacroCall), bl
	}
	return m.Complete(p, KindPathExpr), notBlock
}

func recordExprFieldList(p *Parser) {
	m := p.Start()
	p.Bump(TokenLCurly)
	for !p.At(TokenEOF) && !p.At(TokenRCurly) {
		f := p.Start()
		outerAttrs(p)
		switch {
		case p.At(TokenIdent) || p.At(TokenIntNumber):
			if p.NthAt(1, TokenColon) || p.NthAt(1, TokenDot2) {
				nameRefOrIndex(p)
				p.Expect(TokenColon)
			}
			expr(p)
			f.Complete(p, KindRecordExprField)
		case p.At(TokenDot2):
			f.Abandon(p)
			p.Bump(TokenDot2)
			expr(p)
		case p.At(TokenLCurly):
			errorBlock(p, "expected a field")
			f.Abandon(p)
		default:
			p.ErrAndBump("expected identifier")
			f.Abandon(p)
		}
		if !p.At(TokenRCurly) {
			p.Expect(TokenComma)
		}
	}
	p.Expect(TokenRCurly)
	m.Complete(p, KindRecordExprFieldList)
}
