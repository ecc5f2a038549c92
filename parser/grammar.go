package parser

// The grammar is a set of mutually recursive routines, one per construct.
// Every routine either consumes at least one token or reports an error
// and returns, so the parser always makes progress.

type blockLike bool

const (
	notBlock blockLike = false
	isBlock  blockLike = true
)

func sourceFile(p *Parser) {
	m := p.Start()
	p.Eat(TokenShebang)
	modContents(p, topLevel)
	m.Complete(p, KindSourceFile)
}

func macroItems(p *Parser) {
	m := p.Start()
	modContents(p, topLevel)
	m.Complete(p, KindMacroItems)
}

func macroStmts(p *Parser) {
	m := p.Start()
	for !p.At(TokenEOF) {
		if p.At(TokenSemicolon) {
			p.Bump(TokenSemicolon)
			continue
		}
		if p.At(TokenRCurly) {
			e := p.Start()
			p.Error("unmatched `}`")
			p.Bump(TokenRCurly)
			e.Complete(p, KindError)
			continue
		}
		stmt(p, stmtSemiOptional, true)
	}
	m.Complete(p, KindMacroStmts)
}

func exprEntry(p *Parser) {
	expr(p)
}

func stmtEntry(p *Parser) {
	stmt(p, stmtSemiNo, true)
}

func stmtOptionalSemiEntry(p *Parser) {
	stmt(p, stmtSemiOptional, false)
}

func itemEntry(p *Parser) {
	itemOrMacro(p, inBraces)
}

func visibilityEntry(p *Parser) {
	optVisibility(p, false)
}

func attrEntry(p *Parser) {
	if !p.At(TokenPound) {
		p.Error("expected an attribute")
		return
	}
	attr(p, p.NthAt(1, TokenBang))
}

// fragment runs body and checks that it produced exactly one node covering
// the whole input. Otherwise everything is wrapped in an error node.
func fragment(body func(*Parser)) func(*Parser) {
	return func(p *Parser) {
		m := p.Start()
		body(p)
		if p.At(TokenEOF) && topLevelNodes(p.events, m.pos+1) == 1 {
			m.Abandon(p)
			return
		}
		if !p.At(TokenEOF) {
			p.Error("remaining input")
			for !p.At(TokenEOF) {
				p.BumpAny()
			}
		}
		m.Complete(p, KindError)
	}
}

// topLevelNodes counts the nodes and stray tokens that events[from:] put
// at depth zero, resolving forward parents the way Process does.
func topLevelNodes(events []Event, from int) int {
	visited := map[int]bool{}
	depth, count := 0, 0
	for i := from; i < len(events); i++ {
		ev := events[i]
		switch ev.Kind {
		case EventStart:
			if visited[i] {
				continue
			}
			opened := 0
			for j := i; ; {
				if events[j].Syntax != Tombstone {
					opened++
				}
				if events[j].ForwardParent == 0 {
					break
				}
				j += events[j].ForwardParent
				visited[j] = true
			}
			if depth == 0 && opened > 0 {
				count++
			}
			depth += opened
		case EventFinish:
			depth--
		case EventToken:
			if depth == 0 {
				count++
			}
		}
	}
	return count
}

// reparser returns the routine that re-derives a node of the given kind
// on its own, or nil when the node depends on its context.
func reparser(node, firstChild, parent SyntaxKind) func(*Parser) {
	switch node {
	case KindBlockExpr:
		return blockExpr
	case KindRecordFieldList:
		return recordFieldList
	case KindRecordExprFieldList:
		return recordExprFieldList
	case KindVariantList:
		return variantList
	case KindMatchArmList:
		return matchArmList
	case KindUseTreeList:
		return useTreeList
	case KindExternItemList:
		return externItemList
	case KindTokenTree:
		if firstChild == TokenLCurly {
			return tokenTree
		}
	case KindAssocItemList:
		switch parent {
		case KindImpl:
			return implItemList
		case KindTrait:
			return traitItemList
		}
	case KindItemList:
		return itemList
	}
	return nil
}

func optVisibility(p *Parser, inTupleField bool) bool {
	switch p.Current() {
	case TokenPub:
		m := p.Start()
		p.Bump(TokenPub)
		if p.At(TokenLParen) {
			switch p.Nth(1) {
			case TokenCrate, TokenSelf, TokenSuper:
				// `struct S(pub (crate::A));` is a type, not a restriction.
				if !inTupleField || p.Nth(2) == TokenRParen {
					p.Bump(TokenLParen)
					path := p.Start()
					segment := p.Start()
					nameRef := p.Start()
					p.BumpAny()
					nameRef.Complete(p, KindNameRef)
					segment.Complete(p, KindPathSegment)
					path.Complete(p, KindPath)
					p.Expect(TokenRParen)
				}
			case TokenIn:
				p.Bump(TokenLParen)
				p.Bump(TokenIn)
				usePath(p)
				p.Expect(TokenRParen)
			}
		}
		m.Complete(p, KindVisibility)
		return true
	case TokenCrate:
		if p.NthAt(1, TokenColon2) {
			return false
		}
		m := p.Start()
		p.Bump(TokenCrate)
		m.Complete(p, KindVisibility)
		return true
	}
	return false
}

func optRename(p *Parser) {
	if !p.At(TokenAs) {
		return
	}
	m := p.Start()
	p.Bump(TokenAs)
	if !p.Eat(TokenUnderscore) {
		name(p)
	}
	m.Complete(p, KindRename)
}

func abi(p *Parser) {
	m := p.Start()
	p.Bump(TokenExtern)
	p.Eat(TokenString)
	m.Complete(p, KindAbi)
}

func optRetType(p *Parser) bool {
	if !p.At(TokenThinArrow) {
		return false
	}
	m := p.Start()
	p.Bump(TokenThinArrow)
	typeNoBounds(p)
	m.Complete(p, KindRetType)
	return true
}

func nameR(p *Parser, recovery TokenSet) {
	if !p.At(TokenIdent) {
		p.ErrRecover("expected a name", recovery)
		return
	}
	m := p.Start()
	p.Bump(TokenIdent)
	m.Complete(p, KindName)
}

func name(p *Parser) {
	nameR(p, EmptySet)
}

func nameRef(p *Parser) {
	if !p.At(TokenIdent) {
		p.ErrAndBump("expected identifier")
		return
	}
	m := p.Start()
	p.Bump(TokenIdent)
	m.Complete(p, KindNameRef)
}

func nameRefOrIndex(p *Parser) {
	m := p.Start()
	p.BumpAny()
	m.Complete(p, KindNameRef)
}

func lifetime(p *Parser) {
	m := p.Start()
	p.Bump(TokenLifetimeIdent)
	m.Complete(p, KindLifetime)
}

// errorBlock wraps a whole misplaced block in an error node.
func errorBlock(p *Parser, msg string) {
	m := p.Start()
	p.Error(msg)
	p.Bump(TokenLCurly)
	exprBlockContents(p)
	p.Eat(TokenRCurly)
	m.Complete(p, KindError)
}
