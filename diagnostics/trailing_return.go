package diagnostics

import (
	"github.com/dhamidi/rsyn/parser"
	"github.com/dhamidi/rsyn/syntax"
)

var exprKinds = map[parser.SyntaxKind]bool{
	parser.KindTupleExpr:      true,
	parser.KindArrayExpr:      true,
	parser.KindParenExpr:      true,
	parser.KindPathExpr:       true,
	parser.KindClosureExpr:    true,
	parser.KindIfExpr:         true,
	parser.KindWhileExpr:      true,
	parser.KindLoopExpr:       true,
	parser.KindForExpr:        true,
	parser.KindContinueExpr:   true,
	parser.KindBreakExpr:      true,
	parser.KindBlockExpr:      true,
	parser.KindReturnExpr:     true,
	parser.KindYieldExpr:      true,
	parser.KindMatchExpr:      true,
	parser.KindRecordExpr:     true,
	parser.KindEffectExpr:     true,
	parser.KindBoxExpr:        true,
	parser.KindCallExpr:       true,
	parser.KindIndexExpr:      true,
	parser.KindMethodCallExpr: true,
	parser.KindFieldExpr:      true,
	parser.KindAwaitExpr:      true,
	parser.KindTryExpr:        true,
	parser.KindCastExpr:       true,
	parser.KindRefExpr:        true,
	parser.KindPrefixExpr:     true,
	parser.KindRangeExpr:      true,
	parser.KindBinExpr:        true,
	parser.KindLiteral:        true,
	parser.KindMacroCall:      true,
}

// RemoveTrailingReturn flags a `return` whose value is what the function
// would produce anyway, because it is the last thing its body evaluates.
// Closure bodies are not checked. The fix replaces `return <expr>;` with
// `<expr>`.
func RemoveTrailingReturn(tree *syntax.Tree) []Diagnostic {
	var diags []Diagnostic
	tree.Root.Walk(func(n *syntax.Node) bool {
		if n.Kind != parser.KindFn {
			return true
		}
		if body := n.FirstChildOfKind(parser.KindBlockExpr); body != nil {
			diags = trailingReturns(body, diags)
		}
		return true
	})
	return diags
}

// trailingReturns follows the value-producing position of e down through
// blocks, if/else branches and match arms.
func trailingReturns(e *syntax.Node, diags []Diagnostic) []Diagnostic {
	switch e.Kind {
	case parser.KindBlockExpr:
		if last := blockValue(e); last != nil {
			diags = trailingReturns(last, diags)
		}
	case parser.KindIfExpr:
		// Without an else branch the if has type (), so a return in it
		// cannot be dropped.
		branches := e.NonTrivia()
		hasElse := false
		for _, b := range branches {
			if b.Kind == parser.TokenElse {
				hasElse = true
			}
		}
		if !hasElse {
			return diags
		}
		for _, b := range branches {
			if b.Kind == parser.KindBlockExpr || b.Kind == parser.KindIfExpr {
				diags = trailingReturns(b, diags)
			}
		}
	case parser.KindMatchExpr:
		arms := e.FirstChildOfKind(parser.KindMatchArmList)
		if arms == nil {
			return diags
		}
		for _, arm := range arms.ChildrenOfKind(parser.KindMatchArm) {
			if value := armValue(arm); value != nil {
				diags = trailingReturns(value, diags)
			}
		}
	case parser.KindReturnExpr:
		diags = append(diags, trailingReturn(e))
	}
	return diags
}

// blockValue returns the tail expression of a block, or the expression of
// its last statement when that is an expression statement.
func blockValue(block *syntax.Node) *syntax.Node {
	children := block.NonTrivia()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		switch {
		case c.Kind == parser.TokenRCurly:
			continue
		case c.Kind == parser.KindExprStmt:
			return lastExprChild(c)
		case exprKinds[c.Kind]:
			return c
		}
		return nil
	}
	return nil
}

func armValue(arm *syntax.Node) *syntax.Node {
	afterArrow := false
	for _, c := range arm.NonTrivia() {
		if c.Kind == parser.TokenFatArrow {
			afterArrow = true
			continue
		}
		if afterArrow && exprKinds[c.Kind] {
			return c
		}
	}
	return nil
}

func lastExprChild(n *syntax.Node) *syntax.Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if exprKinds[n.Children[i].Kind] {
			return n.Children[i]
		}
	}
	return nil
}

func trailingReturn(ret *syntax.Node) Diagnostic {
	target := ret
	if ret.Parent != nil && ret.Parent.Kind == parser.KindExprStmt {
		target = ret.Parent
	}
	replacement := ""
	if value := lastExprChild(ret); value != nil {
		replacement = value.SourceText()
	}
	return Diagnostic{
		Code:     CodeRemoveTrailingReturn,
		Message:  "replace return <expr>; with <expr>",
		Range:    ret.Range,
		Severity: SeverityWeakWarning,
		Fixes: []Fix{{
			ID:     "replace_with_inner",
			Label:  "Replace return <expr>; with <expr>",
			Edits:  []TextEdit{{Range: target.Range, NewText: replacement}},
			Target: target.Range,
		}},
	}
}
