package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/rsyn/parser"
	"github.com/dhamidi/rsyn/syntax"
)

// symbol is an item of a file outline. Ranges are byte offsets.
type symbol struct {
	name      string
	detail    string
	kind      protocol.SymbolKind
	fullRange syntax.TextRange
	nameRange syntax.TextRange
	children  []symbol
}

var itemSymbolKinds = map[parser.SyntaxKind]protocol.SymbolKind{
	parser.KindFn:          protocol.SymbolKindFunction,
	parser.KindStruct:      protocol.SymbolKindStruct,
	parser.KindUnion:       protocol.SymbolKindStruct,
	parser.KindEnum:        protocol.SymbolKindEnum,
	parser.KindTrait:       protocol.SymbolKindInterface,
	parser.KindImpl:        protocol.SymbolKindObject,
	parser.KindModule:      protocol.SymbolKindModule,
	parser.KindConst:       protocol.SymbolKindConstant,
	parser.KindStatic:      protocol.SymbolKindVariable,
	parser.KindTypeAlias:   protocol.SymbolKindTypeParameter,
	parser.KindMacroRules:  protocol.SymbolKindFunction,
	parser.KindVariant:     protocol.SymbolKindEnumMember,
	parser.KindRecordField: protocol.SymbolKindField,
}

// outline lists the items declared directly in n, with nested items as
// children.
func outline(n *syntax.Node, inImpl bool) []symbol {
	var symbols []symbol
	for _, child := range n.Children {
		kind, ok := itemSymbolKinds[child.Kind]
		if !ok {
			continue
		}
		sym := symbol{kind: kind, fullRange: child.Range}
		if child.Kind == parser.KindImpl {
			sym.name = implName(child)
			sym.nameRange = child.Range
		} else {
			name := child.FirstChildOfKind(parser.KindName)
			if name == nil {
				continue
			}
			sym.name = name.SourceText()
			sym.nameRange = name.Range
		}
		if child.Kind == parser.KindFn {
			sym.detail = signature(child)
			if inImpl {
				sym.kind = protocol.SymbolKindMethod
			}
		}

		switch child.Kind {
		case parser.KindModule:
			if items := child.FirstChildOfKind(parser.KindItemList); items != nil {
				sym.children = outline(items, false)
			}
		case parser.KindImpl, parser.KindTrait:
			if items := child.FirstChildOfKind(parser.KindAssocItemList); items != nil {
				sym.children = outline(items, true)
			}
		case parser.KindEnum:
			if variants := child.FirstChildOfKind(parser.KindVariantList); variants != nil {
				sym.children = outline(variants, false)
			}
		case parser.KindStruct, parser.KindUnion:
			if fields := child.FirstChildOfKind(parser.KindRecordFieldList); fields != nil {
				sym.children = outline(fields, false)
			}
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

// implName renders the header of an impl block, such as
// "impl Display for Point".
func implName(impl *syntax.Node) string {
	parts := []string{"impl"}
	for _, c := range impl.NonTrivia() {
		switch c.Kind {
		case parser.TokenImpl, parser.KindAttr, parser.KindVisibility, parser.KindGenericParamList:
			continue
		case parser.KindAssocItemList, parser.KindWhereClause:
			return strings.Join(parts, " ")
		}
		parts = append(parts, c.SourceText())
	}
	return strings.Join(parts, " ")
}

// signature is the text of a function up to its body.
func signature(fn *syntax.Node) string {
	var sb strings.Builder
	for _, c := range fn.Children {
		if c.Kind == parser.KindBlockExpr || c.Kind == parser.TokenSemicolon {
			break
		}
		if c.Kind == parser.KindAttr || (sb.Len() == 0 && c.Kind.IsTrivia()) {
			continue
		}
		sb.WriteString(c.SourceText())
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func documentSymbols(symbols []symbol, lines *syntax.LineIndex) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		ds := protocol.DocumentSymbol{
			Name:           s.name,
			Kind:           s.kind,
			Range:          toRange(lines, s.fullRange),
			SelectionRange: toRange(lines, s.nameRange),
			Children:       documentSymbols(s.children, lines),
		}
		if s.detail != "" {
			detail := s.detail
			ds.Detail = &detail
		}
		result = append(result, ds)
	}
	return result
}

// flatten lists symbols depth-first, pairing each with the name of its
// container.
func flatten(symbols []symbol, container string, fn func(s symbol, container string)) {
	for _, s := range symbols {
		fn(s, container)
		flatten(s.children, s.name, fn)
	}
}
