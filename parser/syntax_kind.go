package parser

// SyntaxKind is the kind of a token or of a syntax node. Token kinds come
// first and stay below tokenKindEnd so they fit in a TokenSet.
type SyntaxKind uint16

const (
	// Tombstone marks an abandoned Start event; as a lookup argument it
	// means "no kind".
	Tombstone SyntaxKind = iota
	TokenEOF

	// Punctuation. The lexer only produces single-character punctuation;
	// the composite kinds are assembled by the parser from joint tokens.
	TokenSemicolon
	TokenComma
	TokenLParen
	TokenRParen
	TokenLCurly
	TokenRCurly
	TokenLBrack
	TokenRBrack
	TokenLAngle
	TokenRAngle
	TokenAt
	TokenPound
	TokenTilde
	TokenQuestion
	TokenDollar
	TokenAmp
	TokenPipe
	TokenPlus
	TokenStar
	TokenSlash
	TokenCaret
	TokenPercent
	TokenUnderscore
	TokenDot
	TokenDot2
	TokenDot3
	TokenDot2Eq
	TokenColon
	TokenColon2
	TokenEq
	TokenEq2
	TokenFatArrow
	TokenBang
	TokenNeq
	TokenMinus
	TokenThinArrow
	TokenLtEq
	TokenGtEq
	TokenPlusEq
	TokenMinusEq
	TokenPipeEq
	TokenAmpEq
	TokenCaretEq
	TokenSlashEq
	TokenStarEq
	TokenPercentEq
	TokenAmp2
	TokenPipe2
	TokenShl
	TokenShr
	TokenShlEq
	TokenShrEq

	// Keywords
	TokenAs
	TokenAsync
	TokenAwait
	TokenBox
	TokenBreak
	TokenConst
	TokenContinue
	TokenCrate
	TokenDyn
	TokenElse
	TokenEnum
	TokenExtern
	TokenFalse
	TokenFn
	TokenFor
	TokenIf
	TokenImpl
	TokenIn
	TokenLet
	TokenLoop
	TokenMacro
	TokenMatch
	TokenMod
	TokenMove
	TokenMut
	TokenPub
	TokenRef
	TokenReturn
	TokenSelf
	TokenSelfType
	TokenStatic
	TokenStruct
	TokenSuper
	TokenTrait
	TokenTrue
	TokenTry
	TokenType
	TokenUnsafe
	TokenUse
	TokenWhere
	TokenWhile
	TokenYield

	// Contextual keywords: lexed as identifiers, remapped by the grammar.
	TokenAuto
	TokenDefault
	TokenExistential
	TokenUnion
	TokenRaw
	TokenMacroRules

	// Literals
	TokenIntNumber
	TokenFloatNumber
	TokenChar
	TokenByte
	TokenString
	TokenByteString

	TokenError
	TokenIdent
	TokenWhitespace
	TokenLifetimeIdent
	TokenComment
	TokenShebang

	tokenKindEnd

	// Nodes
	KindSourceFile
	KindStruct
	KindUnion
	KindEnum
	KindFn
	KindRetType
	KindExternCrate
	KindModule
	KindUse
	KindStatic
	KindConst
	KindTrait
	KindImpl
	KindTypeAlias
	KindMacroCall
	KindMacroRules
	KindMacroDef
	KindTokenTree
	KindParenType
	KindTupleType
	KindMacroType
	KindNeverType
	KindPathType
	KindPtrType
	KindArrayType
	KindSliceType
	KindRefType
	KindInferType
	KindFnPtrType
	KindForType
	KindImplTraitType
	KindDynTraitType
	KindOrPat
	KindParenPat
	KindRefPat
	KindBoxPat
	KindIdentPat
	KindWildcardPat
	KindRestPat
	KindPathPat
	KindRecordPat
	KindRecordPatFieldList
	KindRecordPatField
	KindTupleStructPat
	KindTuplePat
	KindSlicePat
	KindRangePat
	KindLiteralPat
	KindMacroPat
	KindConstBlockPat
	KindTupleExpr
	KindArrayExpr
	KindParenExpr
	KindPathExpr
	KindClosureExpr
	KindIfExpr
	KindWhileExpr
	KindCondition
	KindLoopExpr
	KindForExpr
	KindContinueExpr
	KindBreakExpr
	KindLabel
	KindBlockExpr
	KindReturnExpr
	KindYieldExpr
	KindMatchExpr
	KindMatchArmList
	KindMatchArm
	KindMatchGuard
	KindRecordExpr
	KindRecordExprFieldList
	KindRecordExprField
	KindEffectExpr
	KindBoxExpr
	KindCallExpr
	KindIndexExpr
	KindMethodCallExpr
	KindFieldExpr
	KindAwaitExpr
	KindTryExpr
	KindCastExpr
	KindRefExpr
	KindPrefixExpr
	KindRangeExpr
	KindBinExpr
	KindExternBlock
	KindExternItemList
	KindVariant
	KindRecordFieldList
	KindRecordField
	KindTupleFieldList
	KindTupleField
	KindVariantList
	KindItemList
	KindAssocItemList
	KindAttr
	KindMeta
	KindUseTree
	KindUseTreeList
	KindPath
	KindPathSegment
	KindLiteral
	KindRename
	KindVisibility
	KindWhereClause
	KindWherePred
	KindAbi
	KindName
	KindNameRef
	KindLetStmt
	KindLetElse
	KindExprStmt
	KindGenericParamList
	KindGenericParam
	KindLifetimeParam
	KindTypeParam
	KindConstParam
	KindGenericArgList
	KindLifetime
	KindLifetimeArg
	KindTypeArg
	KindAssocTypeArg
	KindConstArg
	KindParamList
	KindParam
	KindSelfParam
	KindArgList
	KindTypeBound
	KindTypeBoundList
	KindMacroItems
	KindMacroStmts
	KindError

	kindEnd
)

var syntaxKindNames = map[SyntaxKind]string{
	Tombstone:          "Tombstone",
	TokenEOF:           "EOF",
	TokenSemicolon:     "Semicolon",
	TokenComma:         "Comma",
	TokenLParen:        "LParen",
	TokenRParen:        "RParen",
	TokenLCurly:        "LCurly",
	TokenRCurly:        "RCurly",
	TokenLBrack:        "LBrack",
	TokenRBrack:        "RBrack",
	TokenLAngle:        "LAngle",
	TokenRAngle:        "RAngle",
	TokenAt:            "At",
	TokenPound:         "Pound",
	TokenTilde:         "Tilde",
	TokenQuestion:      "Question",
	TokenDollar:        "Dollar",
	TokenAmp:           "Amp",
	TokenPipe:          "Pipe",
	TokenPlus:          "Plus",
	TokenStar:          "Star",
	TokenSlash:         "Slash",
	TokenCaret:         "Caret",
	TokenPercent:       "Percent",
	TokenUnderscore:    "Underscore",
	TokenDot:           "Dot",
	TokenDot2:          "Dot2",
	TokenDot3:          "Dot3",
	TokenDot2Eq:        "Dot2Eq",
	TokenColon:         "Colon",
	TokenColon2:        "Colon2",
	TokenEq:            "Eq",
	TokenEq2:           "Eq2",
	TokenFatArrow:      "FatArrow",
	TokenBang:          "Bang",
	TokenNeq:           "Neq",
	TokenMinus:         "Minus",
	TokenThinArrow:     "ThinArrow",
	TokenLtEq:          "LtEq",
	TokenGtEq:          "GtEq",
	TokenPlusEq:        "PlusEq",
	TokenMinusEq:       "MinusEq",
	TokenPipeEq:        "PipeEq",
	TokenAmpEq:         "AmpEq",
	TokenCaretEq:       "CaretEq",
	TokenSlashEq:       "SlashEq",
	TokenStarEq:        "StarEq",
	TokenPercentEq:     "PercentEq",
	TokenAmp2:          "Amp2",
	TokenPipe2:         "Pipe2",
	TokenShl:           "Shl",
	TokenShr:           "Shr",
	TokenShlEq:         "ShlEq",
	TokenShrEq:         "ShrEq",
	TokenAs:            "AsKw",
	TokenAsync:         "AsyncKw",
	TokenAwait:         "AwaitKw",
	TokenBox:           "BoxKw",
	TokenBreak:         "BreakKw",
	TokenConst:         "ConstKw",
	TokenContinue:      "ContinueKw",
	TokenCrate:         "CrateKw",
	TokenDyn:           "DynKw",
	TokenElse:          "ElseKw",
	TokenEnum:          "EnumKw",
	TokenExtern:        "ExternKw",
	TokenFalse:         "FalseKw",
	TokenFn:            "FnKw",
	TokenFor:           "ForKw",
	TokenIf:            "IfKw",
	TokenImpl:          "ImplKw",
	TokenIn:            "InKw",
	TokenLet:           "LetKw",
	TokenLoop:          "LoopKw",
	TokenMacro:         "MacroKw",
	TokenMatch:         "MatchKw",
	TokenMod:           "ModKw",
	TokenMove:          "MoveKw",
	TokenMut:           "MutKw",
	TokenPub:           "PubKw",
	TokenRef:           "RefKw",
	TokenReturn:        "ReturnKw",
	TokenSelf:          "SelfKw",
	TokenSelfType:      "SelfTypeKw",
	TokenStatic:        "StaticKw",
	TokenStruct:        "StructKw",
	TokenSuper:         "SuperKw",
	TokenTrait:         "TraitKw",
	TokenTrue:          "TrueKw",
	TokenTry:           "TryKw",
	TokenType:          "TypeKw",
	TokenUnsafe:        "UnsafeKw",
	TokenUse:           "UseKw",
	TokenWhere:         "WhereKw",
	TokenWhile:         "WhileKw",
	TokenYield:         "YieldKw",
	TokenAuto:          "AutoKw",
	TokenDefault:       "DefaultKw",
	TokenExistential:   "ExistentialKw",
	TokenUnion:         "UnionKw",
	TokenRaw:           "RawKw",
	TokenMacroRules:    "MacroRulesKw",
	TokenIntNumber:     "IntNumber",
	TokenFloatNumber:   "FloatNumber",
	TokenChar:          "Char",
	TokenByte:          "Byte",
	TokenString:        "String",
	TokenByteString:    "ByteString",
	TokenError:         "ErrorToken",
	TokenIdent:         "Ident",
	TokenWhitespace:    "Whitespace",
	TokenLifetimeIdent: "LifetimeIdent",
	TokenComment:       "Comment",
	TokenShebang:       "Shebang",

	KindSourceFile:          "SourceFile",
	KindStruct:              "Struct",
	KindUnion:               "Union",
	KindEnum:                "Enum",
	KindFn:                  "Fn",
	KindRetType:             "RetType",
	KindExternCrate:         "ExternCrate",
	KindModule:              "Module",
	KindUse:                 "Use",
	KindStatic:              "Static",
	KindConst:               "Const",
	KindTrait:               "Trait",
	KindImpl:                "Impl",
	KindTypeAlias:           "TypeAlias",
	KindMacroCall:           "MacroCall",
	KindMacroRules:          "MacroRules",
	KindMacroDef:            "MacroDef",
	KindTokenTree:           "TokenTree",
	KindParenType:           "ParenType",
	KindTupleType:           "TupleType",
	KindMacroType:           "MacroType",
	KindNeverType:           "NeverType",
	KindPathType:            "PathType",
	KindPtrType:             "PtrType",
	KindArrayType:           "ArrayType",
	KindSliceType:           "SliceType",
	KindRefType:             "RefType",
	KindInferType:           "InferType",
	KindFnPtrType:           "FnPtrType",
	KindForType:             "ForType",
	KindImplTraitType:       "ImplTraitType",
	KindDynTraitType:        "DynTraitType",
	KindOrPat:               "OrPat",
	KindParenPat:            "ParenPat",
	KindRefPat:              "RefPat",
	KindBoxPat:              "BoxPat",
	KindIdentPat:            "IdentPat",
	KindWildcardPat:         "WildcardPat",
	KindRestPat:             "RestPat",
	KindPathPat:             "PathPat",
	KindRecordPat:           "RecordPat",
	KindRecordPatFieldList:  "RecordPatFieldList",
	KindRecordPatField:      "RecordPatField",
	KindTupleStructPat:      "TupleStructPat",
	KindTuplePat:            "TuplePat",
	KindSlicePat:            "SlicePat",
	KindRangePat:            "RangePat",
	KindLiteralPat:          "LiteralPat",
	KindMacroPat:            "MacroPat",
	KindConstBlockPat:       "ConstBlockPat",
	KindTupleExpr:           "TupleExpr",
	KindArrayExpr:           "ArrayExpr",
	KindParenExpr:           "ParenExpr",
	KindPathExpr:            "PathExpr",
	KindClosureExpr:         "ClosureExpr",
	KindIfExpr:              "IfExpr",
	KindWhileExpr:           "WhileExpr",
	KindCondition:           "Condition",
	KindLoopExpr:            "LoopExpr",
	KindForExpr:             "ForExpr",
	KindContinueExpr:        "ContinueExpr",
	KindBreakExpr:           "BreakExpr",
	KindLabel:               "Label",
	KindBlockExpr:           "BlockExpr",
	KindReturnExpr:          "ReturnExpr",
	KindYieldExpr:           "YieldExpr",
	KindMatchExpr:           "MatchExpr",
	KindMatchArmList:        "MatchArmList",
	KindMatchArm:            "MatchArm",
	KindMatchGuard:          "MatchGuard",
	KindRecordExpr:          "RecordExpr",
	KindRecordExprFieldList: "RecordExprFieldList",
	KindRecordExprField:     "RecordExprField",
	KindEffectExpr:          "EffectExpr",
	KindBoxExpr:             "BoxExpr",
	KindCallExpr:            "CallExpr",
	KindIndexExpr:           "IndexExpr",
	KindMethodCallExpr:      "MethodCallExpr",
	KindFieldExpr:           "FieldExpr",
	KindAwaitExpr:           "AwaitExpr",
	KindTryExpr:             "TryExpr",
	KindCastExpr:            "CastExpr",
	KindRefExpr:             "RefExpr",
	KindPrefixExpr:          "PrefixExpr",
	KindRangeExpr:           "RangeExpr",
	KindBinExpr:             "BinExpr",
	KindExternBlock:         "ExternBlock",
	KindExternItemList:      "ExternItemList",
	KindVariant:             "Variant",
	KindRecordFieldList:     "RecordFieldList",
	KindRecordField:         "RecordField",
	KindTupleFieldList:      "TupleFieldList",
	KindTupleField:          "TupleField",
	KindVariantList:         "VariantList",
	KindItemList:            "ItemList",
	KindAssocItemList:       "AssocItemList",
	KindAttr:                "Attr",
	KindMeta:                "Meta",
	KindUseTree:             "UseTree",
	KindUseTreeList:         "UseTreeList",
	KindPath:                "Path",
	KindPathSegment:         "PathSegment",
	KindLiteral:             "Literal",
	KindRename:              "Rename",
	KindVisibility:          "Visibility",
	KindWhereClause:         "WhereClause",
	KindWherePred:           "WherePred",
	KindAbi:                 "Abi",
	KindName:                "Name",
	KindNameRef:             "NameRef",
	KindLetStmt:             "LetStmt",
	KindLetElse:             "LetElse",
	KindExprStmt:            "ExprStmt",
	KindGenericParamList:    "GenericParamList",
	KindGenericParam:        "GenericParam",
	KindLifetimeParam:       "LifetimeParam",
	KindTypeParam:           "TypeParam",
	KindConstParam:          "ConstParam",
	KindGenericArgList:      "GenericArgList",
	KindLifetime:            "Lifetime",
	KindLifetimeArg:         "LifetimeArg",
	KindTypeArg:             "TypeArg",
	KindAssocTypeArg:        "AssocTypeArg",
	KindConstArg:            "ConstArg",
	KindParamList:           "ParamList",
	KindParam:               "Param",
	KindSelfParam:           "SelfParam",
	KindArgList:             "ArgList",
	KindTypeBound:           "TypeBound",
	KindTypeBoundList:       "TypeBoundList",
	KindMacroItems:          "MacroItems",
	KindMacroStmts:          "MacroStmts",
	KindError:               "Error",
}

// tokenTexts holds the fixed spelling of punctuation and keywords. It is
// used for diagnostics ("expected `;`") and by the lexer.
var tokenTexts = map[SyntaxKind]string{
	TokenSemicolon:   ";",
	TokenComma:       ",",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLCurly:      "{",
	TokenRCurly:      "}",
	TokenLBrack:      "[",
	TokenRBrack:      "]",
	TokenLAngle:      "<",
	TokenRAngle:      ">",
	TokenAt:          "@",
	TokenPound:       "#",
	TokenTilde:       "~",
	TokenQuestion:    "?",
	TokenDollar:      "$",
	TokenAmp:         "&",
	TokenPipe:        "|",
	TokenPlus:        "+",
	TokenStar:        "*",
	TokenSlash:       "/",
	TokenCaret:       "^",
	TokenPercent:     "%",
	TokenUnderscore:  "_",
	TokenDot:         ".",
	TokenDot2:        "..",
	TokenDot3:        "...",
	TokenDot2Eq:      "..=",
	TokenColon:       ":",
	TokenColon2:      "::",
	TokenEq:          "=",
	TokenEq2:         "==",
	TokenFatArrow:    "=>",
	TokenBang:        "!",
	TokenNeq:         "!=",
	TokenMinus:       "-",
	TokenThinArrow:   "->",
	TokenLtEq:        "<=",
	TokenGtEq:        ">=",
	TokenPlusEq:      "+=",
	TokenMinusEq:     "-=",
	TokenPipeEq:      "|=",
	TokenAmpEq:       "&=",
	TokenCaretEq:     "^=",
	TokenSlashEq:     "/=",
	TokenStarEq:      "*=",
	TokenPercentEq:   "%=",
	TokenAmp2:        "&&",
	TokenPipe2:       "||",
	TokenShl:         "<<",
	TokenShr:         ">>",
	TokenShlEq:       "<<=",
	TokenShrEq:       ">>=",
	TokenAs:          "as",
	TokenAsync:       "async",
	TokenAwait:       "await",
	TokenBox:         "box",
	TokenBreak:       "break",
	TokenConst:       "const",
	TokenContinue:    "continue",
	TokenCrate:       "crate",
	TokenDyn:         "dyn",
	TokenElse:        "else",
	TokenEnum:        "enum",
	TokenExtern:      "extern",
	TokenFalse:       "false",
	TokenFn:          "fn",
	TokenFor:         "for",
	TokenIf:          "if",
	TokenImpl:        "impl",
	TokenIn:          "in",
	TokenLet:         "let",
	TokenLoop:        "loop",
	TokenMacro:       "macro",
	TokenMatch:       "match",
	TokenMod:         "mod",
	TokenMove:        "move",
	TokenMut:         "mut",
	TokenPub:         "pub",
	TokenRef:         "ref",
	TokenReturn:      "return",
	TokenSelf:        "self",
	TokenSelfType:    "Self",
	TokenStatic:      "static",
	TokenStruct:      "struct",
	TokenSuper:       "super",
	TokenTrait:       "trait",
	TokenTrue:        "true",
	TokenTry:         "try",
	TokenType:        "type",
	TokenUnsafe:      "unsafe",
	TokenUse:         "use",
	TokenWhere:       "where",
	TokenWhile:       "while",
	TokenYield:       "yield",
	TokenAuto:        "auto",
	TokenDefault:     "default",
	TokenExistential: "existential",
	TokenUnion:       "union",
	TokenRaw:         "raw",
	TokenMacroRules:  "macro_rules",
}

var keywords = map[string]SyntaxKind{}

func init() {
	for k := TokenAs; k <= TokenYield; k++ {
		keywords[tokenTexts[k]] = k
	}
}

// LookupKeyword returns the strict keyword spelled by text, or TokenIdent.
// Contextual keywords are never returned: they stay identifiers until the
// grammar asks for them.
func LookupKeyword(text string) SyntaxKind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return TokenIdent
}

// PunctKind returns the single-character punctuation kind for c, or
// Tombstone when c is not punctuation.
func PunctKind(c byte) SyntaxKind {
	switch c {
	case ';':
		return TokenSemicolon
	case ',':
		return TokenComma
	case '(':
		return TokenLParen
	case ')':
		return TokenRParen
	case '{':
		return TokenLCurly
	case '}':
		return TokenRCurly
	case '[':
		return TokenLBrack
	case ']':
		return TokenRBrack
	case '<':
		return TokenLAngle
	case '>':
		return TokenRAngle
	case '@':
		return TokenAt
	case '#':
		return TokenPound
	case '~':
		return TokenTilde
	case '?':
		return TokenQuestion
	case '$':
		return TokenDollar
	case '&':
		return TokenAmp
	case '|':
		return TokenPipe
	case '+':
		return TokenPlus
	case '*':
		return TokenStar
	case '/':
		return TokenSlash
	case '^':
		return TokenCaret
	case '%':
		return TokenPercent
	case '_':
		return TokenUnderscore
	case '.':
		return TokenDot
	case ':':
		return TokenColon
	case '=':
		return TokenEq
	case '!':
		return TokenBang
	case '-':
		return TokenMinus
	}
	return Tombstone
}

func (k SyntaxKind) String() string {
	if name, ok := syntaxKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Text returns the fixed spelling of a punctuation or keyword kind and ""
// for every other kind.
func (k SyntaxKind) Text() string {
	return tokenTexts[k]
}

func (k SyntaxKind) IsToken() bool {
	return k > Tombstone && k < tokenKindEnd
}

func (k SyntaxKind) IsNode() bool {
	return k > tokenKindEnd && k < kindEnd
}

func (k SyntaxKind) IsPunct() bool {
	return k >= TokenSemicolon && k <= TokenShrEq
}

func (k SyntaxKind) IsKeyword() bool {
	return k >= TokenAs && k <= TokenMacroRules
}

func (k SyntaxKind) IsLiteral() bool {
	return k >= TokenIntNumber && k <= TokenByteString
}

func (k SyntaxKind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment
}

// display renders a kind for diagnostics.
func (k SyntaxKind) display() string {
	if text := k.Text(); text != "" {
		return "`" + text + "`"
	}
	return k.String()
}
