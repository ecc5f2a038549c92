package parser

import "fmt"

// EntryPoint selects the grammar rule a parse starts from.
type EntryPoint uint8

const (
	SourceFile EntryPoint = iota
	Path
	Expr
	Statement
	StatementOptionalSemi
	Type
	Pattern
	Item
	Block
	Visibility
	MetaItem
	Items
	Statements
	Attr
)

var entryPointNames = map[EntryPoint]string{
	SourceFile:            "source-file",
	Path:                  "path",
	Expr:                  "expr",
	Statement:             "stmt",
	StatementOptionalSemi: "stmt-optional-semi",
	Type:                  "type",
	Pattern:               "pattern",
	Item:                  "item",
	Block:                 "block",
	Visibility:            "visibility",
	MetaItem:              "meta-item",
	Items:                 "items",
	Statements:            "stmts",
	Attr:                  "attr",
}

func (e EntryPoint) String() string {
	if name, ok := entryPointNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EntryPoint(%d)", e)
}

// EntryPoints lists every entry point in declaration order.
func EntryPoints() []EntryPoint {
	out := make([]EntryPoint, 0, len(entryPointNames))
	for e := SourceFile; e <= Attr; e++ {
		out = append(out, e)
	}
	return out
}

// ParseEntryPoint is the inverse of EntryPoint.String.
func ParseEntryPoint(name string) (EntryPoint, error) {
	for e, n := range entryPointNames {
		if n == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown entry point %q", name)
}

type entry struct {
	run func(*Parser)
	// root is the kind given to the outermost node if the parse has to be
	// cut short.
	root SyntaxKind
}

var entries = map[EntryPoint]entry{
	SourceFile:            {sourceFile, KindSourceFile},
	Path:                  {fragment(typePath), KindError},
	Expr:                  {fragment(exprEntry), KindError},
	Statement:             {fragment(stmtEntry), KindError},
	StatementOptionalSemi: {fragment(stmtOptionalSemiEntry), KindError},
	Type:                  {fragment(typ), KindError},
	Pattern:               {fragment(patternSingle), KindError},
	Item:                  {fragment(itemEntry), KindError},
	Block:                 {fragment(blockExpr), KindError},
	Visibility:            {fragment(visibilityEntry), KindError},
	MetaItem:              {fragment(meta), KindError},
	Items:                 {macroItems, KindMacroItems},
	Statements:            {macroStmts, KindMacroStmts},
	Attr:                  {fragment(attrEntry), KindError},
}

// Parse runs the grammar for entry over tokens and replays the result into
// sink. It always terminates and always covers every token: syntax errors
// reach the sink as ParseError values.
func Parse(tokens TokenSource, sink TreeSink, entry EntryPoint) {
	e, ok := entries[entry]
	if !ok {
		panic(fmt.Sprintf("parser: no grammar for %s", entry))
	}
	Process(sink, run(tokens, e.run, e.root))
}

// ParseSourceFile parses a whole file.
func ParseSourceFile(tokens TokenSource, sink TreeSink) {
	Parse(tokens, sink, SourceFile)
}

// run executes rule and returns its event log. A rule that stops making
// progress is cut short and the log is repaired so it still nests.
func run(tokens TokenSource, rule func(*Parser), root SyntaxKind) (events []Event) {
	p := newParser(tokens)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(stuckError); !ok {
			panic(r)
		}
		p.recoverStuck(root)
		events = p.Finish()
	}()
	rule(p)
	return p.Finish()
}

// Reparser re-derives a single self-contained node from its own tokens.
type Reparser struct {
	rule func(*Parser)
}

// ReparserFor reports how to reparse a node of kind node in isolation.
// firstChild and parent are the kinds of the node's first child and of
// its parent; Tombstone means there is none. The second result is false
// when the node's grammar depends on its surroundings.
func ReparserFor(node, firstChild, parent SyntaxKind) (Reparser, bool) {
	rule := reparser(node, firstChild, parent)
	if rule == nil {
		return Reparser{}, false
	}
	return Reparser{rule: rule}, true
}

// Parse runs the reparser over tokens, which must be exactly the node's
// tokens starting with its opening delimiter.
func (r Reparser) Parse(tokens TokenSource, sink TreeSink) {
	Process(sink, run(tokens, fragment(r.rule), KindError))
}
