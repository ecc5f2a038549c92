// Package parser is an error-tolerant recursive-descent parser for Rust.
//
// # Overview
//
// The parser does not build a tree. It reads a trivia-free TokenSource and
// records what it recognises as a flat log of events; Process then replays
// the log into a TreeSink, which decides what a tree is.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│ TokenSource │────▶│   Grammar   │────▶│  []Event    │────▶│  TreeSink   │
//	│  (kinds)    │     │  (Parser)   │     │   (log)     │     │  (tree)     │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//
// # Events and markers
//
// Grammar routines open nodes with Parser.Start and close them with
// Marker.Complete or Marker.Abandon. A completed node can still gain a
// parent after the fact with CompletedMarker.Precede: the parent's Start
// event is appended to the log and linked back through ForwardParent. This
// is how `a + b * c` becomes nested binary expressions without lookahead.
//
// # Error recovery
//
// Parsing never fails. A missing token is reported with Parser.Expect and
// the cursor stays put; an unexpected token is wrapped in a KindError node
// unless it belongs to the caller's recovery TokenSet. Every routine either
// consumes a token or reports an error and returns. A step counter backs
// this up: when lookahead runs too long without consuming input the parse
// is cut short, a ParseError with Bug set is reported and the remaining
// tokens are wrapped in an error node.
//
// # Entry points
//
// Parse starts from any EntryPoint. Fragment entry points such as Expr or
// Type expect the rule to cover the whole input; leftover tokens end up in
// an error node. ReparserFor returns a Reparser for nodes that can be
// parsed on their own, such as blocks and item lists, for incremental
// reparsing after an edit.
package parser
