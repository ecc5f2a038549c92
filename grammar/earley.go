package grammar

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// symbol is one element on the right-hand side of a rule. Exactly one of
// name, literal and class identifies it.
type symbol struct {
	name    string
	literal string
	class   func(Terminal) bool
	// label names a token class in error messages.
	label string
}

func (s symbol) isNonterminal() bool {
	return s.name != ""
}

func (s symbol) String() string {
	switch {
	case s.name != "":
		return s.name
	case s.class != nil:
		return s.label
	}
	return fmt.Sprintf("%q", s.literal)
}

type rule struct {
	lhs string
	rhs []symbol
}

// Recognizer decides whether token sequences belong to the language of an
// EBNF grammar. Options, groups and repetitions are rewritten into plain
// rules over fresh nonterminals when the recognizer is built.
type Recognizer struct {
	rules    []rule
	byLHS    map[string][]int
	nullable map[string]bool
	fresh    int
}

// NewRecognizer rewrites the syntax productions of g. Every lexical
// production referenced from them must have a token class.
func NewRecognizer(g ebnf.Grammar) (*Recognizer, error) {
	r := &Recognizer{
		byLHS:    make(map[string][]int),
		nullable: make(map[string]bool),
	}
	names := make([]string, 0, len(g))
	for name := range g {
		if !isLexical(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.addProduction(name, g[name].Expr); err != nil {
			return nil, fmt.Errorf("production %s: %w", name, err)
		}
	}
	r.computeNullable()
	log.Debugf("recognizer: %d rules from %d productions", len(r.rules), len(names))
	return r, nil
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

func (r *Recognizer) addProduction(lhs string, expr ebnf.Expression) error {
	if alt, ok := expr.(ebnf.Alternative); ok {
		for _, e := range alt {
			if err := r.addRule(lhs, e, nil); err != nil {
				return err
			}
		}
		return nil
	}
	return r.addRule(lhs, expr, nil)
}

// addRule adds lhs → expr followed by tail.
func (r *Recognizer) addRule(lhs string, expr ebnf.Expression, tail []symbol) error {
	var seq ebnf.Sequence
	switch e := expr.(type) {
	case nil:
	case ebnf.Sequence:
		seq = e
	default:
		seq = ebnf.Sequence{e}
	}
	rhs := make([]symbol, 0, len(seq)+len(tail))
	for _, e := range seq {
		s, err := r.symbolFor(lhs, e)
		if err != nil {
			return err
		}
		rhs = append(rhs, s)
	}
	rhs = append(rhs, tail...)
	r.byLHS[lhs] = append(r.byLHS[lhs], len(r.rules))
	r.rules = append(r.rules, rule{lhs: lhs, rhs: rhs})
	return nil
}

func (r *Recognizer) freshName(ctx string) string {
	r.fresh++
	if i := strings.IndexByte(ctx, '#'); i >= 0 {
		ctx = ctx[:i]
	}
	return fmt.Sprintf("%s#%d", ctx, r.fresh)
}

func (r *Recognizer) symbolFor(ctx string, expr ebnf.Expression) (symbol, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		if !isLexical(e.String) {
			return symbol{name: e.String}, nil
		}
		class, ok := tokenClasses[e.String]
		if !ok {
			return symbol{}, fmt.Errorf("no token class for %s", e.String)
		}
		return symbol{class: class, label: e.String}, nil
	case *ebnf.Token:
		if e.String == "" {
			return symbol{}, fmt.Errorf("empty token at %v", e.Pos())
		}
		return symbol{literal: e.String}, nil
	case *ebnf.Group:
		name := r.freshName(ctx)
		return symbol{name: name}, r.addProduction(name, e.Body)
	case ebnf.Alternative, ebnf.Sequence:
		name := r.freshName(ctx)
		return symbol{name: name}, r.addProduction(name, e)
	case *ebnf.Option:
		name := r.freshName(ctx)
		if err := r.addRule(name, nil, nil); err != nil {
			return symbol{}, err
		}
		return symbol{name: name}, r.addProduction(name, e.Body)
	case *ebnf.Repetition:
		// name → ε | body name
		name := r.freshName(ctx)
		if err := r.addRule(name, nil, nil); err != nil {
			return symbol{}, err
		}
		self := []symbol{{name: name}}
		if alt, ok := e.Body.(ebnf.Alternative); ok {
			for _, body := range alt {
				if err := r.addRule(name, body, self); err != nil {
					return symbol{}, err
				}
			}
			return symbol{name: name}, nil
		}
		return symbol{name: name}, r.addRule(name, e.Body, self)
	case *ebnf.Range:
		return symbol{}, fmt.Errorf("character range at %v outside a lexical production", e.Pos())
	}
	return symbol{}, fmt.Errorf("unsupported expression %T", expr)
}

func (r *Recognizer) computeNullable() {
	for changed := true; changed; {
		changed = false
		for _, rl := range r.rules {
			if r.nullable[rl.lhs] {
				continue
			}
			empty := true
			for _, s := range rl.rhs {
				if !s.isNonterminal() || !r.nullable[s.name] {
					empty = false
					break
				}
			}
			if empty {
				r.nullable[rl.lhs] = true
				changed = true
			}
		}
	}
}

// Item is an Earley item: a rule, how much of it has been matched and the
// position where matching started.
type Item struct {
	Rule   int
	Dot    int
	Origin int
}

// ItemSet is the set of items at one position of the chart.
type ItemSet struct {
	items []Item
	seen  map[Item]bool
}

func (s *ItemSet) Add(item Item) bool {
	if s.seen == nil {
		s.seen = make(map[Item]bool)
	}
	if s.seen[item] {
		return false
	}
	s.seen[item] = true
	s.items = append(s.items, item)
	return true
}

// SyntaxError reports the furthest token the recognizer could not consume.
type SyntaxError struct {
	// Offset is the byte offset of the offending token, or -1 at the end
	// of input.
	Offset   int
	Found    string
	Expected []string
}

func (e *SyntaxError) Error() string {
	found := "end of input"
	if e.Offset >= 0 {
		found = fmt.Sprintf("%q at offset %d", e.Found, e.Offset)
	}
	if len(e.Expected) == 0 {
		return "unexpected " + found
	}
	return fmt.Sprintf("unexpected %s, expected one of %s", found, strings.Join(e.Expected, ", "))
}

// Recognize reports whether input derives from the start production. The
// error is a *SyntaxError when input is rejected.
func (r *Recognizer) Recognize(start string, input []Terminal) error {
	if len(r.byLHS[start]) == 0 {
		return fmt.Errorf("production %q not found in grammar", start)
	}

	n := len(input)
	chart := make([]ItemSet, n+1)
	for _, ri := range r.byLHS[start] {
		chart[0].Add(Item{Rule: ri})
	}

	for i := 0; i <= n; i++ {
		// items may be added during iteration
		for j := 0; j < len(chart[i].items); j++ {
			item := chart[i].items[j]
			rl := r.rules[item.Rule]
			if item.Dot == len(rl.rhs) {
				r.complete(chart, i, item)
				continue
			}
			next := rl.rhs[item.Dot]
			if next.isNonterminal() {
				for _, ri := range r.byLHS[next.name] {
					chart[i].Add(Item{Rule: ri, Origin: i})
				}
				if r.nullable[next.name] {
					chart[i].Add(Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin})
				}
				continue
			}
			if width := match(next, input, i); width > 0 {
				chart[i+width].Add(Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin})
			}
		}
	}

	for _, item := range chart[n].items {
		rl := r.rules[item.Rule]
		if rl.lhs == start && item.Origin == 0 && item.Dot == len(rl.rhs) {
			return nil
		}
	}
	return r.syntaxError(chart, input)
}

func (r *Recognizer) complete(chart []ItemSet, i int, done Item) {
	lhs := r.rules[done.Rule].lhs
	waiting := chart[done.Origin].items
	for _, w := range waiting {
		rhs := r.rules[w.Rule].rhs
		if w.Dot < len(rhs) && rhs[w.Dot].name == lhs {
			chart[i].Add(Item{Rule: w.Rule, Dot: w.Dot + 1, Origin: w.Origin})
		}
	}
}

func (r *Recognizer) syntaxError(chart []ItemSet, input []Terminal) *SyntaxError {
	furthest := 0
	for i := len(chart) - 1; i >= 0; i-- {
		if len(chart[i].items) > 0 {
			furthest = i
			break
		}
	}
	err := &SyntaxError{Offset: -1}
	if furthest < len(input) {
		err.Offset = input[furthest].Offset
		err.Found = input[furthest].Text
	}
	expected := make(map[string]bool)
	for _, item := range chart[furthest].items {
		rhs := r.rules[item.Rule].rhs
		if item.Dot < len(rhs) && !rhs[item.Dot].isNonterminal() {
			expected[rhs[item.Dot].String()] = true
		}
	}
	for e := range expected {
		err.Expected = append(err.Expected, e)
	}
	sort.Strings(err.Expected)
	return err
}

// match returns how many terminals starting at pos the terminal symbol s
// consumes, or 0. Punctuation literals may span several joint tokens.
func match(s symbol, input []Terminal, pos int) int {
	if pos >= len(input) {
		return 0
	}
	if s.class != nil {
		if s.class(input[pos]) {
			return 1
		}
		return 0
	}
	if input[pos].Text == s.literal {
		return 1
	}
	if !isPunct(s.literal) {
		return 0
	}
	text := ""
	for i := pos; i < len(input); i++ {
		if !isPunct(input[i].Text) {
			return 0
		}
		text += input[i].Text
		if text == s.literal {
			return i - pos + 1
		}
		if !strings.HasPrefix(s.literal, text) || !input[i].Joint {
			return 0
		}
	}
	return 0
}

func isPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\'' || r == '"' {
			return false
		}
	}
	return true
}
