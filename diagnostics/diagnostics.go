// Package diagnostics reports problems found in a syntax tree, each with
// an optional fix expressed as text edits.
package diagnostics

import (
	"cmp"
	"slices"

	"github.com/dhamidi/rsyn/syntax"
)

type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	// SeverityWeakWarning is for style hints; editors usually render it
	// as faded text rather than a squiggle.
	SeverityWeakWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityWeakWarning:
		return "weak-warning"
	}
	return "unknown"
}

const (
	CodeSyntaxError          = "syntax-error"
	CodeParserBug            = "parser-bug"
	CodeRemoveTrailingReturn = "remove-trailing-return"
)

type TextEdit struct {
	Range   syntax.TextRange
	NewText string
}

type Fix struct {
	ID    string
	Label string
	Edits []TextEdit
	// Target is the range the fix applies to; editors offer the fix when
	// the cursor is inside it.
	Target syntax.TextRange
}

type Diagnostic struct {
	Code     string
	Message  string
	Range    syntax.TextRange
	Severity Severity
	Fixes    []Fix
}

// Compute returns every diagnostic for tree, ordered by position.
func Compute(tree *syntax.Tree) []Diagnostic {
	diags := SyntaxErrors(tree)
	diags = append(diags, RemoveTrailingReturn(tree)...)
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Compare(a.Range.Start, b.Range.Start)
	})
	return diags
}

// SyntaxErrors turns the tree's parse and lex errors into diagnostics.
// Broken parser invariants get their own code so they are not mistaken
// for mistakes in the source.
func SyntaxErrors(tree *syntax.Tree) []Diagnostic {
	var diags []Diagnostic
	for _, err := range tree.Errors {
		d := Diagnostic{
			Code:     CodeSyntaxError,
			Message:  err.Message,
			Range:    err.Range,
			Severity: SeverityError,
		}
		if err.Bug {
			d.Code = CodeParserBug
			d.Message = err.Error()
		}
		diags = append(diags, d)
	}
	return diags
}

// Apply applies edits to text. Edits must not overlap.
func Apply(text string, edits []TextEdit) string {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b TextEdit) int {
		return cmp.Compare(b.Range.Start, a.Range.Start)
	})
	for _, e := range sorted {
		text = text[:e.Range.Start] + e.NewText + text[e.Range.End:]
	}
	return text
}
