package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/rsyn/diagnostics"
	"github.com/dhamidi/rsyn/syntax"
	"github.com/dhamidi/rsyn/workspace"
)

const diagnosticSource = "rsyn"

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

func toRange(lines *syntax.LineIndex, r syntax.TextRange) protocol.Range {
	startLine, startCol, endLine, endCol := lines.Range(r)
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(startLine), Character: protocol.UInteger(startCol)},
		End:   protocol.Position{Line: protocol.UInteger(endLine), Character: protocol.UInteger(endCol)},
	}
}

func fromRange(lines *syntax.LineIndex, r protocol.Range) syntax.TextRange {
	start := lines.Offset(int(r.Start.Line), int(r.Start.Character))
	end := lines.Offset(int(r.End.Line), int(r.End.Character))
	if end < start {
		start, end = end, start
	}
	return syntax.TextRange{Start: start, End: end}
}

func toChange(event any) (workspace.Change, bool) {
	switch e := event.(type) {
	case protocol.TextDocumentContentChangeEvent:
		if e.Range == nil {
			return workspace.Change{Text: e.Text}, true
		}
		return workspace.Change{
			Range: &workspace.Range{
				StartLine: int(e.Range.Start.Line),
				StartCol:  int(e.Range.Start.Character),
				EndLine:   int(e.Range.End.Line),
				EndCol:    int(e.Range.End.Character),
			},
			Text: e.Text,
		}, true
	case protocol.TextDocumentContentChangeEventWhole:
		return workspace.Change{Text: e.Text}, true
	}
	return workspace.Change{}, false
}

func toSeverity(s diagnostics.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diagnostics.SeverityError:
		return protocol.DiagnosticSeverityError
	case diagnostics.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityHint
	}
}

func toDiagnostic(lines *syntax.LineIndex, d diagnostics.Diagnostic) protocol.Diagnostic {
	severity := toSeverity(d.Severity)
	source := diagnosticSource
	return protocol.Diagnostic{
		Range:    toRange(lines, d.Range),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   &source,
		Message:  d.Message,
	}
}

func toDiagnostics(snap workspace.Snapshot) []protocol.Diagnostic {
	// An empty slice clears the client's list; nil would be sent as null.
	result := make([]protocol.Diagnostic, 0, len(snap.Diagnostics))
	for _, d := range snap.Diagnostics {
		result = append(result, toDiagnostic(snap.Lines, d))
	}
	return result
}

func toCodeAction(uri protocol.DocumentUri, lines *syntax.LineIndex, fix diagnostics.Fix) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	edits := make([]protocol.TextEdit, 0, len(fix.Edits))
	for _, e := range fix.Edits {
		edits = append(edits, protocol.TextEdit{Range: toRange(lines, e.Range), NewText: e.NewText})
	}
	return protocol.CodeAction{
		Title: fix.Label,
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits},
		},
	}
}
