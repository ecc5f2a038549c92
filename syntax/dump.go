package syntax

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// String renders the tree one element per line, indented by depth:
//
//	SourceFile@0..9
//	  Fn@0..9
//	    FnKw@0..2 "fn"
//
// Errors follow the tree, one per line.
func (t *Tree) String() string {
	var sb strings.Builder
	t.Root.dump(&sb, 0)
	for _, err := range t.Errors {
		fmt.Fprintf(&sb, "error %s: %s\n", err.Range, err.Error())
	}
	return sb.String()
}

func (n *Node) String() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(sb, "%s@%s", n.Kind, n.Range)
	if n.IsToken() {
		fmt.Fprintf(sb, " %q", n.Text)
	}
	sb.WriteByte('\n')
	for _, child := range n.Children {
		child.dump(sb, indent+1)
	}
}

type jsonTree struct {
	File   string      `json:"file,omitempty"`
	Entry  string      `json:"entry"`
	Root   *jsonNode   `json:"root"`
	Errors []jsonError `json:"errors,omitempty"`
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Range    jsonRange   `json:"range"`
	Text     string      `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type jsonError struct {
	Message string    `json:"message"`
	Range   jsonRange `json:"range"`
	Bug     bool      `json:"bug,omitempty"`
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	jt := jsonTree{
		File:  t.File,
		Entry: t.Entry.String(),
		Root:  t.Root.toJSON(),
	}
	for _, err := range t.Errors {
		jt.Errors = append(jt.Errors, jsonError{
			Message: err.Message,
			Range:   jsonRange{Start: err.Range.Start, End: err.Range.End},
			Bug:     err.Bug,
		})
	}
	return json.Marshal(jt)
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Kind:  n.Kind.String(),
		Range: jsonRange{Start: n.Range.Start, End: n.Range.End},
		Text:  n.Text,
	}
	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}
	return jn
}

// JSONEncoder writes trees as indented JSON.
type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(t *Tree) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}
