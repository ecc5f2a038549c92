package syntax

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// LineIndex converts between byte offsets and zero-based line/column
// positions. Columns count UTF-16 code units, as editors speaking LSP do.
type LineIndex struct {
	text   string
	starts []int
}

func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

func (li *LineIndex) Lines() int {
	return len(li.starts)
}

// LineCol returns the position of offset. Offsets past the end map to the
// end of the text.
func (li *LineIndex) LineCol(offset int) (line, col int) {
	offset = min(max(offset, 0), len(li.text))
	line = sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	for _, r := range li.text[li.starts[line]:offset] {
		col += utf16.RuneLen(r)
	}
	return line, col
}

// Offset returns the byte offset of a position. Columns past the end of the
// line clamp to the line end; lines past the end clamp to the text end.
func (li *LineIndex) Offset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.starts) {
		return len(li.text)
	}
	offset := li.starts[line]
	end := len(li.text)
	if line+1 < len(li.starts) {
		end = li.starts[line+1] - 1
	}
	for col > 0 && offset < end {
		r, size := utf8.DecodeRuneInString(li.text[offset:])
		col -= utf16.RuneLen(r)
		offset += size
	}
	return offset
}

// Range converts a TextRange to start and end positions.
func (li *LineIndex) Range(r TextRange) (startLine, startCol, endLine, endCol int) {
	startLine, startCol = li.LineCol(r.Start)
	endLine, endCol = li.LineCol(r.End)
	return
}
