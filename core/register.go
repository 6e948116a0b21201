package core

import "strings"

// YankedContent is a rectangular block of cell values captured by a yank or
// delete operator, tagged with the selection shape it came from so Paste
// knows whether to insert whole rows, a block, or an inline run.
type YankedContent struct {
	Rows       [][]string
	SourceType SelectionType
}

func (y YankedContent) rowCount() int { return len(y.Rows) }

func (y YankedContent) colCount() int {
	max := 0
	for _, r := range y.Rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// ToClipboardText renders the register the way the system clipboard stores
// it: rows joined by "\n", cells within a row joined by delim.
func (y YankedContent) ToClipboardText(delim rune) string {
	lines := make([]string, len(y.Rows))
	for i, row := range y.Rows {
		lines[i] = strings.Join(row, string(delim))
	}
	return strings.Join(lines, "\n")
}

// YankedFromClipboardText parses raw clipboard text back into a register,
// used when last_yank has been invalidated by an external clipboard change
// and the next paste must fall back to the system clipboard.
func YankedFromClipboardText(text string, delim rune) YankedContent {
	text = strings.TrimSuffix(text, "\n")
	var rows [][]string
	if text == "" {
		rows = [][]string{{""}}
	} else {
		for _, line := range strings.Split(text, "\n") {
			rows = append(rows, strings.Split(line, string(delim)))
		}
	}
	return YankedContent{Rows: rows, SourceType: SelectionCharacter}
}

// Clipboard is the system-clipboard capability the register writes through
// to and reads a fallback from; adapters provide a concrete implementation
// (see internal/clipboard).
type Clipboard interface {
	Write(text string) error
	Read() (string, error)
}
