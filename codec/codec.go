// Package codec parses and serializes tabular text (TSV/CSV) into and out
// of a core.Document, with the lenient quoting rules spec.md names (a field
// is quoted only when it must be; unquoted fields are taken verbatim even
// if they contain a stray '"'). That divergence from strict RFC4180 is why
// this is a hand-rolled scanner over bufio/strings rather than
// encoding/csv, which quotes more eagerly and rejects a bare quote inside
// an unquoted field.
package codec

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ionut-t/tabedit/core"
)

// DetectDelimiter resolves the on-disk field separator from a file
// extension per spec §6: .tsv/.tab/.txt -> tab, .csv -> comma, anything
// else defaults to tab.
func DetectDelimiter(path string) core.DelimiterFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return core.DelimiterComma
	default:
		return core.DelimiterTab
	}
}

func delimRune(d core.DelimiterFormat) rune {
	if d == core.DelimiterComma {
		return ','
	}
	return '\t'
}

// Parse decodes raw bytes into a Document using delim as the field
// separator. Line terminators \r\n, \n, and \r are all accepted; a doubled
// quote inside a quoted field is a literal quote. Malformed quoting (an
// unterminated quoted field) is accepted verbatim and reported via the
// returned bool, matching the ParseWarning recovery rule: a partial
// Document plus a non-fatal warning, never a hard failure.
func Parse(data []byte, delim core.DelimiterFormat) (*core.Document, bool) {
	sep := delimRune(delim)
	lines, warned := splitLines(string(data), sep)
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = l
	}
	doc := core.NewDocument(rows)
	doc.Delimiter = delim
	return doc, warned
}

// splitLines scans text rune by rune rather than line-splitting first,
// since a quoted field may itself contain any of \r\n, \n, or \r.
func splitLines(text string, sep rune) ([][]string, bool) {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false
	warned := false
	runes := []rune(text)

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	flushRow := func() {
		flushField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes:
			if r == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteRune(r)
			}
		case r == '"' && field.Len() == 0:
			inQuotes = true
		case r == sep:
			flushField()
		case r == '\n':
			flushRow()
		case r == '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			flushRow()
		default:
			field.WriteRune(r)
		}
	}
	if inQuotes {
		warned = true
	}
	if field.Len() > 0 || len(row) > 0 {
		flushRow()
	}
	// Trailing empty line after the final row is not emitted (mirrors
	// Serialize's own rule so parse(serialize(d)) round-trips). A final row
	// holding a single empty cell serializes to that same empty line, so it
	// is dropped here as well and does not survive the round trip.
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		if len(last) == 1 && last[0] == "" {
			rows = rows[:len(rows)-1]
		}
	}
	return rows, warned
}

// Serialize renders doc back to bytes with delim as the field separator. A
// field is quoted iff it contains the delimiter, a quote, or any line
// terminator; embedded quotes are doubled; rows are joined with "\n" and no
// trailing newline is emitted.
func Serialize(doc *core.Document, delim core.DelimiterFormat) []byte {
	sep := delimRune(delim)
	rows := doc.Snapshot()
	var buf bytes.Buffer
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for j, field := range row {
			if j > 0 {
				buf.WriteRune(sep)
			}
			buf.WriteString(quoteIfNeeded(field, sep))
		}
	}
	return buf.Bytes()
}

func quoteIfNeeded(field string, sep rune) string {
	if !strings.ContainsRune(field, sep) && !strings.ContainsAny(field, "\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Open reads path from disk and parses it, detecting the delimiter from
// the extension. The returned Document carries its FilePath set.
func Open(path string) (*core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	delim := DetectDelimiter(path)
	doc, warned := Parse(data, delim)
	doc.FilePath = path
	doc.HasPath = true
	doc.ParseWarn = warned
	return doc, nil
}

// Save writes doc to path as an atomic rename-over-write: the new content
// is written to a temp file in the same directory, fsynced, then renamed
// over the destination, so a crash mid-write never leaves a half-written
// file (spec §5 "Shared resources").
func Save(doc *core.Document, path string) error {
	if path == "" {
		return fmt.Errorf("save: empty path")
	}
	delim := doc.Delimiter
	if delim == core.DelimiterAuto || delim == 0 {
		delim = DetectDelimiter(path)
	}
	data := Serialize(doc, delim)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tabedit-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
