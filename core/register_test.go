package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYankedContentClipboardRoundTrip(t *testing.T) {
	y := YankedContent{Rows: [][]string{{"a", "b"}, {"c", "d"}}, SourceType: SelectionBlock}
	text := y.ToClipboardText('\t')
	require.Equal(t, "a\tb\nc\td", text)

	back := YankedFromClipboardText(text, '\t')
	require.Equal(t, y.Rows, back.Rows)
	require.Equal(t, SelectionCharacter, back.SourceType, "clipboard text carries no shape; it always reads back as a character paste")
}

func TestYankedContentExtents(t *testing.T) {
	y := YankedContent{Rows: [][]string{{"a", "b", "c"}, {"d"}}}
	require.Equal(t, 2, y.rowCount())
	require.Equal(t, 3, y.colCount())
}

type fakeClipboard struct {
	written string
	toRead  string
	readErr error
}

func (f *fakeClipboard) Write(text string) error { f.written = text; return nil }
func (f *fakeClipboard) Read() (string, error)    { return f.toRead, f.readErr }

func TestEngineCopyAndReadFromClipboard(t *testing.T) {
	clip := &fakeClipboard{}
	eng := NewEngine(clip, nil)
	st := NewVimState()

	content := YankedContent{Rows: [][]string{{"a", "b"}}, SourceType: SelectionLine}
	require.NoError(t, eng.CopyToClipboard(st, content))
	require.Equal(t, "a\tb", clip.written)
	require.NotNil(t, st.LastYank)

	got, err := eng.ReadFromClipboard(st)
	require.NoError(t, err)
	require.Equal(t, content.Rows, got.Rows)
}

// TestOnClipboardExternalChangeInvalidatesRegister is the spec §4.6
// invalidation hook: once an external clipboard change is reported, the
// next paste must fall back to the system clipboard rather than the stale
// in-memory register.
func TestOnClipboardExternalChangeInvalidatesRegister(t *testing.T) {
	clip := &fakeClipboard{toRead: "x\ty"}
	eng := NewEngine(clip, nil)
	st := NewVimState()

	require.NoError(t, eng.CopyToClipboard(st, YankedContent{Rows: [][]string{{"a"}}}))
	require.NotNil(t, st.LastYank)

	OnClipboardExternalChange(st)
	require.Nil(t, st.LastYank)

	got, err := eng.ReadFromClipboard(st)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"x", "y"}}, got.Rows)
}
