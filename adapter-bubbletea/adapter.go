// Package adapter_bubbletea is the bubbletea view shell for a
// core.Engine/core.Document/core.VimState triple. It owns no editing logic
// of its own: every keystroke is translated to a core.KeyEvent and handed
// to the Engine, and every visible change arrives back over the Engine's
// signal channel.
package adapter_bubbletea

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ionut-t/tabedit/core"
	"github.com/ionut-t/tabedit/internal/log"
)

// Theme holds the lipgloss styles for every chrome element. Mirrors the
// teacher's per-mode status styling, extended with grid-specific styles
// (selection, search match, the current cell).
type Theme struct {
	NormalModeStyle  lipgloss.Style
	InsertModeStyle  lipgloss.Style
	VisualModeStyle  lipgloss.Style
	CommandModeStyle lipgloss.Style
	StatusLineStyle  lipgloss.Style
	CommandLineStyle lipgloss.Style
	MessageStyle     lipgloss.Style
	ErrorStyle       lipgloss.Style

	HeaderStyle     lipgloss.Style
	RowNumberStyle  lipgloss.Style
	CellStyle       lipgloss.Style
	CursorCellStyle lipgloss.Style
	SelectionStyle  lipgloss.Style
	SearchStyle     lipgloss.Style
	CurrentHitStyle lipgloss.Style
	DirtyStyle      lipgloss.Style
}

var DefaultTheme = Theme{
	NormalModeStyle:  lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")),
	InsertModeStyle:  lipgloss.NewStyle().Background(lipgloss.Color("26")).Foreground(lipgloss.Color("255")),
	VisualModeStyle:  lipgloss.NewStyle().Background(lipgloss.Color("127")).Foreground(lipgloss.Color("255")),
	CommandModeStyle: lipgloss.NewStyle().Background(lipgloss.Color("208")).Foreground(lipgloss.Color("255")),
	StatusLineStyle:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("255")),
	CommandLineStyle: lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("255")),
	MessageStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	ErrorStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),

	HeaderStyle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
	RowNumberStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Align(lipgloss.Right),
	CellStyle:       lipgloss.NewStyle(),
	CursorCellStyle: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")),
	SelectionStyle:  lipgloss.NewStyle().Background(lipgloss.Color("237")),
	SearchStyle:     lipgloss.NewStyle().Background(lipgloss.Color("58")),
	CurrentHitStyle: lipgloss.NewStyle().Background(lipgloss.Color("220")).Foreground(lipgloss.Color("0")).Bold(true),
	DirtyStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

// Model is the bubbletea Model rendering one (Document, VimState) pair
// through a shared Engine.
type Model struct {
	engine *core.Engine
	doc    *core.Document
	state  *core.VimState

	viewport viewport.Model
	width    int
	height   int
	theme    Theme

	message string
	errText string

	rowOffset, colOffset int
	rowNumWidth          int
	isFocused            bool
}

type messageMsg string
type errMsg string
type clearMsg struct{}
type SaveMsg string
type QuitMsg struct{}

// New builds a Model driving doc through engine, starting from a fresh
// VimState.
func New(engine *core.Engine, doc *core.Document, width, height int) Model {
	m := Model{
		engine:   engine,
		doc:      doc,
		state:    core.NewVimState(),
		viewport: viewport.New(width, height-2),
		theme:    DefaultTheme,
	}
	m.SetSize(width, height)
	return m
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.state.ViewportHeight = m.viewport.Height
}

// Focus/Blur mirror the teacher's focus-gated key handling, useful when the
// grid is embedded inside a larger application shell.
func (m *Model) Focus()          { m.isFocused = true }
func (m *Model) Blur()           { m.isFocused = false }
func (m *Model) IsFocused() bool { return m.isFocused }

// Document exposes the underlying grid, e.g. so a host app can check Dirty
// before closing a tab.
func (m *Model) Document() *core.Document { return m.doc }

// State exposes the VimState this Model drives, e.g. so a host app can
// invalidate the register on an external clipboard change notification.
func (m *Model) State() *core.VimState { return m.state }

func (m Model) Init() tea.Cmd {
	return m.listenForSignal()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if !m.isFocused {
			break
		}
		key := convertBubbleKey(msg)
		m.engine.HandleKey(m.doc, m.state, key)
		m.scrollToCursor()

	case messageMsg:
		m.message = string(msg)
		m.errText = ""
		cmds = append(cmds, clearAfter(3*time.Second))

	case errMsg:
		m.errText = string(msg)
		m.message = ""
		cmds = append(cmds, clearAfter(3*time.Second))

	case clearMsg:
		m.message = ""
		m.errText = ""

	case QuitMsg:
		return m, tea.Quit
	}

	cmds = append(cmds, m.listenForSignal())
	return m, tea.Batch(cmds...)
}

func clearAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearMsg{} })
}

// listenForSignal blocks on the Engine's update channel and translates the
// next signal into a bubbletea Msg, the same single-goroutine pump the
// teacher used for its own editor.Signal stream.
func (m *Model) listenForSignal() tea.Cmd {
	return func() tea.Msg {
		switch sig := (<-m.engine.GetUpdateSignalChan()).(type) {
		case core.MessageSignal:
			return messageMsg(statusText(sig.ID, sig.Text))
		case core.ErrorSignal:
			log.ErrorErr(log.CatCommand, "editing error", sig.Err)
			return errMsg(sig.Err.Error())
		case core.YankSignal:
			n := len(sig.Content.Rows)
			if n == 1 {
				return messageMsg("1 row yanked")
			}
			return messageMsg(fmt.Sprintf("%d rows yanked", n))
		case core.SaveSignal:
			return SaveMsg(sig.Path)
		case core.QuitSignal:
			return QuitMsg{}
		}
		return nil
	}
}

func statusText(id, text string) string {
	switch id {
	case core.ChangesSavedMessage:
		return "written"
	case core.NoChangesToSaveMsg:
		return "no changes to save"
	case core.DeleteMessage:
		return "deleted"
	case core.SearchWrappedMessage:
		return "search hit BOTTOM, continuing at TOP"
	case core.SearchNotFoundMessage:
		return "pattern not found"
	case core.SortedMessage:
		return "sorted"
	case core.HelpMessage:
		return "tabedit — modal TSV/CSV editor. :w :q :sort :set"
	default:
		return text
	}
}

// scrollToCursor keeps st.Cursor within [offset, offset+visible) on both
// axes, the grid analogue of the teacher's ScrollViewport.
func (m *Model) scrollToCursor() {
	visibleRows := m.viewport.Height
	if m.state.Cursor.Row < m.rowOffset {
		m.rowOffset = m.state.Cursor.Row
	} else if m.state.Cursor.Row >= m.rowOffset+visibleRows {
		m.rowOffset = m.state.Cursor.Row - visibleRows + 1
	}
	if m.rowOffset < 0 {
		m.rowOffset = 0
	}

	// Column scrolling uses cell count rather than rune width; a wide
	// cell can still force a jump if it alone exceeds the viewport.
	visibleCols := m.visibleColumnCount()
	if m.state.Cursor.Col < m.colOffset {
		m.colOffset = m.state.Cursor.Col
	} else if m.state.Cursor.Col >= m.colOffset+visibleCols {
		m.colOffset = m.state.Cursor.Col - visibleCols + 1
	}
	if m.colOffset < 0 {
		m.colOffset = 0
	}
}

func (m *Model) visibleColumnCount() int {
	cw := m.columnWidth() + 1 // +1 for the separator
	if cw <= 0 {
		return 1
	}
	n := (m.width - m.rowNumWidth) / cw
	if n < 1 {
		return 1
	}
	return n
}

func (m *Model) columnWidth() int {
	w := 12
	if cfg := m.engine.Config(); cfg != nil && cfg.MaxColumnWidth > 0 {
		w = cfg.MaxColumnWidth
	}
	if w > 32 {
		w = 32
	}
	return w
}

func (m Model) View() string {
	grid := m.renderGrid()
	status := m.renderStatusLine()
	cmdLine := m.renderCommandLine()
	return lipgloss.JoinVertical(lipgloss.Left, grid, status, cmdLine)
}

func (m Model) renderGrid() string {
	rows := m.doc.RowCount()
	cols := m.doc.ColumnCount()
	if rows == 0 || cols == 0 {
		return lipgloss.NewStyle().Height(m.viewport.Height).Render("(empty document)")
	}

	rowNumWidth := len(fmt.Sprintf("%d", rows)) + 1
	m.rowNumWidth = rowNumWidth

	colWidth := m.columnWidth()
	visibleCols := m.visibleColumnCount()
	endCol := m.colOffset + visibleCols
	if endCol > cols {
		endCol = cols
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowNumWidth))
	for c := m.colOffset; c < endCol; c++ {
		b.WriteString(m.theme.HeaderStyle.Width(colWidth).Render(colName(c)))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	endRow := m.rowOffset + m.viewport.Height - 1
	if endRow > rows {
		endRow = rows
	}
	for r := m.rowOffset; r < endRow; r++ {
		b.WriteString(m.theme.RowNumberStyle.Width(rowNumWidth - 1).Render(fmt.Sprintf("%d", r+1)))
		b.WriteString(" ")
		for c := m.colOffset; c < endCol; c++ {
			cell, _ := m.doc.GetCell(core.GridPosition{Row: r, Col: c})
			text := truncate(cell.Value, colWidth)
			style := m.theme.CellStyle
			switch {
			case r == m.state.Cursor.Row && c == m.state.Cursor.Col:
				style = m.theme.CursorCellStyle
			case cell.IsCurrentSearchMatch:
				style = m.theme.CurrentHitStyle
			case cell.IsSearchMatch:
				style = m.theme.SearchStyle
			case cell.IsSelected:
				style = m.theme.SelectionStyle
			}
			b.WriteString(style.Width(colWidth).Render(text))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func colName(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func (m Model) renderStatusLine() string {
	var modeText string
	switch m.state.Mode {
	case core.NormalMode:
		modeText = m.theme.NormalModeStyle.Render(" NORMAL ")
	case core.InsertMode:
		modeText = m.theme.InsertModeStyle.Render(" INSERT ")
	case core.VisualMode:
		modeText = m.theme.VisualModeStyle.Render(" VISUAL ")
	case core.CommandMode:
		modeText = m.theme.CommandModeStyle.Render(" COMMAND ")
	}

	path := m.doc.FilePath
	if path == "" {
		path = "[No Name]"
	}
	if m.doc.Dirty {
		path += " " + m.theme.DirtyStyle.Render("[+]")
	}

	posInfo := fmt.Sprintf("%d,%d ", m.state.Cursor.Row+1, m.state.Cursor.Col+1)

	left := modeText + " " + path
	gapWidth := m.width - lipgloss.Width(left) - lipgloss.Width(posInfo)
	if gapWidth < 0 {
		gapWidth = 0
	}
	line := left + strings.Repeat(" ", gapWidth) + posInfo
	return m.theme.StatusLineStyle.Width(m.width).Render(line)
}

func (m Model) renderCommandLine() string {
	var text string
	switch {
	case m.errText != "":
		return m.theme.ErrorStyle.Background(m.theme.CommandLineStyle.GetBackground()).Width(m.width).Render(m.errText)
	case m.message != "":
		return m.theme.MessageStyle.Background(m.theme.CommandLineStyle.GetBackground()).Width(m.width).Render(m.message)
	case m.state.Mode == core.CommandMode:
		prefix := ":"
		if m.state.CommandLine == core.CommandLineSearch {
			prefix = "/"
		}
		text = prefix + m.state.CommandLineText()
	}
	return m.theme.CommandLineStyle.Width(m.width).Render(text)
}

// convertBubbleKey translates a bubbletea key message into the engine's
// transport-agnostic KeyEvent, the same mapping the teacher used.
func convertBubbleKey(msg tea.KeyMsg) core.KeyEvent {
	key := core.KeyEvent{}

	if len(msg.Runes) > 0 {
		key.Rune = msg.Runes[0]
	}
	if msg.Alt {
		key.Modifiers |= core.ModAlt
	}

	switch msg.Type {
	case tea.KeyEnter:
		key.Key = core.KeyEnter
	case tea.KeySpace:
		key.Key = core.KeySpace
		key.Rune = ' '
	case tea.KeyEsc:
		key.Key = core.KeyEscape
	case tea.KeyBackspace:
		key.Key = core.KeyBackspace
	case tea.KeyTab:
		key.Key = core.KeyTab
		key.Rune = '\t'
	case tea.KeyUp:
		key.Key = core.KeyUp
	case tea.KeyDown:
		key.Key = core.KeyDown
	case tea.KeyLeft:
		key.Key = core.KeyLeft
	case tea.KeyRight:
		key.Key = core.KeyRight
	case tea.KeyHome:
		key.Key = core.KeyHome
	case tea.KeyEnd:
		key.Key = core.KeyEnd
	case tea.KeyDelete:
		key.Key = core.KeyDelete
	case tea.KeyPgUp:
		key.Key = core.KeyPageUp
	case tea.KeyPgDown:
		key.Key = core.KeyPageDown
	case tea.KeyCtrlV:
		key.Modifiers |= core.ModCtrl
		key.Rune = 'v'
	case tea.KeyCtrlR:
		key.Modifiers |= core.ModCtrl
		key.Rune = 'r'
	case tea.KeyCtrlU:
		key.Modifiers |= core.ModCtrl
		key.Rune = 'u'
	case tea.KeyCtrlD:
		key.Modifiers |= core.ModCtrl
		key.Rune = 'd'
	case tea.KeyCtrlB:
		key.Modifiers |= core.ModCtrl
		key.Rune = 'b'
	case tea.KeyCtrlF:
		key.Modifiers |= core.ModCtrl
		key.Rune = 'f'
	}

	return key
}
