package core

import "time"

// CaretPosition names where the insertion caret lands when entering Insert
// mode on a cell that already has content.
type CaretPosition int

const (
	CaretEnd CaretPosition = iota
	CaretStart
)

// CommandLineKind distinguishes what a Command-mode text buffer is for,
// since ':' and '/' share the same mini-line input surface.
type CommandLineKind int

const (
	CommandLineNone CommandLineKind = iota
	CommandLineEx
	CommandLineSearch
)

// ChangeKind tags the shape of the most recent mutating change so '.' can
// decide how to replay it.
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	ChangeInsertCell // typed text into a single cell (i, a, c+motion, etc.)
	ChangeOperator   // an operator with no Insert phase (x, r, d+motion)
)

// LastChange records enough of the most recent edit that '.' can reproduce
// "the same class of change" at a new cursor position, per the dot-repeat
// testable property.
type LastChange struct {
	Kind          ChangeKind
	Operator      rune // 'd', 'c', 'y', 'x', 'r', ...
	Motion        rune // the motion or text-object that completed the operator, if any
	Count         int
	InsertedText  string
	ReplaceRune   rune
	CaretPosition CaretPosition
}

// pendingKey is one buffered keystroke awaiting a multi-key sequence
// ("gg", "dd", "jj"), stamped with the time it arrived so the dispatcher can
// expire the whole buffer without a background timer.
type pendingKey struct {
	key KeyEvent
	at  time.Time
}

// VimState is the modal-dispatch and cursor/selection state paired 1:1 with
// a Document. It carries no reference to the Document itself; callers pass
// both explicitly into Engine methods.
type VimState struct {
	Mode Mode

	Cursor    GridPosition
	Selection *SelectionRange

	SelectedRows map[int]bool
	SelectedCols map[int]bool

	pendingKeys  []pendingKey
	PendingCount int // 0 means "no count accumulated yet"; effective count defaults to 1

	CommandLine     CommandLineKind
	commandLineText string

	LastYank   *YankedContent
	LastChange *LastChange

	InsertOriginalValue  string
	InsertStartPosition  GridPosition
	CellEditCaret        CaretPosition
	PendingBulkEditRange *SelectionRange

	insertScratch     []rune
	insertCaretOffset int

	CurrentOperator     rune // set while an operator awaits its motion ("d", "c", "y")
	operatorCount       int
	awaitingReplaceChar bool // set while "r" awaits its replacement rune

	SearchPattern       string
	SearchForward       bool
	SearchCaseSensitive bool
	searchMatches       []GridPosition
	searchCurrent       int

	History *History

	// ViewportHeight is the number of grid rows the view currently renders,
	// supplied by the adapter on resize. Ctrl+u/d (half-page) and Ctrl+b/f
	// (page) motions fall back to a count of 1 when it is unset, the same
	// way the teacher's State.ViewportHeight backs its PageUp/PageDown
	// handling.
	ViewportHeight int

	commandHistory      []string
	searchHistory        []string
	commandHistoryCursor int
	searchHistoryCursor  int
}

// NewVimState returns a fresh Normal-mode state with its own History.
func NewVimState() *VimState {
	return &VimState{
		Mode:          NormalMode,
		SelectedRows:  map[int]bool{},
		SelectedCols:  map[int]bool{},
		History:       NewHistory(),
		searchCurrent: -1,
	}
}

const pendingKeyTimeout = 500 * time.Millisecond

// PushPendingKey appends key to the pending buffer, first clearing it if
// the most recent entry is older than the 500ms timeout. It never starts a
// timer; elapsed time is only ever checked when a new key arrives.
func (s *VimState) PushPendingKey(key KeyEvent, now time.Time) {
	if len(s.pendingKeys) > 0 {
		last := s.pendingKeys[len(s.pendingKeys)-1]
		if now.Sub(last.at) > pendingKeyTimeout {
			s.pendingKeys = nil
		}
	}
	s.pendingKeys = append(s.pendingKeys, pendingKey{key: key, at: now})
}

// PendingKeyRunes returns the buffered keys as a string for sequence
// matching ("gg", "dd", ...).
func (s *VimState) PendingKeyRunes() string {
	out := make([]rune, 0, len(s.pendingKeys))
	for _, k := range s.pendingKeys {
		out = append(out, k.key.Rune)
	}
	return string(out)
}

// ClearPending resets the pending-key buffer and count prefix, used on
// Escape and whenever a sequence completes.
func (s *VimState) ClearPending() {
	s.pendingKeys = nil
	s.PendingCount = 0
	s.CurrentOperator = 0
	s.operatorCount = 0
}

// EffectiveCount returns the accumulated count, defaulting to 1, and
// resets PendingCount to 0.
func (s *VimState) EffectiveCount() int {
	if s.PendingCount == 0 {
		return 1
	}
	n := s.PendingCount
	s.PendingCount = 0
	return n
}

// AccumulateDigit folds digit into the pending count (1-9 always starts or
// extends it; 0 only extends an already-started count, since a bare 0 is
// the line-start motion).
func (s *VimState) AccumulateDigit(digit int) {
	s.PendingCount = s.PendingCount*10 + digit
}

// CommandLineText returns the in-progress ':' or '/' buffer text.
func (s *VimState) CommandLineText() string { return s.commandLineText }

// SetCommandLineText replaces the in-progress command-line buffer.
func (s *VimState) SetCommandLineText(text string) { s.commandLineText = text }

// PushCommandHistory records a committed ':' entry for Up/Down recall.
func (s *VimState) PushCommandHistory(entry string) {
	if entry == "" {
		return
	}
	s.commandHistory = append(s.commandHistory, entry)
	s.commandHistoryCursor = len(s.commandHistory)
}

// PushSearchHistory records a committed '/' or '?' entry for Up/Down recall.
func (s *VimState) PushSearchHistory(entry string) {
	if entry == "" {
		return
	}
	s.searchHistory = append(s.searchHistory, entry)
	s.searchHistoryCursor = len(s.searchHistory)
}

// RecallCommandHistory steps the ':' mini-line buffer through previously
// committed entries; older is true for Up, false for Down. Returns the
// recalled text and whether there was anything to recall.
func (s *VimState) RecallCommandHistory(older bool) (string, bool) {
	return recallHistory(s.commandHistory, &s.commandHistoryCursor, older)
}

// RecallSearchHistory is RecallCommandHistory for the '/' and '?' buffer.
func (s *VimState) RecallSearchHistory(older bool) (string, bool) {
	return recallHistory(s.searchHistory, &s.searchHistoryCursor, older)
}

func recallHistory(history []string, cursor *int, older bool) (string, bool) {
	if len(history) == 0 {
		return "", false
	}
	if older {
		if *cursor > 0 {
			*cursor--
		}
	} else if *cursor < len(history) {
		*cursor++
	}
	if *cursor >= len(history) {
		return "", true
	}
	return history[*cursor], true
}
