package core

// Engine dispatches key events against a (Document, VimState) pair. It owns
// no document itself — callers pass the handles for whichever tab is
// focused — so one Engine safely drives any number of simultaneously open
// documents.
type Engine struct {
	modes     map[Mode]EditorMode
	clipboard Clipboard
	config    *Config

	// SaveFunc performs the actual byte-level write (via the codec
	// package); injected by the caller to avoid core importing codec.
	SaveFunc func(doc *Document, path string) error

	updateSignal chan Signal
}

// NewEngine builds an Engine wired to the given system clipboard and
// configuration. cfg may be nil, in which case defaults apply.
func NewEngine(clipboard Clipboard, cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Engine{
		clipboard:    clipboard,
		config:       cfg,
		updateSignal: make(chan Signal, 64),
	}
	e.modes = map[Mode]EditorMode{
		NormalMode:  &normalMode{},
		InsertMode:  &insertMode{},
		VisualMode:  &visualMode{},
		CommandMode: &commandMode{},
	}
	return e
}

// GetUpdateSignalChan exposes the channel the view reads change
// notifications from.
func (e *Engine) GetUpdateSignalChan() <-chan Signal { return e.updateSignal }

// Config returns the engine's live configuration (mutated at runtime by
// ":set").
func (e *Engine) Config() *Config { return e.config }

// SetMode transitions doc/st to mode, calling Exit on the old mode and
// Enter on the new one. It is a no-op if mode is already current.
func (e *Engine) SetMode(doc *Document, st *VimState, mode Mode) {
	if st.Mode == mode {
		return
	}
	if old, ok := e.modes[st.Mode]; ok {
		old.Exit(e, doc, st)
	}
	st.ClearPending()
	st.Mode = mode
	if next, ok := e.modes[mode]; ok {
		next.Enter(e, doc, st)
	}
	e.DispatchSignal(ModeChangedSignal{Mode: mode})
}

// HandleKey is the single entry point named by the spec's public surface:
// handle_key(document, vim_state, key, modifiers) -> handled. Key
// processing is synchronous and serial; no two calls may overlap for the
// same VimState.
func (e *Engine) HandleKey(doc *Document, st *VimState, key KeyEvent) bool {
	mode, ok := e.modes[st.Mode]
	if !ok {
		e.DispatchError(ErrInvalidModeId, ErrInvalidMode)
		return false
	}
	if err := mode.HandleKey(e, doc, st, key); err != nil {
		e.DispatchError(err.Id, err.Err)
		return true
	}
	return true
}

// MoveCursor sets st.Cursor to pos, clamped to doc's bounds, and notifies.
func (e *Engine) MoveCursor(doc *Document, st *VimState, pos GridPosition) {
	st.Cursor = pos.Clamp(doc.RowCount(), doc.ColumnCount())
	e.DispatchSignal(CursorMovedSignal{Pos: st.Cursor})
}

// RefreshSelection recomputes cell projection flags from st and notifies.
func (e *Engine) RefreshSelection(doc *Document, st *VimState) {
	doc.RefreshSelection(st.Selection, st.SelectedRows, st.SelectedCols)
	e.DispatchSignal(SelectionChangedSignal{Range: st.Selection})
}

// Undo pops and inverts the most recent command.
func (e *Engine) Undo(doc *Document, st *VimState) error {
	if err := st.History.Undo(doc); err != nil {
		return err
	}
	e.MoveCursor(doc, st, st.Cursor)
	return nil
}

// Redo re-applies the most recently undone command.
func (e *Engine) Redo(doc *Document, st *VimState) error {
	if err := st.History.Redo(doc); err != nil {
		return err
	}
	e.MoveCursor(doc, st, st.Cursor)
	return nil
}

// Execute runs cmd through st.History against doc and emits the
// appropriate change signal.
func (e *Engine) Execute(doc *Document, st *VimState, cmd Command) error {
	if err := st.History.Execute(doc, cmd); err != nil {
		return err
	}
	switch cmd.(type) {
	case *InsertRowCommand:
		e.DispatchSignal(StructureChangedSignal{Kind: RowInserted})
	case *DeleteRowCommand:
		e.DispatchSignal(StructureChangedSignal{Kind: RowDeleted})
	case *InsertColumnCommand:
		e.DispatchSignal(StructureChangedSignal{Kind: ColumnInserted})
	case *DeleteColumnCommand:
		e.DispatchSignal(StructureChangedSignal{Kind: ColumnDeleted})
	case *EditCellCommand:
		e.DispatchSignal(CellChangedSignal{Pos: st.Cursor})
	default:
		e.DispatchSignal(CellChangedSignal{Pos: st.Cursor})
	}
	return nil
}

// CopyToClipboard stores content as the in-memory register and mirrors it
// to the system clipboard.
func (e *Engine) CopyToClipboard(st *VimState, content YankedContent) error {
	st.LastYank = &content
	if e.clipboard == nil {
		return nil
	}
	if err := e.clipboard.Write(content.ToClipboardText(e.delimiter())); err != nil {
		return err
	}
	e.DispatchSignal(YankSignal{Content: content})
	return nil
}

// ReadFromClipboard returns the in-memory register if present, otherwise
// falls back to parsing the system clipboard text.
func (e *Engine) ReadFromClipboard(st *VimState) (YankedContent, error) {
	if st.LastYank != nil {
		return *st.LastYank, nil
	}
	if e.clipboard == nil {
		return YankedContent{}, ErrEmptyRegister
	}
	text, err := e.clipboard.Read()
	if err != nil {
		return YankedContent{}, err
	}
	return YankedFromClipboardText(text, e.delimiter()), nil
}

// OnClipboardExternalChange invalidates last_yank across the given states
// so the next paste reads the live system clipboard instead of a register
// that may no longer match what another process put there.
func OnClipboardExternalChange(states ...*VimState) {
	for _, st := range states {
		st.LastYank = nil
	}
}

func (e *Engine) delimiter() rune {
	if e.config != nil && e.config.Delimiter != 0 {
		return e.config.Delimiter
	}
	return '\t'
}

// Save serializes doc via the injected SaveFunc (codec.Save). If path is
// empty, doc.FilePath is used. On success it clears Dirty and dispatches
// SaveSignal; the dirty flag is left untouched on failure.
func (e *Engine) Save(doc *Document, path string) error {
	if path == "" {
		path = doc.FilePath
	}
	if e.SaveFunc == nil {
		return ErrNoChangesToSave
	}
	if err := e.SaveFunc(doc, path); err != nil {
		e.DispatchError(ErrIoId, err)
		return err
	}
	doc.FilePath = path
	doc.HasPath = true
	doc.Dirty = false
	e.DispatchSignal(SaveSignal{Path: path})
	e.DispatchMessage(ChangesSavedMessage)
	return nil
}

// Quit requests the view close the document; force suppresses the
// dirty-flag guard (":q!").
func (e *Engine) Quit(force bool) {
	e.DispatchSignal(QuitSignal{Force: force})
}
