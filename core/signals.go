package core

// Signal is a change notification emitted on the Engine's update channel.
// Observers (the view shell) type-switch on the concrete signal.
type Signal any

// CellChangedSignal reports that a single cell's value changed.
type CellChangedSignal struct{ Pos GridPosition }

// StructureChangedSignal reports a row/column insertion or deletion.
type StructureChangedSignal struct {
	Kind  StructureChangeKind
	Index int
}

// StructureChangeKind names the shape of a StructureChangedSignal.
type StructureChangeKind int

const (
	RowInserted StructureChangeKind = iota
	RowDeleted
	ColumnInserted
	ColumnDeleted
)

// CursorMovedSignal reports the cursor's new position.
type CursorMovedSignal struct{ Pos GridPosition }

// ModeChangedSignal reports a mode transition.
type ModeChangedSignal struct{ Mode Mode }

// SelectionChangedSignal reports that the active selection/row/column sets
// changed and cell projections were recomputed.
type SelectionChangedSignal struct{ Range *SelectionRange }

// SearchStateChangedSignal reports new search results and the current
// match index (-1 if none).
type SearchStateChangedSignal struct {
	Matches []GridPosition
	Current int
}

// ColumnWidthRequestSignal asks the view to remeasure the listed columns.
type ColumnWidthRequestSignal struct{ Columns []int }

// YankSignal reports that content was copied into the register.
type YankSignal struct{ Content YankedContent }

// MessageSignal carries a transient status-line message.
type MessageSignal struct{ ID, Text string }

// ErrorSignal carries a recoverable error for the status line.
type ErrorSignal struct {
	ID  ErrorId
	Err error
}

// SaveSignal reports a successful save.
type SaveSignal struct{ Path string }

// QuitSignal requests the view close the document.
type QuitSignal struct{ Force bool }

// DispatchSignal sends signal on the update channel, dropping it if the
// channel is full rather than blocking the synchronous key-dispatch path.
func (e *Engine) DispatchSignal(signal Signal) {
	select {
	case e.updateSignal <- signal:
	default:
	}
}

// DispatchError wraps id/err as an ErrorSignal and sends it.
func (e *Engine) DispatchError(id ErrorId, err error) {
	e.DispatchSignal(ErrorSignal{ID: id, Err: err})
}

// DispatchMessage sends a MessageSignal. The first arg is both the id and,
// absent a second arg, the displayed text.
func (e *Engine) DispatchMessage(args ...string) {
	if len(args) == 0 {
		return
	}
	id := args[0]
	text := id
	if len(args) > 1 {
		text = args[1]
	}
	e.DispatchSignal(MessageSignal{ID: id, Text: text})
}
