package core

// History is the undo/redo stack pair. execute runs a command and pushes
// it to done, clearing redo; undo/redo move a command between the two
// stacks. Every operation is a no-op at the bottom of its stack.
type History struct {
	done []Command
	redo []Command
}

// NewHistory returns an empty History.
func NewHistory() *History { return &History{} }

// Execute runs cmd.Execute against doc, pushes cmd onto done, and clears
// redo. A failing Execute is not enrolled.
func (h *History) Execute(doc *Document, cmd Command) error {
	if err := cmd.Execute(doc); err != nil {
		return err
	}
	h.done = append(h.done, cmd)
	h.redo = nil
	return nil
}

// AddExecuted enrolls a command whose effect has already been applied
// outside History (the view's in-cell edit commit path), without running
// Execute again.
func (h *History) AddExecuted(cmd Command) {
	h.done = append(h.done, cmd)
	h.redo = nil
}

// Undo pops the most recent command off done, runs its Undo, and pushes it
// onto redo. Returns ErrNothingToUndo at the bottom of the stack.
func (h *History) Undo(doc *Document) error {
	if len(h.done) == 0 {
		return ErrNothingToUndo
	}
	cmd := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	if err := cmd.Undo(doc); err != nil {
		assertInvariant(false, "undo failed: "+err.Error())
		return err
	}
	h.redo = append(h.redo, cmd)
	return nil
}

// Redo pops the most recent command off redo, re-executes it, and pushes
// it back onto done. Returns ErrNothingToRedo at the bottom of the stack.
func (h *History) Redo(doc *Document) error {
	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if err := cmd.Execute(doc); err != nil {
		return err
	}
	h.done = append(h.done, cmd)
	return nil
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.done) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
