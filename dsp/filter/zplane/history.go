package zplane

// History is a linear undo/redo history of [State] snapshots. Any new
// snapshot discards the redo stack.
type History struct {
	undo  []State
	redo  []State
	limit int
}

// NewHistory returns a history that keeps at most limit undo entries,
// dropping the oldest first. A limit <= 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: max(limit, 0)}
}

// Snapshot pushes a copy of state onto the undo stack and clears the redo
// stack. Call it before every mutating edit.
func (h *History) Snapshot(state State) {
	h.pushUndo(state.Clone())
	h.redo = h.redo[:0]
}

// Undo pushes current onto the redo stack and returns the most recent
// snapshot. It returns ErrEmptyHistory when there is nothing to undo.
func (h *History) Undo(current State) (State, error) {
	if len(h.undo) == 0 {
		return State{}, ErrEmptyHistory
	}

	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())

	return prev, nil
}

// Redo pushes current onto the undo stack and returns the most recently
// undone state. It returns ErrEmptyHistory when there is nothing to redo.
func (h *History) Redo(current State) (State, error) {
	if len(h.redo) == 0 {
		return State{}, ErrEmptyHistory
	}

	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.pushUndo(current.Clone())

	return next, nil
}

func (h *History) pushUndo(s State) {
	h.undo = append(h.undo, s)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = append(h.undo[:0], h.undo[len(h.undo)-h.limit:]...)
	}
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

// Clear drops all entries.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
