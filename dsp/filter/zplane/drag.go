package zplane

// dragSession is the exclusive owner of the point being dragged. before is
// the committed state at BeginDrag; it becomes the undo entry on EndDrag.
type dragSession struct {
	kind   Kind
	index  int
	before State
}

// BeginDrag starts dragging the nearest point of the active kind within
// tolerance of loc. It reports false, starting nothing, in delete mode or
// when no point is close enough. An unfinished drag is finalized first.
func (e *Editor) BeginDrag(loc complex128) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.beginDragLocked(loc)
}

func (e *Editor) beginDragLocked(loc complex128) (bool, error) {
	if err := e.finishDragLocked(); err != nil {
		return false, err
	}

	if e.modes.DeleteMode || !validPoint(loc) {
		return false, nil
	}

	kind := e.modes.Active()

	i, ok := NewPointSet(e.points(kind)).Nearest(loc, e.cfg.Tolerance)
	if !ok {
		return false, nil
	}

	e.drag = &dragSession{kind: kind, index: i, before: e.state.Clone()}

	return true, nil
}

// UpdateDrag moves the dragged point to loc. It neither snapshots nor
// recomputes coefficients. Without an active drag, or for an invalid loc,
// it does nothing.
func (e *Editor) UpdateDrag(loc complex128) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.updateDragLocked(loc)
}

func (e *Editor) updateDragLocked(loc complex128) {
	if e.drag == nil || !validPoint(loc) {
		return
	}

	e.points(e.drag.kind)[e.drag.index] = loc
}

// EndDrag finalizes an active drag: the pre-drag state is recorded for undo
// and coefficients are recomputed. A drag that moved nothing leaves no
// history entry.
func (e *Editor) EndDrag() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.finishDragLocked()
}

func (e *Editor) finishDragLocked() error {
	d := e.drag
	if d == nil {
		return nil
	}

	e.drag = nil

	if e.state.Equal(d.before) {
		return nil
	}

	e.history.Snapshot(d.before)
	e.derive()

	return e.notify()
}

// CancelDrag abandons an active drag and restores the pre-drag position.
func (e *Editor) CancelDrag() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag == nil {
		return
	}

	e.state = e.drag.before
	e.drag = nil
}

// Dragging reports the kind and index of the point being dragged.
func (e *Editor) Dragging() (Kind, int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag == nil {
		return 0, 0, false
	}

	return e.drag.kind, e.drag.index, true
}
