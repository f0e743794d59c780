package zplane

import (
	"errors"
	"fmt"
	"io"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-zplane/dsp/filter/zpk"
)

// Editor owns a zero/pole state, its undo history and the session modes.
//
// Every mutating operation snapshots the previous state, replaces the state
// wholesale, derives coefficients and notifies the consumers. Failures
// leave the state untouched. All methods are safe for concurrent use; calls
// are serialized by an internal lock.
type Editor struct {
	mu sync.Mutex

	cfg     Config
	state   State
	history *History
	modes   Modes
	drag    *dragSession
	tf      zpk.TransferFunction
}

// NewEditor returns an editor with an empty state. Consumers are not
// notified until the first edit or an explicit Refresh.
func NewEditor(opts ...EditorOption) *Editor {
	cfg := ApplyEditorOptions(opts...)

	e := &Editor{
		cfg:     cfg,
		history: NewHistory(cfg.HistoryLimit),
	}
	e.derive()

	return e
}

// AddConsumer registers another coefficient consumer.
func (e *Editor) AddConsumer(c Consumer) {
	if c == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.Consumers = append(e.cfg.Consumers, c)
}

// Refresh pushes the current coefficients to all consumers.
func (e *Editor) Refresh() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.notify()
}

// State returns a copy of the current zeros and poles.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state.Clone()
}

// Zeros returns a copy of the current zeros.
func (e *Editor) Zeros() []complex128 {
	return e.State().Zeros
}

// Poles returns a copy of the current poles.
func (e *Editor) Poles() []complex128 {
	return e.State().Poles
}

// TransferFunction returns the coefficients derived from the last committed
// state. Intermediate drag positions are not reflected until EndDrag.
func (e *Editor) TransferFunction() zpk.TransferFunction {
	e.mu.Lock()
	defer e.mu.Unlock()

	return zpk.TransferFunction{
		B: append([]float64(nil), e.tf.B...),
		A: append([]float64(nil), e.tf.A...),
	}
}

// Gain returns the numerator gain.
func (e *Editor) Gain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.cfg.Gain
}

// SetGain changes the numerator gain and notifies consumers. Gain is a
// session setting and is not recorded in the history.
func (e *Editor) SetGain(gain float64) error {
	if !validPoint(complex(gain, 0)) {
		return fmt.Errorf("%w: gain %v", ErrInvalidPoint, gain)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.Gain = gain
	e.derive()

	return e.notify()
}

// Modes returns the current mode flags.
func (e *Editor) Modes() Modes {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.modes
}

// SetPoleMode selects poles (true) or zeros (false) as the edited kind.
func (e *Editor) SetPoleMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.modes.PoleMode = on
}

// SetDeleteMode enables or disables delete mode.
func (e *Editor) SetDeleteMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.modes.DeleteMode = on
}

// SetConjugateMode enables or disables automatic conjugate placement.
func (e *Editor) SetConjugateMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.modes.ConjugateMode = on
}

// ToggleDelete flips delete mode and returns the new value.
func (e *Editor) ToggleDelete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.modes.DeleteMode = !e.modes.DeleteMode

	return e.modes.DeleteMode
}

// ToggleConjugate flips conjugate mode and returns the new value.
func (e *Editor) ToggleConjugate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.modes.ConjugateMode = !e.modes.ConjugateMode

	return e.modes.ConjugateMode
}

// CanUndo reports whether an undo entry exists.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.CanUndo()
}

// CanRedo reports whether a redo entry exists.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.CanRedo()
}

// HistoryDepth returns the sizes of the undo and redo stacks.
func (e *Editor) HistoryDepth() (undo, redo int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.Depth()
}

// PlacePoint interprets a click at loc in the active kind. In delete mode
// the nearest point within tolerance is removed. Otherwise a new point is
// added unless one already lies within tolerance; with conjugate mode on,
// a location off the real axis also adds its conjugate.
//
// A click that matches nothing to delete is a no-op.
func (e *Editor) PlacePoint(loc complex128) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.placeLocked(loc)
}

// RemovePoint removes the nearest point of the active kind within tolerance,
// regardless of delete mode. No nearby point is a no-op.
func (e *Editor) RemovePoint(loc complex128) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.removeLocked(loc)
}

func (e *Editor) placeLocked(loc complex128) error {
	if !validPoint(loc) {
		return fmt.Errorf("%w: %v", ErrInvalidPoint, loc)
	}

	if e.modes.DeleteMode {
		return e.removeLocked(loc)
	}

	if err := e.finishDragLocked(); err != nil {
		return err
	}

	kind := e.modes.Active()
	set := NewPointSet(e.points(kind))

	if _, ok := set.Nearest(loc, e.cfg.Tolerance); ok {
		return nil
	}

	set.Add(loc)
	if e.modes.ConjugateMode && imag(loc) != 0 {
		set.Add(cmplx.Conj(loc))
	}

	return e.commit(e.withPoints(kind, set.Points()))
}

func (e *Editor) removeLocked(loc complex128) error {
	if !validPoint(loc) {
		return fmt.Errorf("%w: %v", ErrInvalidPoint, loc)
	}

	if err := e.finishDragLocked(); err != nil {
		return err
	}

	kind := e.modes.Active()
	set := NewPointSet(e.points(kind))

	if err := set.RemoveNear(loc, e.cfg.Tolerance); err != nil {
		if errors.Is(err, ErrPointNotFound) {
			return nil
		}

		return err
	}

	return e.commit(e.withPoints(kind, set.Points()))
}

// Swap exchanges the zero and pole sets.
func (e *Editor) Swap() error {
	return e.edit(func(s State) (State, error) {
		return State{Zeros: s.Poles, Poles: s.Zeros}, nil
	})
}

// ClearZeros removes all zeros.
func (e *Editor) ClearZeros() error {
	return e.edit(func(s State) (State, error) {
		return State{Poles: s.Poles}, nil
	})
}

// ClearPoles removes all poles.
func (e *Editor) ClearPoles() error {
	return e.edit(func(s State) (State, error) {
		return State{Zeros: s.Zeros}, nil
	})
}

// ClearAll removes all zeros and poles.
func (e *Editor) ClearAll() error {
	return e.edit(func(State) (State, error) {
		return State{}, nil
	})
}

// ImportExternal merges an externally supplied contribution, such as the
// roots of an all-pass section, into the current sets. Exact duplicates are
// dropped and a non-empty contribution leaves its set sorted.
func (e *Editor) ImportExternal(zeros, poles []complex128) error {
	contrib := State{Zeros: zeros, Poles: poles}
	if err := contrib.Validate(); err != nil {
		return err
	}

	return e.edit(func(s State) (State, error) {
		next := s.Clone()
		if len(zeros) > 0 {
			set := NewPointSet(next.Zeros)
			set.MergeUnique(zeros)
			next.Zeros = set.Points()
		}

		if len(poles) > 0 {
			set := NewPointSet(next.Poles)
			set.MergeUnique(poles)
			next.Poles = set.Points()
		}

		return next, nil
	})
}

// RemoveExternal removes every point exactly equal to a point of the given
// contribution.
func (e *Editor) RemoveExternal(zeros, poles []complex128) error {
	return e.edit(func(s State) (State, error) {
		zs := NewPointSet(s.Zeros)
		zs.RemoveExact(zeros)

		ps := NewPointSet(s.Poles)
		ps.RemoveExact(poles)

		return State{Zeros: zs.Points(), Poles: ps.Points()}, nil
	})
}

// Load replaces the state wholesale.
func (e *Editor) Load(state State) error {
	if err := state.Validate(); err != nil {
		return err
	}

	return e.edit(func(State) (State, error) {
		return state.Clone(), nil
	})
}

// LoadTransferFunction replaces the state with the roots of tf. The gain
// setting is not changed.
func (e *Editor) LoadTransferFunction(tf zpk.TransferFunction) error {
	z, err := zpk.FromTransferFunction(tf)
	if err != nil {
		return err
	}

	return e.Load(State{Zeros: z.Zeros, Poles: z.Poles})
}

// Import reads CSV records from r and replaces the state. A malformed row
// rejects the whole import and leaves the state unchanged.
func (e *Editor) Import(r io.Reader) error {
	state, err := ReadCSV(r)
	if err != nil {
		return err
	}

	return e.Load(state)
}

// Export writes the current state to w as CSV records.
func (e *Editor) Export(w io.Writer) error {
	return WriteCSV(w, e.State())
}

// Undo restores the state before the most recent edit. It reports false,
// with no state change, when there is nothing to undo.
func (e *Editor) Undo() (bool, error) {
	return e.travel((*History).Undo)
}

// Redo reapplies the most recently undone edit. It reports false, with no
// state change, when there is nothing to redo.
func (e *Editor) Redo() (bool, error) {
	return e.travel((*History).Redo)
}

func (e *Editor) travel(step func(*History, State) (State, error)) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.finishDragLocked(); err != nil {
		return false, err
	}

	next, err := step(e.history, e.state)
	if errors.Is(err, ErrEmptyHistory) {
		return false, nil
	}

	e.state = next
	e.derive()

	return true, e.notify()
}

// edit runs fn on a copy of the state and commits its result.
func (e *Editor) edit(fn func(State) (State, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.finishDragLocked(); err != nil {
		return err
	}

	next, err := fn(e.state.Clone())
	if err != nil {
		return err
	}

	return e.commit(next)
}

// commit snapshots the current state, installs next, derives coefficients
// and notifies consumers. next must not alias the current state.
func (e *Editor) commit(next State) error {
	e.history.Snapshot(e.state)
	e.state = next.Clone()
	e.derive()

	return e.notify()
}

func (e *Editor) derive() {
	e.tf = zpk.ToTransferFunction(
		zpk.EnforceConjugates(e.state.Zeros),
		zpk.EnforceConjugates(e.state.Poles),
		e.cfg.Gain,
	)
}

func (e *Editor) notify() error {
	var errs []error

	for _, c := range e.cfg.Consumers {
		b := append([]float64(nil), e.tf.B...)
		a := append([]float64(nil), e.tf.A...)

		if err := c.SetCoefficients(b, a); err != nil {
			errs = append(errs, fmt.Errorf("zplane: consumer: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (e *Editor) points(kind Kind) []complex128 {
	if kind == KindPole {
		return e.state.Poles
	}

	return e.state.Zeros
}

func (e *Editor) withPoints(kind Kind, pts []complex128) State {
	next := e.state.Clone()
	if kind == KindPole {
		next.Poles = pts
	} else {
		next.Zeros = pts
	}

	return next
}
