package zplane

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-zplane/dsp/filter/zpk"
	"github.com/cwbudde/algo-zplane/internal/testutil"
)

type recorder struct {
	calls int
	b, a  []float64
	err   error
}

func (r *recorder) SetCoefficients(b, a []float64) error {
	r.calls++
	r.b, r.a = b, a
	return r.err
}

func newTestEditor(t *testing.T, opts ...EditorOption) (*Editor, *recorder) {
	t.Helper()
	rec := &recorder{}
	return NewEditor(append(opts, WithConsumers(rec))...), rec
}

func TestEditor_PoleConjugatePlacement(t *testing.T) {
	e, rec := newTestEditor(t)
	e.SetPoleMode(true)
	e.SetConjugateMode(true)

	require.NoError(t, e.PlacePoint(complex(0.3, 0.4)))

	assert.Equal(t, []complex128{complex(0.3, 0.4), complex(0.3, -0.4)}, e.Poles())
	assert.Empty(t, e.Zeros())
	assert.Equal(t, 1, rec.calls)
	testutil.RequireSliceNearlyEqual(t, rec.a, []float64{1, -0.6, 0.25}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, rec.b, []float64{1}, 0)
}

func TestEditor_ConjugateModeOnRealAxis(t *testing.T) {
	e, _ := newTestEditor(t)
	e.SetConjugateMode(true)

	require.NoError(t, e.PlacePoint(0.7))
	assert.Equal(t, []complex128{0.7}, e.Zeros())
}

func TestEditor_TransferFunctionScenario(t *testing.T) {
	e, rec := newTestEditor(t)

	require.NoError(t, e.PlacePoint(1))
	e.SetPoleMode(true)
	e.SetConjugateMode(true)
	require.NoError(t, e.PlacePoint(complex(0.5, 0.5)))

	tf := e.TransferFunction()
	testutil.RequireSliceNearlyEqual(t, tf.B, []float64{1, -1}, 1e-15)
	testutil.RequireSliceNearlyEqual(t, tf.A, []float64{1, -1, 0.5}, 1e-15)
	assert.Equal(t, tf.B, rec.b)
	assert.Equal(t, tf.A, rec.a)
}

func TestEditor_SinglePointIsSymmetrizedForCoefficients(t *testing.T) {
	e, rec := newTestEditor(t)

	require.NoError(t, e.PlacePoint(complex(0.5, 0.5)))

	assert.Equal(t, []complex128{complex(0.5, 0.5)}, e.Zeros(), "editable set is not symmetrized")
	testutil.RequireSliceNearlyEqual(t, rec.b, []float64{1, -1, 0.5}, 1e-15)
}

func TestEditor_PlaceNearExistingIsNoop(t *testing.T) {
	e, rec := newTestEditor(t)

	require.NoError(t, e.PlacePoint(0.5))
	require.NoError(t, e.PlacePoint(0.52))

	assert.Equal(t, []complex128{0.5}, e.Zeros())
	assert.Equal(t, 1, rec.calls)

	undo, _ := e.HistoryDepth()
	assert.Equal(t, 1, undo)
}

func TestEditor_DeleteAddInverse(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.PlacePoint(-0.4))
	before := e.State()

	require.NoError(t, e.PlacePoint(complex(0.2, 0.3)))
	assert.True(t, e.ToggleDelete())
	require.NoError(t, e.PlacePoint(complex(0.21, 0.3)))

	assert.True(t, e.State().Equal(before))
}

func TestEditor_DeleteModeMissIsNoop(t *testing.T) {
	e, rec := newTestEditor(t)
	require.NoError(t, e.PlacePoint(0.5))
	e.SetDeleteMode(true)

	require.NoError(t, e.PlacePoint(-0.5))

	assert.Equal(t, []complex128{0.5}, e.Zeros())
	assert.Equal(t, 1, rec.calls)
}

func TestEditor_DeleteModeUsesActiveKind(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.PlacePoint(0.5))
	e.SetPoleMode(true)
	require.NoError(t, e.PlacePoint(0.5))

	e.SetDeleteMode(true)
	require.NoError(t, e.PlacePoint(0.5))

	assert.Equal(t, []complex128{0.5}, e.Zeros())
	assert.Empty(t, e.Poles())
}

func TestEditor_InvalidPoint(t *testing.T) {
	e, rec := newTestEditor(t)

	for _, loc := range []complex128{complex(math.NaN(), 0), complex(0, math.Inf(1))} {
		require.ErrorIs(t, e.PlacePoint(loc), ErrInvalidPoint)
		require.ErrorIs(t, e.RemovePoint(loc), ErrInvalidPoint)
	}

	require.ErrorIs(t, e.Load(State{Poles: []complex128{complex(math.NaN(), 1)}}), ErrInvalidPoint)
	require.ErrorIs(t, e.ImportExternal([]complex128{complex(math.Inf(-1), 0)}, nil), ErrInvalidPoint)

	assert.Empty(t, e.Zeros())
	assert.Empty(t, e.Poles())
	assert.False(t, e.CanUndo())
	assert.Equal(t, 0, rec.calls)
}

type editorOp struct {
	name string
	fn   func(*Editor) error
}

func editorOps() []editorOp {
	return []editorOp{
		{"place zero", func(e *Editor) error { return e.PlacePoint(complex(-0.2, -0.6)) }},
		{"drag", func(e *Editor) error {
			ok, err := e.BeginDrag(complex(0.1, 0.6))
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no point to drag")
			}
			e.UpdateDrag(complex(-0.3, 0.2))
			return e.EndDrag()
		}},
		{"place pole pair", func(e *Editor) error {
			e.SetPoleMode(true)
			e.SetConjugateMode(true)
			defer e.SetPoleMode(false)
			defer e.SetConjugateMode(false)
			return e.PlacePoint(complex(0.4, 0.4))
		}},
		{"swap", (*Editor).Swap},
		{"import external", func(e *Editor) error {
			return e.ImportExternal([]complex128{2}, []complex128{0.5})
		}},
		{"remove external", func(e *Editor) error {
			return e.RemoveExternal([]complex128{2}, []complex128{0.5})
		}},
		{"load", func(e *Editor) error {
			return e.Load(State{Zeros: []complex128{-1}, Poles: []complex128{0.9, -0.1}})
		}},
		{"clear zeros", (*Editor).ClearZeros},
		{"clear poles", (*Editor).ClearPoles},
		{"clear all", (*Editor).ClearAll},
	}
}

func TestEditor_UndoRedoInverseLaw(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.Load(State{Zeros: []complex128{-0.8, complex(0.1, 0.6)}}))

	for _, op := range editorOps() {
		t.Run(op.name, func(t *testing.T) {
			before := e.State()
			require.NoError(t, op.fn(e))
			after := e.State()
			tfAfter := e.TransferFunction()

			ok, err := e.Undo()
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, e.State().Equal(before), "undo: got %+v want %+v", e.State(), before)

			ok, err = e.Redo()
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, e.State().Equal(after), "redo: got %+v want %+v", e.State(), after)
			assert.Equal(t, tfAfter, e.TransferFunction())
		})
	}
}

func TestEditor_NewEditClearsRedo(t *testing.T) {
	for _, op := range editorOps() {
		t.Run(op.name, func(t *testing.T) {
			e, _ := newTestEditor(t)
			require.NoError(t, e.PlacePoint(complex(0.1, 0.6)))
			require.NoError(t, e.PlacePoint(0.9))

			ok, err := e.Undo()
			require.NoError(t, err)
			require.True(t, ok)
			require.True(t, e.CanRedo())

			require.NoError(t, op.fn(e))
			assert.False(t, e.CanRedo())
		})
	}
}

func TestEditor_UndoRedoEmpty(t *testing.T) {
	e, rec := newTestEditor(t)

	ok, err := e.Undo()
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.Redo()
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 0, rec.calls)
}

func TestEditor_UndoNotifies(t *testing.T) {
	e, rec := newTestEditor(t)
	require.NoError(t, e.PlacePoint(0.5))

	_, err := e.Undo()
	require.NoError(t, err)

	assert.Equal(t, 2, rec.calls)
	assert.Equal(t, []float64{1}, rec.b)
	assert.Equal(t, []float64{1}, rec.a)
}

func TestEditor_SwapInvolution(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.Load(State{
		Zeros: []complex128{1, complex(0.2, 0.7)},
		Poles: []complex128{0.5},
	}))
	orig := e.State()

	require.NoError(t, e.Swap())
	assert.Equal(t, orig.Zeros, e.Poles())
	assert.Equal(t, orig.Poles, e.Zeros())

	require.NoError(t, e.Swap())
	assert.True(t, e.State().Equal(orig))
}

func TestEditor_Clear(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.Load(State{Zeros: []complex128{1}, Poles: []complex128{0.5}}))

	require.NoError(t, e.ClearZeros())
	assert.Empty(t, e.Zeros())
	assert.Equal(t, []complex128{0.5}, e.Poles())

	require.NoError(t, e.ClearPoles())
	assert.Empty(t, e.Poles())

	require.NoError(t, e.Load(State{Zeros: []complex128{1}, Poles: []complex128{0.5}}))
	require.NoError(t, e.ClearAll())
	assert.Empty(t, e.Zeros())
	assert.Empty(t, e.Poles())

	tf := e.TransferFunction()
	assert.Equal(t, []float64{1}, tf.B)
	assert.Equal(t, []float64{1}, tf.A)
}

func TestEditor_ExternalContribution(t *testing.T) {
	e, _ := newTestEditor(t)
	require.NoError(t, e.Load(State{Zeros: []complex128{0.3}, Poles: []complex128{0.6}}))

	apZeros := []complex128{complex(1.25, 0.5), complex(1.25, -0.5)}
	apPoles := []complex128{complex(0.69, 0.28), complex(0.69, -0.28)}

	require.NoError(t, e.ImportExternal(apZeros, apPoles))
	assert.Equal(t, []complex128{0.3, complex(1.25, -0.5), complex(1.25, 0.5)}, e.Zeros())
	assert.Equal(t, []complex128{0.6, complex(0.69, -0.28), complex(0.69, 0.28)}, e.Poles())

	// A second import of the same section does not duplicate it.
	require.NoError(t, e.ImportExternal(apZeros, apPoles))
	assert.Len(t, e.Zeros(), 3)

	// Removal is by exact value; a nearby point survives.
	require.NoError(t, e.RemoveExternal(append(apZeros, 0.30001), apPoles))
	assert.Equal(t, []complex128{0.3}, e.Zeros())
	assert.Equal(t, []complex128{0.6}, e.Poles())
}

func TestEditor_LoadTransferFunction(t *testing.T) {
	e, _ := newTestEditor(t)

	require.NoError(t, e.LoadTransferFunction(zpk.TransferFunction{
		B: []float64{1, -1},
		A: []float64{1, -1, 0.5},
	}))

	testutil.RequireRootSetsNearlyEqual(t, e.Zeros(), []complex128{1}, 1e-12)
	testutil.RequireRootSetsNearlyEqual(t, e.Poles(), []complex128{complex(0.5, 0.5), complex(0.5, -0.5)}, 1e-12)

	tf := e.TransferFunction()
	testutil.RequireSliceNearlyEqual(t, tf.A, []float64{1, -1, 0.5}, 1e-12)
}

func TestEditor_LoadTransferFunctionDegenerate(t *testing.T) {
	e, rec := newTestEditor(t)
	require.NoError(t, e.PlacePoint(0.5))
	before := e.State()

	err := e.LoadTransferFunction(zpk.TransferFunction{B: []float64{1}, A: []float64{0, 0}})
	require.ErrorIs(t, err, zpk.ErrDegenerateFilter)

	assert.True(t, e.State().Equal(before))
	undo, _ := e.HistoryDepth()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 1, rec.calls)
}

func TestEditor_ImportMalformedLeavesStateUntouched(t *testing.T) {
	e, rec := newTestEditor(t)
	require.NoError(t, e.Load(State{Zeros: []complex128{0.25}, Poles: []complex128{0.5}}))
	before := e.State()
	undoBefore, _ := e.HistoryDepth()

	err := e.Import(strings.NewReader("Type,Real,Imaginary\nzero,1,0\npole,abc,0\n"))
	require.ErrorIs(t, err, ErrMalformedRecord)

	assert.True(t, e.State().Equal(before))
	undoAfter, _ := e.HistoryDepth()
	assert.Equal(t, undoBefore, undoAfter)
	assert.Equal(t, 1, rec.calls)
}

func TestEditor_ExportImportRoundTrip(t *testing.T) {
	src, _ := newTestEditor(t)
	require.NoError(t, src.Load(State{
		Zeros: []complex128{complex(0.1, 0.7), complex(0.1, -0.7)},
		Poles: []complex128{0.95, complex(-0.3, 1.0/3)},
	}))

	var buf strings.Builder
	require.NoError(t, src.Export(&buf))

	dst, _ := newTestEditor(t)
	require.NoError(t, dst.Import(strings.NewReader(buf.String())))

	assert.True(t, dst.State().Equal(src.State()))
	assert.True(t, dst.CanUndo())
}

func TestEditor_ConsumerErrorsAreJoined(t *testing.T) {
	bad := errors.New("device gone")
	good := &recorder{}
	e := NewEditor(
		WithConsumers(ConsumerFunc(func(b, a []float64) error { return bad }), good),
	)

	err := e.PlacePoint(0.5)
	require.ErrorIs(t, err, bad)

	assert.Equal(t, []complex128{0.5}, e.Zeros(), "state is committed before notification")
	assert.Equal(t, 1, good.calls)
}

func TestEditor_ConsumersGetCopies(t *testing.T) {
	e := NewEditor(WithConsumers(ConsumerFunc(func(b, a []float64) error {
		b[0] = 99
		a[0] = 99
		return nil
	})))

	require.NoError(t, e.PlacePoint(0.5))

	tf := e.TransferFunction()
	assert.Equal(t, 1.0, tf.B[0])
	assert.Equal(t, 1.0, tf.A[0])
}

func TestEditor_Options(t *testing.T) {
	e, rec := newTestEditor(t, WithTolerance(0.2), WithHistoryLimit(2), WithGain(0.5))

	require.NoError(t, e.PlacePoint(0.5))
	require.NoError(t, e.PlacePoint(0.65))
	assert.Equal(t, []complex128{0.5}, e.Zeros(), "0.65 is within the 0.2 tolerance")

	require.NoError(t, e.PlacePoint(-0.5))
	require.NoError(t, e.PlacePoint(0))
	undo, _ := e.HistoryDepth()
	assert.Equal(t, 2, undo)

	testutil.RequireSliceNearlyEqual(t, rec.b, []float64{0.5, 0, -0.125, 0}, 1e-15)

	require.NoError(t, e.SetGain(2))
	assert.Equal(t, 2.0, e.Gain())
	testutil.RequireSliceNearlyEqual(t, rec.b, []float64{2, 0, -0.5, 0}, 1e-15)
	require.ErrorIs(t, e.SetGain(math.NaN()), ErrInvalidPoint)

	cfg := ApplyEditorOptions(WithTolerance(-1), WithGain(math.Inf(1)), nil)
	assert.Equal(t, DefaultTolerance, cfg.Tolerance)
	assert.Equal(t, 1.0, cfg.Gain)
}

func TestEditor_RefreshAndAddConsumer(t *testing.T) {
	e := NewEditor()
	rec := &recorder{}
	e.AddConsumer(rec)
	e.AddConsumer(nil)

	require.NoError(t, e.Refresh())
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, []float64{1}, rec.b)
	assert.Equal(t, []float64{1}, rec.a)
}

func TestEditor_ModeToggles(t *testing.T) {
	e := NewEditor()

	assert.Equal(t, Modes{}, e.Modes())
	assert.Equal(t, KindZero, e.Modes().Active())

	assert.True(t, e.ToggleConjugate())
	assert.False(t, e.ToggleConjugate())
	assert.True(t, e.ToggleDelete())

	e.SetPoleMode(true)
	assert.Equal(t, Modes{PoleMode: true, DeleteMode: true}, e.Modes())
	assert.Equal(t, KindPole, e.Modes().Active())
}

func TestEditor_ConcurrentEditsAreSerialized(t *testing.T) {
	e, _ := newTestEditor(t)

	const n = 32
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Spread points on a line so none is within tolerance of another.
			_ = e.PlacePoint(complex(-1.6+0.1*float64(i), 0.3))
		}(i)
	}
	wg.Wait()

	assert.Len(t, e.Zeros(), n)
	undo, _ := e.HistoryDepth()
	assert.Equal(t, n, undo)
}
