package zplane

import "fmt"

// EventKind classifies a pointer event.
type EventKind int

const (
	EventPress EventKind = iota
	EventMove
	EventRelease
)

// Button identifies the pointer button that fired.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
)

// PointerEvent is a pointer interaction already resolved to a z-plane
// coordinate.
type PointerEvent struct {
	Kind     EventKind
	Button   Button
	Location complex128
}

// HandleEvent dispatches a pointer event:
//
//   - primary press: in delete mode remove the nearest point; otherwise
//     start dragging a nearby point, or place a new one if none is near
//   - secondary press: remove the nearest point of the active kind
//   - move: update an active drag
//   - release: end an active drag
func (e *Editor) HandleEvent(ev PointerEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Kind {
	case EventPress:
		switch ev.Button {
		case ButtonPrimary:
			if e.modes.DeleteMode {
				return e.placeLocked(ev.Location)
			}

			started, err := e.beginDragLocked(ev.Location)
			if err != nil || started {
				return err
			}

			return e.placeLocked(ev.Location)
		case ButtonSecondary:
			return e.removeLocked(ev.Location)
		default:
			return nil
		}
	case EventMove:
		e.updateDragLocked(ev.Location)
		return nil
	case EventRelease:
		return e.finishDragLocked()
	default:
		return fmt.Errorf("zplane: unknown event kind %d", int(ev.Kind))
	}
}
