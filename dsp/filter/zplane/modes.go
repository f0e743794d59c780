package zplane

import "fmt"

// Kind distinguishes zeros from poles.
type Kind int

const (
	KindZero Kind = iota
	KindPole
)

// String returns "zero" or "pole".
func (k Kind) String() string {
	switch k {
	case KindZero:
		return "zero"
	case KindPole:
		return "pole"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the persistence label of a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "zero":
		return KindZero, nil
	case "pole":
		return KindPole, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrMalformedRecord, s)
	}
}

// Modes are the orthogonal session flags that decide how a pointer
// interaction is interpreted. They are not part of the undo history.
type Modes struct {
	PoleMode      bool
	DeleteMode    bool
	ConjugateMode bool
}

// Active returns the point kind edited in the current mode.
func (m Modes) Active() Kind {
	if m.PoleMode {
		return KindPole
	}

	return KindZero
}
