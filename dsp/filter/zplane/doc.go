// Package zplane implements an interactive zero/pole editor for
// discrete-time filters.
//
// An [Editor] owns the current zeros and poles, the undo/redo [History] and
// the session mode flags. It receives complex-plane coordinates from a
// pointer layer (already mapped from pixels), mutates its state and pushes
// the derived transfer-function coefficients to every registered [Consumer]
// after each edit. Rendering and file dialogs stay outside of this package;
// persistence is exposed as CSV records via [WriteCSV] and [ReadCSV].
//
// Coefficients are derived with [zpk.EnforceConjugates] applied to both root
// sets, so a single complex point placed without its mirror still yields a
// real-coefficient filter. The editable sets themselves are never
// symmetrized.
package zplane
