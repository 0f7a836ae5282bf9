package blade

import (
	"errors"

	"github.com/etekin/blade/internal/viterbi"
)

var (
	// ErrAlreadyRegistered is returned by AddSymbology when a symbology
	// of that name is already registered on the engine.
	ErrAlreadyRegistered = errors.New("blade: symbology already registered")

	// ErrInvalidOption is returned when an option value is out of its
	// accepted range.
	ErrInvalidOption = errors.New("blade: invalid option")

	// ErrEmptyImage is returned when New is given a zero-sized image.
	ErrEmptyImage = errors.New("blade: empty image")

	// ErrInconsistent is returned when the Viterbi solver's layer counts
	// or matrix shapes disagree — a usage error, not an expected decode
	// outcome.
	ErrInconsistent = viterbi.ErrInconsistent
)
