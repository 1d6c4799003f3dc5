package graph

import "errors"

var (
	// ErrMalformed is returned when a textual graph cannot be parsed.
	ErrMalformed = errors.New("malformed graph")
	// ErrInvalidPath is returned when a path does not address an element.
	ErrInvalidPath = errors.New("invalid path")
	// ErrNotDoubleCut is returned when DoubleCut is applied to a cut that
	// does not hold exactly one nested cut and nothing else.
	ErrNotDoubleCut = errors.New("not a double cut")
	// ErrUnknownRule is returned for rule names that are not supported.
	ErrUnknownRule = errors.New("unknown rule")
)
