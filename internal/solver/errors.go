package solver

import "errors"

var (
	// ErrInvalidLength is returned when a word is not exactly WordLen characters.
	ErrInvalidLength = errors.New("word must be 5 characters")

	// ErrIncompleteFilter is returned when a Filter is applied before every
	// position received a verdict.
	ErrIncompleteFilter = errors.New("filter needs exactly one verdict per position")
)
