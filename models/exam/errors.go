package exam

import "errors"

var (
	// ErrNotFound covers a missing exam or a question that does not belong to it.
	ErrNotFound = errors.New("exam not found")
	// ErrAlreadyTaken signals the single-attempt invariant: an Attempt already
	// exists for this (student, exam) pair.
	ErrAlreadyTaken = errors.New("exam already taken")
)
