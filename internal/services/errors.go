package services

import "errors"

// Service-level failures. Lookup misses are deliberately split into two
// sentinels so the caller can tell "no such student" from "student exists but
// is not assigned to any exam" when rendering the outcome.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrExamNotFound    = errors.New("exam not found")
	ErrNoExamAssigned  = errors.New("student has no exam assigned")

	// ErrEmptyStudentList rejects an exam save with no selected students.
	ErrEmptyStudentList = errors.New("exam requires at least one assigned student")

	// ErrUnknownStudent rejects an exam save referencing a student id that is
	// not in the registry at save time.
	ErrUnknownStudent = errors.New("exam references unknown student")
)
