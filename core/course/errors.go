package course

import (
	"errors"
	"fmt"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrVideoNotFound   = errors.New("video not found")
	ErrNoCourses       = errors.New("no courses found")
	ErrChapterExists   = errors.New("chapter number already exists")

	// ErrUnchanged is returned from a Mutate callback to end the
	// transaction without writing anything.
	ErrUnchanged = errors.New("course unchanged")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrChapterNotFound) ||
		errors.Is(err, ErrVideoNotFound) ||
		errors.Is(err, ErrNoCourses)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
