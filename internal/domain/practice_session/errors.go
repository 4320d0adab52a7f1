package practicesession

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmitted is returned for mutations attempted after submission.
	ErrSubmitted = errors.New("quiz already submitted")

	// ErrNoSession is returned when no quiz has been loaded.
	ErrNoSession = errors.New("no quiz session")

	// ErrNoQuestions is returned when a load provides an empty bank.
	ErrNoQuestions = errors.New("no questions found")

	// ErrNoQuestionsAvailable is returned when the level filter leaves nothing to draw.
	ErrNoQuestionsAvailable = errors.New("no questions available")

	// ErrInvalidAnswer is returned for an out-of-range index or unknown option.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// RejectionError is a refused state transition. Message is shown to the
// user as is; the wrapped sentinel lets callers branch with errors.Is.
type RejectionError struct {
	Message string
	Wrapped error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
}

func (e *RejectionError) Unwrap() error {
	return e.Wrapped
}

func reject(sentinel error, message string) error {
	return &RejectionError{Message: message, Wrapped: sentinel}
}
