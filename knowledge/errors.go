package knowledge

import "errors"

// ErrCacheConflict is returned when an insertion's output letter
// disagrees with one already stored for the same input prefix. It
// indicates a non-deterministic teacher or a caller bug and is always
// surfaced, never recovered from.
var ErrCacheConflict = errors.New("knowledge: conflicting output for the same input prefix")

// ErrTeacherFailure wraps any error returned by a Teacher's StartTarget,
// SubmitWord, or StopTarget. The learner
// does not retry; the caller decides whether to restart learning.
type ErrTeacherFailure struct {
	Err error
}

func (e *ErrTeacherFailure) Error() string {
	return "knowledge: teacher failure: " + e.Err.Error()
}

func (e *ErrTeacherFailure) Unwrap() error {
	return e.Err
}
