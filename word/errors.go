package word

import "errors"

// ErrLengthMismatch is returned when an output word's length does not
// match its query's input word length.
var ErrLengthMismatch = errors.New("word: input/output length mismatch")
