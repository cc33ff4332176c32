package table

import "errors"

// ErrAlreadyInitialized is returned by Initialize on a table that has
// already been initialized.
var ErrAlreadyInitialized = errors.New("table: observation table is already initialized")

// ErrNotInitialized is returned by operations that require an
// initialized table.
var ErrNotInitialized = errors.New("table: observation table is not initialized")

// ErrAlreadyPresent is returned by an S/SA insertion asked to add a word
// that is already a member of S or SA.
var ErrAlreadyPresent = errors.New("table: word is already a row of the table")

// ErrNotClosed / ErrNotConsistent guard ExtractHypothesis's precondition.
var (
	ErrNotClosed     = errors.New("table: observation table is not closed")
	ErrNotConsistent = errors.New("table: observation table is not consistent")
)

// ErrHypothesisExtraction signals a hypothesis-extraction fault: no
// class in S contains ε, multiple classes do, or a successor class
// cannot be located. It indicates the table was queried before being
// closed/consistent and should be treated as a bug.
var ErrHypothesisExtraction = errors.New("table: hypothesis extraction fault")
