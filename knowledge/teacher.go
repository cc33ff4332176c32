package knowledge

import "github.com/lstarinfer/lstar/word"

// Teacher is the abstract contract the knowledge base submits cache
// misses to. Implementations range from an in-memory
// reference machine (see FakeTeacher in fake_teacher.go) to a network peer (package teacher/tcp).
//
// SubmitWord's returned word must have the same length as input; an
// implementation talking to a real channel should pad with the empty
// letter when the channel fails mid-exchange rather than return a short
// word.
type Teacher[I, O comparable] interface {
	// StartTarget brackets the beginning of a session with the target,
	// e.g. spawning a process or opening a connection.
	StartTarget() error

	// StopTarget brackets the end of a session. The knowledge base
	// guarantees it is called even if SubmitWord fails.
	StopTarget() error

	// SubmitWord asks the target what it outputs for input and returns
	// that output word. An error here is wrapped in ErrTeacherFailure by
	// the knowledge base and propagated to the caller without retry.
	SubmitWord(input word.Word[I]) (word.Word[O], error)
}
