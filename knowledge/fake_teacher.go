package knowledge

import (
	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/word"
)

// FakeTeacher answers membership queries by replaying a reference Mealy
// machine in memory, with no I/O at all. Used throughout this module's
// tests and by cmd/lstarctl's --fake mode for offline demonstration of
// the learner against a known target.
type FakeTeacher[I, O comparable] struct {
	target *automaton.Machine[I, O]
}

// NewFakeTeacher wraps target as a Teacher.
func NewFakeTeacher[I, O comparable](target *automaton.Machine[I, O]) *FakeTeacher[I, O] {
	return &FakeTeacher[I, O]{target: target}
}

// StartTarget is a no-op; there is nothing to bracket around an
// in-memory replay.
func (f *FakeTeacher[I, O]) StartTarget() error { return nil }

// StopTarget is a no-op.
func (f *FakeTeacher[I, O]) StopTarget() error { return nil }

// SubmitWord replays input against the reference machine.
func (f *FakeTeacher[I, O]) SubmitWord(input word.Word[I]) (word.Word[O], error) {
	output, _, err := f.target.Replay(input)
	return output, err
}
