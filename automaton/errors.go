package automaton

import "errors"

var (
	// ErrNoInitialState is returned when a machine has no designated
	// initial state.
	ErrNoInitialState = errors.New("automaton: no initial state set")

	// ErrUnknownState is returned when a StateID does not belong to the
	// machine it was presented to.
	ErrUnknownState = errors.New("automaton: unknown state")

	// ErrIncompleteTransition is returned by Step when a state has no
	// transition for the given input letter. A machine built by
	// hypothesis extraction is complete by construction
	// and never triggers this; it exists for machines built by hand or
	// parsed from DOT.
	ErrIncompleteTransition = errors.New("automaton: no transition for input letter")

	// ErrEmptyWord is returned by Replay when asked to replay a
	// zero-length word; a replay requires at least one input letter.
	ErrEmptyWord = errors.New("automaton: cannot replay an empty word")
)
