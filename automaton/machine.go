// Package automaton implements the Mealy machine data type: states,
// labelled transitions, word replay, and reachable-state enumeration.
//
// States live in an arena owned by the Machine and are addressed by
// index rather than by shared ownership, so construction, replay, and
// traversal are allocation-free once the arena is filled. Mealy automata
// are intrinsically cyclic, and Go has no natural cheap shared-ownership
// pointer for cyclic graphs the way a GC'd OOP
// language does.
package automaton

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lstarinfer/lstar/word"
)

// StateID addresses a state within a single Machine's arena. A StateID
// from one Machine is meaningless against another.
type StateID int

// InvalidState is returned by lookups that fail to find a state.
const InvalidState StateID = -1

// Transition is a labelled edge: from a given state, on a given input
// letter, emit a given output letter and move to a given successor
// state. Name is a unique identifier minted by AddTransition. WriteDOT
// does not write it, so a transition reconstructed by ParseDOT gets a
// fresh Name rather than the one it was exported with.
type Transition[I, O comparable] struct {
	Name      string
	Input     word.Letter[I]
	Output    word.Letter[O]
	Successor StateID
}

// state is the arena record for one machine state.
type state[I, O comparable] struct {
	name        string
	transitions []Transition[I, O]
}

// Machine is a deterministic Mealy machine: a designated initial state
// plus a set of states reachable from it, each with at most one
// transition per input letter. A machine extracted from a closed,
// consistent observation table is additionally
// *complete*: exactly one transition per letter of the input alphabet.
type Machine[I, O comparable] struct {
	Name    string
	states  []state[I, O]
	initial StateID
}

// New creates an empty machine named name, with no states.
func New[I, O comparable](name string) *Machine[I, O] {
	return &Machine[I, O]{Name: name, initial: InvalidState}
}

// AddState appends a new, transition-less state named stateName and
// returns its id.
func (m *Machine[I, O]) AddState(stateName string) StateID {
	m.states = append(m.states, state[I, O]{name: stateName})
	return StateID(len(m.states) - 1)
}

// SetInitial designates s as the machine's initial state.
func (m *Machine[I, O]) SetInitial(s StateID) error {
	if !m.valid(s) {
		return ErrUnknownState
	}
	m.initial = s
	return nil
}

// Initial returns the machine's initial state.
func (m *Machine[I, O]) Initial() (StateID, error) {
	if m.initial == InvalidState {
		return InvalidState, ErrNoInitialState
	}
	return m.initial, nil
}

// StateName returns the name given to s.
func (m *Machine[I, O]) StateName(s StateID) (string, error) {
	if !m.valid(s) {
		return "", ErrUnknownState
	}
	return m.states[s].name, nil
}

// States returns every state id in the machine, in arena order.
func (m *Machine[I, O]) States() []StateID {
	out := make([]StateID, len(m.states))
	for i := range m.states {
		out[i] = StateID(i)
	}
	return out
}

// Transitions returns the outgoing transitions of s.
func (m *Machine[I, O]) Transitions(s StateID) ([]Transition[I, O], error) {
	if !m.valid(s) {
		return nil, ErrUnknownState
	}
	return m.states[s].transitions, nil
}

// AddTransition adds a transition from -- input/output --> to, minting a
// fresh unique name for it.
func (m *Machine[I, O]) AddTransition(from StateID, input word.Letter[I], output word.Letter[O], to StateID) error {
	if !m.valid(from) || !m.valid(to) {
		return ErrUnknownState
	}
	m.states[from].transitions = append(m.states[from].transitions, Transition[I, O]{
		Name:      uuid.NewString(),
		Input:     input,
		Output:    output,
		Successor: to,
	})
	return nil
}

// Step returns the unique transition out of s labelled with input,
// returning ErrIncompleteTransition if none matches.
func (m *Machine[I, O]) Step(s StateID, input word.Letter[I]) (Transition[I, O], error) {
	if !m.valid(s) {
		return Transition[I, O]{}, ErrUnknownState
	}
	for _, t := range m.states[s].transitions {
		if t.Input.Equal(input) {
			return t, nil
		}
	}
	return Transition[I, O]{}, fmt.Errorf("%w: state %q, letter %s", ErrIncompleteTransition, m.states[s].name, input)
}

// Replay feeds w into the machine starting from its initial state and
// returns the output word it produces, together with the trajectory of
// states visited (trajectory[0] is the initial state; trajectory[i+1] is
// the state reached after consuming w.At(i)). The output word always
// has the same length as w.
func (m *Machine[I, O]) Replay(w word.Word[I]) (word.Word[O], []StateID, error) {
	start, err := m.Initial()
	if err != nil {
		return word.Word[O]{}, nil, err
	}
	return m.ReplayFrom(start, w)
}

// ReplayFrom is Replay starting from an arbitrary state, used by
// equivalence oracles to compare behaviour between two states of the
// same hypothesis.
func (m *Machine[I, O]) ReplayFrom(start StateID, w word.Word[I]) (word.Word[O], []StateID, error) {
	if w.IsEmpty() {
		return word.Word[O]{}, nil, ErrEmptyWord
	}
	if !m.valid(start) {
		return word.Word[O]{}, nil, ErrUnknownState
	}
	trajectory := make([]StateID, 0, w.Len()+1)
	trajectory = append(trajectory, start)
	outputs := make([]word.Letter[O], 0, w.Len())
	cur := start
	for _, in := range w.Letters() {
		t, err := m.Step(cur, in)
		if err != nil {
			return word.Word[O]{}, nil, err
		}
		outputs = append(outputs, t.Output)
		cur = t.Successor
		trajectory = append(trajectory, cur)
	}
	return word.New(outputs...), trajectory, nil
}

// ReachableStates enumerates every state reachable from the initial
// state, via breadth-first traversal, in the order first discovered.
func (m *Machine[I, O]) ReachableStates() ([]StateID, error) {
	start, err := m.Initial()
	if err != nil {
		return nil, err
	}
	seen := map[StateID]bool{start: true}
	order := []StateID{start}
	queue := []StateID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range m.states[cur].transitions {
			if seen[t.Successor] {
				continue
			}
			seen[t.Successor] = true
			order = append(order, t.Successor)
			queue = append(queue, t.Successor)
		}
	}
	return order, nil
}

func (m *Machine[I, O]) valid(s StateID) bool {
	return s >= 0 && int(s) < len(m.states)
}
