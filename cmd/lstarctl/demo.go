package main

import (
	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/word"
)

// demoTarget builds a three-state cyclic Mealy machine: alphabet
// {a,b,c}, a cycle back through S2/S1 to S0. --fake wires the learner
// against this instead of a live TCP target, for offline smoke-testing.
func demoTarget() *automaton.Machine[string, string] {
	m := automaton.New[string, string]("demo-target")
	s0 := m.AddState("S0")
	s1 := m.AddState("S1")
	s2 := m.AddState("S2")
	_ = m.SetInitial(s0)

	a, b, c := word.NewLetter("a"), word.NewLetter("b"), word.NewLetter("c")
	add := func(from automaton.StateID, in word.Letter[string], out string, to automaton.StateID) {
		_ = m.AddTransition(from, in, word.NewLetter(out), to)
	}
	add(s0, a, "1", s0)
	add(s0, b, "2", s1)
	add(s0, c, "3", s2)
	add(s1, a, "2", s1)
	add(s1, b, "3", s1)
	add(s1, c, "1", s0)
	add(s2, a, "2", s2)
	add(s2, b, "3", s2)
	add(s2, c, "1", s1)
	return m
}

func demoAlphabet() []word.Letter[string] {
	return []word.Letter[string]{word.NewLetter("a"), word.NewLetter("b"), word.NewLetter("c")}
}
