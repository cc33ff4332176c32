package eqtest_test

import (
	"testing"

	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/eqtest"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeStateCyclic(t *testing.T) *automaton.Machine[string, string] {
	t.Helper()
	m := automaton.New[string, string]("target")
	s0 := m.AddState("S0")
	s1 := m.AddState("S1")
	s2 := m.AddState("S2")
	require.NoError(t, m.SetInitial(s0))

	a, b, c := word.NewLetter("a"), word.NewLetter("b"), word.NewLetter("c")
	add := func(from automaton.StateID, in word.Letter[string], out string, to automaton.StateID) {
		require.NoError(t, m.AddTransition(from, in, word.NewLetter(out), to))
	}
	add(s0, a, "1", s0)
	add(s0, b, "2", s1)
	add(s0, c, "3", s2)
	add(s1, a, "2", s1)
	add(s1, b, "3", s1)
	add(s1, c, "1", s0)
	add(s2, a, "4", s2)
	add(s2, b, "3", s2)
	add(s2, c, "1", s1)
	return m
}

// twoStateMerge is a hypothesis that under-approximates threeStateCyclic
// by conflating S1 and S2 into a single state, so every oracle should be
// able to find a counter-example against the real target.
func twoStateMerge(t *testing.T) *automaton.Machine[string, string] {
	t.Helper()
	m := automaton.New[string, string]("hypothesis")
	s0 := m.AddState("q0")
	s1 := m.AddState("q1")
	require.NoError(t, m.SetInitial(s0))

	a, b, c := word.NewLetter("a"), word.NewLetter("b"), word.NewLetter("c")
	add := func(from automaton.StateID, in word.Letter[string], out string, to automaton.StateID) {
		require.NoError(t, m.AddTransition(from, in, word.NewLetter(out), to))
	}
	add(s0, a, "1", s0)
	add(s0, b, "2", s1)
	add(s0, c, "3", s1)
	add(s1, a, "2", s1)
	add(s1, b, "3", s1)
	add(s1, c, "1", s0)
	return m
}

func newBase(target *automaton.Machine[string, string]) *knowledge.Base[string, string] {
	tree := knowledge.New[string, string]()
	teacher := knowledge.NewFakeTeacher[string, string](target)
	return knowledge.NewBase[string, string](tree, teacher)
}

func alphabet() []word.Letter[string] {
	return []word.Letter[string]{word.NewLetter("a"), word.NewLetter("b"), word.NewLetter("c")}
}

func TestWpMethodFindsCounterExampleOnUnderApproximation(t *testing.T) {
	target := threeStateCyclic(t)
	base := newBase(target)
	oracle := eqtest.NewWpMethod[string, string](base, alphabet(), 5)

	ce, err := oracle.FindCounterExample(twoStateMerge(t))
	require.NoError(t, err)
	require.NotNil(t, ce)
	assert.True(t, ce.Resolved())
}

func TestWpMethodAcceptsExactHypothesis(t *testing.T) {
	target := threeStateCyclic(t)
	base := newBase(target)
	oracle := eqtest.NewWpMethod[string, string](base, alphabet(), 3)

	ce, err := oracle.FindCounterExample(target)
	require.NoError(t, err)
	assert.Nil(t, ce)
}

func TestBDistFindsCounterExampleOnUnderApproximation(t *testing.T) {
	target := threeStateCyclic(t)
	base := newBase(target)
	oracle := eqtest.NewBDist[string, string](base, alphabet(), 2)

	ce, err := oracle.FindCounterExample(twoStateMerge(t))
	require.NoError(t, err)
	require.NotNil(t, ce)
}

func TestRandomWalkFindsCounterExampleOnUnderApproximation(t *testing.T) {
	target := threeStateCyclic(t)
	base := newBase(target)
	oracle := eqtest.NewRandomWalk[string, string](base, 2000, 0.2, eqtest.WithSeed[string, string](42))

	ce, err := oracle.FindCounterExample(twoStateMerge(t))
	require.NoError(t, err)
	assert.NotNil(t, ce)
}

func TestCompositeReturnsWrappedOracleResult(t *testing.T) {
	target := threeStateCyclic(t)
	base := newBase(target)
	wp := eqtest.NewWpMethod[string, string](base, alphabet(), 5)
	composite := eqtest.NewComposite[string, string](wp)

	ce, err := composite.FindCounterExample(twoStateMerge(t))
	require.NoError(t, err)
	require.NotNil(t, ce)

	ce, err = composite.FindCounterExample(target)
	require.NoError(t, err)
	assert.Nil(t, ce)
}
