package lstar_test

import (
	"testing"

	lstar "github.com/lstarinfer/lstar"
	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/eqtest"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeStateCyclic builds a three-state cyclic target: alphabet
// {a,b,c}, with a cycle back through S2/S1 to S0. With max_states = 5
// and the Wp-method, the learned automaton has 3 states and replays
// identically to the target on every input word of length <= 6.
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

func alphabet() []word.Letter[string] {
	return []word.Letter[string]{word.NewLetter("a"), word.NewLetter("b"), word.NewLetter("c")}
}

func TestLearnerLearnsThreeStateCyclicTarget(t *testing.T) {
	target := threeStateCyclic(t)
	tree := knowledge.New[string, string]()
	teacher := knowledge.NewFakeTeacher[string, string](target)
	base := knowledge.NewBase[string, string](tree, teacher)

	oracle := eqtest.NewWpMethod[string, string](base, alphabet(), 5)
	learner := lstar.New[string, string](alphabet(), base, oracle)

	hyp, err := learner.Run()
	require.NoError(t, err)

	states, err := hyp.ReachableStates()
	require.NoError(t, err)
	assert.Len(t, states, 3)

	for _, w := range enumerateWords(alphabet(), 6) {
		wantOut, _, err := target.Replay(w)
		require.NoError(t, err)
		gotOut, _, err := hyp.Replay(w)
		require.NoError(t, err)
		assert.True(t, wantOut.Equal(gotOut), "mismatch on %s: want %s got %s", w, wantOut, gotOut)
	}
}

func TestLearnerStopReturnsCurrentHypothesis(t *testing.T) {
	target := threeStateCyclic(t)
	tree := knowledge.New[string, string]()
	teacher := knowledge.NewFakeTeacher[string, string](target)
	base := knowledge.NewBase[string, string](tree, teacher)

	oracle := eqtest.NewWpMethod[string, string](base, alphabet(), 5)
	learner := lstar.New[string, string](alphabet(), base, oracle)
	learner.Stop()

	hyp, err := learner.Run()
	require.NoError(t, err)
	assert.NotNil(t, hyp)
}

func enumerateWords(letters []word.Letter[string], maxLen int) []word.Word[string] {
	var out []word.Word[string]
	var seqs [][]word.Letter[string]
	seqs = append(seqs, nil)
	for len(seqs) > 0 && len(seqs[0]) <= maxLen {
		var next [][]word.Letter[string]
		for _, s := range seqs {
			if len(s) > 0 {
				out = append(out, word.New(s...))
			}
			if len(s) == maxLen {
				continue
			}
			for _, l := range letters {
				ns := append(append([]word.Letter[string]{}, s...), l)
				next = append(next, ns)
			}
		}
		seqs = next
	}
	return out
}
