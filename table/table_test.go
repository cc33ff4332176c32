package table_test

import (
	"testing"

	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/table"
	"github.com/lstarinfer/lstar/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeStateCyclic builds a three-state cyclic target: alphabet
// {a,b,c}, with a cycle back through S2/S1 to S0.
func threeStateCyclic(t *testing.T) *automaton.Machine[string, string] {
	t.Helper()
	m := automaton.New[string, string]("target")
	s0 := m.AddState("S0")
	s1 := m.AddState("S1")
	s2 := m.AddState("S2")
	require.NoError(t, m.SetInitial(s0))

	a := word.NewLetter("a")
	b := word.NewLetter("b")
	c := word.NewLetter("c")

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

func newBase(target *automaton.Machine[string, string]) *knowledge.Base[string, string] {
	tree := knowledge.New[string, string]()
	teacher := knowledge.NewFakeTeacher[string, string](target)
	return knowledge.NewBase[string, string](tree, teacher)
}

func TestObservationTableClosesAndExtractsThreeStateTarget(t *testing.T) {
	target := threeStateCyclic(t)
	base := newBase(target)
	tbl := table.New[string, string](alphabet(), base)

	require.NoError(t, tbl.Initialize())

	for !tbl.Closed() {
		require.NoError(t, tbl.Close())
	}
	for {
		inc := tbl.FindInconsistency()
		if inc == nil {
			break
		}
		require.NoError(t, tbl.MakeConsistent(inc))
		require.NoError(t, tbl.Close())
	}

	hyp, err := tbl.ExtractHypothesis()
	require.NoError(t, err)

	states, err := hyp.ReachableStates()
	require.NoError(t, err)
	assert.Len(t, states, 3)

	// Every word of length <= 3 over {a,b,c} must replay identically
	// between the hypothesis and the target.
	for _, w := range enumerateWords(3) {
		wantOut, _, err := target.Replay(w)
		require.NoError(t, err)
		gotOut, _, err := hyp.Replay(w)
		require.NoError(t, err)
		assert.True(t, wantOut.Equal(gotOut), "mismatch on %s: want %s got %s", w, wantOut, gotOut)
	}
}

func TestObservationTableInitializeTwiceFaults(t *testing.T) {
	target := threeStateCyclic(t)
	tbl := table.New[string, string](alphabet(), newBase(target))
	require.NoError(t, tbl.Initialize())
	assert.ErrorIs(t, tbl.Initialize(), table.ErrAlreadyInitialized)
}

func TestIntegrateCounterExampleKeepsTableExtractable(t *testing.T) {
	target := threeStateCyclic(t)
	base := newBase(target)
	tbl := table.New[string, string](alphabet(), base)
	require.NoError(t, tbl.Initialize())
	require.NoError(t, tbl.Close())

	in := word.New(word.NewLetter("b"), word.NewLetter("c"), word.NewLetter("a"))
	out, _, err := target.Replay(in)
	require.NoError(t, err)

	require.NoError(t, tbl.IntegrateCounterExample(in, out))
	require.NoError(t, tbl.Close())

	_, err = tbl.ExtractHypothesis()
	assert.NoError(t, err)
}

// enumerateWords returns every word of length 1..maxLen over {a,b,c}.
func enumerateWords(maxLen int) []word.Word[string] {
	letters := []word.Letter[string]{word.NewLetter("a"), word.NewLetter("b"), word.NewLetter("c")}
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
