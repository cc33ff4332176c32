package automaton_test

import (
	"strings"
	"testing"

	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoStateToggle(t *testing.T) *automaton.Machine[string, string] {
	t.Helper()
	m := automaton.New[string, string]("toggle")
	off := m.AddState("off")
	on := m.AddState("on")
	require.NoError(t, m.SetInitial(off))

	flip := word.NewLetter("flip")
	require.NoError(t, m.AddTransition(off, flip, word.NewLetter("was-off"), on))
	require.NoError(t, m.AddTransition(on, flip, word.NewLetter("was-on"), off))
	return m
}

func TestReplayProducesExpectedOutputAndTrajectory(t *testing.T) {
	m := twoStateToggle(t)
	in := word.New(word.NewLetter("flip"), word.NewLetter("flip"), word.NewLetter("flip"))

	out, trajectory, err := m.Replay(in)
	require.NoError(t, err)
	assert.Equal(t, "was-off", out.At(0).Key())
	assert.Equal(t, "was-on", out.At(1).Key())
	assert.Equal(t, "was-off", out.At(2).Key())
	assert.Len(t, trajectory, 4)
}

func TestReplayEmptyWordFails(t *testing.T) {
	m := twoStateToggle(t)
	_, _, err := m.Replay(word.Word[string]{})
	assert.ErrorIs(t, err, automaton.ErrEmptyWord)
}

func TestStepIncompleteTransition(t *testing.T) {
	m := automaton.New[string, string]("partial")
	s := m.AddState("s")
	require.NoError(t, m.SetInitial(s))

	_, err := m.Step(s, word.NewLetter("unknown"))
	assert.ErrorIs(t, err, automaton.ErrIncompleteTransition)
}

func TestReachableStatesFindsBothStates(t *testing.T) {
	m := twoStateToggle(t)
	states, err := m.ReachableStates()
	require.NoError(t, err)
	assert.Len(t, states, 2)
}

func TestWriteAndParseDOTRoundTrip(t *testing.T) {
	m := twoStateToggle(t)
	var buf strings.Builder
	require.NoError(t, automaton.WriteDOT(&buf, m))

	inputVocab := word.NewVocabulary(word.NewLetter("flip"))
	outputVocab := word.NewVocabulary(word.NewLetter("was-off"), word.NewLetter("was-on"))

	parsed, err := automaton.ParseDOT(strings.NewReader(buf.String()), inputVocab, outputVocab)
	require.NoError(t, err)

	in := word.New(word.NewLetter("flip"), word.NewLetter("flip"))
	wantOut, _, err := m.Replay(in)
	require.NoError(t, err)
	gotOut, _, err := parsed.Replay(in)
	require.NoError(t, err)
	assert.True(t, wantOut.Equal(gotOut))
}
