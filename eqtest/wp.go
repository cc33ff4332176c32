package eqtest

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// replayCacheSize bounds the per-call memo of hyp.ReplayFrom results the
// characterisation-set search builds up. Unlike the knowledge tree,
// which must stay exact and unbounded since a missing entry means a
// real teacher invocation, this cache is purely derived from the
// hypothesis at hand and trivially recomputable, so bounding it costs
// nothing but memory.
const replayCacheSize = 4096

// WpMethod implements the Wp-method equivalence oracle:
// a transition cover combined with a characterisation set, extended by
// up to m-n extra letters to account for a target that may have more
// states than the current hypothesis.
type WpMethod[I, O comparable] struct {
	base     *knowledge.Base[I, O]
	alphabet []word.Letter[I]
	m        int
	logger   zerolog.Logger

	// replayCache memoizes ReplayFrom(state, word) during a single
	// FindCounterExample call; it is rebuilt for every call since state
	// IDs and their behaviour are only meaningful for one hypothesis.
	replayCache *lru.Cache[string, word.Word[O]]
}

// WpOption configures a WpMethod at construction.
type WpOption[I, O comparable] func(*WpMethod[I, O])

// WithWpLogger attaches a structured logger.
func WithWpLogger[I, O comparable](l zerolog.Logger) WpOption[I, O] {
	return func(w *WpMethod[I, O]) { w.logger = l }
}

// NewWpMethod builds a Wp-method oracle bounded by an assumed upper
// bound m on the target's state count.
func NewWpMethod[I, O comparable](base *knowledge.Base[I, O], alphabet []word.Letter[I], m int, opts ...WpOption[I, O]) *WpMethod[I, O] {
	w := &WpMethod[I, O]{base: base, alphabet: alphabet, m: m, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FindCounterExample implements Oracle.
func (w *WpMethod[I, O]) FindCounterExample(hyp *automaton.Machine[I, O]) (*word.Query[I, O], error) {
	cache, err := lru.New[string, word.Word[O]](replayCacheSize)
	if err != nil {
		return nil, fmt.Errorf("eqtest: allocate replay cache: %w", err)
	}
	w.replayCache = cache

	states := hyp.States()
	n := len(states)

	p, err := w.transitionCover(hyp, states)
	if err != nil {
		return nil, err
	}
	charSet, err := w.characterisationSet(hyp, states)
	if err != nil {
		return nil, err
	}

	z := w.zSet(charSet, n)
	w.logger.Debug().Int("P", len(p)).Int("W", len(charSet)).Int("Z", len(z)).Msg("eqtest: wp-method test suite built")

	t := make([]word.Word[I], 0, len(p)+len(z))
	t = append(t, p...)
	t = append(t, z...)

	// t[0] is P's leading ε entry; every other test case in T is checked
	// standalone. A distinguishing-word search that exhausted its budget
	// without finding one also falls back to the empty word, so guard
	// against that case too.
	for _, tc := range t[1:] {
		if tc.IsEmpty() {
			continue
		}
		ce, err := w.check(hyp, tc)
		if err != nil || ce != nil {
			return ce, err
		}
	}
	return nil, nil
}

func (w *WpMethod[I, O]) check(hyp *automaton.Machine[I, O], input word.Word[I]) (*word.Query[I, O], error) {
	hypOut, _, err := hyp.Replay(input)
	if err != nil {
		return nil, err
	}
	q := word.NewQuery[I, O](input)
	if err := w.base.Resolve(q); err != nil {
		return nil, err
	}
	if !hypOut.Equal(q.Output()) {
		return q, nil
	}
	return nil, nil
}

// transitionCover enumerates P: ε, then breadth-first
// every state's outgoing extension by every letter, whether or not the
// successor has already been visited.
func (w *WpMethod[I, O]) transitionCover(hyp *automaton.Machine[I, O], states []automaton.StateID) ([]word.Word[I], error) {
	initial, err := hyp.Initial()
	if err != nil {
		return nil, err
	}
	epsilon := word.Word[I]{}
	p := []word.Word[I]{epsilon}
	visited := map[automaton.StateID]bool{initial: true}
	queue := []struct {
		state automaton.StateID
		path  word.Word[I]
	}{{initial, epsilon}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range w.alphabet {
			t, err := hyp.Step(cur.state, a)
			if err != nil {
				return nil, err
			}
			extended := cur.path.Concat(word.New(a))
			p = append(p, extended)
			if !visited[t.Successor] {
				visited[t.Successor] = true
				queue = append(queue, struct {
					state automaton.StateID
					path  word.Word[I]
				}{t.Successor, extended})
			}
		}
	}
	return p, nil
}

// characterisationSet computes W: one distinguishing
// word per unordered pair of distinct states, with duplicates collapsed.
func (w *WpMethod[I, O]) characterisationSet(hyp *automaton.Machine[I, O], states []automaton.StateID) ([]word.Word[I], error) {
	n := len(states)
	seen := map[string]bool{}
	var out []word.Word[I]
	add := func(dw word.Word[I]) {
		if key := dw.Key(); !seen[key] {
			seen[key] = true
			out = append(out, dw)
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dw, err := w.distinguishingWord(hyp, states[i], states[j], n)
			if err != nil {
				return nil, err
			}
			add(dw)
		}
	}
	return out, nil
}

// distinguishingWord breadth-first searches for a word that
// distinguishes q from q', aborting after n² dequeues and falling back
// to ε.
func (w *WpMethod[I, O]) distinguishingWord(hyp *automaton.Machine[I, O], q, qPrime automaton.StateID, n int) (word.Word[I], error) {
	type candidate struct{ w word.Word[I] }
	var queue []candidate
	for _, a := range w.alphabet {
		queue = append(queue, candidate{word.New(a)})
	}

	budget := n * n
	for dequeues := 0; len(queue) > 0 && dequeues < budget; dequeues++ {
		cur := queue[0]
		queue = queue[1:]

		out1, err := w.replayFromCached(hyp, q, cur.w)
		if err != nil {
			return word.Word[I]{}, err
		}
		out2, err := w.replayFromCached(hyp, qPrime, cur.w)
		if err != nil {
			return word.Word[I]{}, err
		}
		if !out1.Equal(out2) {
			return cur.w, nil
		}
		for _, a := range w.alphabet {
			queue = append(queue, candidate{cur.w.Concat(word.New(a))})
		}
	}
	return word.Word[I]{}, nil
}

// replayFromCached memoizes hyp.ReplayFrom(state, w), since the
// characterisation-set search replays the same short candidate words
// from the same states many times over as it walks different state
// pairs.
func (w *WpMethod[I, O]) replayFromCached(hyp *automaton.Machine[I, O], state automaton.StateID, in word.Word[I]) (word.Word[O], error) {
	key := fmt.Sprintf("%d|%s", state, in.Key())
	if out, ok := w.replayCache.Get(key); ok {
		return out, nil
	}
	out, _, err := hyp.ReplayFrom(state, in)
	if err != nil {
		return word.Word[O]{}, err
	}
	w.replayCache.Add(key, out)
	return out, nil
}

// zSet builds Z = W ∪ X¹ ∪ … ∪ X^v, v = max(0, m-n).
func (w *WpMethod[I, O]) zSet(charSet []word.Word[I], n int) []word.Word[I] {
	v := w.m - n
	if v < 0 {
		v = 0
	}

	seen := map[string]bool{}
	z := make([]word.Word[I], 0, len(charSet))
	for _, cw := range charSet {
		seen[cw.Key()] = true
		z = append(z, cw)
	}

	xi := charSet
	for i := 0; i < v; i++ {
		var next []word.Word[I]
		for _, x := range xi {
			for _, a := range w.alphabet {
				for _, suffix := range charSet {
					candidate := x.Concat(word.New(a)).Concat(suffix)
					if key := candidate.Key(); !seen[key] {
						seen[key] = true
						next = append(next, candidate)
						z = append(z, candidate)
					}
				}
			}
		}
		xi = next
	}
	return z
}
