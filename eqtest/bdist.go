package eqtest

import (
	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// BDist implements the bounded-distinguisher equivalence oracle
//: for each state and each letter, it compares the
// target's behaviour one letter past a shortest-path representative
// against the hypothesis's prediction, using precomputed suffixes up to
// depth k to separate states the hypothesis may have merged.
type BDist[I, O comparable] struct {
	base     *knowledge.Base[I, O]
	alphabet []word.Letter[I]
	k        int
	logger   zerolog.Logger
}

// BDistOption configures a BDist at construction.
type BDistOption[I, O comparable] func(*BDist[I, O])

// WithBDistLogger attaches a structured logger.
func WithBDistLogger[I, O comparable](l zerolog.Logger) BDistOption[I, O] {
	return func(b *BDist[I, O]) { b.logger = l }
}

// NewBDist builds a bounded-distinguisher oracle that probes k letters
// past the point two states may have been merged.
func NewBDist[I, O comparable](base *knowledge.Base[I, O], alphabet []word.Letter[I], k int, opts ...BDistOption[I, O]) *BDist[I, O] {
	b := &BDist[I, O]{base: base, alphabet: alphabet, k: k, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FindCounterExample implements Oracle.
func (b *BDist[I, O]) FindCounterExample(hyp *automaton.Machine[I, O]) (*word.Query[I, O], error) {
	rep, err := shortestRepresentatives(hyp)
	if err != nil {
		return nil, err
	}
	suffixes := enumerateSuffixes(b.alphabet, b.k)

	for _, q := range hyp.States() {
		for _, a := range b.alphabet {
			wi := rep[q].Concat(word.New(a))

			hypOut, _, err := hyp.Replay(wi)
			if err != nil {
				return nil, err
			}
			tq := word.NewQuery[I, O](wi)
			if err := b.base.Resolve(tq); err != nil {
				return nil, err
			}
			if !tq.Output().Last().Equal(hypOut.Last()) {
				return tq, nil
			}

			t, err := hyp.Step(q, a)
			if err != nil {
				return nil, err
			}
			wiPrime := rep[t.Successor]
			if wi.Equal(wiPrime) {
				continue
			}

			for _, s := range suffixes {
				ce, err := b.probeSuffix(hyp, wi, wiPrime, s)
				if err != nil || ce != nil {
					return ce, err
				}
			}
		}
	}
	return nil, nil
}

// probeSuffix checks whether s separates wi from wiPrime in the target
// but not in the hypothesis, returning whichever side disagrees with the
// hypothesis's own prediction.
func (b *BDist[I, O]) probeSuffix(hyp *automaton.Machine[I, O], wi, wiPrime, s word.Word[I]) (*word.Query[I, O], error) {
	q1 := word.NewQuery[I, O](wi.Concat(s))
	if err := b.base.Resolve(q1); err != nil {
		return nil, err
	}
	q2 := word.NewQuery[I, O](wiPrime.Concat(s))
	if err := b.base.Resolve(q2); err != nil {
		return nil, err
	}
	if q1.Output().Last().Equal(q2.Output().Last()) {
		return nil, nil
	}

	hypOut1, _, err := hyp.Replay(q1.Input())
	if err != nil {
		return nil, err
	}
	if !hypOut1.Last().Equal(q1.Output().Last()) {
		return q1, nil
	}
	hypOut2, _, err := hyp.Replay(q2.Input())
	if err != nil {
		return nil, err
	}
	if !hypOut2.Last().Equal(q2.Output().Last()) {
		return q2, nil
	}
	return nil, nil
}

// shortestRepresentatives computes rep: states -> words, a shortest
// input word reaching each state, via breadth-first search from the
// initial state.
func shortestRepresentatives[I, O comparable](hyp *automaton.Machine[I, O]) (map[automaton.StateID]word.Word[I], error) {
	initial, err := hyp.Initial()
	if err != nil {
		return nil, err
	}
	rep := map[automaton.StateID]word.Word[I]{initial: {}}
	queue := []automaton.StateID{initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		transitions, err := hyp.Transitions(cur)
		if err != nil {
			return nil, err
		}
		for _, t := range transitions {
			if _, seen := rep[t.Successor]; seen {
				continue
			}
			rep[t.Successor] = rep[cur].Concat(word.New(t.Input))
			queue = append(queue, t.Successor)
		}
	}
	return rep, nil
}

// enumerateSuffixes returns every word of length 1..k over alphabet.
func enumerateSuffixes[I comparable](alphabet []word.Letter[I], k int) []word.Word[I] {
	var out []word.Word[I]
	frontier := []word.Word[I]{{}}
	for depth := 0; depth < k; depth++ {
		var next []word.Word[I]
		for _, w := range frontier {
			for _, a := range alphabet {
				extended := w.Concat(word.New(a))
				out = append(out, extended)
				next = append(next, extended)
			}
		}
		frontier = next
	}
	return out
}
