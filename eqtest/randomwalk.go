package eqtest

import (
	"math/rand"
	"time"

	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// RandomWalk implements the random-walk equivalence oracle: it wanders the hypothesis, occasionally checking its
// accumulated prediction against the target before restarting.
type RandomWalk[I, O comparable] struct {
	base               *knowledge.Base[I, O]
	maxSteps           int
	restartProbability float64
	rng                *rand.Rand
	logger             zerolog.Logger
}

// RandomWalkOption configures a RandomWalk at construction.
type RandomWalkOption[I, O comparable] func(*RandomWalk[I, O])

// WithRandomWalkLogger attaches a structured logger.
func WithRandomWalkLogger[I, O comparable](l zerolog.Logger) RandomWalkOption[I, O] {
	return func(r *RandomWalk[I, O]) { r.logger = l }
}

// WithSeed fixes the oracle's random source, for reproducible test runs.
func WithSeed[I, O comparable](seed int64) RandomWalkOption[I, O] {
	return func(r *RandomWalk[I, O]) { r.rng = rand.New(rand.NewSource(seed)) }
}

// NewRandomWalk builds a random-walk oracle that takes at most maxSteps
// transitions, restarting with probability restartProbability at each
// step once it has moved past the state it last restarted into.
func NewRandomWalk[I, O comparable](base *knowledge.Base[I, O], maxSteps int, restartProbability float64, opts ...RandomWalkOption[I, O]) *RandomWalk[I, O] {
	r := &RandomWalk[I, O]{
		base:               base,
		maxSteps:           maxSteps,
		restartProbability: restartProbability,
		rng:                rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindCounterExample implements Oracle.
func (r *RandomWalk[I, O]) FindCounterExample(hyp *automaton.Machine[I, O]) (*word.Query[I, O], error) {
	state, err := hyp.Initial()
	if err != nil {
		return nil, err
	}
	accIn := word.Word[I]{}
	accOut := word.Word[O]{}
	justRestarted := true

	for step := 0; step < r.maxSteps; step++ {
		if !justRestarted && r.rng.Float64() < r.restartProbability {
			if !accIn.IsEmpty() {
				ce, err := r.checkAccumulated(accIn, accOut)
				if err != nil || ce != nil {
					return ce, err
				}
			}
			state, err = hyp.Initial()
			if err != nil {
				return nil, err
			}
			accIn = word.Word[I]{}
			accOut = word.Word[O]{}
			justRestarted = true
			continue
		}
		justRestarted = false

		transitions, err := hyp.Transitions(state)
		if err != nil {
			return nil, err
		}
		if len(transitions) == 0 {
			r.logger.Warn().Msg("eqtest: random walk reached a state with no outgoing transitions")
			break
		}
		t := transitions[r.rng.Intn(len(transitions))]
		accIn = accIn.Concat(word.New(t.Input))
		accOut = accOut.Concat(word.New(t.Output))
		state = t.Successor
	}
	return nil, nil
}

func (r *RandomWalk[I, O]) checkAccumulated(accIn word.Word[I], accOut word.Word[O]) (*word.Query[I, O], error) {
	q := word.NewQuery[I, O](accIn)
	if err := r.base.Resolve(q); err != nil {
		return nil, err
	}
	if !q.Output().Equal(accOut) {
		return q, nil
	}
	return nil, nil
}
