// Package lstar drives the observation-table/equivalence-oracle loop
// that learns a Mealy machine from a teacher, via Angluin's L* algorithm
// adapted to output words instead of boolean membership answers.
package lstar

import (
	"sync/atomic"

	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/eqtest"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/table"
	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// Learner owns the observation table and an equivalence oracle, and
// drives them through the stabilise/extract/test loop: close and make
// the table consistent, extract a hypothesis, ask the oracle, and
// either return or integrate a counter-example and repeat.
type Learner[I, O comparable] struct {
	table  *table.Table[I, O]
	oracle eqtest.Oracle[I, O]
	logger zerolog.Logger
	stop   atomic.Bool
}

// Option configures a Learner at construction.
type Option[I, O comparable] func(*Learner[I, O])

// WithLogger attaches a structured logger.
func WithLogger[I, O comparable](l zerolog.Logger) Option[I, O] {
	return func(le *Learner[I, O]) { le.logger = l }
}

// New builds a Learner over the given input alphabet, query resolver,
// and equivalence oracle.
func New[I, O comparable](alphabet []word.Letter[I], base *knowledge.Base[I, O], oracle eqtest.Oracle[I, O], opts ...Option[I, O]) *Learner[I, O] {
	l := &Learner[I, O]{
		table:  table.New[I, O](alphabet, base),
		oracle: oracle,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stop requests that Run return the current hypothesis at the next
// opportunity. It is safe to call from a
// goroutine other than the one running Run.
func (l *Learner[I, O]) Stop() {
	l.stop.Store(true)
}

// Run executes the learner loop to completion: it initialises the
// table, then repeatedly stabilises it, extracts a hypothesis, and asks
// the oracle for a counter-example, integrating any it finds, until the
// oracle reports equivalence or Stop is observed. It returns the last
// hypothesis extracted.
func (l *Learner[I, O]) Run() (*automaton.Machine[I, O], error) {
	if err := l.table.Initialize(); err != nil {
		return nil, err
	}

	for {
		if err := l.stabilize(); err != nil {
			return nil, err
		}

		hyp, err := l.table.ExtractHypothesis()
		if err != nil {
			return nil, err
		}

		if l.stop.Load() {
			l.logger.Info().Msg("lstar: stop observed, returning current hypothesis")
			return hyp, nil
		}

		ce, err := l.oracle.FindCounterExample(hyp)
		if err != nil {
			return nil, err
		}
		if ce == nil {
			l.logger.Info().Msg("lstar: equivalence oracle found no counter-example, learning complete")
			return hyp, nil
		}

		l.logger.Debug().Str("counter_example", ce.String()).Msg("lstar: integrating counter-example")
		if err := l.table.IntegrateCounterExample(ce.Input(), ce.Output()); err != nil {
			return nil, err
		}
	}
}

// stabilize repeatedly closes the table and resolves any inconsistency
// it finds until both conditions hold at once.
func (l *Learner[I, O]) stabilize() error {
	for {
		if !l.table.Closed() {
			if err := l.table.Close(); err != nil {
				return err
			}
			continue
		}
		inc := l.table.FindInconsistency()
		if inc == nil {
			return nil
		}
		if err := l.table.MakeConsistent(inc); err != nil {
			return err
		}
	}
}

// Table exposes the learner's observation table, primarily for
// inspection and debugging (table.Table.Dump).
func (l *Learner[I, O]) Table() *table.Table[I, O] {
	return l.table
}
