// Package eqtest implements the equivalence-testing strategies that
// decide whether a learner's hypothesis already matches the target, and
// produce a counter-example query when it doesn't.
package eqtest

import (
	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/word"
)

// Oracle is the common contract every equivalence-testing strategy
// implements: given a hypothesis, either confirm it against the
// knowledge base or hand back a disagreeing query.
type Oracle[I, O comparable] interface {
	FindCounterExample(hyp *automaton.Machine[I, O]) (*word.Query[I, O], error)
}
