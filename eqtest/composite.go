package eqtest

import (
	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// Composite tries an ordered list of oracles in turn and returns the
// first counter-example any of them finds.
type Composite[I, O comparable] struct {
	oracles []Oracle[I, O]
	logger  zerolog.Logger
}

// NewComposite wraps oracles, tried in the given order.
func NewComposite[I, O comparable](oracles ...Oracle[I, O]) *Composite[I, O] {
	return &Composite[I, O]{oracles: oracles, logger: zerolog.Nop()}
}

// WithCompositeLogger attaches a structured logger.
func (c *Composite[I, O]) WithCompositeLogger(l zerolog.Logger) *Composite[I, O] {
	c.logger = l
	return c
}

// FindCounterExample implements Oracle.
func (c *Composite[I, O]) FindCounterExample(hyp *automaton.Machine[I, O]) (*word.Query[I, O], error) {
	for i, o := range c.oracles {
		ce, err := o.FindCounterExample(hyp)
		if err != nil {
			return nil, err
		}
		if ce != nil {
			c.logger.Debug().Int("oracle_index", i).Str("counter_example", ce.String()).Msg("eqtest: composite oracle found counter-example")
			return ce, nil
		}
	}
	return nil, nil
}
