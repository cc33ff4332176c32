package knowledge

import (
	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// Base resolves membership queries by first trying the knowledge tree
// and, on a miss, bracketing a single Teacher invocation and caching the
// result. It guarantees at-most-one teacher
// invocation per distinct input word for its lifetime: all
// downstream components must route every membership query through
// Resolve rather than calling the teacher directly.
type Base[I, O comparable] struct {
	tree    *Tree[I, O]
	teacher Teacher[I, O]
	logger  zerolog.Logger
	stats   Stats
}

// BaseOption configures a Base at construction.
type BaseOption[I, O comparable] func(*Base[I, O])

// WithBaseLogger attaches a structured logger.
func WithBaseLogger[I, O comparable](l zerolog.Logger) BaseOption[I, O] {
	return func(b *Base[I, O]) { b.logger = l }
}

// NewBase creates a query resolver over tree and teacher.
func NewBase[I, O comparable](tree *Tree[I, O], teacher Teacher[I, O], opts ...BaseOption[I, O]) *Base[I, O] {
	b := &Base[I, O]{tree: tree, teacher: teacher, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Resolve sets q's output word, serving from the tree on a cache hit and
// otherwise invoking the teacher within a StartTarget/StopTarget bracket
// and populating the tree. StopTarget always runs once
// StartTarget has succeeded, even if SubmitWord fails.
func (b *Base[I, O]) Resolve(q *word.Query[I, O]) error {
	b.stats.Queries++
	b.stats.Letters += q.Input().Len()

	if output, ok := b.tree.Lookup(q.Input()); ok {
		b.logger.Debug().Str("input", q.Input().String()).Msg("knowledge: cache hit")
		return q.SetOutput(output)
	}

	b.logger.Debug().Str("input", q.Input().String()).Msg("knowledge: cache miss, invoking teacher")
	b.stats.SubmittedQueries++
	b.stats.SubmittedLetters += q.Input().Len()

	if err := b.teacher.StartTarget(); err != nil {
		return &ErrTeacherFailure{Err: err}
	}
	output, submitErr := b.teacher.SubmitWord(q.Input())
	if stopErr := b.teacher.StopTarget(); stopErr != nil && submitErr == nil {
		submitErr = stopErr
	}
	if submitErr != nil {
		return &ErrTeacherFailure{Err: submitErr}
	}

	if err := q.SetOutput(output); err != nil {
		return err
	}
	if err := b.tree.Insert(q.Input(), output); err != nil {
		return err
	}
	return nil
}

// Stats returns a snapshot of the base's query resolution counters.
func (b *Base[I, O]) Stats() Stats {
	return b.stats
}

// Flush forwards to the underlying tree's Flush, persisting the cache
// immediately if it is configured with a cache file.
func (b *Base[I, O]) Flush() error {
	return b.tree.Flush()
}
