// Package knowledge implements the membership-query cache (the
// knowledge tree) and the query resolver layered over it and a Teacher.
package knowledge

import (
	"fmt"
	"sort"

	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// node is one prefix-tree node: the input letter consumed to reach it,
// the output letter observed there, and its children, keyed by their
// own input letter's canonical Key so a node has at most one child per
// distinct input letter.
type node[I, O comparable] struct {
	input    word.Letter[I]
	output   word.Letter[O]
	children map[string]*node[I, O]
}

func newNode[I, O comparable](input word.Letter[I], output word.Letter[O]) *node[I, O] {
	return &node[I, O]{input: input, output: output, children: map[string]*node[I, O]{}}
}

// Tree is a prefix tree keyed by input letters, mapping every observed
// (input word, output word) pair the learner has seen: a set of roots,
// one per distinct first input letter.
type Tree[I, O comparable] struct {
	roots  map[string]*node[I, O]
	logger zerolog.Logger

	cacheFile         string
	flushEvery        int
	insertsSinceFlush int
}

// Option configures a Tree at construction.
type Option[I, O comparable] func(*Tree[I, O])

// WithLogger attaches a structured logger; the zero value is
// zerolog.Nop(), so a Tree is silent unless a logger is supplied.
func WithLogger[I, O comparable](l zerolog.Logger) Option[I, O] {
	return func(t *Tree[I, O]) { t.logger = l }
}

// WithCacheFile configures the tree to persist itself to path every
// flushEvery successful insertions and on explicit Flush. flushEvery <= 0
// defaults to 100.
func WithCacheFile[I, O comparable](path string, flushEvery int) Option[I, O] {
	if flushEvery <= 0 {
		flushEvery = 100
	}
	return func(t *Tree[I, O]) {
		t.cacheFile = path
		t.flushEvery = flushEvery
	}
}

// New creates an empty knowledge tree.
func New[I, O comparable](opts ...Option[I, O]) *Tree[I, O] {
	t := &Tree[I, O]{roots: map[string]*node[I, O]{}, logger: zerolog.Nop(), flushEvery: 100}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Lookup walks from the matching root, descending the child whose input
// letter equals the next input letter of input, and returns the output
// word recorded along that path. It reports ok=false if any step has no
// matching child.
func (t *Tree[I, O]) Lookup(input word.Word[I]) (output word.Word[O], ok bool) {
	letters := input.Letters()
	if len(letters) == 0 {
		return word.Word[O]{}, false
	}
	cur, found := t.roots[letters[0].Key()]
	if !found {
		return word.Word[O]{}, false
	}
	outputs := make([]word.Letter[O], 0, len(letters))
	outputs = append(outputs, cur.output)
	for _, l := range letters[1:] {
		next, found := cur.children[l.Key()]
		if !found {
			return word.Word[O]{}, false
		}
		cur = next
		outputs = append(outputs, cur.output)
	}
	return word.New(outputs...), true
}

// Insert records that input produces output. It is a fault
// (ErrCacheConflict) to insert a path that already exists with a
// different output letter anywhere along the shared prefix; on that
// fault the tree is left unchanged.
func (t *Tree[I, O]) Insert(input word.Word[I], output word.Word[O]) error {
	letters := input.Letters()
	outs := output.Letters()
	if len(letters) != len(outs) {
		return fmt.Errorf("%w: input has %d letters, output has %d", word.ErrLengthMismatch, len(letters), len(outs))
	}
	if len(letters) == 0 {
		return fmt.Errorf("%w: cannot insert an empty word", word.ErrLengthMismatch)
	}

	root, found := t.roots[letters[0].Key()]
	if !found {
		root = newNode[I, O](letters[0], outs[0])
	} else if !root.output.Equal(outs[0]) {
		return fmt.Errorf("%w: %s already maps to %s, got %s", ErrCacheConflict, letters[0], root.output, outs[0])
	}

	cur := root
	for i := 1; i < len(letters); i++ {
		next, found := cur.children[letters[i].Key()]
		if !found {
			next = newNode[I, O](letters[i], outs[i])
		} else if !next.output.Equal(outs[i]) {
			return fmt.Errorf("%w: %s already maps to %s, got %s", ErrCacheConflict, letters[i], next.output, outs[i])
		}
		cur.children[letters[i].Key()] = next
		cur = next
	}

	t.roots[letters[0].Key()] = root
	t.insertsSinceFlush++
	t.logger.Debug().Str("input", input.String()).Str("output", output.String()).Msg("knowledge: inserted")

	if t.cacheFile != "" && t.insertsSinceFlush >= t.flushEvery {
		if err := t.Save(t.cacheFile); err != nil {
			t.logger.Warn().Err(err).Str("file", t.cacheFile).Msg("knowledge: periodic flush failed")
		} else {
			t.insertsSinceFlush = 0
		}
	}
	return nil
}

// Flush persists the tree to its configured cache file immediately,
// regardless of the insertion count since the last flush. It is a no-op
// if the tree was not configured with WithCacheFile.
func (t *Tree[I, O]) Flush() error {
	if t.cacheFile == "" {
		return nil
	}
	if err := t.Save(t.cacheFile); err != nil {
		return err
	}
	t.insertsSinceFlush = 0
	return nil
}

// rootKeys returns the tree's root keys in sorted order, for
// deterministic traversal and serialisation.
func (t *Tree[I, O]) rootKeys() []string {
	keys := make([]string, 0, len(t.roots))
	for k := range t.roots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func childKeys[I, O comparable](n *node[I, O]) []string {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
