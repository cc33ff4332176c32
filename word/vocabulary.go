package word

import "fmt"

// Vocabulary is a precomputed set of the letters a loader may encounter,
// keyed by their canonical Key. It is handed to knowledge.Load and
// automaton.ParseDOT so that letters deserialised from a file are
// canonicalised to the same values used elsewhere in the running
// process.
type Vocabulary[T comparable] struct {
	byKey map[string]Letter[T]
}

// NewVocabulary indexes the given letters by their canonical key.
func NewVocabulary[T comparable](letters ...Letter[T]) Vocabulary[T] {
	v := Vocabulary[T]{byKey: make(map[string]Letter[T], len(letters))}
	for _, l := range letters {
		v.byKey[l.Key()] = l
	}
	return v
}

// Canonicalize returns the vocabulary's own copy of a letter with the
// same key as l, so that repeated references to the same symbol set
// compare equal and share structure after a round trip through a file.
func (v Vocabulary[T]) Canonicalize(l Letter[T]) (Letter[T], error) {
	if l.IsEmpty() {
		return EmptyLetter[T](), nil
	}
	canon, ok := v.byKey[l.Key()]
	if !ok {
		return Letter[T]{}, fmt.Errorf("word: letter %s is not in the vocabulary", l)
	}
	return canon, nil
}

// ByKey looks a letter up directly by its canonical Key, the form
// persisted cache files and DOT labels store on disk. It lets a loader
// reconstruct the original Letter[T] value without needing to parse T
// back out of the serialised text itself.
func (v Vocabulary[T]) ByKey(key string) (Letter[T], bool) {
	if key == "ε" {
		return EmptyLetter[T](), true
	}
	l, ok := v.byKey[key]
	return l, ok
}
