package table

import (
	"strings"

	"github.com/lstarinfer/lstar/word"
)

// row is the tuple `(cells[d, r] for d in D)`. equal compares two rows
// letter by letter; key renders a row as a string, for the callers that
// group rows in maps (consistency checking and hypothesis extraction).
type row[O comparable] struct {
	letters []word.Letter[O]
}

func (r row[O]) key() string {
	parts := make([]string, len(r.letters))
	for i, l := range r.letters {
		parts[i] = l.Key()
	}
	return strings.Join(parts, "|")
}

func (r row[O]) equal(other row[O]) bool {
	if len(r.letters) != len(other.letters) {
		return false
	}
	for i, l := range r.letters {
		if !l.Equal(other.letters[i]) {
			return false
		}
	}
	return true
}
