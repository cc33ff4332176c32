// Package table implements the observation table at the heart of the
// learner: the two-dimensional structure indexed by prefixes (S ∪ S·Σ)
// and distinguishing suffixes (D), and the operations that keep it
// closed and consistent and that extract a hypothesis from it.
package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
)

// Inconsistency is a witness that the table is not yet consistent: two
// short prefixes s1, s2 with equal rows whose one-letter extensions by
// a disagree at distinguishing suffix d.
type Inconsistency[I, O comparable] struct {
	S1, S2 word.Word[I]
	A      word.Letter[I]
	D      word.Word[I]
}

// Table is the observation table. Σ is fixed at construction; D, S, SA,
// and the cell contents are built up by Initialize and the public
// mutators below, which maintain the table's invariants across every
// one of them.
type Table[I, O comparable] struct {
	alphabet []word.Letter[I]
	base     *knowledge.Base[I, O]
	logger   zerolog.Logger

	initialized bool
	d           []word.Word[I]
	s           []word.Word[I]
	sa          []word.Word[I]
	dIndex      map[string]bool
	sIndex      map[string]bool
	saIndex     map[string]bool

	// cells[rowKey][colKey] = output letter of rowWord · colWord.
	cells map[string]map[string]word.Letter[O]
}

// Option configures a Table at construction.
type Option[I, O comparable] func(*Table[I, O])

// WithLogger attaches a structured logger.
func WithLogger[I, O comparable](l zerolog.Logger) Option[I, O] {
	return func(t *Table[I, O]) { t.logger = l }
}

// New creates an uninitialized table over the given input alphabet and
// query resolver. Call Initialize before any other operation.
func New[I, O comparable](alphabet []word.Letter[I], base *knowledge.Base[I, O], opts ...Option[I, O]) *Table[I, O] {
	t := &Table[I, O]{
		alphabet: alphabet,
		base:     base,
		logger:   zerolog.Nop(),
		dIndex:   map[string]bool{},
		sIndex:   map[string]bool{},
		saIndex:  map[string]bool{},
		cells:    map[string]map[string]word.Letter[O]{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// epsilon is the singleton word containing only the empty letter, the
// table's representation of the prefix ε.
func epsilon[I comparable]() word.Word[I] {
	return word.New(word.EmptyLetter[I]())
}

// Initialize performs the one-shot transition populating D, S, SA, and
// cells. Re-initializing an already-initialized table
// is a fault.
func (t *Table[I, O]) Initialize() error {
	if t.initialized {
		return ErrAlreadyInitialized
	}
	t.initialized = true

	for _, a := range t.alphabet {
		if err := t.insertD(word.New(a)); err != nil {
			return err
		}
	}
	if err := t.insertS(epsilon[I]()); err != nil {
		return err
	}
	t.logger.Debug().Int("alphabet", len(t.alphabet)).Msg("table: initialized")
	return nil
}

// row computes row(r) = (cells[d, r] for d in D), in D's current order.
func (t *Table[I, O]) row(r word.Word[I]) row[O] {
	letters := make([]word.Letter[O], len(t.d))
	rowCells := t.cells[r.Key()]
	for i, d := range t.d {
		letters[i] = rowCells[d.Key()]
	}
	return row[O]{letters: letters}
}

// resolveCell resolves r·d through the knowledge base and records its
// last output letter in cells[r][d].
func (t *Table[I, O]) resolveCell(r, d word.Word[I]) error {
	q := word.NewQuery[I, O](r.Concat(d))
	if err := t.base.Resolve(q); err != nil {
		return err
	}
	if t.cells[r.Key()] == nil {
		t.cells[r.Key()] = map[string]word.Letter[O]{}
	}
	t.cells[r.Key()][d.Key()] = q.Output().Last()
	return nil
}

// insertD adds a suffix to D: for every existing row in S ∪ SA, resolve
// r·v and fill cells[v, r].
func (t *Table[I, O]) insertD(v word.Word[I]) error {
	if t.dIndex[v.Key()] {
		return nil
	}
	for _, s := range t.s {
		if err := t.resolveCell(s, v); err != nil {
			return err
		}
	}
	for _, sa := range t.sa {
		if err := t.resolveCell(sa, v); err != nil {
			return err
		}
	}
	t.d = append(t.d, v)
	t.dIndex[v.Key()] = true
	return nil
}

// insertS adds w to S: faults if w is already a row;
// fills every cell of its new row; then, for every a ∈ Σ, SA-inserts
// w·a unless it is already in S.
func (t *Table[I, O]) insertS(w word.Word[I]) error {
	if t.sIndex[w.Key()] || t.saIndex[w.Key()] {
		return fmt.Errorf("%w: %s", ErrAlreadyPresent, w)
	}
	t.s = append(t.s, w)
	t.sIndex[w.Key()] = true
	for _, d := range t.d {
		if err := t.resolveCell(w, d); err != nil {
			return err
		}
	}
	for _, a := range t.alphabet {
		wa := w.Concat(word.New(a))
		if t.sIndex[wa.Key()] {
			continue
		}
		if err := t.insertSA(wa); err != nil {
			return err
		}
	}
	return nil
}

// insertSA adds w to SA: fills its row but does not
// expand its own one-letter extensions.
func (t *Table[I, O]) insertSA(w word.Word[I]) error {
	if t.sIndex[w.Key()] || t.saIndex[w.Key()] {
		return fmt.Errorf("%w: %s", ErrAlreadyPresent, w)
	}
	t.sa = append(t.sa, w)
	t.saIndex[w.Key()] = true
	for _, d := range t.d {
		if err := t.resolveCell(w, d); err != nil {
			return err
		}
	}
	return nil
}

// removeFromSA drops w from SA and clears its cells, used by Close and
// IntegrateCounterExample before re-inserting w into S.
func (t *Table[I, O]) removeFromSA(w word.Word[I]) {
	key := w.Key()
	if !t.saIndex[key] {
		return
	}
	delete(t.saIndex, key)
	delete(t.cells, key)
	for i, sa := range t.sa {
		if sa.Key() == key {
			t.sa = append(t.sa[:i], t.sa[i+1:]...)
			break
		}
	}
}

// Closed reports whether every row in SA is matched by some row in S.
func (t *Table[I, O]) Closed() bool {
	_, ok := t.firstUnclosed()
	return !ok
}

func (t *Table[I, O]) firstUnclosed() (word.Word[I], bool) {
	sRows := make([]row[O], len(t.s))
	for i, s := range t.s {
		sRows[i] = t.row(s)
	}
	for _, sa := range t.sa {
		saRow := t.row(sa)
		matched := false
		for _, sr := range sRows {
			if sr.equal(saRow) {
				matched = true
				break
			}
		}
		if !matched {
			return sa, true
		}
	}
	return word.Word[I]{}, false
}

// Close removes every unmatched SA row and S-inserts it, repeating until
// a fixpoint. Each step strictly grows |S| or finds no offending row
// left, so the loop terminates.
func (t *Table[I, O]) Close() error {
	for {
		offending, ok := t.firstUnclosed()
		if !ok {
			return nil
		}
		t.logger.Debug().Str("row", offending.String()).Msg("table: closing unmatched SA row")
		t.removeFromSA(offending)
		if err := t.insertS(offending); err != nil {
			return err
		}
	}
}

// FindInconsistency returns an inconsistency witness, or nil if the
// table is consistent.
func (t *Table[I, O]) FindInconsistency() *Inconsistency[I, O] {
	byRow := map[string][]word.Word[I]{}
	rowKeys := make([]string, 0, len(t.s))
	for _, s := range t.s {
		key := t.row(s).key()
		if _, seen := byRow[key]; !seen {
			rowKeys = append(rowKeys, key)
		}
		byRow[key] = append(byRow[key], s)
	}
	sort.Strings(rowKeys)

	for _, key := range rowKeys {
		group := byRow[key]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if inc := t.inconsistentPair(group[i], group[j]); inc != nil {
					return inc
				}
			}
		}
	}
	return nil
}

func (t *Table[I, O]) inconsistentPair(s1, s2 word.Word[I]) *Inconsistency[I, O] {
	for _, a := range t.alphabet {
		s1a := s1.Concat(word.New(a))
		s2a := s2.Concat(word.New(a))
		row1 := t.row(s1a)
		row2 := t.row(s2a)
		for i, d := range t.d {
			if !row1.letters[i].Equal(row2.letters[i]) {
				return &Inconsistency[I, O]{S1: s1, S2: s2, A: a, D: d}
			}
		}
	}
	return nil
}

// MakeConsistent resolves inc by D-inserting ⟨a⟩·d, which strictly
// increases the number of distinct rows in S.
func (t *Table[I, O]) MakeConsistent(inc *Inconsistency[I, O]) error {
	suffix := word.New(inc.A).Concat(inc.D)
	t.logger.Debug().Str("suffix", suffix.String()).Msg("table: adding distinguishing suffix")
	return t.insertD(suffix)
}

// IntegrateCounterExample folds a counter-example back into the table
//: for every non-empty prefix p of u_in, if p is not
// already in S, it is S-inserted (after first removing it from SA and
// clearing its cells, if it was there).
func (t *Table[I, O]) IntegrateCounterExample(uIn word.Word[I], uOut word.Word[O]) error {
	if uIn.Len() == 0 || uIn.Len() != uOut.Len() {
		return fmt.Errorf("%w: counter-example input/output must be non-empty and equal length", word.ErrLengthMismatch)
	}
	for _, p := range uIn.Prefixes() {
		if t.sIndex[p.Key()] {
			continue
		}
		t.removeFromSA(p)
		if err := t.insertS(p); err != nil {
			return err
		}
	}
	return nil
}

// ExtractHypothesis builds a Mealy machine from the table's current
// contents. Its precondition is that the table is
// closed and consistent; callers that violate it get ErrNotClosed or
// ErrNotConsistent rather than a silently wrong machine.
func (t *Table[I, O]) ExtractHypothesis() (*automaton.Machine[I, O], error) {
	classes, classOf, err := t.partitionByRow()
	if err != nil {
		return nil, err
	}

	m := automaton.New[I, O]("hypothesis")
	stateOf := make(map[string]automaton.StateID, len(classes))
	for i, c := range classes {
		stateOf[c.key] = m.AddState(fmt.Sprintf("q%d", i))
	}

	initialKey, ok := classOf[epsilon[I]().Key()]
	if !ok {
		return nil, fmt.Errorf("%w: no class contains epsilon", ErrHypothesisExtraction)
	}
	if err := m.SetInitial(stateOf[initialKey]); err != nil {
		return nil, err
	}

	for _, c := range classes {
		rep := c.representative
		for _, a := range t.alphabet {
			repA := rep.Concat(word.New(a))
			succKey, ok := classOf[repA.Key()]
			if !ok {
				return nil, fmt.Errorf("%w: no class found for %s", ErrHypothesisExtraction, repA)
			}
			outCells := t.cells[rep.Key()]
			if outCells == nil {
				return nil, fmt.Errorf("%w: row %s has no cells", ErrHypothesisExtraction, rep)
			}
			out, ok := outCells[word.New(a).Key()]
			if !ok {
				return nil, fmt.Errorf("%w: cell (%s, %s) missing", ErrHypothesisExtraction, rep, a)
			}
			if err := m.AddTransition(stateOf[c.key], a, out, stateOf[succKey]); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

type class[I comparable] struct {
	key            string
	representative word.Word[I]
}

// partitionByRow partitions S by row equality. The
// class map is keyed by row key, so two words with equal rows always
// land in the same class regardless of which representative is chosen;
// consistency guarantees the choice is irrelevant.
func (t *Table[I, O]) partitionByRow() ([]class[I], map[string]string, error) {
	if !t.Closed() {
		return nil, nil, ErrNotClosed
	}
	if inc := t.FindInconsistency(); inc != nil {
		return nil, nil, ErrNotConsistent
	}

	order := []string{}
	reps := map[string]word.Word[I]{}
	classOf := map[string]string{}
	for _, s := range t.s {
		rowKey := t.row(s).key()
		if _, seen := reps[rowKey]; !seen {
			order = append(order, rowKey)
			reps[rowKey] = s
		}
		classOf[s.Key()] = rowKey
	}
	for _, sa := range t.sa {
		rowKey := t.row(sa).key()
		classOf[sa.Key()] = rowKey
	}

	classes := make([]class[I], len(order))
	for i, k := range order {
		classes[i] = class[I]{key: k, representative: reps[k]}
	}
	return classes, classOf, nil
}

// Dump renders the table's full contents (row labels, column labels,
// and the cell matrix) in a human-readable form for debugging.
func (t *Table[I, O]) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "D: %v\n", t.d)
	fmt.Fprintln(&b, "S:")
	for _, s := range t.s {
		fmt.Fprintf(&b, "  %-20s %v\n", s.String(), t.row(s).letters)
	}
	fmt.Fprintln(&b, "SA:")
	for _, sa := range t.sa {
		fmt.Fprintf(&b, "  %-20s %v\n", sa.String(), t.row(sa).letters)
	}
	return b.String()
}
