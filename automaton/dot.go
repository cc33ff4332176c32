package automaton

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/lstarinfer/lstar/word"
)

// WriteDOT writes a graph-description-language rendering of m: states
// named by their StateName, the initial state marked distinctly with a
// pseudo-node and an arrow into it, and each transition labelled
// "input / output". This format is purely for inspection, the learner
// never re-reads it, but ParseDOT below provides a faithful inverse
// for a full export/import round trip.
//
// DOT export is only defined for machines over string symbols: a label
// is text, and round-tripping an arbitrary comparable type through text
// would require a caller-supplied codec this package has no business
// guessing at.
func WriteDOT(w io.Writer, m *Machine[string, string]) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %q {\n", m.Name)
	fmt.Fprintln(bw, "\trankdir=LR;")

	initial, err := m.Initial()
	if err != nil {
		return err
	}

	fmt.Fprintln(bw, "\t__start__ [shape=point];")
	for _, s := range m.States() {
		name, _ := m.StateName(s)
		fmt.Fprintf(bw, "\t%q [shape=circle,label=%q];\n", name, name)
	}
	initialName, _ := m.StateName(initial)
	fmt.Fprintf(bw, "\t__start__ -> %q;\n", initialName)

	for _, s := range m.States() {
		fromName, _ := m.StateName(s)
		ts, _ := m.Transitions(s)
		for _, t := range ts {
			toName, _ := m.StateName(t.Successor)
			fmt.Fprintf(bw, "\t%q -> %q [label=%q];\n", fromName, toName, label(t.Input, t.Output))
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func label(input, output word.Letter[string]) string {
	return fmt.Sprintf("%s / %s", input.Key(), output.Key())
}

var (
	stateDeclRE = regexp.MustCompile(`^\s*"((?:[^"\\]|\\.)*)"\s*\[shape=circle,label="((?:[^"\\]|\\.)*)"\];\s*$`)
	startRE     = regexp.MustCompile(`^\s*__start__\s*->\s*"((?:[^"\\]|\\.)*)";\s*$`)
	edgeRE      = regexp.MustCompile(`^\s*"((?:[^"\\]|\\.)*)"\s*->\s*"((?:[^"\\]|\\.)*)"\s*\[label="((?:[^"\\]|\\.)*)"\];\s*$`)
	nameRE      = regexp.MustCompile(`^digraph\s+"((?:[^"\\]|\\.)*)"\s*\{\s*$`)
)

// ParseDOT parses DOT text produced by WriteDOT back into a Machine.
// inputVocab and outputVocab canonicalise the input/output letters
// referenced by each edge label so values decoded from text match the
// ones used elsewhere in the running process.
func ParseDOT(r io.Reader, inputVocab, outputVocab word.Vocabulary[string]) (*Machine[string, string], error) {
	sc := bufio.NewScanner(r)
	var name string
	stateByName := map[string]StateID{}
	var m *Machine[string, string]
	var startTarget string
	type pendingEdge struct {
		from, to, input, output string
	}
	var pending []pendingEdge

	for sc.Scan() {
		line := sc.Text()
		switch {
		case nameRE.MatchString(line):
			name = nameRE.FindStringSubmatch(line)[1]
			m = New[string, string](name)
		case stateDeclRE.MatchString(line):
			if m == nil {
				return nil, fmt.Errorf("automaton: DOT state declared before digraph header")
			}
			groups := stateDeclRE.FindStringSubmatch(line)
			stateByName[groups[1]] = m.AddState(groups[2])
		case startRE.MatchString(line):
			startTarget = startRE.FindStringSubmatch(line)[1]
		case edgeRE.MatchString(line):
			groups := edgeRE.FindStringSubmatch(line)
			inOut := strings.SplitN(groups[3], " / ", 2)
			if len(inOut) != 2 {
				return nil, fmt.Errorf("automaton: malformed transition label %q", groups[3])
			}
			pending = append(pending, pendingEdge{from: groups[1], to: groups[2], input: inOut[0], output: inOut[1]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("automaton: no digraph header found in DOT text")
	}

	start, ok := stateByName[startTarget]
	if !ok {
		return nil, fmt.Errorf("automaton: __start__ target %q not declared", startTarget)
	}
	if err := m.SetInitial(start); err != nil {
		return nil, err
	}

	for _, e := range pending {
		from, ok := stateByName[e.from]
		if !ok {
			return nil, fmt.Errorf("automaton: edge references undeclared state %q", e.from)
		}
		to, ok := stateByName[e.to]
		if !ok {
			return nil, fmt.Errorf("automaton: edge references undeclared state %q", e.to)
		}
		input, err := inputVocab.Canonicalize(word.NewLetter(strings.Split(e.input, ",")...))
		if err != nil {
			return nil, err
		}
		output, err := outputVocab.Canonicalize(word.NewLetter(strings.Split(e.output, ",")...))
		if err != nil {
			return nil, err
		}
		if err := m.AddTransition(from, input, output, to); err != nil {
			return nil, err
		}
	}
	return m, nil
}
