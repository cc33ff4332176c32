package knowledge

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lstarinfer/lstar/word"
)

// dumpNode is the on-disk shape of a knowledge node: an
// {"input_letter", "output_letter", "children"} record. JSON is used
// for this exact purpose (see DESIGN.md); no third-party serialisation
// library is substituted in.
type dumpNode struct {
	InputLetter  string     `json:"input_letter"`
	OutputLetter string     `json:"output_letter"`
	Children     []dumpNode `json:"children"`
}

func dump[I, O comparable](n *node[I, O]) dumpNode {
	d := dumpNode{InputLetter: n.input.Key(), OutputLetter: n.output.Key()}
	for _, k := range childKeys(n) {
		d.Children = append(d.Children, dump(n.children[k]))
	}
	return d
}

// Save writes the tree's full contents to path as a structured JSON
// dump: one entry per root, each recursively carrying its children. It
// writes by removing any existing file and then writing the new one;
// callers wanting crash-safe persistence across concurrent readers
// should not share a cache file between processes.
func (t *Tree[I, O]) Save(path string) error {
	roots := make([]dumpNode, 0, len(t.roots))
	for _, k := range t.rootKeys() {
		roots = append(roots, dump(t.roots[k]))
	}
	data, err := json.MarshalIndent(roots, "", "  ")
	if err != nil {
		return fmt.Errorf("knowledge: marshal cache: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("knowledge: remove stale cache file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("knowledge: write cache file: %w", err)
	}
	t.logger.Debug().Str("file", path).Int("roots", len(roots)).Msg("knowledge: flushed cache to disk")
	return nil
}

// Load reads a tree previously written by Save. inputVocab and
// outputVocab canonicalise the letters read back from disk against the
// set of letters the caller expects to encounter.
func Load[I, O comparable](path string, inputVocab word.Vocabulary[I], outputVocab word.Vocabulary[O], opts ...Option[I, O]) (*Tree[I, O], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read cache file: %w", err)
	}
	var roots []dumpNode
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("knowledge: unmarshal cache file: %w", err)
	}

	t := New[I, O](opts...)
	for _, r := range roots {
		n, err := rebuild(r, inputVocab, outputVocab)
		if err != nil {
			return nil, err
		}
		t.roots[n.input.Key()] = n
	}
	return t, nil
}

func rebuild[I, O comparable](d dumpNode, inputVocab word.Vocabulary[I], outputVocab word.Vocabulary[O]) (*node[I, O], error) {
	in, ok := inputVocab.ByKey(d.InputLetter)
	if !ok {
		return nil, fmt.Errorf("knowledge: input letter %q not in vocabulary", d.InputLetter)
	}
	out, ok := outputVocab.ByKey(d.OutputLetter)
	if !ok {
		return nil, fmt.Errorf("knowledge: output letter %q not in vocabulary", d.OutputLetter)
	}
	n := newNode[I, O](in, out)
	for _, c := range d.Children {
		child, err := rebuild[I, O](c, inputVocab, outputVocab)
		if err != nil {
			return nil, err
		}
		n.children[child.input.Key()] = child
	}
	return n, nil
}
