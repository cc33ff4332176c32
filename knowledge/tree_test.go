package knowledge_test

import (
	"path/filepath"
	"testing"

	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeLookupMissOnEmptyTree(t *testing.T) {
	tree := knowledge.New[string, string]()
	_, ok := tree.Lookup(word.New(word.NewLetter("a")))
	assert.False(t, ok)
}

func TestTreeInsertThenLookupHits(t *testing.T) {
	tree := knowledge.New[string, string]()
	in := word.New(word.NewLetter("a"), word.NewLetter("b"))
	out := word.New(word.NewLetter("1"), word.NewLetter("2"))

	require.NoError(t, tree.Insert(in, out))
	got, ok := tree.Lookup(in)
	require.True(t, ok)
	assert.True(t, got.Equal(out))
}

func TestTreeInsertConflictingOutputFails(t *testing.T) {
	tree := knowledge.New[string, string]()
	in := word.New(word.NewLetter("a"))
	require.NoError(t, tree.Insert(in, word.New(word.NewLetter("1"))))

	err := tree.Insert(in, word.New(word.NewLetter("2")))
	assert.ErrorIs(t, err, knowledge.ErrCacheConflict)
}

func TestTreeSaveLoadRoundTrip(t *testing.T) {
	tree := knowledge.New[string, string]()
	require.NoError(t, tree.Insert(word.New(word.NewLetter("a"), word.NewLetter("b")), word.New(word.NewLetter("1"), word.NewLetter("2"))))
	require.NoError(t, tree.Insert(word.New(word.NewLetter("a"), word.NewLetter("c")), word.New(word.NewLetter("1"), word.NewLetter("3"))))

	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, tree.Save(path))

	inputVocab := word.NewVocabulary(word.NewLetter("a"), word.NewLetter("b"), word.NewLetter("c"))
	outputVocab := word.NewVocabulary(word.NewLetter("1"), word.NewLetter("2"), word.NewLetter("3"))
	loaded, err := knowledge.Load[string, string](path, inputVocab, outputVocab)
	require.NoError(t, err)

	got, ok := loaded.Lookup(word.New(word.NewLetter("a"), word.NewLetter("c")))
	require.True(t, ok)
	assert.Equal(t, "1·3", got.Key())
}

type recordingTeacher struct {
	starts, stops, submits int
	response               word.Word[string]
}

func (r *recordingTeacher) StartTarget() error { r.starts++; return nil }
func (r *recordingTeacher) StopTarget() error  { r.stops++; return nil }
func (r *recordingTeacher) SubmitWord(input word.Word[string]) (word.Word[string], error) {
	r.submits++
	return r.response, nil
}

func TestBaseResolveCachesAfterTeacherInvocation(t *testing.T) {
	teacher := &recordingTeacher{response: word.New(word.NewLetter("1"))}
	base := knowledge.NewBase[string, string](knowledge.New[string, string](), teacher)

	in := word.New(word.NewLetter("a"))
	q1 := word.NewQuery[string, string](in)
	require.NoError(t, base.Resolve(q1))
	assert.Equal(t, 1, teacher.submits)

	q2 := word.NewQuery[string, string](in)
	require.NoError(t, base.Resolve(q2))
	assert.Equal(t, 1, teacher.submits, "second resolve of the same word must be served from cache")
	assert.True(t, q1.Output().Equal(q2.Output()))

	stats := base.Stats()
	assert.Equal(t, 2, stats.Queries)
	assert.Equal(t, 1, stats.SubmittedQueries)
	assert.Equal(t, 0.5, stats.HitRate())
}
