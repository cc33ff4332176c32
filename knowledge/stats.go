package knowledge

// Stats counts query resolution activity: how many queries and letters
// passed through the knowledge base, and how many of each actually had
// to be submitted to the teacher rather than served from the cache,
// giving an observable cache hit rate.
type Stats struct {
	Queries          int
	SubmittedQueries int
	Letters          int
	SubmittedLetters int
}

// HitRate returns the fraction of queries served from the cache without
// a teacher round trip. It returns 0 when no queries have been resolved
// yet.
func (s Stats) HitRate() float64 {
	if s.Queries == 0 {
		return 0
	}
	return 1 - float64(s.SubmittedQueries)/float64(s.Queries)
}
