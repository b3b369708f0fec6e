package rating

import "sort"

// Store is the in-process mapping from conversation ID to the latest rating
// for the current run, plus the set of conversations considered done. The
// two are set together by Upsert: a conversation is never done without a
// retrievable rating.
//
// The store has exactly one writer (the active session) and is not safe for
// concurrent use.
type Store struct {
	ratings map[string]Rating
	done    map[string]struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		ratings: make(map[string]Rating),
		done:    make(map[string]struct{}),
	}
}

// Upsert records the rating for a conversation, replacing any previous one
// wholesale, and marks the conversation done. Submitting the same rating
// twice is a no-op on retrieval semantics.
func (s *Store) Upsert(conversationID string, r Rating) {
	s.ratings[conversationID] = r
	s.MarkDone(conversationID)
}

// Get returns the rating for a conversation, if present.
func (s *Store) Get(conversationID string) (Rating, bool) {
	r, ok := s.ratings[conversationID]
	return r, ok
}

// IsDone reports whether the conversation has been rated.
func (s *Store) IsDone(conversationID string) bool {
	_, ok := s.done[conversationID]
	return ok
}

// MarkDone records the conversation as done.
func (s *Store) MarkDone(conversationID string) {
	s.done[conversationID] = struct{}{}
}

// DoneCount returns the number of distinct conversations marked done.
func (s *Store) DoneCount() int {
	return len(s.done)
}

// Len returns the number of stored ratings.
func (s *Store) Len() int {
	return len(s.ratings)
}

// IDs returns the rated conversation IDs in sorted order. Sorting makes
// exports deterministic: two snapshots of the same store serialize
// row-for-row identically.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.ratings))
	for id := range s.ratings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset clears all ratings and done markers. Invoked when a different
// conversation set is loaded.
func (s *Store) Reset() {
	s.ratings = make(map[string]Rating)
	s.done = make(map[string]struct{})
}
