// Package result holds deferred responses keyed by request id and slices them
// into buffer-sized chunks for the polling side of the wire protocol.
package result

import (
	"sync"

	"github.com/lcx/extdb/codec"
)

// Store maps live request ids to their pending or partially drained payloads.
// All methods are safe for concurrent use; the critical sections are kept to
// map lookups and a substring.
type Store struct {
	mu      sync.Mutex
	results map[int]string
	wait    map[int]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		results: make(map[int]string),
		wait:    make(map[int]struct{}),
	}
}

// Begin marks id as pending so early polls answer [3] instead of the
// end-of-stream empty string. Must happen before the producing task is
// enqueued.
func (s *Store) Begin(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wait[id] = struct{}{}
}

// Complete stores the finished payload for id, wrapped in the saved-result
// envelope, and clears the pending marker. Completing an id that never began
// is accepted; the synchronous path skips Begin.
func (s *Store) Complete(id int, payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = codec.Saved(payload)
	delete(s.wait, id)
}

// Abort clears the pending marker for id without storing a payload. Used when
// a queued task cannot produce a result; the id can then be freed.
func (s *Store) Abort(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wait, id)
	delete(s.results, id)
}

// Fetch returns the next chunk of the stored payload for id, never more than
// bufCap-EnvelopeReserve bytes. The empty string with drained=false means the
// id is unknown; with drained=true it is the end-of-stream marker and the
// caller must free the id. A pending id answers [3].
func (s *Store) Fetch(id int, bufCap int) (chunk string, drained bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.results[id]
	if !ok {
		if _, waiting := s.wait[id]; waiting {
			return codec.Pending(), false
		}
		return "", false
	}

	if len(buf) == 0 {
		delete(s.results, id)
		return "", true
	}

	limit := bufCap - codec.EnvelopeReserve
	if limit < 1 {
		limit = 1
	}
	if len(buf) > limit {
		s.results[id] = buf[limit:]
		return buf[:limit], false
	}
	s.results[id] = ""
	return buf, false
}

// IsPending reports whether id has been begun but not completed.
func (s *Store) IsPending(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.wait[id]
	return ok
}
