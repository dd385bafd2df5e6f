// Package dedup persists the set of canonical listing URLs the pipeline has
// ever accepted. It is the system's only durable triage state: a listing is
// emitted at most once across restarts.
package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/gofrs/flock"
)

// Store is a file-backed set of canonical IDs. The snapshot file holds a
// JSON array; a flock sibling file guards it against concurrent processes.
type Store struct {
	mu    sync.Mutex
	path  string
	fl    *flock.Flock
	seen  map[string]struct{}
	dirty bool
}

// Open acquires the file lock and loads the snapshot. A missing snapshot is
// an empty set, not an error.
func Open(path string) (*Store, error) {
	fl := flock.New(path + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("dedup lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("dedup snapshot %s is locked by another process", path)
	}

	s := &Store{
		path: path,
		fl:   fl,
		seen: make(map[string]struct{}),
	}
	if err := s.load(); err != nil {
		_ = fl.Unlock()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("dedup read: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return fmt.Errorf("dedup decode %s: %w", s.path, err)
	}
	for _, id := range ids {
		s.seen[id] = struct{}{}
	}
	return nil
}

// Accept canonicalizes the URL and atomically checks-and-marks it. It
// returns true exactly once per canonical ID over the store's lifetime,
// including when the same listing shows up twice within one run.
func (s *Store) Accept(rawURL string) bool {
	id := CanonicalID(rawURL)
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[id]; dup {
		return false
	}
	s.seen[id] = struct{}{}
	s.dirty = true
	return true
}

// Len reports the number of known IDs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Persist writes the snapshot if anything changed since the last flush.
// Called at the end of every discovery run.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("dedup write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("dedup rename: %w", err)
	}
	s.dirty = false
	return nil
}

// Close flushes and releases the file lock.
func (s *Store) Close() error {
	err := s.Persist()
	if uerr := s.fl.Unlock(); err == nil {
		err = uerr
	}
	return err
}
