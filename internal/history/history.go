// Package history keeps the ordered, session-scoped list of confirmed scans.
package history

import (
	"slices"
	"stockscan/pkg/domain"
	"sync"
)

// Version identifies a state of a Store. Epoch changes whenever entries are
// removed; within an epoch entries are only appended, so Len alone tells
// which entries existed at that point.
type Version struct {
	Epoch uint64
	Len   int
}

// Store holds the confirmed scan entries of one session. Entries are kept in
// insertion order and listed newest first. Duplicates are allowed; grouping is
// left to reconciliation.
type Store struct {
	mu      sync.RWMutex
	entries []domain.ScanEntry
	epoch   uint64
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Add appends entry.
func (s *Store) Add(entry domain.ScanEntry) {
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.epoch++
	s.mu.Unlock()
}

// List returns a copy of the entries, newest first. It never returns nil.
func (s *Store) List() []domain.ScanEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked()
}

func (s *Store) listLocked() []domain.ScanEntry {
	out := make([]domain.ScanEntry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}

	return out
}

// Snapshot returns List together with the Version it was taken at.
func (s *Store) Snapshot() ([]domain.ScanEntry, Version) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(), Version{Epoch: s.epoch, Len: len(s.entries)}
}

// Version returns the current version.
func (s *Store) Version() Version {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Version{Epoch: s.epoch, Len: len(s.entries)}
}

// DropThrough removes the entries that existed at v and keeps the ones added
// since. Nothing is removed when the store was cleared after v. It returns the
// number of entries removed.
func (s *Store) DropThrough(v Version) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.Epoch != s.epoch {
		return 0
	}
	n := min(v.Len, len(s.entries))
	if n == 0 {
		return 0
	}
	s.entries = slices.Clone(s.entries[n:])
	s.epoch++

	return n
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Barcodes returns the distinct barcodes in the order they were first scanned.
func (s *Store) Barcodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return UniqueBarcodes(s.entries)
}

// UniqueBarcodes returns the distinct barcodes of entries in order of first
// appearance.
func UniqueBarcodes(entries []domain.ScanEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !slices.Contains(out, e.Barcode) {
			out = append(out, e.Barcode)
		}
	}

	return out
}
