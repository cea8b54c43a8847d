// Package history keeps the bounded list of command lines a user entered.
package history

import (
	"errors"
)

// DefaultCapacity is the number of records a Store keeps unless configured
// otherwise.
const DefaultCapacity = 20

var (
	ErrEmpty       = errors.New("no commands in history")
	ErrOutOfBounds = errors.New("history number out of bounds")
)

// Store is a FIFO of raw command lines. Once full, appending a line evicts
// the oldest one.
//
// Callers are responsible for not recording history recall invocations.
type Store struct {
	capacity int
	records  []string
}

// New creates an empty store that keeps at most capacity records.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Store{
		capacity: capacity,
		records:  make([]string, 0, capacity),
	}
}

// Len returns the number of retained records.
func (s *Store) Len() int {
	return len(s.records)
}

// Append records line, evicting the oldest record if the store is full.
func (s *Store) Append(line string) {
	if len(s.records) == s.capacity {
		copy(s.records, s.records[1:])
		s.records = s.records[:len(s.records)-1]
	}

	s.records = append(s.records, line)
}

// List returns the retained records, oldest first.
func (s *Store) List() []string {
	out := make([]string, len(s.records))
	copy(out, s.records)
	return out
}

// Last returns the most recently appended record.
func (s *Store) Last() (string, error) {
	if len(s.records) == 0 {
		return "", ErrEmpty
	}

	return s.records[len(s.records)-1], nil
}

// Get returns the record at the 1-based position index among the records
// currently retained. Positions shift once records are evicted.
func (s *Store) Get(index int) (string, error) {
	if index < 1 || index > len(s.records) {
		return "", ErrOutOfBounds
	}

	return s.records[index-1], nil
}

// Load appends lines in order, applying the same eviction as Append.
func (s *Store) Load(lines []string) {
	for _, line := range lines {
		s.Append(line)
	}
}

// Save returns the records in the order they should be persisted.
func (s *Store) Save() []string {
	return s.List()
}

// Clear removes all records.
func (s *Store) Clear() {
	s.records = s.records[:0]
}
