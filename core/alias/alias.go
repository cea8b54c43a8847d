// Package alias holds the shell's table of user defined command aliases.
package alias

import (
	"errors"
	"strings"
)

// DefaultCapacity is the number of aliases a Table holds unless configured
// otherwise.
const DefaultCapacity = 10

var (
	ErrNoAliases       = errors.New("there are no aliases recognized")
	ErrEmptyExpansion  = errors.New("invalid alias: missing command")
	ErrSelfReferential = errors.New("invalid alias: an alias can't name its own command")
	ErrAliasOfAlias    = errors.New("cannot give an alias to an existing alias")
	ErrTableFull       = errors.New("alias list is full")
	ErrNotFound        = errors.New("alias does not exist")
)

// Entry is a single alias definition.
type Entry struct {
	Name string
	// Expansion is the raw command line the alias stands for. It is split
	// again every time the alias is used.
	Expansion string
}

// Table maps alias names to their expansions. Entries are kept in the order
// they were first defined.
type Table struct {
	capacity int
	entries  []Entry
}

// NewTable creates an empty table holding at most capacity entries.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Table{capacity: capacity}
}

// Len returns the number of defined aliases.
func (t *Table) Len() int {
	return len(t.entries)
}

// Cap returns the maximum number of aliases the table holds.
func (t *Table) Cap() int {
	return t.capacity
}

func (t *Table) index(name string) int {
	for i, e := range t.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the expansion for name.
func (t *Table) Lookup(name string) (string, bool) {
	if i := t.index(name); i >= 0 {
		return t.entries[i].Expansion, true
	}
	return "", false
}

// List returns a copy of all entries in definition order, or ErrNoAliases if
// the table is empty.
func (t *Table) List() ([]Entry, error) {
	if len(t.entries) == 0 {
		return nil, ErrNoAliases
	}

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out, nil
}

// Define creates or replaces the alias name so it expands to the given
// tokens. If an alias with the same name already existed its expansion is
// replaced in place and overwritten is true. The table is never modified
// when an error is returned.
func (t *Table) Define(name string, expansion []string) (overwritten bool, err error) {
	switch {
	case len(expansion) == 0:
		return false, ErrEmptyExpansion
	case name == expansion[0]:
		return false, ErrSelfReferential
	case t.index(expansion[0]) >= 0:
		return false, ErrAliasOfAlias
	}

	entry := Entry{Name: name, Expansion: strings.Join(expansion, " ")}

	if i := t.index(name); i >= 0 {
		t.entries[i] = entry
		return true, nil
	}

	if len(t.entries) >= t.capacity {
		return false, ErrTableFull
	}

	t.entries = append(t.entries, entry)
	return false, nil
}

// Remove deletes the alias name, later entries keep their relative order.
func (t *Table) Remove(name string) error {
	i := t.index(name)
	if i < 0 {
		return ErrNotFound
	}

	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return nil
}
