package search

import (
	"sync"

	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

// Bound tells how an entry's score relates to the true value.
type Bound uint8

const (
	Exact Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	default:
		return "unknown"
	}
}

// Entry is one cached search result.
type Entry struct {
	Key     uint64
	Score   int
	Depth   int
	Bound   Bound
	Best    core.Move
	HasBest bool
	// Solved is set when no leaf below the entry was cut off by depth.
	Solved bool
}

// TableStats summarizes table usage.
type TableStats struct {
	Entries int
	Probes  uint64
	Hits    uint64
	Stores  uint64
	Resets  uint64
}

// Table caches search results by position key. It is safe for concurrent
// use; concurrent writers to one key resolve last-writer-wins.
type Table struct {
	mu         sync.Mutex
	entries    map[uint64]Entry
	maxEntries int

	probes uint64
	hits   uint64
	stores uint64
	resets uint64
}

// NewTable returns an empty table. maxEntries <= 0 leaves it unbounded;
// otherwise the whole table is dropped when a new key would exceed the cap.
func NewTable(maxEntries int) *Table {
	return &Table{
		entries:    make(map[uint64]Entry),
		maxEntries: maxEntries,
	}
}

// Probe returns the entry stored for key.
func (t *Table) Probe(key uint64) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.probes++
	e, ok := t.entries[key]
	if ok {
		t.hits++
	}
	return e, ok
}

// Store records e. An existing entry searched deeper is kept, though a
// best move is carried over when the kept entry has none.
func (t *Table) Store(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	old, ok := t.entries[e.Key]
	if ok && old.Depth > e.Depth {
		if !old.HasBest && e.HasBest {
			old.Best, old.HasBest = e.Best, true
			t.entries[e.Key] = old
		}
		return
	}
	if !ok && t.maxEntries > 0 && len(t.entries) >= t.maxEntries {
		t.entries = make(map[uint64]Entry, t.maxEntries)
		t.resets++
	}
	if ok && !e.HasBest && old.HasBest {
		e.Best, e.HasBest = old.Best, true
	}
	t.entries[e.Key] = e
	t.stores++
}

// Clear drops every entry. Counters are kept.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[uint64]Entry)
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Stats returns a snapshot of the usage counters.
func (t *Table) Stats() TableStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TableStats{
		Entries: len(t.entries),
		Probes:  t.probes,
		Hits:    t.hits,
		Stores:  t.stores,
		Resets:  t.resets,
	}
}
