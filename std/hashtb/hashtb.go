// Package hashtb is an open-addressing hash table keyed by raw byte
// strings, the Go analogue of the original library's hashtb: the PIT
// and FIB-like registries in std/ccn key their entries on encoded Name
// prefixes, which are arbitrary byte slices rather than comparable Go
// types, so a plain Go map keyed on string(prefix) would force a copy
// of every key on every lookup. Table instead hashes the bytes
// directly with xxhash and keeps a copy only for entries it actually
// stores.
package hashtb

import "github.com/cespare/xxhash"

const (
	initialBuckets = 16
	maxLoadFactor  = 0.75
)

type entryState byte

const (
	stateEmpty entryState = iota
	stateOccupied
	stateTombstone
)

type slot struct {
	state entryState
	hash  uint64
	key   []byte
	value any
}

// Table is an open-addressing hash table from byte-string keys to
// arbitrary values. The zero value is not usable; call New.
type Table struct {
	slots []slot
	count int // occupied, excluding tombstones
	used  int // occupied + tombstones
}

// New returns an empty Table.
func New() *Table {
	return &Table{slots: make([]slot, initialBuckets)}
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.count
}

// Get returns the value stored under key and whether it was found.
func (t *Table) Get(key []byte) (any, bool) {
	idx, found := t.find(key)
	if !found {
		return nil, false
	}
	return t.slots[idx].value, true
}

// Set stores value under key, replacing any existing entry.
func (t *Table) Set(key []byte, value any) {
	if float64(t.used+1) > maxLoadFactor*float64(len(t.slots)) {
		t.grow()
	}
	h := hash(key)
	idx := t.probeForInsert(h, key)
	if t.slots[idx].state != stateOccupied {
		t.count++
		if t.slots[idx].state == stateEmpty {
			t.used++
		}
	}
	t.slots[idx] = slot{
		state: stateOccupied,
		hash:  h,
		key:   append([]byte(nil), key...),
		value: value,
	}
}

// Delete removes key, if present, and reports whether it was found.
// The slot is left as a tombstone so later probe chains through it
// stay intact.
func (t *Table) Delete(key []byte) bool {
	idx, found := t.find(key)
	if !found {
		return false
	}
	t.slots[idx] = slot{state: stateTombstone}
	t.count--
	return true
}

// Range calls fn for every live entry, in unspecified order. fn may
// Delete the entry it is visiting (the slot becomes a tombstone and
// iteration continues); it must not otherwise mutate the table.
func (t *Table) Range(fn func(key []byte, value any) bool) {
	for i := range t.slots {
		if t.slots[i].state == stateOccupied {
			if !fn(t.slots[i].key, t.slots[i].value) {
				return
			}
		}
	}
}

func (t *Table) find(key []byte) (int, bool) {
	if len(t.slots) == 0 {
		return 0, false
	}
	h := hash(key)
	mask := uint64(len(t.slots) - 1)
	idx := h & mask
	for i := 0; i < len(t.slots); i++ {
		s := &t.slots[idx]
		switch s.state {
		case stateEmpty:
			return 0, false
		case stateOccupied:
			if s.hash == h && string(s.key) == string(key) {
				return int(idx), true
			}
		}
		idx = (idx + 1) & mask
	}
	return 0, false
}

// probeForInsert finds the slot key belongs in: either an existing
// occupied slot with a matching key, or the first empty-or-tombstone
// slot along its probe chain.
func (t *Table) probeForInsert(h uint64, key []byte) int {
	mask := uint64(len(t.slots) - 1)
	idx := h & mask
	firstFree := -1
	for i := 0; i < len(t.slots); i++ {
		s := &t.slots[idx]
		switch s.state {
		case stateEmpty:
			if firstFree >= 0 {
				return firstFree
			}
			return int(idx)
		case stateTombstone:
			if firstFree < 0 {
				firstFree = int(idx)
			}
		case stateOccupied:
			if s.hash == h && string(s.key) == string(key) {
				return int(idx)
			}
		}
		idx = (idx + 1) & mask
	}
	return firstFree
}

func (t *Table) grow() {
	old := t.slots
	t.slots = make([]slot, len(old)*2)
	t.count = 0
	t.used = 0
	for _, s := range old {
		if s.state == stateOccupied {
			idx := t.probeForInsert(s.hash, s.key)
			t.slots[idx] = s
			t.count++
			t.used++
		}
	}
}

func hash(key []byte) uint64 {
	return xxhash.Sum64(key)
}
