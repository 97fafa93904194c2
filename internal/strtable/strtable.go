// Package strtable interns OSM tag strings into dense, 1-based integer ids.
package strtable

import "sync"

// Table is an append-only, single-writer bidirectional mapping from text to
// a dense integer id. Id 0 is a reserved sentinel: Intern never returns it,
// and it is never a legitimate key into the inverse view.
type Table struct {
	mu      sync.Mutex
	ids     map[string]uint64
	inverse []string // inverse[i] holds the text for id i+1
}

// New returns an empty string table.
func New() *Table {
	return &Table{ids: make(map[string]uint64)}
}

// Intern returns the existing id for text if present, otherwise assigns and
// returns the next id (current size + 1). Never returns 0.
func (t *Table) Intern(text string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[text]; ok {
		return id
	}
	id := uint64(len(t.inverse)) + 1
	t.ids[text] = id
	t.inverse = append(t.inverse, text)
	return id
}

// Size returns the number of interned strings.
func (t *Table) Size() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return uint64(len(t.inverse))
}

// AsMap returns a copy of the text->id mapping, suitable for handing to
// tilecodec.Encode as a tile's local string table.
func (t *Table) AsMap() map[string]uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]uint64, len(t.ids))
	for text, id := range t.ids {
		out[text] = id
	}
	return out
}

// Inverse is an immutable snapshot of the id->text mapping at the moment it
// was taken. Readers use this instead of touching the live table so that a
// TileBuilder run sees a consistent view while ingest keeps writing.
type Inverse struct {
	texts []string // texts[i] is the text for id i+1
}

// Snapshot copies the current id->text mapping into an Inverse.
func (t *Table) Snapshot() *Inverse {
	t.mu.Lock()
	defer t.mu.Unlock()
	texts := make([]string, len(t.inverse))
	copy(texts, t.inverse)
	return &Inverse{texts: texts}
}

// Resolve returns the text for id. Undefined (ok=false) for ids outside
// [1, N] for this generation of the table.
func (inv *Inverse) Resolve(id uint64) (string, bool) {
	if id == 0 || id > uint64(len(inv.texts)) {
		return "", false
	}
	return inv.texts[id-1], true
}

// Size returns the number of strings captured in this snapshot.
func (inv *Inverse) Size() uint64 {
	return uint64(len(inv.texts))
}

// Entry is one (text, id) pair.
type Entry struct {
	Text string
	ID   uint64
}

// Diff returns every (text, id) present in this snapshot but not in prior.
// Because the table is append-only, "new since prior" is exactly the
// entries beyond prior's size.
func (inv *Inverse) Diff(prior *Inverse) []Entry {
	start := uint64(0)
	if prior != nil {
		start = prior.Size()
	}
	if start >= inv.Size() {
		return nil
	}
	out := make([]Entry, 0, inv.Size()-start)
	for i := start; i < inv.Size(); i++ {
		out = append(out, Entry{Text: inv.texts[i], ID: i + 1})
	}
	return out
}
