// Package anm implements the Authentic Neighbor Memory: per-(peer,
// interface) replay-protection state.
package anm

import "time"

// Key identifies one ANM record.
type Key struct {
	Addr      [16]byte
	Interface string
}

// Record is the replay-protection state for one peer on one interface.
type Record struct {
	LastTS   uint32
	LastPC   uint16
	LastRecv time.Time
}

// Table holds at most one Record per Key.
type Table struct {
	records map[Key]Record
}

// NewTable returns an empty ANM.
func NewTable() *Table {
	return &Table{records: make(map[Key]Record)}
}

// Lookup returns the record for (addr, iface), if any.
func (t *Table) Lookup(addr [16]byte, iface string) (Record, bool) {
	r, ok := t.records[Key{Addr: addr, Interface: iface}]
	return r, ok
}

// Upsert updates the existing record in place, or inserts a new one.
// Callers are expected to only call this after confirming (ts, pc) is
// strictly greater than whatever Lookup returned — Upsert itself does
// not re-check ordering.
func (t *Table) Upsert(addr [16]byte, iface string, ts uint32, pc uint16, now time.Time) {
	t.records[Key{Addr: addr, Interface: iface}] = Record{LastTS: ts, LastPC: pc, LastRecv: now}
}

// Housekeep evicts every record whose last receive time is older than
// timeout relative to now.
func (t *Table) Housekeep(now time.Time, timeout time.Duration) {
	for k, r := range t.records {
		if now.Sub(r.LastRecv) > timeout {
			delete(t.records, k)
		}
	}
}

// ClearAll empties the table (operator "clear babel authentication memory").
func (t *Table) ClearAll() {
	t.records = make(map[Key]Record)
}

// Iterate calls fn once per record, in unspecified order. fn must not
// mutate the table.
func (t *Table) Iterate(fn func(Key, Record)) {
	for k, r := range t.records {
		fn(k, r)
	}
}

// Len reports the number of live records.
func (t *Table) Len() int {
	return len(t.records)
}
