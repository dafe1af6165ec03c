package grid

import (
	"strings"
	"sync"
)

// fieldSep joins a row's stringified values in its search text so that a
// term can never match across two attributes.
const fieldSep = "\x1f"

// Index is an immutable snapshot of one data generation. It caches the
// per-row search text and, lazily, per-column sort keys so that keystrokes
// and header clicks only rebuild index lists.
//
// An Index is safe for concurrent use.
type Index struct {
	rows    []Row
	columns map[string]ColumnConfig
	search  []string
	byID    map[string]int

	mu   sync.Mutex
	keys map[string][]sortKey
}

// NewIndex snapshots rows. The slice header is copied; rows themselves are
// treated as immutable.
func NewIndex(rows []Row, columns []ColumnConfig) *Index {
	ix := &Index{
		rows:    append([]Row(nil), rows...),
		columns: columnIndex(columns),
		search:  make([]string, len(rows)),
		byID:    make(map[string]int, len(rows)),
		keys:    make(map[string][]sortKey),
	}
	var b strings.Builder
	for i, r := range ix.rows {
		b.Reset()
		b.WriteString(r.ID)
		for _, v := range r.Values {
			b.WriteString(fieldSep)
			b.WriteString(Stringify(v))
		}
		ix.search[i] = b.String()
		if _, dup := ix.byID[r.ID]; !dup {
			ix.byID[r.ID] = i
		}
	}
	return ix
}

// Len returns the number of source rows.
func (ix *Index) Len() int { return len(ix.rows) }

// Row returns the source row at position i.
func (ix *Index) Row(i int) Row { return ix.rows[i] }

// Rows returns the rows at the given source positions, in order.
func (ix *Index) Rows(positions []int) []Row {
	out := make([]Row, len(positions))
	for i, p := range positions {
		out[i] = ix.rows[p]
	}
	return out
}

// Lookup returns the source position of the row with the given ID.
func (ix *Index) Lookup(id string) (int, bool) {
	i, ok := ix.byID[id]
	return i, ok
}

// Has reports whether a row with the given ID exists in the snapshot.
func (ix *Index) Has(id string) bool {
	_, ok := ix.byID[id]
	return ok
}

// IDs returns every row ID in source order.
func (ix *Index) IDs() []string {
	ids := make([]string, len(ix.rows))
	for i, r := range ix.rows {
		ids[i] = r.ID
	}
	return ids
}

// Column returns the configuration for a column ID.
func (ix *Index) Column(id string) (ColumnConfig, bool) {
	c, ok := ix.columns[id]
	return c, ok
}

// all returns the identity ordering 0..n-1.
func (ix *Index) all() []int {
	out := make([]int, len(ix.rows))
	for i := range out {
		out[i] = i
	}
	return out
}

// sortKeys returns the cached sort keys for column, building them on first
// use.
func (ix *Index) sortKeys(col ColumnConfig) []sortKey {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if k, ok := ix.keys[col.ID]; ok {
		return k
	}
	k := make([]sortKey, len(ix.rows))
	for i, r := range ix.rows {
		k[i] = newSortKey(col.Type, r.Value(col.ID))
	}
	ix.keys[col.ID] = k
	return k
}
