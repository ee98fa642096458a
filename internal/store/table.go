// Package store persists crawl results as CSV tables and merges new batches
// into them with keep-first deduplication.
package store

import "strings"

// keySeparator joins multi-column key values; it cannot appear in scraped text
const keySeparator = "\x1f"

// Table is an in-memory tabular dataset. Every row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given header
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of a column, or -1
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Append adds a row, padding or truncating it to the header width
func (t *Table) Append(values ...string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Value returns the cell of row i in column, or "" when the column is absent
func (t *Table) Value(i int, column string) string {
	idx := t.Index(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][idx]
}

// missing returns the columns of want that t lacks
func (t *Table) missing(want []string) []string {
	var absent []string
	for _, c := range want {
		if t.Index(c) < 0 {
			absent = append(absent, c)
		}
	}
	return absent
}

func (t *Table) key(row []string, idx []int) string {
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = row[j]
	}
	return strings.Join(parts, keySeparator)
}

// concat returns old followed by add. Columns are the union in first-seen
// order; cells of columns a side lacks are empty.
func concat(old, add *Table) *Table {
	merged := &Table{}
	for _, t := range []*Table{old, add} {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if merged.Index(c) < 0 {
				merged.Columns = append(merged.Columns, c)
			}
		}
	}

	for _, t := range []*Table{old, add} {
		if t == nil {
			continue
		}
		pos := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			pos[i] = merged.Index(c)
		}
		for _, r := range t.Rows {
			row := make([]string, len(merged.Columns))
			for i, v := range r {
				if i < len(pos) {
					row[pos[i]] = v
				}
			}
			merged.Rows = append(merged.Rows, row)
		}
	}
	return merged
}

// dedup keeps the first row of every key and reports which kept rows have
// an index >= from.
func dedup(t *Table, keys []string, from int) (*Table, []string) {
	idx := make([]int, len(keys))
	for i, k := range keys {
		idx[i] = t.Index(k)
	}

	out := &Table{Columns: t.Columns}
	seen := make(map[string]struct{}, len(t.Rows))
	var added []string
	for i, row := range t.Rows {
		k := t.key(row, idx)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out.Rows = append(out.Rows, row)
		if i >= from {
			added = append(added, k)
		}
	}
	return out, added
}
