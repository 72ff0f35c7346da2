package mintos

import "sort"

// NotAvailable marks a field a record simply doesn't have. It is filled in
// explicitly so an absent value can never be mistaken for a numeric zero.
const NotAvailable = "N/A"

// Row is one flattened, typed record. Values are float64, time.Time, string
// or the NotAvailable sentinel.
type Row map[string]any

// Table is an ordered set of normalized records indexed by a natural key
// field (ISIN for notes and loans, ID for claims).
type Table struct {
	KeyField string
	Rows     []Row
}

func (t Table) Len() int { return len(t.Rows) }

// Columns returns the sorted union of all field names, key field first.
func (t Table) Columns() []string {
	seen := map[string]bool{}
	for _, row := range t.Rows {
		for k := range row {
			seen[k] = true
		}
	}
	delete(seen, t.KeyField)

	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	if t.KeyField == "" {
		return columns
	}
	return append([]string{t.KeyField}, columns...)
}

// Lookup finds the row whose key field equals key.
func (t Table) Lookup(key string) (Row, bool) {
	for _, row := range t.Rows {
		if row[t.KeyField] == key {
			return row, true
		}
	}
	return nil, false
}

// fillMissing pads every row with the NotAvailable sentinel for columns it
// lacks, so all rows share the same shape.
func (t Table) fillMissing() {
	columns := t.Columns()
	for _, row := range t.Rows {
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				row[col] = NotAvailable
			}
		}
	}
}
