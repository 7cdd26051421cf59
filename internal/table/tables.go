package table

import "sort"

// AddressTable is the ordered address table with an AID lookup index and the
// column set it was loaded with. Rows are only appended, never deleted.
type AddressTable struct {
	Rows    []AddressRecord
	columns map[string]bool
	order   []string
	index   map[int]int
}

// NewAddressTable creates an empty table carrying the given source columns.
func NewAddressTable(columns []string) *AddressTable {
	t := &AddressTable{
		columns: make(map[string]bool, len(columns)),
		order:   append([]string(nil), columns...),
		index:   make(map[int]int),
	}
	for _, c := range columns {
		t.columns[c] = true
	}
	return t
}

// Append adds a record and indexes its AID. The first row wins if the same
// AID is appended twice.
func (t *AddressTable) Append(rec AddressRecord) {
	t.Rows = append(t.Rows, rec)
	if _, exists := t.index[rec.AID]; !exists {
		t.index[rec.AID] = len(t.Rows) - 1
	}
}

// Lookup returns a pointer to the row for the given AID, or nil if the AID is
// not present. The pointer stays valid until the next Append.
func (t *AddressTable) Lookup(aid int) *AddressRecord {
	i, ok := t.index[aid]
	if !ok {
		return nil
	}
	return &t.Rows[i]
}

// HasColumn reports whether the source data carried the named column.
func (t *AddressTable) HasColumn(column string) bool {
	return t.columns[column]
}

// Columns returns the source column order.
func (t *AddressTable) Columns() []string {
	return append([]string(nil), t.order...)
}

// MissingColumns returns the required columns absent from the source data,
// sorted for stable error messages.
func (t *AddressTable) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !t.columns[c] {
			missing = append(missing, c)
		}
	}
	sort.Strings(missing)
	return missing
}

// MaxAID returns the highest AID currently in the table, or 0 when empty.
func (t *AddressTable) MaxAID() int {
	max := 0
	for i := range t.Rows {
		if t.Rows[i].AID > max {
			max = t.Rows[i].AID
		}
	}
	return max
}

// Len returns the number of rows.
func (t *AddressTable) Len() int {
	return len(t.Rows)
}

// RelationshipTable is the ordered relationship table plus its source column
// set. Rows are never deleted; only their AID pointers are rewritten.
type RelationshipTable struct {
	Rows    []Relationship
	columns map[string]bool
	order   []string
}

// NewRelationshipTable creates an empty table carrying the given columns.
func NewRelationshipTable(columns []string) *RelationshipTable {
	t := &RelationshipTable{
		columns: make(map[string]bool, len(columns)),
		order:   append([]string(nil), columns...),
	}
	for _, c := range columns {
		t.columns[c] = true
	}
	return t
}

// Append adds a relationship row.
func (t *RelationshipTable) Append(rel Relationship) {
	t.Rows = append(t.Rows, rel)
}

// HasColumn reports whether the source data carried the named column.
func (t *RelationshipTable) HasColumn(column string) bool {
	return t.columns[column]
}

// Columns returns the source column order.
func (t *RelationshipTable) Columns() []string {
	return append([]string(nil), t.order...)
}

// MissingColumns returns the required columns absent from the source data.
func (t *RelationshipTable) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !t.columns[c] {
			missing = append(missing, c)
		}
	}
	sort.Strings(missing)
	return missing
}

// Len returns the number of rows.
func (t *RelationshipTable) Len() int {
	return len(t.Rows)
}

// EntityTable is the ordered entity table.
type EntityTable struct {
	Rows    []EntityRecord
	columns map[string]bool
	order   []string
}

// NewEntityTable creates an empty table carrying the given columns.
func NewEntityTable(columns []string) *EntityTable {
	t := &EntityTable{
		columns: make(map[string]bool, len(columns)),
		order:   append([]string(nil), columns...),
	}
	for _, c := range columns {
		t.columns[c] = true
	}
	return t
}

// Append adds an entity row.
func (t *EntityTable) Append(rec EntityRecord) {
	t.Rows = append(t.Rows, rec)
}

// HasColumn reports whether the source data carried the named column.
func (t *EntityTable) HasColumn(column string) bool {
	return t.columns[column]
}

// Columns returns the source column order.
func (t *EntityTable) Columns() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of rows.
func (t *EntityTable) Len() int {
	return len(t.Rows)
}
