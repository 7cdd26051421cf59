package table

// MergedRow is one row of the merged view: a relationship row left-joined to
// its entity and address. Address fields are blank when the AID pointer is
// dangling, mirroring a left join.
type MergedRow struct {
	EID              string
	AID              int
	RelationshipType string
	Number           string
	Address          AddressRecord
	AddressPresent   bool
}

// MergedView is the read-only input to the proposal rules. Its column set is
// the union of the joined tables' columns, so rule preconditions can be
// validated against what the source data actually carried.
type MergedView struct {
	Rows    []MergedRow
	columns map[string]bool
}

// BuildMergedView left-joins relationships to entities and addresses in
// relationship-row order. The row order is stable and load-bearing: the
// signature splitter's first-encountered rule depends on it.
func BuildMergedView(rels *RelationshipTable, entities *EntityTable, addresses *AddressTable) *MergedView {
	v := &MergedView{columns: make(map[string]bool)}
	for _, c := range rels.Columns() {
		v.columns[c] = true
	}
	for _, c := range entities.Columns() {
		v.columns[c] = true
	}
	for _, c := range addresses.Columns() {
		v.columns[c] = true
	}

	v.Rows = make([]MergedRow, 0, rels.Len())
	for _, rel := range rels.Rows {
		row := MergedRow{
			EID:              rel.EID,
			AID:              rel.AID,
			RelationshipType: rel.RelationshipType,
			Number:           rel.Number,
		}
		if rec := addresses.Lookup(rel.AID); rec != nil {
			row.Address = *rec
			row.AddressPresent = true
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// HasColumn reports whether the view carries the named column.
func (v *MergedView) HasColumn(column string) bool {
	return v.columns[column]
}

// MissingColumns returns the required columns absent from the view.
func (v *MergedView) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !v.columns[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Get returns the value of the named column for this merged row. AID_2 and
// AID are not addressable through Get; they are integers, not cell text.
func (r *MergedRow) Get(column string) (string, bool) {
	switch column {
	case ColEID1, ColEID:
		return r.EID, true
	case ColRelationshipType:
		return r.RelationshipType, true
	case ColNumber:
		return r.Number, true
	}
	return r.Address.Get(column)
}
