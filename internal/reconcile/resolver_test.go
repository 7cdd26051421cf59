package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fa-reconcile/internal/table"
)

var addressCols = []string{
	table.ColAID, table.ColNum1, table.ColStreetName, table.ColStreetSuffix,
	table.ColUnit, table.ColCity, table.ColState, table.ColZip, table.ColFullAddress,
}

var relationshipCols = []string{
	table.ColEID1, table.ColAID2, table.ColRelationshipType, table.ColNumber,
}

func newAddressTable(recs ...table.AddressRecord) *table.AddressTable {
	t := table.NewAddressTable(addressCols)
	for _, r := range recs {
		t.Append(r)
	}
	return t
}

func newRelationshipTable(rels ...table.Relationship) *table.RelationshipTable {
	t := table.NewRelationshipTable(relationshipCols)
	for _, r := range rels {
		t.Append(r)
	}
	return t
}

func TestResolveSingleValueAppliesInPlace(t *testing.T) {
	addresses := newAddressTable(table.AddressRecord{
		AID: 100, Num1: "12", StreetName: "Main St", City: "Springfield", State: "IL",
	})
	rels := newRelationshipTable()

	maxAID, splits := Resolve(addresses, rels, []ProposedChange{
		{AID: 100, EID: "E1", Column: table.ColZip, Proposed: "_12345", Rule: "test"},
	}, 100)

	assert.Equal(t, 100, maxAID, "uncontested edits never mint an AID")
	assert.Empty(t, splits)

	rec := addresses.Lookup(100)
	require.NotNil(t, rec)
	assert.Equal(t, "_12345", rec.Zip)
	assert.Equal(t, "12 Main St Springfield IL _12345", rec.FullAddress,
		"derived full address recomputed after the edit")
}

func TestResolveNoOpWhenValueAlreadyStored(t *testing.T) {
	addresses := newAddressTable(table.AddressRecord{
		AID: 100, Zip: "_12345", FullAddress: "untouched",
	})
	rels := newRelationshipTable()

	_, splits := Resolve(addresses, rels, []ProposedChange{
		{AID: 100, EID: "E1", Column: table.ColZip, Proposed: "_12345"},
	}, 100)

	assert.Empty(t, splits)
	assert.Equal(t, "untouched", addresses.Lookup(100).FullAddress,
		"no-op proposals must not touch the derived field")
}

func TestResolveBlankFormsAreOneSentinel(t *testing.T) {
	addresses := newAddressTable(table.AddressRecord{
		AID: 100, Unit: "  ", FullAddress: "untouched",
	})
	rels := newRelationshipTable()

	_, splits := Resolve(addresses, rels, []ProposedChange{
		{AID: 100, Column: table.ColUnit, Proposed: ""},
	}, 100)

	assert.Empty(t, splits)
	assert.Equal(t, "  ", addresses.Lookup(100).Unit, "blank-to-blank is a no-op")
	assert.Equal(t, "untouched", addresses.Lookup(100).FullAddress)
}

func TestResolveConflictMintsOneAIDPerMinority(t *testing.T) {
	addresses := newAddressTable(table.AddressRecord{AID: 100, Num1: "12", StreetName: "Old Rd"})
	rels := newRelationshipTable(
		table.Relationship{EID: "E1", AID: 100},
		table.Relationship{EID: "E2", AID: 100},
		table.Relationship{EID: "E3", AID: 100},
		table.Relationship{EID: "E4", AID: 100},
		table.Relationship{EID: "E5", AID: 100},
		table.Relationship{EID: "E6", AID: 100},
	)

	// c1=3 > c2=2 > c3=1: majority is "Main St", two minorities split.
	proposals := []ProposedChange{
		{AID: 100, EID: "E1", Column: table.ColStreetName, Proposed: "Main St"},
		{AID: 100, EID: "E2", Column: table.ColStreetName, Proposed: "Main St"},
		{AID: 100, EID: "E3", Column: table.ColStreetName, Proposed: "Main St"},
		{AID: 100, EID: "E4", Column: table.ColStreetName, Proposed: "Maine St"},
		{AID: 100, EID: "E5", Column: table.ColStreetName, Proposed: "Maine St"},
		{AID: 100, EID: "E6", Column: table.ColStreetName, Proposed: "Mane St"},
	}

	maxAID, splits := Resolve(addresses, rels, proposals, 100)

	assert.Equal(t, 102, maxAID, "k=3 distinct values mint exactly k-1 AIDs")
	require.Len(t, splits, 2)

	assert.Equal(t, "Main St", addresses.Lookup(100).StreetName, "majority stays on the original AID")

	// Minorities in supporter-count order: Maine St first, then Mane St.
	assert.Equal(t, SplitEvent{OldAID: 100, NewAID: 101, Column: table.ColStreetName, NewValue: "Maine St"}, splits[0])
	assert.Equal(t, SplitEvent{OldAID: 100, NewAID: 102, Column: table.ColStreetName, NewValue: "Mane St"}, splits[1])

	assert.Equal(t, "Maine St", addresses.Lookup(101).StreetName)
	assert.Equal(t, "12", addresses.Lookup(101).Num1, "clone keeps the untouched fields")
	assert.Equal(t, "Mane St", addresses.Lookup(102).StreetName)

	// Relationship rows follow their supporters.
	byEID := make(map[string]int)
	for _, r := range rels.Rows {
		byEID[r.EID] = r.AID
	}
	assert.Equal(t, map[string]int{
		"E1": 100, "E2": 100, "E3": 100,
		"E4": 101, "E5": 101,
		"E6": 102,
	}, byEID)
}

func TestResolveTieBreaksToGreatestLiteral(t *testing.T) {
	for _, order := range [][]ProposedChange{
		{
			{AID: 100, EID: "E1", Column: table.ColUnit, Proposed: "2020"},
			{AID: 100, EID: "E2", Column: table.ColUnit, Proposed: "2021"},
		},
		{
			{AID: 100, EID: "E2", Column: table.ColUnit, Proposed: "2021"},
			{AID: 100, EID: "E1", Column: table.ColUnit, Proposed: "2020"},
		},
	} {
		addresses := newAddressTable(table.AddressRecord{AID: 100})
		rels := newRelationshipTable(
			table.Relationship{EID: "E1", AID: 100},
			table.Relationship{EID: "E2", AID: 100},
		)

		_, splits := Resolve(addresses, rels, order, 100)

		require.Len(t, splits, 1)
		assert.Equal(t, "2021", addresses.Lookup(100).Unit,
			"equal supporter counts must resolve to the lexicographically greatest value")
		assert.Equal(t, "2020", splits[0].NewValue)
	}
}

func TestResolveDuplicateSupportersCountOnce(t *testing.T) {
	addresses := newAddressTable(table.AddressRecord{AID: 100})
	rels := newRelationshipTable(table.Relationship{EID: "E1", AID: 100})

	// E1 repeats three times for "A" but is one supporter; two distinct
	// contexts back "B".
	proposals := []ProposedChange{
		{AID: 100, EID: "E1", Column: table.ColCity, Proposed: "A"},
		{AID: 100, EID: "E1", Column: table.ColCity, Proposed: "A"},
		{AID: 100, EID: "E1", Column: table.ColCity, Proposed: "A"},
		{AID: 100, EID: "E2", Column: table.ColCity, Proposed: "B"},
		{AID: 100, EID: "E3", Column: table.ColCity, Proposed: "B"},
	}

	_, splits := Resolve(addresses, rels, proposals, 100)

	require.Len(t, splits, 1)
	assert.Equal(t, "B", addresses.Lookup(100).City)
	assert.Equal(t, "A", splits[0].NewValue)
}

func TestResolveStaleAIDDroppedSilently(t *testing.T) {
	addresses := newAddressTable(table.AddressRecord{AID: 100})
	rels := newRelationshipTable()

	maxAID, splits := Resolve(addresses, rels, []ProposedChange{
		{AID: 999, EID: "E1", Column: table.ColZip, Proposed: "_12345"},
	}, 100)

	assert.Equal(t, 100, maxAID)
	assert.Empty(t, splits)
}

func TestResolveIdempotentOnOwnOutput(t *testing.T) {
	addresses := newAddressTable(
		table.AddressRecord{AID: 100, Num1: "12", StreetName: "Main St"},
		table.AddressRecord{AID: 101, Num1: "9", StreetName: "Elm St"},
	)
	rels := newRelationshipTable(
		table.Relationship{EID: "E1", AID: 100},
		table.Relationship{EID: "E2", AID: 100},
		table.Relationship{EID: "E3", AID: 101},
	)

	proposals := []ProposedChange{
		{AID: 100, EID: "E1", Column: table.ColZip, Proposed: "_12345"},
		{AID: 100, EID: "E2", Column: table.ColZip, Proposed: "_99999"},
		{AID: 101, EID: "E3", Column: table.ColCity, Proposed: "Ogdenville"},
	}

	maxAID, splits := Resolve(addresses, rels, proposals, 101)
	require.NotEmpty(t, splits)

	snapshotAddr := append([]table.AddressRecord(nil), addresses.Rows...)
	snapshotRels := append([]table.Relationship(nil), rels.Rows...)

	maxAID2, splits2 := Resolve(addresses, rels, nil, maxAID)

	assert.Equal(t, maxAID, maxAID2)
	assert.Empty(t, splits2)
	assert.Equal(t, snapshotAddr, addresses.Rows)
	assert.Equal(t, snapshotRels, rels.Rows)
}
