package rules

import (
	"reflect"
	"strings"
	"testing"

	"github.com/fa-reconcile/internal/reconcile"
	"github.com/fa-reconcile/internal/table"
)

func TestProposeStreetNameCorrections(t *testing.T) {
	// One building observed by E1 with three spellings; "Main Street" is
	// the most frequent and becomes the representative.
	addrs := []table.AddressRecord{
		{AID: 1, Num1: "12", StreetName: "Main Street"},
		{AID: 2, Num1: "12", StreetName: "Main Street"},
		{AID: 3, Num1: "12", StreetName: "Main Stret"},
		{AID: 4, Num1: "12", StreetName: "Main Streeet"},
		{AID: 5, Num1: "9", StreetName: "Elm Road"}, // different building, untouched
	}
	rels := []table.Relationship{
		{EID: "E1", AID: 1}, {EID: "E1", AID: 2}, {EID: "E1", AID: 3},
		{EID: "E1", AID: 4}, {EID: "E1", AID: 5},
	}

	got := ProposeStreetNameCorrections(buildView(addrs, rels), DefaultConfig())

	want := []reconcile.ProposedChange{
		{AID: 3, EID: "E1", Column: table.ColStreetName, Original: "Main Stret", Proposed: "Main Street", Rule: RuleNameStreetName},
		{AID: 4, EID: "E1", Column: table.ColStreetName, Original: "Main Streeet", Proposed: "Main Street", Rule: RuleNameStreetName},
	}
	assertProposals(t, got, want)
}

func TestProposeStreetNameCaseOnlyVariantsResolve(t *testing.T) {
	// Same normalized spelling, different cases: zero edit distance, so the
	// cluster resolves by frequency of the literal forms.
	addrs := []table.AddressRecord{
		{AID: 1, Num1: "12", StreetName: "MAIN ST"},
		{AID: 2, Num1: "12", StreetName: "Main St"},
		{AID: 3, Num1: "12", StreetName: "Main St"},
	}
	rels := []table.Relationship{
		{EID: "E1", AID: 1}, {EID: "E1", AID: 2}, {EID: "E1", AID: 3},
	}

	got := ProposeStreetNameCorrections(buildView(addrs, rels), DefaultConfig())

	want := []reconcile.ProposedChange{
		{AID: 1, EID: "E1", Column: table.ColStreetName, Original: "MAIN ST", Proposed: "Main St", Rule: RuleNameStreetName},
	}
	assertProposals(t, got, want)
}

func TestProposeStreetNameGroupsDoNotLeak(t *testing.T) {
	// The same misspelling under different entities stays separate: each
	// group has one spelling, so nothing to correct.
	addrs := []table.AddressRecord{
		{AID: 1, Num1: "12", StreetName: "Main Street"},
		{AID: 2, Num1: "12", StreetName: "Main Stret"},
	}
	rels := []table.Relationship{
		{EID: "E1", AID: 1}, {EID: "E2", AID: 2},
	}

	if got := ProposeStreetNameCorrections(buildView(addrs, rels), DefaultConfig()); len(got) != 0 {
		t.Errorf("expected no cross-entity proposals, got %v", got)
	}
}

func TestProposeStreetNameOrderIndependent(t *testing.T) {
	addrs := []table.AddressRecord{
		{AID: 1, Num1: "12", StreetName: "Main Street"},
		{AID: 2, Num1: "12", StreetName: "Main Street"},
		{AID: 3, Num1: "12", StreetName: "Main Stret"},
		{AID: 4, Num1: "12", StreetName: "Main Streeet"},
	}
	rels := []table.Relationship{
		{EID: "E1", AID: 1}, {EID: "E1", AID: 2}, {EID: "E1", AID: 3}, {EID: "E1", AID: 4},
	}
	want := ProposeStreetNameCorrections(buildView(addrs, rels), DefaultConfig())

	// Reverse the relationship (and therefore view) row order.
	reversedRels := []table.Relationship{
		{EID: "E1", AID: 4}, {EID: "E1", AID: 3}, {EID: "E1", AID: 2}, {EID: "E1", AID: 1},
	}
	got := ProposeStreetNameCorrections(buildView(addrs, reversedRels), DefaultConfig())

	if !reflect.DeepEqual(got, want) {
		t.Errorf("proposals depend on row order:\ngot:  %v\nwant: %v", got, want)
	}
}

func TestValidateColumns(t *testing.T) {
	// A view missing zip_c fails every ZIP rule at once, naming each.
	at := table.NewAddressTable([]string{table.ColAID, table.ColNum1, table.ColStreetName, table.ColCity, table.ColState})
	at.Append(table.AddressRecord{AID: 1})
	rt := table.NewRelationshipTable(relationshipCols)
	et := table.NewEntityTable([]string{table.ColEID})
	view := table.BuildMergedView(rt, et, at)

	err := ValidateColumns(view, All())
	if err == nil {
		t.Fatal("expected validation error for missing zip_c")
	}
	for _, name := range []string{RuleNameFillMissingZips, RuleNameReplaceInvalidZips, RuleNameFillZipsByAddress, RuleNameCityByZip} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not name failing rule %q: %v", name, err)
		}
	}
	if !strings.Contains(err.Error(), table.ColZip) {
		t.Errorf("error does not name the missing column: %v", err)
	}
}
