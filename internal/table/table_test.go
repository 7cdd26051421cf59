package table

import (
	"reflect"
	"testing"
)

func TestAddressRecordGetSet(t *testing.T) {
	var r AddressRecord
	for _, c := range []string{ColNum1, ColStreetName, ColStreetSuffix, ColUnit, ColCity, ColState, ColZip, ColFullAddress} {
		if !r.Set(c, "x") {
			t.Errorf("Set(%q) rejected a schema column", c)
		}
		if got, ok := r.Get(c); !ok || got != "x" {
			t.Errorf("Get(%q) = %q, %v after Set", c, got, ok)
		}
	}
	if r.Set("bogus_c", "x") {
		t.Error("Set accepted an unknown column")
	}
	if _, ok := r.Get("bogus_c"); ok {
		t.Error("Get accepted an unknown column")
	}
}

func TestReconstructFullAddress(t *testing.T) {
	tests := []struct {
		name string
		rec  AddressRecord
		want string
	}{
		{
			name: "all components",
			rec:  AddressRecord{Num1: "12", StreetName: "Main St", City: "Springfield", State: "IL", Zip: "_12345"},
			want: "12 Main St Springfield IL _12345",
		},
		{
			name: "blanks skipped",
			rec:  AddressRecord{Num1: "12", StreetName: "Main St", City: " ", Zip: "_12345"},
			want: "12 Main St _12345",
		},
		{
			name: "suffix and unit excluded",
			rec:  AddressRecord{Num1: "12", StreetName: "Main St", StreetSuffix: "N", Unit: "4B"},
			want: "12 Main St",
		},
		{
			name: "all blank",
			rec:  AddressRecord{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.ReconstructFullAddress(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlankSemantics(t *testing.T) {
	if !IsBlank("") || !IsBlank("  \t") {
		t.Error("whitespace-only values are blank")
	}
	if IsBlank(" x ") {
		t.Error("non-empty trimmed value is not blank")
	}
	if !EqualValues("", "   ") {
		t.Error("all blank forms compare equal")
	}
	if EqualValues("", "x") || EqualValues("a", "A") {
		t.Error("EqualValues must stay literal outside blanks")
	}
}

func TestAddressTable(t *testing.T) {
	at := NewAddressTable([]string{ColAID, ColZip})
	at.Append(AddressRecord{AID: 5, Zip: "_11111"})
	at.Append(AddressRecord{AID: 2, Zip: "_22222"})
	at.Append(AddressRecord{AID: 5, Zip: "_99999"}) // duplicate AID: first row wins

	if rec := at.Lookup(5); rec == nil || rec.Zip != "_11111" {
		t.Errorf("Lookup(5) = %+v, want the first appended row", rec)
	}
	if at.Lookup(7) != nil {
		t.Error("Lookup of an absent AID must return nil")
	}
	if got := at.MaxAID(); got != 5 {
		t.Errorf("MaxAID = %d, want 5", got)
	}
	if !at.HasColumn(ColZip) || at.HasColumn(ColCity) {
		t.Error("HasColumn must reflect the loaded column set")
	}
	if got := at.MissingColumns([]string{ColZip, ColNum1, ColCity}); !reflect.DeepEqual(got, []string{ColCity, ColNum1}) {
		t.Errorf("MissingColumns = %v, want sorted [city_c num1_c]", got)
	}
}

func TestBuildMergedView(t *testing.T) {
	at := NewAddressTable([]string{ColAID, ColCity})
	at.Append(AddressRecord{AID: 1, City: "Springfield"})

	rt := NewRelationshipTable([]string{ColEID1, ColAID2, ColNumber})
	rt.Append(Relationship{EID: "E1", AID: 1, Number: "1"})
	rt.Append(Relationship{EID: "E2", AID: 9, Number: "2"}) // dangling pointer

	et := NewEntityTable([]string{ColEID})
	et.Append(EntityRecord{EID: "E1"})
	et.Append(EntityRecord{EID: "E2"})

	v := BuildMergedView(rt, et, at)

	if len(v.Rows) != 2 {
		t.Fatalf("view has %d rows, want one per relationship row", len(v.Rows))
	}
	if !v.Rows[0].AddressPresent || v.Rows[0].Address.City != "Springfield" {
		t.Errorf("row 0 did not join its address: %+v", v.Rows[0])
	}
	if v.Rows[1].AddressPresent || v.Rows[1].Address.City != "" {
		t.Errorf("dangling pointer must join as blank address: %+v", v.Rows[1])
	}

	for _, c := range []string{ColEID1, ColAID2, ColNumber, ColEID, ColAID, ColCity} {
		if !v.HasColumn(c) {
			t.Errorf("view missing joined column %s", c)
		}
	}
	if v.HasColumn(ColZip) {
		t.Error("view must not claim columns no table carried")
	}

	if got, _ := v.Rows[0].Get(ColEID1); got != "E1" {
		t.Errorf("Get(EID_1) = %q", got)
	}
	if got, _ := v.Rows[0].Get(ColCity); got != "Springfield" {
		t.Errorf("Get(city_c) = %q", got)
	}
}
