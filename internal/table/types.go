// Package table holds the in-memory tabular model for a reconciliation run:
// the address table (fa), the entity table (fe), the relationship table
// (r_fe_fa) and the merged view the proposal rules read from.
//
// Blank handling: the canonical blank is the empty string after whitespace
// trim. A missing CSV cell or SQL NULL loads as "", and "" compares equal to
// "" everywhere. Blank is a first-class value, never an error.
package table

import "strings"

// Column names of the address (fa) table.
const (
	ColAID          = "AID"
	ColNum1         = "num1_c"
	ColStreetName   = "streetName_c"
	ColStreetSuffix = "streetSuffix_c"
	ColUnit         = "unit_c"
	ColCity         = "city_c"
	ColState        = "state_c"
	ColZip          = "zip_c"
	ColFullAddress  = "fullAddress_c"
)

// Column names of the relationship (r_fe_fa) and entity (fe) tables.
const (
	ColEID              = "EID"
	ColEID1             = "EID_1"
	ColAID2             = "AID_2"
	ColRelationshipType = "relationshipType"
	ColNumber           = "number"
)

// AddressRecord is one row of the address table, keyed by AID.
// All component fields are literal strings as loaded; "" means blank.
type AddressRecord struct {
	AID          int
	Num1         string
	StreetName   string
	StreetSuffix string
	Unit         string
	City         string
	State        string
	Zip          string
	FullAddress  string
}

// Get returns the value of the named column. The second return is false for
// a column name the address schema does not define.
func (r *AddressRecord) Get(column string) (string, bool) {
	switch column {
	case ColNum1:
		return r.Num1, true
	case ColStreetName:
		return r.StreetName, true
	case ColStreetSuffix:
		return r.StreetSuffix, true
	case ColUnit:
		return r.Unit, true
	case ColCity:
		return r.City, true
	case ColState:
		return r.State, true
	case ColZip:
		return r.Zip, true
	case ColFullAddress:
		return r.FullAddress, true
	}
	return "", false
}

// Set assigns the named column. Returns false for an unknown column.
func (r *AddressRecord) Set(column, value string) bool {
	switch column {
	case ColNum1:
		r.Num1 = value
	case ColStreetName:
		r.StreetName = value
	case ColStreetSuffix:
		r.StreetSuffix = value
	case ColUnit:
		r.Unit = value
	case ColCity:
		r.City = value
	case ColState:
		r.State = value
	case ColZip:
		r.Zip = value
	case ColFullAddress:
		r.FullAddress = value
	default:
		return false
	}
	return true
}

// ReconstructFullAddress rebuilds the derived full-address string from the
// component fields: non-blank number, street name, city, state and ZIP joined
// by single spaces. Street suffix and unit are not part of the derived form.
func (r *AddressRecord) ReconstructFullAddress() string {
	parts := make([]string, 0, 5)
	for _, v := range []string{r.Num1, r.StreetName, r.City, r.State, r.Zip} {
		if !IsBlank(v) {
			parts = append(parts, v)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// EntityRecord is one row of the entity table. Entities are opaque beyond
// their identifier.
type EntityRecord struct {
	EID string
}

// Relationship links an entity to an address. Only the AID pointer is ever
// mutated, and only while splitting.
type Relationship struct {
	EID              string
	AID              int
	RelationshipType string
	Number           string
}

// IsBlank reports whether a value is the canonical blank: empty after
// whitespace trim.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// EqualValues compares two cell values treating every blank form as the same
// sentinel.
func EqualValues(a, b string) bool {
	if IsBlank(a) && IsBlank(b) {
		return true
	}
	return a == b
}
