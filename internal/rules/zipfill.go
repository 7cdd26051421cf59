package rules

import (
	"strings"

	"github.com/fa-reconcile/internal/reconcile"
	"github.com/fa-reconcile/internal/table"
)

// entityGroupKey keys the (entity, house number, normalized street) buckets
// used by Rules 1 and 3a.
type entityGroupKey struct {
	eid    string
	num    string
	street string
}

// ProposeFillMissingZips is Rule 1: within each (EID, house number,
// normalized street) group carrying exactly one distinct valid ZIP, propose
// that ZIP for every blank ZIP in the group.
func ProposeFillMissingZips(v *table.MergedView, _ Config) []reconcile.ProposedChange {
	canon := canonicalZipsByEntityGroup(v)

	var proposals []reconcile.ProposedChange
	for i := range v.Rows {
		row := &v.Rows[i]
		key, ok := entityGroup(row)
		if !ok {
			continue
		}
		zip, want := strings.TrimSpace(row.Address.Zip), canon[key]
		if want == "" || zip != "" {
			continue
		}
		proposals = append(proposals, reconcile.ProposedChange{
			AID:      row.AID,
			EID:      row.EID,
			Column:   table.ColZip,
			Original: row.Address.Zip,
			Proposed: want,
			Rule:     RuleNameFillMissingZips,
		})
	}
	return proposals
}

// ProposeReplaceInvalidZips is Rule 3a: the same grouping as Rule 1, but the
// canonical ZIP replaces invalid (non-blank, malformed) ZIPs instead of
// filling blanks.
func ProposeReplaceInvalidZips(v *table.MergedView, _ Config) []reconcile.ProposedChange {
	canon := canonicalZipsByEntityGroup(v)

	var proposals []reconcile.ProposedChange
	for i := range v.Rows {
		row := &v.Rows[i]
		key, ok := entityGroup(row)
		if !ok {
			continue
		}
		want := canon[key]
		if want == "" || !InvalidZip(row.Address.Zip) {
			continue
		}
		proposals = append(proposals, reconcile.ProposedChange{
			AID:      row.AID,
			EID:      row.EID,
			Column:   table.ColZip,
			Original: row.Address.Zip,
			Proposed: want,
			Rule:     RuleNameReplaceInvalidZips,
		})
	}
	return proposals
}

// addressGroupKey keys the entity-independent (state, city, street, house
// number) buckets used by Rule 3b.
type addressGroupKey struct {
	state  string
	city   string
	street string
	num    string
}

// ProposeFillMissingZipsByAddress is Rule 3b: for every (state, city,
// street, house number) combination regardless of entity, if exactly one
// distinct valid ZIP appears, propose it for all blank ZIPs in the
// combination. These proposals carry no entity context.
func ProposeFillMissingZipsByAddress(v *table.MergedView, _ Config) []reconcile.ProposedChange {
	distinct := make(map[addressGroupKey][]string)
	for i := range v.Rows {
		row := &v.Rows[i]
		key, ok := addressGroup(row)
		if !ok {
			continue
		}
		zip := strings.TrimSpace(row.Address.Zip)
		if !ValidZip(zip) {
			continue
		}
		if !containsString(distinct[key], zip) {
			distinct[key] = append(distinct[key], zip)
		}
	}

	var proposals []reconcile.ProposedChange
	for i := range v.Rows {
		row := &v.Rows[i]
		key, ok := addressGroup(row)
		if !ok {
			continue
		}
		zips := distinct[key]
		if len(zips) != 1 || !table.IsBlank(row.Address.Zip) {
			continue
		}
		proposals = append(proposals, reconcile.ProposedChange{
			AID:      row.AID,
			Column:   table.ColZip,
			Original: row.Address.Zip,
			Proposed: zips[0],
			Rule:     RuleNameFillZipsByAddress,
		})
	}
	return proposals
}

// canonicalZipsByEntityGroup finds, per (EID, house number, street) group,
// the single valid ZIP the group agrees on. Groups with zero or several
// distinct valid ZIPs have no canonical ZIP.
func canonicalZipsByEntityGroup(v *table.MergedView) map[entityGroupKey]string {
	distinct := make(map[entityGroupKey][]string)
	for i := range v.Rows {
		row := &v.Rows[i]
		key, ok := entityGroup(row)
		if !ok {
			continue
		}
		zip := strings.TrimSpace(row.Address.Zip)
		if !ValidZip(zip) {
			continue
		}
		if !containsString(distinct[key], zip) {
			distinct[key] = append(distinct[key], zip)
		}
	}

	canon := make(map[entityGroupKey]string)
	for key, zips := range distinct {
		if len(zips) == 1 {
			canon[key] = zips[0]
		}
	}
	return canon
}

// entityGroup builds the Rule 1 / 3a grouping key for a row. Rows with a
// blank entity or house number fall outside any group, the same way rows
// with missing key cells were excluded upstream. A blank street still groups:
// blank is a value.
func entityGroup(row *table.MergedRow) (entityGroupKey, bool) {
	if table.IsBlank(row.EID) || table.IsBlank(row.Address.Num1) {
		return entityGroupKey{}, false
	}
	return entityGroupKey{
		eid:    row.EID,
		num:    strings.TrimSpace(row.Address.Num1),
		street: normalize(row.Address.StreetName),
	}, true
}

// addressGroup builds the Rule 3b grouping key. Only a blank house number
// excludes a row; state, city and street participate as blanks.
func addressGroup(row *table.MergedRow) (addressGroupKey, bool) {
	if table.IsBlank(row.Address.Num1) {
		return addressGroupKey{}, false
	}
	return addressGroupKey{
		state:  normalizeUpper(row.Address.State),
		city:   normalize(row.Address.City),
		street: normalize(row.Address.StreetName),
		num:    strings.TrimSpace(row.Address.Num1),
	}, true
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
