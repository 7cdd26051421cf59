package rules

import (
	"sort"
	"strings"

	"github.com/fa-reconcile/internal/reconcile"
	"github.com/fa-reconcile/internal/table"
)

// cityGroup is one validated-ZIP bucket of city spellings.
type cityGroup struct {
	zip    string
	rowIdx []int
	spellings
}

// ProposeCityCorrectionsByZip is Rule 4: within each valid ZIP, cluster the
// normalized city spellings, pick each cluster's representative spelling by
// raw occurrence count, and propose it for every row spelled differently.
// City evidence crosses entities, so these proposals carry no entity
// context.
func ProposeCityCorrectionsByZip(v *table.MergedView, cfg Config) []reconcile.ProposedChange {
	threshold := cfg.CityThreshold

	groups, order := collectCityGroups(v)
	snapshots := make([]spellings, len(order))
	for gi, zip := range order {
		snapshots[gi] = groups[zip].spellings
	}
	best := resolveClusters(snapshots, threshold, cfg.Workers)

	var proposals []reconcile.ProposedChange
	for gi, zip := range order {
		g := groups[zip]
		for _, ri := range g.rowIdx {
			row := &v.Rows[ri]
			want, ok := best[gi][normalize(row.Address.City)]
			if !ok || row.Address.City == want {
				continue
			}
			proposals = append(proposals, reconcile.ProposedChange{
				AID:      row.AID,
				Column:   table.ColCity,
				Original: row.Address.City,
				Proposed: want,
				Rule:     RuleNameCityByZip,
			})
		}
	}
	sortProposals(proposals)
	return proposals
}

// collectCityGroups buckets the view rows by validated ZIP. Rows with a
// blank city or a ZIP outside the validated format are outside the rule.
func collectCityGroups(v *table.MergedView) (map[string]*cityGroup, []string) {
	groups := make(map[string]*cityGroup)
	var order []string

	for i := range v.Rows {
		row := &v.Rows[i]
		if table.IsBlank(row.Address.City) {
			continue
		}
		zip := strings.TrimSpace(row.Address.Zip)
		if !ValidZip(zip) {
			continue
		}

		g, ok := groups[zip]
		if !ok {
			g = &cityGroup{zip: zip, spellings: newSpellings()}
			groups[zip] = g
			order = append(order, zip)
		}
		g.rowIdx = append(g.rowIdx, i)
		g.observe(row.Address.City, normalize(row.Address.City))
	}

	sort.Strings(order)
	return groups, order
}
