package rules

import (
	"sort"
	"strings"

	"github.com/fa-reconcile/internal/reconcile"
	"github.com/fa-reconcile/internal/table"
)

// streetGroup is one (entity, house number) bucket of street spellings.
type streetGroup struct {
	eid    string
	num    string
	rowIdx []int
	spellings
}

// ProposeStreetNameCorrections is Rule 2: inside each (entity, house number)
// bucket, cluster the normalized street spellings by edit distance, pick the
// representative spelling of each cluster by raw occurrence count, and
// propose it for every row spelled differently.
//
// The per-bucket pairwise comparisons are independent, so buckets are
// clustered concurrently over immutable snapshots; the results are merged
// into one deterministic proposal list before returning.
func ProposeStreetNameCorrections(v *table.MergedView, cfg Config) []reconcile.ProposedChange {
	threshold := cfg.StreetThreshold

	groups, order := collectStreetGroups(v)
	snapshots := make([]spellings, len(order))
	for gi, key := range order {
		snapshots[gi] = groups[key].spellings
	}
	best := resolveClusters(snapshots, threshold, cfg.Workers)

	var proposals []reconcile.ProposedChange
	for gi, key := range order {
		g := groups[key]
		for _, ri := range g.rowIdx {
			row := &v.Rows[ri]
			want, ok := best[gi][normalize(row.Address.StreetName)]
			if !ok || row.Address.StreetName == want {
				continue
			}
			proposals = append(proposals, reconcile.ProposedChange{
				AID:      row.AID,
				EID:      g.eid,
				Column:   table.ColStreetName,
				Original: row.Address.StreetName,
				Proposed: want,
				Rule:     RuleNameStreetName,
			})
		}
	}
	sortProposals(proposals)
	return proposals
}

// collectStreetGroups buckets the view rows by (entity, house number). Rows
// with a blank entity, house number or street name are outside the rule.
func collectStreetGroups(v *table.MergedView) (map[entityGroupKey]*streetGroup, []entityGroupKey) {
	groups := make(map[entityGroupKey]*streetGroup)
	var order []entityGroupKey

	for i := range v.Rows {
		row := &v.Rows[i]
		if table.IsBlank(row.EID) || table.IsBlank(row.Address.Num1) || table.IsBlank(row.Address.StreetName) {
			continue
		}
		key := entityGroupKey{eid: row.EID, num: strings.TrimSpace(row.Address.Num1)}

		g, ok := groups[key]
		if !ok {
			g = &streetGroup{eid: row.EID, num: key.num, spellings: newSpellings()}
			groups[key] = g
			order = append(order, key)
		}
		g.rowIdx = append(g.rowIdx, i)
		g.observe(row.Address.StreetName, normalize(row.Address.StreetName))
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].eid != order[j].eid {
			return order[i].eid < order[j].eid
		}
		return order[i].num < order[j].num
	})
	return groups, order
}
