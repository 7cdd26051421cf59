package reconcile

import (
	"sort"

	"github.com/fa-reconcile/internal/table"
)

// partitionKey identifies one unit of conflict.
type partitionKey struct {
	aid    int
	column string
}

// valueSupport is one distinct proposed value with its deduplicated
// supporter contexts.
type valueSupport struct {
	value      string
	supporters map[string]bool
}

// Resolve applies a batch of proposed changes to the address and relationship
// tables in place. Uncontested values are written directly; contested
// (AID, column) partitions apply the majority value and fork the record once
// per minority value, repointing the minority supporters' relationship rows
// to the new AID.
//
// maxAID is the highest AID already issued; the updated counter is returned
// together with the split log, in AID-issuance order. Partitions are walked
// in sorted (AID, column) order so a given input always yields the same
// output; the majority and tie-break rules themselves do not depend on that
// order.
//
// A partition whose target AID is no longer in the address table is a stale
// leftover of an earlier split and is dropped silently.
func Resolve(addresses *table.AddressTable, rels *table.RelationshipTable, proposals []ProposedChange, maxAID int) (int, []SplitEvent) {
	buckets := make(map[partitionKey][]ProposedChange)
	for _, p := range proposals {
		k := partitionKey{aid: p.AID, column: p.Column}
		buckets[k] = append(buckets[k], p)
	}

	keys := make([]partitionKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].aid != keys[j].aid {
			return keys[i].aid < keys[j].aid
		}
		return keys[i].column < keys[j].column
	})

	hasDerived := addresses.HasColumn(table.ColFullAddress)
	var splits []SplitEvent

	for _, k := range keys {
		rec := addresses.Lookup(k.aid)
		if rec == nil {
			continue // stale AID from an earlier split
		}

		support := groupBySupport(buckets[k])

		if len(support) == 1 {
			proposed := support[0].value
			cur, ok := rec.Get(k.column)
			if !ok || table.EqualValues(cur, proposed) {
				continue // nothing to do
			}
			rec.Set(k.column, proposed)
			if hasDerived {
				rec.FullAddress = rec.ReconstructFullAddress()
			}
			continue
		}

		// Conflict: majority in place, one split per minority value.
		majority := support[0].value
		if cur, ok := rec.Get(k.column); ok && !table.EqualValues(cur, majority) {
			rec.Set(k.column, majority)
			if hasDerived {
				rec.FullAddress = rec.ReconstructFullAddress()
			}
		}

		base := *rec // value copy; appends below may move the row
		for _, minority := range support[1:] {
			maxAID++
			newAID := maxAID

			clone := base
			clone.AID = newAID
			clone.Set(k.column, minority.value)
			if hasDerived {
				clone.FullAddress = clone.ReconstructFullAddress()
			}
			addresses.Append(clone)

			splits = append(splits, SplitEvent{
				OldAID:   k.aid,
				NewAID:   newAID,
				Column:   k.column,
				NewValue: minority.value,
			})

			for i := range rels.Rows {
				if rels.Rows[i].AID != k.aid {
					continue
				}
				if rels.Rows[i].EID != "" && minority.supporters[rels.Rows[i].EID] {
					rels.Rows[i].AID = newAID
				}
			}
		}
	}

	return maxAID, splits
}

// groupBySupport collapses a partition's proposals into its distinct values
// with deduplicated supporter sets, ordered majority first: supporter count
// descending, ties broken toward the lexicographically greatest literal.
func groupBySupport(items []ProposedChange) []valueSupport {
	byValue := make(map[string]map[string]bool)
	for _, p := range items {
		set, ok := byValue[p.Proposed]
		if !ok {
			set = make(map[string]bool)
			byValue[p.Proposed] = set
		}
		set[p.EID] = true // "" context deduplicates to a single supporter
	}

	out := make([]valueSupport, 0, len(byValue))
	for v, set := range byValue {
		out = append(out, valueSupport{value: v, supporters: set})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].supporters) != len(out[j].supporters) {
			return len(out[i].supporters) > len(out[j].supporters)
		}
		return out[i].value > out[j].value
	})
	return out
}
