package reconcile

import (
	"strings"

	"github.com/fa-reconcile/internal/table"
)

// sigDelimiter separates signature parts. The unit separator cannot appear
// in the cell text, so concatenation cannot make two distinct signatures
// collide.
const sigDelimiter = "\x1f"

// SignatureColumns is the fixed ordered set of address columns that define a
// structural address identity.
var SignatureColumns = []string{
	table.ColNum1,
	table.ColStreetName,
	table.ColStreetSuffix,
	table.ColUnit,
	table.ColZip,
	table.ColCity,
	table.ColState,
}

// SplitBySignature establishes the invariant "one AID carries one address
// signature per entity pairing" before reconciliation starts. Without it the
// resolver could mistake a structurally pre-existing duplicate for a
// spelling conflict.
//
// For every relationship row a signature is computed from the entity id plus
// the literal text of every signature column. When an AID is associated with
// more than one distinct signature, the first signature encountered in
// relationship-row order keeps the original AID; each later signature gets a
// clone of the record under a freshly minted AID, and every relationship row
// bearing that signature is repointed to it.
//
// The pass is idempotent: each AID it leaves behind carries exactly one
// signature, so a second run performs zero splits. maxAID is the highest AID
// already issued; the updated counter and the split log are returned.
func SplitBySignature(addresses *table.AddressTable, rels *table.RelationshipTable, maxAID int) (int, []SplitEvent) {
	type sigKey struct {
		aid int
		sig string
	}

	// First walk: count distinct signatures per AID in stable row order.
	sigsByAID := make(map[int][]string)
	seen := make(map[sigKey]bool)
	for i := range rels.Rows {
		rel := &rels.Rows[i]
		sig := signature(rel, addresses.Lookup(rel.AID))
		k := sigKey{aid: rel.AID, sig: sig}
		if !seen[k] {
			seen[k] = true
			sigsByAID[rel.AID] = append(sigsByAID[rel.AID], sig)
		}
	}

	// Second walk: mint a new AID for every signature after the first.
	remap := make(map[sigKey]int)
	var splits []SplitEvent
	for i := range rels.Rows {
		rel := &rels.Rows[i]
		if len(sigsByAID[rel.AID]) < 2 {
			continue
		}
		sigs := sigsByAID[rel.AID]
		sig := signature(rel, addresses.Lookup(rel.AID))
		if sig == sigs[0] {
			continue // first-encountered signature keeps the original AID
		}
		k := sigKey{aid: rel.AID, sig: sig}
		newAID, ok := remap[k]
		if !ok {
			maxAID++
			newAID = maxAID
			remap[k] = newAID

			clone := *addresses.Lookup(rel.AID)
			clone.AID = newAID
			addresses.Append(clone)

			splits = append(splits, SplitEvent{
				OldAID:   rel.AID,
				NewAID:   newAID,
				Column:   "signature",
				NewValue: strings.ReplaceAll(sig, sigDelimiter, "|"),
			})
		}
		rel.AID = newAID
	}

	return maxAID, splits
}

// signature builds the entity-aware structural identity of a relationship
// row. A dangling AID contributes blank address parts, which still yields a
// well-defined signature.
func signature(rel *table.Relationship, rec *table.AddressRecord) string {
	parts := make([]string, 0, len(SignatureColumns)+1)
	parts = append(parts, rel.EID)
	for _, col := range SignatureColumns {
		v := ""
		if rec != nil {
			v, _ = rec.Get(col)
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, sigDelimiter)
}
