// Package reconcile applies proposed address edits to the tables, resolving
// conflicting evidence per (AID, column) and splitting records when the
// evidence is irreconcilable. It also houses the signature pre-pass that
// splits AIDs carrying more than one structural address identity before any
// fuzzy or majority logic runs.
package reconcile

// ProposedChange is one immutable unit of evidence from a proposal rule.
// Several ProposedChange values may target the same (AID, Column) with
// different Proposed values; that is the unit of conflict the resolver works
// on.
type ProposedChange struct {
	// AID is the address record the change targets.
	AID int

	// EID identifies the observing context that produced the evidence.
	// Empty means the rule had no entity context; an absent context still
	// counts as one supporter.
	EID string

	// Column is the address column to change.
	Column string

	// Original is the value the rule observed; provenance only.
	Original string

	// Proposed is the value the rule wants stored.
	Proposed string

	// Rule names the producing rule; provenance only.
	Rule string
}

// SplitEvent is one append-only audit record: a record was forked because a
// minority value (or a second structural signature) could not live under the
// original AID.
type SplitEvent struct {
	OldAID   int    `json:"old_aid"`
	NewAID   int    `json:"new_aid"`
	Column   string `json:"column"`
	NewValue string `json:"new_value"`
}
