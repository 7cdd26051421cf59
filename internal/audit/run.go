// Package audit records what a reconciliation run did: which rules produced
// how much evidence and every record split, in issuance order. The log is
// for traceability only; the cleaned tables stand on their own.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/fa-reconcile/internal/reconcile"
)

// Run is the audit record of one batch run.
type Run struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	StreetThreshold float64 `json:"street_threshold"`
	CityThreshold   float64 `json:"city_threshold"`

	AddressRowsIn      int `json:"address_rows_in"`
	AddressRowsOut     int `json:"address_rows_out"`
	RelationshipRows   int `json:"relationship_rows"`
	SignatureSplits    int `json:"signature_splits"`
	ConflictSplits     int `json:"conflict_splits"`
	ProposalsCollected int `json:"proposals_collected"`

	// ProposalsByRule maps rule name to how many proposals it produced.
	ProposalsByRule map[string]int `json:"proposals_by_rule"`

	// Splits is the full split log, signature pre-pass first, then conflict
	// splits in AID-issuance order.
	Splits []reconcile.SplitEvent `json:"splits"`
}

// NewRun starts an audit record with a fresh run identifier.
func NewRun() *Run {
	return &Run{
		RunID:           uuid.NewString(),
		StartedAt:       time.Now().UTC(),
		ProposalsByRule: make(map[string]int),
	}
}

// Finish stamps the end time.
func (r *Run) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Write serializes the run log as indented JSON.
func (r *Run) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	return nil
}

// Load reads a run log written by Write.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}
	var r Run
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse run log %s: %w", path, err)
	}
	return &r, nil
}
