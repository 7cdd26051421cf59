// Package pipeline orchestrates one reconciliation batch: load, validate,
// signature pre-pass, proposal rules, conflict resolution, outputs. The run
// either completes and yields consistent tables or aborts before mutating
// anything.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fa-reconcile/internal/audit"
	"github.com/fa-reconcile/internal/etl"
	"github.com/fa-reconcile/internal/rules"
	"github.com/fa-reconcile/internal/table"

	"github.com/fa-reconcile/internal/reconcile"
)

// Tables bundles the three input tables of a run.
type Tables struct {
	Addresses     *table.AddressTable
	Entities      *table.EntityTable
	Relationships *table.RelationshipTable
}

// LoadCSV reads the input tables from their conventional file names under
// dataDir.
func LoadCSV(dataDir string) (Tables, error) {
	var t Tables
	var err error

	if t.Addresses, err = etl.LoadAddresses(filepath.Join(dataDir, "fa.csv")); err != nil {
		return t, err
	}
	if t.Entities, err = etl.LoadEntities(filepath.Join(dataDir, "fe.csv")); err != nil {
		return t, err
	}
	if t.Relationships, err = etl.LoadRelationships(filepath.Join(dataDir, "r_fe_fa.csv")); err != nil {
		return t, err
	}
	return t, nil
}

// Run executes the full reconciliation over the given tables, mutating the
// address and relationship tables in place. Input validation happens before
// anything mutates; a validation failure aborts the whole run.
func Run(t Tables, cfg rules.Config, logger *zap.Logger) (*audit.Run, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Sugar()

	run := audit.NewRun()
	run.StreetThreshold = cfg.StreetThreshold
	run.CityThreshold = cfg.CityThreshold
	run.AddressRowsIn = t.Addresses.Len()
	run.RelationshipRows = t.Relationships.Len()

	// Validate every rule's column needs up front so nothing is half-applied.
	view := table.BuildMergedView(t.Relationships, t.Entities, t.Addresses)
	if err := rules.ValidateColumns(view, rules.All()); err != nil {
		return nil, err
	}

	log.Infow("run started",
		"run_id", run.RunID,
		"addresses", t.Addresses.Len(),
		"entities", t.Entities.Len(),
		"relationships", t.Relationships.Len())

	maxAID := t.Addresses.MaxAID()

	// Structural pre-pass: one AID, one signature per entity pairing.
	maxAID, sigSplits := reconcile.SplitBySignature(t.Addresses, t.Relationships, maxAID)
	run.SignatureSplits = len(sigSplits)
	run.Splits = append(run.Splits, sigSplits...)
	log.Infow("signature pre-pass complete", "splits", len(sigSplits))

	// The view is rebuilt so the rules see the post-split pointers.
	view = table.BuildMergedView(t.Relationships, t.Entities, t.Addresses)

	proposals, counts, err := rules.RunAll(view, cfg)
	if err != nil {
		return nil, err
	}
	run.ProposalsCollected = len(proposals)
	for name, n := range counts {
		run.ProposalsByRule[name] = n
		log.Infow("rule complete", "rule", name, "proposals", n)
	}

	_, splits := reconcile.Resolve(t.Addresses, t.Relationships, proposals, maxAID)
	run.ConflictSplits = len(splits)
	run.Splits = append(run.Splits, splits...)
	run.AddressRowsOut = t.Addresses.Len()
	run.Finish()

	log.Infow("run complete",
		"run_id", run.RunID,
		"proposals", len(proposals),
		"conflict_splits", len(splits),
		"addresses_out", t.Addresses.Len())

	return run, nil
}

// WriteOutputs writes the cleaned tables and the run log under outDir.
func WriteOutputs(outDir string, t Tables, run *audit.Run) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := etl.WriteAddresses(filepath.Join(outDir, "fa_cleaned.csv"), t.Addresses); err != nil {
		return err
	}
	if err := etl.WriteRelationships(filepath.Join(outDir, "r_fe_fa_cleaned.csv"), t.Relationships); err != nil {
		return err
	}
	return run.Write(filepath.Join(outDir, "run.json"))
}
