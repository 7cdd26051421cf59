// Package rules holds the five proposal-producing rules. Each rule is a pure
// function over the merged view: it never mutates a table, it only emits
// ProposedChange evidence for the resolver to arbitrate.
//
// ZIP convention: a ZIP is valid iff it is one marker character followed by
// exactly five decimal digits (`_12345`). Any other non-empty content is
// invalid; empty is blank. The three states are mutually exclusive and every
// rule leans on them.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fa-reconcile/internal/reconcile"
	"github.com/fa-reconcile/internal/table"
)

// Config carries the tunable rule parameters.
type Config struct {
	// StreetThreshold is the edit-distance ratio for street-name clustering.
	StreetThreshold float64

	// CityThreshold is the edit-distance ratio for city-name clustering.
	CityThreshold float64

	// Workers caps the concurrent grouping-key fan-out inside the fuzzy
	// rules. Zero means one worker per CPU.
	Workers int
}

// DefaultConfig returns the thresholds the pipeline ships with.
func DefaultConfig() Config {
	return Config{
		StreetThreshold: 0.10,
		CityThreshold:   0.10,
	}
}

// Rule is one proposal source: a name for provenance, the view columns it
// cannot run without, and the pure proposal function.
type Rule struct {
	Name     string
	Required []string
	Propose  func(v *table.MergedView, cfg Config) []reconcile.ProposedChange
}

// All returns the rules in their fixed execution order.
func All() []Rule {
	return []Rule{
		{
			Name:     RuleNameFillMissingZips,
			Required: []string{table.ColAID, table.ColEID1, table.ColNum1, table.ColStreetName, table.ColZip},
			Propose:  ProposeFillMissingZips,
		},
		{
			Name:     RuleNameStreetName,
			Required: []string{table.ColAID, table.ColEID1, table.ColNum1, table.ColStreetName},
			Propose:  ProposeStreetNameCorrections,
		},
		{
			Name:     RuleNameReplaceInvalidZips,
			Required: []string{table.ColAID, table.ColEID1, table.ColNum1, table.ColStreetName, table.ColZip},
			Propose:  ProposeReplaceInvalidZips,
		},
		{
			Name:     RuleNameFillZipsByAddress,
			Required: []string{table.ColAID, table.ColState, table.ColCity, table.ColStreetName, table.ColNum1, table.ColZip},
			Propose:  ProposeFillMissingZipsByAddress,
		},
		{
			Name:     RuleNameCityByZip,
			Required: []string{table.ColAID, table.ColZip, table.ColCity},
			Propose:  ProposeCityCorrectionsByZip,
		},
	}
}

// Rule names, recorded on every proposal for provenance.
const (
	RuleNameFillMissingZips    = "Rule 1: Fill Missing ZIPs (Keep)"
	RuleNameStreetName         = "Rule 2: Street-name majority vote"
	RuleNameReplaceInvalidZips = "Rule 3a: Replace Invalid ZIPs"
	RuleNameFillZipsByAddress  = "Rule 3b: Fill Missing ZIPs by Address"
	RuleNameCityByZip          = "Rule 4: Fuzzy city by ZIP"
)

// ValidateColumns checks every rule's required columns against the view
// before anything executes. The run aborts on the first report: one error
// naming each failing rule and the columns it is missing, with no table
// mutated.
func ValidateColumns(v *table.MergedView, rules []Rule) error {
	var failures []string
	for _, r := range rules {
		if missing := v.MissingColumns(r.Required); len(missing) > 0 {
			failures = append(failures, fmt.Sprintf("%s: missing columns %v", r.Name, missing))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("input validation failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

// RunAll validates and then executes every rule, returning the combined
// proposal list and the per-rule counts. Validation failure aborts before
// any rule runs.
func RunAll(v *table.MergedView, cfg Config) ([]reconcile.ProposedChange, map[string]int, error) {
	rs := All()
	if err := ValidateColumns(v, rs); err != nil {
		return nil, nil, err
	}

	var proposals []reconcile.ProposedChange
	counts := make(map[string]int, len(rs))
	for _, r := range rs {
		out := r.Propose(v, cfg)
		counts[r.Name] = len(out)
		proposals = append(proposals, out...)
	}
	return proposals, counts, nil
}

var zipPattern = regexp.MustCompile(`^_\d{5}$`)

// ValidZip reports whether a ZIP value matches the validated format.
func ValidZip(z string) bool {
	return zipPattern.MatchString(strings.TrimSpace(z))
}

// InvalidZip reports whether a ZIP value is non-blank and malformed.
func InvalidZip(z string) bool {
	return !table.IsBlank(z) && !ValidZip(z)
}

// normalize lowercases and trims a name for grouping and comparison. Case
// differences are not interesting variation.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeUpper uppercases and trims; used for state codes.
func normalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// sortProposals puts a combined proposal slice into the canonical output
// order, so rules that fan work out over goroutines return the same list on
// every run.
func sortProposals(ps []reconcile.ProposedChange) {
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.AID != b.AID {
			return a.AID < b.AID
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Proposed != b.Proposed {
			return a.Proposed < b.Proposed
		}
		if a.Original != b.Original {
			return a.Original < b.Original
		}
		return a.EID < b.EID
	})
}
