package web

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fa-reconcile/internal/audit"
	"github.com/fa-reconcile/internal/etl"
	"github.com/fa-reconcile/internal/reconcile"
	"github.com/fa-reconcile/internal/table"
)

// ResultStore holds one finished run's outputs in memory.
type ResultStore struct {
	Run       *audit.Run
	Addresses *table.AddressTable
}

// LoadResults reads the run log and cleaned address table from outDir.
func LoadResults(outDir string) (*ResultStore, error) {
	run, err := audit.Load(filepath.Join(outDir, "run.json"))
	if err != nil {
		return nil, err
	}
	addresses, err := etl.LoadAddresses(filepath.Join(outDir, "fa_cleaned.csv"))
	if err != nil {
		return nil, err
	}
	return &ResultStore{Run: run, Addresses: addresses}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "run_id": s.store.Run.RunID})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	run := s.store.Run
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":              run.RunID,
		"started_at":          run.StartedAt,
		"finished_at":         run.FinishedAt,
		"address_rows_in":     run.AddressRowsIn,
		"address_rows_out":    run.AddressRowsOut,
		"relationship_rows":   run.RelationshipRows,
		"proposals_collected": run.ProposalsCollected,
		"proposals_by_rule":   run.ProposalsByRule,
		"signature_splits":    run.SignatureSplits,
		"conflict_splits":     run.ConflictSplits,
	})
}

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request) {
	splits := s.store.Run.Splits
	if splits == nil {
		splits = []reconcile.SplitEvent{}
	}
	writeJSON(w, http.StatusOK, splits)
}

func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	aid, err := strconv.Atoi(mux.Vars(r)["aid"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad AID"})
		return
	}
	rec := s.store.Addresses.Lookup(aid)
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "AID not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"AID":            rec.AID,
		"num1_c":         rec.Num1,
		"streetName_c":   rec.StreetName,
		"streetSuffix_c": rec.StreetSuffix,
		"unit_c":         rec.Unit,
		"city_c":         rec.City,
		"state_c":        rec.State,
		"zip_c":          rec.Zip,
		"fullAddress_c":  rec.FullAddress,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
