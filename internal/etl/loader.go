// Package etl reads the input tables from CSV and writes the cleaned tables
// back out. The column sets it hands the table layer come straight from the
// CSV headers, so required-column validation reflects the actual source data.
package etl

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fa-reconcile/internal/table"
)

// addressColumns are the address table columns the model understands, in
// canonical write order.
var addressColumns = []string{
	table.ColAID,
	table.ColNum1,
	table.ColStreetName,
	table.ColStreetSuffix,
	table.ColUnit,
	table.ColCity,
	table.ColState,
	table.ColZip,
	table.ColFullAddress,
}

// relationshipColumns are the relationship table columns, in write order.
var relationshipColumns = []string{
	table.ColEID1,
	table.ColAID2,
	table.ColRelationshipType,
	table.ColNumber,
}

// LoadAddresses reads the address (fa) table. The AID column is required;
// component columns are optional and validated later against each rule's
// needs. Missing cells load as the canonical blank.
func LoadAddresses(path string) (*table.AddressTable, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := indexColumns(header)
	aidIdx, ok := col[table.ColAID]
	if !ok {
		return nil, fmt.Errorf("%s: required column %s not found", path, table.ColAID)
	}

	t := table.NewAddressTable(recognized(header, addressColumns))
	for i, row := range rows {
		aid, err := strconv.Atoi(strings.TrimSpace(cell(row, aidIdx)))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad AID %q: %w", path, i+2, cell(row, aidIdx), err)
		}
		rec := table.AddressRecord{AID: aid}
		for _, c := range addressColumns[1:] {
			if idx, ok := col[c]; ok {
				rec.Set(c, cell(row, idx))
			}
		}
		t.Append(rec)
	}
	return t, nil
}

// LoadEntities reads the entity (fe) table.
func LoadEntities(path string) (*table.EntityTable, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := indexColumns(header)
	eidIdx, ok := col[table.ColEID]
	if !ok {
		return nil, fmt.Errorf("%s: required column %s not found", path, table.ColEID)
	}

	t := table.NewEntityTable(recognized(header, []string{table.ColEID}))
	for _, row := range rows {
		t.Append(table.EntityRecord{EID: strings.TrimSpace(cell(row, eidIdx))})
	}
	return t, nil
}

// LoadRelationships reads the relationship (r_fe_fa) table.
func LoadRelationships(path string) (*table.RelationshipTable, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := indexColumns(header)
	eidIdx, ok := col[table.ColEID1]
	if !ok {
		return nil, fmt.Errorf("%s: required column %s not found", path, table.ColEID1)
	}
	aidIdx, ok := col[table.ColAID2]
	if !ok {
		return nil, fmt.Errorf("%s: required column %s not found", path, table.ColAID2)
	}

	t := table.NewRelationshipTable(recognized(header, relationshipColumns))
	for i, row := range rows {
		aid, err := strconv.Atoi(strings.TrimSpace(cell(row, aidIdx)))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad %s %q: %w", path, i+2, table.ColAID2, cell(row, aidIdx), err)
		}
		rel := table.Relationship{
			EID: strings.TrimSpace(cell(row, eidIdx)),
			AID: aid,
		}
		if idx, ok := col[table.ColRelationshipType]; ok {
			rel.RelationshipType = cell(row, idx)
		}
		if idx, ok := col[table.ColNumber]; ok {
			rel.Number = cell(row, idx)
		}
		t.Append(rel)
	}
	return t, nil
}

// readCSV reads a whole CSV file into header and data rows. Ragged rows are
// tolerated; short rows read as blanks.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file, expected a header row", path)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, records[1:], nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	return col
}

// recognized filters the header down to the columns the model understands,
// preserving header order.
func recognized(header []string, known []string) []string {
	set := make(map[string]bool, len(known))
	for _, c := range known {
		set[c] = true
	}
	var out []string
	for _, h := range header {
		if set[h] {
			out = append(out, h)
		}
	}
	return out
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
