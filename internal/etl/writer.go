package etl

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/fa-reconcile/internal/table"
)

// WriteAddresses writes the (possibly extended) address table using the
// column set it was loaded with.
func WriteAddresses(path string, t *table.AddressTable) error {
	header := t.Columns()
	rows := make([][]string, 0, t.Len())
	for i := range t.Rows {
		rec := &t.Rows[i]
		row := make([]string, len(header))
		for j, c := range header {
			if c == table.ColAID {
				row[j] = strconv.Itoa(rec.AID)
				continue
			}
			row[j], _ = rec.Get(c)
		}
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

// WriteRelationships writes the relationship table with its rewritten AID
// pointers.
func WriteRelationships(path string, t *table.RelationshipTable) error {
	header := t.Columns()
	rows := make([][]string, 0, t.Len())
	for i := range t.Rows {
		rel := &t.Rows[i]
		row := make([]string, len(header))
		for j, c := range header {
			switch c {
			case table.ColEID1:
				row[j] = rel.EID
			case table.ColAID2:
				row[j] = strconv.Itoa(rel.AID)
			case table.ColRelationshipType:
				row[j] = rel.RelationshipType
			case table.ColNumber:
				row[j] = rel.Number
			}
		}
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
