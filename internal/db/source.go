package db

import (
	"fmt"

	"github.com/fa-reconcile/internal/table"
)

// addressQuery pulls the fa table in insertion order. Nullable component
// columns coalesce to the canonical blank.
const addressQuery = `
	SELECT "AID",
	       COALESCE(num1_c, ''), COALESCE("streetName_c", ''),
	       COALESCE("streetSuffix_c", ''), COALESCE(unit_c, ''),
	       COALESCE(city_c, ''), COALESCE(state_c, ''),
	       COALESCE(zip_c, ''), COALESCE("fullAddress_c", '')
	FROM fa
	ORDER BY "AID"
`

const entityQuery = `SELECT "EID" FROM fe ORDER BY "EID"`

const relationshipQuery = `
	SELECT "EID_1", "AID_2",
	       COALESCE("relationshipType", ''), COALESCE(number, '')
	FROM r_fe_fa
	ORDER BY ctid
`

// LoadAddresses reads the fa table.
func (c *Connection) LoadAddresses() (*table.AddressTable, error) {
	rows, err := c.DB.Query(addressQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query fa: %w", err)
	}
	defer rows.Close()

	t := table.NewAddressTable([]string{
		table.ColAID, table.ColNum1, table.ColStreetName, table.ColStreetSuffix,
		table.ColUnit, table.ColCity, table.ColState, table.ColZip, table.ColFullAddress,
	})
	for rows.Next() {
		var rec table.AddressRecord
		if err := rows.Scan(&rec.AID, &rec.Num1, &rec.StreetName, &rec.StreetSuffix,
			&rec.Unit, &rec.City, &rec.State, &rec.Zip, &rec.FullAddress); err != nil {
			return nil, fmt.Errorf("failed to scan fa row: %w", err)
		}
		t.Append(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fa: %w", err)
	}
	return t, nil
}

// LoadEntities reads the fe table.
func (c *Connection) LoadEntities() (*table.EntityTable, error) {
	rows, err := c.DB.Query(entityQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query fe: %w", err)
	}
	defer rows.Close()

	t := table.NewEntityTable([]string{table.ColEID})
	for rows.Next() {
		var rec table.EntityRecord
		if err := rows.Scan(&rec.EID); err != nil {
			return nil, fmt.Errorf("failed to scan fe row: %w", err)
		}
		t.Append(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fe: %w", err)
	}
	return t, nil
}

// LoadRelationships reads the r_fe_fa table in physical row order, which
// becomes the stable iteration order the signature pre-pass depends on.
func (c *Connection) LoadRelationships() (*table.RelationshipTable, error) {
	rows, err := c.DB.Query(relationshipQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query r_fe_fa: %w", err)
	}
	defer rows.Close()

	t := table.NewRelationshipTable([]string{
		table.ColEID1, table.ColAID2, table.ColRelationshipType, table.ColNumber,
	})
	for rows.Next() {
		var rel table.Relationship
		if err := rows.Scan(&rel.EID, &rel.AID, &rel.RelationshipType, &rel.Number); err != nil {
			return nil, fmt.Errorf("failed to scan r_fe_fa row: %w", err)
		}
		t.Append(rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read r_fe_fa: %w", err)
	}
	return t, nil
}
