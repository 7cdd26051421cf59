// Command address-parser is an optional pre-processing step: it parses the
// derived fullAddress_c string with libpostal and fills any blank component
// columns from the parse before a reconciliation run. It is its own binary
// because it needs libpostal installed at build time; the reconciler itself
// does not.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	postal "github.com/openvenues/gopostal/parser"

	"github.com/fa-reconcile/internal/etl"
	"github.com/fa-reconcile/internal/table"
)

const version = "1.0.0"

func main() {
	var (
		input   = flag.String("in", "data/fa.csv", "Input address table")
		output  = flag.String("out", "data/fa_parsed.csv", "Output address table")
		address = flag.String("address", "", "Single address to test parsing")
	)
	flag.Parse()

	fmt.Printf("Address component parser v%s\n", version)
	fmt.Println("Fills blank component columns from fullAddress_c using libpostal")
	fmt.Println()

	if *address != "" {
		testParse(*address)
		return
	}

	addresses, err := etl.LoadAddresses(*input)
	if err != nil {
		log.Fatalf("Failed to load addresses: %v", err)
	}

	filled := 0
	for i := range addresses.Rows {
		rec := &addresses.Rows[i]
		if table.IsBlank(rec.FullAddress) {
			continue
		}
		if fillFromParse(rec) {
			filled++
		}
	}

	if err := etl.WriteAddresses(*output, addresses); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Processed %d rows, filled components on %d, written to %s\n",
		addresses.Len(), filled, *output)
}

// fillFromParse fills the record's blank component columns from a libpostal
// parse of its full address. Existing values are never overwritten.
func fillFromParse(rec *table.AddressRecord) bool {
	components := extractComponents(postal.ParseAddress(rec.FullAddress))
	filled := false

	set := func(col, label string) {
		cur, _ := rec.Get(col)
		if v := components[label]; v != "" && table.IsBlank(cur) {
			rec.Set(col, v)
			filled = true
		}
	}
	set(table.ColNum1, "house_number")
	set(table.ColStreetName, "road")
	set(table.ColUnit, "unit")
	set(table.ColCity, "city")
	set(table.ColState, "state")
	set(table.ColZip, "postcode")

	return filled
}

// extractComponents flattens libpostal output into a label -> value map,
// joining repeated labels with a space.
func extractComponents(parsed []postal.ParsedComponent) map[string]string {
	out := make(map[string]string)
	for _, c := range parsed {
		v := strings.TrimSpace(c.Value)
		if v == "" {
			continue
		}
		if existing, ok := out[c.Label]; ok {
			out[c.Label] = existing + " " + v
		} else {
			out[c.Label] = v
		}
	}
	return out
}

func testParse(address string) {
	fmt.Printf("Parsing: %s\n", address)
	for _, c := range postal.ParseAddress(address) {
		fmt.Printf("  %-15s %s\n", c.Label+":", c.Value)
	}
}
