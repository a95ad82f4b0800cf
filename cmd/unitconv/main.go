// Command unitconv converts values between units from the command line.
//
// Usage:
//
//	unitconv categories
//	unitconv units Length
//	unitconv convert --category Length --from "Kilometers (km)" --to "Meters (m)" 1.5
//	unitconv table --category Mass --json > fixtures.json
//	unitconv validate fixtures.json
package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/unit-converter-service/internal/domain"
)

func main() {
	if err := newRootCommand(domain.NewConverter(nil)).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
