// Package id generates time-sortable identifiers for positions and trades.
package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. ULIDs sort lexicographically by creation time,
// which keeps trade journals and SQLite indexes naturally ordered.
func New() string {
	return ulid.Make().String()
}
