package domain

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Table is one window's parsed response: the header row and the data rows
// beneath it, column order preserved.
type Table struct {
	Header []string
	Rows   [][]string
}

// ParseTable parses a raw CSV response body. The first record is the
// header; trailing blank lines are ignored. Records may vary in width
// (the service occasionally pads rows), so per-record field counts are
// not enforced.
func ParseTable(raw string) (Table, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse response: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("parse response: empty body")
	}

	return Table{Header: records[0], Rows: records[1:]}, nil
}
