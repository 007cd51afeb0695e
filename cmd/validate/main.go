// Command validate checks a finished station output file against the
// sink invariants: exactly one header line, every Date Time value
// parseable, and timestamps in non-decreasing order.
//
// Usage:
//
//	go run ./cmd/validate -file data/seattle_MLLW_20160102-20160922.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Output files carry either the raw service layout or the converted
// ISO-8601 form depending on how the collector was configured.
var timeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02 15:04"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	file := flag.String("file", "", "station output file to validate")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -file")
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parse %s: %w", *file, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: file is empty", *file)
	}

	header := records[0]
	timeIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "Date Time" {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 {
		return fmt.Errorf("%s: header has no Date Time column", *file)
	}

	var prev time.Time
	for i, row := range records[1:] {
		line := i + 2
		if timeIdx >= len(row) {
			return fmt.Errorf("%s:%d: row has no Date Time column", *file, line)
		}
		if row[timeIdx] == header[timeIdx] {
			return fmt.Errorf("%s:%d: repeated header row", *file, line)
		}
		ts, err := parseTimestamp(row[timeIdx])
		if err != nil {
			return fmt.Errorf("%s:%d: %w", *file, line, err)
		}
		if ts.Before(prev) {
			return fmt.Errorf("%s:%d: timestamp %s out of order", *file, line, row[timeIdx])
		}
		prev = ts
	}

	log.Printf("%s: ok (%d rows)", *file, len(records)-1)
	return nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}
