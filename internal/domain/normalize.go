package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// TimeColumn is the header name of the timestamp column.
	TimeColumn = "Date Time"
	// UnixTimeColumn is the header name of the appended epoch column.
	UnixTimeColumn = "Unix Time"

	serviceTimeLayout = "2006-01-02 15:04"
	isoTimeLayout     = "2006-01-02T15:04:05"
)

// NormalizeOptions controls how NormalizeRow rewrites a data row.
type NormalizeOptions struct {
	// ConvertTimestamp rewrites Date Time to the offset-naive ISO-8601
	// form "2006-01-02T15:04:05". No zone suffix is appended even when
	// the request used GMT.
	ConvertTimestamp bool
	// AppendUnixTime appends a trailing epoch-seconds column computed
	// from the timestamp interpreted in Location.
	AppendUnixTime bool
	// Location is the time reference the request asked the service for.
	// Nil means UTC.
	Location *time.Location
}

// Enabled reports whether applying the options would change a row.
func (o NormalizeOptions) Enabled() bool {
	return o.ConvertTimestamp || o.AppendUnixTime
}

// TimeColumnIndex locates the Date Time column in a header row.
// Header cells are compared after trimming the padding CO-OPS puts
// around its column names.
func TimeColumnIndex(header []string) (int, error) {
	for i, name := range header {
		if strings.TrimSpace(name) == TimeColumn {
			return i, nil
		}
	}
	return 0, fmt.Errorf("header has no %q column", TimeColumn)
}

// NormalizeHeader returns the header with the Unix Time column appended
// when the options call for it.
func NormalizeHeader(header []string, opts NormalizeOptions) []string {
	if !opts.AppendUnixTime {
		return header
	}
	out := make([]string, 0, len(header)+1)
	out = append(out, header...)
	return append(out, UnixTimeColumn)
}

// NormalizeRow applies the configured timestamp rewrites to one data row.
// timeIdx is the Date Time column index from TimeColumnIndex. The input
// slice is not modified; all columns other than Date Time pass through
// unchanged. Returns a *TimestampParseError when the field does not match
// the service's "2006-01-02 15:04" layout.
func NormalizeRow(row []string, timeIdx int, opts NormalizeOptions) ([]string, error) {
	if !opts.Enabled() {
		return row, nil
	}
	if timeIdx >= len(row) {
		return nil, &TimestampParseError{Value: "", Err: fmt.Errorf("row has %d columns, timestamp expected at %d", len(row), timeIdx)}
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	raw := strings.TrimSpace(row[timeIdx])
	ts, err := time.ParseInLocation(serviceTimeLayout, raw, loc)
	if err != nil {
		return nil, &TimestampParseError{Value: raw, Err: err}
	}

	out := make([]string, len(row), len(row)+1)
	copy(out, row)
	if opts.ConvertTimestamp {
		out[timeIdx] = ts.Format(isoTimeLayout)
	}
	if opts.AppendUnixTime {
		out = append(out, strconv.FormatInt(ts.Unix(), 10))
	}
	return out, nil
}
