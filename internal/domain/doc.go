// Package domain models NOAA CO-OPS water-level observation data.
//
// # Data Source
//
// Observations come from the NOAA Center for Operational Oceanographic
// Products and Services (CO-OPS) data API, documented at
// https://api.tidesandcurrents.noaa.gov/api/prod/. The service returns
// six-minute water-level records as CSV with a header row:
//
//	Date Time, Water Level, Sigma, O or I (for verified), F, R, L, Quality
//
// Only the "Date Time" column is interpreted here; every other column is
// carried through untouched so schema changes upstream do not break the
// collector.
//
// # Request Span Limit
//
// The API rejects water_level requests spanning more than 31 days, so an
// unbounded collection range is partitioned into calendar-month windows
// before fetching. See [DateRange.Partition]. The concatenation of the
// windows covers the range exactly, with no gaps and no overlaps, and the
// first and last windows are clamped to the range bounds rather than the
// month bounds.
//
// # Timestamps
//
// The service emits timestamps as "2006-01-02 15:04" with no offset. The
// time reference is whatever the request's time_zone parameter asked for
// (gmt, lst, or lst_ldt) and is not recoverable from the string itself.
// [NormalizeRow] can rewrite the field to the offset-naive ISO-8601 form
// "2006-01-02T15:04:05" and append an epoch-seconds "Unix Time" column
// computed in the configured reference zone.
//
// # Error Signature
//
// CO-OPS reports application-level errors inside a 200 response as plain
// text separated by blank lines instead of a structured envelope. A body
// containing two consecutive newline separators is treated as such an
// error; see the coops adapter for the transport-level handling.
package domain
