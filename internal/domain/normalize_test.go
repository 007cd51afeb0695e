package domain

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{"Date Time", " Water Level", " Sigma", " Quality"}

func TestTimeColumnIndex(t *testing.T) {
	idx, err := TimeColumnIndex(testHeader)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = TimeColumnIndex([]string{"Water Level", "Sigma"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Date Time")
}

func TestNormalizeRow_ConvertTimestamp(t *testing.T) {
	row := []string{"2001-12-31 23:55", "1.234", "0.01", "v"}
	opts := NormalizeOptions{ConvertTimestamp: true}

	out, err := NormalizeRow(row, 0, opts)
	require.NoError(t, err)

	assert.Equal(t, "2001-12-31T23:55:00", out[0])
	// Opaque columns pass through untouched.
	assert.Equal(t, row[1:], out[1:])
	// Input row is not mutated.
	assert.Equal(t, "2001-12-31 23:55", row[0])
}

func TestNormalizeRow_AppendUnixTimeGMT(t *testing.T) {
	row := []string{"2001-12-31 23:55", "1.234", "0.01", "v"}
	opts := NormalizeOptions{AppendUnixTime: true, Location: time.UTC}

	out, err := NormalizeRow(row, 0, opts)
	require.NoError(t, err)
	require.Len(t, out, 5)

	want := time.Date(2001, time.December, 31, 23, 55, 0, 0, time.UTC).Unix()
	assert.Equal(t, "1009842900", out[4])
	assert.EqualValues(t, 1009842900, want)
	// Timestamp column untouched when conversion is off.
	assert.Equal(t, "2001-12-31 23:55", out[0])
}

func TestNormalizeRow_AppendUnixTimeLocalReference(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	row := []string{"2016-07-01 00:00", "0.5"}
	out, err := NormalizeRow(row, 0, NormalizeOptions{AppendUnixTime: true, Location: loc})
	require.NoError(t, err)

	want := time.Date(2016, time.July, 1, 0, 0, 0, 0, loc).Unix()
	assert.Equal(t, []string{"2016-07-01 00:00", "0.5"}, out[:2])
	require.Len(t, out, 3)
	assert.Equal(t, want, mustParseInt(t, out[2]))
}

func TestNormalizeRow_BothOptions(t *testing.T) {
	row := []string{"2016-01-02 08:06", "2.1"}
	opts := NormalizeOptions{ConvertTimestamp: true, AppendUnixTime: true, Location: time.UTC}

	out, err := NormalizeRow(row, 0, opts)
	require.NoError(t, err)
	assert.Equal(t, "2016-01-02T08:06:00", out[0])
	require.Len(t, out, 3)
	assert.Equal(t, time.Date(2016, time.January, 2, 8, 6, 0, 0, time.UTC).Unix(), mustParseInt(t, out[2]))
}

func TestNormalizeRow_Disabled(t *testing.T) {
	row := []string{"not even a timestamp", "2.1"}
	out, err := NormalizeRow(row, 0, NormalizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, row, out)
}

func TestNormalizeRow_BadTimestamp(t *testing.T) {
	row := []string{"2016-13-45 99:99", "2.1"}
	_, err := NormalizeRow(row, 0, NormalizeOptions{ConvertTimestamp: true})
	require.Error(t, err)

	var parseErr *TimestampParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "2016-13-45 99:99", parseErr.Value)
}

func TestNormalizeRow_ShortRow(t *testing.T) {
	_, err := NormalizeRow([]string{"lonely"}, 3, NormalizeOptions{ConvertTimestamp: true})
	var parseErr *TimestampParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestNormalizeHeader(t *testing.T) {
	withUnix := NormalizeHeader(testHeader, NormalizeOptions{AppendUnixTime: true})
	require.Len(t, withUnix, len(testHeader)+1)
	assert.Equal(t, UnixTimeColumn, withUnix[len(withUnix)-1])
	// Original header is not mutated.
	assert.Len(t, testHeader, 4)

	same := NormalizeHeader(testHeader, NormalizeOptions{ConvertTimestamp: true})
	assert.Equal(t, testHeader, same)
}

func mustParseInt(t *testing.T, s string) int64 {
	t.Helper()
	v, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	return v
}
