package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPartition_MultiMonthLeapYear(t *testing.T) {
	r := DateRange{Start: day(2016, time.January, 2), End: day(2016, time.September, 22)}

	windows, err := r.Partition()
	require.NoError(t, err)

	want := []MonthWindow{
		{Start: day(2016, time.January, 2), End: day(2016, time.January, 31)},
		{Start: day(2016, time.February, 1), End: day(2016, time.February, 29)},
		{Start: day(2016, time.March, 1), End: day(2016, time.March, 31)},
		{Start: day(2016, time.April, 1), End: day(2016, time.April, 30)},
		{Start: day(2016, time.May, 1), End: day(2016, time.May, 31)},
		{Start: day(2016, time.June, 1), End: day(2016, time.June, 30)},
		{Start: day(2016, time.July, 1), End: day(2016, time.July, 31)},
		{Start: day(2016, time.August, 1), End: day(2016, time.August, 31)},
		{Start: day(2016, time.September, 1), End: day(2016, time.September, 22)},
	}
	if diff := cmp.Diff(want, windows); diff != "" {
		t.Errorf("windows mismatch (-want +got):\n%s", diff)
	}
}

func TestPartition_SameMonth(t *testing.T) {
	r := DateRange{Start: day(2015, time.July, 3), End: day(2015, time.July, 28)}

	windows, err := r.Partition()
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, r.Start, windows[0].Start)
	assert.Equal(t, r.End, windows[0].End)
}

func TestPartition_SingleDay(t *testing.T) {
	d := day(2020, time.February, 29)
	windows, err := DateRange{Start: d, End: d}.Partition()
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, MonthWindow{Start: d, End: d}, windows[0])
}

func TestPartition_ReversedRange(t *testing.T) {
	r := DateRange{Start: day(2016, time.September, 22), End: day(2016, time.January, 2)}
	_, err := r.Partition()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestPartition_CoverageInvariants(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"year boundary", day(2015, time.November, 15), day(2016, time.February, 10)},
		{"full months", day(2019, time.March, 1), day(2019, time.May, 31)},
		{"decade span", day(2001, time.December, 31), day(2011, time.January, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			windows, err := DateRange{Start: tc.start, End: tc.end}.Partition()
			require.NoError(t, err)
			require.NotEmpty(t, windows)

			assert.Equal(t, tc.start, windows[0].Start)
			assert.Equal(t, tc.end, windows[len(windows)-1].End)

			for i, w := range windows {
				assert.False(t, w.End.Before(w.Start), "window %d reversed", i)
				assert.LessOrEqual(t, w.End.Sub(w.Start), 31*24*time.Hour, "window %d exceeds span limit", i)
				if i > 0 {
					// Each window starts the day after the previous one ends: no gaps, no overlaps.
					assert.Equal(t, windows[i-1].End.AddDate(0, 0, 1), w.Start, "window %d not contiguous", i)
				}
			}
		})
	}
}

func TestPartition_IsPure(t *testing.T) {
	r := DateRange{Start: day(2016, time.January, 2), End: day(2016, time.April, 5)}

	first, err := r.Partition()
	require.NoError(t, err)
	second, err := r.Partition()
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestPartition_IgnoresTimeOfDay(t *testing.T) {
	r := DateRange{
		Start: time.Date(2016, time.January, 2, 13, 45, 0, 0, time.UTC),
		End:   time.Date(2016, time.January, 20, 1, 2, 3, 0, time.UTC),
	}
	windows, err := r.Partition()
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, day(2016, time.January, 2), windows[0].Start)
	assert.Equal(t, day(2016, time.January, 20), windows[0].End)
}

func TestDashless(t *testing.T) {
	assert.Equal(t, "20150701", Dashless(day(2015, time.July, 1)))
	assert.Equal(t, "20161231", Dashless(day(2016, time.December, 31)))
}
