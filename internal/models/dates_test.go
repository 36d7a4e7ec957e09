package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestStartOfDay(t *testing.T) {
	noon := time.Date(2024, time.June, 1, 12, 34, 56, 789, time.UTC)
	got := StartOfDay(noon, time.UTC)
	assert.Equal(t, day(2024, time.June, 1), got)
}

func TestEndOfDay(t *testing.T) {
	noon := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	got := EndOfDay(noon, time.UTC)
	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, 59, got.Minute())
	assert.Equal(t, 59, got.Second())
	assert.Equal(t, int(time.Second-time.Nanosecond), got.Nanosecond())
	assert.Equal(t, noon.Day(), got.Day())
}

func TestNewDateRange(t *testing.T) {
	t.Run("normalizes time of day away", func(t *testing.T) {
		pickup := time.Date(2024, time.June, 1, 18, 30, 0, 0, time.UTC)
		ret := time.Date(2024, time.June, 3, 6, 15, 0, 0, time.UTC)
		r, err := NewDateRange(pickup, ret, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, day(2024, time.June, 1), r.Start)
		assert.Equal(t, 3, r.End.Day())
		assert.Equal(t, 23, r.End.Hour())
	})

	t.Run("same day is a valid one-day rental", func(t *testing.T) {
		r, err := NewDateRange(day(2024, time.June, 1), day(2024, time.June, 1), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("return before pickup is rejected", func(t *testing.T) {
		_, err := NewDateRange(day(2024, time.June, 2), day(2024, time.June, 1), time.UTC)
		assert.Error(t, err)
	})

	t.Run("zero dates are rejected", func(t *testing.T) {
		_, err := NewDateRange(time.Time{}, day(2024, time.June, 1), time.UTC)
		assert.Error(t, err)
	})
}

func TestDateRange_Days(t *testing.T) {
	tests := []struct {
		name   string
		pickup time.Time
		ret    time.Time
		want   int
	}{
		{"same day", day(2024, time.January, 1), day(2024, time.January, 1), 1},
		{"inclusive three days", day(2024, time.January, 1), day(2024, time.January, 3), 3},
		{"across month boundary", day(2024, time.January, 31), day(2024, time.February, 2), 3},
		{"leap day", day(2024, time.February, 28), day(2024, time.March, 1), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewDateRange(tt.pickup, tt.ret, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Days())
		})
	}
}

func TestDateRange_DayKeys(t *testing.T) {
	r, err := NewDateRange(day(2024, time.January, 1), day(2024, time.January, 3), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, r.DayKeys())
}

func TestDateRange_Overlaps(t *testing.T) {
	base, err := NewDateRange(day(2024, time.June, 10), day(2024, time.June, 12), time.UTC)
	require.NoError(t, err)

	tests := []struct {
		name   string
		pickup time.Time
		ret    time.Time
		want   bool
	}{
		{"strictly before", day(2024, time.June, 7), day(2024, time.June, 9), false},
		{"strictly after", day(2024, time.June, 13), day(2024, time.June, 15), false},
		{"shares last day", day(2024, time.June, 12), day(2024, time.June, 14), true},
		{"shares first day", day(2024, time.June, 8), day(2024, time.June, 10), true},
		{"contained", day(2024, time.June, 11), day(2024, time.June, 11), true},
		{"containing", day(2024, time.June, 1), day(2024, time.June, 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := NewDateRange(tt.pickup, tt.ret, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, base.Overlaps(other))
			assert.Equal(t, tt.want, other.Overlaps(base))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-06-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.June, 1), got)

	got, err = ParseDate("2024-06-01T15:04:05Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Hour())

	_, err = ParseDate("junk", time.UTC)
	assert.Error(t, err)
}
