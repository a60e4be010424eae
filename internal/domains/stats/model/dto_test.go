package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-reporting/internal/domains/stats/period"
)

func intPtr(v int) *int { return &v }

func TestStatsQuery_Validate(t *testing.T) {
	cases := []struct {
		name    string
		query   StatsQuery
		wantErr bool
	}{
		{"empty query uses defaults", StatsQuery{}, false},
		{"rfc3339 range", StatsQuery{From: "2025-01-01T00:00:00Z", To: "2025-02-28T23:59:59+07:00"}, false},
		{"date only", StatsQuery{From: "2025-01-01", To: "2025-03-31"}, false},
		{"full params", StatsQuery{Granularity: "week", TZ: "Asia/Ho_Chi_Minh", Limit: intPtr(100), ProfitMode: "variant"}, false},
		{"bad from", StatsQuery{From: "01/02/2025"}, true},
		{"bad granularity", StatsQuery{Granularity: "day"}, true},
		{"bad timezone", StatsQuery{TZ: "Nowhere/City"}, true},
		{"limit zero", StatsQuery{Limit: intPtr(0)}, true},
		{"limit too large", StatsQuery{Limit: intPtr(101)}, true},
		{"bad profit mode", StatsQuery{ProfitMode: "margin"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatsQuery_ToParams_Defaults(t *testing.T) {
	p, err := StatsQuery{}.ToParams(DefaultOverviewLimit)
	require.NoError(t, err)

	assert.Nil(t, p.From)
	assert.Nil(t, p.To)
	assert.False(t, p.Explicit())
	assert.Equal(t, period.Year, p.Granularity)
	assert.Equal(t, "UTC", p.TZ())
	assert.Equal(t, DefaultOverviewLimit, p.Limit)
	assert.Equal(t, ProfitModeNone, p.ProfitMode)
}

func TestStatsQuery_ToParams_Explicit(t *testing.T) {
	q := StatsQuery{
		From:        "2025-01-01",
		To:          "2025-02-28",
		Granularity: "Month",
		TZ:          "Asia/Tokyo",
		Limit:       intPtr(3),
		ProfitMode:  ProfitModeBook,
	}
	p, err := q.ToParams(DefaultLimit)
	require.NoError(t, err)

	require.True(t, p.Explicit())
	assert.True(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Equal(*p.From))
	// bare date upper bound covers the whole day
	assert.True(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond).Equal(*p.To))
	assert.Equal(t, period.Month, p.Granularity)
	assert.Equal(t, "Asia/Tokyo", p.TZ())
	assert.Equal(t, 3, p.Limit)
	assert.Equal(t, ProfitModeBook, p.ProfitMode)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2025-05-14T10:30:00.123+02:00", false)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 5, 14, 8, 30, 0, 123000000, time.UTC).Equal(*got))

	got, err = ParseTime("", true)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseTime("2025-13-01", false)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestStatsError(t *testing.T) {
	err := NewStatsError(ErrCodeStoreUnavailable, "Failed to load orders", ErrStoreUnavailable)
	assert.Equal(t, "Failed to load orders: reporting store unavailable", err.Error())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
