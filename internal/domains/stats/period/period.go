package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// =====================================================
// GRANULARITY
// =====================================================

// Granularity là độ rộng của một bucket thời gian
type Granularity string

const (
	Year    Granularity = "year"
	Quarter Granularity = "quarter"
	Month   Granularity = "month"
	Week    Granularity = "week"
)

// DefaultGranularity dùng khi client không gửi ?granularity
const DefaultGranularity = Year

var ErrInvalidGranularity = errors.New("invalid granularity")

// Values lists the accepted granularities in request order.
func Values() []string {
	return []string{string(Year), string(Quarter), string(Month), string(Week)}
}

func (g Granularity) IsValid() bool {
	switch g {
	case Year, Quarter, Month, Week:
		return true
	}
	return false
}

func (g Granularity) String() string {
	return string(g)
}

// Parse converts a query value into a Granularity. Empty input yields the default.
func Parse(raw string) (Granularity, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultGranularity, nil
	}
	g := Granularity(raw)
	if !g.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, raw)
	}
	return g, nil
}

// =====================================================
// PERIOD (BUCKET)
// =====================================================

// Period is one bucket of a granularity. End is inclusive: it is the last
// nanosecond before the next bucket starts.
type Period struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls in [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Intersects reports whether the bucket overlaps [from, to].
func (p Period) Intersects(from, to time.Time) bool {
	return !p.End.Before(from) && !p.Start.After(to)
}

// For maps t to its bucket. Calendar fields (year, month, day, weekday) are
// read in loc; start and end are built in UTC from those fields.
func For(t time.Time, g Granularity, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return fromFields(local.Year(), local.Month(), local.Day(), g)
}

// Enumerate returns every bucket whose interval intersects [from, to], in
// ascending order, including buckets with no data. It returns nil when
// from is after to.
func Enumerate(from, to time.Time, g Granularity, loc *time.Location) []Period {
	if from.After(to) {
		return nil
	}

	first := For(from, g, loc)

	// Field extraction in loc can land on the bucket after the one holding
	// the UTC instant, so the previous bucket is a candidate too.
	var out []Period
	if prev := previous(first, g); prev.Intersects(from, to) {
		out = append(out, prev)
	}

	for p := first; !p.Start.After(to); p = next(p, g) {
		if p.Intersects(from, to) {
			out = append(out, p)
		}
	}
	return out
}

// =====================================================
// HELPERS
// =====================================================

func fromFields(year int, month time.Month, day int, g Granularity) Period {
	switch g {
	case Quarter:
		q := quarterOf(month)
		start := time.Date(year, time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Key:   fmt.Sprintf("%04d-Q%d", year, q),
			Label: fmt.Sprintf("Q%d %04d", q, year),
			Start: start,
			End:   start.AddDate(0, 3, 0).Add(-time.Nanosecond),
		}

	case Month:
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Key:   fmt.Sprintf("%04d-%02d", year, int(month)),
			Label: fmt.Sprintf("%s %04d", month.String(), year),
			Start: start,
			End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
		}

	case Week:
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		// Monday = 0 ... Sunday = 6
		offset := (int(d.Weekday()) + 6) % 7
		start := d.AddDate(0, 0, -offset)
		isoYear, isoWeek := d.ISOWeek()
		return Period{
			Key:   fmt.Sprintf("%04d-W%02d", isoYear, isoWeek),
			Label: fmt.Sprintf("Week %02d, %04d", isoWeek, isoYear),
			Start: start,
			End:   start.AddDate(0, 0, 7).Add(-time.Nanosecond),
		}

	default:
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Key:   fmt.Sprintf("%04d", year),
			Label: fmt.Sprintf("%04d", year),
			Start: start,
			End:   start.AddDate(1, 0, 0).Add(-time.Nanosecond),
		}
	}
}

// next và previous làm việc trên Start (UTC), không áp timezone lần nữa
func next(p Period, g Granularity) Period {
	s := p.End.Add(time.Nanosecond)
	return fromFields(s.Year(), s.Month(), s.Day(), g)
}

func previous(p Period, g Granularity) Period {
	s := p.Start.Add(-time.Nanosecond)
	return fromFields(s.Year(), s.Month(), s.Day(), g)
}

func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}
