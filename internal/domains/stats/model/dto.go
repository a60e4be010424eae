package model

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookstore-reporting/internal/domains/stats/period"
)

// =====================================================
// LIMIT & PROFIT MODE
// =====================================================
const (
	DefaultLimit         = 10
	DefaultOverviewLimit = 5
	MaxLimit             = 100
)

// profitMode được nhận nhưng chưa ảnh hưởng kết quả (profit luôn = 0)
const (
	ProfitModeNone    = "none"
	ProfitModeVariant = "variant"
	ProfitModeBook    = "book"
)

const dateOnlyLayout = "2006-01-02"

// =====================================================
// STATS QUERY (shared by all /stats endpoints)
// =====================================================
type StatsQuery struct {
	From        string `form:"from"`
	To          string `form:"to"`
	Granularity string `form:"granularity"`
	TZ          string `form:"tz"`
	Limit       *int   `form:"limit"`
	ProfitMode  string `form:"profitMode"`
}

// Validate validates StatsQuery
func (q StatsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.From, validation.By(dateRule)),
		validation.Field(&q.To, validation.By(dateRule)),
		validation.Field(&q.Granularity, validation.By(granularityRule)),
		validation.Field(&q.TZ, validation.By(timezoneRule)),
		validation.Field(&q.Limit, validation.By(limitRule)),
		validation.Field(&q.ProfitMode, validation.In(
			ProfitModeNone,
			ProfitModeVariant,
			ProfitModeBook,
		)),
	)
}

// ToParams resolves the raw query into typed report parameters.
// Call Validate first; errors here carry the same messages.
func (q StatsQuery) ToParams(defaultLimit int) (ReportParams, error) {
	var p ReportParams

	from, err := ParseTime(q.From, false)
	if err != nil {
		return p, fmt.Errorf("from: %w", err)
	}
	to, err := ParseTime(q.To, true)
	if err != nil {
		return p, fmt.Errorf("to: %w", err)
	}

	g, err := period.Parse(q.Granularity)
	if err != nil {
		return p, err
	}

	loc, err := period.LoadLocation(q.TZ)
	if err != nil {
		return p, err
	}

	p = ReportParams{
		From:        from,
		To:          to,
		Granularity: g,
		Location:    loc,
		Limit:       defaultLimit,
		ProfitMode:  ProfitModeNone,
	}
	if q.Limit != nil {
		p.Limit = *q.Limit
	}
	if mode := strings.TrimSpace(q.ProfitMode); mode != "" {
		p.ProfitMode = mode
	}
	return p, nil
}

// ParseTime accepts RFC3339 (with or without fractional seconds) or a bare
// YYYY-MM-DD date in UTC. A bare date used as an upper bound covers the
// whole day. Empty input returns nil.
func ParseTime(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(dateOnlyLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// =====================================================
// VALIDATION RULES
// =====================================================

func dateRule(value interface{}) error {
	s, _ := value.(string)
	_, err := ParseTime(s, false)
	return err
}

func granularityRule(value interface{}) error {
	s, _ := value.(string)
	_, err := period.Parse(s)
	return err
}

func timezoneRule(value interface{}) error {
	s, _ := value.(string)
	_, err := period.LoadLocation(s)
	return err
}

func limitRule(value interface{}) error {
	limit, _ := value.(*int)
	if limit == nil {
		return nil
	}
	if *limit < 1 || *limit > MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}

// =====================================================
// REPORT PARAMS
// =====================================================

// ReportParams is a validated report request. Nil From/To are filled by
// the range normalizer.
type ReportParams struct {
	From        *time.Time
	To          *time.Time
	Granularity period.Granularity
	Location    *time.Location
	Limit       int
	ProfitMode  string
}

// TZ returns the IANA name of the report timezone.
func (p ReportParams) TZ() string {
	if p.Location == nil {
		return period.DefaultTimezone
	}
	return p.Location.String()
}

// Explicit reports whether both ends of the range were supplied.
func (p ReportParams) Explicit() bool {
	return p.From != nil && p.To != nil
}
