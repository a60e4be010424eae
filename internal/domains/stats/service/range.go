package service

import (
	"time"

	"bookstore-reporting/internal/domains/stats/model"
)

// defaultLookbackDays: khoảng mặc định khi thiếu ?from
const defaultLookbackDays = 365

// NormalizeRange fills a partial range. to defaults to now and from to
// 365 days before to. The ends are not reordered: from after to selects
// nothing and is not an error.
func NormalizeRange(from, to *time.Time, now time.Time) model.DateRange {
	end := now
	if to != nil {
		end = *to
	}

	start := end.AddDate(0, 0, -defaultLookbackDays)
	if from != nil {
		start = *from
	}

	return model.DateRange{From: start.UTC(), To: end.UTC()}
}

// NormalizeLimit returns def for a missing limit and caps it at model.MaxLimit.
func NormalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > model.MaxLimit {
		return model.MaxLimit
	}
	return limit
}
