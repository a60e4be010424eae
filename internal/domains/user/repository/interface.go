package repository

import (
	"context"
	"time"
)

// UserCounter provides the user counts shown on the stats overview.
type UserCounter interface {
	// CountAll đếm toàn bộ user (không lọc theo thời gian)
	CountAll(ctx context.Context) (int64, error)
	// CountCreatedBetween đếm user có created_at trong [from, to]
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}
