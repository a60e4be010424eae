package repository

import (
	"context"

	"github.com/google/uuid"

	"bookstore-reporting/internal/domains/book/model"
)

// CatalogReader resolves book ids to display metadata for reports.
// Ids with no matching book are simply absent from the result map.
type CatalogReader interface {
	FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.BookSummary, error)
}
