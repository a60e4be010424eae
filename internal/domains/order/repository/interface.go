package repository

import (
	"context"
	"time"

	"bookstore-reporting/internal/domains/order/model"
)

// =====================================================
// ORDER LEDGER READER
// =====================================================

// LedgerReader is read-only access to the order ledger for reporting.
//
// FetchCompletedOrders returns exactly the orders whose status is in the
// configured completed set and whose created_at is in [from, to], with
// their line items attached. Order of the result is unspecified.
type LedgerReader interface {
	FetchCompletedOrders(ctx context.Context, from, to time.Time) ([]model.Order, error)
}
