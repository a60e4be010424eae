package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-reporting/internal/domains/order/model"
	"bookstore-reporting/pkg/logger"
)

// itemBatchSize giới hạn số order_id trong một câu ANY($1)
const itemBatchSize = 2000

// =====================================================
// POSTGRES LEDGER READER
// =====================================================
type postgresLedgerReader struct {
	pool      *pgxpool.Pool
	completed model.StatusSet
}

// NewPostgresLedgerReader creates a ledger reader bound to a completed status set.
func NewPostgresLedgerReader(pool *pgxpool.Pool, completed model.StatusSet) LedgerReader {
	return &postgresLedgerReader{
		pool:      pool,
		completed: completed,
	}
}

// =====================================================
// FETCH COMPLETED ORDERS
// =====================================================

func (r *postgresLedgerReader) FetchCompletedOrders(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	if len(r.completed) == 0 {
		return nil, model.ErrEmptyStatusSet
	}

	// from > to: không lỗi, chỉ trả về rỗng
	if from.After(to) {
		return []model.Order{}, nil
	}

	orders, err := r.fetchOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	index := make(map[uuid.UUID]int, len(orders))
	ids := make([]string, 0, len(orders))
	for i := range orders {
		index[orders[i].ID] = i
		ids = append(ids, orders[i].ID.String())
	}

	for start := 0; start < len(ids); start += itemBatchSize {
		end := start + itemBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		items, err := r.fetchItems(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if i, ok := index[it.OrderID]; ok {
				orders[i].Items = append(orders[i].Items, it)
			}
		}
	}

	logger.Debug(fmt.Sprintf("[LedgerReader] fetched %d completed orders", len(orders)))
	return orders, nil
}

func (r *postgresLedgerReader) fetchOrders(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	query := `
		SELECT
			o.id, o.order_number, o.user_id, o.status,
			o.subtotal, o.discount_amount, o.subtotal - o.discount_amount AS final_amount,
			o.shipping_fee, o.created_at
		FROM orders o
		WHERE o.status = ANY($1)
		  AND o.created_at >= $2
		  AND o.created_at <= $3
	`

	rows, err := r.pool.Query(ctx, query, r.completed.Slice(), from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: query orders: %v", model.ErrLedgerUnavailable, err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID,
			&o.OrderNumber,
			&o.UserID,
			&o.Status,
			&o.TotalAmount,
			&o.DiscountAmount,
			&o.FinalAmount,
			&o.ShippingFee,
			&o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate orders: %v", model.ErrLedgerUnavailable, err)
	}

	return orders, nil
}

func (r *postgresLedgerReader) fetchItems(ctx context.Context, orderIDs []string) ([]model.OrderItem, error) {
	// final_price có thể NULL với đơn cũ -> fallback về price
	query := `
		SELECT
			oi.order_id, oi.book_id, oi.quantity, oi.price,
			COALESCE(oi.final_price, oi.price) AS final_price
		FROM order_items oi
		WHERE oi.order_id = ANY($1::uuid[])
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: query order items: %v", model.ErrLedgerUnavailable, err)
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.OrderID, &it.BookID, &it.Quantity, &it.Price, &it.FinalPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate order items: %v", model.ErrLedgerUnavailable, err)
	}

	return items, nil
}
