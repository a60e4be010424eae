package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookmodel "bookstore-reporting/internal/domains/book/model"
	ordermodel "bookstore-reporting/internal/domains/order/model"
)

// =====================================================
// BUILDERS
// =====================================================

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newOrder(createdAt time.Time, final string, items ...ordermodel.OrderItem) ordermodel.Order {
	f := dec(final)
	return ordermodel.Order{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Status:         ordermodel.OrderStatusDelivered,
		Items:          items,
		TotalAmount:    f,
		DiscountAmount: decimal.Zero,
		FinalAmount:    f,
		ShippingFee:    decimal.Zero,
		CreatedAt:      createdAt,
	}
}

func item(book uuid.UUID, qty int, finalPrice string) ordermodel.OrderItem {
	p := dec(finalPrice)
	return ordermodel.OrderItem{BookID: book, Quantity: qty, Price: p, FinalPrice: p}
}

func completedSet() ordermodel.StatusSet {
	return ordermodel.NewStatusSet(ordermodel.DefaultCompletedStatuses...)
}

// =====================================================
// FAKES
// =====================================================

type fakeLedger struct {
	orders []ordermodel.Order
	err    error
	calls  atomic.Int32
}

func (f *fakeLedger) FetchCompletedOrders(ctx context.Context, from, to time.Time) ([]ordermodel.Order, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]ordermodel.Order, 0, len(f.orders))
	for _, o := range f.orders {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type fakeCatalog struct {
	books map[uuid.UUID]*bookmodel.BookSummary
	err   error
}

func (f *fakeCatalog) FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*bookmodel.BookSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID]*bookmodel.BookSummary, len(ids))
	for _, id := range ids {
		if b, ok := f.books[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

type fakeUsers struct {
	total    int64
	newUsers int64
	err      error
}

func (f *fakeUsers) CountAll(ctx context.Context) (int64, error) {
	return f.total, f.err
}

func (f *fakeUsers) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return f.newUsers, f.err
}

// memoryCache lưu giá trị đã encode JSON giống Redis
type memoryCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	gets   int
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.data))
	m.data = map[string][]byte{}
	return n, nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }
