//go:build integration

package database_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	bookrepo "bookstore-reporting/internal/domains/book/repository"
	ordermodel "bookstore-reporting/internal/domains/order/model"
	orderrepo "bookstore-reporting/internal/domains/order/repository"
	userrepo "bookstore-reporting/internal/domains/user/repository"
	"bookstore-reporting/internal/infrastructure/database"
)

// go test -tags integration ./internal/infrastructure/database/...
func startPostgres(t *testing.T) database.DBConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "report",
				"POSTGRES_PASSWORD": "report",
				"POSTGRES_DB":       "bookstore_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return database.DBConfig{
		Host:              host,
		Port:              portNum,
		Username:          "report",
		Password:          "report",
		DBName:            "bookstore_test",
		SSLMode:           "disable",
		MaxConns:          5,
		MinConns:          0,
		MaxConnLifetime:   5 * time.Minute,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: time.Minute,
		MaxRetries:        5,
		RetryDelay:        500 * time.Millisecond,
		ConnectTimeout:    10 * time.Second,
	}
}

type seed struct {
	fiction, science        uuid.UUID
	novel, atlas, orphan    uuid.UUID
	inRange, pending, later uuid.UUID
}

func seedData(t *testing.T, cfg database.DBConfig) seed {
	t.Helper()
	ctx := context.Background()

	// pool ghi riêng, pool của PostgresDB là read-only
	pool, err := pgxpool.New(ctx, cfg.DSN())
	require.NoError(t, err)
	defer pool.Close()

	s := seed{
		fiction: uuid.New(), science: uuid.New(),
		novel: uuid.New(), atlas: uuid.New(), orphan: uuid.New(),
		inRange: uuid.New(), pending: uuid.New(), later: uuid.New(),
	}
	alice, bob, ghost := uuid.New(), uuid.New(), uuid.New()
	author := uuid.New()

	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO users (id, email, created_at) VALUES ($1, 'alice@example.com', '2025-01-05T10:00:00Z')`, []any{alice}},
		{`INSERT INTO users (id, email, created_at) VALUES ($1, 'bob@example.com', '2025-03-01T10:00:00Z')`, []any{bob}},
		{`INSERT INTO users (id, email, created_at, deleted_at) VALUES ($1, 'ghost@example.com', '2025-01-10T10:00:00Z', NOW())`, []any{ghost}},
		{`INSERT INTO authors (id, name, slug) VALUES ($1, 'Nguyen Nhat Anh', 'nguyen-nhat-anh')`, []any{author}},
		{`INSERT INTO categories (id, name, slug) VALUES ($1, 'Fiction', 'fiction'), ($2, 'Science', 'science')`, []any{s.fiction, s.science}},
		{`INSERT INTO books (id, title, slug, author_id, category_id, price) VALUES ($1, 'Novel', 'novel', $2, $3, 10.00)`, []any{s.novel, author, s.fiction}},
		{`INSERT INTO books (id, title, slug, category_id, price) VALUES ($1, 'Atlas', 'atlas', $2, 25.00)`, []any{s.atlas, s.science}},
		{`INSERT INTO books (id, title, slug, price) VALUES ($1, 'Orphan', 'orphan', 5.00)`, []any{s.orphan}},
		{`INSERT INTO book_categories (book_id, category_id) VALUES ($1, $2)`, []any{s.atlas, s.fiction}},
		{`INSERT INTO orders (id, order_number, user_id, status, subtotal, shipping_fee, discount_amount, total, created_at)
		  VALUES ($1, 'ORD-1', $2, 'delivered', 45.00, 3.00, 5.00, 43.00, '2025-02-10T08:00:00Z')`, []any{s.inRange, alice}},
		{`INSERT INTO orders (id, order_number, user_id, status, subtotal, total, created_at)
		  VALUES ($1, 'ORD-2', $2, 'pending', 10.00, 10.00, '2025-02-11T08:00:00Z')`, []any{s.pending, bob}},
		{`INSERT INTO orders (id, order_number, user_id, status, subtotal, total, created_at)
		  VALUES ($1, 'ORD-3', $2, 'delivered', 10.00, 10.00, '2025-06-01T08:00:00Z')`, []any{s.later, bob}},
		{`INSERT INTO order_items (order_id, book_id, quantity, price, final_price) VALUES ($1, $2, 2, 10.00, 8.00)`, []any{s.inRange, s.novel}},
		{`INSERT INTO order_items (order_id, book_id, quantity, price) VALUES ($1, $2, 1, 25.00)`, []any{s.inRange, s.atlas}},
		{`INSERT INTO order_items (order_id, book_id, quantity, price) VALUES ($1, $2, 1, 10.00)`, []any{s.pending, s.novel}},
		{`INSERT INTO order_items (order_id, book_id, quantity, price) VALUES ($1, $2, 1, 10.00)`, []any{s.later, s.novel}},
	}
	for _, st := range stmts {
		_, err := pool.Exec(ctx, st.sql, st.args...)
		require.NoError(t, err, st.sql)
	}
	return s
}

func TestReportingStore(t *testing.T) {
	cfg := startPostgres(t)
	ctx := context.Background()

	// ===== migrations =====
	m, err := database.NewMigrator(&cfg)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Up(), "second run is a no-op")
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
	require.NoError(t, m.Close())

	s := seedData(t, cfg)

	db := database.NewPostgresDB(&cfg)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(db.Close)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)

	t.Run("ledger returns completed orders with items", func(t *testing.T) {
		ledger := orderrepo.NewPostgresLedgerReader(db.Pool, ordermodel.NewStatusSet(ordermodel.DefaultCompletedStatuses...))

		orders, err := ledger.FetchCompletedOrders(ctx, from, to)
		require.NoError(t, err)
		require.Len(t, orders, 1)

		o := orders[0]
		assert.Equal(t, s.inRange, o.ID)
		assert.True(t, decimal.RequireFromString("40").Equal(o.FinalAmount), "final %s", o.FinalAmount)
		assert.True(t, decimal.RequireFromString("3").Equal(o.ShippingFee))
		require.Len(t, o.Items, 2)
		assert.Equal(t, int64(3), o.ItemQuantity())

		for _, it := range o.Items {
			if it.BookID == s.atlas {
				// final_price NULL -> price
				assert.True(t, decimal.RequireFromString("25").Equal(it.FinalPrice))
			} else {
				assert.True(t, decimal.RequireFromString("8").Equal(it.FinalPrice))
			}
		}

		empty, err := ledger.FetchCompletedOrders(ctx, to, from)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("catalog joins author and every category", func(t *testing.T) {
		catalog := bookrepo.NewPostgresRepository(db.Pool)

		books, err := catalog.FindSummariesByIDs(ctx, []uuid.UUID{s.novel, s.atlas, s.orphan, uuid.New()})
		require.NoError(t, err)
		require.Len(t, books, 3)

		assert.Equal(t, "Nguyen Nhat Anh", books[s.novel].AuthorName)
		require.Len(t, books[s.atlas].Categories, 2)
		assert.Equal(t, "Fiction", books[s.atlas].Categories[0].Name)
		assert.Equal(t, "Science", books[s.atlas].Categories[1].Name)
		assert.Empty(t, books[s.orphan].Categories)
	})

	t.Run("user counter skips deleted users", func(t *testing.T) {
		users := userrepo.NewPostgresRepository(db.Pool)

		total, err := users.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		jan, err := users.CountCreatedBetween(ctx,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, int64(1), jan)
	})

	t.Run("session is read-only", func(t *testing.T) {
		_, err := db.Pool.Exec(ctx, `DELETE FROM orders`)
		assert.Error(t, err)
	})

	t.Run("pool stats", func(t *testing.T) {
		stats, err := db.Stats()
		require.NoError(t, err)
		assert.Equal(t, int32(5), stats.MaxConns)
	})
}
