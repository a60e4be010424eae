package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	bookmodel "bookstore-reporting/internal/domains/book/model"
	bookrepo "bookstore-reporting/internal/domains/book/repository"
	ordermodel "bookstore-reporting/internal/domains/order/model"
	orderrepo "bookstore-reporting/internal/domains/order/repository"
	"bookstore-reporting/internal/domains/stats/model"
	userrepo "bookstore-reporting/internal/domains/user/repository"
	"bookstore-reporting/internal/infrastructure/metrics"
	"bookstore-reporting/pkg/cache"
	"bookstore-reporting/pkg/logger"
)

// report names, dùng cho cache key và metrics label
const (
	reportOverview   = "overview"
	reportTimeSeries = "time_series"
	reportTop        = "top_products"
	reportBreakdown  = "product_breakdown"
)

const cacheKeyPrefix = "stats:v1"

// CacheKeyPattern matches every cached report (statsctl cache flush).
const CacheKeyPattern = cacheKeyPrefix + ":*"

// =====================================================
// STATS SERVICE
// =====================================================
type statsService struct {
	ledger    orderrepo.LedgerReader
	catalog   bookrepo.CatalogReader
	users     userrepo.UserCounter
	completed ordermodel.StatusSet

	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option customizes the stats service.
type Option func(*statsService)

// WithCache enables the report cache. ttl <= 0 disables it.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *statsService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *statsService) {
		s.metrics = m
	}
}

// WithClock overrides time.Now (used to resolve open-ended ranges).
func WithClock(now func() time.Time) Option {
	return func(s *statsService) {
		s.now = now
	}
}

// NewStatsService creates the reporting service
func NewStatsService(
	ledger orderrepo.LedgerReader,
	catalog bookrepo.CatalogReader,
	users userrepo.UserCounter,
	completed ordermodel.StatusSet,
	opts ...Option,
) StatsService {
	s := &statsService{
		ledger:    ledger,
		catalog:   catalog,
		users:     users,
		completed: completed,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =====================================================
// OVERVIEW
// =====================================================

func (s *statsService) GetOverview(ctx context.Context, p model.ReportParams) (*model.OverviewResponse, error) {
	return withCache(ctx, s, reportOverview, p, func(ctx context.Context) (*model.OverviewResponse, error) {
		rng := NormalizeRange(p.From, p.To, s.now())
		limit := NormalizeLimit(p.Limit, model.DefaultOverviewLimit)

		var (
			totalUsers int64
			newUsers   int64
			orders     []ordermodel.Order
			top        []model.TopProductItem
		)

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			n, err := s.users.CountAll(gctx)
			if err != nil {
				return model.NewStatsError(model.ErrCodeStoreUnavailable, "Failed to count users", err)
			}
			totalUsers = n
			return nil
		})

		g.Go(func() error {
			if rng.Empty() {
				return nil
			}
			n, err := s.users.CountCreatedBetween(gctx, rng.From, rng.To)
			if err != nil {
				return model.NewStatsError(model.ErrCodeStoreUnavailable, "Failed to count new users", err)
			}
			newUsers = n
			return nil
		})

		g.Go(func() error {
			var err error
			orders, err = s.fetchOrders(gctx, rng)
			return err
		})

		// top products đọc lại ledger độc lập
		g.Go(func() error {
			var err error
			top, err = s.topProducts(gctx, rng, limit)
			return err
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}

		s.metrics.AddOrdersProcessed(reportOverview, len(orders))

		return &model.OverviewResponse{
			Range: rng,
			Totals: model.OverviewTotals{
				TotalUsers: totalUsers,
				NewUsers:   newUsers,
				Metrics:    Summarize(orders),
				Profit:     decimal.Zero,
			},
			TopProducts:     top,
			ProfitMode:      profitMode(p),
			ProfitSupported: false,
		}, nil
	})
}

// =====================================================
// TIME SERIES
// =====================================================

func (s *statsService) GetTimeSeries(ctx context.Context, p model.ReportParams) (*model.TimeSeriesResponse, error) {
	return withCache(ctx, s, reportTimeSeries, p, func(ctx context.Context) (*model.TimeSeriesResponse, error) {
		rng := NormalizeRange(p.From, p.To, s.now())

		orders, err := s.fetchOrders(ctx, rng)
		if err != nil {
			return nil, err
		}
		s.metrics.AddOrdersProcessed(reportTimeSeries, len(orders))

		rows := TimeSeries(orders, rng, s.completed, p.Granularity, p.Location)

		return &model.TimeSeriesResponse{
			Range:       rng,
			Granularity: p.Granularity.String(),
			TZ:          p.TZ(),
			Series:      toSeries(rows),
		}, nil
	})
}

// =====================================================
// TOP PRODUCTS
// =====================================================

func (s *statsService) GetTopProducts(ctx context.Context, p model.ReportParams) (*model.TopProductsResponse, error) {
	return withCache(ctx, s, reportTop, p, func(ctx context.Context) (*model.TopProductsResponse, error) {
		rng := NormalizeRange(p.From, p.To, s.now())
		limit := NormalizeLimit(p.Limit, model.DefaultLimit)

		items, err := s.topProducts(ctx, rng, limit)
		if err != nil {
			return nil, err
		}

		return &model.TopProductsResponse{
			Range: rng,
			Count: len(items),
			Items: items,
		}, nil
	})
}

// =====================================================
// PRODUCT BREAKDOWN
// =====================================================

func (s *statsService) GetProductBreakdown(ctx context.Context, p model.ReportParams) (*model.ProductBreakdownResponse, error) {
	return withCache(ctx, s, reportBreakdown, p, func(ctx context.Context) (*model.ProductBreakdownResponse, error) {
		rng := NormalizeRange(p.From, p.To, s.now())

		orders, err := s.fetchOrders(ctx, rng)
		if err != nil {
			return nil, err
		}
		s.metrics.AddOrdersProcessed(reportBreakdown, len(orders))

		catalog, err := s.loadCatalog(ctx, DistinctBookIDs(orders))
		if err != nil {
			return nil, err
		}

		return &model.ProductBreakdownResponse{
			Range:       rng,
			Granularity: p.Granularity.String(),
			TZ:          p.TZ(),
			Periods:     BuildBreakdown(orders, catalog, p.Granularity, p.Location),
		}, nil
	})
}

// =====================================================
// HELPERS
// =====================================================

// fetchOrders reads the ledger and keeps only qualifying orders.
func (s *statsService) fetchOrders(ctx context.Context, rng model.DateRange) ([]ordermodel.Order, error) {
	if rng.Empty() {
		return []ordermodel.Order{}, nil
	}

	orders, err := s.ledger.FetchCompletedOrders(ctx, rng.From, rng.To)
	if err != nil {
		return nil, model.NewStatsError(model.ErrCodeStoreUnavailable, "Failed to load orders", err)
	}
	return FilterQualifying(orders, rng, s.completed), nil
}

func (s *statsService) topProducts(ctx context.Context, rng model.DateRange, limit int) ([]model.TopProductItem, error) {
	orders, err := s.fetchOrders(ctx, rng)
	if err != nil {
		return nil, err
	}

	ranked := RankProducts(orders, limit)
	if len(ranked) == 0 {
		return []model.TopProductItem{}, nil
	}

	catalog, err := s.loadCatalog(ctx, RankedBookIDs(ranked))
	if err != nil {
		return nil, err
	}
	return JoinProducts(ranked, catalog), nil
}

func (s *statsService) loadCatalog(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*bookmodel.BookSummary, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*bookmodel.BookSummary{}, nil
	}
	catalog, err := s.catalog.FindSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, model.NewStatsError(model.ErrCodeStoreUnavailable, "Failed to load books", err)
	}
	return catalog, nil
}

func profitMode(p model.ReportParams) string {
	if p.ProfitMode == "" {
		return model.ProfitModeNone
	}
	return p.ProfitMode
}

// =====================================================
// REPORT CACHE
// =====================================================

// cacheKey chỉ cache khi from và to được truyền tường minh,
// khoảng mặc định phụ thuộc vào thời điểm gọi.
func (s *statsService) cacheKey(report string, p model.ReportParams) (string, bool) {
	if s.cache == nil || s.cacheTTL <= 0 || !p.Explicit() {
		return "", false
	}
	return fmt.Sprintf("%s:%s:%d:%d:%s:%s:%d:%s",
		cacheKeyPrefix,
		report,
		p.From.UnixNano(),
		p.To.UnixNano(),
		p.Granularity,
		p.TZ(),
		p.Limit,
		profitMode(p),
	), true
}

// withCache serves a report from the cache when possible and stores fresh
// results. Cache failures are logged and never fail the request.
func withCache[T any](ctx context.Context, s *statsService, report string, p model.ReportParams, build func(context.Context) (*T, error)) (*T, error) {
	start := time.Now()

	key, cacheable := s.cacheKey(report, p)
	if cacheable {
		var cached T
		found, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			s.metrics.RecordCacheLookup(report, "error")
			logger.Warn("report cache read failed", map[string]interface{}{
				"report": report,
				"key":    key,
				"error":  err.Error(),
			})
		case found:
			s.metrics.RecordCacheLookup(report, "hit")
			s.metrics.ObserveReport(report, nil, time.Since(start))
			return &cached, nil
		default:
			s.metrics.RecordCacheLookup(report, "miss")
		}
	}

	resp, err := build(ctx)
	s.metrics.ObserveReport(report, err, time.Since(start))
	if err != nil {
		logger.ErrorWithFields("report build failed", err, map[string]interface{}{
			"report": report,
		})
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			logger.Warn("report cache write failed", map[string]interface{}{
				"report": report,
				"key":    key,
				"error":  err.Error(),
			})
		}
	}
	return resp, nil
}
