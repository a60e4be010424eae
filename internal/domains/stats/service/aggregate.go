package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	ordermodel "bookstore-reporting/internal/domains/order/model"
	"bookstore-reporting/internal/domains/stats/model"
	"bookstore-reporting/internal/domains/stats/period"
)

// =====================================================
// PIPELINE TYPES
// =====================================================

// BucketedOrder pairs an order with the period it falls in.
type BucketedOrder struct {
	Period period.Period
	Order  *ordermodel.Order
}

// MetricsRow is the folded metrics of one period.
type MetricsRow struct {
	Period  period.Period
	Metrics model.Metrics
}

// =====================================================
// STAGE 1: FILTER
// =====================================================

// FilterQualifying keeps orders whose status is in completed and whose
// CreatedAt lies in [rng.From, rng.To].
func FilterQualifying(orders []ordermodel.Order, rng model.DateRange, completed ordermodel.StatusSet) []ordermodel.Order {
	out := make([]ordermodel.Order, 0, len(orders))
	if rng.Empty() {
		return out
	}
	for _, o := range orders {
		if !completed.Has(o.Status) {
			continue
		}
		if o.CreatedAt.Before(rng.From) || o.CreatedAt.After(rng.To) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// =====================================================
// STAGE 2: BUCKET
// =====================================================

// AssignBuckets maps every order to its period of granularity g in loc.
func AssignBuckets(orders []ordermodel.Order, g period.Granularity, loc *time.Location) []BucketedOrder {
	out := make([]BucketedOrder, 0, len(orders))
	for i := range orders {
		out = append(out, BucketedOrder{
			Period: period.For(orders[i].CreatedAt, g, loc),
			Order:  &orders[i],
		})
	}
	return out
}

// =====================================================
// STAGE 3: FOLD
// =====================================================

// Fold sums the metrics of each period touched by at least one order.
// Rows come back sorted by period start.
func Fold(bucketed []BucketedOrder) []MetricsRow {
	index := make(map[string]int)
	rows := make([]MetricsRow, 0)

	for _, b := range bucketed {
		i, ok := index[b.Period.Key]
		if !ok {
			i = len(rows)
			index[b.Period.Key] = i
			rows = append(rows, MetricsRow{Period: b.Period, Metrics: zeroMetrics()})
		}
		addOrder(&rows[i].Metrics, b.Order)
	}

	sortRows(rows)
	return rows
}

// =====================================================
// STAGE 4: GAP FILL
// =====================================================

// GapFill adds a zero row for every period without data. Data rows are
// kept even when their period is not in periods. Output is sorted by start.
func GapFill(rows []MetricsRow, periods []period.Period) []MetricsRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]MetricsRow, 0, len(rows)+len(periods))

	for _, r := range rows {
		seen[r.Period.Key] = struct{}{}
		out = append(out, r)
	}
	for _, p := range periods {
		if _, ok := seen[p.Key]; ok {
			continue
		}
		seen[p.Key] = struct{}{}
		out = append(out, MetricsRow{Period: p, Metrics: zeroMetrics()})
	}

	sortRows(out)
	return out
}

// =====================================================
// COMPOSED
// =====================================================

// Aggregate buckets and folds already-qualified orders.
func Aggregate(orders []ordermodel.Order, g period.Granularity, loc *time.Location) []MetricsRow {
	return Fold(AssignBuckets(orders, g, loc))
}

// TimeSeries runs filter, bucket, fold and gap fill. It returns exactly one
// row per period intersecting rng.
func TimeSeries(orders []ordermodel.Order, rng model.DateRange, completed ordermodel.StatusSet, g period.Granularity, loc *time.Location) []MetricsRow {
	qualifying := FilterQualifying(orders, rng, completed)
	rows := Aggregate(qualifying, g, loc)
	return GapFill(rows, period.Enumerate(rng.From, rng.To, g, loc))
}

// Summarize folds every order into a single row (overview totals).
func Summarize(orders []ordermodel.Order) model.Metrics {
	m := zeroMetrics()
	for i := range orders {
		addOrder(&m, &orders[i])
	}
	return m
}

// =====================================================
// HELPERS
// =====================================================

func addOrder(m *model.Metrics, o *ordermodel.Order) {
	m.Orders++
	m.GrossSales = m.GrossSales.Add(o.TotalAmount)
	m.Discounts = m.Discounts.Add(o.DiscountAmount)
	m.NetSales = m.NetSales.Add(o.FinalAmount)
	m.ShippingRevenue = m.ShippingRevenue.Add(o.ShippingFee)
	m.ProductsSold += o.ItemQuantity()
}

func zeroMetrics() model.Metrics {
	return model.Metrics{
		GrossSales:      decimal.Zero,
		Discounts:       decimal.Zero,
		NetSales:        decimal.Zero,
		ShippingRevenue: decimal.Zero,
	}
}

func sortRows(rows []MetricsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Period.Start.Equal(rows[j].Period.Start) {
			return rows[i].Period.Start.Before(rows[j].Period.Start)
		}
		return rows[i].Period.Key < rows[j].Period.Key
	})
}

// toSeries converts rows to the response shape.
func toSeries(rows []MetricsRow) []model.SeriesEntry {
	series := make([]model.SeriesEntry, 0, len(rows))
	for _, r := range rows {
		series = append(series, model.SeriesEntry{
			Key: r.Period.Key,
			Period: model.PeriodInfo{
				Start: r.Period.Start,
				End:   r.Period.End,
				Label: r.Period.Label,
			},
			Metrics: r.Metrics,
		})
	}
	return series
}
