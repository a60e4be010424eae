package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// SHARED PIECES
// =====================================================

// DateRange is the resolved, inclusive reporting window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Empty reports whether the range selects nothing (from after to).
func (r DateRange) Empty() bool {
	return r.From.After(r.To)
}

// Metrics là các tổng cộng dồn cho một bucket (hoặc cả khoảng với overview)
type Metrics struct {
	Orders          int64           `json:"orders"`
	GrossSales      decimal.Decimal `json:"grossSales"`
	Discounts       decimal.Decimal `json:"discounts"`
	NetSales        decimal.Decimal `json:"netSales"`
	ShippingRevenue decimal.Decimal `json:"shippingRevenue"`
	ProductsSold    int64           `json:"productsSold"`
}

// IsZero reports whether no order contributed to the row.
func (m Metrics) IsZero() bool {
	return m.Orders == 0 &&
		m.GrossSales.IsZero() &&
		m.Discounts.IsZero() &&
		m.NetSales.IsZero() &&
		m.ShippingRevenue.IsZero() &&
		m.ProductsSold == 0
}

// =====================================================
// OVERVIEW RESPONSE
// =====================================================
type OverviewTotals struct {
	TotalUsers int64 `json:"totalUsers"`
	NewUsers   int64 `json:"newUsers"`
	Metrics
	Profit decimal.Decimal `json:"profit"`
}

type OverviewResponse struct {
	Range           DateRange        `json:"range"`
	Totals          OverviewTotals   `json:"totals"`
	TopProducts     []TopProductItem `json:"topProducts"`
	ProfitMode      string           `json:"profitMode"`
	ProfitSupported bool             `json:"profitSupported"`
}

// =====================================================
// TIME SERIES RESPONSE
// =====================================================
type PeriodInfo struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

type SeriesEntry struct {
	Key     string     `json:"key"`
	Period  PeriodInfo `json:"period"`
	Metrics Metrics    `json:"metrics"`
}

type TimeSeriesResponse struct {
	Range       DateRange     `json:"range"`
	Granularity string        `json:"granularity"`
	TZ          string        `json:"tz"`
	Series      []SeriesEntry `json:"series"`
}

// =====================================================
// TOP PRODUCTS RESPONSE
// =====================================================
type BookInfo struct {
	ID         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	CoverURL   *string         `json:"coverUrl,omitempty"`
	AuthorName string          `json:"authorName,omitempty"`
	Price      decimal.Decimal `json:"price"`
}

type CategoryInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type TopProductItem struct {
	BookID     uuid.UUID       `json:"bookId"`
	Quantity   int64           `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
	Book       *BookInfo       `json:"book"`
	Categories []CategoryInfo  `json:"categories"`
}

type TopProductsResponse struct {
	Range DateRange        `json:"range"`
	Count int              `json:"count"`
	Items []TopProductItem `json:"items"`
}

// =====================================================
// PRODUCT BREAKDOWN RESPONSE
// =====================================================
type BreakdownPeriodInfo struct {
	Key   string    `json:"key"`
	Start time.Time `json:"start"`
	Label string    `json:"label"`
}

type CategoryRow struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Quantity     int64           `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type BreakdownPeriod struct {
	Period     BreakdownPeriodInfo `json:"period"`
	Categories []CategoryRow       `json:"categories"`
}

type ProductBreakdownResponse struct {
	Range       DateRange         `json:"range"`
	Granularity string            `json:"granularity"`
	TZ          string            `json:"tz"`
	Periods     []BreakdownPeriod `json:"periods"`
}
