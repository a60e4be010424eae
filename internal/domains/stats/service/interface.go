package service

import (
	"context"

	"bookstore-reporting/internal/domains/stats/model"
)

// =====================================================
// STATS SERVICE INTERFACE
// =====================================================
type StatsService interface {
	// Overview: tổng hợp cả khoảng + user counts + top products (song song)
	GetOverview(ctx context.Context, params model.ReportParams) (*model.OverviewResponse, error)

	// Time series, một dòng cho mỗi bucket trong khoảng (kể cả bucket rỗng)
	GetTimeSeries(ctx context.Context, params model.ReportParams) (*model.TimeSeriesResponse, error)

	// Top sách bán chạy theo số lượng
	GetTopProducts(ctx context.Context, params model.ReportParams) (*model.TopProductsResponse, error)

	// Doanh số theo category cho từng bucket có phát sinh
	GetProductBreakdown(ctx context.Context, params model.ReportParams) (*model.ProductBreakdownResponse, error)
}
