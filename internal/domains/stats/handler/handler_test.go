package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bookstore-reporting/internal/domains/stats/export"
	"bookstore-reporting/internal/domains/stats/model"
	"bookstore-reporting/internal/domains/stats/period"
)

type fakeStatsService struct {
	lastParams model.ReportParams
	err        error
}

func (f *fakeStatsService) GetOverview(ctx context.Context, p model.ReportParams) (*model.OverviewResponse, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &model.OverviewResponse{ProfitMode: p.ProfitMode}, nil
}

func (f *fakeStatsService) GetTimeSeries(ctx context.Context, p model.ReportParams) (*model.TimeSeriesResponse, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &model.TimeSeriesResponse{Granularity: p.Granularity.String(), TZ: p.TZ(), Series: []model.SeriesEntry{}}, nil
}

func (f *fakeStatsService) GetTopProducts(ctx context.Context, p model.ReportParams) (*model.TopProductsResponse, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &model.TopProductsResponse{Items: []model.TopProductItem{}}, nil
}

func (f *fakeStatsService) GetProductBreakdown(ctx context.Context, p model.ReportParams) (*model.ProductBreakdownResponse, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return &model.ProductBreakdownResponse{Periods: []model.BreakdownPeriod{}}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(svc *fakeStatsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewStatsHandler(svc, "").RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doGet(t *testing.T, r *gin.Engine, url string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestGetTimeSeries_ParsesQuery(t *testing.T) {
	svc := &fakeStatsService{}
	r := setupRouter(svc)

	code, body := doGet(t, r, "/api/v1/stats/time-series?from=2025-01-01&to=2025-02-28T23:59:59Z&granularity=week&tz=Asia/Ho_Chi_Minh")

	require.Equal(t, http.StatusOK, code)
	assert.True(t, body.Success)
	assert.Equal(t, period.Week, svc.lastParams.Granularity)
	assert.Equal(t, "Asia/Ho_Chi_Minh", svc.lastParams.TZ())
	require.True(t, svc.lastParams.Explicit())
	assert.Equal(t, 2025, svc.lastParams.From.Year())

	var data model.TimeSeriesResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "week", data.Granularity)
}

func TestGetOverview_DefaultLimit(t *testing.T) {
	svc := &fakeStatsService{}
	r := setupRouter(svc)

	code, _ := doGet(t, r, "/api/v1/stats/overview")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.DefaultOverviewLimit, svc.lastParams.Limit)
	assert.Equal(t, model.ProfitModeNone, svc.lastParams.ProfitMode)
	assert.Equal(t, period.Year, svc.lastParams.Granularity)
}

func TestGetTopProducts_Limit(t *testing.T) {
	svc := &fakeStatsService{}
	r := setupRouter(svc)

	code, _ := doGet(t, r, "/api/v1/stats/top-products?limit=3")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, svc.lastParams.Limit)

	code, _ = doGet(t, r, "/api/v1/stats/top-products")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.DefaultLimit, svc.lastParams.Limit)
}

func TestStatsRoutes_RejectInvalidQuery(t *testing.T) {
	r := setupRouter(&fakeStatsService{})

	urls := []string{
		"/api/v1/stats/time-series?granularity=day",
		"/api/v1/stats/time-series?tz=Mars/Base",
		"/api/v1/stats/overview?from=yesterday",
		"/api/v1/stats/top-products?limit=0",
		"/api/v1/stats/top-products?limit=abc",
		"/api/v1/stats/product-breakdown?profitMode=margin",
	}

	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			code, body := doGet(t, r, url)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, model.ErrCodeInvalidQuery, body.Error.Code)
		})
	}
}

func TestStatsRoutes_ServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"store failure", model.NewStatsError(model.ErrCodeStoreUnavailable, "Failed to load orders", fmt.Errorf("timeout")), http.StatusInternalServerError, model.ErrCodeStoreUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&fakeStatsService{err: tc.err})
			code, body := doGet(t, r, "/api/v1/stats/product-breakdown")
			assert.Equal(t, tc.code, code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.want, body.Error.Code)
		})
	}
}

func TestDefaultTimezoneFromConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeStatsService{}
	r := gin.New()
	NewStatsHandler(svc, "Asia/Ho_Chi_Minh").RegisterRoutes(r.Group("/api/v1"))

	code, _ := doGet(t, r, "/api/v1/stats/time-series")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Asia/Ho_Chi_Minh", svc.lastParams.TZ())

	code, _ = doGet(t, r, "/api/v1/stats/time-series?tz=UTC")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UTC", svc.lastParams.TZ())
}

func TestExport_WritesWorkbook(t *testing.T) {
	svc := &fakeStatsService{}
	r := setupRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats/export/top-products?limit=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="top-products_`)
	assert.Equal(t, 7, svc.lastParams.Limit)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{"Top Products"}, f.GetSheetList())
}

func TestExport_OverviewDefaultLimit(t *testing.T) {
	svc := &fakeStatsService{}
	r := setupRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats/export/overview", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.DefaultOverviewLimit, svc.lastParams.Limit)
}

func TestExport_Errors(t *testing.T) {
	code, body := doGet(t, setupRouter(&fakeStatsService{}), "/api/v1/stats/export/refunds")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, model.ErrCodeUnknownReport, body.Error.Code)

	code, body = doGet(t, setupRouter(&fakeStatsService{}), "/api/v1/stats/export/time-series?granularity=day")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, model.ErrCodeInvalidQuery, body.Error.Code)

	storeErr := model.NewStatsError(model.ErrCodeStoreUnavailable, "Failed to load orders", fmt.Errorf("timeout"))
	code, body = doGet(t, setupRouter(&fakeStatsService{err: storeErr}), "/api/v1/stats/export/product-breakdown")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, model.ErrCodeStoreUnavailable, body.Error.Code)
}
