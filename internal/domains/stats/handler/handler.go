package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-reporting/internal/domains/stats/export"
	"bookstore-reporting/internal/domains/stats/model"
	"bookstore-reporting/internal/domains/stats/service"
	"bookstore-reporting/internal/shared/response"
	"bookstore-reporting/pkg/logger"
)

// =====================================================
// STATS HANDLER
// =====================================================
type StatsHandler struct {
	statsService service.StatsService
	defaultTZ    string // dùng khi request không gửi ?tz
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService service.StatsService, defaultTZ string) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		defaultTZ:    defaultTZ,
	}
}

// =====================================================
// ROUTES REGISTRATION
// =====================================================

// RegisterRoutes registers all stats routes
func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/stats")
	{
		stats.GET("/overview", h.GetOverview)                  // GET /v1/stats/overview?from&to&limit
		stats.GET("/time-series", h.GetTimeSeries)             // GET /v1/stats/time-series?granularity=month&tz=Asia/Ho_Chi_Minh
		stats.GET("/top-products", h.GetTopProducts)           // GET /v1/stats/top-products?limit=10
		stats.GET("/product-breakdown", h.GetProductBreakdown) // GET /v1/stats/product-breakdown?granularity=quarter
		stats.GET("/export/:report", h.Export)                 // GET /v1/stats/export/time-series?from&to -> .xlsx
	}
}

// =====================================================
// OVERVIEW
// =====================================================

// GetOverview godoc
// @Summary Sales overview
// @Description Totals over the range, user counts and top products
// @Tags Stats
// @Produce json
// @Param from query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Range end (RFC3339 or YYYY-MM-DD)"
// @Param limit query int false "Top products limit (default 5)"
// @Success 200 {object} response.Response{data=model.OverviewResponse}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /v1/stats/overview [get]
func (h *StatsHandler) GetOverview(c *gin.Context) {
	params, ok := h.bindParams(c, model.DefaultOverviewLimit)
	if !ok {
		return
	}

	result, err := h.statsService.GetOverview(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

// =====================================================
// TIME SERIES
// =====================================================

// GetTimeSeries godoc
// @Summary Sales time series
// @Description One metrics row per period in range, empty periods zero-filled
// @Tags Stats
// @Produce json
// @Param granularity query string false "year | quarter | month | week"
// @Param tz query string false "IANA timezone (default UTC)"
// @Success 200 {object} response.Response{data=model.TimeSeriesResponse}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /v1/stats/time-series [get]
func (h *StatsHandler) GetTimeSeries(c *gin.Context) {
	params, ok := h.bindParams(c, model.DefaultLimit)
	if !ok {
		return
	}

	result, err := h.statsService.GetTimeSeries(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

// =====================================================
// TOP PRODUCTS
// =====================================================

// GetTopProducts godoc
// @Summary Best selling books
// @Tags Stats
// @Produce json
// @Param limit query int false "Max items (default 10, max 100)"
// @Success 200 {object} response.Response{data=model.TopProductsResponse}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /v1/stats/top-products [get]
func (h *StatsHandler) GetTopProducts(c *gin.Context) {
	params, ok := h.bindParams(c, model.DefaultLimit)
	if !ok {
		return
	}

	result, err := h.statsService.GetTopProducts(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

// =====================================================
// PRODUCT BREAKDOWN
// =====================================================

// GetProductBreakdown godoc
// @Summary Category sales per period
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Response{data=model.ProductBreakdownResponse}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /v1/stats/product-breakdown [get]
func (h *StatsHandler) GetProductBreakdown(c *gin.Context) {
	params, ok := h.bindParams(c, model.DefaultLimit)
	if !ok {
		return
	}

	result, err := h.statsService.GetProductBreakdown(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", result)
}

// =====================================================
// EXCEL EXPORT
// =====================================================

// Export godoc
// @Summary Export a report as .xlsx
// @Tags Stats
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param report path string true "overview | time-series | top-products | product-breakdown"
// @Success 200 {file} file
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /v1/stats/export/{report} [get]
func (h *StatsHandler) Export(c *gin.Context) {
	report := c.Param("report")

	defaultLimit := model.DefaultLimit
	if report == "overview" {
		defaultLimit = model.DefaultOverviewLimit
	}

	params, ok := h.bindParams(c, defaultLimit)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		result interface{}
		rng    model.DateRange
		err    error
	)

	switch report {
	case "overview":
		var r *model.OverviewResponse
		if r, err = h.statsService.GetOverview(ctx, params); err == nil {
			result, rng = r, r.Range
		}
	case "time-series":
		var r *model.TimeSeriesResponse
		if r, err = h.statsService.GetTimeSeries(ctx, params); err == nil {
			result, rng = r, r.Range
		}
	case "top-products":
		var r *model.TopProductsResponse
		if r, err = h.statsService.GetTopProducts(ctx, params); err == nil {
			result, rng = r, r.Range
		}
	case "product-breakdown":
		var r *model.ProductBreakdownResponse
		if r, err = h.statsService.GetProductBreakdown(ctx, params); err == nil {
			result, rng = r, r.Range
		}
	default:
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeUnknownReport, "Unknown report: "+report)
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	f, err := export.Workbook(result)
	if err != nil {
		h.handleServiceError(c, model.NewStatsError(model.ErrCodeExportFailed, "Failed to build export", err))
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(report, rng)))
	c.Header("Content-Type", export.ContentType)
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		logger.Error("failed to write export", err)
	}
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// bindParams binds, validates and resolves the query. It writes the error
// response itself and returns false on failure.
func (h *StatsHandler) bindParams(c *gin.Context, defaultLimit int) (model.ReportParams, bool) {
	var query model.StatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidQuery, "Invalid query parameters", map[string]string{
			"error": err.Error(),
		})
		return model.ReportParams{}, false
	}
	if query.TZ == "" {
		query.TZ = h.defaultTZ
	}

	if err := query.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidQuery, "Validation failed", err)
		return model.ReportParams{}, false
	}

	params, err := query.ToParams(defaultLimit)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeInvalidParameter, "Invalid query parameters", map[string]string{
			"error": err.Error(),
		})
		return model.ReportParams{}, false
	}

	return params, true
}

// handleServiceError handles service layer errors and maps to HTTP responses
func (h *StatsHandler) handleServiceError(c *gin.Context, err error) {
	var statsErr *model.StatsError
	if errors.As(err, &statsErr) {
		response.ErrorResponse(c, h.getHTTPStatusFromErrorCode(statsErr.Code), statsErr.Code, statsErr.Message)
		return
	}

	response.InternalServerError(c, "Internal server error")
}

// getHTTPStatusFromErrorCode maps business error codes to HTTP status codes
func (h *StatsHandler) getHTTPStatusFromErrorCode(code string) int {
	statusMap := map[string]int{
		model.ErrCodeInvalidQuery:     http.StatusBadRequest,
		model.ErrCodeInvalidParameter: http.StatusBadRequest,
		model.ErrCodeUnknownReport:    http.StatusNotFound,
		model.ErrCodeExportFailed:     http.StatusInternalServerError,
		model.ErrCodeStoreUnavailable: http.StatusInternalServerError,
	}

	if status, ok := statusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
