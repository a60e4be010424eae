package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bookstore-reporting/internal/domains/stats/model"
)

// ContentType của file .xlsx
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04:05"

var ErrUnsupportedReport = errors.New("report cannot be exported")

// sheet là một bảng: header ở row 1, data từ row 2
type sheet struct {
	name    string
	headers []string
	rows    [][]interface{}
}

// Workbook builds an Excel file from one of the stats report responses.
// Money columns are written as numbers (InexactFloat64).
func Workbook(report interface{}) (*excelize.File, error) {
	var sheets []sheet

	switch r := report.(type) {
	case *model.OverviewResponse:
		sheets = []sheet{overviewSheet(r), topProductsSheet(r.TopProducts)}
	case *model.TimeSeriesResponse:
		sheets = []sheet{timeSeriesSheet(r)}
	case *model.TopProductsResponse:
		sheets = []sheet{topProductsSheet(r.Items)}
	case *model.ProductBreakdownResponse:
		sheets = []sheet{breakdownSheet(r)}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedReport, report)
	}

	return build(sheets)
}

// FileName gợi ý tên file: <report>_<from>_<to>.xlsx
func FileName(report string, rng model.DateRange) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", report, rng.From.UTC().Format("20060102"), rng.To.UTC().Format("20060102"))
}

func build(sheets []sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			// rename default sheet
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}

		headers := sh.headers
		if err := f.SetSheetRow(sh.name, "A1", &headers); err != nil {
			return nil, err
		}
		lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sh.name, "A1", lastHeader, headerStyle); err != nil {
			return nil, err
		}

		for j := range sh.rows {
			cell, _ := excelize.CoordinatesToCellName(1, j+2)
			if err := f.SetSheetRow(sh.name, cell, &sh.rows[j]); err != nil {
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// =====================================================
// SHEETS
// =====================================================

func overviewSheet(r *model.OverviewResponse) sheet {
	t := r.Totals
	return sheet{
		name:    "Overview",
		headers: []string{"Metric", "Value"},
		rows: [][]interface{}{
			{"From", formatTime(r.Range.From)},
			{"To", formatTime(r.Range.To)},
			{"Total Users", t.TotalUsers},
			{"New Users", t.NewUsers},
			{"Orders", t.Orders},
			{"Gross Sales", money(t.GrossSales)},
			{"Discounts", money(t.Discounts)},
			{"Net Sales", money(t.NetSales)},
			{"Shipping Revenue", money(t.ShippingRevenue)},
			{"Products Sold", t.ProductsSold},
			{"Profit", money(t.Profit)},
			{"Profit Mode", r.ProfitMode},
			{"Profit Supported", r.ProfitSupported},
		},
	}
}

func timeSeriesSheet(r *model.TimeSeriesResponse) sheet {
	sh := sheet{
		name: "Time Series",
		headers: []string{
			"Period", "Label", "Start", "End",
			"Orders", "Gross Sales", "Discounts", "Net Sales", "Shipping Revenue", "Products Sold",
		},
	}
	for _, e := range r.Series {
		m := e.Metrics
		sh.rows = append(sh.rows, []interface{}{
			e.Key, e.Period.Label, formatTime(e.Period.Start), formatTime(e.Period.End),
			m.Orders, money(m.GrossSales), money(m.Discounts), money(m.NetSales), money(m.ShippingRevenue), m.ProductsSold,
		})
	}
	return sh
}

func topProductsSheet(items []model.TopProductItem) sheet {
	sh := sheet{
		name:    "Top Products",
		headers: []string{"Rank", "Book ID", "Title", "Author", "Categories", "Quantity", "Revenue"},
	}
	for i, it := range items {
		var title, author string
		if it.Book != nil {
			title, author = it.Book.Title, it.Book.AuthorName
		}
		names := make([]string, 0, len(it.Categories))
		for _, c := range it.Categories {
			names = append(names, c.Name)
		}
		sh.rows = append(sh.rows, []interface{}{
			i + 1, it.BookID.String(), title, author, strings.Join(names, ", "), it.Quantity, money(it.Revenue),
		})
	}
	return sh
}

func breakdownSheet(r *model.ProductBreakdownResponse) sheet {
	sh := sheet{
		name:    "Product Breakdown",
		headers: []string{"Period", "Label", "Start", "Category ID", "Category", "Quantity", "Revenue"},
	}
	for _, p := range r.Periods {
		for _, c := range p.Categories {
			sh.rows = append(sh.rows, []interface{}{
				p.Period.Key, p.Period.Label, formatTime(p.Period.Start), c.CategoryID, c.CategoryName, c.Quantity, money(c.Revenue),
			})
		}
	}
	return sh
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
