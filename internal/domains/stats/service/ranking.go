package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookmodel "bookstore-reporting/internal/domains/book/model"
	ordermodel "bookstore-reporting/internal/domains/order/model"
	"bookstore-reporting/internal/domains/stats/model"
	"bookstore-reporting/internal/domains/stats/period"
)

// =====================================================
// TOP PRODUCTS
// =====================================================

// ProductTotal is the quantity and revenue sold of one book.
type ProductTotal struct {
	BookID   uuid.UUID
	Quantity int64
	Revenue  decimal.Decimal
}

// RankProducts groups line items by book and ranks them by quantity, then
// revenue, then book id. Books without sales never appear. limit <= 0
// keeps every book.
func RankProducts(orders []ordermodel.Order, limit int) []ProductTotal {
	index := make(map[uuid.UUID]int)
	totals := make([]ProductTotal, 0)

	for i := range orders {
		for j := range orders[i].Items {
			item := &orders[i].Items[j]
			k, ok := index[item.BookID]
			if !ok {
				k = len(totals)
				index[item.BookID] = k
				totals = append(totals, ProductTotal{BookID: item.BookID, Revenue: decimal.Zero})
			}
			totals[k].Quantity += int64(item.Quantity)
			totals[k].Revenue = totals[k].Revenue.Add(item.Revenue())
		}
	}

	sort.Slice(totals, func(a, b int) bool {
		if totals[a].Quantity != totals[b].Quantity {
			return totals[a].Quantity > totals[b].Quantity
		}
		if c := totals[a].Revenue.Cmp(totals[b].Revenue); c != 0 {
			return c > 0
		}
		return totals[a].BookID.String() < totals[b].BookID.String()
	})

	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}

// JoinProducts attaches book and category metadata to ranked totals.
// A book missing from the catalog keeps a nil Book and the Uncategorized
// category.
func JoinProducts(ranked []ProductTotal, catalog map[uuid.UUID]*bookmodel.BookSummary) []model.TopProductItem {
	items := make([]model.TopProductItem, 0, len(ranked))
	for _, r := range ranked {
		book := catalog[r.BookID]

		item := model.TopProductItem{
			BookID:     r.BookID,
			Quantity:   r.Quantity,
			Revenue:    r.Revenue,
			Categories: toCategoryInfo(book.CategoriesOrUncategorized()),
		}
		if book != nil {
			item.Book = &model.BookInfo{
				ID:         book.ID,
				Title:      book.Title,
				Slug:       book.Slug,
				CoverURL:   book.CoverURL,
				AuthorName: book.AuthorName,
				Price:      book.Price,
			}
		}
		items = append(items, item)
	}
	return items
}

// RankedBookIDs returns the book ids of ranked totals in rank order.
func RankedBookIDs(ranked []ProductTotal) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.BookID)
	}
	return ids
}

// =====================================================
// CATEGORY BREAKDOWN
// =====================================================

// BuildBreakdown groups line items by (period, category) and sums quantity
// and revenue. A book in several categories counts fully in each of them.
// Only periods with sales are returned, sorted by start; categories inside
// a period are sorted by quantity, then revenue, then name.
func BuildBreakdown(orders []ordermodel.Order, catalog map[uuid.UUID]*bookmodel.BookSummary, g period.Granularity, loc *time.Location) []model.BreakdownPeriod {
	type bucket struct {
		period     period.Period
		index      map[string]int
		categories []model.CategoryRow
	}

	buckets := make(map[string]*bucket)

	for _, b := range AssignBuckets(orders, g, loc) {
		if len(b.Order.Items) == 0 {
			continue
		}

		bk, ok := buckets[b.Period.Key]
		if !ok {
			bk = &bucket{period: b.Period, index: make(map[string]int)}
			buckets[b.Period.Key] = bk
		}

		for j := range b.Order.Items {
			item := &b.Order.Items[j]
			revenue := item.Revenue()

			for _, cat := range catalog[item.BookID].CategoriesOrUncategorized() {
				k, ok := bk.index[cat.ID]
				if !ok {
					k = len(bk.categories)
					bk.index[cat.ID] = k
					bk.categories = append(bk.categories, model.CategoryRow{
						CategoryID:   cat.ID,
						CategoryName: cat.Name,
						Revenue:      decimal.Zero,
					})
				}
				bk.categories[k].Quantity += int64(item.Quantity)
				bk.categories[k].Revenue = bk.categories[k].Revenue.Add(revenue)
			}
		}
	}

	out := make([]model.BreakdownPeriod, 0, len(buckets))
	for _, bk := range buckets {
		cats := bk.categories
		sort.Slice(cats, func(a, b int) bool {
			if cats[a].Quantity != cats[b].Quantity {
				return cats[a].Quantity > cats[b].Quantity
			}
			if c := cats[a].Revenue.Cmp(cats[b].Revenue); c != 0 {
				return c > 0
			}
			if cats[a].CategoryName != cats[b].CategoryName {
				return cats[a].CategoryName < cats[b].CategoryName
			}
			return cats[a].CategoryID < cats[b].CategoryID
		})

		out = append(out, model.BreakdownPeriod{
			Period: model.BreakdownPeriodInfo{
				Key:   bk.period.Key,
				Start: bk.period.Start,
				Label: bk.period.Label,
			},
			Categories: cats,
		})
	}

	sort.Slice(out, func(a, b int) bool {
		return out[a].Period.Start.Before(out[b].Period.Start)
	})
	return out
}

// DistinctBookIDs returns every book id sold in orders, in first-seen order.
func DistinctBookIDs(orders []ordermodel.Order) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range orders {
		for _, item := range orders[i].Items {
			if _, ok := seen[item.BookID]; ok {
				continue
			}
			seen[item.BookID] = struct{}{}
			ids = append(ids, item.BookID)
		}
	}
	return ids
}

func toCategoryInfo(refs []bookmodel.CategoryRef) []model.CategoryInfo {
	out := make([]model.CategoryInfo, 0, len(refs))
	for _, r := range refs {
		out = append(out, model.CategoryInfo{ID: r.ID, Name: r.Name, Slug: r.Slug})
	}
	return out
}
