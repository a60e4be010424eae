package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UncategorizedID / UncategorizedName: danh mục giả cho sách không có category
const (
	UncategorizedID   = "uncategorized"
	UncategorizedName = "Uncategorized"
)

// CategoryRef is the slice of a category that reports display.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Uncategorized returns the synthetic category used for books without one.
func Uncategorized() CategoryRef {
	return CategoryRef{ID: UncategorizedID, Name: UncategorizedName}
}

// BookSummary is the join target used to name and categorize report rows.
// A book may belong to several categories.
type BookSummary struct {
	ID         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	CoverURL   *string         `json:"cover_url,omitempty"`
	AuthorName string          `json:"author_name,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Categories []CategoryRef   `json:"categories"`
}

// CategoriesOrUncategorized returns the book's categories, falling back to
// the synthetic Uncategorized one when the book has none.
func (b *BookSummary) CategoriesOrUncategorized() []CategoryRef {
	if b == nil || len(b.Categories) == 0 {
		return []CategoryRef{Uncategorized()}
	}
	return b.Categories
}
