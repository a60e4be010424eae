package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"bookstore-reporting/internal/domains/book/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a catalog reader backed by PostgreSQL
func NewPostgresRepository(pool *pgxpool.Pool) CatalogReader {
	return &postgresRepository{pool: pool}
}

// FindSummariesByIDs loads books with author and every category the book
// belongs to, either through books.category_id or the book_categories table.
func (r *postgresRepository) FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.BookSummary, error) {
	result := make(map[uuid.UUID]*model.BookSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	params := make([]string, 0, len(ids))
	for _, id := range ids {
		params = append(params, id.String())
	}

	query := `
		SELECT
			b.id, b.title, b.slug, b.cover_url, b.price,
			COALESCE(a.name, '') AS author_name,
			COALESCE(array_agg(c.id::text ORDER BY c.name) FILTER (WHERE c.id IS NOT NULL), '{}') AS category_ids,
			COALESCE(array_agg(c.name ORDER BY c.name) FILTER (WHERE c.id IS NOT NULL), '{}') AS category_names,
			COALESCE(array_agg(c.slug ORDER BY c.name) FILTER (WHERE c.id IS NOT NULL), '{}') AS category_slugs
		FROM books b
		LEFT JOIN authors a ON a.id = b.author_id
		LEFT JOIN LATERAL (
			SELECT b.category_id AS category_id WHERE b.category_id IS NOT NULL
			UNION
			SELECT bc.category_id FROM book_categories bc WHERE bc.book_id = b.id
		) bcat ON true
		LEFT JOIN categories c ON c.id = bcat.category_id
		WHERE b.id = ANY($1::uuid[])
		GROUP BY b.id, a.name
	`

	rows, err := r.pool.Query(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: query books: %v", model.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b        model.BookSummary
			catIDs   pq.StringArray
			catNames pq.StringArray
			catSlugs pq.StringArray
		)
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Slug,
			&b.CoverURL,
			&b.Price,
			&b.AuthorName,
			&catIDs,
			&catNames,
			&catSlugs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book summary: %w", err)
		}

		b.Categories = make([]model.CategoryRef, 0, len(catIDs))
		for i := range catIDs {
			ref := model.CategoryRef{ID: catIDs[i]}
			if i < len(catNames) {
				ref.Name = catNames[i]
			}
			if i < len(catSlugs) {
				ref.Slug = catSlugs[i]
			}
			b.Categories = append(b.Categories, ref)
		}

		book := b
		result[book.ID] = &book
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate books: %v", model.ErrCatalogUnavailable, err)
	}

	return result, nil
}
