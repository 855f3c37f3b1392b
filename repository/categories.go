package repository

import (
	"context"
	"time"

	"github.com/emzola/bookmarket/data"
)

type categories interface {
	CountBooksByLevel(ctx context.Context) ([]data.CategoryCount, error)
}

// CountBooksByLevel counts listings per taxonomy level. Levels without
// listings are absent from the result.
func (r *repository) CountBooksByLevel(ctx context.Context) ([]data.CategoryCount, error) {
	query := `
		SELECT level, count(*) AS books_count
		FROM books
		GROUP BY level
		ORDER BY level ASC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	counts := []data.CategoryCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, err
	}
	return counts, nil
}
