package service

import (
	"context"

	"github.com/emzola/bookmarket/data"
	"github.com/jellydator/ttlcache/v3"
)

type categories interface {
	ListCategories(ctx context.Context) ([]data.CategorySummary, error)
}

const categorySummaryKey = "summary"

// ListCategories service returns the taxonomy with the number of listings per
// level. The result is cached until a listing changes or the TTL expires.
func (s *service) ListCategories(ctx context.Context) ([]data.CategorySummary, error) {
	if item := s.categories.Get(categorySummaryKey); item != nil {
		return item.Value(), nil
	}
	counts, err := s.repo.CountBooksByLevel(ctx)
	if err != nil {
		return nil, err
	}
	byLevel := make(map[string]int64, len(counts))
	for _, c := range counts {
		byLevel[c.Level] = c.BooksCount
	}
	summary := make([]data.CategorySummary, 0, len(data.Taxonomy.Levels))
	for _, level := range data.Taxonomy.Levels {
		summary = append(summary, data.CategorySummary{Level: level, BooksCount: byLevel[level.Name]})
	}
	s.categories.Set(categorySummaryKey, summary, ttlcache.DefaultTTL)
	return summary, nil
}
