package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/emzola/bookmarket/data"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{name: "nil", err: nil},
		{name: "serialization failure", err: &pq.Error{Code: codeSerializationFailure}, transient: true},
		{name: "deadlock", err: &pq.Error{Code: codeDeadlockDetected}, transient: true},
		{name: "wrapped deadlock", err: fmt.Errorf("update: %w", &pq.Error{Code: codeDeadlockDetected}), transient: true},
		{name: "unique violation", err: &pq.Error{Code: codeUniqueViolation}},
		{name: "plain error", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.transient, errors.Is(got, ErrTransientConflict))
			if !tt.transient {
				assert.Same(t, tt.err, got)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: codeUniqueViolation}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: codeUniqueViolation})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: codeSerializationFailure}))
	assert.False(t, isUniqueViolation(errors.New("duplicate key")))
}

func browseFilters(sort string) data.Filters {
	return data.Filters{
		Page:         2,
		PageSize:     20,
		Sort:         sort,
		SortSafeList: []string{"id", "title", "price", "created_at", "-id", "-title", "-price", "-created_at"},
	}
}

func TestBrowseBooksQuery_NoFilter(t *testing.T) {
	query, _, err := browseBooksQuery(data.BookFilter{}, 0, browseFilters("-created_at"))
	require.NoError(t, err)
	assert.Contains(t, query, "count(*) OVER()")
	assert.Contains(t, query, `FROM "books"`)
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, `ORDER BY "created_at" DESC, "id" ASC`)
	assert.Contains(t, query, "LIMIT")
	assert.Contains(t, query, "OFFSET")
}

func TestBrowseBooksQuery_Filters(t *testing.T) {
	minPrice, maxPrice := 5.0, 50.0
	filter := data.BookFilter{
		Search:   "organic chemistry",
		Level:    "university",
		Faculty:  "Sciences",
		Year:     2,
		Type:     data.TypeSell,
		Status:   data.BookAvailable,
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}
	query, args, err := browseBooksQuery(filter, 0, browseFilters("price"))
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE")
	assert.Contains(t, query, "plainto_tsquery('simple', $")
	assert.Contains(t, query, `"level" = $`)
	assert.Contains(t, query, `"faculty" ILIKE $`)
	assert.Contains(t, query, `"year" = $`)
	assert.Contains(t, query, `"type" = $`)
	assert.Contains(t, query, `"status" = $`)
	assert.Contains(t, query, `"price" >= $`)
	assert.Contains(t, query, `"price" <= $`)
	assert.NotContains(t, query, `"class" = $`)
	assert.NotContains(t, query, "organic chemistry")
	assert.Contains(t, query, `ORDER BY "price" ASC, "id" ASC`)
	assert.Contains(t, args, "organic chemistry")
	assert.Contains(t, args, "university")
	assert.Contains(t, args, minPrice)
	assert.Contains(t, args, maxPrice)
}

func TestBrowseBooksQuery_Owner(t *testing.T) {
	query, args, err := browseBooksQuery(data.BookFilter{}, 42, browseFilters("id"))
	require.NoError(t, err)
	assert.Contains(t, query, `"user_id" = $`)
	assert.Contains(t, args, int64(42))
}
