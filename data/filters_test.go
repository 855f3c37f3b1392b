package data

import (
	"testing"

	"github.com/emzola/bookmarket/internal/validator"
	"github.com/stretchr/testify/assert"
)

func TestFilters(t *testing.T) {
	f := Filters{Page: 3, PageSize: 20, Sort: "-price", SortSafeList: []string{"id", "price", "-price"}}

	v := validator.New()
	ValidateFilters(v, f)
	assert.True(t, v.Valid())
	assert.Equal(t, "price", f.SortColumn())
	assert.Equal(t, "DESC", f.SortDirection())
	assert.Equal(t, 20, f.Limit())
	assert.Equal(t, 40, f.Offset())

	f.Sort = "password_hash"
	assert.Panics(t, func() { f.SortColumn() })

	v = validator.New()
	ValidateFilters(v, Filters{Page: 0, PageSize: 500, Sort: "x"})
	assert.Contains(t, v.Errors, "page")
	assert.Contains(t, v.Errors, "page_size")
	assert.Contains(t, v.Errors, "sort")
}

func TestCalculateMetadata(t *testing.T) {
	assert.Equal(t, Metadata{}, CalculateMetadata(0, 1, 20))
	assert.Equal(t, Metadata{CurrentPage: 2, PageSize: 20, FirstPage: 1, LastPage: 3, TotalRecords: 41}, CalculateMetadata(41, 2, 20))
}
