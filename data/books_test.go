package data

import (
	"testing"

	"github.com/emzola/bookmarket/internal/validator"
	"github.com/stretchr/testify/assert"
)

func validBook() *Book {
	return &Book{
		Title:     "Engineering Mathematics",
		Author:    "K. A. Stroud",
		Condition: ConditionGood,
		Type:      TypeSell,
		Price:     4500,
		Status:    BookAvailable,
		Images:    []string{"https://cdn.example.com/books/1/a.jpg"},
		Category:  Category{Level: "university", Faculty: "Engineering", Year: 2},
		Location:  Location{Address: "Yaba, Lagos"},
	}
}

func TestNormalizePrice(t *testing.T) {
	for _, typ := range BookTypes {
		b := validBook()
		b.Type = typ
		b.Price = 1200
		b.NormalizePrice()
		if typ == TypeSell {
			assert.Equal(t, 1200.0, b.Price)
		} else {
			assert.Zero(t, b.Price, typ)
		}
	}
}

func TestValidateBook(t *testing.T) {
	lat, lng := 6.5, 3.37
	badLat := 123.0

	tests := []struct {
		name    string
		mutate  func(b *Book)
		wantKey string
	}{
		{name: "valid", mutate: func(b *Book) {}},
		{name: "free with coordinates", mutate: func(b *Book) {
			b.Type, b.Price = TypeFree, 0
			b.Location.Latitude, b.Location.Longitude = &lat, &lng
		}},
		{name: "missing title", mutate: func(b *Book) { b.Title = "" }, wantKey: "title"},
		{name: "missing author", mutate: func(b *Book) { b.Author = "" }, wantKey: "author"},
		{name: "unknown condition", mutate: func(b *Book) { b.Condition = "mint" }, wantKey: "condition"},
		{name: "unknown type", mutate: func(b *Book) { b.Type = "Rent" }, wantKey: "type"},
		{name: "sell without price", mutate: func(b *Book) { b.Price = 0 }, wantKey: "price"},
		{name: "exchange with price", mutate: func(b *Book) { b.Type = TypeExchange }, wantKey: "price"},
		{name: "negative price", mutate: func(b *Book) { b.Price = -1 }, wantKey: "price"},
		{name: "unknown status", mutate: func(b *Book) { b.Status = "lost" }, wantKey: "status"},
		{name: "too many images", mutate: func(b *Book) {
			b.Images = []string{"1", "2", "3", "4", "5", "6", "7"}
		}, wantKey: "images"},
		{name: "duplicate images", mutate: func(b *Book) { b.Images = []string{"a", "a"} }, wantKey: "images"},
		{name: "missing address", mutate: func(b *Book) { b.Location.Address = "" }, wantKey: "location.address"},
		{name: "lone latitude", mutate: func(b *Book) { b.Location.Latitude = &lat }, wantKey: "location"},
		{name: "bad latitude", mutate: func(b *Book) {
			b.Location.Latitude, b.Location.Longitude = &badLat, &lng
		}, wantKey: "location.latitude"},
		{name: "bad category", mutate: func(b *Book) { b.Category = Category{Level: "school"} }, wantKey: "category.class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBook()
			tt.mutate(b)
			v := validator.New()
			ValidateBook(v, b)
			if tt.wantKey == "" {
				assert.True(t, v.Valid(), v.Errors)
				return
			}
			assert.Contains(t, v.Errors, tt.wantKey)
		})
	}
}

func TestRequestable(t *testing.T) {
	b := validBook()
	for _, status := range BookStatuses {
		b.Status = status
		want := status == BookAvailable || status == BookRequested
		assert.Equal(t, want, b.Requestable(), status)
	}
}

func TestValidateBookFilter(t *testing.T) {
	lo, hi := 500.0, 100.0

	v := validator.New()
	ValidateBookFilter(v, BookFilter{Level: "school", Type: TypeFree, Status: BookAvailable})
	assert.True(t, v.Valid())

	v = validator.New()
	ValidateBookFilter(v, BookFilter{Level: "nursery", Type: "Rent", Status: "gone", MinPrice: &lo, MaxPrice: &hi})
	assert.Contains(t, v.Errors, "level")
	assert.Contains(t, v.Errors, "type")
	assert.Contains(t, v.Errors, "status")
	assert.Contains(t, v.Errors, "max_price")
}
