package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookBody() dto.CreateBookRequestBody {
	return dto.CreateBookRequestBody{
		Title:     "Principles of Economics",
		Author:    "N. Gregory Mankiw",
		Price:     3000,
		Condition: data.ConditionLikeNew,
		Category:  data.Category{Level: "university", Faculty: "Social Sciences", Year: 2},
		Type:      data.TypeSell,
		Location:  data.Location{Address: "Nsukka"},
	}
}

func TestCreateBook(t *testing.T) {
	f := newFixture(t)

	book, err := f.svc.CreateBook(ctx, f.owner, validBookBody())
	require.NoError(t, err)
	f.wait()

	assert.NotZero(t, book.ID)
	assert.Equal(t, f.owner.ID, book.UserID)
	assert.Equal(t, data.BookAvailable, book.Status)
	assert.Equal(t, []string{}, book.Images)
	assert.Equal(t, []string{activity.BookCreated}, f.recorder.Actions(f.owner.ID))
}

func TestCreateBook_PriceZeroedUnlessSelling(t *testing.T) {
	f := newFixture(t)
	for _, typ := range []string{data.TypeFree, data.TypeExchange} {
		body := validBookBody()
		body.Type = typ
		book, err := f.svc.CreateBook(ctx, f.owner, body)
		require.NoError(t, err, typ)
		assert.Zero(t, book.Price, typ)
	}
	f.wait()
}

func TestCreateBook_Validation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		mutate func(*dto.CreateBookRequestBody)
		field  string
	}{
		{name: "missing title", mutate: func(b *dto.CreateBookRequestBody) { b.Title = "" }, field: "title"},
		{name: "unknown condition", mutate: func(b *dto.CreateBookRequestBody) { b.Condition = "mint" }, field: "condition"},
		{name: "unknown type", mutate: func(b *dto.CreateBookRequestBody) { b.Type = "Rent" }, field: "type"},
		{name: "free sale", mutate: func(b *dto.CreateBookRequestBody) { b.Price = 0 }, field: "price"},
		{name: "unknown level", mutate: func(b *dto.CreateBookRequestBody) { b.Category.Level = "kindergarten" }, field: "category.level"},
		{name: "year out of range", mutate: func(b *dto.CreateBookRequestBody) { b.Category.Year = 9 }, field: "category.year"},
		{name: "school without class", mutate: func(b *dto.CreateBookRequestBody) { b.Category = data.Category{Level: "school"} }, field: "category.class"},
		{name: "missing address", mutate: func(b *dto.CreateBookRequestBody) { b.Location.Address = "" }, field: "location.address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBookBody()
			tt.mutate(&body)
			_, err := f.svc.CreateBook(ctx, f.owner, body)
			require.ErrorIs(t, err, ErrFailedValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Errors, tt.field)
		})
	}
	assert.Equal(t, 0, f.repo.Calls("CreateBook"))
}

func TestCreateBook_Anonymous(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateBook(ctx, data.AnonymousUser, validBookBody())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestUpdateBook(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(f.owner)
	title := "Advanced Engineering Mathematics"
	free := data.TypeFree

	updated, err := f.svc.UpdateBook(ctx, f.owner, book.ID, dto.UpdateBookRequestBody{Title: &title, Type: &free})
	require.NoError(t, err)
	f.wait()
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, book.Author, updated.Author)
	assert.Zero(t, updated.Price)
	assert.Equal(t, book.Version+1, updated.Version)

	stale := book.Version
	_, err = f.svc.UpdateBook(ctx, f.owner, book.ID, dto.UpdateBookRequestBody{Title: &title, Version: &stale})
	assert.ErrorIs(t, err, ErrEditConflict)

	_, err = f.svc.UpdateBook(ctx, f.alice, book.ID, dto.UpdateBookRequestBody{Title: &title})
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, err = f.svc.UpdateBook(ctx, f.owner, 9999, dto.UpdateBookRequestBody{Title: &title})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateBookStatus(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		to     string
		want   error
		status string
	}{
		{name: "mark requested", from: data.BookAvailable, to: data.BookRequested, status: data.BookRequested},
		{name: "release requested", from: data.BookRequested, to: data.BookAvailable, status: data.BookAvailable},
		{name: "release reserved", from: data.BookReserved, to: data.BookAvailable, want: ErrInvalidTransition},
		{name: "sell reserved", from: data.BookReserved, to: data.BookSold, status: data.BookSold},
		{name: "exchange reserved", from: data.BookReserved, to: data.BookExchanged, status: data.BookExchanged},
		{name: "sell available", from: data.BookAvailable, to: data.BookSold, want: ErrInvalidTransition},
		{name: "reopen sold", from: data.BookSold, to: data.BookAvailable, want: ErrInvalidTransition},
		{name: "reserve directly", from: data.BookAvailable, to: data.BookReserved, want: ErrFailedValidation},
		{name: "unknown status", from: data.BookAvailable, to: "lost", want: ErrFailedValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			book := f.addBook(f.owner, func(b *data.Book) { b.Status = tt.from })

			got, err := f.svc.UpdateBookStatus(ctx, f.owner, book.ID, tt.to)
			f.wait()
			stored, _ := f.repo.Book(book.ID)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, tt.from, stored.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.status, stored.Status)
			assert.Equal(t, []string{activity.BookStatusChanged}, f.recorder.Actions(f.owner.ID))
		})
	}
}

func TestUpdateBookStatus_AcceptedRequestKeepsBookReserved(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(f.owner)
	f.request(t, f.alice, book)
	_, err := f.svc.UpdateBookRequestStatus(ctx, f.owner, book.ID, f.alice.ID, data.RequestAccepted)
	require.NoError(t, err)

	_, err = f.svc.UpdateBookStatus(ctx, f.owner, book.ID, data.BookAvailable)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.CreateBookRequest(ctx, f.bob, book.ID)
	assert.ErrorIs(t, err, ErrBookUnavailable)
	_, err = f.svc.UpdateBookRequestStatus(ctx, f.owner, book.ID, f.bob.ID, data.RequestAccepted)
	assert.ErrorIs(t, err, ErrRequestNotFound)
	f.wait()

	accepted := 0
	for _, req := range f.repo.Requests() {
		if req.BookID == book.ID && req.Status == data.RequestAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
	stored, _ := f.repo.Book(book.ID)
	assert.Equal(t, data.BookReserved, stored.Status)
}

func TestUpdateBookStatus_NotOwner(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(f.owner)
	_, err := f.svc.UpdateBookStatus(ctx, f.alice, book.ID, data.BookRequested)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestDeleteBook(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(f.owner)
	f.request(t, f.alice, book)

	require.ErrorIs(t, f.svc.DeleteBook(ctx, f.alice, book.ID), ErrNotPermitted)
	require.NoError(t, f.svc.DeleteBook(ctx, f.owner, book.ID))
	f.wait()

	_, ok := f.repo.Book(book.ID)
	assert.False(t, ok)
	_, ok = f.repo.Request(book.ID, f.alice.ID)
	assert.False(t, ok, "requests are removed with their book")
	assert.Equal(t, []string{"books/1/cover.jpg"}, f.store.deleted)

	assert.ErrorIs(t, f.svc.DeleteBook(ctx, f.owner, book.ID), ErrRecordNotFound)
}

func TestListBooks(t *testing.T) {
	f := newFixture(t)
	f.addBook(f.owner)
	f.addBook(f.owner, func(b *data.Book) {
		b.Title = "Further Mathematics"
		b.Category = data.Category{Level: "school", Class: 10}
	})
	f.addBook(f.alice, func(b *data.Book) { b.Type = data.TypeFree; b.Price = 0 })

	filters := data.Filters{Page: 1, PageSize: 20, Sort: "id", SortSafeList: []string{"id"}}

	all, metadata, err := f.svc.ListBooks(ctx, dto.QsListBooks{Filters: filters})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 3, metadata.TotalRecords)

	school, _, err := f.svc.ListBooks(ctx, dto.QsListBooks{Filter: data.BookFilter{Level: "school"}, Filters: filters})
	require.NoError(t, err)
	require.Len(t, school, 1)
	assert.Equal(t, "Further Mathematics", school[0].Title)

	maxPrice := 0.0
	free, _, err := f.svc.ListBooks(ctx, dto.QsListBooks{Filter: data.BookFilter{MaxPrice: &maxPrice}, Filters: filters})
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, f.alice.ID, free[0].UserID)

	_, _, err = f.svc.ListBooks(ctx, dto.QsListBooks{Filter: data.BookFilter{Type: "Rent"}, Filters: filters})
	assert.ErrorIs(t, err, ErrFailedValidation)

	mine, _, err := f.svc.ListUserBooks(ctx, f.owner, dto.QsListUserBooks{Filters: filters})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func pngImage(size int) []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, size)...)
}

func TestAddBookImage(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(f.owner)

	updated, err := f.svc.AddBookImage(ctx, f.owner, book.ID, bytes.NewReader(pngImage(64)))
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)

	url := updated.Images[1]
	key, ok := f.store.KeyFromURL(url)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(key, "books/1/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Contains(t, f.store.objects, key)

	stored, _ := f.repo.Book(book.ID)
	assert.Equal(t, updated.Images, stored.Images)
}

func TestAddBookImage_Rejections(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(f.owner)
	full := f.addBook(f.owner, func(b *data.Book) {
		b.Images = []string{"a", "b", "c", "d", "e", "f"}
	})

	_, err := f.svc.AddBookImage(ctx, f.owner, book.ID, strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	_, err = f.svc.AddBookImage(ctx, f.owner, book.ID, bytes.NewReader(pngImage(data.MaxImageSize)))
	assert.ErrorIs(t, err, ErrContentTooLarge)

	_, err = f.svc.AddBookImage(ctx, f.owner, full.ID, bytes.NewReader(pngImage(64)))
	assert.ErrorIs(t, err, ErrTooManyImages)

	_, err = f.svc.AddBookImage(ctx, f.alice, book.ID, bytes.NewReader(pngImage(64)))
	assert.ErrorIs(t, err, ErrNotPermitted)

	assert.Empty(t, f.store.objects)
}

func TestDeleteBookImage(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(f.owner)
	url := book.Images[0]

	_, err := f.svc.DeleteBookImage(ctx, f.owner, book.ID, storeURL+"books/1/missing.jpg")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	updated, err := f.svc.DeleteBookImage(ctx, f.owner, book.ID, url)
	require.NoError(t, err)
	f.wait()
	assert.Empty(t, updated.Images)
	assert.Equal(t, []string{"books/1/cover.jpg"}, f.store.deleted)
}

func TestListCategories_Cached(t *testing.T) {
	f := newFixture(t)
	f.addBook(f.owner)
	f.addBook(f.owner, func(b *data.Book) { b.Category = data.Category{Level: "school", Class: 3} })

	summary, err := f.svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, summary, len(data.Taxonomy.Levels))
	counts := map[string]int64{}
	for _, s := range summary {
		counts[s.Name] = s.BooksCount
	}
	assert.Equal(t, map[string]int64{"school": 1, "college": 0, "university": 1}, counts)

	_, err = f.svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.Calls("CountBooksByLevel"))

	_, err = f.svc.CreateBook(ctx, f.owner, validBookBody())
	require.NoError(t, err)
	summary, err = f.svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.Calls("CountBooksByLevel"))
	for _, s := range summary {
		if s.Name == "university" {
			assert.EqualValues(t, 2, s.BooksCount)
		}
	}
	f.wait()
}
