package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/activity"
	"github.com/emzola/bookmarket/internal/validator"
	"github.com/emzola/bookmarket/repository"
)

type books interface {
	CreateBook(ctx context.Context, actor *data.User, requestBody dto.CreateBookRequestBody) (*data.Book, error)
	GetBook(ctx context.Context, bookID int64) (*data.Book, error)
	ListBooks(ctx context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error)
	ListUserBooks(ctx context.Context, actor *data.User, qs dto.QsListUserBooks) ([]*data.Book, data.Metadata, error)
	UpdateBook(ctx context.Context, actor *data.User, bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error)
	UpdateBookStatus(ctx context.Context, actor *data.User, bookID int64, status string) (*data.Book, error)
	DeleteBook(ctx context.Context, actor *data.User, bookID int64) error
}

// CreateBook service lists a new book owned by actor.
func (s *service) CreateBook(ctx context.Context, actor *data.User, requestBody dto.CreateBookRequestBody) (*data.Book, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	book := &data.Book{
		UserID:      actor.ID,
		Title:       requestBody.Title,
		Author:      requestBody.Author,
		Description: requestBody.Description,
		Price:       requestBody.Price,
		Condition:   requestBody.Condition,
		Images:      []string{},
		Category:    requestBody.Category,
		Type:        requestBody.Type,
		Location:    requestBody.Location,
		Status:      data.BookAvailable,
	}
	book.NormalizePrice()
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	s.categories.DeleteAll()
	s.record(actor.ID, activity.BookCreated, book.ID, map[string]string{"title": book.Title})
	return book, nil
}

// GetBook service retrieves the details of a book.
func (s *service) GetBook(ctx context.Context, bookID int64) (*data.Book, error) {
	return s.getBook(ctx, bookID)
}

// ListBooks service retrieves a paginated list of books matching the browse filters.
func (s *service) ListBooks(ctx context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	data.ValidateFilters(v, qs.Filters)
	data.ValidateBookFilter(v, qs.Filter)
	if !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.ListBooks(ctx, qs.Filter, qs.Filters)
}

// ListUserBooks service retrieves a paginated list of the actor's listings.
func (s *service) ListUserBooks(ctx context.Context, actor *data.User, qs dto.QsListUserBooks) ([]*data.Book, data.Metadata, error) {
	if err := requireActor(actor); err != nil {
		return nil, data.Metadata{}, err
	}
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.ListBooksForUser(ctx, actor.ID, qs.Filters)
}

// UpdateBook service updates the details of a book. Only fields present in the
// request body change. A version in the body must match the stored one.
func (s *service) UpdateBook(ctx context.Context, actor *data.User, bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	book, err := s.getOwnedBook(ctx, actor, bookID)
	if err != nil {
		return nil, err
	}
	if requestBody.Version != nil && *requestBody.Version != book.Version {
		return nil, ErrEditConflict
	}
	// Update only fields with new data
	if requestBody.Title != nil {
		book.Title = *requestBody.Title
	}
	if requestBody.Author != nil {
		book.Author = *requestBody.Author
	}
	if requestBody.Description != nil {
		book.Description = *requestBody.Description
	}
	if requestBody.Price != nil {
		book.Price = *requestBody.Price
	}
	if requestBody.Condition != nil {
		book.Condition = *requestBody.Condition
	}
	if requestBody.Category != nil {
		book.Category = *requestBody.Category
	}
	if requestBody.Type != nil {
		book.Type = *requestBody.Type
	}
	if requestBody.Location != nil {
		book.Location = *requestBody.Location
	}
	book.NormalizePrice()
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	if err := s.updateBook(ctx, book); err != nil {
		return nil, err
	}
	s.categories.DeleteAll()
	s.record(actor.ID, activity.BookUpdated, book.ID, map[string]string{"title": book.Title})
	return book, nil
}

// UpdateBookStatus service moves a book to status on behalf of its owner. The
// move must be an owner event of the book lifecycle from the current status.
func (s *service) UpdateBookStatus(ctx context.Context, actor *data.User, bookID int64, status string) (*data.Book, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	v := validator.New()
	if data.ValidateBookStatus(v, status); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	event, ok := data.OwnerBookEvent(status)
	if !ok {
		return nil, failedField("status", "cannot be set by the owner")
	}
	book, err := s.getOwnedBook(ctx, actor, bookID)
	if err != nil {
		return nil, err
	}
	from := book.Status
	next, err := data.BookLifecycle.Fire(from, event)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	book.Status = next
	if err := s.updateBook(ctx, book); err != nil {
		return nil, err
	}
	s.record(actor.ID, activity.BookStatusChanged, book.ID, map[string]string{"from": from, "to": next})
	return book, nil
}

// DeleteBook service deletes a book. Its images are removed from object
// storage in the background.
func (s *service) DeleteBook(ctx context.Context, actor *data.User, bookID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	book, err := s.getOwnedBook(ctx, actor, bookID)
	if err != nil {
		return err
	}
	err = s.repo.DeleteBook(ctx, book.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	s.deleteImages(book.Images...)
	s.categories.DeleteAll()
	s.record(actor.ID, activity.BookDeleted, book.ID, map[string]string{"title": book.Title})
	return nil
}

func (s *service) updateBook(ctx context.Context, book *data.Book) error {
	err := s.repo.UpdateBook(ctx, book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}
