package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/activity"
	"github.com/emzola/bookmarket/internal/retry"
	"github.com/emzola/bookmarket/internal/validator"
	"github.com/emzola/bookmarket/repository"
)

type bookRequests interface {
	CreateBookRequest(ctx context.Context, actor *data.User, bookID int64) (*data.BookRequest, error)
	UpdateBookRequestStatus(ctx context.Context, actor *data.User, bookID, customerID int64, status string) (*data.BookRequest, error)
	CancelBookRequest(ctx context.Context, actor *data.User, bookID int64) error
	ListBookRequests(ctx context.Context, actor *data.User, bookID int64, qs dto.QsListRequests) ([]*data.BookRequest, data.Metadata, error)
	ListSentBookRequests(ctx context.Context, actor *data.User, qs dto.QsListRequests) ([]*data.BookRequest, data.Metadata, error)
	ListReceivedBookRequests(ctx context.Context, actor *data.User, qs dto.QsListRequests) ([]*data.BookRequest, data.Metadata, error)
}

// CreateBookRequest service records actor's request for a book. The request
// snapshots the book and the contact details of both parties. The book is
// checked and the request inserted under the book's row lock, so a request
// cannot land on a book that a concurrent accept has just reserved.
func (s *service) CreateBookRequest(ctx context.Context, actor *data.User, bookID int64) (*data.BookRequest, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	book, err := s.getBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := checkRequestable(book, actor); err != nil {
		return nil, err
	}
	_, err = s.repo.GetActiveBookRequest(ctx, book.ID, actor.ID)
	switch {
	case err == nil:
		return nil, ErrAlreadyRequested
	case !errors.Is(err, repository.ErrRecordNotFound):
		return nil, err
	}
	owner, err := s.repo.GetUserByID(ctx, book.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	var request *data.BookRequest
	_, err = retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(tx repository.Tx) error {
			locked, err := tx.GetBookForUpdate(ctx, bookID)
			if err != nil {
				switch {
				case errors.Is(err, repository.ErrRecordNotFound):
					return ErrRecordNotFound
				default:
					return err
				}
			}
			if err := checkRequestable(locked, actor); err != nil {
				return err
			}
			book = locked
			request = data.NewBookRequest(locked, owner, actor)
			err = tx.CreateBookRequest(ctx, request)
			if err != nil {
				switch {
				case errors.Is(err, repository.ErrDuplicateRecord):
					return ErrAlreadyRequested
				default:
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTransientConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	s.notify(owner.Email, "request_created.tmpl", map[string]string{
		"ownerName":     firstName(owner.Name),
		"customerName":  actor.Name,
		"customerEmail": actor.Email,
		"customerPhone": actor.Phone,
		"bookTitle":     book.Title,
	})
	s.record(actor.ID, activity.RequestCreated, book.ID, map[string]string{"title": book.Title})
	return request, nil
}

// checkRequestable reports whether actor may request book in its current state.
func checkRequestable(book *data.Book, actor *data.User) error {
	if book.UserID == actor.ID {
		return ErrOwnBook
	}
	if !book.Requestable() {
		return ErrBookUnavailable
	}
	return nil
}

// UpdateBookRequestStatus service lets the book owner accept or reject the
// request customerID made for the book.
func (s *service) UpdateBookRequestStatus(ctx context.Context, actor *data.User, bookID, customerID int64, status string) (*data.BookRequest, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	v := validator.New()
	if data.ValidateRequestDecision(v, status); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	event, _ := data.DecisionEvent(status)
	to, err := data.RequestLifecycle.Fire(data.RequestPending, event)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	var request *data.BookRequest
	switch event {
	case data.EventAccept:
		request, err = s.acceptBookRequest(ctx, actor, bookID, customerID, to)
	default:
		request, err = s.rejectBookRequest(ctx, actor, bookID, customerID, to)
	}
	if err != nil {
		return nil, err
	}
	s.notify(request.CustomerEmail, "request_decided.tmpl", map[string]string{
		"customerName": firstName(request.CustomerName),
		"ownerName":    request.OwnerName,
		"ownerEmail":   request.OwnerEmail,
		"ownerPhone":   request.OwnerPhone,
		"bookTitle":    request.BookTitle,
		"status":       request.Status,
	})
	return request, nil
}

// acceptBookRequest accepts one pending request, rejects every other pending
// request for the book and reserves the book, all in one transaction. The
// transaction is run again when the database reports a transient conflict.
func (s *service) acceptBookRequest(ctx context.Context, actor *data.User, bookID, customerID int64, to string) (*data.BookRequest, error) {
	var (
		accepted *data.BookRequest
		rejected int64
	)
	attempts, err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.repo.InTx(ctx, func(tx repository.Tx) error {
			book, err := tx.GetBookForUpdate(ctx, bookID)
			if err != nil {
				switch {
				case errors.Is(err, repository.ErrRecordNotFound):
					return ErrRecordNotFound
				default:
					return err
				}
			}
			if book.UserID != actor.ID {
				return ErrNotPermitted
			}
			request, err := tx.TransitionBookRequest(ctx, bookID, customerID, data.RequestPending, to, data.BookReserved)
			if err != nil {
				switch {
				case errors.Is(err, repository.ErrRecordNotFound):
					return ErrRequestNotFound
				default:
					return err
				}
			}
			next, err := data.BookLifecycle.Fire(book.Status, data.EventReserve)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			n, err := tx.RejectPendingBookRequests(ctx, bookID, customerID)
			if err != nil {
				return err
			}
			if err := tx.SetBookStatus(ctx, bookID, next); err != nil {
				return err
			}
			accepted, rejected = request, n
			return nil
		})
	})
	if attempts > 1 {
		s.logger.PrintDebug("accept transaction retried", map[string]string{
			"book_id":  strconv.FormatInt(bookID, 10),
			"attempts": strconv.Itoa(attempts),
		})
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTransientConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	s.record(actor.ID, activity.RequestAccepted, bookID, map[string]string{
		"customer_id":       strconv.FormatInt(customerID, 10),
		"requests_rejected": strconv.FormatInt(rejected, 10),
		"book_status":       data.BookReserved,
	})
	return accepted, nil
}

// rejectBookRequest rejects one pending request. Nothing else changes.
func (s *service) rejectBookRequest(ctx context.Context, actor *data.User, bookID, customerID int64, to string) (*data.BookRequest, error) {
	if _, err := s.getOwnedBook(ctx, actor, bookID); err != nil {
		return nil, err
	}
	request, err := s.repo.TransitionBookRequest(ctx, bookID, customerID, data.RequestPending, to, "")
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRequestNotFound
		default:
			return nil, err
		}
	}
	s.record(actor.ID, activity.RequestRejected, bookID, map[string]string{
		"customer_id": strconv.FormatInt(customerID, 10),
	})
	return request, nil
}

// CancelBookRequest service deletes actor's pending request for a book.
func (s *service) CancelBookRequest(ctx context.Context, actor *data.User, bookID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := s.repo.DeletePendingBookRequest(ctx, bookID, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrNoRequestToCancel
		default:
			return err
		}
	}
	s.record(actor.ID, activity.RequestCancelled, bookID, nil)
	return nil
}

// ListBookRequests service lists the requests made for one of actor's books.
func (s *service) ListBookRequests(ctx context.Context, actor *data.User, bookID int64, qs dto.QsListRequests) ([]*data.BookRequest, data.Metadata, error) {
	if err := requireActor(actor); err != nil {
		return nil, data.Metadata{}, err
	}
	if err := validateRequestListing(qs); err != nil {
		return nil, data.Metadata{}, err
	}
	if _, err := s.getOwnedBook(ctx, actor, bookID); err != nil {
		return nil, data.Metadata{}, err
	}
	return s.repo.ListBookRequestsForBook(ctx, bookID, qs.Status, qs.Filters)
}

// ListSentBookRequests service lists the requests actor has made.
func (s *service) ListSentBookRequests(ctx context.Context, actor *data.User, qs dto.QsListRequests) ([]*data.BookRequest, data.Metadata, error) {
	if err := requireActor(actor); err != nil {
		return nil, data.Metadata{}, err
	}
	if err := validateRequestListing(qs); err != nil {
		return nil, data.Metadata{}, err
	}
	return s.repo.ListBookRequestsForCustomer(ctx, actor.ID, qs.Status, qs.Filters)
}

// ListReceivedBookRequests service lists the requests made for any of actor's books.
func (s *service) ListReceivedBookRequests(ctx context.Context, actor *data.User, qs dto.QsListRequests) ([]*data.BookRequest, data.Metadata, error) {
	if err := requireActor(actor); err != nil {
		return nil, data.Metadata{}, err
	}
	if err := validateRequestListing(qs); err != nil {
		return nil, data.Metadata{}, err
	}
	return s.repo.ListBookRequestsForOwner(ctx, actor.ID, qs.Status, qs.Filters)
}

func validateRequestListing(qs dto.QsListRequests) error {
	v := validator.New()
	data.ValidateFilters(v, qs.Filters)
	data.ValidateRequestStatusFilter(v, qs.Status)
	if !v.Valid() {
		return failedValidation(v.Errors)
	}
	return nil
}
