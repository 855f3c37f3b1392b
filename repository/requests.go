package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookmarket/data"
	"github.com/jmoiron/sqlx"
)

type bookRequests interface {
	GetActiveBookRequest(ctx context.Context, bookID, customerID int64) (*data.BookRequest, error)
	TransitionBookRequest(ctx context.Context, bookID, customerID int64, from, to, bookStatus string) (*data.BookRequest, error)
	DeletePendingBookRequest(ctx context.Context, bookID, customerID int64) error
	ListBookRequestsForBook(ctx context.Context, bookID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error)
	ListBookRequestsForCustomer(ctx context.Context, customerID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error)
	ListBookRequestsForOwner(ctx context.Context, ownerID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error)
}

const requestColumns = `
		id, book_id, customer_id, owner_id, book_title, book_author, book_price, book_type,
		book_image, book_status, customer_name, customer_email, customer_phone,
		owner_name, owner_email, owner_phone, status, created_at, updated_at`

// requestRow is a listed request together with the window count of its page.
type requestRow struct {
	data.BookRequest
	Total int `db:"total"`
}

// CreateBookRequest inserts a pending request. The caller holds the book row
// lock, so the book cannot be reserved between its check and the insert. A
// second active request for the same book and customer violates the partial
// unique index.
func (t *txRepository) CreateBookRequest(ctx context.Context, request *data.BookRequest) error {
	query := `
		INSERT INTO book_requests (book_id, customer_id, owner_id, book_title, book_author,
			book_price, book_type, book_image, book_status, customer_name, customer_email,
			customer_phone, owner_name, owner_email, owner_phone, status)
		VALUES (:book_id, :customer_id, :owner_id, :book_title, :book_author,
			:book_price, :book_type, :book_image, :book_status, :customer_name, :customer_email,
			:customer_phone, :owner_name, :owner_email, :owner_phone, :status)
		RETURNING id, created_at, updated_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := sqlx.NamedQueryContext(ctx, t.tx, query, request)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateRecord
		default:
			return classify(err)
		}
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateRecord
			}
			return classify(err)
		}
		return sql.ErrNoRows
	}
	return rows.Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

// GetActiveBookRequest retrieves the customer's pending or accepted request for a book.
func (r *repository) GetActiveBookRequest(ctx context.Context, bookID, customerID int64) (*data.BookRequest, error) {
	query := `
		SELECT` + requestColumns + `
		FROM book_requests
		WHERE book_id = $1 AND customer_id = $2 AND status <> 'rejected'
		LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var request data.BookRequest
	err := r.db.GetContext(ctx, &request, query, bookID, customerID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &request, nil
}

// TransitionBookRequest moves the (bookID, customerID) request from one status to
// another. Only a row currently in from is touched; when none matches it returns
// ErrRecordNotFound. A non-empty bookStatus also rewrites the row's book snapshot.
func (r *repository) TransitionBookRequest(ctx context.Context, bookID, customerID int64, from, to, bookStatus string) (*data.BookRequest, error) {
	return transitionBookRequest(ctx, r.db, bookID, customerID, from, to, bookStatus)
}

func (t *txRepository) TransitionBookRequest(ctx context.Context, bookID, customerID int64, from, to, bookStatus string) (*data.BookRequest, error) {
	request, err := transitionBookRequest(ctx, t.tx, bookID, customerID, from, to, bookStatus)
	return request, classify(err)
}

func transitionBookRequest(ctx context.Context, q sqlx.QueryerContext, bookID, customerID int64, from, to, bookStatus string) (*data.BookRequest, error) {
	query := `
		UPDATE book_requests
		SET status = $1, book_status = COALESCE(NULLIF($2, ''), book_status), updated_at = now()
		WHERE book_id = $3 AND customer_id = $4 AND status = $5
		RETURNING` + requestColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var request data.BookRequest
	err := sqlx.GetContext(ctx, q, &request, query, to, bookStatus, bookID, customerID, from)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &request, nil
}

// DeletePendingBookRequest hard-deletes the customer's pending request for a book.
func (r *repository) DeletePendingBookRequest(ctx context.Context, bookID, customerID int64) error {
	query := `
		DELETE FROM book_requests
		WHERE book_id = $1 AND customer_id = $2 AND status = 'pending'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, bookID, customerID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// RejectPendingBookRequests rejects every pending request for a book except the
// one made by exceptCustomerID, and reports how many rows changed.
func (t *txRepository) RejectPendingBookRequests(ctx context.Context, bookID, exceptCustomerID int64) (int64, error) {
	query := `
		UPDATE book_requests
		SET status = 'rejected', updated_at = now()
		WHERE book_id = $1 AND customer_id <> $2 AND status = 'pending'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	result, err := t.tx.ExecContext(ctx, query, bookID, exceptCustomerID)
	if err != nil {
		return 0, classify(err)
	}
	return result.RowsAffected()
}

// ListBookRequestsForBook lists the requests made against one book.
func (r *repository) ListBookRequestsForBook(ctx context.Context, bookID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error) {
	return r.listBookRequests(ctx, "book_id", bookID, status, filters)
}

// ListBookRequestsForCustomer lists the requests a user has sent.
func (r *repository) ListBookRequestsForCustomer(ctx context.Context, customerID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error) {
	return r.listBookRequests(ctx, "customer_id", customerID, status, filters)
}

// ListBookRequestsForOwner lists the requests made against a user's books.
func (r *repository) ListBookRequestsForOwner(ctx context.Context, ownerID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error) {
	return r.listBookRequests(ctx, "owner_id", ownerID, status, filters)
}

// listBookRequests pages through requests keyed by column. column is always one
// of the fixed names above, never user input.
func (r *repository) listBookRequests(ctx context.Context, column string, id int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error) {
	query := `
		SELECT count(*) OVER() AS total,` + requestColumns + `
		FROM book_requests
		WHERE ` + column + ` = $1 AND (status = $2 OR $2 = '')
		ORDER BY ` + filters.SortColumn() + ` ` + filters.SortDirection() + `, id ASC
		LIMIT $3 OFFSET $4`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var rows []requestRow
	err := r.db.SelectContext(ctx, &rows, query, id, status, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, data.Metadata{}, err
	}
	totalRecords := 0
	requests := make([]*data.BookRequest, 0, len(rows))
	for i := range rows {
		totalRecords = rows[i].Total
		requests = append(requests, &rows[i].BookRequest)
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return requests, metadata, nil
}
