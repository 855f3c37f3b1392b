package repository

import (
	"context"
	"time"

	"github.com/emzola/bookmarket/data"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	books
	bookRequests
	categories
	users
	tokens
	// InTx runs fn inside a database transaction. The transaction is committed
	// when fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside InTx.
type Tx interface {
	GetBookForUpdate(ctx context.Context, bookID int64) (*data.Book, error)
	CreateBookRequest(ctx context.Context, request *data.BookRequest) error
	SetBookStatus(ctx context.Context, bookID int64, status string) error
	TransitionBookRequest(ctx context.Context, bookID, customerID int64, from, to, bookStatus string) (*data.BookRequest, error)
	RejectPendingBookRequests(ctx context.Context, bookID, exceptCustomerID int64) (int64, error)
}

// repository defines the app's repository layer.
type repository struct {
	db *sqlx.DB
}

// New creates a new instance of Repository.
func New(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// txRepository runs Tx operations on an open transaction.
type txRepository struct {
	tx *sqlx.Tx
}

const txTimeout = 10 * time.Second

func (r *repository) InTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	// Rollback is a no-op once Commit has succeeded.
	defer tx.Rollback()
	if err = fn(&txRepository{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}
