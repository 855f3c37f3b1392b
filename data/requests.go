package data

import (
	"time"

	"github.com/emzola/bookmarket/internal/validator"
)

// Book request statuses.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

var RequestStatuses = []string{RequestPending, RequestAccepted, RequestRejected}

// BookRequest is a customer's claim on a book. It snapshots the book and both
// parties' contact details at the time the request was made.
type BookRequest struct {
	ID            int64     `json:"id" db:"id"`
	BookID        int64     `json:"book_id" db:"book_id"`
	CustomerID    int64     `json:"customer_id" db:"customer_id"`
	OwnerID       int64     `json:"owner_id" db:"owner_id"`
	BookTitle     string    `json:"book_title" db:"book_title"`
	BookAuthor    string    `json:"book_author" db:"book_author"`
	BookPrice     float64   `json:"book_price" db:"book_price"`
	BookType      string    `json:"book_type" db:"book_type"`
	BookImage     string    `json:"book_image,omitempty" db:"book_image"`
	BookStatus    string    `json:"book_status" db:"book_status"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	CustomerEmail string    `json:"customer_email" db:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty" db:"customer_phone"`
	OwnerName     string    `json:"owner_name" db:"owner_name"`
	OwnerEmail    string    `json:"owner_email" db:"owner_email"`
	OwnerPhone    string    `json:"owner_phone,omitempty" db:"owner_phone"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// NewBookRequest builds a pending request of customer for book, owned by owner.
func NewBookRequest(book *Book, owner, customer *User) *BookRequest {
	return &BookRequest{
		BookID:        book.ID,
		CustomerID:    customer.ID,
		OwnerID:       owner.ID,
		BookTitle:     book.Title,
		BookAuthor:    book.Author,
		BookPrice:     book.Price,
		BookType:      book.Type,
		BookImage:     book.FirstImage(),
		BookStatus:    book.Status,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		OwnerName:     owner.Name,
		OwnerEmail:    owner.Email,
		OwnerPhone:    owner.Phone,
		Status:        RequestPending,
	}
}

func ValidateRequestStatusFilter(v *validator.Validator, status string) {
	if status != "" {
		v.Check(validator.PermittedValue(status, RequestStatuses...), "status", "must be one of pending, accepted, rejected")
	}
}

// ValidateRequestDecision checks the status an owner wants to move a request to.
func ValidateRequestDecision(v *validator.Validator, status string) {
	v.Check(status != "", "status", "must be provided")
	v.Check(status == "" || status == RequestAccepted || status == RequestRejected, "status", "must be either accepted or rejected")
}
