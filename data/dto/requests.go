package dto

import "github.com/emzola/bookmarket/data"

// UpdateBookRequestStatusBody defines the request body an owner sends to decide a request.
type UpdateBookRequestStatusBody struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// QsListRequests defines query strings for the request list endpoints.
type QsListRequests struct {
	Status  string
	Filters data.Filters
}
