package dto

import "github.com/emzola/bookmarket/data"

// CreateBookRequestBody defines the request body for CreateBook service.
type CreateBookRequestBody struct {
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Condition   string        `json:"condition"`
	Category    data.Category `json:"category"`
	Type        string        `json:"type"`
	Location    data.Location `json:"location"`
}

// UpdateBookRequestBody defines the request body for UpdateBook service. The fields are set
// to a pointer type to allow partial updates based on whether the value is nil.
type UpdateBookRequestBody struct {
	Title       *string        `json:"title"`
	Author      *string        `json:"author"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Condition   *string        `json:"condition"`
	Category    *data.Category `json:"category"`
	Type        *string        `json:"type"`
	Location    *data.Location `json:"location"`
	Version     *int32         `json:"version"`
}

// UpdateBookStatusRequestBody defines the request body for UpdateBookStatus service.
type UpdateBookStatusRequestBody struct {
	Status string `json:"status" validate:"required"`
}

// DeleteBookImageRequestBody defines the request body for DeleteBookImage service.
type DeleteBookImageRequestBody struct {
	URL string `json:"url" validate:"required,url"`
}

// QsListBooks defines the query strings used for browsing books.
type QsListBooks struct {
	Filter  data.BookFilter
	Filters data.Filters
}

// QsListUserBooks defines query strings for ListUserBooks service.
type QsListUserBooks struct {
	Filters data.Filters
}
