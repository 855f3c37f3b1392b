package data

import (
	"time"

	"github.com/emzola/bookmarket/internal/validator"
)

// Listing types.
const (
	TypeFree     = "Free"
	TypeSell     = "Sell"
	TypeExchange = "Exchange"
)

// Book statuses.
const (
	BookAvailable = "available"
	BookRequested = "requested"
	BookReserved  = "reserved"
	BookExchanged = "exchanged"
	BookSold      = "sold"
)

// Book conditions.
const (
	ConditionNew     = "new"
	ConditionLikeNew = "like_new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionPoor    = "poor"
)

const (
	MaxBookImages  = 6
	MaxImageSize   = 5 << 20
	maxTitleLength = 500
)

var (
	BookTypes      = []string{TypeFree, TypeSell, TypeExchange}
	BookStatuses   = []string{BookAvailable, BookRequested, BookReserved, BookExchanged, BookSold}
	BookConditions = []string{ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor}
	ImageMimeTypes = []string{"image/jpeg", "image/png", "image/webp"}
)

// Book defines a book listing.
type Book struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Condition   string    `json:"condition"`
	Images      []string  `json:"images"`
	Category    Category  `json:"category"`
	Type        string    `json:"type"`
	Location    Location  `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int32     `json:"version"`
}

// Location is where the book can be picked up.
type Location struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// NormalizePrice zeroes the price of any listing that is not for sale.
func (b *Book) NormalizePrice() {
	if b.Type != TypeSell {
		b.Price = 0
	}
}

// FirstImage returns the cover image of the listing, or an empty string.
func (b *Book) FirstImage() string {
	if len(b.Images) == 0 {
		return ""
	}
	return b.Images[0]
}

// Requestable reports whether customers may currently request the book.
func (b *Book) Requestable() bool {
	return b.Status == BookAvailable || b.Status == BookRequested
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= maxTitleLength, "title", "must not be more than 500 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= maxTitleLength, "author", "must not be more than 500 bytes long")
	v.Check(len(book.Description) <= 2000, "description", "must not be more than 2000 bytes long")
	v.Check(validator.PermittedValue(book.Condition, BookConditions...), "condition", "must be one of new, like_new, good, fair, poor")
	v.Check(validator.PermittedValue(book.Type, BookTypes...), "type", "must be one of Free, Sell, Exchange")
	v.Check(validator.PermittedValue(book.Status, BookStatuses...), "status", "is not a valid book status")
	v.Check(book.Price >= 0, "price", "must not be negative")
	if book.Type == TypeSell {
		v.Check(book.Price > 0, "price", "must be greater than zero for books on sale")
	} else {
		v.Check(book.Price == 0, "price", "must be zero unless the book is on sale")
	}
	v.Check(len(book.Images) <= MaxBookImages, "images", "must not contain more than 6 images")
	v.Check(validator.Unique(book.Images), "images", "must not contain duplicate values")
	ValidateCategory(v, book.Category)
	ValidateLocation(v, book.Location)
}

func ValidateLocation(v *validator.Validator, loc Location) {
	v.Check(loc.Address != "", "location.address", "must be provided")
	v.Check(len(loc.Address) <= maxTitleLength, "location.address", "must not be more than 500 bytes long")
	v.Check((loc.Latitude == nil) == (loc.Longitude == nil), "location", "latitude and longitude must be provided together")
	if loc.Latitude != nil {
		v.Check(*loc.Latitude >= -90 && *loc.Latitude <= 90, "location.latitude", "must be between -90 and 90")
	}
	if loc.Longitude != nil {
		v.Check(*loc.Longitude >= -180 && *loc.Longitude <= 180, "location.longitude", "must be between -180 and 180")
	}
}

func ValidateBookStatus(v *validator.Validator, status string) {
	v.Check(status != "", "status", "must be provided")
	v.Check(validator.PermittedValue(status, BookStatuses...), "status", "is not a valid book status")
}

// BookFilter holds the browse filters for listings. Zero values mean "any".
type BookFilter struct {
	Search   string
	Level    string
	Faculty  string
	Year     int
	Class    int
	Type     string
	Status   string
	MinPrice *float64
	MaxPrice *float64
}

func ValidateBookFilter(v *validator.Validator, f BookFilter) {
	if f.Level != "" {
		v.Check(Taxonomy.Level(f.Level) != nil, "level", "is not a known level")
	}
	if f.Type != "" {
		v.Check(validator.PermittedValue(f.Type, BookTypes...), "type", "must be one of Free, Sell, Exchange")
	}
	if f.Status != "" {
		v.Check(validator.PermittedValue(f.Status, BookStatuses...), "status", "is not a valid book status")
	}
	v.Check(f.Year >= 0, "year", "must not be negative")
	v.Check(f.Class >= 0, "class", "must not be negative")
	if f.MinPrice != nil {
		v.Check(*f.MinPrice >= 0, "min_price", "must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil {
		v.Check(*f.MaxPrice >= *f.MinPrice, "max_price", "must not be less than min_price")
	}
}
