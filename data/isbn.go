package data

import (
	"strings"

	"github.com/emzola/bookmarket/internal/validator"
)

// BookMetadata is what an ISBN lookup returns to prefill a listing.
type BookMetadata struct {
	ISBN       string   `json:"isbn"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors,omitempty"`
	Publishers []string `json:"publishers,omitempty"`
	Year       int      `json:"year,omitempty"`
	PageCount  int      `json:"page_count,omitempty"`
}

// NormalizeISBN strips hyphens and spaces and upper-cases a trailing x.
func NormalizeISBN(isbn string) string {
	r := strings.NewReplacer("-", "", " ", "")
	return strings.ToUpper(r.Replace(isbn))
}

// ValidateISBN checks the length and check digit of an ISBN-10 or ISBN-13.
func ValidateISBN(v *validator.Validator, isbn string) {
	v.Check(isbn != "", "isbn", "must be provided")
	if isbn == "" {
		return
	}
	switch len(isbn) {
	case 10:
		v.Check(validISBN10(isbn), "isbn", "is not a valid ISBN-10")
	case 13:
		v.Check(validISBN13(isbn), "isbn", "is not a valid ISBN-13")
	default:
		v.AddError("isbn", "must be 10 or 13 characters long")
	}
}

func validISBN10(isbn string) bool {
	sum := 0
	for i := 0; i < 10; i++ {
		c := isbn[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c == 'X' && i == 9:
			d = 10
		default:
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

func validISBN13(isbn string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		c := isbn[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}
