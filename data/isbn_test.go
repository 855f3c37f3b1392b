package data

import (
	"testing"

	"github.com/emzola/bookmarket/internal/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidateISBN(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"978-0-306-40615-7", true},
		{"0-306-40615-2", true},
		{"080442957X", true},
		{"9780306406158", false},
		{"0306406153", false},
		{"12345", false},
		{"", false},
		{"97803064061AB", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := validator.New()
			ValidateISBN(v, NormalizeISBN(tt.in))
			assert.Equal(t, tt.valid, v.Valid(), v.Errors)
		})
	}
}
