package data

import (
	"time"

	"github.com/emzola/bookmarket/internal/validator"
)

// Token scopes.
const (
	ScopeActivation     = "activation"
	ScopeAuthentication = "authentication"
)

// Token holds the data for an individual token.
type Token struct {
	Plaintext string    `json:"token"`
	Hash      []byte    `json:"-"`
	UserID    int64     `json:"-"`
	Expiry    time.Time `json:"expiry"`
	Scope     string    `json:"-"`
}

// ValidateTokenPlaintext checks that the plaintext token has been provided and is exactly 26 bytes long.
func ValidateTokenPlaintext(v *validator.Validator, tokenPlaintext string) {
	v.Check(tokenPlaintext != "", "token", "must be provided")
	v.Check(len(tokenPlaintext) == 26, "token", "must be 26 bytes long")
}
