package validator

import (
	"testing"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
)

func TestCheckKeepsFirstMessage(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must not be more than 500 bytes long")
	v.Check(true, "author", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "must be provided"}, v.Errors)
}

func TestHelpers(t *testing.T) {
	assert.True(t, PermittedValue("Sell", "Free", "Sell", "Exchange"))
	assert.False(t, PermittedValue("Rent", "Free", "Sell", "Exchange"))
	assert.True(t, PermittedValue(3, 1, 2, 3))

	assert.True(t, Matches("ada@example.com", EmailRX))
	assert.False(t, Matches("ada@", EmailRX))
	assert.True(t, Matches("+2348012345678", PhoneRX))
	assert.False(t, Matches("12-34", PhoneRX))

	assert.True(t, Unique([]string{"a", "b"}))
	assert.False(t, Unique([]string{"a", "a"}))

	png := mimetype.Detect([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	assert.True(t, Mime(png, "image/jpeg", "image/png"))
	assert.False(t, Mime(png, "image/webp"))
	assert.False(t, Mime(nil, "image/png"))
}

func TestStruct(t *testing.T) {
	type body struct {
		Name  string `json:"name" validate:"required,max=5"`
		Email string `json:"email,omitempty" validate:"required,email"`
		Year  int    `json:"year" validate:"omitempty,gte=1,lte=6"`
	}

	v := New()
	v.Struct(body{Name: "too long name", Email: "nope", Year: 9})

	assert.Equal(t, map[string]string{
		"name":  "must not be more than 5 bytes long",
		"email": "must be a valid email address",
		"year":  "must be less than or equal to 6",
	}, v.Errors)

	v = New()
	v.Struct(body{Name: "ok", Email: "ok@example.com"})
	assert.True(t, v.Valid())
}
