package service

import (
	"testing"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "pa55word1234"

// registerAndActivate runs the full sign-up flow for a new user.
func registerAndActivate(t *testing.T, f *fixture, email string) *data.User {
	t.Helper()
	user, err := f.svc.RegisterUser(ctx, dto.RegisterUserRequestBody{
		Name:     "Chidi Okafor",
		Email:    email,
		Phone:    "+2348031234567",
		Password: testPassword,
	})
	require.NoError(t, err)
	f.wait()
	var token string
	for _, m := range f.mailer.Sent() {
		if m.recipient == email && m.template == "user_welcome.tmpl" {
			token = m.data["activationToken"]
		}
	}
	require.NotEmpty(t, token)
	activated, err := f.svc.ActivateUser(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, activated.ID)
	return activated
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)
	user := registerAndActivate(t, f, "chidi@example.com")
	assert.True(t, user.Activated)

	_, err := f.svc.RegisterUser(ctx, dto.RegisterUserRequestBody{
		Name:     "Someone Else",
		Email:    "CHIDI@example.com",
		Password: testPassword,
	})
	require.ErrorIs(t, err, ErrFailedValidation)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRegisterUser_Validation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		body  dto.RegisterUserRequestBody
		field string
	}{
		{name: "short password", body: dto.RegisterUserRequestBody{Name: "A", Email: "a@example.com", Password: "short"}, field: "password"},
		{name: "bad email", body: dto.RegisterUserRequestBody{Name: "A", Email: "not-an-email", Password: testPassword}, field: "email"},
		{name: "bad phone", body: dto.RegisterUserRequestBody{Name: "A", Email: "a@example.com", Phone: "12-34", Password: testPassword}, field: "phone"},
		{name: "missing name", body: dto.RegisterUserRequestBody{Email: "a@example.com", Password: testPassword}, field: "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RegisterUser(ctx, tt.body)
			require.ErrorIs(t, err, ErrFailedValidation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestActivateUser_InvalidToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ActivateUser(ctx, "short")
	assert.ErrorIs(t, err, ErrFailedValidation)
	_, err = f.svc.ActivateUser(ctx, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	require.ErrorIs(t, err, ErrFailedValidation)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestUpdateUser_ContactDetailsFlowIntoRequests(t *testing.T) {
	f := newFixture(t)
	user := registerAndActivate(t, f, "chidi@example.com")
	phone := "+2348099999999"

	updated, err := f.svc.UpdateUser(ctx, user, dto.UpdateUserRequestBody{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)

	book := f.addBook(f.owner)
	req := f.request(t, updated, book)
	assert.Equal(t, phone, req.CustomerPhone)

	taken := f.alice.Email
	_, err = f.svc.UpdateUser(ctx, updated, dto.UpdateUserRequestBody{Email: &taken})
	assert.ErrorIs(t, err, ErrFailedValidation)
	f.wait()
}

func TestAuthenticationTokens(t *testing.T) {
	f := newFixture(t)
	user := registerAndActivate(t, f, "chidi@example.com")

	_, err := f.svc.CreateAuthenticationToken(ctx, dto.CreateAuthenticationTokenRequestBody{Email: user.Email, Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.CreateAuthenticationToken(ctx, dto.CreateAuthenticationTokenRequestBody{Email: "nobody@example.com", Password: testPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.CreateAuthenticationToken(ctx, dto.CreateAuthenticationTokenRequestBody{Email: "nope"})
	assert.ErrorIs(t, err, ErrFailedValidation)

	token, err := f.svc.CreateAuthenticationToken(ctx, dto.CreateAuthenticationTokenRequestBody{Email: user.Email, Password: testPassword})
	require.NoError(t, err)
	require.Len(t, token.Plaintext, 26)

	got, err := f.svc.GetUserForToken(ctx, data.ScopeAuthentication, token.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, f.svc.DeleteAuthenticationToken(ctx, got))
	_, err = f.svc.GetUserForToken(ctx, data.ScopeAuthentication, token.Plaintext)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCreateActivationToken(t *testing.T) {
	f := newFixture(t)
	pending := f.repo.AddUser(&data.User{Name: "Pending Person", Email: "pending@example.com", Version: 1})

	require.NoError(t, f.svc.CreateActivationToken(ctx, dto.CreateActivationTokenRequestBody{Email: pending.Email}))
	f.wait()
	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "token_activation.tmpl", sent[0].template)
	assert.Len(t, sent[0].data["activationToken"], 26)

	err := f.svc.CreateActivationToken(ctx, dto.CreateActivationTokenRequestBody{Email: f.alice.Email})
	assert.ErrorIs(t, err, ErrFailedValidation)
	err = f.svc.CreateActivationToken(ctx, dto.CreateActivationTokenRequestBody{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestListActivity(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(f.owner)
	f.request(t, f.alice, book)
	f.wait()
	require.NoError(t, f.svc.CancelBookRequest(ctx, f.alice, book.ID))
	f.wait()

	entries, err := f.svc.ListActivity(ctx, f.alice, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, activity.RequestCancelled, entries[0].Action)
	assert.Equal(t, activity.RequestCreated, entries[1].Action)

	_, err = f.svc.ListActivity(ctx, data.AnonymousUser, 10)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}
