package service

import (
	"context"
	"errors"
	"time"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/validator"
	"github.com/emzola/bookmarket/repository"
)

type tokens interface {
	CreateActivationToken(ctx context.Context, requestBody dto.CreateActivationTokenRequestBody) error
	CreateAuthenticationToken(ctx context.Context, requestBody dto.CreateAuthenticationTokenRequestBody) (*data.Token, error)
	DeleteAuthenticationToken(ctx context.Context, actor *data.User) error
}

// CreateActivationToken service mails a fresh activation token.
func (s *service) CreateActivationToken(ctx context.Context, requestBody dto.CreateActivationTokenRequestBody) error {
	v := validator.New()
	if v.Struct(requestBody); !v.Valid() {
		return failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByEmail(ctx, requestBody.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return failedField("email", "no matching email address found")
		default:
			return err
		}
	}
	if user.Activated {
		return failedField("email", "user with this email has already been activated")
	}
	token, err := s.repo.CreateNewToken(ctx, user.ID, 3*24*time.Hour, data.ScopeActivation)
	if err != nil {
		return err
	}
	s.notify(user.Email, "token_activation.tmpl", map[string]string{
		"userName":        firstName(user.Name),
		"activationToken": token.Plaintext,
	})
	return nil
}

// CreateAuthenticationToken service exchanges credentials for a bearer token.
func (s *service) CreateAuthenticationToken(ctx context.Context, requestBody dto.CreateAuthenticationTokenRequestBody) (*data.Token, error) {
	v := validator.New()
	if v.Struct(requestBody); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByEmail(ctx, requestBody.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}
	match, err := user.Password.Matches(requestBody.Password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	return s.repo.CreateNewToken(ctx, user.ID, 24*time.Hour, data.ScopeAuthentication)
}

// DeleteAuthenticationToken service signs the actor out everywhere.
func (s *service) DeleteAuthenticationToken(ctx context.Context, actor *data.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return s.repo.DeleteAllTokensForUser(ctx, data.ScopeAuthentication, actor.ID)
}
