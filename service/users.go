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

type users interface {
	RegisterUser(ctx context.Context, requestBody dto.RegisterUserRequestBody) (*data.User, error)
	ActivateUser(ctx context.Context, token string) (*data.User, error)
	ShowUser(ctx context.Context, userID int64) (*data.User, error)
	UpdateUser(ctx context.Context, actor *data.User, requestBody dto.UpdateUserRequestBody) (*data.User, error)
	GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error)
}

// RegisterUser service registers a new user and mails them an activation token.
func (s *service) RegisterUser(ctx context.Context, requestBody dto.RegisterUserRequestBody) (*data.User, error) {
	user := &data.User{
		Name:      requestBody.Name,
		Email:     requestBody.Email,
		Phone:     requestBody.Phone,
		Activated: false,
	}
	v := validator.New()
	data.ValidatePasswordPlaintext(v, requestBody.Password)
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	if err := user.Password.Set(requestBody.Password); err != nil {
		return nil, err
	}
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, failedField("email", "a user with this email address already exists")
		default:
			return nil, err
		}
	}
	token, err := s.repo.CreateNewToken(ctx, user.ID, 3*24*time.Hour, data.ScopeActivation)
	if err != nil {
		return nil, err
	}
	s.notify(user.Email, "user_welcome.tmpl", map[string]string{
		"userName":        firstName(user.Name),
		"activationToken": token.Plaintext,
	})
	return user, nil
}

// ActivateUser service activates a newly registered user.
func (s *service) ActivateUser(ctx context.Context, token string) (*data.User, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, token); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	// A missing user means the token is invalid or expired.
	user, err := s.repo.GetUserForToken(ctx, data.ScopeActivation, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, failedField("token", "invalid or expired activation token")
		default:
			return nil, err
		}
	}
	user.Activated = true
	err = s.repo.UpdateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	if err := s.repo.DeleteAllTokensForUser(ctx, data.ScopeActivation, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// ShowUser service shows the details of a specific user.
func (s *service) ShowUser(ctx context.Context, userID int64) (*data.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// UpdateUser service updates the actor's profile. The contact details copied
// into future book requests come from here.
func (s *service) UpdateUser(ctx context.Context, actor *data.User, requestBody dto.UpdateUserRequestBody) (*data.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	user, err := s.ShowUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if requestBody.Name != nil {
		user.Name = *requestBody.Name
	}
	if requestBody.Email != nil {
		user.Email = *requestBody.Email
	}
	if requestBody.Phone != nil {
		user.Phone = *requestBody.Phone
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.UpdateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, failedField("email", "a user with this email address already exists")
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return user, nil
}

// GetUserForToken service resolves the user a token belongs to.
func (s *service) GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error) {
	user, err := s.repo.GetUserForToken(ctx, tokenScope, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}
