package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/validator"
	"github.com/emzola/bookmarket/service"
)

// RegisterUser godoc
// @Summary Register a new user
// @Description This endpoint registers a new user and emails an activation token
// @Tags users
// @Accept  json
// @Produce json
// @Param body body dto.RegisterUserRequestBody true "JSON payload required to register a user"
// @Success 202 {object} data.User
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /v1/users [post]
func (h *Handler) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.RegisterUserRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.RegisterUser(r.Context(), requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusAccepted, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ActivateUser godoc
// @Summary Activate a user
// @Description This endpoint activates a user with the token sent by email
// @Tags users
// @Accept  json
// @Produce json
// @Param body body dto.ActivateUserRequestBody true "Activation token"
// @Success 200 {object} data.User
// @Failure 400
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/users/activated [put]
func (h *Handler) activateUserHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.ActivateUserRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.ActivateUser(r.Context(), requestBody.TokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowUser godoc
// @Summary Show the user's profile
// @Tags users
// @Produce json
// @Param token header string true "Bearer token"
// @Success 200 {object} data.User
// @Failure 404
// @Failure 500
// @Router /v1/users/profile [get]
func (h *Handler) showUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := h.contextGetUser(r).ID
	user, err := h.service.ShowUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateUser godoc
// @Summary Update the user's profile
// @Description This endpoint updates name, email and phone. Requests made afterwards carry the new contact details.
// @Tags users
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param body body dto.UpdateUserRequestBody true "Fields to update"
// @Success 200 {object} data.User
// @Failure 400
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/users/profile [patch]
func (h *Handler) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.UpdateUserRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.UpdateUser(r.Context(), h.contextGetUser(r), requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListUserActivity godoc
// @Summary Show the user's activity feed
// @Description This endpoint lists the user's most recent listing and request events, newest first
// @Tags users
// @Produce json
// @Param token header string true "Bearer token"
// @Param limit query int false "Number of entries, at most 100"
// @Success 200 {array} activity.Entry
// @Failure 422
// @Failure 500
// @Router /v1/users/activity [get]
func (h *Handler) listUserActivityHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	limit := h.readInt(r.URL.Query(), "limit", 0, v)
	if !v.Valid() {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, v.Errors)
		return
	}
	entries, err := h.service.ListActivity(r.Context(), h.contextGetUser(r), int64(limit))
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"activity": entries}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
