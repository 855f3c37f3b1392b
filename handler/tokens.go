package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/service"
)

// CreateActivationToken godoc
// @Summary Create a new activation token
// @Description This endpoint creates a new activation token
// @Tags tokens
// @Accept  json
// @Produce json
// @Param body body dto.CreateActivationTokenRequestBody true "JSON payload required to create an activation token"
// @Success 202
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /v1/tokens/activation [post]
func (h *Handler) createActivationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateActivationTokenRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	err = h.service.CreateActivationToken(r.Context(), requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusAccepted, envelope{"message": "an email will be sent to you containing activation instructions"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// CreateAuthenticationToken godoc
// @Summary Create a new authentication token
// @Description This endpoint exchanges email and password for a bearer token valid for 24 hours
// @Tags tokens
// @Accept  json
// @Produce json
// @Param body body dto.CreateAuthenticationTokenRequestBody true "JSON payload required to create an authentication token"
// @Success 201 {object} data.Token
// @Failure 400
// @Failure 401
// @Failure 422
// @Failure 500
// @Router /v1/tokens/authentication [post]
func (h *Handler) createAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateAuthenticationTokenRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	token, err := h.service.CreateAuthenticationToken(r.Context(), requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.invalidCredentialsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"authentication_token": token}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteAuthenticationToken godoc
// @Summary Sign out
// @Description This endpoint deletes all the user's authentication tokens
// @Tags tokens
// @Produce json
// @Param token header string true "Bearer token"
// @Success 200
// @Failure 401
// @Failure 500
// @Router /v1/tokens/authentication [delete]
func (h *Handler) deleteAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteAuthenticationToken(r.Context(), h.contextGetUser(r))
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "you have been signed out"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
