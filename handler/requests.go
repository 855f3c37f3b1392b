package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/validator"
	"github.com/emzola/bookmarket/service"
)

var requestSortSafeList = []string{"created_at", "updated_at", "-created_at", "-updated_at"}

// bookRequestErrorResponse writes the response for an error returned by a book
// request operation.
func (h *Handler) bookRequestErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationRequired):
		h.authenticationRequiredResponse(w, r)
	case errors.Is(err, service.ErrNotPermitted):
		h.notPermittedResponse(w, r)
	case errors.Is(err, service.ErrFailedValidation):
		h.failedValidationResponse(w, r, err)
	case errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrNoRequestToCancel):
		h.notFoundErrorResponse(w, r, err)
	case errors.Is(err, service.ErrRecordNotFound):
		h.notFoundResponse(w, r)
	case errors.Is(err, service.ErrOwnBook):
		h.errorResponse(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAlreadyRequested),
		errors.Is(err, service.ErrBookUnavailable),
		errors.Is(err, service.ErrInvalidTransition):
		h.conflictResponse(w, r, err)
	case errors.Is(err, service.ErrEditConflict):
		h.editConflictResponse(w, r)
	default:
		h.serverErrorResponse(w, r, err)
	}
}

// CreateBookRequest godoc
// @Summary Request a book
// @Description This endpoint records the user's request for a book and notifies the owner
// @Tags requests
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book to request"
// @Success 201 {object} data.BookRequest
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 500
// @Router /v1/books/{bookId}/requests [post]
func (h *Handler) createBookRequestHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	request, err := h.service.CreateBookRequest(r.Context(), h.contextGetUser(r), bookID)
	if err != nil {
		h.bookRequestErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"request": request, "message": "book requested"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateBookRequestStatus godoc
// @Summary Accept or reject a book request
// @Description This endpoint lets the owner accept or reject a pending request. Accepting reserves the book and rejects every other pending request for it.
// @Tags requests
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book"
// @Param customerId path int true "ID of the customer who made the request"
// @Param body body dto.UpdateBookRequestStatusBody true "accepted or rejected"
// @Success 200 {object} data.BookRequest
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/books/{bookId}/requests/{customerId} [patch]
func (h *Handler) updateBookRequestStatusHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.UpdateBookRequestStatusBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if errs := h.validateBody(requestBody); errs != nil {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, errs)
		return
	}
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	customerID, err := h.readIDParam(r, "customerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	request, err := h.service.UpdateBookRequestStatus(r.Context(), h.contextGetUser(r), bookID, customerID, requestBody.Status)
	if err != nil {
		h.bookRequestErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"request": request, "message": "request " + request.Status}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// CancelBookRequest godoc
// @Summary Cancel a book request
// @Description This endpoint deletes the user's pending request for a book
// @Tags requests
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book"
// @Success 200
// @Failure 404
// @Failure 500
// @Router /v1/books/{bookId}/requests [delete]
func (h *Handler) cancelBookRequestHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.CancelBookRequest(r.Context(), h.contextGetUser(r), bookID)
	if err != nil {
		h.bookRequestErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "booking request cancelled"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// readRequestListing parses the query string shared by the request listings.
func (h *Handler) readRequestListing(r *http.Request) (dto.QsListRequests, map[string]string) {
	var qsInput dto.QsListRequests
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Status = h.readString(qs, "status", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-created_at")
	qsInput.Filters.SortSafeList = requestSortSafeList
	if !v.Valid() {
		return qsInput, v.Errors
	}
	return qsInput, nil
}

// ListBookRequests godoc
// @Summary List the requests for a book
// @Description This endpoint lists the requests made for one of the user's books
// @Tags requests
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book"
// @Param status query string false "pending, accepted or rejected"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort query string false "Sort"
// @Success 200 {array} data.BookRequest
// @Failure 403
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /v1/books/{bookId}/requests [get]
func (h *Handler) listBookRequestsHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	qsInput, errs := h.readRequestListing(r)
	if errs != nil {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, errs)
		return
	}
	requests, metadata, err := h.service.ListBookRequests(r.Context(), h.contextGetUser(r), bookID, qsInput)
	if err != nil {
		h.bookRequestErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"requests": requests, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListUserRequests godoc
// @Summary List the user's requests
// @Description This endpoint lists the book requests the user has made
// @Tags users
// @Produce json
// @Param token header string true "Bearer token"
// @Param status query string false "pending, accepted or rejected"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort query string false "Sort"
// @Success 200 {array} data.BookRequest
// @Failure 422
// @Failure 500
// @Router /v1/users/requests [get]
func (h *Handler) listUserRequestsHandler(w http.ResponseWriter, r *http.Request) {
	qsInput, errs := h.readRequestListing(r)
	if errs != nil {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, errs)
		return
	}
	requests, metadata, err := h.service.ListSentBookRequests(r.Context(), h.contextGetUser(r), qsInput)
	if err != nil {
		h.bookRequestErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"requests": requests, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListReceivedRequests godoc
// @Summary List requests received
// @Description This endpoint lists the requests other users have made for the user's books
// @Tags users
// @Produce json
// @Param token header string true "Bearer token"
// @Param status query string false "pending, accepted or rejected"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort query string false "Sort"
// @Success 200 {array} data.BookRequest
// @Failure 422
// @Failure 500
// @Router /v1/users/requests/received [get]
func (h *Handler) listReceivedRequestsHandler(w http.ResponseWriter, r *http.Request) {
	qsInput, errs := h.readRequestListing(r)
	if errs != nil {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, errs)
		return
	}
	requests, metadata, err := h.service.ListReceivedBookRequests(r.Context(), h.contextGetUser(r), qsInput)
	if err != nil {
		h.bookRequestErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"requests": requests, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
