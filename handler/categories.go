package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/bookmarket/service"
	"github.com/julienschmidt/httprouter"
)

// ListCategories godoc
// @Summary List book categories
// @Description This endpoint lists the category levels with their faculties, year or class ranges and the number of books listed under each
// @Tags categories
// @Produce json
// @Success 200 {array} data.CategorySummary
// @Failure 500
// @Router /v1/categories [get]
func (h *Handler) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"categories": categories}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// LookupISBN godoc
// @Summary Look up a book by ISBN
// @Description This endpoint fetches title, authors, publishers and year from Open Library to prefill a listing
// @Tags books
// @Produce json
// @Param token header string true "Bearer token"
// @Param isbn path string true "ISBN-10 or ISBN-13"
// @Success 200 {object} data.BookMetadata
// @Failure 404
// @Failure 422
// @Failure 502
// @Router /v1/isbn/{isbn} [get]
func (h *Handler) lookupISBNHandler(w http.ResponseWriter, r *http.Request) {
	isbn := httprouter.ParamsFromContext(r.Context()).ByName("isbn")
	metadata, err := h.service.LookupISBN(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrUpstreamUnavailable), errors.Is(err, service.ErrBadRequest):
			h.upstreamUnavailableResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
