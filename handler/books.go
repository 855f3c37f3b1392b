package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/data/dto"
	"github.com/emzola/bookmarket/internal/validator"
	"github.com/emzola/bookmarket/service"
)

var bookSortSafeList = []string{"id", "title", "price", "created_at", "-id", "-title", "-price", "-created_at"}

// CreateBook godoc
// @Summary Create a new book listing
// @Description This endpoint lists a book for sale, exchange or free collection
// @Tags books
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param body body dto.CreateBookRequestBody true "JSON payload required to create a book"
// @Success 201 {object} data.Book
// @Failure 400
// @Failure 422
// @Failure 500
// @Router /v1/books [post]
func (h *Handler) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateBookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	book, err := h.service.CreateBook(r.Context(), h.contextGetUser(r), requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/books/%d", book.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"book": book}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowBook godoc
// @Summary Show details of a book
// @Description This endpoint shows the details of a specific book
// @Tags books
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book to show"
// @Success 200 {object} data.Book
// @Failure 404
// @Failure 500
// @Router /v1/books/{bookId} [get]
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.GetBook(r.Context(), bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListBooks godoc
// @Summary Browse book listings
// @Description This endpoint lists books matching the category, type, status and price filters
// @Tags books
// @Produce json
// @Param token header string true "Bearer token"
// @Param search query string false "Full text search over title, author and description"
// @Param level query string false "Category level"
// @Param faculty query string false "Faculty"
// @Param year query int false "Year of study"
// @Param class query int false "School class"
// @Param type query string false "Free, Sell or Exchange"
// @Param status query string false "Book status"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort query string false "Sort"
// @Success 200 {array} data.Book
// @Failure 422
// @Failure 500
// @Router /v1/books [get]
func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListBooks
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Filter = data.BookFilter{
		Search:   h.readString(qs, "search", ""),
		Level:    h.readString(qs, "level", ""),
		Faculty:  h.readString(qs, "faculty", ""),
		Year:     h.readInt(qs, "year", 0, v),
		Class:    h.readInt(qs, "class", 0, v),
		Type:     h.readString(qs, "type", ""),
		Status:   h.readString(qs, "status", ""),
		MinPrice: h.readFloat(qs, "min_price", v),
		MaxPrice: h.readFloat(qs, "max_price", v),
	}
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-created_at")
	qsInput.Filters.SortSafeList = bookSortSafeList
	if !v.Valid() {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, v.Errors)
		return
	}
	books, metadata, err := h.service.ListBooks(r.Context(), qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"books": books, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateBook godoc
// @Summary Update details of a book
// @Description This endpoint updates the details of a specific book
// @Tags books
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book to update"
// @Param body body dto.UpdateBookRequestBody true "JSON payload required to update a book"
// @Success 200 {object} data.Book
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/books/{bookId} [patch]
func (h *Handler) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.UpdateBookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.UpdateBook(r.Context(), h.contextGetUser(r), bookID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateBookStatus godoc
// @Summary Change the status of a book
// @Description This endpoint lets the owner mark a book requested, available, sold or exchanged
// @Tags books
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book"
// @Param body body dto.UpdateBookStatusRequestBody true "JSON payload with the new status"
// @Success 200 {object} data.Book
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/books/{bookId}/status [patch]
func (h *Handler) updateBookStatusHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.UpdateBookStatusRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.UpdateBookStatus(r.Context(), h.contextGetUser(r), bookID, requestBody.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrInvalidTransition):
			h.conflictResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteBook godoc
// @Summary Delete a book
// @Description This endpoint deletes a specific book and its pending requests
// @Tags books
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book to delete"
// @Success 200
// @Failure 403
// @Failure 404
// @Failure 500
// @Router /v1/books/{bookId} [delete]
func (h *Handler) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteBook(r.Context(), h.contextGetUser(r), bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// AddBookImage godoc
// @Summary Upload an image of a book
// @Description This endpoint uploads a jpeg, png or webp image of at most 5MB to the book's gallery
// @Tags books
// @Accept  multipart/form-data
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book"
// @Param image formData file true "Image file"
// @Success 201 {object} data.Book
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 413
// @Failure 415
// @Failure 422
// @Failure 500
// @Router /v1/books/{bookId}/images [post]
func (h *Handler) addBookImageHandler(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope around a maximum sized image.
	maxBytes := int64(data.MaxImageSize + 1_048_576)
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			h.contentTooLargeResponse(w, r)
		default:
			h.badRequestResponse(w, r, err)
		}
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		h.badRequestResponse(w, r, errors.New("the image form field must contain a file"))
		return
	}
	defer file.Close()
	book, err := h.service.AddBookImage(r.Context(), h.contextGetUser(r), bookID, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrContentTooLarge):
			h.contentTooLargeResponse(w, r)
		case errors.Is(err, service.ErrUnsupportedMediaType):
			h.unsupportedMediaTypeResponse(w, r)
		case errors.Is(err, service.ErrTooManyImages):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrBadRequest):
			h.badRequestResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteBookImage godoc
// @Summary Remove an image of a book
// @Description This endpoint removes an image from the book's gallery and from storage
// @Tags books
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book"
// @Param body body dto.DeleteBookImageRequestBody true "URL of the image to remove"
// @Success 200 {object} data.Book
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /v1/books/{bookId}/images [delete]
func (h *Handler) deleteBookImageHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.DeleteBookImageRequestBody
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
	book, err := h.service.DeleteBookImage(r.Context(), h.contextGetUser(r), bookID, requestBody.URL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListUserBooks godoc
// @Summary List the user's listings
// @Description This endpoint lists the books the authenticated user has listed
// @Tags users
// @Produce json
// @Param token header string true "Bearer token"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort query string false "Sort"
// @Success 200 {array} data.Book
// @Failure 422
// @Failure 500
// @Router /v1/users/books [get]
func (h *Handler) listUserBooksHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListUserBooks
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-created_at")
	qsInput.Filters.SortSafeList = bookSortSafeList
	if !v.Valid() {
		h.errorResponse(w, r, http.StatusUnprocessableEntity, v.Errors)
		return
	}
	books, metadata, err := h.service.ListUserBooks(r.Context(), h.contextGetUser(r), qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"books": books, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
