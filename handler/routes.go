package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/v1/books", h.requireActivatedUser(h.listBooksHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books", h.requireActivatedUser(h.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.requireActivatedUser(h.showBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId", h.requireBookOwnerPermission(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId", h.requireBookOwnerPermission(h.deleteBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/status", h.requireBookOwnerPermission(h.updateBookStatusHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/images", h.requireBookOwnerPermission(h.addBookImageHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId/images", h.requireBookOwnerPermission(h.deleteBookImageHandler))

	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/requests", h.requireActivatedUser(h.createBookRequestHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId/requests", h.requireActivatedUser(h.cancelBookRequestHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/requests", h.requireBookOwnerPermission(h.listBookRequestsHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/requests/:customerId", h.requireBookOwnerPermission(h.updateBookRequestStatusHandler))

	router.HandlerFunc(http.MethodGet, "/v1/categories", h.listCategoriesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/isbn/:isbn", h.requireActivatedUser(h.lookupISBNHandler))

	router.HandlerFunc(http.MethodPost, "/v1/users", h.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activated", h.activateUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/profile", h.requireActivatedUser(h.showUserHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/users/profile", h.requireActivatedUser(h.updateUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/books", h.requireActivatedUser(h.listUserBooksHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/requests", h.requireActivatedUser(h.listUserRequestsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/requests/received", h.requireActivatedUser(h.listReceivedRequestsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/activity", h.requireActivatedUser(h.listUserActivityHandler))

	router.HandlerFunc(http.MethodPost, "/v1/tokens/activation", h.createActivationTokenHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", h.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/tokens/authentication", h.requireAuthenticatedUser(h.deleteAuthenticationTokenHandler))

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.metrics(h.requestID(h.recoverPanic(h.enableCORS(h.rateLimit(h.authenticate(router))))))
}
