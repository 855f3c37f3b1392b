// Package fakerepo is an in-memory repository.Repository for tests. Transactions
// work on a copy of the state that replaces the live state only on commit, and
// any operation can be made to fail on demand.
package fakerepo

import (
	"context"
	"crypto/sha256"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/repository"
)

type state struct {
	books    map[int64]*data.Book
	requests []*data.BookRequest
	users    map[int64]*data.User
	tokens   []*data.Token
}

func newState() *state {
	return &state{
		books: make(map[int64]*data.Book),
		users: make(map[int64]*data.User),
	}
}

func copyBook(b *data.Book) *data.Book {
	c := *b
	c.Images = slices.Clone(b.Images)
	return &c
}

func copyUser(u *data.User) *data.User {
	c := *u
	c.Password.Hash = slices.Clone(u.Password.Hash)
	return &c
}

func (s *state) clone() *state {
	c := newState()
	for id, b := range s.books {
		c.books[id] = copyBook(b)
	}
	for id, u := range s.users {
		c.users[id] = copyUser(u)
	}
	for _, r := range s.requests {
		rc := *r
		c.requests = append(c.requests, &rc)
	}
	for _, t := range s.tokens {
		tc := *t
		c.tokens = append(c.tokens, &tc)
	}
	return c
}

// Repo implements repository.Repository in memory.
type Repo struct {
	mu     sync.Mutex
	state  *state
	nextID int64

	faultMu  sync.Mutex
	failures map[string][]error
	calls    map[string]int
	commits  int
	beforeTx []func()
}

var _ repository.Repository = (*Repo)(nil)

func New() *Repo {
	return &Repo{
		state:    newState(),
		failures: make(map[string][]error),
		calls:    make(map[string]int),
	}
}

// FailOn queues errs to be returned by the next calls of op, one per call.
// Operations run inside a transaction are named "Tx.<Method>".
func (r *Repo) FailOn(op string, errs ...error) {
	r.faultMu.Lock()
	defer r.faultMu.Unlock()
	r.failures[op] = append(r.failures[op], errs...)
}

// Calls reports how many times op was invoked.
func (r *Repo) Calls(op string) int {
	r.faultMu.Lock()
	defer r.faultMu.Unlock()
	return r.calls[op]
}

// Commits reports how many transactions were committed.
func (r *Repo) Commits() int {
	r.faultMu.Lock()
	defer r.faultMu.Unlock()
	return r.commits
}

// BeforeTx queues fn to run once at the start of the next transaction,
// before its snapshot is taken. fn may call the Repo's own helpers.
func (r *Repo) BeforeTx(fn func()) {
	r.faultMu.Lock()
	defer r.faultMu.Unlock()
	r.beforeTx = append(r.beforeTx, fn)
}

// ResetCounters zeroes the call and commit counts, leaving queued failures
// and stored rows in place.
func (r *Repo) ResetCounters() {
	r.faultMu.Lock()
	defer r.faultMu.Unlock()
	r.calls = make(map[string]int)
	r.commits = 0
}

func (r *Repo) enter(op string) error {
	r.faultMu.Lock()
	defer r.faultMu.Unlock()
	r.calls[op]++
	if queue := r.failures[op]; len(queue) > 0 {
		r.failures[op] = queue[1:]
		return queue[0]
	}
	return nil
}

func (r *Repo) id() int64 {
	r.nextID++
	return r.nextID
}

// AddUser stores u as is and returns it with an ID.
func (r *Repo) AddUser(u *data.User) *data.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.id()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.state.users[u.ID] = copyUser(u)
	return u
}

// AddBook stores b as is and returns it with an ID.
func (r *Repo) AddBook(b *data.Book) *data.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.id()
	}
	if b.Images == nil {
		b.Images = []string{}
	}
	b.Version = max(b.Version, 1)
	r.state.books[b.ID] = copyBook(b)
	return b
}

// Book returns a copy of the stored book.
func (r *Repo) Book(id int64) (data.Book, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.state.books[id]
	if !ok {
		return data.Book{}, false
	}
	return *copyBook(b), true
}

// AddRequest stores req as is, bypassing every check, and returns it with an ID.
func (r *Repo) AddRequest(req *data.BookRequest) *data.BookRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == 0 {
		req.ID = r.id()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
		req.UpdatedAt = req.CreatedAt
	}
	c := *req
	r.state.requests = append(r.state.requests, &c)
	return req
}

// Requests returns copies of all stored requests in insertion order.
func (r *Repo) Requests() []data.BookRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]data.BookRequest, 0, len(r.state.requests))
	for _, req := range r.state.requests {
		out = append(out, *req)
	}
	return out
}

// Request returns a copy of the most recent request of customerID for bookID.
func (r *Repo) Request(bookID, customerID int64) (data.BookRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.state.requests) - 1; i >= 0; i-- {
		req := r.state.requests[i]
		if req.BookID == bookID && req.CustomerID == customerID {
			return *req, true
		}
	}
	return data.BookRequest{}, false
}

// InTx runs fn against a copy of the state. Transactions are serialized, and
// all other operations wait for a running transaction to finish.
func (r *Repo) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := r.enter("InTx"); err != nil {
		return err
	}
	r.faultMu.Lock()
	var hook func()
	if len(r.beforeTx) > 0 {
		hook, r.beforeTx = r.beforeTx[0], r.beforeTx[1:]
	}
	r.faultMu.Unlock()
	if hook != nil {
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &txRepo{repo: r, state: r.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.enter("Commit"); err != nil {
		return err
	}
	r.state = tx.state
	r.faultMu.Lock()
	r.commits++
	r.faultMu.Unlock()
	return nil
}

type txRepo struct {
	repo  *Repo
	state *state
}

func (t *txRepo) GetBookForUpdate(ctx context.Context, bookID int64) (*data.Book, error) {
	if err := t.repo.enter("Tx.GetBookForUpdate"); err != nil {
		return nil, err
	}
	b, ok := t.state.books[bookID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return copyBook(b), nil
}

func (t *txRepo) CreateBookRequest(ctx context.Context, request *data.BookRequest) error {
	if err := t.repo.enter("Tx.CreateBookRequest"); err != nil {
		return err
	}
	for _, req := range t.state.requests {
		if req.BookID == request.BookID && req.CustomerID == request.CustomerID && req.Status != data.RequestRejected {
			return repository.ErrDuplicateRecord
		}
	}
	request.ID = t.repo.id()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	c := *request
	t.state.requests = append(t.state.requests, &c)
	return nil
}

func (t *txRepo) SetBookStatus(ctx context.Context, bookID int64, status string) error {
	if err := t.repo.enter("Tx.SetBookStatus"); err != nil {
		return err
	}
	b, ok := t.state.books[bookID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	b.Version++
	return nil
}

func (t *txRepo) TransitionBookRequest(ctx context.Context, bookID, customerID int64, from, to, bookStatus string) (*data.BookRequest, error) {
	if err := t.repo.enter("Tx.TransitionBookRequest"); err != nil {
		return nil, err
	}
	return transition(t.state, bookID, customerID, from, to, bookStatus)
}

func (t *txRepo) RejectPendingBookRequests(ctx context.Context, bookID, exceptCustomerID int64) (int64, error) {
	if err := t.repo.enter("Tx.RejectPendingBookRequests"); err != nil {
		return 0, err
	}
	var n int64
	for _, req := range t.state.requests {
		if req.BookID == bookID && req.CustomerID != exceptCustomerID && req.Status == data.RequestPending {
			req.Status = data.RequestRejected
			req.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func transition(s *state, bookID, customerID int64, from, to, bookStatus string) (*data.BookRequest, error) {
	for _, req := range s.requests {
		if req.BookID == bookID && req.CustomerID == customerID && req.Status == from {
			req.Status = to
			if bookStatus != "" {
				req.BookStatus = bookStatus
			}
			req.UpdatedAt = time.Now()
			c := *req
			return &c, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *Repo) CreateBook(ctx context.Context, book *data.Book) error {
	if err := r.enter("CreateBook"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	book.ID = r.id()
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt
	book.Version = 1
	r.state.books[book.ID] = copyBook(book)
	return nil
}

func (r *Repo) GetBook(ctx context.Context, bookID int64) (*data.Book, error) {
	if err := r.enter("GetBook"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.state.books[bookID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return copyBook(b), nil
}

func (r *Repo) ListBooks(ctx context.Context, filter data.BookFilter, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	if err := r.enter("ListBooks"); err != nil {
		return nil, data.Metadata{}, err
	}
	return r.listBooks(func(b *data.Book) bool { return matches(b, filter) }, filters)
}

func (r *Repo) ListBooksForUser(ctx context.Context, userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	if err := r.enter("ListBooksForUser"); err != nil {
		return nil, data.Metadata{}, err
	}
	return r.listBooks(func(b *data.Book) bool { return b.UserID == userID }, filters)
}

func (r *Repo) listBooks(keep func(*data.Book) bool, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []*data.Book{}
	for _, b := range r.state.books {
		if keep(b) {
			all = append(all, copyBook(b))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, filters), data.CalculateMetadata(len(all), filters.Page, filters.PageSize), nil
}

func matches(b *data.Book, f data.BookFilter) bool {
	switch {
	case f.Search != "" &&
		!strings.Contains(strings.ToLower(b.Title+" "+b.Author+" "+b.Description), strings.ToLower(f.Search)):
		return false
	case f.Level != "" && b.Category.Level != f.Level:
		return false
	case f.Faculty != "" && !strings.EqualFold(b.Category.Faculty, f.Faculty):
		return false
	case f.Year > 0 && b.Category.Year != f.Year:
		return false
	case f.Class > 0 && b.Category.Class != f.Class:
		return false
	case f.Type != "" && b.Type != f.Type:
		return false
	case f.Status != "" && b.Status != f.Status:
		return false
	case f.MinPrice != nil && b.Price < *f.MinPrice:
		return false
	case f.MaxPrice != nil && b.Price > *f.MaxPrice:
		return false
	}
	return true
}

func page[T any](all []T, filters data.Filters) []T {
	start := min(filters.Offset(), len(all))
	end := min(start+filters.Limit(), len(all))
	return all[start:end]
}

func (r *Repo) UpdateBook(ctx context.Context, book *data.Book) error {
	if err := r.enter("UpdateBook"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.state.books[book.ID]
	if !ok || stored.Version != book.Version {
		return repository.ErrEditConflict
	}
	book.Version++
	book.UpdatedAt = time.Now()
	r.state.books[book.ID] = copyBook(book)
	return nil
}

func (r *Repo) DeleteBook(ctx context.Context, bookID int64) error {
	if err := r.enter("DeleteBook"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.state.books[bookID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.state.books, bookID)
	r.state.requests = slices.DeleteFunc(r.state.requests, func(req *data.BookRequest) bool {
		return req.BookID == bookID
	})
	return nil
}

func (r *Repo) GetActiveBookRequest(ctx context.Context, bookID, customerID int64) (*data.BookRequest, error) {
	if err := r.enter("GetActiveBookRequest"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.state.requests {
		if req.BookID == bookID && req.CustomerID == customerID && req.Status != data.RequestRejected {
			c := *req
			return &c, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *Repo) TransitionBookRequest(ctx context.Context, bookID, customerID int64, from, to, bookStatus string) (*data.BookRequest, error) {
	if err := r.enter("TransitionBookRequest"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return transition(r.state, bookID, customerID, from, to, bookStatus)
}

func (r *Repo) DeletePendingBookRequest(ctx context.Context, bookID, customerID int64) error {
	if err := r.enter("DeletePendingBookRequest"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.state.requests)
	r.state.requests = slices.DeleteFunc(r.state.requests, func(req *data.BookRequest) bool {
		return req.BookID == bookID && req.CustomerID == customerID && req.Status == data.RequestPending
	})
	if len(r.state.requests) == before {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) ListBookRequestsForBook(ctx context.Context, bookID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error) {
	return r.listRequests("ListBookRequestsForBook", func(req *data.BookRequest) bool { return req.BookID == bookID }, status, filters)
}

func (r *Repo) ListBookRequestsForCustomer(ctx context.Context, customerID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error) {
	return r.listRequests("ListBookRequestsForCustomer", func(req *data.BookRequest) bool { return req.CustomerID == customerID }, status, filters)
}

func (r *Repo) ListBookRequestsForOwner(ctx context.Context, ownerID int64, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error) {
	return r.listRequests("ListBookRequestsForOwner", func(req *data.BookRequest) bool { return req.OwnerID == ownerID }, status, filters)
}

func (r *Repo) listRequests(op string, keep func(*data.BookRequest) bool, status string, filters data.Filters) ([]*data.BookRequest, data.Metadata, error) {
	if err := r.enter(op); err != nil {
		return nil, data.Metadata{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []*data.BookRequest{}
	for _, req := range r.state.requests {
		if keep(req) && (status == "" || req.Status == status) {
			c := *req
			all = append(all, &c)
		}
	}
	return page(all, filters), data.CalculateMetadata(len(all), filters.Page, filters.PageSize), nil
}

func (r *Repo) CountBooksByLevel(ctx context.Context) ([]data.CategoryCount, error) {
	if err := r.enter("CountBooksByLevel"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, b := range r.state.books {
		counts[b.Category.Level]++
	}
	out := []data.CategoryCount{}
	for level, n := range counts {
		out = append(out, data.CategoryCount{Level: level, BooksCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

func (r *Repo) RegisterUser(ctx context.Context, user *data.User) error {
	if err := r.enter("RegisterUser"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.state.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateRecord
		}
	}
	user.ID = r.id()
	user.CreatedAt = time.Now()
	user.Version = 1
	r.state.users[user.ID] = copyUser(user)
	return nil
}

func (r *Repo) GetUserByID(ctx context.Context, userID int64) (*data.User, error) {
	if err := r.enter("GetUserByID"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.state.users[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return copyUser(u), nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	if err := r.enter("GetUserByEmail"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.state.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *Repo) UpdateUser(ctx context.Context, user *data.User) error {
	if err := r.enter("UpdateUser"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.state.users[user.ID]
	if !ok || stored.Version != user.Version {
		return repository.ErrEditConflict
	}
	for id, u := range r.state.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateRecord
		}
	}
	user.Version++
	r.state.users[user.ID] = copyUser(user)
	return nil
}

func (r *Repo) GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error) {
	if err := r.enter("GetUserForToken"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	hash := sha256.Sum256([]byte(tokenPlaintext))
	for _, t := range r.state.tokens {
		if t.Scope == tokenScope && slices.Equal(t.Hash, hash[:]) && t.Expiry.After(time.Now()) {
			if u, ok := r.state.users[t.UserID]; ok {
				return copyUser(u), nil
			}
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *Repo) CreateNewToken(ctx context.Context, userID int64, ttl time.Duration, scope string) (*data.Token, error) {
	if err := r.enter("CreateNewToken"); err != nil {
		return nil, err
	}
	token, err := repository.GenerateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *token
	r.state.tokens = append(r.state.tokens, &c)
	return token, nil
}

func (r *Repo) DeleteAllTokensForUser(ctx context.Context, scope string, userID int64) error {
	if err := r.enter("DeleteAllTokensForUser"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.tokens = slices.DeleteFunc(r.state.tokens, func(t *data.Token) bool {
		return t.Scope == scope && t.UserID == userID
	})
	return nil
}
