package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/emzola/bookmarket/data"
	"github.com/lib/pq"
)

type books interface {
	CreateBook(ctx context.Context, book *data.Book) error
	GetBook(ctx context.Context, bookID int64) (*data.Book, error)
	ListBooks(ctx context.Context, filter data.BookFilter, filters data.Filters) ([]*data.Book, data.Metadata, error)
	ListBooksForUser(ctx context.Context, userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UpdateBook(ctx context.Context, book *data.Book) error
	DeleteBook(ctx context.Context, bookID int64) error
}

var dialect = goqu.Dialect("postgres")

var bookColumns = []any{
	"id", "user_id", "title", "author", "description", "price", "condition", "images",
	"level", "faculty", "year", "class", "type", "address", "latitude", "longitude",
	"status", "created_at", "updated_at", "version",
}

const bookSelect = `
		SELECT id, user_id, title, author, description, price, condition, images,
			level, faculty, year, class, type, address, latitude, longitude,
			status, created_at, updated_at, version
		FROM books`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBook scans a row selected with bookColumns. Extra destinations are
// scanned ahead of the book columns.
func scanBook(row rowScanner, extra ...any) (*data.Book, error) {
	var book data.Book
	dest := append(extra,
		&book.ID,
		&book.UserID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Price,
		&book.Condition,
		pq.Array(&book.Images),
		&book.Category.Level,
		&book.Category.Faculty,
		&book.Category.Year,
		&book.Category.Class,
		&book.Type,
		&book.Location.Address,
		&book.Location.Latitude,
		&book.Location.Longitude,
		&book.Status,
		&book.CreatedAt,
		&book.UpdatedAt,
		&book.Version,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if book.Images == nil {
		book.Images = []string{}
	}
	return &book, nil
}

// CreateBook creates a new book record.
func (r *repository) CreateBook(ctx context.Context, book *data.Book) error {
	query := `
		INSERT INTO books (user_id, title, author, description, price, condition, images,
			level, faculty, year, class, type, address, latitude, longitude, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at, version`
	args := []any{
		book.UserID,
		book.Title,
		book.Author,
		book.Description,
		book.Price,
		book.Condition,
		pq.Array(book.Images),
		book.Category.Level,
		book.Category.Faculty,
		book.Category.Year,
		book.Category.Class,
		book.Type,
		book.Location.Address,
		book.Location.Latitude,
		book.Location.Longitude,
		book.Status,
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt, &book.Version)
}

// GetBook retrieves a book record by its ID.
func (r *repository) GetBook(ctx context.Context, bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := bookSelect + `
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	book, err := scanBook(r.db.QueryRowContext(ctx, query, bookID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// ListBooks retrieves a paginated list of book records matching filter.
func (r *repository) ListBooks(ctx context.Context, filter data.BookFilter, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query, args, err := browseBooksQuery(filter, 0, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return r.queryBooks(ctx, query, args, filters)
}

// ListBooksForUser retrieves a paginated list of the books listed by a user.
func (r *repository) ListBooksForUser(ctx context.Context, userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query, args, err := browseBooksQuery(data.BookFilter{}, userID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return r.queryBooks(ctx, query, args, filters)
}

func (r *repository) queryBooks(ctx context.Context, query string, args []any, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	books := []*data.Book{}
	for rows.Next() {
		book, err := scanBook(rows, &totalRecords)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// browseBooksQuery builds the listing query. Only non-zero filter fields
// become conditions; ownerID restricts the result to one lister when set.
func browseBooksQuery(filter data.BookFilter, ownerID int64, filters data.Filters) (string, []any, error) {
	where := make([]goqu.Expression, 0)
	if ownerID > 0 {
		where = append(where, goqu.C("user_id").Eq(ownerID))
	}
	if filter.Search != "" {
		where = append(where, goqu.L(
			"(to_tsvector('simple', title) || to_tsvector('simple', author) || to_tsvector('simple', description)) @@ plainto_tsquery('simple', ?)",
			filter.Search,
		))
	}
	if filter.Level != "" {
		where = append(where, goqu.C("level").Eq(filter.Level))
	}
	if filter.Faculty != "" {
		where = append(where, goqu.C("faculty").ILike(filter.Faculty))
	}
	if filter.Year > 0 {
		where = append(where, goqu.C("year").Eq(filter.Year))
	}
	if filter.Class > 0 {
		where = append(where, goqu.C("class").Eq(filter.Class))
	}
	if filter.Type != "" {
		where = append(where, goqu.C("type").Eq(filter.Type))
	}
	if filter.Status != "" {
		where = append(where, goqu.C("status").Eq(filter.Status))
	}
	if filter.MinPrice != nil {
		where = append(where, goqu.C("price").Gte(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		where = append(where, goqu.C("price").Lte(*filter.MaxPrice))
	}

	sortColumn := goqu.C(filters.SortColumn())
	order := sortColumn.Asc()
	if filters.SortDirection() == "DESC" {
		order = sortColumn.Desc()
	}
	ds := dialect.From("books").
		Prepared(true).
		Select(append([]any{goqu.L("count(*) OVER()")}, bookColumns...)...).
		Order(order, goqu.C("id").Asc()).
		Limit(uint(filters.Limit())).
		Offset(uint(filters.Offset()))
	if len(where) > 0 {
		ds = ds.Where(where...)
	}
	return ds.ToSQL()
}

// UpdateBook updates a book record, guarded by its version.
func (r *repository) UpdateBook(ctx context.Context, book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, description = $3, price = $4, condition = $5, images = $6,
			level = $7, faculty = $8, year = $9, class = $10, type = $11, address = $12,
			latitude = $13, longitude = $14, status = $15, updated_at = now(), version = version + 1
		WHERE id = $16 AND version = $17
		RETURNING updated_at, version`
	args := []any{
		book.Title,
		book.Author,
		book.Description,
		book.Price,
		book.Condition,
		pq.Array(book.Images),
		book.Category.Level,
		book.Category.Faculty,
		book.Category.Year,
		book.Category.Class,
		book.Type,
		book.Location.Address,
		book.Location.Latitude,
		book.Location.Longitude,
		book.Status,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.UpdatedAt, &book.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteBook deletes a book record. Its requests are removed by cascade.
func (r *repository) DeleteBook(ctx context.Context, bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM books
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, bookID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetBookForUpdate retrieves a book and locks its row until the transaction ends.
func (t *txRepository) GetBookForUpdate(ctx context.Context, bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := bookSelect + `
		WHERE id = $1
		FOR UPDATE`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	book, err := scanBook(t.tx.QueryRowContext(ctx, query, bookID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, classify(err)
		}
	}
	return book, nil
}

// SetBookStatus sets the status of a book inside a transaction.
func (t *txRepository) SetBookStatus(ctx context.Context, bookID int64, status string) error {
	query := `
		UPDATE books
		SET status = $1, updated_at = now(), version = version + 1
		WHERE id = $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	result, err := t.tx.ExecContext(ctx, query, status, bookID)
	if err != nil {
		return classify(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
