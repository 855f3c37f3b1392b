package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/internal/validator"
	"github.com/gabriel-vasile/mimetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type bookImages interface {
	AddBookImage(ctx context.Context, actor *data.User, bookID int64, file io.Reader) (*data.Book, error)
	DeleteBookImage(ctx context.Context, actor *data.User, bookID int64, url string) (*data.Book, error)
}

// AddBookImage service uploads an image and appends it to the book's gallery.
func (s *service) AddBookImage(ctx context.Context, actor *data.User, bookID int64, file io.Reader) (*data.Book, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	book, err := s.getOwnedBook(ctx, actor, bookID)
	if err != nil {
		return nil, err
	}
	if len(book.Images) >= data.MaxBookImages {
		return nil, ErrTooManyImages
	}
	buffer, err := io.ReadAll(io.LimitReader(file, data.MaxImageSize+1))
	if err != nil {
		return nil, ErrBadRequest
	}
	if len(buffer) > data.MaxImageSize {
		return nil, ErrContentTooLarge
	}
	mtype := mimetype.Detect(buffer)
	if !validator.Mime(mtype, data.ImageMimeTypes...) {
		return nil, ErrUnsupportedMediaType
	}
	key, err := imageKey(actor.ID, mtype.Extension())
	if err != nil {
		return nil, err
	}
	url, err := s.store.Upload(ctx, key, bytes.NewReader(buffer), mtype.String())
	if err != nil {
		return nil, err
	}
	book.Images = append(book.Images, url)
	if err := s.updateBook(ctx, book); err != nil {
		s.deleteImages(url)
		return nil, err
	}
	return book, nil
}

// DeleteBookImage service removes an image from the book's gallery and from object storage.
func (s *service) DeleteBookImage(ctx context.Context, actor *data.User, bookID int64, url string) (*data.Book, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	book, err := s.getOwnedBook(ctx, actor, bookID)
	if err != nil {
		return nil, err
	}
	i := slices.Index(book.Images, url)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	book.Images = slices.Delete(book.Images, i, i+1)
	if err := s.updateBook(ctx, book); err != nil {
		return nil, err
	}
	s.deleteImages(url)
	return book, nil
}

// imageKey derives the object key of a new image: books/<userID>/<nanoid><ext>.
func imageKey(userID int64, ext string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return fmt.Sprintf("books/%d/%s%s", userID, id, ext), nil
}

// deleteImages removes stored images in the background. URLs that do not
// belong to the store are skipped.
func (s *service) deleteImages(urls ...string) {
	if len(urls) == 0 {
		return
	}
	s.background(func() {
		for _, url := range urls {
			key, ok := s.store.KeyFromURL(url)
			if !ok {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := s.store.Delete(ctx, key)
			cancel()
			if err != nil {
				s.logger.PrintError(err, map[string]string{"key": key})
			}
		}
	})
}
