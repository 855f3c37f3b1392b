package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/internal/activity"
	"github.com/emzola/bookmarket/repository"
)

// background launches a background goroutine and recovers from panics inside
// the goroutine. It accepts an arbitrary function as a parameter and executes
// the function parameter inside the goroutine.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}

// record appends an entry to the user's activity feed in the background.
func (s *service) record(userID int64, action string, bookID int64, details map[string]string) {
	entry := activity.Entry{
		UserID:    userID,
		Action:    action,
		BookID:    bookID,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	s.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.activity.Record(ctx, entry); err != nil {
			s.logger.PrintError(err, map[string]string{
				"action":  action,
				"user_id": strconv.FormatInt(userID, 10),
			})
		}
	})
}

// notify sends a templated email in the background.
func (s *service) notify(recipient, templateFile string, data map[string]string) {
	s.background(func() {
		if err := s.mailer.Send(recipient, templateFile, data); err != nil {
			s.logger.PrintError(err, map[string]string{"template": templateFile})
		}
	})
}

// firstName returns the first word of a full name.
func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

// getBook retrieves a book and translates a missing record.
func (s *service) getBook(ctx context.Context, bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// getOwnedBook retrieves a book the actor must own.
func (s *service) getOwnedBook(ctx context.Context, actor *data.User, bookID int64) (*data.Book, error) {
	book, err := s.getBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.UserID != actor.ID {
		return nil, ErrNotPermitted
	}
	return book, nil
}

// requireActor rejects calls made without an authenticated user.
func requireActor(actor *data.User) error {
	if actor == nil || actor.IsAnonymous() {
		return ErrAuthenticationRequired
	}
	return nil
}

// fetchRemoteResource fetches data from a remote resource using a HTTP client.
func (s *service) fetchRemoteResource(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()
	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrRecordNotFound
	case res.StatusCode >= 400:
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstreamUnavailable, url, res.StatusCode)
	}
	return io.ReadAll(io.LimitReader(res.Body, 1<<20))
}
