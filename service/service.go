package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/emzola/bookmarket/config"
	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/internal/activity"
	"github.com/emzola/bookmarket/internal/jsonlog"
	"github.com/emzola/bookmarket/internal/retry"
	"github.com/emzola/bookmarket/repository"
	"github.com/jellydator/ttlcache/v3"
)

type Service interface {
	books
	bookImages
	bookRequests
	categories
	users
	tokens
	activities
	isbnLookup
}

// ObjectStore keeps uploaded book images.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// Mailer sends a templated email.
type Mailer interface {
	Send(recipient, templateFile string, data any) error
}

// service defines the app's service layer.
type service struct {
	config     config.Config
	wg         *sync.WaitGroup
	logger     *jsonlog.Logger
	repo       repository.Repository
	store      ObjectStore
	mailer     Mailer
	activity   activity.Recorder
	retry      retry.Policy
	httpClient *http.Client
	categories *ttlcache.Cache[string, []data.CategorySummary]
}

const categoryCacheTTL = 5 * time.Minute

// New creates a new instance of Service. The retry policy for transactional
// writes is built from cfg.Retry.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, store ObjectStore, mailer Mailer, recorder activity.Recorder, httpClient *http.Client) (*service, error) {
	policy, err := retry.New(
		retry.WithMaxAttempts(cfg.Retry.MaxAttempts),
		retry.WithBaseDelay(cfg.Retry.BaseDelay),
		retry.WithMaxDelay(cfg.Retry.MaxDelay),
		retry.WithJitterFactor(cfg.Retry.JitterFactor),
		retry.WithRetryable(func(err error) bool {
			return errors.Is(err, repository.ErrTransientConflict)
		}),
	)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = activity.Nop{}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &service{
		config:     cfg,
		wg:         wg,
		logger:     logger,
		repo:       repo,
		store:      store,
		mailer:     mailer,
		activity:   recorder,
		retry:      policy,
		httpClient: httpClient,
		categories: ttlcache.New(
			ttlcache.WithTTL[string, []data.CategorySummary](categoryCacheTTL),
		),
	}, nil
}
