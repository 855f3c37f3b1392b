package service

import (
	"context"

	"github.com/emzola/bookmarket/data"
	"github.com/emzola/bookmarket/internal/activity"
)

type activities interface {
	ListActivity(ctx context.Context, actor *data.User, limit int64) ([]activity.Entry, error)
}

// ListActivity service returns the actor's most recent activity, newest first.
func (s *service) ListActivity(ctx context.Context, actor *data.User, limit int64) ([]activity.Entry, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.activity.ListForUser(ctx, actor.ID, activity.ClampLimit(limit))
}
