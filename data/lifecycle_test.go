package data

import (
	"testing"

	"github.com/emzola/bookmarket/internal/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookLifecycle(t *testing.T) {
	tests := []struct {
		from  string
		event BookEvent
		want  string
		ok    bool
	}{
		{BookAvailable, EventRequest, BookRequested, true},
		{BookAvailable, EventReserve, BookReserved, true},
		{BookRequested, EventReserve, BookReserved, true},
		{BookRequested, EventRelease, BookAvailable, true},
		{BookReserved, EventSell, BookSold, true},
		{BookReserved, EventExchange, BookExchanged, true},
		{BookAvailable, EventSell, "", false},
		{BookReserved, EventReserve, "", false},
		{BookReserved, EventRelease, "", false},
		{BookSold, EventRelease, "", false},
		{BookExchanged, EventRequest, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"/"+string(tt.event), func(t *testing.T) {
			got, err := BookLifecycle.Fire(tt.from, tt.event)
			if !tt.ok {
				assert.ErrorIs(t, err, fsm.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.True(t, BookLifecycle.Terminal(BookSold))
	assert.True(t, BookLifecycle.Terminal(BookExchanged))
	assert.ElementsMatch(t, BookStatuses, BookLifecycle.States())
}

func TestOwnerBookEvent(t *testing.T) {
	_, ok := OwnerBookEvent(BookReserved)
	assert.False(t, ok)

	for _, target := range []string{BookAvailable, BookRequested, BookSold, BookExchanged} {
		event, ok := OwnerBookEvent(target)
		require.True(t, ok, target)
		assert.NotEqual(t, EventReserve, event)
	}
}

func TestRequestLifecycle(t *testing.T) {
	got, err := RequestLifecycle.Fire(RequestPending, EventAccept)
	require.NoError(t, err)
	assert.Equal(t, RequestAccepted, got)

	got, err = RequestLifecycle.Fire(RequestPending, EventCancel)
	require.NoError(t, err)
	assert.Equal(t, RequestCancelled, got)

	for _, terminal := range []string{RequestAccepted, RequestRejected} {
		assert.True(t, RequestLifecycle.Terminal(terminal))
		for _, e := range []RequestEvent{EventAccept, EventReject, EventCancel} {
			_, err := RequestLifecycle.Fire(terminal, e)
			assert.ErrorIs(t, err, fsm.ErrInvalidTransition)
		}
	}

	event, ok := DecisionEvent(RequestRejected)
	assert.True(t, ok)
	assert.Equal(t, EventReject, event)
	_, ok = DecisionEvent(RequestPending)
	assert.False(t, ok)
}

func TestNewBookRequestSnapshotsParties(t *testing.T) {
	book := validBook()
	book.ID = 7
	owner := &User{ID: 1, Name: "Ada", Email: "ada@example.com", Phone: "+2348000000001"}
	customer := &User{ID: 2, Name: "Grace", Email: "grace@example.com"}

	r := NewBookRequest(book, owner, customer)

	assert.Equal(t, int64(7), r.BookID)
	assert.Equal(t, int64(1), r.OwnerID)
	assert.Equal(t, int64(2), r.CustomerID)
	assert.Equal(t, RequestPending, r.Status)
	assert.Equal(t, book.Title, r.BookTitle)
	assert.Equal(t, book.Price, r.BookPrice)
	assert.Equal(t, book.Images[0], r.BookImage)
	assert.Equal(t, BookAvailable, r.BookStatus)
	assert.Equal(t, "+2348000000001", r.OwnerPhone)
	assert.Equal(t, "grace@example.com", r.CustomerEmail)
}
