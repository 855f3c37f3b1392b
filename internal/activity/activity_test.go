package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, int64(DefaultLimit), ClampLimit(0))
	assert.Equal(t, int64(DefaultLimit), ClampLimit(-3))
	assert.Equal(t, int64(5), ClampLimit(5))
	assert.Equal(t, int64(MaxLimit), ClampLimit(1000))
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	require.NoError(t, r.Record(context.Background(), Entry{UserID: 1, Action: BookCreated}))
	entries, err := r.ListForUser(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestEntryBSONRoundTrip(t *testing.T) {
	in := Entry{
		UserID:    4,
		Action:    RequestAccepted,
		BookID:    9,
		Details:   map[string]string{"customer_id": "12"},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, int64(4), doc["user_id"])
	assert.Equal(t, "request_accepted", doc["action"])

	var out Entry
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}
