package clients

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectURL(t *testing.T) {
	url := ObjectURL("market", "eu-west-1", "books/3/abc.jpg")
	assert.Equal(t, "https://market.s3.eu-west-1.amazonaws.com/books/3/abc.jpg", url)

	key, ok := KeyFromObjectURL("market", "eu-west-1", url)
	require.True(t, ok)
	assert.Equal(t, "books/3/abc.jpg", key)

	_, ok = KeyFromObjectURL("market", "eu-west-1", "https://elsewhere.example.com/books/3/abc.jpg")
	assert.False(t, ok)
	_, ok = KeyFromObjectURL("market", "eu-west-1", ObjectURL("market", "eu-west-1", ""))
	assert.False(t, ok)
}

func TestHTTPClientStopsLongRedirectChains(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient().Get(srv.URL + "/a")
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempted redirect")
}
