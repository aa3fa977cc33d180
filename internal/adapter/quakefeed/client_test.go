package quakefeed

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, slog.Default())
}

func TestFetchRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"magnitude":5.5},{"magnitude":"6.1","sig":700}]`)) //nolint:errcheck
	})

	records, err := c.FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"magnitude":5.5}`, string(records[0]))
}

func TestFetchRecords_EmptyCollection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`)) //nolint:errcheck
	})

	records, err := c.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchRecords_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	_, err := c.FetchRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchRecords_MalformedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not":"an array"}`)) //nolint:errcheck
	})

	_, err := c.FetchRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode records")
}

func TestFetchRecords_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`[]`)) //nolint:errcheck
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchRecords(ctx)
	require.Error(t, err)
}
