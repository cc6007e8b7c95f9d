package caption

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestClientFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("v"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"videoId": "dQw4w9WgXcQ",
			"language": "en",
			"segments": [
				{"startMs": "0", "endMs": "1200", "text": "hello"},
				{"text": "Chapter 1"}
			]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	track, err := client.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", track.VideoID)
	assert.Equal(t, "en", track.Language)
	require.Len(t, track.Segments, 2)
	require.NotNil(t, track.Segments[0].StartMs)
	assert.Equal(t, "0", *track.Segments[0].StartMs)
	assert.Nil(t, track.Segments[1].StartMs)
}

func TestClientFetch_NoTranscript(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(Config{APIURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTranscript))
}

func TestClientFetch_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(Config{APIURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoTranscript))
	assert.Contains(t, err.Error(), "502")
}
