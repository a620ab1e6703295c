package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("  Bins go out Monday.  ")))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "when are bins collected", "\n")
	require.NoError(t, err)
	assert.Equal(t, "Bins go out Monday.", got, "reply is trimmed")
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "when are bins collected", gotReq.Messages[0].Content)
	assert.Equal(t, []string{"\n"}, gotReq.Stop)
}

func TestCompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, "I encountered an API error. Please try again.", FailureText(err))
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrStatus)
}

func TestCompleteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k", Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "The request timed out. Please try again.", FailureText(err))
}

func TestCompleteContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Complete(ctx, "hello")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "A connection error occurred. Please try again.", FailureText(err))
}

func TestFailureTextDefault(t *testing.T) {
	assert.Equal(t, "I hit an unexpected error. Please try again.", FailureText(assert.AnError))
}
