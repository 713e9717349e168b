package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(generateResponse{Response: "the answer", Done: true})
	}))
	defer srv.Close()

	c := New(srv.URL, "gpt-oss:120b-cloud")

	out, err := c.Generate(context.Background(), "why?")
	require.NoError(t, err)
	require.Equal(t, "the answer", out)

	require.Equal(t, "gpt-oss:120b-cloud", got.Model)
	require.Equal(t, "why?", got.Prompt)
	require.False(t, got.Stream)
	require.Equal(t, 0.3, got.Options.Temperature)
	require.Equal(t, 0.9, got.Options.TopP)
}

func TestGenerateErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "missing")

	_, err := c.Generate(context.Background(), "q")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=404")
}

func TestPing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "m")
	require.NoError(t, c.Ping(context.Background()))
}

func TestPingUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, "m")
	require.Error(t, c.Ping(context.Background()))
}
