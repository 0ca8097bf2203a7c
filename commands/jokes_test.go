package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streamchat/errors"

	"github.com/stretchr/testify/require"
)

func TestJokeClient_Random(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/random_ten", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"type":"general","setup":"Why do programmers prefer dark mode?","punchline":"Because light attracts bugs."},
			{"id":2,"type":"general","setup":"Second setup","punchline":"Second punchline"}
		]`))
	}))
	defer server.Close()

	client := NewJokeClient(server.URL, time.Second)
	reply, err := client.Random(context.Background())
	req.NoError(err)
	req.Equal("Why do programmers prefer dark mode?\nBecause light attracts bugs.", reply)
}

func TestJokeClient_ProviderFailures(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "Empty batch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			},
		},
		{
			name: "Garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json at all`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewJokeClient(server.URL, time.Second)
			_, err := client.Random(context.Background())
			req.ErrorIs(err, errors.ErrCommandFailed)
		})
	}
}

func TestJokeClient_UnreachableProvider(t *testing.T) {
	req := require.New(t)

	// Closed immediately so the port refuses connections
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewJokeClient(server.URL, 500*time.Millisecond)
	_, err := client.Random(context.Background())
	req.ErrorIs(err, errors.ErrCommandFailed)
}
