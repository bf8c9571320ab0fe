package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/un-earthly/cookish/pkg/errors"
)

func TestClient_IsReady(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "model pulled",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tags", r.URL.Path)
				w.Write([]byte(`{"models": [{"name": "llama3.2:3b"}, {"name": "mistral:7b"}]}`))
			},
			want: true,
		},
		{
			name: "model not pulled",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"models": [{"name": "mistral:7b"}]}`))
			},
			want: false,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, "llama3.2:3b", time.Second, zap.NewNop())
			assert.Equal(t, tt.want, client.IsReady(context.Background()))
		})
	}
}

func TestClient_IsReady_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "llama3.2:3b", time.Second, zap.NewNop())
	assert.False(t, client.IsReady(context.Background()))
}

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Write([]byte(`{"response": "local model output", "done": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.2:3b", time.Second, zap.NewNop())

	text, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "local model output", text)
}

func TestClient_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.2:3b", time.Second, zap.NewNop())

	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeProviderError))
}
