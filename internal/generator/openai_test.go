package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletionServer отвечает как chat completions endpoint с заданным текстом
func fakeCompletionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream is down","type":"server_error"}}`))
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-3.5-turbo",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestGenerator(srv *httptest.Server) *OpenAIGenerator {
	return NewOpenAIGenerator(Options{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
	})
}

func TestGenerate_ParsesJSONDraft(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusOK, "```json\n"+`{
		"title": "Quantum Computing in 2025",
		"slug": "quantum-computing-2025",
		"metaDescription": "Where quantum computing stands today.",
		"content": "<h2>Intro</h2><p>Qubits everywhere.</p>",
		"ogImage": "https://images.unsplash.com/photo-1",
		"tags": ["Quantum", "Computing"]
	}`+"\n```")

	draft, err := newTestGenerator(srv).Generate(context.Background(), "Quantum Computing")
	require.NoError(t, err)

	assert.Equal(t, "Quantum Computing in 2025", draft.Title)
	assert.Equal(t, "quantum-computing-2025", draft.Slug)
	assert.Equal(t, []string{"Quantum", "Computing"}, draft.Tags)
}

func TestGenerate_FallsBackOnUnparseableResponse(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusOK, "Quantum computers use qubits. They are fast.")

	draft, err := newTestGenerator(srv).Generate(context.Background(), "Quantum Computing")
	require.NoError(t, err)

	assert.Equal(t, "Latest Trends: Quantum Computing", draft.Title)
	assert.Equal(t, "quantum-computing", draft.Slug)
	assert.Equal(t, []string{"quantum-computing"}, draft.Tags)
	assert.Equal(t, PlaceholderImageURL, draft.OgImage)
	assert.Contains(t, draft.MetaDescription, "Quantum Computing")
	assert.Equal(t, "<h2>Quantum Computing</h2><p>Quantum computers use qubits. They are fast.</p>", draft.Content)
}

func TestGenerate_PropagatesUpstreamErrors(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusInternalServerError, "")

	_, err := newTestGenerator(srv).Generate(context.Background(), "Quantum Computing")
	require.Error(t, err)
}

func TestGenerate_MissingKey(t *testing.T) {
	g := NewOpenAIGenerator(Options{})

	_, err := g.Generate(context.Background(), "Quantum Computing")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerate_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewOpenAIGenerator(Options{APIKey: "test-key", BaseURL: url + "/v1"})

	_, err := g.Generate(context.Background(), "Quantum Computing")
	require.Error(t, err)
}
