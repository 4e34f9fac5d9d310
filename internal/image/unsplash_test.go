package image

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestResolver(t *testing.T, h http.HandlerFunc) *UnsplashResolver {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	r := NewUnsplashResolver("key", time.Second)
	r.endpoint = srv.URL

	return r
}

func TestResolve_ReturnsRegularURL(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Climate Change", req.URL.Query().Get("query"))
		assert.Equal(t, "key", req.URL.Query().Get("client_id"))
		_, _ = w.Write([]byte(`{"urls":{"regular":"https://images.example.com/climate.jpg"}}`))
	})

	assert.Equal(t, "https://images.example.com/climate.jpg", r.Resolve(context.Background(), "Climate Change"))
}

func TestResolve_FallsBackToDefault(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non 2xx", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}},
		{"missing field", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"urls":{}}`))
		}},
		{"garbage body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
		{"timeout", func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"urls":{"regular":"https://late.example.com"}}`))
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newTestResolver(t, c.handler)
			r.client.Timeout = 50 * time.Millisecond

			assert.Equal(t, DefaultImageURL, r.Resolve(context.Background(), "Climate Change"))
		})
	}
}

func TestResolve_NoKey(t *testing.T) {
	r := NewUnsplashResolver("", time.Second)
	r.endpoint = "http://127.0.0.1:0"

	assert.Equal(t, DefaultImageURL, r.Resolve(context.Background(), "anything"))
}
