package trending

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servePage(t *testing.T, status int, body string) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv.URL
}

func TestPageBackend_Fetch(t *testing.T) {
	url := servePage(t, http.StatusOK, `<html><body>
		<div data-entity-type="QUERY"><a href="/q/1">  Mars   Rover </a></div>
		<div data-entity-type="QUERY"><a href="/q/2">Election Results</a></div>
		<div data-entity-type="QUERY"><a href="/q/3"></a></div>
		<div data-entity-type="OTHER"><a href="/q/4">Ignored</a></div>
	</body></html>`)

	b := NewPageBackend(url, `[data-entity-type="QUERY"] a`, time.Second)

	got, err := b.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Mars Rover", "Election Results"}, titles(got))
	assert.Equal(t, "/q/1", got[0].URL)
	assert.Equal(t, "Trending topic #2", got[1].Description)
}

func TestPageBackend_Errors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		b := NewPageBackend(servePage(t, http.StatusTooManyRequests, ""), "a", time.Second)
		_, err := b.Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("nothing matched", func(t *testing.T) {
		b := NewPageBackend(servePage(t, http.StatusOK, "<html><p>empty</p></html>"), "a", time.Second)
		_, err := b.Fetch(context.Background())
		assert.Error(t, err)
	})
}
