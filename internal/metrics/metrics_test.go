package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collectors) string {
	t.Helper()
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestCollectors_Counts(t *testing.T) {
	c := New()
	c.RecentUpserted(nil)
	c.RecentUpserted(nil)
	c.RecentUpserted(errors.New("boom"))
	c.TogglesRefreshed("api", nil)
	c.SetMinimalStateReady(true)
	c.Request("GET", "200")

	body := scrape(t, c)
	require.Contains(t, body, `vpnclient_recents_upserts_total{result="ok"} 2`)
	require.Contains(t, body, `vpnclient_recents_upserts_total{result="error"} 1`)
	require.Contains(t, body, `vpnclient_feature_toggle_refreshes_total{result="ok",source="api"} 1`)
	require.Contains(t, body, `vpnclient_debug_api_requests_total{code="200",method="GET"} 1`)
	require.Contains(t, body, "vpnclient_minimal_state_ready 1")

	c.SetMinimalStateReady(false)
	require.Contains(t, scrape(t, c), "vpnclient_minimal_state_ready 0")
}

func TestCollectors_Nil(t *testing.T) {
	var c *Collectors
	require.NotPanics(t, func() {
		c.RecentUpserted(nil)
		c.TogglesRefreshed("cache", nil)
		c.SetMinimalStateReady(true)
		c.Request("GET", "200")
	})

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCollectors_Handler(t *testing.T) {
	c := New()
	c.RecentUpserted(nil)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `vpnclient_recents_upserts_total{result="ok"} 1`)
}
