package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/and161185/vpnclient/internal/errs"
	"github.com/and161185/vpnclient/internal/metrics"
	"github.com/and161185/vpnclient/internal/vpn"
	vpnmocks "github.com/and161185/vpnclient/internal/vpn/mocks"
	"github.com/and161185/vpnclient/model"
	"github.com/and161185/vpnclient/storage/inmemory"
	storemocks "github.com/and161185/vpnclient/storage/mocks"
)

type readiness bool

func (r readiness) IsMinimalStateReady() bool { return bool(r) }

var ch = model.ConnectIntent{Kind: model.IntentCountry, ExitCountry: "CH"}

type testServer struct {
	handler http.Handler
	holder  *vpn.StatusHolder
	store   *inmemory.MemStorage
	conn    *vpnmocks.MockConnectionManager
}

func newTestServer(t *testing.T, trusted string) testServer {
	t.Helper()
	ts := testServer{
		holder: vpn.NewStatusHolder(),
		store:  inmemory.NewMemStorage(),
		conn:   vpnmocks.NewMockConnectionManager(gomock.NewController(t)),
	}
	srv := NewServer(Deps{
		Status:    ts.holder,
		Recents:   ts.store,
		Connector: ts.conn,
		Readiness: readiness(true),
		Metrics:   metrics.New(),
	}, "", trusted, zap.NewNop().Sugar())
	h, err := srv.Router()
	require.NoError(t, err)
	ts.handler = h
	return ts
}

func (ts testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestStatusHandler(t *testing.T) {
	ts := newTestServer(t, "")
	ts.holder.Update(model.VpnStatus{State: model.StateConnected, ConnectIntent: ch, Server: "CH#1"})

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got statusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, model.StateConnected, got.Status.State)
	require.Equal(t, ch, got.Status.ConnectIntent)
	require.Equal(t, model.VpnStatusViewState{Kind: model.ViewConnected, Country: "CH", Server: "CH#1"}, got.View)
	require.True(t, got.MinimalStateReady)
}

func TestRecentsHandlers(t *testing.T) {
	ts := newTestServer(t, "")
	ctx := context.Background()
	se := model.ConnectIntent{Kind: model.IntentCountry, ExitCountry: "SE"}
	require.NoError(t, ts.store.InsertOrUpdateForConnection(ctx, ch, 1))
	require.NoError(t, ts.store.InsertOrUpdateForConnection(ctx, se, 2))

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/recents/", nil)) // trailing slash stripped
	require.Equal(t, http.StatusOK, rr.Code)
	var rows []model.RecentConnection
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, se, rows[0].ConnectIntent)

	rr = ts.do(httptest.NewRequest(http.MethodGet, "/recents?limit=1", nil))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 1)

	rr = ts.do(httptest.NewRequest(http.MethodGet, "/recents?limit=-1", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(httptest.NewRequest(http.MethodDelete, "/recents/"+rows[0].ID, nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = ts.do(httptest.NewRequest(http.MethodDelete, "/recents/"+rows[0].ID, nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListRecents_EmptyIsArray(t *testing.T) {
	ts := newTestServer(t, "")
	rr := ts.do(httptest.NewRequest(http.MethodGet, "/recents", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())
}

func TestRecentsHandlers_StoreErrors(t *testing.T) {
	store := storemocks.NewMockRecentsStore(gomock.NewController(t))
	store.EXPECT().GetRecents(gomock.Any(), 0).Return(nil, errors.New("db down"))
	store.EXPECT().Delete(gomock.Any(), "x").Return(errors.New("db down"))
	store.EXPECT().Ping(gomock.Any()).Return(errors.New("db down"))

	srv := NewServer(Deps{Recents: store}, "", "", zap.NewNop().Sugar())
	h, err := srv.Router()
	require.NoError(t, err)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/recents", nil),
		httptest.NewRequest(http.MethodDelete, "/recents/x", nil),
		httptest.NewRequest(http.MethodGet, "/ping", nil),
	} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		require.Equal(t, http.StatusInternalServerError, rr.Code, req.URL.Path)
	}
}

func TestConnectHandler(t *testing.T) {
	ts := newTestServer(t, "")
	ts.conn.EXPECT().Connect(gomock.Any(), gomock.Any(), ch, vpn.TriggerDebugAPI).Return(nil).Times(3)

	for _, contentType := range []string{"application/json", "application/json; charset=utf-8", "Application/JSON"} {
		t.Run(contentType, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/connect", bytes.NewBufferString(`{"kind":"country","exit_country":"CH"}`))
			req.Header.Set("Content-Type", contentType)
			require.Equal(t, http.StatusAccepted, ts.do(req).Code)
		})
	}
}

func TestConnectHandler_Errors(t *testing.T) {
	ts := newTestServer(t, "")
	ts.conn.EXPECT().Connect(gomock.Any(), gomock.Any(), gomock.Any(), vpn.TriggerDebugAPI).
		Return(fmt.Errorf("connect: %w", errs.ErrInvalidIntent))

	tests := []struct {
		name        string
		contentType string
		body        string
		want        int
	}{
		{"wrong content type", "text/plain", `{}`, http.StatusUnsupportedMediaType},
		{"missing content type", "", `{}`, http.StatusUnsupportedMediaType},
		{"malformed content type", "application/json; charset", `{}`, http.StatusUnsupportedMediaType},
		{"bad json", "application/json", `{`, http.StatusBadRequest},
		{"invalid intent", "application/json", `{"kind":"server"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/connect", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			require.Equal(t, tt.want, ts.do(req).Code)
		})
	}
}

func TestConnectHandler_WithLocalManager(t *testing.T) {
	holder := vpn.NewStatusHolder()
	srv := NewServer(Deps{
		Status:    holder,
		Connector: vpn.NewLocalConnectionManager(holder, zap.NewNop().Sugar()),
	}, "", "", zap.NewNop().Sugar())
	h, err := srv.Router()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/connect", bytes.NewBufferString(`{"kind":"fastest"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Equal(t, model.StateConnecting, holder.Current().State)
}

func TestPingAndMetrics(t *testing.T) {
	ts := newTestServer(t, "")
	require.Equal(t, http.StatusOK, ts.do(httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)

	rr := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `vpnclient_debug_api_requests_total{code="200",method="GET"} 1`)
}

func TestRouter_TrustedSubnet(t *testing.T) {
	ts := newTestServer(t, "127.0.0.0/8")
	req := httptest.NewRequest(http.MethodGet, "/ping", nil) // from 192.0.2.1
	require.Equal(t, http.StatusForbidden, ts.do(req).Code)

	req.RemoteAddr = "127.0.0.1:5000"
	require.Equal(t, http.StatusOK, ts.do(req).Code)

	_, err := NewServer(Deps{}, "", "bogus", zap.NewNop().Sugar()).Router()
	require.Error(t, err)
}

func TestRun_GracefulShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := NewServer(Deps{Recents: inmemory.NewMemStorage()}, addr, "", zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second * 6):
		t.Fatal("server did not stop")
	}
}
