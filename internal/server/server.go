// Package server implements the local debug API of the client.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/and161185/vpnclient/internal/errs"
	"github.com/and161185/vpnclient/internal/metrics"
	"github.com/and161185/vpnclient/internal/server/middleware"
	"github.com/and161185/vpnclient/internal/vpn"
	"github.com/and161185/vpnclient/model"
)

const shutdownTimeout = 5 * time.Second

type Recents interface {
	GetRecents(ctx context.Context, limit int) ([]model.RecentConnection, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type Connector interface {
	Connect(ctx context.Context, ui vpn.UIDelegate, intent model.AnyConnectIntent, trigger vpn.ConnectTrigger) error
}

type Readiness interface {
	IsMinimalStateReady() bool
}

// Deps are the parts of the client the debug API reads from and drives.
type Deps struct {
	Status    vpn.StatusProvider
	Recents   Recents
	Connector Connector
	Readiness Readiness
	Metrics   *metrics.Collectors
}

type Server struct {
	deps    Deps
	addr    string
	trusted string
	logger  *zap.SugaredLogger
}

func NewServer(deps Deps, addr, trusted string, logger *zap.SugaredLogger) *Server {
	return &Server{deps: deps, addr: addr, trusted: trusted, logger: logger}
}

// Router builds the debug API routes.
func (srv *Server) Router() (http.Handler, error) {
	trusted, err := middleware.TrustedCIDR(srv.trusted)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(chiMiddleware.StripSlashes)
	router.Use(trusted)
	router.Use(middleware.MetricsMiddleware(srv.deps.Metrics))
	router.Use(middleware.LogMiddleware(srv.logger))
	router.Use(middleware.DecompressMiddleware)
	router.Use(middleware.CompressMiddleware)

	router.Get("/ping", srv.PingHandler)
	router.Get("/status", srv.StatusHandler)
	router.Get("/recents", srv.ListRecentsHandler)
	router.Delete("/recents/{id}", srv.DeleteRecentHandler)
	router.Post("/connect", srv.ConnectHandler)
	router.Method(http.MethodGet, "/metrics", srv.deps.Metrics.Handler())
	return router, nil
}

// Run serves until ctx is done, then shuts down gracefully.
func (srv *Server) Run(ctx context.Context) error {
	router, err := srv.Router()
	if err != nil {
		return err
	}
	hs := &http.Server{Addr: srv.addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("debug api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("debug api shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (srv *Server) PingHandler(w http.ResponseWriter, r *http.Request) {
	if err := srv.deps.Recents.Ping(r.Context()); err != nil {
		srv.logger.Errorw("recents store ping failed", "error", err)
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type statusResponse struct {
	Status            model.VpnStatus          `json:"status"`
	View              model.VpnStatusViewState `json:"view"`
	MinimalStateReady bool                     `json:"minimal_state_ready"`
}

func (srv *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := srv.deps.Status.Status().Value()
	srv.writeJSON(w, http.StatusOK, statusResponse{
		Status:            status,
		View:              vpn.ToViewState(status),
		MinimalStateReady: srv.deps.Readiness.IsMinimalStateReady(),
	})
}

func (srv *Server) ListRecentsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = v
	}

	rows, err := srv.deps.Recents.GetRecents(r.Context(), limit)
	if err != nil {
		srv.logger.Errorw("failed to list recents", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []model.RecentConnection{}
	}
	srv.writeJSON(w, http.StatusOK, rows)
}

func (srv *Server) DeleteRecentHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := srv.deps.Recents.Delete(r.Context(), id)
	switch {
	case errors.Is(err, errs.ErrRecentNotFound):
		http.NotFound(w, r)
	case err != nil:
		srv.logger.Errorw("failed to delete recent", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (srv *Server) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
		return
	}

	var intent model.ConnectIntent
	if err = json.NewDecoder(r.Body).Decode(&intent); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	err = srv.deps.Connector.Connect(r.Context(), grantingUI{}, intent, vpn.TriggerDebugAPI)
	switch {
	case errors.Is(err, errs.ErrInvalidIntent):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		srv.logger.Errorw("connect failed", "intent", intent.Key(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}

func (srv *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.logger.Errorw("failed to write response JSON", "error", err)
	}
}

// grantingUI answers the permission prompt for requests made over the debug API.
type grantingUI struct{}

func (grantingUI) AskForPermission(context.Context) (bool, error) { return true, nil }
