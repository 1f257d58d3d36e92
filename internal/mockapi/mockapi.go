// Package mockapi is a mocked VPN backend for tests and local runs.
package mockapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/and161185/vpnclient/internal/server/middleware"
	"github.com/and161185/vpnclient/model"
)

const (
	codeOK           = 1000
	codeUnauthorized = 401
)

type errorBody struct {
	Code  int    `json:"Code"`
	Error string `json:"Error"`
}

// Backend serves the feature toggles and the current user. It is safe for
// concurrent use; tests change its state while a client polls it.
type Backend struct {
	logger *zap.SugaredLogger

	mu      sync.Mutex
	toggles map[string]bool
	user    *model.User
	hits    map[string]int
}

func New(logger *zap.SugaredLogger) *Backend {
	return &Backend{
		logger:  logger,
		toggles: map[string]bool{},
		hits:    map[string]int{},
	}
}

func (b *Backend) SetToggle(name string, enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toggles[name] = enabled
}

// SetToggles replaces every toggle.
func (b *Backend) SetToggles(toggles map[string]bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toggles = make(map[string]bool, len(toggles))
	for k, v := range toggles {
		b.toggles[k] = v
	}
}

// SetUser logs u in; nil logs out.
func (b *Backend) SetUser(u *model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u == nil {
		b.user = nil
		return
	}
	cp := *u
	b.user = &cp
}

// Hits returns how many times path was requested.
func (b *Backend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *Backend) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.LogMiddleware(b.logger))
	r.Use(middleware.CompressMiddleware)
	r.Use(b.count)

	r.Get("/feature/v2/frontend", b.FeatureTogglesHandler)
	r.Get("/core/v4/users", b.UserHandler)
	return r
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.URL.Path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) FeatureTogglesHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	resp := model.FeatureToggles{Code: codeOK, Toggles: make([]model.FeatureToggle, 0, len(b.toggles))}
	for name, enabled := range b.toggles {
		resp.Toggles = append(resp.Toggles, model.FeatureToggle{Name: name, Enabled: enabled})
	}
	b.mu.Unlock()

	sort.Slice(resp.Toggles, func(i, j int) bool { return resp.Toggles[i].Name < resp.Toggles[j].Name })
	b.writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) UserHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	u := b.user
	b.mu.Unlock()

	if u == nil {
		b.writeJSON(w, http.StatusUnauthorized, errorBody{Code: codeUnauthorized, Error: "not logged in"})
		return
	}
	b.writeJSON(w, http.StatusOK, model.UserResponse{Code: codeOK, User: *u})
}

func (b *Backend) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.logger.Errorw("failed to write response JSON", "error", err)
	}
}
