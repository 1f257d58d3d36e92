// Package featureflags serves the frontend feature toggles fetched from the
// backend as observable values.
package featureflags

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/and161185/vpnclient/internal/metrics"
	"github.com/and161185/vpnclient/internal/observe"
	"github.com/and161185/vpnclient/model"
)

// NewCountryList gates the redesigned country list on the main screen.
const NewCountryList = "NewCountryList"

const cacheKey = "frontend"

type fetcher interface {
	FeatureToggles(ctx context.Context) (model.FeatureToggles, error)
}

// Flags keeps one observable per toggle name. Every toggle is unresolved
// until the first successful fetch; afterwards a toggle missing from the
// response is resolved as disabled.
type Flags struct {
	api     fetcher
	cache   *cache.Cache
	ttl     time.Duration
	logger  *zap.SugaredLogger
	metrics *metrics.Collectors

	refresh sync.Mutex // serializes fetch and publish

	mu     sync.Mutex
	last   map[string]bool // nil until the first successful fetch
	states map[string]*observe.State[model.Toggle]
}

func New(api fetcher, ttl time.Duration, logger *zap.SugaredLogger, m *metrics.Collectors) *Flags {
	return &Flags{
		api:     api,
		cache:   cache.New(ttl, 2*ttl),
		ttl:     ttl,
		logger:  logger,
		metrics: m,
		states:  make(map[string]*observe.State[model.Toggle]),
	}
}

// Toggle returns the observable value of the named toggle.
func (f *Flags) Toggle(name string) observe.Source[model.Toggle] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked(name)
}

func (f *Flags) stateLocked(name string) *observe.State[model.Toggle] {
	if s, ok := f.states[name]; ok {
		return s
	}
	initial := model.ToggleUnresolved
	if f.last != nil {
		initial = model.Toggle{Enabled: f.last[name], Resolved: true}
	}
	s := observe.NewState(initial)
	f.states[name] = s
	return s
}

// Refresh publishes the cached toggles, or fetches them when the cache expired.
// On error the last published values stay in place.
func (f *Flags) Refresh(ctx context.Context) error {
	f.refresh.Lock()
	defer f.refresh.Unlock()

	if enabled, ok := f.cached(); ok {
		f.metrics.TogglesRefreshed("cache", nil)
		f.publish(enabled)
		return nil
	}

	resp, err := f.api.FeatureToggles(ctx)
	f.metrics.TogglesRefreshed("api", err)
	if err != nil {
		return err
	}

	enabled := make(map[string]bool, len(resp.Toggles))
	for _, t := range resp.Toggles {
		enabled[t.Name] = t.Enabled
	}
	if f.ttl > 0 {
		f.cache.Set(cacheKey, enabled, f.ttl)
	}
	f.publish(enabled)
	return nil
}

// Run refreshes right away and then every interval until ctx is done.
func (f *Flags) Run(ctx context.Context, interval time.Duration) {
	f.refreshLogged(ctx)
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f.refreshLogged(ctx)
		}
	}
}

func (f *Flags) refreshLogged(ctx context.Context) {
	if err := f.Refresh(ctx); err != nil && ctx.Err() == nil {
		f.logger.Warnw("feature toggles refresh failed", "error", err)
	}
}

func (f *Flags) cached() (map[string]bool, bool) {
	v, ok := f.cache.Get(cacheKey)
	if !ok {
		return nil, false
	}
	enabled, ok := v.(map[string]bool)
	return enabled, ok
}

// publish must be called with f.refresh held.
func (f *Flags) publish(enabled map[string]bool) {
	f.mu.Lock()
	f.last = enabled
	states := make(map[string]*observe.State[model.Toggle], len(f.states))
	for name, s := range f.states {
		states[name] = s
	}
	f.mu.Unlock()

	for name, s := range states {
		s.Set(model.Toggle{Enabled: enabled[name], Resolved: true})
	}
}
