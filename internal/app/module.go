package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/and161185/vpnclient/internal/client"
	"github.com/and161185/vpnclient/internal/config"
	"github.com/and161185/vpnclient/internal/featureflags"
	"github.com/and161185/vpnclient/internal/metrics"
	"github.com/and161185/vpnclient/internal/recents"
	"github.com/and161185/vpnclient/internal/server"
	"github.com/and161185/vpnclient/internal/vpn"
	"github.com/and161185/vpnclient/storage"
	"github.com/and161185/vpnclient/storage/bolt"
	"github.com/and161185/vpnclient/storage/inmemory"
	"github.com/and161185/vpnclient/storage/postgres"
)

const stdinInput = "-"

// Module wires the client runtime around cfg.
func Module(cfg *config.ClientConfig) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(func(logger *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Desugar()}
		}),
		fx.Provide(
			func(cfg *config.ClientConfig) *zap.SugaredLogger { return cfg.Logger },
			metrics.New,
			vpn.NewStatusHolder,
			func(h *vpn.StatusHolder) vpn.StatusProvider { return h },
			func(h *vpn.StatusHolder, logger *zap.SugaredLogger) vpn.ConnectionManager {
				return vpn.NewLocalConnectionManager(h, logger)
			},
			client.NewClient,
			newStore,
			newFeatureFlags,
			newMainViewModel,
			newRecorder,
		),
		fx.Invoke(
			runRecorder,
			runFeatureFlags,
			watchReadiness,
			runDebugAPI,
			runStatusInput,
		),
	)
}

func newStore(lc fx.Lifecycle, cfg *config.ClientConfig) (storage.RecentsStore, error) {
	var (
		store storage.RecentsStore
		err   error
	)
	switch {
	case cfg.DatabaseDsn != "":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer cancel()
		store, err = postgres.NewPostgresStorage(ctx, cfg.DatabaseDsn)
	case cfg.RecentsFile != "":
		store, err = bolt.NewBoltStorage(cfg.RecentsFile)
	default:
		store = inmemory.NewMemStorage()
	}
	if err != nil {
		return nil, fmt.Errorf("open recents store: %w", err)
	}
	lc.Append(fx.StopHook(store.Close))
	return store, nil
}

func newFeatureFlags(api *client.Client, cfg *config.ClientConfig, logger *zap.SugaredLogger, m *metrics.Collectors) *featureflags.Flags {
	return featureflags.New(api, time.Duration(cfg.FlagsTTL)*time.Second, logger, m)
}

func newMainViewModel(p vpn.StatusProvider, conn vpn.ConnectionManager, flags *featureflags.Flags) *MainViewModel {
	return NewMainViewModel(vpn.ViewStateFlow(p), conn, flags.Toggle(featureflags.NewCountryList))
}

func newRecorder(p vpn.StatusProvider, store storage.RecentsStore, cfg *config.ClientConfig, logger *zap.SugaredLogger, m *metrics.Collectors) *recents.Recorder {
	clock := func() int64 { return time.Now().UnixMilli() }
	return recents.NewRecorder(p, store, clock, logger,
		recents.WithQueueSize(cfg.RecentsQueue),
		recents.WithMetrics(m),
	)
}

func runRecorder(lc fx.Lifecycle, r *recents.Recorder) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return r.Start(ctx) },
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() { r.Wait(); close(done) }()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return fmt.Errorf("recents recorder: %w", stopCtx.Err())
			}
		},
	})
}

func runFeatureFlags(lc fx.Lifecycle, flags *featureflags.Flags, cfg *config.ClientConfig) {
	interval := time.Duration(cfg.FlagsRefresh) * time.Second
	background(lc, func(ctx context.Context) error {
		flags.Run(ctx, interval)
		return nil
	})
}

// watchReadiness keeps the readiness gate subscribed for the life of the
// app and mirrors it to the gauge.
func watchReadiness(lc fx.Lifecycle, vm *MainViewModel, m *metrics.Collectors, logger *zap.SugaredLogger) {
	var detach func()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var once sync.Once
			detach = vm.MinimalStateReady().Subscribe(func(ready bool) {
				m.SetMinimalStateReady(ready)
				if ready {
					once.Do(func() {
						logger.Infow("minimal state ready", "view", vm.VpnStateView().Value().Kind)
					})
				}
			})
			return nil
		},
		OnStop: func(context.Context) error {
			if detach != nil {
				detach()
			}
			return nil
		},
	})
}

func runDebugAPI(
	lc fx.Lifecycle,
	cfg *config.ClientConfig,
	p vpn.StatusProvider,
	store storage.RecentsStore,
	vm *MainViewModel,
	m *metrics.Collectors,
	logger *zap.SugaredLogger,
) {
	if cfg.DebugAddr == "" {
		return
	}
	srv := server.NewServer(server.Deps{
		Status:    p,
		Recents:   store,
		Connector: vm,
		Readiness: vm,
		Metrics:   m,
	}, cfg.DebugAddr, cfg.DebugTrusted, logger)
	background(lc, func(ctx context.Context) error {
		logger.Infow("debug api listening", "addr", cfg.DebugAddr)
		if err := srv.Run(ctx); err != nil {
			logger.Errorw("debug api stopped", "error", err)
			return err
		}
		return nil
	})
}

// runStatusInput feeds status lines into the holder and shuts the app down
// once the input ends.
func runStatusInput(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.ClientConfig, h *vpn.StatusHolder, logger *zap.SugaredLogger) error {
	if cfg.StatusInput == "" {
		return nil
	}
	r := os.Stdin
	if cfg.StatusInput != stdinInput {
		f, err := os.Open(cfg.StatusInput)
		if err != nil {
			return fmt.Errorf("open status input: %w", err)
		}
		r = f
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				err := vpn.ReadStatusLines(ctx, r, h)
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					logger.Errorw("status input failed", "error", err)
				} else {
					logger.Infow("status input closed")
				}
				if err := sd.Shutdown(); err != nil {
					logger.Errorw("shutdown failed", "error", err)
				}
			}()
			return nil
		},
		// A blocked read is not waited for; closing the input unblocks it
		// where the platform allows.
		OnStop: func(context.Context) error {
			cancel()
			_ = r.Close()
			return nil
		},
	})
	return nil
}

// background runs fn from OnStart until OnStop cancels its context.
func background(lc fx.Lifecycle, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				_ = fn(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
