// Command mockapi serves a mocked VPN backend for local runs of vpnclient.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/and161185/vpnclient/internal/buildinfo"
	"github.com/and161185/vpnclient/internal/config"
	"github.com/and161185/vpnclient/internal/mockapi"
	"github.com/and161185/vpnclient/model"
)

func main() {
	buildinfo.PrintBuildInfo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.NewMockAPIConfig()
	backend := mockapi.New(cfg.Logger)
	backend.SetToggles(cfg.Toggles)
	backend.SetUser(&model.User{
		ID:       uuid.NewString(),
		Name:     "Local Tester",
		Email:    "tester@localhost",
		PlanName: "vpnplus",
		MaxTier:  2,
	})

	cfg.Logger.Infof("Mock API config: Addr=%s, Toggles=%v", cfg.Addr, cfg.Toggles)

	hs := &http.Server{Addr: cfg.Addr, Handler: backend.Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			cfg.Logger.Errorw("shutdown failed", "error", err)
		}
	}()

	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cfg.Logger.Fatal(err)
	}
}
