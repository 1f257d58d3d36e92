// Command vpnclient runs the client core: it reads engine status lines,
// records recent connections and optionally serves the debug API.
package main

import (
	"go.uber.org/fx"

	"github.com/and161185/vpnclient/internal/app"
	"github.com/and161185/vpnclient/internal/buildinfo"
	"github.com/and161185/vpnclient/internal/config"
)

func main() {
	buildinfo.PrintBuildInfo()

	cfg := config.NewClientConfig()
	defer func() { _ = cfg.Logger.Sync() }()

	cfg.Logger.Infof("Client config: APIURL=%s, FlagsRefresh=%d, FlagsTTL=%d, RecentsFile=%q, DatabaseDSN set=%t, StatusInput=%q, DebugAddr=%q",
		cfg.APIURL,
		cfg.FlagsRefresh,
		cfg.FlagsTTL,
		cfg.RecentsFile,
		cfg.DatabaseDsn != "",
		cfg.StatusInput,
		cfg.DebugAddr,
	)

	fx.New(app.Module(cfg)).Run()
}
