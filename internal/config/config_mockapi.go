package config

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// MockAPIConfig holds the configuration settings for the mocked backend.
type MockAPIConfig struct {
	Addr    string // Listen address
	Logger  *zap.SugaredLogger
	Toggles map[string]bool // Feature toggles served by /feature/v2/frontend
	LogFile string
}

// NewMockAPIConfig creates and returns a new MockAPIConfig by parsing flags and environment variables.
func NewMockAPIConfig() *MockAPIConfig {
	cfg := &MockAPIConfig{
		Addr:    "localhost:8081",
		Toggles: map[string]bool{},
		LogFile: "mockapi.log",
	}

	var fAddr, fToggles, fLog, fConf strFlag
	fAddr.v = cfg.Addr
	fLog.v = cfg.LogFile
	flag.Var(&fAddr, "a", "HTTP server address")
	flag.Var(&fToggles, "toggles", "feature toggles, e.g. NewCountryList=true,Other=false")
	flag.Var(&fLog, "log", "log file")
	flag.Var(&fConf, "c", "Path to JSON config file")
	flag.Var(&fConf, "config", "Path to JSON config file (alias)")
	flag.Parse()

	cfg.Addr = fAddr.v
	cfg.LogFile = fLog.v
	toggles := fToggles.v

	if fConf.v == "" {
		if v := os.Getenv("CONFIG"); v != "" {
			fConf.v = v
		}
	}
	if fConf.v != "" {
		if js, err := loadJSON[mockAPIJSON](fConf.v); err == nil {
			if js.Address != nil && !fAddr.set {
				cfg.Addr = *js.Address
			}
			if js.Toggles != nil && !fToggles.set {
				toggles = *js.Toggles
			}
			if js.LogFile != nil && !fLog.set {
				cfg.LogFile = *js.LogFile
			}
		} else {
			log.Printf("config file %s ignored: %v", fConf.v, err)
		}
	}

	if addr := os.Getenv("ADDRESS"); addr != "" {
		cfg.Addr = addr
	}
	if v := os.Getenv("TOGGLES"); v != "" {
		toggles = v
	}
	cfg.Toggles = parseToggles(toggles)

	cfg.Logger = newLogger(cfg.LogFile)
	return cfg
}

// parseToggles reads "a=true,b" into {a:true, b:true}. Bad values are logged and skipped.
func parseToggles(s string) map[string]bool {
	out := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, found := strings.Cut(part, "=")
		if !found {
			out[name] = true
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			log.Printf("invalid toggle %q: %v", part, err)
			continue
		}
		out[name] = v
	}
	return out
}
