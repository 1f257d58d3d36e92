// Package config provides application configuration structures and helpers.
package config

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ClientConfig holds the configuration settings for the vpnclient runtime.
type ClientConfig struct {
	APIURL        string // Backend base URL
	Logger        *zap.SugaredLogger
	ClientTimeout int    // HTTP client timeout (in seconds)
	FlagsRefresh  int    // Interval between feature toggle refreshes (in seconds)
	FlagsTTL      int    // Lifetime of cached feature toggles (in seconds)
	DatabaseDsn   string // PostgreSQL DSN for recent connections, wins over RecentsFile
	RecentsFile   string // bbolt file for recent connections, empty keeps them in memory
	RecentsQueue  int    // Writes that may wait for the recents store
	StatusInput   string // File with JSON status lines, "-" is stdin
	DebugAddr     string // Debug API listen address, empty disables it
	DebugTrusted  string // CIDR allowed to call the debug API, empty allows all
	LogFile       string // Extra log output next to stdout
}

// Timeout returns ClientTimeout as a duration.
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.ClientTimeout) * time.Second
}

// NewClientConfig creates and returns a new ClientConfig by parsing flags and environment variables.
func NewClientConfig() *ClientConfig {
	// 0) defaults
	cfg := &ClientConfig{
		APIURL:        "http://localhost:8081",
		ClientTimeout: 10,
		FlagsRefresh:  600,
		FlagsTTL:      300,
		RecentsFile:   "./tmp/recents.db",
		RecentsQueue:  16,
		StatusInput:   "-",
		DebugTrusted:  "127.0.0.0/8",
		LogFile:       "vpnclient.log",
	}

	// 1) flags
	var fAPI, fDSN, fFile, fStatus, fDebug, fTrusted, fLog, fConf strFlag
	var fTO, fRefresh, fTTL, fQueue intFlag
	flag.Var(&fAPI, "a", "backend API URL (must include http(s)://)")
	flag.Var(&fTO, "t", "client timeout (seconds)")
	flag.Var(&fRefresh, "r", "feature toggle refresh interval (seconds)")
	flag.Var(&fTTL, "ttl", "feature toggle cache TTL (seconds)")
	flag.Var(&fDSN, "d", "DB connection string for recents")
	flag.Var(&fFile, "f", "path to recents file")
	flag.Var(&fQueue, "q", "recents write queue size")
	flag.Var(&fStatus, "s", "status input file, - for stdin")
	flag.Var(&fDebug, "debug", "debug API address, empty to disable")
	flag.Var(&fTrusted, "debug-trusted", "CIDR allowed to call the debug API")
	flag.Var(&fLog, "log", "log file")
	flag.Var(&fConf, "c", "Path to JSON config file")
	flag.Var(&fConf, "config", "Path to JSON config file (alias)")
	flag.Parse()

	if fAPI.set {
		cfg.APIURL = fAPI.v
	}
	if fTO.set {
		cfg.ClientTimeout = fTO.v
	}
	if fRefresh.set {
		cfg.FlagsRefresh = fRefresh.v
	}
	if fTTL.set {
		cfg.FlagsTTL = fTTL.v
	}
	if fDSN.set {
		cfg.DatabaseDsn = fDSN.v
	}
	if fFile.set {
		cfg.RecentsFile = fFile.v
	}
	if fQueue.set {
		cfg.RecentsQueue = fQueue.v
	}
	if fStatus.set {
		cfg.StatusInput = fStatus.v
	}
	if fDebug.set {
		cfg.DebugAddr = fDebug.v
	}
	if fTrusted.set {
		cfg.DebugTrusted = fTrusted.v
	}
	if fLog.set {
		cfg.LogFile = fLog.v
	}

	// 2) JSON (lowest priority)
	if fConf.v == "" {
		if v := os.Getenv("CONFIG"); v != "" {
			fConf.v = v
		}
	}
	if fConf.v != "" {
		if js, err := loadJSON[clientJSON](fConf.v); err == nil {
			applyClientJSON(cfg, js, clientFlags{
				api: fAPI.set, timeout: fTO.set, refresh: fRefresh.set, ttl: fTTL.set,
				dsn: fDSN.set, file: fFile.set, queue: fQueue.set, status: fStatus.set,
				debug: fDebug.set, trusted: fTrusted.set, log: fLog.set,
			})
		} else {
			log.Printf("config file %s ignored: %v", fConf.v, err)
		}
	}

	// 3) env
	readClientEnvironment(cfg)

	// normalize address
	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		cfg.APIURL = "http://" + cfg.APIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	cfg.Logger = newLogger(cfg.LogFile)
	return cfg
}

type clientFlags struct {
	api, timeout, refresh, ttl, dsn, file, queue, status, debug, trusted, log bool
}

func applyClientJSON(cfg *ClientConfig, js *clientJSON, set clientFlags) {
	if js.APIURL != nil && !set.api {
		cfg.APIURL = *js.APIURL
	}
	if js.ClientTimeout != nil && !set.timeout {
		if sec, err := parseDurationSeconds(*js.ClientTimeout); err == nil {
			cfg.ClientTimeout = sec
		}
	}
	if js.FlagsRefresh != nil && !set.refresh {
		if sec, err := parseDurationSeconds(*js.FlagsRefresh); err == nil {
			cfg.FlagsRefresh = sec
		}
	}
	if js.FlagsTTL != nil && !set.ttl {
		if sec, err := parseDurationSeconds(*js.FlagsTTL); err == nil {
			cfg.FlagsTTL = sec
		}
	}
	if js.DatabaseDSN != nil && !set.dsn {
		cfg.DatabaseDsn = *js.DatabaseDSN
	}
	if js.RecentsFile != nil && !set.file {
		cfg.RecentsFile = *js.RecentsFile
	}
	if js.RecentsQueue != nil && !set.queue {
		cfg.RecentsQueue = *js.RecentsQueue
	}
	if js.StatusInput != nil && !set.status {
		cfg.StatusInput = *js.StatusInput
	}
	if js.DebugAddr != nil && !set.debug {
		cfg.DebugAddr = *js.DebugAddr
	}
	if js.DebugTrusted != nil && !set.trusted {
		cfg.DebugTrusted = *js.DebugTrusted
	}
	if js.LogFile != nil && !set.log {
		cfg.LogFile = *js.LogFile
	}
}

func readClientEnvironment(cfg *ClientConfig) {
	if v := os.Getenv("API_URL"); v != "" {
		cfg.APIURL = v
	}

	readIntEnv("CLIENT_TIMEOUT", &cfg.ClientTimeout)
	readIntEnv("FLAGS_REFRESH_INTERVAL", &cfg.FlagsRefresh)
	readIntEnv("FLAGS_TTL", &cfg.FlagsTTL)
	readIntEnv("RECENTS_QUEUE", &cfg.RecentsQueue)

	if dbDsn := os.Getenv("DATABASE_DSN"); dbDsn != "" {
		cfg.DatabaseDsn = dbDsn
	}
	if file, ok := os.LookupEnv("RECENTS_FILE"); ok {
		cfg.RecentsFile = file
	}
	if in := os.Getenv("STATUS_INPUT"); in != "" {
		cfg.StatusInput = in
	}
	if addr, ok := os.LookupEnv("DEBUG_ADDR"); ok {
		cfg.DebugAddr = addr
	}
	if cidr, ok := os.LookupEnv("DEBUG_TRUSTED_SUBNET"); ok {
		cfg.DebugTrusted = cidr
	}
	if lf, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.LogFile = lf
	}
}

func readIntEnv(name string, dst *int) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s env var: %v", name, err)
		return
	}
	*dst = v
}
