package config

import (
	"encoding/json"
	"os"
	"time"
)

type clientJSON struct {
	APIURL        *string `json:"api_url"`
	ClientTimeout *string `json:"client_timeout"` // "10s"
	FlagsRefresh  *string `json:"flags_refresh_interval"`
	FlagsTTL      *string `json:"flags_ttl"`
	DatabaseDSN   *string `json:"database_dsn"`
	RecentsFile   *string `json:"recents_file"`
	RecentsQueue  *int    `json:"recents_queue"`
	StatusInput   *string `json:"status_input"`
	DebugAddr     *string `json:"debug_addr"`
	DebugTrusted  *string `json:"debug_trusted_subnet"`
	LogFile       *string `json:"log_file"`
}

type mockAPIJSON struct {
	Address *string `json:"address"`
	Toggles *string `json:"toggles"`
	LogFile *string `json:"log_file"`
}

func loadJSON[T any](path string) (*T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c T
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func parseDurationSeconds(s string) (int, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return int(d / time.Second), nil
}
