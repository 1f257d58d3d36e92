package model

// RecentConnection is a row of the recent connections history.
type RecentConnection struct {
	ID                    string        `json:"id"`
	ConnectIntent         ConnectIntent `json:"connect_intent"`
	LastConnectionAttempt int64         `json:"last_connection_attempt"` // Unix millis.
}

// Toggle is a feature flag value that may not be known yet.
type Toggle struct {
	Enabled  bool `json:"enabled"`
	Resolved bool `json:"resolved"`
}

// ToggleUnresolved is the value of every toggle before the first fetch.
var ToggleUnresolved = Toggle{}

// FeatureToggles is the API response listing the enabled frontend toggles.
type FeatureToggles struct {
	Code    int             `json:"Code"`
	Toggles []FeatureToggle `json:"toggles"`
}

// FeatureToggle is one entry of FeatureToggles.
type FeatureToggle struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
