// Package settings holds the settings screen state and routes its actions.
package settings

import (
	"errors"
	"fmt"
)

// ErrNoHandler is returned by a Navigator when nothing can open a target,
// e.g. no store application is installed for a market:// URL.
var ErrNoHandler = errors.New("no handler for target")

const SupportURL = "https://protonvpn.com/support"

// Destination is a screen reachable from the settings screen.
type Destination string

const (
	DestAccount               Destination = "account"
	DestSignOut               Destination = "sign_out"
	DestNetShield             Destination = "netshield"
	DestNetShieldUpgrade      Destination = "upgrade_netshield"
	DestSplitTunneling        Destination = "split_tunneling"
	DestSplitTunnelingUpgrade Destination = "upgrade_split_tunneling"
	DestVpnAccelerator        Destination = "vpn_accelerator"
	DestVpnAcceleratorUpgrade Destination = "upgrade_vpn_accelerator"
	DestAlwaysOn              Destination = "always_on"
	DestProtocolSelection     Destination = "protocol_selection"
	DestAdvanced              Destination = "advanced"
	DestNotifications         Destination = "notifications"
	DestReportBug             Destination = "report_bug"
	DestDebugLogs             Destination = "debug_logs"
	DestTelemetry             Destination = "telemetry"
	DestThirdPartyLicenses    Destination = "third_party_licenses"
)

// Navigator opens screens and URLs on behalf of the settings screen.
type Navigator interface {
	Navigate(d Destination) error
	OpenURL(url string) error
}

// Action is a tap on one of the settings rows.
type Action int

const (
	ActionAccount Action = iota
	ActionSignOut
	ActionNetShield
	ActionSplitTunneling
	ActionVpnAccelerator
	ActionAlwaysOn
	ActionProtocol
	ActionAdvanced
	ActionNotifications
	ActionHelpCenter
	ActionReportBug
	ActionDebugLogs
	ActionHelpFightCensorship
	ActionRateUs
	ActionThirdPartyLicenses
)

var actionNames = map[Action]string{
	ActionAccount:             "account",
	ActionSignOut:             "sign_out",
	ActionNetShield:           "netshield",
	ActionSplitTunneling:      "split_tunneling",
	ActionVpnAccelerator:      "vpn_accelerator",
	ActionAlwaysOn:            "always_on",
	ActionProtocol:            "protocol",
	ActionAdvanced:            "advanced",
	ActionNotifications:       "notifications",
	ActionHelpCenter:          "help_center",
	ActionReportBug:           "report_bug",
	ActionDebugLogs:           "debug_logs",
	ActionHelpFightCensorship: "help_fight_censorship",
	ActionRateUs:              "rate_us",
	ActionThirdPartyLicenses:  "third_party_licenses",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

var plainDestinations = map[Action]Destination{
	ActionAccount:             DestAccount,
	ActionSignOut:             DestSignOut,
	ActionAlwaysOn:            DestAlwaysOn,
	ActionProtocol:            DestProtocolSelection,
	ActionAdvanced:            DestAdvanced,
	ActionNotifications:       DestNotifications,
	ActionReportBug:           DestReportBug,
	ActionDebugLogs:           DestDebugLogs,
	ActionHelpFightCensorship: DestTelemetry,
	ActionThirdPartyLicenses:  DestThirdPartyLicenses,
}

// Router resolves settings actions against the current ViewState.
type Router struct {
	nav         Navigator
	packageName string
}

func NewRouter(nav Navigator, packageName string) *Router {
	return &Router{nav: nav, packageName: packageName}
}

// Handle performs action. Restricted features open their upgrade screen.
func (r *Router) Handle(state ViewState, action Action) error {
	switch action {
	case ActionNetShield:
		return r.nav.Navigate(pick(state.NetShield, DestNetShield, DestNetShieldUpgrade))
	case ActionSplitTunneling:
		return r.nav.Navigate(pick(state.SplitTunneling, DestSplitTunneling, DestSplitTunnelingUpgrade))
	case ActionVpnAccelerator:
		return r.nav.Navigate(pick(state.VpnAccelerator, DestVpnAccelerator, DestVpnAcceleratorUpgrade))
	case ActionHelpCenter:
		return r.nav.OpenURL(SupportURL)
	case ActionRateUs:
		return r.RateUs()
	}
	if d, ok := plainDestinations[action]; ok {
		return r.nav.Navigate(d)
	}
	return fmt.Errorf("unknown settings action %v", action)
}

// RateUs opens the store listing of the app, falling back to the web
// listing when no store application is installed.
func (r *Router) RateUs() error {
	err := r.nav.OpenURL("market://details?id=" + r.packageName)
	if !errors.Is(err, ErrNoHandler) {
		return err
	}
	if err := r.nav.OpenURL("https://play.google.com/store/apps/details?id=" + r.packageName); err != nil {
		return fmt.Errorf("open store listing: %w", err)
	}
	return nil
}

func pick(item FeatureItem, open, upgrade Destination) Destination {
	if item.Restricted {
		return upgrade
	}
	return open
}
