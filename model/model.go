// Package model contains core data types for the project.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// VpnState is the connection state reported by the VPN engine.
type VpnState string

const (
	StateDisabled             VpnState = "disabled"
	StateCheckingAvailability VpnState = "checking_availability"
	StateScanningPorts        VpnState = "scanning_ports"
	StateConnecting           VpnState = "connecting"
	StateReconnecting         VpnState = "reconnecting"
	StateWaitingForNetwork    VpnState = "waiting_for_network"
	StateConnected            VpnState = "connected"
	StateDisconnecting        VpnState = "disconnecting"
	StateError                VpnState = "error"
)

// Valid reports whether s is one of the known states.
func (s VpnState) Valid() bool {
	switch s {
	case StateDisabled, StateCheckingAvailability, StateScanningPorts, StateConnecting,
		StateReconnecting, StateWaitingForNetwork, StateConnected, StateDisconnecting, StateError:
		return true
	}
	return false
}

// IsEstablishing reports whether the engine is working towards a connection.
func (s VpnState) IsEstablishing() bool {
	switch s {
	case StateCheckingAvailability, StateScanningPorts, StateConnecting, StateReconnecting:
		return true
	}
	return false
}

// ServerFeatures is a bitmask of server features requested by an intent.
type ServerFeatures uint8

const (
	FeatureSecureCore ServerFeatures = 1 << iota
	FeatureTor
	FeatureP2P
	FeatureStreaming
)

// Has reports whether all bits of f are set.
func (fs ServerFeatures) Has(f ServerFeatures) bool { return fs&f == f }

// IntentKind selects how the target server of a ConnectIntent is chosen.
type IntentKind string

const (
	IntentFastest IntentKind = "fastest" // Fastest server overall.
	IntentCountry IntentKind = "country" // Fastest server in ExitCountry.
	IntentCity    IntentKind = "city"    // Fastest server in City of ExitCountry.
	IntentServer  IntentKind = "server"  // Exactly ServerID.
	IntentGateway IntentKind = "gateway" // Server of a dedicated Gateway.
)

// AnyConnectIntent is implemented by every connection intent variant.
// Variants are plain comparable values.
type AnyConnectIntent interface {
	intentType() string
}

// ConnectIntent is a user requested connection. It is the only variant that
// is recorded in the recent connections history.
type ConnectIntent struct {
	Kind         IntentKind     `json:"kind"`
	ExitCountry  string         `json:"exit_country,omitempty"`
	EntryCountry string         `json:"entry_country,omitempty"` // Secure Core entry.
	City         string         `json:"city,omitempty"`
	ServerID     string         `json:"server_id,omitempty"`
	Gateway      string         `json:"gateway,omitempty"`
	Features     ServerFeatures `json:"features,omitempty"`
}

func (ConnectIntent) intentType() string { return intentTypeConnect }

var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// Key returns a canonical string identifying the intent. Two intents are
// equal iff their keys are equal. Separators inside fields are escaped.
func (ci ConnectIntent) Key() string {
	fields := []string{
		string(ci.Kind),
		ci.ExitCountry,
		ci.EntryCountry,
		ci.City,
		ci.ServerID,
		ci.Gateway,
	}
	for i, f := range fields {
		fields[i] = keyEscaper.Replace(f)
	}
	return strings.Join(append(fields, strconv.Itoa(int(ci.Features))), "|")
}

// Validate checks that the fields required by Kind are present.
func (ci ConnectIntent) Validate() error {
	switch ci.Kind {
	case IntentFastest:
		return nil
	case IntentCountry:
		if ci.ExitCountry == "" {
			return fmt.Errorf("intent %s: exit country required", ci.Kind)
		}
	case IntentCity:
		if ci.ExitCountry == "" || ci.City == "" {
			return fmt.Errorf("intent %s: exit country and city required", ci.Kind)
		}
	case IntentServer:
		if ci.ServerID == "" {
			return fmt.Errorf("intent %s: server id required", ci.Kind)
		}
	case IntentGateway:
		if ci.Gateway == "" {
			return fmt.Errorf("intent %s: gateway required", ci.Kind)
		}
	default:
		return fmt.Errorf("unknown intent kind %q", ci.Kind)
	}
	return nil
}

// GuestHole is the temporary intent used to reach the API before login.
type GuestHole struct {
	ServerID string `json:"server_id"`
}

func (GuestHole) intentType() string { return intentTypeGuestHole }

const (
	intentTypeConnect   = "connect"
	intentTypeGuestHole = "guest_hole"
)

// VpnStatus is a snapshot of the engine state. ConnectIntent is nil when
// no connection has been requested.
type VpnStatus struct {
	State         VpnState
	ConnectIntent AnyConnectIntent
	Server        string // Name of the server in use, if any.
}

type vpnStatusJSON struct {
	State  VpnState        `json:"state"`
	Server string          `json:"server,omitempty"`
	Intent *intentEnvelope `json:"intent,omitempty"`
}

type intentEnvelope struct {
	Type string `json:"type"`
	ConnectIntent
}

func (s VpnStatus) MarshalJSON() ([]byte, error) {
	out := vpnStatusJSON{State: s.State, Server: s.Server}
	switch ci := s.ConnectIntent.(type) {
	case nil:
	case ConnectIntent:
		out.Intent = &intentEnvelope{Type: intentTypeConnect, ConnectIntent: ci}
	case GuestHole:
		out.Intent = &intentEnvelope{Type: intentTypeGuestHole, ConnectIntent: ConnectIntent{ServerID: ci.ServerID}}
	default:
		return nil, fmt.Errorf("unsupported intent type %T", s.ConnectIntent)
	}
	return json.Marshal(out)
}

func (s *VpnStatus) UnmarshalJSON(b []byte) error {
	var in vpnStatusJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if !in.State.Valid() {
		return fmt.Errorf("unknown vpn state %q", in.State)
	}
	s.State, s.Server, s.ConnectIntent = in.State, in.Server, nil
	if in.Intent == nil {
		return nil
	}
	switch in.Intent.Type {
	case intentTypeConnect, "":
		if err := in.Intent.ConnectIntent.Validate(); err != nil {
			return err
		}
		s.ConnectIntent = in.Intent.ConnectIntent
	case intentTypeGuestHole:
		s.ConnectIntent = GuestHole{ServerID: in.Intent.ServerID}
	default:
		return fmt.Errorf("unknown intent type %q", in.Intent.Type)
	}
	return nil
}

// ViewStateKind is the coarse connection state shown by the UI.
type ViewStateKind string

const (
	ViewLoading           ViewStateKind = "loading"
	ViewDisabled          ViewStateKind = "disabled"
	ViewConnecting        ViewStateKind = "connecting"
	ViewWaitingForNetwork ViewStateKind = "waiting_for_network"
	ViewConnected         ViewStateKind = "connected"
	ViewError             ViewStateKind = "error"
)

// VpnStatusViewState is the UI snapshot of the connection status.
type VpnStatusViewState struct {
	Kind    ViewStateKind `json:"kind"`
	Country string        `json:"country,omitempty"`
	Server  string        `json:"server,omitempty"`
}

// ViewStateLoading is the sentinel used until a real status is known.
var ViewStateLoading = VpnStatusViewState{Kind: ViewLoading}

// Protocol is a VPN protocol selection.
type Protocol string

const (
	ProtocolSmart        Protocol = "smart"
	ProtocolWireGuard    Protocol = "wireguard_udp"
	ProtocolWireGuardTCP Protocol = "wireguard_tcp"
	ProtocolStealth      Protocol = "wireguard_tls"
	ProtocolOpenVPNUDP   Protocol = "openvpn_udp"
	ProtocolOpenVPNTCP   Protocol = "openvpn_tcp"
)
