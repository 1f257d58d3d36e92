// Package vpn exposes the connection status of the VPN engine and the
// connection manager contract used by the view models.
package vpn

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/and161185/vpnclient/internal/observe"
	"github.com/and161185/vpnclient/model"
)

// StatusProvider publishes the engine status.
type StatusProvider interface {
	Status() observe.Source[model.VpnStatus]
}

// StatusHolder is the in-process StatusProvider fed by the engine integration.
type StatusHolder struct {
	state *observe.State[model.VpnStatus]
}

func NewStatusHolder() *StatusHolder {
	return &StatusHolder{state: observe.NewState(model.VpnStatus{State: model.StateDisabled})}
}

func (h *StatusHolder) Status() observe.Source[model.VpnStatus] { return h.state }

// Update publishes a new status.
func (h *StatusHolder) Update(status model.VpnStatus) { h.state.Set(status) }

// Current returns the latest status.
func (h *StatusHolder) Current() model.VpnStatus { return h.state.Value() }

// ReadStatusLines decodes one JSON encoded model.VpnStatus per line from r
// and publishes each to h. Blank lines and lines starting with '#' are
// skipped. It returns nil at EOF and ctx.Err() when cancelled.
func ReadStatusLines(ctx context.Context, r io.Reader, h *StatusHolder) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var status model.VpnStatus
		if err := json.Unmarshal([]byte(text), &status); err != nil {
			return fmt.Errorf("status line %d: %w", line, err)
		}
		h.Update(status)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read status: %w", err)
	}
	return nil
}

// ViewStateFlow maps the provider status to the UI view state.
func ViewStateFlow(p StatusProvider) observe.Source[model.VpnStatusViewState] {
	return observe.Map(p.Status(), ToViewState)
}

// ToViewState maps a status to its view state. It never returns
// model.ViewStateLoading.
func ToViewState(status model.VpnStatus) model.VpnStatusViewState {
	vs := model.VpnStatusViewState{Server: status.Server}
	if ci, ok := status.ConnectIntent.(model.ConnectIntent); ok {
		vs.Country = ci.ExitCountry
	}
	switch {
	case status.State == model.StateConnected:
		vs.Kind = model.ViewConnected
	case status.State.IsEstablishing():
		vs.Kind = model.ViewConnecting
	case status.State == model.StateWaitingForNetwork:
		vs.Kind = model.ViewWaitingForNetwork
	case status.State == model.StateError:
		vs.Kind = model.ViewError
	default:
		return model.VpnStatusViewState{Kind: model.ViewDisabled}
	}
	return vs
}
