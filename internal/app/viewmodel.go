// Package app assembles the client: the main view model that gates the
// first screen and the fx module wiring the runtime together.
package app

import (
	"context"

	"github.com/and161185/vpnclient/internal/observe"
	"github.com/and161185/vpnclient/internal/vpn"
	"github.com/and161185/vpnclient/model"
)

// MainViewModel backs the main screen. The screen is kept on the splash
// until MinimalStateReady turns true, i.e. the VPN view state left Loading
// and the NewCountryList toggle is resolved.
type MainViewModel struct {
	conn vpn.ConnectionManager

	vpnStateView       *observe.Shared[model.VpnStatusViewState]
	showNewCountryList *observe.Shared[model.Toggle]
	minimalStateReady  *observe.Shared[bool]
}

func NewMainViewModel(
	viewStates observe.Source[model.VpnStatusViewState],
	conn vpn.ConnectionManager,
	newCountryList observe.Source[model.Toggle],
) *MainViewModel {
	vm := &MainViewModel{
		conn:               conn,
		vpnStateView:       observe.StateIn(viewStates, model.ViewStateLoading),
		showNewCountryList: observe.StateIn(newCountryList, model.ToggleUnresolved),
	}
	vm.minimalStateReady = observe.StateIn(
		observe.Combine[model.VpnStatusViewState, model.Toggle, bool](vm.vpnStateView, vm.showNewCountryList, minimalStateReady),
		false,
	)
	return vm
}

func minimalStateReady(view model.VpnStatusViewState, toggle model.Toggle) bool {
	return view.Kind != model.ViewLoading && toggle.Resolved
}

func (vm *MainViewModel) VpnStateView() observe.Source[model.VpnStatusViewState] {
	return vm.vpnStateView
}

func (vm *MainViewModel) ShowNewCountryList() observe.Source[model.Toggle] {
	return vm.showNewCountryList
}

func (vm *MainViewModel) MinimalStateReady() observe.Source[bool] {
	return vm.minimalStateReady
}

// IsMinimalStateReady returns the last computed readiness. It is only kept
// current while MinimalStateReady has a subscriber.
func (vm *MainViewModel) IsMinimalStateReady() bool {
	return vm.minimalStateReady.Value()
}

func (vm *MainViewModel) Connect(ctx context.Context, ui vpn.UIDelegate, intent model.AnyConnectIntent, trigger vpn.ConnectTrigger) error {
	return vm.conn.Connect(ctx, ui, intent, trigger)
}
