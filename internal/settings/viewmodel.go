package settings

import (
	"context"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/and161185/vpnclient/internal/buildinfo"
	"github.com/and161185/vpnclient/internal/observe"
	"github.com/and161185/vpnclient/internal/vpn"
	"github.com/and161185/vpnclient/model"
)

// Local are the settings stored on the device.
type Local struct {
	Protocol       model.Protocol
	NetShield      bool
	SplitTunneling bool
	VpnAccelerator bool
}

// DefaultLocal is what a fresh install starts with.
var DefaultLocal = Local{Protocol: model.ProtocolSmart, NetShield: true, VpnAccelerator: true}

type UserView struct {
	ShortenedName string
	DisplayName   string
	Email         string
}

// FeatureItem is a settings row for a paid feature.
type FeatureItem struct {
	Enabled    bool
	Restricted bool
}

// ViewState is everything the settings screen renders.
type ViewState struct {
	User           UserView
	Protocol       model.Protocol
	NetShield      FeatureItem
	SplitTunneling FeatureItem
	VpnAccelerator FeatureItem
	BuildInfo      buildinfo.Info
}

// ReconnectDialog is the kind of "reconnect to apply" prompt on screen.
type ReconnectDialog string

const (
	ReconnectDialogNone     ReconnectDialog = ""
	ReconnectDialogProtocol ReconnectDialog = "protocol"
)

// ViewModel backs the settings screen.
type ViewModel struct {
	status vpn.StatusProvider
	conn   vpn.ConnectionManager

	local     *observe.State[Local]
	dialog    *observe.State[ReconnectDialog]
	viewState observe.Source[ViewState]

	mu         sync.Mutex
	suppressed map[ReconnectDialog]bool
}

func NewViewModel(
	user observe.Source[model.User],
	status vpn.StatusProvider,
	conn vpn.ConnectionManager,
	initial Local,
	build buildinfo.Info,
) *ViewModel {
	vm := &ViewModel{
		status:     status,
		conn:       conn,
		local:      observe.NewState(initial),
		dialog:     observe.NewState(ReconnectDialogNone),
		suppressed: map[ReconnectDialog]bool{},
	}
	vm.viewState = observe.Combine[model.User, Local, ViewState](user, vm.local, func(u model.User, l Local) ViewState {
		return toViewState(u, l, build)
	})
	return vm
}

func toViewState(u model.User, l Local, build buildinfo.Info) ViewState {
	restricted := u.IsFree()
	return ViewState{
		User:           userView(u),
		Protocol:       l.Protocol,
		NetShield:      FeatureItem{Enabled: l.NetShield && !restricted, Restricted: restricted},
		SplitTunneling: FeatureItem{Enabled: l.SplitTunneling && !restricted, Restricted: restricted},
		VpnAccelerator: FeatureItem{Enabled: l.VpnAccelerator && !restricted, Restricted: restricted},
		BuildInfo:      build,
	}
}

func userView(u model.User) UserView {
	display := u.Name
	if display == "" {
		display = u.Email
	}
	return UserView{ShortenedName: initials(display), DisplayName: display, Email: u.Email}
}

// initials of the first two words, upper-cased: "jane doe" -> "JD".
func initials(name string) string {
	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		if n++; n == 2 {
			break
		}
	}
	return b.String()
}

func (vm *ViewModel) ViewState() observe.Source[ViewState] { return vm.viewState }

func (vm *ViewModel) ReconnectDialog() observe.Source[ReconnectDialog] { return vm.dialog }

func (vm *ViewModel) Local() Local { return vm.local.Value() }

// UpdateProtocol stores p. While a connection is up or being established it
// asks for a reconnect, unless the user opted out of that prompt.
func (vm *ViewModel) UpdateProtocol(p model.Protocol) {
	vm.local.Update(func(l Local) Local {
		l.Protocol = p
		return l
	})

	st := vm.status.Status().Value().State
	if st != model.StateConnected && !st.IsEstablishing() {
		return
	}
	vm.mu.Lock()
	suppressed := vm.suppressed[ReconnectDialogProtocol]
	vm.mu.Unlock()
	if !suppressed {
		vm.dialog.Set(ReconnectDialogProtocol)
	}
}

// DismissReconnectDialog closes dialog d. With notShowAgain the prompt of
// that kind is not raised again.
func (vm *ViewModel) DismissReconnectDialog(notShowAgain bool, d ReconnectDialog) {
	if notShowAgain {
		vm.mu.Lock()
		vm.suppressed[d] = true
		vm.mu.Unlock()
	}
	vm.dialog.Set(ReconnectDialogNone)
}

// OnReconnectClicked closes dialog d and reconnects to apply the change.
func (vm *ViewModel) OnReconnectClicked(ctx context.Context, notShowAgain bool, d ReconnectDialog) error {
	vm.DismissReconnectDialog(notShowAgain, d)
	return vm.conn.Reconnect(ctx, vpn.TriggerSettingsChange)
}
