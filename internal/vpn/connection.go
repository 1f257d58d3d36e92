package vpn

import (
	"context"
	"fmt"

	"github.com/and161185/vpnclient/internal/errs"
	"github.com/and161185/vpnclient/model"
	"go.uber.org/zap"
)

//go:generate mockgen -source=connection.go -destination=mocks/mock_vpn.go -package=mocks

// ConnectTrigger names what started a connection attempt.
type ConnectTrigger string

const (
	TriggerQuickConnect   ConnectTrigger = "quick_connect"
	TriggerRecent         ConnectTrigger = "recent"
	TriggerCountry        ConnectTrigger = "country"
	TriggerServer         ConnectTrigger = "server"
	TriggerSettingsChange ConnectTrigger = "settings_change"
	TriggerDebugAPI       ConnectTrigger = "debug_api"
)

// UIDelegate is the UI surface a connection attempt may need, e.g. to ask
// the user for the VPN permission.
type UIDelegate interface {
	AskForPermission(ctx context.Context) (bool, error)
}

// ConnectionManager starts and restarts connections.
type ConnectionManager interface {
	Connect(ctx context.Context, ui UIDelegate, intent model.AnyConnectIntent, trigger ConnectTrigger) error
	Reconnect(ctx context.Context, trigger ConnectTrigger) error
}

// LocalConnectionManager hands connection requests to the engine by
// publishing a connecting status; the engine reports progress through the
// same StatusHolder.
type LocalConnectionManager struct {
	holder *StatusHolder
	logger *zap.SugaredLogger
}

func NewLocalConnectionManager(holder *StatusHolder, logger *zap.SugaredLogger) *LocalConnectionManager {
	return &LocalConnectionManager{holder: holder, logger: logger}
}

func (m *LocalConnectionManager) Connect(ctx context.Context, ui UIDelegate, intent model.AnyConnectIntent, trigger ConnectTrigger) error {
	if intent == nil {
		return fmt.Errorf("connect: %w", errs.ErrInvalidIntent)
	}
	if ci, ok := intent.(model.ConnectIntent); ok {
		if err := ci.Validate(); err != nil {
			return fmt.Errorf("connect: %w: %v", errs.ErrInvalidIntent, err)
		}
	}
	if ui != nil {
		granted, err := ui.AskForPermission(ctx)
		if err != nil {
			return fmt.Errorf("ask permission: %w", err)
		}
		if !granted {
			m.logger.Infof("connect cancelled: permission denied, trigger=%s", trigger)
			return nil
		}
	}
	m.logger.Infof("connect requested: trigger=%s intent=%+v", trigger, intent)
	m.holder.Update(model.VpnStatus{State: model.StateConnecting, ConnectIntent: intent})
	return nil
}

func (m *LocalConnectionManager) Reconnect(ctx context.Context, trigger ConnectTrigger) error {
	current := m.holder.Current()
	if current.ConnectIntent == nil {
		m.logger.Infof("reconnect ignored: nothing to reconnect, trigger=%s", trigger)
		return nil
	}
	m.logger.Infof("reconnect requested: trigger=%s", trigger)
	m.holder.Update(model.VpnStatus{State: model.StateReconnecting, ConnectIntent: current.ConnectIntent})
	return nil
}
