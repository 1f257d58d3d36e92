package testrules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/vpnclient/internal/settings"
	"github.com/and161185/vpnclient/model"
)

func recording(name string, log *[]string) Rule {
	return RuleFunc(func(base Statement) Statement {
		return func(t *testing.T, env *Env) {
			*log = append(*log, "setup "+name)
			defer func() { *log = append(*log, "teardown "+name) }()
			base(t, env)
		}
	})
}

func TestChain_Order(t *testing.T) {
	var log []string
	OuterRule(recording("a", &log)).
		Around(recording("b", &log)).
		Around(recording("c", &log)).
		Run(t, func(t *testing.T, env *Env) { log = append(log, "body") })

	require.Equal(t, []string{
		"setup a", "setup b", "setup c",
		"body",
		"teardown c", "teardown b", "teardown a",
	}, log)
}

func TestChain_AroundDoesNotShareTail(t *testing.T) {
	var log []string
	base := OuterRule(recording("a", &log))
	withB := base.Around(recording("b", &log))
	_ = base.Around(recording("c", &log))

	withB.Run(t, func(*testing.T, *Env) {})
	require.Equal(t, []string{"setup a", "setup b", "teardown b", "teardown a"}, log)
}

func TestSettingsOverride(t *testing.T) {
	var outer, inner settings.Local
	OuterRule(SettingsOverride(func(l *settings.Local) { l.Protocol = model.ProtocolWireGuardTCP })).
		Around(Inject(func(t *testing.T, env *Env) { inner = env.Settings })).
		Run(t, func(t *testing.T, env *Env) {
			outer = env.Settings
			require.False(t, env.Settings == settings.DefaultLocal)
		})
	require.Equal(t, model.ProtocolWireGuardTCP, inner.Protocol)
	require.Equal(t, inner, outer)
	require.True(t, settings.DefaultLocal.Protocol == model.ProtocolSmart)
}

func TestMockedLoggedInChain(t *testing.T) {
	u := PlusUser()
	var env *Env
	MockedLoggedInChain(u).Run(t, func(t *testing.T, e *Env) {
		env = e
		got, err := e.Client.CurrentUser(context.Background())
		require.NoError(t, err)
		require.Equal(t, u, got)
		require.Equal(t, 1, e.Backend.Hits("/core/v4/users"))
	})
	require.Nil(t, env.User)
	require.Nil(t, env.Backend)
}

func TestRealBackendChain_SkipsWithoutURL(t *testing.T) {
	t.Setenv(RealBackendEnv, "")
	var sub *testing.T
	t.Run("real", func(t *testing.T) {
		sub = t
		RealBackendChain().Run(t, func(t *testing.T, _ *Env) { t.Error("body must not run") })
	})
	require.True(t, sub.Skipped())
}

func TestUserPresets(t *testing.T) {
	free, plus := FreeUser(), PlusUser()
	require.True(t, free.IsFree())
	require.False(t, plus.IsFree())
	require.NotEqual(t, free.ID, PlusUser().ID)
	require.NotEmpty(t, plus.ID)
}
