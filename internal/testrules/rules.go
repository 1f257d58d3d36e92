// Package testrules composes test setup and teardown into ordered chains.
//
// A chain built with OuterRule(a).Around(b).Around(c) sets up a, then b, then
// c, runs the test body, and tears down c, then b, then a.
package testrules

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/vpnclient/internal/client"
	"github.com/and161185/vpnclient/internal/mockapi"
	"github.com/and161185/vpnclient/internal/settings"
	"github.com/and161185/vpnclient/model"
)

// RealBackendEnv names the variable holding the API URL used by RealBackend.
const RealBackendEnv = "VPNCLIENT_TEST_API_URL"

// Env is the state rules hand to each other and to the test body.
type Env struct {
	Settings settings.Local
	Backend  *mockapi.Backend // nil unless MockedBackend ran.
	APIURL   string
	Client   *client.Client
	User     *model.User
}

// Statement is a test body or a body already wrapped by rules.
type Statement func(t *testing.T, env *Env)

// Rule wraps a statement with its own setup and teardown.
type Rule interface {
	Apply(base Statement) Statement
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(base Statement) Statement

func (f RuleFunc) Apply(base Statement) Statement { return f(base) }

// Chain is an ordered list of rules, outermost first.
type Chain struct {
	rules []Rule
}

func OuterRule(r Rule) *Chain {
	return &Chain{rules: []Rule{r}}
}

// Around adds r inside every rule already in the chain.
func (c *Chain) Around(r Rule) *Chain {
	rules := make([]Rule, len(c.rules), len(c.rules)+1)
	copy(rules, c.rules)
	return &Chain{rules: append(rules, r)}
}

func (c *Chain) Apply(base Statement) Statement {
	s := base
	for i := len(c.rules) - 1; i >= 0; i-- {
		s = c.rules[i].Apply(s)
	}
	return s
}

// Run executes body inside the chain with a fresh Env.
func (c *Chain) Run(t *testing.T, body Statement) {
	t.Helper()
	c.Apply(body)(t, &Env{Settings: settings.DefaultLocal})
}

// SettingsOverride applies fn to the local settings for the duration of the
// wrapped statement. A nil fn resets them to the defaults.
func SettingsOverride(fn func(*settings.Local)) Rule {
	return RuleFunc(func(base Statement) Statement {
		return func(t *testing.T, env *Env) {
			prev := env.Settings
			env.Settings = settings.DefaultLocal
			if fn != nil {
				fn(&env.Settings)
			}
			defer func() { env.Settings = prev }()
			base(t, env)
		}
	})
}

// MockedBackend serves a mockapi.Backend over httptest and points the
// client at it.
func MockedBackend() Rule {
	return RuleFunc(func(base Statement) Statement {
		return func(t *testing.T, env *Env) {
			backend := mockapi.New(zaptest.NewLogger(t).Sugar())
			ts := httptest.NewServer(backend.Router())
			defer ts.Close()

			prevBackend, prevURL, prevClient := env.Backend, env.APIURL, env.Client
			env.Backend = backend
			env.APIURL = ts.URL
			env.Client = client.NewClientWithHTTP(ts.URL, ts.Client())
			defer func() { env.Backend, env.APIURL, env.Client = prevBackend, prevURL, prevClient }()

			base(t, env)
		}
	})
}

// RealBackend points the client at the API named by RealBackendEnv and
// skips the test when the variable is unset.
func RealBackend() Rule {
	return RuleFunc(func(base Statement) Statement {
		return func(t *testing.T, env *Env) {
			url, ok := os.LookupEnv(RealBackendEnv)
			if !ok || url == "" {
				t.Skipf("%s is not set", RealBackendEnv)
			}
			prevURL, prevClient := env.APIURL, env.Client
			env.APIURL = url
			env.Client = client.NewClientWithHTTP(url, &http.Client{Timeout: 10 * time.Second})
			defer func() { env.APIURL, env.Client = prevURL, prevClient }()

			base(t, env)
		}
	})
}

// LoggedInUser logs u into the mocked backend. It must run inside
// MockedBackend.
func LoggedInUser(u model.User) Rule {
	return RuleFunc(func(base Statement) Statement {
		return func(t *testing.T, env *Env) {
			if env.Backend == nil {
				t.Fatal("LoggedInUser must be wrapped by MockedBackend")
			}
			env.Backend.SetUser(&u)
			env.User = &u
			defer func() {
				env.Backend.SetUser(nil)
				env.User = nil
			}()
			base(t, env)
		}
	})
}

// Inject runs fn before the wrapped statement, typically to build the
// objects under test from env.
func Inject(fn func(t *testing.T, env *Env)) Rule {
	return RuleFunc(func(base Statement) Statement {
		return func(t *testing.T, env *Env) {
			fn(t, env)
			base(t, env)
		}
	})
}

// RealBackendChain runs against the API named by RealBackendEnv with
// default settings.
func RealBackendChain() *Chain {
	return OuterRule(SettingsOverride(nil)).Around(RealBackend())
}

// MockedLoggedInChain runs against a mocked backend with u logged in.
func MockedLoggedInChain(u model.User) *Chain {
	return OuterRule(SettingsOverride(nil)).
		Around(MockedBackend()).
		Around(LoggedInUser(u))
}

// TestUser returns a user on the given tier with a fresh ID.
func TestUser(name string, tier int) model.User {
	plan := "vpnplus"
	if tier < 1 {
		plan = "free"
	}
	return model.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    "testas@proton.ch",
		PlanName: plan,
		MaxTier:  tier,
	}
}

func FreeUser() model.User { return TestUser("Free Tester", 0) }

func PlusUser() model.User { return TestUser("Plus Tester", 2) }
