package settings

import (
	"context"
	"fmt"

	"github.com/and161185/vpnclient/internal/observe"
	"github.com/and161185/vpnclient/model"
)

type userFetcher interface {
	CurrentUser(ctx context.Context) (model.User, error)
}

// LoadUser fetches the logged in user and publishes it to dst. dst keeps
// its value on error.
func LoadUser(ctx context.Context, api userFetcher, dst *observe.State[model.User]) error {
	u, err := api.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	dst.Set(u)
	return nil
}
