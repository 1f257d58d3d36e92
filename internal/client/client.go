// Package client provides functions for interacting with the VPN backend API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/and161185/vpnclient/internal/buildinfo"
	"github.com/and161185/vpnclient/internal/client/transport"
	"github.com/and161185/vpnclient/internal/config"
	"github.com/and161185/vpnclient/internal/errs"
	"github.com/and161185/vpnclient/internal/utils"
	"github.com/and161185/vpnclient/model"
)

const (
	codeOK = 1000

	pathFeatureToggles = "/feature/v2/frontend"
	pathUser           = "/core/v4/users"
)

// Client talks to the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for cfg.APIURL with the identification headers set.
func NewClient(cfg *config.ClientConfig) *Client {
	return NewClientWithHTTP(cfg.APIURL, NewHTTPClient(cfg))
}

// DI: ready http.Client
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// fabric http-client
func NewHTTPClient(cfg *config.ClientConfig) *http.Client {
	info := buildinfo.Current()
	return &http.Client{
		Timeout: cfg.Timeout(),
		Transport: &transport.HeadersRoundTripper{
			Base:       http.DefaultTransport,
			AppVersion: "vpnclient@" + info.Version,
			UserAgent:  "vpnclient/" + info.Version,
		},
	}
}

// FeatureToggles fetches the frontend feature toggles.
func (c *Client) FeatureToggles(ctx context.Context) (model.FeatureToggles, error) {
	var out model.FeatureToggles
	if err := c.getJSON(ctx, pathFeatureToggles, &out); err != nil {
		return model.FeatureToggles{}, err
	}
	if out.Code != codeOK {
		return model.FeatureToggles{}, fmt.Errorf("%w: %d", errs.ErrAPICode, out.Code)
	}
	return out, nil
}

// CurrentUser fetches the logged in user.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var out model.UserResponse
	if err := c.getJSON(ctx, pathUser, &out); err != nil {
		return model.User{}, err
	}
	if out.Code != codeOK {
		return model.User{}, fmt.Errorf("%w: %d", errs.ErrAPICode, out.Code)
	}
	return out.User, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	err := utils.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("new request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return &errs.StatusError{Code: resp.StatusCode}
		}
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}
