package client

import (
	"context"
	"fmt"

	"github.com/edgegate/edgegate/internal/api"
	"github.com/edgegate/edgegate/internal/gateway"
)

// Authorize submits a gateway event to the facade and returns the policy
// response the gateway would receive.
func (c *Client) Authorize(ctx context.Context, event gateway.Event) (*gateway.Response, string, error) {
	var resp gateway.Response
	correlation, err := c.post(ctx, c.url().
		setPath(api.AuthorizeRoute).
		build(), event, &resp)
	if err != nil {
		return nil, correlation, fmt.Errorf("authorizing: %w", err)
	}
	return &resp, correlation, nil
}

// KeySet describes the facade's view of the resolved issuer key set.
type KeySet struct {
	Warm bool `json:"warm"`
	Keys []struct {
		KeyID     string `json:"kid"`
		Algorithm string `json:"alg,omitempty"`
	} `json:"keys"`
}

// Keys retrieves the resolved key ids from the facade.
func (c *Client) Keys(ctx context.Context) (*KeySet, error) {
	var resp KeySet
	_, err := c.get(ctx, c.url().
		setPath(api.KeysRoute).
		build(), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
