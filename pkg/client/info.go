package client

import (
	"context"

	"github.com/edgegate/edgegate/internal/api"
	"github.com/edgegate/edgegate/internal/buildinfo"
)

// Info retrieves build information from the server.
func (c *Client) Info(ctx context.Context) (*buildinfo.Info, string, error) {
	var resp buildinfo.Info
	correlation, err := c.get(ctx, c.url().
		setPath(api.AboutRoute).
		build(), &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}
