package client

import (
	"context"

	"github.com/edgegate/edgegate/internal/api"
	"github.com/edgegate/edgegate/internal/core"
)

// ListDecisions retrieves the latest decision records from the server,
// limited to the specified number.
func (c *Client) ListDecisions(ctx context.Context, limit uint) ([]core.DecisionRecord, error) {
	var resp []core.DecisionRecord
	_, err := c.get(ctx, c.url().
		setPath(api.ListDecisionsRoute).
		addQueryParam("limit", limit).
		build(), &resp)
	return resp, err
}

// ListAudits retrieves the latest audit entries from the server, limited to
// the specified number.
func (c *Client) ListAudits(ctx context.Context, limit uint) ([]core.AuditEntry, error) {
	var resp []core.AuditEntry
	_, err := c.get(ctx, c.url().
		setPath(api.ListAuditsRoute).
		addQueryParam("limit", limit).
		build(), &resp)
	return resp, err
}
