// Package client manages bulk discounts. Activation and deactivation are
// separate one-shot commands; the client keeps no local state.
package client

import (
	"context"
	"fmt"

	"github.com/tutorhub/console/internal/envelope"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/validate"
)

const discountsPath = "/api/v1/bulk-discounts"

var (
	listDecoder     = envelope.At[[]Discount](envelope.AdminData)
	discountDecoder = envelope.At[Discount](envelope.AdminData)
)

// Client talks to the bulk discount endpoints of the admin API.
type Client struct {
	api *httputil.Client
}

// New creates a discounts client.
func New(api *httputil.Client) *Client {
	return &Client{api: api}
}

// ListActive returns the discounts currently in effect.
func (c *Client) ListActive(ctx context.Context) envelope.Result[[]Discount] {
	resp, err := c.api.Get(ctx, discountsPath+"/active")
	return httputil.ToResult(resp, err, listDecoder)
}

// Add creates a discount.
func (c *Client) Add(ctx context.Context, req Request) envelope.Result[Discount] {
	if err := validate.Struct(req); err != nil {
		return envelope.Fail[Discount](err)
	}
	resp, err := c.api.Post(ctx, discountsPath, httputil.WithBody(req))
	return httputil.ToResult(resp, err, discountDecoder)
}

// Update replaces discount id.
func (c *Client) Update(ctx context.Context, id int64, req Request) envelope.Result[Discount] {
	if err := validate.Struct(req); err != nil {
		return envelope.Fail[Discount](err)
	}
	resp, err := c.api.Put(ctx, discountPath(id), httputil.WithBody(req))
	return httputil.ToResult(resp, err, discountDecoder)
}

// Activate moves discount id to ACTIVE.
func (c *Client) Activate(ctx context.Context, id int64) envelope.Result[Discount] {
	return c.transition(ctx, id, "activate")
}

// Deactivate moves discount id to INACTIVE.
func (c *Client) Deactivate(ctx context.Context, id int64) envelope.Result[Discount] {
	return c.transition(ctx, id, "deactivate")
}

func (c *Client) transition(ctx context.Context, id int64, action string) envelope.Result[Discount] {
	resp, err := c.api.Put(ctx, discountPath(id)+"/"+action)
	return httputil.ToResult(resp, err, discountDecoder)
}

func discountPath(id int64) string { return fmt.Sprintf("%s/%d", discountsPath, id) }
