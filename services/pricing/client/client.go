// Package client reads and sets the coin price.
package client

import (
	"context"
	"fmt"

	"github.com/tutorhub/console/internal/envelope"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/validate"
)

const pricePath = "/api/v1/coin-price"

var priceDecoder = envelope.At[CoinPrice](envelope.AdminData)

// Client talks to the coin price endpoints of the admin API.
type Client struct {
	api *httputil.Client
}

// New creates a pricing client.
func New(api *httputil.Client) *Client {
	return &Client{api: api}
}

// Current returns the active price record.
func (c *Client) Current(ctx context.Context) envelope.Result[CoinPrice] {
	resp, err := c.api.Get(ctx, pricePath)
	return httputil.ToResult(resp, err, priceDecoder)
}

// Add creates a price record.
func (c *Client) Add(ctx context.Context, req PriceRequest) envelope.Result[CoinPrice] {
	if err := validate.Struct(req); err != nil {
		return envelope.Fail[CoinPrice](err)
	}
	resp, err := c.api.Post(ctx, pricePath, httputil.WithBody(req))
	return httputil.ToResult(resp, err, priceDecoder)
}

// Update replaces the price of record id.
func (c *Client) Update(ctx context.Context, id int64, price float64) envelope.Result[CoinPrice] {
	req := PriceRequest{Price: price}
	if err := validate.Struct(req); err != nil {
		return envelope.Fail[CoinPrice](err)
	}
	resp, err := c.api.Put(ctx, fmt.Sprintf("%s/%d", pricePath, id), httputil.WithBody(req))
	return httputil.ToResult(resp, err, priceDecoder)
}
