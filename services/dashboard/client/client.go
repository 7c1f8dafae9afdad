// Package client reads dashboard aggregates.
package client

import (
	"context"
	"net/url"

	"github.com/tutorhub/console/internal/envelope"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/validate"
)

const dashboardPath = "/api/v1/dashboard"

var (
	totalsDecoder = envelope.At[Totals](envelope.AdminData)
	chartDecoder  = envelope.At[[]RevenuePoint](envelope.AdminData)
	statsDecoder  = envelope.At[RevenueStats](envelope.AdminData)
)

// Client talks to the dashboard endpoints of the admin API.
type Client struct {
	api *httputil.Client
}

// New creates a dashboard client.
func New(api *httputil.Client) *Client {
	return &Client{api: api}
}

// Totals returns the platform counters.
func (c *Client) Totals(ctx context.Context) envelope.Result[Totals] {
	resp, err := c.api.Get(ctx, dashboardPath+"/totals")
	return httputil.ToResult(resp, err, totalsDecoder)
}

// RevenueChart returns revenue buckets for r. An empty range means month.
func (c *Client) RevenueChart(ctx context.Context, r Range) envelope.Result[[]RevenuePoint] {
	q, err := rangeQuery(r)
	if err != nil {
		return envelope.Fail[[]RevenuePoint](err)
	}
	resp, err := c.api.Get(ctx, dashboardPath+"/revenue-chart", httputil.WithQuery(q))
	return httputil.ToResult(resp, err, chartDecoder)
}

// RevenueStats returns the revenue summary for r. An empty range means month.
func (c *Client) RevenueStats(ctx context.Context, r Range) envelope.Result[RevenueStats] {
	q, err := rangeQuery(r)
	if err != nil {
		return envelope.Fail[RevenueStats](err)
	}
	resp, err := c.api.Get(ctx, dashboardPath+"/revenue-stats", httputil.WithQuery(q))
	return httputil.ToResult(resp, err, statsDecoder)
}

func rangeQuery(r Range) (url.Values, error) {
	if r == "" {
		r = RangeMonth
	}
	if err := validate.Var("range", string(r), "time_range"); err != nil {
		return nil, err
	}
	return url.Values{"range": {string(r)}}, nil
}
