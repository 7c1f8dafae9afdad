// Package client reads platform transactions.
package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tutorhub/console/internal/envelope"
	apperrors "github.com/tutorhub/console/internal/errors"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/pagination"
)

// DefaultPageSize is used when the caller passes a non-positive size.
const DefaultPageSize = 10

const transactionsPath = "/api/v1/transactions"

var (
	listDecoder   = envelope.PageAt[Transaction](envelope.AdminData+".transactions", envelope.AdminData)
	detailDecoder = envelope.At[Transaction](envelope.AdminData)
)

// Client talks to the transaction endpoints of the admin API.
type Client struct {
	api *httputil.Client
}

// New creates a transactions client.
func New(api *httputil.Client) *Client {
	return &Client{api: api}
}

// Search returns one page of transactions matching f.
func (c *Client) Search(ctx context.Context, page, size int, f Filter) envelope.Result[pagination.Page[Transaction]] {
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && f.EndDate.Before(f.StartDate) {
		return envelope.Fail[pagination.Page[Transaction]](apperrors.Validation(map[string]string{
			"endDate": "must not be before startDate",
		}))
	}

	page, size = pagination.Normalize(page, size, DefaultPageSize)
	q := pagination.Query(page, size, f.filters())

	resp, err := c.api.Get(ctx, transactionsPath, httputil.WithQuery(q))
	res := httputil.ToResult(resp, err, listDecoder)
	if res.Success {
		if perr := res.Data.Check(size); perr != nil {
			c.api.Logger().WithContext(ctx).WithError(perr).Warn("transaction page breaks paging contract")
		}
	}
	return res
}

// Get fetches one transaction. A missing transaction is a failed result with
// Status 404.
func (c *Client) Get(ctx context.Context, id string) envelope.Result[Transaction] {
	if id == "" {
		return envelope.Fail[Transaction](apperrors.Validation(map[string]string{"id": "is required"}))
	}
	resp, err := c.api.Get(ctx, fmt.Sprintf("%s/%s", transactionsPath, url.PathEscape(id)),
		httputil.WithRoute(transactionsPath+"/{id}"))
	return httputil.ToResult(resp, err, detailDecoder)
}
