// Package client lists teacher profiles.
package client

import (
	"context"

	"github.com/tutorhub/console/internal/envelope"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/pagination"
)

// DefaultPageSize is used when the caller passes a non-positive size.
const DefaultPageSize = 5

const profilesPath = "/api/v1/teachers/profiles"

var profilesDecoder = envelope.PageAt[TeacherProfile](envelope.AdminData+".teachers", envelope.AdminData)

// Client reads teacher profiles from the admin API.
type Client struct {
	api *httputil.Client
}

// New creates a teachers client.
func New(api *httputil.Client) *Client {
	return &Client{api: api}
}

// SearchProfiles returns one page of profiles whose name contains name. A blank
// name lists everyone. Errors are returned unchanged.
func (c *Client) SearchProfiles(ctx context.Context, page, size int, name string) (pagination.Page[TeacherProfile], error) {
	page, size = pagination.Normalize(page, size, DefaultPageSize)
	q := pagination.Query(page, size, pagination.Filters{"name": name})

	resp, err := c.api.Get(ctx, profilesPath, httputil.WithQuery(q))
	result, err := httputil.Into(resp, err, profilesDecoder)
	if err != nil {
		return result, err
	}
	if perr := result.Check(size); perr != nil {
		c.api.Logger().WithContext(ctx).WithError(perr).Warn("teacher page breaks paging contract")
	}
	return result, nil
}
