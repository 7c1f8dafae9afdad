// Package client manages console users and roles.
//
// Search and AssignRole report failures through envelope.Result. The user and
// role CRUD operations return errors instead; callers of those must handle the
// error themselves.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/tutorhub/console/internal/envelope"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/pagination"
	"github.com/tutorhub/console/internal/validate"
)

// DefaultPageSize is used when the caller passes a non-positive size.
const DefaultPageSize = 10

const (
	usersPath      = "/api/v1/users"
	assignRolePath = "/api/v1/users/assign-role"
	rolesPath      = "/api/v1/roles"
)

var (
	usersDecoder = envelope.PageAt[User](envelope.AdminData+".users", envelope.AdminData)
	userDecoder  = envelope.At[User](envelope.AdminData)
	rolesDecoder = envelope.At[[]Role](envelope.AdminData)
	roleDecoder  = envelope.At[Role](envelope.AdminData)
)

// Client talks to the user and role endpoints of the admin API.
type Client struct {
	api *httputil.Client
}

// New creates a users client.
func New(api *httputil.Client) *Client {
	return &Client{api: api}
}

// =============================================================================
// Users
// =============================================================================

// Search returns one page of users matching f.
func (c *Client) Search(ctx context.Context, page, size int, f Filter) envelope.Result[pagination.Page[User]] {
	page, size = pagination.Normalize(page, size, DefaultPageSize)
	q := pagination.Query(page, size, f.filters())

	resp, err := c.api.Get(ctx, usersPath, httputil.WithQuery(q))
	res := httputil.ToResult(resp, err, usersDecoder)
	if res.Success {
		if perr := res.Data.Check(size); perr != nil {
			c.api.Logger().WithContext(ctx).WithError(perr).Warn("user page breaks paging contract")
		}
	}
	return res
}

// Create registers a user.
func (c *Client) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return User{}, err
	}
	resp, err := c.api.Post(ctx, usersPath, httputil.WithBody(req))
	return httputil.Into(resp, err, userDecoder)
}

// Enable reactivates a user.
func (c *Client) Enable(ctx context.Context, id int64) error {
	_, err := c.api.Put(ctx, userPath(id)+"/enable")
	return err
}

// Disable deactivates a user.
func (c *Client) Disable(ctx context.Context, id int64) error {
	_, err := c.api.Put(ctx, userPath(id)+"/disable")
	return err
}

// Delete removes a user.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.api.Delete(ctx, userPath(id))
	return err
}

// AssignRole grants a role to a user.
func (c *Client) AssignRole(ctx context.Context, req AssignRoleRequest) envelope.Result[struct{}] {
	if err := validate.Struct(req); err != nil {
		return envelope.Fail[struct{}](err)
	}
	resp, err := c.api.Post(ctx, assignRolePath, httputil.WithBody(req))
	return httputil.ToResult(resp, err, envelope.Ignore{})
}

// =============================================================================
// Roles
// =============================================================================

// Roles lists every role.
func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	resp, err := c.api.Get(ctx, rolesPath)
	return httputil.Into(resp, err, rolesDecoder)
}

// Role fetches one role.
func (c *Client) Role(ctx context.Context, id int64) (Role, error) {
	resp, err := c.api.Get(ctx, rolePath(id))
	return httputil.Into(resp, err, roleDecoder)
}

// CreateRole defines a role.
func (c *Client) CreateRole(ctx context.Context, req CreateRoleRequest) (Role, error) {
	req.Name = strings.ToUpper(strings.TrimSpace(req.Name))
	if err := validate.Struct(req); err != nil {
		return Role{}, err
	}
	resp, err := c.api.Post(ctx, rolesPath, httputil.WithBody(req))
	return httputil.Into(resp, err, roleDecoder)
}

// DeleteRole removes a role.
func (c *Client) DeleteRole(ctx context.Context, id int64) error {
	_, err := c.api.Delete(ctx, rolePath(id))
	return err
}

func userPath(id int64) string { return fmt.Sprintf("%s/%d", usersPath, id) }

func rolePath(id int64) string { return fmt.Sprintf("%s/%d", rolesPath, id) }
