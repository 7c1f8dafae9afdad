package client

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tutorhub/console/internal/errors"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/logging"
	"github.com/tutorhub/console/internal/session"
	"github.com/tutorhub/console/pkg/testutil"
)

func newClient(t *testing.T, backend *testutil.Backend, store session.Store, onExpired session.ExpiryHandler) *Client {
	t.Helper()
	api, err := httputil.New(httputil.Config{
		BaseURL:   backend.URL(),
		Family:    "admin",
		Session:   store,
		OnExpired: onExpired,
		Logger:    logging.Discard(),
	})
	require.NoError(t, err)
	return New(api)
}

func usersPage(n, current, pages, total int) map[string]any {
	users := make([]map[string]any, n)
	for i := range users {
		users[i] = map[string]any{
			"id":        i + 1,
			"email":     fmt.Sprintf("tutor%d@example.com", i+1),
			"firstName": "Tutor",
			"lastName":  fmt.Sprint(i + 1),
			"roleName":  "ROLE_TUTOR",
			"active":    true,
		}
	}
	return testutil.Admin(map[string]any{
		"users":       users,
		"currentPage": current,
		"totalPages":  pages,
		"totalItems":  total,
	})
}

func TestSearch_QueryParameters(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/users", http.StatusOK, usersPage(10, 2, 3, 25))

	active := true
	res := newClient(t, backend, session.NewMemoryStore("tok"), nil).
		Search(context.Background(), 2, 10, Filter{RoleName: "ROLE_TUTOR", ActiveStatus: &active})
	require.True(t, res.Success, res.Error)

	got := backend.Last(t)
	assert.Equal(t, "2", got.Query.Get("page"))
	assert.Equal(t, "10", got.Query.Get("size"))
	assert.Equal(t, "ROLE_TUTOR", got.Query.Get("roleName"))
	assert.Equal(t, "true", got.Query.Get("activeStatus"))
	_, present := got.Query["searchTerm"]
	assert.False(t, present, "empty searchTerm must not be sent")
	assert.Len(t, got.Query, 4)
}

func TestSearch_EmptyFiltersOmitted(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/users", http.StatusOK, usersPage(0, 1, 0, 0))

	tests := []struct {
		name   string
		filter Filter
	}{
		{"zero filter", Filter{}},
		{"blank strings", Filter{RoleName: "", SearchTerm: "  "}},
		{"nil status", Filter{ActiveStatus: nil}},
	}
	c := newClient(t, backend, session.NewMemoryStore("tok"), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Search(context.Background(), 1, 10, tt.filter)
			require.True(t, res.Success, res.Error)
			q := backend.Last(t).Query
			for _, key := range []string{"roleName", "activeStatus", "searchTerm"} {
				_, present := q[key]
				assert.False(t, present, "%s should be omitted", key)
			}
		})
	}
}

func TestSearch_InactiveStatusIsSent(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/users", http.StatusOK, usersPage(0, 1, 0, 0))

	inactive := false
	newClient(t, backend, session.NewMemoryStore("tok"), nil).
		Search(context.Background(), 1, 10, Filter{ActiveStatus: &inactive})
	assert.Equal(t, "false", backend.Last(t).Query.Get("activeStatus"))
}

func TestSearch_PageCountsEchoed(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/users", http.StatusOK, usersPage(5, 3, 3, 25))

	res := newClient(t, backend, session.NewMemoryStore("tok"), nil).Search(context.Background(), 3, 0, Filter{})
	require.True(t, res.Success, res.Error)

	page := res.Data
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 25, page.TotalItems)
	assert.LessOrEqual(t, len(page.Items), DefaultPageSize)
	assert.LessOrEqual(t, (page.CurrentPage-1)*DefaultPageSize, page.TotalItems)
	assert.NoError(t, page.Check(DefaultPageSize))
	assert.Equal(t, "Tutor 1", page.Items[0].FullName())
}

func TestSearch_FailureIsResult(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/users", http.StatusForbidden, testutil.AdminError("Access denied"))

	res := newClient(t, backend, session.NewMemoryStore("tok"), nil).Search(context.Background(), 1, 10, Filter{})
	assert.False(t, res.Success)
	assert.Equal(t, "Access denied", res.Error)
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Empty(t, res.Data.Items)
}

func TestSearch_UnauthorizedLogsOut(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/users", http.StatusUnauthorized, testutil.Message("token expired"))

	store := session.NewMemoryStore("stale")
	expirer, rec := testutil.NewExpirer(store)
	res := newClient(t, backend, store, expirer).Search(context.Background(), 1, 10, Filter{})

	assert.False(t, res.Success)
	assert.True(t, res.SessionExpired())
	assert.Nil(t, res.Data.Items, "no data may accompany an expired session")

	token, _ := store.Token(context.Background())
	assert.Empty(t, token)
	assert.Equal(t, []string{"/login"}, rec.Redirects())
	assert.Len(t, rec.Notices(), 1)
}

func TestCreate(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodPost, "/api/v1/users", http.StatusCreated, testutil.Admin(map[string]any{
		"id": 42, "email": "new@example.com", "firstName": "New", "lastName": "Tutor", "roleName": "ROLE_TUTOR", "active": true,
	}))

	user, err := newClient(t, backend, session.NewMemoryStore("tok"), nil).Create(context.Background(), CreateUserRequest{
		FirstName:       "New",
		LastName:        "Tutor",
		Email:           "new@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		RoleName:        "ROLE_TUTOR",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)

	var sent map[string]any
	backend.Last(t).JSON(t, &sent)
	assert.Equal(t, "longenough", sent["password"])
	_, leaked := sent["confirmPassword"]
	assert.False(t, leaked)
	_, leaked = sent["ConfirmPassword"]
	assert.False(t, leaked)
}

func TestCreate_PasswordMismatchNeverSent(t *testing.T) {
	backend := testutil.NewBackend(t)

	_, err := newClient(t, backend, session.NewMemoryStore("tok"), nil).Create(context.Background(), CreateUserRequest{
		FirstName:       "New",
		LastName:        "Tutor",
		Email:           "new@example.com",
		Password:        "longenough",
		ConfirmPassword: "different1",
		RoleName:        "ROLE_TUTOR",
	})
	require.Error(t, err)
	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "must match password", se.Fields["confirmPassword"])
	assert.Zero(t, backend.Count())
}

func TestEnableDisableDelete(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodPut, "/api/v1/users/{id}/enable", http.StatusOK, testutil.Admin(nil))
	backend.Reply(http.MethodPut, "/api/v1/users/{id}/disable", http.StatusOK, testutil.Admin(nil))
	backend.Reply(http.MethodDelete, "/api/v1/users/{id}", http.StatusOK, testutil.Admin(nil))

	c := newClient(t, backend, session.NewMemoryStore("tok"), nil)
	ctx := context.Background()
	require.NoError(t, c.Enable(ctx, 7))
	require.NoError(t, c.Disable(ctx, 7))
	require.NoError(t, c.Delete(ctx, 7))

	reqs := backend.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "PUT /api/v1/users/7/enable", reqs[0].Method+" "+reqs[0].Path)
	assert.Equal(t, "PUT /api/v1/users/7/disable", reqs[1].Method+" "+reqs[1].Path)
	assert.Equal(t, "DELETE /api/v1/users/7", reqs[2].Method+" "+reqs[2].Path)
}

func TestDelete_Throws(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodDelete, "/api/v1/users/{id}", http.StatusConflict, testutil.Message("User has open transactions"))

	err := newClient(t, backend, session.NewMemoryStore("tok"), nil).Delete(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))
	assert.Equal(t, "User has open transactions", apperrors.Message(err))
}

func TestMutationsAreNotDeduplicated(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodPut, "/api/v1/users/{id}/disable", http.StatusOK, testutil.Admin(nil))

	c := newClient(t, backend, session.NewMemoryStore("tok"), nil)
	require.NoError(t, c.Disable(context.Background(), 3))
	require.NoError(t, c.Disable(context.Background(), 3))
	assert.Equal(t, 2, backend.Count())
}

func TestRoles(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/roles", http.StatusOK, testutil.Admin([]map[string]any{
		{"id": 1, "name": "ROLE_ADMIN"}, {"id": 2, "name": "ROLE_TUTOR"},
	}))
	backend.Reply(http.MethodGet, "/api/v1/roles/{id}", http.StatusOK, testutil.Admin(map[string]any{"id": 2, "name": "ROLE_TUTOR"}))
	backend.Reply(http.MethodPost, "/api/v1/roles", http.StatusCreated, testutil.Admin(map[string]any{"id": 3, "name": "ROLE_STUDENT"}))
	backend.Reply(http.MethodDelete, "/api/v1/roles/{id}", http.StatusOK, testutil.Admin(nil))

	c := newClient(t, backend, session.NewMemoryStore("tok"), nil)
	ctx := context.Background()

	roles, err := c.Roles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	role, err := c.Role(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "ROLE_TUTOR", role.Name)

	created, err := c.CreateRole(ctx, CreateRoleRequest{Name: " role_student "})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	var sent CreateRoleRequest
	backend.Last(t).JSON(t, &sent)
	assert.Equal(t, "ROLE_STUDENT", sent.Name)

	require.NoError(t, c.DeleteRole(ctx, 3))
}

func TestRole_NotFoundThrows(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/roles/{id}", http.StatusNotFound, testutil.Message("Role not found"))

	_, err := newClient(t, backend, session.NewMemoryStore("tok"), nil).Role(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAssignRole(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodPost, "/api/v1/users/assign-role", http.StatusOK, testutil.Admin("Role assigned"))

	c := newClient(t, backend, session.NewMemoryStore("tok"), nil)
	res := c.AssignRole(context.Background(), AssignRoleRequest{UserID: 7, RoleID: 2})
	require.True(t, res.Success, res.Error)

	var sent map[string]any
	backend.Last(t).JSON(t, &sent)
	assert.Equal(t, float64(7), sent["userId"])
	assert.Equal(t, float64(2), sent["roleId"])
}

func TestAssignRole_InvalidNeverSent(t *testing.T) {
	backend := testutil.NewBackend(t)

	res := newClient(t, backend, session.NewMemoryStore("tok"), nil).AssignRole(context.Background(), AssignRoleRequest{UserID: 7})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "roleId")
	assert.Zero(t, backend.Count())
}
