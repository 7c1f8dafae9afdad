package client

import (
	"context"
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

func newClient(t *testing.T, backend *testutil.Backend, store session.Store) *Client {
	t.Helper()
	api, err := httputil.New(httputil.Config{
		BaseURL: backend.URL(),
		Family:  "admin",
		Session: store,
		Logger:  logging.Discard(),
	})
	require.NoError(t, err)
	return New(api)
}

func TestLogin_StoresToken(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodPost, "/api/v1/auth/login", http.StatusOK, testutil.Admin(map[string]any{"token": "jwt-abc"}))

	store := session.NewMemoryStore("")
	c := newClient(t, backend, store)

	token, err := c.Login(context.Background(), LoginRequest{Email: " admin@example.com ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)

	stored, _ := store.Token(context.Background())
	assert.Equal(t, "jwt-abc", stored)

	var sent LoginRequest
	backend.Last(t).JSON(t, &sent)
	assert.Equal(t, "admin@example.com", sent.Email)
}

func TestLogin_ValidationBlocksRequest(t *testing.T) {
	backend := testutil.NewBackend(t)
	c := newClient(t, backend, session.NewMemoryStore(""))

	_, err := c.Login(context.Background(), LoginRequest{Email: "nope"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, backend.Count())
}

func TestLogin_RejectedCredentialsThrow(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodPost, "/api/v1/auth/login", http.StatusBadRequest, testutil.Message("Invalid email or password"))

	store := session.NewMemoryStore("")
	c := newClient(t, backend, store)

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", apperrors.Message(err))

	stored, _ := store.Token(context.Background())
	assert.Empty(t, stored)
}

func TestLogout_ClearsWithoutRequest(t *testing.T) {
	backend := testutil.NewBackend(t)
	store := session.NewMemoryStore("tok")
	c := newClient(t, backend, store)

	require.NoError(t, c.Logout(context.Background()))
	stored, _ := store.Token(context.Background())
	assert.Empty(t, stored)
	assert.Zero(t, backend.Count())
}

func TestMe(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/auth/me", http.StatusOK, testutil.Admin(map[string]any{
		"id": 1, "email": "admin@example.com", "fullName": "Ada Admin", "roles": []string{"ROLE_ADMIN"},
	}))

	res := newClient(t, backend, session.NewMemoryStore("tok")).Me(context.Background())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Ada Admin", res.Data.FullName)
	assert.Equal(t, []string{"ROLE_ADMIN"}, res.Data.Roles)
}
