package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/logging"
	"github.com/tutorhub/console/internal/session"
	"github.com/tutorhub/console/pkg/testutil"
)

func newClient(t *testing.T, backend *testutil.Backend) *Client {
	t.Helper()
	api, err := httputil.New(httputil.Config{
		BaseURL: backend.URL(),
		Family:  "admin",
		Session: session.NewMemoryStore("tok"),
		Logger:  logging.Discard(),
	})
	require.NoError(t, err)
	return New(api)
}

func TestCurrent(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/coin-price", http.StatusOK, testutil.Admin(map[string]any{
		"id": 3, "price": 0.12, "currency": "USD", "active": true, "updatedAt": []int{2024, 12, 31, 23, 59, 59},
	}))

	res := newClient(t, backend).Current(context.Background())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 0.12, res.Data.Price)
	assert.Equal(t, "December 31, 2024", res.Data.UpdatedAt.Display())
}

func TestAddAndUpdate(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodPost, "/api/v1/coin-price", http.StatusCreated, testutil.Admin(map[string]any{"id": 4, "price": 0.15, "active": true}))
	backend.Reply(http.MethodPut, "/api/v1/coin-price/{id}", http.StatusOK, testutil.Admin(map[string]any{"id": 4, "price": 0.2, "active": true}))

	c := newClient(t, backend)

	added := c.Add(context.Background(), PriceRequest{Price: 0.15, Currency: "USD"})
	require.True(t, added.Success, added.Error)

	updated := c.Update(context.Background(), 4, 0.2)
	require.True(t, updated.Success, updated.Error)
	assert.Equal(t, 0.2, updated.Data.Price)

	got := backend.Last(t)
	assert.Equal(t, "/api/v1/coin-price/4", got.Path)
	var sent map[string]any
	got.JSON(t, &sent)
	assert.Equal(t, 0.2, sent["price"])
}

func TestUpdate_NonPositivePriceNeverSent(t *testing.T) {
	backend := testutil.NewBackend(t)

	res := newClient(t, backend).Update(context.Background(), 4, 0)
	assert.False(t, res.Success)
	assert.Equal(t, "price: must be greater than 0", res.Error)
	assert.Zero(t, backend.Count())
}

func TestCurrent_ServerError(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Reply(http.MethodGet, "/api/v1/coin-price", http.StatusServiceUnavailable, nil)

	res := newClient(t, backend).Current(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusServiceUnavailable, res.Status)
	assert.Equal(t, "Service Unavailable", res.Error)
}
