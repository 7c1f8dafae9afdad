package envelope

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tutorhub/console/internal/errors"
)

type user struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func TestDecoder_FixedPath(t *testing.T) {
	body := []byte(`{"body":{"data":{"users":[{"id":1,"email":"a@x"}],"currentPage":1}}}`)

	users, err := At[[]user]("body.data.users").Decode(body)
	require.NoError(t, err)
	assert.Equal(t, []user{{ID: 1, Email: "a@x"}}, users)

	_, err = At[[]user]("body.data.teachers").Decode(body)
	assert.Error(t, err, "a different resource path must not silently match")
}

func TestDecoder_NullAndWholeBody(t *testing.T) {
	u, err := At[*user](AdminData).Decode([]byte(`{"body":{"data":null}}`))
	require.NoError(t, err)
	assert.Nil(t, u)

	whole, err := At[map[string]int]("").Decode([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, 1, whole["a"])

	_, err = At[user](CoinData).Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestPageDecoder(t *testing.T) {
	body := []byte(`{"body":{"data":{
		"teachers":[{"id":5,"email":"t@x"}],
		"currentPage":2,"totalPages":3,"totalCount":11}}}`)

	page, err := PageAt[user]("body.data.teachers", "body.data").Decode(body)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 11, page.TotalItems, "totalCount is accepted as the item total")
}

func TestPageDecoder_ZeroBasedNumber(t *testing.T) {
	body := []byte(`{"data":{"transactions":[{"id":1}],"number":0,"totalPages":4,"totalElements":31}}`)

	page, err := PageAt[user]("data.transactions", "data").Decode(body)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage, "number 0 is the first page")
	assert.Equal(t, 31, page.TotalItems)
	assert.NoError(t, page.Check(10))

	body = []byte(`{"data":{"transactions":[],"currentPage":3,"number":2,"totalPages":4}}`)
	page, err = PageAt[user]("data.transactions", "data").Decode(body)
	require.NoError(t, err)
	assert.Equal(t, 3, page.CurrentPage, "an explicit 1-based page wins")
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"customer message wins", `{"headers":{"customerMessage":"Role already exists"},"message":"conflict"}`, "Role already exists"},
		{"message fallback", `{"message":"Transaction not found"}`, "Transaction not found"},
		{"nothing useful", `{"error":"x"}`, ""},
		{"not json", `<html>bad gateway</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message([]byte(tt.body)))
		})
	}
}

func TestResult(t *testing.T) {
	ok := OK(42, http.Header{"X-Total": {"1"}})
	assert.True(t, ok.Success)
	assert.NoError(t, ok.Err())

	failed := Fail[int](apperrors.Status(http.StatusNotFound, "Transaction not found", nil))
	assert.False(t, failed.Success)
	assert.Equal(t, "Transaction not found", failed.Error)
	assert.Equal(t, http.StatusNotFound, failed.Status)
	assert.True(t, failed.NotFound())
	assert.False(t, failed.SessionExpired())

	expired := Fail[int](apperrors.SessionExpired(nil))
	assert.True(t, expired.SessionExpired())
	assert.Zero(t, expired.Data)

	transport := Fail[int](apperrors.Transport(stderrors.New("connection refused")))
	assert.Equal(t, "connection refused", transport.Error)
	assert.Zero(t, transport.Status)
}
