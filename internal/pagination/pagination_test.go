package pagination

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilters_OmitsEmptyValues(t *testing.T) {
	var nilBool *bool
	active := true

	q := Query(2, 10, Filters{
		"roleName":     "ROLE_TUTOR",
		"activeStatus": &active,
		"searchTerm":   "",
		"blank":        "   ",
		"missing":      nil,
		"nilPtr":       nilBool,
		"since":        time.Time{},
	})

	assert.Equal(t, "activeStatus=true&page=2&roleName=ROLE_TUTOR&size=10", q.Encode())
	for _, k := range []string{"searchTerm", "blank", "missing", "nilPtr", "since"} {
		_, present := q[k]
		assert.False(t, present, "%s must be absent", k)
	}
}

func TestFilters_FalseIsSent(t *testing.T) {
	q := Filters{"activeStatus": false}.Apply(nil)
	assert.Equal(t, "false", q.Get("activeStatus"))
}

func TestFilters_Scalars(t *testing.T) {
	q := Filters{
		"userId":    int64(77),
		"amount":    12.5,
		"startDate": time.Date(2024, time.March, 8, 15, 0, 0, 0, time.UTC),
	}.Apply(url.Values{})

	assert.Equal(t, "77", q.Get("userId"))
	assert.Equal(t, "12.5", q.Get("amount"))
	assert.Equal(t, "2024-03-08", q.Get("startDate"))
}

func TestNormalize(t *testing.T) {
	p, s := Normalize(0, 0, 5)
	assert.Equal(t, 1, p)
	assert.Equal(t, 5, s)

	p, s = Normalize(3, 20, 5)
	assert.Equal(t, 3, p)
	assert.Equal(t, 20, s)
}

func TestPage_Check(t *testing.T) {
	ok := Page[int]{Items: []int{1, 2}, CurrentPage: 2, TotalPages: 2, TotalItems: 12}
	assert.NoError(t, ok.Check(10))
	assert.False(t, ok.HasNext())

	tooMany := Page[int]{Items: []int{1, 2, 3}, CurrentPage: 1, TotalPages: 1, TotalItems: 3}
	assert.Error(t, tooMany.Check(2))

	pastEnd := Page[int]{CurrentPage: 4, TotalPages: 1, TotalItems: 5}
	assert.Error(t, pastEnd.Check(5))

	empty := Page[int]{}
	assert.NoError(t, empty.Check(10))
}
