// Package pagination models paged collections and turns filter sets into
// outgoing query parameters.
package pagination

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Page is one page of a server-side collection. The counts are echoed from the
// backend and never computed here.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

// Check reports a page that breaks the paging contract for the requested size.
func (p Page[T]) Check(size int) error {
	if size > 0 && len(p.Items) > size {
		return fmt.Errorf("page holds %d items, more than size %d", len(p.Items), size)
	}
	if p.CurrentPage < 1 && (len(p.Items) > 0 || p.TotalItems > 0) {
		return fmt.Errorf("current page %d is not 1-based", p.CurrentPage)
	}
	if p.CurrentPage > 1 && size > 0 && (p.CurrentPage-1)*size > p.TotalItems {
		return fmt.Errorf("page %d of size %d starts past total %d", p.CurrentPage, size, p.TotalItems)
	}
	return nil
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Normalize clamps page to >= 1 and replaces a non-positive size with def.
func Normalize(page, size, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	return page, size
}

// Params returns the page/size query parameters.
func Params(page, size int) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))
	return v
}

// Filters maps named criteria to scalar values.
type Filters map[string]any

// Apply adds every non-empty filter to v in key order. Empty means nil, a blank
// string, a nil pointer or a zero time. false is a real value and is sent.
func (f Filters) Apply(v url.Values) url.Values {
	if v == nil {
		v = url.Values{}
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if s, ok := format(f[k]); ok {
			v.Set(k, s)
		}
	}
	return v
}

// Query is shorthand for Params(page, size) with the filters applied.
func Query(page, size int, f Filters) url.Values {
	return f.Apply(Params(page, size))
}

func format(val any) (string, bool) {
	if val == nil {
		return "", false
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return format(rv.Elem().Interface())
	}

	switch x := val.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return x.Format("2006-01-02"), true
	case fmt.Stringer:
		s := strings.TrimSpace(x.String())
		return s, s != ""
	default:
		s := strings.TrimSpace(fmt.Sprint(x))
		return s, s != ""
	}
}
