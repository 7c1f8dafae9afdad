// Package envelope unwraps backend response envelopes. Payload locations differ
// between endpoint families, so every endpoint declares its own path instead of
// sharing one generic unwrap.
package envelope

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tutorhub/console/internal/pagination"
)

// Common payload paths.
const (
	// AdminData is where admin endpoints put their payload.
	AdminData = "body.data"
	// CoinData is where coin endpoints put their payload.
	CoinData = "data"
)

// Decoder reads a T from one fixed path of a response body.
type Decoder[T any] struct {
	Path string
}

// At returns a decoder for path. An empty path decodes the whole body.
func At[T any](path string) Decoder[T] {
	return Decoder[T]{Path: path}
}

// Decode extracts the payload. A missing path is an error; an explicit null
// yields the zero value.
func (d Decoder[T]) Decode(body []byte) (T, error) {
	var out T
	raw, err := lookup(body, d.Path)
	if err != nil {
		return out, err
	}
	if raw == "" || raw == "null" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("envelope: decode %q: %w", d.Path, err)
	}
	return out, nil
}

// Ignore decodes nothing. It serves operations whose response payload is unused.
type Ignore struct{}

// Decode implements the decoder contract and never fails.
func (Ignore) Decode([]byte) (struct{}, error) { return struct{}{}, nil }

// PageDecoder reads a paginated collection whose items and counters may sit at
// different paths.
type PageDecoder[T any] struct {
	ItemsPath  string
	CountsPath string
}

// PageAt returns a decoder for items under itemsPath with the counters beside them
// at countsPath.
func PageAt[T any](itemsPath, countsPath string) PageDecoder[T] {
	return PageDecoder[T]{ItemsPath: itemsPath, CountsPath: countsPath}
}

// counter aliases seen across resource families
var (
	currentPageKeys = []string{"currentPage", "page"}
	totalPagesKeys  = []string{"totalPages"}
	totalItemsKeys  = []string{"totalItems", "totalCount", "totalElements"}
)

// Decode extracts the page.
func (d PageDecoder[T]) Decode(body []byte) (pagination.Page[T], error) {
	var page pagination.Page[T]

	items, err := At[[]T](d.ItemsPath).Decode(body)
	if err != nil {
		return page, err
	}
	page.Items = items

	counts, err := lookup(body, d.CountsPath)
	if err != nil {
		return page, err
	}
	c := gjson.Parse(counts)
	page.CurrentPage = firstInt(c, currentPageKeys)
	// Spring's "number" is a 0-based index
	if n := c.Get("number"); page.CurrentPage == 0 && n.Exists() {
		page.CurrentPage = int(n.Int()) + 1
	}
	page.TotalPages = firstInt(c, totalPagesKeys)
	page.TotalItems = firstInt(c, totalItemsKeys)
	return page, nil
}

// Message returns the human-readable error text of an error response body:
// headers.customerMessage, then message. It returns "" when neither is present.
func Message(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"headers.customerMessage", "message"} {
		if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String {
			if s := strings.TrimSpace(r.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func lookup(body []byte, path string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("envelope: response is not valid JSON")
	}
	if path == "" {
		return string(body), nil
	}
	r := gjson.GetBytes(body, path)
	if !r.Exists() {
		return "", fmt.Errorf("envelope: path %q not found", path)
	}
	return r.Raw, nil
}

func firstInt(r gjson.Result, keys []string) int {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return int(v.Int())
		}
	}
	return 0
}
