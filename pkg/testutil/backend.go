package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// Request is one request received by a Backend.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded request body into v.
func (r Request) JSON(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode request body %q: %v", r.Body, err)
	}
}

// Backend is an in-process stand-in for the admin and coin APIs. Routes are
// registered on Router; every request is recorded, matched or not.
type Backend struct {
	Server *httptest.Server
	Router *mux.Router

	mu       sync.Mutex
	requests []Request
}

// NewBackend starts a backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{Router: mux.NewRouter()}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string { return b.Server.URL }

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	b.mu.Unlock()

	b.Router.ServeHTTP(w, r)
}

// Handle registers h for method and path. path uses mux patterns such as
// /api/v1/users/{id}.
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.Router.HandleFunc(path, h).Methods(method)
}

// Reply registers a canned JSON response.
func (b *Backend) Reply(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Requests returns a copy of everything received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Last returns the most recent request. It fails the test when none was received.
func (b *Backend) Last(t testing.TB) Request {
	t.Helper()
	reqs := b.Requests()
	if len(reqs) == 0 {
		t.Fatal("backend received no requests")
	}
	return reqs[len(reqs)-1]
}

// Count returns the number of requests received.
func (b *Backend) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Admin wraps data in the admin family envelope: {"headers":{},"body":{"data":...}}.
func Admin(data any) map[string]any {
	return map[string]any{
		"headers": map[string]any{},
		"body":    map[string]any{"data": data},
	}
}

// AdminError is an admin family error body carrying a customer message.
func AdminError(message string) map[string]any {
	return map[string]any{
		"headers": map[string]any{"customerMessage": message},
		"body":    map[string]any{"data": nil},
	}
}

// Coin wraps data in the coin family envelope: {"success":true,"data":...}.
func Coin(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

// Message is a plain {"message":...} error body.
func Message(message string) map[string]any {
	return map[string]any{"message": message}
}
