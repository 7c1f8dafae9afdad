// Package testutil provides an in-process fake backend and recording session
// hooks for console tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tutorhub/console/internal/session"
)

// ExpiryRecorder records the notices and redirects issued by a session.Expirer.
type ExpiryRecorder struct {
	mu        sync.Mutex
	notices   []string
	redirects []string
}

// Notify implements session.Notifier.
func (r *ExpiryRecorder) Notify(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, message)
}

// Redirect implements session.Navigator.
func (r *ExpiryRecorder) Redirect(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, path)
}

// Notices returns the recorded notices.
func (r *ExpiryRecorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// Redirects returns the recorded redirect targets.
func (r *ExpiryRecorder) Redirects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.redirects...)
}

// NewExpirer returns an Expirer over store whose side effects land in the
// returned recorder.
func NewExpirer(store session.Store) (*session.Expirer, *ExpiryRecorder) {
	rec := &ExpiryRecorder{}
	return &session.Expirer{
		Store:     store,
		Notifier:  rec,
		Navigator: rec,
		LoginPath: "/login",
	}, rec
}

// SignedToken returns an HS256 JWT for subject expiring at exp. A zero exp omits
// the claim.
func SignedToken(t testing.TB, subject string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"iat":   time.Now().Add(-time.Minute).Unix(),
		"email": subject + "@example.com",
		"roles": []string{"ROLE_ADMIN"},
	}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
