package session

import (
	"context"

	"github.com/tutorhub/console/internal/logging"
)

// ExpiredNotice is shown to the operator when the backend rejects the credential.
const ExpiredNotice = "Your session has expired. Please log in again."

// ExpiryHandler runs the logout side effects after a received 401.
type ExpiryHandler interface {
	SessionExpired(ctx context.Context)
}

// Notifier surfaces a user-visible message.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Navigator moves the operator to another entry point.
type Navigator interface {
	Redirect(ctx context.Context, path string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Redirect(ctx context.Context, path string) { f(ctx, path) }

// Expirer is the standard ExpiryHandler: notify, clear the store, redirect.
type Expirer struct {
	Store     Store
	Notifier  Notifier
	Navigator Navigator
	LoginPath string
	Logger    *logging.Logger
}

// SessionExpired implements ExpiryHandler. Failures to clear the store are logged;
// the notice and redirect still happen.
func (e *Expirer) SessionExpired(ctx context.Context) {
	if e.Notifier != nil {
		e.Notifier.Notify(ctx, ExpiredNotice)
	}
	if e.Store != nil {
		if err := e.Store.Clear(ctx); err != nil && e.Logger != nil {
			e.Logger.WithContext(ctx).WithError(err).Error("failed to clear expired session")
		}
	}
	path := e.LoginPath
	if path == "" {
		path = "/login"
	}
	if e.Navigator != nil {
		e.Navigator.Redirect(ctx, path)
	}
}
