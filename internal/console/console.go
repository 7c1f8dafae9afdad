// Package console wires configuration, the credential store and both endpoint
// families into one set of service clients.
package console

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tutorhub/console/internal/config"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/logging"
	"github.com/tutorhub/console/internal/query"
	"github.com/tutorhub/console/internal/session"
	authclient "github.com/tutorhub/console/services/auth/client"
	coinsclient "github.com/tutorhub/console/services/coins/client"
	dashboardclient "github.com/tutorhub/console/services/dashboard/client"
	discountsclient "github.com/tutorhub/console/services/discounts/client"
	pricingclient "github.com/tutorhub/console/services/pricing/client"
	teachersclient "github.com/tutorhub/console/services/teachers/client"
	transactionsclient "github.com/tutorhub/console/services/transactions/client"
	usersclient "github.com/tutorhub/console/services/users/client"
)

// Endpoint family labels.
const (
	FamilyAdmin = "admin"
	FamilyCoins = "coins"
)

// Console bundles every service client over one credential store.
type Console struct {
	Auth         *authclient.Client
	Teachers     *teachersclient.Client
	Users        *usersclient.Client
	Transactions *transactionsclient.Client
	Pricing      *pricingclient.Client
	Discounts    *discountsclient.Client
	Dashboard    *dashboardclient.Client
	Coins        *coinsclient.Client

	Store   session.Store
	Expirer *session.Expirer

	log        *logging.Logger
	supersede  *query.Superseder
	debouncer  *query.Debouncer
	closeStore func() error
}

// Options supplies the pieces config cannot describe.
type Options struct {
	// Store overrides the configured credential store.
	Store session.Store
	// Notifier and Navigator receive the expiry notice and login redirect.
	Notifier   session.Notifier
	Navigator  session.Navigator
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// New builds a Console from cfg.
func New(cfg *config.Config, opts Options) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("console: config is required")
	}

	log := opts.Logger
	if log == nil {
		log = logging.New("console", cfg.Log.Level, cfg.Log.Format)
	}

	store := opts.Store
	closeStore := func() error { return nil }
	if store == nil {
		var err error
		store, closeStore, err = OpenStore(cfg.Session)
		if err != nil {
			return nil, err
		}
	}

	expirer := &session.Expirer{
		Store:     store,
		Notifier:  opts.Notifier,
		Navigator: opts.Navigator,
		LoginPath: cfg.API.LoginPath,
		Logger:    log,
	}

	admin, err := httputil.New(httputil.Config{
		BaseURL:           cfg.API.AdminURL,
		Family:            FamilyAdmin,
		Session:           store,
		OnExpired:         expirer,
		HTTPClient:        opts.HTTPClient,
		RequestsPerSecond: cfg.API.RateLimit,
		Logger:            log,
	})
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("admin api: %w", err)
	}

	coins, err := httputil.New(httputil.Config{
		BaseURL:           cfg.API.CoinURL,
		Family:            FamilyCoins,
		Session:           store,
		OnExpired:         expirer,
		HTTPClient:        opts.HTTPClient,
		RequestsPerSecond: cfg.API.RateLimit,
		Logger:            log,
	})
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("coin api: %w", err)
	}

	return &Console{
		Auth:         authclient.New(admin),
		Teachers:     teachersclient.New(admin),
		Users:        usersclient.New(admin),
		Transactions: transactionsclient.New(admin),
		Pricing:      pricingclient.New(admin),
		Discounts:    discountsclient.New(admin),
		Dashboard:    dashboardclient.New(admin),
		Coins:        coinsclient.New(coins),
		Store:        store,
		Expirer:      expirer,
		log:          log,
		supersede:    query.NewSuperseder(),
		debouncer:    query.NewDebouncer(cfg.API.SearchDebounce),
		closeStore:   closeStore,
	}, nil
}

// OpenStore opens the configured credential store. The returned func releases it.
func OpenStore(cfg config.SessionConfig) (session.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreMemory:
		return session.NewMemoryStore(""), noop, nil
	case config.StoreRedis:
		s := session.NewRedisStore(session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
			TTL:      cfg.RedisTTL,
		})
		return s, s.Close, nil
	case config.StoreFile, "":
		key, err := cfg.SealKey()
		if err != nil {
			return nil, nil, err
		}
		s, err := session.NewFileStore(cfg.File, key)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// Logger returns the console logger.
func (c *Console) Logger() *logging.Logger { return c.log }

// Close releases the credential store.
func (c *Console) Close() error {
	if c.closeStore == nil {
		return nil
	}
	return c.closeStore()
}

// Latest runs fn for key after the debounce delay. A newer call for the same key
// cancels this one; fn's context is then cancelled and ok is false. Use it for
// search-as-you-type listings where only the newest response may be shown.
func Latest[T any](ctx context.Context, c *Console, key string, fn func(context.Context) T) (T, bool) {
	var zero T
	if !c.debouncer.Wait(ctx, key) {
		return zero, false
	}

	ctx, ticket := c.supersede.Begin(ctx, key)
	defer ticket.Done()

	out := fn(ctx)
	if !ticket.Current() || ctx.Err() != nil {
		c.log.WithContext(ctx).WithField("query", key).WithField("seq", ticket.Seq()).Debug("discarding superseded response")
		return zero, false
	}
	return out, true
}
