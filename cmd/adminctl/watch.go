package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tutorhub/console/internal/console"
	apperrors "github.com/tutorhub/console/internal/errors"
	"github.com/tutorhub/console/internal/metrics"
	dashboardclient "github.com/tutorhub/console/services/dashboard/client"
)

type refresh struct {
	view dashboardView
	err  error
}

// runWatch refreshes the dashboard on a cron schedule until interrupted, the
// session expires, or -count refreshes have been printed. A slow refresh that
// is overtaken by the next one is discarded.
func runWatch(ctx context.Context, a *app, args []string) error {
	fs := a.flags("watch")
	schedule := fs.String("schedule", "@every 30s", "cron spec or descriptor")
	rng := fs.String("range", string(dashboardclient.RangeMonth), "month, quarter or year")
	count := fs.Int("count", 0, "stop after this many refreshes (0 runs until interrupted)")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	log := a.console.Logger()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if *metricsAddr != "" {
		srv := &http.Server{Addr: *metricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
		a.out.Info("serving metrics on %s/metrics", *metricsAddr)
	}

	results := make(chan refresh, 1)
	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(log)),
		cron.WithChain(cron.Recover(cron.PrintfLogger(log))),
	)
	_, err := c.AddFunc(*schedule, func() {
		r, ok := console.Latest(ctx, a.console, "dashboard", func(ctx context.Context) refresh {
			v, err := loadDashboard(ctx, a, dashboardclient.Range(*rng))
			return refresh{view: v, err: err}
		})
		if !ok {
			return
		}
		select {
		case results <- r:
		case <-ctx.Done():
		}
	})
	if err != nil {
		a.out.Error("-schedule: %v", err)
		return errUsage
	}

	c.Start()
	defer func() {
		cancel()
		<-c.Stop().Done()
	}()
	a.out.Info("refreshing dashboard (%s) on %q", *rng, *schedule)

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-results:
			metrics.RecordRefresh(r.err == nil)
			if r.err != nil {
				if apperrors.IsSessionExpired(r.err) || apperrors.IsValidation(r.err) {
					return r.err
				}
				a.out.Warning("refresh failed: %s", apperrors.Message(r.err))
				continue
			}
			if err := a.out.Print(r.view, dashboardTable(r.view)); err != nil {
				return err
			}
			if printed++; *count > 0 && printed >= *count {
				return nil
			}
		}
	}
}
