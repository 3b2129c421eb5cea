package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omrozmn/x-ear-sub010/internal/bus"
	"github.com/omrozmn/x-ear-sub010/internal/closer"
	"github.com/omrozmn/x-ear-sub010/internal/config"
	"github.com/omrozmn/x-ear-sub010/internal/logger"
)

type app struct {
	di *di
}

func New(ctx context.Context) (*app, error) {
	a := &app{}

	if err := a.init(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) Run(ctx context.Context) error { return a.run(ctx) }

func (a *app) init(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initLogger,
		a.initCloser,
		a.initDI,
		a.initMirror,
		a.initSubscribers,
	}

	for _, initFn := range inits {
		if err := initFn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) initConfig(_ context.Context) error {
	return config.Load()
}

func (a *app) initLogger(_ context.Context) error {
	return logger.Init(
		config.C().Logger.Level(),
		config.C().Logger.AsJSON(),
	)
}

func (a *app) initCloser(_ context.Context) error {
	closer.SetLogger(logger.L())
	return nil
}

func (a *app) initDI(_ context.Context) error {
	a.di = NewDI()
	return nil
}

func (a *app) initMirror(ctx context.Context) error {
	return a.di.Mirror(ctx).Load(ctx)
}

// initSubscribers wires the read-side consumers of the change bus. Both are
// debounced: bulk operations fire one notification per record and a single
// recomputation at the end is enough.
func (a *app) initSubscribers(ctx context.Context) error {
	window := config.C().Sync.DebounceWindow()
	changeBus := a.di.ChangeBus(ctx)

	stats := a.di.StatsService(ctx)
	changeBus.SubscribeDebounced("stats", window, stats.OnChange)
	stats.Recompute()

	alerts := a.di.AlertService(ctx)
	changeBus.SubscribeDebounced("low-stock-alerts", window, func(_ bus.Reason) {
		alerts.Scan(ctx)
	})

	return nil
}

func (a *app) run(ctx context.Context) error {
	defer gracefulShutdown()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info(egCtx, "🚀 create-confirmation consumer running")
		if err := a.di.ConfirmationConsumer(egCtx).RunConfirmationConsume(egCtx); err != nil {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		a.runFlushLoop(egCtx)
		return nil
	})

	// A failed initial reload is not fatal, the snapshot-seeded mirror keeps
	// serving until connectivity returns.
	if err := a.di.QueryService(ctx).Reload(ctx); err != nil {
		logger.Warn(ctx, "initial reload failed, starting from snapshot", logger.ErrorF(err))
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	return nil
}

// runFlushLoop periodically retries creates that were queued while the remote
// API was unreachable.
func (a *app) runFlushLoop(ctx context.Context) {
	interval := config.C().Sync.FlushInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info(ctx, "🚀 pending-mutation flush loop running",
		logger.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := a.di.SyncService(ctx).FlushPending(ctx)
			if res.Succeeded > 0 || res.Failed > 0 {
				logger.Info(ctx, "flushed pending mutations",
					logger.Int("succeeded", res.Succeeded),
					logger.Int("failed", res.Failed),
				)
			}
		}
	}
}

//nolint:contextcheck
func gracefulShutdown() {
	ctx, cancel := context.WithTimeout(
		context.Background(), // do not inherit cancellation from ctx
		10*time.Second,
	)
	defer cancel()

	err := closer.CloseAll(ctx)
	if err != nil {
		logger.Error(ctx, "❌ Error during shutdown", logger.ErrorF(err))
		logger.Error(ctx, "❌😵‍💫 Service stopped")
		return
	}
	logger.Info(ctx, "✅ Service stopped")
}
