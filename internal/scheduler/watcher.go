package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/connprobe/internal/domain"
	"github.com/hamed0406/connprobe/internal/notify"
	"github.com/hamed0406/connprobe/internal/repo"
)

// Runner is satisfied by *probe.Suite.
type Runner interface {
	Run(ctx context.Context) []domain.NamedResult
}

type WatcherConfig struct {
	Interval        time.Duration // 0 disables the watcher
	Cooldown        time.Duration // minimum gap between DOWN alerts for one backend
	AlertOnRecovery bool
}

// Watcher probes every backend on an interval and notifies on up/down changes.
type Watcher struct {
	logger   *zap.Logger
	probes   Runner
	states   repo.StateStore
	notifier notify.Notifier
	cfg      WatcherConfig
	now      func() time.Time

	mu sync.Mutex // serializes passes from Run and Scan
}

func NewWatcher(
	logger *zap.Logger,
	probes Runner,
	states repo.StateStore,
	notifier notify.Notifier,
	cfg WatcherConfig,
) *Watcher {
	if cfg.Interval < 0 {
		cfg.Interval = 0
	}
	return &Watcher{
		logger:   logger,
		probes:   probes,
		states:   states,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run does an immediate pass, then one per tick. Stops when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if w.cfg.Interval == 0 {
		w.logger.Info("watcher_disabled")
		return
	}
	t := time.NewTicker(w.cfg.Interval)
	defer t.Stop()

	w.logger.Info("watcher_started", zap.Duration("interval", w.cfg.Interval))
	w.scanOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher_stopped")
			return
		case <-t.C:
			w.scanOnce(ctx)
		}
	}
}

func (w *Watcher) scanOnce(ctx context.Context) {
	_ = w.Scan(ctx)
}

// Scan runs one pass immediately, alerting as a scheduled pass would, and
// returns what it saw.
func (w *Watcher) Scan(ctx context.Context) []domain.NamedResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	results := w.probes.Run(ctx)
	for _, nr := range results {
		if ctx.Err() != nil {
			break
		}
		w.observe(ctx, nr)
	}
	return results
}

func (w *Watcher) observe(ctx context.Context, nr domain.NamedResult) {
	up := nr.Result.Success
	log := w.logger.With(zap.String("backend", string(nr.Backend)), zap.Bool("up", up))

	rec, err := w.states.Get(ctx, nr.Backend)
	if err != nil {
		log.Warn("watcher_state_read_error", zap.Error(err))
		return
	}
	var (
		lastSent time.Time
		pending  bool
	)
	if rec != nil {
		if rec.LastSentAt != nil {
			lastSent = *rec.LastSentAt
		}
		pending = rec.PendingDown
	}
	changed := rec == nil || rec.LastUp != up
	if !changed && !(pending && !up) {
		return
	}

	now := w.now()
	var send bool
	switch {
	case !up:
		// first sighting, up -> down, or a DOWN held back by the cooldown
		send = lastSent.IsZero() || now.Sub(lastSent) >= w.cfg.Cooldown
	case rec != nil && !pending:
		// down -> up. A first sighting of a healthy backend is not a recovery,
		// and neither is the end of an outage that was never announced.
		send = w.cfg.AlertOnRecovery
	}

	if send {
		if err := w.notifier.Notify(ctx, notify.Alert{Backend: nr.Backend, Result: nr.Result}); err != nil {
			log.Warn("watcher_notify_error", zap.Error(err))
		}
		lastSent = now
	} else {
		log.Debug("watcher_alert_suppressed")
	}

	next := repo.StateRecord{Backend: nr.Backend, LastUp: up, PendingDown: !up && !send}
	if !lastSent.IsZero() {
		next.LastSentAt = &lastSent
	}
	if err := w.states.Set(ctx, next); err != nil {
		log.Warn("watcher_state_write_error", zap.Error(err))
	}
}
