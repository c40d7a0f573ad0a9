package journal

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/pedalboard/internal/notify"
)

// Observer journals every announcement it receives.
//
// ERROR HANDLING: observers cannot fail a mutation, so a write failure is
// logged with the full event and counted, and the observer carries on.
type Observer struct {
	store    *Store
	clock    Sequencer
	// ctx bounds every write; notify.Observer has no per-call context.
	ctx      context.Context
	logger   *slog.Logger
	failures atomic.Int64
}

// ObserverOption configures an Observer.
type ObserverOption func(*Observer)

// WithSequencer overrides the clock. Default: a Clock resumed from the
// journal's last seq.
func WithSequencer(s Sequencer) ObserverOption {
	return func(o *Observer) {
		o.clock = s
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) ObserverOption {
	return func(o *Observer) {
		o.logger = l
	}
}

// NewObserver creates a journaling observer on store.
// ctx bounds every write; it is usually the session context.
func NewObserver(ctx context.Context, store *Store, opts ...ObserverOption) (*Observer, error) {
	o := &Observer{
		store:  store,
		ctx:    ctx,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		last, err := store.LastSeq(ctx)
		if err != nil {
			return nil, err
		}
		o.clock = NewClockAt(last)
	}
	return o, nil
}

// OnPedalboardUpdated implements notify.Observer.
func (o *Observer) OnPedalboardUpdated(ev notify.UpdateEvent) {
	rec, err := FromEvent(ev)
	if err == nil {
		rec, err = rec.Stamp(o.clock.Next())
	}
	if err == nil {
		err = o.store.Append(o.ctx, rec)
	}
	if err != nil {
		o.failures.Add(1)
		o.logger.Error("journal append failed",
			"error", err,
			"type", ev.Type.String(),
			"pedalboard", ev.Pedalboard,
			"index", ev.Index,
			"token", string(ev.Token),
		)
		return
	}

	o.logger.Debug("event journaled",
		"id", rec.ID,
		"seq", rec.Seq,
		"type", rec.Type,
	)
}

// Failures returns how many announcements could not be journaled.
func (o *Observer) Failures() int64 {
	return o.failures.Load()
}
