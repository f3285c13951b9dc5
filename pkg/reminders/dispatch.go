package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PendingLister is the read side of a Notifier.
type PendingLister interface {
	ListPending(ctx context.Context) ([]Pending, error)
}

// DeliverFunc shows one reminder.
type DeliverFunc func(ctx context.Context, p Pending)

// CronSpec is the weekly cron expression of a registration. Cron counts
// weekdays from Sunday=0.
func CronSpec(p Pending) string {
	return fmt.Sprintf("%d %d * * %d", p.Minute, p.Hour, p.Weekday-1)
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Dispatcher fires pending registrations at their weekly times.
type Dispatcher struct {
	lister  PendingLister
	deliver DeliverFunc
	logger  *zap.Logger
	cron    *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewDispatcher builds a dispatcher whose schedule is evaluated in loc
// (time.Local when nil).
func NewDispatcher(lister PendingLister, deliver DeliverFunc, loc *time.Location, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	logger = logger.Named("dispatcher")
	return &Dispatcher{
		lister:  lister,
		deliver: deliver,
		logger:  logger,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger{sugar: logger.Sugar()}),
		),
		entries: make(map[string]cron.EntryID),
	}
}

// Reload replaces the schedule with the registrations currently pending and
// returns how many are scheduled.
func (d *Dispatcher) Reload(ctx context.Context) (int, error) {
	pending, err := d.lister.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending reminders: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for identifier, id := range d.entries {
		d.cron.Remove(id)
		delete(d.entries, identifier)
	}

	for _, p := range pending {
		id, err := d.cron.AddFunc(CronSpec(p), func() {
			d.logger.Info("delivering reminder", zap.String("identifier", p.Identifier))
			d.deliver(context.Background(), p)
		})
		if err != nil {
			d.logger.Error("failed to schedule reminder", zap.String("identifier", p.Identifier), zap.Error(err))
			continue
		}
		d.entries[p.Identifier] = id
	}

	d.logger.Debug("reminder schedule reloaded", zap.Int("scheduled", len(d.entries)))
	return len(d.entries), nil
}

// Next returns the next firing time of a scheduled registration.
func (d *Dispatcher) Next(identifier string, after time.Time) (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok := d.entries[identifier]
	if !ok {
		return time.Time{}, false
	}
	return d.cron.Entry(id).Schedule.Next(after), true
}

// Run loads the schedule, starts firing, and re-reads pending registrations
// every reloadInterval until ctx is done. Reload failures are logged and the
// previous schedule is kept.
func (d *Dispatcher) Run(ctx context.Context, reloadInterval time.Duration) error {
	if _, err := d.Reload(ctx); err != nil {
		return err
	}

	d.cron.Start()
	defer func() {
		<-d.cron.Stop().Done()
	}()

	if reloadInterval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(reloadInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := d.Reload(ctx); err != nil && ctx.Err() == nil {
				d.logger.Warn("failed to reload reminders", zap.Error(err))
			}
		}
	}
}
