package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTitle = "from your Thankful list"
	DefaultBody  = "Isn't there something you're thankful for?"
)

// maxConcurrentRegistrations bounds the registration calls of one Submit.
const maxConcurrentRegistrations = 4

// State is the position of a scheduling session.
type State int

const (
	StateIdle State = iota
	StatePermissionRequested
	StateGranted
	StateDenied
	StateScheduling
	StateScheduled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePermissionRequested:
		return "permission-requested"
	case StateGranted:
		return "granted"
	case StateDenied:
		return "denied"
	case StateScheduling:
		return "scheduling"
	case StateScheduled:
		return "scheduled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Content is what a delivered reminder shows.
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// DefaultContent returns the stock reminder text.
func DefaultContent() Content {
	return Content{Title: DefaultTitle, Body: DefaultBody}
}

// Request is a repeating registration keyed by its trigger's identifier.
type Request struct {
	Trigger Trigger
	Content Content
}

// Pending is a registration as reported back by a Notifier.
type Pending struct {
	Identifier string  `json:"identifier"`
	Content    Content `json:"content"`
	Weekday    int     `json:"weekday"`
	Hour       int     `json:"hour"`
	Minute     int     `json:"minute"`
}

// Describe renders the next firing as "Monday at 9:30 AM".
func (p Pending) Describe() string {
	day, ok := WeekdayName(p.Weekday)
	if !ok {
		day = fmt.Sprintf("day %d", p.Weekday)
	}
	return day + " at " + FormatClock(p.Hour, p.Minute)
}

// Notifier is the notification service reminders are registered with.
// Register upserts by identifier. A Notifier that lacks permission may
// silently ignore Register.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	Register(ctx context.Context, req Request) error
	ListPending(ctx context.Context) ([]Pending, error)
	Cancel(ctx context.Context, identifiers []string) error
}

// SubmissionError reports one failed registration. Other triggers of the same
// submission are unaffected.
type SubmissionError struct {
	Identifier string
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("register reminder %s: %v", e.Identifier, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Result is the outcome of one scheduling session.
type Result struct {
	State     State     `json:"state"`
	Triggers  []Trigger `json:"triggers"`
	Submitted []string  `json:"submitted"`
	Unknown   []string  `json:"unknown,omitempty"`
}

// Scheduler drives scheduling sessions against a Notifier. Sessions are
// serialized; ListPending and Cancel go straight to the Notifier.
type Scheduler struct {
	notifier Notifier
	content  Content
	logger   *zap.Logger

	mu    sync.Mutex
	state State
}

// NewScheduler returns a Scheduler that registers reminders showing content.
// Empty content fields fall back to the defaults.
func NewScheduler(notifier Notifier, content Content, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if content.Title == "" {
		content.Title = DefaultTitle
	}
	if content.Body == "" {
		content.Body = DefaultBody
	}
	return &Scheduler{notifier: notifier, content: content, logger: logger.Named("reminders")}
}

// State returns the state the most recent session ended in.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Schedule computes the triggers for timeOfDay and days and submits them.
// Unrecognized day names are skipped with a warning.
func (s *Scheduler) Schedule(ctx context.Context, timeOfDay time.Time, days []string) (Result, error) {
	triggers, unknown := ComputeTriggers(timeOfDay, days)
	if len(unknown) > 0 {
		s.logger.Warn("skipping unrecognized weekday names", zap.Strings("days", unknown))
	}

	result, err := s.Submit(ctx, triggers)
	result.Unknown = unknown
	return result, err
}

// Submit runs one session: it asks for permission and, when granted,
// registers every trigger. Registrations run concurrently and complete in any
// order; a failed registration is logged and does not stop the others. All
// failures are returned together as *SubmissionError values combined with
// multierr. A denied permission ends the session in StateDenied with no error.
func (s *Scheduler) Submit(ctx context.Context, triggers []Trigger) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := Result{Triggers: triggers}

	s.state = StatePermissionRequested
	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		s.state = StateIdle
		result.State = s.state
		return result, fmt.Errorf("request notification permission: %w", err)
	}
	if !granted {
		s.state = StateDenied
		result.State = s.state
		s.logger.Info("notification permission denied, nothing scheduled", zap.Int("triggers", len(triggers)))
		return result, nil
	}
	s.state = StateGranted

	s.state = StateScheduling
	var (
		g         errgroup.Group
		resultsMu sync.Mutex
		errs      error
	)
	g.SetLimit(maxConcurrentRegistrations)
	for _, trigger := range triggers {
		g.Go(func() error {
			err := s.notifier.Register(ctx, Request{Trigger: trigger, Content: s.content})

			resultsMu.Lock()
			defer resultsMu.Unlock()
			if err != nil {
				s.logger.Error("failed to register reminder",
					zap.String("identifier", trigger.Identifier),
					zap.Error(err),
				)
				errs = multierr.Append(errs, &SubmissionError{Identifier: trigger.Identifier, Err: err})
				return nil
			}
			result.Submitted = append(result.Submitted, trigger.Identifier)
			return nil
		})
	}
	_ = g.Wait()

	s.state = StateScheduled
	result.State = s.state
	s.logger.Info("reminders scheduled",
		zap.Int("submitted", len(result.Submitted)),
		zap.Int("failed", len(multierr.Errors(errs))),
	)
	return result, errs
}

// ListPending returns what the Notifier currently has registered.
func (s *Scheduler) ListPending(ctx context.Context) ([]Pending, error) {
	return s.notifier.ListPending(ctx)
}

// Cancel removes registrations by identifier. Unknown identifiers are ignored.
func (s *Scheduler) Cancel(ctx context.Context, identifiers ...string) error {
	if len(identifiers) == 0 {
		return nil
	}
	if err := s.notifier.Cancel(ctx, identifiers); err != nil {
		return err
	}
	s.logger.Info("reminders cancelled", zap.Strings("identifiers", identifiers))
	return nil
}
