package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/core/events"
	"github.com/frahmantamala/hours-portal/internal/state"
	"github.com/frahmantamala/hours-portal/internal/submission"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
)

// Submitter runs the submission pipeline over a snapshot of the state.
type Submitter interface {
	Submit(ctx context.Context, req submission.Request) (*submission.Outcome, error)
	Export(req submission.Request) ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Controller owns the one AppState of the portal. Every command reads or
// replaces it under mu; a mutation is persisted before it becomes visible,
// so a failed save leaves the previous state in place.
type Controller struct {
	mu    sync.RWMutex
	state state.AppState

	repo       *state.Repository
	submitter  Submitter
	publisher  Publisher
	submitting atomic.Bool
	now        func() time.Time
	logger     *slog.Logger
}

// NewController loads the persisted state. publisher may be nil.
func NewController(ctx context.Context, repo *state.Repository, submitter Submitter, publisher Publisher, logger *slog.Logger) (*Controller, error) {
	st, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return &Controller{
		state:     st,
		repo:      repo,
		submitter: submitter,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}, nil
}

// SetClock replaces the time source used for the default week.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() state.AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

func (c *Controller) commit(ctx context.Context, next state.AppState) error {
	if err := c.repo.Save(ctx, next); err != nil {
		c.logger.Error("failed to persist state", "error", err)
		return internal.NewInternalError("failed to save changes", err)
	}
	c.state = next
	return nil
}

func (c *Controller) publish(ctx context.Context, e events.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, e); err != nil {
		c.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

// Login makes the allow-listed supervisor with email the current user.
// Unknown emails get the same generic denial regardless of the reason.
func (c *Controller) Login(ctx context.Context, email string) (*supervisor.Supervisor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sup, ok := supervisor.FindByEmail(c.state.Supervisors, email)
	if !ok {
		c.logger.Warn("login denied")
		return nil, internal.ErrLoginDenied
	}

	next := c.state.Clone()
	next.CurrentUser = &sup
	if err := c.commit(ctx, next); err != nil {
		return nil, err
	}

	c.logger.Info("supervisor logged in", "supervisor_id", sup.ID)
	c.publish(ctx, events.NewLoggedInEvent(sup.ID, sup.Email))
	out := sup.Clone()
	return &out, nil
}

func (c *Controller) Logout(ctx context.Context, actorID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.actorLocked(actorID); err != nil {
		return err
	}
	next := c.state.Clone()
	next.CurrentUser = nil
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	c.logger.Info("supervisor logged out", "supervisor_id", actorID)
	return nil
}

// Authorize returns the current user when actorID is still logged in.
func (c *Controller) Authorize(actorID string) (*supervisor.Supervisor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sup, err := c.actorLocked(actorID)
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (c *Controller) CurrentUser() *supervisor.Supervisor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.CurrentUser == nil {
		return nil
	}
	u := c.state.CurrentUser.Clone()
	return &u
}

func (c *Controller) actorLocked(actorID string) (supervisor.Supervisor, error) {
	cur := c.state.CurrentUser
	if cur == nil || actorID == "" || cur.ID != actorID {
		return supervisor.Supervisor{}, internal.ErrNotLoggedIn
	}
	return cur.Clone(), nil
}

// Reset wipes storage and starts over from the seeded defaults.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.Clear(ctx); err != nil {
		return internal.NewInternalError("failed to clear storage", err)
	}
	if err := c.commit(ctx, c.repo.Default()); err != nil {
		return err
	}
	c.logger.Info("application state reset to defaults")
	return nil
}
