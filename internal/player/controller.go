// Package player owns the lifecycle of the single embedded media player:
// creation, reconfiguration and disposal. No other component constructs,
// disposes or mutates the player directly.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"flicker/internal/domain"
)

const (
	defaultAttachTimeout  = 5 * time.Second
	defaultAttachInterval = 100 * time.Millisecond
)

// Controller owns at most one live player instance. Every Open pairs with
// exactly one eventual disposal, including on reconfiguration and on
// whole-application teardown.
type Controller struct {
	engine Engine
	logger *slog.Logger

	attachTimeout  time.Duration
	attachInterval time.Duration

	mu         sync.Mutex
	generation uint64
	active     Instance
	activeSpec domain.MediaSpec
}

// Option configures a Controller.
type Option func(*Controller)

// WithAttachTimeout bounds the wait for the engine's control surface.
func WithAttachTimeout(d time.Duration) Option {
	return func(c *Controller) { c.attachTimeout = d }
}

// WithAttachInterval sets the initial poll interval while waiting.
func WithAttachInterval(d time.Duration) Option {
	return func(c *Controller) { c.attachInterval = d }
}

// NewController creates a controller around an engine.
func NewController(engine Engine, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		engine:         engine,
		logger:         logger,
		attachTimeout:  defaultAttachTimeout,
		attachInterval: defaultAttachInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open constructs a new player for spec. Any existing player is fully
// disposed first; instances are never reused across locators because the
// engine does not guarantee source-swap correctness. If construction fails
// or the control surface never attaches within the bound, the controller
// ends in a consistent "no active player" state and reports ErrPlayerInit.
//
// A Close or a competing Open that lands while construction is in flight
// makes this Open stale: the late-arriving instance disposes itself and
// ErrStale is returned. ErrStale is logged by callers, never shown.
func (c *Controller) Open(ctx context.Context, spec domain.MediaSpec) error {
	c.mu.Lock()
	c.closeLocked()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	inst, err := c.engine.Start(spec)
	if err != nil {
		c.logger.Error("player construction failed", "locator", spec.Locator, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrPlayerInit, err)
	}

	if err := c.awaitAttach(ctx, inst); err != nil {
		if derr := inst.Dispose(); derr != nil {
			c.logger.Warn("failed to dispose unattached player", "error", derr)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		c.logger.Error("player control surface never attached", "locator", spec.Locator)
		return fmt.Errorf("%w: control surface not attached within %s", domain.ErrPlayerInit, c.attachTimeout)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		if derr := inst.Dispose(); derr != nil {
			c.logger.Warn("failed to dispose stale player", "error", derr)
		}
		c.logger.Debug("stale player initialization discarded", "locator", spec.Locator)
		return domain.ErrStale
	}
	c.active = inst
	c.activeSpec = spec
	c.mu.Unlock()

	c.logger.Info("player ready", "title", spec.Title, "locator", spec.Locator)
	return nil
}

// Close pauses and fully disposes the active player, then clears internal
// references. Calling it with no active player is a no-op, not an error.
// The generation bump also invalidates any Open still waiting for attach,
// so a late-arriving initialization discards itself instead of installing
// a player nobody asked for.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.generation++
	return nil
}

// Reconfigure is Close followed by Open with the new spec. In-place source
// replacement is never attempted.
func (c *Controller) Reconfigure(ctx context.Context, spec domain.MediaSpec) error {
	if err := c.Close(); err != nil {
		return err
	}
	return c.Open(ctx, spec)
}

// Active returns the spec of the live player, if one exists.
func (c *Controller) Active() (domain.MediaSpec, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeSpec, c.active != nil
}

// closeLocked tears down the active instance: pause, dispose, clear.
// Callers hold c.mu.
func (c *Controller) closeLocked() {
	if c.active == nil {
		return
	}
	if err := c.active.Pause(); err != nil {
		c.logger.Debug("pause before dispose failed", "error", err)
	}
	if err := c.active.Dispose(); err != nil {
		c.logger.Warn("player dispose failed", "error", err)
	}
	c.logger.Info("player disposed", "title", c.activeSpec.Title)
	c.active = nil
	c.activeSpec = domain.MediaSpec{}
}

// awaitAttach polls the instance's control surface with a bounded,
// backing-off wait. An unbounded poll is never acceptable here.
func (c *Controller) awaitAttach(ctx context.Context, inst Instance) error {
	deadline := time.Now().Add(c.attachTimeout)
	interval := c.attachInterval

	for {
		if inst.Attached() {
			return nil
		}
		if time.Now().After(deadline) {
			return domain.ErrPlayerInit
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		if interval < c.attachInterval*8 {
			interval *= 2
		}
	}
}
