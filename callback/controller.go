package callback

import (
	"context"
	"log/slog"
	"sync"
)

// State is the controller lifecycle.
type State int

const (
	StateIdle State = iota
	StateProbing
	StateResolved
	StateRedirected
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateResolved:
		return "resolved"
	case StateRedirected:
		return "redirected"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Controller owns one callback page load. It runs the probe sequence at most
// once and dispatches at most one redirect.
type Controller struct {
	scheduler  *Scheduler
	dispatcher *Dispatcher
	logger     *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

func NewController(scheduler *Scheduler, dispatcher *Dispatcher, logger *slog.Logger) *Controller {
	return &Controller{
		scheduler:  scheduler,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run probes until resolution and then redirects. It returns ErrCancelled
// when Teardown or ctx ended the sequence first; nothing is dispatched then.
func (c *Controller) Run(ctx context.Context, req *Request) (Resolution, error) {
	c.mu.Lock()
	switch c.state {
	case StateIdle:
	case StateCancelled:
		c.mu.Unlock()
		return Resolution{}, ErrCancelled
	default:
		c.mu.Unlock()
		return Resolution{}, ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = StateProbing
	c.mu.Unlock()
	defer cancel()

	res := c.scheduler.Run(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateCancelled || (!res.Found() && res.Code == "") {
		c.state = StateCancelled
		c.dispatcher.Disarm()
		c.logger.Info("callback cancelled before resolution", "attempts", len(res.Attempts))
		return res, ErrCancelled
	}

	c.state = StateResolved
	if !c.dispatcher.Dispatch(res) {
		c.state = StateCancelled
		return res, ErrCancelled
	}
	c.state = StateRedirected

	c.logger.Info("callback resolved",
		"found", res.Found(),
		"code", res.Code,
		"strategy", res.Strategy,
		"attempts", len(res.Attempts),
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// Teardown cancels pending probes and timers. A redirect already dispatched is unaffected.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateIdle, StateProbing:
		c.state = StateCancelled
		c.dispatcher.Disarm()
		if c.cancel != nil {
			c.cancel()
		}
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
