package workflow

import (
	"context"
	"sync"
)

const eventBuffer = 64

// Controller owns a State and applies events to it from a single goroutine.
// Effects run on their own goroutines and report back through Dispatch.
type Controller struct {
	exec   *Executor
	events chan Event
	done   chan struct{}

	mu      sync.RWMutex
	state   State
	changed chan struct{}

	effects sync.WaitGroup
}

func NewController(state State, exec *Executor) *Controller {
	return &Controller{
		exec:    exec,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		state:   state,
		changed: make(chan struct{}),
	}
}

// Run drains events until ctx is done, then cancels in-flight effects and
// waits for them to return.
func (c *Controller) Run(ctx context.Context) error {
	defer func() {
		close(c.done)
		c.exec.Close()
		c.effects.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			c.apply(ev)
		}
	}
}

// Dispatch queues an event. It returns false once the controller has stopped.
func (c *Controller) Dispatch(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// WaitFor blocks until pred holds for the state or ctx is done.
func (c *Controller) WaitFor(ctx context.Context, pred func(State) bool) (State, error) {
	for {
		c.mu.RLock()
		snapshot := c.state.Clone()
		changed := c.changed
		c.mu.RUnlock()

		if pred(snapshot) {
			return snapshot, nil
		}

		select {
		case <-ctx.Done():
			return snapshot, ctx.Err()
		case <-changed:
		}
	}
}

func (c *Controller) apply(ev Event) {
	c.mu.Lock()
	effects := c.state.Apply(ev)
	close(c.changed)
	c.changed = make(chan struct{})
	c.mu.Unlock()

	for _, eff := range effects {
		run := c.exec.Prepare(eff)
		if run == nil {
			continue
		}
		c.effects.Add(1)
		go func() {
			defer c.effects.Done()
			if next := run(); next != nil {
				c.Dispatch(next)
			}
		}()
	}
}
