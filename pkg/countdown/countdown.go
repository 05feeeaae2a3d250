// Package countdown renders the time left until a pre-notified task is due.
package countdown

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// State of a countdown
type State int

const (
	Running State = iota
	Expired
	Dismissed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Expired:
		return "expired"
	case Dismissed:
		return "dismissed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Countdown updates a label once per second until the target or until dismissed
type Countdown struct {
	clock    clockwork.Clock
	target   time.Time
	onUpdate func(text string)

	mu    sync.Mutex
	state State
	timer clockwork.Timer
}

// Start renders the remaining time immediately and then every second
func Start(clk clockwork.Clock, target time.Time, onUpdate func(text string)) *Countdown {
	c := &Countdown{
		clock:    clk,
		target:   target,
		onUpdate: onUpdate,
		state:    Running,
	}
	c.tick()
	return c
}

// State returns the current state
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Target returns the instant the countdown runs to
func (c *Countdown) Target() time.Time {
	return c.target
}

// Dismiss stops a running countdown. It has no effect once expired.
func (c *Countdown) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Running {
		return
	}
	c.state = Dismissed
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return
	}

	remaining := c.target.Sub(c.clock.Now())
	if remaining <= 0 {
		c.state = Expired
		c.timer = nil
		c.mu.Unlock()
		c.onUpdate(Format(0))
		return
	}
	c.mu.Unlock()

	// Schedule before rendering, the callback may dismiss
	c.schedule()
	c.onUpdate(Format(remaining))
}

func (c *Countdown) schedule() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Running {
		c.timer = c.clock.AfterFunc(time.Second, c.tick)
	}
}

// Format renders d as mm:ss. Minutes wrap at the hour.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d/time.Minute) % 60
	seconds := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
