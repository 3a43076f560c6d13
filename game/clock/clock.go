package clock

import (
	"time"

	bclock "github.com/benbjohnson/clock"
)

// State is the lifecycle state of a TurnClock
type State int

const (
	Idle State = iota
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Interval is the tick period
const Interval = time.Second

// Real returns the wall-clock time source
func Real() bclock.Clock {
	return bclock.New()
}

// Tick is the result of applying one live tick
type Tick struct {
	Remaining int
	Expired   bool
}

// TurnClock counts down one turn. It is not safe for concurrent use: all
// methods except the fire callback must be called under the owner's lock.
type TurnClock struct {
	clk       bclock.Clock
	duration  int
	remaining int
	state     State
	gen       uint64
	done      chan struct{}
	fire      func(token uint64)
}

// New creates an idle clock of duration seconds. fire is called from a
// background goroutine once per Interval while the clock runs; it must
// take the owner's lock before calling Tick.
func New(clk bclock.Clock, duration int, fire func(token uint64)) *TurnClock {
	if clk == nil {
		clk = bclock.New()
	}
	return &TurnClock{
		clk:      clk,
		duration: duration,
		state:    Idle,
		fire:     fire,
	}
}

// Start cancels any running countdown and begins a fresh one at the full
// duration. It returns the generation token of the new run.
func (c *TurnClock) Start() uint64 {
	c.stop()
	c.gen++
	c.remaining = c.duration
	c.state = Running

	done := make(chan struct{})
	c.done = done
	ticker := c.clk.Ticker(Interval)
	token := c.gen
	fire := c.fire

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fire(token)
			}
		}
	}()

	return token
}

// Cancel stops the countdown and invalidates every outstanding token.
// Calling it on an idle clock is a no-op apart from the generation bump.
func (c *TurnClock) Cancel() {
	c.stop()
	c.gen++
	c.state = Idle
	c.remaining = 0
}

// Tick applies one elapsed second for token. ok is false when the token is
// stale or the clock is not running; in that case nothing changes. When the
// countdown reaches zero the clock moves to Expired and stops ticking until
// the owner calls Start or Cancel.
func (c *TurnClock) Tick(token uint64) (tick Tick, ok bool) {
	if token != c.gen || c.state != Running {
		return Tick{}, false
	}

	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = Expired
		c.stop()
		return Tick{Remaining: 0, Expired: true}, true
	}
	return Tick{Remaining: c.remaining}, true
}

// State returns the current state
func (c *TurnClock) State() State {
	return c.state
}

// Remaining returns the seconds left in the current turn
func (c *TurnClock) Remaining() int {
	return c.remaining
}

// Duration returns the full turn length in seconds
func (c *TurnClock) Duration() int {
	return c.duration
}

// Generation returns the token of the current run
func (c *TurnClock) Generation() uint64 {
	return c.gen
}

func (c *TurnClock) stop() {
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}
