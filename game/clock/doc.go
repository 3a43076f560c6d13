// Package clock implements the per-match turn clock.
//
// A TurnClock counts down the seconds left for the seat to move. It never
// touches match state itself: every second it hands a generation token to
// its owner, and the owner calls Tick with that token while holding its own
// lock. Start and Cancel bump the generation, so a tick that was already in
// flight when an action was accepted is recognised as stale and ignored.
//
// The time source is a github.com/benbjohnson/clock Clock, which lets tests
// advance time with a mock instead of sleeping.
//
// Usage:
//
//	tc := clock.New(clock.Real(), 30, func(token uint64) {
//		sess.mu.Lock()
//		defer sess.mu.Unlock()
//		if tick, ok := tc.Tick(token); ok && tick.Expired {
//			// skip the turn and restart
//		}
//	})
//	tc.Start()
package clock
