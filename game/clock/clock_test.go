package clock

import (
	"testing"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newIdle returns a clock on a mock time source that is never advanced,
// so only explicit Tick calls move it.
func newIdle(duration int) *TurnClock {
	return New(bclock.NewMock(), duration, func(uint64) {})
}

func TestTurnClock_CountsDownAndExpires(t *testing.T) {
	c := newIdle(15)
	assert.Equal(t, Idle, c.State())

	token := c.Start()
	require.Equal(t, Running, c.State())
	require.Equal(t, 15, c.Remaining())

	for want := 14; want >= 1; want-- {
		tick, ok := c.Tick(token)
		require.True(t, ok)
		require.False(t, tick.Expired)
		require.Equal(t, want, tick.Remaining)
	}

	tick, ok := c.Tick(token)
	require.True(t, ok)
	assert.True(t, tick.Expired)
	assert.Equal(t, 0, tick.Remaining)
	assert.Equal(t, Expired, c.State())

	// An expired run takes no further ticks
	_, ok = c.Tick(token)
	assert.False(t, ok)
}

func TestTurnClock_RestartInvalidatesPendingTick(t *testing.T) {
	c := newIdle(15)
	token := c.Start()
	for i := 0; i < 14; i++ {
		_, ok := c.Tick(token)
		require.True(t, ok)
	}
	require.Equal(t, 1, c.Remaining())

	// Accepted action at remaining=1
	next := c.Start()
	assert.NotEqual(t, token, next)

	_, ok := c.Tick(token)
	assert.False(t, ok, "tick from the previous turn must be ignored")
	assert.Equal(t, 15, c.Remaining())
	assert.Equal(t, Running, c.State())

	tick, ok := c.Tick(next)
	require.True(t, ok)
	assert.Equal(t, 14, tick.Remaining)
}

func TestTurnClock_CancelIsIdempotent(t *testing.T) {
	c := newIdle(30)
	token := c.Start()

	c.Cancel()
	c.Cancel()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, c.Remaining())

	_, ok := c.Tick(token)
	assert.False(t, ok)
	_, ok = c.Tick(c.Generation())
	assert.False(t, ok, "idle clock takes no ticks")
}

func TestTurnClock_FiresOncePerSecond(t *testing.T) {
	mock := bclock.NewMock()
	fired := make(chan uint64, 8)
	c := New(mock, 15, func(token uint64) { fired <- token })

	token := c.Start()

	for i := 0; i < 3; i++ {
		mock.Add(Interval)
		select {
		case got := <-fired:
			assert.Equal(t, token, got)
		case <-time.After(time.Second):
			t.Fatalf("Expected tick %d to fire", i+1)
		}
	}

	c.Cancel()
	mock.Add(Interval)
	select {
	case got := <-fired:
		t.Fatalf("Cancelled clock fired token %d", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTurnClock_RestartSwitchesToken(t *testing.T) {
	mock := bclock.NewMock()
	fired := make(chan uint64, 8)
	c := New(mock, 30, func(token uint64) { fired <- token })

	first := c.Start()
	second := c.Start()
	require.NotEqual(t, first, second)

	mock.Add(Interval)
	select {
	case got := <-fired:
		assert.Equal(t, second, got)
	case <-time.After(time.Second):
		t.Fatal("Expected restarted clock to fire")
	}
	c.Cancel()
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Idle, "idle"},
		{Running, "running"},
		{Expired, "expired"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
