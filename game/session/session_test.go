package session

import (
	"testing"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/quoridor-server/game/clock"
	"github.com/wricardo/quoridor-server/game/engine"
)

type room struct {
	sess   *Session
	tokens [2]string
	rec    *recorder
	mock   *bclock.Mock
}

// newRoom creates a full two-seat room on a mock clock
func newRoom(t *testing.T, timer int) *room {
	t.Helper()
	mock := bclock.NewMock()
	rec := newRecorder()
	manager := NewManager(WithClock(mock), WithNotifier(rec))
	t.Cleanup(manager.Close)

	sess, _, host, err := manager.Create(timer)
	require.NoError(t, err)
	_, _, guest, err := manager.Join(sess.Code)
	require.NoError(t, err)

	return &room{sess: sess, tokens: [2]string{host, guest}, rec: rec, mock: mock}
}

// tick applies one clock tick for the current generation
func (r *room) tick() {
	r.sess.onTick(r.sess.clock.Generation())
}

func (r *room) waitTick(t *testing.T) int {
	t.Helper()
	select {
	case remaining := <-r.rec.ticks:
		return remaining
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for timer tick")
		return 0
	}
}

func TestSession_SeatOf(t *testing.T) {
	r := newRoom(t, 30)

	seat, err := r.sess.SeatOf(r.tokens[0])
	require.NoError(t, err)
	assert.Equal(t, 0, seat)

	seat, err = r.sess.SeatOf(r.tokens[1])
	require.NoError(t, err)
	assert.Equal(t, 1, seat)

	_, err = r.sess.SeatOf("someone-else")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	_, err = r.sess.SeatOf("")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestSession_ClockStartsWhenSeated(t *testing.T) {
	mock := bclock.NewMock()
	rec := newRecorder()
	manager := NewManager(WithClock(mock), WithNotifier(rec))
	defer manager.Close()

	sess, _, _, err := manager.Create(15)
	require.NoError(t, err)
	assert.Equal(t, clock.Idle, sess.clock.State())
	assert.Equal(t, 0, rec.count("tick"))

	_, _, _, err = manager.Join(sess.Code)
	require.NoError(t, err)
	assert.Equal(t, clock.Running, sess.clock.State())

	last, ok := rec.last("tick")
	require.True(t, ok)
	assert.Equal(t, 15, last.remaining)
	assert.Equal(t, 2, rec.count("state"), "each join broadcasts state")
}

func TestSession_AcceptedActionBroadcasts(t *testing.T) {
	r := newRoom(t, 30)
	r.rec.reset()

	snap, err := r.sess.Move(0, engine.Position{X: 4, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Turn)

	assert.Equal(t, 1, r.rec.count("state"))
	st, _ := r.rec.last("state")
	assert.Equal(t, r.sess.Code, st.code)
	assert.Equal(t, 1, st.snap.Players[0].Y)

	tk, ok := r.rec.last("tick")
	require.True(t, ok)
	assert.Equal(t, 30, tk.remaining)
}

func TestSession_RejectedActionIsSilent(t *testing.T) {
	r := newRoom(t, 30)
	r.tick()
	r.tick()
	r.rec.reset()
	before := r.sess.Snapshot()

	_, err := r.sess.Move(1, engine.Position{X: 4, Y: 7})
	assert.ErrorIs(t, err, engine.ErrNotYourTurn)
	_, err = r.sess.PlaceWall(0, engine.Wall{X: 8, Y: 8, Orientation: engine.Horizontal})
	assert.ErrorIs(t, err, engine.ErrOutOfBounds)

	assert.Empty(t, r.rec.events)
	assert.Equal(t, before, r.sess.Snapshot())
	assert.Equal(t, 28, r.sess.clock.Remaining(), "rejection must not restart the clock")
}

func TestSession_ExpirySkipsOnceAndRestarts(t *testing.T) {
	r := newRoom(t, 15)
	r.rec.reset()

	for i := 0; i < 14; i++ {
		r.tick()
	}
	assert.Equal(t, 0, r.sess.Snapshot().Turn)
	assert.Equal(t, 0, r.rec.count("state"))

	r.tick()

	snap := r.sess.Snapshot()
	assert.Equal(t, 1, snap.Turn, "expiry hands the turn over")
	assert.Equal(t, 1, r.rec.count("state"))
	assert.Equal(t, clock.Running, r.sess.clock.State())
	assert.Equal(t, 15, r.sess.clock.Remaining())
	assert.Equal(t, engine.Position{X: 4, Y: 0}, engine.Position{X: snap.Players[0].X, Y: snap.Players[0].Y})
	assert.Equal(t, 10, snap.Players[0].WallsRemaining)
	assert.Empty(t, snap.Walls)
}

func TestSession_ExpiryOnMockClock(t *testing.T) {
	r := newRoom(t, 15)
	assert.Equal(t, 15, r.waitTick(t))

	for want := 14; want >= 1; want-- {
		r.mock.Add(time.Second)
		require.Equal(t, want, r.waitTick(t))
	}

	r.mock.Add(time.Second)
	require.Equal(t, 15, r.waitTick(t), "clock restarts at full duration")
	assert.Equal(t, 1, r.sess.Snapshot().Turn)

	r.mock.Add(time.Second)
	require.Equal(t, 14, r.waitTick(t))
	assert.Equal(t, 1, r.sess.Snapshot().Turn, "exactly one skip")
}

func TestSession_ActionCancelsPendingExpiry(t *testing.T) {
	r := newRoom(t, 15)
	for i := 0; i < 14; i++ {
		r.tick()
	}
	require.Equal(t, 1, r.sess.clock.Remaining())
	pending := r.sess.clock.Generation()

	_, err := r.sess.Move(0, engine.Position{X: 4, Y: 1})
	require.NoError(t, err)

	// The tick that was already scheduled for the old turn arrives late
	r.sess.onTick(pending)

	snap := r.sess.Snapshot()
	assert.Equal(t, 1, snap.Turn, "late tick must not skip seat 1's turn")
	assert.Equal(t, 15, r.sess.clock.Remaining())
}

func TestSession_WinLocksMatch(t *testing.T) {
	r := newRoom(t, 30)

	seat1Path := []engine.Position{
		{X: 3, Y: 8}, {X: 2, Y: 8}, {X: 1, Y: 8}, {X: 0, Y: 8},
		{X: 0, Y: 7}, {X: 0, Y: 6}, {X: 0, Y: 5},
	}
	for i, p := range seat1Path {
		_, err := r.sess.Move(0, engine.Position{X: 4, Y: i + 1})
		require.NoError(t, err)
		_, err = r.sess.Move(1, p)
		require.NoError(t, err)
	}

	snap, err := r.sess.Move(0, engine.Position{X: 4, Y: 8})
	require.NoError(t, err)
	require.NotNil(t, snap.Winner)
	assert.Equal(t, 0, *snap.Winner)

	over, ok := r.rec.last("game_over")
	require.True(t, ok)
	assert.Equal(t, 0, over.winner)
	assert.Equal(t, clock.Idle, r.sess.clock.State())

	r.rec.reset()
	_, err = r.sess.Move(0, engine.Position{X: 4, Y: 7})
	assert.ErrorIs(t, err, engine.ErrGameOver)
	_, err = r.sess.PlaceWall(0, engine.Wall{X: 0, Y: 0, Orientation: engine.Vertical})
	assert.ErrorIs(t, err, engine.ErrGameOver)

	// A stray tick after the win changes nothing
	r.tick()
	assert.Empty(t, r.rec.events)
	assert.Empty(t, r.sess.Board().LegalMoves, "no moves once the match is decided")
}

func TestSession_Info(t *testing.T) {
	r := newRoom(t, 60)
	_, err := r.sess.PlaceWall(0, engine.Wall{X: 4, Y: 7, Orientation: engine.Horizontal})
	require.NoError(t, err)

	info := r.sess.Info()
	assert.Equal(t, r.sess.Code, info.Code)
	assert.Equal(t, 2, info.Seats)
	assert.Equal(t, 60, info.TimerDuration)
	assert.Equal(t, "running", info.ClockState)
	assert.Equal(t, 1, info.Actions)
	assert.Equal(t, []int{8, 9}, info.PathLengths)
	assert.Len(t, info.State.Walls, 1)
}

func TestSession_Board(t *testing.T) {
	r := newRoom(t, 30)
	_, err := r.sess.Move(0, engine.Position{X: 4, Y: 1})
	require.NoError(t, err)

	board := r.sess.Board()
	assert.Equal(t, 1, board.Info.State.Turn)
	assert.Contains(t, board.Text, "\n")
	assert.ElementsMatch(t, []engine.Position{{X: 3, Y: 8}, {X: 5, Y: 8}, {X: 4, Y: 7}}, board.LegalMoves)
}
