package session

import (
	"sync"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wricardo/quoridor-server/game/clock"
	"github.com/wricardo/quoridor-server/game/engine"
)

// Notifier receives the events a room produces. Calls are made while the
// room lock is held, so implementations must not block or call back into
// the room.
type Notifier interface {
	BroadcastState(code string, snap *engine.Snapshot)
	BroadcastGameOver(code string, winner int)
	BroadcastTick(code string, remaining int)
}

type nopNotifier struct{}

func (nopNotifier) BroadcastState(string, *engine.Snapshot) {}
func (nopNotifier) BroadcastGameOver(string, int)           {}
func (nopNotifier) BroadcastTick(string, int)               {}

// Session is one live room: a match, the tokens bound to its seats and the
// turn clock. All access to the match goes through the session lock, which
// also serializes clock ticks against player actions.
type Session struct {
	Code      string
	CreatedAt time.Time

	mu             sync.Mutex
	match          *engine.Match
	tokens         [engine.NumSeats]string
	clock          *clock.TurnClock
	clk            bclock.Clock
	notifier       Notifier
	logger         *zap.Logger
	lastAccessedAt time.Time
	closed         bool
}

// Info is a point-in-time summary of a room
type Info struct {
	Code           string           `json:"code"`
	Seats          int              `json:"seats"`
	TimerDuration  int              `json:"timer_duration"`
	ClockState     string           `json:"clock_state"`
	Remaining      int              `json:"remaining"`
	Actions        int              `json:"actions"`
	PathLengths    []int            `json:"path_lengths"`
	State          *engine.Snapshot `json:"state"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
}

// Board is a text rendering of a room
type Board struct {
	Info       *Info
	Text       string
	LegalMoves []engine.Position
}

func newSession(code string, match *engine.Match, clk bclock.Clock, notifier Notifier, logger *zap.Logger) *Session {
	now := clk.Now()
	s := &Session{
		Code:           code,
		CreatedAt:      now,
		match:          match,
		clk:            clk,
		notifier:       notifier,
		logger:         logger.With(zap.String("code", code)),
		lastAccessedAt: now,
	}
	s.clock = clock.New(clk, match.TimerDuration(), s.onTick)
	return s
}

// bind assigns the next free seat to a fresh token. The clock starts once
// both seats are taken.
func (s *Session) bind() (int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, "", ErrRoomNotFound
	}

	seat := -1
	for i, tok := range s.tokens {
		if tok == "" {
			seat = i
			break
		}
	}
	if seat < 0 {
		return 0, "", ErrRoomFull
	}

	token := uuid.NewString()
	s.tokens[seat] = token
	s.lastAccessedAt = s.clk.Now()
	s.logger.Info("seat bound", zap.Int("seat", seat))

	s.notifier.BroadcastState(s.Code, s.match.Snapshot())
	if s.seatedLocked() && !s.match.IsOver() {
		s.clock.Start()
		s.notifier.BroadcastTick(s.Code, s.clock.Remaining())
	}
	return seat, token, nil
}

// SeatOf resolves a player token to its seat
func (s *Session) SeatOf(token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return 0, ErrUnknownPlayer
	}
	for seat, tok := range s.tokens {
		if tok == token {
			return seat, nil
		}
	}
	return 0, ErrUnknownPlayer
}

// Move submits a pawn move for seat. On success the new snapshot is
// returned and broadcast; on rejection nothing changes and nothing is sent.
func (s *Session) Move(seat int, to engine.Position) (*engine.Snapshot, error) {
	return s.apply(seat, func() error {
		return s.match.Move(seat, to)
	}, zap.String("action", "move"), zap.Int("x", to.X), zap.Int("y", to.Y))
}

// PlaceWall submits a wall placement for seat
func (s *Session) PlaceWall(seat int, w engine.Wall) (*engine.Snapshot, error) {
	return s.apply(seat, func() error {
		return s.match.PlaceWall(seat, w)
	}, zap.String("action", "place_wall"), zap.Int("x", w.X), zap.Int("y", w.Y),
		zap.String("orientation", string(w.Orientation)))
}

func (s *Session) apply(seat int, action func() error, fields ...zap.Field) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrRoomNotFound
	}
	s.lastAccessedAt = s.clk.Now()

	fields = append(fields, zap.Int("seat", seat))
	if err := action(); err != nil {
		s.logger.Debug("action rejected", append(fields, zap.String("reason", err.Error()))...)
		return nil, err
	}
	s.logger.Info("action accepted", fields...)

	snap := s.match.Snapshot()
	s.notifier.BroadcastState(s.Code, snap)

	if winner, ok := s.match.Winner(); ok {
		s.clock.Cancel()
		s.logger.Info("match won", zap.Int("seat", winner))
		s.notifier.BroadcastGameOver(s.Code, winner)
	} else if s.seatedLocked() {
		s.clock.Start()
		s.notifier.BroadcastTick(s.Code, s.clock.Remaining())
	}
	return snap, nil
}

// onTick runs on the clock goroutine
func (s *Session) onTick(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	tick, ok := s.clock.Tick(token)
	if !ok {
		return
	}
	if !tick.Expired {
		s.notifier.BroadcastTick(s.Code, tick.Remaining)
		return
	}

	seat := s.match.Turn()
	if !s.match.SkipTurn() {
		s.clock.Cancel()
		return
	}
	s.logger.Info("turn expired", zap.Int("seat", seat))
	s.notifier.BroadcastState(s.Code, s.match.Snapshot())
	s.clock.Start()
	s.notifier.BroadcastTick(s.Code, s.clock.Remaining())
}

// close cancels the clock and rejects all further actions
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.clock.Cancel()
}

// Snapshot returns the current broadcastable state
func (s *Session) Snapshot() *engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Snapshot()
}

// Board returns the room as text together with the moves open to the seat
// whose turn it is, all read from the same position.
func (s *Session) Board() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	board := &Board{
		Info: s.infoLocked(),
		Text: s.match.Render(),
	}
	if !s.match.IsOver() {
		board.LegalMoves = s.match.LegalMoves(s.match.Turn())
	}
	return board
}

// Info summarizes the room
func (s *Session) Info() *Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked()
}

func (s *Session) infoLocked() *Info {
	seats := 0
	for _, tok := range s.tokens {
		if tok != "" {
			seats++
		}
	}

	paths := make([]int, engine.NumSeats)
	for seat := range paths {
		paths[seat] = s.match.PathLength(seat)
	}

	return &Info{
		Code:           s.Code,
		Seats:          seats,
		TimerDuration:  s.match.TimerDuration(),
		ClockState:     s.clock.State().String(),
		Remaining:      s.clock.Remaining(),
		Actions:        s.match.Actions(),
		PathLengths:    paths,
		State:          s.match.Snapshot(),
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.lastAccessedAt,
	}
}

// LastAccessedAt returns when the room last saw a join or action
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

func (s *Session) seatedLocked() bool {
	for _, tok := range s.tokens {
		if tok == "" {
			return false
		}
	}
	return true
}
