package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is wrapped by every rule violation. Callers that face
	// clients should only surface this, never the specific reason.
	ErrIllegalAction = errors.New("illegal action")

	ErrInvalidSeat        = fmt.Errorf("%w: invalid seat", ErrIllegalAction)
	ErrNotYourTurn        = fmt.Errorf("%w: not your turn", ErrIllegalAction)
	ErrGameOver           = fmt.Errorf("%w: game is over", ErrIllegalAction)
	ErrOutOfBounds        = fmt.Errorf("%w: out of bounds", ErrIllegalAction)
	ErrUnreachable        = fmt.Errorf("%w: target not reachable", ErrIllegalAction)
	ErrNoWallsLeft        = fmt.Errorf("%w: no walls left", ErrIllegalAction)
	ErrInvalidOrientation = fmt.Errorf("%w: invalid orientation", ErrIllegalAction)
	ErrWallOverlap        = fmt.Errorf("%w: wall overlaps another wall", ErrIllegalAction)
	ErrWallCrossing       = fmt.Errorf("%w: wall crosses another wall", ErrIllegalAction)
	ErrPathBlocked        = fmt.Errorf("%w: wall would seal a player in", ErrIllegalAction)

	ErrInvalidTimerDuration = errors.New("invalid timer duration")
)

// Engine is the rules contract the session layer drives
type Engine interface {
	Move(seat int, to Position) error
	PlaceWall(seat int, w Wall) error
	SkipTurn() bool
	Turn() int
	Winner() (int, bool)
	Snapshot() *Snapshot
}

var _ Engine = (*Match)(nil)

// Match owns the full state of one game
type Match struct {
	players       [NumSeats]Player
	walls         *WallSet
	turn          int
	winner        int
	timerDuration int
	actions       int
}

// NewMatch creates a match in the starting position. A zero timer duration
// selects DefaultTimerSec.
func NewMatch(timerDuration int) (*Match, error) {
	d, err := NormalizeTimerDuration(timerDuration)
	if err != nil {
		return nil, err
	}

	return &Match{
		players:       initialPlayers(),
		walls:         NewWallSet(),
		turn:          0,
		winner:        NoWinner,
		timerDuration: d,
	}, nil
}

// Move moves seat's pawn to the target tile
func (m *Match) Move(seat int, to Position) error {
	if err := m.checkActor(seat); err != nil {
		return err
	}
	if !to.InBounds() {
		return ErrOutOfBounds
	}
	if !m.canReach(seat, to) {
		return ErrUnreachable
	}

	m.players[seat].Pos = to
	m.actions++

	if to.Y == m.players[seat].GoalRow {
		m.winner = seat
		return nil
	}

	m.advanceTurn()
	return nil
}

// PlaceWall places a wall for seat after checking supply, overlap, crossing
// and that both players keep a path to their goal row.
func (m *Match) PlaceWall(seat int, w Wall) error {
	if err := m.checkActor(seat); err != nil {
		return err
	}
	if m.players[seat].WallsRemaining <= 0 {
		return ErrNoWallsLeft
	}
	if err := m.CanPlaceWall(w); err != nil {
		return err
	}

	m.walls.add(w)
	m.players[seat].WallsRemaining--
	m.actions++
	m.advanceTurn()
	return nil
}

// CanPlaceWall checks the board-level legality of w without regard to
// whose turn it is. The stored wall set is never modified.
func (m *Match) CanPlaceWall(w Wall) error {
	if err := m.walls.Check(w); err != nil {
		return err
	}
	if !AllConnected(m.walls.With(w), m.players[:]) {
		return ErrPathBlocked
	}
	return nil
}

// SkipTurn forfeits the current turn without touching the board.
// It returns false once the match has a winner.
func (m *Match) SkipTurn() bool {
	if m.winner != NoWinner {
		return false
	}
	m.advanceTurn()
	return true
}

// Turn returns the seat to move
func (m *Match) Turn() int {
	return m.turn
}

// Winner returns the winning seat, if any
func (m *Match) Winner() (int, bool) {
	return m.winner, m.winner != NoWinner
}

// IsOver returns whether the match has a winner
func (m *Match) IsOver() bool {
	return m.winner != NoWinner
}

// Player returns a copy of the given seat's player
func (m *Match) Player(seat int) Player {
	return m.players[seat]
}

// Walls returns the placed walls in placement order
func (m *Match) Walls() []Wall {
	return m.walls.Walls()
}

// TimerDuration returns the turn clock length in seconds
func (m *Match) TimerDuration() int {
	return m.timerDuration
}

// Actions returns the number of accepted moves and walls
func (m *Match) Actions() int {
	return m.actions
}

// PathLength returns the shortest distance from seat's pawn to its goal row
func (m *Match) PathLength(seat int) int {
	p := m.players[seat]
	return Distance(m.walls, p.Pos, p.GoalRow)
}

// Snapshot returns the broadcastable view of the match
func (m *Match) Snapshot() *Snapshot {
	players := make([]PlayerView, 0, NumSeats)
	for _, p := range m.players {
		players = append(players, PlayerView{
			X:              p.Pos.X,
			Y:              p.Pos.Y,
			WallsRemaining: p.WallsRemaining,
			GoalRow:        p.GoalRow,
		})
	}

	snap := &Snapshot{
		Players:       players,
		Walls:         m.walls.Walls(),
		Turn:          m.turn,
		TimerDuration: m.timerDuration,
	}
	if m.winner != NoWinner {
		w := m.winner
		snap.Winner = &w
	}
	return snap
}

// checkActor runs the ordered preconditions shared by moves and walls
func (m *Match) checkActor(seat int) error {
	if seat < 0 || seat >= NumSeats {
		return ErrInvalidSeat
	}
	if m.turn != seat {
		return ErrNotYourTurn
	}
	if m.winner != NoWinner {
		return ErrGameOver
	}
	return nil
}

func (m *Match) advanceTurn() {
	m.turn = 1 - m.turn
}
