package engine

import (
	"errors"
	"testing"
)

func newTestMatch(t *testing.T) *Match {
	t.Helper()
	m, err := NewMatch(30)
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	return m
}

// place puts pawns directly on the board and sets the seat to move
func place(m *Match, seat0, seat1 Position, turn int) {
	m.players[0].Pos = seat0
	m.players[1].Pos = seat1
	m.turn = turn
}

func TestNewMatch(t *testing.T) {
	m := newTestMatch(t)

	if m.Turn() != 0 {
		t.Errorf("Expected seat 0 to move first, got %d", m.Turn())
	}
	if _, ok := m.Winner(); ok {
		t.Error("New match should not have a winner")
	}

	p0, p1 := m.Player(0), m.Player(1)
	if p0.Pos != (Position{X: 4, Y: 0}) || p0.GoalRow != 8 {
		t.Errorf("Unexpected seat 0 start: %+v", p0)
	}
	if p1.Pos != (Position{X: 4, Y: 8}) || p1.GoalRow != 0 {
		t.Errorf("Unexpected seat 1 start: %+v", p1)
	}
	if p0.WallsRemaining != WallsPerPlayer || p1.WallsRemaining != WallsPerPlayer {
		t.Errorf("Expected %d walls each, got %d and %d", WallsPerPlayer, p0.WallsRemaining, p1.WallsRemaining)
	}
	if len(m.Walls()) != 0 {
		t.Errorf("Expected no walls, got %d", len(m.Walls()))
	}
}

func TestNewMatch_TimerDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
		wantErr  bool
	}{
		{"default", 0, 30, false},
		{"fifteen", 15, 15, false},
		{"thirty", 30, 30, false},
		{"sixty", 60, 60, false},
		{"unsupported", 45, 0, true},
		{"negative", -15, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatch(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimerDuration) {
					t.Errorf("Expected ErrInvalidTimerDuration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if m.TimerDuration() != tt.expected {
				t.Errorf("Expected duration %d, got %d", tt.expected, m.TimerDuration())
			}
		})
	}
}

func TestMove_TurnOrder(t *testing.T) {
	m := newTestMatch(t)

	err := m.Move(1, Position{X: 4, Y: 7})
	if !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}
	if m.Turn() != 0 {
		t.Errorf("Rejected move must not change turn, got %d", m.Turn())
	}
	if m.Player(1).Pos != (Position{X: 4, Y: 8}) {
		t.Error("Rejected move must not move the pawn")
	}

	if err := m.Move(0, Position{X: 4, Y: 1}); err != nil {
		t.Fatalf("Expected legal move, got %v", err)
	}
	if m.Turn() != 1 {
		t.Errorf("Expected turn to pass to seat 1, got %d", m.Turn())
	}
}

func TestMove_InvalidSeat(t *testing.T) {
	m := newTestMatch(t)

	for _, seat := range []int{-1, 2, 7} {
		if err := m.Move(seat, Position{X: 4, Y: 1}); !errors.Is(err, ErrInvalidSeat) {
			t.Errorf("Seat %d: expected ErrInvalidSeat, got %v", seat, err)
		}
	}
}

func TestMove_Win(t *testing.T) {
	m := newTestMatch(t)
	place(m, Position{X: 4, Y: 7}, Position{X: 0, Y: 3}, 0)

	if err := m.Move(0, Position{X: 4, Y: 8}); err != nil {
		t.Fatalf("Expected winning move to be accepted, got %v", err)
	}

	winner, ok := m.Winner()
	if !ok || winner != 0 {
		t.Fatalf("Expected seat 0 to win, got %d (%v)", winner, ok)
	}
	if m.Turn() != 0 {
		t.Errorf("Turn must not alternate after a win, got %d", m.Turn())
	}

	// Nothing is accepted after the game ends
	if err := m.Move(0, Position{X: 4, Y: 7}); !errors.Is(err, ErrGameOver) {
		t.Errorf("Expected ErrGameOver, got %v", err)
	}
	if err := m.Move(1, Position{X: 0, Y: 2}); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("Expected illegal action for seat 1, got %v", err)
	}
	if err := m.PlaceWall(0, Wall{X: 0, Y: 0, Orientation: Horizontal}); !errors.Is(err, ErrGameOver) {
		t.Errorf("Expected ErrGameOver for wall, got %v", err)
	}
	if m.SkipTurn() {
		t.Error("SkipTurn must be refused after a win")
	}
	if len(m.Walls()) != 0 {
		t.Error("No wall should have been placed after the win")
	}
}

func TestSkipTurn(t *testing.T) {
	m := newTestMatch(t)
	before := m.Snapshot()

	if !m.SkipTurn() {
		t.Fatal("Expected skip to succeed")
	}
	if m.Turn() != 1 {
		t.Errorf("Expected turn 1 after skip, got %d", m.Turn())
	}

	after := m.Snapshot()
	for i := range before.Players {
		if before.Players[i] != after.Players[i] {
			t.Errorf("Skip must not touch players: %+v vs %+v", before.Players[i], after.Players[i])
		}
	}
	if m.Actions() != 0 {
		t.Errorf("Skip is not an action, got %d actions", m.Actions())
	}
}

func TestSnapshot(t *testing.T) {
	m := newTestMatch(t)
	if err := m.PlaceWall(0, Wall{X: 2, Y: 3, Orientation: Vertical}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	snap := m.Snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(snap.Players))
	}
	if snap.Players[0].WallsRemaining != 9 || snap.Players[1].WallsRemaining != 10 {
		t.Errorf("Unexpected wall counts: %+v", snap.Players)
	}
	if len(snap.Walls) != 1 || snap.Walls[0] != (Wall{X: 2, Y: 3, Orientation: Vertical}) {
		t.Errorf("Unexpected walls: %+v", snap.Walls)
	}
	if snap.Turn != 1 {
		t.Errorf("Expected turn 1, got %d", snap.Turn)
	}
	if snap.Winner != nil {
		t.Errorf("Expected nil winner, got %d", *snap.Winner)
	}

	// Mutating the snapshot must not leak into the match
	snap.Walls[0].X = 7
	if m.Walls()[0].X != 2 {
		t.Error("Snapshot walls must be a copy")
	}
}

func TestPathLength(t *testing.T) {
	m := newTestMatch(t)

	if got := m.PathLength(0); got != 8 {
		t.Errorf("Expected seat 0 path length 8, got %d", got)
	}
	if got := m.PathLength(1); got != 8 {
		t.Errorf("Expected seat 1 path length 8, got %d", got)
	}

	if err := m.PlaceWall(0, Wall{X: 4, Y: 0, Orientation: Horizontal}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := m.PathLength(0); got != 9 {
		t.Errorf("Expected detour of 9 steps, got %d", got)
	}
}
