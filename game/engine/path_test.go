package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	s := NewWallSet()
	assert.Equal(t, 8, Distance(s, Position{X: 4, Y: 0}, 8))
	assert.Equal(t, 0, Distance(s, Position{X: 4, Y: 8}, 8))
	assert.Equal(t, -1, Distance(s, Position{X: 9, Y: 0}, 8))

	// A wall directly ahead costs one detour step
	s.add(Wall{X: 4, Y: 0, Orientation: Horizontal})
	assert.Equal(t, 9, Distance(s, Position{X: 4, Y: 0}, 8))
}

func TestHasPath_Sealed(t *testing.T) {
	s := NewWallSet()
	for x := 0; x < BoardSize-1; x += 2 {
		s.add(Wall{X: x, Y: 3, Orientation: Horizontal})
	}
	s.add(Wall{X: 7, Y: 4, Orientation: Horizontal})
	// column 8 is still open between rows 3 and 4
	assert.True(t, HasPath(s, Position{X: 0, Y: 0}, 8))

	view := s.With(Wall{X: 7, Y: 3, Orientation: Vertical})
	require.NoError(t, s.Check(Wall{X: 7, Y: 3, Orientation: Vertical}))
	assert.False(t, HasPath(view, Position{X: 0, Y: 0}, 8))
	assert.True(t, HasPath(view, Position{X: 0, Y: 8}, 4))
	assert.True(t, HasPath(s, Position{X: 0, Y: 0}, 8), "view must not leak into the set")
}

func TestAllConnected(t *testing.T) {
	players := initialPlayers()
	s := NewWallSet()
	assert.True(t, AllConnected(s, players[:]))

	s.add(Wall{X: 3, Y: 7, Orientation: Vertical})
	s.add(Wall{X: 5, Y: 7, Orientation: Vertical})
	assert.True(t, AllConnected(s, players[:]))
	assert.False(t, AllConnected(s.With(Wall{X: 4, Y: 6, Orientation: Horizontal}), players[:]))
}

// TestRandomPlay drives many random games and checks the board invariants
// after every submitted action, accepted or not.
func TestRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for game := 0; game < 50; game++ {
		m := newTestMatch(t)

		for step := 0; step < 400 && !m.IsOver(); step++ {
			before := m.Snapshot()
			seat := m.Turn()
			if rng.Intn(10) == 0 {
				seat = 1 - seat
			}

			var err error
			isWall := rng.Intn(2) == 0
			if isWall {
				o := Horizontal
				if rng.Intn(2) == 0 {
					o = Vertical
				}
				err = m.PlaceWall(seat, Wall{X: rng.Intn(WallGridSize + 1), Y: rng.Intn(WallGridSize + 1), Orientation: o})
			} else {
				p := m.Player(seat).Pos
				err = m.Move(seat, Position{X: p.X + rng.Intn(5) - 2, Y: p.Y + rng.Intn(5) - 2})
			}

			if err != nil {
				require.ErrorIs(t, err, ErrIllegalAction)
				require.Equal(t, before, m.Snapshot(), "rejected action changed the match")
				continue
			}

			require.True(t, AllConnected(m.walls, m.players[:]), "game %d step %d sealed a player", game, step)
			require.NotEqual(t, m.Player(0).Pos, m.Player(1).Pos)
			if _, won := m.Winner(); !won {
				require.Equal(t, 1-before.Turn, m.Turn())
			} else {
				require.Equal(t, before.Turn, m.Turn())
			}
			require.Equal(t, 2*WallsPerPlayer, len(m.Walls())+m.Player(0).WallsRemaining+m.Player(1).WallsRemaining)
		}
	}
}

// copyMatch returns an independent copy of m
func copyMatch(m *Match) *Match {
	c := *m
	walls := *m.walls
	walls.order = append([]Wall(nil), m.walls.order...)
	c.walls = &walls
	return &c
}

// TestRandomPlay_LegalMovesAgree checks that LegalMoves lists exactly the
// targets Move accepts.
func TestRandomPlay_LegalMovesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := newTestMatch(t)

	for step := 0; step < 200 && !m.IsOver(); step++ {
		seat := m.Turn()
		legal := make(map[Position]bool)
		for _, p := range m.LegalMoves(seat) {
			legal[p] = true
		}

		from := m.Player(seat).Pos
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				target := Position{X: from.X + dx, Y: from.Y + dy}
				accepted := copyMatch(m).Move(seat, target) == nil
				assert.Equal(t, accepted, legal[target], "seat %d target %+v", seat, target)
			}
		}

		if rng.Intn(3) == 0 {
			w := Wall{X: rng.Intn(WallGridSize), Y: rng.Intn(WallGridSize), Orientation: Horizontal}
			if rng.Intn(2) == 0 {
				w.Orientation = Vertical
			}
			if m.PlaceWall(seat, w) == nil {
				continue
			}
		}
		moves := m.LegalMoves(seat)
		require.NotEmpty(t, moves)
		require.NoError(t, m.Move(seat, moves[rng.Intn(len(moves))]))
	}
}
