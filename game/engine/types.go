package engine

// Orientation identifies which way a wall runs
type Orientation string

const (
	Horizontal Orientation = "H"
	Vertical   Orientation = "V"

	// Board constants
	BoardSize       = 9
	WallGridSize    = BoardSize - 1
	WallsPerPlayer  = 10
	NumSeats        = 2
	NoWinner        = -1
	DefaultTimerSec = 30
)

// Valid reports whether o is one of the two wall orientations
func (o Orientation) Valid() bool {
	return o == Horizontal || o == Vertical
}

// Opposite returns the perpendicular orientation
func (o Orientation) Opposite() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Position represents x,y tile coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether the position lies on the 9x9 board
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

// Add returns p offset by d
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the offset from q to p
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// Wall is a two-tile barrier anchored at its lower/left corner
type Wall struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Orientation Orientation `json:"orientation"`
}

// Anchor returns the wall's anchor as a Position
func (w Wall) Anchor() Position {
	return Position{X: w.X, Y: w.Y}
}

// AnchorInRange reports whether the anchor lies on the 8x8 corner grid
func (w Wall) AnchorInRange() bool {
	return w.X >= 0 && w.X < WallGridSize && w.Y >= 0 && w.Y < WallGridSize
}

// Player holds a seat's pawn and wall supply
type Player struct {
	Seat           int      `json:"seat"`
	Pos            Position `json:"position"`
	WallsRemaining int      `json:"walls_remaining"`
	GoalRow        int      `json:"goal_row"`
}

// PlayerView is the per-player part of a snapshot
type PlayerView struct {
	X              int `json:"x"`
	Y              int `json:"y"`
	WallsRemaining int `json:"wallsRemaining"`
	GoalRow        int `json:"goalRow"`
}

// Snapshot is the broadcastable view of a match.
// Winner is nil while the game is in progress.
type Snapshot struct {
	Players       []PlayerView `json:"players"`
	Walls         []Wall       `json:"walls"`
	Turn          int          `json:"turn"`
	Winner        *int         `json:"winner"`
	TimerDuration int          `json:"timerDuration"`
}
