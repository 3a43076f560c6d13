package engine

import "fmt"

// TimerDurations lists the turn clock lengths, in seconds, a match may use
var TimerDurations = []int{15, 30, 60}

// ValidateTimerDuration checks that seconds is one of TimerDurations
func ValidateTimerDuration(seconds int) error {
	for _, d := range TimerDurations {
		if d == seconds {
			return nil
		}
	}
	return fmt.Errorf("%w: %d (allowed: %v)", ErrInvalidTimerDuration, seconds, TimerDurations)
}

// NormalizeTimerDuration maps 0 to DefaultTimerSec and validates the rest
func NormalizeTimerDuration(seconds int) (int, error) {
	if seconds == 0 {
		return DefaultTimerSec, nil
	}
	if err := ValidateTimerDuration(seconds); err != nil {
		return 0, err
	}
	return seconds, nil
}

// initialPlayers returns both seats at their starting tiles
func initialPlayers() [NumSeats]Player {
	center := BoardSize / 2
	return [NumSeats]Player{
		{Seat: 0, Pos: Position{X: center, Y: 0}, WallsRemaining: WallsPerPlayer, GoalRow: BoardSize - 1},
		{Seat: 1, Pos: Position{X: center, Y: BoardSize - 1}, WallsRemaining: WallsPerPlayer, GoalRow: 0},
	}
}
