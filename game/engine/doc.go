// Package engine provides the rules engine for the Quoridor match server.
//
// The engine package implements:
//   - Pawn movement with straight and diagonal jump-over
//   - Wall placement with overlap, crossing and connectivity checks
//   - Breadth-first path search shared by move and wall validation
//   - Turn order, forced turn skips and the win condition
//   - Snapshots and ASCII rendering of a match
//
// Core Types:
//
// Match owns the complete state of one game: both players, the placed walls,
// the seat to move and the winner. A Match is not safe for concurrent use;
// callers serialize access to it (see package session).
//
// Usage:
//
//	match, err := engine.NewMatch(30)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Seat 0 steps forward
//	if err := match.Move(0, engine.Position{X: 4, Y: 1}); err != nil {
//		// errors.Is(err, engine.ErrIllegalAction) == true
//	}
//
//	// Seat 1 drops a horizontal wall
//	err = match.PlaceWall(1, engine.Wall{X: 3, Y: 1, Orientation: engine.Horizontal})
//
// Board Geometry:
//
// The board is 9x9 tiles addressed by (x, y) with 0 <= x, y <= 8. Walls are
// anchored on the 8x8 grid of tile corners and span two tiles. A horizontal
// wall anchored at (x, y) separates rows y and y+1 for columns x and x+1; a
// vertical wall anchored at (x, y) separates columns x and x+1 for rows y and
// y+1. Seat 0 starts at (4,0) and wins on row 8, seat 1 starts at (4,8) and
// wins on row 0.
package engine
