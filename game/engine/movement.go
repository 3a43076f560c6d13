package engine

// canReach checks whether seat's pawn may move to target, which must
// already be in bounds. Turn order and winner are checked by the caller.
func (m *Match) canReach(seat int, target Position) bool {
	self := m.players[seat].Pos
	opp := m.players[1-seat].Pos

	// Simple step
	if ManhattanDistance(self, target) == 1 {
		return target != opp && !m.walls.Blocks(self, target)
	}

	// Everything else is a jump, which needs an adjacent, reachable opponent
	if ManhattanDistance(self, opp) != 1 || m.walls.Blocks(self, opp) {
		return false
	}

	axis := opp.Sub(self)
	straight := opp.Add(axis)
	if straight.InBounds() && !m.walls.Blocks(opp, straight) {
		return target == straight
	}

	// Straight jump is off the board or walled: sidestep around the opponent
	side := target.Sub(opp)
	if ManhattanDistance(opp, target) != 1 || dot(side, axis) != 0 {
		return false
	}
	return !m.walls.Blocks(opp, target)
}

// LegalMoves returns every tile seat could move to right now, ordered by
// row then column. It is empty when it is not seat's turn or the game is over.
func (m *Match) LegalMoves(seat int) []Position {
	if m.checkActor(seat) != nil {
		return nil
	}

	self := m.players[seat].Pos
	var moves []Position
	for y := self.Y - 2; y <= self.Y+2; y++ {
		for x := self.X - 2; x <= self.X+2; x++ {
			p := Position{X: x, Y: y}
			if !p.InBounds() || p == self {
				continue
			}
			if m.canReach(seat, p) {
				moves = append(moves, p)
			}
		}
	}
	return moves
}
