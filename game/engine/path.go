package engine

// directions are the four orthogonal steps: up, right, down, left
var directions = [4]Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// HasPath reports whether a pawn standing on start can reach goalRow
// through edges left open by b. Pawns never block paths.
func HasPath(b Blocker, start Position, goalRow int) bool {
	return Distance(b, start, goalRow) >= 0
}

// Distance returns the length of the shortest tile path from start to any
// tile on goalRow, or -1 when the row cannot be reached.
func Distance(b Blocker, start Position, goalRow int) int {
	if !start.InBounds() {
		return -1
	}

	var dist [BoardSize][BoardSize]int
	for y := range dist {
		for x := range dist[y] {
			dist[y][x] = -1
		}
	}
	dist[start.Y][start.X] = 0

	queue := make([]Position, 0, BoardSize*BoardSize)
	queue = append(queue, start)

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		if cur.Y == goalRow {
			return dist[cur.Y][cur.X]
		}
		for _, d := range directions {
			next := cur.Add(d)
			if !next.InBounds() || dist[next.Y][next.X] >= 0 {
				continue
			}
			if b.Blocks(cur, next) {
				continue
			}
			dist[next.Y][next.X] = dist[cur.Y][cur.X] + 1
			queue = append(queue, next)
		}
	}

	return -1
}

// AllConnected reports whether every player can still reach their goal row
func AllConnected(b Blocker, players []Player) bool {
	for _, p := range players {
		if !HasPath(b, p.Pos, p.GoalRow) {
			return false
		}
	}
	return true
}
