package engine

// Blocker reports whether the edge between two orthogonally adjacent tiles
// is walled off. WallSet and the candidate view returned by WallSet.With
// implement it, so movement and path search share one blocking rule.
type Blocker interface {
	Blocks(a, b Position) bool
}

// WallSet is the append-only set of walls placed in a match.
// Anchors are unique across orientations, so a single 8x8 grid is enough
// for O(1) lookups; order keeps placement order for rendering.
type WallSet struct {
	grid  [WallGridSize][WallGridSize]Orientation
	order []Wall
}

// NewWallSet returns an empty wall set
func NewWallSet() *WallSet {
	return &WallSet{}
}

// Len returns the number of placed walls
func (s *WallSet) Len() int {
	return len(s.order)
}

// Walls returns the placed walls in placement order
func (s *WallSet) Walls() []Wall {
	out := make([]Wall, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether a wall with the given anchor and orientation exists.
// Out-of-range anchors are never occupied.
func (s *WallSet) Has(x, y int, o Orientation) bool {
	if x < 0 || x >= WallGridSize || y < 0 || y >= WallGridSize {
		return false
	}
	return s.grid[y][x] == o
}

// Blocks implements Blocker
func (s *WallSet) Blocks(a, b Position) bool {
	return edgeBlocked(s.Has, a, b)
}

// With returns a read-only view of the set with one extra wall, used to
// probe a placement without mutating the set.
func (s *WallSet) With(w Wall) Blocker {
	return candidateView{base: s, extra: w}
}

// Check validates w against the placement rules that depend only on the
// walls already on the board: orientation, anchor range, duplicates,
// collinear overlap and crossing.
func (s *WallSet) Check(w Wall) error {
	if !w.Orientation.Valid() {
		return ErrInvalidOrientation
	}
	if !w.AnchorInRange() {
		return ErrOutOfBounds
	}
	if s.Has(w.X, w.Y, w.Orientation) {
		return ErrWallOverlap
	}

	switch w.Orientation {
	case Horizontal:
		if s.Has(w.X-1, w.Y, Horizontal) || s.Has(w.X+1, w.Y, Horizontal) {
			return ErrWallOverlap
		}
	case Vertical:
		if s.Has(w.X, w.Y-1, Vertical) || s.Has(w.X, w.Y+1, Vertical) {
			return ErrWallOverlap
		}
	}

	if s.Has(w.X, w.Y, w.Orientation.Opposite()) {
		return ErrWallCrossing
	}
	return nil
}

// add appends a wall that already passed Check
func (s *WallSet) add(w Wall) {
	s.grid[w.Y][w.X] = w.Orientation
	s.order = append(s.order, w)
}

type candidateView struct {
	base  *WallSet
	extra Wall
}

func (v candidateView) has(x, y int, o Orientation) bool {
	if v.extra.X == x && v.extra.Y == y && v.extra.Orientation == o {
		return true
	}
	return v.base.Has(x, y, o)
}

func (v candidateView) Blocks(a, b Position) bool {
	return edgeBlocked(v.has, a, b)
}

// edgeBlocked applies the blocking rule. A step that changes row between
// (c, r) and (c, r+1) is crossed by horizontal walls anchored at (c-1, r)
// and (c, r); a step that changes column between (c, r) and (c+1, r) is
// crossed by vertical walls anchored at (c, r-1) and (c, r).
func edgeBlocked(has func(x, y int, o Orientation) bool, a, b Position) bool {
	switch {
	case a.X == b.X && abs(a.Y-b.Y) == 1:
		row := min(a.Y, b.Y)
		return has(a.X-1, row, Horizontal) || has(a.X, row, Horizontal)
	case a.Y == b.Y && abs(a.X-b.X) == 1:
		col := min(a.X, b.X)
		return has(col, a.Y-1, Vertical) || has(col, a.Y, Vertical)
	}
	// non-adjacent tiles never share an open edge
	return true
}
