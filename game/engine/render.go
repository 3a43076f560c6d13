package engine

import (
	"fmt"
	"strings"
)

// Render draws the board as text with row 0 at the top. Pawns are shown as
// their seat number, walls as "|" and "---", and wall anchors as "+".
//
//	    0   1   2 ...
//	0  .   .   0   .
//	      ---+---
//	1  .   . | .   .
func (m *Match) Render() string {
	var b strings.Builder

	b.WriteString("  ")
	for x := 0; x < BoardSize; x++ {
		fmt.Fprintf(&b, " %d  ", x)
	}
	b.WriteString("\n")

	for y := 0; y < BoardSize; y++ {
		fmt.Fprintf(&b, "%d ", y)
		for x := 0; x < BoardSize; x++ {
			b.WriteString(" " + m.tileChar(Position{X: x, Y: y}) + " ")
			if x < BoardSize-1 {
				if m.walls.Blocks(Position{X: x, Y: y}, Position{X: x + 1, Y: y}) {
					b.WriteString("|")
				} else {
					b.WriteString(" ")
				}
			}
		}
		b.WriteString("\n")

		if y == BoardSize-1 {
			break
		}

		b.WriteString("  ")
		for x := 0; x < BoardSize; x++ {
			if m.walls.Blocks(Position{X: x, Y: y}, Position{X: x, Y: y + 1}) {
				b.WriteString("---")
			} else {
				b.WriteString("   ")
			}
			if x < BoardSize-1 {
				if m.walls.Has(x, y, Horizontal) || m.walls.Has(x, y, Vertical) {
					b.WriteString("+")
				} else {
					b.WriteString(" ")
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Match) tileChar(p Position) string {
	for _, pl := range m.players {
		if pl.Pos == p {
			return fmt.Sprintf("%d", pl.Seat)
		}
	}
	return "."
}
