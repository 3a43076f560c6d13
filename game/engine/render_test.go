package engine

import (
	"strings"
	"testing"
)

func renderLines(t *testing.T, m *Match) []string {
	t.Helper()
	out := m.Render()
	if !strings.HasSuffix(out, "\n") {
		t.Fatal("Render output should end with a newline")
	}
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

func TestRender_InitialBoard(t *testing.T) {
	m := newTestMatch(t)
	lines := renderLines(t, m)

	// header, nine rows, eight separator lines
	if len(lines) != 18 {
		t.Fatalf("Expected 18 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "   0   1") {
		t.Errorf("Unexpected header: %q", lines[0])
	}

	// tile x sits at column 3+4x
	if lines[1][19] != '0' {
		t.Errorf("Expected seat 0 at (4,0), got row %q", lines[1])
	}
	if lines[17][19] != '1' {
		t.Errorf("Expected seat 1 at (4,8), got row %q", lines[17])
	}
	if strings.ContainsAny(m.Render(), "|-+") {
		t.Error("Empty board should not draw walls")
	}
}

func TestRender_Walls(t *testing.T) {
	m := newTestMatch(t)
	m.walls.add(Wall{X: 2, Y: 2, Orientation: Vertical})
	m.walls.add(Wall{X: 4, Y: 4, Orientation: Horizontal})
	lines := renderLines(t, m)

	// vertical wall between columns 2 and 3 on rows 2 and 3
	for _, row := range []int{2, 3} {
		if got := lines[1+2*row][13]; got != '|' {
			t.Errorf("Expected '|' on row %d, got %q", row, got)
		}
	}
	if got := lines[6][13]; got != '+' {
		t.Errorf("Expected vertical wall anchor, got %q", got)
	}

	// horizontal wall under columns 4 and 5 of row 4
	sep := lines[10]
	if sep[18:25] != "---+---" {
		t.Errorf("Expected horizontal wall segment, got %q", sep)
	}
	if strings.Contains(sep[:18], "-") || strings.Contains(sep[25:], "-") {
		t.Errorf("Horizontal wall drawn too wide: %q", sep)
	}
}
