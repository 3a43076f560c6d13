// Command analyze replays recorded Quoridor matches and prints, for every
// action, whether the rules accept it and why not, followed by the
// shortest path each seat still needs and the final board.
//
// Transcripts are JSON files:
//
//	{
//	  "name": "opening",
//	  "timer_duration": 30,
//	  "actions": [
//	    {"seat": 0, "type": "move", "x": 4, "y": 1},
//	    {"seat": 1, "type": "wall", "x": 3, "y": 1, "orientation": "H"}
//	  ]
//	}
//
// Usage: analyze [file...]   (reads stdin when no file is given)
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wricardo/quoridor-server/game/engine"
)

// Transcript is a recorded match
type Transcript struct {
	Name          string   `json:"name"`
	TimerDuration int      `json:"timer_duration"`
	Actions       []Action `json:"actions"`
}

// Action is one submitted move or wall
type Action struct {
	Seat        int    `json:"seat"`
	Type        string `json:"type"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation,omitempty"`
}

// Report summarizes a replay
type Report struct {
	Accepted    int
	Rejected    int
	Winner      *int
	PathLengths [engine.NumSeats]int
}

func main() {
	if len(os.Args) < 2 {
		if _, err := analyze(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	failed := false
	for _, path := range os.Args[1:] {
		fmt.Printf("\n=== Analyzing %s ===\n", path)
		if err := analyzeFile(path); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func analyzeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = analyze(f, os.Stdout)
	return err
}

// analyze decodes a transcript from r, replays it and writes the analysis to w
func analyze(r io.Reader, w io.Writer) (*Report, error) {
	var t Transcript
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	return replay(&t, w)
}

func replay(t *Transcript, w io.Writer) (*Report, error) {
	match, err := engine.NewMatch(t.TimerDuration)
	if err != nil {
		return nil, err
	}

	if t.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", t.Name)
	}
	fmt.Fprintf(w, "Turn timer: %ds\n", match.TimerDuration())
	fmt.Fprintf(w, "Actions: %d\n\n", len(t.Actions))

	report := &Report{}
	for i, a := range t.Actions {
		err := apply(match, a)
		if err != nil {
			report.Rejected++
			fmt.Fprintf(w, "%3d. seat %d %-22s REJECTED: %s\n", i+1, a.Seat, describe(a), reason(err))
			continue
		}
		report.Accepted++
		fmt.Fprintf(w, "%3d. seat %d %-22s ok   paths %d/%d\n", i+1, a.Seat, describe(a),
			match.PathLength(0), match.PathLength(1))
	}

	for seat := range report.PathLengths {
		report.PathLengths[seat] = match.PathLength(seat)
	}
	if winner, ok := match.Winner(); ok {
		report.Winner = &winner
	}

	fmt.Fprintf(w, "\nAccepted: %d, Rejected: %d\n", report.Accepted, report.Rejected)
	for seat := 0; seat < engine.NumSeats; seat++ {
		p := match.Player(seat)
		fmt.Fprintf(w, "Seat %d at (%d,%d), %d walls left, %d steps from goal\n",
			seat, p.Pos.X, p.Pos.Y, p.WallsRemaining, report.PathLengths[seat])
	}
	if report.Winner != nil {
		fmt.Fprintf(w, "Winner: seat %d\n", *report.Winner)
	} else {
		fmt.Fprintf(w, "No winner yet, seat %d to move\n", match.Turn())
	}
	fmt.Fprintf(w, "\n%s\n", match.Render())

	return report, nil
}

func apply(m *engine.Match, a Action) error {
	switch strings.ToLower(a.Type) {
	case "move":
		return m.Move(a.Seat, engine.Position{X: a.X, Y: a.Y})
	case "wall":
		return m.PlaceWall(a.Seat, engine.Wall{
			X:           a.X,
			Y:           a.Y,
			Orientation: engine.Orientation(strings.ToUpper(a.Orientation)),
		})
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
}

func describe(a Action) string {
	if strings.EqualFold(a.Type, "wall") {
		return fmt.Sprintf("wall %s at (%d,%d)", strings.ToUpper(a.Orientation), a.X, a.Y)
	}
	return fmt.Sprintf("%s to (%d,%d)", a.Type, a.X, a.Y)
}

// reason strips the shared illegal action prefix from rule errors
func reason(err error) string {
	return strings.TrimPrefix(err.Error(), engine.ErrIllegalAction.Error()+": ")
}
