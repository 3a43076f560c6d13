package service

import (
	"github.com/wricardo/quoridor-server/game/engine"
)

// JoinResult is returned to a player that took a seat. Token identifies the
// player on every later request.
type JoinResult struct {
	Code  string `json:"code"`
	Seat  int    `json:"seat"`
	Token string `json:"token"`
}

// ActionResult is the outcome of a submitted move or wall. Rejected actions
// carry no state and no reason.
type ActionResult struct {
	Accepted bool             `json:"accepted"`
	State    *engine.Snapshot `json:"state,omitempty"`
	Winner   *int             `json:"winner,omitempty"`
}

// BoardView is a text rendering of a match with the moves open to the seat
// whose turn it is.
type BoardView struct {
	Code       string            `json:"code"`
	Board      string            `json:"board"`
	Turn       int               `json:"turn"`
	Winner     *int              `json:"winner,omitempty"`
	LegalMoves []engine.Position `json:"legal_moves"`
	Walls      []int             `json:"walls_remaining"`
	Paths      []int             `json:"path_lengths"`
}
