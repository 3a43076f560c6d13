package service

import (
	"context"

	"github.com/wricardo/quoridor-server/game/engine"
	"github.com/wricardo/quoridor-server/game/session"
)

// GameService defines all match operations shared by the transports
type GameService interface {
	// Room lifecycle
	CreateMatch(ctx context.Context, timerDuration int) (*JoinResult, error)
	JoinMatch(ctx context.Context, code string) (*JoinResult, error)
	GetMatch(ctx context.Context, code string) (*session.Info, error)
	ListMatches(ctx context.Context) ([]*session.Info, error)
	DeleteMatch(ctx context.Context, code string) error

	// Player identity
	Authorize(ctx context.Context, code, token string) (int, error)

	// Actions
	SubmitMove(ctx context.Context, code string, seat, x, y int) (*ActionResult, error)
	SubmitWall(ctx context.Context, code string, seat, x, y int, orientation string) (*ActionResult, error)

	// State
	GetState(ctx context.Context, code string) (*engine.Snapshot, error)
	GetBoard(ctx context.Context, code string) (*BoardView, error)
}

// Registry defines room storage operations
type Registry interface {
	Create(timerDuration int) (*session.Session, int, string, error)
	Join(code string) (*session.Session, int, string, error)
	Get(code string) (*session.Session, error)
	List() []*session.Session
	Delete(code string) error
}

var _ Registry = (*session.Manager)(nil)
