package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wricardo/quoridor-server/game/engine"
	"github.com/wricardo/quoridor-server/game/session"
)

const tracerName = "github.com/wricardo/quoridor-server/game/service"

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	rooms  Registry
	tracer trace.Tracer
	logger *zap.Logger
}

// NewGameService creates a new game service instance. Spans go to the
// global tracer provider.
func NewGameService(rooms Registry, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		rooms:  rooms,
		tracer: otel.Tracer(tracerName),
		logger: logger,
	}
}

// CreateMatch creates a room and seats the caller at seat 0
func (s *gameServiceImpl) CreateMatch(ctx context.Context, timerDuration int) (*JoinResult, error) {
	_, span := s.tracer.Start(ctx, "service.CreateMatch",
		trace.WithAttributes(attribute.Int("match.timer_duration", timerDuration)))
	defer span.End()

	sess, seat, token, err := s.rooms.Create(timerDuration)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to create match: %w", err))
	}
	span.SetAttributes(attribute.String("match.code", sess.Code), attribute.Int("match.seat", seat))

	return &JoinResult{Code: sess.Code, Seat: seat, Token: token}, nil
}

// JoinMatch seats the caller in an existing room
func (s *gameServiceImpl) JoinMatch(ctx context.Context, code string) (*JoinResult, error) {
	_, span := s.tracer.Start(ctx, "service.JoinMatch",
		trace.WithAttributes(attribute.String("match.code", code)))
	defer span.End()

	sess, seat, token, err := s.rooms.Join(code)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to join match: %w", err))
	}
	span.SetAttributes(attribute.Int("match.seat", seat))

	return &JoinResult{Code: sess.Code, Seat: seat, Token: token}, nil
}

// GetMatch returns the room summary
func (s *gameServiceImpl) GetMatch(ctx context.Context, code string) (*session.Info, error) {
	_, span := s.tracer.Start(ctx, "service.GetMatch",
		trace.WithAttributes(attribute.String("match.code", code)))
	defer span.End()

	sess, err := s.rooms.Get(code)
	if err != nil {
		return nil, fail(span, err)
	}
	return sess.Info(), nil
}

// ListMatches returns a summary of every live room
func (s *gameServiceImpl) ListMatches(ctx context.Context) ([]*session.Info, error) {
	_, span := s.tracer.Start(ctx, "service.ListMatches")
	defer span.End()

	rooms := s.rooms.List()
	result := make([]*session.Info, 0, len(rooms))
	for _, sess := range rooms {
		result = append(result, sess.Info())
	}
	span.SetAttributes(attribute.Int("match.count", len(result)))
	return result, nil
}

// DeleteMatch destroys a room
func (s *gameServiceImpl) DeleteMatch(ctx context.Context, code string) error {
	_, span := s.tracer.Start(ctx, "service.DeleteMatch",
		trace.WithAttributes(attribute.String("match.code", code)))
	defer span.End()

	if err := s.rooms.Delete(code); err != nil {
		return fail(span, err)
	}
	return nil
}

// Authorize resolves a player token to its seat in the room
func (s *gameServiceImpl) Authorize(ctx context.Context, code, token string) (int, error) {
	_, span := s.tracer.Start(ctx, "service.Authorize",
		trace.WithAttributes(attribute.String("match.code", code)))
	defer span.End()

	sess, err := s.rooms.Get(code)
	if err != nil {
		return 0, fail(span, err)
	}
	seat, err := sess.SeatOf(token)
	if err != nil {
		return 0, fail(span, err)
	}
	span.SetAttributes(attribute.Int("match.seat", seat))
	return seat, nil
}

// SubmitMove submits a pawn move for seat
func (s *gameServiceImpl) SubmitMove(ctx context.Context, code string, seat, x, y int) (*ActionResult, error) {
	_, span := s.tracer.Start(ctx, "service.SubmitMove", trace.WithAttributes(
		attribute.String("match.code", code),
		attribute.Int("match.seat", seat),
		attribute.Int("move.x", x),
		attribute.Int("move.y", y),
	))
	defer span.End()

	sess, err := s.rooms.Get(code)
	if err != nil {
		return nil, fail(span, err)
	}

	snap, err := sess.Move(seat, engine.Position{X: x, Y: y})
	return s.result(span, snap, err)
}

// SubmitWall submits a wall placement for seat
func (s *gameServiceImpl) SubmitWall(ctx context.Context, code string, seat, x, y int, orientation string) (*ActionResult, error) {
	_, span := s.tracer.Start(ctx, "service.SubmitWall", trace.WithAttributes(
		attribute.String("match.code", code),
		attribute.Int("match.seat", seat),
		attribute.Int("wall.x", x),
		attribute.Int("wall.y", y),
		attribute.String("wall.orientation", orientation),
	))
	defer span.End()

	sess, err := s.rooms.Get(code)
	if err != nil {
		return nil, fail(span, err)
	}

	snap, err := sess.PlaceWall(seat, engine.Wall{X: x, Y: y, Orientation: engine.Orientation(orientation)})
	return s.result(span, snap, err)
}

// GetState returns the current snapshot of a room
func (s *gameServiceImpl) GetState(ctx context.Context, code string) (*engine.Snapshot, error) {
	_, span := s.tracer.Start(ctx, "service.GetState",
		trace.WithAttributes(attribute.String("match.code", code)))
	defer span.End()

	sess, err := s.rooms.Get(code)
	if err != nil {
		return nil, fail(span, err)
	}
	return sess.Snapshot(), nil
}

// GetBoard renders a room for text clients
func (s *gameServiceImpl) GetBoard(ctx context.Context, code string) (*BoardView, error) {
	_, span := s.tracer.Start(ctx, "service.GetBoard",
		trace.WithAttributes(attribute.String("match.code", code)))
	defer span.End()

	sess, err := s.rooms.Get(code)
	if err != nil {
		return nil, fail(span, err)
	}

	board := sess.Board()
	state := board.Info.State
	walls := make([]int, 0, len(state.Players))
	for _, p := range state.Players {
		walls = append(walls, p.WallsRemaining)
	}

	return &BoardView{
		Code:       sess.Code,
		Board:      board.Text,
		Turn:       state.Turn,
		Winner:     state.Winner,
		LegalMoves: board.LegalMoves,
		Walls:      walls,
		Paths:      board.Info.PathLengths,
	}, nil
}

// result turns a room action outcome into an ActionResult. Rule violations
// are not errors for the caller: they come back as a rejected result.
func (s *gameServiceImpl) result(span trace.Span, snap *engine.Snapshot, err error) (*ActionResult, error) {
	if errors.Is(err, engine.ErrIllegalAction) {
		span.SetAttributes(attribute.Bool("action.accepted", false))
		return &ActionResult{Accepted: false}, nil
	}
	if err != nil {
		s.logger.Warn("action failed", zap.Error(err))
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Bool("action.accepted", true))
	return &ActionResult{Accepted: true, State: snap, Winner: snap.Winner}, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
